package handlers

import (
	"cloudlens-backend/document-service/services"

	"github.com/gin-gonic/gin"
)

// StreamEvents upgrades the connection and streams extraction status events
// @Summary Stream document events
// @Description WebSocket stream of text extraction status events for the authenticated user.
// @Tags events
// @Security BearerAuth
// @Success 101 "Switching protocols"
// @Router /events [get]
func StreamEvents(ctx *gin.Context) {
	userID, ok := requestUserID(ctx)
	if !ok {
		return
	}

	services.GetEventsService().HandleConnection(ctx, userID.String())
}
