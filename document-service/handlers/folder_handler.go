package handlers

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"cloudlens-backend/document-service/repository"
	"cloudlens-backend/shared/database/models/document"
)

type indexFolderRequest struct {
	ID       *uuid.UUID `json:"id"`
	Name     string     `json:"name" binding:"required"`
	ParentID *uuid.UUID `json:"parent_id"`
	IsPublic bool       `json:"is_public"`
}

// IndexFolder creates or updates a folder
// @Summary Index a folder
// @Description Create or update a folder. Sibling names are unique case-insensitively, shared with extension-less files.
// @Tags folders
// @Accept json
// @Produce json
// @Param folder body indexFolderRequest true "Folder metadata"
// @Security BearerAuth
// @Success 200 {object} map[string]interface{} "Folder indexed"
// @Failure 400 {object} map[string]string "Invalid request data"
// @Failure 403 {object} map[string]string "Parent not accessible"
// @Failure 409 {object} map[string]string "Name conflict"
// @Router /folders [post]
func IndexFolder(ctx *gin.Context) {
	userID, ok := requestUserID(ctx)
	if !ok {
		return
	}

	var req indexFolderRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		ctx.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	folder := document.Folder{
		Name:     req.Name,
		ParentID: req.ParentID,
		IsPublic: req.IsPublic,
	}
	if req.ID != nil {
		folder.ID = *req.ID
	}

	id, err := folders.IndexFolder(ctx.Request.Context(), userID, &folder)
	if err != nil {
		switch {
		case errors.Is(err, repository.ErrParentNotPermitted):
			ctx.JSON(http.StatusForbidden, gin.H{"error": "Parent folder is not accessible"})
		case errors.Is(err, repository.ErrNameConflict):
			ctx.JSON(http.StatusConflict, gin.H{"error": "A file with this name already exists in the folder"})
		default:
			ctx.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to index folder"})
		}
		return
	}

	ctx.JSON(http.StatusOK, gin.H{"id": id})
}

// GetFolder returns a folder's metadata
// @Summary Get a folder
// @Tags folders
// @Produce json
// @Param id path string true "Folder ID"
// @Security BearerAuth
// @Success 200 {object} map[string]interface{} "Folder"
// @Failure 403 {object} map[string]string "Not permitted"
// @Failure 404 {object} map[string]string "Folder not found"
// @Router /folders/{id} [get]
func GetFolder(ctx *gin.Context) {
	userID, ok := requestUserID(ctx)
	if !ok {
		return
	}

	id, err := uuid.Parse(ctx.Param("id"))
	if err != nil {
		ctx.JSON(http.StatusBadRequest, gin.H{"error": "Invalid folder ID"})
		return
	}

	access, folder, err := folders.GetFolder(ctx.Request.Context(), userID, id)
	if err != nil {
		ctx.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to load folder"})
		return
	}
	if !respondForAccess(ctx, access, repository.AccessReadOnly) {
		return
	}

	ctx.JSON(http.StatusOK, gin.H{"folder": folder, "access": access.String()})
}

// DeleteFolder soft-deletes a folder
// @Summary Delete a folder
// @Description Mark a folder as deleted. Children keep their parent reference and reappear on restore.
// @Tags folders
// @Produce json
// @Param id path string true "Folder ID"
// @Security BearerAuth
// @Success 200 {object} map[string]string "Folder deleted"
// @Failure 403 {object} map[string]string "Not permitted"
// @Failure 404 {object} map[string]string "Folder not found"
// @Router /folders/{id} [delete]
func DeleteFolder(ctx *gin.Context) {
	userID, ok := requestUserID(ctx)
	if !ok {
		return
	}

	id, err := uuid.Parse(ctx.Param("id"))
	if err != nil {
		ctx.JSON(http.StatusBadRequest, gin.H{"error": "Invalid folder ID"})
		return
	}

	access, err := folders.DeleteFolder(ctx.Request.Context(), userID, id)
	if err != nil {
		ctx.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to delete folder"})
		return
	}
	if !respondForAccess(ctx, access, repository.AccessFull) {
		return
	}

	ctx.JSON(http.StatusOK, gin.H{"message": "Folder deleted successfully"})
}

// GetFolderContents lists the direct children of a folder
// @Summary List folder contents
// @Description List the folders and documents directly under a folder. Use id "root" for the caller's root.
// @Tags folders
// @Produce json
// @Param id path string true "Folder ID or 'root'"
// @Security BearerAuth
// @Success 200 {object} map[string]interface{} "Folder contents"
// @Failure 403 {object} map[string]string "Not permitted"
// @Failure 404 {object} map[string]string "Folder not found"
// @Router /folders/{id}/contents [get]
func GetFolderContents(ctx *gin.Context) {
	userID, ok := requestUserID(ctx)
	if !ok {
		return
	}

	var folderID *uuid.UUID
	if raw := ctx.Param("id"); raw != "root" {
		id, err := uuid.Parse(raw)
		if err != nil {
			ctx.JSON(http.StatusBadRequest, gin.H{"error": "Invalid folder ID"})
			return
		}
		folderID = &id
	}

	access, subFolders, docs, err := folders.GetFolderContents(ctx.Request.Context(), userID, folderID)
	if err != nil {
		ctx.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to list folder contents"})
		return
	}
	if !respondForAccess(ctx, access, repository.AccessReadOnly) {
		return
	}

	ctx.JSON(http.StatusOK, gin.H{
		"access":    access.String(),
		"folders":   subFolders,
		"documents": docs,
	})
}
