package services

import (
	"log"
	"net/http"
	"sync"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/gorilla/websocket"
)

// DocumentEvent is pushed to connected clients when the extraction worker
// finishes with a document
type DocumentEvent struct {
	Type       string    `json:"type"` // "text_extracted", "no_text"
	DocumentID string    `json:"document_id"`
	UserID     string    `json:"user_id"`
	Timestamp  time.Time `json:"timestamp"`
}

// EventsService fans document events out to the owner's websocket
// connections. One connection per user id; a reconnect replaces the old one.
type EventsService struct {
	clients  map[string]*websocket.Conn // userID -> connection
	mutex    sync.RWMutex
	upgrader websocket.Upgrader
}

var (
	eventsService *EventsService
	eventsOnce    sync.Once
)

// GetEventsService returns the singleton events service
func GetEventsService() *EventsService {
	eventsOnce.Do(func() {
		eventsService = &EventsService{
			clients: make(map[string]*websocket.Conn),
			upgrader: websocket.Upgrader{
				CheckOrigin: func(r *http.Request) bool {
					return true
				},
			},
		}
	})
	return eventsService
}

// HandleConnection upgrades the request and registers the connection for the
// user. Blocks until the client disconnects.
func (s *EventsService) HandleConnection(ctx *gin.Context, userID string) {
	conn, err := s.upgrader.Upgrade(ctx.Writer, ctx.Request, nil)
	if err != nil {
		log.Printf("❌ WebSocket upgrade failed for user %s: %v", userID, err)
		return
	}

	s.mutex.Lock()
	if existing, ok := s.clients[userID]; ok {
		existing.Close()
	}
	s.clients[userID] = conn
	total := len(s.clients)
	s.mutex.Unlock()

	log.Printf("🔌 Events client connected: %s (Total: %d)", userID, total)

	// Drain control frames until the peer goes away
	for {
		if _, _, err := conn.ReadMessage(); err != nil {
			break
		}
	}

	s.mutex.Lock()
	if current, ok := s.clients[userID]; ok && current == conn {
		delete(s.clients, userID)
	}
	s.mutex.Unlock()
	conn.Close()

	log.Printf("🔌 Events client disconnected: %s", userID)
}

// Publish sends an event to the owning user's connection, if any. Safe to
// call on a nil receiver so event delivery stays optional.
func (s *EventsService) Publish(event DocumentEvent) {
	if s == nil {
		return
	}

	event.Timestamp = time.Now().UTC()

	s.mutex.RLock()
	conn, ok := s.clients[event.UserID]
	s.mutex.RUnlock()

	if !ok {
		return
	}

	if err := conn.WriteJSON(event); err != nil {
		log.Printf("Warning: failed to push event to user %s: %v", event.UserID, err)
	}
}
