package websocket

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"
)

// Handler upgrades admin requests to notification sockets
type Handler struct {
	hub    *Hub
	logger zerolog.Logger
}

// NewHandler creates a new WebSocket handler
func NewHandler(hub *Hub, logger zerolog.Logger) *Handler {
	return &Handler{
		hub:    hub,
		logger: logger,
	}
}

// HandleConnection godoc
// @Summary Stream admin notifications
// @Description Upgrades the connection to a WebSocket that receives user.registered, story.submitted, donation.created and job.posted events
// @Tags admin, websocket
// @Security BearerAuth
// @Success 101 {string} string "Switching Protocols to WebSocket"
// @Failure 401 {object} dto.ErrorResponse "Unauthorized"
// @Failure 403 {object} dto.ErrorResponse "Admin access required"
// @Router /admin/ws [get]
func (h *Handler) HandleConnection(c *gin.Context) {
	userID := c.GetInt64("userID")
	if userID == 0 {
		c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "User ID not found in context"})
		return
	}

	select {
	case <-h.hub.done:
		c.AbortWithStatusJSON(http.StatusServiceUnavailable, gin.H{"error": "Notification hub is not running"})
		return
	default:
	}

	conn, err := upgrader.Upgrade(c.Writer, c.Request, nil)
	if err != nil {
		h.logger.Error().Err(err).Int64("userID", userID).Msg("Failed to upgrade connection to WebSocket")
		return
	}

	client := &Client{
		hub:    h.hub,
		conn:   conn,
		send:   make(chan []byte, 64),
		userID: userID,
		logger: h.logger,
	}

	select {
	case h.hub.register <- client:
	case <-h.hub.done:
		conn.Close()
		return
	}

	go client.writePump()
	go client.readPump()
}
