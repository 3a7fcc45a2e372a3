package handler

import (
	"log"
	"net/http"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/gorilla/websocket"
	"github.com/redis/go-redis/v9"

	"anoa.com/peerreview/internal/attributes"
	"anoa.com/peerreview/internal/dto"
	"anoa.com/peerreview/internal/facade"
	"anoa.com/peerreview/internal/logic"
	"anoa.com/peerreview/pkg/response"
)

type NotificationHandler struct {
	facade      *facade.Facade
	redisClient *redis.Client
	upgrader    websocket.Upgrader
}

func NewNotificationHandler(f *facade.Facade, redisClient *redis.Client) *NotificationHandler {
	return &NotificationHandler{
		facade:      f,
		redisClient: redisClient,
		upgrader: websocket.Upgrader{
			ReadBufferSize:  1024,
			WriteBufferSize: 1024,
			CheckOrigin: func(r *http.Request) bool {
				return true // Allow all origins for now
			},
		},
	}
}

// REST Endpoints

func (h *NotificationHandler) CreateNotification(c *gin.Context) {
	var req dto.CreateNotificationRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	created, err := h.facade.CreateNotification(c.Request.Context(), &attributes.NotificationAttributes{
		Title:      req.Title,
		Message:    req.Message,
		Style:      req.Style,
		TargetUser: req.TargetUser,
		StartTime:  req.StartTime,
		EndTime:    req.EndTime,
	})
	if err != nil {
		response.ResponseError(c, err)
		return
	}

	c.JSON(http.StatusCreated, created)
}

func (h *NotificationHandler) GetNotifications(c *gin.Context) {
	notifications, err := h.facade.GetAllNotifications(c.Request.Context())
	if err != nil {
		response.ResponseError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"data": notifications})
}

func (h *NotificationHandler) GetActiveNotifications(c *gin.Context) {
	target := c.DefaultQuery("target", "GENERAL")

	notifications, err := h.facade.GetActiveNotificationsForTarget(c.Request.Context(), target, time.Now())
	if err != nil {
		response.ResponseError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"data": notifications})
}

func (h *NotificationHandler) DeleteNotification(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid uuid format"})
		return
	}

	if err := h.facade.DeleteNotification(c.Request.Context(), id); err != nil {
		response.ResponseError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "notification deleted successfully"})
}

// WebSocket Endpoint

// HandleWebSocket streams announcements for the requested target group plus
// the GENERAL channel to the connected client.
func (h *NotificationHandler) HandleWebSocket(c *gin.Context) {
	target := strings.ToLower(c.DefaultQuery("target", "general"))

	conn, err := h.upgrader.Upgrade(c.Writer, c.Request, nil)
	if err != nil {
		log.Printf("Failed to upgrade websocket: %v", err)
		return
	}
	defer conn.Close()

	if h.redisClient == nil {
		log.Println("Redis client is nil, cannot subscribe")
		return
	}

	channels := []string{logic.NotificationChannelPrefix + "general"}
	if target != "general" {
		channels = append(channels, logic.NotificationChannelPrefix+target)
	}
	pubsub := h.redisClient.Subscribe(c.Request.Context(), channels...)
	defer pubsub.Close()

	// Wait for confirmation that subscription is created
	if _, err := pubsub.Receive(c.Request.Context()); err != nil {
		log.Printf("Failed to subscribe to redis channel: %v", err)
		return
	}

	ch := pubsub.Channel()

	clientClosed := make(chan struct{})
	go func() {
		defer close(clientClosed)
		for {
			if _, _, err := conn.ReadMessage(); err != nil {
				// Client disconnected or error
				return
			}
		}
	}()

	for {
		select {
		case msg := <-ch:
			// Payload is already the JSON document, forward as-is
			if err := conn.WriteMessage(websocket.TextMessage, []byte(msg.Payload)); err != nil {
				log.Printf("Failed to write message to websocket: %v", err)
				return
			}
		case <-clientClosed:
			return
		case <-c.Request.Context().Done():
			return
		}
	}
}
