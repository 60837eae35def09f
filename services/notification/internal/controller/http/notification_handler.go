package http

import (
	"context"
	"net/http"
	"strconv"
	"time"

	"socialdesk/pkg/jwt"
	"socialdesk/pkg/logger"
	"socialdesk/pkg/response"
	"socialdesk/services/notification/internal/usecase"

	"github.com/gin-gonic/gin"
	"github.com/gorilla/websocket"
	"github.com/redis/go-redis/v9"
)

const pingInterval = 30 * time.Second

var upgrader = websocket.Upgrader{
	CheckOrigin: func(r *http.Request) bool {
		return true
	},
}

// Subscriber opens the live notification channel of a user.
type Subscriber interface {
	Subscribe(ctx context.Context, userID string) *redis.PubSub
}

type NotificationHandler struct {
	notificationUseCase usecase.NotificationUseCase
	subscriber          Subscriber
	logger              *logger.Logger
	jwtService          *jwt.Service
}

func NewNotificationHandler(notificationUseCase usecase.NotificationUseCase, subscriber Subscriber, logger *logger.Logger, jwtService *jwt.Service) *NotificationHandler {
	return &NotificationHandler{
		notificationUseCase: notificationUseCase,
		subscriber:          subscriber,
		logger:              logger,
		jwtService:          jwtService,
	}
}

// GetNotifications godoc
// @Summary      Get user notifications
// @Description  Get notifications for the authenticated user, newest first
// @Tags         notifications
// @Produce      json
// @Security     BearerAuth
// @Param        limit  query int false "Number of notifications to return (max 100)"
// @Param        offset query int false "Offset for pagination"
// @Success      200  {object}  map[string]interface{}
// @Failure      401  {object}  map[string]interface{}
// @Router       /notifications [get]
func (h *NotificationHandler) GetNotifications(c *gin.Context) {
	userID := c.GetString("user_id")
	if userID == "" {
		response.Unauthorized(c)
		return
	}

	limit, _ := strconv.Atoi(c.Query("limit"))
	offset, _ := strconv.Atoi(c.Query("offset"))

	page, err := h.notificationUseCase.GetNotifications(c.Request.Context(), userID, limit, offset)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.OK(c, http.StatusOK, "Notifications retrieved successfully", page)
}

// MarkRead godoc
// @Summary      Mark notification as read
// @Tags         notifications
// @Produce      json
// @Security     BearerAuth
// @Param        id path string true "Notification ID"
// @Success      200  {object}  map[string]interface{}
// @Failure      404  {object}  map[string]interface{}
// @Router       /notifications/{id}/read [patch]
func (h *NotificationHandler) MarkRead(c *gin.Context) {
	userID := c.GetString("user_id")
	if userID == "" {
		response.Unauthorized(c)
		return
	}

	if err := h.notificationUseCase.MarkRead(c.Request.Context(), c.Param("id"), userID); err != nil {
		response.Error(c, err)
		return
	}

	response.OK(c, http.StatusOK, "Notification marked as read", nil)
}

// HandleWebSocket godoc
// @Summary      Live notifications
// @Description  Upgrade to a websocket that streams new notifications. Browsers pass the JWT as the token query parameter.
// @Tags         notifications
// @Param        token query string false "JWT when no Authorization header is sent"
// @Success      101
// @Failure      401  {object}  map[string]interface{}
// @Router       /notifications/ws [get]
func (h *NotificationHandler) HandleWebSocket(c *gin.Context) {
	userID := c.GetString("user_id")
	if userID == "" {
		token := c.Query("token")
		if token == "" {
			response.Unauthorized(c)
			return
		}

		claims, err := h.jwtService.ValidateToken(token)
		if err != nil {
			c.JSON(http.StatusUnauthorized, gin.H{"success": false, "message": "Invalid or expired token"})
			return
		}
		userID = claims.UserID
	}

	conn, err := upgrader.Upgrade(c.Writer, c.Request, nil)
	if err != nil {
		h.logger.Error("Failed to upgrade connection to WebSocket: %v", err)
		return
	}
	defer conn.Close()

	h.logger.Info("WebSocket connected for user %s", userID)

	ctx, cancel := context.WithCancel(c.Request.Context())
	defer cancel()

	pubsub := h.subscriber.Subscribe(ctx, userID)
	defer pubsub.Close()

	go h.forward(ctx, cancel, conn, pubsub.Channel())

	for {
		if _, _, err := conn.ReadMessage(); err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseNormalClosure) {
				h.logger.Warn("WebSocket read error for user %s: %v", userID, err)
			}
			break
		}
	}

	h.logger.Info("WebSocket disconnected for user %s", userID)
}

// forward writes pub/sub messages to conn and keeps it alive with pings.
// gorilla connections allow one concurrent writer, so all writes happen here.
// Closing conn on exit unblocks the reader.
func (h *NotificationHandler) forward(ctx context.Context, cancel context.CancelFunc, conn *websocket.Conn, messages <-chan *redis.Message) {
	defer func() {
		cancel()
		conn.Close()
	}()

	ticker := time.NewTicker(pingInterval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			if err := conn.WriteControl(websocket.PingMessage, nil, time.Now().Add(5*time.Second)); err != nil {
				return
			}
		case msg, ok := <-messages:
			if !ok {
				return
			}
			if err := conn.WriteMessage(websocket.TextMessage, []byte(msg.Payload)); err != nil {
				h.logger.Error("Failed to write WebSocket message: %v", err)
				return
			}
		}
	}
}
