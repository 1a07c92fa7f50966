package http

import (
	"net/http"

	"anoa.com/newsaddiction/internal/modules/notification/service"
	commonDto "anoa.com/newsaddiction/pkg/dto"
	"anoa.com/newsaddiction/pkg/response"
	"anoa.com/newsaddiction/pkg/validator"
	"github.com/gin-gonic/gin"
	"github.com/gorilla/websocket"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
)

type NotificationHandler struct {
	service     service.NotificationService
	redisClient *redis.Client
	upgrader    websocket.Upgrader
	log         *zap.Logger
}

func NewNotificationHandler(service service.NotificationService, redisClient *redis.Client, checkOrigin func(r *http.Request) bool, log *zap.Logger) *NotificationHandler {
	return &NotificationHandler{
		service:     service,
		redisClient: redisClient,
		upgrader: websocket.Upgrader{
			ReadBufferSize:  1024,
			WriteBufferSize: 1024,
			CheckOrigin:     checkOrigin,
		},
		log: log.Named("notification_ws"),
	}
}

func (h *NotificationHandler) GetNotifications(c *gin.Context) {
	userID, err := response.GetUserID(c)
	if err != nil {
		response.ResponseError(c, err)
		return
	}

	var query commonDto.PaginationQuery
	if err := c.ShouldBindQuery(&query); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": validator.FormatValidationError(err)})
		return
	}
	query.Normalize()

	notifications, total, err := h.service.GetNotifications(c.Request.Context(), userID, query.Limit, query.Offset())
	if err != nil {
		response.ResponseError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"data": notifications,
		"meta": commonDto.NewPaginationMeta(query.Page, query.Limit, total),
	})
}

func (h *NotificationHandler) MarkAsRead(c *gin.Context) {
	userID, err := response.GetUserID(c)
	if err != nil {
		response.ResponseError(c, err)
		return
	}
	id, ok := response.ParamUUID(c, "id")
	if !ok {
		return
	}

	if err := h.service.MarkAsRead(c.Request.Context(), id, userID); err != nil {
		response.ResponseError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "Marked as read"})
}

func (h *NotificationHandler) MarkAllAsRead(c *gin.Context) {
	userID, err := response.GetUserID(c)
	if err != nil {
		response.ResponseError(c, err)
		return
	}

	if err := h.service.MarkAllAsRead(c.Request.Context(), userID); err != nil {
		response.ResponseError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "All notifications marked as read"})
}

func (h *NotificationHandler) UnreadCount(c *gin.Context) {
	userID, err := response.GetUserID(c)
	if err != nil {
		response.ResponseError(c, err)
		return
	}

	count, err := h.service.UnreadCount(c.Request.Context(), userID)
	if err != nil {
		response.ResponseError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"count": count})
}

// HandleWebSocket streams the caller's notifications as they are published.
// Browsers cannot set headers on the upgrade, so the route accepts ?token=.
func (h *NotificationHandler) HandleWebSocket(c *gin.Context) {
	userID, err := response.GetUserID(c)
	if err != nil {
		response.ResponseError(c, err)
		return
	}

	if h.redisClient == nil {
		c.JSON(http.StatusServiceUnavailable, gin.H{"error": "live notifications are disabled"})
		return
	}

	conn, err := h.upgrader.Upgrade(c.Writer, c.Request, nil)
	if err != nil {
		h.log.Warn("failed to upgrade websocket", zap.Error(err))
		return
	}
	defer conn.Close()

	ctx := c.Request.Context()
	pubsub := h.redisClient.Subscribe(ctx, service.Channel(userID))
	defer pubsub.Close()

	if _, err := pubsub.Receive(ctx); err != nil {
		h.log.Warn("failed to subscribe to redis channel", zap.String("user_id", userID.String()), zap.Error(err))
		return
	}

	ch := pubsub.Channel()
	clientClosed := make(chan struct{})

	go func() {
		defer close(clientClosed)
		for {
			if _, _, err := conn.ReadMessage(); err != nil {
				return
			}
		}
	}()

	for {
		select {
		case msg, ok := <-ch:
			if !ok {
				return
			}
			if err := conn.WriteMessage(websocket.TextMessage, []byte(msg.Payload)); err != nil {
				h.log.Debug("websocket write failed", zap.Error(err))
				return
			}
		case <-clientClosed:
			return
		case <-ctx.Done():
			return
		}
	}
}
