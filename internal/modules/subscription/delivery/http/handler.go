package http

import (
	"net/http"

	"anoa.com/newsaddiction/internal/modules/subscription/dto"
	"anoa.com/newsaddiction/internal/modules/subscription/service"
	"anoa.com/newsaddiction/pkg/response"
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

type SubscriptionHandler struct {
	service service.SubscriptionService
}

func NewSubscriptionHandler(service service.SubscriptionService) *SubscriptionHandler {
	return &SubscriptionHandler{service: service}
}

func readerAndJournalist(c *gin.Context) (uuid.UUID, uuid.UUID, bool) {
	readerID, err := response.GetUserID(c)
	if err != nil {
		response.ResponseError(c, err)
		return uuid.Nil, uuid.Nil, false
	}
	journalistID, ok := response.ParamUUID(c, "id")
	return readerID, journalistID, ok
}

func (h *SubscriptionHandler) GetJournalist(c *gin.Context) {
	readerID, journalistID, ok := readerAndJournalist(c)
	if !ok {
		return
	}

	details, err := h.service.GetJournalistDetails(c.Request.Context(), readerID, journalistID)
	if err != nil {
		response.ResponseError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"data": details})
}

func (h *SubscriptionHandler) Subscribe(c *gin.Context) {
	readerID, journalistID, ok := readerAndJournalist(c)
	if !ok {
		return
	}

	if err := h.service.Subscribe(c.Request.Context(), readerID, journalistID); err != nil {
		response.ResponseError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"data": dto.SubscriptionResponse{Subscribed: true}})
}

func (h *SubscriptionHandler) Unsubscribe(c *gin.Context) {
	readerID, journalistID, ok := readerAndJournalist(c)
	if !ok {
		return
	}

	if err := h.service.Unsubscribe(c.Request.Context(), readerID, journalistID); err != nil {
		response.ResponseError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"data": dto.SubscriptionResponse{Subscribed: false}})
}

func (h *SubscriptionHandler) Toggle(c *gin.Context) {
	readerID, journalistID, ok := readerAndJournalist(c)
	if !ok {
		return
	}

	subscribed, err := h.service.Toggle(c.Request.Context(), readerID, journalistID)
	if err != nil {
		response.ResponseError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"data": dto.SubscriptionResponse{Subscribed: subscribed}})
}
