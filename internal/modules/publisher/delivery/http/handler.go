package http

import (
	"net/http"

	"anoa.com/newsaddiction/internal/modules/publisher/dto"
	"anoa.com/newsaddiction/internal/modules/publisher/service"
	"anoa.com/newsaddiction/pkg/response"
	"anoa.com/newsaddiction/pkg/validator"
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

type PublisherHandler struct {
	service service.PublisherService
}

func NewPublisherHandler(service service.PublisherService) *PublisherHandler {
	return &PublisherHandler{service: service}
}

// caller resolves the authenticated user and the :id parameter.
func caller(c *gin.Context) (userID, publisherID uuid.UUID, ok bool) {
	userID, err := response.GetUserID(c)
	if err != nil {
		response.ResponseError(c, err)
		return uuid.Nil, uuid.Nil, false
	}
	publisherID, ok = response.ParamUUID(c, "id")
	return userID, publisherID, ok
}

func (h *PublisherHandler) GetDetails(c *gin.Context) {
	readerID, publisherID, ok := caller(c)
	if !ok {
		return
	}

	details, err := h.service.GetPublisherDetails(c.Request.Context(), readerID, publisherID)
	if err != nil {
		response.ResponseError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"data": details})
}

func (h *PublisherHandler) Subscribe(c *gin.Context) {
	readerID, publisherID, ok := caller(c)
	if !ok {
		return
	}

	if err := h.service.Subscribe(c.Request.Context(), readerID, publisherID); err != nil {
		response.ResponseError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"data": dto.SubscriptionResponse{Subscribed: true}})
}

func (h *PublisherHandler) Unsubscribe(c *gin.Context) {
	readerID, publisherID, ok := caller(c)
	if !ok {
		return
	}

	if err := h.service.Unsubscribe(c.Request.Context(), readerID, publisherID); err != nil {
		response.ResponseError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"data": dto.SubscriptionResponse{Subscribed: false}})
}

func (h *PublisherHandler) ToggleSubscription(c *gin.Context) {
	readerID, publisherID, ok := caller(c)
	if !ok {
		return
	}

	subscribed, err := h.service.ToggleSubscription(c.Request.Context(), readerID, publisherID)
	if err != nil {
		response.ResponseError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"data": dto.SubscriptionResponse{Subscribed: subscribed}})
}

func (h *PublisherHandler) AssignedPublishers(c *gin.Context) {
	editorID, err := response.GetUserID(c)
	if err != nil {
		response.ResponseError(c, err)
		return
	}

	publishers, err := h.service.AssignedPublishers(c.Request.Context(), editorID)
	if err != nil {
		response.ResponseError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"data": publishers})
}

func (h *PublisherHandler) Dashboard(c *gin.Context) {
	editorID, publisherID, ok := caller(c)
	if !ok {
		return
	}

	dashboard, err := h.service.Dashboard(c.Request.Context(), editorID, publisherID)
	if err != nil {
		response.ResponseError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"data": dashboard})
}

func (h *PublisherHandler) Journalists(c *gin.Context) {
	editorID, publisherID, ok := caller(c)
	if !ok {
		return
	}

	journalists, err := h.service.Journalists(c.Request.Context(), editorID, publisherID)
	if err != nil {
		response.ResponseError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"data": journalists})
}

func (h *PublisherHandler) AssignableJournalists(c *gin.Context) {
	editorID, publisherID, ok := caller(c)
	if !ok {
		return
	}

	journalists, err := h.service.AssignableJournalists(c.Request.Context(), editorID, publisherID)
	if err != nil {
		response.ResponseError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"data": journalists})
}

func (h *PublisherHandler) AssignJournalist(c *gin.Context) {
	editorID, publisherID, ok := caller(c)
	if !ok {
		return
	}

	var req dto.AssignJournalistInput
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": validator.FormatValidationError(err)})
		return
	}
	journalistID := uuid.MustParse(req.JournalistID)

	if err := h.service.AssignJournalist(c.Request.Context(), editorID, publisherID, journalistID); err != nil {
		response.ResponseError(c, err)
		return
	}

	c.JSON(http.StatusCreated, gin.H{"message": "journalist assigned"})
}

func (h *PublisherHandler) UnassignJournalist(c *gin.Context) {
	editorID, publisherID, ok := caller(c)
	if !ok {
		return
	}
	journalistID, ok := response.ParamUUID(c, "journalist_id")
	if !ok {
		return
	}

	if err := h.service.UnassignJournalist(c.Request.Context(), editorID, publisherID, journalistID); err != nil {
		response.ResponseError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "journalist unassigned"})
}
