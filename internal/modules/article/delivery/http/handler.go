package http

import (
	"errors"
	"net/http"
	"strings"

	"anoa.com/newsaddiction/internal/modules/article/dto"
	"anoa.com/newsaddiction/internal/modules/article/service"
	commonDto "anoa.com/newsaddiction/pkg/dto"
	"anoa.com/newsaddiction/pkg/response"
	"anoa.com/newsaddiction/pkg/validator"
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

type ArticleHandler struct {
	service service.ArticleService
}

func NewArticleHandler(service service.ArticleService) *ArticleHandler {
	return &ArticleHandler{service: service}
}

// caller resolves the authenticated user and the :id parameter.
func caller(c *gin.Context) (userID, id uuid.UUID, ok bool) {
	userID, err := response.GetUserID(c)
	if err != nil {
		response.ResponseError(c, err)
		return uuid.Nil, uuid.Nil, false
	}
	id, ok = response.ParamUUID(c, "id")
	return userID, id, ok
}

// bindArticle binds the form or JSON body together with an optional "image" upload.
// The returned func closes the upload and must always be called.
func bindArticle(c *gin.Context, input *dto.ArticleInput, obj any) (func(), bool) {
	if err := c.ShouldBind(obj); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": validator.FormatValidationError(err)})
		return func() {}, false
	}

	if !strings.HasPrefix(c.ContentType(), "multipart/") {
		return func() {}, true
	}
	header, err := c.FormFile("image")
	if err != nil {
		if errors.Is(err, http.ErrMissingFile) {
			return func() {}, true
		}
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid image"})
		return func() {}, false
	}
	file, err := header.Open()
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid image"})
		return func() {}, false
	}
	input.Image = &commonDto.UploadFile{Reader: file, FileName: header.Filename}
	return func() { file.Close() }, true
}

// Journalist endpoints.

func (h *ArticleHandler) Create(c *gin.Context) {
	journalistID, err := response.GetUserID(c)
	if err != nil {
		response.ResponseError(c, err)
		return
	}

	var req dto.ArticleInput
	closeFile, ok := bindArticle(c, &req, &req)
	defer closeFile()
	if !ok {
		return
	}

	article, err := h.service.CreateArticle(c.Request.Context(), journalistID, req)
	if err != nil {
		response.ResponseError(c, err)
		return
	}

	c.JSON(http.StatusCreated, gin.H{"data": article})
}

func (h *ArticleHandler) ListMine(c *gin.Context) {
	journalistID, err := response.GetUserID(c)
	if err != nil {
		response.ResponseError(c, err)
		return
	}

	articles, err := h.service.ListMyArticles(c.Request.Context(), journalistID)
	if err != nil {
		response.ResponseError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"data": articles})
}

func (h *ArticleHandler) GetMine(c *gin.Context) {
	journalistID, id, ok := caller(c)
	if !ok {
		return
	}

	article, err := h.service.GetMyArticle(c.Request.Context(), journalistID, id)
	if err != nil {
		response.ResponseError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"data": article})
}

func (h *ArticleHandler) Update(c *gin.Context) {
	journalistID, id, ok := caller(c)
	if !ok {
		return
	}

	var req dto.ArticleInput
	closeFile, ok := bindArticle(c, &req, &req)
	defer closeFile()
	if !ok {
		return
	}

	article, err := h.service.UpdateArticle(c.Request.Context(), journalistID, id, req)
	if err != nil {
		response.ResponseError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"data": article})
}

func (h *ArticleHandler) Delete(c *gin.Context) {
	journalistID, id, ok := caller(c)
	if !ok {
		return
	}

	if err := h.service.DeleteArticle(c.Request.Context(), journalistID, id); err != nil {
		response.ResponseError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "article deleted"})
}

func (h *ArticleHandler) PublishOptions(c *gin.Context) {
	journalistID, id, ok := caller(c)
	if !ok {
		return
	}

	options, err := h.service.PublishOptions(c.Request.Context(), journalistID, id)
	if err != nil {
		response.ResponseError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"data": options})
}

func (h *ArticleHandler) Publish(c *gin.Context) {
	journalistID, id, ok := caller(c)
	if !ok {
		return
	}

	var req dto.PublishInput
	if err := c.ShouldBind(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": validator.FormatValidationError(err)})
		return
	}

	result, err := h.service.Publish(c.Request.Context(), journalistID, id, req.Choice)
	if err != nil {
		response.ResponseError(c, err)
		return
	}

	c.JSON(http.StatusOK, result)
}
