package http

import (
	"net/http"

	"anoa.com/newsaddiction/internal/modules/article/dto"
	"anoa.com/newsaddiction/pkg/response"
	"github.com/gin-gonic/gin"
)

func (h *ArticleHandler) Approve(c *gin.Context) {
	editorID, id, ok := caller(c)
	if !ok {
		return
	}

	result, err := h.service.Approve(c.Request.Context(), editorID, id)
	if err != nil {
		response.ResponseError(c, err)
		return
	}

	c.JSON(http.StatusOK, result)
}

func (h *ArticleHandler) Reject(c *gin.Context) {
	editorID, id, ok := caller(c)
	if !ok {
		return
	}

	result, err := h.service.Reject(c.Request.Context(), editorID, id)
	if err != nil {
		response.ResponseError(c, err)
		return
	}

	c.JSON(http.StatusOK, result)
}

func (h *ArticleHandler) EditorGet(c *gin.Context) {
	editorID, id, ok := caller(c)
	if !ok {
		return
	}

	article, err := h.service.EditorGet(c.Request.Context(), editorID, id)
	if err != nil {
		response.ResponseError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"data": article})
}

func (h *ArticleHandler) EditorUpdate(c *gin.Context) {
	editorID, id, ok := caller(c)
	if !ok {
		return
	}

	var req dto.EditorArticleInput
	closeFile, ok := bindArticle(c, &req.ArticleInput, &req)
	defer closeFile()
	if !ok {
		return
	}

	result, err := h.service.EditorUpdate(c.Request.Context(), editorID, id, req)
	if err != nil {
		response.ResponseError(c, err)
		return
	}

	c.JSON(http.StatusOK, result)
}

func (h *ArticleHandler) EditorDelete(c *gin.Context) {
	editorID, id, ok := caller(c)
	if !ok {
		return
	}

	if err := h.service.EditorDelete(c.Request.Context(), editorID, id); err != nil {
		response.ResponseError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "article deleted"})
}

// PublisherArticles lists everything routed to the publisher in :id.
func (h *ArticleHandler) PublisherArticles(c *gin.Context) {
	editorID, publisherID, ok := caller(c)
	if !ok {
		return
	}

	articles, err := h.service.ListPublisherArticles(c.Request.Context(), editorID, publisherID)
	if err != nil {
		response.ResponseError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"data": articles})
}
