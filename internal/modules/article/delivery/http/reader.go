package http

import (
	"net/http"

	"anoa.com/newsaddiction/internal/modules/article/dto"
	"anoa.com/newsaddiction/pkg/response"
	"anoa.com/newsaddiction/pkg/validator"
	"github.com/gin-gonic/gin"
)

func (h *ArticleHandler) Browse(c *gin.Context) {
	var query dto.BrowseQuery
	if err := c.ShouldBindQuery(&query); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": validator.FormatValidationError(err)})
		return
	}

	articles, meta, err := h.service.BrowsePublished(c.Request.Context(), query)
	if err != nil {
		response.ResponseError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"data": articles, "meta": meta})
}

func (h *ArticleHandler) GetPublished(c *gin.Context) {
	id, ok := response.ParamUUID(c, "id")
	if !ok {
		return
	}

	article, err := h.service.GetPublished(c.Request.Context(), id)
	if err != nil {
		response.ResponseError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"data": article})
}

// API serves the raw article list to basic-auth clients.
func (h *ArticleHandler) API(c *gin.Context) {
	var query dto.APIQuery
	if err := c.ShouldBindQuery(&query); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": validator.FormatValidationError(err)})
		return
	}

	articles, err := h.service.ListForAPI(c.Request.Context(), query)
	if err != nil {
		response.ResponseError(c, err)
		return
	}

	c.JSON(http.StatusOK, articles)
}
