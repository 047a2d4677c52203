package handlers

import (
	"net/http"

	"github.com/14kear/pollboard/internal/devapi/middleware"
	"github.com/14kear/pollboard/internal/domain/models"
	"github.com/gin-gonic/gin"
)

func (h *PollingHandler) GetComments(c *gin.Context) {
	comments, err := h.polling.Comments(c.Request.Context(), c.Param("id"))
	if err != nil {
		h.fail(c, err)
		return
	}
	c.JSON(http.StatusOK, comments)
}

func (h *PollingHandler) CreateComment(c *gin.Context) {
	var req models.NewComment
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid input"})
		return
	}

	user, _ := middleware.CurrentUser(c)
	comment, err := h.polling.AddComment(c.Request.Context(), user, c.Param("id"), req)
	if err != nil {
		h.fail(c, err)
		return
	}
	c.JSON(http.StatusCreated, comment)
}

func (h *PollingHandler) DeleteComment(c *gin.Context) {
	user, _ := middleware.CurrentUser(c)
	if err := h.polling.DeleteComment(c.Request.Context(), user, c.Param("id"), c.Param("commentID")); err != nil {
		h.fail(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "comment deleted"})
}
