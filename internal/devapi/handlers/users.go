package handlers

import (
	"encoding/base64"
	"io"
	"net/http"
	"strings"

	"github.com/14kear/pollboard/internal/devapi/middleware"
	"github.com/14kear/pollboard/internal/domain/models"
	"github.com/gin-gonic/gin"
)

const (
	avatarField   = "avatar"
	maxAvatarSize = 5 << 20
)

type ProfileRequest struct {
	FirstName string `json:"first_name" binding:"required"`
	LastName  string `json:"last_name" binding:"required"`
	Username  string `json:"user_name"`
	Email     string `json:"email" binding:"required,email"`
}

func (h *PollingHandler) UpdateProfile(c *gin.Context) {
	var req ProfileRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid input"})
		return
	}

	user, _ := middleware.CurrentUser(c)
	updated, err := h.polling.UpdateProfile(c.Request.Context(), user.ID, models.ProfileUpdate{
		FirstName: req.FirstName,
		LastName:  req.LastName,
		Username:  req.Username,
		Email:     req.Email,
	})
	if err != nil {
		h.fail(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"user": updated})
}

// UploadAvatar stores the uploaded image inline as a data URL.
func (h *PollingHandler) UploadAvatar(c *gin.Context) {
	header, err := c.FormFile(avatarField)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "missing avatar file"})
		return
	}
	if header.Size > maxAvatarSize {
		c.JSON(http.StatusRequestEntityTooLarge, gin.H{"error": "image must be less than 5MB"})
		return
	}

	file, err := header.Open()
	if err != nil {
		h.fail(c, err)
		return
	}
	defer file.Close()

	data, err := io.ReadAll(io.LimitReader(file, maxAvatarSize+1))
	if err != nil {
		h.fail(c, err)
		return
	}
	if len(data) > maxAvatarSize {
		c.JSON(http.StatusRequestEntityTooLarge, gin.H{"error": "image must be less than 5MB"})
		return
	}

	contentType := http.DetectContentType(data)
	if !strings.HasPrefix(contentType, "image/") {
		c.JSON(http.StatusBadRequest, gin.H{"error": "file is not an image"})
		return
	}

	pictureURL := "data:" + contentType + ";base64," + base64.StdEncoding.EncodeToString(data)

	user, _ := middleware.CurrentUser(c)
	if _, err := h.polling.SetPicture(c.Request.Context(), user.ID, pictureURL); err != nil {
		h.fail(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"pictureUrl": pictureURL})
}

// SetUsername takes the new username as a bare JSON string.
func (h *PollingHandler) SetUsername(c *gin.Context) {
	var username string
	if err := c.ShouldBindJSON(&username); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid input"})
		return
	}

	user, _ := middleware.CurrentUser(c)
	updated, err := h.polling.SetUsername(c.Request.Context(), user.ID, username)
	if err != nil {
		h.fail(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"user": updated})
}

func (h *PollingHandler) GetStats(c *gin.Context) {
	user, _ := middleware.CurrentUser(c)
	stats, err := h.polling.Stats(c.Request.Context(), user.ID)
	if err != nil {
		h.fail(c, err)
		return
	}
	c.JSON(http.StatusOK, stats)
}

func (h *PollingHandler) DeleteAccount(c *gin.Context) {
	user, _ := middleware.CurrentUser(c)
	if err := h.polling.DeleteAccount(c.Request.Context(), user.ID); err != nil {
		h.fail(c, err)
		return
	}

	clearSession(c, h.secure)
	c.JSON(http.StatusOK, gin.H{"message": "account deleted"})
}
