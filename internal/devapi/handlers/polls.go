package handlers

import (
	"errors"
	"log/slog"
	"net/http"
	"strconv"
	"strings"

	"github.com/14kear/pollboard/internal/devapi/middleware"
	"github.com/14kear/pollboard/internal/devapi/services/polling"
	"github.com/14kear/pollboard/internal/devapi/storage"
	"github.com/14kear/pollboard/internal/domain/models"
	sl "github.com/14kear/sso-prettyslog/slogpretty/errors"
	"github.com/gin-gonic/gin"
)

type PollingHandler struct {
	log     *slog.Logger
	polling *polling.Polling
	secure  bool
}

type VoteRequest struct {
	OptionID string `json:"optionId" binding:"required"`
}

func NewPollingHandler(log *slog.Logger, polling *polling.Polling, secure bool) *PollingHandler {
	return &PollingHandler{log: log, polling: polling, secure: secure}
}

func (h *PollingHandler) ActivePolls(c *gin.Context) {
	page, ok := pageQuery(c)
	if !ok {
		return
	}

	polls, err := h.polling.Active(c.Request.Context(), viewerID(c), page)
	if err != nil {
		h.fail(c, err)
		return
	}
	c.JSON(http.StatusOK, polls)
}

func (h *PollingHandler) FinishedPolls(c *gin.Context) {
	page, ok := pageQuery(c)
	if !ok {
		return
	}

	polls, err := h.polling.Finished(c.Request.Context(), viewerID(c), page)
	if err != nil {
		h.fail(c, err)
		return
	}
	c.JSON(http.StatusOK, polls)
}

func (h *PollingHandler) UserPolls(c *gin.Context) {
	page, ok := pageQuery(c)
	if !ok {
		return
	}

	polls, err := h.polling.ByUser(c.Request.Context(), viewerID(c), c.Param("id"), page)
	if err != nil {
		h.fail(c, err)
		return
	}
	c.JSON(http.StatusOK, polls)
}

func (h *PollingHandler) RecentPolls(c *gin.Context) {
	polls, err := h.polling.Recent(c.Request.Context(), viewerID(c))
	if err != nil {
		h.fail(c, err)
		return
	}
	c.JSON(http.StatusOK, polls)
}

func (h *PollingHandler) GetPollByID(c *gin.Context) {
	poll, err := h.polling.Poll(c.Request.Context(), viewerID(c), c.Param("id"))
	if err != nil {
		h.fail(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"poll": poll})
}

func (h *PollingHandler) CreatePoll(c *gin.Context) {
	var req models.NewPoll
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid input"})
		return
	}

	user, _ := middleware.CurrentUser(c)
	poll, err := h.polling.CreatePoll(c.Request.Context(), user.ID, req)
	if err != nil {
		h.fail(c, err)
		return
	}
	c.JSON(http.StatusCreated, gin.H{"poll": poll})
}

func (h *PollingHandler) DeletePoll(c *gin.Context) {
	user, _ := middleware.CurrentUser(c)
	if err := h.polling.DeletePoll(c.Request.Context(), user, c.Param("id")); err != nil {
		h.fail(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "poll deleted"})
}

// Vote answers with the whole updated poll.
func (h *PollingHandler) Vote(c *gin.Context) {
	var req VoteRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid input"})
		return
	}

	user, _ := middleware.CurrentUser(c)
	poll, err := h.polling.Vote(c.Request.Context(), user.ID, c.Param("id"), req.OptionID)
	if err != nil {
		h.fail(c, err)
		return
	}
	c.JSON(http.StatusOK, poll)
}

func viewerID(c *gin.Context) string {
	user, _ := middleware.CurrentUser(c)
	return user.ID
}

// pageQuery reads limit, offset and category. It answers 400 itself on
// malformed values.
func pageQuery(c *gin.Context) (polling.Page, bool) {
	var page polling.Page

	for name, dst := range map[string]*int{"limit": &page.Limit, "offset": &page.Offset} {
		raw := c.Query(name)
		if raw == "" {
			continue
		}
		n, err := strconv.Atoi(raw)
		if err != nil || n < 0 {
			c.JSON(http.StatusBadRequest, gin.H{"error": "invalid " + name})
			return polling.Page{}, false
		}
		*dst = n
	}

	category, err := models.ParseCategory(c.Query("category"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return polling.Page{}, false
	}
	page.Category = category

	return page, true
}

// fail maps service errors onto HTTP statuses.
func (h *PollingHandler) fail(c *gin.Context, err error) {
	switch {
	case errors.Is(err, polling.ErrValidation):
		c.JSON(http.StatusBadRequest, gin.H{"error": validationMessage(err)})
	case errors.Is(err, storage.ErrOptionNotFound):
		c.JSON(http.StatusBadRequest, gin.H{"error": "option not found"})
	case errors.Is(err, polling.ErrPollClosed):
		c.JSON(http.StatusBadRequest, gin.H{"error": "poll is closed"})
	case errors.Is(err, polling.ErrForbidden):
		c.JSON(http.StatusForbidden, gin.H{"error": "forbidden"})
	case errors.Is(err, storage.ErrPollNotFound):
		c.JSON(http.StatusNotFound, gin.H{"error": "poll not found"})
	case errors.Is(err, storage.ErrCommentNotFound):
		c.JSON(http.StatusNotFound, gin.H{"error": "comment not found"})
	case errors.Is(err, storage.ErrUserNotFound):
		c.JSON(http.StatusNotFound, gin.H{"error": "user not found"})
	case errors.Is(err, storage.ErrUsernameTaken):
		c.JSON(http.StatusConflict, gin.H{"errors": gin.H{"Conflict": "username already taken"}})
	case errors.Is(err, storage.ErrUserAlreadyExists):
		c.JSON(http.StatusConflict, gin.H{"errors": gin.H{"Conflict": "email already in use"}})
	default:
		h.log.Error("request failed", slog.String("path", c.FullPath()), sl.Err(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "internal error"})
	}
}

// validationMessage is the reason following the ErrValidation marker.
func validationMessage(err error) string {
	msg := err.Error()
	marker := polling.ErrValidation.Error() + ": "
	if i := strings.Index(msg, marker); i >= 0 {
		return msg[i+len(marker):]
	}
	return polling.ErrValidation.Error()
}
