package app

import (
	"bytes"
	"context"
	"encoding/json"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/14kear/pollboard/internal/config"
	"github.com/14kear/pollboard/internal/devapi/middleware"
	"github.com/14kear/pollboard/internal/domain/models"
	"github.com/14kear/pollboard/utils"
	"github.com/brianvoe/gofakeit/v7"
	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var pngHeader = []byte("\x89PNG\r\n\x1a\n\x00\x00\x00\rIHDR")

func newTestApp(t *testing.T) *App {
	t.Helper()

	gin.SetMode(gin.TestMode)
	return NewApp(utils.Discard(), utils.EnvLocal, config.DevAPIConfig{
		Secret:          "test-secret",
		AccessTokenTTL:  time.Minute,
		RefreshTokenTTL: time.Hour,
		AllowedOrigins:  []string{"http://localhost:3000"},
	})
}

type caller struct {
	t       *testing.T
	handler http.Handler
	bearer  string
	cookies []*http.Cookie
}

func (c *caller) do(method, path string, body any) *httptest.ResponseRecorder {
	c.t.Helper()

	var reader *bytes.Reader
	if body != nil {
		raw, err := json.Marshal(body)
		require.NoError(c.t, err)
		reader = bytes.NewReader(raw)
	} else {
		reader = bytes.NewReader(nil)
	}

	req := httptest.NewRequest(method, APIPrefix+path, reader)
	req.Header.Set("Content-Type", "application/json")
	return c.send(req)
}

func (c *caller) send(req *http.Request) *httptest.ResponseRecorder {
	if c.bearer != "" {
		req.Header.Set("Authorization", c.bearer)
	}
	for _, cookie := range c.cookies {
		req.AddCookie(cookie)
	}

	w := httptest.NewRecorder()
	c.handler.ServeHTTP(w, req)
	return w
}

func (c *caller) register(t *testing.T) models.User {
	t.Helper()

	w := c.do(http.MethodPost, "/auth/register", map[string]string{
		"email":      gofakeit.Email(),
		"first_name": gofakeit.FirstName(),
		"last_name":  gofakeit.LastName(),
		"password":   "secret-password",
	})
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())

	c.bearer = w.Header().Get("Authorization")
	require.True(t, strings.HasPrefix(c.bearer, "Bearer "))
	c.cookies = w.Result().Cookies()

	var resp struct {
		User models.User `json:"user"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	return resp.User
}

func decode[T any](t *testing.T, w *httptest.ResponseRecorder) T {
	t.Helper()

	var v T
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &v), w.Body.String())
	return v
}

func createPoll(t *testing.T, c *caller, category models.Category) models.Poll {
	t.Helper()

	w := c.do(http.MethodPost, "/polls", models.NewPoll{
		Title:     gofakeit.Sentence(4),
		Category:  category,
		ExpiresAt: "7",
		Options:   []models.NewPollOption{{ID: 1, Name: "Yes"}, {ID: 2, Name: "No"}},
	})
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())

	return decode[struct {
		Poll models.Poll `json:"poll"`
	}](t, w).Poll
}

func TestPing(t *testing.T) {
	a := newTestApp(t)

	w := httptest.NewRecorder()
	a.HTTPServer.Engine().ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/ping", nil))

	assert.Equal(t, http.StatusOK, w.Code)
	assert.JSONEq(t, `{"message":"pong"}`, w.Body.String())
}

func TestNewApp_NoOriginsFallsBackToDefault(t *testing.T) {
	gin.SetMode(gin.TestMode)

	var a *App
	require.NotPanics(t, func() {
		a = NewApp(utils.Discard(), utils.EnvLocal, config.DevAPIConfig{
			Secret:          "test-secret",
			AccessTokenTTL:  time.Minute,
			RefreshTokenTTL: time.Hour,
		})
	})

	req := httptest.NewRequest(http.MethodGet, "/ping", nil)
	req.Header.Set("Origin", DefaultOrigin)
	w := httptest.NewRecorder()
	a.HTTPServer.Engine().ServeHTTP(w, req)

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, DefaultOrigin, w.Header().Get("Access-Control-Allow-Origin"))
}

func TestAuthFlow(t *testing.T) {
	a := newTestApp(t)
	c := &caller{t: t, handler: a.HTTPServer.Engine()}

	user := c.register(t)
	names := make([]string, 0, len(c.cookies))
	for _, cookie := range c.cookies {
		names = append(names, cookie.Name)
		assert.True(t, cookie.HttpOnly)
	}
	assert.ElementsMatch(t, []string{middleware.AccessCookie, middleware.RefreshCookie}, names)

	// Same email again.
	w := c.do(http.MethodPost, "/auth/register", map[string]string{
		"email": user.Email, "first_name": "A", "last_name": "B", "password": "secret-password",
	})
	assert.Equal(t, http.StatusConflict, w.Code)

	w = c.do(http.MethodPost, "/auth/login", map[string]string{"email": user.Email, "password": "wrong"})
	assert.Equal(t, http.StatusUnauthorized, w.Code)

	w = c.do(http.MethodPost, "/auth/login", map[string]string{"email": user.Email, "password": "secret-password"})
	require.Equal(t, http.StatusOK, w.Code)
	assert.NotEmpty(t, w.Header().Get("Authorization"))

	// Refresh works from the cookie alone.
	c.bearer = ""
	w = c.do(http.MethodPost, "/auth/refresh", nil)
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	assert.NotEmpty(t, w.Header().Get("Authorization"))

	// The rotated-out refresh token no longer works.
	w = c.do(http.MethodPost, "/auth/refresh", nil)
	assert.Equal(t, http.StatusUnauthorized, w.Code)

	anon := &caller{t: t, handler: a.HTTPServer.Engine()}
	w = anon.do(http.MethodPost, "/auth/refresh", nil)
	assert.Equal(t, http.StatusUnauthorized, w.Code)

	w = anon.do(http.MethodGet, "/auth/github/login", nil)
	assert.Equal(t, http.StatusNotImplemented, w.Code)
	w = anon.do(http.MethodGet, "/auth/myspace/login", nil)
	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestPrivateRoutesRequireAuth(t *testing.T) {
	a := newTestApp(t)
	anon := &caller{t: t, handler: a.HTTPServer.Engine()}

	for _, route := range []struct{ method, path string }{
		{http.MethodPost, "/polls"},
		{http.MethodPost, "/polls/p1/vote"},
		{http.MethodGet, "/users/stats"},
		{http.MethodDelete, "/users"},
	} {
		w := anon.do(route.method, route.path, nil)
		assert.Equal(t, http.StatusUnauthorized, w.Code, route.path)
	}

	forged := &caller{t: t, handler: a.HTTPServer.Engine(), bearer: "Bearer not-a-token"}
	w := forged.do(http.MethodGet, "/users/stats", nil)
	assert.Equal(t, http.StatusUnauthorized, w.Code)
}

func TestPollsFlow(t *testing.T) {
	a := newTestApp(t)
	owner := &caller{t: t, handler: a.HTTPServer.Engine()}
	owner.register(t)
	voter := &caller{t: t, handler: a.HTTPServer.Engine()}
	voterUser := voter.register(t)

	poll := createPoll(t, owner, models.CategoryGaming)
	createPoll(t, owner, models.CategoryMusic)
	assert.Equal(t, models.Active{DaysLeft: 7}, poll.State)

	w := owner.do(http.MethodGet, "/polls/active?limit=20&offset=0", nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Len(t, decode[[]models.Poll](t, w), 2)

	w = owner.do(http.MethodGet, "/polls/active?limit=20&offset=0&category=Gaming", nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Len(t, decode[[]models.Poll](t, w), 1)

	w = owner.do(http.MethodGet, "/polls/active?category=Knitting", nil)
	assert.Equal(t, http.StatusBadRequest, w.Code)

	w = owner.do(http.MethodGet, "/polls/finished", nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.JSONEq(t, `[]`, w.Body.String())

	w = voter.do(http.MethodPost, "/polls/"+poll.ID+"/vote", models.VoteRequest{
		OptionID: poll.Options[0].ID,
		UserID:   voterUser.ID,
		PollID:   poll.ID,
	})
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	voted := decode[models.Poll](t, w)
	assert.Equal(t, 1, voted.Votes)
	require.NotNil(t, voted.UserVote)

	w = voter.do(http.MethodGet, "/polls/"+poll.ID, nil)
	require.Equal(t, http.StatusOK, w.Code)
	got := decode[struct {
		Poll models.Poll `json:"poll"`
	}](t, w).Poll
	require.NotNil(t, got.UserVote)
	assert.Equal(t, poll.Options[0].ID, got.UserVote.OptionID)

	w = voter.do(http.MethodPost, "/polls/"+poll.ID+"/vote", map[string]string{"optionId": "nope"})
	assert.Equal(t, http.StatusBadRequest, w.Code)

	w = voter.do(http.MethodDelete, "/polls/"+poll.ID, nil)
	assert.Equal(t, http.StatusForbidden, w.Code)
	w = owner.do(http.MethodDelete, "/polls/"+poll.ID, nil)
	assert.Equal(t, http.StatusOK, w.Code)
	w = owner.do(http.MethodGet, "/polls/"+poll.ID, nil)
	assert.Equal(t, http.StatusNotFound, w.Code)

	w = owner.do(http.MethodPost, "/polls", models.NewPoll{Title: "t", Category: models.CategoryFood, ExpiresAt: "0"})
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestCommentsFlow(t *testing.T) {
	a := newTestApp(t)
	author := &caller{t: t, handler: a.HTTPServer.Engine()}
	user := author.register(t)
	poll := createPoll(t, author, models.CategoryOther)

	w := author.do(http.MethodPost, "/polls/"+poll.ID+"/comments", models.NewComment{Username: user.DisplayName(), Content: "hello"})
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())
	comment := decode[models.Comment](t, w)

	anon := &caller{t: t, handler: a.HTTPServer.Engine()}
	w = anon.do(http.MethodGet, "/polls/"+poll.ID+"/comments", nil)
	require.Equal(t, http.StatusOK, w.Code)
	comments := decode[[]models.Comment](t, w)
	require.Len(t, comments, 1)
	assert.Equal(t, "hello", comments[0].Content)

	w = author.do(http.MethodPost, "/polls/"+poll.ID+"/comments", models.NewComment{Content: " "})
	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.JSONEq(t, `{"error":"content is required"}`, w.Body.String())

	w = author.do(http.MethodDelete, "/polls/"+poll.ID+"/comments/"+comment.ID, nil)
	assert.Equal(t, http.StatusOK, w.Code)
	w = author.do(http.MethodDelete, "/polls/"+poll.ID+"/comments/"+comment.ID, nil)
	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestUsersFlow(t *testing.T) {
	a := newTestApp(t)
	first := &caller{t: t, handler: a.HTTPServer.Engine()}
	user := first.register(t)
	second := &caller{t: t, handler: a.HTTPServer.Engine()}
	second.register(t)

	w := first.do(http.MethodPost, "/users/username", "gopher")
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())

	w = second.do(http.MethodPost, "/users/username", "gopher")
	assert.Equal(t, http.StatusConflict, w.Code)
	assert.JSONEq(t, `{"errors":{"Conflict":"username already taken"}}`, w.Body.String())

	w = first.do(http.MethodPut, "/users/profile", models.ProfileUpdate{
		FirstName: "Rob", LastName: "Pike", Email: user.Email,
	})
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())

	var body bytes.Buffer
	form := multipart.NewWriter(&body)
	part, err := form.CreateFormFile("avatar", "me.png")
	require.NoError(t, err)
	_, err = part.Write(pngHeader)
	require.NoError(t, err)
	require.NoError(t, form.Close())

	req := httptest.NewRequest(http.MethodPost, APIPrefix+"/users/avatar", &body)
	req.Header.Set("Content-Type", form.FormDataContentType())
	w = first.send(req)
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	avatar := decode[struct {
		PictureURL string `json:"pictureUrl"`
	}](t, w)
	assert.True(t, strings.HasPrefix(avatar.PictureURL, "data:image/png;base64,"))

	createPoll(t, first, models.CategoryHealth)
	w = first.do(http.MethodGet, "/users/stats", nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, models.UserStats{TotalPolls: 1}, decode[models.UserStats](t, w))

	w = first.do(http.MethodDelete, "/users", nil)
	require.Equal(t, http.StatusOK, w.Code)

	// The token outlives the account but no longer authenticates.
	w = first.do(http.MethodGet, "/users/stats", nil)
	assert.Equal(t, http.StatusUnauthorized, w.Code)
}

func TestSeed(t *testing.T) {
	a := newTestApp(t)

	emails, err := a.Seed(context.Background(), utils.Discard(), 12)
	require.NoError(t, err)
	require.NotEmpty(t, emails)

	polls, err := a.Polling.Recent(context.Background(), "")
	require.NoError(t, err)
	assert.Len(t, polls, 5)

	_, _, err = a.Auth.Login(context.Background(), emails[0], SeedPassword)
	assert.NoError(t, err)
}
