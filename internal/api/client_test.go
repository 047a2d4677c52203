package api

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/14kear/pollboard/internal/domain/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestClient(t *testing.T, handler http.HandlerFunc) *Client {
	t.Helper()

	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)

	client, err := New(srv.URL + "/api/v1")
	require.NoError(t, err)
	return client
}

const activePollJSON = `{
	"id": "p1", "title": "Best editor?", "creator": "u1", "description": "",
	"category": "Technology", "status": "Active",
	"options": [{"ID": "o1", "Name": "vim", "PollID": "p1", "Count": 3}],
	"votes": 3, "comments": 1, "expiresAt": "2023-01-15T00:00:00Z",
	"userVote": null, "daysLeft": 4, "winner": false
}`

func TestNew_RequiresBaseURL(t *testing.T) {
	_, err := New("")
	assert.ErrorIs(t, err, ErrNoBaseURL)

	_, err = New("   ")
	assert.ErrorIs(t, err, ErrNoBaseURL)

	_, err = New("localhost")
	assert.ErrorIs(t, err, ErrInvalidBaseURL)

	c, err := New("http://localhost:8080/api/v1/")
	require.NoError(t, err)
	assert.Equal(t, "http://localhost:8080/api/v1", c.BaseURL())
}

func TestWithHTTPClient_LeavesCallerClientUntouched(t *testing.T) {
	hc := &http.Client{Timeout: time.Second}

	c, err := New("http://localhost:8080/api/v1", WithHTTPClient(hc), WithTimeout(5*time.Second))
	require.NoError(t, err)

	assert.Nil(t, hc.Jar)
	assert.Equal(t, time.Second, hc.Timeout)
	assert.NotNil(t, c.http.Jar)
	assert.Equal(t, 5*time.Second, c.http.Timeout)
}

func TestListPolls_QueryParameters(t *testing.T) {
	var gotQuery []string
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodGet, r.Method)
		assert.Equal(t, "/api/v1/polls/active", r.URL.Path)
		assert.Equal(t, "application/json", r.Header.Get("Content-Type"))
		gotQuery = append(gotQuery, r.URL.RawQuery)
		_, _ = io.WriteString(w, "["+activePollJSON+"]")
	})

	polls, err := client.ListPolls(context.Background(), PathActivePolls, PageQuery{Limit: 20, Offset: 20, Category: models.AllCategories})
	require.NoError(t, err)
	require.Len(t, polls, 1)
	assert.Equal(t, "p1", polls[0].ID)
	assert.Equal(t, models.PollStatusActive, polls[0].Status())

	_, err = client.ListPolls(context.Background(), PathActivePolls, PageQuery{Limit: 20, Offset: 0, Category: models.CategorySocialMedia})
	require.NoError(t, err)

	require.Len(t, gotQuery, 2)
	assert.Equal(t, "limit=20&offset=20", gotQuery[0])
	assert.Equal(t, "category=Social+Media&limit=20&offset=0", gotQuery[1])
}

func TestListPolls_NullAndEmptyBodies(t *testing.T) {
	body := "null"
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		_, _ = io.WriteString(w, body)
	})

	polls, err := client.ListPolls(context.Background(), PathFinishedPolls, PageQuery{Limit: 20})
	require.NoError(t, err)
	assert.Nil(t, polls)

	body = "[]"
	polls, err = client.ListPolls(context.Background(), PathFinishedPolls, PageQuery{Limit: 20})
	require.NoError(t, err)
	assert.NotNil(t, polls)
	assert.Empty(t, polls)
}

func TestStatusError(t *testing.T) {
	status := http.StatusInternalServerError
	body := ""
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(status)
		_, _ = io.WriteString(w, body)
	})

	_, err := client.ListPolls(context.Background(), PathActivePolls, PageQuery{Limit: 20})
	require.Error(t, err)
	var se *StatusError
	require.ErrorAs(t, err, &se)
	assert.Equal(t, http.StatusInternalServerError, se.Code)
	assert.Equal(t, "Internal Server Error", se.StatusText)
	assert.Equal(t, http.StatusInternalServerError, StatusCode(err))

	status, body = http.StatusBadRequest, `{"error":"first name is required"}`
	err = client.UpdateProfile(context.Background(), models.ProfileUpdate{})
	assert.Equal(t, "first name is required", ServerMessage(err))
	assert.False(t, IsConflict(err))

	status, body = http.StatusBadRequest, `{"errors":{"Conflict":"username taken"}}`
	err = client.SetUsername(context.Background(), "taken")
	assert.True(t, IsConflict(err))

	status, body = http.StatusNotFound, `{"errors":"poll not found"}`
	_, err = client.Poll(context.Background(), "missing")
	assert.Equal(t, "poll not found", ServerMessage(err))
}

func TestRefresh_ReturnsAuthorizationHeaderAndKeepsCookies(t *testing.T) {
	var calls int
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		calls++
		switch r.URL.Path {
		case "/api/v1/auth/login":
			http.SetCookie(w, &http.Cookie{Name: "refreshToken", Value: "r1", Path: "/"})
			w.Header().Set("Authorization", "Bearer a.b.c")
		case "/api/v1/auth/refresh":
			assert.Equal(t, http.MethodPost, r.Method)
			cookie, err := r.Cookie("refreshToken")
			require.NoError(t, err)
			assert.Equal(t, "r1", cookie.Value)
			w.Header().Set("Authorization", "Bearer d.e.f")
		default:
			t.Fatalf("unexpected path %s", r.URL.Path)
		}
	})

	header, err := client.Login(context.Background(), models.LoginRequest{Email: "a@b.c", Password: "secret123"})
	require.NoError(t, err)
	assert.Equal(t, "Bearer a.b.c", header)

	header, err = client.Refresh(context.Background())
	require.NoError(t, err)
	assert.Equal(t, "Bearer d.e.f", header)
	assert.Equal(t, 2, calls)
	assert.NotEmpty(t, client.Cookies())
}

func TestPoll_UnwrapsEnvelope(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/api/v1/polls/p1", r.URL.Path)
		_, _ = io.WriteString(w, `{"poll":`+activePollJSON+`}`)
	})

	poll, err := client.Poll(context.Background(), "p1")
	require.NoError(t, err)
	assert.Equal(t, "Best editor?", poll.Title)
	assert.Equal(t, models.Active{DaysLeft: 4}, poll.State)
}

func TestVote(t *testing.T) {
	body := `{"votes": 11}`
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/api/v1/polls/p1/vote", r.URL.Path)

		var req models.VoteRequest
		require.NoError(t, json.NewDecoder(r.Body).Decode(&req))
		assert.Equal(t, "o1", req.OptionID)
		assert.Equal(t, "u1", req.UserID)
		assert.Equal(t, "p1", req.PollID)

		_, _ = io.WriteString(w, body)
	})

	req := models.VoteRequest{OptionID: "o1", UserID: "u1", PollID: "p1"}

	result, err := client.Vote(context.Background(), "p1", req)
	require.NoError(t, err)
	assert.Equal(t, 11, result.Votes)
	assert.Nil(t, result.Poll)

	body = activePollJSON
	result, err = client.Vote(context.Background(), "p1", req)
	require.NoError(t, err)
	assert.Equal(t, 3, result.Votes)
	require.NotNil(t, result.Poll)
	assert.Equal(t, "p1", result.Poll.ID)
}

func TestUploadAvatar_Multipart(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/api/v1/users/avatar", r.URL.Path)
		assert.True(t, strings.HasPrefix(r.Header.Get("Content-Type"), "multipart/form-data"))

		file, header, err := r.FormFile(AvatarField)
		require.NoError(t, err)
		defer file.Close()
		content, err := io.ReadAll(file)
		require.NoError(t, err)
		assert.Equal(t, "me.png", header.Filename)
		assert.Equal(t, "png-bytes", string(content))

		_, _ = io.WriteString(w, `{"pictureUrl":"https://cdn.example.com/me.png"}`)
	})

	url, err := client.UploadAvatar(context.Background(), "me.png", strings.NewReader("png-bytes"))
	require.NoError(t, err)
	assert.Equal(t, "https://cdn.example.com/me.png", url)
}

func TestSetUsername_SendsBareString(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		raw, err := io.ReadAll(r.Body)
		require.NoError(t, err)
		assert.Equal(t, `"jane_doe"`, string(raw))
	})

	require.NoError(t, client.SetUsername(context.Background(), "jane_doe"))
}

func TestComments(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		switch {
		case r.Method == http.MethodGet && r.URL.Path == "/api/v1/polls/p1/comments":
			_, _ = io.WriteString(w, `[{"id":"c1","userId":"u1","username":"jane","userPicture":null,"content":"hi","createdAt":"2023-01-15T10:00:00Z"}]`)
		case r.Method == http.MethodPost && r.URL.Path == "/api/v1/polls/p1/comments":
			var in models.NewComment
			require.NoError(t, json.NewDecoder(r.Body).Decode(&in))
			_ = json.NewEncoder(w).Encode(models.Comment{ID: "c2", UserID: "u1", Username: in.Username, Content: in.Content, CreatedAt: time.Now()})
		case r.Method == http.MethodDelete && r.URL.Path == "/api/v1/polls/p1/comments/c1":
			w.WriteHeader(http.StatusNoContent)
		default:
			t.Fatalf("unexpected %s %s", r.Method, r.URL.Path)
		}
	})

	ctx := context.Background()

	comments, err := client.Comments(ctx, "p1")
	require.NoError(t, err)
	require.Len(t, comments, 1)
	assert.Equal(t, "hi", comments[0].Content)

	created, err := client.PostComment(ctx, "p1", models.NewComment{Username: "jane", Content: "second"})
	require.NoError(t, err)
	assert.Equal(t, "c2", created.ID)
	assert.Equal(t, "second", created.Content)

	require.NoError(t, client.DeleteComment(ctx, "p1", "c1"))
}

func TestOAuthLoginURL(t *testing.T) {
	client, err := New("https://polls.example.com/api/v1")
	require.NoError(t, err)

	assert.Equal(t, "https://polls.example.com/api/v1/auth/github/login", client.OAuthLoginURL(ProviderGitHub))
	assert.Equal(t, "https://polls.example.com/api/v1/auth/google/login", client.OAuthLoginURL(ProviderGoogle))
}
