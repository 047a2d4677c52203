package api

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"strconv"

	"github.com/14kear/pollboard/internal/domain/models"
)

const (
	PathActivePolls   = "polls/active"
	PathFinishedPolls = "polls/finished"
	PathRecentPolls   = "polls/recent"
)

func PathUserPolls(userID string) string {
	return "polls/by-user/" + url.PathEscape(userID)
}

func pollPath(id string) string {
	return "polls/" + url.PathEscape(id)
}

type PageQuery struct {
	Limit    int
	Offset   int
	Category models.Category
}

func (q PageQuery) Values() url.Values {
	v := url.Values{}
	v.Set("limit", strconv.Itoa(q.Limit))
	v.Set("offset", strconv.Itoa(q.Offset))
	if q.Category != "" && q.Category != models.AllCategories {
		v.Set("category", string(q.Category))
	}
	return v
}

// ListPolls fetches one page of a poll collection. A JSON null body
// yields a nil slice, an empty page a non-nil empty one.
func (c *Client) ListPolls(ctx context.Context, path string, q PageQuery) ([]models.Poll, error) {
	var polls []models.Poll
	if _, err := c.doJSON(ctx, http.MethodGet, path, q.Values(), nil, &polls); err != nil {
		return nil, err
	}
	return polls, nil
}

func (c *Client) RecentPolls(ctx context.Context) ([]models.Poll, error) {
	var polls []models.Poll
	if _, err := c.doJSON(ctx, http.MethodGet, PathRecentPolls, nil, nil, &polls); err != nil {
		return nil, err
	}
	return polls, nil
}

func (c *Client) Poll(ctx context.Context, id string) (models.Poll, error) {
	var resp struct {
		Poll *models.Poll `json:"poll"`
	}
	if _, err := c.doJSON(ctx, http.MethodGet, pollPath(id), nil, nil, &resp); err != nil {
		return models.Poll{}, err
	}
	if resp.Poll == nil {
		return models.Poll{}, fmt.Errorf("GET %s: empty poll in response", pollPath(id))
	}
	return *resp.Poll, nil
}

func (c *Client) CreatePoll(ctx context.Context, poll models.NewPoll) error {
	_, err := c.doJSON(ctx, http.MethodPost, "polls", nil, poll, nil)
	return err
}

func (c *Client) DeletePoll(ctx context.Context, id string) error {
	_, err := c.doJSON(ctx, http.MethodDelete, pollPath(id), nil, nil, nil)
	return err
}

// VoteResult is the backend's answer to a vote. Votes is always set; Poll
// is set when the body was a complete poll.
type VoteResult struct {
	Votes int
	Poll  *models.Poll
}

func (c *Client) Vote(ctx context.Context, pollID string, req models.VoteRequest) (VoteResult, error) {
	var raw json.RawMessage
	if _, err := c.doJSON(ctx, http.MethodPost, pollPath(pollID)+"/vote", nil, req, &raw); err != nil {
		return VoteResult{}, err
	}

	var counts struct {
		Votes int `json:"votes"`
	}
	if err := json.Unmarshal(raw, &counts); err != nil {
		return VoteResult{}, fmt.Errorf("POST %s/vote: decode body: %w", pollPath(pollID), err)
	}

	result := VoteResult{Votes: counts.Votes}
	var poll models.Poll
	if err := json.Unmarshal(raw, &poll); err == nil {
		result.Poll = &poll
	}

	return result, nil
}
