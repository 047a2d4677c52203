package models

import (
	"encoding/json"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPoll_UnmarshalActive(t *testing.T) {
	raw := `{"id":"p1","title":"Tabs or spaces?","creator":"u1","category":"Technology","status":"Active",
		"options":[{"ID":"o1","Name":"Tabs","PollID":"p1","Count":2},{"ID":"o2","Name":"Spaces","PollID":"p1","Count":5}],
		"votes":7,"comments":0,"expiresAt":"2023-02-15T00:00:00Z","userVote":{"ID":"v1","UserID":"u2","PollID":"p1","OptionID":"o2"},
		"daysLeft":3,"winner":false}`

	var p Poll
	require.NoError(t, json.Unmarshal([]byte(raw), &p))

	assert.Equal(t, PollStatusActive, p.Status())
	assert.Equal(t, Active{DaysLeft: 3}, p.State)
	assert.Equal(t, 7, p.Votes)
	require.NotNil(t, p.UserVote)
	assert.Equal(t, "o2", p.UserVote.OptionID)
	assert.Equal(t, time.Date(2023, 2, 15, 0, 0, 0, 0, time.UTC), p.EffectiveDate())

	opt, ok := p.Option("o2")
	require.True(t, ok)
	assert.Equal(t, 5, opt.Count)
	_, ok = p.Option("missing")
	assert.False(t, ok)
}

func TestPoll_UnmarshalFinished(t *testing.T) {
	raw := `{"id":"p2","title":"Lunch?","status":"Archived","options":[],"votes":4,
		"expiresAt":"2023-03-15T00:00:00Z","endedAt":"2023-03-10T12:00:00Z","winner":"draw"}`

	var p Poll
	require.NoError(t, json.Unmarshal([]byte(raw), &p))

	finished, ok := p.State.(Finished)
	require.True(t, ok)
	assert.True(t, finished.Winner.IsDraw())
	assert.Equal(t, PollStatusArchived, p.Status())
	assert.Equal(t, time.Date(2023, 3, 10, 12, 0, 0, 0, time.UTC), p.EffectiveDate())
}

func TestPoll_UnmarshalRejectsInconsistentState(t *testing.T) {
	cases := []struct {
		name string
		raw  string
		want error
	}{
		{"active without daysLeft", `{"id":"a","status":"Active"}`, ErrInconsistentPoll},
		{"archived without endedAt", `{"id":"b","status":"Archived","winner":"o1"}`, ErrInconsistentPoll},
		{"archived without winner", `{"id":"c","status":"Archived","endedAt":"2023-01-01T00:00:00Z"}`, ErrInconsistentPoll},
		{"archived with false winner", `{"id":"d","status":"Archived","endedAt":"2023-01-01T00:00:00Z","winner":false}`, ErrInconsistentPoll},
		{"unknown status", `{"id":"e","status":"Pending"}`, ErrUnknownStatus},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			var p Poll
			err := json.Unmarshal([]byte(tc.raw), &p)
			assert.ErrorIs(t, err, tc.want)
		})
	}
}

func TestPoll_MarshalKeepsWireShape(t *testing.T) {
	active := Poll{ID: "p1", State: Active{DaysLeft: 2}}
	raw, err := json.Marshal(active)
	require.NoError(t, err)

	var fields map[string]any
	require.NoError(t, json.Unmarshal(raw, &fields))
	assert.Equal(t, "Active", fields["status"])
	assert.Equal(t, float64(2), fields["daysLeft"])
	assert.Equal(t, false, fields["winner"])
	assert.NotContains(t, fields, "endedAt")
	assert.Equal(t, []any{}, fields["options"])

	finished := Poll{ID: "p2", State: Finished{EndedAt: time.Date(2023, 1, 1, 0, 0, 0, 0, time.UTC), Winner: "o3"}}
	raw, err = json.Marshal(finished)
	require.NoError(t, err)

	fields = nil
	require.NoError(t, json.Unmarshal(raw, &fields))
	assert.Equal(t, "Archived", fields["status"])
	assert.Equal(t, "o3", fields["winner"])
	assert.NotContains(t, fields, "daysLeft")

	_, err = json.Marshal(Poll{ID: "p3"})
	assert.ErrorIs(t, err, ErrUnknownStatus)
}

func TestPoll_WithVotesReplacesOnlyCount(t *testing.T) {
	p := Poll{ID: "p1", Title: "t", Votes: 1, Comments: 4, State: Active{DaysLeft: 1}}

	patched := p.WithVotes(10)

	assert.Equal(t, 10, patched.Votes)
	assert.Equal(t, 1, p.Votes)
	patched.Votes = p.Votes
	assert.Equal(t, p, patched)
}

func TestParseCategory(t *testing.T) {
	c, err := ParseCategory("")
	require.NoError(t, err)
	assert.Equal(t, AllCategories, c)

	c, err = ParseCategory("All Categories")
	require.NoError(t, err)
	assert.Equal(t, AllCategories, c)

	c, err = ParseCategory("Social Media")
	require.NoError(t, err)
	assert.Equal(t, CategorySocialMedia, c)

	_, err = ParseCategory("Astrology")
	assert.Error(t, err)
	assert.False(t, AllCategories.Valid())
}

func TestUser_DisplayName(t *testing.T) {
	u := User{FirstName: "Jane", LastName: "Doe"}
	assert.Equal(t, "Jane Doe", u.DisplayName())

	name := "jdoe"
	u.Username = &name
	assert.Equal(t, "jdoe", u.DisplayName())
}
