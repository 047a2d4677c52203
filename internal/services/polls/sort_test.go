package polls

import (
	"testing"
	"time"

	"github.com/14kear/pollboard/internal/domain/models"
	"github.com/brianvoe/gofakeit/v7"
	"github.com/stretchr/testify/assert"
)

func date(y int, m time.Month, d int) time.Time {
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

func activePoll(id string, expires time.Time, votes, comments int) models.Poll {
	return models.Poll{
		ID:        id,
		Title:     gofakeit.Question(),
		ExpiresAt: expires,
		Votes:     votes,
		Comments:  comments,
		State:     models.Active{DaysLeft: 1},
	}
}

func ids(polls []models.Poll) []string {
	out := make([]string, 0, len(polls))
	for _, p := range polls {
		out = append(out, p.ID)
	}
	return out
}

func samplePolls() []models.Poll {
	return []models.Poll{
		activePoll("1", date(2023, 1, 15), 10, 2),
		activePoll("2", date(2023, 2, 15), 20, 0),
		activePoll("3", date(2023, 3, 15), 5, 7),
	}
}

func TestSort(t *testing.T) {
	polls := samplePolls()

	assert.Equal(t, []string{"1", "2", "3"}, ids(Sort(SortOldest, polls)))
	assert.Equal(t, []string{"3", "2", "1"}, ids(Sort(SortNewest, polls)))
	assert.Equal(t, []string{"2", "1", "3"}, ids(Sort(SortMostVotes, polls)))
	assert.Equal(t, []string{"3", "1", "2"}, ids(Sort(SortMostComments, polls)))

	assert.Equal(t, []string{"1", "2", "3"}, ids(polls), "input must not be reordered")
}

func TestSort_UnknownKeyFallsBackToNewest(t *testing.T) {
	polls := samplePolls()
	for _, key := range []SortKey{"", "popular", "NEWEST"} {
		assert.Equal(t, ids(Sort(SortNewest, polls)), ids(Sort(key, polls)), "key %q", key)
	}
}

func TestSort_FinishedPollsUseEndDate(t *testing.T) {
	finished := models.Poll{
		ID:        "f",
		ExpiresAt: date(2023, 12, 31),
		State:     models.Finished{EndedAt: date(2023, 1, 1), Winner: "o1"},
	}
	polls := []models.Poll{finished, activePoll("a", date(2023, 6, 1), 0, 0)}

	assert.Equal(t, []string{"a", "f"}, ids(Sort(SortNewest, polls)))
}

func TestSort_StableOnTies(t *testing.T) {
	polls := []models.Poll{
		activePoll("a", date(2023, 1, 1), 5, 0),
		activePoll("b", date(2023, 1, 2), 5, 0),
		activePoll("c", date(2023, 1, 3), 5, 0),
	}
	assert.Equal(t, []string{"a", "b", "c"}, ids(Sort(SortMostVotes, polls)))
}

func TestSortAndFilter_EmptyInput(t *testing.T) {
	assert.Empty(t, Sort(SortNewest, nil))
	assert.NotNil(t, Sort(SortNewest, nil))
	assert.Empty(t, Filter(nil, "anything"))
	assert.NotNil(t, Filter([]models.Poll{}, ""))
}

func TestFilter(t *testing.T) {
	polls := []models.Poll{
		{ID: "1", Title: "First poll", Description: "second"},
		{ID: "2", Title: "Second poll"},
		{ID: "3", Title: "Another FIRST try"},
	}

	assert.Equal(t, []string{"1", "2", "3"}, ids(Filter(polls, "")))
	assert.Equal(t, ids(Filter(polls, "first")), ids(Filter(polls, "FIRST")))
	assert.Equal(t, []string{"1", "3"}, ids(Filter(polls, "first")))
	assert.Equal(t, []string{"2"}, ids(Filter(polls, "second")), "description is not searched")
	assert.Empty(t, Filter(polls, "zzz"))
}

func TestView(t *testing.T) {
	polls := []models.Poll{
		activePoll("1", date(2023, 1, 15), 10, 0),
		activePoll("2", date(2023, 2, 15), 20, 0),
		activePoll("3", date(2023, 3, 15), 5, 0),
	}
	polls[0].Title = "Cats or dogs"
	polls[1].Title = "Tea or coffee"
	polls[2].Title = "Dogs: big or small"

	assert.Equal(t, []string{"1", "3"}, ids(View(polls, "dogs", SortMostVotes)))
}
