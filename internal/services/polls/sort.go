package polls

import (
	"cmp"
	"slices"
	"strings"

	"github.com/14kear/pollboard/internal/domain/models"
)

type SortKey string

const (
	SortNewest       SortKey = "newest"
	SortOldest       SortKey = "oldest"
	SortMostVotes    SortKey = "most-votes"
	SortMostComments SortKey = "most-comments"
)

var SortKeys = []SortKey{SortNewest, SortOldest, SortMostVotes, SortMostComments}

// Sort returns a reordered copy of polls. Unknown keys sort as SortNewest.
// Ties keep their input order.
func Sort(key SortKey, polls []models.Poll) []models.Poll {
	out := make([]models.Poll, len(polls))
	copy(out, polls)

	var compare func(a, b models.Poll) int
	switch key {
	case SortOldest:
		compare = func(a, b models.Poll) int {
			return a.EffectiveDate().Compare(b.EffectiveDate())
		}
	case SortMostVotes:
		compare = func(a, b models.Poll) int {
			return cmp.Compare(b.Votes, a.Votes)
		}
	case SortMostComments:
		compare = func(a, b models.Poll) int {
			return cmp.Compare(b.Comments, a.Comments)
		}
	default:
		compare = func(a, b models.Poll) int {
			return b.EffectiveDate().Compare(a.EffectiveDate())
		}
	}

	slices.SortStableFunc(out, compare)
	return out
}

// Filter keeps the polls whose title contains query, ignoring case.
func Filter(polls []models.Poll, query string) []models.Poll {
	out := make([]models.Poll, 0, len(polls))
	if query == "" {
		return append(out, polls...)
	}

	q := strings.ToLower(query)
	for _, p := range polls {
		if strings.Contains(strings.ToLower(p.Title), q) {
			out = append(out, p)
		}
	}
	return out
}

// View is what list pages render: the filtered polls in sort order.
func View(polls []models.Poll, query string, key SortKey) []models.Poll {
	return Sort(key, Filter(polls, query))
}
