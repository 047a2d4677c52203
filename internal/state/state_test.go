package state

import (
	"sync"
	"testing"

	"github.com/14kear/pollboard/internal/domain/models"
	"github.com/brianvoe/gofakeit/v7"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func fakePoll(id string, votes int) models.Poll {
	return models.Poll{
		ID:       id,
		Title:    gofakeit.Question(),
		Category: models.CategoryOther,
		Options:  []models.PollOption{{ID: gofakeit.UUID(), Name: gofakeit.Word()}},
		Votes:    votes,
		State:    models.Active{DaysLeft: 3},
	}
}

func TestState_UserLifecycle(t *testing.T) {
	s := New()

	_, ok := s.User()
	assert.False(t, ok)
	assert.False(t, s.UpdateUser(func(u models.User) models.User { return u }))

	name := gofakeit.Username()
	s.SetUser(models.User{ID: "u1", Email: gofakeit.Email(), Username: &name})

	u, ok := s.User()
	require.True(t, ok)
	assert.Equal(t, "u1", u.ID)

	*u.Username = "mutated"
	again, _ := s.User()
	assert.Equal(t, name, *again.Username)

	require.True(t, s.UpdateUser(func(u models.User) models.User {
		u.FirstName = "Jane"
		return u
	}))
	again, _ = s.User()
	assert.Equal(t, "Jane", again.FirstName)

	s.ClearUser()
	_, ok = s.User()
	assert.False(t, ok)
}

func TestState_UpdatePollReceivesPrevious(t *testing.T) {
	s := New()
	assert.Nil(t, s.Poll())

	s.UpdatePoll(func(prev *models.Poll) *models.Poll {
		assert.Nil(t, prev)
		p := fakePoll("p1", 1)
		return &p
	})

	s.UpdatePoll(func(prev *models.Poll) *models.Poll {
		require.NotNil(t, prev)
		next := prev.WithVotes(2)
		return &next
	})

	got := s.Poll()
	require.NotNil(t, got)
	assert.Equal(t, 2, got.Votes)

	got.Options[0].Name = "mutated"
	assert.NotEqual(t, "mutated", s.Poll().Options[0].Name)

	s.UpdatePoll(func(*models.Poll) *models.Poll { return nil })
	assert.Nil(t, s.Poll())
}

func TestState_Pages(t *testing.T) {
	s := New()

	_, ok := s.Page(1)
	assert.False(t, ok)

	s.SetPage(2, []models.Poll{fakePoll("b", 0)})
	s.SetPage(1, []models.Poll{fakePoll("a", 0)})
	assert.Equal(t, []int{1, 2}, s.Pages())

	s.UpdatePages(func(pages map[int][]models.Poll) map[int][]models.Poll {
		pages[1][0] = pages[1][0].WithVotes(7)
		delete(pages, 2)
		return pages
	})

	page, ok := s.Page(1)
	require.True(t, ok)
	assert.Equal(t, 7, page[0].Votes)
	_, ok = s.Page(2)
	assert.False(t, ok)
}

func TestState_CloseRunsHooksAndClears(t *testing.T) {
	s := New()
	s.SetUser(models.User{ID: "u1"})
	s.SetPage(1, []models.Poll{fakePoll("a", 0)})
	p := fakePoll("p1", 0)
	s.UpdatePoll(func(*models.Poll) *models.Poll { return &p })

	var order []int
	s.OnClose(func() { order = append(order, 1) })
	s.OnClose(func() { order = append(order, 2) })

	s.Close()

	assert.Equal(t, []int{2, 1}, order)
	assert.True(t, s.Closed())
	_, ok := s.User()
	assert.False(t, ok)
	assert.Nil(t, s.Poll())
	assert.Empty(t, s.Pages())

	s.SetUser(models.User{ID: "u2"})
	assert.False(t, s.Closed())
}

func TestState_HooksRunOnEverySessionClose(t *testing.T) {
	s := New()

	calls := 0
	s.OnClose(func() { calls++ })

	s.SetUser(models.User{ID: "u1"})
	s.Close()
	s.SetUser(models.User{ID: "u2"})
	s.Close()

	assert.Equal(t, 2, calls)
}

func TestState_ConcurrentAccess(t *testing.T) {
	s := New()
	p := fakePoll("p1", 0)
	s.UpdatePoll(func(*models.Poll) *models.Poll { return &p })

	var wg sync.WaitGroup
	for i := 0; i < 50; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			s.UpdatePoll(func(prev *models.Poll) *models.Poll {
				next := prev.WithVotes(prev.Votes + 1)
				return &next
			})
			_ = s.Poll()
		}()
	}
	wg.Wait()

	assert.Equal(t, 50, s.Poll().Votes)
}
