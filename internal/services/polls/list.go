package polls

import (
	"context"
	"errors"
	"slices"
	"sync"

	"github.com/14kear/pollboard/internal/domain/models"
)

// ErrSuperseded is returned by List.Load when a newer load started before
// this one finished. Its result was discarded.
var ErrSuperseded = errors.New("superseded by a newer request")

// PageCache stores fetched pages keyed by page number.
type PageCache interface {
	SetPage(page int, polls []models.Poll)
}

// Snapshot is a copy of a List's state.
type Snapshot struct {
	Polls    []models.Poll
	Loading  bool
	Error    string
	HasMore  bool
	Page     int
	Category models.Category
	Path     string
}

// List is the paginated poll list behind one collection page. Every Load
// cancels the load before it, and only the newest load writes state.
type List struct {
	fetcher *Fetcher
	cache   PageCache

	mu       sync.Mutex
	gen      uint64
	cancel   context.CancelFunc
	path     string
	category models.Category
	polls    []models.Poll
	loading  bool
	errMsg   string
	hasMore  bool
	page     int
}

type ListOption func(*List)

// WithPageCache mirrors every fetched page into c.
func WithPageCache(c PageCache) ListOption {
	return func(l *List) {
		l.cache = c
	}
}

func NewList(fetcher *Fetcher, path string, opts ...ListOption) *List {
	l := &List{
		fetcher:  fetcher,
		path:     path,
		category: models.AllCategories,
	}
	for _, opt := range opts {
		opt(l)
	}
	return l
}

// Load fetches page for category. A category different from the current
// one resets the list first.
func (l *List) Load(ctx context.Context, page int, category models.Category) error {
	if category == "" {
		category = models.AllCategories
	}

	l.mu.Lock()
	if l.cancel != nil {
		l.cancel()
	}
	if category != l.category {
		l.resetLocked()
		l.category = category
	}
	l.gen++
	gen := l.gen
	ctx, cancel := context.WithCancel(ctx)
	l.cancel = cancel
	path := l.path
	l.mu.Unlock()

	defer func() {
		cancel()
		l.mu.Lock()
		if l.gen == gen {
			l.cancel = nil
		}
		l.mu.Unlock()
	}()

	err := l.fetcher.Fetch(ctx, Request{Page: page, Category: category, Path: path}, &listSink{list: l, gen: gen, page: page})

	l.mu.Lock()
	stale := l.gen != gen
	l.mu.Unlock()
	if stale {
		return ErrSuperseded
	}
	return err
}

// LoadMore fetches the page after the last one loaded.
func (l *List) LoadMore(ctx context.Context) error {
	l.mu.Lock()
	next, category := l.page+1, l.category
	l.mu.Unlock()

	return l.Load(ctx, next, category)
}

// SetPath switches the collection endpoint. The list is reset and any
// in-flight load is abandoned.
func (l *List) SetPath(path string) {
	l.mu.Lock()
	defer l.mu.Unlock()

	if path == l.path {
		return
	}
	l.path = path
	l.resetLocked()
}

// Reset empties the list and abandons any in-flight load.
func (l *List) Reset() {
	l.mu.Lock()
	defer l.mu.Unlock()

	l.resetLocked()
}

func (l *List) resetLocked() {
	if l.cancel != nil {
		l.cancel()
		l.cancel = nil
	}
	l.gen++
	l.polls = nil
	l.loading = false
	l.errMsg = ""
	l.hasMore = false
	l.page = 0
}

func (l *List) Snapshot() Snapshot {
	l.mu.Lock()
	defer l.mu.Unlock()

	return Snapshot{
		Polls:    slices.Clone(l.polls),
		Loading:  l.loading,
		Error:    l.errMsg,
		HasMore:  l.hasMore,
		Page:     l.page,
		Category: l.category,
		Path:     l.path,
	}
}

// listSink writes into its List only while its generation is current.
type listSink struct {
	list *List
	gen  uint64
	page int
}

func (s *listSink) write(fn func(l *List)) {
	s.list.mu.Lock()
	defer s.list.mu.Unlock()

	if s.list.gen != s.gen {
		return
	}
	fn(s.list)
}

func (s *listSink) SetLoading(loading bool) {
	s.write(func(l *List) { l.loading = loading })
}

func (s *listSink) SetError(msg string) {
	s.write(func(l *List) { l.errMsg = msg })
}

func (s *listSink) SetPolls(update func(prev []models.Poll) []models.Poll) {
	s.write(func(l *List) {
		l.polls = update(l.polls)
		l.page = s.page
	})
}

func (s *listSink) SetHasMore(more bool) {
	s.write(func(l *List) { l.hasMore = more })
}

func (s *listSink) SetPage(page int, polls []models.Poll) {
	s.write(func(l *List) {
		if l.cache != nil {
			l.cache.SetPage(page, polls)
		}
	})
}
