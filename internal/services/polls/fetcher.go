package polls

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"slices"

	"github.com/14kear/pollboard/internal/api"
	"github.com/14kear/pollboard/internal/domain/models"
	"github.com/14kear/pollboard/internal/lib/failure"
	sl "github.com/14kear/sso-prettyslog/slogpretty/errors"
)

// PageSize is the number of polls requested per page.
const PageSize = 20

const MsgLoadFailed = "Error loading polls. Please try again."

// Offset is the index of the first record of a 1-based page.
func Offset(page, size int) int {
	if page < 1 {
		page = 1
	}
	return (page - 1) * size
}

// Sink receives the four pieces of list state a fetch updates.
type Sink interface {
	SetLoading(loading bool)
	// SetError sets the user-facing message; "" clears it.
	SetError(msg string)
	// SetPolls updates the list from its previous value.
	SetPolls(update func(prev []models.Poll) []models.Poll)
	SetHasMore(more bool)
}

// PageSink is implemented by sinks that also cache each fetched page.
type PageSink interface {
	SetPage(page int, polls []models.Poll)
}

type Request struct {
	// Page is 1-based.
	Page     int
	Category models.Category
	// Path is the collection endpoint, e.g. api.PathActivePolls.
	Path string
}

type Fetcher struct {
	log      *slog.Logger
	lister   PageLister
	pageSize int
}

func NewFetcher(log *slog.Logger, lister PageLister, pageSize int) *Fetcher {
	if pageSize <= 0 {
		pageSize = PageSize
	}
	return &Fetcher{
		log:      log,
		lister:   lister,
		pageSize: pageSize,
	}
}

func (f *Fetcher) PageSize() int {
	return f.pageSize
}

// Fetch loads one page and reconciles it into sink. Page 1 replaces the
// list, later pages append. A full page reports more available. A null
// body leaves the list untouched. The loading flag is cleared on every
// path.
func (f *Fetcher) Fetch(ctx context.Context, req Request, sink Sink) error {
	const op = "polls.Fetch"

	log := f.log.With(
		slog.String("op", op),
		slog.String("path", req.Path),
		slog.Int("page", req.Page),
		slog.String("category", string(req.Category)),
	)

	sink.SetLoading(true)
	defer sink.SetLoading(false)

	page, err := f.lister.ListPolls(ctx, req.Path, api.PageQuery{
		Limit:    f.pageSize,
		Offset:   Offset(req.Page, f.pageSize),
		Category: req.Category,
	})
	if err != nil {
		if errors.Is(err, context.Canceled) {
			log.Debug("fetch canceled")
		} else {
			log.Error("failed to fetch polls", sl.Err(err))
		}
		sink.SetError(MsgLoadFailed)
		return failure.New(MsgLoadFailed, fmt.Errorf("%s: %w", op, err))
	}

	if page == nil {
		log.Debug("empty response body")
		return nil
	}

	if ps, ok := sink.(PageSink); ok {
		ps.SetPage(req.Page, page)
	}

	sink.SetHasMore(len(page) == f.pageSize)

	if req.Page <= 1 {
		sink.SetPolls(func([]models.Poll) []models.Poll {
			return page
		})
	} else {
		sink.SetPolls(func(prev []models.Poll) []models.Poll {
			return slices.Concat(prev, page)
		})
	}

	sink.SetError("")

	log.Debug("polls fetched", slog.Int("count", len(page)))
	return nil
}
