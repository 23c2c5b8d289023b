// Package tracker implements the companion read-progress plugin: it
// reads the server-tracked progress of a series, renders it as an
// editable form, and reconciles the server state towards a chosen
// chapter.
package tracker

import (
	"context"
	"sort"

	"golang.org/x/sync/errgroup"

	"github.com/kerbaras/komgas/pkg/komga"
)

type Tracker struct {
	client *komga.Client
}

func New(client *komga.Client) *Tracker {
	return &Tracker{client: client}
}

// Progress is a snapshot of a series' server-side read state.
type Progress struct {
	SeriesID  string
	LastRead  float64 // sort key of the highest completed chapter
	ReadCount int
	Total     int
}

func (t *Tracker) Progress(ctx context.Context, seriesID string) (*Progress, error) {
	books, err := t.client.SeriesBooks(ctx, seriesID)
	if err != nil {
		return nil, err
	}
	p := &Progress{SeriesID: seriesID, Total: len(books)}
	for _, book := range books {
		if book.ReadProgress == nil || !book.ReadProgress.Completed {
			continue
		}
		p.ReadCount++
		if book.Metadata.NumberSort > p.LastRead {
			p.LastRead = book.Metadata.NumberSort
		}
	}
	return p, nil
}

// FormEntry is one chapter row of the progress-editing form.
type FormEntry struct {
	BookID  string
	Label   string
	SortKey float64
	Read    bool
}

// Form is the progress-editing form for one series, entries in reading
// order.
type Form struct {
	SeriesID string
	Entries  []FormEntry
}

func (t *Tracker) ProgressForm(ctx context.Context, seriesID string) (*Form, error) {
	books, err := t.client.SeriesBooks(ctx, seriesID)
	if err != nil {
		return nil, err
	}
	form := &Form{SeriesID: seriesID, Entries: make([]FormEntry, len(books))}
	for i, book := range books {
		label := book.Metadata.Title
		if label == "" {
			label = book.Name
		}
		form.Entries[i] = FormEntry{
			BookID:  book.ID,
			Label:   label,
			SortKey: book.Metadata.NumberSort,
			Read:    book.ReadProgress != nil && book.ReadProgress.Completed,
		}
	}
	sort.Slice(form.Entries, func(i, j int) bool {
		return form.Entries[i].SortKey < form.Entries[j].SortKey
	})
	return form, nil
}

// SetProgress moves a series' progress to the chapter with the given
// sort key: every chapter at or below it is marked read. Chapters above
// it are left alone. Mutations target disjoint chapters and run
// concurrently; each one is idempotent server-side.
func (t *Tracker) SetProgress(ctx context.Context, seriesID string, target float64) error {
	books, err := t.client.SeriesBooks(ctx, seriesID)
	if err != nil {
		return err
	}
	g, ctx := errgroup.WithContext(ctx)
	for _, book := range books {
		if book.Metadata.NumberSort > target {
			continue
		}
		bookID := book.ID
		g.Go(func() error {
			return t.client.MarkRead(ctx, bookID)
		})
	}
	return g.Wait()
}

// ResyncSeries is the full resync used when draining the tracker queue:
// besides marking everything at or below the target read, it explicitly
// marks everything above it unread. SetProgress and ResyncSeries are
// deliberately distinct operations; the one-sided form never un-reads.
func (t *Tracker) ResyncSeries(ctx context.Context, seriesID string, target float64) error {
	books, err := t.client.SeriesBooks(ctx, seriesID)
	if err != nil {
		return err
	}
	g, ctx := errgroup.WithContext(ctx)
	for _, book := range books {
		bookID := book.ID
		if book.Metadata.NumberSort <= target {
			g.Go(func() error { return t.client.MarkRead(ctx, bookID) })
		} else {
			g.Go(func() error { return t.client.MarkUnread(ctx, bookID) })
		}
	}
	return g.Wait()
}

// ClearProgress drops all read progress of a series on the server.
func (t *Tracker) ClearProgress(ctx context.Context, seriesID string) error {
	return t.client.DeleteSeriesProgress(ctx, seriesID)
}
