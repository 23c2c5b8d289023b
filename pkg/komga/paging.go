package komga

import (
	"context"
	"time"

	"github.com/rs/zerolog/log"
)

// Cursor is a page-number cursor for the paged list endpoints. It only
// ever moves forward within a walk.
type Cursor struct {
	Number int
}

// PageFunc fetches one page of items.
type PageFunc[T any] func(ctx context.Context, page, size int) (Page[T], error)

// NextPage fetches the page under the cursor and advances it. A nil
// returned cursor means the end was reached: the server answered with an
// empty page.
func NextPage[T any](ctx context.Context, fetch PageFunc[T], cursor Cursor, size int) ([]T, *Cursor, error) {
	page, err := fetch(ctx, cursor.Number, size)
	if err != nil {
		return nil, nil, err
	}
	if len(page.Content) == 0 {
		return nil, nil, nil
	}
	return page.Content, &Cursor{Number: cursor.Number + 1}, nil
}

// WalkSince walks pages in descending last-modified order collecting the
// candidate identifiers touched at or after the watermark. The walk ends
// on the first item strictly older than the watermark (everything behind
// it is older still) or on an empty page. Each page that yields new
// matches triggers notify immediately so callers can surface partial
// results on long walks.
//
// The descending order is a server guarantee, not something verified
// here; an out-of-order item only produces a warning.
func WalkSince[T any](
	ctx context.Context,
	fetch PageFunc[T],
	watermark time.Time,
	size int,
	id func(T) string,
	modified func(T) time.Time,
	candidates map[string]bool,
	notify func(ids []string),
) (map[string]bool, error) {
	matched := make(map[string]bool)
	var prev time.Time
	seen := false

	for page := 0; ; page++ {
		p, err := fetch(ctx, page, size)
		if err != nil {
			return nil, err
		}
		if len(p.Content) == 0 {
			return matched, nil
		}

		var fresh []string
		for _, item := range p.Content {
			mod := modified(item)
			if seen && mod.After(prev) {
				log.Warn().
					Time("previous", prev).
					Time("current", mod).
					Msg("updated-series feed out of descending order")
			}
			prev, seen = mod, true

			if mod.Before(watermark) {
				if len(fresh) > 0 && notify != nil {
					notify(fresh)
				}
				return matched, nil
			}
			key := id(item)
			if candidates[key] && !matched[key] {
				matched[key] = true
				fresh = append(fresh, key)
			}
		}
		if len(fresh) > 0 && notify != nil {
			notify(fresh)
		}
	}
}

// UpdatedSeriesSince reports which of the candidate series changed at or
// after the watermark, notifying incrementally as matches come in.
func (c *Client) UpdatedSeriesSince(ctx context.Context, watermark time.Time, size int, candidates map[string]bool, notify func(ids []string)) (map[string]bool, error) {
	return WalkSince(ctx, c.UpdatedSeries, watermark, size,
		func(s Series) string { return s.ID },
		func(s Series) time.Time { return s.LastModified },
		candidates, notify)
}
