package komga

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// pagedFetch serves pre-built pages and records how many were requested.
func pagedFetch(pages [][]Series) (PageFunc[Series], *int) {
	calls := new(int)
	fetch := func(ctx context.Context, page, size int) (Page[Series], error) {
		*calls++
		if page >= len(pages) {
			return Page[Series]{}, nil
		}
		return Page[Series]{Content: pages[page], Number: page}, nil
	}
	return fetch, calls
}

func TestNextPage_AdvancesCursor(t *testing.T) {
	fetch, _ := pagedFetch([][]Series{
		{{ID: "a"}, {ID: "b"}},
		{{ID: "c"}},
	})

	items, cursor, err := NextPage(context.Background(), fetch, Cursor{}, 2)
	require.NoError(t, err)
	require.NotNil(t, cursor)
	assert.Equal(t, 1, cursor.Number)
	require.Len(t, items, 2)
	assert.Equal(t, "a", items[0].ID)

	items, cursor, err = NextPage(context.Background(), fetch, *cursor, 2)
	require.NoError(t, err)
	require.NotNil(t, cursor)
	assert.Equal(t, 2, cursor.Number)
	assert.Len(t, items, 1)
}

func TestNextPage_EmptyPageEndsWalk(t *testing.T) {
	fetch, _ := pagedFetch([][]Series{{{ID: "a"}}})

	items, cursor, err := NextPage(context.Background(), fetch, Cursor{Number: 1}, 2)
	require.NoError(t, err)
	assert.Nil(t, cursor)
	assert.Empty(t, items)
}

func TestNextPage_PropagatesFetchError(t *testing.T) {
	boom := errors.New("boom")
	fetch := func(ctx context.Context, page, size int) (Page[Series], error) {
		return Page[Series]{}, boom
	}

	_, cursor, err := NextPage(context.Background(), fetch, Cursor{}, 2)
	assert.ErrorIs(t, err, boom)
	assert.Nil(t, cursor)
}

func at(offset time.Duration) time.Time {
	base := time.Date(2024, 5, 1, 12, 0, 0, 0, time.UTC)
	return base.Add(offset)
}

func descendingFeed(pages [][]Series) PageFunc[Series] {
	fetch, _ := pagedFetch(pages)
	return fetch
}

func TestWalkSince_StopsAtWatermark(t *testing.T) {
	// Feed in descending last-modified order; the watermark falls inside
	// page 1, so page 2 must never be requested.
	pages := [][]Series{
		{
			{ID: "s1", LastModified: at(5 * time.Hour)},
			{ID: "s2", LastModified: at(4 * time.Hour)},
		},
		{
			{ID: "s3", LastModified: at(3 * time.Hour)},
			{ID: "s4", LastModified: at(1 * time.Hour)}, // older than watermark
		},
		{
			{ID: "s5", LastModified: at(0)},
		},
	}
	fetch, calls := pagedFetch(pages)

	candidates := map[string]bool{"s1": true, "s3": true, "s4": true, "s5": true}
	matched, err := WalkSince(context.Background(), fetch, at(2*time.Hour), 2,
		func(s Series) string { return s.ID },
		func(s Series) time.Time { return s.LastModified },
		candidates, nil)

	require.NoError(t, err)
	assert.Equal(t, map[string]bool{"s1": true, "s3": true}, matched)
	assert.Equal(t, 2, *calls)
}

func TestWalkSince_WatermarkBoundaryInclusive(t *testing.T) {
	watermark := at(2 * time.Hour)
	fetch := descendingFeed([][]Series{
		{{ID: "exact", LastModified: watermark}},
		{},
	})

	matched, err := WalkSince(context.Background(), fetch, watermark, 10,
		func(s Series) string { return s.ID },
		func(s Series) time.Time { return s.LastModified },
		map[string]bool{"exact": true}, nil)

	require.NoError(t, err)
	assert.True(t, matched["exact"], "items modified exactly at the watermark count as updated")
}

func TestWalkSince_EmptyFeed(t *testing.T) {
	fetch := descendingFeed(nil)

	matched, err := WalkSince(context.Background(), fetch, at(0), 10,
		func(s Series) string { return s.ID },
		func(s Series) time.Time { return s.LastModified },
		map[string]bool{"s1": true}, nil)

	require.NoError(t, err)
	assert.Empty(t, matched)
}

func TestWalkSince_SkipsNonCandidates(t *testing.T) {
	fetch := descendingFeed([][]Series{
		{
			{ID: "wanted", LastModified: at(3 * time.Hour)},
			{ID: "ignored", LastModified: at(2 * time.Hour)},
		},
		{},
	})

	matched, err := WalkSince(context.Background(), fetch, at(time.Hour), 10,
		func(s Series) string { return s.ID },
		func(s Series) time.Time { return s.LastModified },
		map[string]bool{"wanted": true}, nil)

	require.NoError(t, err)
	assert.Equal(t, map[string]bool{"wanted": true}, matched)
}

func TestWalkSince_NotifiesPerPage(t *testing.T) {
	fetch := descendingFeed([][]Series{
		{
			{ID: "s1", LastModified: at(5 * time.Hour)},
			{ID: "s2", LastModified: at(4 * time.Hour)},
		},
		{
			{ID: "s3", LastModified: at(3 * time.Hour)},
		},
		{},
	})

	var batches [][]string
	candidates := map[string]bool{"s1": true, "s2": true, "s3": true}
	_, err := WalkSince(context.Background(), fetch, at(time.Hour), 2,
		func(s Series) string { return s.ID },
		func(s Series) time.Time { return s.LastModified },
		candidates, func(ids []string) {
			batches = append(batches, ids)
		})

	require.NoError(t, err)
	require.Len(t, batches, 2)
	assert.Equal(t, []string{"s1", "s2"}, batches[0])
	assert.Equal(t, []string{"s3"}, batches[1])
}

func TestWalkSince_NotifiesBeforeStopping(t *testing.T) {
	// The page containing the watermark crossing still flushes the fresh
	// ids collected above the cut.
	fetch := descendingFeed([][]Series{
		{
			{ID: "fresh", LastModified: at(3 * time.Hour)},
			{ID: "stale", LastModified: at(0)},
		},
	})

	var batches [][]string
	_, err := WalkSince(context.Background(), fetch, at(time.Hour), 10,
		func(s Series) string { return s.ID },
		func(s Series) time.Time { return s.LastModified },
		map[string]bool{"fresh": true, "stale": true}, func(ids []string) {
			batches = append(batches, ids)
		})

	require.NoError(t, err)
	require.Len(t, batches, 1)
	assert.Equal(t, []string{"fresh"}, batches[0])
}

func TestWalkSince_DuplicateIDsMatchOnce(t *testing.T) {
	fetch := descendingFeed([][]Series{
		{
			{ID: "dup", LastModified: at(3 * time.Hour)},
			{ID: "dup", LastModified: at(2 * time.Hour)},
		},
		{},
	})

	var notified []string
	matched, err := WalkSince(context.Background(), fetch, at(time.Hour), 10,
		func(s Series) string { return s.ID },
		func(s Series) time.Time { return s.LastModified },
		map[string]bool{"dup": true}, func(ids []string) {
			notified = append(notified, ids...)
		})

	require.NoError(t, err)
	assert.True(t, matched["dup"])
	assert.Equal(t, []string{"dup"}, notified)
}

func TestWalkSince_PropagatesFetchError(t *testing.T) {
	boom := errors.New("boom")
	fetch := func(ctx context.Context, page, size int) (Page[Series], error) {
		return Page[Series]{}, boom
	}

	_, err := WalkSince(context.Background(), fetch, at(0), 10,
		func(s Series) string { return s.ID },
		func(s Series) time.Time { return s.LastModified },
		nil, nil)
	assert.ErrorIs(t, err, boom)
}
