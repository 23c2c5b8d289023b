package source

import (
	"context"
	"sync"

	"github.com/rs/zerolog/log"
	"golang.org/x/sync/errgroup"

	"github.com/kerbaras/komgas/pkg/config"
	"github.com/kerbaras/komgas/pkg/data"
	"github.com/kerbaras/komgas/pkg/host"
	"github.com/kerbaras/komgas/pkg/komga"
)

// HomeSections populates the home page. Every section is announced empty
// first so the host can render shelves immediately, then filled in
// independently as its fetch settles. Unreachable-server failures are
// handled inside each section's fetch; the join only surfaces errors
// that point at a broken protocol, never at an absent one.
func (s *Komga) HomeSections(ctx context.Context, notify func(Section)) error {
	if !config.ServerConfig(s.store).Configured() {
		notify(placeholderSection())
		return nil
	}

	type homeSection struct {
		id    string
		title string
		fetch func(ctx context.Context) ([]data.Manga, error)
	}
	sections := []homeSection{
		{"new", "Recently Added Series", s.fetchRecent},
		{"updated", "Recently Updated Series", s.fetchUpdated},
	}
	if config.FlagEnabled(s.store, host.KeyShowOnDeck) {
		sections = append(sections, homeSection{"ondeck", "On Deck", s.fetchOnDeck})
	}
	if config.FlagEnabled(s.store, host.KeyShowKeepReading) {
		sections = append(sections, homeSection{"keep-reading", "Keep Reading", s.fetchKeepReading})
	}

	// Serialize notify so the host sees one section update at a time.
	var mu sync.Mutex
	deliver := func(sec Section) {
		mu.Lock()
		defer mu.Unlock()
		notify(sec)
	}

	for _, sec := range sections {
		deliver(Section{ID: sec.id, Title: sec.title})
	}

	g, ctx := errgroup.WithContext(ctx)
	for _, sec := range sections {
		g.Go(func() error {
			items, err := sec.fetch(ctx)
			if err != nil {
				if komga.IsUnavailable(err) {
					log.Warn().Str("section", sec.id).Err(err).Msg("home section unavailable")
					return nil
				}
				return err
			}
			deliver(Section{ID: sec.id, Title: sec.title, Items: items})
			return nil
		})
	}
	return g.Wait()
}

func placeholderSection() Section {
	return Section{
		ID:    "placeholder",
		Title: "Komga",
		Items: []data.Manga{{
			ID:    "placeholder",
			Title: "Configure your Komga server in the source settings",
		}},
	}
}

func (s *Komga) fetchRecent(ctx context.Context) ([]data.Manga, error) {
	page, err := s.client.RecentSeries(ctx, 0, defaultPageSize)
	if err != nil {
		return nil, err
	}
	return s.mangaTiles(page.Content), nil
}

func (s *Komga) fetchUpdated(ctx context.Context) ([]data.Manga, error) {
	page, err := s.client.UpdatedSeries(ctx, 0, defaultPageSize)
	if err != nil {
		return nil, err
	}
	return s.mangaTiles(page.Content), nil
}

func (s *Komga) fetchOnDeck(ctx context.Context) ([]data.Manga, error) {
	page, err := s.client.OnDeckBooks(ctx, 0, defaultPageSize)
	if err != nil {
		return nil, err
	}
	return s.bookTiles(page.Content), nil
}

func (s *Komga) fetchKeepReading(ctx context.Context) ([]data.Manga, error) {
	page, err := s.client.KeepReadingBooks(ctx, 0, defaultPageSize)
	if err != nil {
		return nil, err
	}
	return s.bookTiles(page.Content), nil
}

func (s *Komga) mangaTiles(series []komga.Series) []data.Manga {
	tiles := make([]data.Manga, len(series))
	for i, sr := range series {
		tiles[i] = s.seriesToManga(sr)
	}
	return tiles
}

// bookTiles renders books as series tiles: the id navigates to the
// owning series, the title names the specific book.
func (s *Komga) bookTiles(books []komga.Book) []data.Manga {
	tiles := make([]data.Manga, len(books))
	for i, book := range books {
		title := book.Metadata.Title
		if title == "" {
			title = book.Name
		}
		tile := data.Manga{ID: book.SeriesID, Title: title}
		if url, err := s.client.BookThumbnailURL(book.ID); err == nil {
			tile.ThumbnailURL = url
		}
		tiles[i] = tile
	}
	return tiles
}
