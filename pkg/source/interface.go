package source

import (
	"context"

	"github.com/kerbaras/komgas/pkg/data"
)

// Section is one shelf of the home page. An operation first delivers
// every section empty, then re-delivers each one as its items arrive.
type Section struct {
	ID    string
	Title string
	Items []data.Manga
}

// SearchResult is one page of search hits. A nil NextPage means the
// listing is exhausted.
type SearchResult struct {
	Items    []data.Manga
	NextPage *int
}

// Query carries the search term and the composite tag identifiers the
// host echoes back from the tag catalog.
type Query struct {
	Term        string
	IncludeTags []string
}

// Source is the contract the host invokes. HomeSections, TagCatalog and
// Search are reachable before the user has configured a server: they
// degrade to placeholders instead of failing when the server is absent
// or unreachable. The remaining operations run only after the host has
// committed to a specific series and may propagate errors.
type Source interface {
	HomeSections(ctx context.Context, notify func(Section)) error
	TagCatalog(ctx context.Context) ([]TagSection, error)
	Search(ctx context.Context, q Query, page, size int) (SearchResult, error)

	GetManga(ctx context.Context, id string) (*data.Manga, error)
	GetChapters(ctx context.Context, mangaID string) ([]data.Chapter, error)
	GetPages(ctx context.Context, mangaID, chapterID string) ([]data.Page, error)
}
