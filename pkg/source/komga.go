package source

import (
	"context"
	"strconv"

	"github.com/rs/zerolog/log"

	"github.com/kerbaras/komgas/pkg/data"
	"github.com/kerbaras/komgas/pkg/host"
	"github.com/kerbaras/komgas/pkg/komga"
)

const defaultPageSize = 20

var _ Source = (*Komga)(nil)

// Komga adapts a Komga library server to the host's source contract.
type Komga struct {
	client *komga.Client
	store  host.StateStore
}

func NewKomga(client *komga.Client, store host.StateStore) *Komga {
	return &Komga{client: client, store: store}
}

// Search runs a filtered series search. Unavailability degrades to an
// empty result; a malformed identifier or payload still propagates.
func (s *Komga) Search(ctx context.Context, q Query, page, size int) (SearchResult, error) {
	query, err := s.buildQuery(q)
	if err != nil {
		return SearchResult{}, err
	}
	if size <= 0 {
		size = defaultPageSize
	}

	fetch := func(ctx context.Context, page, size int) (komga.Page[komga.Series], error) {
		return s.client.SearchSeries(ctx, query, page, size)
	}
	items, next, err := komga.NextPage(ctx, fetch, komga.Cursor{Number: page}, size)
	if err != nil {
		if komga.IsUnavailable(err) {
			log.Warn().Err(err).Msg("search unavailable, serving empty result")
			return SearchResult{}, nil
		}
		return SearchResult{}, err
	}

	result := SearchResult{Items: make([]data.Manga, len(items))}
	for i, series := range items {
		result.Items[i] = s.seriesToManga(series)
	}
	if next != nil {
		n := next.Number
		result.NextPage = &n
	}
	return result, nil
}

// buildQuery decodes the composite tag identifiers back into their
// namespaces and spreads them over the matching server filters.
func (s *Komga) buildQuery(q Query) (komga.SearchQuery, error) {
	query := komga.SearchQuery{Term: q.Term}
	for _, id := range q.IncludeTags {
		ns, raw, err := DecodeTag(id)
		if err != nil {
			return komga.SearchQuery{}, err
		}
		switch ns {
		case NamespaceGenre:
			query.Genres = append(query.Genres, raw)
		case NamespaceTag:
			query.Tags = append(query.Tags, raw)
		case NamespaceCollection:
			query.Collections = append(query.Collections, raw)
		case NamespaceLibrary:
			query.Libraries = append(query.Libraries, raw)
		default:
			return komga.SearchQuery{}, &InvalidTagError{ID: id}
		}
	}
	return query, nil
}

func (s *Komga) GetManga(ctx context.Context, id string) (*data.Manga, error) {
	series, err := s.client.GetSeries(ctx, id)
	if err != nil {
		return nil, err
	}
	manga := s.seriesToManga(*series)
	return &manga, nil
}

func (s *Komga) GetChapters(ctx context.Context, mangaID string) ([]data.Chapter, error) {
	books, err := s.client.SeriesBooks(ctx, mangaID)
	if err != nil {
		return nil, err
	}
	chapters := make([]data.Chapter, len(books))
	for i, book := range books {
		chapters[i] = bookToChapter(book)
	}
	return chapters, nil
}

func (s *Komga) GetPages(ctx context.Context, mangaID, chapterID string) ([]data.Page, error) {
	bookPages, err := s.client.BookPages(ctx, chapterID)
	if err != nil {
		return nil, err
	}
	pages := make([]data.Page, len(bookPages))
	for i, p := range bookPages {
		url, err := s.client.BookPageURL(chapterID, p)
		if err != nil {
			return nil, err
		}
		pages[i] = data.Page{ChapterID: chapterID, Index: i, URL: url}
	}
	return pages, nil
}

func (s *Komga) seriesToManga(series komga.Series) data.Manga {
	manga := data.Manga{
		ID:      series.ID,
		Title:   series.Name,
		Status:  series.Metadata.Status,
		Summary: series.Metadata.Summary,
		Genres:  series.Metadata.Genres,
		Tags:    series.Metadata.Tags,
	}
	if manga.Summary == "" {
		manga.Summary = series.BooksMetadata.Summary
	}
	for _, author := range series.BooksMetadata.Authors {
		switch author.Role {
		case "writer":
			manga.Authors = append(manga.Authors, author.Name)
		case "penciller":
			manga.Artists = append(manga.Artists, author.Name)
		}
	}
	if url, err := s.client.SeriesThumbnailURL(series.ID); err == nil {
		manga.ThumbnailURL = url
	}
	return manga
}

func bookToChapter(book komga.Book) data.Chapter {
	display := book.Number
	if n, err := strconv.ParseFloat(book.Metadata.Number, 64); err == nil {
		display = n
	}
	read := book.ReadProgress != nil && book.ReadProgress.Completed
	return data.Chapter{
		ID:           book.ID,
		MangaID:      book.SeriesID,
		Title:        book.Metadata.Title,
		Number:       display,
		SortKey:      book.Metadata.NumberSort,
		Language:     "en",
		SizeLabel:    book.Size,
		PagesCount:   book.Media.PagesCount,
		Read:         read,
		LastModified: book.LastModified,
	}
}
