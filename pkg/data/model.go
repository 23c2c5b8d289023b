package data

import "time"

// Manga is a snapshot of a remote series. Nothing here is cached
// locally; every value is re-fetched from the server on demand.
type Manga struct {
	ID           string
	Title        string
	ThumbnailURL string
	Status       string
	Summary      string
	Genres       []string
	Tags         []string
	Authors      []string
	Artists      []string
}

// Chapter is a snapshot of a remote book. Number is for display only;
// SortKey is authoritative when ordering chapters or computing progress.
type Chapter struct {
	ID           string
	MangaID      string
	Title        string
	Number       float64
	SortKey      float64
	Language     string
	SizeLabel    string
	PagesCount   int
	Read         bool
	LastModified time.Time
}

// Page points at one renderable page of a chapter.
type Page struct {
	ChapterID string
	Index     int
	URL       string
}

// ReadAction is a pending "mark chapter read" mutation waiting in the
// local queue until the server accepts it.
type ReadAction struct {
	ID        string
	SeriesID  string
	BookID    string
	Completed bool
	Attempts  int
	CreatedAt time.Time
}
