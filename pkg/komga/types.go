package komga

import "time"

// Page is the paged envelope Komga wraps list responses in.
type Page[T any] struct {
	Content       []T  `json:"content"`
	Number        int  `json:"number"`
	Size          int  `json:"size"`
	TotalElements int  `json:"totalElements"`
	TotalPages    int  `json:"totalPages"`
	First         bool `json:"first"`
	Last          bool `json:"last"`
}

type Series struct {
	ID            string         `json:"id"`
	LibraryID     string         `json:"libraryId"`
	Name          string         `json:"name"`
	BooksCount    int            `json:"booksCount"`
	Metadata      SeriesMetadata `json:"metadata"`
	BooksMetadata BooksMetadata  `json:"booksMetadata"`
	LastModified  time.Time      `json:"lastModified"`
}

type SeriesMetadata struct {
	Status  string   `json:"status"`
	Summary string   `json:"summary"`
	Genres  []string `json:"genres"`
	Tags    []string `json:"tags"`
}

// BooksMetadata is the roll-up Komga aggregates over a series' books.
type BooksMetadata struct {
	Authors []Author `json:"authors"`
	Summary string   `json:"summary"`
}

type Author struct {
	Name string `json:"name"`
	Role string `json:"role"`
}

type Book struct {
	ID           string        `json:"id"`
	SeriesID     string        `json:"seriesId"`
	Name         string        `json:"name"`
	Number       float64       `json:"number"`
	Size         string        `json:"size"`
	Media        Media         `json:"media"`
	Metadata     BookMetadata  `json:"metadata"`
	ReadProgress *ReadProgress `json:"readProgress,omitempty"`
	LastModified time.Time     `json:"lastModified"`
}

// BookMetadata carries the user-facing number (display only) and
// numberSort, which is authoritative for ordering and progress math.
type BookMetadata struct {
	Title      string  `json:"title"`
	Number     string  `json:"number"`
	NumberSort float64 `json:"numberSort"`
}

type Media struct {
	Status     string `json:"status"`
	MediaType  string `json:"mediaType"`
	PagesCount int    `json:"pagesCount"`
}

type ReadProgress struct {
	Page      int       `json:"page"`
	Completed bool      `json:"completed"`
	ReadDate  time.Time `json:"readDate"`
}

// ReadProgressUpdate is the PATCH body for a book's read progress. Page
// is a pointer: the completed-only form omits it entirely.
type ReadProgressUpdate struct {
	Page      *int `json:"page,omitempty"`
	Completed bool `json:"completed"`
}

type BookPage struct {
	Number    int    `json:"number"`
	FileName  string `json:"fileName"`
	MediaType string `json:"mediaType"`
	Width     int    `json:"width"`
	Height    int    `json:"height"`
}

type Collection struct {
	ID        string   `json:"id"`
	Name      string   `json:"name"`
	SeriesIDs []string `json:"seriesIds"`
}

type Library struct {
	ID   string `json:"id"`
	Name string `json:"name"`
	Root string `json:"root"`
}
