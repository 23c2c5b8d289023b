package komga

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"

	json "github.com/goccy/go-json"

	"github.com/kerbaras/komgas/pkg/host"
)

// Config is the stored server configuration. Both fields live in the
// host's settings store; either one missing means "unconfigured".
type Config struct {
	BaseURL  string
	Username string
	Password string
}

func (c Config) Configured() bool {
	return c.BaseURL != ""
}

func (c Config) HasCredentials() bool {
	return c.Username != "" || c.Password != ""
}

// ConfigProvider hands out the current server configuration. It is read
// before every outbound call so settings changes apply immediately.
type ConfigProvider interface {
	ServerConfig() Config
}

// ConfigFunc adapts a plain function to a ConfigProvider.
type ConfigFunc func() Config

func (f ConfigFunc) ServerConfig() Config { return f() }

// Client talks to a Komga server. All requests go through the host's
// rate-limited scheduler; the client holds no connections of its own.
type Client struct {
	provider  ConfigProvider
	scheduler host.Scheduler
}

func NewClient(provider ConfigProvider, scheduler host.Scheduler) *Client {
	return &Client{provider: provider, scheduler: scheduler}
}

// newRequest builds an authenticated request. Stored credentials are
// injected as Basic auth unless the caller already supplied an
// Authorization header; explicit auth always wins so credential
// verification can probe with fresh values.
func (c *Client) newRequest(ctx context.Context, method, path string, query url.Values, body any, header http.Header) (*http.Request, error) {
	cfg := c.provider.ServerConfig()
	if !cfg.Configured() {
		return nil, ErrNotConfigured
	}

	u := strings.TrimRight(cfg.BaseURL, "/") + path
	if len(query) > 0 {
		u += "?" + query.Encode()
	}

	var reader io.Reader
	if body != nil {
		data, err := json.Marshal(body)
		if err != nil {
			return nil, err
		}
		reader = bytes.NewReader(data)
	}

	req, err := http.NewRequestWithContext(ctx, method, u, reader)
	if err != nil {
		return nil, err
	}
	req.Header.Set("Accept", "application/json")
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	for k, vs := range header {
		for _, v := range vs {
			req.Header.Add(k, v)
		}
	}

	if req.Header.Get("Authorization") == "" {
		if !cfg.HasCredentials() {
			return nil, ErrNoCredentials
		}
		req.SetBasicAuth(cfg.Username, cfg.Password)
	}

	return req, nil
}

func (c *Client) do(ctx context.Context, method, path string, query url.Values, body, out any) error {
	req, err := c.newRequest(ctx, method, path, query, body, nil)
	if err != nil {
		return err
	}
	return c.send(ctx, req, out)
}

func (c *Client) send(ctx context.Context, req *http.Request, out any) error {
	resp, err := c.scheduler.Schedule(ctx, req, host.PriorityNormal)
	if err != nil {
		return &TransportError{URL: req.URL.String(), Err: err}
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		io.Copy(io.Discard, resp.Body)
		return &TransportError{URL: req.URL.String(), StatusCode: resp.StatusCode}
	}
	if out == nil {
		io.Copy(io.Discard, resp.Body)
		return nil
	}

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return &TransportError{URL: req.URL.String(), Err: err}
	}
	raw, err := Normalize(data)
	if err != nil {
		return err
	}
	return DecodeInto(raw, out)
}

// CheckLogin probes the server with explicit credentials, bypassing
// whatever is stored. Used by the settings flow before saving.
func (c *Client) CheckLogin(ctx context.Context, username, password string) error {
	header := http.Header{}
	header.Set("Authorization", "Basic "+basicToken(username, password))
	req, err := c.newRequest(ctx, http.MethodGet, "/api/v2/users/me", nil, nil, header)
	if err != nil {
		return err
	}
	return c.send(ctx, req, nil)
}

func basicToken(username, password string) string {
	req := &http.Request{Header: http.Header{}}
	req.SetBasicAuth(username, password)
	return strings.TrimPrefix(req.Header.Get("Authorization"), "Basic ")
}

func (c *Client) Genres(ctx context.Context) ([]string, error) {
	var genres []string
	if err := c.do(ctx, http.MethodGet, "/api/v1/genres", nil, nil, &genres); err != nil {
		return nil, err
	}
	return genres, nil
}

func (c *Client) SeriesTags(ctx context.Context) ([]string, error) {
	var tags []string
	if err := c.do(ctx, http.MethodGet, "/api/v1/tags/series", nil, nil, &tags); err != nil {
		return nil, err
	}
	return tags, nil
}

func (c *Client) Collections(ctx context.Context) ([]Collection, error) {
	query := url.Values{"unpaged": {"true"}}
	var page Page[Collection]
	if err := c.do(ctx, http.MethodGet, "/api/v1/collections", query, nil, &page); err != nil {
		return nil, err
	}
	return page.Content, nil
}

func (c *Client) Libraries(ctx context.Context) ([]Library, error) {
	var libraries []Library
	if err := c.do(ctx, http.MethodGet, "/api/v1/libraries", nil, nil, &libraries); err != nil {
		return nil, err
	}
	return libraries, nil
}

func (c *Client) GetSeries(ctx context.Context, seriesID string) (*Series, error) {
	var series Series
	if err := c.do(ctx, http.MethodGet, "/api/v1/series/"+seriesID, nil, nil, &series); err != nil {
		return nil, err
	}
	return &series, nil
}

// SeriesBooks lists every ready, non-deleted book of a series in one call.
func (c *Client) SeriesBooks(ctx context.Context, seriesID string) ([]Book, error) {
	query := url.Values{
		"unpaged":      {"true"},
		"media_status": {"READY"},
		"deleted":      {"false"},
	}
	var page Page[Book]
	if err := c.do(ctx, http.MethodGet, "/api/v1/series/"+seriesID+"/books", query, nil, &page); err != nil {
		return nil, err
	}
	return page.Content, nil
}

func (c *Client) GetBook(ctx context.Context, bookID string) (*Book, error) {
	var book Book
	if err := c.do(ctx, http.MethodGet, "/api/v1/books/"+bookID, nil, nil, &book); err != nil {
		return nil, err
	}
	return &book, nil
}

func (c *Client) BookPages(ctx context.Context, bookID string) ([]BookPage, error) {
	var pages []BookPage
	if err := c.do(ctx, http.MethodGet, "/api/v1/books/"+bookID+"/pages", nil, nil, &pages); err != nil {
		return nil, err
	}
	return pages, nil
}

// SearchQuery holds the decoded search filters. Each slice maps onto a
// repeated query parameter.
type SearchQuery struct {
	Term        string
	Genres      []string
	Tags        []string
	Collections []string
	Libraries   []string
}

func (q SearchQuery) values(page, size int) url.Values {
	v := url.Values{
		"page":    {strconv.Itoa(page)},
		"size":    {strconv.Itoa(size)},
		"deleted": {"false"},
	}
	if q.Term != "" {
		v.Set("search", q.Term)
	}
	for _, g := range q.Genres {
		v.Add("genre", g)
	}
	for _, t := range q.Tags {
		v.Add("tag", t)
	}
	for _, id := range q.Collections {
		v.Add("collection_id", id)
	}
	for _, id := range q.Libraries {
		v.Add("library_id", id)
	}
	return v
}

func (c *Client) SearchSeries(ctx context.Context, q SearchQuery, page, size int) (Page[Series], error) {
	var out Page[Series]
	err := c.do(ctx, http.MethodGet, "/api/v1/series", q.values(page, size), nil, &out)
	return out, err
}

func (c *Client) RecentSeries(ctx context.Context, page, size int) (Page[Series], error) {
	query := url.Values{
		"page":    {strconv.Itoa(page)},
		"size":    {strconv.Itoa(size)},
		"deleted": {"false"},
	}
	var out Page[Series]
	err := c.do(ctx, http.MethodGet, "/api/v1/series/new", query, nil, &out)
	return out, err
}

// UpdatedSeries lists series in descending last-modified order.
func (c *Client) UpdatedSeries(ctx context.Context, page, size int) (Page[Series], error) {
	query := url.Values{
		"page":    {strconv.Itoa(page)},
		"size":    {strconv.Itoa(size)},
		"deleted": {"false"},
	}
	var out Page[Series]
	err := c.do(ctx, http.MethodGet, "/api/v1/series/updated", query, nil, &out)
	return out, err
}

func (c *Client) OnDeckBooks(ctx context.Context, page, size int) (Page[Book], error) {
	query := url.Values{
		"page": {strconv.Itoa(page)},
		"size": {strconv.Itoa(size)},
	}
	var out Page[Book]
	err := c.do(ctx, http.MethodGet, "/api/v1/books/ondeck", query, nil, &out)
	return out, err
}

func (c *Client) KeepReadingBooks(ctx context.Context, page, size int) (Page[Book], error) {
	query := url.Values{
		"page":        {strconv.Itoa(page)},
		"size":        {strconv.Itoa(size)},
		"read_status": {"IN_PROGRESS"},
		"sort":        {"readProgress.readDate,desc"},
	}
	var out Page[Book]
	err := c.do(ctx, http.MethodGet, "/api/v1/books", query, nil, &out)
	return out, err
}

// MarkRead marks a book fully read. The server treats re-marking a read
// book as a no-op, so callers may fire these blindly.
func (c *Client) MarkRead(ctx context.Context, bookID string) error {
	update := ReadProgressUpdate{Completed: true}
	return c.do(ctx, http.MethodPatch, "/api/v1/books/"+bookID+"/read-progress", nil, update, nil)
}

func (c *Client) MarkUnread(ctx context.Context, bookID string) error {
	page := 1
	update := ReadProgressUpdate{Page: &page, Completed: false}
	return c.do(ctx, http.MethodPatch, "/api/v1/books/"+bookID+"/read-progress", nil, update, nil)
}

func (c *Client) DeleteSeriesProgress(ctx context.Context, seriesID string) error {
	return c.do(ctx, http.MethodDelete, "/api/v1/series/"+seriesID+"/read-progress", nil, nil, nil)
}

// Media types the host renders natively. Anything else gets converted
// server-side via the convert parameter on the page URL.
var supportedPageTypes = map[string]bool{
	"image/jpeg":      true,
	"image/png":       true,
	"image/gif":       true,
	"image/webp":      true,
	"application/pdf": true,
}

// BookPageURL builds the content URL for one page, appending a
// conversion parameter when the declared media type is not renderable.
func (c *Client) BookPageURL(bookID string, page BookPage) (string, error) {
	cfg := c.provider.ServerConfig()
	if !cfg.Configured() {
		return "", ErrNotConfigured
	}
	u := fmt.Sprintf("%s/api/v1/books/%s/pages/%d", strings.TrimRight(cfg.BaseURL, "/"), bookID, page.Number)
	if !supportedPageTypes[page.MediaType] {
		u += "?convert=png"
	}
	return u, nil
}

// SeriesThumbnailURL builds the cover URL for a series.
func (c *Client) SeriesThumbnailURL(seriesID string) (string, error) {
	cfg := c.provider.ServerConfig()
	if !cfg.Configured() {
		return "", ErrNotConfigured
	}
	return fmt.Sprintf("%s/api/v1/series/%s/thumbnail", strings.TrimRight(cfg.BaseURL, "/"), seriesID), nil
}

// BookThumbnailURL builds the cover URL for a single book.
func (c *Client) BookThumbnailURL(bookID string) (string, error) {
	cfg := c.provider.ServerConfig()
	if !cfg.Configured() {
		return "", ErrNotConfigured
	}
	return fmt.Sprintf("%s/api/v1/books/%s/thumbnail", strings.TrimRight(cfg.BaseURL, "/"), bookID), nil
}
