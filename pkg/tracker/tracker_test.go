package tracker

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/kerbaras/komgas/pkg/host"
	"github.com/kerbaras/komgas/pkg/komga"
)

// fakeServer is a minimal Komga stand-in: a fixed book list per series
// plus a record of every read-progress mutation.
type fakeServer struct {
	mu       sync.Mutex
	books    string
	patches  map[string]map[string]any // bookID -> body
	deletes  []string
	failWith int
}

func newFakeServer(books string) *fakeServer {
	return &fakeServer{books: books, patches: make(map[string]map[string]any)}
}

func (f *fakeServer) handler() http.Handler {
	mux := http.NewServeMux()
	mux.HandleFunc("/api/v1/series/s1/books", func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(f.books))
	})
	mux.HandleFunc("/api/v1/books/", func(w http.ResponseWriter, r *http.Request) {
		f.mu.Lock()
		defer f.mu.Unlock()
		if f.failWith != 0 {
			w.WriteHeader(f.failWith)
			return
		}
		var body map[string]any
		json.NewDecoder(r.Body).Decode(&body)
		bookID := r.URL.Path[len("/api/v1/books/") : len(r.URL.Path)-len("/read-progress")]
		f.patches[bookID] = body
		w.WriteHeader(http.StatusNoContent)
	})
	mux.HandleFunc("/api/v1/series/", func(w http.ResponseWriter, r *http.Request) {
		if r.Method == http.MethodDelete {
			f.mu.Lock()
			f.deletes = append(f.deletes, r.URL.Path)
			f.mu.Unlock()
			w.WriteHeader(http.StatusNoContent)
			return
		}
		http.NotFound(w, r)
	})
	return mux
}

func (f *fakeServer) patched() map[string]map[string]any {
	f.mu.Lock()
	defer f.mu.Unlock()
	out := make(map[string]map[string]any, len(f.patches))
	for k, v := range f.patches {
		out[k] = v
	}
	return out
}

// fourBooks is a series of chapters with sort keys 1 through 4, the
// first one already read.
const fourBooks = `{"content":[
	{"id": "b1", "seriesId": "s1", "name": "ch1.cbz", "metadata": {"title": "Ch 1", "numberSort": 1}, "readProgress": {"page": 20, "completed": true}},
	{"id": "b2", "seriesId": "s1", "name": "ch2.cbz", "metadata": {"title": "Ch 2", "numberSort": 2}},
	{"id": "b3", "seriesId": "s1", "name": "ch3.cbz", "metadata": {"title": "Ch 3", "numberSort": 3}},
	{"id": "b4", "seriesId": "s1", "name": "ch4.cbz", "metadata": {"title": "Ch 4", "numberSort": 4}}
]}`

func testTracker(t *testing.T, serverURL string) *Tracker {
	t.Helper()
	provider := komga.ConfigFunc(func() komga.Config {
		return komga.Config{BaseURL: serverURL, Username: "demo", Password: "secret"}
	})
	client := komga.NewClient(provider, host.NewRateLimited(100, 5*time.Second))
	return New(client)
}

func TestSetProgress_MarksUpToTargetOnly(t *testing.T) {
	fake := newFakeServer(fourBooks)
	server := httptest.NewServer(fake.handler())
	defer server.Close()

	tr := testTracker(t, server.URL)
	require.NoError(t, tr.SetProgress(context.Background(), "s1", 2))

	patched := fake.patched()
	require.Len(t, patched, 2)
	assert.Equal(t, true, patched["b1"]["completed"])
	assert.Equal(t, true, patched["b2"]["completed"])
	assert.NotContains(t, patched, "b3")
	assert.NotContains(t, patched, "b4")
}

func TestSetProgress_NeverUnreads(t *testing.T) {
	fake := newFakeServer(fourBooks)
	server := httptest.NewServer(fake.handler())
	defer server.Close()

	tr := testTracker(t, server.URL)
	require.NoError(t, tr.SetProgress(context.Background(), "s1", 0))

	assert.Empty(t, fake.patched())
}

func TestSetProgress_FractionalTarget(t *testing.T) {
	fake := newFakeServer(fourBooks)
	server := httptest.NewServer(fake.handler())
	defer server.Close()

	tr := testTracker(t, server.URL)
	require.NoError(t, tr.SetProgress(context.Background(), "s1", 2.5))

	patched := fake.patched()
	require.Len(t, patched, 2)
	assert.Contains(t, patched, "b1")
	assert.Contains(t, patched, "b2")
}

func TestResyncSeries_MarksBothDirections(t *testing.T) {
	fake := newFakeServer(fourBooks)
	server := httptest.NewServer(fake.handler())
	defer server.Close()

	tr := testTracker(t, server.URL)
	require.NoError(t, tr.ResyncSeries(context.Background(), "s1", 2))

	patched := fake.patched()
	require.Len(t, patched, 4)
	assert.Equal(t, true, patched["b1"]["completed"])
	assert.Equal(t, true, patched["b2"]["completed"])
	assert.Equal(t, false, patched["b3"]["completed"])
	assert.Equal(t, float64(1), patched["b3"]["page"])
	assert.Equal(t, false, patched["b4"]["completed"])
}

func TestSetProgress_ServerFailureSurfaces(t *testing.T) {
	fake := newFakeServer(fourBooks)
	fake.failWith = http.StatusInternalServerError
	server := httptest.NewServer(fake.handler())
	defer server.Close()

	tr := testTracker(t, server.URL)
	err := tr.SetProgress(context.Background(), "s1", 2)
	require.Error(t, err)
	assert.True(t, komga.IsTransport(err))
}

func TestProgress_Snapshot(t *testing.T) {
	books := `{"content":[
		{"id": "b1", "metadata": {"numberSort": 1}, "readProgress": {"completed": true}},
		{"id": "b2", "metadata": {"numberSort": 2}, "readProgress": {"completed": true}},
		{"id": "b3", "metadata": {"numberSort": 3}, "readProgress": {"completed": false, "page": 4}},
		{"id": "b4", "metadata": {"numberSort": 4}}
	]}`
	fake := newFakeServer(books)
	server := httptest.NewServer(fake.handler())
	defer server.Close()

	tr := testTracker(t, server.URL)
	p, err := tr.Progress(context.Background(), "s1")
	require.NoError(t, err)

	assert.Equal(t, "s1", p.SeriesID)
	assert.Equal(t, 2, p.ReadCount)
	assert.Equal(t, 4, p.Total)
	assert.Equal(t, float64(2), p.LastRead, "in-progress chapters do not count as read")
}

func TestProgressForm_SortedBySortKey(t *testing.T) {
	// Server returns the books out of reading order.
	books := `{"content":[
		{"id": "b3", "name": "ch3.cbz", "metadata": {"title": "Ch 3", "numberSort": 3}},
		{"id": "b1", "name": "ch1.cbz", "metadata": {"numberSort": 1}, "readProgress": {"completed": true}},
		{"id": "b2", "name": "ch2.cbz", "metadata": {"title": "Ch 2", "numberSort": 2}}
	]}`
	fake := newFakeServer(books)
	server := httptest.NewServer(fake.handler())
	defer server.Close()

	tr := testTracker(t, server.URL)
	form, err := tr.ProgressForm(context.Background(), "s1")
	require.NoError(t, err)

	require.Len(t, form.Entries, 3)
	assert.Equal(t, []float64{1, 2, 3}, []float64{
		form.Entries[0].SortKey,
		form.Entries[1].SortKey,
		form.Entries[2].SortKey,
	})
	// Untitled entries fall back to the file name.
	assert.Equal(t, "ch1.cbz", form.Entries[0].Label)
	assert.Equal(t, "Ch 2", form.Entries[1].Label)
	assert.True(t, form.Entries[0].Read)
	assert.False(t, form.Entries[1].Read)
}

func TestClearProgress(t *testing.T) {
	fake := newFakeServer(fourBooks)
	server := httptest.NewServer(fake.handler())
	defer server.Close()

	tr := testTracker(t, server.URL)
	require.NoError(t, tr.ClearProgress(context.Background(), "s1"))

	assert.Equal(t, []string{"/api/v1/series/s1/read-progress"}, fake.deletes)
}
