package source

import (
	"context"
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/kerbaras/komgas/pkg/host"
	"github.com/kerbaras/komgas/pkg/komga"
)

// sectionRecorder collects notify calls in arrival order.
type sectionRecorder struct {
	mu       sync.Mutex
	sections []Section
}

func (r *sectionRecorder) notify(sec Section) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.sections = append(r.sections, sec)
}

func (r *sectionRecorder) byID() map[string]Section {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make(map[string]Section)
	for _, sec := range r.sections {
		out[sec.ID] = sec
	}
	return out
}

func (r *sectionRecorder) ids() []string {
	r.mu.Lock()
	defer r.mu.Unlock()
	ids := make([]string, len(r.sections))
	for i, sec := range r.sections {
		ids[i] = sec.ID
	}
	return ids
}

func homeServer(t *testing.T) *httptest.Server {
	t.Helper()
	mux := http.NewServeMux()
	mux.HandleFunc("/api/v1/series/new", func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"content":[{"id":"new1","name":"Fresh Series"}]}`))
	})
	mux.HandleFunc("/api/v1/series/updated", func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"content":[{"id":"upd1","name":"Changed Series"}]}`))
	})
	mux.HandleFunc("/api/v1/books/ondeck", func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"content":[{"id":"b1","seriesId":"s-deck","name":"deck.cbz","metadata":{"title":"Next Up"}}]}`))
	})
	mux.HandleFunc("/api/v1/books", func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"content":[{"id":"b2","seriesId":"s-keep","name":"keep.cbz","metadata":{}}]}`))
	})
	return httptest.NewServer(mux)
}

func TestHomeSections_Unconfigured(t *testing.T) {
	src := testSource(t, "")
	rec := &sectionRecorder{}

	err := src.HomeSections(context.Background(), rec.notify)
	require.NoError(t, err)

	require.Len(t, rec.sections, 1)
	placeholder := rec.sections[0]
	assert.Equal(t, "placeholder", placeholder.ID)
	require.Len(t, placeholder.Items, 1)
	assert.Contains(t, placeholder.Items[0].Title, "Configure")
}

func TestHomeSections_PopulatesAllShelves(t *testing.T) {
	server := homeServer(t)
	defer server.Close()

	src := testSource(t, server.URL)
	rec := &sectionRecorder{}
	require.NoError(t, src.HomeSections(context.Background(), rec.notify))

	// Empty announcements first, in fixed order.
	assert.Equal(t, []string{"new", "updated", "ondeck", "keep-reading"}, rec.ids()[:4])

	byID := rec.byID()
	require.Len(t, byID, 4)

	assert.Equal(t, "Recently Added Series", byID["new"].Title)
	require.Len(t, byID["new"].Items, 1)
	assert.Equal(t, "Fresh Series", byID["new"].Items[0].Title)

	require.Len(t, byID["updated"].Items, 1)
	assert.Equal(t, "upd1", byID["updated"].Items[0].ID)

	// Book shelves navigate to the owning series.
	require.Len(t, byID["ondeck"].Items, 1)
	assert.Equal(t, "s-deck", byID["ondeck"].Items[0].ID)
	assert.Equal(t, "Next Up", byID["ondeck"].Items[0].Title)

	require.Len(t, byID["keep-reading"].Items, 1)
	assert.Equal(t, "s-keep", byID["keep-reading"].Items[0].ID)
	assert.Equal(t, "keep.cbz", byID["keep-reading"].Items[0].Title)
}

func TestHomeSections_DisplayFlagsHideShelves(t *testing.T) {
	server := homeServer(t)
	defer server.Close()

	src := testSource(t, server.URL)
	require.NoError(t, src.store.Set(host.KeyShowOnDeck, "false"))
	require.NoError(t, src.store.Set(host.KeyShowKeepReading, "false"))

	rec := &sectionRecorder{}
	require.NoError(t, src.HomeSections(context.Background(), rec.notify))

	byID := rec.byID()
	assert.Contains(t, byID, "new")
	assert.Contains(t, byID, "updated")
	assert.NotContains(t, byID, "ondeck")
	assert.NotContains(t, byID, "keep-reading")
}

func TestHomeSections_UnreachableServerLeavesEmptyShelves(t *testing.T) {
	server := homeServer(t)
	server.Close()

	src := testSource(t, server.URL)
	rec := &sectionRecorder{}

	err := src.HomeSections(context.Background(), rec.notify)
	require.NoError(t, err, "an unreachable server is not a home page error")

	byID := rec.byID()
	require.Len(t, byID, 4)
	for id, sec := range byID {
		assert.Empty(t, sec.Items, "section %s should stay empty", id)
	}
}

func TestHomeSections_MalformedSectionFails(t *testing.T) {
	mux := http.NewServeMux()
	mux.HandleFunc("/api/v1/series/new", func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{nonsense`))
	})
	mux.HandleFunc("/", func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"content":[]}`))
	})
	server := httptest.NewServer(mux)
	defer server.Close()

	src := testSource(t, server.URL)
	rec := &sectionRecorder{}

	err := src.HomeSections(context.Background(), rec.notify)
	require.Error(t, err)
	assert.True(t, komga.IsMalformed(err))
}
