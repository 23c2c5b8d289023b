package source

import (
	"context"
	"fmt"
	"strings"
	"unicode"

	"github.com/rs/zerolog/log"

	"github.com/kerbaras/komgas/pkg/komga"
)

// Namespace distinguishes the four flat tag spaces the server exposes.
type Namespace string

const (
	NamespaceGenre      Namespace = "genre"
	NamespaceTag        Namespace = "tag"
	NamespaceCollection Namespace = "collection"
	NamespaceLibrary    Namespace = "library"
)

// InvalidTagError flags a composite identifier the codec cannot split.
// It indicates a caller bug and is never swallowed.
type InvalidTagError struct {
	ID string
}

func (e *InvalidTagError) Error() string {
	return fmt.Sprintf("source: invalid tag identifier %q", e.ID)
}

// EncodeTag folds a namespace and a raw server id into one flat
// identifier. The raw id passes through untouched; capitalization only
// ever applies to display labels.
func EncodeTag(ns Namespace, rawID string) string {
	return string(ns) + "-" + rawID
}

// DecodeTag splits a composite identifier at the first dash. Raw ids may
// themselves contain dashes, so only the first one separates.
func DecodeTag(id string) (Namespace, string, error) {
	ns, raw, ok := strings.Cut(id, "-")
	if !ok {
		return "", "", &InvalidTagError{ID: id}
	}
	return Namespace(ns), raw, nil
}

// Tag is one selectable filter entry.
type Tag struct {
	ID    string
	Label string
}

// TagSection groups the tags of one namespace for display.
type TagSection struct {
	ID    string
	Label string
	Tags  []Tag
}

func capitalize(s string) string {
	if s == "" {
		return s
	}
	r := []rune(s)
	r[0] = unicode.ToUpper(r[0])
	return string(r)
}

func tagsFromNames(ns Namespace, names []string) []Tag {
	tags := make([]Tag, len(names))
	for i, name := range names {
		tags[i] = Tag{ID: EncodeTag(ns, name), Label: capitalize(name)}
	}
	return tags
}

// TagCatalog lists the four filter namespaces. When the server is
// unconfigured or unreachable it returns a single annotated empty
// section instead of an error. Collections are suppressed entirely when
// the server has one or none: a single-entry filter is not a filter.
func (s *Komga) TagCatalog(ctx context.Context) ([]TagSection, error) {
	genres, err := s.client.Genres(ctx)
	if err != nil {
		return tagCatalogFallback(err)
	}
	seriesTags, err := s.client.SeriesTags(ctx)
	if err != nil {
		return tagCatalogFallback(err)
	}
	collections, err := s.client.Collections(ctx)
	if err != nil {
		return tagCatalogFallback(err)
	}
	libraries, err := s.client.Libraries(ctx)
	if err != nil {
		return tagCatalogFallback(err)
	}

	sections := []TagSection{
		{ID: string(NamespaceGenre), Label: "Genres", Tags: tagsFromNames(NamespaceGenre, genres)},
		{ID: string(NamespaceTag), Label: "Tags", Tags: tagsFromNames(NamespaceTag, seriesTags)},
	}

	if len(collections) > 1 {
		tags := make([]Tag, len(collections))
		for i, c := range collections {
			tags[i] = Tag{ID: EncodeTag(NamespaceCollection, c.ID), Label: capitalize(c.Name)}
		}
		sections = append(sections, TagSection{ID: string(NamespaceCollection), Label: "Collections", Tags: tags})
	}

	libTags := make([]Tag, len(libraries))
	for i, l := range libraries {
		libTags[i] = Tag{ID: EncodeTag(NamespaceLibrary, l.ID), Label: capitalize(l.Name)}
	}
	sections = append(sections, TagSection{ID: string(NamespaceLibrary), Label: "Libraries", Tags: libTags})

	return sections, nil
}

func tagCatalogFallback(err error) ([]TagSection, error) {
	if !komga.IsUnavailable(err) {
		return nil, err
	}
	log.Warn().Err(err).Msg("tag catalog unavailable, serving placeholder")
	return []TagSection{{ID: "unavailable", Label: "Komga server unavailable"}}, nil
}
