package components

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/kerbaras/komgas/pkg/app/styles"
	"github.com/kerbaras/komgas/pkg/data"
)

type SeriesItem struct {
	Manga   data.Manga
	Section string
}

type SeriesList struct {
	Items         []SeriesItem
	SelectedIndex int
	Width         int
	Height        int
}

func NewSeriesList() *SeriesList {
	return &SeriesList{
		Items:         []SeriesItem{},
		SelectedIndex: 0,
		Width:         80,
		Height:        20,
	}
}

func (l *SeriesList) SetItems(items []SeriesItem) {
	l.Items = items
	if l.SelectedIndex >= len(items) && len(items) > 0 {
		l.SelectedIndex = len(items) - 1
	}
	if len(items) == 0 {
		l.SelectedIndex = 0
	}
}

func (l *SeriesList) Next() {
	if len(l.Items) == 0 {
		return
	}
	l.SelectedIndex++
	if l.SelectedIndex >= len(l.Items) {
		l.SelectedIndex = 0
	}
}

func (l *SeriesList) Prev() {
	if len(l.Items) == 0 {
		return
	}
	l.SelectedIndex--
	if l.SelectedIndex < 0 {
		l.SelectedIndex = len(l.Items) - 1
	}
}

func (l *SeriesList) Selected() *SeriesItem {
	if len(l.Items) == 0 || l.SelectedIndex >= len(l.Items) {
		return nil
	}
	return &l.Items[l.SelectedIndex]
}

func (l *SeriesList) View() string {
	if len(l.Items) == 0 {
		emptyMsg := styles.MutedStyle.Render("No series to show")
		return lipgloss.Place(l.Width, l.Height, lipgloss.Center, lipgloss.Center, emptyMsg)
	}

	var b strings.Builder
	lastSection := ""

	for i, item := range l.Items {
		if item.Section != "" && item.Section != lastSection {
			b.WriteString(styles.SubtitleStyle.Render(item.Section))
			b.WriteString("\n")
			lastSection = item.Section
		}

		cardStyle := styles.CardStyle
		if i == l.SelectedIndex {
			cardStyle = styles.ActiveCardStyle
		}

		// Build card content
		title := styles.TitleStyle.Render(item.Manga.Title)

		var statusLine string
		if item.Manga.Status != "" {
			statusLine = styles.StatusStyle(item.Manga.Status).Render(fmt.Sprintf("Status: %s", item.Manga.Status))
		}

		var genres string
		if len(item.Manga.Genres) > 0 {
			genres = styles.MutedStyle.Render(fmt.Sprintf("Genres: %s", strings.Join(item.Manga.Genres, ", ")))
		}

		// Truncate summary
		summary := item.Manga.Summary
		if len(summary) > 80 {
			summary = summary[:77] + "..."
		}
		description := styles.TextStyle.Render(summary)

		parts := []string{title, description}
		if genres != "" {
			parts = append(parts, "", genres)
		}
		if statusLine != "" {
			parts = append(parts, statusLine)
		}

		cardContent := lipgloss.JoinVertical(lipgloss.Left, parts...)

		card := cardStyle.Width(l.Width - 4).Render(cardContent)
		b.WriteString(card)
		b.WriteString("\n")
	}

	return b.String()
}
