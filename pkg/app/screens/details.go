package screens

import (
	"context"
	"fmt"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/kerbaras/komgas/pkg/app/components"
	"github.com/kerbaras/komgas/pkg/app/styles"
	"github.com/kerbaras/komgas/pkg/data"
	"github.com/kerbaras/komgas/pkg/source"
	"github.com/kerbaras/komgas/pkg/tracker"
)

type DetailsScreen struct {
	source          *source.Komga
	tracker         *tracker.Tracker
	mangaID         string
	manga           *data.Manga
	chapters        []data.Chapter
	selectedChapter int
	progress        *components.ReadProgress
	width           int
	height          int
	err             error
}

func NewDetailsScreen(src *source.Komga, tr *tracker.Tracker, mangaID string) *DetailsScreen {
	return &DetailsScreen{
		source:   src,
		tracker:  tr,
		mangaID:  mangaID,
		progress: components.NewReadProgress(80),
	}
}

func (s *DetailsScreen) Init() tea.Cmd {
	return s.loadDetails
}

func (s *DetailsScreen) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		s.width = msg.Width
		s.height = msg.Height
		s.progress = components.NewReadProgress(msg.Width - 4)
		s.refreshProgress()

	case tea.KeyMsg:
		switch msg.String() {
		case "up", "k":
			if s.selectedChapter > 0 {
				s.selectedChapter--
			}
		case "down", "j":
			if s.selectedChapter < len(s.chapters)-1 {
				s.selectedChapter++
			}
		case "r":
			return s, s.loadDetails
		case "m":
			// Mark everything up to the selected chapter as read
			if len(s.chapters) > 0 {
				target := s.chapters[s.selectedChapter].SortKey
				return s, s.markReadUpTo(target)
			}
		case "u":
			// Drop all progress for this series
			return s, s.clearProgress()
		case "esc", "backspace":
			// Go back to home
			return s, func() tea.Msg {
				return SwitchScreenMsg{Screen: "home", Data: nil}
			}
		}

	case detailsLoadedMsg:
		s.manga = msg.manga
		s.chapters = msg.chapters
		s.err = msg.err
		s.refreshProgress()

	case progressChangedMsg:
		if msg.err != nil {
			s.err = msg.err
		}
		return s, s.loadDetails
	}

	return s, nil
}

func (s *DetailsScreen) refreshProgress() {
	read := 0
	for _, ch := range s.chapters {
		if ch.Read {
			read++
		}
	}
	s.progress.Set(read, len(s.chapters))
}

func (s *DetailsScreen) View() string {
	if s.width == 0 || s.manga == nil {
		return "Loading..."
	}

	header := styles.TitleStyle.Render(fmt.Sprintf("📖 %s", s.manga.Title))

	var errorMsg string
	if s.err != nil {
		errorMsg = styles.StatusError.Render(fmt.Sprintf("Error: %s", s.err))
		errorMsg += "\n\n"
	}

	info := s.renderMangaInfo()
	chaptersList := s.renderChaptersList()
	progressView := s.progress.View()

	help := styles.HelpStyle.Render(
		"↑/k ↓/j: navigate • m: mark read up to here • u: clear progress • r: refresh • esc: back • q: quit",
	)

	content := fmt.Sprintf("%s\n\n%s%s\n%s\n%s\n%s",
		header,
		errorMsg,
		info,
		chaptersList,
		progressView,
		help,
	)

	return content
}

func (s *DetailsScreen) renderMangaInfo() string {
	status := styles.StatusStyle(s.manga.Status).Render(s.manga.Status)
	if s.manga.Status == "" {
		status = styles.MutedStyle.Render("Unknown")
	}

	summary := s.manga.Summary
	if len(summary) > 200 {
		summary = summary[:197] + "..."
	}

	var authors string
	if len(s.manga.Authors) > 0 {
		authors = fmt.Sprintf("By %s", strings.Join(s.manga.Authors, ", "))
	}

	info := lipgloss.JoinVertical(
		lipgloss.Left,
		styles.TextStyle.Render(summary),
		"",
		styles.MutedStyle.Render(authors),
		status,
		"",
	)

	return styles.CardStyle.Width(s.width - 4).Render(info)
}

func (s *DetailsScreen) renderChaptersList() string {
	if len(s.chapters) == 0 {
		return styles.MutedStyle.Render("No chapters available")
	}

	var b strings.Builder
	b.WriteString(styles.SubtitleStyle.Render(fmt.Sprintf("Chapters (%d total):", len(s.chapters))))
	b.WriteString("\n\n")

	// Show limited chapters (scrollable view would be better, but simplified for now)
	start := 0
	end := len(s.chapters)
	if end > 10 {
		// Show 10 chapters around selected
		start = s.selectedChapter - 5
		if start < 0 {
			start = 0
		}
		end = start + 10
		if end > len(s.chapters) {
			end = len(s.chapters)
			start = end - 10
			if start < 0 {
				start = 0
			}
		}
	}

	for i := start; i < end; i++ {
		ch := s.chapters[i]
		chapterText := fmt.Sprintf("Ch. %g", ch.Number)
		if ch.Title != "" {
			chapterText = fmt.Sprintf("%s: %s", chapterText, ch.Title)
		}

		statusIcon := "○"
		statusColor := styles.MutedStyle
		if ch.Read {
			statusIcon = "●"
			statusColor = styles.StatusOngoing
		}

		line := fmt.Sprintf("%s %s", statusIcon, chapterText)

		if i == s.selectedChapter {
			line = styles.SelectedStyle.Render(line)
		} else {
			line = statusColor.Render(line)
		}

		b.WriteString(line)
		b.WriteString("\n")
	}

	if len(s.chapters) > 10 {
		b.WriteString("\n")
		b.WriteString(styles.MutedStyle.Render(
			fmt.Sprintf("Showing %d-%d of %d chapters", start+1, end, len(s.chapters)),
		))
	}

	return b.String()
}

// Messages
type detailsLoadedMsg struct {
	manga    *data.Manga
	chapters []data.Chapter
	err      error
}

type progressChangedMsg struct {
	err error
}

// Commands
func (s *DetailsScreen) loadDetails() tea.Msg {
	ctx := context.Background()

	manga, err := s.source.GetManga(ctx, s.mangaID)
	if err != nil {
		return detailsLoadedMsg{err: err}
	}

	chapters, err := s.source.GetChapters(ctx, s.mangaID)
	if err != nil {
		return detailsLoadedMsg{manga: manga, err: err}
	}

	return detailsLoadedMsg{manga: manga, chapters: chapters}
}

func (s *DetailsScreen) markReadUpTo(target float64) tea.Cmd {
	return func() tea.Msg {
		err := s.tracker.SetProgress(context.Background(), s.mangaID, target)
		return progressChangedMsg{err: err}
	}
}

func (s *DetailsScreen) clearProgress() tea.Cmd {
	return func() tea.Msg {
		err := s.tracker.ClearProgress(context.Background(), s.mangaID)
		return progressChangedMsg{err: err}
	}
}
