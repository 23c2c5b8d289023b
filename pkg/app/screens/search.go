package screens

import (
	"context"
	"fmt"

	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/kerbaras/komgas/pkg/app/styles"
	"github.com/kerbaras/komgas/pkg/data"
	"github.com/kerbaras/komgas/pkg/source"
)

type SearchScreen struct {
	source    *source.Komga
	input     textinput.Model
	results   []data.Manga
	hasMore   bool
	selected  int
	searching bool
	width     int
	height    int
	err       error
}

func NewSearchScreen(src *source.Komga) *SearchScreen {
	ti := textinput.New()
	ti.Placeholder = "Search series..."
	ti.Focus()
	ti.CharLimit = 100
	ti.Width = 50

	return &SearchScreen{
		source:   src,
		input:    ti,
		results:  []data.Manga{},
		selected: 0,
	}
}

func (s *SearchScreen) Init() tea.Cmd {
	return textinput.Blink
}

func (s *SearchScreen) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	var cmd tea.Cmd

	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		s.width = msg.Width
		s.height = msg.Height

	case tea.KeyMsg:
		// If searching, don't process keys
		if s.searching {
			return s, nil
		}

		switch msg.String() {
		case "enter":
			if s.input.Focused() {
				// Perform search
				query := s.input.Value()
				if query != "" {
					s.searching = true
					return s, s.performSearch(query)
				}
			} else if len(s.results) > 0 {
				// Open details for the selected series
				manga := s.results[s.selected]
				return s, func() tea.Msg {
					return SwitchScreenMsg{Screen: "details", Data: manga.ID}
				}
			}

		case "esc":
			// Switch focus between input and results
			if s.input.Focused() {
				s.input.Blur()
			} else {
				s.input.Focus()
				cmd = textinput.Blink
			}

		case "up", "k":
			if !s.input.Focused() && len(s.results) > 0 {
				s.selected--
				if s.selected < 0 {
					s.selected = len(s.results) - 1
				}
			}

		case "down", "j":
			if !s.input.Focused() && len(s.results) > 0 {
				s.selected++
				if s.selected >= len(s.results) {
					s.selected = 0
				}
			}
		}

	case searchResultMsg:
		s.searching = false
		s.results = msg.results
		s.hasMore = msg.hasMore
		s.selected = 0
		s.err = msg.err
		if len(s.results) > 0 {
			s.input.Blur()
		}
	}

	// Update text input
	if s.input.Focused() {
		s.input, cmd = s.input.Update(msg)
	}

	return s, cmd
}

func (s *SearchScreen) View() string {
	if s.width == 0 {
		return "Loading..."
	}

	header := styles.TitleStyle.Render("🔍 Search Series")

	// Input field
	inputStyle := styles.InputStyle
	if s.input.Focused() {
		inputStyle = styles.FocusedInputStyle
	}
	inputView := inputStyle.Render(s.input.View())

	var errorMsg string
	if s.err != nil {
		errorMsg = styles.StatusError.Render(fmt.Sprintf("Error: %s", s.err))
		errorMsg += "\n\n"
	}

	var resultsView string
	if s.searching {
		resultsView = styles.StatusBusy.Render("Searching...")
	} else if len(s.results) > 0 {
		resultsView = s.renderResults()
	} else if s.input.Value() != "" && !s.searching {
		resultsView = styles.MutedStyle.Render("No results found")
	}

	help := styles.HelpStyle.Render(
		"enter: search/details • esc: switch focus • ↑/k ↓/j: navigate • tab: switch view • q: quit",
	)

	content := fmt.Sprintf("%s\n\n%s\n\n%s%s\n\n%s",
		header,
		inputView,
		errorMsg,
		resultsView,
		help,
	)

	return content
}

func (s *SearchScreen) renderResults() string {
	var result string
	result += styles.SubtitleStyle.Render(fmt.Sprintf("Found %d results:", len(s.results)))
	result += "\n\n"

	for i, manga := range s.results {
		cardStyle := styles.CardStyle
		if i == s.selected && !s.input.Focused() {
			cardStyle = styles.ActiveCardStyle
		}

		title := styles.TitleStyle.Render(manga.Title)

		summary := manga.Summary
		if len(summary) > 120 {
			summary = summary[:117] + "..."
		}
		description := styles.TextStyle.Render(summary)

		meta := styles.MutedStyle.Render(fmt.Sprintf("Status: %s • ID: %s", manga.Status, manga.ID))

		cardContent := lipgloss.JoinVertical(
			lipgloss.Left,
			title,
			description,
			meta,
		)

		card := cardStyle.Width(s.width - 6).Render(cardContent)
		result += card + "\n"
	}

	if s.hasMore {
		result += styles.MutedStyle.Render("More results on the server; refine the search to narrow them down.")
		result += "\n"
	}

	return result
}

// Messages
type searchResultMsg struct {
	results []data.Manga
	hasMore bool
	err     error
}

// Define shared message for screen switching
type SwitchScreenMsg struct {
	Screen string
	Data   interface{}
}

// Commands
func (s *SearchScreen) performSearch(query string) tea.Cmd {
	return func() tea.Msg {
		result, err := s.source.Search(context.Background(), source.Query{Term: query}, 0, 20)
		return searchResultMsg{results: result.Items, hasMore: result.NextPage != nil, err: err}
	}
}
