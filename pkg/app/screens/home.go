package screens

import (
	"context"
	"fmt"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/kerbaras/komgas/pkg/app/components"
	"github.com/kerbaras/komgas/pkg/app/styles"
	"github.com/kerbaras/komgas/pkg/source"
)

type HomeScreen struct {
	source     *source.Komga
	seriesList *components.SeriesList
	sections   []source.Section
	updates    chan source.Section
	loading    bool
	width      int
	height     int
	err        error
}

func NewHomeScreen(src *source.Komga) *HomeScreen {
	return &HomeScreen{
		source:     src,
		seriesList: components.NewSeriesList(),
	}
}

func (s *HomeScreen) Init() tea.Cmd {
	return s.startLoad()
}

// startLoad kicks off the section fan-out and starts listening for
// per-section updates, which arrive incrementally.
func (s *HomeScreen) startLoad() tea.Cmd {
	updates := make(chan source.Section, 8)
	s.updates = updates
	s.sections = nil
	s.loading = true

	run := func() tea.Msg {
		err := s.source.HomeSections(context.Background(), func(sec source.Section) {
			updates <- sec
		})
		close(updates)
		return homeDoneMsg{err: err}
	}

	return tea.Batch(run, s.listenForSections())
}

func (s *HomeScreen) listenForSections() tea.Cmd {
	updates := s.updates
	return func() tea.Msg {
		sec, ok := <-updates
		if !ok {
			return nil
		}
		return sectionMsg{section: sec}
	}
}

func (s *HomeScreen) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		s.width = msg.Width
		s.height = msg.Height
		s.seriesList.Width = msg.Width - 4
		s.seriesList.Height = msg.Height - 10

	case tea.KeyMsg:
		switch msg.String() {
		case "up", "k":
			s.seriesList.Prev()
		case "down", "j":
			s.seriesList.Next()
		case "r":
			return s, s.startLoad()
		case "enter":
			selected := s.seriesList.Selected()
			if selected != nil && selected.Manga.ID != "placeholder" {
				return s, func() tea.Msg {
					return SwitchScreenMsg{Screen: "details", Data: selected.Manga.ID}
				}
			}
		}

	case sectionMsg:
		s.applySection(msg.section)
		return s, s.listenForSections()

	case homeDoneMsg:
		s.loading = false
		s.err = msg.err
	}

	return s, nil
}

// applySection replaces a section in place; sections keep the order of
// their first appearance, matching the placeholder announcements.
func (s *HomeScreen) applySection(sec source.Section) {
	replaced := false
	for i := range s.sections {
		if s.sections[i].ID == sec.ID {
			s.sections[i] = sec
			replaced = true
			break
		}
	}
	if !replaced {
		s.sections = append(s.sections, sec)
	}

	var items []components.SeriesItem
	for _, section := range s.sections {
		for _, manga := range section.Items {
			items = append(items, components.SeriesItem{Section: section.Title, Manga: manga})
		}
	}
	s.seriesList.SetItems(items)
}

func (s *HomeScreen) View() string {
	if s.width == 0 {
		return "Loading..."
	}

	header := styles.TitleStyle.Render("📚 Komga")

	var errorMsg string
	if s.err != nil {
		errorMsg = styles.StatusError.Render(fmt.Sprintf("Error: %s", s.err))
		errorMsg += "\n\n"
	}

	var status string
	if s.loading {
		status = styles.MutedStyle.Render("Loading sections...") + "\n\n"
	}

	listView := s.seriesList.View()

	help := styles.HelpStyle.Render(
		"↑/k: up • ↓/j: down • enter: details • r: refresh • tab: switch view • q: quit",
	)

	content := fmt.Sprintf("%s\n\n%s%s%s\n%s", header, errorMsg, status, listView, help)

	return content
}

// Messages
type sectionMsg struct {
	section source.Section
}

type homeDoneMsg struct {
	err error
}
