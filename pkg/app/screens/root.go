package screens

import (
	"fmt"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/kerbaras/komgas/pkg/app/styles"
	"github.com/kerbaras/komgas/pkg/source"
	"github.com/kerbaras/komgas/pkg/tracker"
)

type screenType int

const (
	homeView screenType = iota
	searchView
	detailsView
)

type RootScreen struct {
	source  *source.Komga
	tracker *tracker.Tracker

	currentView screenType
	home        *HomeScreen
	search      *SearchScreen
	details     *DetailsScreen

	width  int
	height int
}

func NewRootScreen(src *source.Komga, tr *tracker.Tracker) *RootScreen {
	return &RootScreen{
		source:      src,
		tracker:     tr,
		currentView: homeView,
		home:        NewHomeScreen(src),
		search:      NewSearchScreen(src),
	}
}

func (r *RootScreen) Init() tea.Cmd {
	return r.home.Init()
}

func (r *RootScreen) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	var cmd tea.Cmd

	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		r.width = msg.Width
		r.height = msg.Height

	case tea.KeyMsg:
		switch msg.String() {
		case "q", "ctrl+c":
			return r, tea.Quit
		case "tab":
			// Cycle through views
			if r.currentView == detailsView {
				// Can't tab away from details, use esc
				break
			}
			r.currentView = (r.currentView + 1) % 2
			if r.currentView == searchView {
				cmd = r.search.Init()
			} else {
				cmd = r.home.Init()
			}
			return r, cmd
		}

	case SwitchScreenMsg:
		// Handle screen switching from sub-screens
		switch msg.Screen {
		case "home":
			r.currentView = homeView
			cmd = r.home.Init()
		case "search":
			r.currentView = searchView
			cmd = r.search.Init()
		case "details":
			if mangaID, ok := msg.Data.(string); ok {
				r.details = NewDetailsScreen(r.source, r.tracker, mangaID)
				r.currentView = detailsView
				cmd = r.details.Init()
			}
		}
		return r, cmd
	}

	// Forward message to active screen
	switch r.currentView {
	case homeView:
		newModel, newCmd := r.home.Update(msg)
		r.home = newModel.(*HomeScreen)
		return r, newCmd
	case searchView:
		newModel, newCmd := r.search.Update(msg)
		r.search = newModel.(*SearchScreen)
		return r, newCmd
	case detailsView:
		if r.details != nil {
			newModel, newCmd := r.details.Update(msg)
			r.details = newModel.(*DetailsScreen)
			return r, newCmd
		}
	}

	return r, cmd
}

func (r *RootScreen) View() string {
	tabs := r.renderTabs()

	var content string
	switch r.currentView {
	case homeView:
		content = r.home.View()
	case searchView:
		content = r.search.View()
	case detailsView:
		if r.details != nil {
			content = r.details.View()
		}
	}

	return fmt.Sprintf("%s\n\n%s", tabs, content)
}

func (r *RootScreen) renderTabs() string {
	if r.currentView == detailsView {
		// Don't show tabs in details view
		return ""
	}

	homeTab := "Home"
	searchTab := "Search"

	if r.currentView == homeView {
		homeTab = styles.ActiveTabStyle.Render(homeTab)
		searchTab = styles.InactiveTabStyle.Render(searchTab)
	} else {
		homeTab = styles.InactiveTabStyle.Render(homeTab)
		searchTab = styles.ActiveTabStyle.Render(searchTab)
	}

	tabs := lipgloss.JoinHorizontal(lipgloss.Top, homeTab, searchTab)
	return tabs
}
