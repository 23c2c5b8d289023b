package app

import (
	tea "github.com/charmbracelet/bubbletea"

	"github.com/kerbaras/komgas/pkg/app/screens"
	"github.com/kerbaras/komgas/pkg/source"
	"github.com/kerbaras/komgas/pkg/tracker"
)

type App struct {
	source  *source.Komga
	tracker *tracker.Tracker
}

func NewApp(src *source.Komga, tr *tracker.Tracker) *App {
	return &App{source: src, tracker: tr}
}

func (a *App) Run() error {
	model := screens.NewRootScreen(a.source, a.tracker)
	p := tea.NewProgram(model, tea.WithAltScreen(), tea.WithMouseCellMotion())
	_, err := p.Run()
	return err
}
