// Package tui implements the interactive statement browser: a Bubble Tea
// program over the ledger pipeline with list, detail and monthly-extract
// views.
package tui

import (
	"github.com/charmbracelet/bubbles/spinner"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
)

// Default dimensions used before the first WindowSizeMsg arrives.
const (
	defaultWidth  = 100
	defaultHeight = 30
	minHeight     = 5
	summaryHeight = 4
	borderPadding = 2
)

// Key strings handled by the models.
const (
	keyQuit  = "q"
	keyCtrlC = "ctrl+c"
	keyEnter = "enter"
	keyEsc   = "esc"
	keySlash = "/"
	keyG     = "g"
	keyLeft  = "left"
	keyRight = "right"
)

// ViewState tracks which screen a model is showing.
type ViewState int

const (
	ViewStateLoading ViewState = iota
	ViewStateList
	ViewStateExtract
	ViewStateDetail
	ViewStateQuitting
	ViewStateError
)

// Shared lipgloss styles. Kept as package vars so every view renders
// consistently.
var (
	HeaderStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("205"))

	LabelStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("241"))

	ValueStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("255"))

	SubtleStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("240"))

	InfoStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("86"))

	IncomeStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("42"))

	ExpenseStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("203"))

	CriticalStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("196"))

	BoxStyle = lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(lipgloss.Color("63")).
			Padding(0, 1)

	TableHeaderStyle = lipgloss.NewStyle().
				Bold(true).
				Foreground(lipgloss.Color("205")).
				BorderStyle(lipgloss.NormalBorder()).
				BorderBottom(true).
				BorderForeground(lipgloss.Color("240"))

	TableSelectedStyle = lipgloss.NewStyle().
				Bold(true).
				Foreground(lipgloss.Color("229")).
				Background(lipgloss.Color("57"))
)

// LoadingState wraps the spinner shown while a load is in flight.
type LoadingState struct {
	spinner spinner.Model
	message string
}

// NewLoadingState creates a spinner with the default loading message.
func NewLoadingState() *LoadingState {
	s := spinner.New()
	s.Spinner = spinner.Dot
	s.Style = InfoStyle
	return &LoadingState{spinner: s, message: "Loading statement..."}
}

// Init starts the spinner tick loop.
func (l *LoadingState) Init() tea.Cmd {
	return l.spinner.Tick
}

// Update advances the spinner animation.
func (l *LoadingState) Update(msg tea.Msg) tea.Cmd {
	var cmd tea.Cmd
	l.spinner, cmd = l.spinner.Update(msg)
	return cmd
}

// RenderLoading returns the loading screen content.
func RenderLoading(loading *LoadingState) string {
	if loading == nil {
		return "Loading..."
	}
	return "\n " + loading.spinner.View() + " " + loading.message + "\n\n"
}

func newTextInput() textinput.Model {
	ti := textinput.New()
	ti.Placeholder = "description..."
	ti.CharLimit = 64
	ti.Width = 30
	return ti
}
