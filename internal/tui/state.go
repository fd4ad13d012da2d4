package tui

import (
	"github.com/charmbracelet/bubbles/spinner"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
)

// ViewState is the screen the browser is showing.
type ViewState int

const (
	// ViewStateList shows the page table.
	ViewStateList ViewState = iota
	// ViewStateSearch has the search input focused.
	ViewStateSearch
	// ViewStateGoto is collecting a page number.
	ViewStateGoto
	// ViewStateDetail shows one file.
	ViewStateDetail
	// ViewStateQuitting is terminal.
	ViewStateQuitting
)

// Key bindings.
const (
	keyQuit     = "q"
	keyCtrlC    = "ctrl+c"
	keyEnter    = "enter"
	keyEsc      = "esc"
	keyTab      = "tab"
	keyShiftTab = "shift+tab"
	keySlash    = "/"
	keyNext     = "n"
	keyRight    = "right"
	keyPrev     = "p"
	keyLeft     = "left"
	keyGoto     = "g"
	keyFilter   = "f"
	keyRefresh  = "r"
	keyBack     = "backspace"
)

const maxGotoDigits = 6

// LoadingState wraps the spinner shown while a fetch is in flight.
type LoadingState struct {
	spinner spinner.Model
	message string
}

// NewLoadingState returns a spinner with the default message.
func NewLoadingState() *LoadingState {
	s := spinner.New()
	s.Spinner = spinner.Dot
	s.Style = InfoStyle
	return &LoadingState{spinner: s, message: "Loading..."}
}

// Init starts the spinner.
func (l *LoadingState) Init() tea.Cmd {
	return l.spinner.Tick
}

// Update advances the spinner on its tick messages.
func (l *LoadingState) Update(msg tea.Msg) tea.Cmd {
	var cmd tea.Cmd
	l.spinner, cmd = l.spinner.Update(msg)
	return cmd
}

// View renders the spinner and message.
func (l *LoadingState) View() string {
	return l.spinner.View() + " " + l.message
}

func newTextInput() textinput.Model {
	ti := textinput.New()
	ti.Placeholder = "keyword"
	ti.Prompt = "/ "
	ti.CharLimit = 128
	ti.Width = 40
	return ti
}
