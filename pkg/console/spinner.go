package console

import (
	"os"
	"sync"

	"github.com/charmbracelet/bubbles/spinner"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/agenticqa/gh-preflight/pkg/logger"
)

var spinnerLog = logger.New("console:spinner")

type updateMessageMsg string

type spinnerModel struct {
	spinner spinner.Model
	message string
}

func (m spinnerModel) Init() tea.Cmd {
	return m.spinner.Tick
}

func (m spinnerModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case updateMessageMsg:
		m.message = string(msg)
		return m, nil
	case spinner.TickMsg:
		var cmd tea.Cmd
		m.spinner, cmd = m.spinner.Update(msg)
		return m, cmd
	}
	return m, nil
}

func (m spinnerModel) View() string {
	return m.spinner.View() + " " + m.message
}

// SpinnerWrapper shows an animated spinner on stderr while a slow operation
// runs. It is inert when stderr is not a terminal or ACCESSIBLE is set, so
// callers never need to check before using it.
type SpinnerWrapper struct {
	enabled bool
	message string

	mu      sync.Mutex
	program *tea.Program
	done    chan struct{}
}

// NewSpinner creates a stopped spinner showing message.
func NewSpinner(message string) *SpinnerWrapper {
	enabled := isTTY() && !IsAccessibleMode()
	spinnerLog.Printf("Creating spinner: enabled=%v", enabled)
	return &SpinnerWrapper{enabled: enabled, message: message}
}

// IsEnabled reports whether Start will draw anything.
func (s *SpinnerWrapper) IsEnabled() bool {
	return s.enabled
}

// Start begins drawing. Calling Start on a running spinner does nothing.
func (s *SpinnerWrapper) Start() {
	if !s.enabled {
		return
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.program != nil {
		return
	}

	model := spinnerModel{
		spinner: spinner.New(spinner.WithSpinner(spinner.Dot)),
		message: s.message,
	}
	s.program = tea.NewProgram(model, tea.WithOutput(os.Stderr), tea.WithInput(nil))
	s.done = make(chan struct{})
	go func(p *tea.Program, done chan struct{}) {
		defer close(done)
		if _, err := p.Run(); err != nil {
			spinnerLog.Printf("Spinner stopped with error: %v", err)
		}
	}(s.program, s.done)
}

// UpdateMessage replaces the text next to the spinner.
func (s *SpinnerWrapper) UpdateMessage(message string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.message = message
	if s.program != nil {
		s.program.Send(updateMessageMsg(message))
	}
}

// Stop erases the spinner.
func (s *SpinnerWrapper) Stop() {
	s.mu.Lock()
	p, done := s.program, s.done
	s.program, s.done = nil, nil
	s.mu.Unlock()

	if p == nil {
		return
	}
	p.Quit()
	<-done
}

// StopWithMessage erases the spinner and prints message in its place.
func (s *SpinnerWrapper) StopWithMessage(message string) {
	s.Stop()
	if s.enabled {
		os.Stderr.WriteString(message + "\n")
	}
}
