// ABOUTME: Interactive TUI wizard for choosing where breather stores its journal.
// ABOUTME: 2-step bubbletea model collecting a storage backend and its location, then validating it.
package tui

import (
	"context"
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/spinner"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/2389-research/breather/internal/config"
)

// Step represents the current wizard step.
type Step int

const (
	StepBackend Step = iota
	StepLocation
	StepValidating
	StepDone
	StepFailed
)

// validationResultMsg carries the result of an async validation attempt.
type validationResultMsg struct {
	err error
}

// ValidateFn is the function signature for storage validation.
type ValidateFn func(ctx context.Context, backend, location string) error

// cancelHolder shares a cancel function across bubbletea model copies.
// It must stay a pointer field so value-receiver methods can store the cancel
// func and have it visible to all copies of the model.
type cancelHolder struct {
	cancel context.CancelFunc
}

// SetupModel is the bubbletea model for the setup wizard.
type SetupModel struct {
	step          Step
	inputs        [2]textinput.Model
	spinner       spinner.Model
	validateFn    ValidateFn
	cancelCtx     *cancelHolder
	inputErr      string
	validationErr error
	quitting      bool
}

var (
	titleStyle   = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("99"))
	brandStyle   = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("117"))
	stepStyle    = lipgloss.NewStyle().Foreground(lipgloss.Color("241"))
	successStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("82"))
	errorStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("196"))
	promptStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("241"))
)

// NewSetupModel creates a new setup wizard model, pre-filling with existing config values.
func NewSetupModel(backend, location string) SetupModel {
	backendInput := textinput.New()
	backendInput.Placeholder = config.BackendFile
	backendInput.Focus()
	backendInput.Width = 50
	if backend != "" {
		backendInput.SetValue(backend)
	}

	locationInput := textinput.New()
	locationInput.Width = 50
	if location != "" {
		locationInput.SetValue(location)
	}

	s := spinner.New()
	s.Spinner = spinner.Dot

	return SetupModel{
		step:       StepBackend,
		inputs:     [2]textinput.Model{backendInput, locationInput},
		spinner:    s,
		validateFn: ValidateStorage,
		cancelCtx:  &cancelHolder{},
	}
}

// DefaultLocation returns the location used when the user leaves it blank.
func DefaultLocation(backend string) string {
	s := config.StorageConfig{Backend: backend}
	switch s.GetBackend() {
	case config.BackendRedis:
		return s.GetRedisURL()
	case config.BackendMemory:
		return ""
	}
	path, err := s.GetPath()
	if err != nil {
		return ""
	}
	return path
}

// Init implements tea.Model.
func (m SetupModel) Init() tea.Cmd {
	return textinput.Blink
}

// Update implements tea.Model.
func (m SetupModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		switch msg.Type {
		case tea.KeyCtrlC, tea.KeyEscape:
			m.quitting = true
			if m.cancelCtx.cancel != nil {
				m.cancelCtx.cancel()
			}
			return m, tea.Quit
		}

		switch m.step {
		case StepBackend, StepLocation:
			return m.updateInput(msg)
		case StepFailed:
			return m.updateFailed(msg)
		}

	case validationResultMsg:
		m.cancelCtx.cancel = nil
		if msg.err == nil {
			m.step = StepDone
			return m, tea.Quit
		}
		m.validationErr = msg.err
		m.step = StepFailed
		return m, nil

	case spinner.TickMsg:
		if m.step == StepValidating {
			var cmd tea.Cmd
			m.spinner, cmd = m.spinner.Update(msg)
			return m, cmd
		}
	}

	return m, nil
}

func (m SetupModel) updateInput(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	if msg.Type == tea.KeyEnter {
		switch m.step {
		case StepBackend:
			backend := strings.ToLower(strings.TrimSpace(m.inputs[0].Value()))
			if backend == "" {
				backend = config.BackendFile
			}
			if !config.IsValidBackend(backend) {
				m.inputErr = fmt.Sprintf("unknown backend %q (choose %s)", backend, strings.Join(config.Backends, ", "))
				return m, nil
			}
			m.inputErr = ""
			m.inputs[0].SetValue(backend)
			m.inputs[0].Blur()

			// Nothing to locate for the in-memory backend.
			if backend == config.BackendMemory {
				m.inputs[1].SetValue("")
				m.step = StepValidating
				return m, tea.Batch(m.startValidation(), m.spinner.Tick)
			}

			m.inputs[1].Placeholder = DefaultLocation(backend)
			m.step = StepLocation
			m.inputs[1].Focus()
			return m, textinput.Blink

		case StepLocation:
			if strings.TrimSpace(m.inputs[1].Value()) == "" {
				m.inputs[1].SetValue(DefaultLocation(m.inputs[0].Value()))
			}
			m.inputs[1].Blur()
			m.step = StepValidating
			return m, tea.Batch(m.startValidation(), m.spinner.Tick)
		}
	}

	// Forward to the active input
	idx := int(m.step)
	var cmd tea.Cmd
	m.inputs[idx], cmd = m.inputs[idx].Update(msg)
	return m, cmd
}

func (m SetupModel) updateFailed(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	if msg.Type == tea.KeyRunes {
		switch msg.Runes[0] {
		case 'r':
			m.step = StepValidating
			m.validationErr = nil
			return m, tea.Batch(m.startValidation(), m.spinner.Tick)
		case 's':
			m.step = StepDone
			return m, tea.Quit
		case 'q':
			m.quitting = true
			return m, tea.Quit
		}
	}
	return m, nil
}

func (m SetupModel) startValidation() tea.Cmd {
	ctx, cancel := context.WithCancel(context.Background())
	m.cancelCtx.cancel = cancel
	backend := m.inputs[0].Value()
	location := m.inputs[1].Value()
	fn := m.validateFn
	return func() tea.Msg {
		return validationResultMsg{err: fn(ctx, backend, location)}
	}
}

// View implements tea.Model.
func (m SetupModel) View() string {
	var b strings.Builder

	b.WriteString("\n")
	b.WriteString(brandStyle.Render("   BREATHER"))
	b.WriteString(titleStyle.Render(" - Setup"))
	b.WriteString("\n\n")
	b.WriteString("Choose where your mood and absence history is stored.\n\n")

	switch m.step {
	case StepBackend:
		b.WriteString(stepStyle.Render("Step 1 of 2: Storage backend"))
		b.WriteString("\n")
		b.WriteString(promptStyle.Render(fmt.Sprintf("(%s; press Enter for %s)", strings.Join(config.Backends, ", "), config.BackendFile)))
		b.WriteString("\n")
		b.WriteString(m.inputs[0].View())
		b.WriteString("\n")
		if m.inputErr != "" {
			b.WriteString(errorStyle.Render(m.inputErr))
			b.WriteString("\n")
		}

	case StepLocation:
		b.WriteString(fmt.Sprintf("  Backend: %s\n\n", m.inputs[0].Value()))
		label := "Data location"
		if m.inputs[0].Value() == config.BackendRedis {
			label = "Redis URL"
		}
		b.WriteString(stepStyle.Render("Step 2 of 2: " + label))
		b.WriteString("\n")
		b.WriteString(promptStyle.Render("(press Enter for default)"))
		b.WriteString("\n")
		b.WriteString(m.inputs[1].View())
		b.WriteString("\n")

	case StepValidating:
		b.WriteString(fmt.Sprintf("  Backend: %s\n", m.inputs[0].Value()))
		if loc := m.inputs[1].Value(); loc != "" {
			b.WriteString(fmt.Sprintf("  Location: %s\n", loc))
		}
		b.WriteString("\n")
		b.WriteString(m.spinner.View())
		b.WriteString(" Checking storage...")
		b.WriteString("\n")

	case StepDone:
		b.WriteString(successStyle.Render("✓ Storage ready!"))
		b.WriteString("\n")

	case StepFailed:
		errMsg := "unknown error"
		if m.validationErr != nil {
			errMsg = m.validationErr.Error()
		}
		b.WriteString(errorStyle.Render(fmt.Sprintf("✗ Validation failed: %s", errMsg)))
		b.WriteString("\n\n")
		b.WriteString(promptStyle.Render("[r]etry  [s]ave anyway  [q]uit"))
		b.WriteString("\n")
	}

	return b.String()
}

// Result returns the chosen backend and location. Location is empty for the
// memory backend.
func (m SetupModel) Result() (backend, location string) {
	return m.inputs[0].Value(), m.inputs[1].Value()
}

// ShouldSave returns true if the wizard completed (via validation success or
// "save anyway") and the user did not cancel with Ctrl+C, Escape, or 'q'.
func (m SetupModel) ShouldSave() bool {
	return m.step == StepDone && !m.quitting
}
