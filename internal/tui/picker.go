// ABOUTME: Interactive mood picker for logging today's mood.
// ABOUTME: Lets the user choose a catalog mood with the arrow keys, then add an optional note.
package tui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/2389-research/breather/internal/models"
)

type pickerStep int

const (
	pickMood pickerStep = iota
	pickNote
	pickDone
)

// PickerModel is the bubbletea model for choosing today's mood.
type PickerModel struct {
	step     pickerStep
	cursor   int
	note     textinput.Model
	current  string // label of the mood already logged today, if any
	quitting bool
}

var (
	moodStyle     = lipgloss.NewStyle().Padding(0, 1)
	selectedStyle = lipgloss.NewStyle().Padding(0, 1).Bold(true).Border(lipgloss.RoundedBorder())
)

// NewPickerModel creates a picker starting on initial. current is the label
// of today's mood when one is already logged, so the user knows it will be
// replaced.
func NewPickerModel(initial int, current string) PickerModel {
	if _, ok := models.MoodAt(initial); !ok {
		initial = 0
	}

	note := textinput.New()
	note.Placeholder = "optional"
	note.CharLimit = 280
	note.Width = 50

	return PickerModel{
		cursor:  initial,
		note:    note,
		current: current,
	}
}

// Init implements tea.Model.
func (m PickerModel) Init() tea.Cmd {
	return nil
}

// Update implements tea.Model.
func (m PickerModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	key, ok := msg.(tea.KeyMsg)
	if !ok {
		return m, nil
	}

	switch key.Type {
	case tea.KeyCtrlC, tea.KeyEscape:
		m.quitting = true
		return m, tea.Quit
	}

	switch m.step {
	case pickMood:
		return m.updateMood(key)
	case pickNote:
		if key.Type == tea.KeyEnter {
			m.note.Blur()
			m.step = pickDone
			return m, tea.Quit
		}
		var cmd tea.Cmd
		m.note, cmd = m.note.Update(key)
		return m, cmd
	}
	return m, nil
}

func (m PickerModel) updateMood(key tea.KeyMsg) (tea.Model, tea.Cmd) {
	last := len(models.Moods) - 1

	switch key.Type {
	case tea.KeyLeft, tea.KeyUp:
		if m.cursor > 0 {
			m.cursor--
		}
	case tea.KeyRight, tea.KeyDown:
		if m.cursor < last {
			m.cursor++
		}
	case tea.KeyEnter:
		m.step = pickNote
		m.note.Focus()
		return m, textinput.Blink
	case tea.KeyRunes:
		r := key.Runes[0]
		switch {
		case r == 'h' || r == 'k':
			if m.cursor > 0 {
				m.cursor--
			}
		case r == 'l' || r == 'j':
			if m.cursor < last {
				m.cursor++
			}
		case r == 'q':
			m.quitting = true
			return m, tea.Quit
		case r >= '0' && int(r-'0') <= last:
			m.cursor = int(r - '0')
		}
	}
	return m, nil
}

// View implements tea.Model.
func (m PickerModel) View() string {
	var b strings.Builder

	b.WriteString("\n")
	b.WriteString(brandStyle.Render("   BREATHER"))
	b.WriteString(titleStyle.Render(" - How do you feel today?"))
	b.WriteString("\n\n")
	if m.current != "" {
		b.WriteString(promptStyle.Render(fmt.Sprintf("Today is already logged as %s; choosing again replaces it.", m.current)))
		b.WriteString("\n\n")
	}

	cells := make([]string, len(models.Moods))
	for i, mood := range models.Moods {
		cell := fmt.Sprintf("%s\n%s", mood.Emoji, mood.Label)
		if i == m.cursor {
			cells[i] = selectedStyle.BorderForeground(lipgloss.Color(mood.Color)).Render(cell)
		} else {
			cells[i] = moodStyle.Render(cell)
		}
	}
	b.WriteString(lipgloss.JoinHorizontal(lipgloss.Center, cells...))
	b.WriteString("\n\n")

	switch m.step {
	case pickMood:
		b.WriteString(promptStyle.Render("←/→ to choose, Enter to confirm, Esc to cancel"))
		b.WriteString("\n")
	case pickNote:
		b.WriteString(stepStyle.Render("Note"))
		b.WriteString("\n")
		b.WriteString(m.note.View())
		b.WriteString("\n")
	case pickDone:
		mood := models.Moods[m.cursor]
		b.WriteString(successStyle.Render(fmt.Sprintf("✓ %s %s", mood.Emoji, mood.Label)))
		b.WriteString("\n")
	}

	return b.String()
}

// Result returns the chosen catalog index and the trimmed note.
func (m PickerModel) Result() (index int, note string) {
	return m.cursor, strings.TrimSpace(m.note.Value())
}

// Chosen reports whether the user confirmed a mood without cancelling.
func (m PickerModel) Chosen() bool {
	return m.step == pickDone && !m.quitting
}
