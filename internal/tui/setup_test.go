// ABOUTME: Unit tests for the setup TUI wizard bubbletea model.
// ABOUTME: Uses synthetic tea.Msg values to test state machine transitions.
package tui

import (
	"context"
	"fmt"
	"path/filepath"
	"strings"
	"testing"
	"time"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/2389-research/breather/internal/config"
)

func typeText(m SetupModel, s string) SetupModel {
	updated, _ := m.Update(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(s)})
	return updated.(SetupModel)
}

func TestNewSetupModel_DefaultValues(t *testing.T) {
	m := NewSetupModel("", "")
	if m.step != StepBackend {
		t.Errorf("expected initial step StepBackend, got %d", m.step)
	}
	if m.inputs[0].Value() != "" {
		t.Error("expected empty backend input for new config")
	}
}

func TestNewSetupModel_ExistingConfig(t *testing.T) {
	m := NewSetupModel("sqlite", "/data/breather.db")
	if m.inputs[0].Value() != "sqlite" {
		t.Errorf("expected pre-filled backend, got %q", m.inputs[0].Value())
	}
	if m.inputs[1].Value() != "/data/breather.db" {
		t.Errorf("expected pre-filled location, got %q", m.inputs[1].Value())
	}
}

func TestSetupModel_StepTransitions(t *testing.T) {
	m := NewSetupModel("", "")

	m = typeText(m, "sqlite")
	updated, _ := m.Update(tea.KeyMsg{Type: tea.KeyEnter})
	m = updated.(SetupModel)
	if m.step != StepLocation {
		t.Errorf("expected StepLocation after Enter on backend, got %d", m.step)
	}

	m.inputs[1].SetValue("/tmp/breather.db")
	updated, cmd := m.Update(tea.KeyMsg{Type: tea.KeyEnter})
	m = updated.(SetupModel)
	if m.step != StepValidating {
		t.Errorf("expected StepValidating after Enter on location, got %d", m.step)
	}
	if cmd == nil {
		t.Error("expected non-nil cmd (validation + spinner tick) when entering validation")
	}
}

func TestSetupModel_DefaultBackend(t *testing.T) {
	m := NewSetupModel("", "")

	// Press Enter on empty backend field: should use file
	updated, _ := m.Update(tea.KeyMsg{Type: tea.KeyEnter})
	m = updated.(SetupModel)
	if m.inputs[0].Value() != config.BackendFile {
		t.Errorf("expected default backend %q, got %q", config.BackendFile, m.inputs[0].Value())
	}
	if m.step != StepLocation {
		t.Errorf("expected StepLocation after default backend applied, got %d", m.step)
	}
}

func TestSetupModel_BackendNormalized(t *testing.T) {
	m := NewSetupModel(" Redis ", "")

	updated, _ := m.Update(tea.KeyMsg{Type: tea.KeyEnter})
	m = updated.(SetupModel)
	if m.inputs[0].Value() != config.BackendRedis {
		t.Errorf("expected lowercased backend, got %q", m.inputs[0].Value())
	}
	if m.inputs[1].Placeholder != "redis://localhost:6379/0" {
		t.Errorf("expected redis URL placeholder, got %q", m.inputs[1].Placeholder)
	}
}

func TestSetupModel_UnknownBackendBlocked(t *testing.T) {
	m := NewSetupModel("postgres", "")

	updated, _ := m.Update(tea.KeyMsg{Type: tea.KeyEnter})
	m = updated.(SetupModel)
	if m.step != StepBackend {
		t.Errorf("expected to stay on StepBackend with unknown backend, got %d", m.step)
	}
	if !strings.Contains(m.View(), "unknown backend") {
		t.Error("expected view to explain the rejected backend")
	}
}

func TestSetupModel_MemorySkipsLocation(t *testing.T) {
	m := NewSetupModel("memory", "/ignored")
	var gotLocation = "unset"
	m.validateFn = func(_ context.Context, _, location string) error {
		gotLocation = location
		return nil
	}

	updated, cmd := m.Update(tea.KeyMsg{Type: tea.KeyEnter})
	m = updated.(SetupModel)
	if m.step != StepValidating {
		t.Fatalf("expected StepValidating for memory backend, got %d", m.step)
	}

	batchMsg := cmd().(tea.BatchMsg)
	batchMsg[0]()
	if gotLocation != "" {
		t.Errorf("expected empty location for memory backend, got %q", gotLocation)
	}
}

func TestSetupModel_DefaultLocation(t *testing.T) {
	tmpDir := t.TempDir()
	t.Setenv("XDG_DATA_HOME", tmpDir)

	m := NewSetupModel("sqlite", "")
	updated, _ := m.Update(tea.KeyMsg{Type: tea.KeyEnter})
	m = updated.(SetupModel)
	updated, _ = m.Update(tea.KeyMsg{Type: tea.KeyEnter})
	m = updated.(SetupModel)

	want := filepath.Join(tmpDir, "breather", "breather.db")
	if _, location := m.Result(); location != want {
		t.Errorf("expected default sqlite location %q, got %q", want, location)
	}
}

func TestSetupModel_ValidationSuccess(t *testing.T) {
	m := NewSetupModel("", "")
	m.step = StepValidating

	updated, _ := m.Update(validationResultMsg{err: nil})
	m = updated.(SetupModel)
	if m.step != StepDone {
		t.Errorf("expected StepDone after successful validation, got %d", m.step)
	}
}

func TestSetupModel_ValidationFailure(t *testing.T) {
	m := NewSetupModel("", "")
	m.step = StepValidating

	updated, _ := m.Update(validationResultMsg{err: fmt.Errorf("connection refused")})
	m = updated.(SetupModel)
	if m.step != StepFailed {
		t.Errorf("expected StepFailed after validation error, got %d", m.step)
	}
	if m.validationErr == nil {
		t.Error("expected validationErr to be set")
	}
}

func TestSetupModel_FailedRetry(t *testing.T) {
	m := NewSetupModel("", "")
	m.step = StepFailed
	m.validationErr = fmt.Errorf("some error")

	updated, cmd := m.Update(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune{'r'}})
	m = updated.(SetupModel)
	if m.step != StepValidating {
		t.Errorf("expected StepValidating after retry, got %d", m.step)
	}
	if cmd == nil {
		t.Error("expected non-nil cmd on retry")
	}
}

func TestSetupModel_FailedQuit(t *testing.T) {
	m := NewSetupModel("", "")
	m.step = StepFailed

	updated, cmd := m.Update(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune{'q'}})
	m2 := updated.(SetupModel)
	if cmd == nil {
		t.Error("expected quit cmd")
	}
	if m2.ShouldSave() {
		t.Error("expected ShouldSave false after quit")
	}
}

func TestSetupModel_QuitKeys(t *testing.T) {
	for _, key := range []tea.KeyType{tea.KeyCtrlC, tea.KeyEscape} {
		m := NewSetupModel("", "")
		updated, cmd := m.Update(tea.KeyMsg{Type: key})
		m = updated.(SetupModel)
		if cmd == nil {
			t.Errorf("expected quit cmd on %v", key)
		}
		if !m.quitting || m.ShouldSave() {
			t.Errorf("expected cancelled wizard on %v", key)
		}
	}
}

func TestSetupModel_ShouldSave(t *testing.T) {
	t.Run("done means save", func(t *testing.T) {
		m := NewSetupModel("", "")
		m.step = StepDone
		if !m.ShouldSave() {
			t.Error("expected ShouldSave true when done")
		}
	})

	t.Run("save anyway means save", func(t *testing.T) {
		m := NewSetupModel("", "")
		m.step = StepFailed
		updated, _ := m.Update(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune{'s'}})
		m = updated.(SetupModel)
		if !m.ShouldSave() {
			t.Error("expected ShouldSave true after save anyway")
		}
	})
}

func TestSetupModel_Views(t *testing.T) {
	m := NewSetupModel("", "")
	if !strings.Contains(m.View(), "BREATHER") {
		t.Error("expected view to contain BREATHER branding")
	}
	if !strings.Contains(m.View(), "Storage backend") {
		t.Error("expected StepBackend view to mention Storage backend")
	}

	m.inputs[0].SetValue("redis")
	m.step = StepLocation
	if !strings.Contains(m.View(), "Redis URL") {
		t.Error("expected redis StepLocation view to mention Redis URL")
	}

	m.step = StepValidating
	if !strings.Contains(m.View(), "Checking storage") {
		t.Error("expected StepValidating view to mention Checking storage")
	}

	m.step = StepDone
	if !strings.Contains(m.View(), "Storage ready") {
		t.Error("expected StepDone view to mention Storage ready")
	}

	m.step = StepFailed
	view := m.View()
	if !strings.Contains(view, "unknown error") {
		t.Error("expected nil error to show 'unknown error' fallback")
	}
	for _, opt := range []string{"[r]etry", "[s]ave anyway", "[q]uit"} {
		if !strings.Contains(view, opt) {
			t.Errorf("expected StepFailed view to show %s", opt)
		}
	}
}

func TestSetupModel_CtrlCDuringValidation(t *testing.T) {
	cancelled := false
	m := NewSetupModel("file", "/tmp/breather")
	m.validateFn = func(ctx context.Context, _, _ string) error {
		<-ctx.Done()
		cancelled = true
		return ctx.Err()
	}
	m.step = StepLocation

	updated, batchCmd := m.Update(tea.KeyMsg{Type: tea.KeyEnter})
	m = updated.(SetupModel)
	if m.step != StepValidating {
		t.Fatalf("expected StepValidating, got %d", m.step)
	}

	// batchMsg[0] is the validation cmd, batchMsg[1] is the spinner tick
	batchMsg := batchCmd().(tea.BatchMsg)
	done := make(chan tea.Msg)
	go func() {
		done <- batchMsg[0]()
	}()

	updated, _ = m.Update(tea.KeyMsg{Type: tea.KeyCtrlC})
	m = updated.(SetupModel)
	if !m.quitting {
		t.Error("expected quitting to be true after Ctrl+C during validation")
	}

	<-done
	if !cancelled {
		t.Error("expected validation context to be cancelled")
	}
}

func TestSetupModel_ValidationPassesCorrectArgs(t *testing.T) {
	var gotBackend, gotLocation string
	m := NewSetupModel("sqlite", "/srv/breather.db")
	m.validateFn = func(_ context.Context, backend, location string) error {
		gotBackend = backend
		gotLocation = location
		return nil
	}

	updated, _ := m.Update(tea.KeyMsg{Type: tea.KeyEnter})
	m = updated.(SetupModel)
	_, batchCmd := m.Update(tea.KeyMsg{Type: tea.KeyEnter})

	batchMsg := batchCmd().(tea.BatchMsg)
	batchMsg[0]()

	if gotBackend != "sqlite" {
		t.Errorf("expected backend sqlite, got %q", gotBackend)
	}
	if gotLocation != "/srv/breather.db" {
		t.Errorf("expected location /srv/breather.db, got %q", gotLocation)
	}
}

func TestSetupModel_FullFlowWithTeaProgram(t *testing.T) {
	m := NewSetupModel("file", t.TempDir())
	m.validateFn = func(_ context.Context, _, _ string) error {
		time.Sleep(50 * time.Millisecond)
		return nil
	}

	p := tea.NewProgram(m, tea.WithInput(nil), tea.WithoutRenderer())

	go func() {
		p.Send(tea.KeyMsg{Type: tea.KeyEnter}) // backend
		p.Send(tea.KeyMsg{Type: tea.KeyEnter}) // location -> validates -> done -> quit
	}()

	result, err := p.Run()
	if err != nil {
		t.Fatalf("tea.Program error: %v", err)
	}

	final := result.(SetupModel)
	if !final.ShouldSave() {
		t.Errorf("expected ShouldSave=true after successful validation (step=%d, quitting=%v)", final.step, final.quitting)
	}
}
