// ABOUTME: Tests for MCP server creation and validation.
// ABOUTME: Verifies the server requires both journals and provides shared tool-call helpers.
package mcp

import (
	"context"
	"encoding/json"
	"testing"

	gomcp "github.com/modelcontextprotocol/go-sdk/mcp"

	"github.com/2389-research/breather/internal/journal"
	"github.com/2389-research/breather/internal/kv"
)

func makeJournals(t *testing.T) (*journal.MoodJournal, *journal.AbsenceJournal) {
	t.Helper()
	store := kv.NewMemoryStore()
	moods := journal.NewMoodJournal(store)
	absences := journal.NewAbsenceJournal(store)
	t.Cleanup(func() {
		_ = moods.Close()
		_ = absences.Close()
	})
	if err := moods.Initialize(context.Background()); err != nil {
		t.Fatalf("Initialize moods: %v", err)
	}
	if err := absences.Initialize(context.Background()); err != nil {
		t.Fatalf("Initialize absences: %v", err)
	}
	return moods, absences
}

func makeServer(t *testing.T) *Server {
	t.Helper()
	moods, absences := makeJournals(t)
	server, err := NewServer(moods, absences)
	if err != nil {
		t.Fatalf("NewServer error: %v", err)
	}
	return server
}

func callTool(t *testing.T, s *Server, name string, args interface{}) *gomcp.CallToolResult {
	t.Helper()

	req := &gomcp.CallToolRequest{Params: &gomcp.CallToolParamsRaw{Name: name}}
	if args != nil {
		argsJSON, err := json.Marshal(args)
		if err != nil {
			t.Fatalf("failed to marshal args: %v", err)
		}
		req.Params.Arguments = argsJSON
	}

	handlers := map[string]func(context.Context, *gomcp.CallToolRequest) (*gomcp.CallToolResult, error){
		"log_mood":        s.handleLogMood,
		"today_mood":      s.handleTodayMood,
		"list_moods":      s.handleListMoods,
		"mood_stats":      s.handleMoodStats,
		"delete_mood":     s.handleDeleteMood,
		"mood_catalog":    s.handleMoodCatalog,
		"declare_absence": s.handleDeclareAbsence,
		"today_absence":   s.handleTodayAbsence,
		"list_absences":   s.handleListAbsences,
		"delete_absence":  s.handleDeleteAbsence,
	}
	handler, ok := handlers[name]
	if !ok {
		t.Fatalf("unknown tool: %s", name)
	}

	result, err := handler(context.Background(), req)
	if err != nil {
		t.Fatalf("handler error: %v", err)
	}
	return result
}

func getTextContent(result *gomcp.CallToolResult) string {
	if len(result.Content) == 0 {
		return ""
	}
	if tc, ok := result.Content[0].(*gomcp.TextContent); ok {
		return tc.Text
	}
	return ""
}

func TestNewServerRequiresMoodJournal(t *testing.T) {
	_, absences := makeJournals(t)

	_, err := NewServer(nil, absences)
	if err == nil {
		t.Error("expected error when mood journal is nil")
	}
}

func TestNewServerRequiresAbsenceJournal(t *testing.T) {
	moods, _ := makeJournals(t)

	_, err := NewServer(moods, nil)
	if err == nil {
		t.Error("expected error when absence journal is nil")
	}
}

func TestNewServerSuccess(t *testing.T) {
	moods, absences := makeJournals(t)

	server, err := NewServer(moods, absences)
	if err != nil {
		t.Fatalf("NewServer error: %v", err)
	}
	if server == nil {
		t.Fatal("expected non-nil server")
	}
	if server.logger == nil {
		t.Error("expected a default logger")
	}
}

func TestInvalidArguments(t *testing.T) {
	s := makeServer(t)

	req := &gomcp.CallToolRequest{Params: &gomcp.CallToolParamsRaw{
		Name:      "log_mood",
		Arguments: json.RawMessage(`{"mood_index": "happy"}`),
	}}
	result, err := s.handleLogMood(context.Background(), req)
	if err != nil {
		t.Fatalf("handler error: %v", err)
	}
	if !result.IsError {
		t.Error("expected tool error for malformed arguments")
	}
}
