// ABOUTME: MCP tool implementations for the mood journal.
// ABOUTME: Registers log_mood, today_mood, list_moods, mood_stats, delete_mood, and mood_catalog.
package mcp

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"

	gomcp "github.com/modelcontextprotocol/go-sdk/mcp"

	"github.com/2389-research/breather/internal/journal"
	"github.com/2389-research/breather/internal/models"
)

const defaultListLimit = 30

func (s *Server) registerMoodTools() {
	s.mcp.AddTool(&gomcp.Tool{
		Name:        "log_mood",
		Description: "Record today's mood by catalog index (see mood_catalog). Logging again on the same day replaces today's mood.",
		InputSchema: json.RawMessage(`{
			"type": "object",
			"properties": {
				"mood_index": {"type": "integer", "minimum": 0, "description": "Index into the mood catalog"},
				"note": {"type": "string", "description": "Optional free-text note"}
			},
			"required": ["mood_index"]
		}`),
	}, s.handleLogMood)

	s.mcp.AddTool(&gomcp.Tool{
		Name:        "today_mood",
		Description: "Get the mood recorded for today, if any.",
		InputSchema: json.RawMessage(`{"type": "object", "properties": {}}`),
	}, s.handleTodayMood)

	s.mcp.AddTool(&gomcp.Tool{
		Name:        "list_moods",
		Description: "List recorded moods, newest first, optionally restricted to an inclusive date range.",
		InputSchema: json.RawMessage(`{
			"type": "object",
			"properties": {
				"from": {"type": "string", "description": "First day to include (YYYY-MM-DD)"},
				"to": {"type": "string", "description": "Last day to include (YYYY-MM-DD)"},
				"limit": {"type": "number", "description": "Maximum number of entries (default 30)"}
			}
		}`),
	}, s.handleListMoods)

	s.mcp.AddTool(&gomcp.Tool{
		Name:        "mood_stats",
		Description: "Summarize the mood history: total entries and the most frequent mood.",
		InputSchema: json.RawMessage(`{"type": "object", "properties": {}}`),
	}, s.handleMoodStats)

	s.mcp.AddTool(&gomcp.Tool{
		Name:        "delete_mood",
		Description: "Delete a recorded mood by id.",
		InputSchema: json.RawMessage(`{
			"type": "object",
			"properties": {
				"id": {"type": "string", "description": "Id of the mood to delete"}
			},
			"required": ["id"]
		}`),
	}, s.handleDeleteMood)

	s.mcp.AddTool(&gomcp.Tool{
		Name:        "mood_catalog",
		Description: "List the moods that can be logged, with their indexes.",
		InputSchema: json.RawMessage(`{"type": "object", "properties": {}}`),
	}, s.handleMoodCatalog)
}

func (s *Server) handleLogMood(ctx context.Context, req *gomcp.CallToolRequest) (*gomcp.CallToolResult, error) {
	var args struct {
		MoodIndex *int   `json:"mood_index"`
		Note      string `json:"note"`
	}
	if err := decodeArgs(req, &args); err != nil {
		return toolError("invalid arguments: %v", err), nil
	}
	if args.MoodIndex == nil {
		return toolError("mood_index is required"), nil
	}

	entry, err := s.moods.SaveMood(ctx, journal.MoodInput{Index: *args.MoodIndex, Note: args.Note})
	if err != nil {
		if errors.Is(err, journal.ErrInvalidMood) {
			return toolError("%v. Use mood_catalog to see valid indexes.", err), nil
		}
		return toolError("failed to log mood: %v", err), nil
	}
	s.logger.Debug("mood logged", "id", entry.ID, "date", entry.Date)

	return textResult("Mood logged:\n" + formatMood(entry)), nil
}

func (s *Server) handleTodayMood(ctx context.Context, req *gomcp.CallToolRequest) (*gomcp.CallToolResult, error) {
	entry, ok := s.moods.Today()
	if !ok {
		return textResult("No mood logged today."), nil
	}
	return textResult(formatMood(entry)), nil
}

func (s *Server) handleListMoods(ctx context.Context, req *gomcp.CallToolRequest) (*gomcp.CallToolResult, error) {
	var args struct {
		From  string `json:"from"`
		To    string `json:"to"`
		Limit int    `json:"limit"`
	}
	if err := decodeArgs(req, &args); err != nil {
		return toolError("invalid arguments: %v", err), nil
	}
	if args.Limit <= 0 {
		args.Limit = defaultListLimit
	}

	entries, err := moodsInRange(s.moods, args.From, args.To)
	if err != nil {
		return toolError("%v", err), nil
	}
	if len(entries) == 0 {
		return textResult("No moods found."), nil
	}
	if len(entries) > args.Limit {
		entries = entries[:args.Limit]
	}

	var sb strings.Builder
	for _, e := range entries {
		sb.WriteString("- ")
		sb.WriteString(formatMood(e))
		sb.WriteString("\n")
	}
	return textResult(sb.String()), nil
}

func (s *Server) handleMoodStats(ctx context.Context, req *gomcp.CallToolRequest) (*gomcp.CallToolResult, error) {
	stats, ok := s.moods.Stats()
	if !ok {
		return textResult("No moods recorded yet."), nil
	}
	return textResult(fmt.Sprintf("Entries: %d\nMost frequent: %s %s (%d times)",
		stats.Total, stats.Emoji, stats.Label, stats.Count)), nil
}

func (s *Server) handleDeleteMood(ctx context.Context, req *gomcp.CallToolRequest) (*gomcp.CallToolResult, error) {
	var args struct {
		ID string `json:"id"`
	}
	if err := decodeArgs(req, &args); err != nil {
		return toolError("invalid arguments: %v", err), nil
	}
	if args.ID == "" {
		return toolError("id is required"), nil
	}

	removed, err := s.moods.Delete(ctx, args.ID)
	if err != nil {
		return toolError("failed to delete mood: %v", err), nil
	}
	if !removed {
		return textResult(fmt.Sprintf("No mood with id %s.", args.ID)), nil
	}
	s.logger.Debug("mood deleted", "id", args.ID)
	return textResult(fmt.Sprintf("Mood %s deleted.", args.ID)), nil
}

func (s *Server) handleMoodCatalog(ctx context.Context, req *gomcp.CallToolRequest) (*gomcp.CallToolResult, error) {
	var sb strings.Builder
	for i, m := range models.Moods {
		sb.WriteString(fmt.Sprintf("%d: %s %s\n", i, m.Emoji, m.Label))
	}
	return textResult(sb.String()), nil
}

// moodsInRange returns every mood when both bounds are empty; an empty bound
// is open-ended.
func moodsInRange(moods *journal.MoodJournal, from, to string) ([]models.MoodEntry, error) {
	if from == "" && to == "" {
		return moods.Entries(), nil
	}
	if from == "" {
		from = "0001-01-01"
	}
	if to == "" {
		to = "9999-12-31"
	}
	return moods.ByDateRange(from, to)
}

func formatMood(e models.MoodEntry) string {
	line := fmt.Sprintf("%s %s %s (id %s)", e.Date, e.MoodEmoji, e.MoodLabel, e.ID)
	if e.Note != nil {
		line += "\n  Note: " + *e.Note
	}
	return line
}
