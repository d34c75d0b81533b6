// ABOUTME: MCP tool implementations for the absence journal.
// ABOUTME: Registers declare_absence, today_absence, list_absences, and delete_absence.
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

func (s *Server) registerAbsenceTools() {
	s.mcp.AddTool(&gomcp.Tool{
		Name:        "declare_absence",
		Description: "Declare today's absence with a justification and an optional supporting image. Declaring again on the same day replaces today's absence.",
		InputSchema: json.RawMessage(`{
			"type": "object",
			"properties": {
				"justification": {"type": "string", "description": "Why you are absent", "minLength": 1},
				"image_uri": {"type": "string", "description": "Optional URI or local path of a supporting document"}
			},
			"required": ["justification"]
		}`),
	}, s.handleDeclareAbsence)

	s.mcp.AddTool(&gomcp.Tool{
		Name:        "today_absence",
		Description: "Get the absence declared for today, if any.",
		InputSchema: json.RawMessage(`{"type": "object", "properties": {}}`),
	}, s.handleTodayAbsence)

	s.mcp.AddTool(&gomcp.Tool{
		Name:        "list_absences",
		Description: "List declared absences, newest first.",
		InputSchema: json.RawMessage(`{
			"type": "object",
			"properties": {
				"limit": {"type": "number", "description": "Maximum number of entries (default 30)"}
			}
		}`),
	}, s.handleListAbsences)

	s.mcp.AddTool(&gomcp.Tool{
		Name:        "delete_absence",
		Description: "Delete a declared absence by id.",
		InputSchema: json.RawMessage(`{
			"type": "object",
			"properties": {
				"id": {"type": "string", "description": "Id of the absence to delete"}
			},
			"required": ["id"]
		}`),
	}, s.handleDeleteAbsence)
}

func (s *Server) handleDeclareAbsence(ctx context.Context, req *gomcp.CallToolRequest) (*gomcp.CallToolResult, error) {
	var args struct {
		Justification string `json:"justification"`
		ImageURI      string `json:"image_uri"`
	}
	if err := decodeArgs(req, &args); err != nil {
		return toolError("invalid arguments: %v", err), nil
	}

	entry, err := s.absences.SaveAbsence(ctx, journal.AbsenceInput{
		Justification: args.Justification,
		ImageURI:      args.ImageURI,
	})
	if err != nil {
		if errors.Is(err, journal.ErrJustificationRequired) {
			return toolError("justification is required"), nil
		}
		return toolError("failed to declare absence: %v", err), nil
	}
	s.logger.Debug("absence declared", "id", entry.ID, "date", entry.Date)

	return textResult("Absence declared:\n" + formatAbsence(entry)), nil
}

func (s *Server) handleTodayAbsence(ctx context.Context, req *gomcp.CallToolRequest) (*gomcp.CallToolResult, error) {
	entry, ok := s.absences.Today()
	if !ok {
		return textResult("No absence declared today."), nil
	}
	return textResult(formatAbsence(entry)), nil
}

func (s *Server) handleListAbsences(ctx context.Context, req *gomcp.CallToolRequest) (*gomcp.CallToolResult, error) {
	var args struct {
		Limit int `json:"limit"`
	}
	if err := decodeArgs(req, &args); err != nil {
		return toolError("invalid arguments: %v", err), nil
	}
	if args.Limit <= 0 {
		args.Limit = defaultListLimit
	}

	entries := s.absences.Entries()
	if len(entries) == 0 {
		return textResult("No absences found."), nil
	}
	if len(entries) > args.Limit {
		entries = entries[:args.Limit]
	}

	var sb strings.Builder
	for _, e := range entries {
		sb.WriteString("- ")
		sb.WriteString(formatAbsence(e))
		sb.WriteString("\n")
	}
	return textResult(sb.String()), nil
}

func (s *Server) handleDeleteAbsence(ctx context.Context, req *gomcp.CallToolRequest) (*gomcp.CallToolResult, error) {
	var args struct {
		ID string `json:"id"`
	}
	if err := decodeArgs(req, &args); err != nil {
		return toolError("invalid arguments: %v", err), nil
	}
	if args.ID == "" {
		return toolError("id is required"), nil
	}

	removed, err := s.absences.Delete(ctx, args.ID)
	if err != nil {
		return toolError("failed to delete absence: %v", err), nil
	}
	if !removed {
		return textResult(fmt.Sprintf("No absence with id %s.", args.ID)), nil
	}
	return textResult(fmt.Sprintf("Absence %s deleted.", args.ID)), nil
}

func formatAbsence(e models.AbsenceEntry) string {
	line := fmt.Sprintf("%s %s (id %s)", e.Date, e.Justification, e.ID)
	if e.ImageURI != nil {
		line += "\n  Image: " + *e.ImageURI
	}
	return line
}
