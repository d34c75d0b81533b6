// ABOUTME: MCP server initialization and configuration for breather.
// ABOUTME: Exposes the mood and absence journals as tools for AI agents over stdio.
package mcp

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/hashicorp/go-hclog"
	gomcp "github.com/modelcontextprotocol/go-sdk/mcp"

	"github.com/2389-research/breather/internal/journal"
)

// Server wraps the MCP server with both journals.
type Server struct {
	mcp      *gomcp.Server
	moods    *journal.MoodJournal
	absences *journal.AbsenceJournal
	logger   hclog.Logger
}

// ServerOption configures optional Server dependencies.
type ServerOption func(*Server)

// WithLogger sets the logger used for tool calls.
func WithLogger(l hclog.Logger) ServerOption {
	return func(s *Server) {
		s.logger = l
	}
}

// NewServer creates an MCP server over initialized journals.
func NewServer(moods *journal.MoodJournal, absences *journal.AbsenceJournal, opts ...ServerOption) (*Server, error) {
	if moods == nil {
		return nil, fmt.Errorf("mood journal is required")
	}
	if absences == nil {
		return nil, fmt.Errorf("absence journal is required")
	}

	mcpServer := gomcp.NewServer(
		&gomcp.Implementation{
			Name:    "breather",
			Version: "1.0.0",
		},
		nil,
	)

	s := &Server{
		mcp:      mcpServer,
		moods:    moods,
		absences: absences,
		logger:   hclog.NewNullLogger(),
	}

	for _, opt := range opts {
		opt(s)
	}

	s.registerMoodTools()
	s.registerAbsenceTools()

	return s, nil
}

// Serve starts the MCP server in stdio mode and flushes pending writes when
// the session ends.
func (s *Server) Serve(ctx context.Context) error {
	s.logger.Info("mcp server starting")
	err := s.mcp.Run(ctx, &gomcp.StdioTransport{})

	flushErr := s.moods.Flush(context.Background())
	if flushErr == nil {
		flushErr = s.absences.Flush(context.Background())
	}
	if err == nil {
		err = flushErr
	}
	return err
}

// decodeArgs unmarshals tool arguments into v. Missing arguments leave v unchanged.
func decodeArgs(req *gomcp.CallToolRequest, v any) error {
	if req.Params == nil || len(req.Params.Arguments) == 0 {
		return nil
	}
	return json.Unmarshal(req.Params.Arguments, v)
}

func textResult(text string) *gomcp.CallToolResult {
	return &gomcp.CallToolResult{
		Content: []gomcp.Content{&gomcp.TextContent{Text: text}},
	}
}

// toolError creates an error result for MCP tool responses.
func toolError(format string, args ...interface{}) *gomcp.CallToolResult {
	return &gomcp.CallToolResult{
		Content: []gomcp.Content{&gomcp.TextContent{Text: fmt.Sprintf(format, args...)}},
		IsError: true,
	}
}
