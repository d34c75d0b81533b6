// ABOUTME: Structured logger construction for breather.
// ABOUTME: Builds a named hclog logger with level, format, and a per-process session id.
package logging

import (
	"io"
	"os"
	"strings"

	"github.com/google/uuid"
	"github.com/hashicorp/go-hclog"
)

// Options configures New.
type Options struct {
	Level  string    // trace, debug, info, warn, error; unknown values fall back to info
	Format string    // text or json
	Output io.Writer // defaults to stderr
}

// New creates the root logger. Every line carries the session id so that
// entries written by one CLI invocation or MCP session can be grouped.
func New(opts Options) hclog.Logger {
	level := hclog.LevelFromString(opts.Level)
	if level == hclog.NoLevel {
		level = hclog.Info
	}
	out := opts.Output
	if out == nil {
		out = os.Stderr
	}

	return hclog.New(&hclog.LoggerOptions{
		Name:       "breather",
		Level:      level,
		Output:     out,
		JSONFormat: strings.EqualFold(opts.Format, "json"),
	}).With("session", uuid.NewString())
}

// Discard returns a logger that drops everything.
func Discard() hclog.Logger {
	return hclog.NewNullLogger()
}
