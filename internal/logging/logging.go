// Package logging builds the hclog loggers used by the lemmagen binaries.
package logging

import (
	"fmt"
	"io"

	"github.com/hashicorp/go-hclog"
)

// Config is used to set up logging.
type Config struct {
	// Name prefixes every log line.
	Name string

	// Level is the minimum level logged: trace, debug, info, warn or error.
	Level string

	// JSON switches the output to one JSON object per line.
	JSON bool
}

// Setup returns a logger writing to w.
func Setup(cfg Config, w io.Writer) (hclog.Logger, error) {
	level := hclog.LevelFromString(cfg.Level)
	if level == hclog.NoLevel {
		return nil, fmt.Errorf("invalid log level %q", cfg.Level)
	}
	return hclog.New(&hclog.LoggerOptions{
		Name:       cfg.Name,
		Level:      level,
		Output:     w,
		JSONFormat: cfg.JSON,
	}), nil
}
