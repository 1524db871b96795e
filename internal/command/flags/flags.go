// Package flags holds the flag helpers shared by the lemmagen commands.
package flags

import (
	"bytes"
	"errors"
	"flag"
	"fmt"
	"io"
	"strings"

	"github.com/hashicorp/go-hclog"

	"github.com/cours-de-latin/lemmagen"
	"github.com/cours-de-latin/lemmagen/internal/logging"
)

// ModelFlags selects a model either by file or by registry directory and
// language code.
type ModelFlags struct {
	file string
	dir  string
	lang string
}

func (f *ModelFlags) Flags() *flag.FlagSet {
	fs := flag.NewFlagSet("", flag.ContinueOnError)
	fs.StringVar(&f.file, "model", "",
		"Path to a binary model file. Mutually exclusive with -models/-lang.")
	fs.StringVar(&f.dir, "models", "",
		"Directory of <lang>.bin model files.")
	fs.StringVar(&f.lang, "lang", "",
		"Language code of the model to use from -models.")
	return fs
}

// Registry opens the -models directory.
func (f *ModelFlags) Registry(logger hclog.Logger) (*lemmagen.Registry, error) {
	if f.dir == "" {
		return nil, errors.New("-models is required")
	}
	return lemmagen.NewRegistry(f.dir, lemmagen.WithLogger(logger))
}

// Model loads the model selected by the flags.
func (f *ModelFlags) Model(logger hclog.Logger) (*lemmagen.Model, error) {
	switch {
	case f.file != "" && (f.dir != "" || f.lang != ""):
		return nil, errors.New("-model cannot be combined with -models or -lang")
	case f.file != "":
		return lemmagen.LoadFile(f.file)
	case f.lang == "":
		return nil, errors.New("either -model or -models and -lang is required")
	}
	reg, err := f.Registry(logger)
	if err != nil {
		return nil, err
	}
	return reg.Model(f.lang)
}

// Merge copies every flag of src into dst.
func Merge(dst, src *flag.FlagSet) {
	src.VisitAll(func(f *flag.Flag) {
		dst.Var(f.Value, f.Name, f.Usage)
	})
}

// Usage renders help text followed by the options of fs, indented with spaces.
func Usage(txt string, fs *flag.FlagSet) string {
	var b bytes.Buffer
	b.WriteString(strings.TrimRight(txt, "\n"))
	b.WriteString("\n")

	first := true
	fs.VisitAll(func(f *flag.Flag) {
		if first {
			b.WriteString("\nCommand Options:\n")
			first = false
		}
		fmt.Fprintf(&b, "\n  -%s", f.Name)
		if f.DefValue != "" && f.DefValue != "false" {
			fmt.Fprintf(&b, "=<%s>", f.DefValue)
		}
		b.WriteString("\n")
		for _, line := range wrap(f.Usage, 70) {
			fmt.Fprintf(&b, "     %s\n", line)
		}
	})
	return b.String()
}

func wrap(s string, width int) []string {
	var lines []string
	var cur string
	for _, w := range strings.Fields(s) {
		if cur != "" && len(cur)+1+len(w) > width {
			lines = append(lines, cur)
			cur = ""
		}
		if cur != "" {
			cur += " "
		}
		cur += w
	}
	if cur != "" {
		lines = append(lines, cur)
	}
	return lines
}

// LogFlags configures the logger of a command.
type LogFlags struct {
	level string
}

func (f *LogFlags) Flags() *flag.FlagSet {
	fs := flag.NewFlagSet("", flag.ContinueOnError)
	fs.StringVar(&f.level, "log-level", "warn",
		"Log level: trace, debug, info, warn or error.")
	return fs
}

// Logger returns a logger writing to w at the configured level.
func (f *LogFlags) Logger(w io.Writer) (hclog.Logger, error) {
	return logging.Setup(logging.Config{Name: "lemmagen", Level: f.level}, w)
}
