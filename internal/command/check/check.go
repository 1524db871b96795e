package check

import (
	"bytes"
	"errors"
	"flag"
	"fmt"
	"text/tabwriter"

	"github.com/hashicorp/go-multierror"
	"github.com/mitchellh/cli"

	"github.com/cours-de-latin/lemmagen"
	"github.com/cours-de-latin/lemmagen/internal/command/flags"
)

func New(ui cli.Ui) *cmd {
	c := &cmd{UI: ui}
	c.init()
	return c
}

type cmd struct {
	UI    cli.Ui
	flags *flag.FlagSet
	help  string
}

func (c *cmd) init() {
	c.flags = flag.NewFlagSet("", flag.ContinueOnError)
	c.help = flags.Usage(help, c.flags)
}

func (c *cmd) Run(args []string) int {
	if err := c.flags.Parse(args); err != nil {
		return 1
	}

	args = c.flags.Args()
	switch len(args) {
	case 0:
		c.UI.Error("Missing FILE argument")
		return 1
	case 1:
	default:
		c.UI.Error(fmt.Sprintf("Too many arguments (expected 1, got %d)", len(args)))
		return 1
	}

	m, err := lemmagen.LoadFile(args[0])
	if err != nil {
		c.UI.Error(fmt.Sprintf("Error loading model: %s", err))
		return 1
	}

	st, verr := m.Verify()

	var b bytes.Buffer
	tw := tabwriter.NewWriter(&b, 0, 2, 6, ' ', 0)
	fmt.Fprintf(tw, "Bytes\t%d\n", st.Bytes)
	fmt.Fprintf(tw, "Nodes\t%d\n", st.Nodes)
	fmt.Fprintf(tw, "Rules\t%d\n", st.Rules)
	fmt.Fprintf(tw, "Leaves\t%d\n", st.Leaves)
	fmt.Fprintf(tw, "Internal\t%d\n", st.Internals)
	fmt.Fprintf(tw, "Entire word\t%d\n", st.EntireWord)
	fmt.Fprintf(tw, "Hash slots\t%d/%d\n", st.Used, st.Slots)
	fmt.Fprintf(tw, "Depth\t%d\n", st.Depth)
	if err := tw.Flush(); err != nil {
		c.UI.Error(fmt.Sprintf("Error rendering model info: %s", err))
		return 1
	}
	c.UI.Output(b.String())

	if verr != nil {
		var merr *multierror.Error
		if errors.As(verr, &merr) {
			for _, e := range merr.Errors {
				c.UI.Error(e.Error())
			}
		} else {
			c.UI.Error(verr.Error())
		}
		c.UI.Error(fmt.Sprintf("Model %s is invalid", args[0]))
		return 1
	}
	return 0
}

func (c *cmd) Synopsis() string {
	return synopsis
}

func (c *cmd) Help() string {
	return c.help
}

const (
	synopsis = "Verify a model file and print its statistics."
	help     = `
Usage: lemmagen check FILE

  Walks every record of the model in FILE, reports structural problems such
  as addresses outside the buffer or rules that do not resolve, and prints
  node counts.

      $ lemmagen check models/en.bin
`
)
