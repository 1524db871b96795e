package languages

import (
	"flag"
	"fmt"
	"os"

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
	log   *flags.LogFlags
	help  string

	// flags
	dir string
}

func (c *cmd) init() {
	c.flags = flag.NewFlagSet("", flag.ContinueOnError)
	c.flags.StringVar(&c.dir, "models", "",
		"Directory of <lang>.bin model files.")
	c.log = &flags.LogFlags{}
	flags.Merge(c.flags, c.log.Flags())
	c.help = flags.Usage(help, c.flags)
}

func (c *cmd) Run(args []string) int {
	if err := c.flags.Parse(args); err != nil {
		return 1
	}
	if c.dir == "" {
		c.UI.Error("-models is required")
		return 1
	}
	if len(c.flags.Args()) > 0 {
		c.UI.Error("Too many arguments (expected 0)")
		return 1
	}

	logger, err := c.log.Logger(os.Stderr)
	if err != nil {
		c.UI.Error(err.Error())
		return 1
	}
	reg, err := lemmagen.NewRegistry(c.dir, lemmagen.WithLogger(logger))
	if err != nil {
		c.UI.Error(fmt.Sprintf("Error opening models: %s", err))
		return 1
	}
	langs, err := reg.Languages()
	if err != nil {
		c.UI.Error(fmt.Sprintf("Error listing languages: %s", err))
		return 1
	}
	for _, l := range langs {
		c.UI.Output(l)
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
	synopsis = "List the languages with an installed model."
	help     = `
Usage: lemmagen languages -models DIR

  Lists the language codes of the <lang>.bin files in DIR.

      $ lemmagen languages -models ./models
`
)
