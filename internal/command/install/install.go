package install

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
	dir   string
	lang  string
	force bool
}

func (c *cmd) init() {
	c.flags = flag.NewFlagSet("", flag.ContinueOnError)
	c.flags.BoolVar(&c.force, "force", false,
		"Install the model even if verification reports problems.")
	c.flags.StringVar(&c.dir, "models", "",
		"Directory of <lang>.bin model files to install into.")
	c.flags.StringVar(&c.lang, "lang", "",
		"Language code the model is installed for.")
	c.log = &flags.LogFlags{}
	flags.Merge(c.flags, c.log.Flags())
	c.help = flags.Usage(help, c.flags)
}

func (c *cmd) Run(args []string) int {
	if err := c.flags.Parse(args); err != nil {
		return 1
	}

	args = c.flags.Args()
	if len(args) != 1 {
		c.UI.Error(fmt.Sprintf("Expected exactly one FILE argument, got %d", len(args)))
		return 1
	}
	if c.dir == "" || c.lang == "" {
		c.UI.Error("-models and -lang are required")
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

	m, err := lemmagen.LoadFile(args[0])
	if err != nil {
		c.UI.Error(fmt.Sprintf("Error loading model: %s", err))
		return 1
	}
	if _, err := m.Verify(); err != nil {
		if !c.force {
			c.UI.Error(fmt.Sprintf("Model failed verification: %s", err))
			return 1
		}
		c.UI.Warn(fmt.Sprintf("Installing despite verification errors: %s", err))
	}

	if err := reg.Install(c.lang, m); err != nil {
		c.UI.Error(fmt.Sprintf("Error installing model: %s", err))
		return 1
	}
	c.UI.Output(fmt.Sprintf("Installed %s model (%d bytes)", c.lang, m.Size()))
	return 0
}

func (c *cmd) Synopsis() string {
	return synopsis
}

func (c *cmd) Help() string {
	return c.help
}

const (
	synopsis = "Verify a model file and install it for a language."
	help     = `
Usage: lemmagen install -models DIR -lang LANG FILE

  Loads and verifies the model in FILE and writes it atomically to
  DIR/LANG.bin, replacing any previous model for LANG.

      $ lemmagen install -models ./models -lang en en.bin
`
)
