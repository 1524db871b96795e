package lemmatize

import (
	"bufio"
	"flag"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/mitchellh/cli"

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
	model *flags.ModelFlags
	log   *flags.LogFlags
	help  string

	// flags
	pairs bool

	// testStdin is the input for testing.
	testStdin io.Reader
}

func (c *cmd) init() {
	c.flags = flag.NewFlagSet("", flag.ContinueOnError)
	c.flags.BoolVar(&c.pairs, "pairs", false,
		"Print each input word next to its lemma, separated by a tab.")
	c.model = &flags.ModelFlags{}
	c.log = &flags.LogFlags{}
	flags.Merge(c.flags, c.model.Flags())
	flags.Merge(c.flags, c.log.Flags())
	c.help = flags.Usage(help, c.flags)
}

func (c *cmd) Run(args []string) int {
	if err := c.flags.Parse(args); err != nil {
		return 1
	}

	logger, err := c.log.Logger(os.Stderr)
	if err != nil {
		c.UI.Error(err.Error())
		return 1
	}
	m, err := c.model.Model(logger)
	if err != nil {
		c.UI.Error(fmt.Sprintf("Error loading model: %s", err))
		return 1
	}

	words := c.flags.Args()
	if len(words) == 0 {
		stdin := c.testStdin
		if stdin == nil {
			stdin = os.Stdin
		}
		sc := bufio.NewScanner(stdin)
		for sc.Scan() {
			if w := strings.TrimSpace(sc.Text()); w != "" {
				words = append(words, w)
			}
		}
		if err := sc.Err(); err != nil {
			c.UI.Error(fmt.Sprintf("Error reading input: %s", err))
			return 1
		}
	}

	code := 0
	for _, w := range words {
		lemma, err := m.Lemmatize(w)
		if err != nil {
			c.UI.Error(fmt.Sprintf("%s: %s", w, err))
			code = 1
			continue
		}
		if c.pairs {
			c.UI.Output(w + "\t" + lemma)
		} else {
			c.UI.Output(lemma)
		}
	}
	return code
}

func (c *cmd) Synopsis() string {
	return synopsis
}

func (c *cmd) Help() string {
	return c.help
}

const (
	synopsis = "Lemmatize words with a model."
	help     = `
Usage: lemmagen lemmatize [options] [WORD...]

  Prints the lemma of every WORD, one per line. Without arguments words are
  read from stdin, one per line.

      $ lemmagen lemmatize -model en.bin cats dogs
      $ lemmagen lemmatize -models ./models -lang sl < words.txt
`
)
