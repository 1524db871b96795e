// Command lemmagen lemmatizes words and manages model files from the shell.
package main

import (
	"fmt"
	"os"

	"github.com/mitchellh/cli"

	"github.com/cours-de-latin/lemmagen/internal/command/check"
	"github.com/cours-de-latin/lemmagen/internal/command/install"
	"github.com/cours-de-latin/lemmagen/internal/command/languages"
	"github.com/cours-de-latin/lemmagen/internal/command/lemmatize"
)

const version = "0.1.0"

// commands is the mapping of all the available lemmagen commands.
func commands(ui cli.Ui) map[string]cli.CommandFactory {
	return map[string]cli.CommandFactory{
		"lemmatize": func() (cli.Command, error) { return lemmatize.New(ui), nil },
		"check":     func() (cli.Command, error) { return check.New(ui), nil },
		"languages": func() (cli.Command, error) { return languages.New(ui), nil },
		"install":   func() (cli.Command, error) { return install.New(ui), nil },
	}
}

func main() {
	ui := &cli.BasicUi{Reader: os.Stdin, Writer: os.Stdout, ErrorWriter: os.Stderr}

	c := cli.NewCLI("lemmagen", version)
	c.Args = os.Args[1:]
	c.Commands = commands(ui)
	c.HelpWriter = os.Stdout

	exitCode, err := c.Run()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error executing CLI: %v\n", err)
		os.Exit(1)
	}
	os.Exit(exitCode)
}
