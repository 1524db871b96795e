package main

import (
	"strings"
	"testing"

	"github.com/mitchellh/cli"
	"github.com/stretchr/testify/require"
)

func TestCommands(t *testing.T) {
	ui := cli.NewMockUi()
	for name, factory := range commands(ui) {
		c, err := factory()
		require.NoError(t, err, name)
		require.NotEmpty(t, c.Synopsis(), name)
		require.True(t, strings.HasPrefix(strings.TrimSpace(c.Help()), "Usage: lemmagen "+name), name)
	}
}

func TestCLIHelp(t *testing.T) {
	ui := cli.NewMockUi()
	c := cli.NewCLI("lemmagen", version)
	c.Args = []string{"-h"}
	c.Commands = commands(ui)
	var out strings.Builder
	c.HelpWriter = &out

	code, err := c.Run()
	require.NoError(t, err)
	require.Equal(t, 0, code)
	for _, name := range []string{"lemmatize", "check", "languages", "install"} {
		require.Contains(t, out.String(), name)
	}
}
