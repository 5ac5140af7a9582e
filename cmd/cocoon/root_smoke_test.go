package main

import (
	"bytes"
	"os"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRunTUIWithoutTerminalReturnsError(t *testing.T) {
	t.Setenv("HOME", t.TempDir())

	err := runTUI()
	assert.ErrorContains(t, err, "interactive terminal")
}

func TestIsInteractiveTerminalRejectsFiles(t *testing.T) {
	f, err := os.CreateTemp(t.TempDir(), "out")
	require.NoError(t, err)
	defer f.Close()

	assert.False(t, isInteractiveTerminal(f))
	assert.False(t, isInteractiveTerminal(nil))
}

func TestRootHelpListsCommands(t *testing.T) {
	root := newRootCmd()
	var out bytes.Buffer
	root.SetOut(&out)
	root.SetArgs([]string{"--help"})

	require.NoError(t, root.Execute())
	for _, name := range []string{"init", "add", "list", "search", "copy", "open", "rm", "extract", "config"} {
		assert.Contains(t, out.String(), name)
	}
	assert.Contains(t, out.String(), "@name")
}
