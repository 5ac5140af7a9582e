package cmd

import (
	"bufio"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"github.com/gravitrone/cocoon/internal/config"
)

// RunInteractiveInit prompts for the main settings and writes the config file.
// An empty answer keeps the default shown in brackets.
func RunInteractiveInit(in io.Reader, out io.Writer) error {
	reader := bufio.NewReader(in)
	cfg := config.Default()

	ask := func(label, def string) string {
		fmt.Fprintf(out, "%s [%s]: ", label, def)
		line, _ := reader.ReadString('\n')
		line = strings.TrimSpace(line)
		if line == "" {
			return def
		}
		return line
	}

	answers := []struct{ key, label, def string }{
		{"default_browser", "default browser", cfg.DefaultBrowser},
		{"store", "store (json|sqlite)", cfg.Store},
		{"encrypt", "encrypt data file (true|false)", "false"},
		{"theme", "theme (light|dark|system)", cfg.Theme},
	}
	for _, a := range answers {
		if err := cfg.Set(a.key, ask(a.label, a.def)); err != nil {
			return err
		}
	}

	if err := cfg.Save(); err != nil {
		return fmt.Errorf("save config: %w", err)
	}

	fmt.Fprintf(out, "config saved to %s\n", config.Path())
	if cfg.Encrypt {
		fmt.Fprintf(out, "set %s to skip the passphrase prompt\n", PassphraseEnv)
	}
	return nil
}

// InitCmd returns the `cocoon init` command.
func InitCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "init",
		Short: "Write a config file interactively",
		RunE: func(_ *cobra.Command, _ []string) error {
			return RunInteractiveInit(os.Stdin, os.Stdout)
		},
	}
}
