package main

import (
	"fmt"
	"log/slog"
	"os"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/mattn/go-isatty"
	"github.com/spf13/cobra"

	"github.com/gravitrone/cocoon/internal/cmd"
	"github.com/gravitrone/cocoon/internal/config"
	"github.com/gravitrone/cocoon/internal/launcher"
	"github.com/gravitrone/cocoon/internal/platform"
	"github.com/gravitrone/cocoon/internal/search"
	"github.com/gravitrone/cocoon/internal/store"
	"github.com/gravitrone/cocoon/internal/ui"
	"github.com/gravitrone/cocoon/internal/ui/components"
)

func main() {
	if err := newRootCmd().Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		os.Exit(1)
	}
}

func init() {
	// Force truecolor so hex colors render correctly
	// Must be set before any lipgloss style initialization
	os.Setenv("COLORTERM", "truecolor")
}

func newRootCmd() *cobra.Command {
	root := &cobra.Command{
		Use:   "cocoon",
		Short: "Cocoon - documents at your fingertips",
		Long: "Cocoon is a quick launcher for personal documents. Run it without arguments to open the\n" +
			"launcher: type to search, @name to filter by owner, enter to copy the default field.",
		RunE: func(_ *cobra.Command, _ []string) error {
			return runTUI()
		},
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	root.AddCommand(cmd.InitCmd())
	root.AddCommand(cmd.AddCmd())
	root.AddCommand(cmd.ListCmd())
	root.AddCommand(cmd.SearchCmd())
	root.AddCommand(cmd.CopyCmd())
	root.AddCommand(cmd.OpenCmd())
	root.AddCommand(cmd.RmCmd())
	root.AddCommand(cmd.ExtractCmd())
	root.AddCommand(cmd.ConfigCmd())
	return root
}

func runTUI() error {
	if !isInteractiveTerminal(os.Stdin) || !isInteractiveTerminal(os.Stdout) {
		return fmt.Errorf("the launcher needs an interactive terminal; see 'cocoon --help' for scriptable commands")
	}

	cfg, err := config.LoadOrDefault()
	if err != nil {
		return err
	}
	components.ApplyTheme(cfg.Theme)

	if err := os.MkdirAll(config.Dir(), 0700); err != nil {
		return fmt.Errorf("create config dir: %w", err)
	}
	logFile, err := tea.LogToFile(config.LogPath(), "cocoon")
	if err != nil {
		return fmt.Errorf("open log: %w", err)
	}
	defer logFile.Close()
	logger := slog.New(slog.NewTextHandler(logFile, &slog.HandlerOptions{Level: cfg.SlogLevel()}))
	slog.SetDefault(logger)

	st, err := cmd.OpenStore(cfg, os.Stdin, os.Stdout, logger)
	if err != nil {
		return err
	}
	defer store.Close(st)

	app := ui.NewApp(ui.Options{
		Config: cfg,
		Store:  st,
		Dispatcher: launcher.NewDispatcher(
			platform.NewSystemClipboard(),
			platform.NewBrowserOpener(cfg.DefaultBrowser, logger),
			logger,
		),
		Engine: search.NewEngine(),
		Logger: logger,
	})

	logger.Info("launcher started", "store", cfg.Store, "encrypted", cfg.Encrypt)
	p := tea.NewProgram(app, tea.WithAltScreen(), tea.WithMouseCellMotion())
	if _, err := p.Run(); err != nil {
		return fmt.Errorf("tui error: %w", err)
	}
	return nil
}

func isInteractiveTerminal(file *os.File) bool {
	if file == nil {
		return false
	}
	fd := file.Fd()
	return isatty.IsTerminal(fd) || isatty.IsCygwinTerminal(fd)
}
