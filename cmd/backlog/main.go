package main

import (
	"fmt"
	"io"
	"log/slog"
	"os"
	"slices"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/mmcdole/backlog/internal/adapter"
	"github.com/mmcdole/backlog/internal/adapter/backend"
	"github.com/mmcdole/backlog/internal/catalog"
	"github.com/mmcdole/backlog/internal/domain"
	"github.com/mmcdole/backlog/internal/library"
	"github.com/mmcdole/backlog/internal/notify"
	"github.com/mmcdole/backlog/internal/schedule"
	"github.com/mmcdole/backlog/internal/session"
	"github.com/mmcdole/backlog/internal/store"
	"github.com/mmcdole/backlog/internal/tui"
	"github.com/spf13/cobra"
)

// Version is set at build time via -ldflags
var Version = "dev"

var configPath string

func main() {
	rootCmd := &cobra.Command{
		Use:           "backlog",
		Short:         "Track your game backlog from the terminal",
		Version:       Version,
		SilenceUsage:  true,
		SilenceErrors: true,
		Args:          cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runTUI()
		},
	}

	rootCmd.PersistentFlags().StringVar(&configPath, "config", "", "config file (default ~/.config/backlog/config.yaml)")

	rootCmd.AddCommand(authCmd(domain.AuthLogin))
	rootCmd.AddCommand(authCmd(domain.AuthRegister))
	rootCmd.AddCommand(logoutCmd())
	rootCmd.AddCommand(listCmd())
	rootCmd.AddCommand(searchCmd())
	rootCmd.AddCommand(saveCmd())
	rootCmd.AddCommand(statusCmd())
	rootCmd.AddCommand(rmCmd())

	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

// app holds the wired collaborators shared by every command
type app struct {
	settings *adapter.Settings
	cfg      *adapter.Config
	logger   *slog.Logger
	logFile  io.Closer

	cache  *store.SnapshotStore
	client *backend.Client
	gate   *session.Gate
	svc    *library.Service
}

// openApp loads configuration and wires the backend, cache and session.
// With prompt set, a missing server URL is asked for and saved.
func openApp(prompt bool) (*app, error) {
	settings, err := adapter.LoadConfig(configPath)
	if err != nil {
		return nil, fmt.Errorf("failed to load config: %w", err)
	}
	cfg := settings.Config()

	logger, logFile, err := adapter.SetupLogger(&cfg.Logging)
	if err != nil {
		// Fall back to null logger if file logging fails
		logger = adapter.NullLogger()
	}
	slog.SetDefault(logger)

	if !cfg.IsConfigured() {
		if !prompt {
			closeQuietly(logFile)
			return nil, fmt.Errorf("no server configured, run `backlog login` first")
		}
		if err := runSetupFlow(settings); err != nil {
			closeQuietly(logFile)
			return nil, err
		}
	}

	cache, err := store.NewSnapshotStore(cfg.CacheDir(), cfg.Server.URL)
	if err != nil {
		logger.Warn("snapshot cache unavailable, using memory", "error", err)
		cache, _ = store.NewSnapshotStore("", cfg.Server.URL)
	}

	a := &app{settings: settings, cfg: cfg, logger: logger, logFile: logFile, cache: cache}

	// The client reads the token through the gate, which is built last
	tokens := domain.TokenFunc(func() (string, bool) { return a.gate.Token() })
	a.client = backend.NewClient(cfg.Server.URL, tokens, cfg.Server.Timeout, logger)
	a.svc = library.NewService(a.client, cache, logger)
	a.gate = session.NewGate(backend.NewAuth(cfg.Server.URL, logger), adapter.NewTokenFile(settings), a.svc, logger)

	logger.Info("starting backlog", "version", Version, "server", cfg.Server.URL)
	return a, nil
}

func (a *app) Close() {
	if err := a.cache.Close(); err != nil {
		a.logger.Error("failed to close snapshot cache", "error", err)
	}
	closeQuietly(a.logFile)
}

func closeQuietly(c io.Closer) {
	if c != nil {
		_ = c.Close()
	}
}

// runSetupFlow handles the initial setup when no server is configured
func runSetupFlow(settings *adapter.Settings) error {
	fmt.Println()
	fmt.Println("Welcome to backlog!")
	fmt.Println()

	var serverURL string
	for serverURL == "" {
		url, err := backend.PromptForServerURL()
		if err != nil {
			return err
		}
		if url == "" {
			fmt.Println("Server URL cannot be empty. Please try again.")
		}
		serverURL = url
	}

	settings.Config().Server.URL = serverURL
	if err := settings.Save(); err != nil {
		return fmt.Errorf("failed to save config: %w", err)
	}
	fmt.Printf("✓ Saved server to %s\n\n", settings.Path())
	return nil
}

func runTUI() error {
	a, err := openApp(true)
	if err != nil {
		return err
	}
	defer a.Close()

	clock := schedule.RealClock()
	notices := notify.NewQueue(clock, a.logger)
	search := catalog.NewSearch(a.client, clock, a.logger)
	libStore := library.NewStore(a.svc, notices, search, a.logger)

	defaultTab, err := domain.ParseStatus(a.cfg.UI.DefaultTab, true)
	if err != nil || !slices.Contains(domain.Tabs, defaultTab) {
		a.logger.Warn("unknown default tab, using ALL", "tab", a.cfg.UI.DefaultTab)
		defaultTab = domain.StatusAll
	}

	model := tui.NewModel(tui.Deps{
		Notices:    notices,
		Search:     search,
		Store:      libStore,
		Deletion:   library.NewDeletion(libStore, a.logger),
		Gate:       a.gate,
		Opener:     adapter.NewOpener(a.cfg.Viewer.Command, a.cfg.Viewer.Args, a.logger),
		Logger:     a.logger,
		DefaultTab: defaultTab,
		ShowStats:  a.cfg.UI.ShowStats,
		Username:   a.cfg.Server.Username,
	})

	p := tea.NewProgram(
		model,
		tea.WithAltScreen(),
		tea.WithMouseCellMotion(),
	)

	a.logger.Info("starting TUI")

	if _, err := p.Run(); err != nil {
		a.logger.Error("TUI error", "error", err)
		return fmt.Errorf("TUI error: %w", err)
	}

	a.logger.Info("shutting down")
	return nil
}
