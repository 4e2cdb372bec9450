package main

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"strings"
	"time"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"
	"github.com/mmcdole/backlog/internal/adapter/backend"
	"github.com/mmcdole/backlog/internal/domain"
	"github.com/mmcdole/backlog/internal/library"
	"github.com/mmcdole/backlog/internal/session"
	"github.com/mmcdole/backlog/internal/tui/styles"
	"github.com/spf13/cobra"
)

// commandContext is canceled on interrupt
func commandContext() (context.Context, context.CancelFunc) {
	return signal.NotifyContext(context.Background(), os.Interrupt)
}

func authCmd(mode domain.AuthMode) *cobra.Command {
	use, short := "login", "Log in to the backlog server"
	if mode == domain.AuthRegister {
		use, short = "register", "Create an account on the backlog server"
	}

	return &cobra.Command{
		Use:   use,
		Short: short,
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := openApp(true)
			if err != nil {
				return err
			}
			defer a.Close()

			creds, err := backend.PromptCredentials(mode)
			if err != nil {
				return err
			}

			ctx, cancel := commandContext()
			defer cancel()

			if err := a.gate.Authenticate(ctx, mode, creds); err != nil {
				return errors.New(session.Describe(err))
			}

			a.cfg.Server.Username = strings.TrimSpace(creds.Username)
			if err := a.settings.Save(); err != nil {
				return fmt.Errorf("failed to save config: %w", err)
			}

			fmt.Println(styles.SuccessStyle.Render("✓ Signed in as " + a.cfg.Server.Username))
			return nil
		},
	}
}

func logoutCmd() *cobra.Command {
	var purge bool

	cmd := &cobra.Command{
		Use:   "logout",
		Short: "Forget the saved token and cached library",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := openApp(false)
			if err != nil {
				return err
			}
			defer a.Close()

			if err := a.gate.Logout(); err != nil {
				return fmt.Errorf("failed to clear token: %w", err)
			}
			if purge {
				// Snapshots of every server, not just the current one
				if err := a.cache.Close(); err != nil {
					return err
				}
				if err := a.cfg.ClearCache(); err != nil {
					return err
				}
			}

			fmt.Println(styles.SuccessStyle.Render("✓ Signed out"))
			return nil
		},
	}

	cmd.Flags().BoolVar(&purge, "purge", false, "also delete cached libraries of every server")
	return cmd
}

func listCmd() *cobra.Command {
	var statusFlag string
	var offline bool

	cmd := &cobra.Command{
		Use:   "list",
		Short: "Print your library",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			status, err := domain.ParseStatus(statusFlag, true)
			if err != nil {
				return err
			}

			a, err := openApp(false)
			if err != nil {
				return err
			}
			defer a.Close()

			var entries []domain.Entry
			if !offline {
				ctx, cancel := commandContext()
				defer cancel()
				entries, err = a.svc.FetchEntries(ctx)
			}
			if offline || errors.Is(err, domain.ErrServerOffline) {
				cached, savedAt, ok := a.svc.CachedEntries()
				if !ok {
					if err != nil {
						return err
					}
					return errors.New("no cached library")
				}
				entries = cached
				fmt.Fprintln(os.Stderr, styles.DimStyle.Render("offline: library saved "+savedAt.Format(time.DateTime)))
			} else if err != nil {
				return err
			}

			rows := filterEntries(entries, status)
			if len(rows) == 0 {
				fmt.Println("Nothing here yet")
				return nil
			}
			fmt.Println(entryTable(rows))
			return nil
		},
	}

	cmd.Flags().StringVarP(&statusFlag, "status", "s", string(domain.StatusAll), "only show entries with this status")
	cmd.Flags().BoolVar(&offline, "offline", false, "show the cached library without contacting the server")
	return cmd
}

func searchCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "search [query]",
		Short: "Search the game catalog",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			query := strings.Join(args, " ")

			a, err := openApp(false)
			if err != nil {
				return err
			}
			defer a.Close()

			ctx, cancel := commandContext()
			defer cancel()

			hits, err := a.client.SearchCatalog(ctx, query)
			if err != nil {
				return fmt.Errorf("failed to search: %w", err)
			}
			if len(hits) == 0 {
				fmt.Println("No results found")
				return nil
			}

			t := newTable("ID", "NAME")
			for _, h := range hits {
				t.Row(h.ExternalID, h.Name)
			}
			fmt.Println(t)
			return nil
		},
	}
}

func saveCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "save [catalog-id]",
		Short: "Add a catalog game to your library",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := openApp(false)
			if err != nil {
				return err
			}
			defer a.Close()

			ctx, cancel := commandContext()
			defer cancel()

			if err := a.svc.SaveFromCatalog(ctx, args[0]); err != nil {
				if errors.Is(err, domain.ErrDuplicateEntry) {
					return errors.New(library.DuplicateText)
				}
				return err
			}
			fmt.Println(styles.SuccessStyle.Render(library.SavedText))
			return nil
		},
	}
}

func statusCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "status [id] [status]",
		Short: "Set the status of a library entry",
		Long:  "Set the status of a library entry to one of PLAYING, COMPLETED, BACKLOG or DROPPED.",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			status, err := domain.ParseStatus(args[1], false)
			if err != nil {
				return err
			}

			a, err := openApp(false)
			if err != nil {
				return err
			}
			defer a.Close()

			ctx, cancel := commandContext()
			defer cancel()

			if err := a.svc.SetStatus(ctx, args[0], status); err != nil {
				return err
			}
			fmt.Printf(library.StatusTextFormat+"\n", status)
			return nil
		},
	}
}

func rmCmd() *cobra.Command {
	var yes bool

	cmd := &cobra.Command{
		Use:   "rm [id]",
		Short: "Remove an entry from your library",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if !yes && !confirm(library.ConfirmText) {
				fmt.Println("Aborted")
				return nil
			}

			a, err := openApp(false)
			if err != nil {
				return err
			}
			defer a.Close()

			ctx, cancel := commandContext()
			defer cancel()

			if err := a.svc.Delete(ctx, args[0]); err != nil {
				return err
			}
			fmt.Println(library.RemovedText)
			return nil
		},
	}

	cmd.Flags().BoolVarP(&yes, "yes", "y", false, "skip the confirmation prompt")
	return cmd
}

// confirm asks a yes/no question on the terminal
func confirm(question string) bool {
	fmt.Printf("%s [y/N] ", question)
	answer, err := bufio.NewReader(os.Stdin).ReadString('\n')
	if err != nil {
		return false
	}
	switch strings.ToLower(strings.TrimSpace(answer)) {
	case "y", "yes":
		return true
	}
	return false
}

func filterEntries(entries []domain.Entry, status domain.Status) []domain.Entry {
	if status == domain.StatusAll {
		return entries
	}
	out := make([]domain.Entry, 0, len(entries))
	for _, e := range entries {
		if e.Status == status {
			out = append(out, e)
		}
	}
	return out
}

func newTable(headers ...string) *table.Table {
	return table.New().
		Border(lipgloss.RoundedBorder()).
		BorderStyle(lipgloss.NewStyle().Foreground(styles.DimGray)).
		Headers(headers...).
		StyleFunc(func(row, col int) lipgloss.Style {
			if row == table.HeaderRow {
				return styles.AccentStyle.Bold(true).Padding(0, 1)
			}
			return lipgloss.NewStyle().Padding(0, 1)
		})
}

func entryTable(entries []domain.Entry) *table.Table {
	t := newTable("ID", "TITLE", "STATUS")
	for _, e := range entries {
		t.Row(e.ID, e.Title, lipgloss.NewStyle().Foreground(styles.StatusColor(e.Status)).Render(e.Status.Label()))
	}
	return t
}
