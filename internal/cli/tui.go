package cli

import (
	"context"
	"fmt"
	"os"
	"runtime/debug"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/spf13/cobra"

	"github.com/hquan/docdesk/internal/api"
	"github.com/hquan/docdesk/internal/docfile"
	"github.com/hquan/docdesk/internal/inbox"
	"github.com/hquan/docdesk/internal/logger"
	"github.com/hquan/docdesk/internal/navigate"
	"github.com/hquan/docdesk/internal/session"
	"github.com/hquan/docdesk/internal/tui"
)

var (
	flagNoAltScreen bool
	flagLink        string
)

var tuiCmd = &cobra.Command{
	Use:   "tui",
	Short: "Open the interactive workspace",
	Long: `Open the interactive terminal workspace.

The left panel lists your documents with their ingestion status. The
viewer shows the selected document one page at a time, and the chat
panel below it answers questions with page citations you can jump to.

Controls:
  Tab        - Cycle focus between panels
  ↑/k, ↓/j   - Move the document cursor
  Enter      - Select / Ask
  h/l        - Previous / next page
  n/p        - Walk the citations of the latest answer
  Ctrl+U     - Switch the composer to upload mode
  Ctrl+C     - Quit`,
	RunE: runTUI,
}

func init() {
	tuiCmd.Flags().BoolVar(&flagNoAltScreen, "no-alt-screen", false, "disable the alternate screen buffer")
	tuiCmd.Flags().StringVar(&flagLink, "link", "", "open a saved view, e.g. \"doc=doc-42&page=7&thread=...\"")
	rootCmd.AddCommand(tuiCmd)
}

func runTUI(cmd *cobra.Command, _ []string) error {
	defer func() {
		if r := recover(); r != nil {
			fmt.Fprintf(os.Stderr, "panic: %v\n%s\n", r, debug.Stack())
		}
	}()

	cfg, err := loadConfig()
	if err != nil {
		return err
	}

	client := api.NewClient(cfg.BackendURL)

	cache, err := docfile.NewCache(nil)
	if err != nil {
		return fmt.Errorf("file cache: %w", err)
	}

	mode := navigate.ModeLenient
	if cfg.StrictCitations {
		mode = navigate.ModeStrict
	}
	bus := navigate.NewBus(mode)

	sess, err := session.Load(cfg.SessionFile)
	if err != nil {
		logger.Warn("discarding unreadable session: %v", err)
		sess = session.Context{}
	}
	if flagLink != "" {
		sess, err = session.Decode(flagLink)
		if err != nil {
			return fmt.Errorf("parse --link: %w", err)
		}
	}

	var drops <-chan string
	if cfg.InboxDir != "" {
		ctx, cancel := context.WithCancel(cmd.Context())
		defer cancel()
		watcher, err := inbox.Watch(ctx, cfg.InboxDir)
		if err != nil {
			logger.Warn("inbox watch disabled: %v", err)
		} else {
			defer watcher.Close()
			drops = watcher.Events()
		}
	}

	opts := []tea.ProgramOption{}
	if !flagNoAltScreen {
		opts = append(opts, tea.WithAltScreen())
	}
	program := tea.NewProgram(
		tui.New(tui.Config{
			Client:   client,
			Cache:    cache,
			Bus:      bus,
			Session:  sess,
			Drops:    drops,
			Settings: cfg,
		}),
		opts...,
	)

	if _, err := program.Run(); err != nil {
		return fmt.Errorf("program error: %w", err)
	}
	return nil
}
