package cli

import (
	"errors"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/hquan/docdesk/internal/chat"
	"github.com/hquan/docdesk/internal/export"
)

var flagExportOut string

var exportCmd = &cobra.Command{
	Use:   "export [thread-id]",
	Short: "Render a chat thread to markdown",
	Long: `Render a stored chat thread, with its cited passages, to markdown.

Without a thread ID the most recent thread is exported. Use "docdesk
threads" to list stored thread IDs.`,
	Args: cobra.MaximumNArgs(1),
	RunE: runExport,
}

var threadsCmd = &cobra.Command{
	Use:   "threads",
	Short: "List stored chat threads",
	RunE:  runThreads,
}

func init() {
	exportCmd.Flags().StringVarP(&flagExportOut, "out", "o", "", "write to a file instead of stdout")
	rootCmd.AddCommand(exportCmd)
	rootCmd.AddCommand(threadsCmd)
}

func runExport(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}

	var thread *chat.Thread
	if len(args) == 1 {
		thread, err = chat.LoadThread(cfg.HistoryFile(), args[0])
		if err != nil {
			return err
		}
		if thread == nil {
			return fmt.Errorf("no thread with ID %s", args[0])
		}
	} else {
		threads, err := chat.ListThreads(cfg.HistoryFile())
		if err != nil {
			return err
		}
		if len(threads) == 0 {
			return errors.New("no stored threads to export")
		}
		thread = &threads[len(threads)-1]
	}

	md := export.Markdown(thread, exportTitle(thread))
	if md == "" {
		return errors.New("thread has no messages")
	}

	if flagExportOut != "" {
		if err := os.WriteFile(flagExportOut, []byte(md), 0o644); err != nil {
			return err
		}
		cmd.Printf("wrote %s\n", flagExportOut)
		return nil
	}
	cmd.Print(md)
	return nil
}

func runThreads(cmd *cobra.Command, _ []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}
	threads, err := chat.ListThreads(cfg.HistoryFile())
	if err != nil {
		return err
	}
	if len(threads) == 0 {
		cmd.Println("no stored threads")
		return nil
	}
	for _, t := range threads {
		scope := "workspace-wide"
		if t.DocumentID != "" {
			scope = "doc " + t.DocumentID
		}
		cmd.Printf("%s  %s  %s  %d messages\n",
			t.ID, t.StartedAt.Format("2006-01-02 15:04"), scope, len(t.Messages))
	}
	return nil
}

// exportTitle uses the first question as the document title.
func exportTitle(t *chat.Thread) string {
	for _, msg := range t.Messages {
		if msg.Role == chat.RoleUser {
			return msg.Content
		}
	}
	return "Conversation"
}
