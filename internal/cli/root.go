package cli

import (
	"github.com/spf13/cobra"

	"github.com/hquan/docdesk/internal/config"
	"github.com/hquan/docdesk/internal/logger"
)

// version is stamped at build time via -ldflags.
var version = "dev"

var (
	flagBackend string
	flagVerbose bool
)

var rootCmd = &cobra.Command{
	Use:   "docdesk",
	Short: "DocDesk keeps a workspace of PDFs and answers questions about them",
	Long: `DocDesk is a terminal client for a document ingestion backend.

Drop PDFs in, watch them move through OCR and embedding, then ask
questions and jump straight to the cited page. Run without arguments
to open the interactive workspace.`,
	SilenceUsage:  true,
	SilenceErrors: true,
	RunE: func(cmd *cobra.Command, args []string) error {
		return runTUI(cmd, args)
	},
}

// Execute runs the root command.
func Execute() error {
	return rootCmd.Execute()
}

func init() {
	rootCmd.PersistentFlags().StringVar(&flagBackend, "backend", "", "override the backend base URL")
	rootCmd.PersistentFlags().BoolVarP(&flagVerbose, "verbose", "v", false, "enable debug logging to stderr")
}

// loadConfig resolves the config directory, loads the file, and applies
// command-line overrides on top.
func loadConfig() (config.Config, error) {
	dir, err := config.Dir()
	if err != nil {
		return config.Config{}, err
	}
	cfg, err := config.Load(dir)
	if err != nil {
		return config.Config{}, err
	}
	if flagBackend != "" {
		cfg.BackendURL = flagBackend
	}
	if flagVerbose {
		cfg.Verbose = true
	}
	logger.SetVerbose(cfg.Verbose)
	return cfg, nil
}
