package cmd

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/promptml/promptml/internal/config"
	"github.com/promptml/promptml/internal/logger"
	"github.com/promptml/promptml/internal/store"
)

var logLevel string

var rootCmd = &cobra.Command{
	Use:   "promptml",
	Short: "Compose prompts as tagged blocks and render them as markup",
	Long: `promptml composes prompts as an ordered list of tagged, attributed
text blocks and renders them to XML-like markup text.

Common flows:
  promptml render --file doc.json      Render a block document to markup
  promptml parse --file prompt.txt     Recover blocks from markup text
  promptml doc list                    Manage stored documents
  promptml web                         Serve the render/parse HTTP API`,
	CompletionOptions: cobra.CompletionOptions{
		DisableDefaultCmd: true,
	},
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		level, err := logger.ParseLevel(logLevel)
		if err != nil {
			return err
		}
		logger.SetLevel(level)
		return nil
	},
}

func init() {
	rootCmd.PersistentFlags().StringVar(&logLevel, "log", "info",
		"Log level: debug, info, warn, error")
}

// openStore opens the configured document store.
func openStore(cfg config.Config) (*store.Store, error) {
	s, err := store.NewStore(cfg.Storage.Path)
	if err != nil {
		return nil, fmt.Errorf("open store: %w", err)
	}
	return s, nil
}

func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
