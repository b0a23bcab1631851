package cmd

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/promptml/promptml/internal/config"
	"github.com/promptml/promptml/internal/document"
	"github.com/promptml/promptml/internal/logger"
	"github.com/promptml/promptml/internal/markup"
	"github.com/promptml/promptml/internal/store"
)

var (
	renderFilePath  string
	renderDocName   string
	renderIndent    int
	renderOutPath   string
	renderNoHistory bool
)

var renderCmd = &cobra.Command{
	Use:   "render",
	Short: "Render a block document to markup text",
	RunE: func(cmd *cobra.Command, args []string) error {
		if (renderFilePath == "") == (renderDocName == "") {
			return fmt.Errorf("exactly one of --file or --doc is required")
		}

		cfg, err := config.Load()
		if err != nil {
			return fmt.Errorf("load config: %w", err)
		}

		doc, err := loadRenderDocument(cfg)
		if err != nil {
			return err
		}

		width := doc.IndentWidth
		if cmd.Flags().Changed("indent") {
			width = renderIndent
		}
		out := markup.Serialize(doc.Blocks, markup.Options{IndentWidth: width})

		if renderOutPath == "" {
			fmt.Fprintln(cmd.OutOrStdout(), out)
		} else {
			if err := os.WriteFile(renderOutPath, []byte(out), 0644); err != nil {
				return fmt.Errorf("write output: %w", err)
			}
		}

		if !renderNoHistory {
			recordRenderHistory(cfg, doc, len(out))
		}
		return nil
	},
}

func loadRenderDocument(cfg config.Config) (document.Document, error) {
	if renderFilePath != "" {
		data, err := os.ReadFile(renderFilePath)
		if err != nil {
			return document.Document{}, fmt.Errorf("read document: %w", err)
		}
		doc, err := document.Decode(data)
		if err != nil {
			return document.Document{}, err
		}
		return doc, nil
	}

	s, err := openStore(cfg)
	if err != nil {
		return document.Document{}, err
	}
	defer s.Close()

	rec, err := s.GetDocument(renderDocName)
	if err != nil {
		return document.Document{}, err
	}
	return document.Document{
		ID:          rec.ID,
		Name:        rec.Name,
		Blocks:      rec.Blocks,
		IndentWidth: rec.IndentWidth,
	}, nil
}

func recordRenderHistory(cfg config.Config, doc document.Document, size int) {
	s, err := openStore(cfg)
	if err != nil {
		logger.Warn("record render history: %v", err)
		return
	}
	defer s.Close()

	detail := fmt.Sprintf("%d blocks, %d bytes", len(doc.Blocks), size)
	if err := s.RecordHistory(store.HistoryRender, doc.Name, detail, cfg.Storage.HistoryKeep); err != nil {
		logger.Warn("record render history: %v", err)
	}
}

func init() {
	renderCmd.Flags().StringVar(&renderFilePath, "file", "", "Path to a document JSON file")
	renderCmd.Flags().StringVar(&renderDocName, "doc", "", "Name of a stored document")
	renderCmd.Flags().IntVar(&renderIndent, "indent", markup.DefaultIndentWidth, "Indent width (clamped to 0-8)")
	renderCmd.Flags().StringVar(&renderOutPath, "output", "", "Write markup to file (default: stdout)")
	renderCmd.Flags().BoolVar(&renderNoHistory, "no-history", false, "Skip recording the render in history")
	rootCmd.AddCommand(renderCmd)
}
