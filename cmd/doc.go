package cmd

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/promptml/promptml/internal/config"
	"github.com/promptml/promptml/internal/document"
	"github.com/promptml/promptml/internal/markup"
)

var docExportPath string

var docCmd = &cobra.Command{
	Use:   "doc",
	Short: "Manage stored documents",
}

var docListCmd = &cobra.Command{
	Use:   "list",
	Short: "List stored documents",
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := config.Load()
		if err != nil {
			return fmt.Errorf("load config: %w", err)
		}
		s, err := openStore(cfg)
		if err != nil {
			return err
		}
		defer s.Close()

		recs, err := s.ListDocuments()
		if err != nil {
			return err
		}
		if len(recs) == 0 {
			fmt.Fprintln(cmd.OutOrStdout(), "no documents")
			return nil
		}
		for _, rec := range recs {
			fmt.Fprintf(cmd.OutOrStdout(), "%-24s %3d blocks  updated %s\n",
				rec.Name, len(rec.Blocks), rec.UpdatedAt.Format("2006-01-02 15:04"))
		}
		return nil
	},
}

var docShowCmd = &cobra.Command{
	Use:   "show NAME",
	Short: "Print a stored document as JSON",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := config.Load()
		if err != nil {
			return fmt.Errorf("load config: %w", err)
		}
		s, err := openStore(cfg)
		if err != nil {
			return err
		}
		defer s.Close()

		rec, err := s.GetDocument(args[0])
		if err != nil {
			return err
		}
		data, err := document.Encode(document.Document{
			ID:          rec.ID,
			Name:        rec.Name,
			Blocks:      rec.Blocks,
			IndentWidth: rec.IndentWidth,
			CreatedAt:   rec.CreatedAt,
			UpdatedAt:   rec.UpdatedAt,
		})
		if err != nil {
			return err
		}
		fmt.Fprintln(cmd.OutOrStdout(), string(data))
		return nil
	},
}

var docRmCmd = &cobra.Command{
	Use:   "rm NAME",
	Short: "Delete a stored document",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := config.Load()
		if err != nil {
			return fmt.Errorf("load config: %w", err)
		}
		s, err := openStore(cfg)
		if err != nil {
			return err
		}
		defer s.Close()

		if err := s.DeleteDocument(args[0]); err != nil {
			return err
		}
		fmt.Fprintf(cmd.OutOrStdout(), "deleted %q\n", args[0])
		return nil
	},
}

var docExportCmd = &cobra.Command{
	Use:   "export NAME",
	Short: "Render a stored document to a text file",
	Long: `Export renders a stored document and writes the markup to a file.
The default file name is NAME.txt: the export is prompt text to paste
into another tool, not a markup document.`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := config.Load()
		if err != nil {
			return fmt.Errorf("load config: %w", err)
		}
		s, err := openStore(cfg)
		if err != nil {
			return err
		}
		defer s.Close()

		rec, err := s.GetDocument(args[0])
		if err != nil {
			return err
		}
		out := markup.Serialize(rec.Blocks, markup.Options{IndentWidth: rec.IndentWidth})

		path := docExportPath
		if path == "" {
			path = rec.Name + ".txt"
		}
		if err := os.WriteFile(path, []byte(out), 0644); err != nil {
			return fmt.Errorf("write export: %w", err)
		}
		fmt.Fprintf(cmd.OutOrStdout(), "exported %q to %s\n", rec.Name, path)
		return nil
	},
}

func init() {
	docExportCmd.Flags().StringVar(&docExportPath, "output", "", "Export file path (default: NAME.txt)")
	docCmd.AddCommand(docListCmd, docShowCmd, docRmCmd, docExportCmd)
	rootCmd.AddCommand(docCmd)
}
