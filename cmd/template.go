package cmd

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/promptml/promptml/internal/config"
	"github.com/promptml/promptml/internal/document"
	"github.com/promptml/promptml/internal/markup"
	"github.com/promptml/promptml/internal/store"
)

var (
	templateFromDoc  string
	templateFromFile string
	templateUseAs    string
)

var templateCmd = &cobra.Command{
	Use:   "template",
	Short: "Manage reusable block templates",
}

var templateSaveCmd = &cobra.Command{
	Use:   "save NAME",
	Short: "Save a template from a stored document or a JSON file",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		if (templateFromDoc == "") == (templateFromFile == "") {
			return fmt.Errorf("exactly one of --from-doc or --file is required")
		}

		cfg, err := config.Load()
		if err != nil {
			return fmt.Errorf("load config: %w", err)
		}
		s, err := openStore(cfg)
		if err != nil {
			return err
		}
		defer s.Close()

		var blocks []markup.Block
		if templateFromDoc != "" {
			rec, err := s.GetDocument(templateFromDoc)
			if err != nil {
				return err
			}
			blocks = rec.Blocks
		} else {
			data, err := os.ReadFile(templateFromFile)
			if err != nil {
				return fmt.Errorf("read template source: %w", err)
			}
			doc, err := document.Decode(data)
			if err != nil {
				return err
			}
			blocks = doc.Blocks
		}

		if _, err := s.SaveTemplate(args[0], blocks); err != nil {
			return err
		}
		fmt.Fprintf(cmd.OutOrStdout(), "saved template %q (%d blocks)\n", args[0], len(blocks))
		return nil
	},
}

var templateListCmd = &cobra.Command{
	Use:   "list",
	Short: "List templates",
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

		recs, err := s.ListTemplates()
		if err != nil {
			return err
		}
		if len(recs) == 0 {
			fmt.Fprintln(cmd.OutOrStdout(), "no templates")
			return nil
		}
		for _, rec := range recs {
			fmt.Fprintf(cmd.OutOrStdout(), "%-24s %3d blocks\n", rec.Name, len(rec.Blocks))
		}
		return nil
	},
}

var templateShowCmd = &cobra.Command{
	Use:   "show NAME",
	Short: "Print a template as JSON",
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

		rec, err := s.GetTemplate(args[0])
		if err != nil {
			return err
		}
		data, err := document.Encode(document.Document{Name: rec.Name, Blocks: rec.Blocks})
		if err != nil {
			return err
		}
		fmt.Fprintln(cmd.OutOrStdout(), string(data))
		return nil
	},
}

var templateRmCmd = &cobra.Command{
	Use:   "rm NAME",
	Short: "Delete a template",
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

		if err := s.DeleteTemplate(args[0]); err != nil {
			return err
		}
		fmt.Fprintf(cmd.OutOrStdout(), "deleted template %q\n", args[0])
		return nil
	},
}

var templateUseCmd = &cobra.Command{
	Use:   "use NAME",
	Short: "Create a new document from a template",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		if templateUseAs == "" {
			return fmt.Errorf("--as is required")
		}

		cfg, err := config.Load()
		if err != nil {
			return fmt.Errorf("load config: %w", err)
		}
		s, err := openStore(cfg)
		if err != nil {
			return err
		}
		defer s.Close()

		tpl, err := s.GetTemplate(args[0])
		if err != nil {
			return err
		}
		if _, err := s.SaveDocument(store.DocumentRecord{
			Name:        templateUseAs,
			Blocks:      tpl.Blocks,
			IndentWidth: cfg.Render.IndentWidth,
		}); err != nil {
			return err
		}
		fmt.Fprintf(cmd.OutOrStdout(), "created document %q from template %q\n", templateUseAs, args[0])
		return nil
	},
}

func init() {
	templateSaveCmd.Flags().StringVar(&templateFromDoc, "from-doc", "", "Source stored document")
	templateSaveCmd.Flags().StringVar(&templateFromFile, "file", "", "Source document JSON file")
	templateUseCmd.Flags().StringVar(&templateUseAs, "as", "", "Name of the document to create")
	templateCmd.AddCommand(templateSaveCmd, templateListCmd, templateShowCmd, templateRmCmd, templateUseCmd)
	rootCmd.AddCommand(templateCmd)
}
