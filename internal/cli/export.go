package cli

import (
	"fmt"

	"github.com/spf13/cobra"
)

func newExportCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "export <file>",
		Short: "Dump all stored elements to a JSONL file",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			s, err := openStore()
			if err != nil {
				return systemErr(err)
			}
			defer s.Detach()

			if err := s.ExportJSONL(args[0]); err != nil {
				return systemErr(fmt.Errorf("export: %w", err))
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Exported elements to %s\n", args[0])
			return nil
		},
	}
}

func newImportCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "import <file>",
		Short: "Load elements from a JSONL file",
		Long:  "Load element records from a JSONL dump in one transaction. Malformed lines are skipped.",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			s, err := openStore()
			if err != nil {
				return systemErr(err)
			}
			defer s.Detach()

			if err := s.ImportJSONL(args[0]); err != nil {
				return systemErr(fmt.Errorf("import: %w", err))
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Imported elements from %s\n", args[0])
			return nil
		},
	}
}
