package cli

import (
	"encoding/json"
	"fmt"

	"github.com/spf13/cobra"
)

func newListCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "list <owner-id>",
		Short: "List the associations stored for an owner",
		Args:  cobra.ExactArgs(1),
		RunE:  runList,
	}
}

func runList(cmd *cobra.Command, args []string) error {
	s, err := openStore()
	if err != nil {
		return systemErr(err)
	}
	defer s.Detach()

	names, err := s.Associations(args[0])
	if err != nil {
		return systemErr(fmt.Errorf("list associations: %w", err))
	}

	if flags.jsonMode {
		if names == nil {
			names = []string{}
		}
		out, err := json.Marshal(names)
		if err != nil {
			return systemErr(fmt.Errorf("encode output: %w", err))
		}
		fmt.Fprintln(cmd.OutOrStdout(), string(out))
		return nil
	}

	if len(names) == 0 {
		fmt.Fprintf(cmd.OutOrStdout(), "no collections stored for %s\n", args[0])
		return nil
	}
	for _, name := range names {
		fmt.Fprintln(cmd.OutOrStdout(), name)
	}
	return nil
}
