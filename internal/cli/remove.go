package cli

import (
	"fmt"
	"strconv"

	"github.com/spf13/cobra"

	"github.com/mesh-intelligence/satchel/pkg/types"
)

func newRemoveCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "remove <owner-id> <association> <key>",
		Short: "Remove an element from an owner's collection by key",
		Args:  cobra.ExactArgs(3),
		RunE:  runRemove,
	}
}

func runRemove(cmd *cobra.Command, args []string) error {
	key, err := strconv.Atoi(args[2])
	if err != nil {
		return fmt.Errorf("key must be an integer: %q", args[2])
	}

	s, err := openStore()
	if err != nil {
		return systemErr(err)
	}
	defer s.Detach()

	c := s.Collection(types.OwnerRef{ID: args[0]}, args[1])
	_, ok, err := c.Remove(key)
	if err != nil {
		return systemErr(fmt.Errorf("load collection: %w", err))
	}
	if !ok {
		return fmt.Errorf("no element with key %d in %s/%s", key, args[0], args[1])
	}

	if err := s.Flush(c); err != nil {
		return systemErr(fmt.Errorf("flush collection: %w", err))
	}

	fmt.Fprintf(cmd.OutOrStdout(), "Removed element %d from %s/%s\n", key, args[0], args[1])
	return nil
}
