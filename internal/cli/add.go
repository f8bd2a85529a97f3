package cli

import (
	"encoding/json"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/mesh-intelligence/satchel/pkg/types"
)

func newAddCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "add <owner-id> <association> <value>",
		Short: "Append a value to an owner's collection",
		Long: "Append a value to the named collection of the owner and persist it.\n" +
			"The value is parsed as JSON; input that does not parse is stored as a\n" +
			"plain string.",
		Args: cobra.ExactArgs(3),
		RunE: runAdd,
	}
}

func runAdd(cmd *cobra.Command, args []string) error {
	s, err := openStore()
	if err != nil {
		return systemErr(err)
	}
	defer s.Detach()

	owner := types.OwnerRef{ID: args[0]}
	c := s.Collection(owner, args[1])
	c.Add(parseValue(args[2]))

	// Flush initializes the collection first, so the new value is
	// reconciled against what is already stored.
	if err := s.Flush(c); err != nil {
		return systemErr(fmt.Errorf("flush collection: %w", err))
	}

	keys, err := c.Keys()
	if err != nil {
		return systemErr(err)
	}
	fmt.Fprintf(cmd.OutOrStdout(), "Added element %d to %s/%s\n", keys[len(keys)-1], args[0], args[1])
	return nil
}

// parseValue decodes arg as JSON, falling back to a plain string. This lets
// callers store numbers, booleans, null, and structured values without
// quoting gymnastics.
func parseValue(arg string) any {
	var v any
	if err := json.Unmarshal([]byte(arg), &v); err != nil {
		return arg
	}
	return v
}
