package cli

import (
	"encoding/json"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/mesh-intelligence/satchel/pkg/types"
)

func newShowCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "show <owner-id> <association>",
		Short: "Print an owner's collection",
		Long:  "Load the named collection lazily and print its elements in order.",
		Args:  cobra.ExactArgs(2),
		RunE:  runShow,
	}
}

// shownElement is one element in --json output.
type shownElement struct {
	Key   int `json:"k"`
	Value any `json:"value"`
}

// shownCollection is the --json output document.
type shownCollection struct {
	OwnerID     string         `json:"owner_id"`
	Association string         `json:"association"`
	Elements    []shownElement `json:"elements"`
}

func runShow(cmd *cobra.Command, args []string) error {
	s, err := openStore()
	if err != nil {
		return systemErr(err)
	}
	defer s.Detach()

	c := s.Collection(types.OwnerRef{ID: args[0]}, args[1])
	pairs, err := c.ToArray()
	if err != nil {
		return systemErr(fmt.Errorf("load collection: %w", err))
	}

	if flags.jsonMode {
		doc := shownCollection{
			OwnerID:     args[0],
			Association: args[1],
			Elements:    make([]shownElement, 0, len(pairs)),
		}
		for _, p := range pairs {
			doc.Elements = append(doc.Elements, shownElement{Key: p.Key, Value: p.Value})
		}
		out, err := json.MarshalIndent(doc, "", "  ")
		if err != nil {
			return systemErr(fmt.Errorf("encode output: %w", err))
		}
		fmt.Fprintln(cmd.OutOrStdout(), string(out))
		return nil
	}

	if len(pairs) == 0 {
		fmt.Fprintf(cmd.OutOrStdout(), "%s/%s is empty\n", args[0], args[1])
		return nil
	}
	for _, p := range pairs {
		encoded, err := json.Marshal(p.Value)
		if err != nil {
			return systemErr(fmt.Errorf("encode element %d: %w", p.Key, err))
		}
		fmt.Fprintf(cmd.OutOrStdout(), "%d: %s\n", p.Key, encoded)
	}
	return nil
}
