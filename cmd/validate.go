package cmd

import (
	"errors"
	"fmt"
	"io"

	"github.com/spf13/cobra"

	"github.com/signalnine/promptdome/internal/promptcsv"
)

// validate checks a prompt file before spending money on a run: mandatory
// columns present, every row readable, no duplicate uids.
func newValidateCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "validate FILE",
		Short: "Check a prompts CSV without running anything",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			input, err := promptcsv.OpenInput(args[0])
			if err != nil {
				return err
			}
			defer input.Close()

			seen := map[string]bool{}
			count := 0
			for {
				rec, err := input.Next()
				if errors.Is(err, io.EOF) {
					break
				}
				if err != nil {
					return err
				}
				if seen[rec.UID] {
					return fmt.Errorf("duplicate uid %q", rec.UID)
				}
				seen[rec.UID] = true
				count++
			}

			fmt.Printf("OK: %d prompts", count)
			if extras := input.ExtraColumns(); len(extras) > 0 {
				fmt.Printf(", %d pass-through columns %v", len(extras), extras)
			}
			fmt.Println()
			return nil
		},
	}
}
