package commands

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"
)

// save <lat> <lng> <address...>: store a location with a known address.
func (c *cli) saveCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "save <lat> <lng> <address...>",
		Short: "Save a location with a given address",
		Args:  cobra.MinimumNArgs(3),
		RunE: func(cmd *cobra.Command, args []string) error {
			item, err := c.store.Save(cmd.Context(), args[0], args[1], strings.Join(args[2:], " "))
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Saved location #%d: %s\n", item.ID, item.Address)
			return nil
		},
	}
}
