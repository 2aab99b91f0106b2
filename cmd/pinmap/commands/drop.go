package commands

import (
	"context"
	"fmt"
	"time"

	"pinmap/internal/maps"
	"pinmap/internal/store"

	"github.com/spf13/cobra"
)

const defaultLookupTimeout = 5 * time.Second

// drop <lat> <lng>: resolve a dropped pin and optionally save it.
func (c *cli) dropCmd() *cobra.Command {
	var (
		save    bool
		timeout time.Duration
	)
	cmd := &cobra.Command{
		Use:   "drop <lat> <lng>",
		Short: "Resolve the address of a dropped pin",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			lat, lng, err := parseCoordinates(args[0], args[1])
			if err != nil {
				return err
			}

			result := c.lookup(cmd.Context(), lat, lng, timeout)
			out := cmd.OutOrStdout()
			printResult(out, result)
			if !save {
				return nil
			}

			item, err := c.session.Save(cmd.Context(), result)
			if err != nil {
				return err
			}
			fmt.Fprintf(out, "Saved location #%d\n", item.ID)
			return nil
		},
	}
	cmd.Flags().BoolVar(&save, "save", false, "save the pin with its resolved address")
	cmd.Flags().DurationVar(&timeout, "timeout", defaultLookupTimeout, "give up on the address lookup after this long")
	return cmd
}

// reverse <lat> <lng>: print only the resolved address.
func (c *cli) reverseCmd() *cobra.Command {
	var timeout time.Duration
	cmd := &cobra.Command{
		Use:   "reverse <lat> <lng>",
		Short: "Print the address for a coordinate pair",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			lat, lng, err := parseCoordinates(args[0], args[1])
			if err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), c.lookup(cmd.Context(), lat, lng, timeout).Address)
			return nil
		},
	}
	cmd.Flags().DurationVar(&timeout, "timeout", defaultLookupTimeout, "give up on the address lookup after this long")
	return cmd
}

// lookup resolves through the session so a pending lookup is cancelled on exit.
func (c *cli) lookup(ctx context.Context, lat, lng float64, timeout time.Duration) maps.GeocodeResult {
	if timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, timeout)
		defer cancel()
	}
	return c.session.DropPin(ctx, lat, lng)
}

func parseCoordinates(rawLat, rawLng string) (float64, float64, error) {
	lat, ok := store.Coerce(rawLat)
	if !ok || lat < -90 || lat > 90 {
		return 0, 0, fmt.Errorf("invalid latitude %q: want a number between -90 and 90", rawLat)
	}
	lng, ok := store.Coerce(rawLng)
	if !ok || lng < -180 || lng > 180 {
		return 0, 0, fmt.Errorf("invalid longitude %q: want a number between -180 and 180", rawLng)
	}
	return lat, lng, nil
}
