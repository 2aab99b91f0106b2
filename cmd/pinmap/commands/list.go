package commands

import (
	"github.com/spf13/cobra"
)

// list: fetch saved locations and show one page of them.
func (c *cli) listCmd() *cobra.Command {
	var page int
	cmd := &cobra.Command{
		Use:   "list",
		Short: "Show a page of saved locations",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := c.session.Refresh(cmd.Context()); err != nil {
				return err
			}
			c.session.GoToPage(page)
			printPage(cmd.OutOrStdout(), c.session.Page())
			return nil
		},
	}
	cmd.Flags().IntVar(&page, "page", 1, "page to show (clamped to the available pages)")
	cmd.Flags().Int("page-size", 0, "locations per page (default 10)")
	_ = c.v.BindPFlag("page_size", cmd.Flags().Lookup("page-size"))
	return cmd
}
