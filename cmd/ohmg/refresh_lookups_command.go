package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"ohmg/internal/api"
)

func newRefreshLookupsCommand(ctx *commandContext) *cobra.Command {
	var jsonOutput bool

	cmd := &cobra.Command{
		Use:   "refresh-lookups <volume>",
		Short: "Ask the service to recompute the volume's layer lookups",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return ctx.withDashboard(cmd.Context(), args[0], func(d *api.Dashboard) error {
				snapshot, err := d.RefreshLookups(cmd.Context())
				if err != nil {
					printNotice(cmd, d.Notice())
					return err
				}

				if jsonOutput {
					return writeJSON(cmd, snapshot)
				}

				out := cmd.OutOrStdout()
				colorize := shouldColorize(out)
				fmt.Fprintln(out, renderStatusLine("lookups", statusOK, "refreshed", colorize))
				fmt.Fprintln(out, renderStatusLine("layers", statusInfo,
					fmt.Sprintf("%d georeferenced, multimask %s", len(snapshot.Items.Layers), snapshot.MultimaskLabel()), colorize))
				return nil
			})
		},
	}

	cmd.Flags().BoolVar(&jsonOutput, "json", false, "Emit the refreshed snapshot as JSON")
	return cmd
}
