package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"ohmg/internal/api"
)

func newInitializeCommand(ctx *commandContext) *cobra.Command {
	var wait bool
	var jsonOutput bool

	cmd := &cobra.Command{
		Use:   "initialize <volume>",
		Short: "Start the bulk sheet load for a volume",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return ctx.withDashboard(cmd.Context(), args[0], func(d *api.Dashboard) error {
				snapshot, err := d.Initialize(cmd.Context())
				if err != nil {
					printNotice(cmd, d.Notice())
					return err
				}

				out := cmd.OutOrStdout()
				colorize := shouldColorize(out)

				if wait && snapshot.AutoReload() {
					fmt.Fprintln(out, renderStatusLine("initialize", statusInfo,
						fmt.Sprintf("loading %d sheets, waiting", snapshot.SheetCt.Total), colorize))
					if err := d.WaitIdle(cmd.Context()); err != nil {
						return err
					}
					snapshot = d.Store().Snapshot()
				}

				if jsonOutput {
					return writeJSON(cmd, snapshot)
				}

				kind := statusOK
				if snapshot.SheetsLoading() {
					kind = statusWarn
				}
				fmt.Fprintln(out, renderStatusLine("status", kind, snapshot.Status, colorize))
				fmt.Fprintln(out, renderStatusLine("sheets", statusInfo,
					fmt.Sprintf("%d/%d loaded", snapshot.SheetCt.Loaded, snapshot.SheetCt.Total), colorize))
				return nil
			})
		},
	}

	cmd.Flags().BoolVarP(&wait, "wait", "w", false, "Block until the load settles")
	cmd.Flags().BoolVar(&jsonOutput, "json", false, "Emit the final snapshot as JSON")
	return cmd
}
