package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"ohmg/internal/api"
	"ohmg/internal/volume"
)

func newSetStatusCommand(ctx *commandContext) *cobra.Command {
	var jsonOutput bool

	cmd := &cobra.Command{
		Use:   "set-status <volume> <document-id> <status>",
		Short: "Transition one document to a new workflow status",
		Long: "Posts a set-status operation against the document's georeference endpoint, " +
			"then refreshes the volume summary to pick up the new collections.",
		Args: cobra.ExactArgs(3),
		RunE: func(cmd *cobra.Command, args []string) error {
			identifier, documentID, status := args[0], args[1], args[2]
			if !volume.ValidDocStatus(status) {
				return fmt.Errorf("unknown document status %q", status)
			}

			cfg, err := ctx.ensureConfig()
			if err != nil {
				return err
			}

			return ctx.withDashboard(cmd.Context(), identifier, func(d *api.Dashboard) error {
				snapshot, err := d.SetDocumentStatus(cmd.Context(), cfg.DocumentEndpoint(documentID), status)
				if err != nil {
					printNotice(cmd, d.Notice())
					return err
				}

				if jsonOutput {
					return writeJSON(cmd, snapshot)
				}

				out := cmd.OutOrStdout()
				colorize := shouldColorize(out)
				fmt.Fprintln(out, renderStatusLine("document", statusOK,
					fmt.Sprintf("%s is now %s", documentID, status), colorize))
				fmt.Fprintln(out, renderStatusLine("collections", statusInfo,
					fmt.Sprintf("unprepared=%d prepared=%d layers=%d nonmaps=%d",
						len(snapshot.Items.Unprepared), len(snapshot.Items.Prepared),
						len(snapshot.Items.Layers), len(snapshot.Items.NonMaps)), colorize))
				return nil
			})
		},
	}

	cmd.Flags().BoolVar(&jsonOutput, "json", false, "Emit the refreshed snapshot as JSON")
	return cmd
}
