package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"ohmg/internal/remote"
	"ohmg/internal/volume"
)

func newSummaryCommand(ctx *commandContext) *cobra.Command {
	var sectionFlag string
	var allSections bool
	var jsonOutput bool

	cmd := &cobra.Command{
		Use:   "summary <volume>",
		Short: "Fetch and render a volume summary",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			client, cfg, err := ctx.newClient()
			if err != nil {
				return err
			}

			snapshot, err := client.SubmitVolumeOperation(cmd.Context(),
				cfg.SummaryEndpoint(args[0]), remote.OpRefresh, remote.VolumePayload{})
			if err != nil {
				return err
			}

			if jsonOutput {
				return writeJSON(cmd, snapshot)
			}

			out := cmd.OutOrStdout()
			colorize := shouldColorize(out)
			user := cfg.User()

			sections := []volume.Section{volume.ParseSection(sectionFlag, *snapshot)}
			if allSections {
				sections = volume.Sections
			}
			for i, section := range sections {
				if i > 0 {
					fmt.Fprintln(out)
				}
				for _, line := range renderSectionHeader(titleCase(string(section)), colorize) {
					fmt.Fprintln(out, line)
				}
				for _, line := range renderSection(*snapshot, user, section, colorize) {
					fmt.Fprintln(out, line)
				}
			}
			return nil
		},
	}

	cmd.Flags().StringVarP(&sectionFlag, "section", "s", "", "Section to render (summary, preview, unprepared, prepared, georeferenced, nonmaps, multimask, download)")
	cmd.Flags().BoolVar(&allSections, "all", false, "Render every section")
	cmd.Flags().BoolVar(&jsonOutput, "json", false, "Emit the raw snapshot as JSON")
	return cmd
}
