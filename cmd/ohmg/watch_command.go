package main

import (
	"fmt"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/spf13/cobra"

	"ohmg/internal/api"
	"ohmg/internal/tui"
)

func newWatchCommand(ctx *commandContext) *cobra.Command {
	return &cobra.Command{
		Use:   "watch <volume>",
		Short: "Live terminal dashboard for a volume",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := ctx.ensureConfig()
			if err != nil {
				return err
			}

			return ctx.withDashboard(cmd.Context(), args[0], func(d *api.Dashboard) error {
				program := tea.NewProgram(tui.New(d, cfg.User()), tea.WithAltScreen())
				if _, err := program.Run(); err != nil {
					return fmt.Errorf("run watch dashboard: %w", err)
				}
				return nil
			})
		},
	}
}
