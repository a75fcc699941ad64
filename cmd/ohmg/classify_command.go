package main

import (
	"fmt"
	"sort"
	"strings"

	"github.com/spf13/cobra"

	"ohmg/internal/api"
)

func newClassifyCommand(ctx *commandContext) *cobra.Command {
	var assignments []string
	var dryRun bool
	var jsonOutput bool

	cmd := &cobra.Command{
		Use:   "classify <volume>",
		Short: "Assign layers to index categories and submit them as a batch",
		Long: "Opens a classification session seeded from the volume's current layer " +
			"categories, applies each --set slug=category edit to the draft, and commits " +
			"the whole draft as one set-index-layers operation. With --dry-run the draft " +
			"is printed and discarded instead.",
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			edits, err := parseAssignments(assignments)
			if err != nil {
				return err
			}
			if len(edits) == 0 && !dryRun {
				return fmt.Errorf("nothing to do: pass at least one --set slug=category")
			}

			return ctx.withDashboard(cmd.Context(), args[0], func(d *api.Dashboard) error {
				if !d.OpenClassification() {
					return fmt.Errorf("classification session already open")
				}

				for slug, category := range edits {
					if err := d.SetCategory(slug, category); err != nil {
						d.DiscardClassification()
						return fmt.Errorf("assign %s: %w", slug, err)
					}
				}

				out := cmd.OutOrStdout()
				colorize := shouldColorize(out)

				if dryRun {
					draft := d.ClassificationDraft()
					d.DiscardClassification()
					if jsonOutput {
						return writeJSON(cmd, draft)
					}
					fmt.Fprintln(out, renderStatusLine("draft", statusInfo,
						fmt.Sprintf("%d assignments (not submitted)", len(draft)), colorize))
					printDraft(cmd, draft)
					return nil
				}

				snapshot, err := d.CommitIndexLayers(cmd.Context())
				if err != nil {
					printNotice(cmd, d.Notice())
					return err
				}

				if jsonOutput {
					return writeJSON(cmd, snapshot)
				}
				fmt.Fprintln(out, renderStatusLine("classify", statusOK,
					fmt.Sprintf("%d edits submitted", len(edits)), colorize))
				printDraft(cmd, snapshot.LayerCategoryLookup())
				return nil
			})
		},
	}

	cmd.Flags().StringArrayVar(&assignments, "set", nil, "Layer assignment as slug=category (repeatable)")
	cmd.Flags().BoolVar(&dryRun, "dry-run", false, "Print the draft without submitting it")
	cmd.Flags().BoolVar(&jsonOutput, "json", false, "Emit the result as JSON")
	return cmd
}

func parseAssignments(values []string) (map[string]string, error) {
	edits := make(map[string]string, len(values))
	for _, value := range values {
		slug, category, ok := strings.Cut(value, "=")
		slug = strings.TrimSpace(slug)
		category = strings.TrimSpace(category)
		if !ok || slug == "" || category == "" {
			return nil, fmt.Errorf("bad --set value %q, want slug=category", value)
		}
		edits[slug] = category
	}
	return edits, nil
}

func printDraft(cmd *cobra.Command, draft map[string]string) {
	slugs := make([]string, 0, len(draft))
	for slug := range draft {
		slugs = append(slugs, slug)
	}
	sort.Strings(slugs)

	rows := make([][]string, 0, len(slugs))
	for _, slug := range slugs {
		rows = append(rows, []string{slug, titleCase(draft[slug])})
	}
	fmt.Fprintln(cmd.OutOrStdout(), renderTable("", []string{"Layer", "Category"}, rows, nil))
}
