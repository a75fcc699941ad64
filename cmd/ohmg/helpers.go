package main

import (
	"fmt"

	"github.com/spf13/cobra"
	"golang.org/x/text/cases"
	"golang.org/x/text/language"
)

var titleCaser = cases.Title(language.AmericanEnglish)

// titleCase renders a slug-ish value ("key map", "nonmaps") as a display
// heading.
func titleCase(value string) string {
	return titleCaser.String(value)
}

func yesNo(value bool) string {
	if value {
		return "yes"
	}
	return "no"
}

// printNotice surfaces a session failure banner on stderr when the last
// operation left one behind.
func printNotice(cmd *cobra.Command, notice string) {
	if notice == "" {
		return
	}
	errOut := cmd.ErrOrStderr()
	fmt.Fprintln(errOut, renderStatusLine("notice", statusWarn, notice, shouldColorize(errOut)))
}
