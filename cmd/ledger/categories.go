package main

import (
	"fmt"
	"io"
	"strings"
	"text/tabwriter"

	"github.com/charmbracelet/lipgloss"
	"github.com/spf13/cobra"

	"github.com/Veraticus/spice-ledger/internal/model"
)

var headerStyle = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("86"))

func categoriesCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "categories",
		Short: "List record types and their categories",
		Long:  `Display every record type together with the categories a record of that type may use.`,
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return printCategories(cmd.OutOrStdout())
		},
	}
}

func printCategories(out io.Writer) error {
	w := tabwriter.NewWriter(out, 0, 0, 2, ' ', 0)

	fmt.Fprintf(w, "%s\t%s\n", headerStyle.Render("TYPE"), headerStyle.Render("CATEGORIES"))
	fmt.Fprintf(w, "%s\t%s\n", strings.Repeat("-", 8), strings.Repeat("-", 40))

	for _, typ := range model.RecordTypes() {
		cats := model.CategoriesFor(typ)
		names := make([]string, 0, len(cats))
		for _, c := range cats {
			names = append(names, string(c))
		}
		fmt.Fprintf(w, "%s\t%s\n", typ, strings.Join(names, ", "))
	}

	return w.Flush()
}
