package main

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"sorter/internal/category"
)

func newCategoriesCommand() *cobra.Command {
	return &cobra.Command{
		Use:         "categories",
		Short:       "List the category folders and the extensions they receive",
		Args:        cobra.NoArgs,
		Annotations: map[string]string{"skipConfigLoad": "true"},
		RunE: func(cmd *cobra.Command, args []string) error {
			rows := make([][]string, 0, len(category.Names()))
			for _, c := range category.Table() {
				exts := "(anything else)"
				if len(c.Extensions) > 0 {
					exts = strings.ToLower(strings.Join(c.Extensions, ", "))
				}
				rows = append(rows, []string{c.Name, exts})
			}
			fmt.Fprintln(cmd.OutOrStdout(), renderTable(tableSpec{
				headers: []string{"Folder", "Extensions"},
				rows:    rows,
			}))
			return nil
		},
	}
}
