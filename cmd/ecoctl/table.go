package main

import (
	"fmt"
	"text/tabwriter"

	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"

	"eco-service/internal/scoring"
)

func newTableCmd() *cobra.Command {
	var asYAML bool

	cmd := &cobra.Command{
		Use:   "table",
		Short: "Print the scoring table in effect",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			table := scoring.DefaultTable()
			if asYAML {
				enc := yaml.NewEncoder(cmd.OutOrStdout())
				enc.SetIndent(2)
				defer enc.Close()
				return enc.Encode(map[string]interface{}{
					"version":   table.Version(),
					"questions": table.Questions(),
				})
			}

			tw := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 4, 2, ' ', 0)
			fmt.Fprintf(tw, "version %d\n", table.Version())
			fmt.Fprintln(tw, "QUESTION\tGROUP\tOPTION\tPOINTS")
			for _, q := range table.Questions() {
				for _, o := range q.Options {
					fmt.Fprintf(tw, "%s\t%s\t%s\t%d\n", q.Key, q.Group, o.Key, o.Points)
				}
			}
			return tw.Flush()
		},
	}

	cmd.Flags().BoolVar(&asYAML, "yaml", false, "print the table as YAML")
	return cmd
}
