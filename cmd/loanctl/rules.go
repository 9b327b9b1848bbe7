package main

import (
	"encoding/json"
	"fmt"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"loanassist/internal/application"
	"loanassist/internal/decision"
)

func (c *cli) rulesCmd() *cobra.Command {
	var output string
	cmd := &cobra.Command{
		Use:   "rules",
		Short: "List the eligibility rules in evaluation order",
		RunE: func(cmd *cobra.Command, _ []string) error {
			rules := decision.Rules()
			switch output {
			case "json":
				enc := json.NewEncoder(cmd.OutOrStdout())
				enc.SetIndent("", "  ")
				return enc.Encode(rules)
			case "text":
				tw := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 0, 2, ' ', 0)
				fmt.Fprintln(tw, "ORDER\tID\tREASON")
				for _, r := range rules {
					fmt.Fprintf(tw, "%d\t%s\t%s\n", r.Order, r.ID, r.Reason)
				}
				fmt.Fprintf(tw, "\nApplications passing every rule are approved when the model score is >= %.2f.\n", c.cfg.Decision.Threshold)
				return tw.Flush()
			default:
				return fmt.Errorf("unknown output format %q", output)
			}
		},
	}
	cmd.Flags().StringVarP(&output, "output", "o", "text", "output format (text, json)")
	return cmd
}

func (c *cli) schemaCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "schema",
		Short: "Print the JSON schema for loan applications",
		RunE: func(cmd *cobra.Command, _ []string) error {
			_, err := cmd.OutOrStdout().Write(application.Schema())
			return err
		},
	}
}
