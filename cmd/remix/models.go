package main

import (
	"fmt"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/mhpenta/remix/provider/gemini"
)

func (a *app) modelsCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "models",
		Short: "List the known image models",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			tw := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 4, 2, ' ', 0)
			fmt.Fprintln(tw, "NAME\tAPI MODEL\tMAX INPUT IMAGES\tTHINKING\tDEFAULT")
			for _, info := range gemini.Models() {
				isDefault := ""
				if info.APIModelName == gemini.DefaultModel {
					isDefault = "*"
				}
				fmt.Fprintf(tw, "%s\t%s\t%d\t%t\t%s\n",
					info.Name,
					info.APIModelName,
					info.Capabilities.MaxInputImages,
					info.Capabilities.SupportsThinking,
					isDefault,
				)
			}
			return tw.Flush()
		},
	}
}
