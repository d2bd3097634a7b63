package cmd

import (
	"github.com/spf13/cobra"
)

var cfgFile string

func NewRootCmd() *cobra.Command {
	root := &cobra.Command{
		Use:   "promptdome",
		Short: "Run CSVs of prompts through model endpoints, concurrently",
	}
	root.PersistentFlags().StringVar(&cfgFile, "config", "promptdome.yaml", "config file path")
	root.AddCommand(newRunCmd())
	root.AddCommand(newProbeCmd())
	root.AddCommand(newListCmd())
	root.AddCommand(newValidateCmd())
	root.AddCommand(newReportCmd())
	return root
}
