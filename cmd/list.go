package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/signalnine/promptdome/internal/config"
)

func newListCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "list",
		Short: "List configured SUTs",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := config.Load(cfgFile)
			if err != nil {
				return err
			}
			fmt.Println("SUTs:")
			for _, s := range cfg.SUTs {
				switch s.Type {
				case "docker":
					fmt.Printf("  - %s (%s, image: %s)\n", s.UID, s.Type, s.Image)
				case "echo":
					fmt.Printf("  - %s (%s)\n", s.UID, s.Type)
				default:
					fmt.Printf("  - %s (%s, model: %s)\n", s.UID, s.Type, s.Model)
				}
			}
			return nil
		},
	}
}
