package cmd

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/signalnine/promptdome/internal/config"
	"github.com/signalnine/promptdome/internal/secrets"
	"github.com/signalnine/promptdome/internal/sut"
	"github.com/signalnine/promptdome/internal/suts"
)

var (
	flagProbeSUT    string
	flagProbePrompt string
)

// probe sends one prompt through one SUT and prints each protocol phase,
// which is the quickest way to debug a new adapter config.
func newProbeCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "probe",
		Short: "Send a single prompt to one SUT and show each protocol phase",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := config.Load(cfgFile)
			if err != nil {
				return err
			}
			sutCfgs, err := filterSUTs(cfg.SUTs, []string{flagProbeSUT})
			if err != nil {
				return err
			}
			sec, err := secrets.Load(cfg.Secrets.EnvFile)
			if err != nil {
				return err
			}

			ctx := context.Background()
			registry, err := suts.Build(ctx, sutCfgs, sec, 0)
			if err != nil {
				return err
			}
			s, _ := registry.Get(flagProbeSUT)

			req, err := s.Translate(sut.Prompt{Text: flagProbePrompt})
			if err != nil {
				return fmt.Errorf("translate: %w", err)
			}
			printPhase("Native request", req)

			resp, err := s.Evaluate(ctx, req)
			if err != nil {
				return fmt.Errorf("evaluate: %w", err)
			}
			printPhase("Native response", resp)

			comp, err := s.TranslateBack(req, resp)
			if err != nil {
				return fmt.Errorf("translate back: %w", err)
			}
			fmt.Printf("Completion: %s\n", comp.Text)
			return nil
		},
	}
	cmd.Flags().StringVar(&flagProbeSUT, "sut", "", "SUT uid to probe")
	cmd.Flags().StringVar(&flagProbePrompt, "prompt", "", "prompt text to send")
	cmd.MarkFlagRequired("sut")
	cmd.MarkFlagRequired("prompt")
	return cmd
}

func printPhase(label string, v any) {
	data, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		fmt.Printf("%s: %+v\n\n", label, v)
		return
	}
	fmt.Printf("%s:\n%s\n\n", label, data)
}
