package cmd

import (
	"context"
	"fmt"
	"log"
	"log/slog"
	"os"
	"time"

	"github.com/schollz/progressbar/v3"
	"github.com/spf13/cobra"

	"github.com/signalnine/promptdome/internal/config"
	"github.com/signalnine/promptdome/internal/pipeline"
	"github.com/signalnine/promptdome/internal/promptcsv"
	"github.com/signalnine/promptdome/internal/report"
	"github.com/signalnine/promptdome/internal/result"
	"github.com/signalnine/promptdome/internal/secrets"
	"github.com/signalnine/promptdome/internal/suts"
)

var (
	flagSUTs    []string
	flagWorkers int
	flagDebug   bool
	flagNoCache bool
	flagOutput  string
)

func newRunCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "run FILE",
		Short: "Run a CSV of prompts through the configured SUTs",
		Long:  "The CSV must have UID and Text columns; any other columns pass through to the output.",
		Args:  cobra.ExactArgs(1),
		RunE:  runPrompts,
	}
	cmd.Flags().StringSliceVar(&flagSUTs, "sut", nil, "run only these SUT uids (repeatable)")
	cmd.Flags().IntVar(&flagWorkers, "workers", 0, "worker pool size, default 10 × number of SUTs")
	cmd.Flags().BoolVar(&flagDebug, "debug", false, "log every pipeline stage transition")
	cmd.Flags().BoolVar(&flagNoCache, "no-cache", false, "disable the response cache")
	cmd.Flags().StringVar(&flagOutput, "output", "", "write responses here instead of the run directory")
	return cmd
}

func runPrompts(cmd *cobra.Command, args []string) error {
	cfg, err := config.Load(cfgFile)
	if err != nil {
		return err
	}
	sutCfgs, err := filterSUTs(cfg.SUTs, flagSUTs)
	if err != nil {
		return err
	}

	sec, err := secrets.Load(cfg.Secrets.EnvFile)
	if err != nil {
		return err
	}

	ctx := context.Background()

	cacheSize := 0
	if cfg.Cache.Enabled && !flagNoCache {
		cacheSize = cfg.Cache.Size
	}
	registry, err := suts.Build(ctx, sutCfgs, sec, cacheSize)
	if err != nil {
		return err
	}

	input, err := promptcsv.OpenInput(args[0])
	if err != nil {
		return err
	}
	defer input.Close()

	promptCount, err := input.Count()
	if err != nil {
		return err
	}

	runDir, err := result.CreateRunDir(cfg.Results.Dir)
	if err != nil {
		return err
	}
	fmt.Printf("Run directory: %s\n", runDir)

	outPath := flagOutput
	if outPath == "" {
		outPath = result.ResponsesPath(runDir)
	}
	output, err := promptcsv.CreateOutput(outPath, input.ExtraColumns(), registry.UIDs())
	if err != nil {
		return err
	}
	defer output.Close()
	counting := &countingWriter{next: output}

	workItems := promptCount * registry.Len()
	bar := progressbar.NewOptions(workItems,
		progressbar.OptionSetDescription(fmt.Sprintf("Processing %d prompts × %d SUTs", promptCount, registry.Len())),
		progressbar.OptionShowCount(),
	)

	var logger *slog.Logger
	if flagDebug {
		logger = slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: slog.LevelDebug}))
	}

	workers := flagWorkers
	if workers == 0 {
		workers = cfg.Workers
	}

	p := pipeline.New(input, registry, counting, pipeline.Options{
		Workers:    workers,
		QueueDepth: cfg.QueueDepth,
		Progress:   func(completed int) { bar.Set(completed) },
		Logger:     logger,
	})

	start := time.Now()
	if err := p.Run(ctx); err != nil {
		fmt.Println()
		return fmt.Errorf("pipeline: %w", err)
	}
	bar.Finish()
	fmt.Println()

	if workers < 1 {
		workers = pipeline.DefaultWorkersPerSUT * registry.Len()
	}
	meta := result.NewRunMeta(args[0], registry.UIDs())
	meta.Workers = workers
	meta.Prompts = promptCount
	meta.WorkItems = workItems
	meta.Failures = counting.failures
	meta.DurationS = int(time.Since(start).Seconds())
	if err := result.WriteRunMeta(runDir, meta); err != nil {
		log.Printf("warning: writing run meta: %v", err)
	}

	fmt.Printf("responses saved to %s\n", outPath)
	if flagOutput == "" {
		fmt.Println("\n--- Results ---")
		return report.Generate(runDir, "table", os.Stdout)
	}
	return nil
}

// countingWriter tallies failed cells on the way to the real writer. Only
// the sink goroutine calls it, so a plain int is fine.
type countingWriter struct {
	next     pipeline.RowWriter
	failures int
}

func (c *countingWriter) WriteRow(p pipeline.PromptRecord, results map[string]pipeline.ResultItem) error {
	for _, r := range results {
		if r.Failed() {
			c.failures++
		}
	}
	return c.next.WriteRow(p, results)
}

func filterSUTs(all []config.SUT, uids []string) ([]config.SUT, error) {
	if len(uids) == 0 {
		return all, nil
	}
	byUID := make(map[string]config.SUT, len(all))
	for _, s := range all {
		byUID[s.UID] = s
	}
	var filtered []config.SUT
	for _, uid := range uids {
		s, ok := byUID[uid]
		if !ok {
			return nil, fmt.Errorf("SUT %q not in config", uid)
		}
		filtered = append(filtered, s)
	}
	return filtered, nil
}
