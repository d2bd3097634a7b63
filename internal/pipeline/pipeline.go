// Package pipeline drives prompt records through a set of SUTs: a source
// and an assigner feed a worker pool over bounded channels, and a single
// sink goroutine aggregates per-prompt results into output rows.
//
// Backpressure comes from the channel bounds: a slow worker pool blocks the
// assigner instead of buffering the whole input. No ordering is preserved
// between prompts; a row is emitted as soon as its last SUT reports.
package pipeline

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"sync"

	"golang.org/x/sync/errgroup"

	"github.com/signalnine/promptdome/internal/sut"
)

const (
	// DefaultWorkersPerSUT sizes the pool for I/O-bound evaluate calls:
	// throughput scales with outstanding requests, not cores.
	DefaultWorkersPerSUT = 10
	DefaultQueueDepth    = 32
)

type Options struct {
	// Workers is the evaluation pool size; 0 means DefaultWorkersPerSUT
	// times the SUT count.
	Workers int
	// QueueDepth bounds each inter-stage channel; 0 means DefaultQueueDepth.
	QueueDepth int
	// Progress, if set, is called with the running count of completed work
	// items. Invoked only from the sink goroutine, never concurrently.
	Progress func(completed int)
	// Logger receives per-item stage transitions at Debug level. Nil
	// discards everything.
	Logger *slog.Logger
}

type Pipeline struct {
	source Source
	suts   *sut.Registry
	writer RowWriter
	opts   Options
}

func New(source Source, suts *sut.Registry, writer RowWriter, opts Options) *Pipeline {
	return &Pipeline{source: source, suts: suts, writer: writer, opts: opts}
}

// Run executes the pipeline to completion. It returns once the source is
// exhausted, every work item has produced a result, and every prompt's row
// has been written, or with the first fatal error. Per-item SUT failures
// are not fatal; they surface as error outcomes in the output rows.
func (p *Pipeline) Run(ctx context.Context) error {
	workers := p.opts.Workers
	if workers < 1 {
		workers = DefaultWorkersPerSUT * p.suts.Len()
	}
	depth := p.opts.QueueDepth
	if depth < 1 {
		depth = DefaultQueueDepth
	}
	log := p.opts.Logger
	if log == nil {
		log = slog.New(slog.DiscardHandler)
	}

	g, ctx := errgroup.WithContext(ctx)

	prompts := make(chan PromptRecord, depth)
	items := make(chan WorkItem, depth)
	results := make(chan ResultItem, depth)

	g.Go(func() error {
		defer close(prompts)
		return p.readPrompts(ctx, prompts, log)
	})
	g.Go(func() error {
		defer close(items)
		return p.assign(ctx, prompts, items, log)
	})

	// Workers are peers pulling from the shared item channel. The results
	// channel closes only after the last worker exits, which is what lets
	// the sink distinguish "stream done" from "stream stalled".
	var wg sync.WaitGroup
	for i := 0; i < workers; i++ {
		wg.Add(1)
		id := i
		g.Go(func() error {
			defer wg.Done()
			return p.workerLoop(ctx, id, items, results, log)
		})
	}
	g.Go(func() error {
		wg.Wait()
		close(results)
		return nil
	})

	g.Go(func() error {
		return p.sinkLoop(ctx, results, log)
	})

	return g.Wait()
}

func (p *Pipeline) readPrompts(ctx context.Context, out chan<- PromptRecord, log *slog.Logger) error {
	for {
		rec, err := p.source.Next()
		if errors.Is(err, io.EOF) {
			log.Debug("prompt source exhausted")
			return nil
		}
		if err != nil {
			return fmt.Errorf("prompt source: %w", err)
		}
		log.Debug("prompt read", "uid", rec.UID)
		select {
		case out <- rec:
		case <-ctx.Done():
			return ctx.Err()
		}
	}
}

// assign fans each prompt out into one work item per configured SUT.
func (p *Pipeline) assign(ctx context.Context, in <-chan PromptRecord, out chan<- WorkItem, log *slog.Logger) error {
	for {
		var rec PromptRecord
		var ok bool
		select {
		case rec, ok = <-in:
			if !ok {
				return nil
			}
		case <-ctx.Done():
			return ctx.Err()
		}
		for _, uid := range p.suts.UIDs() {
			log.Debug("work item queued", "uid", rec.UID, "sut", uid)
			select {
			case out <- WorkItem{Prompt: rec, SUTID: uid}:
			case <-ctx.Done():
				return ctx.Err()
			}
		}
	}
}
