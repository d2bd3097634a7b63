package pipeline

import (
	"context"
	"fmt"
	"log/slog"
)

// entry accumulates per-SUT results for one prompt. Owned exclusively by
// the sink goroutine.
type entry struct {
	prompt  PromptRecord
	results map[string]ResultItem
}

// sinkLoop consumes results, closes each prompt's entry once every SUT has
// reported, and writes the output row. A duplicate (prompt, SUT) result or
// an entry left open at end of stream is an invariant breach and fatal.
func (p *Pipeline) sinkLoop(ctx context.Context, in <-chan ResultItem, log *slog.Logger) error {
	entries := make(map[string]*entry)
	want := p.suts.Len()
	completed := 0

	for {
		var res ResultItem
		var ok bool
		select {
		case res, ok = <-in:
			if !ok {
				return p.checkDrained(entries)
			}
		case <-ctx.Done():
			return ctx.Err()
		}

		e := entries[res.Prompt.UID]
		if e == nil {
			e = &entry{prompt: res.Prompt, results: make(map[string]ResultItem, want)}
			entries[res.Prompt.UID] = e
		}
		if _, dup := e.results[res.SUTID]; dup {
			return &DuplicateResultError{PromptUID: res.Prompt.UID, SUTID: res.SUTID}
		}
		e.results[res.SUTID] = res
		log.Debug("result recorded", "uid", res.Prompt.UID, "sut", res.SUTID, "have", len(e.results), "want", want)

		completed++
		if p.opts.Progress != nil {
			p.opts.Progress(completed)
		}

		if len(e.results) == want {
			if err := p.writer.WriteRow(e.prompt, e.results); err != nil {
				return fmt.Errorf("writing row for prompt %q: %w", res.Prompt.UID, err)
			}
			delete(entries, res.Prompt.UID)
			log.Debug("row emitted", "uid", res.Prompt.UID)
		}
	}
}

func (p *Pipeline) checkDrained(entries map[string]*entry) error {
	for uid, e := range entries {
		var missing []string
		for _, sutID := range p.suts.UIDs() {
			if _, ok := e.results[sutID]; !ok {
				missing = append(missing, sutID)
			}
		}
		return &IncompleteEntryError{PromptUID: uid, Missing: missing}
	}
	return nil
}
