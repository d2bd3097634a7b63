package pipeline

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/signalnine/promptdome/internal/sut"
)

// workerLoop pulls work items until the channel closes. Any error it
// returns is fatal to the run; per-item SUT failures never reach here,
// they are folded into the result by evalItem.
func (p *Pipeline) workerLoop(ctx context.Context, id int, in <-chan WorkItem, out chan<- ResultItem, log *slog.Logger) error {
	for {
		var item WorkItem
		var ok bool
		select {
		case item, ok = <-in:
			if !ok {
				return nil
			}
		case <-ctx.Done():
			return ctx.Err()
		}
		log.Debug("work item dequeued", "worker", id, "uid", item.Prompt.UID, "sut", item.SUTID)
		res := p.evalItem(ctx, item)
		log.Debug("work item evaluated", "worker", id, "uid", item.Prompt.UID, "sut", item.SUTID, "failed", res.Failed())
		select {
		case out <- res:
		case <-ctx.Done():
			return ctx.Err()
		}
	}
}

// evalItem drives the three-phase protocol for one work item. Every failure
// mode, including a panic inside the SUT, becomes an error outcome on the
// result so one bad call cannot poison the rest of the run.
func (p *Pipeline) evalItem(ctx context.Context, item WorkItem) (res ResultItem) {
	res = ResultItem{Prompt: item.Prompt, SUTID: item.SUTID}
	defer func() {
		if r := recover(); r != nil {
			res.Err = fmt.Errorf("panic in SUT %q: %v", item.SUTID, r)
		}
	}()

	s, ok := p.suts.Get(item.SUTID)
	if !ok {
		res.Err = fmt.Errorf("SUT %q not in registry", item.SUTID)
		return res
	}

	req, err := s.Translate(sut.Prompt{Text: item.Prompt.Text})
	if err != nil {
		res.Err = fmt.Errorf("translate: %w", err)
		return res
	}
	resp, err := s.Evaluate(ctx, req)
	if err != nil {
		res.Err = fmt.Errorf("evaluate: %w", err)
		return res
	}
	comp, err := s.TranslateBack(req, resp)
	if err != nil {
		res.Err = fmt.Errorf("translate back: %w", err)
		return res
	}
	res.Completion = comp
	return res
}
