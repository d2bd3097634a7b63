package pipeline

import (
	"github.com/signalnine/promptdome/internal/sut"
)

// PromptRecord is one row read from the prompt source. Immutable once read.
// Extra holds pass-through columns; column ordering is owned by the output
// writer, which saw the input header.
type PromptRecord struct {
	UID   string
	Text  string
	Extra map[string]string
}

// WorkItem is one (prompt, SUT) pairing awaiting evaluation. A run with P
// prompts and S SUTs produces exactly P×S of these.
type WorkItem struct {
	Prompt PromptRecord
	SUTID  string
}

// ResultItem is the outcome of driving the three-phase protocol for one
// work item. Err != nil means the item failed; the run continues either way.
type ResultItem struct {
	Prompt     PromptRecord
	SUTID      string
	Completion sut.Completion
	Err        error
}

// Failed reports whether this item produced an error outcome.
func (r ResultItem) Failed() bool {
	return r.Err != nil
}

// Source produces a lazy, finite, forward-only sequence of prompt records.
// Next returns io.EOF when the stream ends; any other error is structural
// and fatal to the run.
type Source interface {
	Next() (PromptRecord, error)
}

// RowWriter receives one completed output row per prompt, in completion
// order. results holds exactly one entry per configured SUT. Called from a
// single goroutine.
type RowWriter interface {
	WriteRow(prompt PromptRecord, results map[string]ResultItem) error
}
