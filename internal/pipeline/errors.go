package pipeline

import (
	"fmt"
	"strings"
)

// DuplicateResultError indicates two results arrived for the same
// (prompt, SUT) pair. That can only happen through a pipeline bug, so it is
// fatal rather than silently overwritten.
type DuplicateResultError struct {
	PromptUID string
	SUTID     string
}

func (e *DuplicateResultError) Error() string {
	return fmt.Sprintf("duplicate result for prompt %q from SUT %q", e.PromptUID, e.SUTID)
}

// IncompleteEntryError indicates the result stream ended while a prompt was
// still missing results from one or more SUTs, i.e. a work item was lost.
type IncompleteEntryError struct {
	PromptUID string
	Missing   []string
}

func (e *IncompleteEntryError) Error() string {
	return fmt.Sprintf("prompt %q never completed: missing results from %s",
		e.PromptUID, strings.Join(e.Missing, ", "))
}
