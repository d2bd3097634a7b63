package sut

import "context"

// Request is a SUT's native request type, produced by Translate and passed
// back unmodified to Evaluate and TranslateBack.
type Request any

// Response is a SUT's native response type.
type Response any

// Prompt is one piece of text to evaluate, plus generation options.
type Prompt struct {
	Text    string
	Options Options
}

// Options are generation parameters passed through to the provider.
// Zero values mean "provider default".
type Options struct {
	MaxTokens     int
	Temperature   float32
	TopP          float32
	StopSequences []string
}

// Completion is the normalized result of one evaluation.
type Completion struct {
	Text string
}

// SUT is a system under test: anything that can turn a prompt into a native
// request, execute it, and normalize the response.
//
// Translate and TranslateBack must be pure and non-blocking; Evaluate is the
// slow step and may fail. Implementations must be safe for concurrent
// Evaluate calls; the pipeline runs many at once.
type SUT interface {
	UID() string
	Translate(p Prompt) (Request, error)
	Evaluate(ctx context.Context, req Request) (Response, error)
	TranslateBack(req Request, resp Response) (Completion, error)
}
