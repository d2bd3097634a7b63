package suts

import (
	"context"
	"fmt"

	openai "github.com/sashabaranov/go-openai"

	"github.com/signalnine/promptdome/internal/sut"
)

// OpenAI talks to a chat-completions endpoint. A base URL override makes it
// work against any OpenAI-compatible provider (Together, vLLM, llama.cpp
// server), which is how most local models are exposed.
type OpenAI struct {
	uid    string
	client *openai.Client
	model  string
	opts   sut.Options
}

func NewOpenAI(uid, model, baseURL, apiKey string, opts sut.Options) *OpenAI {
	cfg := openai.DefaultConfig(apiKey)
	if baseURL != "" {
		cfg.BaseURL = baseURL
	}
	return &OpenAI{
		uid:    uid,
		client: openai.NewClientWithConfig(cfg),
		model:  model,
		opts:   opts,
	}
}

func (o *OpenAI) UID() string { return o.uid }

func (o *OpenAI) Translate(p sut.Prompt) (sut.Request, error) {
	opts := mergeOptions(o.opts, p.Options)
	req := openai.ChatCompletionRequest{
		Model: o.model,
		Messages: []openai.ChatCompletionMessage{
			{Role: openai.ChatMessageRoleUser, Content: p.Text},
		},
	}
	if opts.MaxTokens > 0 {
		req.MaxCompletionTokens = opts.MaxTokens
	}
	if opts.Temperature > 0 {
		req.Temperature = opts.Temperature
	}
	if opts.TopP > 0 {
		req.TopP = opts.TopP
	}
	if len(opts.StopSequences) > 0 {
		req.Stop = opts.StopSequences
	}
	return req, nil
}

func (o *OpenAI) Evaluate(ctx context.Context, req sut.Request) (sut.Response, error) {
	r, ok := req.(openai.ChatCompletionRequest)
	if !ok {
		return nil, fmt.Errorf("unexpected request type %T", req)
	}
	resp, err := o.client.CreateChatCompletion(ctx, r)
	if err != nil {
		return nil, fmt.Errorf("chat completion: %w", err)
	}
	return resp, nil
}

func (o *OpenAI) TranslateBack(req sut.Request, resp sut.Response) (sut.Completion, error) {
	r, ok := resp.(openai.ChatCompletionResponse)
	if !ok {
		return sut.Completion{}, fmt.Errorf("unexpected response type %T", resp)
	}
	if len(r.Choices) == 0 {
		return sut.Completion{}, fmt.Errorf("response has no choices")
	}
	return sut.Completion{Text: r.Choices[0].Message.Content}, nil
}

// mergeOptions lets per-prompt options override the SUT's configured
// defaults field by field.
func mergeOptions(base, override sut.Options) sut.Options {
	out := base
	if override.MaxTokens > 0 {
		out.MaxTokens = override.MaxTokens
	}
	if override.Temperature > 0 {
		out.Temperature = override.Temperature
	}
	if override.TopP > 0 {
		out.TopP = override.TopP
	}
	if len(override.StopSequences) > 0 {
		out.StopSequences = override.StopSequences
	}
	return out
}
