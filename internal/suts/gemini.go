package suts

import (
	"context"
	"fmt"

	genai "google.golang.org/genai"

	"github.com/signalnine/promptdome/internal/sut"
)

// Gemini uses the official genai client against the Gemini API backend.
type Gemini struct {
	uid   string
	cli   *genai.Client
	model string
	opts  sut.Options
}

type geminiRequest struct {
	Contents []*genai.Content
	Config   *genai.GenerateContentConfig
}

func NewGemini(ctx context.Context, uid, model, apiKey string, opts sut.Options) (*Gemini, error) {
	cli, err := genai.NewClient(ctx, &genai.ClientConfig{
		APIKey:  apiKey,
		Backend: genai.BackendGeminiAPI,
	})
	if err != nil {
		return nil, fmt.Errorf("creating gemini client: %w", err)
	}
	return &Gemini{uid: uid, cli: cli, model: model, opts: opts}, nil
}

func (g *Gemini) UID() string { return g.uid }

func (g *Gemini) Translate(p sut.Prompt) (sut.Request, error) {
	opts := mergeOptions(g.opts, p.Options)
	cfg := &genai.GenerateContentConfig{}
	if opts.MaxTokens > 0 {
		cfg.MaxOutputTokens = int32(opts.MaxTokens)
	}
	if opts.Temperature > 0 {
		cfg.Temperature = genai.Ptr(opts.Temperature)
	}
	if opts.TopP > 0 {
		cfg.TopP = genai.Ptr(opts.TopP)
	}
	if len(opts.StopSequences) > 0 {
		cfg.StopSequences = opts.StopSequences
	}
	return &geminiRequest{
		Contents: []*genai.Content{{Parts: []*genai.Part{{Text: p.Text}}}},
		Config:   cfg,
	}, nil
}

func (g *Gemini) Evaluate(ctx context.Context, req sut.Request) (sut.Response, error) {
	r, ok := req.(*geminiRequest)
	if !ok {
		return nil, fmt.Errorf("unexpected request type %T", req)
	}
	resp, err := g.cli.Models.GenerateContent(ctx, g.model, r.Contents, r.Config)
	if err != nil {
		return nil, fmt.Errorf("generate content: %w", err)
	}
	return resp, nil
}

func (g *Gemini) TranslateBack(req sut.Request, resp sut.Response) (sut.Completion, error) {
	r, ok := resp.(*genai.GenerateContentResponse)
	if !ok {
		return sut.Completion{}, fmt.Errorf("unexpected response type %T", resp)
	}
	if len(r.Candidates) == 0 || r.Candidates[0].Content == nil || len(r.Candidates[0].Content.Parts) == 0 {
		return sut.Completion{}, fmt.Errorf("response has no candidates")
	}
	return sut.Completion{Text: r.Candidates[0].Content.Parts[0].Text}, nil
}
