package suts

import (
	"context"
	"fmt"
	"time"

	"github.com/signalnine/promptdome/internal/cache"
	"github.com/signalnine/promptdome/internal/config"
	"github.com/signalnine/promptdome/internal/secrets"
	"github.com/signalnine/promptdome/internal/sut"
)

// Build constructs every configured SUT and returns them as a registry in
// config order. cacheSize > 0 wraps each SUT in a response cache. The
// pipeline itself never sees this; it takes the finished registry.
func Build(ctx context.Context, cfgs []config.SUT, sec *secrets.Store, cacheSize int) (*sut.Registry, error) {
	list := make([]sut.SUT, 0, len(cfgs))
	for i := range cfgs {
		s, err := build(ctx, &cfgs[i], sec)
		if err != nil {
			return nil, fmt.Errorf("building SUT %q: %w", cfgs[i].UID, err)
		}
		if cacheSize > 0 {
			s, err = cache.Wrap(s, cacheSize)
			if err != nil {
				return nil, fmt.Errorf("caching SUT %q: %w", cfgs[i].UID, err)
			}
		}
		list = append(list, s)
	}
	return sut.NewRegistry(list...)
}

func build(ctx context.Context, c *config.SUT, sec *secrets.Store) (sut.SUT, error) {
	opts := sut.Options{
		MaxTokens:     c.Options.MaxTokens,
		Temperature:   c.Options.Temperature,
		TopP:          c.Options.TopP,
		StopSequences: c.Options.StopSequences,
	}
	switch c.Type {
	case "echo":
		return NewEcho(c.UID, c.Uppercase, c.Reply), nil
	case "openai":
		key, ok := sec.Lookup(c.APIKeyEnv)
		if !ok {
			return nil, fmt.Errorf("secret %s not set", c.APIKeyEnv)
		}
		return NewOpenAI(c.UID, c.Model, c.BaseURL, key, opts), nil
	case "gemini":
		key, ok := sec.Lookup(c.APIKeyEnv)
		if !ok {
			return nil, fmt.Errorf("secret %s not set", c.APIKeyEnv)
		}
		return NewGemini(ctx, c.UID, c.Model, key, opts)
	case "docker":
		return NewDocker(c.UID, c.Image, c.Command, time.Duration(c.TimeoutMinutes)*time.Minute)
	default:
		return nil, fmt.Errorf("unknown type %q", c.Type)
	}
}
