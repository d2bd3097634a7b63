// Package cache wraps a SUT with an in-memory LRU over its Evaluate phase,
// so re-running a prompt file after a partial failure doesn't re-pay for
// calls that already succeeded. Failures are never cached.
package cache

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"

	lru "github.com/hashicorp/golang-lru/v2"

	"github.com/signalnine/promptdome/internal/sut"
)

type SUT struct {
	inner sut.SUT
	lru   *lru.Cache[string, sut.Response]
}

// Wrap returns a caching decorator around inner. size is the max number of
// cached responses.
func Wrap(inner sut.SUT, size int) (*SUT, error) {
	c, err := lru.New[string, sut.Response](size)
	if err != nil {
		return nil, err
	}
	return &SUT{inner: inner, lru: c}, nil
}

func (s *SUT) UID() string { return s.inner.UID() }

func (s *SUT) Translate(p sut.Prompt) (sut.Request, error) {
	return s.inner.Translate(p)
}

func (s *SUT) Evaluate(ctx context.Context, req sut.Request) (sut.Response, error) {
	key, ok := keyFor(req)
	if !ok {
		// unencodable request; skip caching rather than fail the item
		return s.inner.Evaluate(ctx, req)
	}
	if resp, hit := s.lru.Get(key); hit {
		return resp, nil
	}
	resp, err := s.inner.Evaluate(ctx, req)
	if err != nil {
		return nil, err
	}
	s.lru.Add(key, resp)
	return resp, nil
}

func (s *SUT) TranslateBack(req sut.Request, resp sut.Response) (sut.Completion, error) {
	return s.inner.TranslateBack(req, resp)
}

func keyFor(req sut.Request) (string, bool) {
	data, err := json.Marshal(req)
	if err != nil {
		return "", false
	}
	sum := sha256.Sum256(data)
	return hex.EncodeToString(sum[:]), true
}
