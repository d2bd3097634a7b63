package sut_test

import (
	"context"
	"testing"

	"github.com/signalnine/promptdome/internal/sut"
)

type fakeSUT struct{ uid string }

func (f fakeSUT) UID() string                                 { return f.uid }
func (f fakeSUT) Translate(p sut.Prompt) (sut.Request, error) { return p.Text, nil }
func (f fakeSUT) Evaluate(ctx context.Context, req sut.Request) (sut.Response, error) {
	return req, nil
}
func (f fakeSUT) TranslateBack(req sut.Request, resp sut.Response) (sut.Completion, error) {
	return sut.Completion{}, nil
}

func TestRegistryOrder(t *testing.T) {
	r, err := sut.NewRegistry(fakeSUT{"c"}, fakeSUT{"a"}, fakeSUT{"b"})
	if err != nil {
		t.Fatalf("NewRegistry: %v", err)
	}
	want := []string{"c", "a", "b"}
	got := r.UIDs()
	if len(got) != len(want) {
		t.Fatalf("UIDs: got %v, want %v", got, want)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Errorf("UIDs[%d]: got %q, want %q", i, got[i], want[i])
		}
	}
	if r.Len() != 3 {
		t.Errorf("Len: got %d, want 3", r.Len())
	}
	if _, ok := r.Get("a"); !ok {
		t.Error("Get(a) should succeed")
	}
	if _, ok := r.Get("zzz"); ok {
		t.Error("Get(zzz) should fail")
	}
}

func TestRegistryErrors(t *testing.T) {
	tests := []struct {
		name string
		suts []sut.SUT
	}{
		{"empty", nil},
		{"duplicate uid", []sut.SUT{fakeSUT{"a"}, fakeSUT{"a"}}},
		{"empty uid", []sut.SUT{fakeSUT{""}}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if _, err := sut.NewRegistry(tt.suts...); err == nil {
				t.Error("expected error")
			}
		})
	}
}
