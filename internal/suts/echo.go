// Package suts holds the concrete SUT adapters and the config-driven
// factory that builds a registry out of them. Each adapter is a thin
// translation shim; all pipeline behavior lives elsewhere.
package suts

import (
	"context"
	"strings"

	"github.com/signalnine/promptdome/internal/sut"
)

// Echo is the in-process stub SUT: it answers with the prompt text itself,
// optionally uppercased, or with a fixed reply. Used for dry runs and tests.
type Echo struct {
	uid       string
	uppercase bool
	reply     string
}

type echoRequest struct {
	Text string
}

type echoResponse struct {
	Text string
}

func NewEcho(uid string, uppercase bool, reply string) *Echo {
	return &Echo{uid: uid, uppercase: uppercase, reply: reply}
}

func (e *Echo) UID() string { return e.uid }

func (e *Echo) Translate(p sut.Prompt) (sut.Request, error) {
	return echoRequest{Text: p.Text}, nil
}

func (e *Echo) Evaluate(ctx context.Context, req sut.Request) (sut.Response, error) {
	r := req.(echoRequest)
	text := r.Text
	if e.reply != "" {
		text = e.reply
	} else if e.uppercase {
		text = strings.ToUpper(text)
	}
	return echoResponse{Text: text}, nil
}

func (e *Echo) TranslateBack(req sut.Request, resp sut.Response) (sut.Completion, error) {
	return sut.Completion{Text: resp.(echoResponse).Text}, nil
}
