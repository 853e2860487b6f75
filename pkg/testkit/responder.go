package testkit

import (
	"context"
	"sync"

	"github.com/jllopis/agora/pkg/core"
	"github.com/jllopis/agora/pkg/errors"
)

// ScriptedResponder is a core.Responder that plays back queued replies
// and captures the prompts it receives.
type ScriptedResponder struct {
	mu      sync.Mutex
	replies []scriptedReply
	index   int
	prompts []string
}

type scriptedReply struct {
	response string
	err      error
}

// NewScriptedResponder creates an empty scripted responder.
func NewScriptedResponder() *ScriptedResponder {
	return &ScriptedResponder{}
}

// AddReply queues a reply.
func (r *ScriptedResponder) AddReply(response string) *ScriptedResponder {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.replies = append(r.replies, scriptedReply{response: response})
	return r
}

// AddError queues an error reply.
func (r *ScriptedResponder) AddError(err error) *ScriptedResponder {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.replies = append(r.replies, scriptedReply{err: err})
	return r
}

// Respond returns the next queued reply. Running out of replies is an
// error; scripts should cover every prompt the test sends.
func (r *ScriptedResponder) Respond(_ context.Context, prompt string) (string, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	r.prompts = append(r.prompts, prompt)
	if r.index >= len(r.replies) {
		return "", errors.New(errors.CodeInternal, "scripted responder exhausted", nil).
			WithContext("prompt", prompt)
	}

	reply := r.replies[r.index]
	r.index++
	return reply.response, reply.err
}

// Prompts returns the prompts received so far.
func (r *ScriptedResponder) Prompts() []string {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]string, len(r.prompts))
	copy(out, r.prompts)
	return out
}

var _ core.Responder = (*ScriptedResponder)(nil)
