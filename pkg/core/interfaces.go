package core

import "context"

// Agent is the minimal conversational unit of the runtime.
type Agent interface {
	Name() string
	Role() string

	// Act performs the agent's action for a prompt and returns the
	// response text. An empty prompt triggers the generic action.
	Act(ctx context.Context, prompt string) (string, error)

	// Deliver appends the message content to the agent's mailbox.
	Deliver(ctx context.Context, msg Message) error

	// Inbox returns the received message contents in delivery order.
	Inbox(ctx context.Context) ([]string, error)
}

// Responder produces a reply for a prompt. Agents that delegate their
// behavior (assistant, graph) compose one in.
type Responder interface {
	Respond(ctx context.Context, prompt string) (string, error)
}

// ResponderFunc adapts a function to the Responder interface.
type ResponderFunc func(ctx context.Context, prompt string) (string, error)

// Respond implements Responder.
func (f ResponderFunc) Respond(ctx context.Context, prompt string) (string, error) {
	return f(ctx, prompt)
}
