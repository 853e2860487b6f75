package agent

import (
	"context"
	"fmt"
	"testing"

	"github.com/jllopis/agora/pkg/core"
	"github.com/jllopis/agora/pkg/testkit"
	"github.com/jllopis/agora/pkg/transcript"
)

func TestActWithPrompt(t *testing.T) {
	bob, err := New("Bob", WithRole("analyst"))
	if err != nil {
		t.Fatalf("New: %v", err)
	}

	got, err := bob.Act(context.Background(), "Begin report preparation.")
	if err != nil {
		t.Fatalf("Act: %v", err)
	}
	want := "Agent Bob (analyst) is acting on prompt: 'Begin report preparation.'."
	if got != want {
		t.Fatalf("Act = %q, want %q", got, want)
	}
}

func TestActWithoutPrompt(t *testing.T) {
	alice, err := New("Alice", WithRole("coordinator"))
	if err != nil {
		t.Fatalf("New: %v", err)
	}

	got, err := alice.Act(context.Background(), "")
	if err != nil {
		t.Fatalf("Act: %v", err)
	}
	want := "Agent Alice (coordinator) is performing a generic action."
	if got != want {
		t.Fatalf("Act = %q, want %q", got, want)
	}
}

func TestSendAppendsToRecipientInbox(t *testing.T) {
	alice, _ := New("Alice", WithRole("coordinator"))
	bob, _ := New("Bob", WithRole("analyst"))
	ctx := context.Background()

	if err := alice.Send(ctx, bob, "Please prepare the weekly report."); err != nil {
		t.Fatalf("Send: %v", err)
	}

	inbox, err := bob.Inbox(ctx)
	if err != nil {
		t.Fatalf("Inbox: %v", err)
	}
	if len(inbox) != 1 || inbox[0] != "Please prepare the weekly report." {
		t.Fatalf("inbox = %v", inbox)
	}

	// Sender's own inbox stays empty.
	sent, err := alice.Inbox(ctx)
	if err != nil {
		t.Fatalf("Inbox: %v", err)
	}
	if len(sent) != 0 {
		t.Fatalf("sender inbox = %v", sent)
	}
}

func TestSendPreservesDuplicates(t *testing.T) {
	alice, _ := New("Alice")
	bob, _ := New("Bob")
	ctx := context.Background()

	for i := 0; i < 2; i++ {
		if err := alice.Send(ctx, bob, "ping"); err != nil {
			t.Fatalf("Send: %v", err)
		}
	}

	inbox, _ := bob.Inbox(ctx)
	if len(inbox) != 2 {
		t.Fatalf("inbox = %v, want two entries", inbox)
	}
}

func TestActDelegatesToResponder(t *testing.T) {
	responder := testkit.NewScriptedResponder().AddReply("echo: hello")
	cody, err := New("Cody", WithRole("assistant"), WithResponder("knowledge", responder))
	if err != nil {
		t.Fatalf("New: %v", err)
	}

	got, err := cody.Act(context.Background(), "hello")
	if err != nil {
		t.Fatalf("Act: %v", err)
	}
	if got != "echo: hello" {
		t.Fatalf("Act = %q", got)
	}
	if prompts := responder.Prompts(); len(prompts) != 1 || prompts[0] != "hello" {
		t.Fatalf("prompts = %v", prompts)
	}
}

func TestActPropagatesResponderError(t *testing.T) {
	responder := testkit.NewScriptedResponder().AddError(fmt.Errorf("upstream broken"))
	cody, _ := New("Cody", WithResponder("knowledge", responder))

	if _, err := cody.Act(context.Background(), "hello"); err == nil {
		t.Fatal("expected the responder error to propagate")
	}
}

func TestActRecordsTranscript(t *testing.T) {
	rec := transcript.NewMemory()
	bob, _ := New("Bob", WithRole("analyst"), WithTranscript(rec))
	ctx := context.Background()

	if _, err := bob.Act(ctx, "Begin report preparation."); err != nil {
		t.Fatalf("Act: %v", err)
	}

	entries, err := rec.List(ctx, transcript.Filter{Agent: "Bob"})
	if err != nil {
		t.Fatalf("List: %v", err)
	}
	if len(entries) != 1 {
		t.Fatalf("transcript = %+v", entries)
	}
	entry := entries[0]
	if entry.Kind != "canned" || entry.Prompt != "Begin report preparation." {
		t.Fatalf("entry = %+v", entry)
	}
	if entry.RunID == "" {
		t.Fatal("RunID not assigned")
	}
}

func TestActEmitsEvents(t *testing.T) {
	collector := testkit.NewEventCollector()
	bob, _ := New("Bob", WithEmitter(collector))

	if _, err := bob.Act(context.Background(), "hi"); err != nil {
		t.Fatalf("Act: %v", err)
	}

	events := collector.Events()
	if len(events) != 2 {
		t.Fatalf("events = %d, want acting + responded", len(events))
	}
	if events[0].Type != core.EventAgentActing || events[1].Type != core.EventAgentResponded {
		t.Fatalf("event types = %s, %s", events[0].Type, events[1].Type)
	}
	if got := collector.ByType(core.EventAgentActing); len(got) != 1 {
		t.Fatalf("acting events = %d, want 1", len(got))
	}
}

func TestNewRequiresName(t *testing.T) {
	if _, err := New(""); err == nil {
		t.Fatal("expected an error for an empty name")
	}
}

func TestSendNilRecipient(t *testing.T) {
	alice, _ := New("Alice")
	if err := alice.Send(context.Background(), nil, "hi"); err == nil {
		t.Fatal("expected an error for a nil recipient")
	}
}
