package knowledge

import (
	"context"
	"testing"
)

func TestSeedRepliesAreExact(t *testing.T) {
	base := NewMemoryBase(Seed("Cody")...)
	ctx := context.Background()

	want := map[string]string{
		"hello": "Hello! How can I help you today?",
		"name":  "My name is Cody. What's yours?",
		"time":  "I don't have access to real-time information, but it's a great time to code!",
		"help":  "I can help you with questions about my name, the weather, and general greetings.",
	}
	for key, reply := range want {
		got, ok, err := base.Lookup(ctx, key)
		if err != nil {
			t.Fatalf("Lookup(%q) error: %v", key, err)
		}
		if !ok {
			t.Fatalf("Lookup(%q) missed", key)
		}
		if got != reply {
			t.Fatalf("Lookup(%q) = %q, want %q", key, got, reply)
		}
	}
}

func TestSeedStaticCarriesWeatherReply(t *testing.T) {
	base := NewMemoryBase(SeedStatic("Cody")...)

	got, ok, err := base.Lookup(context.Background(), "weather")
	if err != nil || !ok {
		t.Fatalf("Lookup(weather) = %v, %v, %v", got, ok, err)
	}
	want := "I can't check the current weather, but I can tell you it's always sunny in my code!"
	if got != want {
		t.Fatalf("static weather reply = %q, want %q", got, want)
	}
}

func TestLookupUnknownKeyMisses(t *testing.T) {
	base := NewMemoryBase(Seed("Cody")...)

	_, ok, err := base.Lookup(context.Background(), "what's the capital of france?")
	if err != nil {
		t.Fatalf("Lookup error: %v", err)
	}
	if ok {
		t.Fatal("expected a miss for an unseeded key")
	}
}

func TestNormalize(t *testing.T) {
	cases := []struct {
		in   string
		want string
	}{
		{"Hello", "hello"},
		{"  What's the WEATHER like?  ", "what's the weather like?"},
		{"", ""},
		{"help", "help"},
	}
	for _, tc := range cases {
		if got := Normalize(tc.in); got != tc.want {
			t.Errorf("Normalize(%q) = %q, want %q", tc.in, got, tc.want)
		}
	}
}

func TestKeysPreserveInsertionOrder(t *testing.T) {
	base := NewMemoryBase(Seed("Cody")...)
	ctx := context.Background()
	if err := base.Set(ctx, "bye", "Goodbye!"); err != nil {
		t.Fatalf("Set: %v", err)
	}

	keys, err := base.Keys(ctx)
	if err != nil {
		t.Fatalf("Keys: %v", err)
	}
	want := []string{"hello", "name", "time", "help", "bye"}
	if len(keys) != len(want) {
		t.Fatalf("Keys = %v, want %v", keys, want)
	}
	for i := range want {
		if keys[i] != want[i] {
			t.Fatalf("Keys[%d] = %q, want %q", i, keys[i], want[i])
		}
	}
}

func TestSetReplacesWithoutReordering(t *testing.T) {
	base := NewMemoryBase(Seed("Cody")...)
	ctx := context.Background()

	if err := base.Set(ctx, "hello", "Hi there!"); err != nil {
		t.Fatalf("Set: %v", err)
	}
	got, ok, _ := base.Lookup(ctx, "hello")
	if !ok || got != "Hi there!" {
		t.Fatalf("Lookup after replace = %q, %v", got, ok)
	}
	n, _ := base.Len(ctx)
	if n != 4 {
		t.Fatalf("Len after replace = %d, want 4", n)
	}
}

func TestSetRejectsEmptyKey(t *testing.T) {
	base := NewMemoryBase()
	if err := base.Set(context.Background(), "", "nope"); err == nil {
		t.Fatal("expected an error for an empty key")
	}
}
