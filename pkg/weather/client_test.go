package weather

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/jllopis/agora/pkg/errors"
)

const wttrPayload = `{
  "current_condition": [
    {
      "temp_C": "28",
      "weatherDesc": [{"value": "Partly cloudy"}]
    }
  ]
}`

func TestClientCurrent(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/Bangalore" {
			t.Errorf("path = %q, want /Bangalore", r.URL.Path)
		}
		if r.URL.Query().Get("format") != "j1" {
			t.Errorf("format = %q, want j1", r.URL.Query().Get("format"))
		}
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(wttrPayload))
	}))
	defer srv.Close()

	client := NewClient(srv.URL, 0)
	obs, err := client.Current(context.Background(), "Bangalore")
	if err != nil {
		t.Fatalf("Current: %v", err)
	}
	if obs.City != "Bangalore" || obs.TempC != 28 || obs.Description != "Partly cloudy" {
		t.Fatalf("obs = %+v", obs)
	}
	if obs.ObservedAt.IsZero() {
		t.Fatal("ObservedAt not set")
	}
}

func TestClientCurrentServerError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "boom", http.StatusBadGateway)
	}))
	defer srv.Close()

	client := NewClient(srv.URL, 0)
	_, err := client.Current(context.Background(), "Bangalore")
	if err == nil {
		t.Fatal("expected an error")
	}

	ae, ok := err.(*errors.AgoraError)
	if !ok {
		t.Fatalf("error type = %T", err)
	}
	if ae.Code != errors.CodeWeatherUpstream {
		t.Fatalf("code = %s", ae.Code)
	}
	if !ae.Recoverable {
		t.Fatal("5xx responses should be recoverable")
	}
}

func TestClientCurrentClientErrorNotRecoverable(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "unknown location", http.StatusNotFound)
	}))
	defer srv.Close()

	client := NewClient(srv.URL, 0)
	_, err := client.Current(context.Background(), "Nowhereville")
	ae, ok := err.(*errors.AgoraError)
	if !ok {
		t.Fatalf("error = %v", err)
	}
	if ae.Recoverable {
		t.Fatal("4xx responses should not be retried")
	}
}

func TestClientCurrentMalformedPayload(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`{"current_condition":[{"temp_C":"warm"}]}`))
	}))
	defer srv.Close()

	client := NewClient(srv.URL, 0)
	if _, err := client.Current(context.Background(), "Bangalore"); err == nil {
		t.Fatal("expected an error for a non-numeric temperature")
	}
}

func TestClientCurrentEmptyCondition(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`{"current_condition":[]}`))
	}))
	defer srv.Close()

	client := NewClient(srv.URL, 0)
	if _, err := client.Current(context.Background(), "Bangalore"); err == nil {
		t.Fatal("expected an error for an empty condition list")
	}
}

func TestClientEscapesCityInPath(t *testing.T) {
	var gotPath string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotPath = r.URL.EscapedPath()
		_, _ = w.Write([]byte(wttrPayload))
	}))
	defer srv.Close()

	client := NewClient(srv.URL, 0)
	if _, err := client.Current(context.Background(), "New York"); err != nil {
		t.Fatalf("Current: %v", err)
	}
	if gotPath != "/New%20York" {
		t.Fatalf("path = %q", gotPath)
	}
}
