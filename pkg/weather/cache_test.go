package weather

import (
	"path/filepath"
	"testing"
	"time"
)

func TestCachePutGet(t *testing.T) {
	cache, err := OpenCache(filepath.Join(t.TempDir(), "weather.db"))
	if err != nil {
		t.Fatalf("OpenCache: %v", err)
	}
	defer cache.Close()

	obs := Observation{City: "Bangalore", TempC: 28, Description: "Partly cloudy", ObservedAt: time.Now().UTC()}
	if err := cache.Put("Bangalore", obs); err != nil {
		t.Fatalf("Put: %v", err)
	}

	got, at, found, err := cache.Get("Bangalore")
	if err != nil {
		t.Fatalf("Get: %v", err)
	}
	if !found {
		t.Fatal("observation not found")
	}
	if got.TempC != 28 || got.Description != "Partly cloudy" {
		t.Fatalf("got = %+v", got)
	}
	if at.IsZero() {
		t.Fatal("CachedAt not set")
	}
}

func TestCacheGetMissing(t *testing.T) {
	cache, err := OpenCache(filepath.Join(t.TempDir(), "weather.db"))
	if err != nil {
		t.Fatalf("OpenCache: %v", err)
	}
	defer cache.Close()

	if _, _, found, err := cache.Get("Nowhereville"); err != nil || found {
		t.Fatalf("Get = found=%v err=%v, want miss", found, err)
	}
}

func TestCacheKeyNormalization(t *testing.T) {
	cache, err := OpenCache(filepath.Join(t.TempDir(), "weather.db"))
	if err != nil {
		t.Fatalf("OpenCache: %v", err)
	}
	defer cache.Close()

	if err := cache.Put("Bangalore", Observation{City: "Bangalore", TempC: 30}); err != nil {
		t.Fatalf("Put: %v", err)
	}

	got, _, found, err := cache.Get("  BANGALORE ")
	if err != nil || !found {
		t.Fatalf("Get = found=%v err=%v", found, err)
	}
	if got.TempC != 30 {
		t.Fatalf("got = %+v", got)
	}
}

func TestCachePutOverwrites(t *testing.T) {
	cache, err := OpenCache(filepath.Join(t.TempDir(), "weather.db"))
	if err != nil {
		t.Fatalf("OpenCache: %v", err)
	}
	defer cache.Close()

	if err := cache.Put("Bangalore", Observation{TempC: 20}); err != nil {
		t.Fatalf("Put: %v", err)
	}
	if err := cache.Put("Bangalore", Observation{TempC: 25}); err != nil {
		t.Fatalf("Put: %v", err)
	}

	got, _, _, err := cache.Get("Bangalore")
	if err != nil {
		t.Fatalf("Get: %v", err)
	}
	if got.TempC != 25 {
		t.Fatalf("TempC = %d, want the newer observation", got.TempC)
	}
}
