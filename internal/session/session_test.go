package session

import (
	"path/filepath"
	"strings"
	"testing"

	"github.com/desertthunder/ytmb/internal/store"
)

func newTestStore(t *testing.T) *store.CredentialStore {
	t.Helper()
	return store.New(filepath.Join(t.TempDir(), "headers.json"), nil)
}

func TestBuildHandle(t *testing.T) {
	t.Run("joins present keys in fixed order", func(t *testing.T) {
		doc := &store.Document{Headers: map[string]string{
			"cookie":        "c=1",
			"authorization": "SAPISIDHASH abc",
			"user-agent":    "Mozilla/5.0",
			"x-origin":      "https://music.youtube.com",
		}}

		handle, ok := BuildHandle(doc)
		if !ok {
			t.Fatal("expected handle to be derived")
		}

		want := strings.Join([]string{
			"authorization: SAPISIDHASH abc",
			"x-origin: https://music.youtube.com",
			"user-agent: Mozilla/5.0",
			"cookie: c=1",
		}, "\n")
		if handle != want {
			t.Errorf("handle order wrong:\ngot  %q\nwant %q", handle, want)
		}
	})

	t.Run("deterministic for the same document", func(t *testing.T) {
		doc := &store.Document{Headers: map[string]string{
			"authorization": "x",
			"cookie":        "y",
		}}

		first, _ := BuildHandle(doc)
		second, _ := BuildHandle(doc)
		if first != second {
			t.Error("expected identical handles for identical documents")
		}
	})

	t.Run("skips empty values", func(t *testing.T) {
		doc := &store.Document{Headers: map[string]string{
			"authorization": "",
			"cookie":        "c=1",
		}}

		handle, ok := BuildHandle(doc)
		if !ok {
			t.Fatal("expected handle to be derived")
		}
		if strings.Contains(handle, "authorization") {
			t.Error("expected empty authorization to be skipped")
		}
	})

	t.Run("absent when no usable keys", func(t *testing.T) {
		doc := &store.Document{Headers: map[string]string{
			"x-unrelated": "value",
		}}

		if _, ok := BuildHandle(doc); ok {
			t.Error("expected no handle without any required key")
		}
	})

	t.Run("absent for nil document", func(t *testing.T) {
		if _, ok := BuildHandle(nil); ok {
			t.Error("expected no handle for nil document")
		}
	})
}

func TestCache(t *testing.T) {
	t.Run("Handle", func(t *testing.T) {
		t.Run("derives after invalidation", func(t *testing.T) {
			s := newTestStore(t)
			cache := NewCache(s, nil)

			if _, ok := cache.Handle(); ok {
				t.Fatal("expected absent before any ingest")
			}

			doc := &store.Document{Headers: map[string]string{"authorization": "x"}}
			if err := s.Save(doc); err != nil {
				t.Fatalf("failed to save: %v", err)
			}
			cache.Invalidate()

			handle, ok := cache.Handle()
			if !ok {
				t.Fatal("expected handle after ingest + invalidation")
			}
			if handle != "authorization: x" {
				t.Errorf("unexpected handle %q", handle)
			}
		})

		t.Run("caches the absent outcome", func(t *testing.T) {
			s := newTestStore(t)
			cache := NewCache(s, nil)

			if _, ok := cache.Handle(); ok {
				t.Fatal("expected absent")
			}

			// Store mutated without invalidation: cache still serves absent.
			if err := s.Save(&store.Document{Headers: map[string]string{"cookie": "c"}}); err != nil {
				t.Fatalf("failed to save: %v", err)
			}
			if _, ok := cache.Handle(); ok {
				t.Error("expected stale absent outcome until invalidation")
			}

			cache.Invalidate()
			if _, ok := cache.Handle(); !ok {
				t.Error("expected handle after invalidation")
			}
		})

		t.Run("caches the present outcome", func(t *testing.T) {
			s := newTestStore(t)
			cache := NewCache(s, nil)

			if err := s.Save(&store.Document{Headers: map[string]string{"cookie": "old"}}); err != nil {
				t.Fatalf("failed to save: %v", err)
			}

			first, _ := cache.Handle()

			if err := s.Save(&store.Document{Headers: map[string]string{"cookie": "new"}}); err != nil {
				t.Fatalf("failed to save: %v", err)
			}

			if stale, _ := cache.Handle(); stale != first {
				t.Error("expected cached handle until invalidation")
			}

			cache.Invalidate()
			if fresh, _ := cache.Handle(); fresh == first {
				t.Error("expected re-derived handle after invalidation")
			}
		})

		t.Run("absent when document has no usable keys", func(t *testing.T) {
			s := newTestStore(t)
			if err := s.Save(&store.Document{Headers: map[string]string{"x-unrelated": "v"}}); err != nil {
				t.Fatalf("failed to save: %v", err)
			}

			cache := NewCache(s, nil)
			if _, ok := cache.Handle(); ok {
				t.Error("expected absent for unusable document")
			}
		})
	})

	t.Run("Invalidate is idempotent", func(t *testing.T) {
		s := newTestStore(t)
		if err := s.Save(&store.Document{Headers: map[string]string{"authorization": "x"}}); err != nil {
			t.Fatalf("failed to save: %v", err)
		}

		cache := NewCache(s, nil)

		cache.Invalidate()
		once, okOnce := cache.Handle()

		cache.Invalidate()
		cache.Invalidate()
		twice, okTwice := cache.Handle()

		if once != twice || okOnce != okTwice {
			t.Error("expected double invalidation to behave like a single one")
		}
	})
}
