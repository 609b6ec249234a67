package blobstore

import (
	"context"
	"errors"
	"strings"
	"testing"
	"time"
)

func TestMemoryStore_PutIsCreateOnly(t *testing.T) {
	store := NewMemoryStore()
	ctx := context.Background()

	if err := store.Put(ctx, "uploads/a.txt", []byte("first"), "text/plain"); err != nil {
		t.Fatalf("Put failed: %v", err)
	}
	// A second write of the same key must succeed without replacing the body.
	if err := store.Put(ctx, "uploads/a.txt", []byte("second"), "text/plain"); err != nil {
		t.Fatalf("duplicate Put failed: %v", err)
	}

	body, err := store.Get(ctx, "uploads/a.txt")
	if err != nil {
		t.Fatalf("Get failed: %v", err)
	}
	if string(body) != "first" {
		t.Errorf("expected first write to win, got %q", body)
	}
}

func TestMemoryStore_HeadAndGetMissing(t *testing.T) {
	store := NewMemoryStore()
	ctx := context.Background()

	exists, err := store.Head(ctx, "uploads/missing.txt")
	if err != nil {
		t.Fatalf("Head on missing key returned error: %v", err)
	}
	if exists {
		t.Error("Head reported a missing key as existing")
	}

	if _, err := store.Get(ctx, "uploads/missing.txt"); !errors.Is(err, ErrNotFound) {
		t.Errorf("Get on missing key = %v; want ErrNotFound", err)
	}
}

func TestMemoryStore_ListSortedByPrefix(t *testing.T) {
	store := NewMemoryStore()
	ctx := context.Background()

	for _, key := range []string{"processed/b_processed.txt", "uploads/a.txt", "processed/a_processed.txt"} {
		if err := store.Put(ctx, key, []byte("x"), "text/plain"); err != nil {
			t.Fatalf("Put %s failed: %v", key, err)
		}
	}

	keys, err := store.List(ctx, "processed/")
	if err != nil {
		t.Fatalf("List failed: %v", err)
	}
	if len(keys) != 2 || keys[0] != "processed/a_processed.txt" || keys[1] != "processed/b_processed.txt" {
		t.Errorf("unexpected listing: %v", keys)
	}
}

func TestMemoryStore_SignedURL(t *testing.T) {
	store := NewMemoryStore()
	ctx := context.Background()

	if _, err := store.SignedURL("uploads/missing.txt", time.Hour); !errors.Is(err, ErrNotFound) {
		t.Errorf("SignedURL for missing key = %v; want ErrNotFound", err)
	}

	if err := store.Put(ctx, "processed/a_processed.txt", []byte("x"), "text/plain"); err != nil {
		t.Fatalf("Put failed: %v", err)
	}
	url, err := store.SignedURL("processed/a_processed.txt", time.Hour)
	if err != nil {
		t.Fatalf("SignedURL failed: %v", err)
	}
	if !strings.HasPrefix(url, "memstore://processed/a_processed.txt?expires=") {
		t.Errorf("unexpected signed URL: %s", url)
	}
}
