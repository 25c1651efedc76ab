package sqlite

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/yaseralie/OEE-VTuber-n8n-Node-RED/core/history"
)

func newTestStore(t *testing.T) *Store {
	t.Helper()
	store, err := NewStore(filepath.Join(t.TempDir(), "history.db"))
	if err != nil {
		t.Fatalf("failed to open test store: %v", err)
	}
	t.Cleanup(func() { _ = store.Close() })
	return store
}

func TestStoreRoundTripsConversation(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()
	keys := history.SessionKeys{ConfUID: "conf-1", HistoryUID: "hist-1"}

	writes := []history.Entry{
		{Role: history.RoleHuman, Content: "hello", Name: "Human"},
		{Role: history.RoleAI, Content: "hi there", Name: "Shizuku", Avatar: "shizuku.png"},
	}
	for _, entry := range writes {
		if err := store.Write(ctx, keys, entry); err != nil {
			t.Fatalf("expected write to succeed, got %v", err)
		}
	}

	entries, err := store.Entries(ctx, keys)
	if err != nil {
		t.Fatalf("expected read to succeed, got %v", err)
	}
	if len(entries) != 2 {
		t.Fatalf("expected 2 entries, got %d", len(entries))
	}
	if entries[0].Role != history.RoleHuman || entries[0].Content != "hello" {
		t.Fatalf("expected human entry first, got %+v", entries[0])
	}
	if entries[1].Role != history.RoleAI || entries[1].Avatar != "shizuku.png" {
		t.Fatalf("expected ai entry with avatar, got %+v", entries[1])
	}
	if entries[0].Timestamp.IsZero() {
		t.Fatalf("expected a timestamp to be assigned on write")
	}
}

func TestStoreSeparatesSessions(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()

	first := history.SessionKeys{ConfUID: "conf-1", HistoryUID: "hist-1"}
	second := history.SessionKeys{ConfUID: "conf-1", HistoryUID: "hist-2"}

	if err := store.Write(ctx, first, history.Entry{Role: history.RoleHuman, Content: "in first"}); err != nil {
		t.Fatalf("expected write to succeed, got %v", err)
	}
	if err := store.Write(ctx, second, history.Entry{Role: history.RoleHuman, Content: "in second"}); err != nil {
		t.Fatalf("expected write to succeed, got %v", err)
	}

	entries, err := store.Entries(ctx, first)
	if err != nil {
		t.Fatalf("expected read to succeed, got %v", err)
	}
	if len(entries) != 1 || entries[0].Content != "in first" {
		t.Fatalf("expected only the first session's entry, got %+v", entries)
	}
}

func TestStoreReturnsNoEntriesForUnknownSession(t *testing.T) {
	store := newTestStore(t)

	entries, err := store.Entries(context.Background(), history.SessionKeys{ConfUID: "nope", HistoryUID: "nope"})
	if err != nil {
		t.Fatalf("expected read of empty session to succeed, got %v", err)
	}
	if len(entries) != 0 {
		t.Fatalf("expected no entries, got %d", len(entries))
	}
}
