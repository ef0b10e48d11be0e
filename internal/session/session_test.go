package session

import (
	"context"
	"testing"

	"farm-health-dashboard/internal/ports/auth"
)

func TestMemoryStore_Lifecycle(t *testing.T) {
	store := NewMemoryStore()
	ctx := context.Background()

	p := auth.Principal{ID: "user-1", Email: "a@x.com"}
	s, err := store.Create(ctx, p, "upstream-token")
	if err != nil {
		t.Fatalf("create: %v", err)
	}
	if s.ID == "" {
		t.Fatal("session id must not be empty")
	}
	if s.Principal != p || s.UpstreamToken != "upstream-token" {
		t.Fatalf("session mismatch: %+v", s)
	}

	got, ok, err := store.Get(ctx, s.ID)
	if err != nil || !ok {
		t.Fatalf("get: ok=%v err=%v", ok, err)
	}
	if got.Principal.Email != "a@x.com" {
		t.Fatalf("principal mismatch: %+v", got.Principal)
	}

	if err := store.Destroy(ctx, s.ID); err != nil {
		t.Fatalf("destroy: %v", err)
	}
	if _, ok, _ := store.Get(ctx, s.ID); ok {
		t.Fatal("session still present after destroy")
	}

	// Destroy es idempotente
	if err := store.Destroy(ctx, s.ID); err != nil {
		t.Fatalf("second destroy: %v", err)
	}
}

func TestMemoryStore_GetAbsent(t *testing.T) {
	store := NewMemoryStore()

	_, ok, err := store.Get(context.Background(), "does-not-exist")
	if err != nil {
		t.Fatalf("absent session must not error: %v", err)
	}
	if ok {
		t.Fatal("expected ok=false for absent session")
	}
}

func TestMemoryStore_IDsAreUnique(t *testing.T) {
	store := NewMemoryStore()
	ctx := context.Background()
	p := auth.Principal{ID: "user-1", Email: "a@x.com"}

	seen := map[string]bool{}
	for i := 0; i < 50; i++ {
		s, err := store.Create(ctx, p, "t")
		if err != nil {
			t.Fatalf("create: %v", err)
		}
		if seen[s.ID] {
			t.Fatalf("duplicate session id %q", s.ID)
		}
		seen[s.ID] = true
	}
}

func TestCodec_RoundTrip(t *testing.T) {
	codec, err := NewCodec("test-secret")
	if err != nil {
		t.Fatalf("new codec: %v", err)
	}

	token, err := codec.Encode("session-123")
	if err != nil {
		t.Fatalf("encode: %v", err)
	}

	sid, err := codec.Decode(token)
	if err != nil {
		t.Fatalf("decode: %v", err)
	}
	if sid != "session-123" {
		t.Fatalf("decoded sid = %q, want session-123", sid)
	}
}

func TestCodec_RejectsTamperedToken(t *testing.T) {
	codec, _ := NewCodec("test-secret")
	other, _ := NewCodec("another-secret")

	token, err := other.Encode("session-123")
	if err != nil {
		t.Fatalf("encode: %v", err)
	}

	if _, err := codec.Decode(token); err != ErrTokenInvalid {
		t.Fatalf("expected ErrTokenInvalid for foreign signature, got %v", err)
	}
	if _, err := codec.Decode("not-a-jwt"); err != ErrTokenInvalid {
		t.Fatalf("expected ErrTokenInvalid for garbage, got %v", err)
	}
	if _, err := codec.Decode(""); err != ErrTokenInvalid {
		t.Fatalf("expected ErrTokenInvalid for empty token, got %v", err)
	}
}

func TestNewCodec_RequiresSecret(t *testing.T) {
	if _, err := NewCodec("   "); err == nil {
		t.Fatal("expected error for blank secret")
	}
}

func TestContextRoundTrip(t *testing.T) {
	s := Session{ID: "s1", Principal: auth.Principal{ID: "u1"}}

	ctx := NewContext(context.Background(), s)
	got, ok := FromContext(ctx)
	if !ok || got.ID != "s1" {
		t.Fatalf("FromContext = %+v, ok=%v", got, ok)
	}

	if _, ok := FromContext(context.Background()); ok {
		t.Fatal("bare context must not carry a session")
	}
}
