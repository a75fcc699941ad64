package classify_test

import (
	"errors"
	"testing"

	"ohmg/internal/classify"
)

func TestOpenSeedsDraft(t *testing.T) {
	var session classify.Session
	if !session.Open(map[string]string{"p1": "main"}) {
		t.Fatal("expected Open to succeed on a closed session")
	}
	if !session.Editing() {
		t.Fatal("expected Editing after Open")
	}
	if got := session.Assignments()["p1"]; got != "main" {
		t.Fatalf("expected seeded draft, got %q", got)
	}
}

func TestOpenWhileOpenIsNoOp(t *testing.T) {
	var session classify.Session
	session.Open(map[string]string{"p1": "main"})
	if session.Open(map[string]string{"p1": "key map"}) {
		t.Fatal("expected second Open to be a no-op")
	}
	if got := session.Assignments()["p1"]; got != "main" {
		t.Fatalf("expected original draft preserved, got %q", got)
	}
}

func TestSetOutsideSession(t *testing.T) {
	var session classify.Session
	if err := session.Set("p1", "main"); !errors.Is(err, classify.ErrNotEditing) {
		t.Fatalf("expected ErrNotEditing, got %v", err)
	}
}

func TestDiscardDropsDraft(t *testing.T) {
	var session classify.Session
	session.Open(map[string]string{"p1": "main"})
	if err := session.Set("p1", "key map"); err != nil {
		t.Fatalf("Set returned error: %v", err)
	}
	session.Discard()

	if session.Editing() {
		t.Fatal("expected closed session after Discard")
	}
	// Reopening sees the seed, not the discarded edits.
	session.Open(map[string]string{"p1": "main"})
	if got := session.Assignments()["p1"]; got != "main" {
		t.Fatalf("expected discarded edit gone, got %q", got)
	}
}

func TestCommitReturnsDraftAndCloses(t *testing.T) {
	var session classify.Session
	session.Open(map[string]string{"p1": "main", "p2": "main"})
	if err := session.Set("p2", "key map"); err != nil {
		t.Fatalf("Set returned error: %v", err)
	}

	draft, ok := session.Commit()
	if !ok {
		t.Fatal("expected Commit to succeed")
	}
	if draft["p2"] != "key map" {
		t.Fatalf("expected committed edit, got %q", draft["p2"])
	}
	if session.Editing() {
		t.Fatal("expected session closed after Commit")
	}
	if _, ok := session.Commit(); ok {
		t.Fatal("expected Commit on closed session to report false")
	}
}
