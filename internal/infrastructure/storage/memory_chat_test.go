package storage

import (
	"context"
	"testing"
)

func TestMemoryChatLifecycle(t *testing.T) {
	repo := NewMemoryChatRepository()
	ctx := context.Background()

	s, err := repo.GetOrCreate(ctx, "s1")
	if err != nil {
		t.Fatalf("GetOrCreate: %v", err)
	}
	if s.ID != "s1" || len(s.History) != 0 {
		t.Fatalf("unexpected fresh session: %+v", s)
	}

	s.Introduced = true
	if err := repo.Save(ctx, s); err != nil {
		t.Fatalf("Save: %v", err)
	}

	again, err := repo.GetOrCreate(ctx, "s1")
	if err != nil {
		t.Fatalf("GetOrCreate: %v", err)
	}
	if !again.Introduced {
		t.Fatalf("saved state lost on reload")
	}

	if err := repo.Delete(ctx, "s1"); err != nil {
		t.Fatalf("Delete: %v", err)
	}
	fresh, err := repo.GetOrCreate(ctx, "s1")
	if err != nil {
		t.Fatalf("GetOrCreate: %v", err)
	}
	if fresh.Introduced {
		t.Fatalf("Delete did not clear the session")
	}
}
