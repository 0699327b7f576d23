package store

import (
	"context"
	"testing"
	"time"

	"github.com/matzehuels/pinroute/pkg/route"
)

func testRun(id string, createdAt time.Time) *Run {
	return &Run{
		ID:        id,
		Design:    "demo",
		InputHash: "abc",
		Config:    route.DefaultConfig(),
		Result:    &route.Result{Status: route.StatusSuccess},
		CreatedAt: createdAt,
	}
}

func TestMemoryStorePutGet(t *testing.T) {
	ctx := context.Background()
	s := NewMemoryStore()
	defer s.Close(ctx)

	run := testRun("run-1", time.Now())
	if err := s.Put(ctx, run); err != nil {
		t.Fatalf("Put: %v", err)
	}

	got, err := s.Get(ctx, "run-1")
	if err != nil {
		t.Fatalf("Get: %v", err)
	}
	if got.ID != "run-1" || got.Design != "demo" {
		t.Errorf("Get returned %+v", got)
	}

	// Stored runs are copies: mutating the original must not leak in.
	run.Design = "mutated"
	got, _ = s.Get(ctx, "run-1")
	if got.Design != "demo" {
		t.Error("store should hold an independent copy")
	}
}

func TestMemoryStoreGetMissing(t *testing.T) {
	s := NewMemoryStore()
	if _, err := s.Get(context.Background(), "nope"); err != ErrNotFound {
		t.Errorf("Get missing = %v, want ErrNotFound", err)
	}
}

func TestMemoryStoreListNewestFirst(t *testing.T) {
	ctx := context.Background()
	s := NewMemoryStore()
	base := time.Now()
	for i, id := range []string{"old", "mid", "new"} {
		if err := s.Put(ctx, testRun(id, base.Add(time.Duration(i)*time.Minute))); err != nil {
			t.Fatalf("Put: %v", err)
		}
	}

	runs, err := s.List(ctx, 2)
	if err != nil {
		t.Fatalf("List: %v", err)
	}
	if len(runs) != 2 {
		t.Fatalf("List returned %d runs, want 2", len(runs))
	}
	if runs[0].ID != "new" || runs[1].ID != "mid" {
		t.Errorf("List order = [%s, %s], want [new, mid]", runs[0].ID, runs[1].ID)
	}
}

func TestMemoryStoreDelete(t *testing.T) {
	ctx := context.Background()
	s := NewMemoryStore()
	if err := s.Put(ctx, testRun("run-1", time.Now())); err != nil {
		t.Fatalf("Put: %v", err)
	}
	if err := s.Delete(ctx, "run-1"); err != nil {
		t.Fatalf("Delete: %v", err)
	}
	if _, err := s.Get(ctx, "run-1"); err != ErrNotFound {
		t.Errorf("Get after Delete = %v, want ErrNotFound", err)
	}
	// Deleting again is not an error.
	if err := s.Delete(ctx, "run-1"); err != nil {
		t.Errorf("double Delete: %v", err)
	}
}
