package session

import (
	"context"
	"testing"
	"time"
)

func guardAt(now time.Time) *Guard {
	g := NewGuard(DefaultTTL)
	g.now = func() time.Time { return now }
	return g
}

func TestGuard_TTLBoundary(t *testing.T) {
	now := time.Unix(1_700_000_000, 0)
	g := guardAt(now)

	tests := []struct {
		name    string
		savedAt time.Time
		want    bool
	}{
		{"just saved", now, true},
		{"1h59m old", now.Add(-(time.Hour + 59*time.Minute)), true},
		{"exactly at ttl", now.Add(-2 * time.Hour), true},
		{"2h1s old", now.Add(-(2*time.Hour + time.Second)), false},
		{"days old", now.Add(-48 * time.Hour), false},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			s := Session{AssessmentID: "a1", SavedAt: tc.savedAt}
			if got := g.IsResumable(s); got != tc.want {
				t.Fatalf("IsResumable(saved %v ago) = %v, want %v", now.Sub(tc.savedAt), got, tc.want)
			}
		})
	}
}

func TestGuard_LoadIfFreshPurgesStale(t *testing.T) {
	ctx := context.Background()
	now := time.Unix(1_700_000_000, 0)
	g := guardAt(now)

	store := NewMemoryStore()
	store.now = func() time.Time { return now }

	key := Key("math-geo", "Ada")
	stale := Session{AssessmentID: "a1", CandidateName: "Ada", SavedAt: now.Add(-3 * time.Hour)}
	if err := store.Put(ctx, key, stale, 24*time.Hour); err != nil {
		t.Fatalf("put: %v", err)
	}

	if _, ok, err := g.LoadIfFresh(ctx, store, key); err != nil || ok {
		t.Fatalf("stale session returned: ok=%v err=%v", ok, err)
	}
	// Purged: a direct read finds nothing.
	if _, ok, _ := store.Get(ctx, key); ok {
		t.Fatal("stale entry not purged")
	}
}

func TestGuard_LoadIfFreshReturnsFresh(t *testing.T) {
	ctx := context.Background()
	now := time.Unix(1_700_000_000, 0)
	g := guardAt(now)

	store := NewMemoryStore()
	store.now = func() time.Time { return now }

	key := Key("math-geo", "Ada")
	fresh := Session{AssessmentID: "a1", CandidateName: "Ada", CurrentQuestion: 2, SavedAt: now.Add(-30 * time.Minute)}
	if err := store.Put(ctx, key, fresh, 2*time.Hour); err != nil {
		t.Fatalf("put: %v", err)
	}

	got, ok, err := g.LoadIfFresh(ctx, store, key)
	if err != nil || !ok {
		t.Fatalf("fresh session not returned: ok=%v err=%v", ok, err)
	}
	if got.CurrentQuestion != 2 || got.AssessmentID != "a1" {
		t.Fatalf("wrong session: %+v", got)
	}
}

func TestMemoryStore_NativeExpiry(t *testing.T) {
	ctx := context.Background()
	now := time.Unix(1_700_000_000, 0)
	store := NewMemoryStore()
	store.now = func() time.Time { return now }

	key := Key("slug", "Bob")
	if err := store.Put(ctx, key, Session{AssessmentID: "a2", SavedAt: now}, time.Hour); err != nil {
		t.Fatalf("put: %v", err)
	}
	if _, ok, _ := store.Get(ctx, key); !ok {
		t.Fatal("entry missing before expiry")
	}
	now = now.Add(61 * time.Minute)
	if _, ok, _ := store.Get(ctx, key); ok {
		t.Fatal("entry survived its ttl")
	}
}

func TestMemoryStore_Clear(t *testing.T) {
	ctx := context.Background()
	store := NewMemoryStore()
	key := Key("slug", "Bob")
	_ = store.Put(ctx, key, Session{AssessmentID: "a2", SavedAt: time.Now()}, time.Hour)
	if err := store.Clear(ctx, key); err != nil {
		t.Fatalf("clear: %v", err)
	}
	if _, ok, _ := store.Get(ctx, key); ok {
		t.Fatal("entry survived clear")
	}
}
