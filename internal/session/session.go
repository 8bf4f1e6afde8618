// Package session tracks resumable assessment attempts. A candidate who
// reloads mid-test asks for their cached progress by test slug + candidate
// name; the guard decides client-side freshness, and the caller still has to
// confirm server-side assessment state before actually resuming.
package session

import (
	"context"
	"fmt"
	"time"
)

// DefaultTTL is the absolute attempt window. A session saved longer ago than
// this is expired and purged on read.
const DefaultTTL = 2 * time.Hour

type Session struct {
	AssessmentID    string    `json:"assessment_id"`
	CandidateName   string    `json:"candidate_name"`
	CurrentQuestion int       `json:"current_question"`
	SavedAt         time.Time `json:"saved_at"`
}

// Store holds sessions keyed by Key(slug, candidate). Implementations may
// expire entries on their own (Redis TTL); the guard re-checks SavedAt
// regardless, so a backend without native expiry is still correct.
type Store interface {
	Get(ctx context.Context, key string) (Session, bool, error)
	Put(ctx context.Context, key string, s Session, ttl time.Duration) error
	Clear(ctx context.Context, key string) error
}

func Key(slug, candidate string) string {
	return fmt.Sprintf("cleverbadge:session:%s:%s", slug, candidate)
}

// Guard applies the TTL rule: now - SavedAt strictly greater than TTL means
// expired.
type Guard struct {
	TTL time.Duration
	now func() time.Time
}

func NewGuard(ttl time.Duration) *Guard {
	if ttl <= 0 {
		ttl = DefaultTTL
	}
	return &Guard{TTL: ttl, now: time.Now}
}

func (g *Guard) IsResumable(s Session) bool {
	return g.now().Sub(s.SavedAt) <= g.TTL
}

// LoadIfFresh returns the cached session when present and within the TTL.
// A stale entry is purged and reported absent. Resumability here is advisory:
// the server may have independently abandoned the assessment.
func (g *Guard) LoadIfFresh(ctx context.Context, store Store, key string) (Session, bool, error) {
	s, ok, err := store.Get(ctx, key)
	if err != nil || !ok {
		return Session{}, false, err
	}
	if !g.IsResumable(s) {
		if err := store.Clear(ctx, key); err != nil {
			return Session{}, false, err
		}
		return Session{}, false, nil
	}
	return s, true, nil
}
