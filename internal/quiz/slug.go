package quiz

import "github.com/google/uuid"

// NewSlug returns a short public link token for a test. Slugs are opaque;
// uniqueness is enforced by the tests table.
func NewSlug() string {
	u := uuid.NewString()
	return u[:8]
}
