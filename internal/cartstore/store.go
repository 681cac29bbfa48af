package cartstore

import (
	"context"

	"github.com/FagneAlmeida/e-turboost.site/internal/domain"
)

// Store is the durable slot holding the serialized cart. Load returns an
// empty cart when the slot is absent or holds data that no longer parses;
// Save replaces the whole value. Implementations report infrastructure
// errors, but callers are expected to tolerate them: the in-memory cart
// stays authoritative for the session when storage is unavailable.
type Store interface {
	Load(ctx context.Context) ([]domain.CartLine, error)
	Save(ctx context.Context, lines []domain.CartLine) error
	Clear(ctx context.Context) error
}
