package domain

//go:generate mockgen -destination=../../mocks/mock_collaborators.go -package=mocks github.com/AnthoniusHendriyanto/blog-service/internal/auth/domain UserRepository,CounterStore,Clock

import (
	"context"
	"time"
)

// UserRepository is the identity persistence collaborator. GetByEmail and
// GetByID return (nil, nil) when no row matches. Create returns
// errors.ErrEmailAlreadyInUse on a uniqueness violation; the storage layer is
// the authoritative enforcer of email uniqueness.
type UserRepository interface {
	GetByEmail(ctx context.Context, email string) (*User, error)
	GetByID(ctx context.Context, id string) (*User, error)
	List(ctx context.Context) ([]*User, error)
	Create(ctx context.Context, user *User) error
	Update(ctx context.Context, user *User) error
}

// CounterStore is the shared atomic counter backing the rate limiter.
type CounterStore interface {
	// Increment atomically increments the counter at key and returns the
	// new value.
	Increment(ctx context.Context, key string) (int64, error)
	// SetExpiry sets the key's time-to-live.
	SetExpiry(ctx context.Context, key string, ttl time.Duration) error
	// Ping probes store liveness.
	Ping(ctx context.Context) error
}

// Clock abstracts wall-clock reads so expiry and window boundaries are
// deterministic under test.
type Clock interface {
	Now() time.Time
}

// SystemClock reads the real wall clock.
type SystemClock struct{}

func (SystemClock) Now() time.Time { return time.Now() }
