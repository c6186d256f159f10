package runstate

import (
	"time"

	"github.com/aretw0/weft/pkg/domain"
)

// Option configures a State.
type Option func(*State)

// WithHooks registers lifecycle callbacks. They run synchronously on the writer's goroutine.
func WithHooks(hooks domain.LifecycleHooks) Option {
	return func(s *State) {
		s.hooks = hooks
	}
}

// WithClock overrides the time source used for event timestamps and snapshots.
func WithClock(now func() time.Time) Option {
	return func(s *State) {
		if now != nil {
			s.now = now
		}
	}
}
