package time

import (
	"context"
	"time"

	"github.com/cleitonmarx/symbiont/depend"

	"github.com/mirahq/academy-crm/internal/domain"
)

// CurrentTimeProvider backs domain.CurrentTimeProvider with the system clock.
type CurrentTimeProvider struct{}

func (CurrentTimeProvider) Now() time.Time {
	return time.Now()
}

// InitCurrentTimeProvider registers the system clock in the dependency container.
type InitCurrentTimeProvider struct{}

func (InitCurrentTimeProvider) Initialize(ctx context.Context) (context.Context, error) {
	depend.Register[domain.CurrentTimeProvider](CurrentTimeProvider{})
	return ctx, nil
}
