package log

import (
	"context"
	"log"
	"os"

	"github.com/cleitonmarx/symbiont/depend"
)

// InitLogger registers the shared application logger. Timestamps come from the
// standard flags; everything else is left to the call sites.
type InitLogger struct{}

// Initialize registers the logger in the dependency container.
func (il InitLogger) Initialize(ctx context.Context) (context.Context, error) {
	depend.Register(log.New(os.Stdout, "", log.LstdFlags|log.Lmsgprefix))
	return ctx, nil
}
