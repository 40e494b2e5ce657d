package workers

import (
	"context"
	"log"
	"time"

	"github.com/mirahq/academy-crm/internal/usecases"
)

// MessageRelay is a runnable that drains the outbox and publishes pending
// events to Pub/Sub on a fixed interval.
type MessageRelay struct {
	Relay    usecases.RelayOutbox `resolve:""`
	Logger   *log.Logger          `resolve:""`
	Interval time.Duration        `config:"OUTBOX_RELAY_INTERVAL" default:"500ms"`

	// batchDone signals test code after each relay pass.
	batchDone chan struct{}
}

// Run starts the periodic processing of outbox events. One pass runs
// immediately so a restart does not leave events waiting a full interval.
func (mr MessageRelay) Run(ctx context.Context) error {
	mr.Logger.Println("MessageRelay: running...")
	ticker := time.NewTicker(mr.Interval)
	defer ticker.Stop()

	mr.runBatch(ctx)
	for {
		select {
		case <-ticker.C:
			mr.runBatch(ctx)
		case <-ctx.Done():
			mr.Logger.Println("MessageRelay: stopping...")
			return nil
		}
	}
}

func (mr MessageRelay) runBatch(ctx context.Context) {
	if err := mr.Relay.Execute(ctx); err != nil {
		mr.Logger.Printf("MessageRelay: error processing batch: %v", err)
	}
	if mr.batchDone != nil {
		mr.batchDone <- struct{}{}
	}
}
