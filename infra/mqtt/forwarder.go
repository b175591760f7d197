package mqtt

import (
	"context"

	coremqtt "github.com/greenfleet/greenfleet/core/mqtt"
	"github.com/greenfleet/greenfleet/core/planner"
	"github.com/greenfleet/greenfleet/infra/logger"
	"github.com/greenfleet/greenfleet/internal/eventbus"
)

// StartRunForwarder subscribes to the bus and publishes every run. It returns
// a channel closed once the forwarder stopped, which happens when ctx is
// canceled or the bus is closed.
func StartRunForwarder(ctx context.Context, bus *eventbus.TypedBus[planner.Run], pub coremqtt.RunPublisher, log logger.Logger) <-chan struct{} {
	done := make(chan struct{})
	if bus == nil || pub == nil {
		close(done)
		return done
	}
	if log == nil {
		log = logger.NopLogger{}
	}
	sub := bus.Subscribe()
	go func() {
		defer close(done)
		defer bus.Unsubscribe(sub)
		for {
			select {
			case <-ctx.Done():
				return
			case run, ok := <-sub:
				if !ok {
					return
				}
				if err := pub.PublishRun(run); err != nil {
					log.Errorf("forward run %s: %v", run.ID, err)
				}
			}
		}
	}()
	return done
}
