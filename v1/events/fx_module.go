package events

import (
	"context"

	"go.uber.org/fx"
)

// FXModule provides the event publisher selected by events.Config and closes
// it on application shutdown.
//
// Example:
//
//	app := fx.New(
//	    fx.Provide(func() events.Config {
//	        return events.Rabbit(events.RabbitConfig{URL: "amqp://localhost"})
//	    }),
//	    events.FXModule,
//	)
var FXModule = fx.Module("events",
	fx.Provide(NewPublisher),
	fx.Invoke(RegisterPublisherLifecycle),
)

// RegisterPublisherLifecycle closes the publisher on application shutdown.
func RegisterPublisherLifecycle(lc fx.Lifecycle, publisher Publisher) {
	lc.Append(fx.Hook{
		OnStop: func(ctx context.Context) error {
			return publisher.Close()
		},
	})
}
