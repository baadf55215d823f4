// Package events carries index-change notifications between nodes so every
// instance can invalidate its cache when another one writes.
//
// An Event records what happened (index, delete or invalidate), which index
// it touched and, where known, the affected document IDs and cache tags.
// Two Publisher implementations are provided: RabbitMQ (durable topic
// exchange, routing keys "search.<index>.<type>") and Kafka (one topic,
// messages keyed by index for per-index ordering).
//
// Deployments that need cross-node invalidation run a RabbitSubscriber whose
// handler applies received events to the local cache.
//
//	sub, err := events.NewRabbitSubscriber(events.RabbitConfig{URL: url, Queue: "node-a"})
//	if err != nil {
//	    return err
//	}
//	go sub.Run(ctx, func(ctx context.Context, event events.Event) error {
//	    return search.HandleInvalidation(ctx, event)
//	})
package events
