package redis

import (
	"time"

	"github.com/samas-io/smartsearch/v1/observability"
)

// observeOperation notifies the observer about a cache operation if one is
// configured.
//
// Notes:
//   - resource: the caller-visible key or tag (without the key prefix)
//   - subResource: additional context, unused for most cache operations
func (r *RedisClient) observeOperation(operation, resource, subResource string, duration time.Duration, err error, size int64, metadata map[string]interface{}) {
	if r == nil || r.observer == nil {
		return
	}

	r.observer.ObserveOperation(observability.OperationContext{
		Component:   "redis",
		Operation:   operation,
		Resource:    resource,
		SubResource: subResource,
		Duration:    duration,
		Error:       err,
		Size:        size,
		Metadata:    metadata,
	})
}
