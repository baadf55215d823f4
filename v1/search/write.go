package search

import (
	"context"
	"time"

	"github.com/samas-io/smartsearch/v1/events"
	"github.com/samas-io/smartsearch/v1/provider"
)

// Index upserts documents into every configured database provider, drops the
// index's cached responses, and publishes an index event.
//
// The primary write must succeed; secondary writes and the cache
// invalidation are best effort so a degraded secondary cannot block writes.
func (s *SmartSearch) Index(ctx context.Context, index string, docs []provider.Document) error {
	start := time.Now()

	if index == "" {
		return provider.ErrIndexRequired
	}
	if len(docs) == 0 {
		return nil
	}

	br := s.breakers.GetOrCreate(s.primary.Name())
	err := br.Execute(ctx, func(ctx context.Context) error {
		return s.primary.Index(ctx, index, docs)
	})
	s.observe("index", index, s.primary.Name(), start, err, int64(len(docs)), nil)
	if err != nil {
		s.errs.Add(1)
		return err
	}

	for _, p := range s.secondaries {
		br := s.breakers.GetOrCreate(p.Name())
		if err := br.Execute(ctx, func(ctx context.Context) error {
			return p.Index(ctx, index, docs)
		}); err != nil {
			s.logWarn("secondary index write failed", err, map[string]interface{}{
				"provider": p.Name(), "index": index,
			})
		}
	}

	ids := make([]string, 0, len(docs))
	for _, d := range docs {
		ids = append(ids, d.ID)
	}
	s.invalidate(ctx, index)
	s.publish(ctx, events.Event{Type: events.TypeIndex, Index: index, IDs: ids, At: time.Now().UTC()})
	return nil
}

// Delete removes documents by ID from every configured database provider,
// drops the index's cached responses, and publishes a delete event.
func (s *SmartSearch) Delete(ctx context.Context, index string, ids []string) error {
	start := time.Now()

	if index == "" {
		return provider.ErrIndexRequired
	}
	if len(ids) == 0 {
		return nil
	}

	br := s.breakers.GetOrCreate(s.primary.Name())
	err := br.Execute(ctx, func(ctx context.Context) error {
		return s.primary.Delete(ctx, index, ids)
	})
	s.observe("delete", index, s.primary.Name(), start, err, int64(len(ids)), nil)
	if err != nil {
		s.errs.Add(1)
		return err
	}

	for _, p := range s.secondaries {
		br := s.breakers.GetOrCreate(p.Name())
		if err := br.Execute(ctx, func(ctx context.Context) error {
			return p.Delete(ctx, index, ids)
		}); err != nil {
			s.logWarn("secondary delete failed", err, map[string]interface{}{
				"provider": p.Name(), "index": index,
			})
		}
	}

	s.invalidate(ctx, index)
	s.publish(ctx, events.Event{Type: events.TypeDelete, Index: index, IDs: ids, At: time.Now().UTC()})
	return nil
}

// Suggest returns prefix completions from the primary provider.
// Returns ErrSuggestNotSupported when the primary cannot serve them.
// Suggestions always hit the database; they change too often to cache well.
func (s *SmartSearch) Suggest(ctx context.Context, index, prefix string, limit int) ([]string, error) {
	start := time.Now()

	if index == "" {
		return nil, provider.ErrIndexRequired
	}
	sg, ok := s.primary.(provider.Suggester)
	if !ok {
		return nil, ErrSuggestNotSupported
	}

	var out []string
	br := s.breakers.GetOrCreate(s.primary.Name())
	err := br.Execute(ctx, func(ctx context.Context) error {
		var err error
		out, err = sg.Suggest(ctx, index, prefix, limit)
		return err
	})
	s.observe("suggest", index, s.primary.Name(), start, err, int64(len(out)), nil)
	if err != nil {
		s.errs.Add(1)
		return nil, err
	}
	return out, nil
}

// InvalidateIndex drops every cached response for the index and publishes an
// invalidate event for other nodes.
func (s *SmartSearch) InvalidateIndex(ctx context.Context, index string) error {
	if index == "" {
		return provider.ErrIndexRequired
	}
	s.invalidate(ctx, index)
	s.publish(ctx, events.Event{Type: events.TypeInvalidate, Index: index, At: time.Now().UTC()})
	return nil
}

// HandleEvent drops local cache entries in response to an event published by
// another node. Pass it as the handler when subscribing:
//
//	sub.Run(ctx, core.HandleEvent)
//
// The returned error requeues the message where the transport supports it.
func (s *SmartSearch) HandleEvent(ctx context.Context, event events.Event) error {
	if s.cache == nil || event.Index == "" {
		return nil
	}
	if _, err := s.cache.InvalidateTag(ctx, event.Index); err != nil {
		return err
	}
	return nil
}

func (s *SmartSearch) invalidate(ctx context.Context, index string) {
	if s.cache == nil {
		return
	}
	removed, err := s.cache.InvalidateTag(ctx, index)
	if err != nil {
		s.logWarn("cache invalidation failed", err, map[string]interface{}{"index": index})
		return
	}
	if removed > 0 && s.logger != nil {
		s.logger.Info("invalidated cached responses", nil, map[string]interface{}{
			"index": index, "removed": removed,
		})
	}
}

func (s *SmartSearch) publish(ctx context.Context, event events.Event) {
	if s.publisher == nil {
		return
	}
	if err := s.publisher.Publish(ctx, event); err != nil {
		s.logWarn("event publish failed", err, map[string]interface{}{
			"index": event.Index, "type": string(event.Type),
		})
	}
}
