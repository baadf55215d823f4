package search

import (
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"sort"
	"strings"

	"github.com/samas-io/smartsearch/v1/governance"
	"github.com/samas-io/smartsearch/v1/provider"
)

const stalePrefix = "stale:"

// cacheKey derives a deterministic cache key for a search request.
// The key is "<index>:<hash16>" where the hash covers the query, the
// normalized options, and the actor's roles when governance is active.
// Roles are part of the key because governed responses differ per role;
// without governance the roles component is empty and all actors share
// one entry.
func cacheKey(index, query string, opts provider.SearchOptions, roles []string) string {
	// The strategy never changes what a provider returns, only how the
	// request is routed, so it must not split the cache.
	opts.Strategy = ""
	opts.Timeout = 0

	var b strings.Builder
	b.WriteString(query)
	b.WriteByte('|')

	// SearchOptions marshals deterministically: struct field order is fixed
	// and filter order is the caller's, which is part of request identity.
	raw, err := json.Marshal(opts)
	if err == nil {
		b.Write(raw)
	}

	if len(roles) > 0 {
		sorted := append([]string(nil), roles...)
		sort.Strings(sorted)
		b.WriteByte('|')
		b.WriteString(strings.Join(sorted, ","))
	}

	sum := sha256.Sum256([]byte(b.String()))
	return index + ":" + hex.EncodeToString(sum[:])[:16]
}

// roleKey extracts the role component of the cache key for an actor.
// Nil engine means ungoverned responses: every actor shares the entry.
func roleKey(engine *governance.Engine, actor governance.Actor) []string {
	if engine == nil {
		return nil
	}
	return actor.Roles
}
