package provider

import "time"

// Default and cap values applied to SearchOptions.
const (
	// DefaultLimit is applied when SearchOptions.Limit is zero or negative.
	DefaultLimit = 10

	// MaxLimit caps SearchOptions.Limit regardless of what the caller asks for.
	MaxLimit = 1000
)

// Strategy selects how the search core routes a request between the cache
// and database providers. The zero value is StrategyAuto.
type Strategy string

const (
	// StrategyAuto routes per request based on provider health and circuit
	// state: cache-aside when the cache is healthy, database when it is not,
	// cache-only (stale serve) when the database circuit is open.
	StrategyAuto Strategy = "auto"

	// StrategyCacheFirst always tries the cache before the database,
	// regardless of health signals.
	StrategyCacheFirst Strategy = "cache-first"

	// StrategyDatabaseOnly bypasses the cache entirely.
	StrategyDatabaseOnly Strategy = "database-only"

	// StrategyHybrid queries all configured database providers concurrently
	// and fuses their rankings.
	StrategyHybrid Strategy = "hybrid"
)

// SortOrder controls result ordering for sorted (non-relevance) queries.
type SortOrder string

const (
	SortAsc  SortOrder = "asc"
	SortDesc SortOrder = "desc"
)

// Document is the unit of indexing and retrieval shared by all backends.
type Document struct {
	// ID uniquely identifies the document within its index.
	ID string `json:"id"`

	// Content is the primary searchable text.
	Content string `json:"content"`

	// Fields holds additional structured attributes. SQL backends map these
	// to columns, Qdrant maps them to payload.
	Fields map[string]interface{} `json:"fields,omitempty"`

	// Tags are free-form labels usable in filters and cache invalidation.
	Tags []string `json:"tags,omitempty"`

	// UpdatedAt is the document's last modification time.
	UpdatedAt time.Time `json:"updated_at,omitempty"`
}

// SearchOptions configures a single search request.
// The zero value is valid and means: default limit, no offset, no filters,
// relevance ordering, automatic strategy.
type SearchOptions struct {
	// Limit is the maximum number of results to return.
	// Zero or negative values get DefaultLimit; values above MaxLimit are capped.
	Limit int `json:"limit,omitempty"`

	// Offset is the number of results to skip, for pagination.
	Offset int `json:"offset,omitempty"`

	// Fields restricts which document fields are searched. Empty means the
	// backend's configured searchable fields.
	Fields []string `json:"fields,omitempty"`

	// Filters are structured predicates applied in addition to the query.
	Filters []Filter `json:"filters,omitempty"`

	// SortBy orders results by a field instead of relevance when set.
	SortBy string `json:"sort_by,omitempty"`

	// SortOrder is the direction for SortBy. Default: descending.
	SortOrder SortOrder `json:"sort_order,omitempty"`

	// MinScore drops results scoring below the threshold.
	MinScore float64 `json:"min_score,omitempty"`

	// Timeout bounds the request. Zero means the caller's context governs.
	Timeout time.Duration `json:"timeout,omitempty"`

	// Strategy overrides the search core's configured routing strategy for
	// this request. Ignored by individual providers.
	Strategy Strategy `json:"strategy,omitempty"`
}

// Normalize returns a copy of the options with defaults applied and the
// limit capped. Safe to call on the zero value.
func (o SearchOptions) Normalize() SearchOptions {
	if o.Limit <= 0 {
		o.Limit = DefaultLimit
	}
	if o.Limit > MaxLimit {
		o.Limit = MaxLimit
	}
	if o.Offset < 0 {
		o.Offset = 0
	}
	if o.SortOrder == "" {
		o.SortOrder = SortDesc
	}
	return o
}

// SearchResult is a single ranked hit.
type SearchResult struct {
	// Document is the matched document.
	Document Document `json:"document"`

	// Score is the backend's relevance score, normalized best-effort to
	// "higher is better".
	Score float64 `json:"score"`

	// Provider names the backend that produced this hit.
	Provider string `json:"provider,omitempty"`

	// Highlights contains matched snippets when the backend supports them.
	Highlights []string `json:"highlights,omitempty"`
}

// SearchResponse is the full answer to one search request.
type SearchResponse struct {
	// Results are the ranked hits, at most SearchOptions.Limit of them.
	Results []SearchResult `json:"results"`

	// Total is the number of matching documents before limit/offset,
	// when the backend can compute it cheaply; otherwise len(Results).
	Total int64 `json:"total"`

	// Took is the backend-side duration of the request.
	Took time.Duration `json:"took"`

	// Provider names the backend that answered.
	Provider string `json:"provider"`

	// Strategy is the routing strategy that produced this response.
	// Filled in by the search core, empty for direct provider calls.
	Strategy Strategy `json:"strategy,omitempty"`

	// FromCache is true when the response was served from a cache provider.
	FromCache bool `json:"from_cache"`
}

// HealthStatus reports the outcome of a provider health check.
type HealthStatus struct {
	// Healthy is true when the provider answered its health probe.
	Healthy bool `json:"healthy"`

	// Latency is how long the probe took.
	Latency time.Duration `json:"latency"`

	// CheckedAt is when the probe ran.
	CheckedAt time.Time `json:"checked_at"`

	// Error describes the failure when Healthy is false.
	Error string `json:"error,omitempty"`

	// Details carries provider-specific diagnostics, e.g. pool stats.
	Details map[string]interface{} `json:"details,omitempty"`
}

// Stats aggregates operation counters for a provider.
type Stats struct {
	// Searches is the number of search operations served.
	Searches int64 `json:"searches"`

	// Writes is the number of index/delete operations served.
	Writes int64 `json:"writes"`

	// Errors is the number of failed operations.
	Errors int64 `json:"errors"`

	// Hits and Misses are cache-provider specific; zero for databases.
	Hits   int64 `json:"hits,omitempty"`
	Misses int64 `json:"misses,omitempty"`
}
