package governance

import (
	"context"
	"fmt"
	"time"

	"github.com/samas-io/smartsearch/v1/provider"
)

// DefaultPolicyKey is the Policies map key consulted when an index has no
// policy of its own.
const DefaultPolicyKey = "*"

// Config defines the configuration for the governance engine.
type Config struct {
	// Policies maps index names to their rule sets. The "*" entry applies
	// to indexes without a dedicated policy.
	Policies map[string]Policy `yaml:"policies"`

	// Logger is an optional logger from v1/logger
	Logger Logger
}

// Logger is an interface that matches smartsearch's v1/logger.Logger.
type Logger interface {
	Error(msg string, err error, fields ...map[string]interface{})
	Warn(msg string, err error, fields ...map[string]interface{})
	Info(msg string, err error, fields ...map[string]interface{})
}

// Engine applies governance policies to search results and emits one audit
// record per request.
type Engine struct {
	cfg   Config
	sinks []Sink
	now   func() time.Time
}

// NewEngine creates a governance engine. Audit sinks receive one Record per
// ApplyToResults call; pass none to disable auditing.
func NewEngine(cfg Config, sinks ...Sink) *Engine {
	active := make([]Sink, 0, len(sinks))
	for _, s := range sinks {
		if s != nil {
			active = append(active, s)
		}
	}
	return &Engine{
		cfg:   cfg,
		sinks: active,
		now:   time.Now,
	}
}

// PolicyFor returns the policy governing an index and whether one exists.
func (e *Engine) PolicyFor(index string) (Policy, bool) {
	if policy, ok := e.cfg.Policies[index]; ok {
		return policy, true
	}
	policy, ok := e.cfg.Policies[DefaultPolicyKey]
	return policy, ok
}

// ApplyToResults enforces the index's policy on a result set: it checks the
// actor's roles, drops filtered rows, removes denied fields and masks
// sensitive ones. Input results are never mutated; governed rows are copies.
//
// Returns ErrAccessDenied when the policy names allowed roles and the actor
// holds none of them.
func (e *Engine) ApplyToResults(ctx context.Context, actor Actor, index string, results []provider.SearchResult) ([]provider.SearchResult, error) {
	policy, ok := e.PolicyFor(index)
	if !ok {
		return results, nil
	}

	record := Record{
		At:      e.now(),
		ActorID: actor.ID,
		Index:   index,
		RowsIn:  len(results),
	}

	if len(policy.AllowedRoles) > 0 && !actor.HasAnyRole(policy.AllowedRoles) {
		record.Denied = true
		e.audit(ctx, record)
		return nil, fmt.Errorf("%w: actor %q on index %q", ErrAccessDenied, actor.ID, index)
	}

	governed := make([]provider.SearchResult, 0, len(results))
	for _, result := range results {
		if policy.RowFilter != nil && !policy.RowFilter(result.Document) {
			record.RowsDropped++
			continue
		}
		masked := e.governRow(policy, &result, &record)
		governed = append(governed, masked)
	}

	record.RowsOut = len(governed)
	e.audit(ctx, record)
	return governed, nil
}

// governRow returns a copy of the result with denied fields removed and
// masked fields obscured.
func (e *Engine) governRow(policy Policy, result *provider.SearchResult, record *Record) provider.SearchResult {
	out := *result
	if result.Document.Fields == nil {
		return out
	}

	fields := make(map[string]interface{}, len(result.Document.Fields))
	for k, v := range result.Document.Fields {
		fields[k] = v
	}
	out.Document.Fields = fields

	for _, denied := range policy.DenyFields {
		if _, ok := fields[denied]; ok {
			delete(fields, denied)
			record.FieldsDenied++
		}
	}

	explicit := make(map[string]struct{}, len(policy.MaskFields))
	for _, rule := range policy.MaskFields {
		explicit[rule.Field] = struct{}{}
		if value, ok := fields[rule.Field]; ok {
			fields[rule.Field] = applyMask(rule, fmt.Sprintf("%v", value))
			record.FieldsMasked++
		}
	}

	if policy.AutoDetect {
		for k, v := range fields {
			if _, done := explicit[k]; done {
				continue
			}
			text, ok := v.(string)
			if !ok {
				continue
			}
			if rule, hit := detectMask(k, text); hit {
				fields[k] = applyMask(rule, text)
				record.FieldsMasked++
			}
		}
	}
	return out
}

func (e *Engine) audit(ctx context.Context, record Record) {
	for _, sink := range e.sinks {
		if err := sink.Write(ctx, record); err != nil && e.cfg.Logger != nil {
			e.cfg.Logger.Error("audit sink write failed", err, map[string]interface{}{
				"index": record.Index,
			})
		}
	}
}
