package qdrant

import (
	"fmt"

	qdrant "github.com/qdrant/go-client/qdrant"

	"github.com/samas-io/smartsearch/v1/provider"
)

// buildFilter translates provider filters into a Qdrant filter with AND
// semantics. The pseudo-field "tags" matches against the tag list; every
// other field addresses the nested fields payload.
func buildFilter(filters []provider.Filter) (*qdrant.Filter, error) {
	if len(filters) == 0 {
		return nil, nil
	}

	filter := &qdrant.Filter{}
	for _, f := range filters {
		condition, err := buildCondition(f)
		if err != nil {
			return nil, err
		}
		filter.Must = append(filter.Must, condition)
	}
	return filter, nil
}

func buildCondition(f provider.Filter) (*qdrant.Condition, error) {
	key := payloadKey(f.Field)

	switch f.Operator {
	case provider.OpEq, provider.OpContains:
		return matchCondition(key, f.Value)
	case provider.OpIn:
		switch values := f.Value.(type) {
		case []string:
			return qdrant.NewMatchKeywords(key, values...), nil
		case []interface{}:
			keywords := make([]string, len(values))
			for i, v := range values {
				keywords[i] = fmt.Sprintf("%v", v)
			}
			return qdrant.NewMatchKeywords(key, keywords...), nil
		default:
			return nil, fmt.Errorf("%w: in-filter on %q needs a slice", provider.ErrInvalidFilter, f.Field)
		}
	case provider.OpGt, provider.OpGte, provider.OpLt, provider.OpLte:
		value, ok := toFloat(f.Value)
		if !ok {
			return nil, fmt.Errorf("%w: range filter on %q needs a number", provider.ErrInvalidFilter, f.Field)
		}
		rng := &qdrant.Range{}
		switch f.Operator {
		case provider.OpGt:
			rng.Gt = &value
		case provider.OpGte:
			rng.Gte = &value
		case provider.OpLt:
			rng.Lt = &value
		case provider.OpLte:
			rng.Lte = &value
		}
		return qdrant.NewRange(key, rng), nil
	case provider.OpNeq:
		match, err := matchCondition(key, f.Value)
		if err != nil {
			return nil, err
		}
		// NOT wraps the equality match in a nested must_not filter.
		return &qdrant.Condition{
			ConditionOneOf: &qdrant.Condition_Filter{
				Filter: &qdrant.Filter{MustNot: []*qdrant.Condition{match}},
			},
		}, nil
	default:
		return nil, fmt.Errorf("%w: operator %q", provider.ErrInvalidFilter, f.Operator)
	}
}

func matchCondition(key string, value interface{}) (*qdrant.Condition, error) {
	switch v := value.(type) {
	case string:
		return qdrant.NewMatch(key, v), nil
	case bool:
		return qdrant.NewMatchBool(key, v), nil
	case int:
		return qdrant.NewMatchInt(key, int64(v)), nil
	case int64:
		return qdrant.NewMatchInt(key, v), nil
	case float64:
		return qdrant.NewMatch(key, fmt.Sprintf("%v", v)), nil
	default:
		return nil, fmt.Errorf("%w: unsupported match value %T", provider.ErrInvalidFilter, value)
	}
}

// payloadKey maps a filter field to its payload path.
func payloadKey(field string) string {
	switch field {
	case "id":
		return payloadDocID
	case "content", "tags", "updated_at":
		return field
	default:
		return payloadFields + "." + field
	}
}

func toFloat(v interface{}) (float64, bool) {
	switch value := v.(type) {
	case int:
		return float64(value), true
	case int32:
		return float64(value), true
	case int64:
		return float64(value), true
	case float32:
		return float64(value), true
	case float64:
		return value, true
	default:
		return 0, false
	}
}
