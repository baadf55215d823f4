package provider

import (
	"fmt"
	"reflect"
	"strings"
)

// Operator is a filter comparison operator.
type Operator string

// Supported filter operators. SQL backends translate these to WHERE clauses,
// Qdrant translates them to payload conditions.
const (
	OpEq       Operator = "eq"
	OpNeq      Operator = "neq"
	OpGt       Operator = "gt"
	OpGte      Operator = "gte"
	OpLt       Operator = "lt"
	OpLte      Operator = "lte"
	OpIn       Operator = "in"
	OpContains Operator = "contains"
)

// Filter is a structured predicate applied alongside the text query.
type Filter struct {
	// Field is the document field the predicate applies to.
	Field string `json:"field"`

	// Operator is the comparison to perform.
	Operator Operator `json:"operator"`

	// Value is the comparison operand. For OpIn it must be a slice.
	Value interface{} `json:"value"`
}

// Eq builds an equality filter.
func Eq(field string, value interface{}) Filter {
	return Filter{Field: field, Operator: OpEq, Value: value}
}

// Neq builds an inequality filter.
func Neq(field string, value interface{}) Filter {
	return Filter{Field: field, Operator: OpNeq, Value: value}
}

// Gt builds a greater-than filter.
func Gt(field string, value interface{}) Filter {
	return Filter{Field: field, Operator: OpGt, Value: value}
}

// Gte builds a greater-or-equal filter.
func Gte(field string, value interface{}) Filter {
	return Filter{Field: field, Operator: OpGte, Value: value}
}

// Lt builds a less-than filter.
func Lt(field string, value interface{}) Filter {
	return Filter{Field: field, Operator: OpLt, Value: value}
}

// Lte builds a less-or-equal filter.
func Lte(field string, value interface{}) Filter {
	return Filter{Field: field, Operator: OpLte, Value: value}
}

// In builds a set-membership filter. values must not be empty.
func In(field string, values ...interface{}) Filter {
	return Filter{Field: field, Operator: OpIn, Value: values}
}

// Contains builds a substring/element-containment filter.
func Contains(field string, value interface{}) Filter {
	return Filter{Field: field, Operator: OpContains, Value: value}
}

// Validate checks that the filter is well formed: non-empty field, a known
// operator, and a slice operand for OpIn.
func (f Filter) Validate() error {
	if strings.TrimSpace(f.Field) == "" {
		return fmt.Errorf("%w: empty field", ErrInvalidFilter)
	}
	switch f.Operator {
	case OpEq, OpNeq, OpGt, OpGte, OpLt, OpLte, OpContains:
	case OpIn:
		v := reflect.ValueOf(f.Value)
		if !v.IsValid() || (v.Kind() != reflect.Slice && v.Kind() != reflect.Array) {
			return fmt.Errorf("%w: operator %q requires a slice value", ErrInvalidFilter, f.Operator)
		}
		if v.Len() == 0 {
			return fmt.Errorf("%w: operator %q requires a non-empty slice", ErrInvalidFilter, f.Operator)
		}
	default:
		return fmt.Errorf("%w: unknown operator %q", ErrInvalidFilter, f.Operator)
	}
	return nil
}

// ValidateFilters validates a filter list, reporting the first invalid entry.
func ValidateFilters(filters []Filter) error {
	for i, f := range filters {
		if err := f.Validate(); err != nil {
			return fmt.Errorf("filter %d (%s): %w", i, f.Field, err)
		}
	}
	return nil
}

// Matches evaluates the filter against a document in memory. Used by cache
// providers and the governance engine, which cannot push predicates down to
// a backend. Numeric comparisons are performed in float64.
func (f Filter) Matches(doc Document) bool {
	val, ok := lookupField(doc, f.Field)
	if !ok {
		return false
	}

	switch f.Operator {
	case OpEq:
		return equalValues(val, f.Value)
	case OpNeq:
		return !equalValues(val, f.Value)
	case OpGt, OpGte, OpLt, OpLte:
		a, aok := toFloat(val)
		b, bok := toFloat(f.Value)
		if !aok || !bok {
			return false
		}
		switch f.Operator {
		case OpGt:
			return a > b
		case OpGte:
			return a >= b
		case OpLt:
			return a < b
		default:
			return a <= b
		}
	case OpIn:
		v := reflect.ValueOf(f.Value)
		if !v.IsValid() || (v.Kind() != reflect.Slice && v.Kind() != reflect.Array) {
			return false
		}
		for i := 0; i < v.Len(); i++ {
			if equalValues(val, v.Index(i).Interface()) {
				return true
			}
		}
		return false
	case OpContains:
		s, sok := val.(string)
		sub, subok := f.Value.(string)
		if sok && subok {
			return strings.Contains(s, sub)
		}
		return false
	}
	return false
}

// lookupField resolves a filter field against a document. The pseudo-fields
// "id", "content", and "tags" address the document envelope; everything else
// addresses Fields.
func lookupField(doc Document, field string) (interface{}, bool) {
	switch field {
	case "id":
		return doc.ID, true
	case "content":
		return doc.Content, true
	case "tags":
		return doc.Tags, true
	}
	if doc.Fields == nil {
		return nil, false
	}
	v, ok := doc.Fields[field]
	return v, ok
}

func equalValues(a, b interface{}) bool {
	if af, aok := toFloat(a); aok {
		if bf, bok := toFloat(b); bok {
			return af == bf
		}
	}
	// Tag lists: equality means membership.
	if tags, ok := a.([]string); ok {
		if s, sok := b.(string); sok {
			for _, t := range tags {
				if t == s {
					return true
				}
			}
			return false
		}
	}
	return reflect.DeepEqual(a, b)
}

func toFloat(v interface{}) (float64, bool) {
	switch n := v.(type) {
	case float64:
		return n, true
	case float32:
		return float64(n), true
	case int:
		return float64(n), true
	case int32:
		return float64(n), true
	case int64:
		return float64(n), true
	case uint:
		return float64(n), true
	case uint64:
		return float64(n), true
	}
	return 0, false
}
