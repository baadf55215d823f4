package postgres

import (
	"encoding/json"
	"fmt"
	"regexp"
	"strings"

	"github.com/samas-io/smartsearch/v1/provider"
)

var fieldNamePattern = regexp.MustCompile(`^[a-zA-Z0-9_.-]+$`)

// filterSQL translates one provider.Filter into a WHERE fragment with
// placeholder arguments. The pseudo-fields "id", "content" and "updated_at"
// address table columns; "tags" uses JSONB containment; everything else is
// looked up in the fields JSONB document.
func filterSQL(f provider.Filter) (string, []interface{}, error) {
	if !fieldNamePattern.MatchString(f.Field) {
		return "", nil, fmt.Errorf("%w: field %q", provider.ErrInvalidFilter, f.Field)
	}

	switch f.Field {
	case "id", "content", "updated_at":
		return columnFilterSQL(f.Field, f)
	case "tags":
		return tagFilterSQL(f)
	default:
		return jsonFilterSQL(f)
	}
}

func columnFilterSQL(column string, f provider.Filter) (string, []interface{}, error) {
	switch f.Operator {
	case provider.OpEq:
		return column + " = ?", []interface{}{f.Value}, nil
	case provider.OpNeq:
		return column + " <> ?", []interface{}{f.Value}, nil
	case provider.OpGt:
		return column + " > ?", []interface{}{f.Value}, nil
	case provider.OpGte:
		return column + " >= ?", []interface{}{f.Value}, nil
	case provider.OpLt:
		return column + " < ?", []interface{}{f.Value}, nil
	case provider.OpLte:
		return column + " <= ?", []interface{}{f.Value}, nil
	case provider.OpIn:
		return column + " IN ?", []interface{}{f.Value}, nil
	case provider.OpContains:
		return column + " ILIKE '%' || ? || '%'", []interface{}{f.Value}, nil
	default:
		return "", nil, fmt.Errorf("%w: operator %q", provider.ErrInvalidFilter, f.Operator)
	}
}

func tagFilterSQL(f provider.Filter) (string, []interface{}, error) {
	switch f.Operator {
	case provider.OpEq, provider.OpContains:
		// tag membership: tags @> '["value"]'
		member, err := json.Marshal([]interface{}{f.Value})
		if err != nil {
			return "", nil, err
		}
		return "tags @> ?::jsonb", []interface{}{string(member)}, nil
	case provider.OpIn:
		values, ok := f.Value.([]interface{})
		if !ok {
			if strs, sok := f.Value.([]string); sok {
				values = make([]interface{}, len(strs))
				for i, s := range strs {
					values[i] = s
				}
			} else {
				return "", nil, fmt.Errorf("%w: tags in-filter needs a slice", provider.ErrInvalidFilter)
			}
		}
		frags := make([]string, 0, len(values))
		args := make([]interface{}, 0, len(values))
		for _, v := range values {
			member, err := json.Marshal([]interface{}{v})
			if err != nil {
				return "", nil, err
			}
			frags = append(frags, "tags @> ?::jsonb")
			args = append(args, string(member))
		}
		return "(" + strings.Join(frags, " OR ") + ")", args, nil
	default:
		return "", nil, fmt.Errorf("%w: operator %q not supported on tags", provider.ErrInvalidFilter, f.Operator)
	}
}

func jsonFilterSQL(f provider.Filter) (string, []interface{}, error) {
	textExpr := fmt.Sprintf("fields->>'%s'", f.Field)
	numExpr := fmt.Sprintf("(fields->>'%s')::numeric", f.Field)

	switch f.Operator {
	case provider.OpEq:
		return textExpr + " = ?", []interface{}{toText(f.Value)}, nil
	case provider.OpNeq:
		return textExpr + " <> ?", []interface{}{toText(f.Value)}, nil
	case provider.OpGt, provider.OpGte, provider.OpLt, provider.OpLte:
		op := map[provider.Operator]string{
			provider.OpGt:  ">",
			provider.OpGte: ">=",
			provider.OpLt:  "<",
			provider.OpLte: "<=",
		}[f.Operator]
		if isNumeric(f.Value) {
			return numExpr + " " + op + " ?", []interface{}{f.Value}, nil
		}
		return textExpr + " " + op + " ?", []interface{}{toText(f.Value)}, nil
	case provider.OpIn:
		return textExpr + " IN ?", []interface{}{toTextSlice(f.Value)}, nil
	case provider.OpContains:
		return textExpr + " ILIKE '%' || ? || '%'", []interface{}{toText(f.Value)}, nil
	default:
		return "", nil, fmt.Errorf("%w: operator %q", provider.ErrInvalidFilter, f.Operator)
	}
}

// sortSQL maps a sort field to an ORDER BY expression.
func sortSQL(field string) (string, error) {
	if !fieldNamePattern.MatchString(field) {
		return "", fmt.Errorf("%w: sort field %q", provider.ErrInvalidFilter, field)
	}
	switch field {
	case "id", "content", "updated_at", "score":
		return field, nil
	default:
		return fmt.Sprintf("fields->>'%s'", field), nil
	}
}

func isNumeric(v interface{}) bool {
	switch v.(type) {
	case int, int8, int16, int32, int64,
		uint, uint8, uint16, uint32, uint64,
		float32, float64:
		return true
	}
	return false
}

func toText(v interface{}) string {
	return fmt.Sprintf("%v", v)
}

func toTextSlice(v interface{}) []string {
	switch vals := v.(type) {
	case []string:
		return vals
	case []interface{}:
		out := make([]string, len(vals))
		for i, item := range vals {
			out[i] = toText(item)
		}
		return out
	default:
		return []string{toText(v)}
	}
}
