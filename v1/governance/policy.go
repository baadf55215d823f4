package governance

import (
	"crypto/sha256"
	"encoding/hex"
	"regexp"
	"strings"

	"github.com/samas-io/smartsearch/v1/provider"
)

// MaskKind selects how a sensitive field value is obscured.
type MaskKind string

const (
	// MaskRedact replaces the value with a fixed token.
	MaskRedact MaskKind = "redact"
	// MaskPartial keeps the first and last Keep runes and hides the middle.
	MaskPartial MaskKind = "partial"
	// MaskHash replaces the value with the first 12 hex chars of its sha256.
	MaskHash MaskKind = "hash"
	// MaskEmail keeps the first rune of the local part and the full domain.
	MaskEmail MaskKind = "email"
)

// RedactToken is the replacement value used by MaskRedact.
const RedactToken = "***"

// FieldRule binds one document field to a mask.
type FieldRule struct {
	// Field is the key in Document.Fields this rule applies to.
	Field string `yaml:"field"`

	// Mask is the masking strategy.
	Mask MaskKind `yaml:"mask"`

	// Keep is the number of runes preserved at each end by MaskPartial.
	// Default: 1
	Keep int `yaml:"keep"`
}

// Policy is the per-index governance rule set.
type Policy struct {
	// AllowedRoles restricts who may read the index. An empty list allows
	// everyone; otherwise the actor needs at least one listed role.
	AllowedRoles []string `yaml:"allowed_roles"`

	// DenyFields are removed from results entirely.
	DenyFields []string `yaml:"deny_fields"`

	// MaskFields are obscured according to their rule.
	MaskFields []FieldRule `yaml:"mask_fields"`

	// RowFilter drops whole documents when it returns false. Nil keeps
	// every row.
	RowFilter func(provider.Document) bool `yaml:"-"`

	// AutoDetect additionally masks fields whose name or value looks
	// sensitive (passwords, emails, phone numbers, card numbers, SSNs).
	AutoDetect bool `yaml:"auto_detect"`
}

// Actor identifies who is running a search.
type Actor struct {
	ID    string
	Roles []string
}

// HasAnyRole reports whether the actor holds at least one of the roles.
func (a Actor) HasAnyRole(roles []string) bool {
	for _, want := range roles {
		for _, have := range a.Roles {
			if have == want {
				return true
			}
		}
	}
	return false
}

// applyMask obscures value according to the rule.
func applyMask(rule FieldRule, value string) string {
	switch rule.Mask {
	case MaskHash:
		sum := sha256.Sum256([]byte(value))
		return hex.EncodeToString(sum[:])[:12]
	case MaskEmail:
		return maskEmail(value)
	case MaskPartial:
		keep := rule.Keep
		if keep <= 0 {
			keep = 1
		}
		return maskPartial(value, keep)
	default:
		return RedactToken
	}
}

func maskPartial(value string, keep int) string {
	runes := []rune(value)
	if len(runes) <= keep*2 {
		return RedactToken
	}
	return string(runes[:keep]) + RedactToken + string(runes[len(runes)-keep:])
}

func maskEmail(value string) string {
	at := strings.LastIndex(value, "@")
	if at <= 0 {
		return RedactToken
	}
	local := []rune(value[:at])
	return string(local[0]) + RedactToken + value[at:]
}

// Name-based detection catches credential-ish fields regardless of value.
var sensitiveFieldNames = regexp.MustCompile(`(?i)^(password|passwd|secret|token|api_?key|private_?key|ssn|social_security|credit_?card|card_?number|cvv)$`)

// Value-based detection patterns.
var (
	emailPattern = regexp.MustCompile(`^[^@\s]+@[^@\s]+\.[^@\s]+$`)
	phonePattern = regexp.MustCompile(`^\+?[0-9][0-9 ().-]{7,18}[0-9]$`)
	ssnPattern   = regexp.MustCompile(`^\d{3}-\d{2}-\d{4}$`)
	cardPattern  = regexp.MustCompile(`^(?:\d[ -]?){13,19}$`)
)

// detectMask returns the mask to apply to a field the policy did not list
// explicitly, or false when the field looks harmless.
func detectMask(field, value string) (FieldRule, bool) {
	if sensitiveFieldNames.MatchString(field) {
		return FieldRule{Field: field, Mask: MaskRedact}, true
	}
	switch {
	case ssnPattern.MatchString(value):
		return FieldRule{Field: field, Mask: MaskRedact}, true
	case emailPattern.MatchString(value):
		return FieldRule{Field: field, Mask: MaskEmail}, true
	case cardPattern.MatchString(value):
		return FieldRule{Field: field, Mask: MaskPartial, Keep: 4}, true
	case phonePattern.MatchString(value):
		return FieldRule{Field: field, Mask: MaskPartial, Keep: 2}, true
	}
	return FieldRule{}, false
}
