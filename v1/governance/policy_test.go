package governance

import "testing"

func TestMaskRedact(t *testing.T) {
	got := applyMask(FieldRule{Mask: MaskRedact}, "secret-value")
	if got != RedactToken {
		t.Fatalf("expected %q, got %q", RedactToken, got)
	}
}

func TestMaskPartial(t *testing.T) {
	got := applyMask(FieldRule{Mask: MaskPartial, Keep: 4}, "4111111111111111")
	if got != "4111***1111" {
		t.Fatalf("unexpected partial mask: %q", got)
	}

	// too short to keep anything
	got = applyMask(FieldRule{Mask: MaskPartial, Keep: 4}, "12345")
	if got != RedactToken {
		t.Fatalf("short values should collapse to the redact token, got %q", got)
	}
}

func TestMaskHashStable(t *testing.T) {
	a := applyMask(FieldRule{Mask: MaskHash}, "123-45-6789")
	b := applyMask(FieldRule{Mask: MaskHash}, "123-45-6789")
	if a != b {
		t.Fatal("hash mask must be deterministic")
	}
	if len(a) != 12 {
		t.Fatalf("hash mask should be 12 chars, got %q", a)
	}
}

func TestMaskEmail(t *testing.T) {
	got := applyMask(FieldRule{Mask: MaskEmail}, "ada.byron@example.com")
	if got != "a***@example.com" {
		t.Fatalf("unexpected email mask: %q", got)
	}

	// not an email at all
	got = applyMask(FieldRule{Mask: MaskEmail}, "not-an-email")
	if got != RedactToken {
		t.Fatalf("malformed emails should collapse to the redact token, got %q", got)
	}
}

func TestDetectMaskByName(t *testing.T) {
	for _, field := range []string{"password", "api_key", "apikey", "ssn", "credit_card", "cvv", "Token"} {
		if _, hit := detectMask(field, "whatever"); !hit {
			t.Fatalf("field %q should be detected by name", field)
		}
	}
	if _, hit := detectMask("title", "whatever"); hit {
		t.Fatal("field 'title' should not be detected by name")
	}
}

func TestDetectMaskByValue(t *testing.T) {
	cases := []struct {
		value string
		want  MaskKind
	}{
		{"ada@example.com", MaskEmail},
		{"123-45-6789", MaskRedact},
		{"4111 1111 1111 1111", MaskPartial},
		{"+44 20 7946 0958", MaskPartial},
	}
	for _, tc := range cases {
		rule, hit := detectMask("field", tc.value)
		if !hit {
			t.Fatalf("value %q should be detected", tc.value)
		}
		if rule.Mask != tc.want {
			t.Fatalf("value %q: expected mask %q, got %q", tc.value, tc.want, rule.Mask)
		}
	}

	if _, hit := detectMask("field", "an ordinary sentence"); hit {
		t.Fatal("ordinary text should not be detected")
	}
}

func TestActorHasAnyRole(t *testing.T) {
	actor := Actor{Roles: []string{"analyst", "viewer"}}
	if !actor.HasAnyRole([]string{"viewer"}) {
		t.Fatal("expected role match")
	}
	if actor.HasAnyRole([]string{"admin"}) {
		t.Fatal("unexpected role match")
	}
}
