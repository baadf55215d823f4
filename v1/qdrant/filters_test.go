package qdrant

import (
	"errors"
	"regexp"
	"testing"
	"time"

	"github.com/samas-io/smartsearch/v1/provider"
)

func TestBuildFilterEmpty(t *testing.T) {
	filter, err := buildFilter(nil)
	if err != nil {
		t.Fatalf("buildFilter failed: %v", err)
	}
	if filter != nil {
		t.Fatal("empty filters should produce a nil filter")
	}
}

func TestBuildFilterEquality(t *testing.T) {
	filter, err := buildFilter([]provider.Filter{provider.Eq("author", "ada")})
	if err != nil {
		t.Fatalf("buildFilter failed: %v", err)
	}
	if len(filter.Must) != 1 {
		t.Fatalf("expected 1 must condition, got %d", len(filter.Must))
	}

	field := filter.Must[0].GetField()
	if field == nil {
		t.Fatal("expected a field condition")
	}
	if field.Key != "fields.author" {
		t.Fatalf("user fields should be nested, got key %q", field.Key)
	}
	if field.GetMatch().GetKeyword() != "ada" {
		t.Fatalf("unexpected match value: %v", field.GetMatch())
	}
}

func TestBuildFilterPseudoFields(t *testing.T) {
	filter, err := buildFilter([]provider.Filter{
		provider.Eq("id", "doc-1"),
		provider.Eq("tags", "systems"),
	})
	if err != nil {
		t.Fatalf("buildFilter failed: %v", err)
	}
	if filter.Must[0].GetField().Key != payloadDocID {
		t.Fatalf("id should map to %s, got %q", payloadDocID, filter.Must[0].GetField().Key)
	}
	if filter.Must[1].GetField().Key != payloadTags {
		t.Fatalf("tags should map to %s, got %q", payloadTags, filter.Must[1].GetField().Key)
	}
}

func TestBuildFilterRange(t *testing.T) {
	filter, err := buildFilter([]provider.Filter{provider.Gt("views", 100)})
	if err != nil {
		t.Fatalf("buildFilter failed: %v", err)
	}

	rng := filter.Must[0].GetField().GetRange()
	if rng == nil {
		t.Fatal("expected a range condition")
	}
	if rng.Gt == nil || *rng.Gt != 100 {
		t.Fatalf("unexpected range: %+v", rng)
	}
}

func TestBuildFilterRangeRejectsNonNumeric(t *testing.T) {
	_, err := buildFilter([]provider.Filter{provider.Gt("views", "many")})
	if !errors.Is(err, provider.ErrInvalidFilter) {
		t.Fatalf("expected ErrInvalidFilter, got %v", err)
	}
}

func TestBuildFilterNotEqual(t *testing.T) {
	filter, err := buildFilter([]provider.Filter{provider.Neq("author", "ada")})
	if err != nil {
		t.Fatalf("buildFilter failed: %v", err)
	}

	nested := filter.Must[0].GetFilter()
	if nested == nil {
		t.Fatal("neq should produce a nested filter condition")
	}
	if len(nested.MustNot) != 1 {
		t.Fatalf("expected 1 must_not condition, got %d", len(nested.MustNot))
	}
}

func TestBuildFilterIn(t *testing.T) {
	filter, err := buildFilter([]provider.Filter{provider.In("author", []string{"ada", "lin"})})
	if err != nil {
		t.Fatalf("buildFilter failed: %v", err)
	}

	keywords := filter.Must[0].GetField().GetMatch().GetKeywords()
	if keywords == nil || len(keywords.Strings) != 2 {
		t.Fatalf("expected keywords match, got %v", filter.Must[0].GetField().GetMatch())
	}
}

func TestPointIDDeterministic(t *testing.T) {
	uuidPattern := regexp.MustCompile(`^[0-9a-f]{8}-[0-9a-f]{4}-4[0-9a-f]{3}-[89ab][0-9a-f]{3}-[0-9a-f]{12}$`)

	a := pointID("doc-1")
	b := pointID("doc-1")
	c := pointID("doc-2")

	if a != b {
		t.Fatal("pointID must be deterministic")
	}
	if a == c {
		t.Fatal("different documents must map to different points")
	}
	if !uuidPattern.MatchString(a) {
		t.Fatalf("not a valid v4-shaped UUID: %q", a)
	}
}

func TestPayloadRoundTrip(t *testing.T) {
	doc := provider.Document{
		ID:        "doc-1",
		Content:   "Distributed consensus with Raft",
		Fields:    map[string]interface{}{"author": "ada", "published": true},
		Tags:      []string{"systems", "consensus"},
		UpdatedAt: time.Date(2026, 3, 14, 9, 0, 0, 0, time.UTC),
	}

	payload := documentToPayload(doc)
	if payload[payloadDocID] != "doc-1" {
		t.Fatalf("unexpected doc_id: %v", payload[payloadDocID])
	}
	if payload[payloadUpdatedAt] != "2026-03-14T09:00:00Z" {
		t.Fatalf("unexpected updated_at: %v", payload[payloadUpdatedAt])
	}

	tags, ok := payload[payloadTags].([]any)
	if !ok || len(tags) != 2 {
		t.Fatalf("unexpected tags payload: %v", payload[payloadTags])
	}
}

func TestCollectionNameValidation(t *testing.T) {
	q := &Qdrant{cfg: Config{}.withDefaults()}

	name, err := q.collectionName("articles")
	if err != nil {
		t.Fatalf("collectionName failed: %v", err)
	}
	if name != "search_articles" {
		t.Fatalf("unexpected collection: %q", name)
	}

	if _, err := q.collectionName(""); !errors.Is(err, provider.ErrIndexRequired) {
		t.Fatalf("expected ErrIndexRequired, got %v", err)
	}
	if _, err := q.collectionName("bad name"); err == nil {
		t.Fatal("expected error for unsafe collection name")
	}
}
