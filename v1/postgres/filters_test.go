package postgres

import (
	"errors"
	"strings"
	"testing"

	"github.com/samas-io/smartsearch/v1/provider"
)

func TestFilterSQLColumns(t *testing.T) {
	frag, args, err := filterSQL(provider.Eq("id", "doc-1"))
	if err != nil {
		t.Fatalf("filterSQL failed: %v", err)
	}
	if frag != "id = ?" {
		t.Fatalf("unexpected fragment: %q", frag)
	}
	if len(args) != 1 || args[0] != "doc-1" {
		t.Fatalf("unexpected args: %v", args)
	}
}

func TestFilterSQLJSONField(t *testing.T) {
	frag, args, err := filterSQL(provider.Eq("author", "ada"))
	if err != nil {
		t.Fatalf("filterSQL failed: %v", err)
	}
	if frag != "fields->>'author' = ?" {
		t.Fatalf("unexpected fragment: %q", frag)
	}
	if args[0] != "ada" {
		t.Fatalf("unexpected args: %v", args)
	}
}

func TestFilterSQLNumericComparison(t *testing.T) {
	frag, _, err := filterSQL(provider.Gt("views", 100))
	if err != nil {
		t.Fatalf("filterSQL failed: %v", err)
	}
	if !strings.Contains(frag, "::numeric") {
		t.Fatalf("numeric comparison should cast, got %q", frag)
	}
}

func TestFilterSQLTagMembership(t *testing.T) {
	frag, args, err := filterSQL(provider.Eq("tags", "go"))
	if err != nil {
		t.Fatalf("filterSQL failed: %v", err)
	}
	if frag != "tags @> ?::jsonb" {
		t.Fatalf("unexpected fragment: %q", frag)
	}
	if args[0] != `["go"]` {
		t.Fatalf("unexpected args: %v", args)
	}
}

func TestFilterSQLTagIn(t *testing.T) {
	frag, args, err := filterSQL(provider.In("tags", []string{"go", "db"}))
	if err != nil {
		t.Fatalf("filterSQL failed: %v", err)
	}
	if frag != "(tags @> ?::jsonb OR tags @> ?::jsonb)" {
		t.Fatalf("unexpected fragment: %q", frag)
	}
	if len(args) != 2 {
		t.Fatalf("unexpected args: %v", args)
	}
}

func TestFilterSQLRejectsBadField(t *testing.T) {
	_, _, err := filterSQL(provider.Eq("name'; DROP TABLE users; --", "x"))
	if !errors.Is(err, provider.ErrInvalidFilter) {
		t.Fatalf("expected ErrInvalidFilter, got %v", err)
	}
}

func TestSortSQL(t *testing.T) {
	expr, err := sortSQL("updated_at")
	if err != nil {
		t.Fatalf("sortSQL failed: %v", err)
	}
	if expr != "updated_at" {
		t.Fatalf("unexpected expr: %q", expr)
	}

	expr, err = sortSQL("views")
	if err != nil {
		t.Fatalf("sortSQL failed: %v", err)
	}
	if expr != "fields->>'views'" {
		t.Fatalf("unexpected expr: %q", expr)
	}

	if _, err := sortSQL("a b"); !errors.Is(err, provider.ErrInvalidFilter) {
		t.Fatalf("expected ErrInvalidFilter, got %v", err)
	}
}

func TestTableNameValidation(t *testing.T) {
	pg := &Postgres{cfg: Config{}.withDefaults()}

	table, err := pg.tableName("articles")
	if err != nil {
		t.Fatalf("tableName failed: %v", err)
	}
	if table != "search_articles" {
		t.Fatalf("unexpected table: %q", table)
	}

	if _, err := pg.tableName(""); !errors.Is(err, provider.ErrIndexRequired) {
		t.Fatalf("expected ErrIndexRequired, got %v", err)
	}
	if _, err := pg.tableName("bad name"); !IsInvalidIndexName(err) {
		t.Fatalf("expected ErrInvalidIndexName, got %v", err)
	}
}

func TestRecordRoundTrip(t *testing.T) {
	doc := provider.Document{
		ID:      "doc-1",
		Content: "the quick brown fox",
		Fields:  map[string]interface{}{"author": "ada"},
		Tags:    []string{"animals"},
	}

	row, err := toRecord(doc)
	if err != nil {
		t.Fatalf("toRecord failed: %v", err)
	}
	if row.UpdatedAt.IsZero() {
		t.Fatal("toRecord should default UpdatedAt")
	}

	got, err := row.toDocument()
	if err != nil {
		t.Fatalf("toDocument failed: %v", err)
	}
	if got.ID != doc.ID || got.Content != doc.Content {
		t.Fatalf("round trip mismatch: %+v", got)
	}
	if got.Fields["author"] != "ada" {
		t.Fatalf("fields lost in round trip: %+v", got.Fields)
	}
	if len(got.Tags) != 1 || got.Tags[0] != "animals" {
		t.Fatalf("tags lost in round trip: %+v", got.Tags)
	}
}

func TestToRecordRequiresID(t *testing.T) {
	_, err := toRecord(provider.Document{Content: "no id"})
	if err == nil {
		t.Fatal("expected error for missing id")
	}
}
