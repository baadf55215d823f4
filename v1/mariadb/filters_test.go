package mariadb

import (
	"errors"
	"strings"
	"testing"

	"github.com/samas-io/smartsearch/v1/provider"
)

func TestFilterSQLJSONField(t *testing.T) {
	frag, args, err := filterSQL(provider.Eq("author", "ada"))
	if err != nil {
		t.Fatalf("filterSQL failed: %v", err)
	}
	if frag != "JSON_UNQUOTE(JSON_EXTRACT(fields, '$.author')) = ?" {
		t.Fatalf("unexpected fragment: %q", frag)
	}
	if args[0] != "ada" {
		t.Fatalf("unexpected args: %v", args)
	}
}

func TestFilterSQLNumericComparison(t *testing.T) {
	frag, _, err := filterSQL(provider.Gte("views", 10))
	if err != nil {
		t.Fatalf("filterSQL failed: %v", err)
	}
	if !strings.Contains(frag, "AS DECIMAL") {
		t.Fatalf("numeric comparison should cast, got %q", frag)
	}
}

func TestFilterSQLTagMembership(t *testing.T) {
	frag, args, err := filterSQL(provider.Eq("tags", "go"))
	if err != nil {
		t.Fatalf("filterSQL failed: %v", err)
	}
	if frag != "JSON_CONTAINS(tags, JSON_QUOTE(?))" {
		t.Fatalf("unexpected fragment: %q", frag)
	}
	if args[0] != "go" {
		t.Fatalf("unexpected args: %v", args)
	}
}

func TestFilterSQLRejectsBadField(t *testing.T) {
	_, _, err := filterSQL(provider.Eq("a' OR '1'='1", "x"))
	if !errors.Is(err, provider.ErrInvalidFilter) {
		t.Fatalf("expected ErrInvalidFilter, got %v", err)
	}
}

func TestTableNameValidation(t *testing.T) {
	m := &MariaDB{cfg: Config{}.withDefaults()}

	table, err := m.tableName("articles")
	if err != nil {
		t.Fatalf("tableName failed: %v", err)
	}
	if table != "search_articles" {
		t.Fatalf("unexpected table: %q", table)
	}

	if _, err := m.tableName(""); !errors.Is(err, provider.ErrIndexRequired) {
		t.Fatalf("expected ErrIndexRequired, got %v", err)
	}
	if _, err := m.tableName("bad;name"); !IsInvalidIndexName(err) {
		t.Fatalf("expected ErrInvalidIndexName, got %v", err)
	}
}

func TestSortSQL(t *testing.T) {
	expr, err := sortSQL("score")
	if err != nil {
		t.Fatalf("sortSQL failed: %v", err)
	}
	if expr != "score" {
		t.Fatalf("unexpected expr: %q", expr)
	}

	expr, err = sortSQL("rating")
	if err != nil {
		t.Fatalf("sortSQL failed: %v", err)
	}
	if expr != "JSON_UNQUOTE(JSON_EXTRACT(fields, '$.rating'))" {
		t.Fatalf("unexpected expr: %q", expr)
	}
}
