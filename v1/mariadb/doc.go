// Package mariadb provides a full-text search provider backed by
// MariaDB/MySQL.
//
// Each search index maps to one InnoDB table named TablePrefix + index with a
// fixed row shape (id, content, fields JSON, tags JSON, updated_at) and a
// FULLTEXT index over the content column. Queries run in natural language
// mode; when the full-text match yields nothing, the provider falls back to
// a LIKE substring scan.
//
// The provider mirrors the postgres package's contract, so applications can
// switch between the two through configuration alone.
package mariadb
