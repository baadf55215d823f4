package mariadb

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"gorm.io/gorm/clause"

	"github.com/samas-io/smartsearch/v1/provider"
)

// record is the row shape shared by every index table.
type record struct {
	ID        string    `gorm:"column:id;primaryKey"`
	Content   string    `gorm:"column:content"`
	Fields    []byte    `gorm:"column:fields"`
	Tags      []byte    `gorm:"column:tags"`
	UpdatedAt time.Time `gorm:"column:updated_at"`
}

type scanRow struct {
	record
	Score float64 `gorm:"column:score"`
}

// EnsureIndex creates the backing table and its FULLTEXT index if they do
// not exist yet. It is safe to call repeatedly.
func (m *MariaDB) EnsureIndex(ctx context.Context, index string) error {
	table, err := m.tableName(index)
	if err != nil {
		return err
	}

	ddl := fmt.Sprintf(`CREATE TABLE IF NOT EXISTS %s (
		id VARCHAR(255) PRIMARY KEY,
		content TEXT NOT NULL,
		fields JSON,
		tags JSON,
		updated_at DATETIME(6) NOT NULL,
		FULLTEXT INDEX %s_content_fts (content)
	) ENGINE=InnoDB`, table, table)

	if err := m.DB().WithContext(ctx).Exec(ddl).Error; err != nil {
		return fmt.Errorf("mariadb ensure index %q: %w", index, err)
	}
	return nil
}

// Search runs a natural-language full-text query against the index. When the
// full-text match finds nothing it falls back to a substring (LIKE) scan;
// fallback hits carry a zero score.
func (m *MariaDB) Search(ctx context.Context, index, query string, opts provider.SearchOptions) (*provider.SearchResponse, error) {
	start := time.Now()
	opts = opts.Normalize()

	table, err := m.tableName(index)
	if err != nil {
		return nil, err
	}
	if err := provider.ValidateFilters(opts.Filters); err != nil {
		return nil, err
	}

	if opts.Timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, opts.Timeout)
		defer cancel()
	}

	rows, total, err := m.runQuery(ctx, table, query, opts, false)
	if err == nil && len(rows) == 0 && query != "" {
		rows, total, err = m.runQuery(ctx, table, query, opts, true)
	}
	m.observe("search", index, time.Since(start), err, int64(len(rows)))
	if err != nil {
		m.errs.Add(1)
		return nil, fmt.Errorf("mariadb search %q: %w", index, err)
	}
	m.searches.Add(1)

	results := make([]provider.SearchResult, 0, len(rows))
	for _, row := range rows {
		if opts.MinScore > 0 && row.Score < opts.MinScore {
			continue
		}
		doc, err := row.record.toDocument()
		if err != nil {
			return nil, fmt.Errorf("mariadb search %q: decode row %q: %w", index, row.ID, err)
		}
		results = append(results, provider.SearchResult{
			Document: doc,
			Score:    row.Score,
			Provider: m.Name(),
		})
	}

	return &provider.SearchResponse{
		Results:  results,
		Total:    total,
		Took:     time.Since(start),
		Provider: m.Name(),
	}, nil
}

func (m *MariaDB) runQuery(ctx context.Context, table, query string, opts provider.SearchOptions, fallback bool) ([]scanRow, int64, error) {
	var (
		where []string
		args  []interface{}
		score = "0"
	)

	if query != "" {
		if fallback {
			where = append(where, "content LIKE CONCAT('%', ?, '%')")
			args = append(args, query)
		} else {
			where = append(where, "MATCH(content) AGAINST(? IN NATURAL LANGUAGE MODE)")
			args = append(args, query)
			score = "MATCH(content) AGAINST(? IN NATURAL LANGUAGE MODE)"
		}
	}

	for _, f := range opts.Filters {
		frag, fragArgs, err := filterSQL(f)
		if err != nil {
			return nil, 0, err
		}
		where = append(where, frag)
		args = append(args, fragArgs...)
	}

	whereClause := ""
	if len(where) > 0 {
		whereClause = " WHERE " + strings.Join(where, " AND ")
	}

	var total int64
	countSQL := "SELECT count(*) FROM " + table + whereClause
	if err := m.DB().WithContext(ctx).Raw(countSQL, args...).Scan(&total).Error; err != nil {
		return nil, 0, err
	}

	order := "score DESC, updated_at DESC"
	if opts.SortBy != "" {
		expr, err := sortSQL(opts.SortBy)
		if err != nil {
			return nil, 0, err
		}
		dir := "ASC"
		if opts.SortOrder == provider.SortDesc {
			dir = "DESC"
		}
		order = expr + " " + dir
	}

	selectArgs := args
	if !fallback && query != "" {
		// score expression repeats the query parameter ahead of the WHERE args
		selectArgs = append([]interface{}{query}, args...)
	}

	querySQL := fmt.Sprintf("SELECT id, content, fields, tags, updated_at, %s AS score FROM %s%s ORDER BY %s LIMIT %d OFFSET %d",
		score, table, whereClause, order, opts.Limit, opts.Offset)

	var rows []scanRow
	if err := m.DB().WithContext(ctx).Raw(querySQL, selectArgs...).Scan(&rows).Error; err != nil {
		return nil, 0, err
	}
	return rows, total, nil
}

// Index upserts documents into the index, creating its table on first use.
// On MySQL the conflict clause renders as ON DUPLICATE KEY UPDATE.
func (m *MariaDB) Index(ctx context.Context, index string, docs []provider.Document) error {
	start := time.Now()
	table, err := m.tableName(index)
	if err != nil {
		return err
	}
	if len(docs) == 0 {
		return nil
	}
	if err := m.EnsureIndex(ctx, index); err != nil {
		return err
	}

	rows := make([]record, 0, len(docs))
	for _, doc := range docs {
		row, err := toRecord(doc)
		if err != nil {
			return fmt.Errorf("mariadb index %q: document %q: %w", index, doc.ID, err)
		}
		rows = append(rows, row)
	}

	err = m.DB().WithContext(ctx).
		Table(table).
		Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "id"}},
			DoUpdates: clause.AssignmentColumns([]string{"content", "fields", "tags", "updated_at"}),
		}).
		Create(&rows).Error

	m.observe("index", index, time.Since(start), err, int64(len(docs)))
	if err != nil {
		m.errs.Add(1)
		return fmt.Errorf("mariadb index %q: %w", index, err)
	}
	m.writes.Add(int64(len(docs)))
	return nil
}

// Delete removes documents by ID. Unknown IDs are ignored.
func (m *MariaDB) Delete(ctx context.Context, index string, ids []string) error {
	start := time.Now()
	table, err := m.tableName(index)
	if err != nil {
		return err
	}
	if len(ids) == 0 {
		return nil
	}

	err = m.DB().WithContext(ctx).
		Table(table).
		Where("id IN ?", ids).
		Delete(&record{}).Error

	m.observe("delete", index, time.Since(start), err, int64(len(ids)))
	if err != nil {
		m.errs.Add(1)
		return fmt.Errorf("mariadb delete %q: %w", index, err)
	}
	m.writes.Add(int64(len(ids)))
	return nil
}

// Suggest returns up to limit distinct document contents starting with prefix.
func (m *MariaDB) Suggest(ctx context.Context, index, prefix string, limit int) ([]string, error) {
	table, err := m.tableName(index)
	if err != nil {
		return nil, err
	}
	if limit <= 0 {
		limit = provider.DefaultLimit
	}

	var suggestions []string
	err = m.DB().WithContext(ctx).
		Raw(fmt.Sprintf("SELECT DISTINCT content FROM %s WHERE content LIKE CONCAT(?, '%%') ORDER BY content LIMIT %d", table, limit), prefix).
		Scan(&suggestions).Error
	if err != nil {
		return nil, fmt.Errorf("mariadb suggest %q: %w", index, err)
	}
	return suggestions, nil
}

func toRecord(doc provider.Document) (record, error) {
	if doc.ID == "" {
		return record{}, fmt.Errorf("document id is required")
	}
	fields := doc.Fields
	if fields == nil {
		fields = map[string]interface{}{}
	}
	fieldsJSON, err := json.Marshal(fields)
	if err != nil {
		return record{}, err
	}
	tags := doc.Tags
	if tags == nil {
		tags = []string{}
	}
	tagsJSON, err := json.Marshal(tags)
	if err != nil {
		return record{}, err
	}
	updatedAt := doc.UpdatedAt
	if updatedAt.IsZero() {
		updatedAt = time.Now()
	}
	return record{
		ID:        doc.ID,
		Content:   doc.Content,
		Fields:    fieldsJSON,
		Tags:      tagsJSON,
		UpdatedAt: updatedAt,
	}, nil
}

func (r record) toDocument() (provider.Document, error) {
	doc := provider.Document{
		ID:        r.ID,
		Content:   r.Content,
		UpdatedAt: r.UpdatedAt,
	}
	if len(r.Fields) > 0 {
		if err := json.Unmarshal(r.Fields, &doc.Fields); err != nil {
			return doc, err
		}
	}
	if len(r.Tags) > 0 {
		if err := json.Unmarshal(r.Tags, &doc.Tags); err != nil {
			return doc, err
		}
	}
	return doc, nil
}
