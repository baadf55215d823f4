package postgres

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
	Fields    []byte    `gorm:"column:fields;type:jsonb"`
	Tags      []byte    `gorm:"column:tags;type:jsonb"`
	UpdatedAt time.Time `gorm:"column:updated_at"`
}

// scanRow is record plus the computed relevance score.
type scanRow struct {
	record
	Score float64 `gorm:"column:score"`
}

// EnsureIndex creates the backing table and its full-text expression index if
// they do not exist yet. It is safe to call repeatedly.
func (p *Postgres) EnsureIndex(ctx context.Context, index string) error {
	table, err := p.tableName(index)
	if err != nil {
		return err
	}

	ddl := []string{
		fmt.Sprintf(`CREATE TABLE IF NOT EXISTS %s (
			id TEXT PRIMARY KEY,
			content TEXT NOT NULL DEFAULT '',
			fields JSONB NOT NULL DEFAULT '{}',
			tags JSONB NOT NULL DEFAULT '[]',
			updated_at TIMESTAMPTZ NOT NULL DEFAULT now()
		)`, table),
		fmt.Sprintf(`CREATE INDEX IF NOT EXISTS %s_content_fts ON %s USING GIN (to_tsvector('%s', content))`,
			table, table, p.cfg.Language),
		fmt.Sprintf(`CREATE INDEX IF NOT EXISTS %s_tags ON %s USING GIN (tags)`, table, table),
	}
	for _, stmt := range ddl {
		if err := p.DB().WithContext(ctx).Exec(stmt).Error; err != nil {
			return fmt.Errorf("postgres ensure index %q: %w", index, err)
		}
	}
	return nil
}

// Search runs a ranked full-text query against the index. When the full-text
// match finds nothing it falls back to a substring (ILIKE) scan so short or
// partial queries still return results; fallback hits carry a zero score.
func (p *Postgres) Search(ctx context.Context, index, query string, opts provider.SearchOptions) (*provider.SearchResponse, error) {
	start := time.Now()
	opts = opts.Normalize()

	table, err := p.tableName(index)
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

	rows, total, err := p.runQuery(ctx, table, query, opts, false)
	if err == nil && len(rows) == 0 && query != "" {
		rows, total, err = p.runQuery(ctx, table, query, opts, true)
	}
	p.observe("search", index, time.Since(start), err, int64(len(rows)))
	if err != nil {
		p.errs.Add(1)
		return nil, fmt.Errorf("postgres search %q: %w", index, err)
	}
	p.searches.Add(1)

	results := make([]provider.SearchResult, 0, len(rows))
	for _, row := range rows {
		if opts.MinScore > 0 && row.Score < opts.MinScore {
			continue
		}
		doc, err := row.record.toDocument()
		if err != nil {
			return nil, fmt.Errorf("postgres search %q: decode row %q: %w", index, row.ID, err)
		}
		results = append(results, provider.SearchResult{
			Document: doc,
			Score:    row.Score,
			Provider: p.Name(),
		})
	}

	return &provider.SearchResponse{
		Results:  results,
		Total:    total,
		Took:     time.Since(start),
		Provider: p.Name(),
	}, nil
}

// runQuery executes either the ranked tsquery search or the ILIKE fallback.
func (p *Postgres) runQuery(ctx context.Context, table, query string, opts provider.SearchOptions, fallback bool) ([]scanRow, int64, error) {
	var (
		where []string
		args  []interface{}
		score = "0::float8"
	)

	if query != "" {
		if fallback {
			where = append(where, "content ILIKE '%' || ? || '%'")
			args = append(args, query)
		} else {
			lang := p.cfg.Language
			where = append(where, fmt.Sprintf("to_tsvector('%s', content) @@ plainto_tsquery('%s', ?)", lang, lang))
			args = append(args, query)
			score = fmt.Sprintf("ts_rank(to_tsvector('%s', content), plainto_tsquery('%s', ?))", lang, lang)
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
	if err := p.DB().WithContext(ctx).Raw(countSQL, args...).Scan(&total).Error; err != nil {
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
	if err := p.DB().WithContext(ctx).Raw(querySQL, selectArgs...).Scan(&rows).Error; err != nil {
		return nil, 0, err
	}
	return rows, total, nil
}

// Index upserts documents into the index, creating its table on first use.
func (p *Postgres) Index(ctx context.Context, index string, docs []provider.Document) error {
	start := time.Now()
	table, err := p.tableName(index)
	if err != nil {
		return err
	}
	if len(docs) == 0 {
		return nil
	}
	if err := p.EnsureIndex(ctx, index); err != nil {
		return err
	}

	rows := make([]record, 0, len(docs))
	for _, doc := range docs {
		row, err := toRecord(doc)
		if err != nil {
			return fmt.Errorf("postgres index %q: document %q: %w", index, doc.ID, err)
		}
		rows = append(rows, row)
	}

	err = p.DB().WithContext(ctx).
		Table(table).
		Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "id"}},
			DoUpdates: clause.AssignmentColumns([]string{"content", "fields", "tags", "updated_at"}),
		}).
		Create(&rows).Error

	p.observe("index", index, time.Since(start), err, int64(len(docs)))
	if err != nil {
		p.errs.Add(1)
		return fmt.Errorf("postgres index %q: %w", index, err)
	}
	p.writes.Add(int64(len(docs)))
	return nil
}

// Delete removes documents by ID. Unknown IDs are ignored.
func (p *Postgres) Delete(ctx context.Context, index string, ids []string) error {
	start := time.Now()
	table, err := p.tableName(index)
	if err != nil {
		return err
	}
	if len(ids) == 0 {
		return nil
	}

	err = p.DB().WithContext(ctx).
		Table(table).
		Where("id IN ?", ids).
		Delete(&record{}).Error

	p.observe("delete", index, time.Since(start), err, int64(len(ids)))
	if err != nil {
		p.errs.Add(1)
		return fmt.Errorf("postgres delete %q: %w", index, err)
	}
	p.writes.Add(int64(len(ids)))
	return nil
}

// Suggest returns up to limit distinct document contents starting with prefix.
func (p *Postgres) Suggest(ctx context.Context, index, prefix string, limit int) ([]string, error) {
	table, err := p.tableName(index)
	if err != nil {
		return nil, err
	}
	if limit <= 0 {
		limit = provider.DefaultLimit
	}

	var suggestions []string
	err = p.DB().WithContext(ctx).
		Raw(fmt.Sprintf("SELECT DISTINCT content FROM %s WHERE content ILIKE ? || '%%' ORDER BY content LIMIT %d", table, limit), prefix).
		Scan(&suggestions).Error
	if err != nil {
		return nil, fmt.Errorf("postgres suggest %q: %w", index, err)
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
