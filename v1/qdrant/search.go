package qdrant

import (
	"context"
	"crypto/sha256"
	"fmt"
	"slices"
	"time"

	qdrant "github.com/qdrant/go-client/qdrant"

	"github.com/samas-io/smartsearch/v1/provider"
)

// Payload keys. The original document ID lives in the payload because Qdrant
// point IDs are restricted to UUIDs and unsigned integers.
const (
	payloadDocID     = "doc_id"
	payloadContent   = "content"
	payloadTags      = "tags"
	payloadUpdatedAt = "updated_at"
	payloadFields    = "fields"
)

// fieldVector is the document field holding a caller-precomputed embedding.
// It is consumed as the point vector and never stored in the payload.
const fieldVector = "vector"

// EnsureIndex verifies if the backing collection exists, and creates it if
// missing. It is safe to call repeatedly.
func (q *Qdrant) EnsureIndex(ctx context.Context, index string) error {
	collection, err := q.collectionName(index)
	if err != nil {
		return err
	}

	collections, err := q.api.ListCollections(ctx)
	if err != nil {
		return fmt.Errorf("qdrant ensure index %q: list collections: %w", index, err)
	}
	if slices.Contains(collections, collection) {
		return nil
	}

	req := &qdrant.CreateCollection{
		CollectionName: collection,
		VectorsConfig: qdrant.NewVectorsConfig(&qdrant.VectorParams{
			Size:     q.cfg.VectorSize,
			Distance: qdrant.Distance_Cosine,
		}),
	}
	if err := q.api.CreateCollection(ctx, req); err != nil {
		return fmt.Errorf("qdrant ensure index %q: create collection: %w", index, err)
	}

	if q.cfg.Logger != nil {
		q.cfg.Logger.Info("created Qdrant collection", nil, map[string]interface{}{
			"collection": collection,
		})
	}
	return nil
}

// Search embeds the query and runs a similarity search against the index.
// Scores are cosine similarities in [0, 1]; MinScore maps directly onto the
// service's score threshold.
func (q *Qdrant) Search(ctx context.Context, index, query string, opts provider.SearchOptions) (*provider.SearchResponse, error) {
	start := time.Now()
	opts = opts.Normalize()

	collection, err := q.collectionName(index)
	if err != nil {
		return nil, err
	}
	if q.embedder == nil {
		return nil, provider.ErrEmbedderRequired
	}
	if err := provider.ValidateFilters(opts.Filters); err != nil {
		return nil, err
	}

	if opts.Timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, opts.Timeout)
		defer cancel()
	}

	vector, err := q.embedder(ctx, query)
	if err != nil {
		q.errs.Add(1)
		return nil, fmt.Errorf("qdrant search %q: embed query: %w", index, err)
	}

	filter, err := buildFilter(opts.Filters)
	if err != nil {
		return nil, err
	}

	limit := uint64(opts.Limit)
	offset := uint64(opts.Offset)
	req := &qdrant.QueryPoints{
		CollectionName: collection,
		Query:          qdrant.NewQuery(vector...),
		Limit:          &limit,
		Offset:         &offset,
		WithPayload:    qdrant.NewWithPayload(true),
		Filter:         filter,
	}
	if opts.MinScore > 0 {
		threshold := float32(opts.MinScore)
		req.ScoreThreshold = &threshold
	}

	points, err := q.api.Query(ctx, req)
	q.observe("search", index, time.Since(start), err, int64(len(points)))
	if err != nil {
		q.errs.Add(1)
		return nil, fmt.Errorf("qdrant search %q: %w", index, err)
	}
	q.searches.Add(1)

	results := make([]provider.SearchResult, 0, len(points))
	for _, point := range points {
		doc, err := payloadToDocument(point.GetPayload())
		if err != nil {
			return nil, fmt.Errorf("qdrant search %q: decode point: %w", index, err)
		}
		results = append(results, provider.SearchResult{
			Document: doc,
			Score:    float64(point.GetScore()),
			Provider: q.Name(),
		})
	}

	// Qdrant does not report a total match count; the best available figure
	// is the window we actually retrieved.
	return &provider.SearchResponse{
		Results:  results,
		Total:    int64(opts.Offset + len(results)),
		Took:     time.Since(start),
		Provider: q.Name(),
	}, nil
}

// Index upserts documents into the index, creating its collection on first
// use. The point vector comes from Document.Fields["vector"] when the caller
// precomputed one; otherwise doc.Content is embedded through the Embedder.
// Large batches are split into chunks to reduce request size.
func (q *Qdrant) Index(ctx context.Context, index string, docs []provider.Document) error {
	start := time.Now()
	collection, err := q.collectionName(index)
	if err != nil {
		return err
	}
	if len(docs) == 0 {
		return nil
	}

	points, err := q.buildPoints(ctx, index, docs)
	if err != nil {
		return err
	}
	if err := q.EnsureIndex(ctx, index); err != nil {
		return err
	}

	wait := true
	for chunkStart := 0; chunkStart < len(points); chunkStart += defaultBatchSize {
		chunkEnd := min(chunkStart+defaultBatchSize, len(points))
		req := &qdrant.UpsertPoints{
			CollectionName: collection,
			Points:         points[chunkStart:chunkEnd],
			Wait:           &wait,
		}
		if _, err := q.api.Upsert(ctx, req); err != nil {
			q.errs.Add(1)
			q.observe("index", index, time.Since(start), err, int64(len(docs)))
			return fmt.Errorf("qdrant index %q: upsert batch [%d:%d]: %w", index, chunkStart, chunkEnd, err)
		}
	}

	q.writes.Add(int64(len(docs)))
	q.observe("index", index, time.Since(start), nil, int64(len(docs)))
	return nil
}

// Delete removes documents by ID. Unknown IDs are ignored.
func (q *Qdrant) Delete(ctx context.Context, index string, ids []string) error {
	start := time.Now()
	collection, err := q.collectionName(index)
	if err != nil {
		return err
	}
	if len(ids) == 0 {
		return nil
	}

	pointIDs := make([]*qdrant.PointId, 0, len(ids))
	for _, id := range ids {
		pointIDs = append(pointIDs, qdrant.NewID(pointID(id)))
	}

	wait := true
	req := &qdrant.DeletePoints{
		CollectionName: collection,
		Points: &qdrant.PointsSelector{
			PointsSelectorOneOf: &qdrant.PointsSelector_Points{
				Points: &qdrant.PointsIdsList{Ids: pointIDs},
			},
		},
		Wait: &wait,
	}

	_, err = q.api.Delete(ctx, req)
	q.observe("delete", index, time.Since(start), err, int64(len(ids)))
	if err != nil {
		q.errs.Add(1)
		return fmt.Errorf("qdrant delete %q: %w", index, err)
	}
	q.writes.Add(int64(len(ids)))
	return nil
}

// buildPoints resolves each document's vector and payload. A precomputed
// vector in Fields["vector"] wins over the Embedder; documents with neither
// fail with ErrEmbedderRequired.
func (q *Qdrant) buildPoints(ctx context.Context, index string, docs []provider.Document) ([]*qdrant.PointStruct, error) {
	points := make([]*qdrant.PointStruct, 0, len(docs))
	for _, doc := range docs {
		if doc.ID == "" {
			return nil, fmt.Errorf("qdrant index %q: document id is required", index)
		}
		vector, ok, err := documentVector(doc)
		if err != nil {
			return nil, fmt.Errorf("qdrant index %q: document %q: %w", index, doc.ID, err)
		}
		if !ok {
			if q.embedder == nil {
				return nil, fmt.Errorf("qdrant index %q: document %q: %w", index, doc.ID, provider.ErrEmbedderRequired)
			}
			vector, err = q.embedder(ctx, doc.Content)
			if err != nil {
				return nil, fmt.Errorf("qdrant index %q: embed document %q: %w", index, doc.ID, err)
			}
		}
		points = append(points, &qdrant.PointStruct{
			Id:      qdrant.NewID(pointID(doc.ID)),
			Vectors: qdrant.NewVectors(vector...),
			Payload: qdrant.NewValueMap(documentToPayload(doc)),
		})
	}
	return points, nil
}

// documentVector extracts a precomputed embedding from Fields["vector"].
// Accepts []float32, []float64 and the []interface{} shape that JSON
// decoding produces. Returns ok=false when the field is absent.
func documentVector(doc provider.Document) ([]float32, bool, error) {
	raw, present := doc.Fields[fieldVector]
	if !present {
		return nil, false, nil
	}
	switch v := raw.(type) {
	case []float32:
		return v, true, nil
	case []float64:
		out := make([]float32, len(v))
		for i, f := range v {
			out[i] = float32(f)
		}
		return out, true, nil
	case []interface{}:
		out := make([]float32, len(v))
		for i, item := range v {
			switch f := item.(type) {
			case float64:
				out[i] = float32(f)
			case float32:
				out[i] = f
			case int:
				out[i] = float32(f)
			case int64:
				out[i] = float32(f)
			default:
				return nil, false, fmt.Errorf("vector element %d has unsupported type %T", i, item)
			}
		}
		return out, true, nil
	default:
		return nil, false, fmt.Errorf("vector field has unsupported type %T", raw)
	}
}

// pointID derives a deterministic UUID from a document ID so arbitrary string
// IDs satisfy Qdrant's point ID restrictions. The same document ID always
// maps to the same point, which makes upserts and deletes line up.
func pointID(docID string) string {
	sum := sha256.Sum256([]byte(docID))
	// Stamp version 4 and RFC 4122 variant bits over the digest.
	sum[6] = (sum[6] & 0x0f) | 0x40
	sum[8] = (sum[8] & 0x3f) | 0x80
	return fmt.Sprintf("%x-%x-%x-%x-%x", sum[0:4], sum[4:6], sum[6:8], sum[8:10], sum[10:16])
}

// documentToPayload flattens a document into a Qdrant payload map.
func documentToPayload(doc provider.Document) map[string]any {
	tags := make([]any, len(doc.Tags))
	for i, tag := range doc.Tags {
		tags[i] = tag
	}

	updatedAt := doc.UpdatedAt
	if updatedAt.IsZero() {
		updatedAt = time.Now()
	}

	payload := map[string]any{
		payloadDocID:     doc.ID,
		payloadContent:   doc.Content,
		payloadTags:      tags,
		payloadUpdatedAt: updatedAt.UTC().Format(time.RFC3339Nano),
	}
	fields := make(map[string]interface{}, len(doc.Fields))
	for k, v := range doc.Fields {
		if k == fieldVector {
			continue
		}
		fields[k] = v
	}
	if len(fields) > 0 {
		payload[payloadFields] = fields
	}
	return payload
}

// payloadToDocument reverses documentToPayload.
func payloadToDocument(payload map[string]*qdrant.Value) (provider.Document, error) {
	doc := provider.Document{
		ID:      payload[payloadDocID].GetStringValue(),
		Content: payload[payloadContent].GetStringValue(),
	}
	if doc.ID == "" {
		return doc, fmt.Errorf("payload is missing %s", payloadDocID)
	}

	if tagList := payload[payloadTags].GetListValue(); tagList != nil {
		for _, v := range tagList.GetValues() {
			doc.Tags = append(doc.Tags, v.GetStringValue())
		}
	}

	if raw := payload[payloadUpdatedAt].GetStringValue(); raw != "" {
		if ts, err := time.Parse(time.RFC3339Nano, raw); err == nil {
			doc.UpdatedAt = ts
		}
	}

	if fieldsValue := payload[payloadFields].GetStructValue(); fieldsValue != nil {
		doc.Fields = make(map[string]interface{}, len(fieldsValue.GetFields()))
		for k, v := range fieldsValue.GetFields() {
			doc.Fields[k] = valueToInterface(v)
		}
	}
	return doc, nil
}

func valueToInterface(v *qdrant.Value) interface{} {
	switch kind := v.GetKind().(type) {
	case *qdrant.Value_StringValue:
		return kind.StringValue
	case *qdrant.Value_IntegerValue:
		return kind.IntegerValue
	case *qdrant.Value_DoubleValue:
		return kind.DoubleValue
	case *qdrant.Value_BoolValue:
		return kind.BoolValue
	case *qdrant.Value_ListValue:
		values := kind.ListValue.GetValues()
		out := make([]interface{}, len(values))
		for i, item := range values {
			out[i] = valueToInterface(item)
		}
		return out
	case *qdrant.Value_StructValue:
		out := make(map[string]interface{}, len(kind.StructValue.GetFields()))
		for k, item := range kind.StructValue.GetFields() {
			out[k] = valueToInterface(item)
		}
		return out
	default:
		return nil
	}
}
