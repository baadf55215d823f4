package qdrant

import (
	"context"
	"errors"
	"testing"

	"github.com/samas-io/smartsearch/v1/provider"
)

func TestBuildPointsUsesDocumentVector(t *testing.T) {
	q := &Qdrant{cfg: Config{}.withDefaults()}

	docs := []provider.Document{
		{
			ID:      "doc-1",
			Content: "Distributed consensus with Raft",
			Fields:  map[string]interface{}{"vector": []float32{0.1, 0.2, 0.3}, "author": "ada"},
		},
		{
			ID:     "doc-2",
			Fields: map[string]interface{}{"vector": []interface{}{0.4, 0.5, 0.6}},
		},
	}

	points, err := q.buildPoints(context.Background(), "articles", docs)
	if err != nil {
		t.Fatalf("buildPoints failed: %v", err)
	}
	if len(points) != 2 {
		t.Fatalf("expected 2 points, got %d", len(points))
	}

	data := points[0].Vectors.GetVector().GetDense().GetData()
	if len(data) != 3 || data[0] != 0.1 {
		t.Fatalf("point vector should come from Fields[\"vector\"], got %v", data)
	}
	data = points[1].Vectors.GetVector().GetDense().GetData()
	if len(data) != 3 || data[2] != 0.6 {
		t.Fatalf("json-shaped vector should decode, got %v", data)
	}
}

func TestBuildPointsEmbedderFallback(t *testing.T) {
	var embedded []string
	q := &Qdrant{cfg: Config{}.withDefaults()}
	q.WithEmbedder(func(_ context.Context, text string) ([]float32, error) {
		embedded = append(embedded, text)
		return []float32{1, 2, 3}, nil
	})

	docs := []provider.Document{
		{ID: "doc-1", Content: "precomputed", Fields: map[string]interface{}{"vector": []float32{9, 9, 9}}},
		{ID: "doc-2", Content: "needs embedding"},
	}

	points, err := q.buildPoints(context.Background(), "articles", docs)
	if err != nil {
		t.Fatalf("buildPoints failed: %v", err)
	}
	if len(embedded) != 1 || embedded[0] != "needs embedding" {
		t.Fatalf("only documents without a vector should be embedded, got %v", embedded)
	}
	if data := points[0].Vectors.GetVector().GetDense().GetData(); data[0] != 9 {
		t.Fatalf("precomputed vector should win over the embedder, got %v", data)
	}
}

func TestBuildPointsRequiresVectorOrEmbedder(t *testing.T) {
	q := &Qdrant{cfg: Config{}.withDefaults()}

	_, err := q.buildPoints(context.Background(), "articles", []provider.Document{
		{ID: "doc-1", Content: "no vector anywhere"},
	})
	if !errors.Is(err, provider.ErrEmbedderRequired) {
		t.Fatalf("expected ErrEmbedderRequired, got %v", err)
	}
}

func TestBuildPointsRejectsMalformedVector(t *testing.T) {
	q := &Qdrant{cfg: Config{}.withDefaults()}

	_, err := q.buildPoints(context.Background(), "articles", []provider.Document{
		{ID: "doc-1", Fields: map[string]interface{}{"vector": "not a vector"}},
	})
	if err == nil {
		t.Fatal("expected error for malformed vector field")
	}
	if errors.Is(err, provider.ErrEmbedderRequired) {
		t.Fatalf("malformed vectors are their own error, got %v", err)
	}
}

func TestDocumentToPayloadStripsVector(t *testing.T) {
	payload := documentToPayload(provider.Document{
		ID:     "doc-1",
		Fields: map[string]interface{}{"vector": []float32{0.1}, "author": "ada"},
	})

	fields, ok := payload[payloadFields].(map[string]interface{})
	if !ok {
		t.Fatalf("expected nested fields payload, got %v", payload[payloadFields])
	}
	if _, present := fields["vector"]; present {
		t.Fatal("vector must not be stored in the payload")
	}
	if fields["author"] != "ada" {
		t.Fatalf("other fields should survive, got %v", fields)
	}
}
