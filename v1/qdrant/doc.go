// Package qdrant provides a semantic search provider backed by a Qdrant
// vector database.
//
// Unlike the postgres and mariadb providers, which rank by term overlap,
// this provider embeds every document and query through a configurable
// Embedder and matches by cosine similarity, so results reflect meaning
// rather than exact words. Scores fall in [0, 1].
//
// # Architecture
//
// Each search index maps to one collection named CollectionPrefix + index.
// Qdrant restricts point IDs to UUIDs and unsigned integers, so the provider
// derives a deterministic UUID from each document ID and keeps the original
// ID in the payload. Collections are created lazily on first write with the
// configured vector size and cosine distance.
//
// # Direct Usage
//
//	q, err := qdrant.NewQdrant(qdrant.Config{Endpoint: "localhost"})
//	if err != nil {
//	    return err
//	}
//	q = q.WithEmbedder(myEmbedder)
//	defer q.Close()
//
//	resp, err := q.Search(ctx, "articles", "how do raft leaders get elected", provider.SearchOptions{Limit: 10})
//
// Documents carrying a precomputed embedding in Fields["vector"] are stored
// as-is; the Embedder only runs for documents without one. Searching, or
// indexing a document with neither a vector nor an Embedder, returns
// provider.ErrEmbedderRequired.
//
// # FX Module Integration
//
//	app := fx.New(
//	    fx.Provide(func() qdrant.Config { return loadConfig() }),
//	    fx.Provide(func() qdrant.Embedder { return myEmbedder }),
//	    qdrant.FXModule,
//	)
package qdrant
