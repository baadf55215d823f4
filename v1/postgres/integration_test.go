package postgres

import (
	"context"
	"testing"
	"time"

	"github.com/docker/go-connections/nat"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/testcontainers/testcontainers-go"
	"github.com/testcontainers/testcontainers-go/wait"
	"go.uber.org/fx"

	"github.com/samas-io/smartsearch/v1/provider"
)

// initializePostgres starts a throwaway PostgreSQL container and returns its
// host/port.
func initializePostgres(ctx context.Context, t *testing.T) (string, string, testcontainers.Container) {
	t.Helper()

	req := testcontainers.ContainerRequest{
		Image:        "postgres:16-alpine",
		ExposedPorts: []string{"5432/tcp"},
		Env: map[string]string{
			"POSTGRES_USER":     "search",
			"POSTGRES_PASSWORD": "search",
			"POSTGRES_DB":       "search",
		},
		WaitingFor: wait.ForListeningPort(nat.Port("5432/tcp")).WithStartupTimeout(60 * time.Second),
	}
	containerInstance, err := testcontainers.GenericContainer(ctx, testcontainers.GenericContainerRequest{
		ContainerRequest: req,
		Started:          true,
	})
	require.NoError(t, err)

	host, err := containerInstance.Host(ctx)
	require.NoError(t, err)
	mapped, err := containerInstance.MappedPort(ctx, nat.Port("5432/tcp"))
	require.NoError(t, err)

	return host, mapped.Port(), containerInstance
}

// TestPostgresSearchProvider verifies the search provider contract end to end
// against a real PostgreSQL.
func TestPostgresSearchProvider(t *testing.T) {
	if testing.Short() {
		t.Skip("Skipping integration test in short mode")
	}

	ctx := context.Background()

	host, port, containerInstance := initializePostgres(ctx, t)
	defer func() {
		if err := containerInstance.Terminate(ctx); err != nil {
			t.Logf("failed to terminate container: %v", err)
		}
	}()

	var pg *Postgres

	cfg := Config{
		Connection: Connection{
			Host:     host,
			Port:     port,
			User:     "search",
			Password: "search",
			DbName:   "search",
		},
	}

	app := fx.New(
		FXModule,
		fx.Provide(
			func() Config { return cfg },
		),
		fx.Populate(&pg),
	)

	require.NoError(t, app.Start(ctx))
	defer app.Stop(ctx)

	docs := []provider.Document{
		{
			ID:      "doc-1",
			Content: "Distributed consensus with Raft",
			Fields:  map[string]interface{}{"author": "ada", "views": 250},
			Tags:    []string{"systems"},
		},
		{
			ID:      "doc-2",
			Content: "Caching strategies for search workloads",
			Fields:  map[string]interface{}{"author": "lin", "views": 90},
			Tags:    []string{"caching", "systems"},
		},
		{
			ID:      "doc-3",
			Content: "A field guide to garden birds",
			Fields:  map[string]interface{}{"author": "ada", "views": 10},
			Tags:    []string{"nature"},
		},
	}

	t.Run("Index and Search", func(t *testing.T) {
		require.NoError(t, pg.Index(ctx, "articles", docs))

		resp, err := pg.Search(ctx, "articles", "consensus", provider.SearchOptions{})
		require.NoError(t, err)
		require.Len(t, resp.Results, 1)
		assert.Equal(t, "doc-1", resp.Results[0].Document.ID)
		assert.Greater(t, resp.Results[0].Score, 0.0)
		assert.Equal(t, "postgres", resp.Provider)
	})

	t.Run("Substring fallback", func(t *testing.T) {
		// "consen" is not a full word, so the tsquery match finds nothing
		resp, err := pg.Search(ctx, "articles", "consen", provider.SearchOptions{})
		require.NoError(t, err)
		require.Len(t, resp.Results, 1)
		assert.Equal(t, "doc-1", resp.Results[0].Document.ID)
	})

	t.Run("Filters", func(t *testing.T) {
		resp, err := pg.Search(ctx, "articles", "", provider.SearchOptions{
			Filters: []provider.Filter{provider.Eq("author", "ada")},
			SortBy:  "id",
		})
		require.NoError(t, err)
		require.Len(t, resp.Results, 2)

		resp, err = pg.Search(ctx, "articles", "", provider.SearchOptions{
			Filters: []provider.Filter{provider.Gt("views", 100)},
		})
		require.NoError(t, err)
		require.Len(t, resp.Results, 1)
		assert.Equal(t, "doc-1", resp.Results[0].Document.ID)

		resp, err = pg.Search(ctx, "articles", "", provider.SearchOptions{
			Filters: []provider.Filter{provider.Eq("tags", "systems")},
		})
		require.NoError(t, err)
		require.Len(t, resp.Results, 2)
	})

	t.Run("Upsert", func(t *testing.T) {
		updated := docs[0]
		updated.Content = "Distributed consensus with Paxos"
		require.NoError(t, pg.Index(ctx, "articles", []provider.Document{updated}))

		resp, err := pg.Search(ctx, "articles", "Paxos", provider.SearchOptions{})
		require.NoError(t, err)
		require.Len(t, resp.Results, 1)
		assert.Equal(t, "doc-1", resp.Results[0].Document.ID)
	})

	t.Run("Pagination", func(t *testing.T) {
		resp, err := pg.Search(ctx, "articles", "", provider.SearchOptions{
			Limit:  2,
			SortBy: "id",
		})
		require.NoError(t, err)
		assert.Len(t, resp.Results, 2)
		assert.Equal(t, int64(3), resp.Total)

		resp, err = pg.Search(ctx, "articles", "", provider.SearchOptions{
			Limit:  2,
			Offset: 2,
			SortBy: "id",
		})
		require.NoError(t, err)
		assert.Len(t, resp.Results, 1)
	})

	t.Run("Suggest", func(t *testing.T) {
		suggestions, err := pg.Suggest(ctx, "articles", "Caching", 5)
		require.NoError(t, err)
		require.Len(t, suggestions, 1)
		assert.Contains(t, suggestions[0], "Caching strategies")
	})

	t.Run("Delete", func(t *testing.T) {
		require.NoError(t, pg.Delete(ctx, "articles", []string{"doc-3"}))

		resp, err := pg.Search(ctx, "articles", "", provider.SearchOptions{})
		require.NoError(t, err)
		assert.Equal(t, int64(2), resp.Total)
	})

	t.Run("Health check", func(t *testing.T) {
		status := pg.HealthCheck(ctx)
		assert.True(t, status.Healthy)
		assert.NotZero(t, status.Latency)
	})

	t.Run("Stats", func(t *testing.T) {
		stats := pg.Stats()
		assert.Greater(t, stats.Searches, int64(0))
		assert.Greater(t, stats.Writes, int64(0))
	})
}
