package redis

import (
	"context"

	"go.uber.org/fx"
)

// FXModule is an fx.Module that provides the Redis cache provider.
// This module registers the client with the Fx dependency injection
// framework, exposing both the concrete *RedisClient and the Client
// interface.
//
// Usage:
//
//	app := fx.New(
//	    redis.FXModule,
//	    fx.Provide(func() redis.Config { return loadRedisConfig() }),
//	    // other modules...
//	)
var FXModule = fx.Module("redis",
	fx.Provide(
		NewClientWithDI,
		fx.Annotate(
			ProvideClient,
			fx.As(new(Client)),
		),
	),
	fx.Invoke(RegisterRedisLifecycle),
)

// ProvideClient wraps the concrete *RedisClient and returns it as the Client
// interface so applications can depend on the abstraction.
func ProvideClient(r *RedisClient) Client {
	return r
}

// RedisParams groups the dependencies needed to create a Redis cache provider.
type RedisParams struct {
	fx.In

	Config Config
	Logger Logger `optional:"true"` // Optional logger from v1/logger
}

// NewClientWithDI creates a new Redis cache provider using dependency
// injection. The optional logger is injected into the config before
// delegating to NewClient.
func NewClientWithDI(params RedisParams) (*RedisClient, error) {
	if params.Logger != nil {
		params.Config.Logger = params.Logger
	}
	return NewClient(params.Config)
}

// RedisLifecycleParams groups the dependencies for lifecycle management.
type RedisLifecycleParams struct {
	fx.In

	Lifecycle fx.Lifecycle
	Client    *RedisClient
}

// RegisterRedisLifecycle registers the cache provider with the fx lifecycle:
// on start it pings Redis to ensure the connection is healthy, on stop it
// closes the client.
func RegisterRedisLifecycle(params RedisLifecycleParams) {
	params.Lifecycle.Append(fx.Hook{
		OnStart: func(ctx context.Context) error {
			return params.Client.Ping(ctx)
		},
		OnStop: func(ctx context.Context) error {
			return params.Client.Close()
		},
	})
}

// ClusterFXModule is an fx.Module for Redis Cluster configuration.
var ClusterFXModule = fx.Module("redis-cluster",
	fx.Provide(
		NewClusterClientWithDI,
		fx.Annotate(
			ProvideClient,
			fx.As(new(Client)),
		),
	),
	fx.Invoke(RegisterRedisLifecycle),
)

// ClusterRedisParams groups the dependencies for a Redis Cluster provider.
type ClusterRedisParams struct {
	fx.In

	Config ClusterConfig
	Logger Logger `optional:"true"`
}

// NewClusterClientWithDI creates a Redis Cluster cache provider using
// dependency injection.
func NewClusterClientWithDI(params ClusterRedisParams) (*RedisClient, error) {
	if params.Logger != nil {
		params.Config.Logger = params.Logger
	}
	return NewClusterClient(params.Config)
}

// FailoverFXModule is an fx.Module for Redis Sentinel (failover) configuration.
var FailoverFXModule = fx.Module("redis-failover",
	fx.Provide(
		NewFailoverClientWithDI,
		fx.Annotate(
			ProvideClient,
			fx.As(new(Client)),
		),
	),
	fx.Invoke(RegisterRedisLifecycle),
)

// FailoverRedisParams groups the dependencies for a Redis Sentinel provider.
type FailoverRedisParams struct {
	fx.In

	Config FailoverConfig
	Logger Logger `optional:"true"`
}

// NewFailoverClientWithDI creates a Redis Sentinel cache provider using
// dependency injection.
func NewFailoverClientWithDI(params FailoverRedisParams) (*RedisClient, error) {
	if params.Logger != nil {
		params.Config.Logger = params.Logger
	}
	return NewFailoverClient(params.Config)
}
