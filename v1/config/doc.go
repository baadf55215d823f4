// Package config loads the smartsearch YAML configuration: one file
// describing the logger, metrics, tracer, database and cache providers,
// circuit breakers, health checks, governance policies, events, and the
// search core.
//
// # File format
//
//	logger:
//	  level: info
//	  service_name: smartsearch
//
//	database:
//	  type: postgres
//	  postgres:
//	    connection:
//	      host: ${POSTGRES_HOST:localhost}
//	      port: "5432"
//	      user: ${POSTGRES_USER}
//	      password: ${POSTGRES_PASSWORD}
//	      db_name: search
//
//	cache:
//	  type: redis
//	  redis:
//	    host: ${REDIS_HOST:localhost}
//	    port: 6379
//
//	search:
//	  default_strategy: auto
//	  cache_ttl: 5m
//
// Environment references of the form ${VAR} are expanded before parsing;
// ${VAR:fallback} substitutes the fallback when the variable is unset.
// Validation errors name the YAML field path that failed.
//
// # Usage
//
//	cfg, err := config.Load("config/production.yaml")
//	if err != nil {
//	    log.Fatal(err)
//	}
//
//	db, err := config.NewSearchProvider(cfg.Database)
//	cache, err := config.NewCacheProvider(cfg.Cache)
//
// or, with fx, supply the Config and let FXModule hand each package its
// section.
package config
