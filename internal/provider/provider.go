// Package provider picks the storage backend once at startup. The returned
// Provider is immutable and is passed down to every service.
package provider

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/tinoosan/fanbase/internal/config"
	"github.com/tinoosan/fanbase/internal/fixture"
	"github.com/tinoosan/fanbase/internal/repository"
	"github.com/tinoosan/fanbase/internal/storage/memory"
	"github.com/tinoosan/fanbase/internal/storage/remote"
)

// Kind names the backend a Provider wraps.
type Kind string

const (
	KindMemory   Kind = "memory"
	KindPostgres Kind = "postgres"
	KindSQLite   Kind = "sqlite"
)

// Provider is a repository.Backend plus the lifecycle hooks the process needs.
type Provider struct {
	repository.Backend
	kind  Kind
	ready func(context.Context) error
	close func()
}

// Kind reports the selected backend.
func (p *Provider) Kind() Kind { return p.kind }

// Ready checks that the backend can serve requests.
func (p *Provider) Ready(ctx context.Context) error { return p.ready(ctx) }

// Close releases connections. It is safe to call more than once.
func (p *Provider) Close() {
	if p.close != nil {
		p.close()
		p.close = nil
	}
}

// Memory wraps a fixture store loaded with ds.
func Memory(ds fixture.Dataset) *Provider {
	store := memory.New()
	store.Load(ds)
	return &Provider{Backend: store, kind: KindMemory, ready: store.Ready}
}

// New builds the backend cfg selects. With UseMockData the fixture backend is
// used; otherwise the relational backend for cfg.DatabaseDriver.
func New(ctx context.Context, cfg *config.Config, logger *slog.Logger) (*Provider, error) {
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	if cfg.UseMockData {
		logger.Info("storage backend: memory")
		return Memory(fixture.Default()), nil
	}

	opts := remote.Options{Tracing: cfg.Tracing, Logger: logger}
	var (
		store *remote.Store
		kind  Kind
		err   error
	)
	switch cfg.DatabaseDriver {
	case config.DriverSQLite:
		store, err = remote.OpenSQLite(cfg.DatabaseURL, opts)
		kind = KindSQLite
	default:
		store, err = remote.Open(ctx, cfg.DatabaseURL, opts)
		kind = KindPostgres
	}
	if err != nil {
		return nil, fmt.Errorf("open %s: %w", kind, err)
	}
	p := &Provider{Backend: store, kind: kind, ready: store.Ready, close: store.Close}

	// sqlite files are always local and get their schema on open.
	if kind == KindSQLite || cfg.DevSeed {
		if err := store.AutoMigrate(ctx); err != nil {
			p.Close()
			return nil, err
		}
	}
	if cfg.DevSeed {
		seeded, err := Seed(ctx, store)
		if err != nil {
			p.Close()
			return nil, fmt.Errorf("dev seed: %w", err)
		}
		if seeded {
			logger.Info("dev seed loaded", "backend", kind)
		}
	}
	logger.Info("storage backend: "+string(kind), "tracing", cfg.Tracing)
	return p, nil
}

// Seed loads the fixture dataset into an empty store. A store that already
// has profiles is left alone.
func Seed(ctx context.Context, store *remote.Store) (bool, error) {
	existing, err := store.Profiles().FindAll(ctx)
	if err != nil {
		return false, err
	}
	if len(existing) > 0 {
		return false, nil
	}
	if err := store.Load(ctx, fixture.Default()); err != nil {
		return false, err
	}
	return true, nil
}
