package main

import (
	"context"
	"fmt"
	"os"

	"taskflow/internal/api"
	"taskflow/internal/config"
	"taskflow/internal/hints"
	"taskflow/internal/services"
	"taskflow/internal/store"
	"taskflow/internal/store/memory"
	"taskflow/internal/store/postgres"
	"taskflow/internal/store/sqlite"
	"taskflow/internal/timer"
)

// StoreFactory creates the task store and hint store selected by the
// configuration
type StoreFactory struct {
	cfg *config.Config
}

// NewStoreFactory creates a new store factory for the given configuration
func NewStoreFactory(cfg *config.Config) *StoreFactory {
	return &StoreFactory{cfg: cfg}
}

// CreateStore opens the configured task store backing
func (sf *StoreFactory) CreateStore(ctx context.Context) (store.Store, error) {
	switch sf.cfg.Store.Backend {
	case config.BackendMemory:
		return sf.createMemoryStore(), nil
	case config.BackendPostgres:
		return sf.createPostgresStore(ctx)
	default:
		return sf.createSQLiteStore()
	}
}

// createMemoryStore creates a store that lives as long as the process.
// The configured latency is simulated on every call.
func (sf *StoreFactory) createMemoryStore() store.Store {
	return memory.New(memory.WithLatency(sf.cfg.Store.Latency))
}

// createSQLiteStore opens the local database file, creating its directory
func (sf *StoreFactory) createSQLiteStore() (store.Store, error) {
	if err := os.MkdirAll(sf.cfg.Store.Dir, os.FileMode(sf.cfg.Store.DirPermissions)); err != nil {
		return nil, fmt.Errorf("failed to create store directory: %w", err)
	}
	s, err := sqlite.New(sf.cfg.GetDatabasePath())
	if err != nil {
		return nil, fmt.Errorf("failed to initialize sqlite store: %w", err)
	}
	return s, nil
}

// createPostgresStore connects to the configured database
func (sf *StoreFactory) createPostgresStore(ctx context.Context) (store.Store, error) {
	ctx, cancel := context.WithTimeout(ctx, sf.cfg.Store.Timeout)
	defer cancel()

	s, err := postgres.Open(ctx, sf.cfg.Store.PostgresDSN)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize postgres store: %w", err)
	}
	return s, nil
}

// CreateHints opens the recovery hint store. Hints are kept next to the
// sqlite database; disabled hints are never written.
func (sf *StoreFactory) CreateHints() (hints.Store, error) {
	if !sf.cfg.Hints.Enabled {
		return hints.Nop{}, nil
	}
	if sf.cfg.Store.Backend == config.BackendMemory {
		return hints.NewMemoryStore(), nil
	}
	if err := os.MkdirAll(sf.cfg.Store.Dir, os.FileMode(sf.cfg.Store.DirPermissions)); err != nil {
		return nil, fmt.Errorf("failed to create hints directory: %w", err)
	}
	return hints.NewSQLiteStore(sf.cfg.GetHintsPath())
}

// OpenAPI wires the stores, timer engine and services into the business
// API. The returned function closes both stores.
func OpenAPI(ctx context.Context, cfg *config.Config) (api.BusinessAPI, func() error, error) {
	factory := NewStoreFactory(cfg)

	taskStore, err := factory.CreateStore(ctx)
	if err != nil {
		return nil, nil, err
	}
	hintStore, err := factory.CreateHints()
	if err != nil {
		taskStore.Close()
		return nil, nil, err
	}

	policy, ok := timer.ParseResumePolicy(cfg.Timer.ResumeAfterStop)
	if !ok {
		taskStore.Close()
		hintStore.Close()
		return nil, nil, fmt.Errorf("unknown resume policy %q", cfg.Timer.ResumeAfterStop)
	}

	engine := timer.NewEngine(taskStore, hintStore,
		timer.WithResumePolicy(policy),
		timer.WithStoreTimeout(cfg.Store.Timeout),
	)
	container := services.NewServiceContainer(taskStore, cfg, nil)

	closeFn := func() error {
		hintErr := hintStore.Close()
		if err := taskStore.Close(); err != nil {
			return err
		}
		return hintErr
	}
	return api.NewBusinessAPI(container, engine), closeFn, nil
}
