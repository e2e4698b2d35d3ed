package store

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/sangkips/kitchen-inventory-api/internal/domain/entity"
	"github.com/sangkips/kitchen-inventory-api/internal/domain/repository"
	"github.com/sangkips/kitchen-inventory-api/internal/logger"
	"github.com/sirupsen/logrus"
)

const defaultSyncTimeout = 5 * time.Second

// Context is every store the engines share. It is built once at startup and
// passed to each service; Load seeds it and Flush persists it on shutdown.
type Context struct {
	StockItems  *Store[entity.StockItem]
	GRVs        *Store[entity.GRV]
	StockIssues *Store[entity.StockIssueLine]
	Recipes     *Store[entity.Recipe]
	Batches     *Store[entity.BatchProduction]
	StockTakes  *Store[entity.StockTakeSession]

	logger      *logrus.Logger
	syncTimeout time.Duration

	mu       sync.Mutex
	bindings map[string]*binding
}

// Repositories are the optional backing stores; a nil field keeps that store
// in memory only.
type Repositories struct {
	StockItems  repository.SnapshotRepository[entity.StockItem]
	GRVs        repository.SnapshotRepository[entity.GRV]
	StockIssues repository.SnapshotRepository[entity.StockIssueLine]
	Recipes     repository.SnapshotRepository[entity.Recipe]
	Batches     repository.SnapshotRepository[entity.BatchProduction]
	StockTakes  repository.SnapshotRepository[entity.StockTakeSession]
}

// Store names used in logs and by EnsureLoaded
const (
	NameStockItems  = "stock_items"
	NameGRVs        = "grvs"
	NameStockIssues = "stock_issues"
	NameRecipes     = "recipes"
	NameBatches     = "batch_productions"
	NameStockTakes  = "stock_takes"
)

type binding struct {
	loaded bool
	load   func(ctx context.Context) error
	flush  func(ctx context.Context) error
	unsub  func()
}

func NewContext(logg *logrus.Logger) *Context {
	if logg == nil {
		logg = logger.Discard()
	}
	return &Context{
		StockItems:  New[entity.StockItem](),
		GRVs:        New[entity.GRV](),
		StockIssues: New[entity.StockIssueLine](),
		Recipes:     New[entity.Recipe](),
		Batches:     New[entity.BatchProduction](),
		StockTakes:  New[entity.StockTakeSession](),
		logger:      logg,
		syncTimeout: defaultSyncTimeout,
		bindings:    map[string]*binding{},
	}
}

// Load binds each store to its repository and seeds it. Recipes are loaded
// on first EnsureLoaded. A store whose load fails starts empty; the failures
// are returned joined so the caller can decide whether to continue.
func (c *Context) Load(ctx context.Context, repos Repositories) error {
	c.mu.Lock()
	if repos.StockItems != nil {
		c.bindings[NameStockItems] = bind(c, NameStockItems, c.StockItems, repos.StockItems)
	}
	if repos.GRVs != nil {
		c.bindings[NameGRVs] = bind(c, NameGRVs, c.GRVs, repos.GRVs)
	}
	if repos.StockIssues != nil {
		c.bindings[NameStockIssues] = bind(c, NameStockIssues, c.StockIssues, repos.StockIssues)
	}
	if repos.Recipes != nil {
		c.bindings[NameRecipes] = bind(c, NameRecipes, c.Recipes, repos.Recipes)
	}
	if repos.Batches != nil {
		c.bindings[NameBatches] = bind(c, NameBatches, c.Batches, repos.Batches)
	}
	if repos.StockTakes != nil {
		c.bindings[NameStockTakes] = bind(c, NameStockTakes, c.StockTakes, repos.StockTakes)
	}
	c.mu.Unlock()

	var errs []error
	for _, name := range []string{NameStockItems, NameGRVs, NameStockIssues, NameBatches, NameStockTakes} {
		if err := c.EnsureLoaded(ctx, name); err != nil {
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}

// EnsureLoaded loads the named store once. Unbound stores are always loaded.
func (c *Context) EnsureLoaded(ctx context.Context, name string) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	b, ok := c.bindings[name]
	if !ok || b.loaded {
		return nil
	}
	if err := b.load(ctx); err != nil {
		return err
	}
	b.loaded = true
	return nil
}

// Flush writes every loaded store to its repository and detaches the
// persistence listeners.
func (c *Context) Flush(ctx context.Context) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	var errs []error
	for _, b := range c.bindings {
		if b.loaded {
			if err := b.flush(ctx); err != nil {
				errs = append(errs, err)
			}
		}
		b.unsub()
	}
	c.bindings = map[string]*binding{}
	return errors.Join(errs...)
}

func bind[T Record[T]](c *Context, name string, s *Store[T], repo repository.SnapshotRepository[T]) *binding {
	b := &binding{}

	b.load = func(ctx context.Context) error {
		records, err := repo.LoadAll(ctx)
		if err != nil {
			logger.LogError(c.logger, "store", "Load", name, nil, err)
			return fmt.Errorf("load %s: %w", name, err)
		}
		// records already in memory win over what was persisted
		dropped := s.Replace(append(records, s.Snapshot().All()...))
		if dropped > 0 {
			c.logger.WithFields(logrus.Fields{"store": name, "dropped": dropped}).Warn("dropped invalid records on load")
		}
		return nil
	}

	b.flush = func(ctx context.Context) error {
		if err := repo.Save(ctx, s.Snapshot().All(), nil); err != nil {
			logger.LogError(c.logger, "store", "Flush", name, nil, err)
			return fmt.Errorf("flush %s: %w", name, err)
		}
		return nil
	}

	b.unsub = s.Subscribe(func(change Change[T]) {
		ctx, cancel := context.WithTimeout(context.Background(), c.syncTimeout)
		defer cancel()
		if err := repo.Save(ctx, change.Upserted, change.Deleted); err != nil {
			logger.LogWarn(c.logger, "store", "Sync", name, err)
		}
	})
	return b
}
