package sieve

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/kailas-cloud/sieve/internal/db"
	"github.com/kailas-cloud/sieve/internal/db/memory"
	dbRedis "github.com/kailas-cloud/sieve/internal/db/redis"
	"github.com/kailas-cloud/sieve/internal/domain"
	"github.com/kailas-cloud/sieve/internal/domain/search/schema"
	domview "github.com/kailas-cloud/sieve/internal/domain/view"
	documentrepo "github.com/kailas-cloud/sieve/internal/repository/document"
	indexrepo "github.com/kailas-cloud/sieve/internal/repository/index"
	searchrepo "github.com/kailas-cloud/sieve/internal/repository/search"
	searchuc "github.com/kailas-cloud/sieve/internal/usecase/search"
)

const (
	defaultReadinessTimeout = 10 * time.Second
	defaultBatchSize        = 100
)

// Sentinel errors callers can match with errors.Is.
var (
	// ErrNotFound is returned for unknown indexes.
	ErrNotFound = domain.ErrNotFound
	// ErrConfiguration is returned when an index declares no filterable fields.
	ErrConfiguration = domain.ErrConfiguration
	// ErrParse is returned when a numeric request value does not parse.
	ErrParse = domain.ErrParse
)

// Option configures a Client.
type Option func(*clientConfig)

type clientConfig struct {
	driver       string
	addrs        []string
	password     string
	defaultLimit int
	batchSize    int
}

// WithRedis connects to Redis with the RediSearch module at addrs.
func WithRedis(addrs ...string) Option {
	return func(c *clientConfig) {
		c.driver = "redis"
		c.addrs = addrs
	}
}

// WithPassword sets the Redis password.
func WithPassword(password string) Option {
	return func(c *clientConfig) { c.password = password }
}

// WithMemory keeps everything in process. Handy for tests and demos.
func WithMemory() Option {
	return func(c *clientConfig) { c.driver = "memory" }
}

// WithDefaultLimit sets the page size used when neither the search nor the index sets one.
func WithDefaultLimit(n int) Option {
	return func(c *clientConfig) { c.defaultLimit = n }
}

// WithBatchSize sets how many documents Put writes per round trip.
func WithBatchSize(n int) Option {
	return func(c *clientConfig) { c.batchSize = n }
}

// Client is the sieve SDK entry point. Indexes are registered on it with NewIndex.
type Client struct {
	store   db.Store
	schemas *schema.Registry
	indexes *indexrepo.Repo
	docs    *documentrepo.Repo
	search  *searchuc.Service

	mu    sync.RWMutex
	views map[string]domview.View
}

// New creates a Client and waits for the backend to be ready.
func New(opts ...Option) (*Client, error) {
	cfg := &clientConfig{batchSize: defaultBatchSize}
	for _, o := range opts {
		o(cfg)
	}

	store, err := createStore(cfg)
	if err != nil {
		return nil, err
	}

	if err := store.WaitForReady(context.Background(), defaultReadinessTimeout); err != nil {
		store.Close()
		return nil, fmt.Errorf("sieve: database not ready: %w", err)
	}

	return wireClient(store, cfg), nil
}

func createStore(cfg *clientConfig) (db.Store, error) {
	switch cfg.driver {
	case "memory":
		return memory.NewStore(), nil
	case "redis":
		if len(cfg.addrs) == 0 {
			return nil, errors.New("sieve: redis address required")
		}
		s, err := dbRedis.NewStore(dbRedis.Config{
			Addrs:    cfg.addrs,
			Password: cfg.password,
		})
		if err != nil {
			return nil, fmt.Errorf("sieve: create redis store: %w", err)
		}
		return s, nil
	case "":
		return nil, errors.New("sieve: backend required (use WithRedis or WithMemory)")
	default:
		return nil, fmt.Errorf("sieve: unknown driver %q", cfg.driver)
	}
}

func wireClient(store db.Store, cfg *clientConfig) *Client {
	c := &Client{
		store:   store,
		schemas: schema.NewRegistry(),
		indexes: indexrepo.New(store),
		docs:    documentrepo.New(store, cfg.batchSize),
		views:   make(map[string]domview.View),
	}
	c.search = searchuc.New(searchrepo.New(store), c, c.schemas, cfg.defaultLimit)
	return c
}

// Close releases all resources.
func (c *Client) Close() {
	if c.store != nil {
		c.store.Close()
	}
}

// Ping checks database connectivity.
func (c *Client) Ping(ctx context.Context) error {
	if err := c.store.Ping(ctx); err != nil {
		return fmt.Errorf("ping: %w", err)
	}
	return nil
}

// Get returns a registered view by name.
func (c *Client) Get(name string) (domview.View, error) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	v, ok := c.views[name]
	if !ok {
		return domview.View{}, fmt.Errorf("index %q: %w", name, domain.ErrNotFound)
	}
	return v, nil
}

func (c *Client) register(v domview.View) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	if _, dup := c.views[v.Name()]; dup {
		return fmt.Errorf("sieve: index %q already registered", v.Name())
	}
	c.views[v.Name()] = v
	return nil
}
