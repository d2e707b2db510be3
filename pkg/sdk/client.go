package satvach

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/kailas-cloud/satvach/internal/db"
	dbRedis "github.com/kailas-cloud/satvach/internal/db/redis"
	domloc "github.com/kailas-cloud/satvach/internal/domain/location"
	dommod "github.com/kailas-cloud/satvach/internal/domain/moderation"
	"github.com/kailas-cloud/satvach/internal/domain/search/request"
	"github.com/kailas-cloud/satvach/internal/domain/search/result"
	locationrepo "github.com/kailas-cloud/satvach/internal/repository/location"
	moderationrepo "github.com/kailas-cloud/satvach/internal/repository/moderation"
	healthuc "github.com/kailas-cloud/satvach/internal/usecase/health"
	locationuc "github.com/kailas-cloud/satvach/internal/usecase/location"
	searchuc "github.com/kailas-cloud/satvach/internal/usecase/search"
)

const defaultReadinessTimeout = 10 * time.Second

// Internal interfaces, swapped for fakes in tests.
type locationUseCase interface {
	Submit(ctx context.Context, d domloc.Draft, actor dommod.Actor) (domloc.Location, error)
	Get(ctx context.Context, id int64, includeUnapproved bool) (domloc.Location, error)
	Update(ctx context.Context, id int64, p domloc.Patch, actor dommod.Actor) (domloc.Location, error)
	SetStatus(
		ctx context.Context, id int64, status domloc.Status, reason string, actor dommod.Actor,
	) (domloc.Location, error)
	Delete(ctx context.Context, id int64, actor dommod.Actor) error
	List(ctx context.Context, status domloc.Status, skip, limit int) ([]domloc.Location, int, error)
	Stats(ctx context.Context) (map[domloc.Status]int, error)
	History(ctx context.Context, id int64) ([]dommod.Entry, error)
}

type searchUseCase interface {
	Search(ctx context.Context, req *request.RadiusRequest) (result.Page, error)
	SearchViewport(ctx context.Context, req *request.ViewportRequest) ([]domloc.Location, error)
	SearchRadius(ctx context.Context, req *request.NearbyRequest) ([]result.Hit, error)
}

type healthUseCase interface {
	Check(ctx context.Context) healthuc.Report
}

// Client is the satvach SDK entry point.
type Client struct {
	store     db.Store
	locSvc    locationUseCase
	searchSvc searchUseCase
	healthSvc healthUseCase
	obs       *observer
}

// New creates a Client and connects to the database.
// The provided context is used for the initial readiness check.
func New(ctx context.Context, opts ...Option) (*Client, error) {
	cfg := &clientConfig{}
	for _, o := range opts {
		o.apply(cfg)
	}

	if len(cfg.addrs) == 0 {
		return nil, errors.New("satvach: database address required (use WithValkey or WithRedis)")
	}

	store, err := createStore(cfg)
	if err != nil {
		return nil, err
	}

	if err := store.WaitForReady(ctx, defaultReadinessTimeout); err != nil {
		store.Close()
		return nil, fmt.Errorf("satvach: database not ready: %w", err)
	}

	obs, err := newObserver(cfg.logger, cfg.metricsReg)
	if err != nil {
		store.Close()
		return nil, err
	}
	return wireClient(store, cfg, obs), nil
}

// createStore opens the store for the configured driver. Redis and Valkey
// share every command the store issues, so both use the rueidis store.
func createStore(cfg *clientConfig) (db.Store, error) {
	switch cfg.driver {
	case "valkey", "redis":
		s, err := dbRedis.NewStore(dbRedis.Config{
			Addrs:    cfg.addrs,
			Password: cfg.password,
		})
		if err != nil {
			return nil, fmt.Errorf("satvach: create %s store: %w", cfg.driver, err)
		}
		return s, nil
	default:
		return nil, fmt.Errorf("satvach: unknown driver %q", cfg.driver)
	}
}

func wireClient(store db.Store, cfg *clientConfig, obs *observer) *Client {
	locRepo := locationrepo.New(store, cfg.keyPrefix)
	modRepo := moderationrepo.New(store, cfg.keyPrefix)

	return &Client{
		store:  store,
		locSvc: locationuc.New(locRepo, modRepo),
		searchSvc: searchuc.New(locRepo, searchuc.Options{
			RadiusSlack:            cfg.radiusSlack,
			ViewportCandidateLimit: cfg.viewportCandidateLimit,
		}),
		healthSvc: healthuc.New(store, 0),
		obs:       obs,
	}
}

// Close releases all resources.
func (c *Client) Close() {
	if c.store != nil {
		c.store.Close()
	}
}

// Ping checks database connectivity.
func (c *Client) Ping(ctx context.Context) (err error) {
	start := time.Now()
	defer func() { c.obs.observe("ping", start, err) }()

	if err = c.store.Ping(ctx); err != nil {
		return fmt.Errorf("ping: %w", err)
	}
	return nil
}

// Locations returns the submission and moderation service.
func (c *Client) Locations() *LocationService {
	return &LocationService{svc: c.locSvc, obs: c.obs}
}

// Search returns the spatial search service.
func (c *Client) Search() *SearchService {
	return &SearchService{svc: c.searchSvc, obs: c.obs}
}
