package cmd

import (
	"net/http"
	"time"

	"github.com/kataras/golog"

	"github.com/hstiawan/visit-tracker/internal/api"
	"github.com/hstiawan/visit-tracker/internal/cache"
	"github.com/hstiawan/visit-tracker/internal/geo"
	"github.com/hstiawan/visit-tracker/internal/model"
	"github.com/hstiawan/visit-tracker/internal/query"
	"github.com/hstiawan/visit-tracker/internal/visit"
)

// stack bundles the client components the one-shot subcommands share.
type stack struct {
	cfg       *model.AppConfig
	log       *golog.Logger
	cache     *cache.Cache
	schedules *query.Schedules
	detail    *query.Detail
	visits    *visit.Client
	provider  geo.Provider
	viewer    *time.Location
}

// newStack wires the full client from configuration.
func newStack() (*stack, error) {
	cfg, err := loadConfig()
	if err != nil {
		return nil, err
	}
	log := newLogger(cfg.Log, false)

	apiClient := api.NewClient(
		cfg.API.BaseURL,
		api.WithHTTPClient(&http.Client{Timeout: time.Duration(cfg.API.TimeoutSec) * time.Second}),
		api.WithReadRetries(cfg.API.ReadRetries),
		api.WithLogger(log),
	)

	c, err := cache.New(cache.WithFreshFor(time.Duration(cfg.Cache.FreshForSec) * time.Second))
	if err != nil {
		return nil, err
	}

	provider, err := geo.FromConfig(cfg.Geo)
	if err != nil {
		c.Close()
		return nil, err
	}

	viewer := time.Local
	if cfg.Display.Timezone != "" {
		if loc, err := time.LoadLocation(cfg.Display.Timezone); err == nil {
			viewer = loc
		}
	}

	return &stack{
		cfg:       cfg,
		log:       log,
		cache:     c,
		schedules: query.NewSchedules(apiClient, c, cfg.Display.PageSize),
		detail:    query.NewDetail(apiClient, c),
		visits:    visit.NewClient(apiClient, c, visit.WithLogger(log)),
		provider:  provider,
		viewer:    viewer,
	}, nil
}

// Close releases the stack's resources.
func (s *stack) Close() error {
	return s.cache.Close()
}
