// Package visit owns the mutating half of the client: clocking in and
// out of schedules and updating checklist tasks. Mutations are never
// retried automatically, serialize per entity id, and invalidate the
// affected cache keys before success is reported.
package visit

import (
	"context"

	"github.com/kataras/golog"

	"github.com/hstiawan/visit-tracker/internal/api"
	"github.com/hstiawan/visit-tracker/internal/cache"
	"github.com/hstiawan/visit-tracker/internal/geo"
	"github.com/hstiawan/visit-tracker/internal/model"
)

// Client performs visit-lifecycle mutations against the API.
type Client struct {
	api      *api.Client
	cache    *cache.Cache
	inflight *Registry
	log      *golog.Logger
}

// Option configures a Client.
type Option func(*Client)

// WithLogger overrides the default logger.
func WithLogger(log *golog.Logger) Option {
	return func(c *Client) {
		if log != nil {
			c.log = log
		}
	}
}

// NewClient creates a lifecycle client sharing the given cache.
func NewClient(apiClient *api.Client, c *cache.Cache, opts ...Option) *Client {
	client := &Client{
		api:      apiClient,
		cache:    c,
		inflight: NewRegistry(),
		log:      golog.Default,
	}
	for _, opt := range opts {
		opt(client)
	}
	return client
}

// Inflight exposes the mutation registry so UIs can render per-entity
// busy state.
func (c *Client) Inflight() *Registry {
	return c.inflight
}

// Start clocks in to the schedule at the given position. On success
// the schedule's cache entries are invalidated before the server's
// confirmation message is returned, so no stale read can race the
// completed mutation.
func (c *Client) Start(ctx context.Context, scheduleID string, pos geo.Position) (string, error) {
	if err := c.inflight.Acquire(scheduleID); err != nil {
		return "", err
	}
	defer c.inflight.Release(scheduleID)

	msg, err := c.api.StartVisit(ctx, scheduleID, api.Position{
		Latitude:  pos.Latitude,
		Longitude: pos.Longitude,
	})
	if err != nil {
		c.log.Errorf("start visit %s: %v", scheduleID, err)
		return "", err
	}

	if err := c.invalidateSchedule(ctx, scheduleID); err != nil {
		return "", err
	}
	c.log.Infof("visit %s started", scheduleID)
	return msg, nil
}

// End clocks out of an in-progress visit at the given position, with
// the same cache discipline as Start.
func (c *Client) End(ctx context.Context, scheduleID string, pos geo.Position) (string, error) {
	if err := c.inflight.Acquire(scheduleID); err != nil {
		return "", err
	}
	defer c.inflight.Release(scheduleID)

	msg, err := c.api.EndVisit(ctx, scheduleID, api.Position{
		Latitude:  pos.Latitude,
		Longitude: pos.Longitude,
	})
	if err != nil {
		c.log.Errorf("end visit %s: %v", scheduleID, err)
		return "", err
	}

	if err := c.invalidateSchedule(ctx, scheduleID); err != nil {
		return "", err
	}
	c.log.Infof("visit %s ended", scheduleID)
	return msg, nil
}

// UpdateTask sets one task's status and optional reason. The task's
// owning schedule is invalidated on success so its detail view
// refetches. Returns the server's echo of the updated task when
// available.
func (c *Client) UpdateTask(ctx context.Context, scheduleID, taskID string, status model.TaskStatus, reason *string) (*model.Task, error) {
	if err := c.inflight.Acquire(taskID); err != nil {
		return nil, err
	}
	defer c.inflight.Release(taskID)

	task, err := c.api.UpdateTask(ctx, taskID, status, reason)
	if err != nil {
		c.log.Errorf("update task %s: %v", taskID, err)
		return nil, err
	}

	if scheduleID != "" {
		if err := c.cache.Invalidate(ctx, cache.KeySchedule(scheduleID)); err != nil {
			return nil, err
		}
	}
	return task, nil
}

// invalidateSchedule drops both the collection entry and the detail
// entry for a schedule.
func (c *Client) invalidateSchedule(ctx context.Context, scheduleID string) error {
	return c.cache.Invalidate(ctx, cache.KeySchedules, cache.KeySchedule(scheduleID))
}
