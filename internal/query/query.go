// Package query provides read access to schedules: the paginated
// listing and the single-schedule detail, both read-through against
// the shared query cache. Pagination is forward-only and append-only;
// the next page is fetched only when explicitly requested.
package query

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/hstiawan/visit-tracker/internal/api"
	"github.com/hstiawan/visit-tracker/internal/cache"
	"github.com/hstiawan/visit-tracker/internal/model"
)

// Result is the accumulated schedule listing: every loaded page
// concatenated in server order, plus the pagination of the last page.
type Result struct {
	Schedules  []model.Schedule `json:"schedules"`
	Pagination model.Pagination `json:"pagination"`
}

// HasNextPage reports whether another page can be requested.
func (r *Result) HasNextPage() bool {
	return r.Pagination.HasNextPage()
}

// Schedules reads the schedule listing through the cache.
type Schedules struct {
	api      *api.Client
	cache    *cache.Cache
	pageSize int
}

// NewSchedules creates a schedule query client. pageSize controls how
// many schedules each page request asks for.
func NewSchedules(apiClient *api.Client, c *cache.Cache, pageSize int) *Schedules {
	if pageSize <= 0 {
		pageSize = 5
	}
	return &Schedules{api: apiClient, cache: c, pageSize: pageSize}
}

// Load returns the schedule listing. A fresh cache entry is served
// as-is; otherwise the first page is fetched and cached, resetting
// any previously accumulated pages (revalidation starts over, it does
// not replay every loaded page).
func (s *Schedules) Load(ctx context.Context) (*Result, error) {
	if cached, err := s.cachedResult(ctx, true); err != nil {
		return nil, err
	} else if cached != nil {
		return cached, nil
	}

	page, err := s.api.ListSchedules(ctx, 1, s.pageSize)
	if err != nil {
		return nil, err
	}

	result := &Result{Schedules: page.Schedules, Pagination: page.Pagination}
	if err := s.store(ctx, result); err != nil {
		return nil, err
	}
	return result, nil
}

// LoadMore fetches the page after the last loaded one and appends it,
// preserving server order. When no further page exists the current
// result is returned unchanged and no request is made.
func (s *Schedules) LoadMore(ctx context.Context) (*Result, error) {
	current, err := s.cachedResult(ctx, false)
	if err != nil {
		return nil, err
	}
	if current == nil {
		return s.Load(ctx)
	}
	if !current.HasNextPage() {
		return current, nil
	}

	page, err := s.api.ListSchedules(ctx, current.Pagination.Page+1, s.pageSize)
	if err != nil {
		return nil, err
	}

	current.Schedules = append(current.Schedules, page.Schedules...)
	current.Pagination = page.Pagination
	if err := s.store(ctx, current); err != nil {
		return nil, err
	}
	return current, nil
}

// cachedResult decodes the cached listing. With requireFresh set,
// stale entries are treated as a miss.
func (s *Schedules) cachedResult(ctx context.Context, requireFresh bool) (*Result, error) {
	value, fresh, ok, err := s.cache.Get(ctx, cache.KeySchedules)
	if err != nil {
		return nil, err
	}
	if !ok || (requireFresh && !fresh) {
		return nil, nil
	}

	var result Result
	if err := json.Unmarshal(value, &result); err != nil {
		return nil, fmt.Errorf("decoding cached schedules: %w", err)
	}
	return &result, nil
}

// store serializes the listing into the cache.
func (s *Schedules) store(ctx context.Context, result *Result) error {
	value, err := json.Marshal(result)
	if err != nil {
		return fmt.Errorf("encoding schedules for cache: %w", err)
	}
	return s.cache.Put(ctx, cache.KeySchedules, value)
}

// Detail reads one schedule, tasks included, through the cache.
type Detail struct {
	api   *api.Client
	cache *cache.Cache
}

// NewDetail creates a schedule-detail query client.
func NewDetail(apiClient *api.Client, c *cache.Cache) *Detail {
	return &Detail{api: apiClient, cache: c}
}

// Get returns the schedule with the given id, serving a fresh cache
// entry when present and fetching otherwise.
func (d *Detail) Get(ctx context.Context, scheduleID string) (*model.ScheduleDetails, error) {
	key := cache.KeySchedule(scheduleID)

	value, fresh, ok, err := d.cache.Get(ctx, key)
	if err != nil {
		return nil, err
	}
	if ok && fresh {
		var details model.ScheduleDetails
		if err := json.Unmarshal(value, &details); err != nil {
			return nil, fmt.Errorf("decoding cached schedule %s: %w", scheduleID, err)
		}
		return &details, nil
	}

	details, err := d.api.GetSchedule(ctx, scheduleID)
	if err != nil {
		return nil, err
	}

	encoded, err := json.Marshal(details)
	if err != nil {
		return nil, fmt.Errorf("encoding schedule %s for cache: %w", scheduleID, err)
	}
	if err := d.cache.Put(ctx, key, encoded); err != nil {
		return nil, err
	}
	return details, nil
}
