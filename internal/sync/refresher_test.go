package sync_test

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/hstiawan/visit-tracker/internal/api"
	"github.com/hstiawan/visit-tracker/internal/cache"
	"github.com/hstiawan/visit-tracker/internal/query"
	appsync "github.com/hstiawan/visit-tracker/internal/sync"
	"github.com/hstiawan/visit-tracker/tests/testutil"
)

func newRefresher(t *testing.T, handler http.Handler) (*appsync.Refresher, *cache.Cache) {
	t.Helper()
	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)

	c := testutil.NewTestCache(t)
	apiClient := api.NewClient(srv.URL)
	r := appsync.New(
		query.NewSchedules(apiClient, c, 5),
		query.NewDetail(apiClient, c),
		c,
	)
	t.Cleanup(r.Stop)
	return r, c
}

func scheduleListHandler(t *testing.T) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_ = json.NewEncoder(w).Encode(map[string]any{
			"success": true,
			"message": "ok",
			"data": []map[string]any{
				{"id": "s1", "client_name": "Ada", "status": "upcoming", "shift_time": "2025-06-28T09:00:00Z"},
			},
			"pagination": map[string]any{"page": 1, "page_size": 5, "total_items": 1, "total_pages": 1},
		})
	})
}

func TestRefreshSchedulesDeliversResult(t *testing.T) {
	r, _ := newRefresher(t, scheduleListHandler(t))

	wait := r.Start()
	require.NotNil(t, wait)
	r.RefreshSchedules()

	msg := wait()
	refreshed, ok := msg.(appsync.SchedulesRefreshedMsg)
	require.True(t, ok, "expected SchedulesRefreshedMsg, got %T", msg)
	require.NoError(t, refreshed.Err)
	require.NotNil(t, refreshed.Result)
	require.Len(t, refreshed.Result.Schedules, 1)
	assert.Equal(t, "s1", refreshed.Result.Schedules[0].ID)
}

func TestRefreshDetailSurfacesServerError(t *testing.T) {
	r, _ := newRefresher(t, http.HandlerFunc(func(w http.ResponseWriter, req *http.Request) {
		w.WriteHeader(http.StatusNotFound)
		_ = json.NewEncoder(w).Encode(map[string]any{
			"success": false,
			"message": "Schedule not found",
			"error":   map[string]any{"code": 404, "message": "not found", "details": ""},
		})
	}))

	wait := r.Start()
	r.RefreshDetail("missing")

	msg := wait()
	refreshed, ok := msg.(appsync.DetailRefreshedMsg)
	require.True(t, ok, "expected DetailRefreshedMsg, got %T", msg)
	assert.Equal(t, "missing", refreshed.ScheduleID)
	require.Error(t, refreshed.Err)
	assert.Equal(t, "Schedule not found", refreshed.Err.Error())
}

func TestFocusRegainedAgesCacheAndReloads(t *testing.T) {
	r, c := newRefresher(t, scheduleListHandler(t))
	ctx := context.Background()

	require.NoError(t, c.Put(ctx, cache.KeySchedules, []byte(`{"schedules":null}`)))

	wait := r.Start()
	r.FocusRegained()

	// The empty cached listing was aged out, so the reload goes back to
	// the server and replaces it.
	msg := wait()
	refreshed, ok := msg.(appsync.SchedulesRefreshedMsg)
	require.True(t, ok, "expected SchedulesRefreshedMsg, got %T", msg)
	require.NoError(t, refreshed.Err)
	require.Len(t, refreshed.Result.Schedules, 1)

	value, _, ok2, err := c.Get(ctx, cache.KeySchedules)
	require.NoError(t, err)
	require.True(t, ok2)
	assert.Contains(t, string(value), `"s1"`)
}
