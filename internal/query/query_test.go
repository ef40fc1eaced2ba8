package query_test

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strconv"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/hstiawan/visit-tracker/internal/api"
	"github.com/hstiawan/visit-tracker/internal/cache"
	"github.com/hstiawan/visit-tracker/internal/model"
	"github.com/hstiawan/visit-tracker/internal/query"
	"github.com/hstiawan/visit-tracker/tests/testutil"
)

// pagedServer serves two pages of schedules and counts list requests.
type pagedServer struct {
	listCalls   int
	detailCalls int
}

func (p *pagedServer) handler(t *testing.T) http.Handler {
	mux := http.NewServeMux()

	mux.HandleFunc("/schedules", func(w http.ResponseWriter, r *http.Request) {
		p.listCalls++
		page, _ := strconv.Atoi(r.URL.Query().Get("page"))

		var data []map[string]any
		switch page {
		case 1:
			data = []map[string]any{
				{"id": "s1", "status": "completed", "shift_time": "2025-06-20T09:00:00Z"},
				{"id": "s2", "status": "upcoming", "shift_time": "2025-06-30T09:00:00Z"},
			}
		case 2:
			data = []map[string]any{
				{"id": "s3", "status": "upcoming", "shift_time": "2025-07-01T09:00:00Z"},
			}
		default:
			t.Errorf("unexpected page request: %d", page)
		}

		_ = json.NewEncoder(w).Encode(map[string]any{
			"success":    true,
			"message":    "ok",
			"data":       data,
			"pagination": map[string]any{"page": page, "page_size": 2, "total_items": 3, "total_pages": 2},
		})
	})

	mux.HandleFunc("/schedules/", func(w http.ResponseWriter, r *http.Request) {
		p.detailCalls++
		id := r.URL.Path[len("/schedules/"):]
		_ = json.NewEncoder(w).Encode(map[string]any{
			"success": true,
			"message": "ok",
			"data": map[string]any{
				"id": id, "status": "in-progress", "shift_time": "2025-06-28T09:00:00Z",
				"tasks": []map[string]any{
					{"id": "t1", "schedule_id": id, "description": "Give medication", "status": "pending"},
				},
			},
		})
	})

	return mux
}

func newClients(t *testing.T) (*query.Schedules, *query.Detail, *cache.Cache, *pagedServer) {
	t.Helper()

	ps := &pagedServer{}
	srv := httptest.NewServer(ps.handler(t))
	t.Cleanup(srv.Close)

	apiClient := api.NewClient(srv.URL, api.WithReadRetries(0))
	c := testutil.NewTestCache(t)

	return query.NewSchedules(apiClient, c, 2), query.NewDetail(apiClient, c), c, ps
}

func TestLoadFetchesFirstPageOnly(t *testing.T) {
	schedules, _, _, ps := newClients(t)

	result, err := schedules.Load(context.Background())
	require.NoError(t, err)

	assert.Equal(t, 1, ps.listCalls, "no auto-fetch beyond the first page")
	require.Len(t, result.Schedules, 2)
	assert.Equal(t, "s1", result.Schedules[0].ID)
	assert.True(t, result.HasNextPage())
}

func TestLoadMoreAppendsPreservingServerOrder(t *testing.T) {
	schedules, _, _, ps := newClients(t)
	ctx := context.Background()

	_, err := schedules.Load(ctx)
	require.NoError(t, err)

	result, err := schedules.LoadMore(ctx)
	require.NoError(t, err)
	assert.Equal(t, 2, ps.listCalls)

	ids := make([]string, 0, len(result.Schedules))
	for _, s := range result.Schedules {
		ids = append(ids, s.ID)
	}
	assert.Equal(t, []string{"s1", "s2", "s3"}, ids)
	assert.False(t, result.HasNextPage())
}

func TestLoadMorePastLastPageIsANoOp(t *testing.T) {
	schedules, _, _, ps := newClients(t)
	ctx := context.Background()

	_, err := schedules.Load(ctx)
	require.NoError(t, err)
	_, err = schedules.LoadMore(ctx)
	require.NoError(t, err)

	result, err := schedules.LoadMore(ctx)
	require.NoError(t, err)
	assert.Equal(t, 2, ps.listCalls, "no request once total_pages is reached")
	assert.Len(t, result.Schedules, 3)
}

func TestLoadServesFreshCacheWithoutRequest(t *testing.T) {
	schedules, _, _, ps := newClients(t)
	ctx := context.Background()

	_, err := schedules.Load(ctx)
	require.NoError(t, err)
	_, err = schedules.Load(ctx)
	require.NoError(t, err)

	assert.Equal(t, 1, ps.listCalls)
}

func TestLoadRefetchesAfterInvalidation(t *testing.T) {
	schedules, _, c, ps := newClients(t)
	ctx := context.Background()

	_, err := schedules.Load(ctx)
	require.NoError(t, err)

	require.NoError(t, c.Invalidate(ctx, cache.KeySchedules))

	_, err = schedules.Load(ctx)
	require.NoError(t, err)
	assert.Equal(t, 2, ps.listCalls)
}

func TestDetailReadThrough(t *testing.T) {
	_, detail, c, ps := newClients(t)
	ctx := context.Background()

	first, err := detail.Get(ctx, "s9")
	require.NoError(t, err)
	assert.Equal(t, "s9", first.ID)
	require.Len(t, first.Tasks, 1)
	assert.Equal(t, model.TaskPending, first.Tasks[0].Status)

	_, err = detail.Get(ctx, "s9")
	require.NoError(t, err)
	assert.Equal(t, 1, ps.detailCalls, "second read comes from cache")

	require.NoError(t, c.Invalidate(ctx, cache.KeySchedule("s9")))
	_, err = detail.Get(ctx, "s9")
	require.NoError(t, err)
	assert.Equal(t, 2, ps.detailCalls)
}

func TestDetailSurfacesServerError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNotFound)
		_ = json.NewEncoder(w).Encode(map[string]any{
			"success": false,
			"message": "Schedule not found",
			"error":   map[string]any{"code": 404, "message": "not found", "details": ""},
		})
	}))
	t.Cleanup(srv.Close)

	detail := query.NewDetail(api.NewClient(srv.URL, api.WithReadRetries(0)), testutil.NewTestCache(t))

	_, err := detail.Get(context.Background(), "nope")
	require.Error(t, err)
	assert.True(t, api.IsAPIError(err))
	assert.Equal(t, "Schedule not found", err.Error())
}
