package api_test

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/hstiawan/visit-tracker/internal/api"
	"github.com/hstiawan/visit-tracker/internal/model"
)

func newClient(t *testing.T, handler http.Handler, opts ...api.Option) *api.Client {
	t.Helper()
	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)
	return api.NewClient(srv.URL, opts...)
}

func TestListSchedulesSuccess(t *testing.T) {
	c := newClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/schedules", r.URL.Path)
		assert.Equal(t, "2", r.URL.Query().Get("page"))
		assert.Equal(t, "5", r.URL.Query().Get("pageSize"))
		assert.NotEmpty(t, r.Header.Get("X-Request-ID"))

		_ = json.NewEncoder(w).Encode(map[string]any{
			"success": true,
			"message": "ok",
			"data": []map[string]any{
				{"id": "s1", "client_name": "Melisa Adam", "status": "upcoming", "shift_time": "2025-06-28T09:00:00Z"},
			},
			"pagination": map[string]any{"page": 2, "page_size": 5, "total_items": 8, "total_pages": 2},
		})
	}))

	list, err := c.ListSchedules(context.Background(), 2, 5)
	require.NoError(t, err)
	require.Len(t, list.Schedules, 1)
	assert.Equal(t, "s1", list.Schedules[0].ID)
	assert.Equal(t, model.StatusUpcoming, list.Schedules[0].Status)
	assert.Equal(t, 2, list.Pagination.Page)
	assert.False(t, list.Pagination.HasNextPage())
}

func TestListSchedulesNullDataIsNotAnError(t *testing.T) {
	c := newClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_ = json.NewEncoder(w).Encode(map[string]any{
			"success":    true,
			"message":    "no schedules",
			"data":       nil,
			"pagination": map[string]any{"page": 1, "page_size": 5, "total_items": 0, "total_pages": 0},
		})
	}))

	list, err := c.ListSchedules(context.Background(), 1, 5)
	require.NoError(t, err)
	assert.Empty(t, list.Schedules)
}

func TestReadRetriesThenSucceeds(t *testing.T) {
	var calls atomic.Int32
	c := newClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if calls.Add(1) <= 2 {
			http.Error(w, "boom", http.StatusBadGateway)
			return
		}
		_ = json.NewEncoder(w).Encode(map[string]any{
			"success": true,
			"message": "ok",
			"data":    map[string]any{"id": "s1", "status": "upcoming", "shift_time": "2025-06-28T09:00:00Z", "tasks": []any{}},
		})
	}), api.WithReadRetries(2))

	detail, err := c.GetSchedule(context.Background(), "s1")
	require.NoError(t, err)
	assert.Equal(t, "s1", detail.ID)
	assert.Equal(t, int32(3), calls.Load())
}

func TestReadGivesUpAfterBoundedRetries(t *testing.T) {
	var calls atomic.Int32
	c := newClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls.Add(1)
		http.Error(w, "boom", http.StatusInternalServerError)
	}), api.WithReadRetries(2))

	_, err := c.GetSchedule(context.Background(), "s1")
	require.Error(t, err)

	var tErr *api.TransportError
	require.True(t, errors.As(err, &tErr))
	assert.Equal(t, http.StatusInternalServerError, tErr.Status)
	assert.Equal(t, "HTTP error, status 500", tErr.Error())
	assert.Equal(t, int32(3), calls.Load(), "2 retries means 3 attempts total")
}

func TestMutationsAreNeverRetried(t *testing.T) {
	var calls atomic.Int32
	c := newClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls.Add(1)
		http.Error(w, "boom", http.StatusServiceUnavailable)
	}), api.WithReadRetries(2))

	_, err := c.StartVisit(context.Background(), "s1", api.Position{Latitude: 1, Longitude: 2})
	require.Error(t, err)
	assert.Equal(t, int32(1), calls.Load())
}

func TestServerErrorMessageSurfacedVerbatim(t *testing.T) {
	c := newClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusConflict)
		_ = json.NewEncoder(w).Encode(map[string]any{
			"success": false,
			"message": "Visit already started",
			"error":   map[string]any{"code": 409, "message": "conflict", "details": "schedule s1 is in progress"},
		})
	}))

	_, err := c.StartVisit(context.Background(), "s1", api.Position{Latitude: 1, Longitude: 2})
	require.Error(t, err)

	var apiErr *api.APIError
	require.True(t, errors.As(err, &apiErr))
	assert.Equal(t, "Visit already started", apiErr.Error())
	assert.Equal(t, 409, apiErr.Code)
	assert.Equal(t, "schedule s1 is in progress", apiErr.Details)
}

func TestEndVisitReturnsServerMessage(t *testing.T) {
	c := newClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/schedules/s1/end", r.URL.Path)

		var pos api.Position
		require.NoError(t, json.NewDecoder(r.Body).Decode(&pos))
		assert.InDelta(t, -6.2, pos.Latitude, 0.0001)

		_ = json.NewEncoder(w).Encode(map[string]any{"success": true, "message": "Visit ended"})
	}))

	msg, err := c.EndVisit(context.Background(), "s1", api.Position{Latitude: -6.2, Longitude: 106.8})
	require.NoError(t, err)
	assert.Equal(t, "Visit ended", msg)
}

func TestUpdateTaskClearsReasonOnCompletion(t *testing.T) {
	c := newClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		var body map[string]any
		require.NoError(t, json.NewDecoder(r.Body).Decode(&body))
		assert.Equal(t, "completed", body["status"])
		_, hasReason := body["reason"]
		assert.False(t, hasReason, "reason must be cleared when completing a task")

		_ = json.NewEncoder(w).Encode(map[string]any{
			"success": true,
			"message": "updated",
			"data":    map[string]any{"id": "t1", "schedule_id": "s1", "status": "completed"},
		})
	}))

	reason := "stale reason from a previous skip"
	task, err := c.UpdateTask(context.Background(), "t1", model.TaskCompleted, &reason)
	require.NoError(t, err)
	require.NotNil(t, task)
	assert.Equal(t, model.TaskCompleted, task.Status)
}

func TestUpdateTaskSendsReasonWhenNotCompleted(t *testing.T) {
	c := newClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		var body map[string]any
		require.NoError(t, json.NewDecoder(r.Body).Decode(&body))
		assert.Equal(t, "not_completed", body["status"])
		assert.Equal(t, "client was asleep", body["reason"])

		_ = json.NewEncoder(w).Encode(map[string]any{"success": true, "message": "updated"})
	}))

	reason := "client was asleep"
	_, err := c.UpdateTask(context.Background(), "t1", model.TaskNotCompleted, &reason)
	require.NoError(t, err)
}

func TestTransportFailureIsDistinctCategory(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
	srv.Close() // connection refused from here on

	c := api.NewClient(srv.URL, api.WithReadRetries(0))
	_, err := c.ListSchedules(context.Background(), 1, 5)
	require.Error(t, err)
	assert.True(t, api.IsTransportError(err))
	assert.False(t, api.IsAPIError(err))
}
