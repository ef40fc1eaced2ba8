package geo_test

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/hstiawan/visit-tracker/internal/geo"
	"github.com/hstiawan/visit-tracker/internal/model"
)

// slowProvider blocks until its context is cancelled.
type slowProvider struct{}

func (slowProvider) Current(ctx context.Context) (geo.Position, error) {
	<-ctx.Done()
	return geo.Position{}, ctx.Err()
}

// deniedProvider simulates a platform permission refusal.
type deniedProvider struct{}

func (deniedProvider) Current(ctx context.Context) (geo.Position, error) {
	return geo.Position{}, &geo.PositionError{Code: geo.PermissionDenied}
}

func TestAcquireStatic(t *testing.T) {
	pos, err := geo.Acquire(context.Background(), geo.StaticProvider{Latitude: -6.2, Longitude: 106.8}, 0)
	require.NoError(t, err)
	assert.InDelta(t, -6.2, pos.Latitude, 0.0001)
	assert.InDelta(t, 106.8, pos.Longitude, 0.0001)
	assert.False(t, pos.AcquiredAt.IsZero())
}

func TestAcquireTimesOut(t *testing.T) {
	start := time.Now()
	_, err := geo.Acquire(context.Background(), slowProvider{}, 50*time.Millisecond)
	require.Error(t, err)

	assert.True(t, geo.IsPositionError(err, geo.Timeout), "want Timeout, got %v", err)
	assert.Less(t, time.Since(start), 2*time.Second)
}

func TestAcquirePermissionDeniedPassesThrough(t *testing.T) {
	_, err := geo.Acquire(context.Background(), deniedProvider{}, 0)
	require.Error(t, err)
	assert.True(t, geo.IsPositionError(err, geo.PermissionDenied))
	assert.Equal(t, "location permission denied", err.Error())
}

func TestAcquireWithoutProvider(t *testing.T) {
	_, err := geo.Acquire(context.Background(), nil, 0)
	require.Error(t, err)
	assert.True(t, geo.IsPositionError(err, geo.PositionUnavailable))
}

func TestExecProviderParsesLatLon(t *testing.T) {
	p := geo.ExecProvider{Command: "echo -6.200001 106.816666"}
	pos, err := p.Current(context.Background())
	require.NoError(t, err)
	assert.InDelta(t, -6.200001, pos.Latitude, 1e-9)
	assert.InDelta(t, 106.816666, pos.Longitude, 1e-9)
}

func TestExecProviderRejectsGarbageOutput(t *testing.T) {
	p := geo.ExecProvider{Command: "echo not-coordinates"}
	_, err := p.Current(context.Background())
	require.Error(t, err)
	assert.True(t, geo.IsPositionError(err, geo.PositionUnavailable))
}

func TestFromConfig(t *testing.T) {
	p, err := geo.FromConfig(model.GeoConfig{Provider: "static", Latitude: 1, Longitude: 2})
	require.NoError(t, err)
	_, ok := p.(geo.StaticProvider)
	assert.True(t, ok)

	p, err = geo.FromConfig(model.GeoConfig{Provider: "exec", LocatorCommand: "locate-me"})
	require.NoError(t, err)
	_, ok = p.(geo.ExecProvider)
	assert.True(t, ok)

	_, err = geo.FromConfig(model.GeoConfig{Provider: "satellite"})
	require.Error(t, err)

	assert.Equal(t, geo.DefaultTimeout, geo.TimeoutFromConfig(model.GeoConfig{}))
	assert.Equal(t, 1500*time.Millisecond, geo.TimeoutFromConfig(model.GeoConfig{TimeoutMS: 1500}))
}
