package geo

import (
	"context"
	"fmt"
	"os/exec"
	"strconv"
	"strings"
	"time"

	"github.com/hstiawan/visit-tracker/internal/model"
)

// StaticProvider returns a fixed position from configuration. Useful
// for caregivers working a single site and for development.
type StaticProvider struct {
	Latitude  float64
	Longitude float64
}

// Current returns the configured coordinates stamped with the current
// time.
func (p StaticProvider) Current(ctx context.Context) (Position, error) {
	if err := ctx.Err(); err != nil {
		return Position{}, err
	}
	return Position{
		Latitude:   p.Latitude,
		Longitude:  p.Longitude,
		AcquiredAt: time.Now(),
	}, nil
}

// ExecProvider shells out to an external locator command (for example
// termux-location or CoreLocationCLI wrapped in a script) expected to
// print "lat lon" on stdout. The context deadline kills a hung
// locator.
type ExecProvider struct {
	Command string
}

// Current runs the locator and parses its output.
func (p ExecProvider) Current(ctx context.Context) (Position, error) {
	if strings.TrimSpace(p.Command) == "" {
		return Position{}, &PositionError{
			Code:    PositionUnavailable,
			Message: "geo.locator_command is not configured",
		}
	}

	parts := strings.Fields(p.Command)
	cmd := exec.CommandContext(ctx, parts[0], parts[1:]...)
	out, err := cmd.Output()
	if err != nil {
		if ctx.Err() != nil {
			return Position{}, ctx.Err()
		}
		return Position{}, &PositionError{
			Code:    PositionUnavailable,
			Message: fmt.Sprintf("locator command failed: %v", err),
			Err:     err,
		}
	}

	fields := strings.Fields(strings.TrimSpace(string(out)))
	if len(fields) < 2 {
		return Position{}, &PositionError{
			Code:    PositionUnavailable,
			Message: fmt.Sprintf("locator output %q is not \"lat lon\"", strings.TrimSpace(string(out))),
		}
	}

	lat, latErr := strconv.ParseFloat(fields[0], 64)
	lon, lonErr := strconv.ParseFloat(fields[1], 64)
	if latErr != nil || lonErr != nil {
		return Position{}, &PositionError{
			Code:    PositionUnavailable,
			Message: fmt.Sprintf("locator output %q is not numeric", strings.TrimSpace(string(out))),
		}
	}

	return Position{Latitude: lat, Longitude: lon, AcquiredAt: time.Now()}, nil
}

// FromConfig builds the provider selected by the geo configuration.
func FromConfig(cfg model.GeoConfig) (Provider, error) {
	switch cfg.Provider {
	case "", "static":
		return StaticProvider{Latitude: cfg.Latitude, Longitude: cfg.Longitude}, nil
	case "exec":
		return ExecProvider{Command: cfg.LocatorCommand}, nil
	default:
		return nil, fmt.Errorf("unknown geo provider %q", cfg.Provider)
	}
}

// TimeoutFromConfig converts the configured millisecond timeout,
// falling back to the default.
func TimeoutFromConfig(cfg model.GeoConfig) time.Duration {
	if cfg.TimeoutMS <= 0 {
		return DefaultTimeout
	}
	return time.Duration(cfg.TimeoutMS) * time.Millisecond
}
