// Package geo acquires the device's position for clock-in/out.
// Location failures are their own error category: they must never be
// presented as server or network errors.
package geo

import (
	"context"
	"errors"
	"fmt"
	"time"
)

// DefaultTimeout bounds a single acquisition attempt.
const DefaultTimeout = 5000 * time.Millisecond

// MaxFixAge is the oldest cached fix a provider may return. Zero
// means every acquisition must produce a brand-new fix.
const MaxFixAge = 0 * time.Millisecond

// ErrorCode classifies a location failure, mirroring the device API's
// taxonomy.
type ErrorCode int

const (
	// PermissionDenied: the user or platform refused location access.
	PermissionDenied ErrorCode = iota + 1

	// PositionUnavailable: no fix could be produced (no provider
	// configured, locator failed, output unusable).
	PositionUnavailable

	// Timeout: the acquisition did not finish inside the deadline.
	Timeout
)

// Position is a geographic fix.
type Position struct {
	Latitude  float64
	Longitude float64

	// AcquiredAt is when the fix was produced.
	AcquiredAt time.Time
}

// PositionError is a location-acquisition failure.
type PositionError struct {
	Code    ErrorCode
	Message string
	Err     error
}

func (e *PositionError) Error() string {
	if e.Message != "" {
		return e.Message
	}
	switch e.Code {
	case PermissionDenied:
		return "location permission denied"
	case Timeout:
		return "timed out acquiring location"
	default:
		return "location unavailable"
	}
}

func (e *PositionError) Unwrap() error {
	return e.Err
}

// IsPositionError reports whether err (or its chain) is a location
// failure, optionally matching a specific code (0 matches any).
func IsPositionError(err error, code ErrorCode) bool {
	var posErr *PositionError
	if !errors.As(err, &posErr) {
		return false
	}
	return code == 0 || posErr.Code == code
}

// Provider produces position fixes.
type Provider interface {
	// Current returns a fresh fix. Implementations must respect ctx
	// cancellation and return a PositionError on failure. There is no
	// automatic retry: a failed acquisition is surfaced immediately.
	Current(ctx context.Context) (Position, error)
}

// Acquire runs provider.Current under the given timeout (DefaultTimeout
// when zero) and normalizes deadline expiry into a Timeout
// PositionError.
func Acquire(ctx context.Context, provider Provider, timeout time.Duration) (Position, error) {
	if provider == nil {
		return Position{}, &PositionError{
			Code:    PositionUnavailable,
			Message: "no location provider is configured",
		}
	}
	if timeout <= 0 {
		timeout = DefaultTimeout
	}

	ctx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	pos, err := provider.Current(ctx)
	if err != nil {
		if errors.Is(err, context.DeadlineExceeded) {
			return Position{}, &PositionError{
				Code:    Timeout,
				Message: fmt.Sprintf("no location fix within %s", timeout),
				Err:     err,
			}
		}
		var posErr *PositionError
		if errors.As(err, &posErr) {
			return Position{}, err
		}
		return Position{}, &PositionError{Code: PositionUnavailable, Err: err}
	}
	return pos, nil
}
