package testutil

import (
	"testing"

	"github.com/hstiawan/visit-tracker/internal/cache"
)

// NewTestCache creates an in-memory query cache with its schema
// applied. It automatically closes the cache when the test completes.
func NewTestCache(t *testing.T, opts ...cache.Option) *cache.Cache {
	t.Helper()

	c, err := cache.New(opts...)
	if err != nil {
		t.Fatalf("creating test cache: %v", err)
	}

	t.Cleanup(func() {
		if err := c.Close(); err != nil {
			t.Errorf("closing test cache: %v", err)
		}
	})

	return c
}
