package helpers

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestCalculateOffsetLimit(t *testing.T) {
	offset, limit := CalculateOffsetLimit(0, 10)
	assert.Equal(t, uint64(0), offset)
	assert.Equal(t, 10, limit)

	offset, limit = CalculateOffsetLimit(3, 10)
	assert.Equal(t, uint64(30), offset)
	assert.Equal(t, 10, limit)

	// Out-of-range sizes fall back to the default.
	offset, limit = CalculateOffsetLimit(2, 0)
	assert.Equal(t, uint64(2*DefaultPageSize), offset)
	assert.Equal(t, DefaultPageSize, limit)

	_, limit = CalculateOffsetLimit(0, MaxPageSize+1)
	assert.Equal(t, DefaultPageSize, limit)

	// Negative pages clamp to the first page.
	offset, _ = CalculateOffsetLimit(-2, 10)
	assert.Equal(t, uint64(0), offset)
}

func TestHasMore(t *testing.T) {
	assert.True(t, HasMore(10, 10))
	assert.False(t, HasMore(9, 10))
	assert.False(t, HasMore(0, 10))
}
