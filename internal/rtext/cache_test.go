package rtext

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestCacheReusesMeasurement(t *testing.T) {
	c := NewCache(10)
	calls := 0
	measure := func() (float64, float64, error) {
		calls++
		return 42, 10, nil
	}
	w1, h1, err := c.GetOrMeasure("Inter", "bold", 24, 0, "hello", measure)
	assert.NoError(t, err)
	w2, h2, err := c.GetOrMeasure("Inter", "bold", 24, 0, "hello", measure)
	assert.NoError(t, err)
	assert.Equal(t, w1, w2)
	assert.Equal(t, h1, h2)
	assert.Equal(t, 1, calls)
}

func TestCacheEvictsOldestBeyondCapacity(t *testing.T) {
	c := NewCache(2)
	measure := func() (float64, float64, error) { return 1, 1, nil }
	c.GetOrMeasure("f", "w", 10, 0, "a", measure)
	c.GetOrMeasure("f", "w", 10, 0, "b", measure)
	c.GetOrMeasure("f", "w", 10, 0, "c", measure)
	assert.Equal(t, 2, c.Len())
}

func TestParseHexColorFallsBackToOpaqueBlack(t *testing.T) {
	assert.Equal(t, uint8(255), parseHexColor("not-a-color").A)
	c := parseHexColor("#ff0000")
	assert.EqualValues(t, 255, c.R)
}
