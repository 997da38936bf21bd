package scene

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSortTracksDescendingOrdersHighestFirst(t *testing.T) {
	tracks := []Track{
		{ID: "low", Order: 0},
		{ID: "high", Order: 10},
		{ID: "mid", Order: 5},
	}
	sorted := SortTracksDescending(tracks)
	require.Len(t, sorted, 3)
	assert.Equal(t, "high", sorted[0].ID)
	assert.Equal(t, "mid", sorted[1].ID)
	assert.Equal(t, "low", sorted[2].ID)
}

func TestSortTracksDescendingIsStableForTies(t *testing.T) {
	tracks := []Track{
		{ID: "first", Order: 5},
		{ID: "second", Order: 5},
	}
	sorted := SortTracksDescending(tracks)
	require.Len(t, sorted, 2)
	assert.Equal(t, "first", sorted[0].ID)
	assert.Equal(t, "second", sorted[1].ID)
}

func TestSortTracksDescendingDoesNotMutateInput(t *testing.T) {
	tracks := []Track{{ID: "a", Order: 0}, {ID: "b", Order: 10}}
	_ = SortTracksDescending(tracks)
	assert.Equal(t, "a", tracks[0].ID)
}
