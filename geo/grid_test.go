package geo

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGrid_Within(t *testing.T) {
	g := NewGrid(0.5)
	center := Point{Latitude: 42.6900, Longitude: 23.3200}
	g.Insert(0, center)
	g.Insert(1, Point{Latitude: 42.6920, Longitude: 23.3200}) // ~0.22 km
	g.Insert(2, Point{Latitude: 42.6940, Longitude: 23.3200}) // ~0.44 km
	g.Insert(3, Point{Latitude: 42.7100, Longitude: 23.3200}) // ~2.2 km

	require.Equal(t, 4, g.Len())

	matches := g.Within(center, 0.5)
	require.Len(t, matches, 3)

	// ascending by distance
	assert.Equal(t, 0, matches[0].ID)
	assert.Equal(t, 1, matches[1].ID)
	assert.Equal(t, 2, matches[2].ID)
	for i := 1; i < len(matches); i++ {
		assert.LessOrEqual(t, matches[i-1].DistanceKM, matches[i].DistanceKM)
	}
}

func TestGrid_WithinCrossesCellBoundaries(t *testing.T) {
	// a tiny cell size forces the query to visit many buckets
	g := NewGrid(0.1)
	center := Point{Latitude: 42.69, Longitude: 23.32}
	g.Insert(7, Point{Latitude: 42.6950, Longitude: 23.3250})

	matches := g.Within(center, 1.0)
	require.Len(t, matches, 1)
	assert.Equal(t, 7, matches[0].ID)
}

func TestGrid_WithinEmptyAndZeroRadius(t *testing.T) {
	g := NewGrid(0.5)
	assert.Empty(t, g.Within(Point{Latitude: 42.69, Longitude: 23.32}, 0.5))

	g.Insert(1, Point{Latitude: 42.69, Longitude: 23.32})
	assert.Nil(t, g.Within(Point{Latitude: 42.69, Longitude: 23.32}, 0))
	assert.Nil(t, g.Within(Point{Latitude: 42.69, Longitude: 23.32}, -1))
}
