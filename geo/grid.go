package geo

import (
	"math"
	"sort"
)

// kmPerDegreeLat is close to constant everywhere on the sphere.
const kmPerDegreeLat = math.Pi * EarthRadiusKM / 180

// Match is one indexed point found inside a radius query.
type Match struct {
	ID         int
	DistanceKM float64
}

// Grid buckets points into fixed-size latitude/longitude cells so a
// radius query only visits nearby buckets instead of every point.
type Grid struct {
	cellDeg float64
	cells   map[[2]int][]gridEntry
}

type gridEntry struct {
	id int
	pt Point
}

// NewGrid creates a grid whose cells are roughly cellKM wide at the
// equator. Radius queries remain exact; the cell size only affects how
// many buckets a query touches.
func NewGrid(cellKM float64) *Grid {
	if cellKM <= 0 {
		cellKM = 1
	}
	return &Grid{
		cellDeg: cellKM / kmPerDegreeLat,
		cells:   map[[2]int][]gridEntry{},
	}
}

// Insert adds a point under the caller's integer id.
func (g *Grid) Insert(id int, p Point) {
	k := g.key(p.Latitude, p.Longitude)
	g.cells[k] = append(g.cells[k], gridEntry{id: id, pt: p})
}

// Len returns the number of indexed points.
func (g *Grid) Len() int {
	n := 0
	for _, c := range g.cells {
		n += len(c)
	}
	return n
}

// Within returns every indexed point at most radiusKM away from center,
// ordered ascending by distance.
func (g *Grid) Within(center Point, radiusKM float64) []Match {
	if radiusKM <= 0 {
		return nil
	}
	latSpan := radiusKM / kmPerDegreeLat
	lonKM := kmPerDegreeLat * math.Cos(center.Latitude*math.Pi/180)
	lonSpan := latSpan
	if lonKM > 0.001 {
		lonSpan = radiusKM / lonKM
	}

	minLat := int(math.Floor((center.Latitude - latSpan) / g.cellDeg))
	maxLat := int(math.Floor((center.Latitude + latSpan) / g.cellDeg))
	minLon := int(math.Floor((center.Longitude - lonSpan) / g.cellDeg))
	maxLon := int(math.Floor((center.Longitude + lonSpan) / g.cellDeg))

	var out []Match
	for la := minLat; la <= maxLat; la++ {
		for lo := minLon; lo <= maxLon; lo++ {
			for _, e := range g.cells[[2]int{la, lo}] {
				d := DistanceKM(center, e.pt)
				if d <= radiusKM {
					out = append(out, Match{ID: e.id, DistanceKM: d})
				}
			}
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].DistanceKM < out[j].DistanceKM })
	return out
}

func (g *Grid) key(lat, lon float64) [2]int {
	return [2]int{int(math.Floor(lat / g.cellDeg)), int(math.Floor(lon / g.cellDeg))}
}
