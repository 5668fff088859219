package elevation

import (
	"context"
	"log"
	"math"
	"sync"

	"github.com/HansenHomeAI/DronePathAlgorithim/internal/geo"
)

// BucketSizeFt is the spatial reuse distance: any lookup within this range of
// a previously queried position reuses the cached value instead of issuing a
// new external call. The approximation error is bounded by the local terrain
// gradient over that distance.
const BucketSizeFt = 15.0

// feetPerDegreeLat converts latitude degrees to feet on the spherical earth
// model shared with the coordinate transform.
const feetPerDegreeLat = geo.EarthRadiusM * math.Pi / 180 * geo.FeetPerMeter

// Sample is one resolved elevation, pinned to the position that was queried.
type Sample struct {
	Position    geo.LatLon
	ElevationFt float64
}

// Cache memoizes a Source by spatial bucket. Samples persist for the life of
// the process; there is no eviction (documented limitation: unbounded growth
// across a long-running session). Safe for concurrent readers; cache-miss
// population is serialized by the write lock.
type Cache struct {
	source    Source
	defaultFt float64

	mu      sync.RWMutex
	buckets map[bucketKey][]Sample
}

type bucketKey struct {
	i, j int
}

// NewCache wraps source with spatial memoization. defaultFt is returned
// whenever the source fails or times out; elevation unavailability never
// fails a mission build.
func NewCache(source Source, defaultFt float64) *Cache {
	return &Cache{
		source:    source,
		defaultFt: defaultFt,
		buckets:   make(map[bucketKey][]Sample),
	}
}

// Len returns the number of cached samples.
func (c *Cache) Len() int {
	c.mu.RLock()
	defer c.mu.RUnlock()
	n := 0
	for _, samples := range c.buckets {
		n += len(samples)
	}
	return n
}

// ElevationFt returns the terrain elevation at pos, consulting the external
// source only when no cached sample lies within BucketSizeFt.
func (c *Cache) ElevationFt(ctx context.Context, pos geo.LatLon) float64 {
	c.mu.RLock()
	if s, ok := c.nearbyLocked(pos); ok {
		c.mu.RUnlock()
		return s.ElevationFt
	}
	c.mu.RUnlock()

	ft, err := c.source.LookupFt(ctx, pos)
	if err != nil {
		log.Printf("elevation lookup failed at (%.5f, %.5f), using default %.0f ft: %v",
			pos.Lat, pos.Lon, c.defaultFt, err)
		ft = c.defaultFt
	}

	c.mu.Lock()
	defer c.mu.Unlock()
	// A concurrent miss for the same neighbourhood may have populated it
	// while the external call was in flight.
	if s, ok := c.nearbyLocked(pos); ok {
		return s.ElevationFt
	}
	k := keyFor(pos)
	c.buckets[k] = append(c.buckets[k], Sample{Position: pos, ElevationFt: ft})
	return ft
}

// nearbyLocked scans the 3×3 bucket neighbourhood for a sample within
// BucketSizeFt of pos. Callers hold at least the read lock.
func (c *Cache) nearbyLocked(pos geo.LatLon) (Sample, bool) {
	k := keyFor(pos)
	for di := -1; di <= 1; di++ {
		for dj := -1; dj <= 1; dj++ {
			for _, s := range c.buckets[bucketKey{k.i + di, k.j + dj}] {
				if distanceFt(pos, s.Position) <= BucketSizeFt {
					return s, true
				}
			}
		}
	}
	return Sample{}, false
}

func keyFor(pos geo.LatLon) bucketKey {
	latFt := pos.Lat * feetPerDegreeLat
	lonFt := pos.Lon * feetPerDegreeLat * math.Cos(pos.Lat*math.Pi/180)
	return bucketKey{
		i: int(math.Floor(latFt / BucketSizeFt)),
		j: int(math.Floor(lonFt / BucketSizeFt)),
	}
}

func distanceFt(a, b geo.LatLon) float64 {
	dLatFt := (a.Lat - b.Lat) * feetPerDegreeLat
	dLonFt := (a.Lon - b.Lon) * feetPerDegreeLat * math.Cos(a.Lat*math.Pi/180)
	return math.Hypot(dLatFt, dLonFt)
}
