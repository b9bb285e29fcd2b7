package rows

import (
	"fmt"

	"github.com/ironsheep/sprocket-align/internal/blob"
	"github.com/ironsheep/sprocket-align/internal/geometry"
)

const (
	// DefaultLookahead is the number of nearest candidates examined per
	// frontier blob.
	DefaultLookahead = 1

	// DefaultMultiplier bounds an admitted distance relative to the running
	// mean of accepted distances. Tuned on 35mm sprocket-hole spacing.
	DefaultMultiplier = 1.5
)

// Group is an ordered set of blobs believed to form one physical row.
type Group []blob.Blob

// Grouper partitions blobs into groups.
type Grouper interface {
	Group(blobs []blob.Blob) ([]Group, error)
}

// DistanceGrouper groups blobs by transitive nearest-neighbour linking.
//
// Zero or negative fields fall back to DefaultLookahead and
// DefaultMultiplier. Use Lookahead 2 when a blob can have neighbours on both
// sides, e.g. holes arranged in a horizontal row.
type DistanceGrouper struct {
	Lookahead  int
	Multiplier float64
}

// GroupByDistance groups blobs with lookahead n and the default multiplier.
func GroupByDistance(blobs []blob.Blob, n int) ([]Group, error) {
	return DistanceGrouper{Lookahead: n}.Group(blobs)
}

func (g DistanceGrouper) lookahead() int {
	if g.Lookahead <= 0 {
		return DefaultLookahead
	}
	return g.Lookahead
}

func (g DistanceGrouper) multiplier() float64 {
	if g.Multiplier <= 0 {
		return DefaultMultiplier
	}
	return g.Multiplier
}

// Group partitions blobs into rows, returned in discovery order.
//
// The first unassigned blob (in input order) seeds each group. Each frontier
// blob proposes its Lookahead nearest unassigned blobs. The first admission to
// a group is always accepted; later candidates are accepted iff their distance
// is below Multiplier times the mean of the distances accepted so far.
// Accepted blobs become the next frontier. A group is closed when the
// frontier yields nothing or no unassigned blobs remain.
//
// Group returns ErrInsufficientInput for an empty input. It does not enforce
// a particular group count.
func (g DistanceGrouper) Group(blobs []blob.Blob) ([]Group, error) {
	if len(blobs) == 0 {
		return nil, fmt.Errorf("group by distance: no blobs: %w", geometry.ErrInsufficientInput)
	}

	n := g.lookahead()
	limit := g.multiplier()

	centers := blob.Centers(blobs)

	// pool holds indices into blobs of everything still unassigned, in input
	// order.
	pool := make([]int, len(blobs))
	for i := range pool {
		pool[i] = i
	}

	var groups []Group
	for len(pool) > 0 {
		seed := pool[0]
		pool = pool[1:]

		members := []int{seed}
		var accepted int
		var distanceSum float64

		frontier := []int{seed}
		for len(frontier) > 0 && len(pool) > 0 {
			var next []int

			for _, from := range frontier {
				candidates := nearest(centers, from, pool, n)

				var admitted []int
				for _, c := range candidates {
					if accepted > 0 {
						mean := distanceSum / float64(accepted)
						if !(c.distance < limit*mean) {
							continue
						}
					}
					admitted = append(admitted, c.index)
					accepted++
					distanceSum += c.distance
				}

				if len(admitted) > 0 {
					members = append(members, admitted...)
					next = append(next, admitted...)
					pool = without(pool, admitted)
				}
				if len(pool) == 0 {
					break
				}
			}

			frontier = next
		}

		group := make(Group, len(members))
		for i, idx := range members {
			group[i] = blobs[idx]
		}
		groups = append(groups, group)
	}

	return groups, nil
}

// candidate is a pool entry with its distance from a reference blob.
type candidate struct {
	index    int
	distance float64
}

// nearest returns up to n pool entries closest to centers[from], ascending by
// distance. Ties keep pool order.
func nearest(centers []geometry.Point, from int, pool []int, n int) []candidate {
	if n > len(pool) {
		n = len(pool)
	}
	best := make([]candidate, 0, n+1)
	origin := centers[from]

	for _, idx := range pool {
		d := origin.Distance(centers[idx])

		// Insert before the first strictly larger distance so that equal
		// distances keep pool order.
		pos := len(best)
		for i, b := range best {
			if d < b.distance {
				pos = i
				break
			}
		}
		if pos >= n {
			continue
		}
		best = append(best, candidate{})
		copy(best[pos+1:], best[pos:])
		best[pos] = candidate{index: idx, distance: d}
		if len(best) > n {
			best = best[:n]
		}
	}

	return best
}

// without returns pool minus the given indices, preserving order.
func without(pool, remove []int) []int {
	drop := make(map[int]struct{}, len(remove))
	for _, r := range remove {
		drop[r] = struct{}{}
	}
	out := make([]int, 0, len(pool))
	for _, p := range pool {
		if _, ok := drop[p]; !ok {
			out = append(out, p)
		}
	}
	return out
}

// Neighbour is a blob found by NearestNeighbours together with its distance.
type Neighbour struct {
	Blob     blob.Blob
	Index    int
	Distance float64
}

// NearestNeighbours returns the n blobs of pool closest to from by center
// distance, ascending. Ties keep pool order. If n exceeds the pool size the
// whole pool is returned, sorted.
func NearestNeighbours(from blob.Blob, pool []blob.Blob, n int) ([]Neighbour, error) {
	if len(pool) == 0 {
		return nil, fmt.Errorf("nearest neighbours: empty pool: %w", geometry.ErrInsufficientInput)
	}
	if n <= 0 {
		return nil, nil
	}

	centers := make([]geometry.Point, len(pool)+1)
	centers[0] = from.Center()
	idx := make([]int, len(pool))
	for i, b := range pool {
		centers[i+1] = b.Center()
		idx[i] = i + 1
	}

	found := nearest(centers, 0, idx, n)
	out := make([]Neighbour, len(found))
	for i, c := range found {
		out[i] = Neighbour{Blob: pool[c.index-1], Index: c.index - 1, Distance: c.distance}
	}
	return out, nil
}
