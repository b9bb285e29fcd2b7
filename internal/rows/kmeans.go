package rows

import (
	"fmt"
	"math"
	"sort"

	"gonum.org/v1/gonum/stat"

	"github.com/ironsheep/sprocket-align/internal/blob"
	"github.com/ironsheep/sprocket-align/internal/geometry"
)

// KMeansGrouper splits blobs into a fixed number of horizontal bands with
// one-dimensional k-means on the center Y coordinate.
//
// It suits strips that are already close to level, where rows are separated
// vertically. Groups are returned top to bottom and keep input order inside.
type KMeansGrouper struct {
	Rows          int // number of groups; defaults to 2
	MaxIterations int // defaults to 50
}

func (g KMeansGrouper) rows() int {
	if g.Rows <= 0 {
		return 2
	}
	return g.Rows
}

func (g KMeansGrouper) maxIterations() int {
	if g.MaxIterations <= 0 {
		return 50
	}
	return g.MaxIterations
}

// Group partitions blobs into Rows bands. It returns ErrInsufficientInput when
// there are fewer blobs than rows.
func (g KMeansGrouper) Group(blobs []blob.Blob) ([]Group, error) {
	k := g.rows()
	if len(blobs) == 0 || len(blobs) < k {
		return nil, fmt.Errorf("k-means rows: %d blobs for %d rows: %w", len(blobs), k, geometry.ErrInsufficientInput)
	}

	ys := make([]float64, len(blobs))
	for i, b := range blobs {
		ys[i] = b.Center().Y
	}

	// Seed centroids at evenly spaced quantiles of the sorted Y values.
	sorted := append([]float64(nil), ys...)
	sort.Float64s(sorted)
	centroids := make([]float64, k)
	for i := range centroids {
		p := (float64(i) + 0.5) / float64(k)
		centroids[i] = stat.Quantile(p, stat.Empirical, sorted, nil)
	}

	assign := make([]int, len(blobs))
	for iter := 0; iter < g.maxIterations(); iter++ {
		changed := iter == 0
		for i, y := range ys {
			best := 0
			for c := 1; c < k; c++ {
				if math.Abs(y-centroids[c]) < math.Abs(y-centroids[best]) {
					best = c
				}
			}
			if assign[i] != best {
				assign[i] = best
				changed = true
			}
		}
		if !changed {
			break
		}

		for c := range centroids {
			var members []float64
			for i, a := range assign {
				if a == c {
					members = append(members, ys[i])
				}
			}
			if len(members) > 0 {
				centroids[c] = stat.Mean(members, nil)
			}
		}
	}

	order := make([]int, k)
	for i := range order {
		order[i] = i
	}
	sort.SliceStable(order, func(i, j int) bool {
		return centroids[order[i]] < centroids[order[j]]
	})

	groups := make([]Group, 0, k)
	for _, c := range order {
		var group Group
		for i, a := range assign {
			if a == c {
				group = append(group, blobs[i])
			}
		}
		if len(group) > 0 {
			groups = append(groups, group)
		}
	}
	return groups, nil
}
