package habits

import (
	"math"
	"math/rand"

	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/mat"
)

const (
	kmeansSeed     = 42
	kmeansMaxIters = 100
)

// kmeansResult is one fitted partition.
type kmeansResult struct {
	labels    []int
	centroids *mat.Dense
	inertia   float64 // within-cluster sum of squared distances
}

// kmeans runs Lloyd's algorithm with k-means++ seeding on row vectors.
// Seeding is from a fixed source so repeated runs over the same data are
// bit-reproducible.
func kmeans(points *mat.Dense, k int) kmeansResult {
	n, dim := points.Dims()
	rng := rand.New(rand.NewSource(kmeansSeed))

	centroids := seedPlusPlus(points, k, rng)
	labels := make([]int, n)
	counts := make([]int, k)

	for iter := 0; iter < kmeansMaxIters; iter++ {
		changed := false
		for i := 0; i < n; i++ {
			best, bestDist := 0, math.Inf(1)
			for c := 0; c < k; c++ {
				d := sqDist(points.RawRowView(i), centroids.RawRowView(c))
				if d < bestDist {
					best, bestDist = c, d
				}
			}
			if labels[i] != best {
				labels[i] = best
				changed = true
			}
		}
		if !changed && iter > 0 {
			break
		}
		// Recompute centroids; an emptied cluster keeps its previous mean.
		next := mat.NewDense(k, dim, nil)
		for c := range counts {
			counts[c] = 0
		}
		for i := 0; i < n; i++ {
			c := labels[i]
			counts[c]++
			row := next.RawRowView(c)
			floats.Add(row, points.RawRowView(i))
		}
		for c := 0; c < k; c++ {
			if counts[c] == 0 {
				next.SetRow(c, centroids.RawRowView(c))
				continue
			}
			row := next.RawRowView(c)
			floats.Scale(1/float64(counts[c]), row)
		}
		centroids = next
	}

	var inertia float64
	for i := 0; i < n; i++ {
		inertia += sqDist(points.RawRowView(i), centroids.RawRowView(labels[i]))
	}
	return kmeansResult{labels: labels, centroids: centroids, inertia: inertia}
}

// seedPlusPlus picks k initial centroids with the k-means++ weighting.
func seedPlusPlus(points *mat.Dense, k int, rng *rand.Rand) *mat.Dense {
	n, dim := points.Dims()
	centroids := mat.NewDense(k, dim, nil)
	centroids.SetRow(0, points.RawRowView(rng.Intn(n)))

	dists := make([]float64, n)
	for c := 1; c < k; c++ {
		var total float64
		for i := 0; i < n; i++ {
			best := math.Inf(1)
			for j := 0; j < c; j++ {
				if d := sqDist(points.RawRowView(i), centroids.RawRowView(j)); d < best {
					best = d
				}
			}
			dists[i] = best
			total += best
		}
		if total == 0 {
			// All points coincide with chosen centroids; any pick works.
			centroids.SetRow(c, points.RawRowView(rng.Intn(n)))
			continue
		}
		target := rng.Float64() * total
		idx := 0
		for i, d := range dists {
			target -= d
			if target <= 0 {
				idx = i
				break
			}
		}
		centroids.SetRow(c, points.RawRowView(idx))
	}
	return centroids
}

func sqDist(a, b []float64) float64 {
	var s float64
	for i := range a {
		d := a[i] - b[i]
		s += d * d
	}
	return s
}
