package colors

import (
	"math"
	"math/rand"

	"gonum.org/v1/gonum/floats"
)

// Fixed seed keeps cluster extraction deterministic across runs on the
// same crop.
const kmeansSeed = 42

const kmeansMaxIterations = 25

// kMeans clusters points (RGB triples as float vectors) into k groups and
// returns the centroids with their member counts. Points must be non-empty
// and k >= 1.
func kMeans(points [][]float64, k int) ([][]float64, []int) {
	if k > len(points) {
		k = len(points)
	}
	rng := rand.New(rand.NewSource(kmeansSeed))
	centroids := seedCentroids(points, k, rng)

	assign := make([]int, len(points))
	for i := range assign {
		assign[i] = -1
	}
	counts := make([]int, k)

	for iter := 0; iter < kmeansMaxIterations; iter++ {
		changed := false
		for i, p := range points {
			j := nearestCentroid(centroids, p)
			if assign[i] != j {
				assign[i] = j
				changed = true
			}
		}
		if !changed {
			break
		}

		dim := len(points[0])
		sums := make([][]float64, k)
		for j := range sums {
			sums[j] = make([]float64, dim)
			counts[j] = 0
		}
		for i, p := range points {
			floats.Add(sums[assign[i]], p)
			counts[assign[i]]++
		}
		for j := range centroids {
			if counts[j] == 0 {
				continue
			}
			floats.Scale(1/float64(counts[j]), sums[j])
			centroids[j] = sums[j]
		}
	}

	return centroids, counts
}

// seedCentroids picks initial centroids with k-means++ style weighting:
// each further centroid is drawn proportionally to its squared distance
// from the nearest one chosen so far.
func seedCentroids(points [][]float64, k int, rng *rand.Rand) [][]float64 {
	centroids := make([][]float64, 0, k)
	centroids = append(centroids, clonePoint(points[rng.Intn(len(points))]))

	dists := make([]float64, len(points))
	for len(centroids) < k {
		var total float64
		for i, p := range points {
			best := math.Inf(1)
			for _, c := range centroids {
				if d := floats.Distance(p, c, 2); d < best {
					best = d
				}
			}
			dists[i] = best * best
			total += dists[i]
		}
		if total == 0 {
			// All remaining points coincide with a centroid.
			centroids = append(centroids, clonePoint(points[rng.Intn(len(points))]))
			continue
		}
		target := rng.Float64() * total
		idx := len(points) - 1
		var acc float64
		for i, d := range dists {
			acc += d
			if acc >= target {
				idx = i
				break
			}
		}
		centroids = append(centroids, clonePoint(points[idx]))
	}
	return centroids
}

func nearestCentroid(centroids [][]float64, p []float64) int {
	best, bestDist := 0, math.Inf(1)
	for j, c := range centroids {
		if d := floats.Distance(p, c, 2); d < bestDist {
			best, bestDist = j, d
		}
	}
	return best
}

func clonePoint(p []float64) []float64 {
	out := make([]float64, len(p))
	copy(out, p)
	return out
}
