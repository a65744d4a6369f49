package meanshift

import (
	"log/slog"
	"math"
	"math/rand"
)

// ClusterConfig holds the settings of [Cluster].
type ClusterConfig struct {
	// K is the number of output levels. Zero or len(y) selects mean-shift
	// mode, which moves every sample; 0 < K < len(y) selects K-means mode.
	K      int
	Kernel Kernel
	// Beta is the Gaussian precision for Soft and the value support for
	// Hard. K-means with a hard kernel assigns each sample to its nearest
	// centroid and ignores Beta.
	Beta float64
	// Biased averages the input samples instead of the current estimate.
	// K-means mode is always biased.
	Biased  bool
	StopTol float64
	MaxIter int
	// Seed picks the initial K-means centroids.
	Seed   int64
	Logger *slog.Logger
}

// DefaultClusterConfig returns mean-shift mode with a hard kernel,
// β = 0, tolerance 1e-5 and at most 50 iterations.
func DefaultClusterConfig() ClusterConfig {
	return ClusterConfig{
		Kernel:  Hard,
		StopTol: 1e-5,
		MaxIter: 50,
		Seed:    1,
	}
}

// Validate checks the settings that do not depend on the signal.
func (c ClusterConfig) Validate() error {
	if c.K < 0 {
		return invalid("k", c.K, "must be >= 0")
	}
	return validateCommon(c.Kernel, c.Beta, c.StopTol, c.MaxIter)
}

// Cluster denoises y by mean-shift or K-means clustering of its values.
// y is not modified. In K-means mode every output sample is the centroid
// nearest to the input sample.
func Cluster(y []float64, cfg ClusterConfig) (Result, error) {
	if err := validateSignal(y); err != nil {
		return Result{}, err
	}
	if err := cfg.Validate(); err != nil {
		return Result{}, err
	}
	n := len(y)
	if cfg.K > n {
		return Result{}, invalid("k", cfg.K, "must not exceed the signal length")
	}
	log := loggerOrDiscard(cfg.Logger)

	k := cfg.K
	if k == 0 {
		k = n
	}
	kmeans := k < n
	biased := cfg.Biased || kmeans

	var xold []float64
	if kmeans {
		// Distinct sample positions; equal values still give equal centroids
		// and are handled as empty clusters below.
		perm := rand.New(rand.NewSource(cfg.Seed)).Perm(n)
		xold = make([]float64, k)
		for i := range xold {
			xold[i] = y[perm[i]]
		}
	} else {
		xold = make([]float64, n)
		copy(xold, y)
	}
	log.Debug("cluster start", "k", k, "kmeans", kmeans, "kernel", cfg.Kernel.String(),
		"beta", cfg.Beta, "biased", biased)

	// points are what the centroids are compared against: the input in
	// K-means mode, the estimate itself in mean-shift mode.
	points := y
	weights := make([]float64, k) // W[n,c] for one sample n
	num := make([]float64, k)
	den := make([]float64, k)
	xnew := make([]float64, k)

	res := Result{}
	for iter := 0; iter < cfg.MaxIter; iter++ {
		if !kmeans {
			points = xold
		}
		clear(num)
		clear(den)
		for i, p := range points {
			rowSum := kernelRow(weights, xold, p, cfg, kmeans)
			if rowSum == 0 {
				continue
			}
			// Unbiased updates only happen in mean-shift mode, where xold
			// has one entry per sample.
			src := y[i]
			if !biased {
				src = xold[i]
			}
			for c, w := range weights {
				if w == 0 {
					continue
				}
				w /= rowSum
				num[c] += w * src
				den[c] += w
			}
		}
		for c := range xnew {
			if den[c] > 0 {
				xnew[c] = num[c] / den[c]
			} else {
				xnew[c] = xold[c] // empty cluster keeps its centroid
			}
		}

		res.Iterations++
		res.Change = squaredChange(xold, xnew)
		log.Debug("cluster iteration", "iteration", iter, "change", res.Change)
		xold, xnew = xnew, xold
		if res.Change < cfg.StopTol {
			res.Converged = true
			break
		}
	}

	if kmeans {
		res.X = make([]float64, n)
		for i, v := range y {
			res.X[i] = xold[nearest(xold, v)]
		}
	} else {
		res.X = xold
	}

	if res.Converged {
		log.Debug("cluster converged", "iterations", res.Iterations)
	} else {
		log.Warn("clustering did not converge",
			"iterations", res.Iterations, "change", res.Change, "tolerance", cfg.StopTol)
	}
	return res, nil
}

// kernelRow fills w with the kernel weights between p and every centroid
// and returns their sum. Hard K-means uses a nearest-centroid indicator.
func kernelRow(w, centroids []float64, p float64, cfg ClusterConfig, kmeans bool) float64 {
	if kmeans && cfg.Kernel == Hard {
		clear(w)
		w[nearest(centroids, p)] = 1
		return 1
	}
	var sum float64
	for c, x := range centroids {
		d := p - x
		w[c] = cfg.Kernel.weight(cfg.Beta, 0.5*d*d)
		sum += w[c]
	}
	return sum
}

// nearest returns the index of the centroid closest to v, the first one on
// ties.
func nearest(centroids []float64, v float64) int {
	best, bestDist := 0, math.Inf(1)
	for c, x := range centroids {
		if d := math.Abs(v - x); d < bestDist {
			best, bestDist = c, d
		}
	}
	return best
}
