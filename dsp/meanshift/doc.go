// Package meanshift removes noise from piecewise-constant signals by
// kernel mean-shift iteration, as an alternative to total-variation
// denoising in package tvd.
//
// [Bilateral] replaces each sample by a kernel-weighted mean of its
// neighbours within a fixed window, where the weights also fall off with
// the difference in value. Samples across a large jump barely influence
// each other, so edges survive while flat runs are smoothed.
//
// [Cluster] ignores sample order: it moves samples (mean-shift mode) or K
// level centroids (K-means mode) towards the weighted means of the values
// near them, so the output takes only a few distinct levels.
//
// Both kernels come in a hard form, the indicator of ½(a-b)² <= β², and a
// soft Gaussian form exp(-β·½(a-b)²).
package meanshift
