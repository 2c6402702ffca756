// Copyright (c) 2021, The SuperEEG Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

/*
Package recon implements the correlation-matrix expansion and time-series
reconstruction machinery behind model predictions.

Expansion projects an observed inter-electrode correlation matrix (in
Fisher z space) out to an arbitrary set of brain locations, using radial
basis function weights between locations and electrodes.  Each expanded
cell is a weighted sum over electrode pairs, together with the sum of the
weights themselves, so that sums from many subjects can be pooled as
numerator / denominator matrices and divided at the end.

Reconstruction then treats the expanded correlation matrix as a covariance
model: activity at unobserved locations is the ridge of the observed
time-series through the unknown-known block times the pseudoinverse of the
known-known block.
*/
package recon

import "gonum.org/v1/gonum/mat"

// cleanZ returns a copy of cz with the diagonal and any NaN cells zeroed.
// Expanded sums are pooled across subjects, so undefined cells must drop
// out rather than poison the pool.
func cleanZ(cz *mat.Dense) *mat.Dense {
	n, _ := cz.Dims()
	z := mat.NewDense(n, n, nil)
	for r := 0; r < n; r++ {
		for c := 0; c < n; c++ {
			v := cz.At(r, c)
			if r == c || v != v { // NaN
				continue
			}
			z.Set(r, c, v)
		}
	}
	return z
}

// ExpandFit expands a subject's z-transformed correlation matrix cz
// (electrodes x electrodes) to the model's location space given RBF
// weights w (locations x electrodes).  It returns the numerator matrix of
// weighted correlation sums and the denominator matrix of weight sums,
// both locations x locations, symmetric with zero diagonals.
//
// For each location pair (x, y), every ordered electrode pair (i > j)
// contributes w[x,i]*w[y,j] weight to the denominator and the same weight
// times cz[i,j] to the numerator.
func ExpandFit(cz, w *mat.Dense) (num, denom *mat.Dense) {
	z := cleanZ(cz)
	n, s := w.Dims()
	num = mat.NewDense(n, n, nil)
	denom = mat.NewDense(n, n, nil)
	for x := 0; x < n; x++ {
		xw := w.RawRowView(x)
		for y := 0; y < x; y++ {
			yw := w.RawRowView(y)
			var k, d float64
			for i := 1; i < s; i++ {
				for j := 0; j < i; j++ {
					pw := xw[i] * yw[j]
					d += pw
					k += pw * z.At(i, j)
				}
			}
			num.Set(x, y, k)
			num.Set(y, x, k)
			denom.Set(x, y, d)
			denom.Set(y, x, d)
		}
	}
	return
}

// ExpandPredict expands a model correlation matrix cz (z space, s x s,
// covering the first s of n locations) out to all n locations given RBF
// weights w (n x s).  Cells between two known locations are pinned to the
// model value with unit weight; cells between a known and an unknown
// location are weighted sums over the known location's correlation row;
// cells between two unknown locations use the pairwise form of ExpandFit.
func ExpandPredict(cz, w *mat.Dense) (num, denom *mat.Dense) {
	z := cleanZ(cz)
	n, s := w.Dims()
	num = mat.NewDense(n, n, nil)
	denom = mat.NewDense(n, n, nil)
	for x := 0; x < n; x++ {
		xw := w.RawRowView(x)
		for y := 0; y < x; y++ {
			yw := w.RawRowView(y)
			var k, d float64
			switch {
			case x < s && y < s:
				k = z.At(x, y)
				d = 1
			case x >= s && y >= s:
				for i := 1; i < s; i++ {
					for j := 0; j < i; j++ {
						pw := xw[i] * yw[j]
						d += pw
						k += pw * z.At(i, j)
					}
				}
			default: // y < s <= x: x is unknown, y is known
				for i := 0; i < s; i++ {
					d += xw[i]
					k += xw[i] * z.At(y, i)
				}
			}
			num.Set(x, y, k)
			num.Set(y, x, k)
			denom.Set(x, y, d)
			denom.Set(y, x, d)
		}
	}
	return
}

// Ratio divides num by denom elementwise.  Cells with zero denominator
// come out NaN, matching the pooled-sums semantics: no subject ever
// contributed weight there.
func Ratio(num, denom *mat.Dense) *mat.Dense {
	nr, nc := num.Dims()
	out := mat.NewDense(nr, nc, nil)
	for r := 0; r < nr; r++ {
		for c := 0; c < nc; c++ {
			out.Set(r, c, num.At(r, c)/denom.At(r, c))
		}
	}
	return out
}
