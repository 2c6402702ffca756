// Copyright (c) 2021, The SuperEEG Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

/*
Package stats provides the statistical primitives shared by the brain and
model packages: column z-scoring, per-electrode kurtosis, Fisher r-to-z
transforms, and session-averaged correlation matrices.

All routines operate on float64 gonum matrices with samples as rows and
electrodes as columns.
*/
package stats

import (
	"math"

	"gonum.org/v1/gonum/mat"
)

// ZScoreColumns z-scores each column of the given row range of src
// ((x - mean) / std, population std) writing into the same rows of dst.
// Columns with zero variance are set to zero rather than NaN.
// dst and src must have the same shape and may be the same matrix.
func ZScoreColumns(dst, src *mat.Dense, start, end int) {
	_, nc := src.Dims()
	n := float64(end - start)
	for c := 0; c < nc; c++ {
		mean := 0.0
		for r := start; r < end; r++ {
			mean += src.At(r, c)
		}
		mean /= n
		sd := 0.0
		for r := start; r < end; r++ {
			d := src.At(r, c) - mean
			sd += d * d
		}
		sd = math.Sqrt(sd / n)
		for r := start; r < end; r++ {
			if sd == 0 {
				dst.Set(r, c, 0)
			} else {
				dst.Set(r, c, (src.At(r, c)-mean)/sd)
			}
		}
	}
}

// ZScore returns a new matrix with each column of m z-scored independently
// within each session row range.  A single range covering all rows gives
// plain column z-scoring.
func ZScore(m *mat.Dense, sessions [][2]int) *mat.Dense {
	nr, nc := m.Dims()
	out := mat.NewDense(nr, nc, nil)
	for _, ses := range sessions {
		ZScoreColumns(out, m, ses[0], ses[1])
	}
	return out
}
