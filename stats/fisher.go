// Copyright (c) 2021, The SuperEEG Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package stats

import (
	"math"

	"gonum.org/v1/gonum/mat"
)

// R2Z is the Fisher r-to-z transform (arctanh).  r = +/-1 maps to +/-Inf,
// which Z2R maps back to +/-1, so perfect correlations round-trip.
func R2Z(r float64) float64 {
	return math.Atanh(r)
}

// Z2R is the inverse Fisher transform (tanh).
func Z2R(z float64) float64 {
	return math.Tanh(z)
}

// R2ZMatrix applies R2Z elementwise, returning a new matrix.
func R2ZMatrix(m *mat.Dense) *mat.Dense {
	nr, nc := m.Dims()
	out := mat.NewDense(nr, nc, nil)
	for r := 0; r < nr; r++ {
		for c := 0; c < nc; c++ {
			out.Set(r, c, R2Z(m.At(r, c)))
		}
	}
	return out
}

// Z2RMatrix applies Z2R elementwise, returning a new matrix.
func Z2RMatrix(m *mat.Dense) *mat.Dense {
	nr, nc := m.Dims()
	out := mat.NewDense(nr, nc, nil)
	for r := 0; r < nr; r++ {
		for c := 0; c < nc; c++ {
			out.Set(r, c, Z2R(m.At(r, c)))
		}
	}
	return out
}
