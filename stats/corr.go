// Copyright (c) 2021, The SuperEEG Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package stats

import (
	"gonum.org/v1/gonum/mat"
	"gonum.org/v1/gonum/stat"
)

// Corrmat returns the electrodes x electrodes Pearson correlation matrix of
// data (samples x electrodes), computed separately within each session row
// range and averaged across sessions in Fisher z space before transforming
// back to correlations.  The diagonal is 1.
func Corrmat(data *mat.Dense, sessions [][2]int) *mat.Dense {
	_, nc := data.Dims()
	zsum := mat.NewDense(nc, nc, nil)
	sym := mat.NewSymDense(nc, nil)
	for _, ses := range sessions {
		blk := data.Slice(ses[0], ses[1], 0, nc)
		stat.CorrelationMatrix(sym, blk, nil)
		for r := 0; r < nc; r++ {
			for c := 0; c < nc; c++ {
				zsum.Set(r, c, zsum.At(r, c)+R2Z(sym.At(r, c)))
			}
		}
	}
	ns := float64(len(sessions))
	out := mat.NewDense(nc, nc, nil)
	for r := 0; r < nc; r++ {
		for c := 0; c < nc; c++ {
			out.Set(r, c, Z2R(zsum.At(r, c)/ns))
		}
	}
	return out
}
