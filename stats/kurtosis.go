// Copyright (c) 2021, The SuperEEG Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package stats

import (
	"math"

	"gonum.org/v1/gonum/mat"
)

// Kurtosis returns the Pearson (non-excess) kurtosis of vals: the fourth
// central moment over the squared variance, using population moments.
// A Gaussian sample sits near 3.  Zero-variance input returns 0.
func Kurtosis(vals []float64) float64 {
	n := float64(len(vals))
	if n == 0 {
		return 0
	}
	mean := 0.0
	for _, v := range vals {
		mean += v
	}
	mean /= n
	var m2, m4 float64
	for _, v := range vals {
		d := v - mean
		d2 := d * d
		m2 += d2
		m4 += d2 * d2
	}
	m2 /= n
	m4 /= n
	if m2 == 0 {
		return 0
	}
	return m4 / (m2 * m2)
}

// KurtosisColumns returns the per-column kurtosis of data, computed
// separately within each session row range, taking the worst (maximum)
// session value per column.  An electrode that is artifactual in any
// session is screened on that session's statistics.
func KurtosisColumns(data *mat.Dense, sessions [][2]int) []float64 {
	_, nc := data.Dims()
	kurt := make([]float64, nc)
	for c := range kurt {
		kurt[c] = math.Inf(-1)
	}
	col := []float64{}
	for _, ses := range sessions {
		n := ses[1] - ses[0]
		if cap(col) < n {
			col = make([]float64, n)
		}
		col = col[:n]
		for c := 0; c < nc; c++ {
			for r := ses[0]; r < ses[1]; r++ {
				col[r-ses[0]] = data.At(r, c)
			}
			k := Kurtosis(col)
			if k > kurt[c] {
				kurt[c] = k
			}
		}
	}
	return kurt
}
