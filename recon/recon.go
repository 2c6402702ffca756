// Copyright (c) 2021, The SuperEEG Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package recon

import (
	"fmt"
	"math"

	"github.com/hl1477/supereeg/stats"
	"gonum.org/v1/gonum/mat"
)

// PInv returns the Moore-Penrose pseudoinverse of a, computed from the
// thin SVD with singular values below max(m,n) * eps * sigma_max treated
// as zero.
func PInv(a *mat.Dense) (*mat.Dense, error) {
	var svd mat.SVD
	if ok := svd.Factorize(a, mat.SVDThin); !ok {
		return nil, fmt.Errorf("recon: SVD factorization failed")
	}
	var u, v mat.Dense
	svd.UTo(&u)
	svd.VTo(&v)
	sv := svd.Values(nil)

	m, n := a.Dims()
	mx := m
	if n > mx {
		mx = n
	}
	eps := math.Nextafter(1, 2) - 1
	tol := float64(mx) * eps * sv[0]

	k := len(sv)
	sinv := mat.NewDense(k, k, nil)
	for i, s := range sv {
		if s > tol {
			sinv.Set(i, i, 1/s)
		}
	}
	var vs, pinv mat.Dense
	vs.Mul(&v, sinv)
	pinv.Mul(&vs, u.T())
	return &pinv, nil
}

// Reconstruct infers activity at unobserved locations.  k is the full
// n x n correlation matrix over locations ordered with the n-e locations
// to reconstruct first and the e observed electrode locations last; y is
// the observed samples x e time-series with the given session row ranges.
// The result is samples x (n-e): the observed data, z-scored per session,
// mapped through kba * pinv(kaa).
func Reconstruct(k *mat.Dense, y *mat.Dense, sessions [][2]int) (*mat.Dense, error) {
	n, _ := k.Dims()
	t, e := y.Dims()
	u := n - e
	if u <= 0 {
		return nil, fmt.Errorf("recon: no locations to reconstruct: %d total, %d observed", n, e)
	}
	kba := mat.DenseCopyOf(k.Slice(0, u, u, n)) // unknown x known
	kaa := mat.DenseCopyOf(k.Slice(u, n, u, n)) // known x known

	kinv, err := PInv(kaa)
	if err != nil {
		return nil, err
	}
	var w mat.Dense
	w.Mul(kba, kinv) // u x e

	z := stats.ZScore(y, sessions)
	out := mat.NewDense(t, u, nil)
	out.Mul(z, w.T())
	return out, nil
}
