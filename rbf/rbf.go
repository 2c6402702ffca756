// Copyright (c) 2021, The SuperEEG Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

/*
Package rbf provides the radial basis function spatial kernel that links
electrode locations to model locations in MNI space.

The kernel encodes the smoothness prior of the reconstruction: correlation
structure observed at an electrode is assumed to inform nearby brain
locations, with influence falling off as a Gaussian of the inter-location
distance.  The default width of 20 mm matches the resolution of the
standard gray-matter templates the models are built on.
*/
package rbf

import (
	"math"

	"github.com/goki/mat32"
	"gonum.org/v1/gonum/mat"
)

// Params are the radial basis function kernel parameters.
type Params struct {
	Width float64 `def:"20" min:"0" desc:"kernel width in mm -- variance of the Gaussian falloff of an electrode's influence over surrounding locations"`
}

func (rp *Params) Defaults() {
	rp.Width = 20
}

// Weight returns the kernel weight between two MNI locations:
// exp(-dist^2 / width).
func (rp *Params) Weight(a, b mat32.Vec3) float64 {
	d := float64(a.DistTo(b))
	return math.Exp(-(d * d) / rp.Width)
}

// Weights returns the len(to) x len(from) matrix of kernel weights from
// each source location (typically a subject's electrodes) to each target
// location (typically the model's full location set).
func (rp *Params) Weights(to, from []mat32.Vec3) *mat.Dense {
	w := mat.NewDense(len(to), len(from), nil)
	for i, t := range to {
		for j, f := range from {
			w.Set(i, j, rp.Weight(t, f))
		}
	}
	return w
}
