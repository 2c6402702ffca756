// Copyright (c) 2021, The SuperEEG Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package model

import (
	"fmt"
	"math"
	"sort"

	"github.com/goki/mat32"
	"github.com/hl1477/supereeg/brain"
	"github.com/hl1477/supereeg/filter"
	"github.com/hl1477/supereeg/recon"
	"github.com/hl1477/supereeg/stats"
	"gonum.org/v1/gonum/mat"
)

// PredictParams control how a subject's recording is matched against the
// model before reconstruction.
type PredictParams struct {
	NearestNeighbor bool    `def:"true" desc:"snap each electrode to its nearest model location before predicting"`
	MatchThreshold  float64 `def:"0" desc:"drop electrodes farther than this (mm) from their nearest model location -- 0 means auto: the model's maximum voxel spacing"`
	ForceUpdate     bool    `def:"false" desc:"fold the subject's own correlation matrix into the model before predicting"`
	KThreshold      float64 `def:"10" min:"0" desc:"kurtosis threshold for electrode screening"`
}

func (pp *PredictParams) Defaults() {
	pp.NearestNeighbor = true
	pp.MatchThreshold = 0
	pp.ForceUpdate = false
	pp.KThreshold = 10
}

// Predict reconstructs the subject's activity at every model location not
// covered by one of its electrodes.  The result is a new brain object
// whose electrodes are the reconstructed locations (labeled
// brain.Reconstructed) followed by the subject's observed electrodes
// (labeled brain.Observed, z-scored per session).  pp == nil uses the
// defaults.
func (m *Model) Predict(bo *brain.Brain, pp *PredictParams) (*brain.Brain, error) {
	if pp == nil {
		pp = &PredictParams{}
		pp.Defaults()
	}
	var err error
	if pp.NearestNeighbor {
		bo, err = m.nearNeighbor(bo, pp.MatchThreshold)
		if err != nil {
			return nil, err
		}
	}
	fp := filter.Params{Measure: filter.Kurtosis, Threshold: pp.KThreshold}
	bo, err = bo.ApplyFilter(&fp)
	if err != nil {
		return nil, err
	}

	ratio := m.ratioZ()
	if pp.ForceUpdate {
		num, denom, err := m.fitOne(bo)
		if err != nil {
			return nil, err
		}
		n := m.NumLocs()
		fnum := mat.NewDense(n, n, nil)
		fden := mat.NewDense(n, n, nil)
		fnum.Add(m.Numerator, num)
		fden.Add(m.Denominator, denom)
		ratio = recon.Ratio(fnum, fden)
	}

	joint, elecOf := m.overlap(bo)
	n := m.NumLocs()
	ne := bo.NumElecs()

	var k *mat.Dense
	var reconLocs []mat32.Vec3

	switch {
	case len(joint) == n:
		return nil, fmt.Errorf("model: model locations are a complete subset of the subject's electrodes: nothing to reconstruct")

	case len(joint) == 0:
		// expand the pooled matrix out to the subject's electrode
		// locations, which append after the model locations
		w := m.RBF.Weights(append(m.GetLocs(), bo.Locs...), m.Locs)
		num, denom := recon.ExpandPredict(ratio, w)
		k = recon.Ratio(num, denom)
		reconLocs = m.Locs

	case len(joint) == ne:
		// every electrode sits on a model location: permute the pooled
		// matrix so reconstruction targets lead and observed trail,
		// and permute the electrodes into model-location order
		notJoint := complement(n, joint)
		perm := append(append([]int{}, notJoint...), joint...)
		k = permuteSquare(ratio, perm)
		bo = bo.SelectElecs(elecPermutation(joint, elecOf, nil))
		reconLocs = m.locsAt(notJoint)

	default:
		// partial overlap: permute the pooled matrix as above, expand it
		// to cover the subject's off-model electrodes, then re-pin the
		// pooled block which the expansion only approximates
		notJoint := complement(n, joint)
		perm := append(append([]int{}, notJoint...), joint...)
		permuted := permuteSquare(ratio, perm)
		permLocs := m.locsAt(perm)

		var disjoint []int
		for e := 0; e < ne; e++ {
			if elecOf[e] < 0 {
				disjoint = append(disjoint, e)
			}
		}
		bo = bo.SelectElecs(elecPermutation(joint, elecOf, disjoint))

		w := m.RBF.Weights(append(permLocs, bo.Locs[len(joint):]...), permLocs)
		num, denom := recon.ExpandPredict(permuted, w)
		k = recon.Ratio(num, denom)
		for r := 0; r < n; r++ {
			for c := 0; c < n; c++ {
				k.Set(r, c, permuted.At(r, c))
			}
		}
		reconLocs = m.locsAt(notJoint)
	}

	kr := stats.Z2RMatrix(k)
	nk, _ := kr.Dims()
	for r := 0; r < nk; r++ {
		for c := 0; c < nk; c++ {
			if r == c || math.IsNaN(kr.At(r, c)) {
				// cells no subject ever reached carry no information
				kr.Set(r, c, 0)
			}
		}
	}

	rec, err := recon.Reconstruct(kr, bo.GetData(), bo.SessionRanges())
	if err != nil {
		return nil, err
	}

	// join reconstructed and (z-scored) observed activity
	nu := len(reconLocs)
	obs := bo.ZScoreData()
	ns := bo.NumSamples()
	data := brain.NewTensor(ns, nu+bo.NumElecs())
	for r := 0; r < ns; r++ {
		for c := 0; c < nu; c++ {
			data.Set([]int{r, c}, rec.At(r, c))
		}
		for c := 0; c < bo.NumElecs(); c++ {
			data.Set([]int{r, nu + c}, obs.At(r, c))
		}
	}
	locs := append(append([]mat32.Vec3{}, reconLocs...), bo.Locs...)
	out, err := brain.New(data, locs, bo.SampleRate, bo.Sessions, bo.Meta)
	if err != nil {
		return nil, err
	}
	for i := range out.Label {
		if i < nu {
			out.Label[i] = brain.Reconstructed
		} else {
			out.Label[i] = brain.Observed
		}
	}
	return out, nil
}

// GetLocs returns a copy of the model locations.
func (m *Model) GetLocs() []mat32.Vec3 {
	locs := make([]mat32.Vec3, len(m.Locs))
	copy(locs, m.Locs)
	return locs
}

func (m *Model) locsAt(idx []int) []mat32.Vec3 {
	locs := make([]mat32.Vec3, len(idx))
	for i, j := range idx {
		locs[i] = m.Locs[j]
	}
	return locs
}

// overlap matches the subject's electrodes against the model locations by
// exact coordinate equality (after nearest-neighbor snapping, shared
// locations are bit-identical).  It returns the sorted model indexes
// covered by an electrode, and for each electrode the model index it
// covers (-1 if none).
func (m *Model) overlap(bo *brain.Brain) (joint []int, elecOf []int) {
	elecOf = make([]int, bo.NumElecs())
	seen := map[int]bool{}
	for e := range elecOf {
		elecOf[e] = -1
		for i, loc := range m.Locs {
			if loc == bo.Locs[e] {
				elecOf[e] = i
				if !seen[i] {
					seen[i] = true
					joint = append(joint, i)
				}
				break
			}
		}
	}
	sort.Ints(joint)
	return joint, elecOf
}

// elecPermutation orders the subject's electrodes with the on-model ones
// first (in ascending model-location order) followed by the given
// disjoint electrodes.
func elecPermutation(joint []int, elecOf []int, disjoint []int) []int {
	perm := make([]int, 0, len(elecOf))
	for _, mi := range joint {
		for e, v := range elecOf {
			if v == mi {
				perm = append(perm, e)
				break
			}
		}
	}
	return append(perm, disjoint...)
}

// complement returns the sorted indexes in [0, n) not present in the
// sorted list idx.
func complement(n int, idx []int) []int {
	out := make([]int, 0, n-len(idx))
	k := 0
	for i := 0; i < n; i++ {
		if k < len(idx) && idx[k] == i {
			k++
			continue
		}
		out = append(out, i)
	}
	return out
}

// permuteSquare returns a[perm, perm].
func permuteSquare(a *mat.Dense, perm []int) *mat.Dense {
	n := len(perm)
	out := mat.NewDense(n, n, nil)
	for r := 0; r < n; r++ {
		for c := 0; c < n; c++ {
			out.Set(r, c, a.At(perm[r], perm[c]))
		}
	}
	return out
}

// nearNeighbor snaps each electrode to its nearest model location,
// dropping electrodes farther than the match threshold (auto: the model's
// maximum voxel spacing).
func (m *Model) nearNeighbor(bo *brain.Brain, thresh float64) (*brain.Brain, error) {
	if thresh <= 0 {
		thresh = m.maxVoxelSpacing()
	}
	var keep []int
	var snapped []mat32.Vec3
	for e, loc := range bo.Locs {
		best := -1
		bestD := math.Inf(1)
		for i, ml := range m.Locs {
			if d := float64(loc.DistTo(ml)); d < bestD {
				bestD = d
				best = i
			}
		}
		if best >= 0 && bestD <= thresh {
			keep = append(keep, e)
			snapped = append(snapped, m.Locs[best])
		}
	}
	if len(keep) < 2 {
		return nil, fmt.Errorf("model: only %d of %d electrodes match a model location within %g mm", len(keep), bo.NumElecs(), thresh)
	}
	nb := bo.SelectElecs(keep)
	copy(nb.Locs, snapped)
	return nb, nil
}

// maxVoxelSpacing returns the largest per-dimension gap between adjacent
// model coordinates: the voxel size of the sampled grid.
func (m *Model) maxVoxelSpacing() float64 {
	comp := func(v mat32.Vec3, dim int) float64 {
		switch dim {
		case 0:
			return float64(v.X)
		case 1:
			return float64(v.Y)
		default:
			return float64(v.Z)
		}
	}
	spacing := 0.0
	for dim := 0; dim < 3; dim++ {
		vals := make([]float64, 0, len(m.Locs))
		for _, l := range m.Locs {
			vals = append(vals, comp(l, dim))
		}
		sort.Float64s(vals)
		minGap := math.Inf(1)
		for i := 1; i < len(vals); i++ {
			if g := vals[i] - vals[i-1]; g > 0 && g < minGap {
				minGap = g
			}
		}
		if !math.IsInf(minGap, 1) && minGap > spacing {
			spacing = minGap
		}
	}
	if spacing == 0 {
		return math.Inf(1)
	}
	return spacing
}
