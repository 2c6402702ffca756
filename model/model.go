// Copyright (c) 2021, The SuperEEG Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

/*
Package model provides the aggregate covariance model at the heart of the
toolkit: a numerator matrix of RBF-weighted, Fisher z-transformed
correlation sums over subjects, and a denominator matrix of the weight
sums, both defined over a fixed set of model locations.

Fit / Update accumulate additional subjects into the running sums, and
Predict reconstructs activity at unrecorded model locations for a new
subject from the pooled correlation structure.
*/
package model

import (
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/goki/mat32"
	"github.com/hl1477/supereeg/brain"
	"github.com/hl1477/supereeg/filter"
	"github.com/hl1477/supereeg/rbf"
	"github.com/hl1477/supereeg/recon"
	"github.com/hl1477/supereeg/stats"
	"gonum.org/v1/gonum/mat"
)

// Model holds the pooled correlation structure across subjects.
type Model struct {
	Numerator   *mat.Dense        `desc:"locations x locations sum of weighted z-scored correlations over subjects"`
	Denominator *mat.Dense        `desc:"locations x locations sum of the RBF weights contributing to each cell"`
	Locs        []mat32.Vec3      `desc:"MNI (x,y,z) coordinate of each model location, in mm"`
	NSubs       int               `desc:"number of subjects accumulated into the model"`
	Meta        map[string]string `desc:"optional free-form metadata"`
	DateCreated time.Time         `desc:"time this object was created"`
	RBF         rbf.Params        `view:"inline" desc:"spatial kernel projecting electrode correlations onto model locations"`
	Filter      filter.Params     `view:"inline" desc:"electrode screening applied to each subject before fitting"`
}

// New returns an empty model over the given locations, with default RBF
// and filtering parameters.  Use Fit to accumulate subjects.
func New(locs []mat32.Vec3) *Model {
	n := len(locs)
	m := &Model{
		Numerator:   mat.NewDense(n, n, nil),
		Denominator: mat.NewDense(n, n, nil),
		Locs:        locs,
		DateCreated: time.Now(),
	}
	m.RBF.Defaults()
	m.Filter.Defaults()
	return m
}

// NewFromParts reassembles a model from precomputed numerator and
// denominator sums, bypassing fitting.
func NewFromParts(num, denom *mat.Dense, locs []mat32.Vec3, nsubs int) (*Model, error) {
	n := len(locs)
	if nr, nc := num.Dims(); nr != n || nc != n {
		return nil, fmt.Errorf("model: numerator is %dx%d for %d locations", nr, nc, n)
	}
	if nr, nc := denom.Dims(); nr != n || nc != n {
		return nil, fmt.Errorf("model: denominator is %dx%d for %d locations", nr, nc, n)
	}
	m := New(locs)
	m.Numerator = num
	m.Denominator = denom
	m.NSubs = nsubs
	return m, nil
}

func (m *Model) NumLocs() int { return len(m.Locs) }

// Copy returns a deep copy of the model.
func (m *Model) Copy() *Model {
	n := m.NumLocs()
	nm := &Model{
		Numerator:   mat.NewDense(n, n, nil),
		Denominator: mat.NewDense(n, n, nil),
		Locs:        make([]mat32.Vec3, n),
		NSubs:       m.NSubs,
		DateCreated: m.DateCreated,
		RBF:         m.RBF,
		Filter:      m.Filter,
	}
	nm.Numerator.Copy(m.Numerator)
	nm.Denominator.Copy(m.Denominator)
	copy(nm.Locs, m.Locs)
	if m.Meta != nil {
		nm.Meta = make(map[string]string, len(m.Meta))
		for k, v := range m.Meta {
			nm.Meta[k] = v
		}
	}
	return nm
}

// fitOne computes a single subject's contribution to the pooled sums:
// screen electrodes, take the session-averaged correlation matrix, Fisher
// transform it, and expand it to model locations through the RBF kernel.
func (m *Model) fitOne(bo *brain.Brain) (num, denom *mat.Dense, err error) {
	fb, err := bo.ApplyFilter(&m.Filter)
	if err != nil {
		return nil, nil, err
	}
	cm := stats.Corrmat(fb.GetData(), fb.SessionRanges())
	cz := stats.R2ZMatrix(cm)
	w := m.RBF.Weights(m.Locs, fb.Locs)
	num, denom = recon.ExpandFit(cz, w)
	return num, denom, nil
}

// accumulate folds one subject's expanded sums into the model.  Cells
// whose numerator came out NaN contribute neither correlation nor weight.
func (m *Model) accumulate(num, denom *mat.Dense) {
	n := m.NumLocs()
	for r := 0; r < n; r++ {
		for c := 0; c < n; c++ {
			k := num.At(r, c)
			if k != k { // NaN
				continue
			}
			m.Numerator.Set(r, c, m.Numerator.At(r, c)+k)
			m.Denominator.Set(r, c, m.Denominator.At(r, c)+denom.At(r, c))
		}
	}
}

// Fit accumulates the given subjects into the model.  Subjects are fit
// concurrently; the accumulation order is the argument order.  On any
// per-subject error the model is left unchanged.
func (m *Model) Fit(bos ...*brain.Brain) error {
	type fitRes struct {
		num, denom *mat.Dense
		err        error
	}
	res := make([]fitRes, len(bos))
	var wg sync.WaitGroup
	for i := range bos {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			res[i].num, res[i].denom, res[i].err = m.fitOne(bos[i])
		}(i)
	}
	wg.Wait()
	for i, r := range res {
		if r.err != nil {
			return fmt.Errorf("model: fitting subject %d: %w", i, r.err)
		}
	}
	for _, r := range res {
		m.accumulate(r.num, r.denom)
	}
	m.NSubs += len(bos)
	return nil
}

// Update returns a new model with the given subjects folded in; the
// receiver is unchanged.
func (m *Model) Update(bos ...*brain.Brain) (*Model, error) {
	nm := m.Copy()
	if err := nm.Fit(bos...); err != nil {
		return nil, err
	}
	return nm, nil
}

// ratioZ returns numerator / denominator: the pooled correlation matrix
// in Fisher z space.  Cells no subject ever reached come out NaN.
func (m *Model) ratioZ() *mat.Dense {
	return recon.Ratio(m.Numerator, m.Denominator)
}

// Corrmat returns the pooled locations x locations correlation matrix,
// with unit diagonal.  Cells no subject ever reached are NaN.
func (m *Model) Corrmat() *mat.Dense {
	out := stats.Z2RMatrix(m.ratioZ())
	for i := 0; i < m.NumLocs(); i++ {
		out.Set(i, i, 1)
	}
	return out
}

// Info returns a human-readable summary of the model object.
func (m *Model) Info() string {
	var sb strings.Builder
	fmt.Fprintf(&sb, "Number of locations: %d\n", m.NumLocs())
	fmt.Fprintf(&sb, "Number of subjects: %d\n", m.NSubs)
	fmt.Fprintf(&sb, "Date created: %s\n", m.DateCreated.Format(time.ANSIC))
	fmt.Fprintf(&sb, "Meta data: %v\n", m.Meta)
	return sb.String()
}
