// Copyright (c) 2021, The SuperEEG Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

/*
Package brain provides the per-subject data container for intracranial
recordings: an electrode time-series matrix, MNI electrode coordinates,
per-session sample rates, per-electrode labels, and free-form metadata.

A brain object holds a single subject.  If session identifiers are
included, all analyses are performed within session and then aggregated
across sessions.
*/
package brain

import (
	"fmt"
	"log"
	"strings"
	"time"

	"github.com/c2h5oh/datasize"
	"github.com/emer/etable/etensor"
	"github.com/goki/mat32"
	"github.com/hl1477/supereeg/stats"
	"gonum.org/v1/gonum/mat"
)

// DefaultSampleRate in Hz is assumed when no sample rate is given.
const DefaultSampleRate = 1000

// Electrode labels distinguishing recorded channels from model-inferred ones.
const (
	Observed      = "observed"
	Reconstructed = "reconstructed"
)

// Brain is the data container for a single subject.
type Brain struct {
	Data        *etensor.Float64  `desc:"samples x electrodes voltage matrix"`
	Locs        []mat32.Vec3      `desc:"MNI (x,y,z) coordinate of each electrode, in mm"`
	Sessions    []int             `desc:"per-sample recording session id -- sessions are contiguous runs of samples"`
	SampleRate  []float64         `desc:"sample rate in Hz, one per session"`
	Label       []string          `desc:"per-electrode label: observed or reconstructed"`
	Kurt        []float64         `desc:"per-electrode kurtosis, worst session, used for artifact screening"`
	Meta        map[string]string `desc:"optional free-form metadata (subject id, recording params, etc)"`
	DateCreated time.Time         `desc:"time this object was created"`
}

// NewTensor returns an empty samples x electrodes data tensor with
// standard dimension names.
func NewTensor(samples, elecs int) *etensor.Float64 {
	return etensor.NewFloat64([]int{samples, elecs}, nil, []string{"Samples", "Electrodes"})
}

// FromDense copies a gonum matrix into a data tensor.
func FromDense(m *mat.Dense) *etensor.Float64 {
	nr, nc := m.Dims()
	tsr := NewTensor(nr, nc)
	for r := 0; r < nr; r++ {
		for c := 0; c < nc; c++ {
			tsr.Set([]int{r, c}, m.At(r, c))
		}
	}
	return tsr
}

// New creates a brain object from a samples x electrodes data tensor and
// per-electrode MNI locations.  sampleRate is in Hz: either one value per
// session, or a single value broadcast to all sessions; nil defaults to
// 1000 Hz with a logged warning.  sessions gives a per-sample session id;
// nil puts every sample in session 0.  meta may be nil.
func New(data *etensor.Float64, locs []mat32.Vec3, sampleRate []float64, sessions []int, meta map[string]string) (*Brain, error) {
	if data == nil || data.NumDims() != 2 {
		return nil, fmt.Errorf("brain: data must be a 2D samples x electrodes tensor")
	}
	ns := data.Dim(0)
	ne := data.Dim(1)
	if len(locs) != ne {
		return nil, fmt.Errorf("brain: %d electrode locations for %d data columns", len(locs), ne)
	}

	if sessions == nil {
		sessions = make([]int, ns)
	}
	if len(sessions) != ns {
		return nil, fmt.Errorf("brain: %d session ids for %d samples", len(sessions), ns)
	}
	nses, err := checkSessions(sessions)
	if err != nil {
		return nil, err
	}

	switch {
	case sampleRate == nil:
		log.Println("brain: no sample rate given, defaulting to 1000 Hz")
		sampleRate = make([]float64, nses)
		for i := range sampleRate {
			sampleRate[i] = DefaultSampleRate
		}
	case len(sampleRate) == 1 && nses > 1:
		sr := sampleRate[0]
		sampleRate = make([]float64, nses)
		for i := range sampleRate {
			sampleRate[i] = sr
		}
	case len(sampleRate) != nses:
		return nil, fmt.Errorf("brain: %d sample rates for %d sessions", len(sampleRate), nses)
	}
	for _, sr := range sampleRate {
		if sr <= 0 {
			return nil, fmt.Errorf("brain: sample rate must be positive, got %g", sr)
		}
	}

	b := &Brain{
		Data:        data,
		Locs:        locs,
		Sessions:    sessions,
		SampleRate:  sampleRate,
		Meta:        meta,
		DateCreated: time.Now(),
	}
	b.Label = make([]string, ne)
	for i := range b.Label {
		b.Label[i] = Observed
	}
	b.Kurt = stats.KurtosisColumns(b.GetData(), b.SessionRanges())
	return b, nil
}

// checkSessions verifies that session ids form contiguous runs and
// returns the number of sessions.
func checkSessions(sessions []int) (int, error) {
	seen := map[int]bool{}
	nses := 0
	for i, s := range sessions {
		if i == 0 || s != sessions[i-1] {
			if seen[s] {
				return 0, fmt.Errorf("brain: session %d is not a contiguous run of samples", s)
			}
			seen[s] = true
			nses++
		}
	}
	return nses, nil
}

func (b *Brain) NumSamples() int  { return b.Data.Dim(0) }
func (b *Brain) NumElecs() int    { return b.Data.Dim(1) }
func (b *Brain) NumSessions() int { return len(b.SampleRate) }

// SessionRanges returns the [start, end) sample range of each session,
// in session order.
func (b *Brain) SessionRanges() [][2]int {
	var rng [][2]int
	start := 0
	for i := 1; i <= len(b.Sessions); i++ {
		if i == len(b.Sessions) || b.Sessions[i] != b.Sessions[start] {
			rng = append(rng, [2]int{start, i})
			start = i
		}
	}
	return rng
}

// Seconds returns the total recording time across sessions.
func (b *Brain) Seconds() float64 {
	secs := 0.0
	for i, rng := range b.SessionRanges() {
		secs += float64(rng[1]-rng[0]) / b.SampleRate[i]
	}
	return secs
}

// GetData returns a copy of the data as a gonum samples x electrodes matrix.
func (b *Brain) GetData() *mat.Dense {
	vals := make([]float64, len(b.Data.Values))
	copy(vals, b.Data.Values)
	return mat.NewDense(b.NumSamples(), b.NumElecs(), vals)
}

// ZScoreData returns the data z-scored per column within each session.
func (b *Brain) ZScoreData() *mat.Dense {
	return stats.ZScore(b.GetData(), b.SessionRanges())
}

// GetLocs returns a copy of the electrode locations.
func (b *Brain) GetLocs() []mat32.Vec3 {
	locs := make([]mat32.Vec3, len(b.Locs))
	copy(locs, b.Locs)
	return locs
}

// SelectElecs returns a new brain object with the given electrode indexes,
// in the given order.  It is used both for screening out bad electrodes
// and for permuting electrodes into a model's location ordering.
func (b *Brain) SelectElecs(idx []int) *Brain {
	ns := b.NumSamples()
	data := NewTensor(ns, len(idx))
	for r := 0; r < ns; r++ {
		for c, e := range idx {
			data.Set([]int{r, c}, b.Data.Value([]int{r, e}))
		}
	}
	nb := &Brain{
		Data:        data,
		Locs:        make([]mat32.Vec3, len(idx)),
		Sessions:    b.Sessions,
		SampleRate:  b.SampleRate,
		Label:       make([]string, len(idx)),
		Kurt:        make([]float64, len(idx)),
		Meta:        b.Meta,
		DateCreated: b.DateCreated,
	}
	for c, e := range idx {
		nb.Locs[c] = b.Locs[e]
		nb.Label[c] = b.Label[e]
		nb.Kurt[c] = b.Kurt[e]
	}
	return nb
}

// Info returns a human-readable summary of the brain object.
func (b *Brain) Info() string {
	var sb strings.Builder
	fmt.Fprintf(&sb, "Number of electrodes: %d\n", b.NumElecs())
	fmt.Fprintf(&sb, "Recording time in seconds: %g\n", b.Seconds())
	fmt.Fprintf(&sb, "Number of sessions: %d\n", b.NumSessions())
	fmt.Fprintf(&sb, "Sample rate: %v\n", b.SampleRate)
	fmt.Fprintf(&sb, "Date created: %s\n", b.DateCreated.Format(time.ANSIC))
	fmt.Fprintf(&sb, "Meta data: %v\n", b.Meta)
	dmem := datasize.ByteSize(8 * len(b.Data.Values))
	fmt.Fprintf(&sb, "Data memory: %v\n", dmem.HumanReadable())
	return sb.String()
}
