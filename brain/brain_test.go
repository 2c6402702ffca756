// Copyright (c) 2021, The SuperEEG Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package brain

import (
	"math"
	"strings"
	"testing"

	"github.com/goki/mat32"
	"github.com/hl1477/supereeg/filter"
)

const difTol = 1.0e-10

func testLocs(n int) []mat32.Vec3 {
	locs := make([]mat32.Vec3, n)
	for i := range locs {
		locs[i] = mat32.Vec3{X: float32(10 * i), Y: 0, Z: 0}
	}
	return locs
}

// rampBrain returns a 2-electrode brain with linear ramps, ns samples,
// one session at the given rate.
func rampBrain(t *testing.T, ns int, rate float64) *Brain {
	t.Helper()
	data := NewTensor(ns, 2)
	for r := 0; r < ns; r++ {
		data.Set([]int{r, 0}, float64(r))
		data.Set([]int{r, 1}, float64(2*r))
	}
	b, err := New(data, testLocs(2), []float64{rate}, nil, nil)
	if err != nil {
		t.Fatal(err)
	}
	return b
}

func TestNewDefaults(t *testing.T) {
	data := NewTensor(100, 3)
	b, err := New(data, testLocs(3), nil, nil, nil)
	if err != nil {
		t.Fatal(err)
	}
	if b.NumSessions() != 1 {
		t.Errorf("sessions: %d, want 1", b.NumSessions())
	}
	if b.SampleRate[0] != DefaultSampleRate {
		t.Errorf("rate: %g, want %d", b.SampleRate[0], DefaultSampleRate)
	}
	if s := b.Seconds(); math.Abs(s-0.1) > difTol {
		t.Errorf("seconds: %g, want 0.1", s)
	}
	if len(b.Label) != 3 || b.Label[0] != Observed {
		t.Errorf("labels: %v, want all observed", b.Label)
	}
	if len(b.Kurt) != 3 {
		t.Errorf("kurt len: %d, want 3", len(b.Kurt))
	}
	if !strings.Contains(b.Info(), "Number of electrodes: 3") {
		t.Errorf("info missing electrode count:\n%s", b.Info())
	}
}

func TestNewErrors(t *testing.T) {
	data := NewTensor(10, 2)
	if _, err := New(data, testLocs(3), nil, nil, nil); err == nil {
		t.Errorf("expected error on locs/columns mismatch")
	}
	if _, err := New(data, testLocs(2), nil, make([]int, 5), nil); err == nil {
		t.Errorf("expected error on sessions/samples mismatch")
	}
	// session 0 recurs after session 1
	bad := []int{0, 0, 0, 1, 1, 1, 0, 0, 0, 0}
	if _, err := New(data, testLocs(2), nil, bad, nil); err == nil {
		t.Errorf("expected error on non-contiguous sessions")
	}
	if _, err := New(data, testLocs(2), []float64{100, 200, 300}, nil, nil); err == nil {
		t.Errorf("expected error on rates/sessions mismatch")
	}
	if _, err := New(data, testLocs(2), []float64{-5}, nil, nil); err == nil {
		t.Errorf("expected error on negative rate")
	}
}

func TestSessionRates(t *testing.T) {
	data := NewTensor(6, 2)
	sessions := []int{0, 0, 0, 1, 1, 1}
	b, err := New(data, testLocs(2), []float64{250}, sessions, nil)
	if err != nil {
		t.Fatal(err)
	}
	if b.NumSessions() != 2 {
		t.Fatalf("sessions: %d, want 2", b.NumSessions())
	}
	// single rate broadcast to both sessions
	if b.SampleRate[0] != 250 || b.SampleRate[1] != 250 {
		t.Errorf("rates: %v, want [250 250]", b.SampleRate)
	}
	rng := b.SessionRanges()
	if rng[0] != [2]int{0, 3} || rng[1] != [2]int{3, 6} {
		t.Errorf("ranges: %v", rng)
	}
}

func TestZScoreDataPerSession(t *testing.T) {
	data := NewTensor(4, 1)
	for r, v := range []float64{0, 2, 100, 300} {
		data.Set([]int{r, 0}, v)
	}
	b, err := New(data, testLocs(1), []float64{100}, []int{0, 0, 1, 1}, nil)
	if err != nil {
		t.Fatal(err)
	}
	z := b.ZScoreData()
	want := []float64{-1, 1, -1, 1}
	for r := range want {
		if dif := math.Abs(z.At(r, 0) - want[r]); dif > difTol {
			t.Errorf("z[%d]: %v, want %v", r, z.At(r, 0), want[r])
		}
	}
}

func TestGetSlice(t *testing.T) {
	data := NewTensor(6, 2)
	for r := 0; r < 6; r++ {
		data.Set([]int{r, 0}, float64(r))
	}
	b, err := New(data, testLocs(2), []float64{100, 200}, []int{0, 0, 0, 1, 1, 1}, nil)
	if err != nil {
		t.Fatal(err)
	}
	// slice spanning the session boundary keeps both rates
	sl, err := b.GetSlice(2, 5)
	if err != nil {
		t.Fatal(err)
	}
	if sl.NumSamples() != 3 || sl.NumSessions() != 2 {
		t.Fatalf("slice: %d samples %d sessions, want 3 and 2", sl.NumSamples(), sl.NumSessions())
	}
	if sl.SampleRate[0] != 100 || sl.SampleRate[1] != 200 {
		t.Errorf("slice rates: %v, want [100 200]", sl.SampleRate)
	}
	if v := sl.Data.Value([]int{0, 0}); v != 2 {
		t.Errorf("slice data[0,0]: %v, want 2", v)
	}
	// slice within one session drops the other rate
	sl, err = b.GetSlice(0, 3)
	if err != nil {
		t.Fatal(err)
	}
	if sl.NumSessions() != 1 || sl.SampleRate[0] != 100 {
		t.Errorf("slice sessions: %d rates: %v", sl.NumSessions(), sl.SampleRate)
	}
	if _, err = b.GetSlice(4, 2); err == nil {
		t.Errorf("expected error on reversed range")
	}
}

func TestResample(t *testing.T) {
	b := rampBrain(t, 11, 100)
	rb, err := b.Resample(50)
	if err != nil {
		t.Fatal(err)
	}
	if rb.NumSamples() != 6 { // round(11 * 50/100)
		t.Fatalf("samples: %d, want 6", rb.NumSamples())
	}
	if rb.SampleRate[0] != 50 {
		t.Errorf("rate: %g, want 50", rb.SampleRate[0])
	}
	// a linear ramp is preserved exactly by linear interpolation:
	// endpoints map to endpoints
	if v := rb.Data.Value([]int{0, 0}); math.Abs(v) > difTol {
		t.Errorf("first sample: %v, want 0", v)
	}
	if v := rb.Data.Value([]int{5, 0}); math.Abs(v-10) > difTol {
		t.Errorf("last sample: %v, want 10", v)
	}
	// interior points stay on the ramp
	for r := 0; r < 6; r++ {
		want := float64(r) * 2
		if v := rb.Data.Value([]int{r, 0}); math.Abs(v-want) > difTol {
			t.Errorf("sample %d: %v, want %v", r, v, want)
		}
	}
	if _, err := b.Resample(-1); err == nil {
		t.Errorf("expected error on negative rate")
	}
}

func TestApplyFilter(t *testing.T) {
	ns := 20
	data := NewTensor(ns, 3)
	for r := 0; r < ns; r++ {
		v := 1.0
		if r%2 == 0 {
			v = -1
		}
		data.Set([]int{r, 0}, v)
		data.Set([]int{r, 1}, -v)
		// electrode 2: flat with one large spike -> kurtosis 18.05
		if r == ns-1 {
			data.Set([]int{r, 2}, 100)
		}
	}
	b, err := New(data, testLocs(3), []float64{100}, nil, nil)
	if err != nil {
		t.Fatal(err)
	}
	if b.Kurt[2] < 10 {
		t.Fatalf("spike electrode kurtosis: %v, want > 10", b.Kurt[2])
	}
	fb, err := b.ApplyFilter(nil)
	if err != nil {
		t.Fatal(err)
	}
	if fb.NumElecs() != 2 {
		t.Fatalf("filtered electrodes: %d, want 2", fb.NumElecs())
	}
	if fb.Locs[0] != b.Locs[0] || fb.Locs[1] != b.Locs[1] {
		t.Errorf("filtered locs: %v", fb.Locs)
	}
	// all-pass filter returns the receiver unchanged
	lax := &filter.Params{Measure: filter.Kurtosis, Threshold: 100}
	fb2, err := b.ApplyFilter(lax)
	if err != nil {
		t.Fatal(err)
	}
	if fb2 != b {
		t.Errorf("all-pass filter should return the same object")
	}
	// threshold below everything: too few electrodes survive
	strict := &filter.Params{Measure: filter.Kurtosis, Threshold: 0.5}
	if _, err := b.ApplyFilter(strict); err == nil {
		t.Errorf("expected error when fewer than 2 electrodes pass")
	}
}

func TestSelectElecsPermutes(t *testing.T) {
	data := NewTensor(4, 3)
	for r := 0; r < 4; r++ {
		for c := 0; c < 3; c++ {
			data.Set([]int{r, c}, float64(10*r+c))
		}
	}
	b, err := New(data, testLocs(3), []float64{100}, nil, nil)
	if err != nil {
		t.Fatal(err)
	}
	p := b.SelectElecs([]int{2, 0})
	if p.NumElecs() != 2 {
		t.Fatalf("elecs: %d, want 2", p.NumElecs())
	}
	if v := p.Data.Value([]int{1, 0}); v != 12 {
		t.Errorf("permuted data[1,0]: %v, want 12", v)
	}
	if p.Locs[0] != b.Locs[2] || p.Locs[1] != b.Locs[0] {
		t.Errorf("permuted locs: %v", p.Locs)
	}
}
