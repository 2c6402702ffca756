// Copyright (c) 2021, The SuperEEG Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package brain

import (
	"fmt"
	"math"
)

// GetSlice returns a new brain object covering the [start, stop) sample
// range, keeping the sessions and sample rates that fall inside it.
func (b *Brain) GetSlice(start, stop int) (*Brain, error) {
	if start < 0 || stop > b.NumSamples() || start >= stop {
		return nil, fmt.Errorf("brain: slice [%d, %d) out of range for %d samples", start, stop, b.NumSamples())
	}
	ne := b.NumElecs()
	data := NewTensor(stop-start, ne)
	for r := start; r < stop; r++ {
		for c := 0; c < ne; c++ {
			data.Set([]int{r - start, c}, b.Data.Value([]int{r, c}))
		}
	}
	sessions := make([]int, stop-start)
	copy(sessions, b.Sessions[start:stop])

	var rates []float64
	for i, rng := range b.SessionRanges() {
		if rng[1] > start && rng[0] < stop {
			rates = append(rates, b.SampleRate[i])
		}
	}
	nb, err := New(data, b.GetLocs(), rates, sessions, b.Meta)
	if err != nil {
		return nil, err
	}
	copy(nb.Label, b.Label)
	return nb, nil
}

// Resample returns a new brain object with every session resampled to the
// given rate, using linear interpolation on the session time base.
func (b *Brain) Resample(rate float64) (*Brain, error) {
	if rate <= 0 {
		return nil, fmt.Errorf("brain: resample rate must be positive, got %g", rate)
	}
	ne := b.NumElecs()
	ranges := b.SessionRanges()

	newLens := make([]int, len(ranges))
	total := 0
	for i, rng := range ranges {
		n := int(math.Round(float64(rng[1]-rng[0]) * rate / b.SampleRate[i]))
		if n < 1 {
			return nil, fmt.Errorf("brain: session %d resamples to zero samples at %g Hz", i, rate)
		}
		newLens[i] = n
		total += n
	}

	data := NewTensor(total, ne)
	sessions := make([]int, total)
	rates := make([]float64, len(ranges))
	row := 0
	for i, rng := range ranges {
		old := rng[1] - rng[0]
		n := newLens[i]
		rates[i] = rate
		for k := 0; k < n; k++ {
			// source position on the session time base
			var p float64
			if n > 1 {
				p = float64(k) * float64(old-1) / float64(n-1)
			}
			lo := int(math.Floor(p))
			hi := lo + 1
			frac := p - float64(lo)
			if hi >= old {
				hi = old - 1
				frac = 0
			}
			for c := 0; c < ne; c++ {
				v0 := b.Data.Value([]int{rng[0] + lo, c})
				v1 := b.Data.Value([]int{rng[0] + hi, c})
				data.Set([]int{row, c}, v0+frac*(v1-v0))
			}
			sessions[row] = b.Sessions[rng[0]]
			row++
		}
	}
	nb, err := New(data, b.GetLocs(), rates, sessions, b.Meta)
	if err != nil {
		return nil, err
	}
	copy(nb.Label, b.Label)
	return nb, nil
}
