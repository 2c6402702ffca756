// Copyright (c) 2021, The SuperEEG Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

/*
Package filter provides electrode screening parameters for brain objects.

Intracranial recordings routinely include channels dominated by artifacts
(epileptiform spikes, line noise, loose contacts).  Such channels have
strongly non-Gaussian amplitude distributions, so they are screened by
thresholding the per-electrode kurtosis: a clean channel sits near the
Gaussian baseline of 3, artifactual channels run much higher.
*/
package filter

import "fmt"

// Kurtosis is currently the only supported screening measure.
const Kurtosis = "kurtosis"

// Params are the electrode screening parameters.
type Params struct {
	Measure   string  `def:"kurtosis" desc:"statistic used to screen electrodes -- kurtosis is the only supported measure"`
	Threshold float64 `def:"10" min:"0" desc:"electrodes whose measure exceeds this value are excluded -- 10 is well above the Gaussian kurtosis baseline of 3"`
}

func (fp *Params) Defaults() {
	fp.Measure = Kurtosis
	fp.Threshold = 10
}

// Validate returns an error if the parameters name an unsupported measure.
func (fp *Params) Validate() error {
	if fp.Measure != Kurtosis {
		return fmt.Errorf("filter: unsupported measure: %q", fp.Measure)
	}
	return nil
}

// Keep returns the indexes of electrodes whose measure values pass the
// threshold, in their original order.
func (fp *Params) Keep(vals []float64) []int {
	keep := make([]int, 0, len(vals))
	for i, v := range vals {
		if v <= fp.Threshold {
			keep = append(keep, i)
		}
	}
	return keep
}
