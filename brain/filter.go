// Copyright (c) 2021, The SuperEEG Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package brain

import (
	"fmt"

	"github.com/hl1477/supereeg/filter"
)

// ApplyFilter returns a brain object with artifactual electrodes screened
// out according to the given parameters (nil uses the defaults: kurtosis
// threshold 10).  If every electrode passes, the receiver is returned
// unchanged.  Reconstruction needs at least 2 surviving electrodes, so
// fewer is an error.
func (b *Brain) ApplyFilter(fp *filter.Params) (*Brain, error) {
	if fp == nil {
		fp = &filter.Params{}
		fp.Defaults()
	}
	if err := fp.Validate(); err != nil {
		return nil, err
	}
	keep := fp.Keep(b.Kurt)
	if len(keep) < 2 {
		return nil, fmt.Errorf("brain: not enough electrodes pass %s threshold %g: %d of %d",
			fp.Measure, fp.Threshold, len(keep), b.NumElecs())
	}
	if len(keep) == b.NumElecs() {
		return b, nil
	}
	return b.SelectElecs(keep), nil
}
