// Copyright (c) 2021, The SuperEEG Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package filter

import "testing"

func TestKeep(t *testing.T) {
	fp := Params{}
	fp.Defaults()
	if err := fp.Validate(); err != nil {
		t.Fatal(err)
	}

	vals := []float64{2.9, 10, 10.0001, 45.2, 3.3}
	keep := fp.Keep(vals)
	want := []int{0, 1, 4}
	if len(keep) != len(want) {
		t.Fatalf("keep: %v, want %v", keep, want)
	}
	for i := range want {
		if keep[i] != want[i] {
			t.Errorf("keep[%d]: %d, want %d", i, keep[i], want[i])
		}
	}
}

func TestValidate(t *testing.T) {
	fp := Params{Measure: "variance", Threshold: 10}
	if err := fp.Validate(); err == nil {
		t.Errorf("expected error for unsupported measure")
	}
}
