// Copyright (c) 2021, The SuperEEG Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

/*
Package supereeg is the overall repository for a whole-brain electrophysiology
reconstruction toolkit implemented in the Go language (golang).

The toolkit infers full-brain activity patterns from the sparse electrode
recordings of individual patients, by aggregating inter-electrode correlation
structure across many subjects and propagating it through a spatial
(radial basis function) smoothness prior, following the "super-EEG" approach.

This top-level of the repository has no functional code -- everything is
organized into the following sub-packages:

* brain: the per-subject data container, holding an electrode time-series
matrix, MNI electrode coordinates, per-session sample rates and labels, and
free-form metadata, with slicing, resampling and electrode-filtering
operations.

* model: the aggregate covariance model built from many brain objects, with
Fit / Update to accumulate subjects and Predict to reconstruct activity at
unrecorded locations for a new subject.

* stats: statistical primitives shared by the above -- column z-scoring,
electrode kurtosis, Fisher r-to-z transforms, and session-averaged
correlation matrices.

* rbf: the radial basis function spatial kernel used to project
inter-electrode correlations into the model's location space.

* recon: the correlation-matrix expansion and pseudoinverse time-series
reconstruction machinery underlying model.Predict.

* filter: electrode screening parameters (kurtosis thresholding).

* examples: compile into runnable programs demonstrating the full
fit-then-predict pipeline on synthetic data.
*/
package supereeg
