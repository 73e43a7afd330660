// SPDX-License-Identifier: MIT
// Package: lvlembed/datasets
//
// errors.go: sentinel errors for the datasets package.
//
// Error policy:
//   • Only sentinel variables are exposed; callers use errors.Is.
//   • Context is attached with %w via datasetErrorf.
//   • Generators never panic; validation panics live in option constructors.

package datasets

import (
	"errors"
	"fmt"
)

// ErrBadSize indicates a point count, grid side, cluster count or dimension
// below the generator's minimum.
var ErrBadSize = errors.New("datasets: invalid size")

// Generator tokens for datasetErrorf context.
const (
	MethodSwissRoll = "SwissRoll"
	MethodSCurve    = "SCurve"
	MethodHelix     = "Helix"
	MethodGrid      = "Grid"
	MethodBlobs     = "Blobs"
)

// datasetErrorf prefixes err with the generator name and a formatted detail.
func datasetErrorf(method string, err error, format string, args ...any) error {
	return fmt.Errorf("%s: %s: %w", method, fmt.Sprintf(format, args...), err)
}
