// SPDX-License-Identifier: MIT
// Package params: sentinel errors.
//
// Callers branch with errors.Is; the key name and offending value are
// attached by wrapping (fmt.Errorf("%w: ...")), never baked into sentinels.

package params

import "errors"

var (
	// ErrWrongParameterType is returned by Lookup when a stored value cannot be
	// converted to the type the caller declared.
	ErrWrongParameterType = errors.New("params: wrong parameter type")

	// ErrParameterOutOfRange is returned by the range checks (InRange,
	// Positive, NonNegative) for a set parameter whose value violates them.
	ErrParameterOutOfRange = errors.New("params: parameter out of range")

	// ErrParameterNotSet is returned by Value for a parameter that was neither
	// present in the Map nor given a default.
	ErrParameterNotSet = errors.New("params: parameter not set")

	// ErrUnknownKey is returned by ParseKey for an unrecognised key name.
	ErrUnknownKey = errors.New("params: unknown parameter key")
)
