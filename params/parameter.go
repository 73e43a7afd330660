// SPDX-License-Identifier: MIT

package params

import (
	"fmt"
	"math"
)

// Numeric lists the value types range checks accept.
type Numeric interface {
	~int | ~int64 | ~float64
}

// Parameter is the typed, immutable view of one Map entry.
// A zero Parameter is unset; Value on it fails with ErrParameterNotSet.
type Parameter[T any] struct {
	key       Key
	value     T
	set       bool
	defaulted bool
}

// Lookup reads key from m and converts the stored value to T.
// A missing key yields an unset Parameter and no error.
func Lookup[T any](m Map, key Key) (Parameter[T], error) {
	raw, ok := m[key]
	if !ok {
		return Parameter[T]{key: key}, nil
	}
	v, ok := convert[T](raw)
	if !ok {
		var want T
		return Parameter[T]{key: key}, fmt.Errorf("%w: %s holds %T, want %T", ErrWrongParameterType, key, raw, want)
	}
	return Parameter[T]{key: key, value: v, set: true}, nil
}

// Key returns the key the parameter was looked up with.
func (p Parameter[T]) Key() Key { return p.key }

// IsSet reports whether the parameter has a value, explicit or default.
func (p Parameter[T]) IsSet() bool { return p.set }

// IsDefault reports whether the value came from WithDefault.
func (p Parameter[T]) IsDefault() bool { return p.defaulted }

// WithDefault returns p unchanged if it is set, or p carrying v otherwise.
func (p Parameter[T]) WithDefault(v T) Parameter[T] {
	if p.set {
		return p
	}
	return Parameter[T]{key: p.key, value: v, set: true, defaulted: true}
}

// Value returns the parameter value or ErrParameterNotSet.
func (p Parameter[T]) Value() (T, error) {
	if !p.set {
		var zero T
		return zero, fmt.Errorf("%w: %s", ErrParameterNotSet, p.key)
	}
	return p.value, nil
}

// InRange checks lo <= value <= hi. Unset parameters pass.
func InRange[T Numeric](p Parameter[T], lo, hi T) (Parameter[T], error) {
	if !p.set {
		return p, nil
	}
	if p.value < lo || p.value > hi || isNaN(p.value) {
		return p, fmt.Errorf("%w: %s=%v not in [%v, %v]", ErrParameterOutOfRange, p.key, p.value, lo, hi)
	}
	return p, nil
}

// Positive checks value > 0. Unset parameters pass.
func Positive[T Numeric](p Parameter[T]) (Parameter[T], error) {
	if !p.set {
		return p, nil
	}
	if !(p.value > 0) {
		return p, fmt.Errorf("%w: %s=%v must be positive", ErrParameterOutOfRange, p.key, p.value)
	}
	return p, nil
}

// NonNegative checks value >= 0. Unset parameters pass.
func NonNegative[T Numeric](p Parameter[T]) (Parameter[T], error) {
	if !p.set {
		return p, nil
	}
	if !(p.value >= 0) {
		return p, fmt.Errorf("%w: %s=%v must be non-negative", ErrParameterOutOfRange, p.key, p.value)
	}
	return p, nil
}

func isNaN[T Numeric](v T) bool {
	return math.IsNaN(float64(v))
}

// OneOf checks that the value is one of allowed. Unset parameters pass.
func OneOf[T comparable](p Parameter[T], allowed ...T) (Parameter[T], error) {
	if !p.set {
		return p, nil
	}
	for _, a := range allowed {
		if p.value == a {
			return p, nil
		}
	}
	return p, fmt.Errorf("%w: %s=%v not one of %v", ErrParameterOutOfRange, p.key, p.value, allowed)
}
