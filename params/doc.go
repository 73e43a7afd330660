// Package params provides typed, validated access to method parameters.
//
// A Map is an untyped bag (key → value) owned by the caller. Every consumer
// reads it through Lookup, which converts the stored value to the declared Go
// type and reports ErrWrongParameterType otherwise. The returned Parameter is
// immutable: defaults are attached with WithDefault and range checks
// (InRange, Positive, NonNegative) fail with ErrParameterOutOfRange at
// validation time, long before the value is used.
//
// Usage:
//
//	k, err := params.Lookup[int](pm, params.NumberOfNeighbors)
//	if err != nil {
//	    return err
//	}
//	if k, err = params.InRange(k.WithDefault(10), 3, n-1); err != nil {
//	    return err
//	}
//	neighbors, err := k.Value()
//
// Conversion policy:
//
//	int      ← any Go integer kind, or a float holding an integral value
//	float64  ← any Go integer or float kind
//	others   ← exact dynamic type only (bool, string, enum types)
package params
