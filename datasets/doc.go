// Package datasets generates synthetic point clouds on known manifolds for
// tests, examples and the command line tool.
//
// The package offers:
//
//   - Manifolds with a known intrinsic parametrization:
//     – SwissRoll: a 2-D sheet rolled in R³.
//     – SCurve:    a 2-D sheet bent into an S in R³.
//     – Helix:     a 1-D curve winding around the z axis in R³.
//     – Grid:      a flat rows×cols lattice in the z=0 plane of R³.
//   - Clustered data:
//     – Blobs:     isotropic Gaussian clusters in R^dim.
//   - Configuration primitives:
//     – Option:    a function that mutates datasetConfig before use.
//     – WithSeed, WithRand, WithNoise, WithScale.
//
// Guarantees:
//
//   - Strict determinism per (size, options); the default generator is
//     seeded with DefaultSeed.
//   - Fast-fail on invalid option values via panics in option constructors;
//     invalid sizes surface as ErrBadSize.
//   - Every generator returns a Dataset whose Param rows hold the intrinsic
//     coordinates, so tests can compare an embedding against ground truth.
package datasets
