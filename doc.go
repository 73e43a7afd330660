// Package lvlembed is a dimensionality-reduction toolkit: it maps N points
// of any user type into a dense N×d embedding using one of nineteen
// spectral, distance-preserving, linear or stochastic methods.
//
// 🚀 What is lvlembed?
//
//	A callback-driven engine that never looks inside your points:
//		• Kernel, distance and feature-vector callbacks describe the data
//		• Neighbor search: brute force, vantage-point tree, k-d tree
//		• Sparse weight builders: LLE, LTSA, Hessian LLE, Laplacian
//		• Eigensolvers: dense, Lanczos, randomized
//		• Linear projections for out-of-sample points
//		• Stochastic methods: SPE, t-SNE, factor analysis
//
// ✨ Why choose lvlembed?
//
//   - Deterministic: a seed fixes every result, whatever the worker count
//   - Cancellable: context.Context plus an optional cancel hook
//   - Typed parameters with range checks and sentinel errors
//   - Pure Go on top of gonum; no cgo
//
// Everything is organized under these subpackages:
//
//	embed/       Embed entry point, method table, parameter resolution
//	params/      typed parameter values and range checks
//	neighbors/   k-nearest-neighbor search and connectivity
//	weights/     sparse alignment and Laplacian matrices
//	eigen/       eigensolver backends
//	matrix/      CSR accumulator, centering, symmetry checks
//	projection/  out-of-sample projecting functions
//	tsne/        exact t-SNE runner
//	datasets/    synthetic manifolds (swiss roll, s-curve, helix, grid, blobs)
//	cmd/lvlembed command-line front end
//
// Quick example:
//
//	ds, _ := datasets.SwissRoll(1000)
//	res, _ := embed.Embed(ctx, embed.Isomap, ds.Points,
//		embed.VectorCallbacks(3), params.Map{params.NumberOfNeighbors: 12})
//
//	go get github.com/katalvlaran/lvlembed
package lvlembed
