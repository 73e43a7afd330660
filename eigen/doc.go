// SPDX-License-Identifier: MIT

// Package eigen computes a few extreme eigenpairs of symmetric problems
// behind one interface, whatever the backend.
//
// Backends (Method):
//
//   - Dense:      materialises the operator and runs gonum mat.EigenSym.
//     Exact to machine precision; O(n³) time, O(n²) memory.
//   - Lanczos:    Krylov subspace with full reorthogonalisation and thick
//     restarts. Matrix-free; only MulVecTo is called. Fails with
//     ErrEigenSolverDidNotConverge when the residual test is not met
//     within WithMaxIterations restarts.
//   - Randomized: randomized subspace iteration (Halko–Martinsson–Tropp)
//     from a Gaussian start block drawn from WithRand. Matrix-free.
//
// Ordering:
//
//	Smallest returns eigenvalues ascending; Largest returns them descending.
//	skip drops that many leading pairs (the constant null vector of an
//	alignment matrix, for example). Iterative backends reach the smallest
//	eigenvalues through the spectral flip σI − A, with σ an upper bound of
//	the spectrum (Gershgorin for explicit matrices).
//
// Generalized problems:
//
//	SolveGeneralized handles A x = λ B x for symmetric A and symmetric
//	positive definite B. A diagonal B is folded in as D^{-1/2} A D^{-1/2};
//	any other B goes through its Cholesky factor, L⁻¹ A L⁻ᵀ. Eigenvectors
//	are mapped back to the original problem.
//
// Signs:
//
//	Every returned eigenvector has its largest-magnitude entry positive, so
//	results are reproducible across backends.
package eigen
