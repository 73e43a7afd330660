// SPDX-License-Identifier: MIT

// Package embed computes low-dimensional embeddings of opaque points.
//
// The caller supplies points of any type together with the pairwise
// callbacks a method needs (Kernel, Distance, FeatureVector), a params.Map
// of method parameters and optional collaborators (logger, progress and
// cancel hooks, random source, t-SNE runner). Embed validates everything
// up front, then sequences the lower layers:
//
//	neighbors.Find  →  weights.{Reconstruction, TangentAlignment, Hessian, Laplacian}
//	                →  eigen.Solve / eigen.SolveGeneralized  →  projection.New
//
// Methods and their callbacks:
//
//	KernelLocallyLinearEmbedding        kernel            k-NN, M = (I−W)ᵀ(I−W), bottom eigenvectors
//	KernelLocalTangentSpaceAlignment    kernel            k-NN, tangent alignment, bottom eigenvectors
//	HessianLocallyLinearEmbedding       kernel            k-NN, Hessian estimator, bottom eigenvectors
//	NeighborhoodPreservingEmbedding     kernel, features  linearized LLE, projection
//	LinearLocalTangentSpaceAlignment    kernel, features  linearized LTSA, projection
//	LaplacianEigenmaps                  distance          k-NN heat kernel, L y = λ D y
//	LocalityPreservingProjections       distance, features linearized Laplacian eigenmaps, projection
//	DiffusionMap                        distance          normalized Gaussian affinities, top eigenvectors
//	MultidimensionalScaling             distance          classical scaling of squared distances
//	LandmarkMultidimensionalScaling     distance          MDS on landmarks + triangulation
//	Isomap                              distance          MDS on k-NN geodesics (Dijkstra)
//	LandmarkIsomap                      distance          geodesics from landmarks only
//	PCA                                 features          covariance eigenvectors, projection
//	KernelPCA                           kernel            centered kernel eigenvectors
//	RandomProjection                    features          Gaussian random projection
//	StochasticProximityEmbedding        distance          stochastic pair updates
//	PassThru                            features          feature vectors as is
//	FactorAnalysis                      features          EM for a linear Gaussian factor model
//	TDistributedStochasticNeighborEmbedding features      delegated to a tsne.Runner
//
// Determinism: with the same inputs, parameters and seed, Embed returns the
// same embedding for any worker count. Every stochastic stage draws from
// its own stream derived from one base generator.
//
// Example:
//
//	pts := [][]float64{...}
//	res, err := embed.Embed(ctx, embed.Isomap, pts, embed.VectorCallbacks(3), params.Map{
//		params.TargetDimension:   2,
//		params.NumberOfNeighbors: 10,
//	})
package embed
