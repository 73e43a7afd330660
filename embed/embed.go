// SPDX-License-Identifier: MIT

package embed

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"
	"github.com/katalvlaran/lvlembed/neighbors"
	"github.com/katalvlaran/lvlembed/params"
	"github.com/katalvlaran/lvlembed/projection"
	"gonum.org/v1/gonum/mat"
)

// Result is the output of one Embed call.
type Result struct {
	// Embedding holds one row of coordinates per input point (N×d).
	Embedding *mat.Dense
	// Eigenvalues of the chosen eigenpairs for spectral methods, nil otherwise.
	Eigenvalues []float64
	// Projection maps new feature vectors into the embedding. Only the
	// linear methods (PCA, NPE, LLTSA, LPP, RandomProjection) set it.
	Projection *projection.Function
	// RunID identifies the call in log records.
	RunID uuid.UUID
}

// Embed computes an embedding of points with method.
//
// Order of work:
//  1. Resolve and validate every parameter in pm against N = len(points),
//     and check that the callbacks the method needs are present.
//  2. Consult the context and the cancel hook; report ErrCancelled.
//  3. Run the method's handler.
//
// Nothing is returned on error: there are no partial results.
//
// Errors:
//   - ErrUnknownMethod, ErrEmptyDataset, ErrMissingCallback.
//   - params.ErrWrongParameterType / ErrParameterOutOfRange / ErrParameterNotSet.
//   - ErrCancelled (wrapping the context error when there is one).
//   - anything the neighbor, weight and eigen stages return, wrapped with
//     the method name.
func Embed[T any](ctx context.Context, method Method, points []T, cb Callbacks[T], pm params.Map, opts ...Option) (*Result, error) {
	o := DefaultOptions()
	for _, opt := range opts {
		opt(&o)
	}
	if !method.valid() {
		return nil, fmt.Errorf("%w: %d", ErrUnknownMethod, int(method))
	}
	n := len(points)
	if n < 2 {
		return nil, fmt.Errorf("%w: got %d", ErrEmptyDataset, n)
	}

	if err := checkCallbacks(method, cb); err != nil {
		return nil, err
	}
	featureDim := 0
	if cb.Features != nil {
		featureDim = cb.Features.Dimension()
	}
	cfg, err := resolveConfig(method, n, featureDim, o.Workers, pm)
	if err != nil {
		return nil, err
	}
	if cfg.usesNeighbors && cfg.neighborsMethod == neighbors.KDTree && cb.Features == nil {
		return nil, fmt.Errorf("%w: kd-tree neighbor search needs feature vectors", ErrMissingCallback)
	}
	if err = ctx.Err(); err != nil {
		return nil, fmt.Errorf("%w: %w", ErrCancelled, err)
	}
	if o.Cancel != nil && o.Cancel() {
		return nil, ErrCancelled
	}

	base := o.Rand
	if base == nil {
		base = rngFromSeed(cfg.seed)
	}
	id := uuid.New()
	r := &run{
		ctx:     ctx,
		method:  method,
		cfg:     cfg,
		ix:      bind(points, cb, cfg.currentDim),
		opts:    o,
		log:     o.Logger.With(slog.String("run", id.String()), slog.String("method", method.String()), slog.Int("n", n)),
		streams: newStreams(base),
	}

	start := time.Now()
	r.log.Info("embedding started", slog.Int("target_dimension", cfg.targetDim))
	o.progress(0)
	res, err := r.dispatch()
	if err != nil {
		r.log.Error("embedding failed", slog.Any("err", err))
		if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
			err = fmt.Errorf("%w: %w", ErrCancelled, err)
		}
		return nil, fmt.Errorf("%s: %w", method, err)
	}
	res.RunID = id
	o.progress(1)
	r.log.Info("embedding finished", slog.Duration("elapsed", time.Since(start)))
	return res, nil
}

// checkCallbacks fails with ErrMissingCallback if the method needs a
// callback cb lacks.
func checkCallbacks[T any](m Method, cb Callbacks[T]) error {
	info := methods[m]
	switch {
	case info.kernel && cb.Kernel == nil:
		return fmt.Errorf("%w: %s needs a kernel", ErrMissingCallback, m)
	case info.distance && cb.Distance == nil:
		return fmt.Errorf("%w: %s needs a distance", ErrMissingCallback, m)
	case info.features && cb.Features == nil:
		return fmt.Errorf("%w: %s needs feature vectors", ErrMissingCallback, m)
	}
	return nil
}

// dispatch runs exactly one handler.
func (r *run) dispatch() (*Result, error) {
	switch r.method {
	case KernelLocallyLinearEmbedding:
		return r.kernelLocallyLinear()
	case KernelLocalTangentSpaceAlignment:
		return r.kernelLocalTangentSpace()
	case DiffusionMap:
		return r.diffusionMap()
	case MultidimensionalScaling:
		return r.multidimensionalScaling()
	case LandmarkMultidimensionalScaling:
		return r.landmarkMultidimensionalScaling()
	case Isomap:
		return r.isomap()
	case LandmarkIsomap:
		return r.landmarkIsomap()
	case NeighborhoodPreservingEmbedding:
		return r.neighborhoodPreserving()
	case LinearLocalTangentSpaceAlignment:
		return r.linearLocalTangentSpace()
	case HessianLocallyLinearEmbedding:
		return r.hessianLocallyLinear()
	case LaplacianEigenmaps:
		return r.laplacianEigenmaps()
	case LocalityPreservingProjections:
		return r.localityPreserving()
	case PCA:
		return r.pca()
	case KernelPCA:
		return r.kernelPCA()
	case RandomProjection:
		return r.randomProjection()
	case StochasticProximityEmbedding:
		return r.stochasticProximity()
	case PassThru:
		return r.passThru()
	case FactorAnalysis:
		return r.factorAnalysis()
	case TDistributedStochasticNeighborEmbedding:
		return r.stochasticNeighbor()
	}
	return nil, fmt.Errorf("%w: %d", ErrUnknownMethod, int(r.method))
}
