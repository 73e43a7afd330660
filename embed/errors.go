// SPDX-License-Identifier: MIT

package embed

import (
	"errors"

	"github.com/katalvlaran/lvlembed/eigen"
	"github.com/katalvlaran/lvlembed/neighbors"
	"github.com/katalvlaran/lvlembed/params"
	"github.com/katalvlaran/lvlembed/weights"
)

var (
	// ErrCancelled is returned when the cancel hook or the context reports
	// cancellation before work begins.
	ErrCancelled = errors.New("embed: cancelled")

	// ErrMissingCallback indicates that the method needs a callback
	// (kernel, distance or feature vector) the caller did not supply.
	ErrMissingCallback = errors.New("embed: required callback missing")

	// ErrUnknownMethod indicates a Method outside the closed set.
	ErrUnknownMethod = errors.New("embed: unknown method")

	// ErrEmptyDataset is returned for fewer than two points.
	ErrEmptyDataset = errors.New("embed: at least two points are required")
)

// Errors raised by the lower layers, re-exported so callers can match the
// whole taxonomy against one package.
var (
	ErrWrongParameterType            = params.ErrWrongParameterType
	ErrParameterOutOfRange           = params.ErrParameterOutOfRange
	ErrParameterNotSet               = params.ErrParameterNotSet
	ErrDisconnectedNeighborhoodGraph = neighbors.ErrDisconnectedNeighborhoodGraph
	ErrInsufficientNeighborhoodSize  = weights.ErrInsufficientNeighborhoodSize
	ErrSingularLocalSystem           = weights.ErrSingularLocalSystem
	ErrEigenSolverDidNotConverge     = eigen.ErrEigenSolverDidNotConverge
)
