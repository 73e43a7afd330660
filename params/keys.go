// SPDX-License-Identifier: MIT

package params

import (
	"fmt"
	"strings"
)

// Key enumerates the parameters understood by the embedding methods.
type Key int

// Parameter keys. The zero value is deliberately not a valid key.
const (
	_ Key = iota
	// TargetDimension is the dimension of the produced embedding (int).
	TargetDimension
	// NumberOfNeighbors is k of the k-NN graph (int).
	NumberOfNeighbors
	// EigenMethod selects the eigensolver backend (eigen.Method).
	EigenMethod
	// NeighborsMethod selects the neighbor search strategy (neighbors.Method).
	// With kdtree, neighbors are ranked by Euclidean feature distance even
	// for methods that otherwise rank by the kernel or distance callback.
	NeighborsMethod
	// CheckConnectivity enables the k-NN graph connectivity check (bool).
	CheckConnectivity
	// GaussianKernelWidth is the heat-kernel width of Laplacian-based and
	// diffusion methods (float64).
	GaussianKernelWidth
	// DiffusionMapTimesteps is the number of diffusion steps (int).
	DiffusionMapTimesteps
	// NullspaceShift is added to the weight-matrix diagonal (float64).
	NullspaceShift
	// KlleShift is the trace-proportional regulariser of local Gram matrices (float64).
	KlleShift
	// LandmarkRatio is the fraction of points used as landmarks (float64).
	LandmarkRatio
	// MaxIteration caps iterative methods (SPE, factor analysis, Lanczos restarts) (int).
	MaxIteration
	// SpeTolerance is the SPE distance regulariser (float64).
	SpeTolerance
	// SpeNumberOfUpdates is the number of SPE pair updates per iteration (int).
	SpeNumberOfUpdates
	// SpeGlobalStrategy selects the global (true) or local (false) SPE strategy (bool).
	SpeGlobalStrategy
	// CurrentDimension is the ambient dimension of feature vectors (int).
	CurrentDimension
	// SnePerplexity is the t-SNE perplexity (float64).
	SnePerplexity
	// SneTheta is the t-SNE Barnes-Hut accuracy knob (float64).
	SneTheta
	// FaEpsilon is the factor-analysis log-likelihood convergence threshold (float64).
	FaEpsilon
	// RandomSeed seeds every stochastic stage of a run (int).
	RandomSeed
	// Workers is the worker count of parallel stages (int).
	Workers

	keyCount // sentinel, keep last
)

var keyNames = [keyCount]string{
	TargetDimension:       "target dimension",
	NumberOfNeighbors:     "number of neighbors",
	EigenMethod:           "eigen method",
	NeighborsMethod:       "neighbors method",
	CheckConnectivity:     "check connectivity",
	GaussianKernelWidth:   "gaussian kernel width",
	DiffusionMapTimesteps: "diffusion map timesteps",
	NullspaceShift:        "nullspace shift",
	KlleShift:             "klle shift",
	LandmarkRatio:         "landmark ratio",
	MaxIteration:          "max iteration",
	SpeTolerance:          "spe tolerance",
	SpeNumberOfUpdates:    "spe number of updates",
	SpeGlobalStrategy:     "spe global strategy",
	CurrentDimension:      "current dimension",
	SnePerplexity:         "sne perplexity",
	SneTheta:              "sne theta",
	FaEpsilon:             "fa epsilon",
	RandomSeed:            "random seed",
	Workers:               "workers",
}

// String returns the human-readable parameter name used in error messages.
func (k Key) String() string {
	if k <= 0 || k >= keyCount {
		return fmt.Sprintf("key(%d)", int(k))
	}
	return keyNames[k]
}

// ParseKey maps a name to its Key. Matching ignores case and treats '_', '-'
// and ' ' as equivalent, so "target_dimension" and "Target Dimension" agree.
func ParseKey(name string) (Key, error) {
	norm := normalizeName(name)
	for k := Key(1); k < keyCount; k++ {
		if normalizeName(keyNames[k]) == norm {
			return k, nil
		}
	}
	return 0, fmt.Errorf("%w: %q", ErrUnknownKey, name)
}

func normalizeName(s string) string {
	s = strings.ToLower(strings.TrimSpace(s))
	return strings.NewReplacer("_", " ", "-", " ").Replace(s)
}

// Map is the caller-owned parameter bag. The engine never writes to it.
type Map map[Key]any
