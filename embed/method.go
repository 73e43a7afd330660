// SPDX-License-Identifier: MIT

package embed

import (
	"fmt"
	"strings"
)

// Method selects the embedding algorithm.
type Method int

const (
	KernelLocallyLinearEmbedding Method = iota
	KernelLocalTangentSpaceAlignment
	DiffusionMap
	MultidimensionalScaling
	LandmarkMultidimensionalScaling
	Isomap
	LandmarkIsomap
	NeighborhoodPreservingEmbedding
	LinearLocalTangentSpaceAlignment
	HessianLocallyLinearEmbedding
	LaplacianEigenmaps
	LocalityPreservingProjections
	PCA
	KernelPCA
	RandomProjection
	StochasticProximityEmbedding
	PassThru
	FactorAnalysis
	TDistributedStochasticNeighborEmbedding

	methodCount // sentinel, keep last
)

// methodInfo is the static description of a method: its names and the
// resources its handler consumes. Validation reads it before any work.
type methodInfo struct {
	name      string
	short     string
	kernel    bool // needs Callbacks.Kernel
	distance  bool // needs Callbacks.Distance
	features  bool // needs Callbacks.Features
	neighbors bool // needs NumberOfNeighbors
	spectral  bool // reports eigenvalues
}

var methods = [methodCount]methodInfo{
	KernelLocallyLinearEmbedding:            {name: "KernelLocallyLinearEmbedding", short: "klle", kernel: true, neighbors: true, spectral: true},
	KernelLocalTangentSpaceAlignment:        {name: "KernelLocalTangentSpaceAlignment", short: "kltsa", kernel: true, neighbors: true, spectral: true},
	DiffusionMap:                            {name: "DiffusionMap", short: "dm", distance: true, spectral: true},
	MultidimensionalScaling:                 {name: "MultidimensionalScaling", short: "mds", distance: true, spectral: true},
	LandmarkMultidimensionalScaling:         {name: "LandmarkMultidimensionalScaling", short: "lmds", distance: true, spectral: true},
	Isomap:                                  {name: "Isomap", short: "isomap", distance: true, neighbors: true, spectral: true},
	LandmarkIsomap:                          {name: "LandmarkIsomap", short: "lisomap", distance: true, neighbors: true, spectral: true},
	NeighborhoodPreservingEmbedding:         {name: "NeighborhoodPreservingEmbedding", short: "npe", kernel: true, features: true, neighbors: true, spectral: true},
	LinearLocalTangentSpaceAlignment:        {name: "LinearLocalTangentSpaceAlignment", short: "lltsa", kernel: true, features: true, neighbors: true, spectral: true},
	HessianLocallyLinearEmbedding:           {name: "HessianLocallyLinearEmbedding", short: "hlle", kernel: true, neighbors: true, spectral: true},
	LaplacianEigenmaps:                      {name: "LaplacianEigenmaps", short: "la", distance: true, neighbors: true, spectral: true},
	LocalityPreservingProjections:           {name: "LocalityPreservingProjections", short: "lpp", distance: true, features: true, neighbors: true, spectral: true},
	PCA:                                     {name: "PCA", short: "pca", features: true, spectral: true},
	KernelPCA:                               {name: "KernelPCA", short: "kpca", kernel: true, spectral: true},
	RandomProjection:                        {name: "RandomProjection", short: "ra", features: true},
	StochasticProximityEmbedding:            {name: "StochasticProximityEmbedding", short: "spe", distance: true},
	PassThru:                                {name: "PassThru", short: "passthru", features: true},
	FactorAnalysis:                          {name: "FactorAnalysis", short: "fa", features: true},
	TDistributedStochasticNeighborEmbedding: {name: "TDistributedStochasticNeighborEmbedding", short: "tsne", features: true},
}

// String returns the full method name.
func (m Method) String() string {
	if !m.valid() {
		return fmt.Sprintf("Method(%d)", int(m))
	}
	return methods[m].name
}

// ShortName returns the abbreviation used by the command line tool.
func (m Method) ShortName() string {
	if !m.valid() {
		return ""
	}
	return methods[m].short
}

func (m Method) valid() bool { return m >= 0 && m < methodCount }

// Methods returns every method in declaration order.
func Methods() []Method {
	out := make([]Method, methodCount)
	for i := range out {
		out[i] = Method(i)
	}
	return out
}

// ParseMethod accepts a full name or an abbreviation. Case, spaces, dashes
// and underscores are ignored.
func ParseMethod(name string) (Method, error) {
	want := normalize(name)
	for i, info := range methods {
		if normalize(info.name) == want || info.short == want {
			return Method(i), nil
		}
	}
	switch want {
	case "lle":
		return KernelLocallyLinearEmbedding, nil
	case "ltsa":
		return KernelLocalTangentSpaceAlignment, nil
	case "leigenmaps":
		return LaplacianEigenmaps, nil
	}
	return 0, fmt.Errorf("%w: %q", ErrUnknownMethod, name)
}

func normalize(s string) string {
	return strings.NewReplacer("_", "", "-", "", " ", "").Replace(strings.ToLower(s))
}
