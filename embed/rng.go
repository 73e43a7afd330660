// SPDX-License-Identifier: MIT

// RNG utilities shared by the stochastic methods (landmark selection,
// random projection, SPE, factor analysis, t-SNE, iterative eigensolvers).
//
// Determinism:
//   - One base *rand.Rand per Embed call (WithRand, or RandomSeed, or
//     defaultRNGSeed). Every consumer draws from its own derived stream, so
//     adding draws in one stage never shifts the numbers another stage sees.
//
// Concurrency:
//   - math/rand.Rand is not goroutine-safe. Derived streams are created on
//     the calling goroutine before any parallel phase.

package embed

import "math/rand"

// defaultRNGSeed is used when neither WithRand nor RandomSeed is given.
const defaultRNGSeed int64 = 1

// Stream identifiers for deriveRNG. Values are part of the reproducibility
// contract: changing one changes the output of that stage.
const (
	streamEigen uint64 = iota + 1
	streamLandmarks
	streamProjection
	streamSPE
	streamFA
	streamTSNE
)

// rngFromSeed returns a deterministic *rand.Rand; seed==0 selects defaultRNGSeed.
func rngFromSeed(seed int64) *rand.Rand {
	if seed == 0 {
		seed = defaultRNGSeed
	}
	return rand.New(rand.NewSource(seed))
}

// deriveSeed mixes a parent seed and a stream id (SplitMix64 finalizer).
func deriveSeed(parent int64, stream uint64) int64 {
	x := uint64(parent) ^ (stream + 0x9e3779b97f4a7c15)
	x += 0x9e3779b97f4a7c15
	x = (x ^ (x >> 30)) * 0xbf58476d1ce4e5b9
	x = (x ^ (x >> 27)) * 0x94d049bb133111eb
	x ^= x >> 31
	return int64(x)
}

// streams hands out independent generators derived from one parent seed.
// The parent is drawn once from the base generator, so two Embed calls that
// share a *rand.Rand still get different streams.
type streams struct {
	parent int64
}

func newStreams(base *rand.Rand) streams {
	if base == nil {
		return streams{parent: defaultRNGSeed}
	}
	return streams{parent: base.Int63()}
}

// rng returns the generator for stream id.
func (s streams) rng(stream uint64) *rand.Rand {
	return rand.New(rand.NewSource(deriveSeed(s.parent, stream)))
}

// shuffleInts performs an in-place Fisher–Yates shuffle of a.
func shuffleInts(a []int, r *rand.Rand) {
	for i := len(a) - 1; i > 0; i-- {
		j := r.Intn(i + 1)
		a[i], a[j] = a[j], a[i]
	}
}

// permRange returns a permutation of 0..n-1 drawn from r.
func permRange(n int, r *rand.Rand) []int {
	p := make([]int, n)
	for i := range p {
		p[i] = i
	}
	shuffleInts(p, r)
	return p
}
