// Package distance provides functions for calculating distances between
// embedding vectors. Vectors are float64 coordinates, one per pivot.
//
// The heavy lifting is delegated to Gonum: BLAS level-1 routines for the
// squared Euclidean kernel and the floats package for the p-norm distances.
package distance

import (
	"errors"
	"fmt"
	"sync"

	"gonum.org/v1/gonum/blas/gonum"
	"gonum.org/v1/gonum/floats"
)

// DistanceMetric defines the type of distance calculation to perform.
type DistanceMetric string

const (
	// Euclidean is the L2 distance.
	Euclidean DistanceMetric = "euclidean"
	// SquaredEuclidean is the L2 distance without the final square root.
	SquaredEuclidean DistanceMetric = "squared_euclidean"
	// Manhattan is the L1 distance.
	Manhattan DistanceMetric = "manhattan"
)

// ErrLengthMismatch is returned when two vectors have different lengths.
var ErrLengthMismatch = errors.New("vectors must have the same length")

// DistanceFunc computes a distance between two vectors of equal length.
type DistanceFunc func(v1, v2 []float64) (float64, error)

// --- WORKSPACE POOL ---

// diffWorkspace is a pool of scratch slices holding v1 - v2 during the
// squared Euclidean computation.
var diffWorkspace = sync.Pool{
	New: func() interface{} {
		s := make([]float64, 64)
		return &s
	},
}

var gonumEngine = gonum.Implementation{}

// EuclideanDistance returns the L2 distance between v1 and v2.
// Two empty vectors are at distance 0.
func EuclideanDistance(v1, v2 []float64) (float64, error) {
	if len(v1) != len(v2) {
		return 0, fmt.Errorf("euclidean: %w (%d != %d)", ErrLengthMismatch, len(v1), len(v2))
	}
	if len(v1) == 0 {
		return 0, nil
	}
	return floats.Distance(v1, v2, 2), nil
}

// SquaredEuclideanDistance uses Gonum BLAS to compute ||v1 - v2||².
func SquaredEuclideanDistance(v1, v2 []float64) (float64, error) {
	n := len(v1)
	if n != len(v2) {
		return 0, fmt.Errorf("squared euclidean: %w (%d != %d)", ErrLengthMismatch, n, len(v2))
	}
	if n == 0 {
		return 0, nil
	}

	diffPtr := diffWorkspace.Get().(*[]float64)
	defer diffWorkspace.Put(diffPtr)

	if cap(*diffPtr) < n {
		*diffPtr = make([]float64, n)
	}
	diff := (*diffPtr)[:n]

	copy(diff, v1)
	gonumEngine.Daxpy(n, -1, v2, 1, diff, 1)
	return gonumEngine.Ddot(n, diff, 1, diff, 1), nil
}

// ManhattanDistance returns the L1 distance between v1 and v2.
func ManhattanDistance(v1, v2 []float64) (float64, error) {
	if len(v1) != len(v2) {
		return 0, fmt.Errorf("manhattan: %w (%d != %d)", ErrLengthMismatch, len(v1), len(v2))
	}
	if len(v1) == 0 {
		return 0, nil
	}
	return floats.Distance(v1, v2, 1), nil
}

// --- Function Catalog and Dispatcher ---

var funcs = map[DistanceMetric]DistanceFunc{
	Euclidean:        EuclideanDistance,
	SquaredEuclidean: SquaredEuclideanDistance,
	Manhattan:        ManhattanDistance,
}

// GetFunc returns the distance function for metric, or an error if the
// metric is not supported.
func GetFunc(metric DistanceMetric) (DistanceFunc, error) {
	fn, ok := funcs[metric]
	if !ok {
		return nil, fmt.Errorf("metric '%s' not supported", metric)
	}
	return fn, nil
}
