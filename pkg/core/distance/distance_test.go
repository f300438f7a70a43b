package distance

import (
	"errors"
	"fmt"
	"math"
	"math/rand"
	"testing"
)

// Helper for tolerance-based comparison
func floatsAreEqual(a, b float64) bool {
	const tolerance = 1e-9
	return math.Abs(a-b) < tolerance
}

func TestImplementations(t *testing.T) {
	v1, v2 := []float64{1, 2}, []float64{4, 6}

	t.Run("Euclidean", func(t *testing.T) {
		fn, _ := GetFunc(Euclidean)
		dist, err := fn(v1, v2)
		if err != nil {
			t.Fatal(err)
		}
		if !floatsAreEqual(dist, 5) { // sqrt(9 + 16)
			t.Errorf("got %f, want 5", dist)
		}
	})

	t.Run("SquaredEuclidean", func(t *testing.T) {
		fn, _ := GetFunc(SquaredEuclidean)
		dist, _ := fn(v1, v2)
		if !floatsAreEqual(dist, 25) {
			t.Errorf("got %f, want 25", dist)
		}
	})

	t.Run("Manhattan", func(t *testing.T) {
		fn, _ := GetFunc(Manhattan)
		dist, _ := fn(v1, v2)
		if !floatsAreEqual(dist, 7) {
			t.Errorf("got %f, want 7", dist)
		}
	})

	t.Run("UnknownMetric", func(t *testing.T) {
		if _, err := GetFunc("hamming"); err == nil {
			t.Error("expected error for unsupported metric")
		}
	})
}

func TestEdgeCases(t *testing.T) {
	for metric, fn := range funcs {
		t.Run(string(metric), func(t *testing.T) {
			if d, err := fn(nil, nil); err != nil || d != 0 {
				t.Errorf("empty vectors: got (%f, %v), want (0, nil)", d, err)
			}
			v := []float64{0.3, 0.7, 0.1}
			if d, _ := fn(v, v); !floatsAreEqual(d, 0) {
				t.Errorf("identical vectors: got %f, want 0", d)
			}
			if _, err := fn([]float64{1}, []float64{1, 2}); !errors.Is(err, ErrLengthMismatch) {
				t.Errorf("mismatched lengths: got %v, want ErrLengthMismatch", err)
			}
		})
	}
}

// The pooled workspace must not leak values between calls of different sizes.
func TestSquaredEuclideanWorkspaceReuse(t *testing.T) {
	big1, big2 := generateVectors(256)
	if _, err := SquaredEuclideanDistance(big1, big2); err != nil {
		t.Fatal(err)
	}
	d, _ := SquaredEuclideanDistance([]float64{1, 1}, []float64{0, 0})
	if !floatsAreEqual(d, 2) {
		t.Errorf("got %f, want 2", d)
	}
}

func generateVectors(dims int) ([]float64, []float64) {
	v1 := make([]float64, dims)
	v2 := make([]float64, dims)
	for i := 0; i < dims; i++ {
		v1[i] = rand.Float64()
		v2[i] = rand.Float64()
	}
	return v1, v2
}

func BenchmarkEuclidean(b *testing.B) {
	dims := []int{4, 16, 64, 256}
	for _, d := range dims {
		b.Run(fmt.Sprintf("Euclidean_%dD", d), func(b *testing.B) {
			v1, v2 := generateVectors(d)
			b.ResetTimer()
			for i := 0; i < b.N; i++ {
				EuclideanDistance(v1, v2)
			}
		})
		b.Run(fmt.Sprintf("SquaredEuclidean_%dD", d), func(b *testing.B) {
			v1, v2 := generateVectors(d)
			b.ResetTimer()
			for i := 0; i < b.N; i++ {
				SquaredEuclideanDistance(v1, v2)
			}
		})
	}
}
