package knn

import (
	"errors"
	"fmt"
	"math"
	"sort"
	"strings"

	"gonum.org/v1/gonum/floats"
)

var (
	ErrInvalidK          = errors.New("k must be positive")
	ErrDimensionMismatch = errors.New("vector dimension mismatch")
	ErrEmptyIndex        = errors.New("index has no vectors")
)

// Metric is the distance the index was built with.
type Metric string

const (
	MetricEuclidean Metric = "euclidean"
	MetricManhattan Metric = "manhattan"
)

func ParseMetric(s string) (Metric, error) {
	switch Metric(strings.ToLower(strings.TrimSpace(s))) {
	case MetricEuclidean, "":
		return MetricEuclidean, nil
	case MetricManhattan:
		return MetricManhattan, nil
	}
	return "", fmt.Errorf("unsupported metric %q", s)
}

// norm is the L value passed to floats.Distance.
func (m Metric) norm() float64 {
	if m == MetricManhattan {
		return 1
	}
	return 2
}

type Neighbor struct {
	Row      int
	Distance float64
}

// Index is an exact nearest neighbour index over a fixed set of vectors.
// Row i of the index is row i of the reference dataset. It is read only after
// construction and safe for concurrent queries.
type Index struct {
	metric  Metric
	dim     int
	vectors [][]float64
}

func NewIndex(metric Metric, dim int, vectors [][]float64) (*Index, error) {
	if dim <= 0 {
		return nil, fmt.Errorf("invalid dimension %d", dim)
	}
	if len(vectors) == 0 {
		return nil, ErrEmptyIndex
	}

	owned := make([][]float64, len(vectors))
	for i, v := range vectors {
		if len(v) != dim {
			return nil, fmt.Errorf("%w: row %d has %d values, want %d", ErrDimensionMismatch, i, len(v), dim)
		}
		for j, x := range v {
			if math.IsNaN(x) || math.IsInf(x, 0) {
				return nil, fmt.Errorf("row %d column %d is not finite", i, j)
			}
		}
		owned[i] = append([]float64(nil), v...)
	}

	return &Index{metric: metric, dim: dim, vectors: owned}, nil
}

func (ix *Index) Len() int       { return len(ix.vectors) }
func (ix *Index) Dim() int       { return ix.dim }
func (ix *Index) Metric() Metric { return ix.metric }

// Query returns the min(k, Len()) rows closest to v, nearest first. Equal
// distances are ordered by row.
func (ix *Index) Query(v []float64, k int) ([]Neighbor, error) {
	if k <= 0 {
		return nil, ErrInvalidK
	}
	if len(v) != ix.dim {
		return nil, fmt.Errorf("%w: got %d, want %d", ErrDimensionMismatch, len(v), ix.dim)
	}
	if k > len(ix.vectors) {
		k = len(ix.vectors)
	}

	l := ix.metric.norm()
	best := make([]Neighbor, 0, k)
	for row, ref := range ix.vectors {
		d := floats.Distance(v, ref, l)
		if len(best) == k && d >= best[k-1].Distance {
			continue
		}

		// Rows arrive in ascending order, so inserting after every equal
		// distance keeps ties ordered by row.
		pos := sort.Search(len(best), func(i int) bool { return best[i].Distance > d })
		if len(best) < k {
			best = append(best, Neighbor{})
		}
		copy(best[pos+1:], best[pos:len(best)-1])
		best[pos] = Neighbor{Row: row, Distance: d}
	}

	return best, nil
}
