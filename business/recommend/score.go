package recommend

import (
	"errors"
	"fmt"
	"math"
	"sort"

	"gonum.org/v1/gonum/stat"

	"myCreditAdvisor/business/knn"
	"myCreditAdvisor/domain"
)

var ErrNeighborOutOfRange = errors.New("neighbor row outside dataset")

// NeighborIndex answers k nearest neighbour queries over the reference rows.
type NeighborIndex interface {
	Query(v []float64, k int) ([]knn.Neighbor, error)
}

// ReferenceDataset exposes the numeric product columns of the reference rows.
type ReferenceDataset interface {
	Len() int
	Column(name string) ([]float64, bool)
}

// Rank queries the k nearest rows to vector and scores each product by its
// mean over those rows. Products without a numeric column, or with no value
// among the neighbours, are left out. The result is sorted by score
// descending; equal scores keep the order of products.
func Rank(vector []float64, index NeighborIndex, dataset ReferenceDataset, products []string, k int) (domain.Recommendation, error) {
	neighbors, err := index.Query(vector, k)
	if err != nil {
		return domain.Recommendation{}, fmt.Errorf("neighbor query: %w", err)
	}

	out := domain.Recommendation{
		Products:  []domain.ProductScore{},
		Neighbors: make([]domain.Neighbor, 0, len(neighbors)),
	}
	for _, n := range neighbors {
		if n.Row < 0 || n.Row >= dataset.Len() {
			return domain.Recommendation{}, fmt.Errorf("%w: row %d, dataset has %d", ErrNeighborOutOfRange, n.Row, dataset.Len())
		}
		out.Neighbors = append(out.Neighbors, domain.Neighbor{Row: n.Row, Distance: n.Distance})
	}

	values := make([]float64, 0, len(neighbors))
	for _, product := range products {
		col, ok := dataset.Column(product)
		if !ok {
			continue
		}

		values = values[:0]
		for _, n := range neighbors {
			if v := col[n.Row]; !math.IsNaN(v) {
				values = append(values, v)
			}
		}
		if len(values) == 0 {
			continue
		}

		out.Products = append(out.Products, domain.ProductScore{
			Product: product,
			Score:   stat.Mean(values, nil),
		})
	}

	sort.SliceStable(out.Products, func(i, j int) bool {
		return out.Products[i].Score > out.Products[j].Score
	})

	return out, nil
}
