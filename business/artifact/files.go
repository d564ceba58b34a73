package artifact

import (
	"errors"
	"fmt"

	"github.com/goccy/go-json"

	"myCreditAdvisor/business/encoder"
	"myCreditAdvisor/business/knn"
)

var (
	// ErrArtifactLoad wraps every failure to obtain or validate an artifact.
	ErrArtifactLoad = errors.New("artifact load failed")
	// ErrDatasetDecode means no configured encoding could decode the dataset.
	ErrDatasetDecode = errors.New("dataset could not be decoded with any configured encoding")
)

// indexFile is the serialized neighbour index. vectors[i] is the encoded
// feature vector of dataset row i.
type indexFile struct {
	Metric       string      `json:"metric"`
	FeatureOrder []string    `json:"feature_order"`
	DebtUnit     string      `json:"debt_unit"`
	Vectors      [][]float64 `json:"vectors"`
}

type decodedIndex struct {
	index    *knn.Index
	debtUnit string
}

func decodeIndex(raw []byte) (*decodedIndex, error) {
	var f indexFile
	if err := json.Unmarshal(raw, &f); err != nil {
		return nil, fmt.Errorf("%w: index: %w", ErrArtifactLoad, err)
	}

	if err := checkFeatureOrder(f.FeatureOrder); err != nil {
		return nil, fmt.Errorf("%w: index: %w", ErrArtifactLoad, err)
	}

	metric, err := knn.ParseMetric(f.Metric)
	if err != nil {
		return nil, fmt.Errorf("%w: index: %w", ErrArtifactLoad, err)
	}

	ix, err := knn.NewIndex(metric, encoder.NumFields, f.Vectors)
	if err != nil {
		return nil, fmt.Errorf("%w: index: %w", ErrArtifactLoad, err)
	}

	return &decodedIndex{index: ix, debtUnit: f.DebtUnit}, nil
}

// checkFeatureOrder accepts an absent order; a declared one must match the
// encoder schema exactly.
func checkFeatureOrder(order []string) error {
	if len(order) == 0 {
		return nil
	}
	want := encoder.FeatureOrder()
	if len(order) != len(want) {
		return fmt.Errorf("feature order has %d fields, want %d", len(order), len(want))
	}
	for i := range want {
		if order[i] != want[i] {
			return fmt.Errorf("feature %d is %q, want %q", i, order[i], want[i])
		}
	}
	return nil
}

func decodeEncoders(raw []byte) (*encoder.Set, error) {
	var classes map[string][]string
	if err := json.Unmarshal(raw, &classes); err != nil {
		return nil, fmt.Errorf("%w: encoders: %w", ErrArtifactLoad, err)
	}

	set, err := encoder.NewSet(classes)
	if err != nil {
		return nil, fmt.Errorf("%w: encoders: %w", ErrArtifactLoad, err)
	}
	return set, nil
}

// resolveDebtUnit picks the unit declared by the index, or by configuration
// when the index is silent. Conflicting declarations are an error.
func resolveDebtUnit(fromIndex, fromConfig string) (encoder.DebtUnit, error) {
	var indexUnit, configUnit encoder.DebtUnit
	var err error

	if fromIndex != "" {
		if indexUnit, err = encoder.ParseDebtUnit(fromIndex); err != nil {
			return "", fmt.Errorf("%w: index: %w", ErrArtifactLoad, err)
		}
	}
	if fromConfig != "" {
		if configUnit, err = encoder.ParseDebtUnit(fromConfig); err != nil {
			return "", fmt.Errorf("%w: config: %w", ErrArtifactLoad, err)
		}
	}

	switch {
	case indexUnit != "" && configUnit != "" && indexUnit != configUnit:
		return "", fmt.Errorf("%w: index declares debt unit %s, config declares %s", ErrArtifactLoad, indexUnit, configUnit)
	case indexUnit != "":
		return indexUnit, nil
	case configUnit != "":
		return configUnit, nil
	}
	return "", fmt.Errorf("%w: %w", ErrArtifactLoad, encoder.ErrDebtUnitUndeclared)
}
