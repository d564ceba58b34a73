package encoder

import (
	"errors"
	"fmt"

	"myCreditAdvisor/domain"
)

var ErrMissingEncoder = errors.New("missing category encoder")

// UnknownCategoryError reports a label the encoder never saw at training time.
type UnknownCategoryError struct {
	Field string
	Label string
}

func (e *UnknownCategoryError) Error() string {
	return fmt.Sprintf("unknown category %q for field %s", e.Label, e.Field)
}

// CategoryEncoder is a fitted label encoder: the code of a label is its
// position in the ordered class list.
type CategoryEncoder struct {
	classes []string
	codes   map[string]int
}

func NewCategoryEncoder(classes []string) (*CategoryEncoder, error) {
	if len(classes) == 0 {
		return nil, errors.New("encoder has no classes")
	}

	codes := make(map[string]int, len(classes))
	for i, c := range classes {
		if _, dup := codes[c]; dup {
			return nil, fmt.Errorf("duplicate class %q", c)
		}
		codes[c] = i
	}

	return &CategoryEncoder{
		classes: append([]string(nil), classes...),
		codes:   codes,
	}, nil
}

// Classes returns a copy of the known labels in code order.
func (e *CategoryEncoder) Classes() []string {
	return append([]string(nil), e.classes...)
}

func (e *CategoryEncoder) Transform(label string) (int, bool) {
	code, ok := e.codes[label]
	return code, ok
}

func (e *CategoryEncoder) Inverse(code int) (string, bool) {
	if code < 0 || code >= len(e.classes) {
		return "", false
	}
	return e.classes[code], true
}

// Set holds one encoder per categorical field. It is complete by construction.
type Set struct {
	encoders [NumFields]*CategoryEncoder
}

// NewSet builds a Set from field name -> ordered classes. Every categorical
// field of Schema must be present; names outside Schema are ignored.
func NewSet(classesByField map[string][]string) (*Set, error) {
	s := &Set{}
	for _, f := range CategoricalFields() {
		classes, ok := classesByField[f.String()]
		if !ok {
			return nil, fmt.Errorf("%w: %s", ErrMissingEncoder, f)
		}
		enc, err := NewCategoryEncoder(classes)
		if err != nil {
			return nil, fmt.Errorf("encoder %s: %w", f, err)
		}
		s.encoders[f] = enc
	}
	return s, nil
}

// Encoder returns nil for numeric fields.
func (s *Set) Encoder(f Field) *CategoryEncoder {
	return s.encoders[f]
}

// Encode maps a profile to the feature vector in Schema order. Indebtedness
// goes through unit.Convert; every other numeric field passes through.
func (s *Set) Encode(p domain.CustomerProfile, unit DebtUnit) ([]float64, error) {
	vec := make([]float64, NumFields)
	for _, spec := range Schema {
		if spec.Kind == KindCategorical {
			label := categoryOf(p, spec.Field)
			code, ok := s.encoders[spec.Field].Transform(label)
			if !ok {
				return nil, &UnknownCategoryError{Field: spec.Name, Label: label}
			}
			vec[spec.Field] = float64(code)
			continue
		}

		v := numberOf(p, spec.Field)
		if spec.Field == FieldDebtRatio {
			v = unit.Convert(v)
		}
		vec[spec.Field] = v
	}
	return vec, nil
}
