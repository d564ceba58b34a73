package recommend

import (
	"context"
	"errors"
	"fmt"

	"myCreditAdvisor/business/artifact"
	"myCreditAdvisor/business/encoder"
	"myCreditAdvisor/domain"
	"myCreditAdvisor/pkg/logger"
)

type recommendService struct {
	artifacts *artifact.Artifacts
	products  []string
	k         int
}

func NewRecommendService(artifacts *artifact.Artifacts, products []string, k int) *recommendService {
	return &recommendService{
		artifacts: artifacts,
		products:  append([]string(nil), products...),
		k:         k,
	}
}

func (s *recommendService) Recommend(ctx context.Context, profile domain.CustomerProfile) (domain.Recommendation, error) {
	traceID := TraceIDFromContext(ctx)

	if err := ctx.Err(); err != nil {
		logger.Error("context error when recommend", "trace_id", traceID)
		return domain.Recommendation{}, fmt.Errorf("context error: %w", err)
	}

	vector, err := s.artifacts.Encoders.Encode(profile, s.artifacts.DebtUnit)
	if err != nil {
		var unknown *encoder.UnknownCategoryError
		if errors.As(err, &unknown) {
			RecommendationsTotal.WithLabelValues(outcomeUnknownCategory).Inc()
			UnknownCategoryTotal.WithLabelValues(unknown.Field).Inc()
			logger.Warn("Unknown category in request", "trace_id", traceID, "field", unknown.Field, "label", unknown.Label)
			return domain.Recommendation{}, err
		}
		RecommendationsTotal.WithLabelValues(outcomeError).Inc()
		logger.Error("Failed to encode profile", err, "trace_id", traceID)
		return domain.Recommendation{}, err
	}

	result, err := Rank(vector, s.artifacts.Index, s.artifacts.Dataset, s.products, s.k)
	if err != nil {
		RecommendationsTotal.WithLabelValues(outcomeError).Inc()
		logger.Error("Failed to rank products", err, "trace_id", traceID)
		return domain.Recommendation{}, err
	}

	if len(result.Products) == 0 {
		RecommendationsTotal.WithLabelValues(outcomeEmpty).Inc()
		logger.Warn("No product could be scored", "trace_id", traceID, "neighbors", len(result.Neighbors))
		return result, nil
	}

	RecommendationsTotal.WithLabelValues(outcomeOK).Inc()
	logger.Debug("Recommendation computed",
		"trace_id", traceID,
		"top_product", result.Products[0].Product,
		"top_score", result.Products[0].Score,
		"neighbors", len(result.Neighbors),
	)

	return result, nil
}

// Schema describes the input form: fields in vector order with the options
// each categorical encoder knows.
func (s *recommendService) Schema() domain.FormSchema {
	fields := make([]domain.FieldSchema, 0, encoder.NumFields)
	for _, spec := range encoder.Schema {
		f := domain.FieldSchema{
			Name:  spec.Name,
			Label: spec.Label,
			Kind:  spec.Kind.String(),
			Min:   spec.Min,
			Max:   spec.Max,
		}
		if enc := s.artifacts.Encoders.Encoder(spec.Field); enc != nil {
			f.Options = enc.Classes()
		}
		fields = append(fields, f)
	}

	return domain.FormSchema{
		Fields:   fields,
		Products: append([]string(nil), s.products...),
		K:        s.k,
		DebtUnit: string(s.artifacts.DebtUnit),
	}
}

// Health reports the size of the loaded artifacts.
func (s *recommendService) Health() domain.Health {
	scorable := 0
	for _, p := range s.products {
		if _, ok := s.artifacts.Dataset.Column(p); ok {
			scorable++
		}
	}

	return domain.Health{
		Status:           "ok",
		Rows:             s.artifacts.Dataset.Len(),
		Fields:           encoder.NumFields,
		Products:         len(s.products),
		ScorableProducts: scorable,
		K:                s.k,
	}
}
