package rest

import (
	"context"
	"errors"
	"net/http"
	"strconv"
	"time"

	"myCreditAdvisor/business/encoder"
	"myCreditAdvisor/domain"
	"myCreditAdvisor/pkg/logger"
	"myCreditAdvisor/pkg/metrics"

	"github.com/AMFarhan21/fres"
	"github.com/go-playground/validator/v10"
	"github.com/labstack/echo/v4"
)

type RecommendService interface {
	Recommend(ctx context.Context, profile domain.CustomerProfile) (domain.Recommendation, error)
	Schema() domain.FormSchema
	Health() domain.Health
}

type RecommendHandler struct {
	recommendService RecommendService
	validator        *validator.Validate
	timeout          time.Duration
}

func NewRecommendHandler(recommendService RecommendService) *RecommendHandler {
	return &RecommendHandler{
		recommendService: recommendService,
		validator:        validator.New(),
		timeout:          10 * time.Second,
	}
}

type ResponseError struct {
	Message string `json:"message"`
	Field   string `json:"field,omitempty"`
	Label   string `json:"label,omitempty"`
}

// RecommendRequest mirrors the input form. Numeric fields are pointers so a
// missing value is told apart from zero.
type RecommendRequest struct {
	Age         *int     `json:"idade" validate:"required,gte=18,lte=100"`
	Gender      string   `json:"sexo" validate:"required"`
	Color       string   `json:"cor" validate:"required"`
	Married     string   `json:"casado" validate:"required"`
	Children    *int     `json:"qt_filhos" validate:"required,gte=0"`
	City        string   `json:"cidade" validate:"required"`
	Income      *float64 `json:"renda" validate:"required,gte=0"`
	Cars        *int     `json:"qt_carros" validate:"required,gte=0"`
	CreditCards *int     `json:"qt_cart_cred" validate:"required,gte=0"`
	HomeOwner   string   `json:"casa_propria" validate:"required"`
	CreditScore *int     `json:"credit_score" validate:"required,gte=0,lte=1000"`
	DebtRatio   *float64 `json:"endivid" validate:"required,gte=0,lte=100"`
	Employed    string   `json:"trabalha" validate:"required"`
}

func (r RecommendRequest) toProfile() domain.CustomerProfile {
	return domain.CustomerProfile{
		Age:         *r.Age,
		Gender:      r.Gender,
		Color:       r.Color,
		Married:     r.Married,
		Children:    *r.Children,
		City:        r.City,
		Income:      *r.Income,
		Cars:        *r.Cars,
		CreditCards: *r.CreditCards,
		HomeOwner:   r.HomeOwner,
		CreditScore: *r.CreditScore,
		DebtRatio:   *r.DebtRatio,
		Employed:    r.Employed,
	}
}

func (h *RecommendHandler) Recommend(c echo.Context) error {
	start := time.Now()
	code := http.StatusOK
	defer func() {
		metrics.RecommendLatency.Observe(time.Since(start).Seconds())
		metrics.RecommendRequests.WithLabelValues(strconv.Itoa(code)).Inc()
	}()

	var req RecommendRequest
	if err := c.Bind(&req); err != nil {
		logger.Error("Failed to bind recommend request", err)
		code = http.StatusBadRequest
		return c.JSON(code, ResponseError{Message: "invalid request body"})
	}

	if err := h.validator.Struct(req); err != nil {
		logger.Error("Invalid recommend request", err)
		code = http.StatusBadRequest
		return c.JSON(code, ResponseError{Message: err.Error()})
	}

	ctx, cancel := context.WithTimeout(c.Request().Context(), h.timeout)
	defer cancel()

	result, err := h.recommendService.Recommend(ctx, req.toProfile())
	if err != nil {
		var unknown *encoder.UnknownCategoryError
		if errors.As(err, &unknown) {
			code = http.StatusUnprocessableEntity
			return c.JSON(code, ResponseError{
				Message: err.Error(),
				Field:   unknown.Field,
				Label:   unknown.Label,
			})
		}
		logger.Error("Failed to recommend products", err)
		code = http.StatusInternalServerError
		return c.JSON(code, ResponseError{Message: "failed to compute recommendation"})
	}

	return c.JSON(code, fres.Response.StatusOK(result))
}

func (h *RecommendHandler) Schema(c echo.Context) error {
	return c.JSON(http.StatusOK, fres.Response.StatusOK(h.recommendService.Schema()))
}

func (h *RecommendHandler) Health(c echo.Context) error {
	return c.JSON(http.StatusOK, h.recommendService.Health())
}
