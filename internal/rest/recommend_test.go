//go:build !integration

package rest

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"myCreditAdvisor/business/encoder"
	"myCreditAdvisor/domain"

	"github.com/labstack/echo/v4"
)

type stubService struct {
	got    domain.CustomerProfile
	result domain.Recommendation
	err    error
}

func (s *stubService) Recommend(_ context.Context, p domain.CustomerProfile) (domain.Recommendation, error) {
	s.got = p
	return s.result, s.err
}

func (s *stubService) Schema() domain.FormSchema {
	return domain.FormSchema{
		Fields:   []domain.FieldSchema{{Name: "sexo", Kind: "categorical", Options: []string{"F", "M"}}},
		Products: []string{"Cartão Platinum"},
		K:        5,
	}
}

func (s *stubService) Health() domain.Health {
	return domain.Health{Status: "ok", Rows: 1000, Fields: 13, Products: 5, ScorableProducts: 5, K: 5}
}

const validBody = `{
	"idade": 35, "sexo": "F", "cor": "Parda", "casado": "Sim", "qt_filhos": 0,
	"cidade": "Recife", "renda": 4500.5, "qt_carros": 1, "qt_cart_cred": 2,
	"casa_propria": "Não", "credit_score": 720, "endivid": 35, "trabalha": "Sim"
}`

func postRecommend(t *testing.T, svc *stubService, body string) *httptest.ResponseRecorder {
	t.Helper()
	e := echo.New()
	req := httptest.NewRequest(http.MethodPost, "/api/v1/recommendations", strings.NewReader(body))
	req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	rec := httptest.NewRecorder()

	if err := NewRecommendHandler(svc).Recommend(e.NewContext(req, rec)); err != nil {
		t.Fatalf("Recommend() error = %v", err)
	}
	return rec
}

func TestRecommend_Success(t *testing.T) {
	svc := &stubService{result: domain.Recommendation{
		Products:  []domain.ProductScore{{Product: "Cartão Platinum", Score: 0.8}},
		Neighbors: []domain.Neighbor{{Row: 12, Distance: 1.5}},
	}}

	rec := postRecommend(t, svc, validBody)

	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, body = %s", rec.Code, rec.Body.String())
	}
	if !strings.Contains(rec.Body.String(), "Cartão Platinum") {
		t.Errorf("body = %s", rec.Body.String())
	}
	want := domain.CustomerProfile{
		Age: 35, Gender: "F", Color: "Parda", Married: "Sim", Children: 0, City: "Recife",
		Income: 4500.5, Cars: 1, CreditCards: 2, HomeOwner: "Não", CreditScore: 720,
		DebtRatio: 35, Employed: "Sim",
	}
	if svc.got != want {
		t.Errorf("profile = %+v, want %+v", svc.got, want)
	}
}

func TestRecommend_ValidationErrors(t *testing.T) {
	tests := []struct {
		name string
		body string
	}{
		{"malformed json", `{"idade":`},
		{"missing field", strings.Replace(validBody, `"qt_filhos": 0,`, "", 1)},
		{"underage", strings.Replace(validBody, `"idade": 35`, `"idade": 17`, 1)},
		{"debt above 100", strings.Replace(validBody, `"endivid": 35`, `"endivid": 120`, 1)},
		{"score above 1000", strings.Replace(validBody, `"credit_score": 720`, `"credit_score": 1001`, 1)},
		{"empty label", strings.Replace(validBody, `"sexo": "F"`, `"sexo": ""`, 1)},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			svc := &stubService{}
			rec := postRecommend(t, svc, tt.body)
			if rec.Code != http.StatusBadRequest {
				t.Errorf("status = %d, want 400, body = %s", rec.Code, rec.Body.String())
			}
		})
	}
}

func TestRecommend_UnknownCategory(t *testing.T) {
	svc := &stubService{err: &encoder.UnknownCategoryError{Field: "cidade", Label: "Manaus"}}

	rec := postRecommend(t, svc, validBody)

	if rec.Code != http.StatusUnprocessableEntity {
		t.Fatalf("status = %d", rec.Code)
	}
	var body ResponseError
	if err := json.Unmarshal(rec.Body.Bytes(), &body); err != nil {
		t.Fatal(err)
	}
	if body.Field != "cidade" || body.Label != "Manaus" {
		t.Errorf("body = %+v", body)
	}
}

func TestRecommend_InternalError(t *testing.T) {
	svc := &stubService{err: errors.New("index exploded")}

	rec := postRecommend(t, svc, validBody)

	if rec.Code != http.StatusInternalServerError {
		t.Fatalf("status = %d", rec.Code)
	}
	if strings.Contains(rec.Body.String(), "exploded") {
		t.Errorf("internal error leaked: %s", rec.Body.String())
	}
}

func TestSchemaAndHealth(t *testing.T) {
	e := echo.New()
	h := NewRecommendHandler(&stubService{})

	rec := httptest.NewRecorder()
	if err := h.Schema(e.NewContext(httptest.NewRequest(http.MethodGet, "/api/v1/schema", nil), rec)); err != nil {
		t.Fatal(err)
	}
	if rec.Code != http.StatusOK || !strings.Contains(rec.Body.String(), `"options":["F","M"]`) {
		t.Errorf("schema: %d %s", rec.Code, rec.Body.String())
	}

	rec = httptest.NewRecorder()
	if err := h.Health(e.NewContext(httptest.NewRequest(http.MethodGet, "/healthz", nil), rec)); err != nil {
		t.Fatal(err)
	}
	var health domain.Health
	if err := json.Unmarshal(rec.Body.Bytes(), &health); err != nil {
		t.Fatal(err)
	}
	if health.Rows != 1000 || health.Status != "ok" {
		t.Errorf("health = %+v", health)
	}
}
