//go:build !integration

package recommend

import (
	"context"
	"errors"
	"math"
	"reflect"
	"testing"

	"myCreditAdvisor/business/artifact"
	"myCreditAdvisor/business/encoder"
	"myCreditAdvisor/business/knn"
	"myCreditAdvisor/domain"
)

type fakeIndex struct {
	neighbors []knn.Neighbor
	err       error
}

func (f fakeIndex) Query(_ []float64, k int) ([]knn.Neighbor, error) {
	if f.err != nil {
		return nil, f.err
	}
	if k < len(f.neighbors) {
		return f.neighbors[:k], nil
	}
	return f.neighbors, nil
}

type fakeDataset map[string][]float64

func (d fakeDataset) Len() int {
	for _, col := range d {
		return len(col)
	}
	return 0
}

func (d fakeDataset) Column(name string) ([]float64, bool) {
	col, ok := d[name]
	return col, ok
}

func approx(a, b float64) bool { return math.Abs(a-b) < 1e-12 }

func neighbors(rows ...int) []knn.Neighbor {
	out := make([]knn.Neighbor, len(rows))
	for i, r := range rows {
		out[i] = knn.Neighbor{Row: r, Distance: float64(i)}
	}
	return out
}

func TestRank_MeanOverNeighbors(t *testing.T) {
	ds := fakeDataset{"P": {0.2, 0.8, 0.5}}

	got, err := Rank(nil, fakeIndex{neighbors: neighbors(0, 1, 2)}, ds, []string{"P"}, 3)
	if err != nil {
		t.Fatalf("Rank() error = %v", err)
	}
	if len(got.Products) != 1 || !approx(got.Products[0].Score, 0.5) {
		t.Fatalf("Products = %+v, want [{P 0.5}]", got.Products)
	}
	if len(got.Neighbors) != 3 {
		t.Errorf("Neighbors = %+v", got.Neighbors)
	}
}

func TestRank_SortedDescendingAndStable(t *testing.T) {
	ds := fakeDataset{
		"A": {0.1, 0.1},
		"B": {0.9, 0.7},
		"C": {0.25, 0.75},
		"D": {0.5, 0.5},
	}

	got, err := Rank(nil, fakeIndex{neighbors: neighbors(0, 1)}, ds, []string{"A", "C", "D", "B"}, 2)
	if err != nil {
		t.Fatal(err)
	}

	var order []string
	for _, p := range got.Products {
		order = append(order, p.Product)
	}
	// C and D both average 0.5 and keep their input order.
	want := []string{"B", "C", "D", "A"}
	if !reflect.DeepEqual(order, want) {
		t.Errorf("order = %v, want %v", order, want)
	}
	for i := 1; i < len(got.Products); i++ {
		if got.Products[i].Score > got.Products[i-1].Score {
			t.Errorf("not descending at %d: %+v", i, got.Products)
		}
	}
}

func TestRank_SkipsMissingProducts(t *testing.T) {
	ds := fakeDataset{"A": {1, 0}, "Empty": {math.NaN(), math.NaN()}}

	got, err := Rank(nil, fakeIndex{neighbors: neighbors(0, 1)}, ds, []string{"Missing", "A", "Empty"}, 2)
	if err != nil {
		t.Fatal(err)
	}
	if len(got.Products) != 1 || got.Products[0].Product != "A" || got.Products[0].Score != 0.5 {
		t.Errorf("Products = %+v", got.Products)
	}
}

func TestRank_NoProductsIsEmptyNotError(t *testing.T) {
	ds := fakeDataset{"A": {1}}

	got, err := Rank(nil, fakeIndex{neighbors: neighbors(0)}, ds, []string{"X", "Y"}, 1)
	if err != nil {
		t.Fatalf("Rank() error = %v", err)
	}
	if got.Products == nil || len(got.Products) != 0 {
		t.Errorf("Products = %#v, want empty slice", got.Products)
	}
}

func TestRank_IgnoresNaNCells(t *testing.T) {
	ds := fakeDataset{"A": {1, math.NaN(), 0}}

	got, err := Rank(nil, fakeIndex{neighbors: neighbors(0, 1, 2)}, ds, []string{"A"}, 3)
	if err != nil {
		t.Fatal(err)
	}
	if got.Products[0].Score != 0.5 {
		t.Errorf("score = %v, want 0.5", got.Products[0].Score)
	}
}

func TestRank_Errors(t *testing.T) {
	ds := fakeDataset{"A": {1}}

	if _, err := Rank(nil, fakeIndex{err: knn.ErrInvalidK}, ds, []string{"A"}, 0); !errors.Is(err, knn.ErrInvalidK) {
		t.Errorf("query error = %v", err)
	}
	if _, err := Rank(nil, fakeIndex{neighbors: neighbors(3)}, ds, []string{"A"}, 1); !errors.Is(err, ErrNeighborOutOfRange) {
		t.Errorf("out of range error = %v", err)
	}
}

// service tests use real artifacts built in memory.

const serviceCSV = "idade,P1,P2\n20,0.2,1\n40,0.8,0\n60,0.5,1\n90,0,0\n"

func testArtifacts(t *testing.T) *artifact.Artifacts {
	t.Helper()

	encoders, err := encoder.NewSet(map[string][]string{
		"sexo":         {"M", "F"},
		"cor":          {"Branca"},
		"casado":       {"Não", "Sim"},
		"cidade":       {"Recife"},
		"casa_propria": {"Não", "Sim"},
		"trabalha":     {"Não", "Sim"},
	})
	if err != nil {
		t.Fatal(err)
	}

	ages := []float64{20, 40, 60, 90}
	vectors := make([][]float64, len(ages))
	for i, age := range ages {
		vectors[i] = make([]float64, encoder.NumFields)
		vectors[i][encoder.FieldAge] = age
	}
	index, err := knn.NewIndex(knn.MetricEuclidean, encoder.NumFields, vectors)
	if err != nil {
		t.Fatal(err)
	}

	ds, err := artifact.ParseCSV([]byte(serviceCSV), []string{"utf-8"})
	if err != nil {
		t.Fatal(err)
	}

	return &artifact.Artifacts{
		Index:    index,
		Encoders: encoders,
		Dataset:  ds,
		DebtUnit: encoder.DebtUnitPercent,
	}
}

func testProfile(age int) domain.CustomerProfile {
	return domain.CustomerProfile{
		Age:       age,
		Gender:    "M",
		Color:     "Branca",
		Married:   "Não",
		City:      "Recife",
		HomeOwner: "Não",
		Employed:  "Não",
	}
}

func TestService_Recommend(t *testing.T) {
	svc := NewRecommendService(testArtifacts(t), []string{"P1", "P2", "P3"}, 3)

	ctx := WithTraceID(context.Background(), "trace-1")
	got, err := svc.Recommend(ctx, testProfile(40))
	if err != nil {
		t.Fatalf("Recommend() error = %v", err)
	}

	// Nearest to 40 are rows 1 (40), then 0 (20) and 2 (60) at equal distance.
	wantRows := []int{1, 0, 2}
	for i, n := range got.Neighbors {
		if n.Row != wantRows[i] {
			t.Fatalf("neighbors = %+v, want rows %v", got.Neighbors, wantRows)
		}
	}
	if len(got.Products) != 2 {
		t.Fatalf("Products = %+v", got.Products)
	}
	if got.Products[0].Product != "P2" || !approx(got.Products[0].Score, 2.0/3) {
		t.Errorf("first = %+v", got.Products[0])
	}
	if got.Products[1].Product != "P1" || !approx(got.Products[1].Score, 0.5) {
		t.Errorf("second = %+v", got.Products[1])
	}
}

func TestService_KLargerThanDataset(t *testing.T) {
	svc := NewRecommendService(testArtifacts(t), []string{"P1"}, 50)

	got, err := svc.Recommend(context.Background(), testProfile(30))
	if err != nil {
		t.Fatal(err)
	}
	if len(got.Neighbors) != 4 {
		t.Errorf("neighbors = %d, want 4", len(got.Neighbors))
	}
}

func TestService_UnknownCategory(t *testing.T) {
	svc := NewRecommendService(testArtifacts(t), []string{"P1"}, 3)

	p := testProfile(30)
	p.City = "Manaus"
	_, err := svc.Recommend(context.Background(), p)

	var unknown *encoder.UnknownCategoryError
	if !errors.As(err, &unknown) {
		t.Fatalf("error = %v, want *UnknownCategoryError", err)
	}
	if unknown.Field != "cidade" || unknown.Label != "Manaus" {
		t.Errorf("got %+v", *unknown)
	}
}

func TestService_Deterministic(t *testing.T) {
	svc := NewRecommendService(testArtifacts(t), []string{"P1", "P2"}, 2)

	first, err := svc.Recommend(context.Background(), testProfile(55))
	if err != nil {
		t.Fatal(err)
	}
	for i := 0; i < 5; i++ {
		again, err := svc.Recommend(context.Background(), testProfile(55))
		if err != nil {
			t.Fatal(err)
		}
		if !reflect.DeepEqual(first, again) {
			t.Fatalf("run %d: %+v != %+v", i, again, first)
		}
	}
}

func TestService_CanceledContext(t *testing.T) {
	svc := NewRecommendService(testArtifacts(t), []string{"P1"}, 3)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	if _, err := svc.Recommend(ctx, testProfile(30)); !errors.Is(err, context.Canceled) {
		t.Fatalf("error = %v", err)
	}
}

func TestService_Schema(t *testing.T) {
	svc := NewRecommendService(testArtifacts(t), []string{"P1", "P2"}, 3)

	schema := svc.Schema()
	if len(schema.Fields) != encoder.NumFields {
		t.Fatalf("fields = %d", len(schema.Fields))
	}
	if schema.Fields[0].Name != "idade" || schema.Fields[0].Kind != "numeric" || *schema.Fields[0].Min != 18 {
		t.Errorf("first field = %+v", schema.Fields[0])
	}
	sexo := schema.Fields[encoder.FieldGender]
	if sexo.Kind != "categorical" || !reflect.DeepEqual(sexo.Options, []string{"M", "F"}) {
		t.Errorf("sexo = %+v", sexo)
	}
	if schema.DebtUnit != "percent" || schema.K != 3 {
		t.Errorf("schema = %+v", schema)
	}
}

func TestService_Health(t *testing.T) {
	svc := NewRecommendService(testArtifacts(t), []string{"P1", "P2", "P3"}, 3)

	h := svc.Health()
	if h.Rows != 4 || h.Products != 3 || h.ScorableProducts != 2 || h.Fields != 13 {
		t.Errorf("health = %+v", h)
	}
}

func TestTraceID(t *testing.T) {
	if got := TraceIDFromContext(context.Background()); got != "" {
		t.Errorf("empty context trace = %q", got)
	}
	if got := TraceIDFromContext(WithTraceID(context.Background(), "abc")); got != "abc" {
		t.Errorf("trace = %q", got)
	}
}
