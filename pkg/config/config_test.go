//go:build !integration

package config

import (
	"reflect"
	"testing"
	"time"
)

func TestLoad_Defaults(t *testing.T) {
	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}

	if cfg.Recommend.K != 5 {
		t.Errorf("K = %d, want 5", cfg.Recommend.K)
	}
	if len(cfg.Recommend.Products) != 5 || cfg.Recommend.Products[1] != "Cartão Platinum" {
		t.Errorf("Products = %v", cfg.Recommend.Products)
	}
	wantEnc := []string{"utf-8", "latin1", "ISO-8859-1", "cp1252"}
	if !reflect.DeepEqual(cfg.Artifact.Encodings, wantEnc) {
		t.Errorf("Encodings = %v, want %v", cfg.Artifact.Encodings, wantEnc)
	}
	if cfg.Artifact.Source != ArtifactSourceLocal {
		t.Errorf("Source = %q", cfg.Artifact.Source)
	}
	if cfg.Artifact.DebtRatioUnit != "" {
		t.Errorf("DebtRatioUnit = %q, want empty", cfg.Artifact.DebtRatioUnit)
	}
	if cfg.Artifact.FetchTimeout != 30*time.Second {
		t.Errorf("FetchTimeout = %v", cfg.Artifact.FetchTimeout)
	}
}

func TestLoad_Overrides(t *testing.T) {
	t.Setenv("RECOMMEND_K", "7")
	t.Setenv("PRODUCTS", "A, B ,,C")
	t.Setenv("DATASET_ENCODINGS", "cp1252")
	t.Setenv("DEBT_RATIO_UNIT", "Fraction")
	t.Setenv("ARTIFACT_SOURCE", "HTTP")
	t.Setenv("ARTIFACT_BASE_URL", "https://models.example.com/v3/")

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}
	if cfg.Recommend.K != 7 {
		t.Errorf("K = %d", cfg.Recommend.K)
	}
	if !reflect.DeepEqual(cfg.Recommend.Products, []string{"A", "B", "C"}) {
		t.Errorf("Products = %v", cfg.Recommend.Products)
	}
	if !reflect.DeepEqual(cfg.Artifact.Encodings, []string{"cp1252"}) {
		t.Errorf("Encodings = %v", cfg.Artifact.Encodings)
	}
	if cfg.Artifact.DebtRatioUnit != "fraction" {
		t.Errorf("DebtRatioUnit = %q", cfg.Artifact.DebtRatioUnit)
	}
	if cfg.Artifact.Source != ArtifactSourceHTTP {
		t.Errorf("Source = %q", cfg.Artifact.Source)
	}
}

func TestLoad_Errors(t *testing.T) {
	tests := []struct {
		name string
		env  map[string]string
	}{
		{"zero k", map[string]string{"RECOMMEND_K": "0"}},
		{"non numeric k", map[string]string{"RECOMMEND_K": "five"}},
		{"bad retries", map[string]string{"ARTIFACT_FETCH_RETRIES": "-1"}},
		{"bad timeout", map[string]string{"ARTIFACT_FETCH_TIMEOUT": "soon"}},
		{"unknown source", map[string]string{"ARTIFACT_SOURCE": "ftp"}},
		{"http without url", map[string]string{"ARTIFACT_SOURCE": "http"}},
		{"s3 without credentials", map[string]string{
			"ARTIFACT_SOURCE": "s3", "S3_ENDPOINT": "minio:9000", "S3_BUCKET": "models",
		}},
		{"postgres without password", map[string]string{"DATASET_SOURCE": "postgres"}},
		{"unknown dataset source", map[string]string{"DATASET_SOURCE": "parquet"}},
		{"blank products", map[string]string{"PRODUCTS": " , "}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			for k, v := range tt.env {
				t.Setenv(k, v)
			}
			if _, err := Load(); err == nil {
				t.Fatal("Load() error = nil, want error")
			}
		})
	}
}
