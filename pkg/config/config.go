package config

import (
	"errors"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

const (
	ArtifactSourceLocal = "local"
	ArtifactSourceHTTP  = "http"
	ArtifactSourceS3    = "s3"

	DatasetSourceArtifact = "artifact"
	DatasetSourcePostgres = "postgres"
)

var (
	defaultProducts = []string{
		"Conta Corrente Plus",
		"Cartão Platinum",
		"Seguro Residencial",
		"Crédito Pessoal Flex",
		"Investimento Renda Fixa",
	}
	defaultEncodings = []string{"utf-8", "latin1", "ISO-8859-1", "cp1252"}
)

type Config struct {
	App       AppConfig
	Server    ServerConfig
	JWT       JWTConfig
	Artifact  ArtifactConfig
	Recommend RecommendConfig
	S3        S3Config
	Database  DatabaseConfig
}

type AppConfig struct {
	Name        string
	Version     string
	Environment string
	LogLevel    string
}

type ServerConfig struct {
	Port string
}

// JWTConfig is optional; an empty SecretKey leaves the API unauthenticated.
type JWTConfig struct {
	SecretKey string
}

type ArtifactConfig struct {
	Source        string
	Dir           string
	BaseURL       string
	IndexFile     string
	EncodersFile  string
	DatasetFile   string
	DatasetSource string
	DatasetTable  string
	Encodings     []string
	DebtRatioUnit string
	FetchRetries  int
	FetchTimeout  time.Duration
	LoadTimeout   time.Duration
}

type RecommendConfig struct {
	K        int
	Products []string
}

type S3Config struct {
	Endpoint  string
	AccessKey string
	SecretKey string
	Bucket    string
	Region    string
	UseSSL    bool
}

type DatabaseConfig struct {
	Host     string
	Port     string
	User     string
	Password string
	Name     string
	SSLMode  string
}

func Load() (*Config, error) {
	_ = godotenv.Load()

	k, err := strconv.Atoi(getEnv("RECOMMEND_K", "5"))
	if err != nil || k <= 0 {
		return nil, errors.New("invalid recommend k")
	}

	retries, err := strconv.Atoi(getEnv("ARTIFACT_FETCH_RETRIES", "3"))
	if err != nil || retries <= 0 {
		return nil, errors.New("invalid artifact fetch retries")
	}

	fetchTimeout, err := time.ParseDuration(getEnv("ARTIFACT_FETCH_TIMEOUT", "30s"))
	if err != nil {
		return nil, errors.New("invalid artifact fetch timeout")
	}

	loadTimeout, err := time.ParseDuration(getEnv("ARTIFACT_LOAD_TIMEOUT", "2m"))
	if err != nil {
		return nil, errors.New("invalid artifact load timeout")
	}

	useSSL, err := strconv.ParseBool(getEnv("S3_USE_SSL", "true"))
	if err != nil {
		return nil, errors.New("invalid s3 use ssl flag")
	}

	cfg := &Config{
		App: AppConfig{
			Name:        getEnv("APP_NAME", "Credit Product Recommender"),
			Version:     getEnv("APP_VERSION", "1.0.0"),
			Environment: getEnv("APP_ENV", "development"),
			LogLevel:    getEnv("LOG_LEVEL", ""),
		},
		Server: ServerConfig{
			Port: getEnv("PORT", "8080"),
		},
		JWT: JWTConfig{
			SecretKey: getEnv("JWT_SECRET", ""),
		},
		Artifact: ArtifactConfig{
			Source:        strings.ToLower(getEnv("ARTIFACT_SOURCE", ArtifactSourceLocal)),
			Dir:           getEnv("ARTIFACT_DIR", "models"),
			BaseURL:       getEnv("ARTIFACT_BASE_URL", ""),
			IndexFile:     getEnv("INDEX_FILE", "index.json"),
			EncodersFile:  getEnv("ENCODERS_FILE", "encoders.json"),
			DatasetFile:   getEnv("DATASET_FILE", "dataset_treino.csv"),
			DatasetSource: strings.ToLower(getEnv("DATASET_SOURCE", DatasetSourceArtifact)),
			DatasetTable:  getEnv("DATASET_TABLE", "reference_customers"),
			Encodings:     getEnvList("DATASET_ENCODINGS", defaultEncodings),
			DebtRatioUnit: strings.ToLower(getEnv("DEBT_RATIO_UNIT", "")),
			FetchRetries:  retries,
			FetchTimeout:  fetchTimeout,
			LoadTimeout:   loadTimeout,
		},
		Recommend: RecommendConfig{
			K:        k,
			Products: getEnvList("PRODUCTS", defaultProducts),
		},
		S3: S3Config{
			Endpoint:  getEnv("S3_ENDPOINT", ""),
			AccessKey: getEnv("S3_ACCESS_KEY", ""),
			SecretKey: getEnv("S3_SECRET_KEY", ""),
			Bucket:    getEnv("S3_BUCKET", ""),
			Region:    getEnv("S3_REGION", ""),
			UseSSL:    useSSL,
		},
		Database: DatabaseConfig{
			Host:     getEnv("DB_HOST", "localhost"),
			Port:     getEnv("DB_PORT", "5432"),
			User:     getEnv("DB_USER", "postgres"),
			Password: getEnv("DB_PASSWORD", ""),
			Name:     getEnv("DB_NAME", "credit_recommender"),
			SSLMode:  getEnv("DB_SSL_MODE", "disable"),
		},
	}

	switch cfg.Artifact.Source {
	case ArtifactSourceLocal:
		if cfg.Artifact.Dir == "" {
			return nil, errors.New("missing artifact dir")
		}
	case ArtifactSourceHTTP:
		if cfg.Artifact.BaseURL == "" {
			return nil, errors.New("missing artifact base url")
		}
	case ArtifactSourceS3:
		if cfg.S3.Endpoint == "" || cfg.S3.Bucket == "" {
			return nil, errors.New("missing s3 endpoint or bucket")
		}
		if cfg.S3.AccessKey == "" || cfg.S3.SecretKey == "" {
			return nil, errors.New("missing s3 credentials")
		}
	default:
		return nil, errors.New("unknown artifact source: " + cfg.Artifact.Source)
	}

	switch cfg.Artifact.DatasetSource {
	case DatasetSourceArtifact:
	case DatasetSourcePostgres:
		if cfg.Database.Password == "" {
			return nil, errors.New("missing database password")
		}
	default:
		return nil, errors.New("unknown dataset source: " + cfg.Artifact.DatasetSource)
	}

	if len(cfg.Artifact.Encodings) == 0 {
		return nil, errors.New("missing dataset encodings")
	}

	if len(cfg.Recommend.Products) == 0 {
		return nil, errors.New("missing products")
	}

	return cfg, nil
}

func getEnv(key, defaultVal string) string {
	if val := os.Getenv(key); val != "" {
		return val
	}

	return defaultVal
}

// getEnvList splits a comma separated variable, dropping blank items.
func getEnvList(key string, defaultVal []string) []string {
	val := os.Getenv(key)
	if val == "" {
		return append([]string(nil), defaultVal...)
	}

	var out []string
	for _, item := range strings.Split(val, ",") {
		if item = strings.TrimSpace(item); item != "" {
			out = append(out, item)
		}
	}
	return out
}
