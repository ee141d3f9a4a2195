package cfg

import (
	"errors"
	"os"

	"github.com/joho/godotenv"
)

type RedisConfig struct {
	Host     string
	Port     string
	Password string
}

type PostgresConfig struct {
	Host     string
	Port     string
	User     string
	Password string
	DBName   string
	SSLMode  string
}

type ObservabilityConfig struct {
	ServiceName  string
	Environment  string
	OTLPEndpoint string
}

// OAuth2Config carries per-provider credentials. Empty credentials
// mean the provider is not registered at start-up.
type OAuth2Config struct {
	GoogleClientID       string
	GoogleClientSecret   string
	GoogleRedirectURL    string
	GithubClientID       string
	GithubClientSecret   string
	GithubRedirectURL    string
	FacebookClientID     string
	FacebookClientSecret string
	FacebookRedirectURL  string
}

type Config struct {
	AppEnv        string
	Redis         RedisConfig
	Postgres      PostgresConfig
	Observability ObservabilityConfig
	OAuth2        OAuth2Config
}

func Load() (*Config, error) {
	var errs []error

	err := godotenv.Load()
	if err != nil {
		return nil, errors.New("failed load cfg: " + err.Error())
	}

	appEnv := mustEnv("APP_ENV", &errs)

	redisHost := mustEnv("REDIS_HOST", &errs)
	redisPort := mustEnv("REDIS_PORT", &errs)
	redisPassword := os.Getenv("REDIS_PASSWORD")

	pgHost := mustEnv("PG_HOST", &errs)
	pgPort := mustEnv("PG_PORT", &errs)
	pgUser := mustEnv("PG_USER", &errs)
	pgPassword := mustEnv("PG_PASSWORD", &errs)
	pgDBName := mustEnv("PG_DBNAME", &errs)
	pgSSLMode := mustEnv("PG_SSLMODE", &errs)

	serviceName := mustEnv("SERVICE_NAME", &errs)
	otlpEndpoint := mustEnv("OTLP_ENDPOINT", &errs)

	if len(errs) > 0 {
		return nil, errors.Join(errs...)
	}

	return &Config{
		AppEnv: appEnv,
		Redis: RedisConfig{
			Host:     redisHost,
			Port:     redisPort,
			Password: redisPassword,
		},
		Postgres: PostgresConfig{
			Host:     pgHost,
			Port:     pgPort,
			User:     pgUser,
			Password: pgPassword,
			DBName:   pgDBName,
			SSLMode:  pgSSLMode,
		},
		Observability: ObservabilityConfig{
			ServiceName:  serviceName,
			Environment:  appEnv,
			OTLPEndpoint: otlpEndpoint,
		},
		OAuth2: OAuth2Config{
			GoogleClientID:       os.Getenv("GOOGLE_CLIENT_ID"),
			GoogleClientSecret:   os.Getenv("GOOGLE_CLIENT_SECRET"),
			GoogleRedirectURL:    os.Getenv("GOOGLE_REDIRECT_URL"),
			GithubClientID:       os.Getenv("GITHUB_CLIENT_ID"),
			GithubClientSecret:   os.Getenv("GITHUB_CLIENT_SECRET"),
			GithubRedirectURL:    os.Getenv("GITHUB_REDIRECT_URL"),
			FacebookClientID:     os.Getenv("FACEBOOK_CLIENT_ID"),
			FacebookClientSecret: os.Getenv("FACEBOOK_CLIENT_SECRET"),
			FacebookRedirectURL:  os.Getenv("FACEBOOK_REDIRECT_URL"),
		},
	}, nil
}

func mustEnv(key string, errs *[]error) string {
	value, exists := os.LookupEnv(key)
	if !exists || value == "" {
		*errs = append(*errs, errors.New("missing env: "+key))
	}
	return value
}
