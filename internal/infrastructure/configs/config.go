package configs

import (
	"fmt"
	"time"

	"github.com/knadh/koanf/parsers/yaml"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/v2"
	"github.com/usaidgithub/QuickShare/internal/infrastructure/env"
)

type Config struct {
	HTTP        HTTPConfig        `koanf:"http"`
	Upload      UploadConfig      `koanf:"upload"`
	RateLimiter RateLimiterConfig `koanf:"rateLimiter"`
	Tracing     TracingConfig     `koanf:"tracing"`
}

type HTTPConfig struct {
	Host           string        `koanf:"host"`
	Port           uint16        `koanf:"port"`
	PublicURL      string        `koanf:"public_url"`
	AllowedOrigins []string      `koanf:"allowed_origins"`
	ReadTimeout    time.Duration `koanf:"read_timeout"`
	WriteTimeout   time.Duration `koanf:"write_timeout"`
}

type UploadConfig struct {
	Dir             string        `koanf:"dir"`
	MaxFileSize     int64         `koanf:"max_file_size"`
	Retention       time.Duration `koanf:"retention"`
	CleanupInterval time.Duration `koanf:"cleanup_interval"`
}

type RateLimiterConfig struct {
	RequestsPerTimeFrame int           `koanf:"requestsPerTimeFrame"`
	TimeFrame            time.Duration `koanf:"timeFrame"`
}

type TracingConfig struct {
	Enabled     bool   `koanf:"enabled"`
	ServiceName string `koanf:"service_name"`
	Endpoint    string `koanf:"endpoint"`
}

func Load(path string) (*Config, error) {
	k := koanf.New(".")

	// Load from YAML file if it exists
	if path != "" {
		if err := k.Load(file.Provider(path), yaml.Parser()); err != nil {
			// Only return error if file was explicitly provided but failed to load
			return nil, fmt.Errorf("failed to load config file: %w", err)
		}
	}

	// Apply defaults and environment variable overrides
	applyDefaults(k)
	applyEnvOverrides(k)

	var cfg Config
	if err := k.UnmarshalWithConf("", &cfg, koanf.UnmarshalConf{Tag: "koanf"}); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}

	return &cfg, nil
}

func applyDefaults(k *koanf.Koanf) {
	// HTTP defaults
	setDefault(k, "http.host", "0.0.0.0")
	setDefault(k, "http.port", 5000)
	setDefault(k, "http.public_url", "http://localhost:5000")
	setDefault(k, "http.allowed_origins", []string{"http://localhost:3000"})
	setDefault(k, "http.read_timeout", 10*time.Second)
	setDefault(k, "http.write_timeout", 30*time.Second)

	// Upload defaults
	setDefault(k, "upload.dir", "./tmp")
	setDefault(k, "upload.max_file_size", int64(30*1024*1024))
	setDefault(k, "upload.retention", 3*time.Minute)
	setDefault(k, "upload.cleanup_interval", time.Minute)

	// Rate limiter defaults
	setDefault(k, "rateLimiter.requestsPerTimeFrame", 30)
	setDefault(k, "rateLimiter.timeFrame", 5*time.Second)

	// Tracing defaults
	setDefault(k, "tracing.enabled", false)
	setDefault(k, "tracing.service_name", "quickshare")
	setDefault(k, "tracing.endpoint", "http://jaeger:4318")
}

func applyEnvOverrides(k *koanf.Koanf) {
	// HTTP config from env
	if host := env.GetString("HTTP_HOST", ""); host != "" {
		k.Set("http.host", host)
	}
	if port := env.GetInt("PORT", 0); port > 0 {
		k.Set("http.port", port)
	}
	if publicURL := env.GetString("PUBLIC_URL", ""); publicURL != "" {
		k.Set("http.public_url", publicURL)
	}
	if origin := env.GetString("ALLOWED_ORIGIN", ""); origin != "" {
		k.Set("http.allowed_origins", []string{origin})
	}

	// Upload config from env
	if dir := env.GetString("UPLOAD_DIR", ""); dir != "" {
		k.Set("upload.dir", dir)
	}
	if maxSize := env.GetInt("UPLOAD_MAX_FILE_SIZE_BYTES", 0); maxSize > 0 {
		k.Set("upload.max_file_size", int64(maxSize))
	}
	if retention := env.GetInt("UPLOAD_RETENTION_SECONDS", 0); retention > 0 {
		k.Set("upload.retention", time.Duration(retention)*time.Second)
	}
	if interval := env.GetInt("UPLOAD_CLEANUP_INTERVAL_SECONDS", 0); interval > 0 {
		k.Set("upload.cleanup_interval", time.Duration(interval)*time.Second)
	}

	// Rate limiter config from env
	if requests := env.GetInt("RATE_LIMIT_REQUESTS_PER_TIME_FRAME", 0); requests > 0 {
		k.Set("rateLimiter.requestsPerTimeFrame", requests)
	}
	if frame := env.GetInt("RATE_LIMIT_TIME_FRAME_SECONDS", 0); frame > 0 {
		k.Set("rateLimiter.timeFrame", time.Duration(frame)*time.Second)
	}

	// Tracing config from env
	if env.GetBool("TRACING_ENABLED", false) {
		k.Set("tracing.enabled", true)
	}
	if endpoint := env.GetString("TRACING_ENDPOINT", ""); endpoint != "" {
		k.Set("tracing.endpoint", endpoint)
	}
}

// setDefault only sets the value if the key doesn't already exist
func setDefault(k *koanf.Koanf, key string, value interface{}) {
	if !k.Exists(key) {
		k.Set(key, value)
	}
}
