package config

import (
	"fmt"
	"strings"
	"time"

	"github.com/spf13/viper"
)

type Config struct {
	Blob       BlobConfig       `mapstructure:"blob"`
	Store      StoreConfig      `mapstructure:"store"`
	PG         PGConfig         `mapstructure:"pg"`
	Redis      RedisConfig      `mapstructure:"redis"`
	Credential CredentialConfig `mapstructure:"credential"`
	API        APIConfig        `mapstructure:"api"`
	Run        RunConfig        `mapstructure:"run"`
	HTTP       HTTPConfig       `mapstructure:"http"`
	Log        LogConfig        `mapstructure:"log"`
	OTel       OTelConfig       `mapstructure:"otel"`
	Metrics    MetricsConfig    `mapstructure:"metrics"`
}

// Handle list location
type BlobConfig struct {
	Backend string `mapstructure:"backend"` // "gcs" or "file"
	Bucket  string `mapstructure:"bucket"`  // BLOB_BUCKET
	Object  string `mapstructure:"object"`  // BLOB_OBJECT, e.g. twitter_handles.txt
	Dir     string `mapstructure:"dir"`     // root for the file backend
}

// Document collection
type StoreConfig struct {
	Backend    string `mapstructure:"backend"`    // "firestore", "postgres", "redis" or "memory"
	Collection string `mapstructure:"collection"` // e.g. tb-handles
	Project    string `mapstructure:"project"`    // GCP project for firestore
}

// Postgres (explicit pieces)
type PGConfig struct {
	Host     string `mapstructure:"host"`
	Port     int    `mapstructure:"port"`
	User     string `mapstructure:"user"`
	Password string `mapstructure:"password"`
	Database string `mapstructure:"database"`
	SSLMode  string `mapstructure:"sslmode"` // "disable" locally, "require" in cloud
}

type RedisConfig struct {
	URL string `mapstructure:"url"`
}

type CredentialConfig struct {
	Source    string `mapstructure:"source"` // "env" or "kubernetes"
	Env       string `mapstructure:"env"`    // variable holding the bearer token
	Namespace string `mapstructure:"namespace"`
	Secret    string `mapstructure:"secret"`
	Key       string `mapstructure:"key"`
}

// Upstream profile API
type APIConfig struct {
	URL      string        `mapstructure:"url"`
	Timeout  time.Duration `mapstructure:"timeout"`
	MaxBatch int           `mapstructure:"max_batch"`
}

type RunConfig struct {
	Timeout time.Duration `mapstructure:"timeout"`
}

type HTTPConfig struct {
	ListenAddr string `mapstructure:"listen_addr"`
}

type LogConfig struct {
	Level string `mapstructure:"level"`
}

type OTelConfig struct {
	Enabled     bool    `mapstructure:"enabled"`
	Endpoint    string  `mapstructure:"endpoint"`
	ServiceName string  `mapstructure:"service_name"`
	SampleRatio float64 `mapstructure:"sample_ratio"`
}

type MetricsConfig struct {
	Pushgateway string `mapstructure:"pushgateway"`
	Job         string `mapstructure:"job"`
}

var defaults = map[string]any{
	"blob.backend":         "gcs",
	"blob.bucket":          "",
	"blob.object":          "twitter_handles.txt",
	"blob.dir":             ".",
	"store.backend":        "firestore",
	"store.collection":     "tb-handles",
	"store.project":        "",
	"pg.host":              "postgres",
	"pg.port":              5432,
	"pg.user":              "app",
	"pg.password":          "app",
	"pg.database":          "handles",
	"pg.sslmode":           "disable",
	"redis.url":            "redis://localhost:6379/0",
	"credential.source":    "env",
	"credential.env":       "BEARER_TOKEN",
	"credential.namespace": "default",
	"credential.secret":    "twitter-api",
	"credential.key":       "BEARER_TOKEN",
	"api.url":              "https://api.twitter.com/2/users/by",
	"api.timeout":          "10s",
	"api.max_batch":        100,
	"run.timeout":          "2m",
	"http.listen_addr":     ":8080",
	"log.level":            "info",
	"otel.enabled":         false,
	"otel.endpoint":        "http://localhost:4318",
	"otel.service_name":    "tb-update-handles",
	"otel.sample_ratio":    1.0,
	"metrics.pushgateway":  "",
	"metrics.job":          "tb-update-handles",
}

// Load merges defaults, the optional YAML file at path and the environment.
// Keys map to env vars by upper-casing and replacing "." with "_", so
// blob.bucket is BLOB_BUCKET.
func Load(path string) (Config, error) {
	v := viper.New()
	for k, d := range defaults {
		v.SetDefault(k, d)
	}
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	// Names the original deployment used.
	_ = v.BindEnv("blob.bucket", "BLOB_BUCKET", "BUCKET_NAME")
	_ = v.BindEnv("blob.object", "BLOB_OBJECT", "SOURCE_BLOB_NAME")
	_ = v.BindEnv("store.project", "STORE_PROJECT", "GOOGLE_CLOUD_PROJECT")

	if path != "" {
		v.SetConfigFile(path)
		if err := v.ReadInConfig(); err != nil {
			return Config{}, fmt.Errorf("reading config %s: %w", path, err)
		}
	}

	var c Config
	if err := v.Unmarshal(&c); err != nil {
		return Config{}, fmt.Errorf("decoding config: %w", err)
	}
	return c, nil
}

// Validate checks the settings the selected backends depend on.
func (c Config) Validate() error {
	switch c.Blob.Backend {
	case "gcs":
		if c.Blob.Bucket == "" {
			return fmt.Errorf("blob.bucket is required for the gcs backend")
		}
	case "file":
	default:
		return fmt.Errorf("unknown blob.backend %q", c.Blob.Backend)
	}
	if c.Blob.Object == "" {
		return fmt.Errorf("blob.object is required")
	}

	switch c.Store.Backend {
	case "firestore":
		if c.Store.Project == "" {
			return fmt.Errorf("store.project is required for the firestore backend")
		}
	case "postgres", "redis", "memory":
	default:
		return fmt.Errorf("unknown store.backend %q", c.Store.Backend)
	}
	if c.Store.Collection == "" {
		return fmt.Errorf("store.collection is required")
	}

	switch c.Credential.Source {
	case "env", "kubernetes":
	default:
		return fmt.Errorf("unknown credential.source %q", c.Credential.Source)
	}

	if c.API.MaxBatch <= 0 {
		return fmt.Errorf("api.max_batch must be positive")
	}
	if c.API.Timeout <= 0 {
		return fmt.Errorf("api.timeout must be positive")
	}
	return nil
}

// BuildDSN composes a keyword/value DSN compatible with pgxpool.
func (c PGConfig) BuildDSN() string {
	return fmt.Sprintf(
		"host=%s port=%d user=%s password=%s dbname=%s sslmode=%s",
		c.Host, c.Port, c.User, c.Password, c.Database, c.SSLMode,
	)
}
