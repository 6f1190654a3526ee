package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoad_Defaults(t *testing.T) {
	c, err := Load("")
	require.NoError(t, err)

	assert.Equal(t, "gcs", c.Blob.Backend)
	assert.Equal(t, "twitter_handles.txt", c.Blob.Object)
	assert.Equal(t, "firestore", c.Store.Backend)
	assert.Equal(t, "tb-handles", c.Store.Collection)
	assert.Equal(t, "BEARER_TOKEN", c.Credential.Env)
	assert.Equal(t, 10*time.Second, c.API.Timeout)
	assert.Equal(t, 100, c.API.MaxBatch)
	assert.Equal(t, 2*time.Minute, c.Run.Timeout)
	assert.Equal(t, ":8080", c.HTTP.ListenAddr)
}

func TestLoad_EnvOverrides(t *testing.T) {
	t.Setenv("BUCKET_NAME", "legacy-bucket")
	t.Setenv("SOURCE_BLOB_NAME", "handles.txt")
	t.Setenv("STORE_BACKEND", "redis")
	t.Setenv("API_TIMEOUT", "3s")
	t.Setenv("API_MAX_BATCH", "25")
	t.Setenv("PG_PORT", "6543")

	c, err := Load("")
	require.NoError(t, err)
	assert.Equal(t, "legacy-bucket", c.Blob.Bucket)
	assert.Equal(t, "handles.txt", c.Blob.Object)
	assert.Equal(t, "redis", c.Store.Backend)
	assert.Equal(t, 3*time.Second, c.API.Timeout)
	assert.Equal(t, 25, c.API.MaxBatch)
	assert.Equal(t, 6543, c.PG.Port)
}

func TestLoad_File(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte(`
blob:
  backend: file
  dir: /data
store:
  backend: memory
credential:
  source: kubernetes
  secret: api-token
`), 0o600))

	c, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, "file", c.Blob.Backend)
	assert.Equal(t, "/data", c.Blob.Dir)
	assert.Equal(t, "memory", c.Store.Backend)
	assert.Equal(t, "kubernetes", c.Credential.Source)
	assert.Equal(t, "api-token", c.Credential.Secret)
	assert.NoError(t, c.Validate())
}

func TestLoad_MissingFile(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "nope.yaml"))
	assert.Error(t, err)
}

func TestValidate(t *testing.T) {
	base := func() Config {
		c, err := Load("")
		require.NoError(t, err)
		c.Blob.Bucket = "bucket"
		c.Store.Project = "project"
		return c
	}
	require.NoError(t, base().Validate())

	tests := []struct {
		name   string
		mutate func(*Config)
	}{
		{"gcs without bucket", func(c *Config) { c.Blob.Bucket = "" }},
		{"unknown blob backend", func(c *Config) { c.Blob.Backend = "s3" }},
		{"no object", func(c *Config) { c.Blob.Object = "" }},
		{"firestore without project", func(c *Config) { c.Store.Project = "" }},
		{"unknown store backend", func(c *Config) { c.Store.Backend = "mongo" }},
		{"no collection", func(c *Config) { c.Store.Collection = "" }},
		{"unknown credential source", func(c *Config) { c.Credential.Source = "vault" }},
		{"zero batch", func(c *Config) { c.API.MaxBatch = 0 }},
		{"zero timeout", func(c *Config) { c.API.Timeout = 0 }},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c := base()
			tt.mutate(&c)
			assert.Error(t, c.Validate())
		})
	}
}

func TestBuildDSN(t *testing.T) {
	pg := PGConfig{Host: "db", Port: 5432, User: "u", Password: "p", Database: "d", SSLMode: "disable"}
	assert.Equal(t, "host=db port=5432 user=u password=p dbname=d sslmode=disable", pg.BuildDSN())
}
