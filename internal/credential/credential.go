// Package credential provides the bearer token sources for the profile API.
package credential

import (
	"context"
	"os"
	"strings"

	"github.com/dsoumyadip/tb-update-handles/internal/ingest"
)

// DefaultEnvVar is the variable the token is read from by default.
const DefaultEnvVar = "BEARER_TOKEN"

// Env reads the token from an environment variable on every call.
type Env struct {
	Name   string
	lookup func(string) (string, bool)
}

var _ ingest.CredentialProvider = (*Env)(nil)

func NewEnv(name string) *Env {
	return NewEnvWithLookup(name, os.LookupEnv)
}

// NewEnvWithLookup lets callers substitute the environment, e.g. in tests.
func NewEnvWithLookup(name string, lookup func(string) (string, bool)) *Env {
	if name == "" {
		name = DefaultEnvVar
	}
	return &Env{Name: name, lookup: lookup}
}

// Token returns "" when the variable is unset or blank.
func (e *Env) Token(ctx context.Context) (string, error) {
	v, _ := e.lookup(e.Name)
	return strings.TrimSpace(v), nil
}

// Static always returns the same token.
type Static string

func (s Static) Token(ctx context.Context) (string, error) { return string(s), nil }
