package ingest

import (
	"encoding/json"
	"strings"
	"time"

	"github.com/dsoumyadip/tb-update-handles/internal/models"
)

// ParseHandles splits a newline-delimited blob into trimmed handles in file
// order. A single terminating newline does not produce an extra entry; any
// other blank line is kept as "".
func ParseHandles(content []byte) []models.Handle {
	if len(content) == 0 {
		return []models.Handle{}
	}
	lines := strings.Split(strings.TrimSuffix(string(content), "\n"), "\n")
	out := make([]models.Handle, 0, len(lines))
	for _, l := range lines {
		out = append(out, strings.TrimSpace(l))
	}
	return out
}

// Stamp copies the record and attaches the freshness time in UTC.
func Stamp(rec models.ProfileRecord, now func() time.Time) models.PersistedProfile {
	fields := make(map[string]any, len(rec))
	for k, v := range rec {
		fields[k] = v
	}
	return models.PersistedProfile{
		Username:    rec.Username(),
		Fields:      fields,
		LastUpdated: now().UTC(),
	}
}

// normalize converts json.Number values left by a UseNumber decoder into
// int64 or float64 so document stores see native numeric types.
func normalize(v any) any {
	switch t := v.(type) {
	case json.Number:
		if i, err := t.Int64(); err == nil {
			return i
		}
		if f, err := t.Float64(); err == nil {
			return f
		}
		return t.String()
	case map[string]any:
		for k, inner := range t {
			t[k] = normalize(inner)
		}
		return t
	case []any:
		for i, inner := range t {
			t[i] = normalize(inner)
		}
		return t
	default:
		return v
	}
}
