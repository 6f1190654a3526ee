package models

import "time"

const (
	// KeyField is the profile field every document is keyed on.
	KeyField = "username"
	// FreshnessField holds the wall-clock time of the last successful refresh.
	FreshnessField = "last_updated"
)

// Handle names one tracked account.
type Handle = string

// ProfileRecord is one profile object as returned in the API's data array.
// Only KeyField is required; everything else passes through untouched.
type ProfileRecord map[string]any

// Username returns the key field, or "" when it is missing or not a string.
func (r ProfileRecord) Username() string {
	s, _ := r[KeyField].(string)
	return s
}

type PersistedProfile struct {
	Username    string
	Fields      map[string]any
	LastUpdated time.Time
}

// Document flattens the profile into the map written to the collection.
func (p PersistedProfile) Document() map[string]any {
	doc := make(map[string]any, len(p.Fields)+1)
	for k, v := range p.Fields {
		doc[k] = v
	}
	doc[FreshnessField] = p.LastUpdated
	return doc
}
