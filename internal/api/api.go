package api

import (
	"time"

	"github.com/dsoumyadip/tb-update-handles/internal/ingest"
)

// API is the application-facing facade. All callers (HTTP, CLI) go through this.
type API struct {
	ing       *ingest.Service
	startedAt time.Time
}

func New(ing *ingest.Service) *API {
	return &API{ing: ing, startedAt: time.Now()}
}

// Health responds with the health status of the app.
func (api *API) Health() map[string]any {
	return map[string]any{
		"app":       "tb-update-handles",
		"startedAt": api.startedAt.Format(time.RFC3339),
		"status":    "ok",
	}
}
