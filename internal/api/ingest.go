package api

import (
	"context"

	"github.com/dsoumyadip/tb-update-handles/internal/ingest"
	"github.com/dsoumyadip/tb-update-handles/internal/models"
)

// StatusSuccess is what a successful trigger reports.
const StatusSuccess = "Success"

// RunOnce triggers a single refresh run. The error, if any, is the one the
// failing stage produced.
func (a *API) RunOnce(ctx context.Context) (string, ingest.Result, error) {
	res, err := a.ing.Run(ctx)
	if err != nil {
		return "", res, err
	}
	return StatusSuccess, res, nil
}

// Profile returns the stored document for handle.
func (a *API) Profile(ctx context.Context, handle models.Handle) (map[string]any, error) {
	return a.ing.Profile(ctx, handle)
}
