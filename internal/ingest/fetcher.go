package ingest

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/dsoumyadip/tb-update-handles/internal/models"
)

const (
	// DefaultUsersURL is the batched user lookup endpoint.
	DefaultUsersURL = "https://api.twitter.com/2/users/by"
	// DefaultMaxBatch is the upstream ceiling on usernames per lookup.
	DefaultMaxBatch = 100

	maxErrorBody = 64 << 10
)

// UserFields is the fixed field selection sent with every lookup.
var UserFields = []string{
	"description",
	"created_at",
	"location",
	"pinned_tweet_id",
	"profile_image_url",
	"protected",
	"public_metrics",
	"url",
	"verified",
}

type HTTPFetcher struct {
	Client   *http.Client
	UsersURL string
	MaxBatch int
	logger   *slog.Logger
}

var _ FetcherPort = (*HTTPFetcher)(nil)

func NewHTTPFetcher(usersURL string, timeout time.Duration, maxBatch int, logger *slog.Logger) *HTTPFetcher {
	if usersURL == "" {
		usersURL = DefaultUsersURL
	}
	if maxBatch <= 0 {
		maxBatch = DefaultMaxBatch
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &HTTPFetcher{
		UsersURL: usersURL,
		MaxBatch: maxBatch,
		logger:   logger,
		Client: &http.Client{
			Timeout: timeout,
			Transport: &http.Transport{
				DialContext: (&net.Dialer{
					Timeout:   5 * time.Second,
					KeepAlive: 30 * time.Second,
				}).DialContext,
				TLSHandshakeTimeout: 5 * time.Second,
				MaxIdleConns:        100,
				IdleConnTimeout:     90 * time.Second,
			},
		},
	}
}

type usersResponse struct {
	Data   []models.ProfileRecord `json:"data"`
	Errors []struct {
		Value  string `json:"value"`
		Detail string `json:"detail"`
	} `json:"errors"`
}

// BuildURL renders the single lookup request for handles.
func (f *HTTPFetcher) BuildURL(handles []models.Handle) (string, error) {
	u, err := url.Parse(f.UsersURL)
	if err != nil {
		return "", err
	}
	q := u.Query()
	q.Set("usernames", strings.Join(handles, ","))
	q.Set("user.fields", strings.Join(UserFields, ","))
	u.RawQuery = q.Encode()
	return u.String(), nil
}

// FetchProfiles looks up all handles in one request. Handles the API cannot
// resolve are absent from the result; that is not an error.
func (f *HTTPFetcher) FetchProfiles(ctx context.Context, handles []models.Handle, token string) ([]models.ProfileRecord, error) {
	if token == "" {
		return nil, ErrAuthMissing
	}
	if len(handles) == 0 {
		f.logger.Info("no handles to look up")
		return []models.ProfileRecord{}, nil
	}
	if len(handles) > f.MaxBatch {
		return nil, &BatchTooLargeError{Size: len(handles), Limit: f.MaxBatch}
	}

	endpoint, err := f.BuildURL(handles)
	if err != nil {
		return nil, err
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return nil, err
	}
	req.Header.Set("Authorization", "Bearer "+token)
	req.Header.Set("Accept", "application/json")

	resp, err := f.Client.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, maxErrorBody))
		return nil, &UpstreamError{StatusCode: resp.StatusCode, Body: string(body)}
	}

	dec := json.NewDecoder(resp.Body)
	dec.UseNumber()
	var out usersResponse
	if err := dec.Decode(&out); err != nil {
		return nil, fmt.Errorf("decode users response: %w", err)
	}
	for _, rec := range out.Data {
		normalize(map[string]any(rec))
	}
	for _, e := range out.Errors {
		f.logger.Debug("handle not resolved", "handle", e.Value, "detail", e.Detail)
	}
	if out.Data == nil {
		out.Data = []models.ProfileRecord{}
	}
	f.logger.Info("fetched profiles", "requested", len(handles), "returned", len(out.Data))
	return out.Data, nil
}
