package requests

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"time"

	"assetmanager/src/utils"
)

// ExternalAPIService is a thin JSON client shared by the price and rate providers.
type ExternalAPIService struct {
	client    *http.Client
	userAgent string
}

func NewExternalAPIService(timeout time.Duration, userAgent string) *ExternalAPIService {
	if timeout <= 0 {
		timeout = 10 * time.Second
	}
	return &ExternalAPIService{
		client:    &http.Client{Timeout: timeout},
		userAgent: userAgent,
	}
}

func (s *ExternalAPIService) makeRequest(ctx context.Context, method, endpoint string, params url.Values, body interface{}) (*http.Response, error) {
	if len(params) > 0 {
		endpoint = endpoint + "?" + params.Encode()
	}

	var reader io.Reader
	if body != nil {
		jsonBody, err := json.Marshal(body)
		if err != nil {
			return nil, err
		}
		reader = bytes.NewReader(jsonBody)
	}

	req, err := http.NewRequestWithContext(ctx, method, endpoint, reader)
	if err != nil {
		return nil, err
	}

	req.Header.Set("Accept", "application/json")
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if s.userAgent != "" {
		req.Header.Set("User-Agent", s.userAgent)
	}

	resp, err := s.client.Do(req)
	if err != nil {
		return nil, err
	}
	if resp.StatusCode >= http.StatusBadRequest {
		resp.Body.Close()
		return nil, utils.NewHTTPError(resp.StatusCode, fmt.Sprintf("%s %s: %s", method, endpoint, resp.Status))
	}
	return resp, nil
}

func (s *ExternalAPIService) Get(ctx context.Context, endpoint string, params url.Values) (*http.Response, error) {
	return s.makeRequest(ctx, http.MethodGet, endpoint, params, nil)
}

func (s *ExternalAPIService) Post(ctx context.Context, endpoint string, params url.Values, body interface{}) (*http.Response, error) {
	return s.makeRequest(ctx, http.MethodPost, endpoint, params, body)
}

// GetJSON issues a GET and decodes the response body into out.
func (s *ExternalAPIService) GetJSON(ctx context.Context, endpoint string, params url.Values, out interface{}) error {
	resp, err := s.Get(ctx, endpoint, params)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("decoding %s: %w", endpoint, err)
	}
	return nil
}
