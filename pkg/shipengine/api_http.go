package shipengine

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"
)

// DefaultBaseURL is the production ShipEngine endpoint. The same key space
// serves sandbox and production; the credential decides the environment.
const DefaultBaseURL = "https://api.shipengine.com/"

// HTTPAPIClient is the production implementation of APIClient using HTTP.
// Each call is a single request/response attempt with no built-in retry.
type HTTPAPIClient struct {
	baseURL    string
	apiKey     string
	httpClient *http.Client
}

// HTTPAPIClientConfig holds configuration for the HTTP client.
type HTTPAPIClientConfig struct {
	BaseURL string
	APIKey  string
	Timeout time.Duration
}

// NewHTTPAPIClient creates a new HTTP-based API client for production use.
func NewHTTPAPIClient(cfg HTTPAPIClientConfig) *HTTPAPIClient {
	baseURL := cfg.BaseURL
	if baseURL == "" {
		baseURL = DefaultBaseURL
	}

	timeout := cfg.Timeout
	if timeout == 0 {
		timeout = 30 * time.Second
	}

	return &HTTPAPIClient{
		baseURL: strings.TrimSuffix(baseURL, "/"),
		apiKey:  cfg.APIKey,
		httpClient: &http.Client{
			Timeout: timeout,
		},
	}
}

// GetRates fetches rate quotes. POST v1/rates
func (c *HTTPAPIClient) GetRates(ctx context.Context, req *RateRequest) (*RateResponseBody, error) {
	resp, err := c.doRequest(ctx, http.MethodPost, "/v1/rates", req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	var result RateResponseBody
	if err := c.decode(resp, &result); err != nil {
		return nil, err
	}
	return &result, nil
}

// ValidateAddresses validates addresses. POST v1/addresses/validate
func (c *HTTPAPIClient) ValidateAddresses(ctx context.Context, req []AddressFields) (*ValidationResponseBody, error) {
	resp, err := c.doRequest(ctx, http.MethodPost, "/v1/addresses/validate", req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	var result ValidationResponseBody
	if err := c.decode(resp, &result); err != nil {
		return nil, err
	}
	return &result, nil
}

// ListCarriers lists the configured carrier accounts. GET v1/carriers
func (c *HTTPAPIClient) ListCarriers(ctx context.Context) (*CarriersResponseBody, error) {
	resp, err := c.doRequest(ctx, http.MethodGet, "/v1/carriers", nil)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	var result CarriersResponseBody
	if err := c.decode(resp, &result); err != nil {
		return nil, err
	}
	return &result, nil
}

// doRequest performs an HTTP request with proper headers and authentication.
func (c *HTTPAPIClient) doRequest(ctx context.Context, method, path string, body interface{}) (*http.Response, error) {
	url := c.baseURL + path

	var bodyReader io.Reader
	if body != nil {
		jsonBody, err := json.Marshal(body)
		if err != nil {
			return nil, fmt.Errorf("failed to marshal request body: %w", err)
		}
		bodyReader = bytes.NewReader(jsonBody)
	}

	req, err := http.NewRequestWithContext(ctx, method, url, bodyReader)
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}

	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Accept", "application/json")
	req.Header.Set("API-Key", c.apiKey)
	req.Header.Set("User-Agent", "shipengine-bridge/1.0")

	return c.httpClient.Do(req)
}

// decode reads the response body into out. Application errors arrive as an
// errors list in the body on 4xx/5xx responses and are decoded in-band; a
// body that cannot be decoded at all becomes an APIError.
func (c *HTTPAPIClient) decode(resp *http.Response, out interface{}) error {
	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return fmt.Errorf("failed to read response body: %w", err)
	}

	if err := json.Unmarshal(body, out); err != nil {
		return &APIError{
			StatusCode: resp.StatusCode,
			Code:       fmt.Sprintf("HTTP_%d", resp.StatusCode),
			Message:    strings.TrimSpace(string(body)),
		}
	}
	return nil
}

// Ensure HTTPAPIClient implements APIClient interface
var _ APIClient = (*HTTPAPIClient)(nil)
