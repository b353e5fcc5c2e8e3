package client

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"

	"github.com/groblegark/entityd/internal/model"
)

// HTTPClient implements EntityClient using the entityd HTTP/JSON REST API.
type HTTPClient struct {
	baseURL    string
	httpClient *http.Client
}

// Compile-time check that HTTPClient implements EntityClient.
var _ EntityClient = (*HTTPClient)(nil)

// NewHTTPClient creates a new HTTP client targeting the given base URL
// (e.g. "http://localhost:8080").
func NewHTTPClient(baseURL string) *HTTPClient {
	return &HTTPClient{
		baseURL:    strings.TrimRight(baseURL, "/"),
		httpClient: &http.Client{},
	}
}

// Close is a no-op for the HTTP client.
func (c *HTTPClient) Close() error { return nil }

func (c *HTTPClient) CreateEntity(ctx context.Context, in *model.EntityInput) (*model.Entity, error) {
	var entity model.Entity
	if err := c.doJSON(ctx, http.MethodPost, "/entities", in, &entity); err != nil {
		return nil, err
	}
	return &entity, nil
}

func (c *HTTPClient) GetEntity(ctx context.Context, id int64) (*model.Entity, error) {
	var entity model.Entity
	if err := c.doJSON(ctx, http.MethodGet, entityPath(id), nil, &entity); err != nil {
		return nil, err
	}
	return &entity, nil
}

func (c *HTTPClient) ListEntities(ctx context.Context, params *ListParams) ([]*model.Entity, error) {
	q := url.Values{}
	if params.Skip > 0 {
		q.Set("skip", strconv.Itoa(params.Skip))
	}
	if params.Limit > 0 {
		q.Set("limit", strconv.Itoa(params.Limit))
	}
	if params.JSONPath != "" {
		q.Set("json_path", params.JSONPath)
	}
	if params.JSONValue != "" {
		q.Set("json_value", params.JSONValue)
	}
	if params.JSONContains != "" {
		q.Set("json_contains", params.JSONContains)
	}
	if params.JSONKeyExists != "" {
		q.Set("json_key_exists", params.JSONKeyExists)
	}

	path := "/entities"
	if len(q) > 0 {
		path += "?" + q.Encode()
	}

	var entities []*model.Entity
	if err := c.doJSON(ctx, http.MethodGet, path, nil, &entities); err != nil {
		return nil, err
	}
	return entities, nil
}

func (c *HTTPClient) UpdateEntity(ctx context.Context, id int64, in *model.EntityInput) (*model.Entity, error) {
	var entity model.Entity
	if err := c.doJSON(ctx, http.MethodPut, entityPath(id), in, &entity); err != nil {
		return nil, err
	}
	return &entity, nil
}

func (c *HTTPClient) DeleteEntity(ctx context.Context, id int64) error {
	return c.doJSON(ctx, http.MethodDelete, entityPath(id), nil, nil)
}

func (c *HTTPClient) Health(ctx context.Context) (string, error) {
	var resp struct {
		Status string `json:"status"`
	}
	if err := c.doJSON(ctx, http.MethodGet, "/health", nil, &resp); err != nil {
		return "", err
	}
	return resp.Status, nil
}

func entityPath(id int64) string {
	return "/entities/" + strconv.FormatInt(id, 10)
}

// doJSON performs an HTTP request with an optional JSON body and decodes the
// JSON response into out (skipped when out is nil). Non-2xx responses are
// returned as errors carrying the server's error message.
func (c *HTTPClient) doJSON(ctx context.Context, method, path string, body, out any) error {
	var reqBody io.Reader
	if body != nil {
		data, err := json.Marshal(body)
		if err != nil {
			return fmt.Errorf("marshal request: %w", err)
		}
		reqBody = bytes.NewReader(data)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, reqBody)
	if err != nil {
		return fmt.Errorf("create request: %w", err)
	}
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("%s %s: %w", method, path, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		var apiErr struct {
			Error string `json:"error"`
		}
		data, _ := io.ReadAll(resp.Body)
		if err := json.Unmarshal(data, &apiErr); err == nil && apiErr.Error != "" {
			return &APIError{Status: resp.StatusCode, Message: apiErr.Error}
		}
		return &APIError{Status: resp.StatusCode, Message: strings.TrimSpace(string(data))}
	}

	if out == nil {
		return nil
	}
	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("decode response: %w", err)
	}
	return nil
}

// APIError is a non-2xx response from the server.
type APIError struct {
	Status  int
	Message string
}

func (e *APIError) Error() string {
	return fmt.Sprintf("server returned %d: %s", e.Status, e.Message)
}
