package themeapi

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strings"
	"time"

	pkgerrors "github.com/angelmondragon/webtheme-backend/pkg/errors"
	"github.com/angelmondragon/webtheme-backend/pkg/logger"
	"github.com/angelmondragon/webtheme-backend/pkg/metrics"
	"github.com/go-resty/resty/v2"
	"github.com/sethvargo/go-retry"
)

// Backend endpoints, relative to the base URL.
const (
	EndpointFetchSettings = "get_obw_settings"
	EndpointSaveSettings  = "saveRestaurantSettings"
	EndpointSaveHeader    = "save_header_settings"
	EndpointListBrands    = "getBrandName"
)

const defaultTimeout = 15 * time.Second

var errBaseURLRequired = errors.New("settings backend base url is required")

// Gateway reads and writes the raw web_theme document of a brand.
type Gateway interface {
	FetchRawSettings(ctx context.Context, brandID string) (map[string]any, error)
	SaveRawSettings(ctx context.Context, brandID, userID string, doc map[string]any) error
	SaveHeaderSettings(ctx context.Context, brandID string, header map[string]any) error
	ListBrands(ctx context.Context) ([]Brand, error)
}

// Brand is one entry of the brand picker.
type Brand struct {
	ID   string `json:"id"`
	Name string `json:"name"`
}

// Client talks to the settings backend with form-encoded POSTs.
type Client struct {
	http    *resty.Client
	policy  Policy
	metrics *metrics.GatewayMetrics
	logg    *logger.Logger
}

// Option configures optional client behavior.
type Option func(*Client)

// WithPolicy overrides the retry policy.
func WithPolicy(policy Policy) Option {
	return func(c *Client) {
		c.policy = policy
	}
}

// WithMetrics records call durations, retries and failures.
func WithMetrics(m *metrics.GatewayMetrics) Option {
	return func(c *Client) {
		c.metrics = m
	}
}

// WithLogger logs save responses.
func WithLogger(logg *logger.Logger) Option {
	return func(c *Client) {
		c.logg = logg
	}
}

// WithHTTPClient overrides the underlying HTTP client.
func WithHTTPClient(client *http.Client) Option {
	return func(c *Client) {
		if client != nil {
			c.http = resty.NewWithClient(client).SetBaseURL(c.http.BaseURL)
		}
	}
}

// WithTimeout overrides the per-attempt timeout.
func WithTimeout(timeout time.Duration) Option {
	return func(c *Client) {
		if timeout > 0 {
			c.http.SetTimeout(timeout)
		}
	}
}

// NewClient builds a client for the backend rooted at baseURL.
func NewClient(baseURL string, opts ...Option) (*Client, error) {
	trimmed := strings.TrimRight(strings.TrimSpace(baseURL), "/")
	if trimmed == "" {
		return nil, errBaseURLRequired
	}

	client := &Client{
		http: resty.New().
			SetBaseURL(trimmed).
			SetTimeout(defaultTimeout).
			SetHeader("Accept", "application/json"),
		policy: DefaultPolicy(),
	}
	for _, opt := range opts {
		if opt != nil {
			opt(client)
		}
	}
	return client, nil
}

// FetchRawSettings returns the brand's web_theme document. The response must
// carry a web_theme field; an empty string or null value is a brand without a
// theme and yields an empty document.
func (c *Client) FetchRawSettings(ctx context.Context, brandID string) (map[string]any, error) {
	if strings.TrimSpace(brandID) == "" {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "brand id is required")
	}
	body, err := c.post(ctx, EndpointFetchSettings, map[string]string{"brand_id": brandID})
	if err != nil {
		return nil, err
	}

	envelope, err := decodeObject(body)
	if err != nil {
		return nil, malformed(EndpointFetchSettings, err)
	}
	doc, err := extractTheme(envelope)
	if err != nil {
		return nil, malformed(EndpointFetchSettings, err)
	}
	return doc, nil
}

// SaveRawSettings stores the full web_theme document. Any 2xx response is a
// success, whatever its body.
func (c *Client) SaveRawSettings(ctx context.Context, brandID, userID string, doc map[string]any) error {
	encoded, err := json.Marshal(doc)
	if err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeInternal, err, "encode web_theme")
	}
	body, err := c.post(ctx, EndpointSaveSettings, map[string]string{
		"brand_id": brandID,
		"user_id":  userID,
		"data":     string(encoded),
	})
	if err != nil {
		return err
	}
	c.logSaveResponse(ctx, EndpointSaveSettings, body)
	return nil
}

// SaveHeaderSettings stores only the header subtree.
func (c *Client) SaveHeaderSettings(ctx context.Context, brandID string, header map[string]any) error {
	encoded, err := json.Marshal(header)
	if err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeInternal, err, "encode header")
	}
	body, err := c.post(ctx, EndpointSaveHeader, map[string]string{
		"brand_id":        brandID,
		"header_settings": string(encoded),
	})
	if err != nil {
		return err
	}
	c.logSaveResponse(ctx, EndpointSaveHeader, body)
	return nil
}

// ListBrands returns the brands the operator can edit.
func (c *Client) ListBrands(ctx context.Context) ([]Brand, error) {
	body, err := c.post(ctx, EndpointListBrands, nil)
	if err != nil {
		return nil, err
	}
	rows, err := brandRows(body)
	if err != nil {
		return nil, malformed(EndpointListBrands, err)
	}

	brands := make([]Brand, 0, len(rows))
	for _, row := range rows {
		obj, ok := row.(map[string]any)
		if !ok {
			continue
		}
		brand := Brand{ID: firstString(obj, "brand_id", "id"), Name: firstString(obj, "brand_name", "name")}
		if brand.ID == "" {
			continue
		}
		brands = append(brands, brand)
	}
	return brands, nil
}

// post sends one form request under the retry policy and returns the body of
// the 2xx response.
func (c *Client) post(ctx context.Context, endpoint string, form map[string]string) ([]byte, error) {
	start := time.Now()
	defer func() { c.metrics.ObserveDuration(endpoint, time.Since(start)) }()

	var body []byte
	attempt := 0
	err := retry.Do(ctx, c.policy.backoff(), func(ctx context.Context) error {
		attempt++
		if attempt > 1 {
			c.metrics.IncRetry(endpoint)
		}

		req := c.http.R().SetContext(ctx)
		if len(form) > 0 {
			req.SetFormData(form)
		}
		resp, err := req.Post(endpoint)
		if err != nil {
			return fmt.Errorf("%s: %w", endpoint, err)
		}
		if resp.IsSuccess() {
			body = resp.Body()
			return nil
		}

		statusErr := &StatusError{
			Endpoint:   endpoint,
			StatusCode: resp.StatusCode(),
			Preview:    preview(resp.Body()),
		}
		if c.policy.retryable(statusErr.StatusCode) {
			return retry.RetryableError(statusErr)
		}
		return statusErr
	})
	if err != nil {
		c.metrics.IncFailure(endpoint)
		return nil, classify(endpoint, err)
	}
	return body, nil
}

func (c *Client) logSaveResponse(ctx context.Context, endpoint string, body []byte) {
	if c.logg == nil {
		return
	}
	fields := map[string]any{"endpoint": endpoint}
	if parsed, err := decodeObject(body); err == nil {
		if msg := firstString(parsed, "message", "msg"); msg != "" {
			fields["backend_message"] = msg
		}
	} else {
		fields["backend_body"] = preview(body)
	}
	c.logg.Info(c.logg.WithFields(ctx, fields), "theme settings saved")
}

func decodeJSON(body []byte) (any, error) {
	dec := json.NewDecoder(bytes.NewReader(body))
	dec.UseNumber()
	var out any
	if err := dec.Decode(&out); err != nil {
		return nil, err
	}
	return out, nil
}

func decodeObject(body []byte) (map[string]any, error) {
	out, err := decodeJSON(body)
	if err != nil {
		return nil, err
	}
	obj, ok := out.(map[string]any)
	if !ok {
		return nil, errors.New("response is not an object")
	}
	return obj, nil
}

// brandRows accepts a bare array or an object with the array under data.
func brandRows(body []byte) ([]any, error) {
	out, err := decodeJSON(body)
	if err != nil {
		return nil, err
	}
	switch v := out.(type) {
	case []any:
		return v, nil
	case map[string]any:
		if rows, ok := v["data"].([]any); ok {
			return rows, nil
		}
	}
	return nil, fmt.Errorf("brand list has unexpected shape %T", out)
}

// extractTheme finds web_theme at the top level or under data, either as an
// embedded object or as a JSON string that is parsed a second time.
func extractTheme(envelope map[string]any) (map[string]any, error) {
	raw, found := envelope["web_theme"]
	if !found {
		switch data := envelope["data"].(type) {
		case map[string]any:
			raw, found = data["web_theme"]
		case []any:
			if len(data) > 0 {
				if first, ok := data[0].(map[string]any); ok {
					raw, found = first["web_theme"]
				}
			}
		}
	}
	if !found {
		return nil, errors.New("web_theme is missing")
	}
	if raw == nil {
		return map[string]any{}, nil
	}

	switch v := raw.(type) {
	case map[string]any:
		return v, nil
	case string:
		if strings.TrimSpace(v) == "" {
			return map[string]any{}, nil
		}
		return decodeObject([]byte(v))
	}
	return nil, fmt.Errorf("web_theme has unexpected type %T", raw)
}

func firstString(obj map[string]any, keys ...string) string {
	for _, key := range keys {
		switch v := obj[key].(type) {
		case string:
			if v != "" {
				return v
			}
		case json.Number:
			return v.String()
		}
	}
	return ""
}

var _ Gateway = (*Client)(nil)
