package themeapi

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"sync/atomic"
	"testing"
	"time"

	pkgerrors "github.com/angelmondragon/webtheme-backend/pkg/errors"
	"github.com/angelmondragon/webtheme-backend/pkg/metrics"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func fastPolicy() Policy {
	return Policy{MaxAttempts: 3, BaseDelay: time.Millisecond, Multiplier: 2, Retryable: RetryOnRateLimit}
}

func newTestClient(t *testing.T, handler http.HandlerFunc, opts ...Option) *Client {
	t.Helper()

	server := httptest.NewServer(handler)
	t.Cleanup(server.Close)

	client, err := NewClient(server.URL+"/api/", append([]Option{WithPolicy(fastPolicy())}, opts...)...)
	require.NoError(t, err)
	return client
}

func TestNewClientRequiresBaseURL(t *testing.T) {
	_, err := NewClient("  ")
	require.Error(t, err)
}

func TestFetchRawSettingsParsesStringTheme(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPost, r.Method)
		assert.Equal(t, "/api/get_obw_settings", r.URL.Path)
		assert.NoError(t, r.ParseForm())
		assert.Equal(t, "brand-7", r.PostForm.Get("brand_id"))
		_, _ = w.Write([]byte(`{"status": true, "data": {"web_theme": "{\"header\": {\"ticker\": {\"ticker_on_off\": 1}}}"}}`))
	})

	doc, err := client.FetchRawSettings(context.Background(), "brand-7")
	require.NoError(t, err)

	ticker := doc["header"].(map[string]any)["ticker"].(map[string]any)
	assert.Equal(t, json.Number("1"), ticker["ticker_on_off"])
}

func TestFetchRawSettingsAcceptsEmbeddedObject(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`{"web_theme": {"footer": {"text": "hi"}}}`))
	})

	doc, err := client.FetchRawSettings(context.Background(), "brand-7")
	require.NoError(t, err)
	assert.Contains(t, doc, "footer")
}

func TestFetchRawSettingsEmptyThemeIsEmpty(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`{"data": [{"web_theme": ""}]}`))
	})

	doc, err := client.FetchRawSettings(context.Background(), "brand-7")
	require.NoError(t, err)
	assert.Empty(t, doc)
}

func TestFetchRawSettingsMissingThemeIsMalformed(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`{"status": false, "message": "brand not found"}`))
	})

	doc, err := client.FetchRawSettings(context.Background(), "brand-7")
	require.Error(t, err)
	assert.Nil(t, doc)
	assert.ErrorIs(t, err, ErrMalformedPayload)
	assert.Equal(t, pkgerrors.CodeDependency, pkgerrors.As(err).Code())
}

func TestFetchRawSettingsMalformed(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`{"web_theme": "{not json"}`))
	})

	_, err := client.FetchRawSettings(context.Background(), "brand-7")
	require.Error(t, err)
	assert.True(t, errors.Is(err, ErrMalformedPayload))
	assert.Equal(t, pkgerrors.CodeDependency, pkgerrors.As(err).Code())
}

func TestRetriesRateLimitThenSucceeds(t *testing.T) {
	var calls atomic.Int32
	reg := prometheus.NewRegistry()
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		if calls.Add(1) < 3 {
			w.WriteHeader(http.StatusTooManyRequests)
			return
		}
		_, _ = w.Write([]byte(`{"web_theme": {}}`))
	}, WithMetrics(metrics.NewGatewayMetrics(reg)))

	_, err := client.FetchRawSettings(context.Background(), "brand-7")
	require.NoError(t, err)
	assert.Equal(t, int32(3), calls.Load())

	mfs, err := reg.Gather()
	require.NoError(t, err)
	var retries float64
	for _, mf := range mfs {
		if mf.GetName() == "theme_gateway_retries" {
			retries = mf.GetMetric()[0].GetCounter().GetValue()
		}
	}
	assert.Equal(t, float64(2), retries)
}

func TestRateLimitExhaustedReturnsRateLimitCode(t *testing.T) {
	var calls atomic.Int32
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		calls.Add(1)
		w.WriteHeader(http.StatusTooManyRequests)
		_, _ = w.Write([]byte("slow down"))
	})

	_, err := client.FetchRawSettings(context.Background(), "brand-7")
	require.Error(t, err)
	assert.Equal(t, int32(3), calls.Load())
	assert.Equal(t, pkgerrors.CodeRateLimit, pkgerrors.As(err).Code())

	var statusErr *StatusError
	require.True(t, errors.As(err, &statusErr))
	assert.Equal(t, http.StatusTooManyRequests, statusErr.StatusCode)
	assert.Equal(t, "slow down", statusErr.Preview)
}

func TestServerErrorIsNotRetried(t *testing.T) {
	var calls atomic.Int32
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		calls.Add(1)
		w.WriteHeader(http.StatusInternalServerError)
		_, _ = w.Write([]byte(strings.Repeat("x", 500)))
	})

	err := client.SaveRawSettings(context.Background(), "brand-7", "user-1", map[string]any{})
	require.Error(t, err)
	assert.Equal(t, int32(1), calls.Load())
	assert.Equal(t, pkgerrors.CodeDependency, pkgerrors.As(err).Code())

	var statusErr *StatusError
	require.True(t, errors.As(err, &statusErr))
	assert.Len(t, statusErr.Preview, previewLimit)
}

func TestSaveRawSettingsAcceptsNonJSONSuccess(t *testing.T) {
	var form url.Values
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/api/saveRestaurantSettings", r.URL.Path)
		assert.NoError(t, r.ParseForm())
		form = r.PostForm
		_, _ = w.Write([]byte("OK"))
	})

	err := client.SaveRawSettings(context.Background(), "brand-7", "user-1", map[string]any{"header": map[string]any{}})
	require.NoError(t, err)
	assert.ElementsMatch(t, []string{"brand_id", "user_id", "data"}, formKeys(form))
	assert.Equal(t, "brand-7", form.Get("brand_id"))
	assert.Equal(t, "user-1", form.Get("user_id"))
	assert.JSONEq(t, `{"header": {}}`, form.Get("data"))
}

func TestSaveHeaderSettingsPostsHeaderOnly(t *testing.T) {
	var form url.Values
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/api/save_header_settings", r.URL.Path)
		assert.NoError(t, r.ParseForm())
		form = r.PostForm
		_, _ = w.Write([]byte(`{"message": "saved"}`))
	})

	err := client.SaveHeaderSettings(context.Background(), "brand-7", map[string]any{"ticker": map[string]any{"ticker_on_off": "1"}})
	require.NoError(t, err)
	assert.ElementsMatch(t, []string{"brand_id", "header_settings"}, formKeys(form))
	assert.Equal(t, "brand-7", form.Get("brand_id"))
	assert.JSONEq(t, `{"ticker": {"ticker_on_off": "1"}}`, form.Get("header_settings"))
}

func formKeys(form url.Values) []string {
	keys := make([]string, 0, len(form))
	for key := range form {
		keys = append(keys, key)
	}
	return keys
}

func TestListBrandsBareArray(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/api/getBrandName", r.URL.Path)
		_, _ = w.Write([]byte(`[{"brand_id": "1", "name": "Pizza"}, {"brand_id": 2, "name": "Tacos"}]`))
	})

	brands, err := client.ListBrands(context.Background())
	require.NoError(t, err)
	assert.Equal(t, []Brand{{ID: "1", Name: "Pizza"}, {ID: "2", Name: "Tacos"}}, brands)
}

func TestListBrandsRejectsScalar(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`"nope"`))
	})

	_, err := client.ListBrands(context.Background())
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrMalformedPayload)
}

func TestListBrandsDataEnvelope(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`{"data": [{"brand_id": 3, "brand_name": "Pizza Place"}, {"id": "b-2", "name": "Tacos"}, {"name": "no id"}]}`))
	})

	brands, err := client.ListBrands(context.Background())
	require.NoError(t, err)
	assert.Equal(t, []Brand{{ID: "3", Name: "Pizza Place"}, {ID: "b-2", Name: "Tacos"}}, brands)
}

func TestCanceledContextStopsRetries(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusTooManyRequests)
	}, WithPolicy(Policy{MaxAttempts: 5, BaseDelay: time.Hour, Multiplier: 1, Retryable: RetryOnRateLimit}))

	ctx, cancel := context.WithTimeout(context.Background(), 50*time.Millisecond)
	defer cancel()

	_, err := client.FetchRawSettings(ctx, "brand-7")
	require.Error(t, err)
	assert.ErrorIs(t, err, context.DeadlineExceeded)
}

func TestStatusErrorReportsUpstream(t *testing.T) {
	err := error(&StatusError{Endpoint: "get_obw_settings", StatusCode: 500, Preview: "oops"})
	d := pkgerrors.Dump(classify("get_obw_settings", err))
	assert.Equal(t, "get_obw_settings", d.UpstreamEndpoint)
	assert.Equal(t, 500, d.UpstreamStatus)
	assert.Equal(t, "oops", d.UpstreamPreview)
	assert.Equal(t, pkgerrors.CodeDependency, d.Code)
}
