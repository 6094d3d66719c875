package httpapi

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/aleister1102/zoneshift/internal/cache"
	"github.com/aleister1102/zoneshift/internal/catalog"
	"github.com/aleister1102/zoneshift/internal/common/timeutils"
	"github.com/aleister1102/zoneshift/internal/metrics"
	"github.com/aleister1102/zoneshift/internal/timezone"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var testSession = SessionConfig{Header: "X-Timezone", Cookie: "timezone", LocaleHeader: "Accept-Language"}

type fixture struct {
	router  http.Handler
	holder  *timezone.Holder
	metrics *metrics.Metrics
}

func newFixture(t *testing.T, withCatalog bool, opts ...Option) fixture {
	t.Helper()
	clock := timeutils.FixedClock{At: time.Date(2018, time.July, 25, 12, 0, 0, 0, time.UTC)}

	engineOpts := timezone.Options{
		StorageTimezone: "UTC",
		DisplayTimezone: "Europe/London",
		Clock:           clock,
		Logger:          zerolog.Nop(),
	}
	if withCatalog {
		engineOpts.Catalog = catalog.New(catalog.Options{
			Source: catalog.StaticZones{"Europe/London", "America/New_York", "UTC"},
			Store:  cache.NewMemoryStore(clock),
			Clock:  clock,
			Logger: zerolog.Nop(),
		})
	}
	engine, err := timezone.New(engineOpts)
	require.NoError(t, err)

	reg := prometheus.NewRegistry()
	m := metrics.New(reg)
	holder := timezone.NewHolder(engine)
	h := New(holder, zerolog.Nop(), append([]Option{WithMetrics(m)}, opts...)...)
	return fixture{router: NewRouter(h, testSession, reg), holder: holder, metrics: m}
}

func do(t *testing.T, router http.Handler, method, path, body string, headers map[string]string) *httptest.ResponseRecorder {
	t.Helper()
	req := httptest.NewRequest(method, path, strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	for k, v := range headers {
		req.Header.Set(k, v)
	}
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)
	return rec
}

func decodeBody[T any](t *testing.T, rec *httptest.ResponseRecorder) T {
	t.Helper()
	var v T
	require.NoError(t, json.NewDecoder(rec.Body).Decode(&v))
	return v
}

func TestConvertToStorage(t *testing.T) {
	f := newFixture(t, false)

	rec := do(t, f.router, http.MethodPost, "/convert/to-storage", `{"value": "2018-07-25 14:00:00"}`, nil)
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())

	resp := decodeBody[ConvertResponse](t, rec)
	assert.Equal(t, "2018-07-25 13:00:00", resp.Value)
	assert.Equal(t, "UTC", resp.Timezone)
	assert.Equal(t, "2018-07-25T13:00:00Z", resp.Instant)
	assert.Equal(t, 1.0, testutil.ToFloat64(f.metrics.Conversions.WithLabelValues("to_storage", metrics.OutcomeOK)))
}

func TestConvertFromStorage(t *testing.T) {
	f := newFixture(t, false)

	tests := []struct {
		name    string
		body    string
		headers map[string]string
		want    string
	}{
		{name: "display timezone", body: `{"value": "2018-07-25 13:00:00"}`, want: "2018-07-25 14:00:00"},
		{name: "explicit timezone", body: `{"value": "2018-07-25 13:00:00", "timezone": "Asia/Tokyo"}`, want: "2018-07-25 22:00:00"},
		{name: "session header", body: `{"value": "2018-07-25 13:00:00"}`, headers: map[string]string{"X-Timezone": "America/New_York"}, want: "2018-07-25 09:00:00"},
		{name: "session cookie", body: `{"value": "2018-07-25 13:00:00"}`, headers: map[string]string{"Cookie": "timezone=America/New_York"}, want: "2018-07-25 09:00:00"},
		{name: "epoch", body: `{"value": 1532523600}`, want: "2018-07-25 14:00:00"},
		{name: "date stays in storage", body: `{"value": "2018-07-25", "format": "dd/MM/yyyy"}`, want: "25/07/2018"},
		{name: "paired format", body: `{"value": "2018-07-25 13:00:00", "format": ["EEEE d MMMM yyyy HH:mm", "nl"]}`, want: "woensdag 25 juli 2018 14:00"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := do(t, f.router, http.MethodPost, "/convert/from-storage", tt.body, tt.headers)
			require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
			assert.Equal(t, tt.want, decodeBody[ConvertResponse](t, rec).Value)
		})
	}
}

func TestConvert_SessionLocale(t *testing.T) {
	body := `{"value": "2018-07-25 13:00:00", "format": "d MMMM yyyy"}`
	headers := map[string]string{"Accept-Language": "nl-NL,nl;q=0.9,en;q=0.5"}

	off := newFixture(t, false)
	rec := do(t, off.router, http.MethodPost, "/convert/from-storage", body, headers)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "25 July 2018", decodeBody[ConvertResponse](t, rec).Value)

	on := newFixture(t, false, WithSessionLocale(true))
	rec = do(t, on.router, http.MethodPost, "/convert/from-storage", body, headers)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "25 juli 2018", decodeBody[ConvertResponse](t, rec).Value)
}

func TestConvert_Errors(t *testing.T) {
	f := newFixture(t, false)

	tests := []struct {
		name    string
		path    string
		body    string
		headers map[string]string
		status  int
		code    string
	}{
		{name: "unparseable", path: "/convert/to-storage", body: `{"value": "yesterday"}`, status: http.StatusUnprocessableEntity, code: CodeParseError},
		{name: "fractional epoch", path: "/convert/to-storage", body: `{"value": 1.5}`, status: http.StatusBadRequest, code: CodeInvalidArgument},
		{name: "missing value", path: "/convert/to-storage", body: `{}`, status: http.StatusBadRequest, code: CodeBadRequest},
		{name: "malformed json", path: "/convert/to-storage", body: `{"value":`, status: http.StatusBadRequest, code: CodeBadRequest},
		{name: "unknown field", path: "/convert/to-storage", body: `{"value": "x", "zone": "UTC"}`, status: http.StatusBadRequest, code: CodeBadRequest},
		{name: "bad pair", path: "/convert/from-storage", body: `{"value": "2018-07-25 13:00:00", "format": ["a"]}`, status: http.StatusBadRequest, code: CodeBadRequest},
		{name: "unknown timezone", path: "/convert/from-storage", body: `{"value": "2018-07-25 13:00:00", "timezone": "Mars/Olympus"}`, status: http.StatusBadRequest, code: CodeUnknownTimezone},
		{name: "bad session timezone", path: "/convert/from-storage", body: `{"value": "2018-07-25 13:00:00"}`, headers: map[string]string{"X-Timezone": "Nowhere"}, status: http.StatusBadRequest, code: CodeInvalidArgument},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := do(t, f.router, http.MethodPost, tt.path, tt.body, tt.headers)
			assert.Equal(t, tt.status, rec.Code, rec.Body.String())
			assert.Equal(t, tt.code, decodeBody[errorResponse](t, rec).Error)
		})
	}
}

func TestCollection(t *testing.T) {
	f := newFixture(t, false)
	body := `{
		"records": [
			{"id": 1, "name": "first", "datetime": "2018-07-25 14:00:00"},
			{"id": 2, "name": "second", "datetime": "2018-12-25 09:30:00"}
		],
		"fields": ["datetime"]
	}`

	rec := do(t, f.router, http.MethodPost, "/convert/collection/to-storage", body, nil)
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())

	var resp struct {
		Records   []map[string]any `json:"records"`
		Converted int              `json:"converted"`
	}
	require.NoError(t, json.NewDecoder(rec.Body).Decode(&resp))
	assert.Equal(t, 2, resp.Converted)
	assert.Equal(t, "2018-07-25 13:00:00", resp.Records[0]["datetime"])
	assert.Equal(t, "2018-12-25 09:30:00", resp.Records[1]["datetime"])
	assert.Equal(t, "first", resp.Records[0]["name"])
	assert.Equal(t, 2.0, testutil.ToFloat64(f.metrics.FieldConversions.WithLabelValues("to_storage", metrics.OutcomeOK)))
}

func TestCollection_PartialAndErrors(t *testing.T) {
	f := newFixture(t, false)
	body := `{
		"records": [
			{"id": 1, "datetime": "garbage"},
			{"id": 2, "datetime": "2018-07-25 14:00:00"}
		],
		"fields": ["datetime"],
		"partial": true
	}`

	rec := do(t, f.router, http.MethodPost, "/convert/collection/to_storage", body, nil)
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	resp := decodeBody[struct {
		Converted int                 `json:"converted"`
		Failures  []CollectionFailure `json:"failures"`
	}](t, rec)
	assert.Equal(t, 1, resp.Converted)
	require.Len(t, resp.Failures, 1)
	assert.Equal(t, 0, resp.Failures[0].Index)
	assert.Equal(t, "datetime", resp.Failures[0].Field)

	failFast := strings.Replace(body, `"partial": true`, `"partial": false`, 1)
	rec = do(t, f.router, http.MethodPost, "/convert/collection/to-storage", failFast, nil)
	assert.Equal(t, http.StatusUnprocessableEntity, rec.Code)

	rec = do(t, f.router, http.MethodPost, "/convert/collection/sideways", body, nil)
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	rec = do(t, f.router, http.MethodPost, "/convert/collection/to-storage", `{"records": []}`, nil)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Equal(t, CodeInvalidArgument, decodeBody[errorResponse](t, rec).Error)
}

func TestClassify(t *testing.T) {
	f := newFixture(t, false)

	tests := []struct {
		value string
		shape string
	}{
		{"2018-07-25 14:00:00", "timestamp"},
		{"14:00:00", "time"},
		{"2018-07-25", "date"},
		{"hello", "unrecognized"},
	}
	for _, tt := range tests {
		t.Run(tt.value, func(t *testing.T) {
			body, _ := json.Marshal(ClassifyRequest{Value: tt.value})
			rec := do(t, f.router, http.MethodPost, "/classify", string(body), nil)
			require.Equal(t, http.StatusOK, rec.Code)
			assert.Equal(t, tt.shape, decodeBody[ClassifyResponse](t, rec).Shape)
		})
	}
}

func TestTimezones(t *testing.T) {
	f := newFixture(t, true)

	rec := do(t, f.router, http.MethodGet, "/timezones", "", nil)
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	entries := decodeBody[[]catalog.Entry](t, rec)
	require.Len(t, entries, 3)
	assert.Equal(t, "America/New_York", entries[0].ID)
	assert.Equal(t, "(GMT-04:00) America, New York", entries[0].Label)

	none := newFixture(t, false)
	rec = do(t, none.router, http.MethodGet, "/timezones", "", nil)
	assert.Equal(t, http.StatusServiceUnavailable, rec.Code)
}

func TestCurrentTimezone(t *testing.T) {
	f := newFixture(t, false)

	rec := do(t, f.router, http.MethodGet, "/timezone/current", "", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "Europe/London", decodeBody[CurrentTimezoneResponse](t, rec).Timezone)

	rec = do(t, f.router, http.MethodGet, "/timezone/current", "", map[string]string{"X-Timezone": "Asia/Tokyo"})
	require.Equal(t, http.StatusOK, rec.Code)
	resp := decodeBody[CurrentTimezoneResponse](t, rec)
	assert.Equal(t, "Asia/Tokyo", resp.Timezone)
	assert.Equal(t, "UTC", resp.StorageTimezone)
}

func TestCurrentTimezone_FollowsHolder(t *testing.T) {
	f := newFixture(t, false)
	swapped, err := timezone.New(timezone.Options{StorageTimezone: "UTC", DisplayTimezone: "Australia/Sydney", Logger: zerolog.Nop()})
	require.NoError(t, err)
	f.holder.Store(swapped)

	rec := do(t, f.router, http.MethodGet, "/timezone/current", "", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "Australia/Sydney", decodeBody[CurrentTimezoneResponse](t, rec).Timezone)
}

func TestPresent(t *testing.T) {
	f := newFixture(t, false)
	record := `{"id": 1, "timestamp": "2018-07-25 13:00:00"}`

	display := `{"record": ` + record + `, "bindings": {"timestamp": ["EEEE d MMMM yyyy HH:mm:ss", "nl"]}, "field": "timestamp"}`
	rec := do(t, f.router, http.MethodPost, "/present", display, nil)
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	assert.Equal(t, "woensdag 25 juli 2018 14:00:00", decodeBody[PresentResponse](t, rec).Value)

	assign := `{"record": ` + record + `, "bindings": {"timestamp": null}, "field": "timestamp", "assign": "2018-07-25 16:30:00"}`
	rec = do(t, f.router, http.MethodPost, "/present", assign, nil)
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	var resp struct {
		Record map[string]any `json:"record"`
	}
	require.NoError(t, json.NewDecoder(rec.Body).Decode(&resp))
	assert.Equal(t, "2018-07-25 15:30:00", resp.Record["timestamp"])

	unknown := `{"record": ` + record + `, "bindings": {}, "field": "timestamp"}`
	rec = do(t, f.router, http.MethodPost, "/present", unknown, nil)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Equal(t, CodeUnknownField, decodeBody[errorResponse](t, rec).Error)
}

func TestMetricsEndpoint(t *testing.T) {
	f := newFixture(t, false)
	do(t, f.router, http.MethodPost, "/convert/to-storage", `{"value": "2018-07-25 14:00:00"}`, nil)

	rec := do(t, f.router, http.MethodGet, "/metrics", "", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.True(t, bytes.Contains(rec.Body.Bytes(), []byte("zoneshift_conversions_total")))
}
