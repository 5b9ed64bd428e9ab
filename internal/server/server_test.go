package server

import (
	"bytes"
	"context"
	"encoding/csv"
	"encoding/json"
	"errors"
	"math"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/google/uuid"
	"github.com/iwvelando/peso-dashboard/pkg/constants"
	"github.com/iwvelando/peso-dashboard/pkg/datetime"
	"github.com/iwvelando/peso-dashboard/pkg/series"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/xuri/excelize/v2"
	"go.uber.org/zap"
)

type fakeStore struct {
	snap        *series.Snapshot
	err         error
	invalidated int
}

func (s *fakeStore) Get(context.Context) (*series.Snapshot, error) {
	if s.err != nil {
		return nil, s.err
	}
	return s.snap, nil
}

func (s *fakeStore) Invalidate() { s.invalidated++ }

func testSnapshot() *series.Snapshot {
	d := datetime.MustParseDate
	return &series.Snapshot{
		ID: uuid.New(),
		Primary: []series.PriceObservation{
			{Date: d("2020-02-28"), Value: 3500, Category: constants.CategoryPrice},
			{Date: d("2020-03-13"), Value: 4012.5, Category: constants.CategoryPrice},
			{Date: d("2020-03-14"), Value: 4012.5, EventLabel: "Devaluación - March 14, 2020", Category: constants.CategoryEvent},
			{Date: d("2020-03-15"), Value: math.NaN(), EventLabel: "Cuarentena - March 15, 2020", Category: constants.CategoryEvent},
			{Date: d("2020-03-16"), Value: 4100, Category: constants.CategoryPrice},
			{Date: d("2020-04-01"), Value: 4050, Category: constants.CategoryPrice},
		},
		Auxiliary: map[string]series.AuxiliarySeries{
			"wti_oil": {
				ID: "wti_oil", Label: "WTI oil", Unit: "USD", Axis: "y3", Color: "#fcba03",
				Points: []series.Point{
					{Date: d("2020-03-13"), Value: 31.7},
					{Date: d("2020-03-16"), Value: math.NaN()},
					{Date: d("2020-05-01"), Value: 19.8},
				},
			},
			"fed_rate": {ID: "fed_rate", Label: "Tasa Interés FED", Unit: "%", Axis: "y2"},
		},
		Order: []string{"fed_rate", "wti_oil"},
	}
}

func newTestHandler(store Store) http.Handler {
	return NewHandler(zap.NewNop(), store, Options{
		Version:     "1.2.3",
		MaxOverlays: 2,
		Gatherer:    prometheus.NewRegistry(),
	})
}

func doRequest(t *testing.T, h http.Handler, method, target string) *httptest.ResponseRecorder {
	t.Helper()
	req := httptest.NewRequest(method, target, nil)
	rr := httptest.NewRecorder()
	h.ServeHTTP(rr, req)
	return rr
}

func TestHandleSeriesSuccess(t *testing.T) {
	h := newTestHandler(&fakeStore{snap: testSnapshot()})

	rr := doRequest(t, h, http.MethodGet, "/api/series?start=2020-03-01&end=2020-03-31&overlay=wti_oil")
	if rr.Code != http.StatusOK {
		t.Fatalf("expected status 200, got %d: %s", rr.Code, rr.Body.String())
	}

	var resp seriesResponse
	if err := json.Unmarshal(rr.Body.Bytes(), &resp); err != nil {
		t.Fatalf("failed to decode response: %v", err)
	}

	if len(resp.Primary) != 4 {
		t.Fatalf("expected 4 primary rows in range, got %d", len(resp.Primary))
	}
	if resp.Primary[2].Value != nil {
		t.Fatalf("expected absent value to encode as null, got %v", *resp.Primary[2].Value)
	}
	if len(resp.Markers) != 1 || resp.Markers[0].EventLabel != "Devaluación - March 14, 2020" {
		t.Fatalf("expected one marker with a value, got %+v", resp.Markers)
	}
	if len(resp.Overlays) != 1 || resp.Overlays[0].ID != "wti_oil" {
		t.Fatalf("expected the selected overlay, got %+v", resp.Overlays)
	}
	if len(resp.Overlays[0].Points) != 2 {
		t.Fatalf("expected overlay points filtered to the range, got %d", len(resp.Overlays[0].Points))
	}
	if resp.Overlays[0].Points[1].Value != nil {
		t.Fatal("expected absent overlay point to encode as null")
	}
	if len(resp.MonthTicks) != 1 || resp.MonthTicks[0] != datetime.MustParseDate("2020-03-01") {
		t.Fatalf("unexpected month ticks %v", resp.MonthTicks)
	}
	if resp.Range == nil || resp.Range.Min != 4012.5 || resp.Range.Max != 4100 {
		t.Fatalf("unexpected range %+v", resp.Range)
	}
	if resp.Start != datetime.MustParseDate("2020-03-01") || resp.End != datetime.MustParseDate("2020-03-31") {
		t.Fatalf("unexpected range bounds %s..%s", resp.Start, resp.End)
	}
}

func TestHandleSeriesDefaultRange(t *testing.T) {
	h := newTestHandler(&fakeStore{snap: testSnapshot()})

	rr := doRequest(t, h, http.MethodGet, "/api/series")
	if rr.Code != http.StatusOK {
		t.Fatalf("expected status 200, got %d: %s", rr.Code, rr.Body.String())
	}
	var resp seriesResponse
	if err := json.Unmarshal(rr.Body.Bytes(), &resp); err != nil {
		t.Fatalf("failed to decode response: %v", err)
	}
	if resp.Start.String() != constants.DefaultViewStart || resp.End.String() != constants.DefaultViewEnd {
		t.Fatalf("expected default view, got %s..%s", resp.Start, resp.End)
	}
	if len(resp.Primary) != 6 {
		t.Fatalf("expected all rows, got %d", len(resp.Primary))
	}
	if len(resp.Overlays) != 0 {
		t.Fatalf("expected no overlays, got %d", len(resp.Overlays))
	}
}

func TestHandleSeriesBadRequests(t *testing.T) {
	h := newTestHandler(&fakeStore{snap: testSnapshot()})

	tests := map[string]string{
		"unknown overlay":   "/api/series?overlay=gold",
		"malformed start":   "/api/series?start=2020-13-01",
		"malformed end":     "/api/series?end=yesterday",
		"reversed range":    "/api/series?start=2020-04-01&end=2020-03-01",
		"too many overlays": "/api/series?overlay=wti_oil,fed_rate,wti_oil",
	}

	for name, target := range tests {
		t.Run(name, func(t *testing.T) {
			rr := doRequest(t, h, http.MethodGet, target)
			if rr.Code != http.StatusBadRequest {
				t.Fatalf("expected status 400, got %d: %s", rr.Code, rr.Body.String())
			}
			var resp errorResponse
			if err := json.Unmarshal(rr.Body.Bytes(), &resp); err != nil {
				t.Fatalf("failed to decode error: %v", err)
			}
			if resp.Error == "" {
				t.Fatal("expected an error message")
			}
		})
	}
}

func TestHandleSeriesLoadFailure(t *testing.T) {
	h := newTestHandler(&fakeStore{err: errors.New("USD_COP.csv: row 4: bad number")})

	rr := doRequest(t, h, http.MethodGet, "/api/series")
	if rr.Code != http.StatusServiceUnavailable {
		t.Fatalf("expected status 503, got %d", rr.Code)
	}
	body := rr.Body.String()
	if !strings.Contains(body, "bad number") {
		t.Fatalf("expected the load error in the body, got %s", body)
	}
	if strings.Contains(body, "primary") {
		t.Fatalf("expected no partial data, got %s", body)
	}
}

func TestHandleOverlays(t *testing.T) {
	h := newTestHandler(&fakeStore{snap: testSnapshot()})

	rr := doRequest(t, h, http.MethodGet, "/api/overlays")
	if rr.Code != http.StatusOK {
		t.Fatalf("expected status 200, got %d", rr.Code)
	}
	var resp []overlayJSON
	if err := json.Unmarshal(rr.Body.Bytes(), &resp); err != nil {
		t.Fatalf("failed to decode response: %v", err)
	}
	if len(resp) != 2 || resp[0].ID != "fed_rate" || resp[1].ID != "wti_oil" {
		t.Fatalf("expected overlays in configuration order, got %+v", resp)
	}
	if resp[1].Points != nil {
		t.Fatal("expected overlay listing without points")
	}
}

func TestHandleExportCSV(t *testing.T) {
	h := newTestHandler(&fakeStore{snap: testSnapshot()})

	rr := doRequest(t, h, http.MethodGet, "/api/export?start=2020-03-01&end=2020-03-31")
	if rr.Code != http.StatusOK {
		t.Fatalf("expected status 200, got %d: %s", rr.Code, rr.Body.String())
	}
	if got := rr.Header().Get("Content-Type"); !strings.HasPrefix(got, "text/csv") {
		t.Fatalf("unexpected content type %q", got)
	}
	if got := rr.Header().Get("Content-Disposition"); !strings.Contains(got, "usd-cop_2020-03-01_2020-03-31.csv") {
		t.Fatalf("unexpected content disposition %q", got)
	}

	records, err := csv.NewReader(bytes.NewReader(rr.Body.Bytes())).ReadAll()
	if err != nil {
		t.Fatalf("failed to parse CSV: %v", err)
	}
	if len(records) < 2 {
		t.Fatalf("expected header and rows, got %d records", len(records))
	}
	if records[0][0] != "date" {
		t.Fatalf("unexpected header %v", records[0])
	}
}

func TestHandleExportXLSX(t *testing.T) {
	h := newTestHandler(&fakeStore{snap: testSnapshot()})

	rr := doRequest(t, h, http.MethodGet, "/api/export?format=xlsx")
	if rr.Code != http.StatusOK {
		t.Fatalf("expected status 200, got %d: %s", rr.Code, rr.Body.String())
	}
	if got := rr.Header().Get("Content-Type"); got != xlsxContentType {
		t.Fatalf("unexpected content type %q", got)
	}

	f, err := excelize.OpenReader(bytes.NewReader(rr.Body.Bytes()))
	if err != nil {
		t.Fatalf("failed to open workbook: %v", err)
	}
	defer func() { _ = f.Close() }()
	if len(f.GetSheetList()) == 0 {
		t.Fatal("expected at least one sheet")
	}
}

func TestHandleExportUnknownFormat(t *testing.T) {
	h := newTestHandler(&fakeStore{snap: testSnapshot()})

	rr := doRequest(t, h, http.MethodGet, "/api/export?format=pdf")
	if rr.Code != http.StatusBadRequest {
		t.Fatalf("expected status 400, got %d", rr.Code)
	}
}

func TestHandleInvalidate(t *testing.T) {
	store := &fakeStore{snap: testSnapshot()}
	h := newTestHandler(store)

	rr := doRequest(t, h, http.MethodPost, "/api/cache/invalidate")
	if rr.Code != http.StatusAccepted {
		t.Fatalf("expected status 202, got %d", rr.Code)
	}
	if store.invalidated != 1 {
		t.Fatalf("expected one invalidation, got %d", store.invalidated)
	}

	rr = doRequest(t, h, http.MethodGet, "/api/cache/invalidate")
	if rr.Code != http.StatusMethodNotAllowed {
		t.Fatalf("expected status 405 for GET, got %d", rr.Code)
	}
}

func TestHandleInvalidateRateLimited(t *testing.T) {
	store := &fakeStore{snap: testSnapshot()}
	h := NewHandler(zap.NewNop(), store, Options{
		Gatherer:        prometheus.NewRegistry(),
		InvalidateRate:  0.001,
		InvalidateBurst: 1,
	})

	if rr := doRequest(t, h, http.MethodPost, "/api/cache/invalidate"); rr.Code != http.StatusAccepted {
		t.Fatalf("expected status 202, got %d", rr.Code)
	}

	rr := doRequest(t, h, http.MethodPost, "/api/cache/invalidate")
	if rr.Code != http.StatusTooManyRequests {
		t.Fatalf("expected status 429, got %d", rr.Code)
	}
	if rr.Header().Get("Retry-After") == "" {
		t.Fatal("expected a Retry-After header")
	}
	if store.invalidated != 1 {
		t.Fatalf("expected the throttled request to skip invalidation, got %d", store.invalidated)
	}
}

func TestHandleVersion(t *testing.T) {
	h := newTestHandler(&fakeStore{})

	rr := doRequest(t, h, http.MethodGet, "/api/version")
	if rr.Code != http.StatusOK {
		t.Fatalf("expected status 200, got %d", rr.Code)
	}
	var resp map[string]string
	if err := json.Unmarshal(rr.Body.Bytes(), &resp); err != nil {
		t.Fatalf("failed to decode response: %v", err)
	}
	if resp["version"] != "1.2.3" {
		t.Fatalf("expected version 1.2.3, got %q", resp["version"])
	}
}

func TestVersionDefaultsToDev(t *testing.T) {
	h := NewHandler(nil, &fakeStore{}, Options{Version: "  ", Gatherer: prometheus.NewRegistry()})

	rr := doRequest(t, h, http.MethodGet, "/api/version")
	if !strings.Contains(rr.Body.String(), `"dev"`) {
		t.Fatalf("expected dev version, got %s", rr.Body.String())
	}
}

func TestMetricsEndpoint(t *testing.T) {
	reg := prometheus.NewRegistry()
	counter := prometheus.NewCounter(prometheus.CounterOpts{Name: "peso_test_total", Help: "test"})
	reg.MustRegister(counter)
	counter.Inc()

	h := NewHandler(zap.NewNop(), &fakeStore{}, Options{Gatherer: reg})
	rr := doRequest(t, h, http.MethodGet, "/metrics")
	if rr.Code != http.StatusOK {
		t.Fatalf("expected status 200, got %d", rr.Code)
	}
	if !strings.Contains(rr.Body.String(), "peso_test_total 1") {
		t.Fatalf("expected registered metric in output, got %s", rr.Body.String())
	}
}

func TestStaticIndex(t *testing.T) {
	h := newTestHandler(&fakeStore{})

	rr := doRequest(t, h, http.MethodGet, "/")
	if rr.Code != http.StatusOK {
		t.Fatalf("expected status 200, got %d", rr.Code)
	}
	if !strings.Contains(rr.Body.String(), "Peso Colombiano") {
		t.Fatal("expected the dashboard page")
	}
}
