package ledgerapi

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/go-chi/chi/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/greenfleet/greenfleet/api"
	"github.com/greenfleet/greenfleet/core/ledger"
	"github.com/greenfleet/greenfleet/core/planner"
	"github.com/greenfleet/greenfleet/core/quota"
	"github.com/greenfleet/greenfleet/pkg/export"
)

func newRouter(t *testing.T, src quota.Source, exportLimit int) http.Handler {
	t.Helper()
	svc, err := planner.NewService(planner.Options{
		Optimizer:    planner.NewStaticOptimizer(0),
		StaticQuotas: planner.DemoQuotas,
		QuotaSource:  src,
	})
	require.NoError(t, err)
	r := chi.NewRouter()
	NewHandler(svc, exportLimit, nil).MountRoutes(r)
	return r
}

func do(t *testing.T, h http.Handler, method, path, body string) *httptest.ResponseRecorder {
	t.Helper()
	req := httptest.NewRequest(method, path, strings.NewReader(body))
	req.RemoteAddr = "192.0.2.1:1234"
	rr := httptest.NewRecorder()
	h.ServeHTTP(rr, req)
	return rr
}

func createRun(t *testing.T, h http.Handler, body string) RunResponse {
	t.Helper()
	rr := do(t, h, http.MethodPost, "/api/plan/runs", body)
	require.Equal(t, http.StatusCreated, rr.Code, rr.Body.String())
	var out RunResponse
	require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &out))
	assert.Equal(t, "/api/plan/runs/"+out.ID, rr.Header().Get("Location"))
	return out
}

func TestCreateRun_DefaultLimits(t *testing.T) {
	h := newRouter(t, quota.SourceStatic, 0)
	out := createRun(t, h, `{}`)

	assert.Equal(t, 5, out.Horizon)
	assert.Equal(t, quota.SourceStatic, out.QuotaSource)
	assert.False(t, out.QuotaMismatch)
	assert.Equal(t, planner.DemoQuotas, out.Quotas)
	require.Len(t, out.Report.Years, 5)
	assert.Equal(t, 3220.0, out.Report.Years[0].TotalEmissions)
	assert.Equal(t, "2420000", out.Report.Totals.TotalBudget.String())
	assert.Empty(t, out.OverQuotaYears)
	assert.Equal(t, "/api/plan/runs/"+out.ID+"/export.csv", out.Links.ExportCSV)
}

func TestCreateRun_EmptyBody(t *testing.T) {
	h := newRouter(t, quota.SourceStatic, 0)
	out := createRun(t, h, "")
	assert.Len(t, out.Report.Years, 5)
}

func TestCreateRun_StaticMismatchFlagged(t *testing.T) {
	h := newRouter(t, quota.SourceStatic, 0)
	out := createRun(t, h, `{"limits":["100,000","100,000","100,000","100,000","100,000"]}`)
	assert.True(t, out.QuotaMismatch)
	assert.Equal(t, []float64{100000, 100000, 100000, 100000, 100000}, out.EnteredLimits)
	assert.Equal(t, planner.DemoQuotas, out.Quotas)
}

func TestCreateRun_EnteredLimits(t *testing.T) {
	h := newRouter(t, quota.SourceEntered, 0)
	out := createRun(t, h, `{"limits":["3,000","4,000","4,000","4,000","4,000"]}`)
	assert.Equal(t, quota.SourceEntered, out.QuotaSource)
	assert.False(t, out.QuotaMismatch)
	assert.Equal(t, []int{1}, out.OverQuotaYears)
	assert.False(t, out.Report.Years[0].WithinQuota)
}

func TestCreateRun_InvalidLimit(t *testing.T) {
	h := newRouter(t, quota.SourceEntered, 0)
	rr := do(t, h, http.MethodPost, "/api/plan/runs", `{"limits":["1","2","-3","4","5"]}`)
	require.Equal(t, http.StatusBadRequest, rr.Code)
	var out api.ErrorResponse
	require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &out))
	require.NotNil(t, out.Index)
	assert.Equal(t, 2, *out.Index)
	assert.Contains(t, out.Error, "must not be negative")
}

func TestCreateRun_WrongLimitCount(t *testing.T) {
	h := newRouter(t, quota.SourceEntered, 0)
	rr := do(t, h, http.MethodPost, "/api/plan/runs", `{"limits":["1","2"]}`)
	assert.Equal(t, http.StatusBadRequest, rr.Code)
	assert.Contains(t, rr.Body.String(), "expected 5 limits, got 2")
}

func TestCreateRun_BadBody(t *testing.T) {
	h := newRouter(t, quota.SourceStatic, 0)
	assert.Equal(t, http.StatusBadRequest, do(t, h, http.MethodPost, "/api/plan/runs", `{"limits":`).Code)
	assert.Equal(t, http.StatusBadRequest, do(t, h, http.MethodPost, "/api/plan/runs", `{"quotas":[]}`).Code)
}

func TestGetRun(t *testing.T) {
	h := newRouter(t, quota.SourceStatic, 0)
	created := createRun(t, h, `{}`)

	rr := do(t, h, http.MethodGet, "/api/plan/runs/"+created.ID, "")
	require.Equal(t, http.StatusOK, rr.Code)
	var out RunResponse
	require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &out))
	assert.Equal(t, created.ID, out.ID)

	rr = do(t, h, http.MethodGet, "/api/plan/runs/unknown", "")
	assert.Equal(t, http.StatusNotFound, rr.Code)
}

func TestExportCSV(t *testing.T) {
	h := newRouter(t, quota.SourceStatic, 0)
	created := createRun(t, h, `{}`)

	rr := do(t, h, http.MethodGet, created.Links.ExportCSV, "")
	require.Equal(t, http.StatusOK, rr.Code)
	assert.Equal(t, "text/csv; charset=utf-8", rr.Header().Get("Content-Type"))
	assert.Contains(t, rr.Header().Get("Content-Disposition"), export.Filename)
	lines := strings.Split(strings.TrimSpace(rr.Body.String()), "\n")
	require.Len(t, lines, 26)
	assert.Equal(t, "Year,Action,Vehicle ID,Vehicle Type,Size,Cost (MYR),Carbon Emissions (kg CO2)", strings.TrimSpace(lines[0]))
	assert.True(t, strings.HasPrefix(lines[1], "1,Buy,"), lines[1])
}

func TestExportJSON(t *testing.T) {
	h := newRouter(t, quota.SourceStatic, 0)
	created := createRun(t, h, `{}`)

	rr := do(t, h, http.MethodGet, created.Links.ExportJSON, "")
	require.Equal(t, http.StatusOK, rr.Code)
	var rows []ledger.FlatRecord
	require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &rows))
	assert.Len(t, rows, 25)

	assert.Equal(t, http.StatusNotFound, do(t, h, http.MethodGet, "/api/plan/runs/nope/export.json", "").Code)
}

func TestExportRateLimited(t *testing.T) {
	h := newRouter(t, quota.SourceStatic, 1)
	created := createRun(t, h, `{}`)

	assert.Equal(t, http.StatusOK, do(t, h, http.MethodGet, created.Links.ExportCSV, "").Code)
	assert.Equal(t, http.StatusTooManyRequests, do(t, h, http.MethodGet, created.Links.ExportCSV, "").Code)
}

func TestHealthz(t *testing.T) {
	h := newRouter(t, quota.SourceStatic, 0)
	rr := do(t, h, http.MethodGet, "/healthz", "")
	assert.Equal(t, http.StatusOK, rr.Code)
	assert.JSONEq(t, `{"status":"ok"}`, rr.Body.String())
}
