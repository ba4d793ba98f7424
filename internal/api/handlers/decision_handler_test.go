package handlers

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/martinalejandrohakanson29-art/ml-dashboard-lite-backend/internal/replenish"
	"github.com/martinalejandrohakanson29-art/ml-dashboard-lite-backend/internal/service"
)

type stubSource struct {
	stock  []replenish.Record
	visits []replenish.Record
	sales  []replenish.Record
	err    error
}

func (s *stubSource) StockRecords(ctx context.Context) ([]replenish.Record, error) {
	if s.err != nil {
		return nil, s.err
	}
	return s.stock, nil
}

func (s *stubSource) VisitRecords(ctx context.Context, w replenish.Window) ([]replenish.Record, error) {
	if s.err != nil {
		return nil, s.err
	}
	return s.visits, nil
}

func (s *stubSource) SaleRecords(ctx context.Context) ([]replenish.Record, error) {
	if s.err != nil {
		return nil, s.err
	}
	return s.sales, nil
}

func decisionTestRouter(source replenish.RecordSource) *gin.Engine {
	gin.SetMode(gin.TestMode)
	svc := service.NewDecisionService(replenish.NewEngine(source), nil)
	handler := NewDecisionHandler(svc, replenish.DefaultParams())

	router := gin.New()
	router.GET("/decisions", handler.GetDecisions)
	router.GET("/decisions/diagnostics", handler.GetDiagnostics)
	router.GET("/decisions/items/:item_id", handler.ProbeItem)
	return router
}

func fixtureRouter() *gin.Engine {
	today := time.Now().Format("2006-01-02")
	return decisionTestRouter(&stubSource{
		stock:  []replenish.Record{{"item_id": "MLA1", "total": 10, "title": "Gadget"}},
		visits: []replenish.Record{{"item_id": "MLA1", "date": today, "visits": 20}},
		sales:  []replenish.Record{{"item_id": "MLA1", "date": today, "quantity": 2}},
	})
}

func doRequest(router *gin.Engine, path string) (*httptest.ResponseRecorder, map[string]json.RawMessage) {
	req := httptest.NewRequest(http.MethodGet, path, nil)
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	var body map[string]json.RawMessage
	_ = json.Unmarshal(rec.Body.Bytes(), &body)
	return rec, body
}

func TestGetDecisions(t *testing.T) {
	rec, body := doRequest(fixtureRouter(), "/decisions")

	require.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, "true", string(body["ok"]))
	assert.JSONEq(t, "1", string(body["count"]))

	var items []replenish.Decision
	require.NoError(t, json.Unmarshal(body["items"], &items))
	require.Len(t, items, 1)
	assert.Equal(t, "MLA1", items[0].ItemID)
	assert.Equal(t, "Gadget", items[0].Title)
}

func TestGetDecisionsParamOverrides(t *testing.T) {
	rec, body := doRequest(fixtureRouter(), "/decisions?window=14&lead_time=3")

	require.Equal(t, http.StatusOK, rec.Code)

	var params replenish.Params
	require.NoError(t, json.Unmarshal(body["params"], &params))
	assert.Equal(t, 14, params.WindowDays)
	assert.Equal(t, 3, params.LeadTimeDays)
	assert.Equal(t, replenish.DefaultStorageDays, params.StorageDays)
}

func TestGetDecisionsMalformedParamsFallBack(t *testing.T) {
	rec, body := doRequest(fixtureRouter(), "/decisions?window=zero&lead_time=-4")

	require.Equal(t, http.StatusOK, rec.Code)

	var params replenish.Params
	require.NoError(t, json.Unmarshal(body["params"], &params))
	assert.Equal(t, replenish.DefaultWindowDays, params.WindowDays)
	assert.Equal(t, replenish.DefaultLeadTimeDays, params.LeadTimeDays)
}

func TestGetDecisionsSourceFailure(t *testing.T) {
	router := decisionTestRouter(&stubSource{err: errors.New("db down")})
	rec, body := doRequest(router, "/decisions")

	assert.Equal(t, http.StatusInternalServerError, rec.Code)
	assert.JSONEq(t, "false", string(body["ok"]))
}

func TestGetDiagnostics(t *testing.T) {
	rec, body := doRequest(fixtureRouter(), "/decisions/diagnostics")

	require.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, "true", string(body["ok"]))

	var report replenish.DiagnosticsReport
	require.NoError(t, json.Unmarshal(body["report"], &report))
	assert.Equal(t, 1, report.Stock.Rows)
	assert.Equal(t, 1, report.Overlap.All)
	assert.Equal(t, 1, report.ItemsOut)
}

func TestProbeItem(t *testing.T) {
	rec, body := doRequest(fixtureRouter(), "/decisions/items/mla1")

	require.Equal(t, http.StatusOK, rec.Code)

	var report replenish.ProbeReport
	require.NoError(t, json.Unmarshal(body["report"], &report))
	assert.Equal(t, "MLA1", report.ItemID)
	assert.Equal(t, float64(10), report.Stock)
	assert.False(t, report.Raw)
}

func TestProbeItemRaw(t *testing.T) {
	rec, body := doRequest(fixtureRouter(), "/decisions/items/mla1?raw=1")

	require.Equal(t, http.StatusOK, rec.Code)

	var report replenish.ProbeReport
	require.NoError(t, json.Unmarshal(body["report"], &report))
	assert.True(t, report.Raw)
}

func TestProbeItemBlankID(t *testing.T) {
	rec, body := doRequest(fixtureRouter(), "/decisions/items/%20%20")

	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.JSONEq(t, "false", string(body["ok"]))
}
