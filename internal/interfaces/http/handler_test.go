package http

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	appquery "main/internal/application/service/query"
	market "main/internal/domain/entity/market"
	"main/internal/infrastructure/audit"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type stubGraph struct {
	history []market.PricePoint
}

func (s *stubGraph) GetPriceHistory(context.Context, string, int) ([]market.PricePoint, error) {
	return s.history, nil
}

func (s *stubGraph) GetPriceHistoryBetween(context.Context, string, time.Time, time.Time) ([]market.PricePoint, error) {
	return nil, nil
}

func (s *stubGraph) GetNewsSentiment(context.Context, string, int) ([]market.NewsItem, error) {
	return nil, nil
}

func (s *stubGraph) GetSupplyChain(context.Context, string) ([]market.Supplier, error) {
	return nil, nil
}

func (s *stubGraph) GetCorrelationData(context.Context, string, string) ([]market.ClosePoint, error) {
	return nil, nil
}

type stubPinger struct {
	err error
}

func (s *stubPinger) Ping(context.Context) error { return s.err }

func newTestHandler(t *testing.T, graph *stubGraph, pinger *stubPinger) *Handler {
	t.Helper()
	gin.SetMode(gin.TestMode)

	logger := logrus.New()
	logger.SetOutput(io.Discard)

	auditLog := audit.NewMemoryLog()
	engine := appquery.NewService(graph, auditLog, logger)
	return NewHandler(engine, auditLog, pinger, nil, time.Second, logger)
}

func TestRunQuery(t *testing.T) {
	graph := &stubGraph{history: []market.PricePoint{
		{Date: time.Date(2024, 1, 2, 0, 0, 0, 0, time.UTC), Close: 105, Volume: 1200000},
	}}
	handler := newTestHandler(t, graph, &stubPinger{})

	body := `{"command": "price_history: ticker=AAPL, days=10"}`
	req := httptest.NewRequest(http.MethodPost, "/api/v1/query", strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)

	var resp map[string]string
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.Equal(t, "Date: 2024-01-02, Close: $105.00, Volume: 1,200,000", resp["result"])
}

func TestRunQueryEngineErrorStaysHTTP200(t *testing.T) {
	handler := newTestHandler(t, &stubGraph{}, &stubPinger{})

	body := `{"command": "not a command"}`
	req := httptest.NewRequest(http.MethodPost, "/api/v1/query", strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), "Error executing query:")
}

func TestRunQueryMissingCommand(t *testing.T) {
	handler := newTestHandler(t, &stubGraph{}, &stubPinger{})

	req := httptest.NewRequest(http.MethodPost, "/api/v1/query", strings.NewReader(`{}`))
	req.Header.Set("Content-Type", "application/json")
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestListAudit(t *testing.T) {
	handler := newTestHandler(t, &stubGraph{}, &stubPinger{})

	for _, command := range []string{
		`{"command": "price_history: ticker=AAPL"}`,
		`{"command": "supply_chain_impact: ticker=AAPL"}`,
	} {
		req := httptest.NewRequest(http.MethodPost, "/api/v1/query", strings.NewReader(command))
		req.Header.Set("Content-Type", "application/json")
		handler.ServeHTTP(httptest.NewRecorder(), req)
	}

	req := httptest.NewRequest(http.MethodGet, "/api/v1/audit?limit=1", nil)
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)

	var resp struct {
		Entries []struct {
			Command string `json:"command"`
		} `json:"entries"`
		Count int `json:"count"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	require.Equal(t, 1, resp.Count)
	assert.Equal(t, "supply_chain_impact: ticker=AAPL", resp.Entries[0].Command)
}

func TestListAuditBadLimit(t *testing.T) {
	handler := newTestHandler(t, &stubGraph{}, &stubPinger{})

	req := httptest.NewRequest(http.MethodGet, "/api/v1/audit?limit=zero", nil)
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestHealth(t *testing.T) {
	handler := newTestHandler(t, &stubGraph{}, &stubPinger{})

	req := httptest.NewRequest(http.MethodGet, "/api/v1/health", nil)
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusOK, rec.Code)
}

func TestHealthDegraded(t *testing.T) {
	handler := newTestHandler(t, &stubGraph{}, &stubPinger{err: errors.New("refused")})

	req := httptest.NewRequest(http.MethodGet, "/api/v1/health", nil)
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusServiceUnavailable, rec.Code)
}
