package http

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/couchcryptid/covid-data-etl/internal/domain"
)

type stubStatus struct {
	readyErr error
	report   domain.RunReport
	hasRun   bool
}

func (s *stubStatus) CheckReadiness(context.Context) error { return s.readyErr }

func (s *stubStatus) LastReport() (domain.RunReport, bool) { return s.report, s.hasRun }

func get(t *testing.T, srv *Server, path string) *httptest.ResponseRecorder {
	t.Helper()
	rec := httptest.NewRecorder()
	srv.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, path, nil))
	return rec
}

func TestServer_Healthz(t *testing.T) {
	srv := NewServer(":0", &stubStatus{}, slog.Default())

	rec := get(t, srv, "/healthz")
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `{"status":"healthy"}`, rec.Body.String())
}

func TestServer_Readyz(t *testing.T) {
	t.Run("ready", func(t *testing.T) {
		srv := NewServer(":0", &stubStatus{}, slog.Default())
		rec := get(t, srv, "/readyz")
		assert.Equal(t, http.StatusOK, rec.Code)
	})

	t.Run("not ready", func(t *testing.T) {
		srv := NewServer(":0", &stubStatus{readyErr: errors.New("no successful run yet")}, slog.Default())
		rec := get(t, srv, "/readyz")
		assert.Equal(t, http.StatusServiceUnavailable, rec.Code)
		assert.Contains(t, rec.Body.String(), "no successful run yet")
	})
}

func TestServer_Statusz(t *testing.T) {
	t.Run("no runs yet", func(t *testing.T) {
		srv := NewServer(":0", &stubStatus{}, slog.Default())
		rec := get(t, srv, "/statusz")
		assert.Equal(t, http.StatusOK, rec.Code)
		assert.Contains(t, rec.Body.String(), "no runs yet")
	})

	t.Run("last run", func(t *testing.T) {
		report := domain.RunReport{
			RunID:        "run-1",
			Success:      true,
			Message:      "covid dataset updated: 5 new rows appended",
			RowsMerged:   100,
			RowsAppended: 5,
			FinishedAt:   time.Date(2020, 10, 5, 6, 0, 0, 0, time.UTC),
		}
		srv := NewServer(":0", &stubStatus{report: report, hasRun: true}, slog.Default())

		rec := get(t, srv, "/statusz")
		require.Equal(t, http.StatusOK, rec.Code)

		var got domain.RunReport
		require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &got))
		assert.Equal(t, report, got)
	})
}

func TestServer_Metrics(t *testing.T) {
	srv := NewServer(":0", &stubStatus{}, slog.Default())
	rec := get(t, srv, "/metrics")
	assert.Equal(t, http.StatusOK, rec.Code)
}
