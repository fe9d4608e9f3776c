package vehicle

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/go-chi/chi/v5"
)

func maintenanceStartRequestFor(t *testing.T, body string) *http.Request {
	t.Helper()
	req := httptest.NewRequest(http.MethodPost, "/v1/vehicles/1/maintenance/start", strings.NewReader(body))
	rctx := chi.NewRouteContext()
	rctx.URLParams.Add("id", "1")
	return req.WithContext(context.WithValue(req.Context(), chi.RouteCtxKey, rctx))
}

func TestMaintenanceStart_MalformedBodyRejected(t *testing.T) {
	rec := httptest.NewRecorder()
	Handlers{}.MaintenanceStart(rec, maintenanceStartRequestFor(t, `{"reservationId":`))

	if rec.Code != http.StatusBadRequest {
		t.Fatalf("expected 400 for malformed json, got %d", rec.Code)
	}
	if !strings.Contains(rec.Body.String(), "VALIDATION_FAILED") {
		t.Fatalf("expected validation error envelope, got %s", rec.Body.String())
	}
}
