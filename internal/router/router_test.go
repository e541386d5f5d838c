package router

import (
	"bytes"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/habittracker/internal/db"
	"github.com/habittracker/internal/handler"
)

func setupTestRouter(t *testing.T) *gin.Engine {
	t.Helper()
	gin.SetMode(gin.TestMode)

	gdb, err := db.Open(filepath.Join(t.TempDir(), "habits.db"))
	if err != nil {
		t.Fatalf("failed to open database: %v", err)
	}
	t.Cleanup(func() { db.Close(gdb) })

	clock := func() time.Time { return time.Date(2022, 6, 24, 9, 0, 0, 0, time.Local) }
	return SetupRouter(handler.NewAPI(gdb, nil, clock, "en"), nil)
}

func TestPingAssignsRequestID(t *testing.T) {
	r := setupTestRouter(t)

	req := httptest.NewRequest(http.MethodGet, "/ping", nil)
	rr := httptest.NewRecorder()
	r.ServeHTTP(rr, req)

	if rr.Code != http.StatusOK {
		t.Fatalf("expected status %d, got %d", http.StatusOK, rr.Code)
	}
	if rr.Header().Get(RequestIDHeader) == "" {
		t.Fatalf("expected %s header to be set", RequestIDHeader)
	}
}

func TestRequestIDIsPropagated(t *testing.T) {
	r := setupTestRouter(t)

	req := httptest.NewRequest(http.MethodGet, "/ping", nil)
	req.Header.Set(RequestIDHeader, "trace-42")
	rr := httptest.NewRecorder()
	r.ServeHTTP(rr, req)

	if got := rr.Header().Get(RequestIDHeader); got != "trace-42" {
		t.Fatalf("expected propagated request id, got %q", got)
	}
}

func TestHabitRoutes(t *testing.T) {
	r := setupTestRouter(t)

	body := bytes.NewBufferString(`{"name":"stretch","periodicity":"daily","creation_date":"2022-06-20"}`)
	req := httptest.NewRequest(http.MethodPost, "/api/habits", body)
	req.Header.Set("Content-Type", "application/json")
	rr := httptest.NewRecorder()
	r.ServeHTTP(rr, req)
	if rr.Code != http.StatusCreated {
		t.Fatalf("expected status 201, got %d: %s", rr.Code, rr.Body.String())
	}

	for _, date := range []string{"2022-06-22", "2022-06-23", "2022-06-24"} {
		req = httptest.NewRequest(http.MethodPost, "/api/habits/stretch/checkoffs", bytes.NewBufferString(`{"date":"`+date+`"}`))
		req.Header.Set("Content-Type", "application/json")
		rr = httptest.NewRecorder()
		r.ServeHTTP(rr, req)
		if rr.Code != http.StatusCreated {
			t.Fatalf("expected status 201, got %d: %s", rr.Code, rr.Body.String())
		}
	}

	req = httptest.NewRequest(http.MethodGet, "/api/stats/longest-streak?habit=stretch", nil)
	rr = httptest.NewRecorder()
	r.ServeHTTP(rr, req)
	if rr.Code != http.StatusOK || !strings.Contains(rr.Body.String(), `"value":3`) {
		t.Fatalf("unexpected longest streak response %d: %s", rr.Code, rr.Body.String())
	}
}

func TestMetricsEndpoint(t *testing.T) {
	r := setupTestRouter(t)

	r.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodGet, "/ping", nil))

	req := httptest.NewRequest(http.MethodGet, "/metrics", nil)
	rr := httptest.NewRecorder()
	r.ServeHTTP(rr, req)

	if rr.Code != http.StatusOK {
		t.Fatalf("expected status 200, got %d", rr.Code)
	}
	if !strings.Contains(rr.Body.String(), "habits_http_request_duration_seconds") {
		t.Fatalf("expected request histogram in metrics output")
	}
}

func TestUnknownRouteReturnsNotFound(t *testing.T) {
	r := setupTestRouter(t)

	req := httptest.NewRequest(http.MethodGet, "/admin", nil)
	rr := httptest.NewRecorder()
	r.ServeHTTP(rr, req)

	if rr.Code != http.StatusNotFound {
		t.Fatalf("expected status 404, got %d", rr.Code)
	}
}
