package server

import (
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gin-gonic/gin"
)

type stubHealth struct {
	err error
}

func (s stubHealth) Health() error {
	return s.err
}

func performHealth(t *testing.T, checker HealthChecker) *httptest.ResponseRecorder {
	t.Helper()

	gin.SetMode(gin.TestMode)
	rec := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(rec)
	c.Request = httptest.NewRequest("GET", "/health", nil)

	h := &Handler{health: checker}
	h.Health(c)

	return rec
}

func TestHealth_OK(t *testing.T) {
	rec := performHealth(t, stubHealth{})

	if rec.Code != http.StatusOK {
		t.Errorf("expected 200, got %d", rec.Code)
	}
	if !strings.Contains(rec.Body.String(), `"status":"ok"`) {
		t.Errorf("unexpected body: %s", rec.Body.String())
	}
}

func TestHealth_DatabaseDown(t *testing.T) {
	rec := performHealth(t, stubHealth{err: errors.New("connection refused")})

	if rec.Code != http.StatusServiceUnavailable {
		t.Errorf("expected 503, got %d", rec.Code)
	}
	if !strings.Contains(rec.Body.String(), "unavailable") {
		t.Errorf("unexpected body: %s", rec.Body.String())
	}
}

func TestHealth_NoChecker(t *testing.T) {
	rec := performHealth(t, nil)

	if rec.Code != http.StatusOK {
		t.Errorf("expected 200 without a checker, got %d", rec.Code)
	}
}
