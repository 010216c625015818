package health

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/pkg/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type failingChecker struct {
	err error
}

func (c *failingChecker) Check() error {
	return c.err
}

func TestMultiChecker(t *testing.T) {
	mc := NewMultiChecker(NewLivenessChecker())
	assert.NoError(t, mc.Check())

	mc.Add(&failingChecker{err: errors.New("first")})
	mc.Add(&failingChecker{err: errors.New("second")})
	err := mc.Check()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "first")
	assert.Contains(t, err.Error(), "second")
}

func TestHealthHandler_Ok(t *testing.T) {
	mux := http.NewServeMux()
	SetupHttpMux(mux, NewMultiChecker(NewLivenessChecker()), "data-ingestion")

	rec := httptest.NewRecorder()
	mux.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/health", nil))

	assert.Equal(t, http.StatusOK, rec.Code)
	var status Status
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &status))
	assert.Equal(t, Status{Status: "ok", Service: "data-ingestion", Lang: "go"}, status)
}

func TestHealthHandler_Failing(t *testing.T) {
	handler := NewHealthCheckHttpHandler(&failingChecker{err: errors.New("broken")}, "data-ingestion")

	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/health", nil))

	assert.Equal(t, http.StatusServiceUnavailable, rec.Code)
	assert.Equal(t, "broken", rec.Body.String())
}
