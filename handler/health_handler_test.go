// handler/health_handler_test.go
package handler

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/Lawrence9908/ecommerce-backend-api/common"

	"github.com/stretchr/testify/assert"
)

func TestHealthCheck(t *testing.T) {
	req, _ := http.NewRequest("GET", "/health", nil)
	rr := httptest.NewRecorder()

	HealthCheck(rr, req)

	assert.Equal(t, http.StatusOK, rr.Code)
	expectedBody := `{"status":"API is healthy and running"}`
	assert.JSONEq(t, expectedBody, rr.Body.String())
}

func TestErrorHandlingMiddleware(t *testing.T) {
	t.Run("app error is written as JSON", func(t *testing.T) {
		h := ErrorHandlingMiddleware(func(w http.ResponseWriter, r *http.Request) *common.AppError {
			return common.NewAppError(http.StatusNotFound, "Product not found", nil)
		})
		rr := httptest.NewRecorder()
		h(rr, httptest.NewRequest("GET", "/", nil))

		assert.Equal(t, http.StatusNotFound, rr.Code)
		assert.JSONEq(t, `{"success":false,"code":404,"message":"Product not found"}`, rr.Body.String())
	})

	t.Run("panic becomes a generic 500", func(t *testing.T) {
		h := ErrorHandlingMiddleware(func(w http.ResponseWriter, r *http.Request) *common.AppError {
			panic("boom")
		})
		rr := httptest.NewRecorder()
		h(rr, httptest.NewRequest("GET", "/", nil))

		assert.Equal(t, http.StatusInternalServerError, rr.Code)
		assert.NotContains(t, rr.Body.String(), "boom")
	})
}
