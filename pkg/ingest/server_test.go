package ingest

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"

	"github.com/vignesh-goutham/tradelog/pkg/store"
)

func TestRouter(t *testing.T) {
	gin.SetMode(gin.TestMode)
	router := NewRouter(newTestHandler(store.NewMemoryStore(), nil))

	tests := []struct {
		name         string
		method       string
		path         string
		body         string
		expectedCode int
	}{
		{name: "preflight", method: http.MethodOptions, path: "/", expectedCode: http.StatusNoContent},
		{name: "info", method: http.MethodGet, path: "/trades", expectedCode: http.StatusOK},
		{name: "first post", method: http.MethodPost, path: "/trades", body: scenarioBody, expectedCode: http.StatusOK},
		{name: "repeat post", method: http.MethodPost, path: "/", body: scenarioBody, expectedCode: http.StatusConflict},
		{name: "missing fields", method: http.MethodPost, path: "/", body: `{}`, expectedCode: http.StatusBadRequest},
		{name: "wrong method", method: http.MethodPut, path: "/", body: scenarioBody, expectedCode: http.StatusMethodNotAllowed},
	}

	// Cases share the router and run in order
	for _, tt := range tests {
		w := httptest.NewRecorder()
		req := httptest.NewRequest(tt.method, tt.path, strings.NewReader(tt.body))

		router.ServeHTTP(w, req)

		assert.Equal(t, tt.expectedCode, w.Code, tt.name)
		assert.Equal(t, "https://journal.example.com", w.Header().Get("Access-Control-Allow-Origin"), tt.name)
		assert.NotEmpty(t, w.Header().Get("X-Request-Id"), tt.name)
	}
}
