package middleware

import (
	"context"
	"encoding/json"
	stderrors "errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/wms-platform/fulfillment-service/pkg/errors"
	"github.com/wms-platform/fulfillment-service/pkg/logging"
)

func newTestRouter(register func(r *gin.Engine)) *gin.Engine {
	gin.SetMode(gin.TestMode)
	router := gin.New()
	Setup(router, DefaultConfig("fulfillment-test", logging.NewNop(), nil))
	register(router)
	return router
}

func serve(t *testing.T, router *gin.Engine, method, path string) (*httptest.ResponseRecorder, APIErrorResponse) {
	t.Helper()
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, httptest.NewRequest(method, path, nil))

	var body APIErrorResponse
	if rec.Code >= 400 {
		require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	}
	return rec, body
}

func TestErrorHandler_RendersAttachedErrors(t *testing.T) {
	tests := []struct {
		name       string
		err        error
		wantStatus int
		wantCode   string
	}{
		{"app error", errors.ErrNoFulfillmentOption(), http.StatusUnprocessableEntity, errors.CodeNoFulfillmentOption},
		{"deadline", context.DeadlineExceeded, http.StatusGatewayTimeout, errors.CodeTimeout},
		{"plain error", stderrors.New("boom"), http.StatusInternalServerError, errors.CodeInternalError},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			router := newTestRouter(func(r *gin.Engine) {
				r.GET("/fail", func(c *gin.Context) { _ = c.Error(tt.err) })
			})

			rec, body := serve(t, router, http.MethodGet, "/fail")

			assert.Equal(t, tt.wantStatus, rec.Code)
			assert.Equal(t, tt.wantCode, body.Code)
			assert.Equal(t, "/fail", body.Path)
			assert.NotEmpty(t, body.RequestID)
		})
	}
}

func TestRecovery_ReturnsInternalError(t *testing.T) {
	router := newTestRouter(func(r *gin.Engine) {
		r.GET("/panic", func(c *gin.Context) { panic("lookup table corrupted") })
	})

	rec, body := serve(t, router, http.MethodGet, "/panic")

	assert.Equal(t, http.StatusInternalServerError, rec.Code)
	assert.Equal(t, errors.CodeInternalError, body.Code)
}

func TestRequestContext_PropagatesIDs(t *testing.T) {
	var seen string
	router := newTestRouter(func(r *gin.Engine) {
		r.GET("/ids", func(c *gin.Context) {
			seen = logging.CorrelationIDFrom(c.Request.Context())
			c.Status(http.StatusNoContent)
		})
	})

	tests := []struct {
		name            string
		headers         map[string]string
		wantCorrelation string
	}{
		{"caller correlation kept", map[string]string{HeaderRequestID: "r-1", HeaderCorrelationID: "c-1"}, "c-1"},
		{"request id reused", map[string]string{HeaderRequestID: "r-2"}, "r-2"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodGet, "/ids", nil)
			for k, v := range tt.headers {
				req.Header.Set(k, v)
			}
			rec := httptest.NewRecorder()
			router.ServeHTTP(rec, req)

			assert.Equal(t, http.StatusNoContent, rec.Code)
			assert.Equal(t, tt.wantCorrelation, rec.Header().Get(HeaderCorrelationID))
			assert.Equal(t, tt.wantCorrelation, seen)
		})
	}

	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/ids", nil))
	assert.NotEmpty(t, rec.Header().Get(HeaderRequestID))
}
