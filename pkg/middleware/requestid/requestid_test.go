package requestid

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
)

func newRouter() *gin.Engine {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	r.Use(Middleware())
	r.GET("/ping", func(c *gin.Context) {
		c.String(http.StatusOK, Value(c))
	})
	return r
}

func TestMiddlewareKeepsCallerID(t *testing.T) {
	rec := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/ping", nil)
	req.Header.Set(HeaderKey, "abc-123")

	newRouter().ServeHTTP(rec, req)

	assert.Equal(t, "abc-123", rec.Header().Get(HeaderKey))
	assert.Equal(t, "abc-123", rec.Body.String())
}

func TestMiddlewareGeneratesID(t *testing.T) {
	for _, header := range []string{"", strings.Repeat("x", maxLength+1)} {
		rec := httptest.NewRecorder()
		req := httptest.NewRequest(http.MethodGet, "/ping", nil)
		if header != "" {
			req.Header.Set(HeaderKey, header)
		}

		newRouter().ServeHTTP(rec, req)

		_, err := uuid.Parse(rec.Header().Get(HeaderKey))
		assert.NoError(t, err)
	}
}
