package observability

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"

	"github.com/danmuck/animus/internal/testutil/testlog"
)

func TestHTTPObserverRecordsRoutes(t *testing.T) {
	testlog.Start(t)
	gin.SetMode(gin.TestMode)

	router := gin.New()
	router.Use(HTTPObserver(testlog.Logger(t), "observer-test"))
	router.GET("/status/:part", func(c *gin.Context) { c.Status(http.StatusNoContent) })

	for _, path := range []string{"/status/a", "/status/b", "/nope", "/other"} {
		router.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodGet, path, nil))
	}

	assert.Equal(t, 2.0, testutil.ToFloat64(httpRequests.WithLabelValues("observer-test", "GET", "/status/:part", "204")))
	assert.Equal(t, 2.0, testutil.ToFloat64(httpRequests.WithLabelValues("observer-test", "GET", unmatchedRoute, "404")))
}
