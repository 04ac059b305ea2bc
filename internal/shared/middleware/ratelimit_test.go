package middleware_test

import (
	"context"
	"errors"
	"net/http"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	sharedError "github.com/verenigingen/membership-api/internal/shared/error"
	"github.com/verenigingen/membership-api/internal/shared/middleware"
	"github.com/verenigingen/membership-api/internal/shared/testutil"
)

type failingCounterStore struct{}

func (failingCounterStore) Incr(context.Context, string, time.Duration) (int64, error) {
	return 0, errors.New("redis unavailable")
}

func TestRateLimit_AllowsUpToLimit(t *testing.T) {
	router := testutil.SetupTestRouter()
	router.POST("/submit",
		middleware.RateLimit(testutil.NewMemoryCounterStore(), "submit", 3),
		func(c *gin.Context) { c.Status(http.StatusOK) },
	)

	for i := 0; i < 3; i++ {
		recorder := testutil.ExecuteRequest(t, router, testutil.TestRequest{
			Method: http.MethodPost,
			URL:    "/submit",
		})
		assert.Equal(t, http.StatusOK, recorder.Code, "request %d should pass", i+1)
	}

	// The fourth request in the window is rejected.
	recorder := testutil.ExecuteRequest(t, router, testutil.TestRequest{
		Method: http.MethodPost,
		URL:    "/submit",
	})
	assert.Equal(t, http.StatusTooManyRequests, recorder.Code)

	var errorResponse sharedError.ErrorResponse
	testutil.ParseResponse(t, recorder, &errorResponse)
	assert.Equal(t, "RATE-001", errorResponse.Code)
}

func TestRateLimit_SeparateEndpointsCountSeparately(t *testing.T) {
	store := testutil.NewMemoryCounterStore()

	router := testutil.SetupTestRouter()
	router.POST("/a", middleware.RateLimit(store, "a", 1), func(c *gin.Context) { c.Status(http.StatusOK) })
	router.POST("/b", middleware.RateLimit(store, "b", 1), func(c *gin.Context) { c.Status(http.StatusOK) })

	first := testutil.ExecuteRequest(t, router, testutil.TestRequest{Method: http.MethodPost, URL: "/a"})
	assert.Equal(t, http.StatusOK, first.Code)

	// Exhausting /a does not touch /b.
	second := testutil.ExecuteRequest(t, router, testutil.TestRequest{Method: http.MethodPost, URL: "/b"})
	assert.Equal(t, http.StatusOK, second.Code)

	third := testutil.ExecuteRequest(t, router, testutil.TestRequest{Method: http.MethodPost, URL: "/a"})
	assert.Equal(t, http.StatusTooManyRequests, third.Code)
}

func TestRateLimit_StoreFailureLetsRequestsThrough(t *testing.T) {
	router := testutil.SetupTestRouter()
	router.POST("/submit",
		middleware.RateLimit(failingCounterStore{}, "submit", 1),
		func(c *gin.Context) { c.Status(http.StatusOK) },
	)

	for i := 0; i < 5; i++ {
		recorder := testutil.ExecuteRequest(t, router, testutil.TestRequest{
			Method: http.MethodPost,
			URL:    "/submit",
		})
		assert.Equal(t, http.StatusOK, recorder.Code)
	}
}
