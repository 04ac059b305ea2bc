package middleware_test

import (
	"net/http"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	sharedContext "github.com/verenigingen/membership-api/internal/shared/context"
	sharedError "github.com/verenigingen/membership-api/internal/shared/error"
	"github.com/verenigingen/membership-api/internal/shared/middleware"
	"github.com/verenigingen/membership-api/internal/shared/testutil"
)

// withRole simulates the JWT middleware having authenticated a staff user.
func withRole(role string) gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Set(sharedContext.StaffRoleKey, role)
		c.Next()
	}
}

func TestRequireRoles(t *testing.T) {
	testCases := []struct {
		name   string
		role   string
		status int
	}{
		{name: "System Manager allowed", role: "System Manager", status: http.StatusOK},
		{name: "Verenigingen Manager allowed", role: "Verenigingen Manager", status: http.StatusOK},
		{name: "Unrelated role rejected", role: "Accountant", status: http.StatusForbidden},
		{name: "Empty role rejected", role: "", status: http.StatusForbidden},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			router := testutil.SetupTestRouter()
			router.GET("/protected",
				withRole(tc.role),
				middleware.RequireRoles("System Manager", "Verenigingen Administrator", "Verenigingen Manager"),
				func(c *gin.Context) { c.Status(http.StatusOK) },
			)

			recorder := testutil.ExecuteRequest(t, router, testutil.TestRequest{
				Method: http.MethodGet,
				URL:    "/protected",
			})

			assert.Equal(t, tc.status, recorder.Code)

			if tc.status == http.StatusForbidden {
				var errorResponse sharedError.ErrorResponse
				testutil.ParseResponse(t, recorder, &errorResponse)
				assert.Equal(t, "AUTH-001", errorResponse.Code)
			}
		})
	}
}

func TestJWT_MissingToken(t *testing.T) {
	router := testutil.SetupTestRouter()
	router.GET("/protected",
		middleware.JWT(testutil.NewTestConfig()),
		func(c *gin.Context) { c.Status(http.StatusOK) },
	)

	recorder := testutil.ExecuteRequest(t, router, testutil.TestRequest{
		Method: http.MethodGet,
		URL:    "/protected",
	})

	assert.Equal(t, http.StatusUnauthorized, recorder.Code)
}

func TestJWT_MalformedAuthorizationHeader(t *testing.T) {
	router := testutil.SetupTestRouter()
	router.GET("/protected",
		middleware.JWT(testutil.NewTestConfig()),
		func(c *gin.Context) { c.Status(http.StatusOK) },
	)

	recorder := testutil.ExecuteRequest(t, router, testutil.TestRequest{
		Method:  http.MethodGet,
		URL:     "/protected",
		Headers: map[string]string{"Authorization": "NotBearer something"},
	})

	assert.Equal(t, http.StatusUnauthorized, recorder.Code)
}
