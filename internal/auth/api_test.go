package auth_test

import (
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/verenigingen/membership-api/internal/auth"
	"github.com/verenigingen/membership-api/internal/model"
	sharedError "github.com/verenigingen/membership-api/internal/shared/error"
	"github.com/verenigingen/membership-api/internal/shared/testutil"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

// setupTestEnvironment creates all dependencies needed for auth handler tests
func setupTestEnvironment(t *testing.T) (*auth.AuthHandler, *gorm.DB) {
	t.Helper()

	db := testutil.SetupTestDB(t)
	t.Cleanup(func() {
		testutil.CleanupTestDB(t, db)
	})

	staffRepo := auth.NewStaffRepository()
	mockTokenManager := testutil.NewMockTokenManager()
	authService := auth.NewAuthService(db, staffRepo, mockTokenManager)
	authHandler := auth.NewAuthHandler(authService)

	return authHandler, db
}

func seedStaff(t *testing.T, db *gorm.DB, email, password, role string) {
	t.Helper()

	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.MinCost)
	require.NoError(t, err)

	require.NoError(t, db.Create(&model.Staff{
		Name:     "Admin",
		Email:    email,
		Password: string(hash),
		Role:     role,
	}).Error)
}

func TestLogin_Success(t *testing.T) {
	// Given: a seeded reviewer account
	authHandler, db := setupTestEnvironment(t)
	seedStaff(t, db, "admin@example.com", "password123", model.RoleSystemManager)

	router := testutil.SetupTestRouter()
	router.POST("/api/v1/auth/login", authHandler.Login)

	// When: logging in with the right credentials
	recorder := testutil.ExecuteRequest(t, router, testutil.TestRequest{
		Method: http.MethodPost,
		URL:    "/api/v1/auth/login",
		Body: auth.LoginRequest{
			Email:    "admin@example.com",
			Password: "password123",
		},
	})

	// Then: tokens and the role come back
	assert.Equal(t, http.StatusOK, recorder.Code)

	var response auth.LoginResponse
	testutil.ParseResponse(t, recorder, &response)
	assert.Equal(t, "mock-access-token", response.AccessToken)
	assert.Equal(t, "mock-refresh-token", response.RefreshToken)
	assert.Equal(t, model.RoleSystemManager, response.Role)
}

func TestLogin_WrongPassword(t *testing.T) {
	authHandler, db := setupTestEnvironment(t)
	seedStaff(t, db, "admin@example.com", "password123", model.RoleSystemManager)

	router := testutil.SetupTestRouter()
	router.POST("/api/v1/auth/login", authHandler.Login)

	recorder := testutil.ExecuteRequest(t, router, testutil.TestRequest{
		Method: http.MethodPost,
		URL:    "/api/v1/auth/login",
		Body: auth.LoginRequest{
			Email:    "admin@example.com",
			Password: "wrong-password",
		},
	})

	assert.Equal(t, http.StatusBadRequest, recorder.Code)

	var errorResponse sharedError.ErrorResponse
	testutil.ParseResponse(t, recorder, &errorResponse)
	assert.Equal(t, "AUTH-003", errorResponse.Code)
}

func TestLogin_UnknownEmail(t *testing.T) {
	// Same error as a wrong password, so the response never reveals
	// whether an account exists.
	authHandler, _ := setupTestEnvironment(t)

	router := testutil.SetupTestRouter()
	router.POST("/api/v1/auth/login", authHandler.Login)

	recorder := testutil.ExecuteRequest(t, router, testutil.TestRequest{
		Method: http.MethodPost,
		URL:    "/api/v1/auth/login",
		Body: auth.LoginRequest{
			Email:    "nobody@example.com",
			Password: "password123",
		},
	})

	assert.Equal(t, http.StatusBadRequest, recorder.Code)

	var errorResponse sharedError.ErrorResponse
	testutil.ParseResponse(t, recorder, &errorResponse)
	assert.Equal(t, "AUTH-003", errorResponse.Code)
}

func TestLogin_ValidationError(t *testing.T) {
	authHandler, _ := setupTestEnvironment(t)

	router := testutil.SetupTestRouter()
	router.POST("/api/v1/auth/login", authHandler.Login)

	recorder := testutil.ExecuteRequest(t, router, testutil.TestRequest{
		Method: http.MethodPost,
		URL:    "/api/v1/auth/login",
		Body: map[string]string{
			"email":    "not-an-email",
			"password": "short",
		},
	})

	assert.Equal(t, http.StatusBadRequest, recorder.Code)
}
