package middleware

import (
	"errors"
	"log/slog"
	"net/http"
	"strings"

	"github.com/verenigingen/membership-api/internal/config"
	sharedContext "github.com/verenigingen/membership-api/internal/shared/context"
	sharedError "github.com/verenigingen/membership-api/internal/shared/error"
	"github.com/verenigingen/membership-api/internal/shared/token"

	"github.com/gin-gonic/gin"
)

const (
	AuthorizationHeader = "Authorization"
	BearerScheme        = "Bearer"
)

// JWT error constants (errInfo)
const (
	missingToken     = "MISSING_TOKEN"
	invalidToken     = "INVALID_TOKEN"
	expiredToken     = "EXPIRED_TOKEN"
	invalidClaims    = "INVALID_CLAIMS"
	insufficientRole = "INSUFFICIENT_ROLE"
)

// Domain errors
var (
	ErrMissingToken     = sharedError.NewDomainError(missingToken)
	ErrInvalidToken     = sharedError.NewDomainError(invalidToken)
	ErrExpiredToken     = sharedError.NewDomainError(expiredToken)
	ErrInvalidClaims    = sharedError.NewDomainError(invalidClaims)
	ErrInsufficientRole = sharedError.NewDomainError(insufficientRole)
)

// Register JWT error responses
func init() {
	loginRequired := sharedError.ErrorResponse{
		Status:  http.StatusUnauthorized,
		Code:    "AUTH-000",
		Message: "Please log in.",
	}

	sharedError.RegisterDomainErrorResponse(missingToken, loginRequired)
	sharedError.RegisterDomainErrorResponse(invalidToken, loginRequired)
	sharedError.RegisterDomainErrorResponse(expiredToken, loginRequired)
	sharedError.RegisterDomainErrorResponse(invalidClaims, loginRequired)

	sharedError.RegisterDomainErrorResponse(insufficientRole, sharedError.ErrorResponse{
		Status:  http.StatusForbidden,
		Code:    "AUTH-001",
		Message: "You do not have permission to perform this action.",
	})
}

func JWT(cfg *config.Config) gin.HandlerFunc {
	tokenManager := token.NewJWTManager(cfg)

	return func(c *gin.Context) {
		// Request info for logging
		clientIP := c.ClientIP()
		method := c.Request.Method
		path := c.Request.URL.Path
		userAgent := c.Request.UserAgent()

		// Step 1: extract token
		tok, err := extractToken(c)
		if err != nil {
			slog.Warn("JWT token extraction failed",
				"step", "extract_token",
				"error", err.Error(),
				"client_ip", clientIP,
				"method", method,
				"path", path,
				"user_agent", userAgent,
			)
			handleJWTError(c, err)
			return
		}

		// Step 2: validate token
		claims, err := tokenManager.ValidateToken(tok)
		if err != nil {
			slog.Warn("JWT token validation failed",
				"step", "validate_token",
				"error", err.Error(),
				"client_ip", clientIP,
				"method", method,
				"path", path,
				"user_agent", userAgent,
			)
			handleJWTError(c, mapTokenError(err))
			return
		}

		// Authenticated - store staff info in context
		c.Set(sharedContext.StaffIDKey, claims.StaffID)
		c.Set(sharedContext.StaffEmailKey, claims.Email)
		c.Set(sharedContext.StaffRoleKey, claims.Role)
		c.Next()
	}
}

// RequireRoles aborts with 403 unless the authenticated staff user carries one
// of the given roles. Must run after JWT().
func RequireRoles(roles ...string) gin.HandlerFunc {
	allowed := make(map[string]struct{}, len(roles))
	for _, r := range roles {
		allowed[r] = struct{}{}
	}

	return func(c *gin.Context) {
		role := sharedContext.GetStaffRole(c)
		if _, ok := allowed[role]; !ok {
			slog.Warn("role check failed",
				"role", role,
				"path", c.Request.URL.Path,
				"client_ip", c.ClientIP(),
			)
			handleJWTError(c, ErrInsufficientRole)
			return
		}
		c.Next()
	}
}

// handleJWTError handles JWT errors using the standardized error response format
// Note: logging is done at the point of error detection
func handleJWTError(c *gin.Context, err error) {
	if resp, ok := sharedError.ResolveDomainError(err); ok {
		c.JSON(resp.Status, resp)
	} else {
		// Unexpected error - fallback response
		c.JSON(http.StatusUnauthorized, sharedError.ErrorResponse{
			Status:  http.StatusUnauthorized,
			Code:    "AUTH-999",
			Message: "Authentication failed.",
		})
	}
	c.Abort()
}

func extractToken(c *gin.Context) (string, error) {
	authHeader := c.GetHeader(AuthorizationHeader)
	if authHeader == "" {
		return "", ErrMissingToken
	}

	parts := strings.SplitN(authHeader, " ", 2)
	if len(parts) != 2 || !strings.EqualFold(parts[0], BearerScheme) {
		return "", ErrInvalidToken
	}

	return parts[1], nil
}

func mapTokenError(err error) error {
	switch {
	case errors.Is(err, token.ErrExpiredToken):
		return ErrExpiredToken
	case errors.Is(err, token.ErrInvalidClaims):
		return ErrInvalidClaims
	default:
		return ErrInvalidToken
	}
}
