package context

import (
	"net/http"
	"strconv"

	sharedError "github.com/verenigingen/membership-api/internal/shared/error"
	"github.com/verenigingen/membership-api/internal/shared/logger"
	"github.com/gin-gonic/gin"
)

// Context keys for storing staff authentication information
const (
	StaffIDKey    = "staff_id"
	StaffEmailKey = "staff_email"
	StaffRoleKey  = "staff_role"
)

func GetStaffID(c *gin.Context) (uint32, bool) {
	staffID, exists := c.Get(StaffIDKey)
	if !exists {
		return 0, false
	}

	idStr, ok := staffID.(string)
	if !ok {
		return 0, false
	}

	id, err := strconv.ParseUint(idStr, 10, 32)
	if err != nil {
		return 0, false
	}

	return uint32(id), true
}

// GetStaffEmail returns the authenticated reviewer's email, if any.
func GetStaffEmail(c *gin.Context) string {
	if email, exists := c.Get(StaffEmailKey); exists {
		if s, ok := email.(string); ok {
			return s
		}
	}
	return ""
}

// GetStaffRole returns the authenticated reviewer's role, if any.
func GetStaffRole(c *gin.Context) string {
	if role, exists := c.Get(StaffRoleKey); exists {
		if s, ok := role.(string); ok {
			return s
		}
	}
	return ""
}

// RequireStaffID retrieves the authenticated staff user's ID from the Gin context.
// If the ID is not found, automatically sends an authentication error response.
// Returns the ID and true if found, 0 and false if not found (error already sent).
func RequireStaffID(c *gin.Context) (uint32, bool) {
	staffID, ok := GetStaffID(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, sharedError.ErrorResponse{
			Status:  http.StatusUnauthorized,
			Code:    "AUTH-000",
			Message: "Please log in.",
		})
		c.Abort()
		logger.FromContext(c.Request.Context()).Error("[API] no staff ID present in context")
		return 0, false
	}
	return staffID, true
}
