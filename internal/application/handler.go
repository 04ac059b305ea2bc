package application

import (
	"encoding/json"
	"errors"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/verenigingen/membership-api/internal/draft"
	sharedContext "github.com/verenigingen/membership-api/internal/shared/context"
	sharedError "github.com/verenigingen/membership-api/internal/shared/error"
	"github.com/verenigingen/membership-api/internal/shared/handler"
)

// ApplicationHandler serves the public application form endpoints and the
// staff review actions. Form endpoints answer business failures with a
// success=false body at HTTP 200; only transport and auth problems use error
// status codes.
type ApplicationHandler struct {
	applicationService *ApplicationService
	drafts             draft.Store
}

func NewApplicationHandler(applicationService *ApplicationService, drafts draft.Store) *ApplicationHandler {
	return &ApplicationHandler{
		applicationService: applicationService,
		drafts:             drafts,
	}
}

// Submit handles POST /api/v1/applications.
func (h *ApplicationHandler) Submit(c *gin.Context) {
	var payload map[string]any
	if err := c.ShouldBindJSON(&payload); err != nil {
		c.Error(err)
		c.JSON(http.StatusOK, validationFailure("Invalid application data", "Request body must be a JSON object"))
		return
	}

	result := h.applicationService.Submit(c.Request.Context(), payload)
	c.JSON(http.StatusOK, result)
}

// Status handles GET /api/v1/applications/status/:application_id.
func (h *ApplicationHandler) Status(c *gin.Context) {
	result, err := h.applicationService.Status(c.Request.Context(), c.Param("application_id"))
	if err != nil {
		handler.RespondError(c, err, sharedError.InternalServerError)
		return
	}
	c.JSON(http.StatusOK, result)
}

// FormData handles GET /api/v1/applications/form-data.
func (h *ApplicationHandler) FormData(c *gin.Context) {
	form, err := h.applicationService.FormData(c.Request.Context())
	if err != nil {
		handler.RespondError(c, err, sharedError.InternalServerError)
		return
	}
	c.JSON(http.StatusOK, form)
}

// SaveDraft handles POST /api/v1/applications/drafts. A missing draft ID
// starts a new draft; an existing one overwrites it and refreshes the TTL.
func (h *ApplicationHandler) SaveDraft(c *gin.Context) {
	var request SaveDraftRequest
	if !handler.BindJSON(c, &request) {
		return
	}

	draftID := request.DraftID
	if draftID == "" {
		draftID = uuid.NewString()
	}

	payload, err := json.Marshal(request.Data)
	if err != nil {
		handler.RespondError(c, err, sharedError.InvalidRequest)
		return
	}

	if err := h.drafts.Save(c.Request.Context(), draftID, payload); err != nil {
		handler.RespondError(c, err, sharedError.InternalServerError)
		return
	}

	c.JSON(http.StatusOK, SaveDraftResponse{Success: true, DraftID: draftID})
}

// LoadDraft handles GET /api/v1/applications/drafts/:draft_id.
func (h *ApplicationHandler) LoadDraft(c *gin.Context) {
	payload, err := h.drafts.Load(c.Request.Context(), c.Param("draft_id"))
	if err != nil {
		if errors.Is(err, draft.ErrDraftNotFound) {
			c.JSON(http.StatusOK, LoadDraftResponse{Success: false, Error: "Draft not found or expired"})
			return
		}
		handler.RespondError(c, err, sharedError.InternalServerError)
		return
	}

	var data map[string]any
	if err := json.Unmarshal(payload, &data); err != nil {
		handler.RespondError(c, err, sharedError.InternalServerError)
		return
	}

	c.JSON(http.StatusOK, LoadDraftResponse{Success: true, Data: data})
}

// Approve handles POST /api/v1/applications/:member_id/approve (staff only).
func (h *ApplicationHandler) Approve(c *gin.Context) {
	memberID, ok := h.memberIDParam(c)
	if !ok {
		return
	}

	var request ReviewRequest
	if c.Request.ContentLength > 0 && !handler.BindJSON(c, &request) {
		return
	}

	result := h.applicationService.Approve(c.Request.Context(), memberID, request.Notes, sharedContext.GetStaffEmail(c))
	c.JSON(http.StatusOK, result)
}

// Reject handles POST /api/v1/applications/:member_id/reject (staff only).
func (h *ApplicationHandler) Reject(c *gin.Context) {
	memberID, ok := h.memberIDParam(c)
	if !ok {
		return
	}

	var request ReviewRequest
	if !handler.BindJSON(c, &request) {
		return
	}

	result := h.applicationService.Reject(c.Request.Context(), memberID, request.Reason, sharedContext.GetStaffEmail(c))
	c.JSON(http.StatusOK, result)
}

// ValidateEmail handles POST /api/v1/validations/email.
func (h *ApplicationHandler) ValidateEmail(c *gin.Context) {
	var request ValidateEmailRequest
	if !handler.BindJSON(c, &request) {
		return
	}

	result, err := h.applicationService.ValidateEmail(c.Request.Context(), request.Email)
	if err != nil {
		handler.RespondError(c, err, sharedError.InternalServerError)
		return
	}
	c.JSON(http.StatusOK, result)
}

// ValidatePostalCode handles POST /api/v1/validations/postal-code.
func (h *ApplicationHandler) ValidatePostalCode(c *gin.Context) {
	var request ValidatePostalCodeRequest
	if !handler.BindJSON(c, &request) {
		return
	}
	c.JSON(http.StatusOK, ValidatePostalCode(request.PostalCode, request.Country))
}

// ValidatePhone handles POST /api/v1/validations/phone.
func (h *ApplicationHandler) ValidatePhone(c *gin.Context) {
	var request ValidatePhoneRequest
	if !handler.BindJSON(c, &request) {
		return
	}
	c.JSON(http.StatusOK, ValidatePhoneNumber(request.Phone, request.Country))
}

// ValidateBirthDate handles POST /api/v1/validations/birth-date.
func (h *ApplicationHandler) ValidateBirthDate(c *gin.Context) {
	var request ValidateBirthDateRequest
	if !handler.BindJSON(c, &request) {
		return
	}
	c.JSON(http.StatusOK, ValidateBirthDate(request.BirthDate))
}

// ValidateName handles POST /api/v1/validations/name.
func (h *ApplicationHandler) ValidateName(c *gin.Context) {
	var request ValidateNameRequest
	if !handler.BindJSON(c, &request) {
		return
	}

	label := request.Label
	if label == "" {
		label = "Name"
	}
	c.JSON(http.StatusOK, ValidateName(request.Name, label))
}

func (h *ApplicationHandler) memberIDParam(c *gin.Context) (uint32, bool) {
	memberID, err := strconv.ParseUint(c.Param("member_id"), 10, 32)
	if err != nil {
		handler.RespondError(c, err, sharedError.InvalidRequest)
		return 0, false
	}
	return uint32(memberID), true
}
