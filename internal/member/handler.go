package member

import (
	"strconv"

	sharedError "github.com/verenigingen/membership-api/internal/shared/error"
	"github.com/verenigingen/membership-api/internal/shared/handler"
	"github.com/gin-gonic/gin"
)

type MemberHandler struct {
	memberService *MemberService
}

func NewMemberHandler(memberService *MemberService) *MemberHandler {
	return &MemberHandler{
		memberService: memberService,
	}
}

// GetDetail handles GET /api/v1/members/:id (staff only).
func (h *MemberHandler) GetDetail(c *gin.Context) {
	id, err := strconv.ParseUint(c.Param("id"), 10, 32)
	if err != nil {
		handler.RespondError(c, err, sharedError.InvalidRequest)
		return
	}

	response, err := h.memberService.GetDetail(c.Request.Context(), uint32(id))
	if err != nil {
		if resp, ok := sharedError.ResolveDomainError(err); ok {
			handler.RespondError(c, err, resp)
			return
		}

		handler.RespondError(c, err, sharedError.InternalServerError)
		return
	}

	c.JSON(200, response)
}
