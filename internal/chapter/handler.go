package chapter

import (
	"strconv"

	sharedError "github.com/verenigingen/membership-api/internal/shared/error"
	"github.com/verenigingen/membership-api/internal/shared/handler"
	"github.com/gin-gonic/gin"
)

type ChapterHandler struct {
	chapterService *ChapterService
}

func NewChapterHandler(chapterService *ChapterService) *ChapterHandler {
	return &ChapterHandler{
		chapterService: chapterService,
	}
}

// Create handles POST /api/v1/chapters (staff only).
func (h *ChapterHandler) Create(c *gin.Context) {
	var request CreateChapterRequest

	if !handler.BindJSON(c, &request) {
		return
	}

	chapter, err := h.chapterService.CreateChapter(c.Request.Context(), &request)
	if err != nil {
		if resp, ok := sharedError.ResolveDomainError(err); ok {
			handler.RespondError(c, err, resp)
			return
		}
		handler.RespondError(c, err, sharedError.InternalServerError)
		return
	}

	c.JSON(201, CreateChapterResponse{
		ID:        chapter.ID,
		Name:      chapter.Name,
		Region:    chapter.Region,
		Published: chapter.Published,
	})
}

// ListMembers handles GET /api/v1/chapters/:chapter/members (staff only).
func (h *ChapterHandler) ListMembers(c *gin.Context) {
	rows, err := h.chapterService.ListMembers(c.Request.Context(), c.Param("chapter"))
	if err != nil {
		if resp, ok := sharedError.ResolveDomainError(err); ok {
			handler.RespondError(c, err, resp)
			return
		}
		handler.RespondError(c, err, sharedError.InternalServerError)
		return
	}

	c.JSON(200, gin.H{"members": rows})
}

// RemoveMember handles DELETE /api/v1/chapters/:chapter/members/:member.
// The row is soft-disabled with a leave reason, not deleted.
func (h *ChapterHandler) RemoveMember(c *gin.Context) {
	memberID, err := strconv.ParseUint(c.Param("member"), 10, 32)
	if err != nil {
		handler.RespondError(c, err, sharedError.InvalidRequest)
		return
	}

	var request RemoveMemberRequest
	if !handler.BindJSON(c, &request) {
		return
	}

	err = h.chapterService.RemoveActiveMembership(c.Request.Context(), uint32(memberID), c.Param("chapter"), request.Reason)
	if err != nil {
		if resp, ok := sharedError.ResolveDomainError(err); ok {
			handler.RespondError(c, err, resp)
			return
		}
		handler.RespondError(c, err, sharedError.InternalServerError)
		return
	}

	c.JSON(200, gin.H{"removed": true})
}
