package chapter

import (
	"net/http"

	sharedError "github.com/verenigingen/membership-api/internal/shared/error"
)

const (
	chapterNotFound       = "CHAPTER_NOT_FOUND"        // errInfo
	chapterAlreadyExists  = "CHAPTER_ALREADY_EXISTS"   // errInfo
	chapterMemberNotFound = "CHAPTER_MEMBER_NOT_FOUND" // errInfo
)

var (
	ErrChapterNotFound       = sharedError.NewDomainError(chapterNotFound)
	ErrChapterAlreadyExists  = sharedError.NewDomainError(chapterAlreadyExists)
	ErrChapterMemberNotFound = sharedError.NewDomainError(chapterMemberNotFound)
)

func init() {
	sharedError.RegisterDomainErrorResponse(chapterNotFound, sharedError.ErrorResponse{
		Status:  http.StatusNotFound,
		Code:    "CHAPTER-001",
		Message: "Chapter not found.",
	})

	sharedError.RegisterDomainErrorResponse(chapterAlreadyExists, sharedError.ErrorResponse{
		Status:  http.StatusConflict,
		Code:    "CHAPTER-002",
		Message: "A chapter with this name already exists.",
	})

	sharedError.RegisterDomainErrorResponse(chapterMemberNotFound, sharedError.ErrorResponse{
		Status:  http.StatusNotFound,
		Code:    "CHAPTER-003",
		Message: "This member has no relationship with the chapter.",
	})
}
