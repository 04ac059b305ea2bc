package router

import (
	"github.com/gin-gonic/gin"
	"github.com/verenigingen/membership-api/internal/application"
	"github.com/verenigingen/membership-api/internal/auth"
	"github.com/verenigingen/membership-api/internal/chapter"
	"github.com/verenigingen/membership-api/internal/config"
	"github.com/verenigingen/membership-api/internal/draft"
	"github.com/verenigingen/membership-api/internal/enrollment"
	"github.com/verenigingen/membership-api/internal/member"
	"github.com/verenigingen/membership-api/internal/membership"
	"github.com/verenigingen/membership-api/internal/meta"
	"github.com/verenigingen/membership-api/internal/model"
	"github.com/verenigingen/membership-api/internal/notification"
	"github.com/verenigingen/membership-api/internal/shared/cache"
	"github.com/verenigingen/membership-api/internal/shared/database"
	"github.com/verenigingen/membership-api/internal/shared/middleware"
	"github.com/verenigingen/membership-api/internal/shared/token"
	"github.com/verenigingen/membership-api/internal/volunteer"
)

// Setup wires all application routes with dependency injection. The returned
// outbox service backs the background enrollment worker.
func Setup(router *gin.Engine, cfg *config.Config, db *database.DB, redis *cache.Client) *enrollment.OutboxService {
	// Meta handler (health check)
	metaHandler := meta.NewHandler(cfg, db, redis)
	router.GET("/health", metaHandler.Health)

	// repository
	memberRepository := member.NewMemberRepository()
	chapterRepository := chapter.NewChapterRepository()
	membershipRepository := membership.NewMembershipRepository()
	staffRepository := auth.NewStaffRepository()

	// shared services
	tokenManager := token.NewJWTManager(cfg)
	counterStore := middleware.NewRedisCounterStore(redis.Redis())
	draftStore := draft.NewRedisStore(redis.Redis(), cfg.Application.DraftTTL)

	// service
	authService := auth.NewAuthService(db.DB, staffRepository, tokenManager)
	memberService := member.NewMemberService(db.DB, memberRepository)
	chapterService := chapter.NewChapterService(db.DB, chapterRepository, memberRepository)
	membershipService := membership.NewMembershipService(db.DB, membershipRepository)
	volunteerService := volunteer.NewVolunteerService(db.DB)
	outbox := enrollment.NewOutboxService(db.DB, chapterService, cfg)
	notifier := notification.NewEmailService(cfg)
	applicationService := application.NewApplicationService(
		db.DB, cfg,
		memberRepository, membershipRepository, membershipService,
		chapterService, volunteerService, outbox, notifier,
	)

	// handler
	authHandler := auth.NewAuthHandler(authService)
	memberHandler := member.NewMemberHandler(memberService)
	chapterHandler := chapter.NewChapterHandler(chapterService)
	applicationHandler := application.NewApplicationHandler(applicationService, draftStore)

	// API v1 routes
	authV1 := router.Group("/api/v1/auth")
	{
		authV1.POST("/login", authHandler.Login)
	}

	// Public application form endpoints, per-IP rate limited.
	applicationV1 := router.Group("/api/v1/applications")
	{
		applicationV1.POST("",
			middleware.RateLimit(counterStore, "submit_application", cfg.Application.SubmitPerHour),
			applicationHandler.Submit)
		applicationV1.GET("/status/:application_id", applicationHandler.Status)
		applicationV1.GET("/form-data", applicationHandler.FormData)
		applicationV1.POST("/drafts", applicationHandler.SaveDraft)
		applicationV1.GET("/drafts/:draft_id", applicationHandler.LoadDraft)
	}

	validationV1 := router.Group("/api/v1/validations")
	validationV1.Use(middleware.RateLimit(counterStore, "validate_field", cfg.Application.ValidatePerHour))
	{
		validationV1.POST("/email", applicationHandler.ValidateEmail)
		validationV1.POST("/postal-code", applicationHandler.ValidatePostalCode)
		validationV1.POST("/phone", applicationHandler.ValidatePhone)
		validationV1.POST("/birth-date", applicationHandler.ValidateBirthDate)
		validationV1.POST("/name", applicationHandler.ValidateName)
	}

	// Staff review endpoints.
	reviewV1 := router.Group("/api/v1/applications")
	reviewV1.Use(middleware.JWT(cfg), middleware.RequireRoles(model.ReviewerRoles...))
	{
		reviewV1.POST("/:member_id/approve", applicationHandler.Approve)
		reviewV1.POST("/:member_id/reject", applicationHandler.Reject)
	}

	chapterV1 := router.Group("/api/v1/chapters")
	chapterV1.Use(middleware.JWT(cfg), middleware.RequireRoles(model.ReviewerRoles...))
	{
		chapterV1.POST("", chapterHandler.Create)
		chapterV1.GET("/:chapter/members", chapterHandler.ListMembers)
		chapterV1.DELETE("/:chapter/members/:member", chapterHandler.RemoveMember)
	}

	memberV1 := router.Group("/api/v1/members")
	memberV1.Use(middleware.JWT(cfg), middleware.RequireRoles(model.ReviewerRoles...))
	{
		memberV1.GET("/:id", memberHandler.GetDetail)
	}

	return outbox
}
