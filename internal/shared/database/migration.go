package database

import (
	"errors"
	"fmt"
	"log/slog"

	"github.com/verenigingen/membership-api/internal/config"
	"github.com/verenigingen/membership-api/internal/model"

	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

// Migrate executes database migration based on configuration
func Migrate(db *gorm.DB, cfg *config.Config) error {
	if !cfg.Database.IsAutoMigrate {
		slog.Info("database migration disabled",
			"auto_migrate", false, "env", cfg.App.Env,
		)
		return nil
	}

	slog.Warn("database migration starting - all tables will be dropped and recreated",
		"auto_migrate", true, "env", cfg.App.Env,
	)

	// Safety check: prevent accidental data loss in production
	if cfg.App.Env == "prod" || cfg.App.Env == "production" {
		return errors.New("DB_AUTO_MIGRATE=true is not allowed in production, blocked to prevent data loss")
	}

	slog.Info("dropping existing tables")

	// Order matters: drop in reverse dependency order (FK constraints)
	tableNames := []string{
		"enrollment_intent",
		"dues_schedule",
		"invoice",
		"membership",
		"volunteer_skill",
		"volunteer",
		"chapter_member",
		"chapter",
		"address",
		"member",
		"membership_type",
		"staff",
	}

	for _, tableName := range tableNames {
		// Check if table exists (Oracle)
		var count int64
		db.Raw("SELECT COUNT(*) FROM USER_TABLES WHERE UPPER(TABLE_NAME) = UPPER(?)", tableName).Scan(&count)

		if count > 0 {
			// Oracle: DROP TABLE with CASCADE CONSTRAINTS
			dropSQL := fmt.Sprintf("DROP TABLE %s CASCADE CONSTRAINTS", tableName)
			if err := db.Exec(dropSQL).Error; err != nil {
				slog.Debug("drop table failed", "table", tableName, "error", err)
			} else {
				slog.Debug("table dropped", "table", tableName)
			}
		}
	}

	slog.Info("creating tables")
	if err := runAutoMigrate(db); err != nil {
		return fmt.Errorf("create tables: %w", err)
	}

	if err := seedAdmin(db, cfg); err != nil {
		return fmt.Errorf("seed admin account: %w", err)
	}

	slog.Info("migration complete")
	return nil
}

// runAutoMigrate creates tables based on model definitions
func runAutoMigrate(db *gorm.DB) error {
	// Create in dependency order: independent tables first, FK-referencing
	// tables after.
	models := []interface{}{
		&model.Staff{},
		&model.MembershipType{},
		&model.Address{},
		&model.Member{},
		&model.Chapter{},
		&model.ChapterMember{},
		&model.Volunteer{},
		&model.VolunteerSkill{},
		&model.Membership{},
		&model.Invoice{},
		&model.DuesSchedule{},
		&model.EnrollmentIntent{},
	}

	for _, m := range models {
		if err := db.AutoMigrate(m); err != nil {
			return fmt.Errorf("migrate %T: %w", m, err)
		}
		slog.Debug("table created", "model", fmt.Sprintf("%T", m))
	}

	return nil
}

// seedAdmin creates the initial reviewer account from configuration so the
// approve/reject endpoints are usable on a fresh database.
func seedAdmin(db *gorm.DB, cfg *config.Config) error {
	if cfg.Application.AdminEmail == "" || cfg.Application.AdminPassword == "" {
		slog.Info("no admin account configured, skipping seed")
		return nil
	}

	var count int64
	if err := db.Model(&model.Staff{}).
		Where("email = ?", cfg.Application.AdminEmail).
		Count(&count).Error; err != nil {
		return err
	}
	if count > 0 {
		return nil
	}

	hashed, err := bcrypt.GenerateFromPassword([]byte(cfg.Application.AdminPassword), bcrypt.DefaultCost)
	if err != nil {
		return fmt.Errorf("hash admin password: %w", err)
	}

	admin := &model.Staff{
		Email:    cfg.Application.AdminEmail,
		Name:     "Administrator",
		Password: string(hashed),
		Role:     model.RoleSystemManager,
	}
	if err := db.Create(admin).Error; err != nil {
		return err
	}

	slog.Info("admin account seeded", "email", cfg.Application.AdminEmail)
	return nil
}
