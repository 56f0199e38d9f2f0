package db

import (
	"fmt"

	"github.com/jinzhu/gorm"
	_ "github.com/jinzhu/gorm/dialects/postgres"

	"github.com/lektor-lms/lektor/config"
	"github.com/lektor-lms/lektor/models"
)

// Open connects to Postgres. The handle is constructed once at startup and
// passed down explicitly; there is no package-level instance.
func Open(cfg *config.Config) (*gorm.DB, error) {
	dsn := fmt.Sprintf("host=%s port=%d user=%s dbname=%s password=%s sslmode=%s",
		cfg.DBHost, cfg.DBPort, cfg.DBUser, cfg.DBName, cfg.DBPassword, cfg.DBSSLMode)

	gdb, err := gorm.Open("postgres", dsn)
	if err != nil {
		return nil, fmt.Errorf("failed to connect database: %w", err)
	}

	gdb.SingularTable(true)
	gdb.LogMode(cfg.DBLogMode)

	return gdb, nil
}

// AutoMigrate creates/updates the schema for every table the engine
// queries.
func AutoMigrate(gdb *gorm.DB) error {
	return gdb.AutoMigrate(
		&models.User{},
		&models.Organization{},
		&models.Course{},
		&models.CourseMember{},
		&models.CourseContentType{},
		&models.CourseContent{},
		&models.CourseSubmissionGroup{},
		&models.CourseSubmissionGroupMember{},
		&models.Result{},
	).Error
}
