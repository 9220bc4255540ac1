package database

import (
	"errors"
	"io"
	"log"
	"log/slog"
	"os"
	"time"

	config "github.com/anjiri1684/pkl_sertifikasi/configs"
	"github.com/anjiri1684/pkl_sertifikasi/models"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"
)

var DB *gorm.DB

// Open builds a *gorm.DB with the settings every environment shares.
func Open(dialector gorm.Dialector) (*gorm.DB, error) {
	return open(dialector, os.Stdout)
}

func open(dialector gorm.Dialector, logOut io.Writer) (*gorm.DB, error) {
	return gorm.Open(dialector, &gorm.Config{
		PrepareStmt:                              false,
		SkipDefaultTransaction:                   true,
		DisableForeignKeyConstraintWhenMigrating: true,
		TranslateError:                           true,
		Logger:                                   newGormLogger(logOut),
	})
}

// Lookups that expect a miss (sequence rows, eligibility checks) return
// gorm.ErrRecordNotFound routinely, so it is not logged.
func newGormLogger(out io.Writer) gormlogger.Interface {
	return gormlogger.New(log.New(out, "\r\n", log.LstdFlags), gormlogger.Config{
		SlowThreshold:             200 * time.Millisecond,
		LogLevel:                  gormLogLevel(),
		IgnoreRecordNotFoundError: true,
		Colorful:                  false,
	})
}

func gormLogLevel() gormlogger.LogLevel {
	switch config.ConfigDefault("DB_LOG_LEVEL", "warn") {
	case "silent":
		return gormlogger.Silent
	case "error":
		return gormlogger.Error
	case "info":
		return gormlogger.Info
	}
	return gormlogger.Warn
}

func ConnectDB() {
	dsn := config.Config("DATABASE_URL")
	db, err := Open(postgres.Open(dsn))
	if err != nil {
		slog.Error("🔥 Failed to connect to database", "error", err)
		os.Exit(1)
	}
	DB = db
	slog.Info("✅ Database connected successfully")
}

var allModels = []any{
	&models.User{},
	&models.InternshipPosition{},
	&models.CertificationProgram{},
	&models.CertificationBatch{},
	&models.ApplicationSequence{},
	&models.InternshipRegistration{},
	&models.CertificationRegistration{},
	&models.InternshipAssessment{},
	&models.CertificationAssessment{},
	&models.WeeklyReport{},
	&models.InternshipDocument{},
	&models.CertificationTask{},
	&models.Certificate{},
	&models.ProgramReview{},
}

func Migrate(db *gorm.DB) error {
	if err := db.AutoMigrate(allModels...); err != nil {
		return err
	}
	slog.Info("✅ Database migration successful")
	return nil
}

type AdminSeed struct {
	FullName string
	Email    string
	Password string
}

func AdminSeedFromEnv() AdminSeed {
	return AdminSeed{
		FullName: config.ConfigDefault("ADMIN_FULL_NAME", "Administrator"),
		Email:    config.Config("ADMIN_EMAIL"),
		Password: config.Config("ADMIN_PASSWORD"),
	}
}

// SeedAdmin creates the admin account once; an existing email is left alone.
func SeedAdmin(db *gorm.DB, seed AdminSeed) error {
	if seed.Email == "" || seed.Password == "" {
		return errors.New("ADMIN_EMAIL and ADMIN_PASSWORD must be set")
	}

	var count int64
	if err := db.Model(&models.User{}).Where("email = ?", seed.Email).Count(&count).Error; err != nil {
		return err
	}
	if count > 0 {
		slog.Info("Admin user already exists.", "email", seed.Email)
		return nil
	}

	hashedPassword, err := bcrypt.GenerateFromPassword([]byte(seed.Password), bcrypt.DefaultCost)
	if err != nil {
		return err
	}

	adminUser := models.User{
		FullName: seed.FullName,
		Email:    seed.Email,
		Password: string(hashedPassword),
		Role:     models.RoleAdmin,
		IsActive: true,
	}
	if err := db.Create(&adminUser).Error; err != nil {
		return err
	}

	slog.Info("✅ Admin user seeded successfully", "email", seed.Email)
	return nil
}
