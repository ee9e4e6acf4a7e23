package main

import (
	"errors"
	"strings"

	"gorm.io/driver/postgres"
	"gorm.io/gorm"

	"seungpyo.lee/Speceal/internal/config"
	"seungpyo.lee/Speceal/internal/domain"
	"seungpyo.lee/Speceal/internal/util"
	"seungpyo.lee/Speceal/pkg/logger"
)

// createadmin seeds (or promotes) the administrator account from the ADMIN_*
// environment variables. Safe to run repeatedly.
func main() {
	conf := config.Load()
	log := logger.New(conf.Environment)

	if conf.AdminEmail == "" || conf.AdminPassword == "" {
		log.Fatal("ADMIN_EMAIL and ADMIN_PASSWORD must be set")
	}

	db, err := gorm.Open(postgres.Open(conf.PostgresDSN), &gorm.Config{})
	if err != nil {
		log.Fatal("failed to connect to database: %v", err)
	}
	if err := db.AutoMigrate(&domain.User{}, &domain.RefreshToken{}); err != nil {
		log.Fatal("failed to migrate database: %v", err)
	}

	email := strings.ToLower(strings.TrimSpace(conf.AdminEmail))

	var existing domain.User
	err = db.Where("email = ?", email).First(&existing).Error
	switch {
	case err == nil:
		if existing.Role == domain.RoleAdmin {
			log.Info("admin account %s already exists", email)
			return
		}
		err = db.Model(&existing).Updates(map[string]interface{}{
			"role":              domain.RoleAdmin,
			"is_email_verified": true,
			"is_active":         true,
		}).Error
		if err != nil {
			log.Fatal("failed to promote user to admin: %v", err)
		}
		log.Info("promoted existing user %s to admin", email)
	case errors.Is(err, gorm.ErrRecordNotFound):
		hashed, err := util.HashPassword(conf.AdminPassword)
		if err != nil {
			log.Fatal("failed to hash admin password: %v", err)
		}
		admin := domain.User{
			Username:        conf.AdminUsername,
			Email:           email,
			Password:        hashed,
			FirstName:       "Admin",
			LastName:        "User",
			Role:            domain.RoleAdmin,
			IsEmailVerified: true,
			IsActive:        true,
		}
		if err := db.Create(&admin).Error; err != nil {
			log.Fatal("failed to create admin account: %v", err)
		}
		log.Info("created admin account %s (id=%d)", email, admin.ID)
	default:
		log.Fatal("failed to look up admin account: %v", err)
	}
}
