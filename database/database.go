package database

import (
	"fmt"
	"log"

	"eduplatform/config"
	"eduplatform/models"

	"gorm.io/driver/postgres"
	"gorm.io/gorm"
)

// InitDB establishes a connection to PostgreSQL and runs migrations.
func InitDB(cfg *config.Config) (*gorm.DB, error) {
	dsn := fmt.Sprintf(
		"host=%s user=%s password=%s dbname=%s port=%s sslmode=disable",
		cfg.DBHost, cfg.DBUser, cfg.DBPassword, cfg.DBName, cfg.DBPort,
	)

	db, err := gorm.Open(postgres.Open(dsn), &gorm.Config{TranslateError: true})
	if err != nil {
		return nil, err
	}

	sqlDB, err := db.DB()
	if err != nil {
		return nil, err
	}
	sqlDB.SetMaxOpenConns(10)
	sqlDB.SetMaxIdleConns(5)
	sqlDB.SetConnMaxLifetime(0)

	if err := Migrate(db); err != nil {
		return nil, err
	}

	return db, nil
}

// Migrate creates or updates the schema for all models.
func Migrate(db *gorm.DB) error {
	log.Println("Running migrations...")

	return db.AutoMigrate(
		&models.User{},
		&models.Course{},
		&models.Section{},
		&models.Lecture{},
		&models.Review{},
		&models.Enrollment{},
		&models.Discussion{},
		&models.Quiz{},
		&models.QuizQuestion{},
	)
}
