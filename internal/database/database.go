package database

import (
	"fmt"
	"log"

	"github.com/PuzzleTechHub/myus/internal/config"
	"github.com/PuzzleTechHub/myus/internal/models"

	"gorm.io/driver/postgres"
	"gorm.io/gorm"
)

func Connect(cfg *config.Config) *gorm.DB {
	dsn := fmt.Sprintf(
		"host=%s port=%s user=%s password=%s dbname=%s sslmode=disable",
		cfg.DBHost, cfg.DBPort, cfg.DBUser, cfg.DBPassword, cfg.DBName,
	)

	// TranslateError surfaces unique-constraint violations as
	// gorm.ErrDuplicatedKey so guess races can be reinterpreted as domain
	// outcomes instead of storage faults.
	db, err := gorm.Open(postgres.Open(dsn), &gorm.Config{TranslateError: true})
	if err != nil {
		log.Fatalf("failed to connect to database: %v", err)
	}

	log.Println("database connected")
	return db
}

func AutoMigrate(db *gorm.DB) {
	if err := Migrate(db); err != nil {
		log.Fatalf("failed to auto-migrate: %v", err)
	}
	log.Println("database migrated")
}

func Migrate(db *gorm.DB) error {
	return db.AutoMigrate(
		&models.User{},
		&models.Hunt{},
		&models.HuntOrganizer{},
		&models.Puzzle{},
		&models.GuessResponse{},
		&models.Team{},
		&models.TeamMember{},
		&models.TeamInvite{},
		&models.Guess{},
		&models.ExtraGuessGrant{},
	)
}
