package db

import (
	"database/sql"
	"fmt"
	"log"

	_ "github.com/lib/pq"

	"github.com/fathe4/SM-BKD-sub000/models"
	"github.com/golang-migrate/migrate/v4"
	"github.com/golang-migrate/migrate/v4/database/postgres"
	_ "github.com/golang-migrate/migrate/v4/source/file"
)

func InitDB(config models.DBConfig) (*sql.DB, error) {
	DBpath := fmt.Sprintf("host=%s port=%s user=%s password=%s dbname=%s sslmode=disable",
		config.DBHost, config.DBPort, config.DBUser, config.DBPassword, config.DBName)

	DB, err := sql.Open("postgres", DBpath)
	if err != nil {
		log.Println("Failed to Connect with Feed_service DB", err.Error())
		return nil, err
	}
	err = applyMigration(DB, config)
	if err != nil {
		return nil, err
	}
	return DB, nil
}

func applyMigration(db *sql.DB, config models.DBConfig) error {
	driver, err := postgres.WithInstance(db, &postgres.Config{})
	if err != nil {
		log.Println("Using Same Connection for Migrations failed :", err.Error())
		return err
	}
	sourceURL := config.MigrationsPath
	if sourceURL == "" {
		sourceURL = "file://db/migrations"
	}
	m, err := migrate.NewWithDatabaseInstance(
		sourceURL,
		config.DBName,
		driver)
	if err != nil {
		log.Println(err.Error())
		return err
	}

	// Migrations run in transactions in postgres, a failed one rolls back
	if err := m.Up(); err != nil && err != migrate.ErrNoChange {
		log.Println("Migration of Database failed: ", err.Error())
		return err
	}

	log.Println("Migrations applied successfully!")
	return nil
}
