package database

import (
	"database/sql"
	"fmt"
	"log"

	"github.com/Biswajit213/gym-management/internal/config"

	_ "github.com/lib/pq"
)

func InitDB() (*sql.DB, error) {
	host := config.GetEnv("DB_HOST", "localhost")
	port := config.GetEnv("DB_PORT", "5432")
	user := config.GetEnv("DB_USER", "gym_user")
	password := config.GetEnv("DB_PASSWORD", "gym_password")
	dbname := config.GetEnv("DB_NAME", "gym_db")
	sslmode := config.GetEnv("DB_SSLMODE", "disable")

	psqlInfo := fmt.Sprintf("host=%s port=%s user=%s password=%s dbname=%s sslmode=%s",
		host, port, user, password, dbname, sslmode)

	db, err := sql.Open("postgres", psqlInfo)
	if err != nil {
		return nil, err
	}

	if err = db.Ping(); err != nil {
		return nil, err
	}

	log.Println("Database connected successfully")
	return db, nil
}

func RunMigrations(db *sql.DB) error {
	// All entities live in one documents table; the billing code only
	// assumes put/get/update/query plus transactional batch writes.
	documentsTable := `
	CREATE TABLE IF NOT EXISTS documents (
		collection VARCHAR(64) NOT NULL,
		id VARCHAR(128) NOT NULL,
		doc JSONB NOT NULL,
		updated_at TIMESTAMP DEFAULT CURRENT_TIMESTAMP,
		PRIMARY KEY (collection, id)
	);`

	memberIndex := `
	CREATE INDEX IF NOT EXISTS idx_documents_member_id
	ON documents (collection, (doc->>'member_id'));`

	statusIndex := `
	CREATE INDEX IF NOT EXISTS idx_documents_status
	ON documents (collection, (doc->>'status'));`

	createdAtIndex := `
	CREATE INDEX IF NOT EXISTS idx_documents_created_at
	ON documents (collection, (doc->>'created_at'));`

	statements := []string{
		documentsTable,
		memberIndex,
		statusIndex,
		createdAtIndex,
	}

	for _, stmt := range statements {
		if _, err := db.Exec(stmt); err != nil {
			return fmt.Errorf("failed to run migration: %v", err)
		}
	}

	log.Println("Database migrations completed successfully")
	return nil
}
