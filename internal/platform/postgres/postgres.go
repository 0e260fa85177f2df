package postgres

import (
	"context"
	"fmt"
	"time"

	"gorm.io/driver/postgres"
	"gorm.io/gorm"
)

func New(ctx context.Context, dsn string) (*gorm.DB, error) {
	db, err := gorm.Open(postgres.Open(dsn), &gorm.Config{TranslateError: true})
	if err != nil {
		return nil, fmt.Errorf("open postgres failed: %w", err)
	}

	sqlDB, err := db.DB()
	if err != nil {
		return nil, fmt.Errorf("get postgres sql db failed: %w", err)
	}

	sqlDB.SetMaxIdleConns(10)
	sqlDB.SetMaxOpenConns(50)
	sqlDB.SetConnMaxLifetime(1 * time.Hour)
	sqlDB.SetConnMaxIdleTime(30 * time.Minute)

	pingCtx, cancel := context.WithTimeout(ctx, 3*time.Second)
	defer cancel()
	if err := sqlDB.PingContext(pingCtx); err != nil {
		return nil, fmt.Errorf("ping postgres failed: %w", err)
	}

	return db, nil
}

// MigrateSearchIndex installs the full-text search structures AutoMigrate
// cannot express: the unaccent extension, the tsvector column over document
// content, its GIN index, and the unique indexes backing the duplicate guard.
func MigrateSearchIndex(db *gorm.DB) error {
	statements := []string{
		`CREATE EXTENSION IF NOT EXISTS unaccent`,
		`ALTER TABLE documents ADD COLUMN IF NOT EXISTS search_vector tsvector`,
		`CREATE INDEX IF NOT EXISTS idx_documents_search_vector ON documents USING GIN (search_vector)`,
		`CREATE UNIQUE INDEX IF NOT EXISTS idx_documents_file_path ON documents (file_path)`,
		`CREATE UNIQUE INDEX IF NOT EXISTS idx_documents_title_lower ON documents (lower(title))`,
	}
	for _, stmt := range statements {
		if err := db.Exec(stmt).Error; err != nil {
			return fmt.Errorf("search index migration failed: %w", err)
		}
	}
	return nil
}
