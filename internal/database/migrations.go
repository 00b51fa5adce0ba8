package database

import (
	"fmt"

	"github.com/yukikurage/taskmaster-api/internal/logger"
	"gorm.io/gorm"
)

// AddIndexes adds composite indexes the model tags cannot express
func AddIndexes(db *gorm.DB) error {
	log := logger.GetLogger()

	indexes := []struct {
		table   string
		name    string
		columns string
	}{
		// Task listing filters within a project
		{"tasks", "idx_tasks_project_status", "project_id, status"},
		{"tasks", "idx_tasks_project_priority", "project_id, priority"},

		// Pending invitations per user
		{"invitations", "idx_invitations_user_status", "invited_user_id, status"},

		// Notifications per user, newest first
		{"task_assignment_notifications", "idx_notifications_user_created", "user_id, created_at"},
	}

	for _, idx := range indexes {
		if db.Migrator().HasIndex(idx.table, idx.name) {
			log.Debug("index already exists, skipping", "index", idx.name)
			continue
		}

		sql := fmt.Sprintf("CREATE INDEX %s ON %s (%s)", idx.name, idx.table, idx.columns)
		if err := db.Exec(sql).Error; err != nil {
			return fmt.Errorf("failed to create index %s: %w", idx.name, err)
		}

		log.Info("created index", "index", idx.name, "table", idx.table, "columns", idx.columns)
	}

	return nil
}

// MigrateDatabase runs all database migrations
func MigrateDatabase(db *gorm.DB) error {
	log := logger.GetLogger()
	log.Info("running database migrations")

	if err := db.AutoMigrate(Models()...); err != nil {
		return fmt.Errorf("failed to run migrations: %w", err)
	}

	if err := AddIndexes(db); err != nil {
		return fmt.Errorf("failed to add indexes: %w", err)
	}

	log.Info("database migrations completed")
	return nil
}
