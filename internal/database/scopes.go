package database

import (
	"gorm.io/gorm"

	"github.com/yukikurage/taskmaster-api/internal/models"
	"github.com/yukikurage/taskmaster-api/internal/utils"
)

// Paginate limits a query to one page.
func Paginate(params utils.PaginationParams) func(db *gorm.DB) *gorm.DB {
	return func(db *gorm.DB) *gorm.DB {
		return db.Offset(params.Offset).Limit(params.Limit)
	}
}

// OldestFirst orders rows by creation time with the primary key as tie breaker.
func OldestFirst(table string) func(db *gorm.DB) *gorm.DB {
	return func(db *gorm.DB) *gorm.DB {
		return db.Order(table + ".created_at ASC").Order(table + ".id ASC")
	}
}

// TaskAttributes narrows a task query by status and priority. Nil values match
// every task.
func TaskAttributes(status *models.TaskStatus, priority *models.TaskPriority) func(db *gorm.DB) *gorm.DB {
	return func(db *gorm.DB) *gorm.DB {
		if status != nil {
			db = db.Where("tasks.status = ?", *status)
		}
		if priority != nil {
			db = db.Where("tasks.priority = ?", *priority)
		}
		return db
	}
}

// DueSoonest orders tasks by due date, earliest first.
func DueSoonest(db *gorm.DB) *gorm.DB {
	return db.Order("tasks.due_date ASC").Order("tasks.id ASC")
}
