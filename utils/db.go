package utils

import (
	"sync"

	"gorm.io/gorm"
)

var (
	db *gorm.DB
	mu sync.RWMutex
)

// InitDB stores the shared database connection for callers that cannot
// take it as a constructor argument (middlewares in particular).
func InitDB(database *gorm.DB) {
	mu.Lock()
	defer mu.Unlock()
	db = database
}

// GetDB returns the database connection.
func GetDB() *gorm.DB {
	mu.RLock()
	defer mu.RUnlock()
	return db
}
