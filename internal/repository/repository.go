package repository

import (
	"fmt"

	"github.com/yourusername/fund-compare/internal/database"
)

// Repositories holds all repository implementations
type Repositories struct {
	NAVHistory NAVHistoryRepository
}

// NewRepositories creates and returns all repository implementations
func NewRepositories(db *database.DB) (*Repositories, error) {
	if db == nil {
		return nil, fmt.Errorf("database connection is required")
	}

	return &Repositories{
		NAVHistory: NewPostgresNAVHistoryRepository(db),
	}, nil
}
