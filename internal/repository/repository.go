package repository

import (
	"context"

	"github.com/user-management-console/internal/models"
	"github.com/user-management-console/internal/store"
)

// UserRepository persists the roster as a whole table
type UserRepository interface {
	LoadAll(ctx context.Context) ([]*models.User, error)
	SaveAll(ctx context.Context, users []*models.User) error
}

// UploadRepository persists the upload log as a whole table
type UploadRepository interface {
	LoadAll(ctx context.Context) ([]*models.Upload, error)
	SaveAll(ctx context.Context, uploads []*models.Upload) error
}

// Repositories holds all repository interfaces
type Repositories struct {
	User   UserRepository
	Upload UploadRepository
}

// New creates all repositories on top of the given store
func New(s *store.Store, userTable, uploadTable string) *Repositories {
	return &Repositories{
		User:   NewUserRepo(s, userTable),
		Upload: NewUploadRepo(s, uploadTable),
	}
}
