package mocks

import (
	"context"
	"sync"

	"github.com/user-management-console/internal/models"
	"github.com/user-management-console/internal/repository"
)

// Verify interface compliance
var (
	_ repository.UserRepository   = (*MockUserRepository)(nil)
	_ repository.UploadRepository = (*MockUploadRepository)(nil)
)

// MockUserRepository is an in-memory UserRepository
type MockUserRepository struct {
	mu        sync.Mutex
	Users     []*models.User
	LoadError error
	SaveError error
	LoadCalls int
	SaveCalls int
}

func NewMockUserRepository(users ...*models.User) *MockUserRepository {
	return &MockUserRepository{Users: users}
}

func (m *MockUserRepository) LoadAll(ctx context.Context) ([]*models.User, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.LoadCalls++
	if m.LoadError != nil {
		return nil, m.LoadError
	}
	// Copy like a fresh read from disk
	out := make([]*models.User, len(m.Users))
	for i, u := range m.Users {
		c := *u
		out[i] = &c
	}
	return out, nil
}

func (m *MockUserRepository) SaveAll(ctx context.Context, users []*models.User) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.SaveCalls++
	if m.SaveError != nil {
		return m.SaveError
	}
	m.Users = make([]*models.User, len(users))
	for i, u := range users {
		c := *u
		m.Users[i] = &c
	}
	return nil
}

// Snapshot returns the persisted users
func (m *MockUserRepository) Snapshot() []*models.User {
	m.mu.Lock()
	defer m.mu.Unlock()
	return append([]*models.User(nil), m.Users...)
}

// MockUploadRepository is an in-memory UploadRepository
type MockUploadRepository struct {
	mu        sync.Mutex
	Uploads   []*models.Upload
	LoadError error
	SaveError error
	SaveCalls int
}

func NewMockUploadRepository() *MockUploadRepository {
	return &MockUploadRepository{}
}

func (m *MockUploadRepository) LoadAll(ctx context.Context) ([]*models.Upload, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.LoadError != nil {
		return nil, m.LoadError
	}
	out := make([]*models.Upload, len(m.Uploads))
	for i, u := range m.Uploads {
		c := *u
		out[i] = &c
	}
	return out, nil
}

func (m *MockUploadRepository) SaveAll(ctx context.Context, uploads []*models.Upload) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.SaveCalls++
	if m.SaveError != nil {
		return m.SaveError
	}
	m.Uploads = make([]*models.Upload, len(uploads))
	for i, u := range uploads {
		c := *u
		m.Uploads[i] = &c
	}
	return nil
}

// Snapshot returns the persisted uploads
func (m *MockUploadRepository) Snapshot() []*models.Upload {
	m.mu.Lock()
	defer m.mu.Unlock()
	return append([]*models.Upload(nil), m.Uploads...)
}
