package service

import (
	"context"
	"io"
	"net/http"

	"github.com/rs/zerolog"
	"github.com/user-management-console/internal/auth"
	"github.com/user-management-console/internal/config"
	"github.com/user-management-console/internal/models"
	"github.com/user-management-console/internal/repository"
	"github.com/user-management-console/internal/validation"
)

// DirectoryService defines the roster operations
type DirectoryService interface {
	Add(ctx context.Context, u *models.NewUser) (*models.UserView, error)
	SignUp(ctx context.Context, req *models.SignUpRequest) (*models.UserView, error)
	Authenticate(ctx context.Context, identifier, password string) (*models.User, error)
	Clear(ctx context.Context, actingRole models.Role) error
	FilterByRole(ctx context.Context, role string) ([]models.UserView, error)
	RoleOptions(ctx context.Context) ([]string, error)
	RoleDistribution(ctx context.Context) (map[string]int, error)
	Count(ctx context.Context) (int, error)
	Reload(ctx context.Context) error
}

// SessionService defines the login state machine and role-gated actions
type SessionService interface {
	Start() *models.Session
	Resume(id string) *models.Session
	Get(id string) (*models.Session, bool)
	Snapshot(s *models.Session) models.Session
	Login(ctx context.Context, s *models.Session, identifier, password string) (*models.UserView, error)
	Logout(s *models.Session)
	SignUp(ctx context.Context, s *models.Session, req *models.SignUpRequest) (*models.UserView, error)
	AddUser(ctx context.Context, s *models.Session, u *models.NewUser) (*models.UserView, error)
	ClearAllUsers(ctx context.Context, s *models.Session) error
	Navigate(s *models.Session, page string) error
	Active() int
}

// UploadService defines the upload log operations
type UploadService interface {
	Record(ctx context.Context, username, filename string) error
	Receive(ctx context.Context, username, filename string, blob io.Reader) (*models.UploadReceipt, error)
	List(ctx context.Context) ([]*models.Upload, error)
	Count(ctx context.Context) (int, error)
	Reload(ctx context.Context) error
}

// ExportService defines roster export operations
type ExportService interface {
	StreamUsers(ctx context.Context, w http.ResponseWriter, format, role string) error
}

// Services holds all service interfaces
type Services struct {
	Directory DirectoryService
	Session   SessionService
	Upload    UploadService
	Export    ExportService
}

// NewServices creates all services
func NewServices(repos *repository.Repositories, hasher *auth.Hasher, cfg *config.Config, log zerolog.Logger) *Services {
	validator := validation.NewValidator()
	directory := newDirectoryService(repos.User, hasher, validator, log)

	return &Services{
		Directory: directory,
		Session:   newSessionService(directory, validator, log),
		Upload:    newUploadService(repos.Upload, cfg.Upload.PreviewBytes, log),
		Export:    newExportService(directory, log),
	}
}
