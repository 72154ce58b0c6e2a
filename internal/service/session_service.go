package service

import (
	"context"
	"errors"
	"sync"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"github.com/user-management-console/internal/models"
	"github.com/user-management-console/internal/validation"
)

// sessionService is the concrete implementation of SessionService. Only
// logged-in sessions are registered; they live in memory until logout or
// process exit and nothing expires them. A logged-out session carries no
// state beyond its id, so it is rebuilt on demand instead of stored.
type sessionService struct {
	directory DirectoryService
	validator *validation.Validator
	log       zerolog.Logger

	mu       sync.Mutex
	sessions map[string]*models.Session
}

// newSessionService creates a new SessionService
func newSessionService(directory DirectoryService, validator *validation.Validator, log zerolog.Logger) *sessionService {
	return &sessionService{
		directory: directory,
		validator: validator,
		log:       log.With().Str("service", "session").Logger(),
		sessions:  make(map[string]*models.Session),
	}
}

// Start creates a logged-out session on the login page. It is registered
// on its first successful login.
func (s *sessionService) Start() *models.Session {
	return loggedOut(uuid.New().String())
}

// Resume returns the registered session for id, or a fresh logged-out
// session carrying id when none is registered
func (s *sessionService) Resume(id string) *models.Session {
	if sess, ok := s.Get(id); ok {
		return sess
	}
	return loggedOut(id)
}

func loggedOut(id string) *models.Session {
	return &models.Session{
		ID:          id,
		CurrentPage: models.PageLogin,
	}
}

// Get looks up a session by id
func (s *sessionService) Get(id string) (*models.Session, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	sess, ok := s.sessions[id]
	return sess, ok
}

// Snapshot returns a copy of the session safe to read without locking
func (s *sessionService) Snapshot(sess *models.Session) models.Session {
	s.mu.Lock()
	defer s.mu.Unlock()

	snap := *sess
	if sess.CurrentUser != nil {
		u := *sess.CurrentUser
		snap.CurrentUser = &u
	}
	return snap
}

// Login moves the session to LoggedIn when the credentials match a roster
// entry. A failed attempt leaves the session untouched.
func (s *sessionService) Login(ctx context.Context, sess *models.Session, identifier, password string) (*models.UserView, error) {
	req := &models.LoginRequest{Identifier: identifier, Password: password}
	if err := s.validator.ValidateLogin(req); err != nil {
		return nil, err
	}

	// Pick up changes other processes made to the table since the last load
	if err := s.directory.Reload(ctx); err != nil {
		return nil, err
	}

	user, err := s.directory.Authenticate(ctx, req.Identifier, req.Password)
	if err != nil {
		if errors.Is(err, models.ErrAuthenticationFailed) {
			s.log.Info().Str("identifier", req.Identifier).Msg("Login failed")
		}
		return nil, err
	}

	view := user.View()

	s.mu.Lock()
	sess.LoggedIn = true
	sess.CurrentUser = &view
	sess.CurrentPage = models.PageConsole
	s.sessions[sess.ID] = sess
	s.mu.Unlock()

	s.log.Info().
		Str("username", view.Username).
		Str("role", string(view.Role)).
		Msg("Logged in")

	return &view, nil
}

// Logout moves the session back to LoggedOut and forgets it
func (s *sessionService) Logout(sess *models.Session) {
	s.mu.Lock()
	username := ""
	if sess.CurrentUser != nil {
		username = sess.CurrentUser.Username
	}
	sess.LoggedIn = false
	sess.CurrentUser = nil
	sess.CurrentPage = models.PageLogin
	delete(s.sessions, sess.ID)
	s.mu.Unlock()

	if username != "" {
		s.log.Info().Str("username", username).Msg("Logged out")
	}
}

// SignUp registers a new ViewAccess user. The session does not change state.
func (s *sessionService) SignUp(ctx context.Context, sess *models.Session, req *models.SignUpRequest) (*models.UserView, error) {
	return s.directory.SignUp(ctx, req)
}

// AddUser adds a user on behalf of the session. EditAccess or AdminAccess is
// required, and only AdminAccess may create another admin.
func (s *sessionService) AddUser(ctx context.Context, sess *models.Session, u *models.NewUser) (*models.UserView, error) {
	role, err := s.actingRole(sess)
	if err != nil {
		return nil, err
	}
	if !role.CanEditRoster() {
		return nil, models.ErrPermissionDenied
	}
	if requested, ok := models.ParseRole(u.Role); ok && requested == models.RoleAdmin && role != models.RoleAdmin {
		return nil, models.ErrPermissionDenied
	}

	return s.directory.Add(ctx, u)
}

// ClearAllUsers empties the roster when the session's user is an admin
func (s *sessionService) ClearAllUsers(ctx context.Context, sess *models.Session) error {
	role, err := s.actingRole(sess)
	if err != nil {
		return err
	}
	return s.directory.Clear(ctx, role)
}

// Navigate switches the session's current menu page
func (s *sessionService) Navigate(sess *models.Session, page string) error {
	if !models.IsMenuPage(page) {
		return models.ErrUnknownPage
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	if !sess.LoggedIn {
		return models.ErrNotLoggedIn
	}
	sess.CurrentPage = page
	return nil
}

// Active returns the number of registered (logged-in) sessions
func (s *sessionService) Active() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.sessions)
}

func (s *sessionService) actingRole(sess *models.Session) (models.Role, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if sess == nil || !sess.LoggedIn {
		return "", models.ErrNotLoggedIn
	}
	return sess.Role(), nil
}
