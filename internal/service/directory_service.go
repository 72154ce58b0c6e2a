package service

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"sync"

	"github.com/rs/zerolog"
	"github.com/user-management-console/internal/auth"
	"github.com/user-management-console/internal/models"
	"github.com/user-management-console/internal/repository"
	"github.com/user-management-console/internal/validation"
	"golang.org/x/crypto/bcrypt"
)

// directoryService is the concrete implementation of DirectoryService.
// The roster is held in memory and every mutation rewrites the whole table
// while mu is held, so sessions in this process never lose each other's
// changes. Writers in other processes still race last-write-wins.
type directoryService struct {
	repo      repository.UserRepository
	hasher    *auth.Hasher
	validator *validation.Validator
	log       zerolog.Logger

	mu     sync.RWMutex
	users  []*models.User
	loaded bool
}

// newDirectoryService creates a new DirectoryService
func newDirectoryService(repo repository.UserRepository, hasher *auth.Hasher, validator *validation.Validator, log zerolog.Logger) *directoryService {
	return &directoryService{
		repo:      repo,
		hasher:    hasher,
		validator: validator,
		log:       log.With().Str("service", "directory").Logger(),
	}
}

// Reload replaces the in-memory roster with the table on disk. The read
// happens under mu so a concurrent mutation is either already on disk or
// applied on top of the reloaded table.
func (d *directoryService) Reload(ctx context.Context) error {
	d.mu.Lock()
	defer d.mu.Unlock()

	users, err := d.repo.LoadAll(ctx)
	if err != nil {
		return fmt.Errorf("failed to load roster: %w", err)
	}
	d.users = users
	d.loaded = true

	d.log.Debug().Int("users", len(d.users)).Msg("Roster reloaded")
	return nil
}

// snapshot returns the current roster, loading it on first use
func (d *directoryService) snapshot(ctx context.Context) ([]*models.User, error) {
	d.mu.RLock()
	if d.loaded {
		users := d.users
		d.mu.RUnlock()
		return users, nil
	}
	d.mu.RUnlock()

	if err := d.Reload(ctx); err != nil {
		return nil, err
	}

	d.mu.RLock()
	defer d.mu.RUnlock()
	return d.users, nil
}

// ensureLoaded must be called with mu held for writing
func (d *directoryService) ensureLoaded(ctx context.Context) error {
	if d.loaded {
		return nil
	}
	users, err := d.repo.LoadAll(ctx)
	if err != nil {
		return fmt.Errorf("failed to load roster: %w", err)
	}
	d.users = users
	d.loaded = true
	return nil
}

// Add validates the form, hashes the password and appends a user with the
// supplied role (ViewAccess when none is given). Uniqueness is not enforced.
func (d *directoryService) Add(ctx context.Context, u *models.NewUser) (*models.UserView, error) {
	if err := d.validator.ValidateNewUser(u); err != nil {
		return nil, err
	}

	role := models.RoleView
	if u.Role != "" {
		role, _ = models.ParseRole(u.Role)
	}

	hashed, err := d.hasher.Hash(u.Password)
	if err != nil {
		if errors.Is(err, bcrypt.ErrPasswordTooLong) {
			return nil, validation.Errors{{Field: "password", Message: "password must be at most 72 bytes"}}
		}
		return nil, err
	}

	user := &models.User{
		Username: u.Username,
		Email:    u.Email,
		Role:     role,
		Password: hashed,
	}

	d.mu.Lock()
	defer d.mu.Unlock()

	if err := d.ensureLoaded(ctx); err != nil {
		return nil, err
	}

	next := make([]*models.User, len(d.users), len(d.users)+1)
	copy(next, d.users)
	next = append(next, user)

	if err := d.repo.SaveAll(ctx, next); err != nil {
		return nil, fmt.Errorf("failed to save roster: %w", err)
	}
	d.users = next

	d.log.Info().
		Str("username", user.Username).
		Str("role", string(user.Role)).
		Int("roster_size", len(next)).
		Msg("User added")

	view := user.View()
	return &view, nil
}

// SignUp registers a ViewAccess user
func (d *directoryService) SignUp(ctx context.Context, req *models.SignUpRequest) (*models.UserView, error) {
	if err := d.validator.ValidateSignUp(req); err != nil {
		return nil, err
	}
	return d.Add(ctx, &models.NewUser{
		Username: req.Username,
		Email:    req.Email,
		Role:     string(models.RoleView),
		Password: req.Password,
	})
}

// Authenticate scans the roster in table order and returns a copy of the
// first user whose username or email equals identifier and whose password
// verifies.
func (d *directoryService) Authenticate(ctx context.Context, identifier, password string) (*models.User, error) {
	users, err := d.snapshot(ctx)
	if err != nil {
		return nil, err
	}

	candidates := 0
	for _, u := range users {
		if u.Username != identifier && u.Email != identifier {
			continue
		}
		candidates++

		ok, needsRehash := d.hasher.Verify(u.Password, password)
		if !ok {
			continue
		}
		if needsRehash {
			d.upgradePassword(ctx, u, password)
		}

		match := *u
		return &match, nil
	}

	if candidates == 0 {
		d.hasher.Burn(password)
	}
	return nil, models.ErrAuthenticationFailed
}

// upgradePassword replaces a plain-text password with its hash. Failure is
// logged and the login still succeeds.
func (d *directoryService) upgradePassword(ctx context.Context, target *models.User, password string) {
	hashed, err := d.hasher.Hash(password)
	if err != nil {
		d.log.Warn().Err(err).Str("username", target.Username).Msg("Failed to hash legacy password")
		return
	}

	d.mu.Lock()
	defer d.mu.Unlock()

	next := make([]*models.User, len(d.users))
	found := false
	for i, u := range d.users {
		if u == target {
			upgraded := *u
			upgraded.Password = hashed
			next[i] = &upgraded
			found = true
			continue
		}
		next[i] = u
	}
	if !found {
		return
	}

	if err := d.repo.SaveAll(ctx, next); err != nil {
		d.log.Warn().Err(err).Str("username", target.Username).Msg("Failed to persist upgraded password")
		return
	}
	d.users = next
	d.log.Info().Str("username", target.Username).Msg("Upgraded plain-text password to hash")
}

// Clear empties the roster. Only AdminAccess may do this.
func (d *directoryService) Clear(ctx context.Context, actingRole models.Role) error {
	if actingRole != models.RoleAdmin {
		d.log.Warn().Str("role", string(actingRole)).Msg("Clear roster denied")
		return models.ErrPermissionDenied
	}

	d.mu.Lock()
	defer d.mu.Unlock()

	if err := d.repo.SaveAll(ctx, []*models.User{}); err != nil {
		return fmt.Errorf("failed to save roster: %w", err)
	}

	cleared := len(d.users)
	d.users = []*models.User{}
	d.loaded = true

	d.log.Info().Int("cleared", cleared).Msg("Roster cleared")
	return nil
}

// FilterByRole returns users with the given role, or everyone for "All".
// Display labels are accepted; unknown values compare verbatim.
func (d *directoryService) FilterByRole(ctx context.Context, role string) ([]models.UserView, error) {
	users, err := d.snapshot(ctx)
	if err != nil {
		return nil, err
	}

	all := role == "" || role == models.RoleAll
	want := models.Role(role)
	if parsed, ok := models.ParseRole(role); ok {
		want = parsed
	}

	views := make([]models.UserView, 0, len(users))
	for _, u := range users {
		if all || u.Role == want {
			views = append(views, u.View())
		}
	}
	return views, nil
}

// RoleOptions returns "All" followed by the distinct roles present
func (d *directoryService) RoleOptions(ctx context.Context) ([]string, error) {
	dist, err := d.RoleDistribution(ctx)
	if err != nil {
		return nil, err
	}

	roles := make([]string, 0, len(dist))
	for r := range dist {
		roles = append(roles, r)
	}
	sort.Strings(roles)

	return append([]string{models.RoleAll}, roles...), nil
}

// RoleDistribution counts users per role
func (d *directoryService) RoleDistribution(ctx context.Context) (map[string]int, error) {
	users, err := d.snapshot(ctx)
	if err != nil {
		return nil, err
	}

	dist := make(map[string]int)
	for _, u := range users {
		dist[string(u.Role)]++
	}
	return dist, nil
}

// Count returns the roster size
func (d *directoryService) Count(ctx context.Context) (int, error) {
	users, err := d.snapshot(ctx)
	if err != nil {
		return 0, err
	}
	return len(users), nil
}
