package repository

import (
	"context"

	"github.com/user-management-console/internal/models"
	"github.com/user-management-console/internal/store"
)

// User table columns, in file order
const (
	ColUsername = "Username"
	ColEmail    = "Email"
	ColRole     = "Role"
	ColPassword = "Password"
)

var userColumns = []string{ColUsername, ColEmail, ColRole, ColPassword}

// userRepo is the concrete implementation of UserRepository
type userRepo struct {
	store *store.Store
	table string
}

// NewUserRepo creates a new user repository
func NewUserRepo(s *store.Store, table string) UserRepository {
	return &userRepo{store: s, table: table}
}

// LoadAll reads every roster entry in table order. Tables written before
// passwords were stored have no Password column; those users load with an
// empty password and cannot log in.
func (r *userRepo) LoadAll(ctx context.Context) ([]*models.User, error) {
	table, err := r.store.Load(ctx, r.table, ColUsername, ColEmail, ColRole)
	if err != nil {
		return nil, err
	}

	users := make([]*models.User, 0, table.Len())
	for _, row := range table.Rows {
		users = append(users, &models.User{
			Username: row.Get(ColUsername),
			Email:    row.Get(ColEmail),
			Role:     normalizeRole(row.Get(ColRole)),
			Password: row.Get(ColPassword),
		})
	}
	return users, nil
}

// SaveAll rewrites the whole table
func (r *userRepo) SaveAll(ctx context.Context, users []*models.User) error {
	table := store.NewTable(userColumns...)
	for _, u := range users {
		table.Append(store.Row{
			ColUsername: u.Username,
			ColEmail:    u.Email,
			ColRole:     string(u.Role),
			ColPassword: u.Password,
		})
	}
	return r.store.Save(ctx, r.table, table)
}

// normalizeRole maps display labels from older tables ("Admin Access") to
// canonical roles and keeps anything unrecognised verbatim.
func normalizeRole(s string) models.Role {
	if role, ok := models.ParseRole(s); ok {
		return role
	}
	return models.Role(s)
}
