package repository

import (
	"context"

	"github.com/user-management-console/internal/models"
	"github.com/user-management-console/internal/store"
)

// Upload table columns
const ColFilename = "Filename"

// uploadRepo is the concrete implementation of UploadRepository
type uploadRepo struct {
	store *store.Store
	table string
}

// NewUploadRepo creates a new upload repository
func NewUploadRepo(s *store.Store, table string) UploadRepository {
	return &uploadRepo{store: s, table: table}
}

func (r *uploadRepo) LoadAll(ctx context.Context) ([]*models.Upload, error) {
	table, err := r.store.Load(ctx, r.table, ColUsername, ColFilename)
	if err != nil {
		return nil, err
	}

	uploads := make([]*models.Upload, 0, table.Len())
	for _, row := range table.Rows {
		uploads = append(uploads, &models.Upload{
			Username: row.Get(ColUsername),
			Filename: row.Get(ColFilename),
		})
	}
	return uploads, nil
}

func (r *uploadRepo) SaveAll(ctx context.Context, uploads []*models.Upload) error {
	table := store.NewTable(ColUsername, ColFilename)
	for _, u := range uploads {
		table.Append(store.Row{ColUsername: u.Username, ColFilename: u.Filename})
	}
	return r.store.Save(ctx, r.table, table)
}
