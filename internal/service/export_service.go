package service

import (
	"context"
	"encoding/csv"
	"encoding/json"
	"fmt"
	"net/http"

	"github.com/rs/zerolog"
	"github.com/user-management-console/internal/models"
)

// exportService is the concrete implementation of ExportService
type exportService struct {
	directory DirectoryService
	log       zerolog.Logger
}

// newExportService creates a new ExportService
func newExportService(directory DirectoryService, log zerolog.Logger) *exportService {
	return &exportService{
		directory: directory,
		log:       log.With().Str("service", "export").Logger(),
	}
}

// StreamUsers writes the filtered roster in the specified format. Passwords
// are never exported.
func (s *exportService) StreamUsers(ctx context.Context, w http.ResponseWriter, format, role string) error {
	users, err := s.directory.FilterByRole(ctx, role)
	if err != nil {
		return err
	}

	s.log.Info().Str("format", format).Str("role", role).Int("count", len(users)).Msg("Starting users export")

	switch format {
	case "ndjson":
		return streamUsersNDJSON(w, users)
	case "json":
		return streamUsersJSON(w, users)
	case "csv":
		return streamUsersCSV(w, users)
	default:
		return fmt.Errorf("unsupported format: %s", format)
	}
}

func streamUsersNDJSON(w http.ResponseWriter, users []models.UserView) error {
	w.Header().Set("Content-Type", "application/x-ndjson")
	w.Header().Set("Content-Disposition", "attachment; filename=users.ndjson")

	flusher, _ := w.(http.Flusher)
	for i, user := range users {
		data, err := json.Marshal(user)
		if err != nil {
			return err
		}
		if _, err := w.Write(append(data, '\n')); err != nil {
			return err
		}

		// Flush every 100 records for streaming
		if (i+1)%100 == 0 && flusher != nil {
			flusher.Flush()
		}
	}
	return nil
}

func streamUsersJSON(w http.ResponseWriter, users []models.UserView) error {
	w.Header().Set("Content-Type", "application/json")
	w.Header().Set("Content-Disposition", "attachment; filename=users.json")

	if _, err := w.Write([]byte("[")); err != nil {
		return err
	}
	for i, user := range users {
		data, err := json.Marshal(user)
		if err != nil {
			return err
		}
		if i > 0 {
			data = append([]byte(","), data...)
		}
		if _, err := w.Write(data); err != nil {
			return err
		}
	}
	_, err := w.Write([]byte("]"))
	return err
}

func streamUsersCSV(w http.ResponseWriter, users []models.UserView) error {
	w.Header().Set("Content-Type", "text/csv")
	w.Header().Set("Content-Disposition", "attachment; filename=users.csv")

	writer := csv.NewWriter(w)
	writer.Write([]string{"Username", "Email", "Role"})
	for _, user := range users {
		if err := writer.Write([]string{user.Username, user.Email, string(user.Role)}); err != nil {
			return err
		}
	}
	writer.Flush()
	return writer.Error()
}
