package service

import (
	"context"
	"fmt"
	"io"
	"sync"
	"unicode/utf8"

	"github.com/gabriel-vasile/mimetype"
	"github.com/rs/zerolog"
	"github.com/user-management-console/internal/models"
	"github.com/user-management-console/internal/repository"
)

// sniffBytes is how much of an upload is read for content type detection
const sniffBytes = 3072

// uploadService is the concrete implementation of UploadService
type uploadService struct {
	repo         repository.UploadRepository
	previewBytes int
	log          zerolog.Logger

	mu      sync.Mutex
	uploads []*models.Upload
	loaded  bool
}

// newUploadService creates a new UploadService
func newUploadService(repo repository.UploadRepository, previewBytes int, log zerolog.Logger) *uploadService {
	return &uploadService{
		repo:         repo,
		previewBytes: previewBytes,
		log:          log.With().Str("service", "upload").Logger(),
	}
}

// Reload replaces the in-memory log with the table on disk
func (s *uploadService) Reload(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	uploads, err := s.repo.LoadAll(ctx)
	if err != nil {
		return fmt.Errorf("failed to load upload log: %w", err)
	}
	s.uploads = uploads
	s.loaded = true
	return nil
}

// ensureLoaded must be called with mu held
func (s *uploadService) ensureLoaded(ctx context.Context) error {
	if s.loaded {
		return nil
	}
	uploads, err := s.repo.LoadAll(ctx)
	if err != nil {
		return fmt.Errorf("failed to load upload log: %w", err)
	}
	s.uploads = uploads
	s.loaded = true
	return nil
}

// Record appends an upload and rewrites the log. The username is not
// checked against the roster.
func (s *uploadService) Record(ctx context.Context, username, filename string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if err := s.ensureLoaded(ctx); err != nil {
		return err
	}

	next := make([]*models.Upload, len(s.uploads), len(s.uploads)+1)
	copy(next, s.uploads)
	next = append(next, &models.Upload{Username: username, Filename: filename})

	if err := s.repo.SaveAll(ctx, next); err != nil {
		return fmt.Errorf("failed to save upload log: %w", err)
	}
	s.uploads = next

	s.log.Info().
		Str("username", username).
		Str("filename", filename).
		Int("log_size", len(next)).
		Msg("Upload recorded")
	return nil
}

// Receive consumes an uploaded blob, records it and returns a receipt with
// its size, detected content type and a text preview. The bytes are discarded.
func (s *uploadService) Receive(ctx context.Context, username, filename string, blob io.Reader) (*models.UploadReceipt, error) {
	head := make([]byte, max(sniffBytes, s.previewBytes))
	n, err := io.ReadFull(blob, head)
	if err != nil && err != io.EOF && err != io.ErrUnexpectedEOF {
		return nil, fmt.Errorf("failed to read upload: %w", err)
	}
	head = head[:n]

	rest, err := io.Copy(io.Discard, blob)
	if err != nil {
		return nil, fmt.Errorf("failed to read upload: %w", err)
	}

	mtype := mimetype.Detect(head)
	receipt := &models.UploadReceipt{
		Filename:    filename,
		Size:        int64(n) + rest,
		ContentType: mtype.String(),
	}

	if isText(mtype) && s.previewBytes > 0 {
		preview := head
		if len(preview) > s.previewBytes {
			preview = preview[:s.previewBytes]
			receipt.Truncated = true
		} else if rest > 0 {
			receipt.Truncated = true
		}
		// Do not cut a multi-byte rune in half
		for i := 0; i < utf8.UTFMax && len(preview) > 0 && !utf8.Valid(preview); i++ {
			preview = preview[:len(preview)-1]
		}
		receipt.Preview = string(preview)
	}

	if err := s.Record(ctx, username, filename); err != nil {
		return nil, err
	}
	return receipt, nil
}

// List returns the upload log in insertion order
func (s *uploadService) List(ctx context.Context) ([]*models.Upload, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if err := s.ensureLoaded(ctx); err != nil {
		return nil, err
	}
	return s.uploads, nil
}

// Count returns the number of recorded uploads
func (s *uploadService) Count(ctx context.Context) (int, error) {
	uploads, err := s.List(ctx)
	if err != nil {
		return 0, err
	}
	return len(uploads), nil
}

func isText(m *mimetype.MIME) bool {
	for t := m; t != nil; t = t.Parent() {
		if t.Is("text/plain") {
			return true
		}
	}
	return false
}
