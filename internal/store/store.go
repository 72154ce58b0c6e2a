package store

import (
	"context"
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/gofrs/flock"
	"github.com/google/uuid"
	"github.com/rs/zerolog"
)

// ErrMalformedTable is returned when a table's header lacks a required column
var ErrMalformedTable = errors.New("malformed table")

// Row is a single record keyed by column name
type Row map[string]string

// Get returns the value of column, or "" if absent
func (r Row) Get(column string) string {
	return r[column]
}

// Table is an in-memory copy of a flat file: a header plus one row per record
type Table struct {
	Columns []string
	Rows    []Row
	// Skipped counts rows dropped on load because their field count
	// did not match the header.
	Skipped int
}

// NewTable creates an empty table with the given columns
func NewTable(columns ...string) *Table {
	return &Table{Columns: columns}
}

// Append adds a row to the table
func (t *Table) Append(row Row) {
	t.Rows = append(t.Rows, row)
}

// Len returns the number of rows
func (t *Table) Len() int {
	return len(t.Rows)
}

// Store loads and saves tables as CSV files under a data directory
type Store struct {
	dir string
	log zerolog.Logger
}

// New creates a store rooted at dir, creating the directory if needed
func New(dir string, log zerolog.Logger) (*Store, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("failed to create data directory: %w", err)
	}

	s := &Store{
		dir: dir,
		log: log.With().Str("component", "store").Logger(),
	}

	s.log.Info().Str("dir", dir).Msg("Record store ready")
	return s, nil
}

// Dir returns the data directory
func (s *Store) Dir() string {
	return s.dir
}

// Path returns the file backing the named table
func (s *Store) Path(name string) string {
	return filepath.Join(s.dir, name)
}

// Load reads the named table. A missing file yields an empty table with the
// required columns; a header missing any required column is ErrMalformedTable.
func (s *Store) Load(ctx context.Context, name string, required ...string) (*Table, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	f, err := os.Open(s.Path(name))
	if errors.Is(err, os.ErrNotExist) {
		return NewTable(required...), nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to open table %s: %w", name, err)
	}
	defer f.Close()

	table, err := s.read(f, name, required)
	if err != nil {
		return nil, err
	}

	if table.Skipped > 0 {
		s.log.Warn().
			Str("table", name).
			Int("skipped", table.Skipped).
			Int("loaded", table.Len()).
			Msg("Skipped malformed rows")
	}

	return table, nil
}

func (s *Store) read(r io.Reader, name string, required []string) (*Table, error) {
	reader := csv.NewReader(r)
	reader.FieldsPerRecord = -1

	header, err := reader.Read()
	if err == io.EOF {
		return NewTable(required...), nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to read header of %s: %w", name, err)
	}

	// Header names are matched case-insensitively against the required columns
	canonical := make(map[string]string, len(required))
	for _, col := range required {
		canonical[strings.ToLower(col)] = col
	}

	columns := make([]string, len(header))
	seen := make(map[string]bool, len(header))
	for i, h := range header {
		h = strings.TrimSpace(strings.TrimPrefix(h, "\ufeff"))
		if c, ok := canonical[strings.ToLower(h)]; ok {
			h = c
		}
		columns[i] = h
		seen[h] = true
	}

	var missing []string
	for _, col := range required {
		if !seen[col] {
			missing = append(missing, col)
		}
	}
	if len(missing) > 0 {
		return nil, fmt.Errorf("%w: %s missing columns %s", ErrMalformedTable, name, strings.Join(missing, ", "))
	}

	table := &Table{Columns: columns}
	for {
		record, err := reader.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			var parseErr *csv.ParseError
			if errors.As(err, &parseErr) {
				table.Skipped++
				continue
			}
			return nil, fmt.Errorf("failed to read %s: %w", name, err)
		}
		if len(record) != len(columns) {
			table.Skipped++
			continue
		}

		row := make(Row, len(columns))
		for i, col := range columns {
			row[col] = record[i]
		}
		table.Append(row)
	}

	return table, nil
}

// Save replaces the named table on disk. The file is written to a temporary
// sibling and renamed into place while holding the table's lock file.
func (s *Store) Save(ctx context.Context, name string, table *Table) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	path := s.Path(name)
	lock := flock.New(path + ".lock")
	if err := lock.Lock(); err != nil {
		return fmt.Errorf("failed to lock table %s: %w", name, err)
	}
	defer lock.Unlock()

	tmpPath := fmt.Sprintf("%s.%s.tmp", path, uuid.New().String()[:8])
	tmp, err := os.OpenFile(tmpPath, os.O_WRONLY|os.O_CREATE|os.O_EXCL, 0o644)
	if err != nil {
		return fmt.Errorf("failed to create temp file for %s: %w", name, err)
	}

	if err := writeTable(tmp, table); err != nil {
		tmp.Close()
		os.Remove(tmpPath)
		return fmt.Errorf("failed to write table %s: %w", name, err)
	}
	if err := tmp.Sync(); err != nil {
		tmp.Close()
		os.Remove(tmpPath)
		return fmt.Errorf("failed to sync table %s: %w", name, err)
	}
	if err := tmp.Close(); err != nil {
		os.Remove(tmpPath)
		return fmt.Errorf("failed to close table %s: %w", name, err)
	}

	if err := os.Rename(tmpPath, path); err != nil {
		os.Remove(tmpPath)
		return fmt.Errorf("failed to replace table %s: %w", name, err)
	}

	s.log.Debug().Str("table", name).Int("rows", table.Len()).Msg("Table saved")
	return nil
}

func writeTable(w io.Writer, table *Table) error {
	writer := csv.NewWriter(w)
	if err := writer.Write(table.Columns); err != nil {
		return err
	}

	record := make([]string, len(table.Columns))
	for _, row := range table.Rows {
		for i, col := range table.Columns {
			record[i] = row.Get(col)
		}
		if err := writer.Write(record); err != nil {
			return err
		}
	}

	writer.Flush()
	return writer.Error()
}

// HealthCheck verifies the data directory is reachable
func (s *Store) HealthCheck(ctx context.Context) error {
	info, err := os.Stat(s.dir)
	if err != nil {
		return err
	}
	if !info.IsDir() {
		return fmt.Errorf("%s is not a directory", s.dir)
	}
	return nil
}
