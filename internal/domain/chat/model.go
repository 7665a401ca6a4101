package chat

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"
)

// ErrModelNotFound is returned when a catalog entry does not exist.
var ErrModelNotFound = errors.New("model not found")

// CreateModelInput holds the fields for a new catalog entry.
type CreateModelInput struct {
	Name  string
	Model string
	URL   string
}

// ModelService manages the model catalog. Entries are create-and-read
// only; the dispatch key is immutable.
type ModelService struct {
	db *sql.DB
}

// NewModelService creates a ModelService.
func NewModelService(db *sql.DB) *ModelService {
	return &ModelService{db: db}
}

// Create adds a catalog entry.
func (s *ModelService) Create(ctx context.Context, input CreateModelInput) (*Model, error) {
	now := time.Now().UTC().Format(time.RFC3339)
	res, err := s.db.ExecContext(ctx,
		"INSERT INTO ll_model (name, model, url, created_at) VALUES (?, ?, ?, ?)",
		input.Name, input.Model, input.URL, now,
	)
	if err != nil {
		return nil, fmt.Errorf("create model: %w", err)
	}
	id, err := res.LastInsertId()
	if err != nil {
		return nil, fmt.Errorf("create model: last insert id: %w", err)
	}
	return s.Get(ctx, id)
}

// Get fetches a catalog entry by ID.
func (s *ModelService) Get(ctx context.Context, id int64) (*Model, error) {
	row := s.db.QueryRowContext(ctx,
		"SELECT id, name, model, url, created_at FROM ll_model WHERE id = ?", id,
	)
	return scanModel(row)
}

// List returns all catalog entries, oldest first.
func (s *ModelService) List(ctx context.Context) ([]*Model, error) {
	rows, err := s.db.QueryContext(ctx,
		"SELECT id, name, model, url, created_at FROM ll_model ORDER BY id",
	)
	if err != nil {
		return nil, fmt.Errorf("list models: %w", err)
	}
	defer rows.Close() //nolint:errcheck

	var models []*Model
	for rows.Next() {
		var (
			m         Model
			createdAt string
		)
		if err := rows.Scan(&m.ID, &m.Name, &m.Model, &m.URL, &createdAt); err != nil {
			return nil, fmt.Errorf("list models: scan: %w", err)
		}
		m.CreatedAt = parseTimestamp(createdAt)
		models = append(models, &m)
	}
	return models, rows.Err()
}

func scanModel(row *sql.Row) (*Model, error) {
	var (
		m         Model
		createdAt string
	)
	err := row.Scan(&m.ID, &m.Name, &m.Model, &m.URL, &createdAt)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrModelNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("scan model: %w", err)
	}
	m.CreatedAt = parseTimestamp(createdAt)
	return &m, nil
}
