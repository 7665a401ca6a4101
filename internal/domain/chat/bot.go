package chat

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"
)

// ErrBotNotFound is returned when a bot does not exist.
var ErrBotNotFound = errors.New("bot not found")

// CreateBotInput holds the fields for a new bot.
type CreateBotInput struct {
	ModelID  int64
	Name     string
	Icon     string
	Behavior string
	Greeting string
}

// BotService manages bots.
type BotService struct {
	db *sql.DB
}

// NewBotService creates a BotService.
func NewBotService(db *sql.DB) *BotService {
	return &BotService{db: db}
}

// Create adds a bot backed by an existing catalog entry.
func (s *BotService) Create(ctx context.Context, input CreateBotInput) (*Bot, error) {
	now := time.Now().UTC().Format(time.RFC3339)
	res, err := s.db.ExecContext(ctx,
		"INSERT INTO bot (model_id, name, icon, behavior, greeting, created_at) VALUES (?, ?, ?, ?, ?, ?)",
		input.ModelID, input.Name, input.Icon, input.Behavior, input.Greeting, now,
	)
	if err != nil {
		return nil, fmt.Errorf("create bot: %w", err)
	}
	id, err := res.LastInsertId()
	if err != nil {
		return nil, fmt.Errorf("create bot: last insert id: %w", err)
	}
	return s.Get(ctx, id)
}

const botSelect = `
	SELECT b.id, b.name, b.icon, b.behavior, b.greeting, b.created_at,
	       m.id, m.name, m.model, m.url, m.created_at
	FROM bot b
	JOIN ll_model m ON m.id = b.model_id`

// Get fetches a bot with its base model.
func (s *BotService) Get(ctx context.Context, id int64) (*Bot, error) {
	row := s.db.QueryRowContext(ctx, botSelect+" WHERE b.id = ?", id)
	bot, err := scanBot(row.Scan)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrBotNotFound
	}
	return bot, err
}

// List returns all bots, oldest first.
func (s *BotService) List(ctx context.Context) ([]*Bot, error) {
	rows, err := s.db.QueryContext(ctx, botSelect+" ORDER BY b.id")
	if err != nil {
		return nil, fmt.Errorf("list bots: %w", err)
	}
	defer rows.Close() //nolint:errcheck

	var bots []*Bot
	for rows.Next() {
		bot, err := scanBot(rows.Scan)
		if err != nil {
			return nil, fmt.Errorf("list bots: %w", err)
		}
		bots = append(bots, bot)
	}
	return bots, rows.Err()
}

func scanBot(scan func(dest ...any) error) (*Bot, error) {
	var (
		b              Bot
		m              Model
		botCreatedAt   string
		modelCreatedAt string
	)
	err := scan(
		&b.ID, &b.Name, &b.Icon, &b.Behavior, &b.Greeting, &botCreatedAt,
		&m.ID, &m.Name, &m.Model, &m.URL, &modelCreatedAt,
	)
	if err != nil {
		return nil, err
	}
	b.CreatedAt = parseTimestamp(botCreatedAt)
	m.CreatedAt = parseTimestamp(modelCreatedAt)
	b.Base = &m
	return &b, nil
}
