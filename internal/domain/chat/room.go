package chat

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"
)

// ErrRoomNotFound is returned when a room does not exist.
var ErrRoomNotFound = errors.New("room not found")

// RoomService manages conversation rooms.
type RoomService struct {
	db   *sql.DB
	bots *BotService
}

// NewRoomService creates a RoomService.
func NewRoomService(db *sql.DB, bots *BotService) *RoomService {
	return &RoomService{db: db, bots: bots}
}

// Create opens a room between the user and the bot.
func (s *RoomService) Create(ctx context.Context, userID, botID int64) (*Room, error) {
	if _, err := s.bots.Get(ctx, botID); err != nil {
		return nil, fmt.Errorf("create room: %w", err)
	}

	now := time.Now().UTC().Format(time.RFC3339)
	res, err := s.db.ExecContext(ctx,
		"INSERT INTO chat_room (bot_id, user_id, created_at, updated_at) VALUES (?, ?, ?, ?)",
		botID, userID, now, now,
	)
	if err != nil {
		return nil, fmt.Errorf("create room: %w", err)
	}
	id, err := res.LastInsertId()
	if err != nil {
		return nil, fmt.Errorf("create room: last insert id: %w", err)
	}
	return s.Get(ctx, id)
}

// Get fetches a room with its bot and base model loaded.
func (s *RoomService) Get(ctx context.Context, id int64) (*Room, error) {
	var (
		r         Room
		botID     int64
		createdAt string
		updatedAt string
	)
	err := s.db.QueryRowContext(ctx,
		"SELECT id, bot_id, user_id, created_at, updated_at FROM chat_room WHERE id = ?", id,
	).Scan(&r.ID, &botID, &r.UserID, &createdAt, &updatedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrRoomNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("get room: %w", err)
	}
	r.CreatedAt = parseTimestamp(createdAt)
	r.UpdatedAt = parseTimestamp(updatedAt)

	bot, err := s.bots.Get(ctx, botID)
	if err != nil {
		return nil, fmt.Errorf("get room %d: %w", id, err)
	}
	r.Bot = bot
	return &r, nil
}

// ListByUser returns the user's rooms, oldest first.
func (s *RoomService) ListByUser(ctx context.Context, userID int64) ([]*Room, error) {
	rows, err := s.db.QueryContext(ctx,
		"SELECT id FROM chat_room WHERE user_id = ? ORDER BY id", userID,
	)
	if err != nil {
		return nil, fmt.Errorf("list rooms: %w", err)
	}
	defer rows.Close() //nolint:errcheck

	var ids []int64
	for rows.Next() {
		var id int64
		if err := rows.Scan(&id); err != nil {
			return nil, fmt.Errorf("list rooms: scan: %w", err)
		}
		ids = append(ids, id)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	rooms := make([]*Room, 0, len(ids))
	for _, id := range ids {
		room, err := s.Get(ctx, id)
		if err != nil {
			return nil, err
		}
		rooms = append(rooms, room)
	}
	return rooms, nil
}

// Touch bumps the room's updated_at, marking recent activity.
func (s *RoomService) Touch(ctx context.Context, id int64) error {
	now := time.Now().UTC().Format(time.RFC3339)
	if _, err := s.db.ExecContext(ctx,
		"UPDATE chat_room SET updated_at = ? WHERE id = ?", now, id,
	); err != nil {
		return fmt.Errorf("touch room %d: %w", id, err)
	}
	return nil
}
