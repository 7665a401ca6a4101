package chat

import (
	"context"
	"database/sql"
	"fmt"
	"time"
)

// HistoryService records completed question/answer turns.
type HistoryService struct {
	db *sql.DB
}

// NewHistoryService creates a HistoryService.
func NewHistoryService(db *sql.DB) *HistoryService {
	return &HistoryService{db: db}
}

// Append stores one finished turn. History rows are never updated or
// deleted.
func (s *HistoryService) Append(ctx context.Context, roomID int64, question, answer string) (*HistoryEntry, error) {
	now := time.Now().UTC()
	res, err := s.db.ExecContext(ctx,
		"INSERT INTO chat_history (room_id, question, answer, created_at) VALUES (?, ?, ?, ?)",
		roomID, question, answer, now.Format(time.RFC3339),
	)
	if err != nil {
		return nil, fmt.Errorf("append history: %w", err)
	}
	id, err := res.LastInsertId()
	if err != nil {
		return nil, fmt.Errorf("append history: last insert id: %w", err)
	}
	return &HistoryEntry{
		ID:        id,
		RoomID:    roomID,
		Question:  question,
		Answer:    answer,
		CreatedAt: now,
	}, nil
}

// ListByRoom returns the room's turns in insertion order.
func (s *HistoryService) ListByRoom(ctx context.Context, roomID int64) ([]*HistoryEntry, error) {
	rows, err := s.db.QueryContext(ctx,
		"SELECT id, room_id, question, answer, created_at FROM chat_history WHERE room_id = ? ORDER BY id",
		roomID,
	)
	if err != nil {
		return nil, fmt.Errorf("list history: %w", err)
	}
	defer rows.Close() //nolint:errcheck

	var entries []*HistoryEntry
	for rows.Next() {
		var (
			e         HistoryEntry
			createdAt string
		)
		if err := rows.Scan(&e.ID, &e.RoomID, &e.Question, &e.Answer, &createdAt); err != nil {
			return nil, fmt.Errorf("list history: scan: %w", err)
		}
		e.CreatedAt = parseTimestamp(createdAt)
		entries = append(entries, &e)
	}
	return entries, rows.Err()
}
