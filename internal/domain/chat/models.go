// Package chat provides the chat domain: the model catalog, bots, rooms,
// conversation history and answer generation.
package chat

import "time"

// Model is a catalog entry for a language model. The Model field is the
// provider dispatch key used by answer generation; it never changes after
// creation.
type Model struct {
	ID        int64     `json:"id"`
	Name      string    `json:"name"`
	Model     string    `json:"model"`
	URL       string    `json:"url"`
	CreatedAt time.Time `json:"createdAt"`
}

// Bot is a configured assistant. Behavior is passed verbatim to providers
// as the system prompt; empty is fine.
type Bot struct {
	ID        int64     `json:"id"`
	Base      *Model    `json:"base"`
	Name      string    `json:"name"`
	Icon      string    `json:"icon"`
	Behavior  string    `json:"behavior"`
	Greeting  string    `json:"greeting"`
	CreatedAt time.Time `json:"createdAt"`
}

// Room is a conversation between one user and one bot.
type Room struct {
	ID        int64     `json:"id"`
	Bot       *Bot      `json:"bot"`
	UserID    int64     `json:"userId"`
	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}

// HistoryEntry is one completed question/answer turn. History is
// append-only.
type HistoryEntry struct {
	ID        int64     `json:"id"`
	RoomID    int64     `json:"roomId"`
	Question  string    `json:"question"`
	Answer    string    `json:"answer"`
	CreatedAt time.Time `json:"createdAt"`
}

func parseTimestamp(s string) time.Time {
	t, err := time.Parse(time.RFC3339, s)
	if err != nil {
		return time.Time{}
	}
	return t
}
