package entity

import "time"

// ChatMessage is one logged turn: what the user sent and what we replied.
type ChatMessage struct {
	ID        string
	SessionID string
	UserText  string
	Reply     string
	Intent    string
	Lang      string
	Timestamp time.Time
}
