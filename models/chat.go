package models

import (
	"time"

	"github.com/google/uuid"
)

// ChatMessage is one exchange turn with the barista.
type ChatMessage struct {
	ID         uuid.UUID `json:"id"`
	Text       string    `json:"text"`
	IsFromUser bool      `json:"is_from_user"`
	Timestamp  time.Time `json:"timestamp"`
}
