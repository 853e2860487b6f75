package core

import (
	"time"

	"github.com/google/uuid"
)

// Message is the unit of communication between agents. Only Content is
// appended to the recipient's mailbox; the envelope fields travel with the
// message on the bus and into the transcript.
type Message struct {
	ID      string    `json:"id"`
	From    string    `json:"from"`
	To      string    `json:"to"`
	Content string    `json:"content"`
	SentAt  time.Time `json:"sent_at"`
}

// NewMessage creates a message with a generated ID and a UTC timestamp.
func NewMessage(from, to, content string) Message {
	return Message{
		ID:      uuid.NewString(),
		From:    from,
		To:      to,
		Content: content,
		SentAt:  time.Now().UTC(),
	}
}
