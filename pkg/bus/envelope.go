package bus

import (
	"time"

	json "github.com/goccy/go-json"

	"github.com/jllopis/agora/pkg/core"
	"github.com/jllopis/agora/pkg/errors"
)

// Envelope is the wire form of a message. It carries the run id so a
// consumer on the far side of a broker can stitch the exchange back
// into the right run.
type Envelope struct {
	ID      string    `json:"id"`
	RunID   string    `json:"run_id,omitempty"`
	From    string    `json:"from"`
	To      string    `json:"to"`
	Content string    `json:"content"`
	SentAt  time.Time `json:"sent_at"`
}

// Wrap builds an envelope from a message and run id.
func Wrap(msg core.Message, runID string) Envelope {
	return Envelope{
		ID:      msg.ID,
		RunID:   runID,
		From:    msg.From,
		To:      msg.To,
		Content: msg.Content,
		SentAt:  msg.SentAt,
	}
}

// Message unwraps the envelope back into a message.
func (e Envelope) Message() core.Message {
	return core.Message{
		ID:      e.ID,
		From:    e.From,
		To:      e.To,
		Content: e.Content,
		SentAt:  e.SentAt,
	}
}

// EncodeEnvelope serializes an envelope for the wire.
func EncodeEnvelope(env Envelope) ([]byte, error) {
	data, err := json.Marshal(env)
	if err != nil {
		return nil, errors.New(errors.CodeTransport, "encode envelope", err)
	}
	return data, nil
}

// DecodeEnvelope deserializes an envelope from the wire.
func DecodeEnvelope(data []byte) (Envelope, error) {
	var env Envelope
	if err := json.Unmarshal(data, &env); err != nil {
		return Envelope{}, errors.New(errors.CodeTransport, "decode envelope", err)
	}
	if env.To == "" {
		return Envelope{}, errors.New(errors.CodeTransport, "envelope has no recipient", nil)
	}
	return env, nil
}
