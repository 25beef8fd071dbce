package kafka

import (
	"encoding/json"
	"time"
)

// IncomingMessage wraps a raw Kafka message with parsed headers
type IncomingMessage struct {
	Key       string
	Value     []byte
	Headers   map[string]string
	Partition int
	Offset    int64
	Timestamp time.Time
	Topic     string

	// Parsed content
	PersonChange *PersonChangeMessage
}

// PersonChangeMessage is the payload the owning archival system publishes
// when a person row changes. Only name-bearing changes matter here; the
// derived search columns must be recomputed when a name moves.
type PersonChangeMessage struct {
	Action    string    `json:"action"` // created, updated, deleted
	PersonID  int64     `json:"person_id"`
	FirstName string    `json:"first_name,omitempty"`
	LastName  string    `json:"last_name,omitempty"`
	Timestamp time.Time `json:"timestamp,omitempty"`
}

// ParsePersonChange parses the message value as a person change message
func (m *IncomingMessage) ParsePersonChange() error {
	var msg PersonChangeMessage
	if err := json.Unmarshal(m.Value, &msg); err != nil {
		return err
	}
	m.PersonChange = &msg
	return nil
}

// IsNameChange reports whether the change can affect the derived search
// columns. Deletes are handled by the owning system's cascade, not here.
func (m *IncomingMessage) IsNameChange() bool {
	if m.PersonChange == nil || m.PersonChange.PersonID == 0 {
		return false
	}
	return m.PersonChange.Action == "created" || m.PersonChange.Action == "updated"
}
