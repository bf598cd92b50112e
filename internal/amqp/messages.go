package amqp

import (
	"encoding/json"
	"time"

	"github.com/google/uuid"
)

// Sync actions carried by ledger sync messages.
const (
	ActionUpsert = "upsert"
	ActionDelete = "delete"
)

// TransactionSyncMessage represents a lightweight message for mirroring a
// ledger mutation. It carries only the transaction ID and the action, the
// worker fetches the current ledger state from the store.
type TransactionSyncMessage struct {
	MessageID string    `json:"messageId"`
	ID        int64     `json:"id"`
	Action    string    `json:"action"`
	Timestamp time.Time `json:"timestamp"`
}

// NewTransactionSyncMessage creates a new sync message for the given mutation
func NewTransactionSyncMessage(id int64, action string) *TransactionSyncMessage {
	return &TransactionSyncMessage{
		MessageID: uuid.NewString(),
		ID:        id,
		Action:    action,
		Timestamp: time.Now(),
	}
}

// ToJSON converts the message to JSON bytes
func (m *TransactionSyncMessage) ToJSON() ([]byte, error) {
	return json.Marshal(m)
}

// TransactionSyncMessageFromJSON creates a message from JSON bytes
func TransactionSyncMessageFromJSON(data []byte) (*TransactionSyncMessage, error) {
	var msg TransactionSyncMessage
	if err := json.Unmarshal(data, &msg); err != nil {
		return nil, err
	}
	return &msg, nil
}
