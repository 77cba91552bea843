package amqp

import (
	"encoding/json"
	"fmt"
	"time"
)

// MessageType tells the consumer how to decode a delivery body.
type MessageType string

const (
	MessageTypeSync   MessageType = "record.sync"
	MessageTypeDelete MessageType = "record.delete"
)

// RecordSyncMessage asks the worker to mirror a record. It carries only the
// ID and version; the worker loads the full record from the database.
type RecordSyncMessage struct {
	Type      MessageType `json:"type"`
	ID        string      `json:"id"`
	Version   int64       `json:"version"`
	Timestamp time.Time   `json:"timestamp"`
}

// RecordDeleteMessage asks the worker to remove the mirrored copy of a record.
type RecordDeleteMessage struct {
	Type      MessageType `json:"type"`
	ID        string      `json:"id"`
	Timestamp time.Time   `json:"timestamp"`
}

func NewRecordSyncMessage(id string, version int64) *RecordSyncMessage {
	return &RecordSyncMessage{Type: MessageTypeSync, ID: id, Version: version, Timestamp: time.Now()}
}

func NewRecordDeleteMessage(id string) *RecordDeleteMessage {
	return &RecordDeleteMessage{Type: MessageTypeDelete, ID: id, Timestamp: time.Now()}
}

func (m *RecordSyncMessage) ToJSON() ([]byte, error) {
	return json.Marshal(m)
}

func (m *RecordDeleteMessage) ToJSON() ([]byte, error) {
	return json.Marshal(m)
}

// decodeMessage returns a *RecordSyncMessage or *RecordDeleteMessage.
// Bodies without a type are treated as sync messages.
func decodeMessage(data []byte) (interface{}, error) {
	var head struct {
		Type MessageType `json:"type"`
	}
	if err := json.Unmarshal(data, &head); err != nil {
		return nil, err
	}
	switch head.Type {
	case MessageTypeSync, "":
		var msg RecordSyncMessage
		if err := json.Unmarshal(data, &msg); err != nil {
			return nil, err
		}
		if msg.ID == "" {
			return nil, fmt.Errorf("sync message without id")
		}
		return &msg, nil
	case MessageTypeDelete:
		var msg RecordDeleteMessage
		if err := json.Unmarshal(data, &msg); err != nil {
			return nil, err
		}
		if msg.ID == "" {
			return nil, fmt.Errorf("delete message without id")
		}
		return &msg, nil
	default:
		return nil, fmt.Errorf("unknown message type %q", head.Type)
	}
}
