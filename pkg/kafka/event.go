package kafka

import (
	"encoding/json"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/segmentio/kafka-go"
)

// SchemaVersion is stamped on every envelope; consumers reject versions
// they do not know.
const SchemaVersion = 1

// Event is the envelope every message on the storefront topics carries.
// AggregateID is the partition key; for cart and wishlist events it is the
// shopper's session id so one session's events stay ordered.
type Event struct {
	EventID       string            `json:"event_id"`
	EventType     string            `json:"event_type"`
	AggregateID   string            `json:"aggregate_id"`
	AggregateType string            `json:"aggregate_type"`
	Version       int               `json:"version"`
	Timestamp     time.Time         `json:"timestamp"`
	Source        string            `json:"source"`
	CorrelationID string            `json:"correlation_id,omitempty"`
	Data          json.RawMessage   `json:"data"`
	Metadata      map[string]string `json:"metadata,omitempty"`
}

// EventOption decorates an event as it is built.
type EventOption func(*Event)

// WithCorrelationID ties the event to the HTTP request that caused it. An
// empty id is ignored.
func WithCorrelationID(id string) EventOption {
	return func(e *Event) { e.CorrelationID = id }
}

// WithMetadata adds a free-form key to the envelope.
func WithMetadata(key, value string) EventOption {
	return func(e *Event) {
		if e.Metadata == nil {
			e.Metadata = make(map[string]string)
		}
		e.Metadata[key] = value
	}
}

// NewEvent wraps data in an envelope with a fresh id and timestamp.
func NewEvent(eventType, aggregateID, aggregateType, source string, data any, opts ...EventOption) (*Event, error) {
	raw, err := json.Marshal(data)
	if err != nil {
		return nil, fmt.Errorf("marshal %s payload: %w", eventType, err)
	}

	e := &Event{
		EventID:       uuid.NewString(),
		EventType:     eventType,
		AggregateID:   aggregateID,
		AggregateType: aggregateType,
		Version:       SchemaVersion,
		Timestamp:     time.Now().UTC(),
		Source:        source,
		Data:          raw,
	}
	for _, opt := range opts {
		opt(e)
	}
	return e, nil
}

// Message renders the event as a kafka message on topic, keyed by the
// aggregate and carrying routing headers so consumers can filter without
// decoding the body.
func (e *Event) Message(topic string) (kafka.Message, error) {
	body, err := json.Marshal(e)
	if err != nil {
		return kafka.Message{}, fmt.Errorf("marshal %s event: %w", e.EventType, err)
	}

	headers := []kafka.Header{
		{Key: "event_type", Value: []byte(e.EventType)},
		{Key: "source", Value: []byte(e.Source)},
	}
	if e.CorrelationID != "" {
		headers = append(headers, kafka.Header{Key: "correlation_id", Value: []byte(e.CorrelationID)})
	}

	return kafka.Message{
		Topic:   topic,
		Key:     []byte(e.AggregateID),
		Value:   body,
		Headers: headers,
	}, nil
}

// ParseEvent decodes an envelope and, when payload is non-nil, its data.
func ParseEvent(raw []byte, payload any) (*Event, error) {
	var e Event
	if err := json.Unmarshal(raw, &e); err != nil {
		return nil, fmt.Errorf("unmarshal event: %w", err)
	}
	if e.Version != SchemaVersion {
		return nil, fmt.Errorf("event %s: unsupported version %d", e.EventID, e.Version)
	}
	if payload != nil {
		if err := json.Unmarshal(e.Data, payload); err != nil {
			return nil, fmt.Errorf("unmarshal %s payload: %w", e.EventType, err)
		}
	}
	return &e, nil
}

// Topic builds a topic name such as "sansli.cart.events".
func Topic(prefix, aggregate string) string {
	if prefix == "" {
		return aggregate + ".events"
	}
	return prefix + "." + aggregate + ".events"
}
