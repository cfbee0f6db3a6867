package contracts

import (
	"encoding/json"
	"time"
)

type EventEnvelope struct {
	EventID          string          `json:"event_id"`
	EventType        string          `json:"event_type"`
	OccurredAt       time.Time       `json:"occurred_at"`
	PartitionKeyPath string          `json:"partition_key_path"`
	PartitionKey     string          `json:"partition_key"`
	SourceService    string          `json:"source_service"`
	TraceID          string          `json:"trace_id"`
	SchemaVersion    string          `json:"schema_version"`
	Data             json.RawMessage `json:"data"`
}

type LinkCreatedPayload struct {
	CreatorID string `json:"creator_id"`
	LinkID    string `json:"link_id"`
	LinkCode  string `json:"link_code"`
	Alias     string `json:"alias,omitempty"`
	CreatedAt string `json:"created_at"`
}

type ClickRecordedPayload struct {
	CreatorID  string `json:"creator_id"`
	LinkID     string `json:"link_id"`
	SessionID  string `json:"session_id"`
	Unique     bool   `json:"unique"`
	DeviceType string `json:"device_type"`
	ClickedAt  string `json:"clicked_at"`
}

type ConversionAttributedPayload struct {
	CreatorID        string  `json:"creator_id"`
	TransactionID    string  `json:"transaction_id"`
	LinkID           string  `json:"link_id"`
	ClickID          string  `json:"click_id"`
	OrderID          string  `json:"order_id"`
	OrderAmount      float64 `json:"order_amount"`
	CommissionRate   float64 `json:"commission_rate"`
	CommissionAmount float64 `json:"commission_amount"`
	AttributedAt     string  `json:"attributed_at"`
}

type TierChangedPayload struct {
	CreatorID    string  `json:"creator_id"`
	Tier         string  `json:"tier"`
	PreviousRate float64 `json:"previous_rate"`
	NewRate      float64 `json:"new_rate"`
	Volume30d    float64 `json:"volume_30d"`
	ChangedAt    string  `json:"changed_at"`
}

type TransactionStatusChangedPayload struct {
	CreatorID     string `json:"creator_id"`
	TransactionID string `json:"transaction_id"`
	OrderID       string `json:"order_id"`
	FromStatus    string `json:"from_status"`
	ToStatus      string `json:"to_status"`
	ChangedAt     string `json:"changed_at"`
}
