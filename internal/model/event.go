package model

import "time"

// DispatchEvent is the terminal-state record emitted for every dispatch. It
// is written to the transactional outbox, picked up by Debezium, published to
// Kafka and finally landed in the ClickHouse dispatch log by the auditor, so
// it carries both json and db tags.
type DispatchEvent struct {
	ID         string        `json:"id"                    db:"id"`
	CampaignID string        `json:"campaign_id"           db:"campaign_id"`
	VendorID   string        `json:"vendor_id"             db:"vendor_id"`
	TemplateID string        `json:"template_id"           db:"template_id"`
	State      DispatchState `json:"state"                 db:"state"`
	Reason     string        `json:"reason,omitempty"      db:"reason"`
	MessageSID string        `json:"message_sid,omitempty" db:"message_sid"`
	OccurredAt time.Time     `json:"occurred_at"           db:"occurred_at"`
}
