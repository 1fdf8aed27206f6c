package model

import "time"

// OutboxEvent is one row of the transactional outbox. Debezium tails the
// table and relays Payload to the Kafka topic named in Topic; the
// application never reads rows back.
type OutboxEvent struct {
	ID          uint64    `db:"id"`
	Aggregate   string    `db:"aggregate"`    // e.g. "dispatch"
	AggregateID string    `db:"aggregate_id"` // DispatchEvent.ID
	Topic       string    `db:"topic"`
	Payload     []byte    `db:"payload"`
	CreatedAt   time.Time `db:"created_at"`
}
