package worker

import (
	"context"
	"encoding/json"
	"log"
	"time"

	"github.com/amberhq/campaign-gateway/internal/kafka"
	"github.com/amberhq/campaign-gateway/internal/metrics"
	"github.com/amberhq/campaign-gateway/internal/model"
	"github.com/amberhq/campaign-gateway/internal/repository"
)

// Source is the consumer side the auditor reads from.
type Source interface {
	Fetch(ctx context.Context) (kafka.Message, error)
	Commit(ctx context.Context, m kafka.Message) error
}

// Auditor:
// - fetches dispatch events from Kafka (fed by the Debezium outbox relay),
// - decodes and validates them,
// - batch-inserts them into the ClickHouse dispatch log.
//
// Delivery is at-least-once; the log is append-only and duplicate rows are
// acceptable. Poison messages are committed and dropped so they never wedge
// the partition.
type Auditor struct {
	// Dependencies
	Consumer    Source
	DispatchLog repository.DispatchLogRepository

	// Behavior
	Workers   int           // goroutines decoding events
	BatchSize int           // max buffered events per flush
	BatchWait time.Duration // max time to wait before flush
}

// NewAuditor builds a worker with sane defaults.
func NewAuditor(consumer Source, dispatchLogRepo repository.DispatchLogRepository) *Auditor {
	return &Auditor{
		Consumer:    consumer,
		DispatchLog: dispatchLogRepo,
		Workers:     8,
		BatchSize:   200,
		BatchWait:   500 * time.Millisecond,
	}
}

// Run starts the auditor and blocks until ctx is cancelled.
func (a *Auditor) Run(ctx context.Context) error {
	if a.Workers <= 0 {
		a.Workers = 8
	}
	if a.BatchSize <= 0 {
		a.BatchSize = 200
	}
	if a.BatchWait <= 0 {
		a.BatchWait = 500 * time.Millisecond
	}

	// Channel for decoded events → batch writer
	events := make(chan model.DispatchEvent, a.BatchSize*2)
	defer close(events)

	// Start batch writer
	go a.runBatchWriter(ctx, events)

	// Fetch loop → fan-out to decoders
	msgCh := make(chan kafka.Message, a.Workers*2)

	// Fetcher goroutine
	go func() {
		defer close(msgCh)
		for {
			select {
			case <-ctx.Done():
				return
			default:
				m, err := a.Consumer.Fetch(ctx)
				if err != nil {
					if ctx.Err() != nil {
						return
					}
					log.Printf("[auditor] kafka fetch err: %v", err)
					time.Sleep(200 * time.Millisecond)
					continue
				}
				msgCh <- m
			}
		}
	}()

	// Start decoders
	for i := 0; i < a.Workers; i++ {
		go a.runDecoder(ctx, msgCh, events)
	}

	// Block until shutdown
	<-ctx.Done()
	return nil
}

// runDecoder parses dispatch events, forwards them, commits Kafka.
func (a *Auditor) runDecoder(ctx context.Context, in <-chan kafka.Message, out chan<- model.DispatchEvent) {
	for {
		select {
		case <-ctx.Done():
			return
		case m, ok := <-in:
			if !ok {
				return
			}
			a.decodeOne(ctx, m, out)
		}
	}
}

func (a *Auditor) decodeOne(ctx context.Context, m kafka.Message, out chan<- model.DispatchEvent) {
	// Parse event: { id, campaign_id, vendor_id, template_id, state, ... }
	var ev model.DispatchEvent
	if err := json.Unmarshal(m.Value, &ev); err != nil || ev.ID == "" || !ev.State.Terminal() {
		_ = a.Consumer.Commit(ctx, m) // poison → commit, skip
		metrics.AuditEventsTotal.WithLabelValues("dropped").Inc()
		if err != nil {
			log.Printf("[auditor] bad event json: %v", err)
		} else {
			log.Printf("[auditor] event not auditable: id=%q state=%q", ev.ID, ev.State)
		}
		return
	}

	out <- ev

	// Always commit (at-least-once; the log tolerates duplicates)
	if err := a.Consumer.Commit(ctx, m); err != nil {
		log.Printf("[auditor] commit err: %v", err)
	}
}

// runBatchWriter does size/time-based flush of events into ClickHouse.
func (a *Auditor) runBatchWriter(ctx context.Context, in <-chan model.DispatchEvent) {
	tick := time.NewTicker(a.BatchWait)
	defer tick.Stop()

	batch := make([]model.DispatchEvent, 0, a.BatchSize)

	flush := func() {
		if len(batch) == 0 {
			return
		}

		if err := a.DispatchLog.InsertBatch(ctx, batch); err != nil {
			// Offsets are already committed; a failed flush loses these rows
			// from the log, it never blocks the stream.
			log.Printf("[auditor] clickhouse insert err: %v (dropping %d events)", err, len(batch))
			metrics.AuditEventsTotal.WithLabelValues("dropped").Add(float64(len(batch)))
			batch = batch[:0]
			return
		}

		metrics.AuditEventsTotal.WithLabelValues("written").Add(float64(len(batch)))
		log.Printf("[auditor] flushed: events=%d", len(batch))
		batch = batch[:0]
	}

	for {
		select {
		case <-ctx.Done():
			flush()
			return

		case ev, ok := <-in:
			if !ok {
				flush()
				return
			}
			batch = append(batch, ev)

			if len(batch) >= a.BatchSize {
				flush()
			}

		case <-tick.C:
			flush()
		}
	}
}
