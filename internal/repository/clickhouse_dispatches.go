package repository

import (
	"context"
	"strings"

	"github.com/amberhq/campaign-gateway/internal/model"
	"github.com/jmoiron/sqlx"
)

// DispatchLogRepository is the ClickHouse sink and report source for
// terminal dispatch events.
type DispatchLogRepository interface {
	InsertBatch(ctx context.Context, events []model.DispatchEvent) error
	List(ctx context.Context, campaignID string, state model.DispatchState, limit, offset int) ([]model.DispatchEvent, error)
}

type dispatchLogRepository struct {
	ch *sqlx.DB // ClickHouse connection
}

func NewDispatchLogRepository(ch *sqlx.DB) DispatchLogRepository {
	return &dispatchLogRepository{ch: ch}
}

// InsertBatch writes many events in a single statement. Re-delivered events
// produce duplicate rows; the log is append-only and readers tolerate that.
func (r *dispatchLogRepository) InsertBatch(ctx context.Context, events []model.DispatchEvent) error {
	if len(events) == 0 {
		return nil
	}

	var sb strings.Builder
	args := make([]any, 0, len(events)*8)

	sb.WriteString(`INSERT INTO campgw.dispatch_log (id, campaign_id, vendor_id, template_id, state, reason, message_sid, occurred_at) VALUES `)
	for i, ev := range events {
		if i > 0 {
			sb.WriteString(",")
		}
		sb.WriteString("(?, ?, ?, ?, ?, ?, ?, ?)")
		args = append(args, ev.ID, ev.CampaignID, ev.VendorID, ev.TemplateID, ev.State.String(), ev.Reason, ev.MessageSID, ev.OccurredAt)
	}

	_, err := r.ch.ExecContext(ctx, sb.String(), args...)
	return err
}

func (r *dispatchLogRepository) List(ctx context.Context, campaignID string, state model.DispatchState, limit, offset int) ([]model.DispatchEvent, error) {
	if limit <= 0 || limit > 1000 {
		limit = 50
	}
	if offset < 0 {
		offset = 0
	}

	q := `
		SELECT id, campaign_id, vendor_id, template_id, state, reason, message_sid, occurred_at
		FROM campgw.dispatch_log
		WHERE 1 = 1
	`
	args := []any{}

	if campaignID != "" {
		q += " AND campaign_id = ?"
		args = append(args, campaignID)
	}
	if state != "" {
		q += " AND state = ?"
		args = append(args, state.String())
	}

	q += " ORDER BY occurred_at DESC LIMIT ? OFFSET ?"
	args = append(args, limit, offset)

	var rows []model.DispatchEvent
	if err := r.ch.SelectContext(ctx, &rows, q, args...); err != nil {
		return nil, err
	}
	return rows, nil
}
