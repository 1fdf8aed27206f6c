package repository

import (
	"context"

	"github.com/amberhq/campaign-gateway/internal/model"
	"github.com/jmoiron/sqlx"
)

// ResponsesRepository defines persistence for the campaign_responses table.
type ResponsesRepository interface {
	// Upsert blindly writes the row for (campaign_id, vendor_id). There is no
	// read-before-write: whatever the pair held before is overwritten.
	Upsert(ctx context.Context, tx *sqlx.Tx, rec model.ResponseRecord) error
	ListByCampaign(ctx context.Context, campaignID string, limit, offset int) ([]model.ResponseRecord, error)
}

type ResponsesRepositoryImpl struct {
	db *sqlx.DB
}

func NewResponsesRepository(db *sqlx.DB) *ResponsesRepositoryImpl {
	return &ResponsesRepositoryImpl{db: db}
}

var _ ResponsesRepository = (*ResponsesRepositoryImpl)(nil)

func (r *ResponsesRepositoryImpl) withTx(ctx context.Context, tx *sqlx.Tx, fn func(*sqlx.Tx) error) error {
	if tx != nil {
		return fn(tx)
	}
	t, err := r.db.BeginTxx(ctx, nil)
	if err != nil {
		return err
	}
	defer func() { _ = t.Rollback() }()
	if err := fn(t); err != nil {
		return err
	}
	return t.Commit()
}

// Upsert inserts or replaces the tracking row for one (campaign, vendor)
// pair in a single statement. The generated id sticks on insert; on conflict
// the existing row keeps its id and everything else is reset.
func (r *ResponsesRepositoryImpl) Upsert(ctx context.Context, tx *sqlx.Tx, rec model.ResponseRecord) error {
	const q = `
		INSERT INTO campaign_responses
		    (id, campaign_id, vendor_id, form_data, response_status, submitted_at, created_at, updated_at)
		VALUES
		    (?,  ?,           ?,         ?,         ?,               NULL,         NOW(),      NOW())
		ON DUPLICATE KEY UPDATE
		    form_data       = VALUES(form_data),
		    response_status = VALUES(response_status),
		    submitted_at    = VALUES(submitted_at),
		    updated_at      = VALUES(updated_at)
	`
	return r.withTx(ctx, tx, func(tx *sqlx.Tx) error {
		_, err := tx.ExecContext(ctx, q,
			rec.ID, rec.CampaignID, rec.VendorID, rec.FormData, rec.Status.String(),
		)
		return err
	})
}

func (r *ResponsesRepositoryImpl) ListByCampaign(ctx context.Context, campaignID string, limit, offset int) ([]model.ResponseRecord, error) {
	if limit <= 0 || limit > 500 {
		limit = 50
	}
	if offset < 0 {
		offset = 0
	}

	var recs []model.ResponseRecord
	err := r.db.SelectContext(ctx, &recs, `
		SELECT id, campaign_id, vendor_id, form_data, response_status, submitted_at, created_at, updated_at
		  FROM campaign_responses
		 WHERE campaign_id = ?
		 ORDER BY updated_at DESC
		 LIMIT ? OFFSET ?
	`, campaignID, limit, offset)
	if err != nil {
		return nil, err
	}
	return recs, nil
}
