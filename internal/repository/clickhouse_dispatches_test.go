package repository

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/amberhq/campaign-gateway/internal/model"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var dispatchLogCols = []string{
	"id", "campaign_id", "vendor_id", "template_id", "state", "reason",
	"message_sid", "occurred_at",
}

func testDispatchEvent(id string, st model.DispatchState) model.DispatchEvent {
	return model.DispatchEvent{
		ID:         id,
		CampaignID: "camp-q3-compliance",
		VendorID:   "vnd-0042",
		TemplateID: "compliance-survey-whatsapp",
		State:      st,
		MessageSID: "wamid.test",
		OccurredAt: time.Now().UTC(),
	}
}

func TestDispatchLogRepository_InsertBatch(t *testing.T) {
	t.Run("empty batch is a no-op", func(t *testing.T) {
		db, mock := newMockDB(t)
		repo := NewDispatchLogRepository(db)

		assert.NoError(t, repo.InsertBatch(context.Background(), nil))
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("one statement for many events", func(t *testing.T) {
		db, mock := newMockDB(t)
		repo := NewDispatchLogRepository(db)

		ev1 := testDispatchEvent("e1", model.StateCompleted)
		ev2 := testDispatchEvent("e2", model.StateFailed)
		ev2.Reason = "gateway_error"
		ev2.MessageSID = ""

		mock.ExpectExec(`INSERT INTO campgw.dispatch_log .*VALUES \(\?, \?, \?, \?, \?, \?, \?, \?\),\(\?, \?, \?, \?, \?, \?, \?, \?\)`).
			WithArgs(
				ev1.ID, ev1.CampaignID, ev1.VendorID, ev1.TemplateID, "completed", "", "wamid.test", ev1.OccurredAt,
				ev2.ID, ev2.CampaignID, ev2.VendorID, ev2.TemplateID, "failed", "gateway_error", "", ev2.OccurredAt,
			).
			WillReturnResult(sqlmock.NewResult(0, 2))

		require.NoError(t, repo.InsertBatch(context.Background(), []model.DispatchEvent{ev1, ev2}))
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("exec error propagates", func(t *testing.T) {
		db, mock := newMockDB(t)
		repo := NewDispatchLogRepository(db)

		mock.ExpectExec(`INSERT INTO campgw.dispatch_log`).
			WillReturnError(errors.New("clickhouse down"))

		err := repo.InsertBatch(context.Background(), []model.DispatchEvent{testDispatchEvent("e1", model.StateCompleted)})
		assert.Error(t, err)
	})
}

func TestDispatchLogRepository_List(t *testing.T) {
	t.Run("no filters", func(t *testing.T) {
		db, mock := newMockDB(t)
		repo := NewDispatchLogRepository(db)

		now := time.Now().UTC()
		mock.ExpectQuery(`(?s)SELECT .*FROM campgw.dispatch_log.*ORDER BY occurred_at DESC`).
			WithArgs(50, 0).
			WillReturnRows(sqlmock.NewRows(dispatchLogCols).
				AddRow("e1", "camp-1", "vnd-1", "tpl-1", "completed", "", "wamid.1", now))

		rows, err := repo.List(context.Background(), "", "", 0, 0)
		require.NoError(t, err)
		require.Len(t, rows, 1)

		assert.Equal(t, model.StateCompleted, rows[0].State)
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("campaign and state filters add args", func(t *testing.T) {
		db, mock := newMockDB(t)
		repo := NewDispatchLogRepository(db)

		mock.ExpectQuery(`(?s)SELECT .*FROM campgw.dispatch_log.*AND campaign_id = \?.*AND state = \?`).
			WithArgs("camp-1", "failed", 20, 40).
			WillReturnRows(sqlmock.NewRows(dispatchLogCols))

		_, err := repo.List(context.Background(), "camp-1", model.StateFailed, 20, 40)
		assert.NoError(t, err)
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("limit clamped above 1000", func(t *testing.T) {
		db, mock := newMockDB(t)
		repo := NewDispatchLogRepository(db)

		mock.ExpectQuery(`(?s)SELECT .*FROM campgw.dispatch_log`).
			WithArgs(50, 0).
			WillReturnRows(sqlmock.NewRows(dispatchLogCols))

		_, err := repo.List(context.Background(), "", "", 5000, 0)
		assert.NoError(t, err)
		assert.NoError(t, mock.ExpectationsWereMet())
	})
}
