package repository

import (
	"context"
	"errors"
	"testing"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/amberhq/campaign-gateway/internal/model"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testOutboxEvent() model.OutboxEvent {
	return model.OutboxEvent{
		Aggregate:   "dispatch",
		AggregateID: "01HXYZABCDEF0123456789ABCD",
		Topic:       "campaign.dispatches",
		Payload:     []byte(`{"state":"completed"}`),
	}
}

func TestOutboxRepository_Insert(t *testing.T) {
	t.Run("inside caller transaction", func(t *testing.T) {
		db, mock := newMockDB(t)
		repo := NewOutboxRepository(db)
		ev := testOutboxEvent()

		mock.ExpectBegin()
		mock.ExpectExec(`INSERT INTO outbox \(aggregate, aggregate_id, topic, payload, created_at\)`).
			WithArgs(ev.Aggregate, ev.AggregateID, ev.Topic, ev.Payload).
			WillReturnResult(sqlmock.NewResult(1, 1))
		mock.ExpectCommit()

		tx, err := db.BeginTxx(context.Background(), nil)
		require.NoError(t, err)

		require.NoError(t, repo.Insert(context.Background(), tx, ev))
		require.NoError(t, tx.Commit())

		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("nil tx opens its own transaction", func(t *testing.T) {
		db, mock := newMockDB(t)
		repo := NewOutboxRepository(db)
		ev := testOutboxEvent()

		mock.ExpectBegin()
		mock.ExpectExec(`INSERT INTO outbox`).
			WithArgs(ev.Aggregate, ev.AggregateID, ev.Topic, ev.Payload).
			WillReturnResult(sqlmock.NewResult(1, 1))
		mock.ExpectCommit()

		require.NoError(t, repo.Insert(context.Background(), nil, ev))
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("exec failure rolls back own transaction", func(t *testing.T) {
		db, mock := newMockDB(t)
		repo := NewOutboxRepository(db)

		mock.ExpectBegin()
		mock.ExpectExec(`INSERT INTO outbox`).
			WillReturnError(errors.New("disk full"))
		mock.ExpectRollback()

		err := repo.Insert(context.Background(), nil, testOutboxEvent())
		assert.Error(t, err)
		assert.NoError(t, mock.ExpectationsWereMet())
	})
}
