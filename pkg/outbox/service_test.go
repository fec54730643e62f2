package outbox

import (
	"context"
	"encoding/json"
	"errors"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"

	"github.com/media2net-app/bloemenvandegier-sub001/pkg/db/models"
	"github.com/media2net-app/bloemenvandegier-sub001/pkg/enums"
	"github.com/media2net-app/bloemenvandegier-sub001/pkg/logger"
)

func setupOutboxTestDB(t *testing.T) *gorm.DB {
	t.Helper()

	db, err := gorm.Open(sqlite.Open("file::memory:"), &gorm.Config{})
	require.NoError(t, err)

	schema := `
CREATE TABLE IF NOT EXISTS outbox_events (
  id TEXT PRIMARY KEY,
  event_type TEXT NOT NULL,
  aggregate_type TEXT NOT NULL,
  aggregate_id TEXT NOT NULL,
  payload TEXT NOT NULL,
  created_at DATETIME,
  published_at DATETIME,
  attempt_count INTEGER NOT NULL DEFAULT 0,
  last_error TEXT
);`
	require.NoError(t, db.Exec(schema).Error)
	return db
}

func TestEmitWrapsPayloadInEnvelope(t *testing.T) {
	db := setupOutboxTestDB(t)
	service := NewService(NewRepository(db), logger.New(logger.Options{ServiceName: "test"}))

	orderID := uuid.New()
	actor := uuid.New()
	err := service.Emit(context.Background(), db, DomainEvent{
		EventType:     enums.EventOrderCreated,
		AggregateType: enums.AggregateOrder,
		AggregateID:   orderID,
		Actor:         &ActorRef{UserID: actor, Role: "admin"},
		Data:          map[string]string{"number": "ORD-2026-000042"},
		Version:       1,
	})
	require.NoError(t, err)

	var row models.OutboxEvent
	require.NoError(t, db.First(&row).Error)
	assert.Equal(t, enums.EventOrderCreated, row.EventType)
	assert.Equal(t, orderID, row.AggregateID)
	assert.Nil(t, row.PublishedAt)

	var envelope PayloadEnvelope
	require.NoError(t, json.Unmarshal(row.Payload, &envelope))
	assert.Equal(t, 1, envelope.Version)
	assert.NotEmpty(t, envelope.EventID)
	require.NotNil(t, envelope.Actor)
	assert.Equal(t, actor, envelope.Actor.UserID)

	var data map[string]string
	require.NoError(t, json.Unmarshal(envelope.Data, &data))
	assert.Equal(t, "ORD-2026-000042", data["number"])
}

func TestEmitRequiresTransaction(t *testing.T) {
	db := setupOutboxTestDB(t)
	service := NewService(NewRepository(db), nil)

	err := service.Emit(context.Background(), nil, DomainEvent{
		EventType:     enums.EventOrderCreated,
		AggregateType: enums.AggregateOrder,
		AggregateID:   uuid.New(),
	})
	require.Error(t, err)
}

func TestEmitIfNotExistsDeduplicates(t *testing.T) {
	db := setupOutboxTestDB(t)
	service := NewService(NewRepository(db), nil)
	orderID := uuid.New()

	event := DomainEvent{
		EventType:     enums.EventOrderCreated,
		AggregateType: enums.AggregateOrder,
		AggregateID:   orderID,
		Data:          map[string]string{"number": "ORD-2026-000043"},
		Version:       1,
	}
	require.NoError(t, service.EmitIfNotExists(context.Background(), db, event))
	require.NoError(t, service.EmitIfNotExists(context.Background(), db, event))

	var count int64
	require.NoError(t, db.Model(&models.OutboxEvent{}).Count(&count).Error)
	assert.Equal(t, int64(1), count)
}

func TestRepositoryPublishLifecycle(t *testing.T) {
	db := setupOutboxTestDB(t)
	repo := NewRepository(db)

	older := models.OutboxEvent{
		ID:            uuid.New(),
		EventType:     enums.EventOrderCreated,
		AggregateType: enums.AggregateOrder,
		AggregateID:   uuid.New(),
		Payload:       json.RawMessage(`{"version":1}`),
		CreatedAt:     time.Now().Add(-time.Hour),
	}
	newer := models.OutboxEvent{
		ID:            uuid.New(),
		EventType:     enums.EventOrderStatusChanged,
		AggregateType: enums.AggregateOrder,
		AggregateID:   uuid.New(),
		Payload:       json.RawMessage(`{"version":1}`),
		CreatedAt:     time.Now(),
	}
	require.NoError(t, repo.Insert(db, older))
	require.NoError(t, repo.Insert(db, newer))

	rows, err := repo.FetchUnpublished(10)
	require.NoError(t, err)
	require.Len(t, rows, 2)
	assert.Equal(t, older.ID, rows[0].ID)

	require.NoError(t, repo.MarkPublished(older.ID))
	rows, err = repo.FetchUnpublished(10)
	require.NoError(t, err)
	require.Len(t, rows, 1)
	assert.Equal(t, newer.ID, rows[0].ID)

	require.NoError(t, repo.MarkFailed(newer.ID, errors.New("topic missing")))
	require.NoError(t, repo.MarkFailed(newer.ID, errors.New("topic missing")))

	var failed models.OutboxEvent
	require.NoError(t, db.First(&failed, "id = ?", newer.ID).Error)
	assert.Equal(t, 2, failed.AttemptCount)
	require.NotNil(t, failed.LastError)
	assert.Equal(t, "topic missing", *failed.LastError)
}
