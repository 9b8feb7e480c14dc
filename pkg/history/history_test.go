package history

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo/integration/mtest"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"

	"github.com/AyanAnees/volunteer-webapp-sd29-sub001/pkg/core/model"
)

func TestMongoRecorder_Record(t *testing.T) {
	mt := mtest.New(t, mtest.NewOptions().ClientType(mtest.Mock))

	mt.Run("success", func(mt *mtest.T) {
		mt.AddMockResponses(mtest.CreateSuccessResponse())
		r := NewMongoRecorder(mt.DB, mt.Coll.Name())

		err := r.Record(context.Background(), model.HistoryEntry{
			ApplicationID: "app-1",
			EventID:       "e1",
			VolunteerID:   "vol-1",
			Action:        "apply",
			To:            model.StatusApplied,
		})
		assert.NoError(mt, err)
	})

	mt.Run("write error", func(mt *mtest.T) {
		mt.AddMockResponses(mtest.CreateWriteErrorsResponse(mtest.WriteError{
			Index:   0,
			Code:    11000,
			Message: "duplicate key error",
		}))
		r := NewMongoRecorder(mt.DB, mt.Coll.Name())

		err := r.Record(context.Background(), model.HistoryEntry{ApplicationID: "app-1"})
		require.Error(mt, err)
		assert.Contains(mt, err.Error(), "failed to insert history entry")
	})
}

func TestMongoRecorder_Query(t *testing.T) {
	mt := mtest.New(t, mtest.NewOptions().ClientType(mtest.Mock))

	mt.Run("decodes entries", func(mt *mtest.T) {
		at := time.Date(2025, 3, 1, 10, 0, 0, 0, time.UTC)
		ns := mt.DB.Name() + "." + mt.Coll.Name()
		mt.AddMockResponses(mtest.CreateCursorResponse(0, ns, mtest.FirstBatch,
			bson.D{
				{Key: "_id", Value: primitive.NewObjectID()},
				{Key: "application_id", Value: "app-1"},
				{Key: "event_id", Value: "e1"},
				{Key: "volunteer_id", Value: "vol-1"},
				{Key: "action", Value: "transition"},
				{Key: "from", Value: "Applied"},
				{Key: "to", Value: "Accepted"},
				{Key: "at", Value: at},
			},
			bson.D{
				{Key: "_id", Value: primitive.NewObjectID()},
				{Key: "application_id", Value: "app-1"},
				{Key: "action", Value: "apply"},
				{Key: "to", Value: "Applied"},
				{Key: "at", Value: at.Add(-time.Hour)},
			},
		))
		r := NewMongoRecorder(mt.DB, mt.Coll.Name())

		entries, err := r.Query(context.Background(), Filter{ApplicationID: "app-1"})
		require.NoError(mt, err)
		require.Len(mt, entries, 2)

		assert.Equal(mt, "transition", entries[0].Action)
		assert.Equal(mt, model.StatusApplied, entries[0].From)
		assert.Equal(mt, model.StatusAccepted, entries[0].To)
		assert.True(mt, at.Equal(entries[0].At))
		assert.Equal(mt, model.ApplicationStatus(""), entries[1].From)
	})
}

func TestLogRecorder_Record(t *testing.T) {
	core, logs := observer.New(zapcore.InfoLevel)
	r := NewLogRecorder(zap.New(core))

	err := r.Record(context.Background(), model.HistoryEntry{
		ApplicationID: "app-1",
		EventID:       "e1",
		VolunteerID:   "vol-1",
		Action:        "transition",
		From:          model.StatusAccepted,
		To:            model.StatusParticipated,
	})
	require.NoError(t, err)

	entries := logs.FilterMessage("Application history").All()
	require.Len(t, entries, 1)
	fields := entries[0].ContextMap()
	assert.Equal(t, "app-1", fields["application_id"])
	assert.Equal(t, "Accepted", fields["from"])
	assert.Equal(t, "Participated", fields["to"])
	assert.Equal(t, "history", entries[0].LoggerName)
}

func TestLogRecorder_OmitsEmptyFrom(t *testing.T) {
	core, logs := observer.New(zapcore.InfoLevel)
	r := NewLogRecorder(zap.New(core))

	require.NoError(t, r.Record(context.Background(), model.HistoryEntry{Action: "apply", To: model.StatusApplied}))

	fields := logs.All()[0].ContextMap()
	_, ok := fields["from"]
	assert.False(t, ok)
}
