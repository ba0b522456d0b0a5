package repositories

import (
	"context"
	"testing"

	"github.com/MiniduTH/vitalink-sub001/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo/integration/mtest"
)

func appointmentDoc(id primitive.ObjectID, status models.AppointmentStatus) bson.D {
	return bson.D{
		{Key: "_id", Value: id},
		{Key: "patientId", Value: "p-1"},
		{Key: "doctorId", Value: "DOC001"},
		{Key: "appointmentDate", Value: "2026-11-02"},
		{Key: "timeSlot", Value: "09:00-09:30"},
		{Key: "status", Value: string(status)},
	}
}

func TestAppointmentRepository(t *testing.T) {
	mt := mtest.New(t, mtest.NewOptions().ClientType(mtest.Mock))
	ctx := context.Background()

	mt.Run("find active by slot", func(mt *mtest.T) {
		id := primitive.NewObjectID()
		mt.AddMockResponses(mtest.CreateCursorResponse(0, "test.APPOINTMENT", mtest.FirstBatch,
			appointmentDoc(id, models.AppointmentScheduled)))
		repo := NewAppointmentRepository(mt.DB)

		found, err := repo.FindActiveBySlot(ctx, "DOC001", "2026-11-02", "09:00-09:30")
		require.NoError(mt, err)
		require.Len(mt, found, 1)
		assert.Equal(mt, id, found[0].ID)
	})

	mt.Run("update status applies", func(mt *mtest.T) {
		id := primitive.NewObjectID()
		mt.AddMockResponses(mtest.CreateSuccessResponse(
			bson.E{Key: "value", Value: appointmentDoc(id, models.AppointmentConfirmed)},
		))
		repo := NewAppointmentRepository(mt.DB)

		updated, err := repo.UpdateStatus(ctx, id.Hex(), models.AppointmentScheduled, models.AppointmentConfirmed, nil)
		require.NoError(mt, err)
		assert.Equal(mt, models.AppointmentConfirmed, updated.Status)
	})

	mt.Run("update status lost race", func(mt *mtest.T) {
		id := primitive.NewObjectID()
		mt.AddMockResponses(
			mtest.CreateSuccessResponse(bson.E{Key: "value", Value: nil}),
			mtest.CreateCursorResponse(0, "test.APPOINTMENT", mtest.FirstBatch,
				appointmentDoc(id, models.AppointmentCancelled)),
		)
		repo := NewAppointmentRepository(mt.DB)

		_, err := repo.UpdateStatus(ctx, id.Hex(), models.AppointmentScheduled, models.AppointmentConfirmed, nil)
		assert.ErrorIs(mt, err, ErrStatusChanged)
	})

	mt.Run("update status unknown id", func(mt *mtest.T) {
		mt.AddMockResponses(
			mtest.CreateSuccessResponse(bson.E{Key: "value", Value: nil}),
			mtest.CreateCursorResponse(0, "test.APPOINTMENT", mtest.FirstBatch),
		)
		repo := NewAppointmentRepository(mt.DB)

		_, err := repo.UpdateStatus(ctx, primitive.NewObjectID().Hex(), models.AppointmentScheduled, models.AppointmentConfirmed, nil)
		assert.ErrorIs(mt, err, ErrNotFound)
	})
}
