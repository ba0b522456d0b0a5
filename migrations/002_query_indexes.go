package migrations

import (
	"context"

	"github.com/MiniduTH/vitalink-sub001/util"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
)

func CreateQueryIndexes(ctx context.Context, database *mongo.Database) error {
	return createIndexes(ctx, database, []collectionIndexes{
		{util.AppointmentCollection, []mongo.IndexModel{
			{Keys: bson.D{{Key: "doctorId", Value: 1}, {Key: "appointmentDate", Value: 1}, {Key: "timeSlot", Value: 1}}},
			{Keys: bson.D{{Key: "patientId", Value: 1}}},
			{Keys: bson.D{{Key: "appointmentDate", Value: 1}}},
		}},
		{util.PatientCollection, []mongo.IndexModel{
			{Keys: bson.D{{Key: "status", Value: 1}}},
		}},
		{util.PaymentCollection, []mongo.IndexModel{
			{Keys: bson.D{{Key: "patientId", Value: 1}}},
			{Keys: bson.D{{Key: "createdAt", Value: 1}}},
		}},
		{util.InsurancePolicyCollection, []mongo.IndexModel{
			{Keys: bson.D{{Key: "patientId", Value: 1}, {Key: "status", Value: 1}}},
		}},
		{util.InsuranceClaimCollection, []mongo.IndexModel{
			{Keys: bson.D{{Key: "policyId", Value: 1}}},
		}},
	})
}
