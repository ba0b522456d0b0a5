package migrations

import (
	"context"

	"github.com/MiniduTH/vitalink-sub001/util"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

func unique(field string) mongo.IndexModel {
	return mongo.IndexModel{
		Keys:    bson.D{{Key: field, Value: 1}},
		Options: options.Index().SetUnique(true),
	}
}

/*
* Store level backstop for the duplicate checks the services make:
* patient email, policy number, one payment per appointment,
* one claim per payment, one health record per patient
 */
func CreateUniqueIndexes(ctx context.Context, database *mongo.Database) error {
	return createIndexes(ctx, database, []collectionIndexes{
		{util.PatientCollection, []mongo.IndexModel{unique("email")}},
		{util.InsurancePolicyCollection, []mongo.IndexModel{unique("policyNumber")}},
		{util.PaymentCollection, []mongo.IndexModel{unique("appointmentId")}},
		{util.InsuranceClaimCollection, []mongo.IndexModel{unique("paymentId"), unique("claimNumber")}},
		{util.HealthRecordCollection, []mongo.IndexModel{unique("patientId")}},
		{util.StaffCollection, []mongo.IndexModel{unique("code"), unique("email")}},
		{util.DepartmentCollection, []mongo.IndexModel{unique("code")}},
		{util.HospitalCollection, []mongo.IndexModel{unique("code")}},
	})
}
