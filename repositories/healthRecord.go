package repositories

import (
	"context"
	"time"

	"github.com/MiniduTH/vitalink-sub001/config/db"
	"github.com/MiniduTH/vitalink-sub001/models"
	"github.com/MiniduTH/vitalink-sub001/util"

	log "github.com/sirupsen/logrus"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

type MongoHealthRecordRepository struct {
	coll *mongo.Collection
}

func NewHealthRecordRepository(database *mongo.Database) *MongoHealthRecordRepository {
	return &MongoHealthRecordRepository{coll: database.Collection(util.HealthRecordCollection)}
}

func (r *MongoHealthRecordRepository) Create(ctx context.Context, record *models.HealthRecord) error {
	if record.ID.IsZero() {
		record.ID = primitive.NewObjectID()
	}
	if _, err := db.CreateOne(ctx, r.coll, record); err != nil {
		log.Println("Error from CreateOne health record: ", err)
		return translate(err)
	}
	return nil
}

func (r *MongoHealthRecordRepository) GetByPatient(ctx context.Context, patientID string) (*models.HealthRecord, error) {
	record := &models.HealthRecord{}
	if err := db.FindOne(ctx, r.coll, bson.M{"patientId": patientID}, record); err != nil {
		return nil, translate(err)
	}
	return record, nil
}

/*
* Upsert an empty record keyed by patientId
* $setOnInsert leaves an existing record untouched, so calling it twice is safe
 */
func (r *MongoHealthRecordRepository) EnsureForPatient(ctx context.Context, patientID string) (*models.HealthRecord, error) {
	now := time.Now().UTC()
	update := bson.M{"$setOnInsert": bson.M{
		"patientId":         patientID,
		"allergies":         bson.A{},
		"chronicConditions": bson.A{},
		"encounters":        bson.A{},
		"medications":       bson.A{},
		"createdAt":         now,
		"updatedAt":         now,
	}}
	opts := options.FindOneAndUpdate().SetUpsert(true).SetReturnDocument(options.After)
	record := &models.HealthRecord{}
	err := r.coll.FindOneAndUpdate(ctx, bson.M{"patientId": patientID}, update, opts).Decode(record)
	if err != nil {
		log.Println("Error from FindOneAndUpdate health record upsert: ", err)
		return nil, translate(err)
	}
	return record, nil
}

func (r *MongoHealthRecordRepository) UpdateDetails(ctx context.Context, patientID, bloodType string, allergies, chronicConditions []string) (*models.HealthRecord, error) {
	return r.set(ctx, patientID, bson.M{
		"bloodType":         bloodType,
		"allergies":         allergies,
		"chronicConditions": chronicConditions,
	})
}

// ReplaceEncounters rewrites the whole encounter list.
func (r *MongoHealthRecordRepository) ReplaceEncounters(ctx context.Context, patientID string, encounters []models.Encounter) (*models.HealthRecord, error) {
	return r.set(ctx, patientID, bson.M{"encounters": encounters})
}

func (r *MongoHealthRecordRepository) ReplaceMedications(ctx context.Context, patientID string, medications []models.Medication) (*models.HealthRecord, error) {
	return r.set(ctx, patientID, bson.M{"medications": medications})
}

func (r *MongoHealthRecordRepository) set(ctx context.Context, patientID string, fields bson.M) (*models.HealthRecord, error) {
	fields["updatedAt"] = time.Now().UTC()
	opts := options.FindOneAndUpdate().SetReturnDocument(options.After)
	record := &models.HealthRecord{}
	err := r.coll.FindOneAndUpdate(ctx, bson.M{"patientId": patientID}, bson.M{"$set": fields}, opts).Decode(record)
	if err != nil {
		return nil, translate(err)
	}
	return record, nil
}
