package repositories

import (
	"context"
	"regexp"
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

type MongoPatientRepository struct {
	coll *mongo.Collection
}

func NewPatientRepository(database *mongo.Database) *MongoPatientRepository {
	return &MongoPatientRepository{coll: database.Collection(util.PatientCollection)}
}

func (r *MongoPatientRepository) Create(ctx context.Context, patient *models.Patient) error {
	if patient.ID.IsZero() {
		patient.ID = primitive.NewObjectID()
	}
	if _, err := db.CreateOne(ctx, r.coll, patient); err != nil {
		log.Println("Error from CreateOne patient: ", err)
		return translate(err)
	}
	return nil
}

func (r *MongoPatientRepository) GetByID(ctx context.Context, id string) (*models.Patient, error) {
	oid, err := objectID(id)
	if err != nil {
		return nil, err
	}
	patient := &models.Patient{}
	if err := db.FindOne(ctx, r.coll, bson.M{"_id": oid}, patient); err != nil {
		return nil, translate(err)
	}
	return patient, nil
}

func (r *MongoPatientRepository) GetByEmail(ctx context.Context, email string) (*models.Patient, error) {
	patient := &models.Patient{}
	if err := db.FindOne(ctx, r.coll, bson.M{"email": email}, patient); err != nil {
		return nil, translate(err)
	}
	return patient, nil
}

/*
* Replace the editable fields of the patient
* Status is left alone, it only moves through SetStatus
 */
func (r *MongoPatientRepository) Update(ctx context.Context, patient *models.Patient) error {
	update := bson.M{"$set": bson.M{
		"name":             patient.Name,
		"dateOfBirth":      patient.DateOfBirth,
		"phone":            patient.Phone,
		"email":            patient.Email,
		"gender":           patient.Gender,
		"address":          patient.Address,
		"emergencyContact": patient.EmergencyContact,
		"updatedAt":        patient.UpdatedAt,
		"updatedBy":        patient.UpdatedBy,
	}}
	res, err := db.UpdateOne(ctx, r.coll, bson.M{"_id": patient.ID}, update)
	if err != nil {
		log.Println("Error from UpdateOne patient: ", err)
		return translate(err)
	}
	if res.MatchedCount == 0 {
		return ErrNotFound
	}
	return nil
}

func (r *MongoPatientRepository) Delete(ctx context.Context, id string) error {
	oid, err := objectID(id)
	if err != nil {
		return err
	}
	res, err := db.DeleteOne(ctx, r.coll, bson.M{"_id": oid})
	if err != nil {
		log.Println("Error from DeleteOne patient: ", err)
		return err
	}
	if res.DeletedCount == 0 {
		return ErrNotFound
	}
	return nil
}

/*
* Case-insensitive substring match over name, email and phone
* The query is quoted so user input is never a pattern
 */
func (r *MongoPatientRepository) Search(ctx context.Context, query string, limit int64) ([]models.Patient, error) {
	pattern := primitive.Regex{Pattern: regexp.QuoteMeta(query), Options: "i"}
	filter := bson.M{"$or": bson.A{
		bson.M{"name": pattern},
		bson.M{"email": pattern},
		bson.M{"phone": pattern},
	}}
	opts := options.Find().SetSort(bson.D{{Key: "name", Value: 1}})
	if limit > 0 {
		opts.SetLimit(limit)
	}
	return db.FindAll[models.Patient](ctx, r.coll, filter, opts)
}

func (r *MongoPatientRepository) List(ctx context.Context, limit int64) ([]models.Patient, error) {
	opts := options.Find().SetSort(bson.D{{Key: "createdAt", Value: -1}})
	if limit > 0 {
		opts.SetLimit(limit)
	}
	return db.FindAll[models.Patient](ctx, r.coll, bson.M{}, opts)
}

func (r *MongoPatientRepository) ListByStatus(ctx context.Context, status models.PatientStatus) ([]models.Patient, error) {
	return db.FindAll[models.Patient](ctx, r.coll, bson.M{"status": status})
}

func (r *MongoPatientRepository) SetStatus(ctx context.Context, id string, status models.PatientStatus) error {
	oid, err := objectID(id)
	if err != nil {
		return err
	}
	update := bson.M{"$set": bson.M{"status": status, "updatedAt": time.Now().UTC()}}
	res, err := db.UpdateOne(ctx, r.coll, bson.M{"_id": oid}, update)
	if err != nil {
		log.Println("Error from UpdateOne patient status: ", err)
		return err
	}
	if res.MatchedCount == 0 {
		return ErrNotFound
	}
	return nil
}
