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

type MongoAppointmentRepository struct {
	coll *mongo.Collection
}

func NewAppointmentRepository(database *mongo.Database) *MongoAppointmentRepository {
	return &MongoAppointmentRepository{coll: database.Collection(util.AppointmentCollection)}
}

var bySchedule = options.Find().SetSort(bson.D{{Key: "appointmentDate", Value: 1}, {Key: "timeSlot", Value: 1}})

func (r *MongoAppointmentRepository) Create(ctx context.Context, appointment *models.Appointment) error {
	if appointment.ID.IsZero() {
		appointment.ID = primitive.NewObjectID()
	}
	if _, err := db.CreateOne(ctx, r.coll, appointment); err != nil {
		log.Println("Error from CreateOne appointment: ", err)
		return translate(err)
	}
	return nil
}

func (r *MongoAppointmentRepository) GetByID(ctx context.Context, id string) (*models.Appointment, error) {
	oid, err := objectID(id)
	if err != nil {
		return nil, err
	}
	appointment := &models.Appointment{}
	if err := db.FindOne(ctx, r.coll, bson.M{"_id": oid}, appointment); err != nil {
		return nil, translate(err)
	}
	return appointment, nil
}

// FindActiveBySlot returns the non-cancelled appointments holding the slot.
func (r *MongoAppointmentRepository) FindActiveBySlot(ctx context.Context, doctorID, date, slot string) ([]models.Appointment, error) {
	filter := bson.M{
		"doctorId":        doctorID,
		"appointmentDate": date,
		"timeSlot":        slot,
		"status":          bson.M{"$ne": models.AppointmentCancelled},
	}
	return db.FindAll[models.Appointment](ctx, r.coll, filter)
}

func (r *MongoAppointmentRepository) ListByDoctorAndDate(ctx context.Context, doctorID, date string) ([]models.Appointment, error) {
	filter := bson.M{"doctorId": doctorID, "appointmentDate": date}
	return db.FindAll[models.Appointment](ctx, r.coll, filter, bySchedule)
}

func (r *MongoAppointmentRepository) ListByPatient(ctx context.Context, patientID string) ([]models.Appointment, error) {
	return db.FindAll[models.Appointment](ctx, r.coll, bson.M{"patientId": patientID}, bySchedule)
}

func (r *MongoAppointmentRepository) ListByDoctor(ctx context.Context, doctorID string) ([]models.Appointment, error) {
	return db.FindAll[models.Appointment](ctx, r.coll, bson.M{"doctorId": doctorID}, bySchedule)
}

// ListByDateRange is inclusive on both ends. Dates are YYYY-MM-DD so they
// compare lexically.
func (r *MongoAppointmentRepository) ListByDateRange(ctx context.Context, from, to string) ([]models.Appointment, error) {
	filter := bson.M{"appointmentDate": bson.M{"$gte": from, "$lte": to}}
	return db.FindAll[models.Appointment](ctx, r.coll, filter, bySchedule)
}

/*
* Move the appointment from one status to another
* The filter carries the prior status so a concurrent transition loses
* Return ErrNotFound when the id is unknown, ErrStatusChanged when the status moved
 */
func (r *MongoAppointmentRepository) UpdateStatus(ctx context.Context, id string, from, to models.AppointmentStatus, fields map[string]interface{}) (*models.Appointment, error) {
	set := bson.M{"status": to, "updatedAt": time.Now().UTC()}
	for k, v := range fields {
		set[k] = v
	}
	return r.transition(ctx, id, from, set)
}

func (r *MongoAppointmentRepository) Reschedule(ctx context.Context, id string, from models.AppointmentStatus, date, slot string) (*models.Appointment, error) {
	set := bson.M{"appointmentDate": date, "timeSlot": slot, "updatedAt": time.Now().UTC()}
	return r.transition(ctx, id, from, set)
}

func (r *MongoAppointmentRepository) transition(ctx context.Context, id string, from models.AppointmentStatus, set bson.M) (*models.Appointment, error) {
	oid, err := objectID(id)
	if err != nil {
		return nil, err
	}
	opts := options.FindOneAndUpdate().SetReturnDocument(options.After)
	updated := &models.Appointment{}
	err = r.coll.FindOneAndUpdate(ctx, bson.M{"_id": oid, "status": from}, bson.M{"$set": set}, opts).Decode(updated)
	if err == nil {
		return updated, nil
	}
	if err != mongo.ErrNoDocuments {
		log.Println("Error from FindOneAndUpdate appointment: ", err)
		return nil, err
	}
	if _, err := r.GetByID(ctx, id); err != nil {
		return nil, err
	}
	return nil, ErrStatusChanged
}
