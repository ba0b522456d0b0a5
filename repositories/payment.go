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

type MongoPaymentRepository struct {
	coll *mongo.Collection
}

func NewPaymentRepository(database *mongo.Database) *MongoPaymentRepository {
	return &MongoPaymentRepository{coll: database.Collection(util.PaymentCollection)}
}

var newestFirst = options.Find().SetSort(bson.D{{Key: "createdAt", Value: -1}})

func (r *MongoPaymentRepository) Create(ctx context.Context, payment *models.Payment) error {
	if payment.ID.IsZero() {
		payment.ID = primitive.NewObjectID()
	}
	if _, err := db.CreateOne(ctx, r.coll, payment); err != nil {
		log.Println("Error from CreateOne payment: ", err)
		return translate(err)
	}
	return nil
}

func (r *MongoPaymentRepository) GetByID(ctx context.Context, id string) (*models.Payment, error) {
	oid, err := objectID(id)
	if err != nil {
		return nil, err
	}
	payment := &models.Payment{}
	if err := db.FindOne(ctx, r.coll, bson.M{"_id": oid}, payment); err != nil {
		return nil, translate(err)
	}
	return payment, nil
}

func (r *MongoPaymentRepository) GetByAppointment(ctx context.Context, appointmentID string) (*models.Payment, error) {
	payment := &models.Payment{}
	if err := db.FindOne(ctx, r.coll, bson.M{"appointmentId": appointmentID}, payment); err != nil {
		return nil, translate(err)
	}
	return payment, nil
}

func (r *MongoPaymentRepository) ListByPatient(ctx context.Context, patientID string) ([]models.Payment, error) {
	return db.FindAll[models.Payment](ctx, r.coll, bson.M{"patientId": patientID}, newestFirst)
}

// ListByDateRange matches on createdAt, half-open [from, to).
func (r *MongoPaymentRepository) ListByDateRange(ctx context.Context, from, to time.Time) ([]models.Payment, error) {
	filter := bson.M{"createdAt": bson.M{"$gte": from, "$lt": to}}
	return db.FindAll[models.Payment](ctx, r.coll, filter, newestFirst)
}

/*
* Apply the gateway outcome to a Pending payment
* The filter requires Pending so the payment is settled at most once
 */
func (r *MongoPaymentRepository) CompleteTransition(ctx context.Context, id string, outcome models.PaymentOutcome) (*models.Payment, error) {
	oid, err := objectID(id)
	if err != nil {
		return nil, err
	}
	set := bson.M{
		"status":        outcome.Status,
		"paymentMethod": outcome.PaymentMethod,
		"updatedAt":     outcome.At,
	}
	if outcome.CardLast4 != "" {
		set["cardLast4"] = outcome.CardLast4
	}
	if outcome.Status == models.PaymentCompleted {
		set["transactionId"] = outcome.TransactionID
		set["paidAt"] = outcome.At
	} else {
		set["failureReason"] = outcome.FailureReason
	}

	filter := bson.M{"_id": oid, "status": models.PaymentPending}
	opts := options.FindOneAndUpdate().SetReturnDocument(options.After)
	updated := &models.Payment{}
	err = r.coll.FindOneAndUpdate(ctx, filter, bson.M{"$set": set}, opts).Decode(updated)
	if err == nil {
		return updated, nil
	}
	if err != mongo.ErrNoDocuments {
		log.Println("Error from FindOneAndUpdate payment: ", err)
		return nil, err
	}
	if _, err := r.GetByID(ctx, id); err != nil {
		return nil, err
	}
	return nil, ErrStatusChanged
}
