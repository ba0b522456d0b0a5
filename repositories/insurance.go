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

type MongoInsuranceRepository struct {
	policies *mongo.Collection
	claims   *mongo.Collection
}

func NewInsuranceRepository(database *mongo.Database) *MongoInsuranceRepository {
	return &MongoInsuranceRepository{
		policies: database.Collection(util.InsurancePolicyCollection),
		claims:   database.Collection(util.InsuranceClaimCollection),
	}
}

func (r *MongoInsuranceRepository) CreatePolicy(ctx context.Context, policy *models.InsurancePolicy) error {
	if policy.ID.IsZero() {
		policy.ID = primitive.NewObjectID()
	}
	if _, err := db.CreateOne(ctx, r.policies, policy); err != nil {
		log.Println("Error from CreateOne policy: ", err)
		return translate(err)
	}
	return nil
}

func (r *MongoInsuranceRepository) GetPolicy(ctx context.Context, id string) (*models.InsurancePolicy, error) {
	oid, err := objectID(id)
	if err != nil {
		return nil, err
	}
	policy := &models.InsurancePolicy{}
	if err := db.FindOne(ctx, r.policies, bson.M{"_id": oid}, policy); err != nil {
		return nil, translate(err)
	}
	return policy, nil
}

func (r *MongoInsuranceRepository) GetPolicyByNumber(ctx context.Context, policyNumber string) (*models.InsurancePolicy, error) {
	policy := &models.InsurancePolicy{}
	if err := db.FindOne(ctx, r.policies, bson.M{"policyNumber": policyNumber}, policy); err != nil {
		return nil, translate(err)
	}
	return policy, nil
}

func (r *MongoInsuranceRepository) ListPoliciesByPatient(ctx context.Context, patientID string) ([]models.InsurancePolicy, error) {
	opts := options.Find().SetSort(bson.D{{Key: "endDate", Value: -1}})
	return db.FindAll[models.InsurancePolicy](ctx, r.policies, bson.M{"patientId": patientID}, opts)
}

/*
* Find the Active policy whose end date is today or later
* When several match, the one ending last wins
 */
func (r *MongoInsuranceRepository) FindActivePolicy(ctx context.Context, patientID string, now time.Time) (*models.InsurancePolicy, error) {
	filter := bson.M{
		"patientId": patientID,
		"status":    models.PolicyActive,
		"endDate":   bson.M{"$gte": now},
	}
	opts := options.FindOne().SetSort(bson.D{{Key: "endDate", Value: -1}})
	policy := &models.InsurancePolicy{}
	if err := r.policies.FindOne(ctx, filter, opts).Decode(policy); err != nil {
		return nil, translate(err)
	}
	return policy, nil
}

func (r *MongoInsuranceRepository) CreateClaim(ctx context.Context, claim *models.InsuranceClaim) error {
	if claim.ID.IsZero() {
		claim.ID = primitive.NewObjectID()
	}
	if _, err := db.CreateOne(ctx, r.claims, claim); err != nil {
		log.Println("Error from CreateOne claim: ", err)
		return translate(err)
	}
	return nil
}

func (r *MongoInsuranceRepository) GetClaim(ctx context.Context, id string) (*models.InsuranceClaim, error) {
	oid, err := objectID(id)
	if err != nil {
		return nil, err
	}
	claim := &models.InsuranceClaim{}
	if err := db.FindOne(ctx, r.claims, bson.M{"_id": oid}, claim); err != nil {
		return nil, translate(err)
	}
	return claim, nil
}

func (r *MongoInsuranceRepository) GetClaimByPayment(ctx context.Context, paymentID string) (*models.InsuranceClaim, error) {
	claim := &models.InsuranceClaim{}
	if err := db.FindOne(ctx, r.claims, bson.M{"paymentId": paymentID}, claim); err != nil {
		return nil, translate(err)
	}
	return claim, nil
}

func (r *MongoInsuranceRepository) ListClaimsByPolicy(ctx context.Context, policyID string) ([]models.InsuranceClaim, error) {
	opts := options.Find().SetSort(bson.D{{Key: "submittedAt", Value: -1}})
	return db.FindAll[models.InsuranceClaim](ctx, r.claims, bson.M{"policyId": policyID}, opts)
}
