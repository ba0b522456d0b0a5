package repositories

import (
	"context"

	"github.com/MiniduTH/vitalink-sub001/config/db"
	"github.com/MiniduTH/vitalink-sub001/models"
	"github.com/MiniduTH/vitalink-sub001/util"

	log "github.com/sirupsen/logrus"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// MongoStaffRepository serves the hospital reference data: staff,
// departments and the single hospital document.
type MongoStaffRepository struct {
	staff       *mongo.Collection
	departments *mongo.Collection
	hospitals   *mongo.Collection
}

func NewStaffRepository(database *mongo.Database) *MongoStaffRepository {
	return &MongoStaffRepository{
		staff:       database.Collection(util.StaffCollection),
		departments: database.Collection(util.DepartmentCollection),
		hospitals:   database.Collection(util.HospitalCollection),
	}
}

func (r *MongoStaffRepository) List(ctx context.Context, filter StaffFilter) ([]models.Staff, error) {
	query := bson.M{}
	if filter.Role != "" {
		query["role"] = filter.Role
	}
	if filter.DepartmentID != "" {
		query["departmentId"] = filter.DepartmentID
	}
	opts := options.Find().SetSort(bson.D{{Key: "name", Value: 1}})
	return db.FindAll[models.Staff](ctx, r.staff, query, opts)
}

func (r *MongoStaffRepository) GetByID(ctx context.Context, code string) (*models.Staff, error) {
	staff := &models.Staff{}
	if err := db.FindOne(ctx, r.staff, bson.M{"code": code}, staff); err != nil {
		return nil, translate(err)
	}
	return staff, nil
}

func (r *MongoStaffRepository) GetByEmail(ctx context.Context, email string) (*models.Staff, error) {
	staff := &models.Staff{}
	if err := db.FindOne(ctx, r.staff, bson.M{"email": email}, staff); err != nil {
		return nil, translate(err)
	}
	return staff, nil
}

func (r *MongoStaffRepository) ListDepartments(ctx context.Context) ([]models.Department, error) {
	opts := options.Find().SetSort(bson.D{{Key: "name", Value: 1}})
	return db.FindAll[models.Department](ctx, r.departments, bson.M{}, opts)
}

func (r *MongoStaffRepository) GetDepartment(ctx context.Context, code string) (*models.Department, error) {
	department := &models.Department{}
	if err := db.FindOne(ctx, r.departments, bson.M{"code": code}, department); err != nil {
		return nil, translate(err)
	}
	return department, nil
}

func (r *MongoStaffRepository) GetHospital(ctx context.Context) (*models.Hospital, error) {
	hospital := &models.Hospital{}
	if err := db.FindOne(ctx, r.hospitals, bson.M{}, hospital); err != nil {
		return nil, translate(err)
	}
	return hospital, nil
}

/*
* Seed upserts are keyed by code
* Running the seed twice replaces the documents instead of duplicating them
 */
func (r *MongoStaffRepository) UpsertHospital(ctx context.Context, hospital *models.Hospital) error {
	return upsertByCode(ctx, r.hospitals, hospital.Code, hospital)
}

func (r *MongoStaffRepository) UpsertDepartment(ctx context.Context, department *models.Department) error {
	return upsertByCode(ctx, r.departments, department.Code, department)
}

func (r *MongoStaffRepository) UpsertStaff(ctx context.Context, staff *models.Staff) error {
	return upsertByCode(ctx, r.staff, staff.Code, staff)
}

func upsertByCode(ctx context.Context, coll *mongo.Collection, code string, document interface{}) error {
	opts := options.Replace().SetUpsert(true)
	if _, err := coll.ReplaceOne(ctx, bson.M{"code": code}, document, opts); err != nil {
		log.Println("Error from ReplaceOne seed document: ", err)
		return err
	}
	return nil
}
