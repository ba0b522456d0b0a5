package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Staff is reference data for doctors, nurses and desk staff. Staff IDs are
// the business codes appointments refer to (doctorId).
type Staff struct {
	ID             primitive.ObjectID `json:"-" bson:"_id,omitempty"`
	Code           string             `json:"id" bson:"code"`
	Name           string             `json:"name" bson:"name"`
	Email          string             `json:"email" bson:"email"`
	Phone          string             `json:"phone,omitempty" bson:"phone,omitempty"`
	Role           string             `json:"role" bson:"role"`
	DepartmentID   string             `json:"departmentId,omitempty" bson:"departmentId,omitempty"`
	Specialization string             `json:"specialization,omitempty" bson:"specialization,omitempty"`
	Password       string             `json:"-" bson:"password,omitempty"`
	IsActive       bool               `json:"isActive" bson:"isActive"`
	CreatedAt      time.Time          `json:"createdAt" bson:"createdAt"`
	UpdatedAt      time.Time          `json:"updatedAt" bson:"updatedAt"`
}

type Department struct {
	ID          primitive.ObjectID `json:"-" bson:"_id,omitempty"`
	Code        string             `json:"id" bson:"code"`
	Name        string             `json:"name" bson:"name"`
	Description string             `json:"description,omitempty" bson:"description,omitempty"`
	HeadStaffID string             `json:"headStaffId,omitempty" bson:"headStaffId,omitempty"`
	HospitalID  string             `json:"hospitalId" bson:"hospitalId"`
}
