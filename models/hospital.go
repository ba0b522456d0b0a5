package models

import (
	"go.mongodb.org/mongo-driver/bson/primitive"
)

type Hospital struct {
	ID      primitive.ObjectID `json:"-" bson:"_id,omitempty"`
	Code    string             `json:"id" bson:"code"`
	Name    string             `json:"name" bson:"name"`
	Address string             `json:"address" bson:"address"`
	Phone   string             `json:"phone" bson:"phone"`
	Email   string             `json:"email" bson:"email"`
}
