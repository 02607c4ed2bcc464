package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

type Role string

const (
	RoleBuyer  Role = "buyer"
	RoleSeller Role = "seller"
)

// Valid reports whether r is one of the known roles. An empty role is accepted.
func (r Role) Valid() bool {
	switch r {
	case "", RoleBuyer, RoleSeller:
		return true
	}
	return false
}

type User struct {
	ID          primitive.ObjectID `bson:"_id,omitempty" json:"_id"`
	FirstName   string             `bson:"firstName" json:"firstName"`
	LastName    string             `bson:"lastName" json:"lastName"`
	Email       string             `bson:"email" json:"email"`
	Password    string             `bson:"password" json:"-"`
	PhoneNumber string             `bson:"phoneNumber" json:"phoneNumber"`
	Role        Role               `bson:"role,omitempty" json:"role,omitempty"`
	CreatedAt   time.Time          `bson:"createdAt" json:"createdAt"`
}
