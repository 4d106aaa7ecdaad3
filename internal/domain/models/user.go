// internal/domain/models/user.go
package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Account roles carried in bearer tokens.
const (
	RoleUser      = "user"
	RoleTherapist = "therapist"
	RoleAdmin     = "admin"
)

// User is an account. Password holds the bcrypt hash and is never serialized.
//
// NOTE:
//   - VerificationToken is present only while the account is unverified.
//     A successful verify unsets it, so a token can be consumed exactly once.
type User struct {
	ID                primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	Name              string             `bson:"name" json:"name"`
	Email             string             `bson:"email" json:"email"`
	Password          string             `bson:"password" json:"-"`
	Role              string             `bson:"role" json:"role"` // user | therapist | admin
	IsVerified        bool               `bson:"is_verified" json:"isVerified"`
	VerificationToken *string            `bson:"verification_token,omitempty" json:"-"`

	CreatedAt time.Time `bson:"created_at" json:"createdAt"`
	UpdatedAt time.Time `bson:"updated_at" json:"updatedAt"`
}

// IsValidRole reports whether r is one of the account roles.
func IsValidRole(r string) bool {
	switch r {
	case RoleUser, RoleTherapist, RoleAdmin:
		return true
	}
	return false
}
