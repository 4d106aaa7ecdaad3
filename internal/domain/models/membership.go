// internal/domain/models/membership.go
package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Membership roles inside a group.
const (
	MemberRoleMember    = "member"
	MemberRoleModerator = "moderator"
	MemberRoleAdmin     = "admin"
)

// Membership is the authoritative join between users and groups.
// Exactly one document per (group_id, user_id).
type Membership struct {
	ID        primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	GroupID   primitive.ObjectID `bson:"group_id" json:"groupId"`
	UserID    primitive.ObjectID `bson:"user_id" json:"userId"`
	Role      string             `bson:"role" json:"role"` // member | moderator | admin
	CreatedAt time.Time          `bson:"created_at" json:"createdAt"`
	UpdatedAt time.Time          `bson:"updated_at" json:"updatedAt"`
}

// IsValidMemberRole reports whether r is a group membership role.
func IsValidMemberRole(r string) bool {
	switch r {
	case MemberRoleMember, MemberRoleModerator, MemberRoleAdmin:
		return true
	}
	return false
}
