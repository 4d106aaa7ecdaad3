// internal/domain/models/reaction.go
package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Reaction types.
const (
	ReactionLike       = "like"
	ReactionLove       = "love"
	ReactionSupport    = "support"
	ReactionInsightful = "insightful"
	ReactionHug        = "hug"
	ReactionSad        = "sad"
)

// Reaction is unique per (user_id, target_type, target_id).
type Reaction struct {
	ID         primitive.ObjectID `bson:"_id" json:"id"`
	UserID     primitive.ObjectID `bson:"user_id" json:"userId"`
	TargetType string             `bson:"target_type" json:"targetType"` // Post | Comment
	TargetID   primitive.ObjectID `bson:"target_id" json:"targetId"`
	Type       string             `bson:"type" json:"type"`

	CreatedAt time.Time `bson:"created_at" json:"createdAt"`
	UpdatedAt time.Time `bson:"updated_at" json:"updatedAt"`
}

// Target returns the polymorphic reference this reaction points at.
func (r Reaction) Target() TargetRef {
	return TargetRef{TargetType: r.TargetType, TargetID: r.TargetID}
}
