// internal/domain/models/notification.go
package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Notification types.
const (
	NotifyReaction    = "reaction"
	NotifyComment     = "comment"
	NotifyShare       = "share"
	NotifyMention     = "mention"
	NotifyGroupInvite = "groupInvite"
)

type Notification struct {
	ID        primitive.ObjectID  `bson:"_id" json:"id"`
	UserID    primitive.ObjectID  `bson:"user_id" json:"userId"` // recipient
	ActorID   *primitive.ObjectID `bson:"actor_id,omitempty" json:"actorId,omitempty"`
	Type      string              `bson:"type" json:"type"`
	Reference TargetRef           `bson:"reference" json:"reference"`
	Message   string              `bson:"message,omitempty" json:"message,omitempty"`
	IsRead    bool                `bson:"is_read" json:"isRead"`

	CreatedAt time.Time `bson:"created_at" json:"createdAt"`
	UpdatedAt time.Time `bson:"updated_at" json:"updatedAt"`
}
