// internal/domain/models/share.go
package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Share is unique per (user_id, post_id).
type Share struct {
	ID      primitive.ObjectID `bson:"_id" json:"id"`
	UserID  primitive.ObjectID `bson:"user_id" json:"userId"`
	PostID  primitive.ObjectID `bson:"post_id" json:"postId"`
	Content string             `bson:"content,omitempty" json:"content,omitempty"`

	CreatedAt time.Time `bson:"created_at" json:"createdAt"`
	UpdatedAt time.Time `bson:"updated_at" json:"updatedAt"`
}
