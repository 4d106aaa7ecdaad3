// internal/domain/models/content.go
package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Content media types.
const (
	ContentArticle = "article"
	ContentAudio   = "audio"
	ContentVideo   = "video"
)

// Content is an admin-curated library item (no owner).
type Content struct {
	ID          primitive.ObjectID `bson:"_id" json:"id"`
	Title       string             `bson:"title" json:"title"`
	Type        string             `bson:"type" json:"type"`
	Description string             `bson:"description" json:"description"`
	URL         string             `bson:"url" json:"url"`

	CreatedAt time.Time `bson:"created_at" json:"createdAt"`
	UpdatedAt time.Time `bson:"updated_at" json:"updatedAt"`
}
