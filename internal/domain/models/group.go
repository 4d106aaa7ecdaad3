// internal/domain/models/group.go
package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Group is a peer-support community. Members live in the memberships
// collection; the creator is inserted there as admin when the group is created.
type Group struct {
	ID            primitive.ObjectID `bson:"_id" json:"id"`
	Name          string             `bson:"name" json:"name"`
	NameCI        string             `bson:"name_ci" json:"-"`
	Description   string             `bson:"description" json:"description"`
	CoverImageURL string             `bson:"cover_image_url,omitempty" json:"coverImageUrl,omitempty"`
	CreatedBy     primitive.ObjectID `bson:"created_by" json:"createdBy"`

	// AdminGuard is bumped inside every transaction that demotes or removes
	// an admin so concurrent ones conflict on this document.
	AdminGuard int64 `bson:"admin_guard,omitempty" json:"-"`

	CreatedAt time.Time `bson:"created_at" json:"createdAt"`
	UpdatedAt time.Time `bson:"updated_at" json:"updatedAt"`
}
