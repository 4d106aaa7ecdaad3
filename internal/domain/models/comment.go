// internal/domain/models/comment.go
package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Comment belongs to a post and optionally replies to another comment.
// The tree is stored flat: top-level comments have no parent_comment_id field.
type Comment struct {
	ID              primitive.ObjectID  `bson:"_id" json:"id"`
	PostID          primitive.ObjectID  `bson:"post_id" json:"postId"`
	AuthorID        primitive.ObjectID  `bson:"author_id" json:"authorId"`
	ParentCommentID *primitive.ObjectID `bson:"parent_comment_id,omitempty" json:"parentCommentId,omitempty"`
	Content         string              `bson:"content" json:"content"`
	ReactionsCount  int64               `bson:"reactions_count" json:"reactionsCount"`

	CreatedAt time.Time `bson:"created_at" json:"createdAt"`
	UpdatedAt time.Time `bson:"updated_at" json:"updatedAt"`
}
