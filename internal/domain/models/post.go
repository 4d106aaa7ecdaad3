// internal/domain/models/post.go
package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Post is a feed entry, optionally scoped to a group.
//
// The three counters are denormalized caches of the live child counts
// (comments, reactions with target_type=Post, shares). They are adjusted in
// the same transaction as the child write and can be recomputed with
// counterqueries.RecountPost.
type Post struct {
	ID             primitive.ObjectID  `bson:"_id" json:"id"`
	AuthorID       primitive.ObjectID  `bson:"author_id" json:"authorId"`
	GroupID        *primitive.ObjectID `bson:"group_id,omitempty" json:"groupId,omitempty"`
	Content        string              `bson:"content" json:"content"`
	MediaURLs      []string            `bson:"media_urls" json:"mediaUrls"`
	Tags           []string            `bson:"tags" json:"tags"`
	CommentsCount  int64               `bson:"comments_count" json:"commentsCount"`
	ReactionsCount int64               `bson:"reactions_count" json:"reactionsCount"`
	SharesCount    int64               `bson:"shares_count" json:"sharesCount"`

	CreatedAt time.Time `bson:"created_at" json:"createdAt"`
	UpdatedAt time.Time `bson:"updated_at" json:"updatedAt"`
}
