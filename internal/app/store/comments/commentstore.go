// internal/app/store/comments/commentstore.go
package commentstore

import (
	"context"
	"time"

	"github.com/dalemusser/mindhub/internal/app/store/storeutil"
	"github.com/dalemusser/mindhub/internal/app/system/paging"
	"github.com/dalemusser/mindhub/internal/domain/models"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// FieldReactions is the counter field on a comment.
const FieldReactions = "reactions_count"

type Store struct {
	c *mongo.Collection
}

func New(db *mongo.Database) *Store {
	return &Store{c: db.Collection("comments")}
}

func (s *Store) Create(ctx context.Context, c models.Comment) (models.Comment, error) {
	c.ID = primitive.NewObjectID()
	c.ReactionsCount = 0
	now := time.Now().UTC()
	c.CreatedAt = now
	c.UpdatedAt = now
	if _, err := s.c.InsertOne(ctx, c); err != nil {
		return models.Comment{}, err
	}
	return c, nil
}

func (s *Store) GetByID(ctx context.Context, id primitive.ObjectID) (*models.Comment, error) {
	return storeutil.FindByID[models.Comment](ctx, s.c, id)
}

// Filter narrows List. A nil ParentID selects top-level comments only.
type Filter struct {
	PostID   primitive.ObjectID
	AuthorID primitive.ObjectID
	ParentID *primitive.ObjectID
}

var oldestFirst = bson.D{{Key: "created_at", Value: 1}, {Key: "_id", Value: 1}}

// List returns comments oldest first.
func (s *Store) List(ctx context.Context, f Filter, p paging.Params) ([]models.Comment, int64, error) {
	q := bson.M{}
	if !f.PostID.IsZero() {
		q["post_id"] = f.PostID
	}
	if !f.AuthorID.IsZero() {
		q["author_id"] = f.AuthorID
	}
	if f.ParentID != nil {
		q["parent_comment_id"] = *f.ParentID
	} else {
		q["parent_comment_id"] = bson.M{"$exists": false}
	}
	return storeutil.FindPage[models.Comment](ctx, s.c, q, oldestFirst, p)
}

// Replies returns the direct children of parentID.
func (s *Store) Replies(ctx context.Context, parentID primitive.ObjectID, p paging.Params) ([]models.Comment, int64, error) {
	return storeutil.FindPage[models.Comment](ctx, s.c, bson.M{"parent_comment_id": parentID}, oldestFirst, p)
}

func (s *Store) UpdateContent(ctx context.Context, id primitive.ObjectID, content string) (*models.Comment, error) {
	return storeutil.UpdateByID[models.Comment](ctx, s.c, id, bson.M{"content": content})
}

func (s *Store) Delete(ctx context.Context, id primitive.ObjectID) (bool, error) {
	return storeutil.DeleteByID(ctx, s.c, id)
}

// IDsByPost returns the IDs of every comment on a post, replies included.
func (s *Store) IDsByPost(ctx context.Context, postID primitive.ObjectID) ([]primitive.ObjectID, error) {
	cur, err := s.c.Find(ctx, bson.M{"post_id": postID}, options.Find().SetProjection(bson.M{"_id": 1}))
	if err != nil {
		return nil, err
	}
	defer cur.Close(ctx)

	var rows []struct {
		ID primitive.ObjectID `bson:"_id"`
	}
	if err := cur.All(ctx, &rows); err != nil {
		return nil, err
	}
	ids := make([]primitive.ObjectID, len(rows))
	for i, r := range rows {
		ids[i] = r.ID
	}
	return ids, nil
}

// DeleteByPost removes every comment on a post.
func (s *Store) DeleteByPost(ctx context.Context, postID primitive.ObjectID) (int64, error) {
	res, err := s.c.DeleteMany(ctx, bson.M{"post_id": postID})
	if err != nil {
		return 0, err
	}
	return res.DeletedCount, nil
}

// CountByPost counts live comments on a post.
func (s *Store) CountByPost(ctx context.Context, postID primitive.ObjectID) (int64, error) {
	return s.c.CountDocuments(ctx, bson.M{"post_id": postID})
}

// Inc adjusts the reactions counter by delta.
func (s *Store) Inc(ctx context.Context, id primitive.ObjectID, field string, delta int64) error {
	_, err := storeutil.IncCounter(ctx, s.c, id, field, delta)
	return err
}
