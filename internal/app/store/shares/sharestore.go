// internal/app/store/shares/sharestore.go
package sharestore

import (
	"context"
	"errors"
	"time"

	"github.com/dalemusser/mindhub/internal/app/store/storeutil"
	"github.com/dalemusser/mindhub/internal/app/system/paging"
	"github.com/dalemusser/mindhub/internal/domain/models"
	wafflemongo "github.com/dalemusser/waffle/pantry/mongo"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
)

// ErrDuplicateShare is returned when (user_id, post_id) already exists.
var ErrDuplicateShare = errors.New("you have already shared this post")

type Store struct {
	c *mongo.Collection
}

func New(db *mongo.Database) *Store {
	return &Store{c: db.Collection("shares")}
}

func (s *Store) Create(ctx context.Context, sh models.Share) (models.Share, error) {
	sh.ID = primitive.NewObjectID()
	now := time.Now().UTC()
	sh.CreatedAt = now
	sh.UpdatedAt = now
	if _, err := s.c.InsertOne(ctx, sh); err != nil {
		if wafflemongo.IsDup(err) {
			return models.Share{}, ErrDuplicateShare
		}
		return models.Share{}, err
	}
	return sh, nil
}

func (s *Store) GetByID(ctx context.Context, id primitive.ObjectID) (*models.Share, error) {
	return storeutil.FindByID[models.Share](ctx, s.c, id)
}

// Exists reports whether the user already shared the post.
func (s *Store) Exists(ctx context.Context, userID, postID primitive.ObjectID) (bool, error) {
	return storeutil.Exists(ctx, s.c, bson.M{"user_id": userID, "post_id": postID})
}

// Filter narrows List; zero IDs are ignored.
type Filter struct {
	UserID primitive.ObjectID
	PostID primitive.ObjectID
}

func (s *Store) List(ctx context.Context, f Filter, p paging.Params) ([]models.Share, int64, error) {
	q := bson.M{}
	if !f.UserID.IsZero() {
		q["user_id"] = f.UserID
	}
	if !f.PostID.IsZero() {
		q["post_id"] = f.PostID
	}
	return storeutil.FindPage[models.Share](ctx, s.c, q, bson.D{{Key: "created_at", Value: -1}, {Key: "_id", Value: -1}}, p)
}

func (s *Store) Delete(ctx context.Context, id primitive.ObjectID) (bool, error) {
	return storeutil.DeleteByID(ctx, s.c, id)
}

// DeleteByPost removes every share of a post.
func (s *Store) DeleteByPost(ctx context.Context, postID primitive.ObjectID) (int64, error) {
	res, err := s.c.DeleteMany(ctx, bson.M{"post_id": postID})
	if err != nil {
		return 0, err
	}
	return res.DeletedCount, nil
}

// CountByPost counts live shares of a post.
func (s *Store) CountByPost(ctx context.Context, postID primitive.ObjectID) (int64, error) {
	return s.c.CountDocuments(ctx, bson.M{"post_id": postID})
}
