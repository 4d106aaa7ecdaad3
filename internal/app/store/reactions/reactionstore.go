// internal/app/store/reactions/reactionstore.go
package reactionstore

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

// ErrDuplicateReaction is returned when (user_id, target_type, target_id) already exists.
var ErrDuplicateReaction = errors.New("you have already reacted to this item")

type Store struct {
	c *mongo.Collection
}

func New(db *mongo.Database) *Store {
	return &Store{c: db.Collection("reactions")}
}

func (s *Store) Create(ctx context.Context, r models.Reaction) (models.Reaction, error) {
	r.ID = primitive.NewObjectID()
	now := time.Now().UTC()
	r.CreatedAt = now
	r.UpdatedAt = now
	if _, err := s.c.InsertOne(ctx, r); err != nil {
		if wafflemongo.IsDup(err) {
			return models.Reaction{}, ErrDuplicateReaction
		}
		return models.Reaction{}, err
	}
	return r, nil
}

func (s *Store) GetByID(ctx context.Context, id primitive.ObjectID) (*models.Reaction, error) {
	return storeutil.FindByID[models.Reaction](ctx, s.c, id)
}

func targetFilter(userID primitive.ObjectID, t models.TargetRef) bson.M {
	return bson.M{"user_id": userID, "target_type": t.TargetType, "target_id": t.TargetID}
}

// GetByUserTarget returns the user's reaction on t, or mongo.ErrNoDocuments.
func (s *Store) GetByUserTarget(ctx context.Context, userID primitive.ObjectID, t models.TargetRef) (*models.Reaction, error) {
	return storeutil.FindOne[models.Reaction](ctx, s.c, targetFilter(userID, t))
}

// Exists reports whether the user already reacted to t.
func (s *Store) Exists(ctx context.Context, userID primitive.ObjectID, t models.TargetRef) (bool, error) {
	return storeutil.Exists(ctx, s.c, targetFilter(userID, t))
}

// Filter narrows List; zero values are ignored.
type Filter struct {
	UserID     primitive.ObjectID
	TargetType string
	TargetID   primitive.ObjectID
}

func (s *Store) List(ctx context.Context, f Filter, p paging.Params) ([]models.Reaction, int64, error) {
	q := bson.M{}
	if !f.UserID.IsZero() {
		q["user_id"] = f.UserID
	}
	if f.TargetType != "" {
		q["target_type"] = f.TargetType
	}
	if !f.TargetID.IsZero() {
		q["target_id"] = f.TargetID
	}
	return storeutil.FindPage[models.Reaction](ctx, s.c, q, bson.D{{Key: "created_at", Value: -1}, {Key: "_id", Value: -1}}, p)
}

func (s *Store) Delete(ctx context.Context, id primitive.ObjectID) (bool, error) {
	return storeutil.DeleteByID(ctx, s.c, id)
}

// DeleteByTargets removes all reactions on the given targets of one kind.
func (s *Store) DeleteByTargets(ctx context.Context, targetType string, ids []primitive.ObjectID) (int64, error) {
	if len(ids) == 0 {
		return 0, nil
	}
	res, err := s.c.DeleteMany(ctx, bson.M{"target_type": targetType, "target_id": bson.M{"$in": ids}})
	if err != nil {
		return 0, err
	}
	return res.DeletedCount, nil
}

// CountByTarget counts live reactions on t.
func (s *Store) CountByTarget(ctx context.Context, t models.TargetRef) (int64, error) {
	return s.c.CountDocuments(ctx, bson.M{"target_type": t.TargetType, "target_id": t.TargetID})
}
