// internal/app/store/feedback/feedbackstore.go
package feedbackstore

import (
	"context"
	"time"

	"github.com/dalemusser/mindhub/internal/app/store/storeutil"
	"github.com/dalemusser/mindhub/internal/app/system/paging"
	"github.com/dalemusser/mindhub/internal/domain/models"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
)

type Store struct {
	c *mongo.Collection
}

func New(db *mongo.Database) *Store {
	return &Store{c: db.Collection("feedback")}
}

func (s *Store) Create(ctx context.Context, v models.Feedback) (models.Feedback, error) {
	v.ID = primitive.NewObjectID()
	now := time.Now().UTC()
	v.CreatedAt = now
	v.UpdatedAt = now
	if _, err := s.c.InsertOne(ctx, v); err != nil {
		return models.Feedback{}, err
	}
	return v, nil
}

func (s *Store) GetByID(ctx context.Context, id primitive.ObjectID) (*models.Feedback, error) {
	return storeutil.FindByID[models.Feedback](ctx, s.c, id)
}

// List returns feedback newest first; a zero userID lists all of it (admin view).
func (s *Store) List(ctx context.Context, userID primitive.ObjectID, p paging.Params) ([]models.Feedback, int64, error) {
	q := bson.M{}
	if !userID.IsZero() {
		q["user_id"] = userID
	}
	return storeutil.FindPage[models.Feedback](ctx, s.c, q, bson.D{{Key: "created_at", Value: -1}, {Key: "_id", Value: -1}}, p)
}

// Update applies a prepared $set (bson field names) and returns the result.
func (s *Store) Update(ctx context.Context, id primitive.ObjectID, set bson.M) (*models.Feedback, error) {
	return storeutil.UpdateByID[models.Feedback](ctx, s.c, id, set)
}

func (s *Store) Delete(ctx context.Context, id primitive.ObjectID) (bool, error) {
	return storeutil.DeleteByID(ctx, s.c, id)
}
