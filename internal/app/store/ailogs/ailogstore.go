// internal/app/store/ailogs/ailogstore.go
package ailogstore

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
	return &Store{c: db.Collection("ai_logs")}
}

func (s *Store) Create(ctx context.Context, v models.AiLog) (models.AiLog, error) {
	v.ID = primitive.NewObjectID()
	now := time.Now().UTC()
	v.CreatedAt = now
	v.UpdatedAt = now
	if _, err := s.c.InsertOne(ctx, v); err != nil {
		return models.AiLog{}, err
	}
	return v, nil
}

func (s *Store) GetByID(ctx context.Context, id primitive.ObjectID) (*models.AiLog, error) {
	return storeutil.FindByID[models.AiLog](ctx, s.c, id)
}

// List returns entries ordered by timestamp. A zero userID lists every user's entries.
func (s *Store) List(ctx context.Context, userID primitive.ObjectID, p paging.Params) ([]models.AiLog, int64, error) {
	q := bson.M{}
	if !userID.IsZero() {
		q["user_id"] = userID
	}
	return storeutil.FindPage[models.AiLog](ctx, s.c, q, bson.D{{Key: "timestamp", Value: -1}, {Key: "_id", Value: -1}}, p)
}

// Update applies a prepared $set (bson field names) and returns the result.
func (s *Store) Update(ctx context.Context, id primitive.ObjectID, set bson.M) (*models.AiLog, error) {
	return storeutil.UpdateByID[models.AiLog](ctx, s.c, id, set)
}

func (s *Store) Delete(ctx context.Context, id primitive.ObjectID) (bool, error) {
	return storeutil.DeleteByID(ctx, s.c, id)
}
