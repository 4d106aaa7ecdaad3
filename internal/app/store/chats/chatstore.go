// internal/app/store/chats/chatstore.go
package chatstore

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
	return &Store{c: db.Collection("chats")}
}

func (s *Store) Create(ctx context.Context, v models.Chat) (models.Chat, error) {
	v.ID = primitive.NewObjectID()
	now := time.Now().UTC()
	v.CreatedAt = now
	v.UpdatedAt = now
	if _, err := s.c.InsertOne(ctx, v); err != nil {
		return models.Chat{}, err
	}
	return v, nil
}

func (s *Store) GetByID(ctx context.Context, id primitive.ObjectID) (*models.Chat, error) {
	return storeutil.FindByID[models.Chat](ctx, s.c, id)
}

// List returns a conversation in the order it happened.
func (s *Store) List(ctx context.Context, userID primitive.ObjectID, p paging.Params) ([]models.Chat, int64, error) {
	q := bson.M{}
	if !userID.IsZero() {
		q["user_id"] = userID
	}
	return storeutil.FindPage[models.Chat](ctx, s.c, q, bson.D{{Key: "timestamp", Value: 1}, {Key: "_id", Value: 1}}, p)
}

// Update applies a prepared $set (bson field names) and returns the result.
func (s *Store) Update(ctx context.Context, id primitive.ObjectID, set bson.M) (*models.Chat, error) {
	return storeutil.UpdateByID[models.Chat](ctx, s.c, id, set)
}

func (s *Store) Delete(ctx context.Context, id primitive.ObjectID) (bool, error) {
	return storeutil.DeleteByID(ctx, s.c, id)
}
