// internal/app/store/content/contentstore.go
package contentstore

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
	return &Store{c: db.Collection("content")}
}

func (s *Store) Create(ctx context.Context, v models.Content) (models.Content, error) {
	v.ID = primitive.NewObjectID()
	now := time.Now().UTC()
	v.CreatedAt = now
	v.UpdatedAt = now
	if _, err := s.c.InsertOne(ctx, v); err != nil {
		return models.Content{}, err
	}
	return v, nil
}

func (s *Store) GetByID(ctx context.Context, id primitive.ObjectID) (*models.Content, error) {
	return storeutil.FindByID[models.Content](ctx, s.c, id)
}

// List returns the library newest first, optionally limited to one media type.
func (s *Store) List(ctx context.Context, kind string, p paging.Params) ([]models.Content, int64, error) {
	q := bson.M{}
	if kind != "" {
		q["type"] = kind
	}
	return storeutil.FindPage[models.Content](ctx, s.c, q, bson.D{{Key: "created_at", Value: -1}, {Key: "_id", Value: -1}}, p)
}

func (s *Store) Update(ctx context.Context, id primitive.ObjectID, set bson.M) (*models.Content, error) {
	return storeutil.UpdateByID[models.Content](ctx, s.c, id, set)
}

func (s *Store) Delete(ctx context.Context, id primitive.ObjectID) (bool, error) {
	return storeutil.DeleteByID(ctx, s.c, id)
}
