// internal/app/store/groups/groupstore.go
package groupstore

import (
	"context"
	"strings"
	"time"

	"github.com/dalemusser/mindhub/internal/app/store/storeutil"
	"github.com/dalemusser/mindhub/internal/app/system/paging"
	"github.com/dalemusser/mindhub/internal/domain/models"
	"github.com/dalemusser/waffle/pantry/text"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
)

type Store struct {
	c *mongo.Collection
}

func New(db *mongo.Database) *Store {
	return &Store{c: db.Collection("groups")}
}

func (s *Store) GetByID(ctx context.Context, id primitive.ObjectID) (*models.Group, error) {
	return storeutil.FindByID[models.Group](ctx, s.c, id)
}

// Create inserts g with a fresh ID, folded name, and timestamps.
func (s *Store) Create(ctx context.Context, g models.Group) (models.Group, error) {
	g.ID = primitive.NewObjectID()
	g.Name = strings.TrimSpace(g.Name)
	g.NameCI = text.Fold(g.Name)
	now := time.Now().UTC()
	g.CreatedAt = now
	g.UpdatedAt = now
	if _, err := s.c.InsertOne(ctx, g); err != nil {
		return models.Group{}, err
	}
	return g, nil
}

// Update holds the mutable group fields; nil means unchanged.
type Update struct {
	Name          *string
	Description   *string
	CoverImageURL *string
}

// Update applies upd and returns the updated group.
func (s *Store) Update(ctx context.Context, id primitive.ObjectID, upd Update) (*models.Group, error) {
	set := bson.M{}
	if upd.Name != nil {
		name := strings.TrimSpace(*upd.Name)
		set["name"] = name
		set["name_ci"] = text.Fold(name)
	}
	if upd.Description != nil {
		set["description"] = *upd.Description
	}
	if upd.CoverImageURL != nil {
		set["cover_image_url"] = *upd.CoverImageURL
	}
	return storeutil.UpdateByID[models.Group](ctx, s.c, id, set)
}

// Delete removes the group document only. Memberships are removed by the caller.
func (s *Store) Delete(ctx context.Context, id primitive.ObjectID) (bool, error) {
	return storeutil.DeleteByID(ctx, s.c, id)
}

// BumpAdminGuard increments admin_guard. Returns mongo.ErrNoDocuments if the
// group is gone.
func (s *Store) BumpAdminGuard(ctx context.Context, id primitive.ObjectID) error {
	res, err := s.c.UpdateOne(ctx, bson.M{"_id": id}, bson.M{"$inc": bson.M{"admin_guard": 1}})
	if err != nil {
		return err
	}
	if res.MatchedCount == 0 {
		return mongo.ErrNoDocuments
	}
	return nil
}

// List returns groups newest first.
func (s *Store) List(ctx context.Context, p paging.Params) ([]models.Group, int64, error) {
	return storeutil.FindPage[models.Group](ctx, s.c, bson.M{}, bson.D{{Key: "created_at", Value: -1}, {Key: "_id", Value: -1}}, p)
}
