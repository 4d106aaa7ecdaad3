// internal/app/store/profiles/profilestore.go
package profilestore

import (
	"context"
	"time"

	"github.com/dalemusser/mindhub/internal/app/store/storeutil"
	"github.com/dalemusser/mindhub/internal/domain/models"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

type Store struct {
	c *mongo.Collection
}

func New(db *mongo.Database) *Store {
	return &Store{c: db.Collection("user_profiles")}
}

// GetByUser returns the profile of userID, or mongo.ErrNoDocuments.
func (s *Store) GetByUser(ctx context.Context, userID primitive.ObjectID) (*models.UserProfile, error) {
	return storeutil.FindOne[models.UserProfile](ctx, s.c, bson.M{"user_id": userID})
}

// Save writes p as the user's single profile, creating it when missing.
// BMI is recomputed from the stored height and weight on every save.
func (s *Store) Save(ctx context.Context, p models.UserProfile) (models.UserProfile, error) {
	now := time.Now().UTC()
	if p.ID.IsZero() {
		p.ID = primitive.NewObjectID()
		p.CreatedAt = now
	}
	p.UpdatedAt = now
	p.BMI = models.ComputeBMI(p.Height, p.Weight)

	_, err := s.c.ReplaceOne(ctx, bson.M{"user_id": p.UserID}, p, options.Replace().SetUpsert(true))
	if err != nil {
		return models.UserProfile{}, err
	}
	return p, nil
}

// SetImage stores url on the user's profile, creating the profile if needed,
// and returns the URL it replaced ("" when none).
func (s *Store) SetImage(ctx context.Context, userID primitive.ObjectID, url string) (string, error) {
	return s.swapImage(ctx, userID, bson.M{"$set": bson.M{"profile_image_url": url}}, true)
}

// ClearImage removes the profile image URL and returns the URL it held.
func (s *Store) ClearImage(ctx context.Context, userID primitive.ObjectID) (string, error) {
	return s.swapImage(ctx, userID, bson.M{"$unset": bson.M{"profile_image_url": ""}}, false)
}

func (s *Store) swapImage(ctx context.Context, userID primitive.ObjectID, update bson.M, upsert bool) (string, error) {
	now := time.Now().UTC()
	if set, ok := update["$set"].(bson.M); ok {
		set["updated_at"] = now
	} else {
		update["$set"] = bson.M{"updated_at": now}
	}
	update["$setOnInsert"] = bson.M{"_id": primitive.NewObjectID(), "created_at": now}

	var before models.UserProfile
	err := s.c.FindOneAndUpdate(ctx,
		bson.M{"user_id": userID},
		update,
		options.FindOneAndUpdate().SetUpsert(upsert).SetReturnDocument(options.Before),
	).Decode(&before)
	if err == mongo.ErrNoDocuments {
		if upsert {
			return "", nil
		}
		return "", err
	}
	if err != nil {
		return "", err
	}
	return before.ProfileImageURL, nil
}
