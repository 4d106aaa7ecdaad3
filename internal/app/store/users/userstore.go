package userstore

import (
	"context"
	"errors"
	"time"

	"github.com/dalemusser/mindhub/internal/app/store/storeutil"
	"github.com/dalemusser/mindhub/internal/app/system/normalize"
	"github.com/dalemusser/mindhub/internal/app/system/paging"
	"github.com/dalemusser/mindhub/internal/domain/models"
	wafflemongo "github.com/dalemusser/waffle/pantry/mongo"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
)

type Store struct {
	c *mongo.Collection
}

func New(db *mongo.Database) *Store {
	return &Store{c: db.Collection("users")}
}

var (
	// ErrDuplicateEmail is returned when attempting to create a user with an email that already exists.
	ErrDuplicateEmail = errors.New("a user with this email already exists")
	errBadRole        = errors.New(`role must be "user"|"therapist"|"admin"`)
)

// GetByID loads a user by ObjectID.
func (s *Store) GetByID(ctx context.Context, id primitive.ObjectID) (*models.User, error) {
	return storeutil.FindByID[models.User](ctx, s.c, id)
}

// GetByEmail looks up a user by normalized email. Returns mongo.ErrNoDocuments if not found.
func (s *Store) GetByEmail(ctx context.Context, email string) (*models.User, error) {
	return storeutil.FindOne[models.User](ctx, s.c, bson.M{"email": normalize.Email(email)})
}

// GetByToken finds the user currently holding token.
func (s *Store) GetByToken(ctx context.Context, token string) (*models.User, error) {
	return storeutil.FindOne[models.User](ctx, s.c, bson.M{"verification_token": token})
}

// EmailExists reports whether any user has email.
func (s *Store) EmailExists(ctx context.Context, email string) (bool, error) {
	return storeutil.Exists(ctx, s.c, bson.M{"email": normalize.Email(email)})
}

// Create inserts a new user after normalizing & validating fields.
// Password must already be hashed.
func (s *Store) Create(ctx context.Context, u models.User) (models.User, error) {
	u.ID = primitive.NewObjectID()
	u.Name = normalize.Name(u.Name)
	u.Email = normalize.Email(u.Email)
	if u.Role == "" {
		u.Role = models.RoleUser
	}
	if !models.IsValidRole(u.Role) {
		return models.User{}, errBadRole
	}

	now := time.Now().UTC()
	u.CreatedAt = now
	u.UpdatedAt = now

	if _, err := s.c.InsertOne(ctx, u); err != nil {
		if wafflemongo.IsDup(err) {
			return models.User{}, ErrDuplicateEmail
		}
		return models.User{}, err
	}
	return u, nil
}

// SetVerificationToken replaces the token of a still-unverified user.
// Returns false when the user is missing or already verified.
func (s *Store) SetVerificationToken(ctx context.Context, id primitive.ObjectID, token string) (bool, error) {
	res, err := s.c.UpdateOne(ctx,
		bson.M{"_id": id, "is_verified": false},
		bson.M{"$set": bson.M{"verification_token": token, "updated_at": time.Now().UTC()}},
	)
	if err != nil {
		return false, err
	}
	return res.MatchedCount > 0, nil
}

// ConsumeToken marks the unverified holder of token as verified and unsets the
// token in one conditional update, so a token can succeed at most once.
// Returns false when no unverified user holds token.
func (s *Store) ConsumeToken(ctx context.Context, token string) (bool, error) {
	res, err := s.c.UpdateOne(ctx,
		bson.M{"verification_token": token, "is_verified": false},
		bson.M{
			"$set":   bson.M{"is_verified": true, "updated_at": time.Now().UTC()},
			"$unset": bson.M{"verification_token": ""},
		},
	)
	if err != nil {
		return false, err
	}
	return res.ModifiedCount > 0, nil
}

// List returns users ordered by newest first.
func (s *Store) List(ctx context.Context, p paging.Params) ([]models.User, int64, error) {
	return storeutil.FindPage[models.User](ctx, s.c, bson.M{}, bson.D{{Key: "created_at", Value: -1}, {Key: "_id", Value: -1}}, p)
}
