// internal/app/store/teletherapy/sessionstore.go
package sessionstore

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
	return &Store{c: db.Collection("teletherapy_sessions")}
}

// Create inserts s, defaulting the status to scheduled.
func (s *Store) Create(ctx context.Context, sess models.TeletherapySession) (models.TeletherapySession, error) {
	sess.ID = primitive.NewObjectID()
	if sess.Status == "" {
		sess.Status = models.SessionScheduled
	}
	now := time.Now().UTC()
	sess.CreatedAt = now
	sess.UpdatedAt = now
	if _, err := s.c.InsertOne(ctx, sess); err != nil {
		return models.TeletherapySession{}, err
	}
	return sess, nil
}

func (s *Store) GetByID(ctx context.Context, id primitive.ObjectID) (*models.TeletherapySession, error) {
	return storeutil.FindByID[models.TeletherapySession](ctx, s.c, id)
}

// Filter narrows List; zero values are ignored.
type Filter struct {
	UserID      primitive.ObjectID
	TherapistID primitive.ObjectID
	Status      string
}

// List returns sessions in schedule order.
func (s *Store) List(ctx context.Context, f Filter, p paging.Params) ([]models.TeletherapySession, int64, error) {
	q := bson.M{}
	if !f.UserID.IsZero() {
		q["user_id"] = f.UserID
	}
	if !f.TherapistID.IsZero() {
		q["therapist_id"] = f.TherapistID
	}
	if f.Status != "" {
		q["status"] = f.Status
	}
	return storeutil.FindPage[models.TeletherapySession](ctx, s.c, q, bson.D{{Key: "session_date", Value: 1}, {Key: "_id", Value: 1}}, p)
}

// Update applies a prepared $set (bson field names) and returns the result.
func (s *Store) Update(ctx context.Context, id primitive.ObjectID, set bson.M) (*models.TeletherapySession, error) {
	return storeutil.UpdateByID[models.TeletherapySession](ctx, s.c, id, set)
}

func (s *Store) Delete(ctx context.Context, id primitive.ObjectID) (bool, error) {
	return storeutil.DeleteByID(ctx, s.c, id)
}
