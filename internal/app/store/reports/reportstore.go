// internal/app/store/reports/reportstore.go
package reportstore

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

// ErrDuplicateReport is returned when (reporter_id, target_type, target_id) already exists.
var ErrDuplicateReport = errors.New("you have already reported this item")

var errBadStatus = errors.New(`status must be "pending"|"reviewed"|"resolved"`)

type Store struct {
	c *mongo.Collection
}

func New(db *mongo.Database) *Store {
	return &Store{c: db.Collection("reports")}
}

// Create inserts r in the pending state.
func (s *Store) Create(ctx context.Context, r models.Report) (models.Report, error) {
	r.ID = primitive.NewObjectID()
	r.Status = models.ReportPending
	now := time.Now().UTC()
	r.CreatedAt = now
	r.UpdatedAt = now
	if _, err := s.c.InsertOne(ctx, r); err != nil {
		if wafflemongo.IsDup(err) {
			return models.Report{}, ErrDuplicateReport
		}
		return models.Report{}, err
	}
	return r, nil
}

func (s *Store) GetByID(ctx context.Context, id primitive.ObjectID) (*models.Report, error) {
	return storeutil.FindByID[models.Report](ctx, s.c, id)
}

// Exists reports whether reporterID already reported t.
func (s *Store) Exists(ctx context.Context, reporterID primitive.ObjectID, t models.TargetRef) (bool, error) {
	return storeutil.Exists(ctx, s.c, bson.M{
		"reporter_id": reporterID,
		"target_type": t.TargetType,
		"target_id":   t.TargetID,
	})
}

// List returns reports newest first, optionally filtered by status.
func (s *Store) List(ctx context.Context, status string, p paging.Params) ([]models.Report, int64, error) {
	q := bson.M{}
	if status != "" {
		q["status"] = status
	}
	return storeutil.FindPage[models.Report](ctx, s.c, q, bson.D{{Key: "created_at", Value: -1}, {Key: "_id", Value: -1}}, p)
}

func (s *Store) UpdateStatus(ctx context.Context, id primitive.ObjectID, status string) (*models.Report, error) {
	if !models.IsValidReportStatus(status) {
		return nil, errBadStatus
	}
	return storeutil.UpdateByID[models.Report](ctx, s.c, id, bson.M{"status": status})
}

func (s *Store) Delete(ctx context.Context, id primitive.ObjectID) (bool, error) {
	return storeutil.DeleteByID(ctx, s.c, id)
}
