// internal/app/store/gamification/gamificationstore.go
package gamificationstore

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
	"go.mongodb.org/mongo-driver/mongo/options"
)

// CheckInPoints is awarded for every check-in.
const CheckInPoints = 10

// ErrDuplicateProfile is returned when the user already has a gamification profile.
var ErrDuplicateProfile = errors.New("gamification profile already exists for this user")

type Store struct {
	c *mongo.Collection
}

func New(db *mongo.Database) *Store {
	return &Store{c: db.Collection("gamification")}
}

func (s *Store) Create(ctx context.Context, g models.Gamification) (models.Gamification, error) {
	g.ID = primitive.NewObjectID()
	if g.Badges == nil {
		g.Badges = []string{}
	}
	if g.Achievements == nil {
		g.Achievements = []models.Achievement{}
	}
	now := time.Now().UTC()
	g.CreatedAt = now
	g.UpdatedAt = now
	if _, err := s.c.InsertOne(ctx, g); err != nil {
		if wafflemongo.IsDup(err) {
			return models.Gamification{}, ErrDuplicateProfile
		}
		return models.Gamification{}, err
	}
	return g, nil
}

func (s *Store) GetByID(ctx context.Context, id primitive.ObjectID) (*models.Gamification, error) {
	return storeutil.FindByID[models.Gamification](ctx, s.c, id)
}

func (s *Store) GetByUser(ctx context.Context, userID primitive.ObjectID) (*models.Gamification, error) {
	return storeutil.FindOne[models.Gamification](ctx, s.c, bson.M{"user_id": userID})
}

// ExistsForUser reports whether userID has a profile.
func (s *Store) ExistsForUser(ctx context.Context, userID primitive.ObjectID) (bool, error) {
	return storeutil.Exists(ctx, s.c, bson.M{"user_id": userID})
}

// List returns profiles ordered by points, highest first.
func (s *Store) List(ctx context.Context, p paging.Params) ([]models.Gamification, int64, error) {
	return storeutil.FindPage[models.Gamification](ctx, s.c, bson.M{}, bson.D{{Key: "points", Value: -1}, {Key: "_id", Value: 1}}, p)
}

// Update holds the mutable fields; nil means unchanged.
type Update struct {
	Points        *int64
	Badges        []string
	CheckInStreak *int
	Achievements  []models.Achievement
}

func (s *Store) Update(ctx context.Context, id primitive.ObjectID, upd Update) (*models.Gamification, error) {
	set := bson.M{}
	if upd.Points != nil {
		set["points"] = *upd.Points
	}
	if upd.Badges != nil {
		set["badges"] = upd.Badges
	}
	if upd.CheckInStreak != nil {
		set["check_in_streak"] = *upd.CheckInStreak
	}
	if upd.Achievements != nil {
		set["achievements"] = upd.Achievements
	}
	return storeutil.UpdateByID[models.Gamification](ctx, s.c, id, set)
}

func (s *Store) Delete(ctx context.Context, id primitive.ObjectID) (bool, error) {
	return storeutil.DeleteByID(ctx, s.c, id)
}

// NextStreak returns the streak after a check-in at now. It grows by one when
// the previous check-in fell on the previous UTC day, is unchanged by another
// check-in on the same UTC day, and restarts at 1 after a missed day.
func NextStreak(last *time.Time, streak int, now time.Time) int {
	if last == nil || streak <= 0 {
		return 1
	}
	today := now.UTC().Truncate(24 * time.Hour)
	prev := last.UTC().Truncate(24 * time.Hour)
	switch today.Sub(prev) {
	case 0:
		return streak
	case 24 * time.Hour:
		return streak + 1
	default:
		return 1
	}
}

// awardAttempts bounds how often AwardCheckIn re-reads after losing a race.
const awardAttempts = 5

// ErrAwardContended is returned when concurrent check-ins kept AwardCheckIn
// from applying its update.
var ErrAwardContended = errors.New("gamification profile changed concurrently; check-in not awarded")

// AwardCheckIn adds CheckInPoints and advances the streak, creating the
// profile on first use. Points are added with $inc and the streak is written
// only if last_check_in_at still holds the value it was computed from, so
// concurrent check-ins never lose points.
func (s *Store) AwardCheckIn(ctx context.Context, userID primitive.ObjectID, at time.Time) (*models.Gamification, error) {
	for attempt := 0; attempt < awardAttempts; attempt++ {
		g, err := s.GetByUser(ctx, userID)
		if err == mongo.ErrNoDocuments {
			created, cerr := s.Create(ctx, models.Gamification{
				UserID:        userID,
				Points:        CheckInPoints,
				CheckInStreak: 1,
				LastCheckInAt: &at,
			})
			if errors.Is(cerr, ErrDuplicateProfile) {
				continue
			}
			if cerr != nil {
				return nil, cerr
			}
			return &created, nil
		}
		if err != nil {
			return nil, err
		}

		filter := bson.M{"_id": g.ID, "last_check_in_at": nil}
		if g.LastCheckInAt != nil {
			filter["last_check_in_at"] = *g.LastCheckInAt
		}
		var out models.Gamification
		err = s.c.FindOneAndUpdate(ctx, filter, bson.M{
			"$inc": bson.M{"points": CheckInPoints},
			"$set": bson.M{
				"check_in_streak":  NextStreak(g.LastCheckInAt, g.CheckInStreak, at),
				"last_check_in_at": at,
				"updated_at":       time.Now().UTC(),
			},
		}, options.FindOneAndUpdate().SetReturnDocument(options.After)).Decode(&out)
		if err == mongo.ErrNoDocuments {
			continue
		}
		if err != nil {
			return nil, err
		}
		return &out, nil
	}
	return nil, ErrAwardContended
}
