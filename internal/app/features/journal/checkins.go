// internal/app/features/journal/checkins.go
package journal

import (
	"context"
	"net/http"
	"time"

	checkinstore "github.com/dalemusser/mindhub/internal/app/store/checkins"
	gamificationstore "github.com/dalemusser/mindhub/internal/app/store/gamification"
	"github.com/dalemusser/mindhub/internal/app/system/htmlsanitize"
	"github.com/dalemusser/mindhub/internal/app/system/jsonio"
	"github.com/dalemusser/mindhub/internal/app/system/timeouts"
	"github.com/dalemusser/mindhub/internal/domain/models"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.uber.org/zap"
)

type checkInCreate struct {
	UserID primitive.ObjectID `json:"userId"`
	Mood   int                `json:"mood" validate:"required,min=1,max=10"`
	Date   *time.Time         `json:"date"`
	Note   string             `json:"note" validate:"max=2000"`
}

type checkInPatch struct {
	Mood *int       `json:"mood" validate:"omitempty,min=1,max=10"`
	Date *time.Time `json:"date"`
	Note *string    `json:"note" validate:"omitempty,max=2000"`
}

func (h *Handler) checkIns() *resource[models.CheckIn] {
	return &resource[models.CheckIn]{
		h:        h,
		name:     "check-ins",
		store:    checkinstore.New(h.DB),
		getOwner: func(v *models.CheckIn) primitive.ObjectID { return v.UserID },
		setOwner: func(v *models.CheckIn, id primitive.ObjectID) { v.UserID = id },
		build: func(w http.ResponseWriter, r *http.Request) (models.CheckIn, error) {
			var req checkInCreate
			if err := jsonio.DecodeValid(w, r, &req); err != nil {
				return models.CheckIn{}, err
			}
			return models.CheckIn{
				UserID: req.UserID,
				Mood:   req.Mood,
				Date:   dateOrNow(req.Date),
				Note:   htmlsanitize.StripTags(req.Note),
			}, nil
		},
		patch: func(w http.ResponseWriter, r *http.Request) (bson.M, error) {
			var req checkInPatch
			if err := jsonio.DecodeValid(w, r, &req); err != nil {
				return nil, err
			}
			set := bson.M{}
			if req.Mood != nil {
				set["mood"] = *req.Mood
			}
			if req.Date != nil {
				set["date"] = req.Date.UTC()
			}
			if req.Note != nil {
				set["note"] = htmlsanitize.StripTags(*req.Note)
			}
			return set, nil
		},
		created: h.awardCheckIn,
	}
}

// awardCheckIn credits points and advances the streak. Failures are logged
// and never fail the check-in itself.
func (h *Handler) awardCheckIn(ctx context.Context, c models.CheckIn) {
	ctx, cancel := context.WithTimeout(context.WithoutCancel(ctx), timeouts.Short())
	defer cancel()

	g, err := gamificationstore.New(h.DB).AwardCheckIn(ctx, c.UserID, c.Date)
	if err != nil {
		h.Log.Warn("check-in award failed", zap.String("user_id", c.UserID.Hex()), zap.Error(err))
		return
	}
	h.Log.Debug("check-in awarded",
		zap.String("user_id", c.UserID.Hex()),
		zap.Int64("points", g.Points),
		zap.Int("streak", g.CheckInStreak))
}

func dateOrNow(t *time.Time) time.Time {
	if t == nil || t.IsZero() {
		return time.Now().UTC()
	}
	return t.UTC()
}
