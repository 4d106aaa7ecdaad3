// internal/app/features/gamification/profiles.go
package gamification

import (
	"context"
	"net/http"
	"time"

	"github.com/dalemusser/mindhub/internal/app/policy/ownerpolicy"
	gamificationstore "github.com/dalemusser/mindhub/internal/app/store/gamification"
	"github.com/dalemusser/mindhub/internal/app/system/apperr"
	"github.com/dalemusser/mindhub/internal/app/system/authz"
	"github.com/dalemusser/mindhub/internal/app/system/jsonio"
	"github.com/dalemusser/mindhub/internal/app/system/paging"
	"github.com/dalemusser/mindhub/internal/app/system/timeouts"
	"github.com/dalemusser/mindhub/internal/app/system/urlparam"
	"github.com/dalemusser/mindhub/internal/domain/models"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

type createRequest struct {
	UserID *primitive.ObjectID `json:"userId"`
}

type achievementInput struct {
	Name        string     `json:"name" validate:"required,max=100"`
	Description string     `json:"description" validate:"max=500"`
	EarnedAt    *time.Time `json:"earnedAt"`
}

type updateRequest struct {
	Points        *int64             `json:"points" validate:"omitempty,min=0"`
	Badges        []string           `json:"badges" validate:"omitempty,dive,required,max=50"`
	CheckInStreak *int               `json:"checkInStreak" validate:"omitempty,min=0"`
	Achievements  []achievementInput `json:"achievements" validate:"omitempty,dive"`
}

// HandleCreate handles POST /gamification. userId defaults to the caller;
// only admins may create a profile for someone else.
func (h *Handler) HandleCreate(w http.ResponseWriter, r *http.Request) {
	uid, ok := authz.UserID(r)
	if !ok {
		h.ErrLog.Write(w, r, apperr.Unauthorizedf("missing or invalid bearer token"))
		return
	}
	var req createRequest
	if err := jsonio.DecodeOptional(w, r, &req); err != nil {
		h.ErrLog.Write(w, r, err)
		return
	}
	owner := uid
	if req.UserID != nil {
		owner = *req.UserID
	}
	if err := ownerpolicy.AssertOwnerOrAdmin(r, owner); err != nil {
		h.ErrLog.Write(w, r, err)
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Short())
	defer cancel()

	store := gamificationstore.New(h.DB)
	exists, err := store.ExistsForUser(ctx, owner)
	if err != nil {
		h.ErrLog.LogServerError(w, r, "gamification lookup failed", err)
		return
	}
	if exists {
		h.ErrLog.Write(w, r, gamificationstore.ErrDuplicateProfile)
		return
	}
	g, err := store.Create(ctx, models.Gamification{UserID: owner})
	if err != nil {
		h.ErrLog.Write(w, r, err)
		return
	}
	jsonio.Created(w, g)
}

// HandleList handles GET /gamification, highest points first.
func (h *Handler) HandleList(w http.ResponseWriter, r *http.Request) {
	p := paging.Parse(r)
	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Medium())
	defer cancel()

	items, total, err := gamificationstore.New(h.DB).List(ctx, p)
	if err != nil {
		h.ErrLog.LogServerError(w, r, "list gamification failed", err)
		return
	}
	jsonio.OK(w, paging.NewPage(items, total, p))
}

// HandleGetByUser handles GET /gamification/user/{userId}.
func (h *Handler) HandleGetByUser(w http.ResponseWriter, r *http.Request) {
	userID, err := urlparam.ObjectID(r, "userId")
	if err != nil {
		h.ErrLog.Write(w, r, err)
		return
	}
	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Short())
	defer cancel()

	g, err := gamificationstore.New(h.DB).GetByUser(ctx, userID)
	if err != nil {
		h.ErrLog.Write(w, r, err)
		return
	}
	jsonio.OK(w, g)
}

// HandleGet handles GET /gamification/{id}.
func (h *Handler) HandleGet(w http.ResponseWriter, r *http.Request) {
	id, err := urlparam.ObjectID(r, "id")
	if err != nil {
		h.ErrLog.Write(w, r, err)
		return
	}
	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Short())
	defer cancel()

	g, err := gamificationstore.New(h.DB).GetByID(ctx, id)
	if err != nil {
		h.ErrLog.Write(w, r, err)
		return
	}
	jsonio.OK(w, g)
}

func (h *Handler) loadManaged(ctx context.Context, r *http.Request) (*models.Gamification, error) {
	id, err := urlparam.ObjectID(r, "id")
	if err != nil {
		return nil, err
	}
	g, err := gamificationstore.New(h.DB).GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if err := ownerpolicy.AssertOwnerOrAdmin(r, g.UserID); err != nil {
		return nil, err
	}
	return g, nil
}

// HandleUpdate handles PATCH /gamification/{id}.
func (h *Handler) HandleUpdate(w http.ResponseWriter, r *http.Request) {
	var req updateRequest
	if err := jsonio.DecodeValid(w, r, &req); err != nil {
		h.ErrLog.Write(w, r, err)
		return
	}
	upd := gamificationstore.Update{
		Points:        req.Points,
		Badges:        req.Badges,
		CheckInStreak: req.CheckInStreak,
	}
	if req.Achievements != nil {
		now := time.Now().UTC()
		upd.Achievements = make([]models.Achievement, 0, len(req.Achievements))
		for _, a := range req.Achievements {
			earned := now
			if a.EarnedAt != nil {
				earned = a.EarnedAt.UTC()
			}
			upd.Achievements = append(upd.Achievements, models.Achievement{
				Name:        a.Name,
				Description: a.Description,
				EarnedAt:    earned,
			})
		}
	}

	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Short())
	defer cancel()

	g, err := h.loadManaged(ctx, r)
	if err != nil {
		h.ErrLog.Write(w, r, err)
		return
	}
	updated, err := gamificationstore.New(h.DB).Update(ctx, g.ID, upd)
	if err != nil {
		h.ErrLog.Write(w, r, err)
		return
	}
	jsonio.OK(w, updated)
}

// HandleDelete handles DELETE /gamification/{id}.
func (h *Handler) HandleDelete(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Short())
	defer cancel()

	g, err := h.loadManaged(ctx, r)
	if err != nil {
		h.ErrLog.Write(w, r, err)
		return
	}
	if _, err := gamificationstore.New(h.DB).Delete(ctx, g.ID); err != nil {
		h.ErrLog.Write(w, r, err)
		return
	}
	jsonio.OK(w, g)
}
