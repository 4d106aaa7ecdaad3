// internal/app/features/teletherapy/sessions.go
package teletherapy

import (
	"context"
	"net/http"
	"time"

	"github.com/dalemusser/mindhub/internal/app/policy/ownerpolicy"
	sessionstore "github.com/dalemusser/mindhub/internal/app/store/teletherapy"
	userstore "github.com/dalemusser/mindhub/internal/app/store/users"
	"github.com/dalemusser/mindhub/internal/app/system/apperr"
	"github.com/dalemusser/mindhub/internal/app/system/authz"
	"github.com/dalemusser/mindhub/internal/app/system/htmlsanitize"
	"github.com/dalemusser/mindhub/internal/app/system/jsonio"
	"github.com/dalemusser/mindhub/internal/app/system/paging"
	"github.com/dalemusser/mindhub/internal/app/system/timeouts"
	"github.com/dalemusser/mindhub/internal/app/system/urlparam"
	"github.com/dalemusser/mindhub/internal/domain/models"
	"github.com/dalemusser/waffle/pantry/query"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.uber.org/zap"
)

type createRequest struct {
	UserID      *primitive.ObjectID `json:"userId"`
	TherapistID primitive.ObjectID  `json:"therapistId" validate:"required"`
	SessionDate time.Time           `json:"sessionDate" validate:"required"`
	Duration    int                 `json:"duration" validate:"required,min=15,max=480"`
	Status      string              `json:"status" validate:"omitempty,oneof=scheduled completed cancelled"`
	Notes       string              `json:"notes" validate:"max=5000"`
}

type updateRequest struct {
	SessionDate *time.Time `json:"sessionDate"`
	Duration    *int       `json:"duration" validate:"omitempty,min=15,max=480"`
	Status      *string    `json:"status" validate:"omitempty,oneof=scheduled completed cancelled"`
	Notes       *string    `json:"notes" validate:"omitempty,max=5000"`
}

var errNotTherapist = apperr.BadRequestf("therapistId must reference a therapist")

// HandleCreate handles POST /teletherapy.
func (h *Handler) HandleCreate(w http.ResponseWriter, r *http.Request) {
	uid, ok := authz.UserID(r)
	if !ok {
		h.ErrLog.Write(w, r, apperr.Unauthorizedf("missing or invalid bearer token"))
		return
	}
	var req createRequest
	if err := jsonio.DecodeValid(w, r, &req); err != nil {
		h.ErrLog.Write(w, r, err)
		return
	}
	client := uid
	if req.UserID != nil {
		client = *req.UserID
	}

	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Short())
	defer cancel()

	therapist, err := userstore.New(h.DB).GetByID(ctx, req.TherapistID)
	if err == mongo.ErrNoDocuments || (err == nil && therapist.Role != models.RoleTherapist) {
		h.ErrLog.Write(w, r, errNotTherapist)
		return
	}
	if err != nil {
		h.ErrLog.LogServerError(w, r, "therapist lookup failed", err)
		return
	}

	sess, err := sessionstore.New(h.DB).Create(ctx, models.TeletherapySession{
		UserID:      client,
		TherapistID: therapist.ID,
		SessionDate: req.SessionDate.UTC(),
		Duration:    req.Duration,
		Status:      req.Status,
		Notes:       htmlsanitize.StripTags(req.Notes),
	})
	if err != nil {
		h.ErrLog.Write(w, r, err)
		return
	}
	h.Log.Info("teletherapy session booked",
		zap.String("session_id", sess.ID.Hex()),
		zap.String("therapist_id", therapist.ID.Hex()),
		zap.Time("session_date", sess.SessionDate))
	jsonio.Created(w, sess)
}

// HandleList handles GET /teletherapy?userId&therapistId&status.
func (h *Handler) HandleList(w http.ResponseWriter, r *http.Request) {
	var f sessionstore.Filter
	if id, err := urlparam.QueryObjectID(r, "userId"); err != nil {
		h.ErrLog.Write(w, r, err)
		return
	} else if id != nil {
		f.UserID = *id
	}
	if id, err := urlparam.QueryObjectID(r, "therapistId"); err != nil {
		h.ErrLog.Write(w, r, err)
		return
	} else if id != nil {
		f.TherapistID = *id
	}
	f.Status = query.Get(r, "status")
	p := paging.Parse(r)

	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Medium())
	defer cancel()

	items, total, err := sessionstore.New(h.DB).List(ctx, f, p)
	if err != nil {
		h.ErrLog.LogServerError(w, r, "list sessions failed", err)
		return
	}
	jsonio.OK(w, paging.NewPage(items, total, p))
}

func (h *Handler) loadParticipant(ctx context.Context, r *http.Request) (*models.TeletherapySession, error) {
	id, err := urlparam.ObjectID(r, "id")
	if err != nil {
		return nil, err
	}
	sess, err := sessionstore.New(h.DB).GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if err := ownerpolicy.AssertParticipant(r, sess.UserID, sess.TherapistID); err != nil {
		return nil, err
	}
	return sess, nil
}

// HandleGet handles GET /teletherapy/{id}.
func (h *Handler) HandleGet(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Short())
	defer cancel()

	sess, err := h.loadParticipant(ctx, r)
	if err != nil {
		h.ErrLog.Write(w, r, err)
		return
	}
	jsonio.OK(w, sess)
}

// HandleUpdate handles PATCH /teletherapy/{id}.
func (h *Handler) HandleUpdate(w http.ResponseWriter, r *http.Request) {
	var req updateRequest
	if err := jsonio.DecodeValid(w, r, &req); err != nil {
		h.ErrLog.Write(w, r, err)
		return
	}
	set := bson.M{}
	if req.SessionDate != nil {
		set["session_date"] = req.SessionDate.UTC()
	}
	if req.Duration != nil {
		set["duration"] = *req.Duration
	}
	if req.Status != nil {
		set["status"] = *req.Status
	}
	if req.Notes != nil {
		set["notes"] = htmlsanitize.StripTags(*req.Notes)
	}

	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Short())
	defer cancel()

	sess, err := h.loadParticipant(ctx, r)
	if err != nil {
		h.ErrLog.Write(w, r, err)
		return
	}
	updated, err := sessionstore.New(h.DB).Update(ctx, sess.ID, set)
	if err != nil {
		h.ErrLog.Write(w, r, err)
		return
	}
	jsonio.OK(w, updated)
}

// HandleDelete handles DELETE /teletherapy/{id}.
func (h *Handler) HandleDelete(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Short())
	defer cancel()

	sess, err := h.loadParticipant(ctx, r)
	if err != nil {
		h.ErrLog.Write(w, r, err)
		return
	}
	if _, err := sessionstore.New(h.DB).Delete(ctx, sess.ID); err != nil {
		h.ErrLog.Write(w, r, err)
		return
	}
	jsonio.OK(w, sess)
}
