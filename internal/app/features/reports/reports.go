// internal/app/features/reports/reports.go
package reports

import (
	"context"
	"net/http"

	reportstore "github.com/dalemusser/mindhub/internal/app/store/reports"
	"github.com/dalemusser/mindhub/internal/app/system/apperr"
	"github.com/dalemusser/mindhub/internal/app/system/authz"
	"github.com/dalemusser/mindhub/internal/app/system/htmlsanitize"
	"github.com/dalemusser/mindhub/internal/app/system/jsonio"
	"github.com/dalemusser/mindhub/internal/app/system/paging"
	"github.com/dalemusser/mindhub/internal/app/system/targets"
	"github.com/dalemusser/mindhub/internal/app/system/timeouts"
	"github.com/dalemusser/mindhub/internal/app/system/urlparam"
	"github.com/dalemusser/mindhub/internal/domain/models"
	"github.com/dalemusser/waffle/pantry/query"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.uber.org/zap"
)

type createReportRequest struct {
	TargetType string             `json:"targetType" validate:"required,oneof=Post Comment"`
	TargetID   primitive.ObjectID `json:"targetId" validate:"required"`
	Reason     string             `json:"reason" validate:"required,max=500"`
}

type statusRequest struct {
	Status string `json:"status" validate:"required,oneof=pending reviewed resolved"`
}

// HandleCreate handles POST /reports.
func (h *Handler) HandleCreate(w http.ResponseWriter, r *http.Request) {
	uid, ok := authz.UserID(r)
	if !ok {
		h.ErrLog.Write(w, r, apperr.Unauthorizedf("missing or invalid bearer token"))
		return
	}
	var req createReportRequest
	if err := jsonio.DecodeValid(w, r, &req); err != nil {
		h.ErrLog.Write(w, r, err)
		return
	}
	reason := htmlsanitize.StripTags(req.Reason)
	if reason == "" {
		h.ErrLog.Write(w, r, apperr.BadRequestf("reason is required"))
		return
	}
	ref := models.TargetRef{TargetType: req.TargetType, TargetID: req.TargetID}

	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Short())
	defer cancel()

	if _, err := targets.Author(ctx, h.DB, ref); err != nil {
		h.ErrLog.Write(w, r, err)
		return
	}

	store := reportstore.New(h.DB)
	exists, err := store.Exists(ctx, uid, ref)
	if err != nil {
		h.ErrLog.LogServerError(w, r, "report lookup failed", err)
		return
	}
	if exists {
		h.ErrLog.Write(w, r, reportstore.ErrDuplicateReport)
		return
	}

	rep, err := store.Create(ctx, models.Report{
		ReporterID: uid,
		TargetType: ref.TargetType,
		TargetID:   ref.TargetID,
		Reason:     reason,
	})
	if err != nil {
		h.ErrLog.Write(w, r, err)
		return
	}
	h.Log.Info("content reported",
		zap.String("report_id", rep.ID.Hex()),
		zap.String("target_type", rep.TargetType),
		zap.String("target_id", rep.TargetID.Hex()))
	jsonio.Created(w, rep)
}

// HandleList handles GET /reports?status.
func (h *Handler) HandleList(w http.ResponseWriter, r *http.Request) {
	status := query.Get(r, "status")
	if status != "" && !models.IsValidReportStatus(status) {
		h.ErrLog.Write(w, r, apperr.BadRequestf("invalid status"))
		return
	}
	p := paging.Parse(r)

	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Medium())
	defer cancel()

	items, total, err := reportstore.New(h.DB).List(ctx, status, p)
	if err != nil {
		h.ErrLog.LogServerError(w, r, "list reports failed", err)
		return
	}
	jsonio.OK(w, paging.NewPage(items, total, p))
}

// HandleGet handles GET /reports/{id}.
func (h *Handler) HandleGet(w http.ResponseWriter, r *http.Request) {
	id, err := urlparam.ObjectID(r, "id")
	if err != nil {
		h.ErrLog.Write(w, r, err)
		return
	}
	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Short())
	defer cancel()

	rep, err := reportstore.New(h.DB).GetByID(ctx, id)
	if err != nil {
		h.ErrLog.Write(w, r, err)
		return
	}
	jsonio.OK(w, rep)
}

// HandleUpdateStatus handles PATCH /reports/{id}.
func (h *Handler) HandleUpdateStatus(w http.ResponseWriter, r *http.Request) {
	id, err := urlparam.ObjectID(r, "id")
	if err != nil {
		h.ErrLog.Write(w, r, err)
		return
	}
	var req statusRequest
	if err := jsonio.DecodeValid(w, r, &req); err != nil {
		h.ErrLog.Write(w, r, err)
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Short())
	defer cancel()

	rep, err := reportstore.New(h.DB).UpdateStatus(ctx, id, req.Status)
	if err != nil {
		h.ErrLog.Write(w, r, err)
		return
	}
	actor, _ := authz.UserID(r)
	h.Log.Info("report status changed",
		zap.String("report_id", id.Hex()),
		zap.String("status", req.Status),
		zap.String("actor_id", actor.Hex()))
	jsonio.OK(w, rep)
}

// HandleDelete handles DELETE /reports/{id}.
func (h *Handler) HandleDelete(w http.ResponseWriter, r *http.Request) {
	id, err := urlparam.ObjectID(r, "id")
	if err != nil {
		h.ErrLog.Write(w, r, err)
		return
	}
	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Short())
	defer cancel()

	store := reportstore.New(h.DB)
	rep, err := store.GetByID(ctx, id)
	if err != nil {
		h.ErrLog.Write(w, r, err)
		return
	}
	if _, err := store.Delete(ctx, id); err != nil {
		h.ErrLog.Write(w, r, err)
		return
	}
	jsonio.OK(w, rep)
}
