// internal/app/features/content/library.go
package content

import (
	"context"
	"net/http"

	contentstore "github.com/dalemusser/mindhub/internal/app/store/content"
	"github.com/dalemusser/mindhub/internal/app/system/apperr"
	"github.com/dalemusser/mindhub/internal/app/system/htmlsanitize"
	"github.com/dalemusser/mindhub/internal/app/system/jsonio"
	"github.com/dalemusser/mindhub/internal/app/system/paging"
	"github.com/dalemusser/mindhub/internal/app/system/timeouts"
	"github.com/dalemusser/mindhub/internal/app/system/urlparam"
	"github.com/dalemusser/mindhub/internal/domain/models"
	"github.com/dalemusser/waffle/pantry/query"
	"go.mongodb.org/mongo-driver/bson"
	"go.uber.org/zap"
)

type createRequest struct {
	Title       string `json:"title" validate:"required,max=200"`
	Type        string `json:"type" validate:"required,oneof=article audio video"`
	Description string `json:"description" validate:"max=5000"`
	URL         string `json:"url" validate:"required,url,max=2048"`
}

type updateRequest struct {
	Title       *string `json:"title" validate:"omitempty,min=1,max=200"`
	Type        *string `json:"type" validate:"omitempty,oneof=article audio video"`
	Description *string `json:"description" validate:"omitempty,max=5000"`
	URL         *string `json:"url" validate:"omitempty,url,max=2048"`
}

func validType(kind string) bool {
	switch kind {
	case models.ContentArticle, models.ContentAudio, models.ContentVideo:
		return true
	}
	return false
}

// HandleList handles GET /content?type=article|audio|video.
func (h *Handler) HandleList(w http.ResponseWriter, r *http.Request) {
	kind := query.Get(r, "type")
	if kind != "" && !validType(kind) {
		h.ErrLog.Write(w, r, apperr.BadRequestf("type must be article, audio or video"))
		return
	}
	p := paging.Parse(r)

	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Medium())
	defer cancel()

	items, total, err := contentstore.New(h.DB).List(ctx, kind, p)
	if err != nil {
		h.ErrLog.LogServerError(w, r, "list content failed", err)
		return
	}
	jsonio.OK(w, paging.NewPage(items, total, p))
}

// HandleGet handles GET /content/{id}.
func (h *Handler) HandleGet(w http.ResponseWriter, r *http.Request) {
	id, err := urlparam.ObjectID(r, "id")
	if err != nil {
		h.ErrLog.Write(w, r, err)
		return
	}
	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Short())
	defer cancel()

	c, err := contentstore.New(h.DB).GetByID(ctx, id)
	if err != nil {
		h.ErrLog.Write(w, r, err)
		return
	}
	jsonio.OK(w, c)
}

// HandleCreate handles POST /content (admin).
func (h *Handler) HandleCreate(w http.ResponseWriter, r *http.Request) {
	var req createRequest
	if err := jsonio.DecodeValid(w, r, &req); err != nil {
		h.ErrLog.Write(w, r, err)
		return
	}
	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Short())
	defer cancel()

	c, err := contentstore.New(h.DB).Create(ctx, models.Content{
		Title:       htmlsanitize.StripTags(req.Title),
		Type:        req.Type,
		Description: htmlsanitize.Sanitize(req.Description),
		URL:         req.URL,
	})
	if err != nil {
		h.ErrLog.Write(w, r, err)
		return
	}
	h.Log.Info("content added", zap.String("content_id", c.ID.Hex()), zap.String("type", c.Type))
	jsonio.Created(w, c)
}

// HandleUpdate handles PATCH /content/{id} (admin).
func (h *Handler) HandleUpdate(w http.ResponseWriter, r *http.Request) {
	id, err := urlparam.ObjectID(r, "id")
	if err != nil {
		h.ErrLog.Write(w, r, err)
		return
	}
	var req updateRequest
	if err := jsonio.DecodeValid(w, r, &req); err != nil {
		h.ErrLog.Write(w, r, err)
		return
	}
	set := bson.M{}
	if req.Title != nil {
		set["title"] = htmlsanitize.StripTags(*req.Title)
	}
	if req.Type != nil {
		set["type"] = *req.Type
	}
	if req.Description != nil {
		set["description"] = htmlsanitize.Sanitize(*req.Description)
	}
	if req.URL != nil {
		set["url"] = *req.URL
	}

	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Short())
	defer cancel()

	c, err := contentstore.New(h.DB).Update(ctx, id, set)
	if err != nil {
		h.ErrLog.Write(w, r, err)
		return
	}
	jsonio.OK(w, c)
}

// HandleDelete handles DELETE /content/{id} (admin).
func (h *Handler) HandleDelete(w http.ResponseWriter, r *http.Request) {
	id, err := urlparam.ObjectID(r, "id")
	if err != nil {
		h.ErrLog.Write(w, r, err)
		return
	}
	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Short())
	defer cancel()

	store := contentstore.New(h.DB)
	c, err := store.GetByID(ctx, id)
	if err != nil {
		h.ErrLog.Write(w, r, err)
		return
	}
	if _, err := store.Delete(ctx, id); err != nil {
		h.ErrLog.Write(w, r, err)
		return
	}
	h.Log.Info("content removed", zap.String("content_id", id.Hex()))
	jsonio.OK(w, c)
}
