// internal/app/features/userprofiles/image.go
package userprofiles

import (
	"context"
	"errors"
	"net/http"
	"strings"

	profilestore "github.com/dalemusser/mindhub/internal/app/store/profiles"
	"github.com/dalemusser/mindhub/internal/app/system/apperr"
	"github.com/dalemusser/mindhub/internal/app/system/authz"
	"github.com/dalemusser/mindhub/internal/app/system/fileupload"
	"github.com/dalemusser/mindhub/internal/app/system/jsonio"
	"github.com/dalemusser/mindhub/internal/app/system/timeouts"
	"go.mongodb.org/mongo-driver/mongo"
	"go.uber.org/zap"
)

// HandleUploadImage handles POST /user-profiles/upload-image (multipart "image").
func (h *Handler) HandleUploadImage(w http.ResponseWriter, r *http.Request) {
	uid, ok := authz.UserID(r)
	if !ok {
		h.ErrLog.Write(w, r, apperr.Unauthorizedf("missing or invalid bearer token"))
		return
	}

	hdr, err := fileupload.FormFile(w, r, "image", h.MaxBytes)
	if err != nil {
		h.ErrLog.Write(w, r, err)
		return
	}
	if ct := hdr.Header.Get("Content-Type"); ct != "" && !strings.HasPrefix(ct, "image/") {
		h.ErrLog.Write(w, r, apperr.BadRequestf("only image files are allowed"))
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Medium())
	defer cancel()

	info, err := fileupload.Save(ctx, h.Storage, "profile-images", hdr)
	if err != nil {
		h.ErrLog.LogServerError(w, r, "store profile image failed", err)
		return
	}
	if !strings.HasPrefix(info.ContentType, "image/") {
		h.removeFile(ctx, info.Path)
		h.ErrLog.Write(w, r, apperr.BadRequestf("only image files are allowed"))
		return
	}

	store := profilestore.New(h.DB)
	prev, err := store.SetImage(ctx, uid, info.URL)
	if err != nil {
		h.removeFile(ctx, info.Path)
		h.ErrLog.LogServerError(w, r, "set profile image failed", err)
		return
	}
	h.removeURL(ctx, prev)

	p, err := store.GetByUser(ctx, uid)
	if err != nil {
		h.ErrLog.Write(w, r, err)
		return
	}
	jsonio.OK(w, p)
}

// HandleDeleteImage handles DELETE /user-profiles/image.
func (h *Handler) HandleDeleteImage(w http.ResponseWriter, r *http.Request) {
	uid, ok := authz.UserID(r)
	if !ok {
		h.ErrLog.Write(w, r, apperr.Unauthorizedf("missing or invalid bearer token"))
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Short())
	defer cancel()

	store := profilestore.New(h.DB)
	prev, err := store.ClearImage(ctx, uid)
	if errors.Is(err, mongo.ErrNoDocuments) {
		h.ErrLog.Write(w, r, apperr.NotFoundf("profile not found"))
		return
	}
	if err != nil {
		h.ErrLog.LogServerError(w, r, "clear profile image failed", err)
		return
	}
	h.removeURL(ctx, prev)

	p, err := store.GetByUser(ctx, uid)
	if err != nil {
		h.ErrLog.Write(w, r, err)
		return
	}
	jsonio.OK(w, p)
}

// removeURL deletes the stored file behind url, best-effort.
func (h *Handler) removeURL(ctx context.Context, url string) {
	if path, ok := fileupload.PathFromURL(h.Storage, url); ok {
		h.removeFile(ctx, path)
	}
}

func (h *Handler) removeFile(ctx context.Context, path string) {
	if err := h.Storage.Delete(ctx, path); err != nil {
		h.Log.Warn("failed to delete stored file", zap.String("path", path), zap.Error(err))
	}
}
