// internal/app/features/comments/read.go
package comments

import (
	"context"
	"net/http"

	commentstore "github.com/dalemusser/mindhub/internal/app/store/comments"
	"github.com/dalemusser/mindhub/internal/app/system/jsonio"
	"github.com/dalemusser/mindhub/internal/app/system/paging"
	"github.com/dalemusser/mindhub/internal/app/system/timeouts"
	"github.com/dalemusser/mindhub/internal/app/system/urlparam"
)

// HandleList handles GET /comments. Without parentCommentId only top-level
// comments are returned.
func (h *Handler) HandleList(w http.ResponseWriter, r *http.Request) {
	var f commentstore.Filter
	postID, err := urlparam.QueryObjectID(r, "postId")
	if err != nil {
		h.ErrLog.Write(w, r, err)
		return
	}
	if postID != nil {
		f.PostID = *postID
	}
	authorID, err := urlparam.QueryObjectID(r, "authorId")
	if err != nil {
		h.ErrLog.Write(w, r, err)
		return
	}
	if authorID != nil {
		f.AuthorID = *authorID
	}
	if f.ParentID, err = urlparam.QueryObjectID(r, "parentCommentId"); err != nil {
		h.ErrLog.Write(w, r, err)
		return
	}
	p := paging.Parse(r)

	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Medium())
	defer cancel()

	items, total, err := commentstore.New(h.DB).List(ctx, f, p)
	if err != nil {
		h.ErrLog.LogServerError(w, r, "list comments failed", err)
		return
	}
	jsonio.OK(w, paging.NewPage(items, total, p))
}

// HandleGet handles GET /comments/{id}.
func (h *Handler) HandleGet(w http.ResponseWriter, r *http.Request) {
	id, err := urlparam.ObjectID(r, "id")
	if err != nil {
		h.ErrLog.Write(w, r, err)
		return
	}
	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Short())
	defer cancel()

	c, err := commentstore.New(h.DB).GetByID(ctx, id)
	if err != nil {
		h.ErrLog.Write(w, r, err)
		return
	}
	jsonio.OK(w, c)
}

// HandleReplies handles GET /comments/{id}/replies.
func (h *Handler) HandleReplies(w http.ResponseWriter, r *http.Request) {
	id, err := urlparam.ObjectID(r, "id")
	if err != nil {
		h.ErrLog.Write(w, r, err)
		return
	}
	p := paging.Parse(r)

	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Medium())
	defer cancel()

	store := commentstore.New(h.DB)
	if _, err := store.GetByID(ctx, id); err != nil {
		h.ErrLog.Write(w, r, err)
		return
	}
	items, total, err := store.Replies(ctx, id, p)
	if err != nil {
		h.ErrLog.LogServerError(w, r, "list replies failed", err)
		return
	}
	jsonio.OK(w, paging.NewPage(items, total, p))
}
