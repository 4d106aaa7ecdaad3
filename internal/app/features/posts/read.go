// internal/app/features/posts/read.go
package posts

import (
	"context"
	"net/http"

	poststore "github.com/dalemusser/mindhub/internal/app/store/posts"
	"github.com/dalemusser/mindhub/internal/app/system/jsonio"
	"github.com/dalemusser/mindhub/internal/app/system/normalize"
	"github.com/dalemusser/mindhub/internal/app/system/paging"
	"github.com/dalemusser/mindhub/internal/app/system/timeouts"
	"github.com/dalemusser/mindhub/internal/app/system/urlparam"
	"github.com/dalemusser/waffle/pantry/query"
)

// HandleList handles GET /posts?authorId&groupId&tags=a,b.
func (h *Handler) HandleList(w http.ResponseWriter, r *http.Request) {
	var f poststore.Filter
	if id, err := urlparam.QueryObjectID(r, "authorId"); err != nil {
		h.ErrLog.Write(w, r, err)
		return
	} else if id != nil {
		f.AuthorID = *id
	}
	if id, err := urlparam.QueryObjectID(r, "groupId"); err != nil {
		h.ErrLog.Write(w, r, err)
		return
	} else if id != nil {
		f.GroupID = *id
	}
	f.Tags = normalize.Tags(query.Get(r, "tags"))
	p := paging.Parse(r)

	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Medium())
	defer cancel()

	items, total, err := poststore.New(h.DB).List(ctx, f, p)
	if err != nil {
		h.ErrLog.LogServerError(w, r, "list posts failed", err)
		return
	}
	jsonio.OK(w, paging.NewPage(items, total, p))
}

// HandleGet handles GET /posts/{id}.
func (h *Handler) HandleGet(w http.ResponseWriter, r *http.Request) {
	id, err := urlparam.ObjectID(r, "id")
	if err != nil {
		h.ErrLog.Write(w, r, err)
		return
	}
	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Short())
	defer cancel()

	p, err := poststore.New(h.DB).GetByID(ctx, id)
	if err != nil {
		h.ErrLog.Write(w, r, err)
		return
	}
	jsonio.OK(w, p)
}
