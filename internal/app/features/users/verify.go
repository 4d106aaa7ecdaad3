// internal/app/features/users/verify.go
package users

import (
	"context"
	"errors"
	"net/http"
	"net/url"
	"strings"

	userstore "github.com/dalemusser/mindhub/internal/app/store/users"
	"github.com/dalemusser/mindhub/internal/app/system/apperr"
	"github.com/dalemusser/mindhub/internal/app/system/jsonio"
	"github.com/dalemusser/mindhub/internal/app/system/mailer"
	"github.com/dalemusser/mindhub/internal/app/system/timeouts"
	"github.com/dalemusser/mindhub/internal/app/system/verifytoken"
	"github.com/dalemusser/mindhub/internal/domain/models"
	"github.com/go-chi/chi/v5"
	"go.mongodb.org/mongo-driver/mongo"
	"go.uber.org/zap"
)

var (
	errTokenUnknown    = apperr.NotFoundf("invalid verification token")
	errAlreadyVerified = apperr.BadRequestf("email already verified")
)

type messageResponse struct {
	Message string `json:"message"`
}

// HandleVerify handles GET /users/verify/{token}.
func (h *Handler) HandleVerify(w http.ResponseWriter, r *http.Request) {
	token := strings.TrimSpace(chi.URLParam(r, "token"))
	if token == "" {
		h.ErrLog.Write(w, r, errTokenUnknown)
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Short())
	defer cancel()

	store := userstore.New(h.DB)
	u, err := store.GetByToken(ctx, token)
	if errors.Is(err, mongo.ErrNoDocuments) {
		h.ErrLog.Write(w, r, errTokenUnknown)
		return
	}
	if err != nil {
		h.ErrLog.LogServerError(w, r, "lookup verification token failed", err)
		return
	}
	if u.IsVerified {
		h.ErrLog.Write(w, r, errAlreadyVerified)
		return
	}

	ok, err := store.ConsumeToken(ctx, token)
	if err != nil {
		h.ErrLog.LogServerError(w, r, "consume verification token failed", err)
		return
	}
	if !ok {
		// Another request consumed it between the lookup and the update.
		h.ErrLog.Write(w, r, errTokenUnknown)
		return
	}

	h.Log.Info("email verified", zap.String("user_id", u.ID.Hex()))
	jsonio.OK(w, messageResponse{Message: "Email verified successfully"})
}

type resendRequest struct {
	Email string `json:"email" validate:"required,email"`
}

// HandleResend handles POST /users/resend-verification.
func (h *Handler) HandleResend(w http.ResponseWriter, r *http.Request) {
	var req resendRequest
	if err := jsonio.DecodeValid(w, r, &req); err != nil {
		h.ErrLog.Write(w, r, err)
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Short())
	defer cancel()

	store := userstore.New(h.DB)
	u, err := store.GetByEmail(ctx, req.Email)
	if errors.Is(err, mongo.ErrNoDocuments) {
		h.ErrLog.Write(w, r, apperr.NotFoundf("user not found"))
		return
	}
	if err != nil {
		h.ErrLog.LogServerError(w, r, "lookup user failed", err)
		return
	}
	if u.IsVerified {
		h.ErrLog.Write(w, r, errAlreadyVerified)
		return
	}

	token, err := verifytoken.New()
	if err != nil {
		h.ErrLog.LogServerError(w, r, "generate verification token failed", err)
		return
	}
	ok, err := store.SetVerificationToken(ctx, u.ID, token)
	if err != nil {
		h.ErrLog.LogServerError(w, r, "store verification token failed", err)
		return
	}
	if !ok {
		h.ErrLog.Write(w, r, errAlreadyVerified)
		return
	}

	h.sendVerification(r, *u, token)
	jsonio.OK(w, messageResponse{Message: "Verification email sent"})
}

// sendVerification mails the token in the background and returns at once.
// Delivery outlives the request, so a client disconnect does not cancel it.
func (h *Handler) sendVerification(r *http.Request, u models.User, token string) {
	data := mailer.VerificationEmailData{
		SiteName: h.SiteName,
		Name:     u.Name,
		Token:    token,
	}
	if h.BaseURL != "" {
		data.VerifyLink = strings.TrimRight(h.BaseURL, "/") + "/users/verify/" + url.PathEscape(token)
	}

	email := mailer.BuildVerificationEmail(u.Email, data)
	detached := context.WithoutCancel(r.Context())

	h.mail.Add(1)
	go func() {
		defer h.mail.Done()
		ctx, cancel := context.WithTimeout(detached, timeouts.Medium())
		defer cancel()
		mailer.Deliver(ctx, h.Mailer, email, h.MailRetries, h.Log)
	}()
}
