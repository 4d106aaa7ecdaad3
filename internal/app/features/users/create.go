// internal/app/features/users/create.go
package users

import (
	"context"
	"net/http"

	userstore "github.com/dalemusser/mindhub/internal/app/store/users"
	"github.com/dalemusser/mindhub/internal/app/system/apperr"
	"github.com/dalemusser/mindhub/internal/app/system/jsonio"
	"github.com/dalemusser/mindhub/internal/app/system/normalize"
	"github.com/dalemusser/mindhub/internal/app/system/timeouts"
	"github.com/dalemusser/mindhub/internal/app/system/verifytoken"
	"github.com/dalemusser/mindhub/internal/domain/models"
	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"
)

// BcryptCost is the work factor for stored password hashes.
const BcryptCost = 10

type createUserRequest struct {
	Name     string `json:"name" validate:"required,max=100"`
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required,min=8,max=72"`
	Role     string `json:"role" validate:"omitempty,oneof=user therapist admin"`
}

// HandleCreate handles POST /users.
func (h *Handler) HandleCreate(w http.ResponseWriter, r *http.Request) {
	var req createUserRequest
	if err := jsonio.DecodeValid(w, r, &req); err != nil {
		h.ErrLog.Write(w, r, err)
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Short())
	defer cancel()

	store := userstore.New(h.DB)
	exists, err := store.EmailExists(ctx, req.Email)
	if err != nil {
		h.ErrLog.LogServerError(w, r, "check email failed", err)
		return
	}
	if exists {
		h.ErrLog.Write(w, r, apperr.Conflictf(userstore.ErrDuplicateEmail.Error()))
		return
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(req.Password), BcryptCost)
	if err != nil {
		h.ErrLog.LogServerError(w, r, "hash password failed", err)
		return
	}
	token, err := verifytoken.New()
	if err != nil {
		h.ErrLog.LogServerError(w, r, "generate verification token failed", err)
		return
	}

	u, err := store.Create(ctx, models.User{
		Name:              req.Name,
		Email:             req.Email,
		Password:          string(hash),
		Role:              normalize.Role(req.Role),
		VerificationToken: &token,
	})
	if err != nil {
		// A racing registration loses at the unique index.
		h.ErrLog.Write(w, r, err)
		return
	}

	h.Log.Info("user created", zap.String("user_id", u.ID.Hex()), zap.String("role", u.Role))
	h.sendVerification(r, u, token)

	jsonio.Created(w, u)
}
