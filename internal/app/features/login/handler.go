// internal/app/features/login/handler.go
package login

import (
	"context"
	"errors"
	"net/http"

	uierrors "github.com/dalemusser/mindhub/internal/app/features/errors"
	userstore "github.com/dalemusser/mindhub/internal/app/store/users"
	"github.com/dalemusser/mindhub/internal/app/system/apperr"
	"github.com/dalemusser/mindhub/internal/app/system/auth"
	"github.com/dalemusser/mindhub/internal/app/system/jsonio"
	"github.com/dalemusser/mindhub/internal/app/system/ratelimit"
	"github.com/dalemusser/mindhub/internal/app/system/timeouts"
	"github.com/dalemusser/mindhub/internal/domain/models"
	"go.mongodb.org/mongo-driver/mongo"
	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"
)

type Handler struct {
	DB     *mongo.Database
	Log    *zap.Logger
	Tokens *auth.TokenManager
	ErrLog *uierrors.ErrorLogger
}

func NewHandler(db *mongo.Database, tokens *auth.TokenManager, errLog *uierrors.ErrorLogger, logger *zap.Logger) *Handler {
	return &Handler{
		DB:     db,
		Log:    logger,
		Tokens: tokens,
		ErrLog: errLog,
	}
}

type loginRequest struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required"`
}

type loginResponse struct {
	User        models.User `json:"user"`
	AccessToken string      `json:"access_token"`
}

var errBadCredentials = apperr.Unauthorizedf("invalid credentials")

// dummyHash keeps the unknown-email path as slow as a wrong password.
var dummyHash, _ = bcrypt.GenerateFromPassword([]byte("mindhub-timing-equalizer"), bcrypt.DefaultCost)

// HandleLogin handles POST /auth/login.
func (h *Handler) HandleLogin(w http.ResponseWriter, r *http.Request) {
	var req loginRequest
	if err := jsonio.DecodeValid(w, r, &req); err != nil {
		h.ErrLog.Write(w, r, err)
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Short())
	defer cancel()

	u, err := userstore.New(h.DB).GetByEmail(ctx, req.Email)
	if errors.Is(err, mongo.ErrNoDocuments) {
		_ = bcrypt.CompareHashAndPassword(dummyHash, []byte(req.Password))
		h.Log.Info("login failed: unknown email", zap.String("ip", ratelimit.ClientIP(r)))
		h.ErrLog.Write(w, r, errBadCredentials)
		return
	}
	if err != nil {
		h.ErrLog.LogServerError(w, r, "load user for login failed", err)
		return
	}

	if err := bcrypt.CompareHashAndPassword([]byte(u.Password), []byte(req.Password)); err != nil {
		h.Log.Info("login failed: wrong password",
			zap.String("user_id", u.ID.Hex()),
			zap.String("ip", ratelimit.ClientIP(r)))
		h.ErrLog.Write(w, r, errBadCredentials)
		return
	}

	role := u.Role
	if role == "" {
		role = models.RoleUser
	}
	token, err := h.Tokens.Issue(auth.Principal{ID: u.ID.Hex(), Email: u.Email, Role: role})
	if err != nil {
		h.ErrLog.LogServerError(w, r, "sign access token failed", err)
		return
	}

	h.Log.Info("login succeeded", zap.String("user_id", u.ID.Hex()))
	jsonio.OK(w, loginResponse{User: *u, AccessToken: token})
}
