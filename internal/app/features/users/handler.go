// internal/app/features/users/handler.go
package users

import (
	"sync"

	uierrors "github.com/dalemusser/mindhub/internal/app/features/errors"
	"github.com/dalemusser/mindhub/internal/app/system/mailer"
	"go.mongodb.org/mongo-driver/mongo"
	"go.uber.org/zap"
)

// Handler serves account registration, listing, and email verification.
type Handler struct {
	DB     *mongo.Database
	Log    *zap.Logger
	ErrLog *uierrors.ErrorLogger

	Mailer      mailer.Sender // nil disables verification mail
	MailRetries int
	SiteName    string
	BaseURL     string // used to build the verify link; empty omits it

	mail sync.WaitGroup
}

func NewHandler(db *mongo.Database, m mailer.Sender, errLog *uierrors.ErrorLogger, logger *zap.Logger) *Handler {
	return &Handler{
		DB:          db,
		Log:         logger,
		ErrLog:      errLog,
		Mailer:      m,
		MailRetries: 3,
		SiteName:    "MindHub",
	}
}

// WaitForMail blocks until every verification mail started so far has been
// delivered or given up on.
func (h *Handler) WaitForMail() { h.mail.Wait() }
