// internal/app/features/comments/handler.go
package comments

import (
	uierrors "github.com/dalemusser/mindhub/internal/app/features/errors"
	"github.com/dalemusser/mindhub/internal/app/system/notify"
	"go.mongodb.org/mongo-driver/mongo"
	"go.uber.org/zap"
)

// Handler serves threaded comments on posts.
type Handler struct {
	DB     *mongo.Database
	Log    *zap.Logger
	ErrLog *uierrors.ErrorLogger
	Notify *notify.Notifier
}

func NewHandler(db *mongo.Database, notifier *notify.Notifier, errLog *uierrors.ErrorLogger, logger *zap.Logger) *Handler {
	return &Handler{DB: db, Log: logger, ErrLog: errLog, Notify: notifier}
}
