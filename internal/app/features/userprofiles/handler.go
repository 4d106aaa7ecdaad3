// internal/app/features/userprofiles/handler.go
package userprofiles

import (
	uierrors "github.com/dalemusser/mindhub/internal/app/features/errors"
	"github.com/dalemusser/mindhub/internal/app/system/fileupload"
	"go.mongodb.org/mongo-driver/mongo"
	"go.uber.org/zap"
)

// Handler serves the caller's demographic and medical profile.
type Handler struct {
	DB       *mongo.Database
	Log      *zap.Logger
	ErrLog   *uierrors.ErrorLogger
	Storage  fileupload.Store
	MaxBytes int64
}

func NewHandler(db *mongo.Database, store fileupload.Store, maxBytes int64, errLog *uierrors.ErrorLogger, logger *zap.Logger) *Handler {
	return &Handler{
		DB:       db,
		Log:      logger,
		ErrLog:   errLog,
		Storage:  store,
		MaxBytes: maxBytes,
	}
}
