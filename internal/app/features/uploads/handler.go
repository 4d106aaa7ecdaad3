// internal/app/features/uploads/handler.go
package uploads

import (
	uierrors "github.com/dalemusser/mindhub/internal/app/features/errors"
	"github.com/dalemusser/mindhub/internal/app/system/fileupload"
	"go.uber.org/zap"
)

// Handler stores generic files for authenticated users.
type Handler struct {
	Storage  fileupload.Store
	MaxBytes int64
	Log      *zap.Logger
	ErrLog   *uierrors.ErrorLogger
}

func NewHandler(store fileupload.Store, maxBytes int64, errLog *uierrors.ErrorLogger, logger *zap.Logger) *Handler {
	return &Handler{Storage: store, MaxBytes: maxBytes, Log: logger, ErrLog: errLog}
}
