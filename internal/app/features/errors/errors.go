// internal/app/features/errors/errors.go
package errors

import (
	stderrors "errors"
	"net/http"

	gamificationstore "github.com/dalemusser/mindhub/internal/app/store/gamification"
	membershipstore "github.com/dalemusser/mindhub/internal/app/store/memberships"
	reactionstore "github.com/dalemusser/mindhub/internal/app/store/reactions"
	reportstore "github.com/dalemusser/mindhub/internal/app/store/reports"
	sharestore "github.com/dalemusser/mindhub/internal/app/store/shares"
	userstore "github.com/dalemusser/mindhub/internal/app/store/users"
	"github.com/dalemusser/mindhub/internal/app/system/apperr"
	"go.mongodb.org/mongo-driver/mongo"
	"go.uber.org/zap"
)

// conflicts are store sentinels that surface as 409.
var conflicts = []error{
	userstore.ErrDuplicateEmail,
	membershipstore.ErrDuplicateMembership,
	reactionstore.ErrDuplicateReaction,
	sharestore.ErrDuplicateShare,
	reportstore.ErrDuplicateReport,
	gamificationstore.ErrDuplicateProfile,
}

// Classify turns store and driver errors into *apperr.Error. Errors that
// are already classified pass through; anything unknown becomes Internal.
func Classify(err error) error {
	if err == nil {
		return nil
	}
	var ae *apperr.Error
	if stderrors.As(err, &ae) {
		return err
	}
	if stderrors.Is(err, mongo.ErrNoDocuments) {
		return apperr.Wrap(apperr.NotFound, "resource not found", err)
	}
	for _, c := range conflicts {
		if stderrors.Is(err, c) {
			return apperr.Wrap(apperr.Conflict, c.Error(), err)
		}
	}
	return apperr.Wrap(apperr.Internal, "", err)
}

// ErrorLogger writes JSON error envelopes and logs server-side failures.
type ErrorLogger struct {
	Log *zap.Logger
}

// NewErrorLogger constructs an ErrorLogger.
func NewErrorLogger(logger *zap.Logger) *ErrorLogger {
	return &ErrorLogger{Log: logger}
}

// Write classifies err and renders it. Internal errors are logged with the
// request path; client errors are logged at Debug.
func (e *ErrorLogger) Write(w http.ResponseWriter, r *http.Request, err error) {
	err = Classify(err)
	if apperr.KindOf(err) == apperr.Internal {
		e.Log.Error("request failed",
			zap.String("method", r.Method),
			zap.String("path", r.URL.Path),
			zap.Error(err))
	} else {
		e.Log.Debug("request rejected",
			zap.String("path", r.URL.Path),
			zap.Error(err))
	}
	apperr.Write(w, err)
}

// LogServerError logs msg with err and responds 500.
func (e *ErrorLogger) LogServerError(w http.ResponseWriter, r *http.Request, msg string, err error) {
	e.Log.Error(msg,
		zap.String("method", r.Method),
		zap.String("path", r.URL.Path),
		zap.Error(err))
	apperr.Write(w, apperr.Wrap(apperr.Internal, msg, err))
}

// LogBadRequest logs at Warn and responds 400 with userMsg.
func (e *ErrorLogger) LogBadRequest(w http.ResponseWriter, r *http.Request, msg string, err error, userMsg string) {
	e.Log.Warn(msg,
		zap.String("path", r.URL.Path),
		zap.Error(err))
	apperr.Write(w, apperr.Wrap(apperr.BadRequest, userMsg, err))
}

// NotFound is the router's fallback for unknown routes.
func NotFound(w http.ResponseWriter, r *http.Request) {
	apperr.Write(w, apperr.NotFoundf("cannot "+r.Method+" "+r.URL.Path))
}
