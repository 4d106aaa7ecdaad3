package errors_test

import (
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	uierrors "github.com/dalemusser/mindhub/internal/app/features/errors"
	reactionstore "github.com/dalemusser/mindhub/internal/app/store/reactions"
	"github.com/dalemusser/mindhub/internal/app/system/apperr"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/mongo"
	"go.uber.org/zap"
	"go.uber.org/zap/zaptest/observer"
)

type envelope struct {
	StatusCode int    `json:"statusCode"`
	Error      string `json:"error"`
	Message    string `json:"message"`
}

func TestClassify(t *testing.T) {
	tests := []struct {
		name string
		in   error
		want apperr.Kind
	}{
		{"no documents", mongo.ErrNoDocuments, apperr.NotFound},
		{"wrapped no documents", fmt.Errorf("load: %w", mongo.ErrNoDocuments), apperr.NotFound},
		{"duplicate reaction", reactionstore.ErrDuplicateReaction, apperr.Conflict},
		{"already classified", apperr.Forbiddenf("nope"), apperr.Forbidden},
		{"unknown", fmt.Errorf("socket closed"), apperr.Internal},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, apperr.KindOf(uierrors.Classify(tt.in)))
		})
	}
	assert.Nil(t, uierrors.Classify(nil))
}

func TestWrite_InternalIsLoggedAndHidden(t *testing.T) {
	core, logs := observer.New(zap.DebugLevel)
	el := uierrors.NewErrorLogger(zap.New(core))

	rec := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/posts", nil)
	el.Write(rec, req, fmt.Errorf("connection reset by peer"))

	require.Equal(t, http.StatusInternalServerError, rec.Code)
	var body envelope
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	assert.Equal(t, 500, body.StatusCode)
	assert.NotContains(t, rec.Body.String(), "connection reset")

	entries := logs.FilterMessage("request failed").All()
	require.Len(t, entries, 1)
	assert.Equal(t, "/posts", entries[0].ContextMap()["path"])
}

func TestWrite_Conflict(t *testing.T) {
	el := uierrors.NewErrorLogger(zap.NewNop())
	rec := httptest.NewRecorder()
	el.Write(rec, httptest.NewRequest(http.MethodPost, "/reactions", nil), reactionstore.ErrDuplicateReaction)

	assert.Equal(t, http.StatusConflict, rec.Code)
	var body envelope
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	assert.Equal(t, reactionstore.ErrDuplicateReaction.Error(), body.Message)
}

func TestNotFoundRoute(t *testing.T) {
	rec := httptest.NewRecorder()
	uierrors.NotFound(rec, httptest.NewRequest(http.MethodGet, "/nope", nil))
	assert.Equal(t, http.StatusNotFound, rec.Code)
}
