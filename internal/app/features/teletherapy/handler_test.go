package teletherapy_test

import (
	"net/http"
	"testing"
	"time"

	uierrors "github.com/dalemusser/mindhub/internal/app/features/errors"
	"github.com/dalemusser/mindhub/internal/app/features/teletherapy"
	"github.com/dalemusser/mindhub/internal/domain/models"
	"github.com/dalemusser/mindhub/internal/testutil"
	"github.com/go-chi/chi/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func setup(t *testing.T) (chi.Router, *testutil.Fixtures) {
	t.Helper()
	db := testutil.SetupTestDB(t)
	logger := zap.NewNop()
	return teletherapy.Routes(teletherapy.NewHandler(db, uierrors.NewErrorLogger(logger), logger)), testutil.NewFixtures(t, db)
}

func TestCreate_TherapistMustExist(t *testing.T) {
	router, fx := setup(t)
	ctx, cancel := testutil.TestContext()
	defer cancel()
	client := fx.CreateUser(ctx, "Client", "client@example.com", models.RoleUser)
	notTherapist := fx.CreateUser(ctx, "Friend", "friend@example.com", models.RoleUser)
	therapist := fx.CreateUser(ctx, "Dr T", "t@example.com", models.RoleTherapist)
	when := time.Now().Add(48 * time.Hour).UTC().Format(time.RFC3339)

	tests := []struct {
		name   string
		body   map[string]interface{}
		status int
	}{
		{"not a therapist", map[string]interface{}{"therapistId": notTherapist.ID.Hex(), "sessionDate": when, "duration": 50}, http.StatusBadRequest},
		{"too short", map[string]interface{}{"therapistId": therapist.ID.Hex(), "sessionDate": when, "duration": 10}, http.StatusBadRequest},
		{"ok", map[string]interface{}{"therapistId": therapist.ID.Hex(), "sessionDate": when, "duration": 50}, http.StatusCreated},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := testutil.NewRecorder()
			router.ServeHTTP(rec, testutil.NewJSONRequest(t, "POST", "/", tt.body, testutil.PrincipalFor(client)))
			rec.AssertStatus(t, tt.status)
			if tt.status == http.StatusCreated {
				var s models.TeletherapySession
				rec.DecodeJSON(t, &s)
				assert.Equal(t, client.ID, s.UserID)
				assert.Equal(t, models.SessionScheduled, s.Status)
			}
		})
	}
}

func TestParticipantAccess(t *testing.T) {
	router, fx := setup(t)
	ctx, cancel := testutil.TestContext()
	defer cancel()
	client := fx.CreateUser(ctx, "Client", "client@example.com", models.RoleUser)
	therapist := fx.CreateUser(ctx, "Dr T", "t@example.com", models.RoleTherapist)
	stranger := fx.CreateUser(ctx, "Stranger", "s@example.com", models.RoleUser)
	admin := fx.CreateUser(ctx, "Admin", "a@example.com", models.RoleAdmin)

	body := map[string]interface{}{
		"therapistId": therapist.ID.Hex(),
		"sessionDate": time.Now().Add(24 * time.Hour).UTC().Format(time.RFC3339),
		"duration":    45,
	}
	rec := testutil.NewRecorder()
	router.ServeHTTP(rec, testutil.NewJSONRequest(t, "POST", "/", body, testutil.PrincipalFor(client)))
	rec.AssertStatus(t, http.StatusCreated)
	var s models.TeletherapySession
	rec.DecodeJSON(t, &s)

	for _, u := range []models.User{client, therapist, admin} {
		rec = testutil.NewRecorder()
		router.ServeHTTP(rec, testutil.NewJSONRequest(t, "GET", "/"+s.ID.Hex(), nil, testutil.PrincipalFor(u)))
		rec.AssertStatus(t, http.StatusOK)
	}
	rec = testutil.NewRecorder()
	router.ServeHTTP(rec, testutil.NewJSONRequest(t, "GET", "/"+s.ID.Hex(), nil, testutil.PrincipalFor(stranger)))
	rec.AssertStatus(t, http.StatusForbidden)

	rec = testutil.NewRecorder()
	router.ServeHTTP(rec, testutil.NewJSONRequest(t, "PATCH", "/"+s.ID.Hex(), map[string]string{"status": "completed", "notes": "went well"}, testutil.PrincipalFor(therapist)))
	rec.AssertStatus(t, http.StatusOK)
	rec.DecodeJSON(t, &s)
	assert.Equal(t, models.SessionCompleted, s.Status)

	rec = testutil.NewRecorder()
	router.ServeHTTP(rec, testutil.NewJSONRequest(t, "GET", "/?therapistId="+therapist.ID.Hex(), nil, testutil.PrincipalFor(therapist)))
	rec.AssertStatus(t, http.StatusOK)
	var page struct {
		Items []models.TeletherapySession `json:"items"`
	}
	rec.DecodeJSON(t, &page)
	require.Len(t, page.Items, 1)

	rec = testutil.NewRecorder()
	router.ServeHTTP(rec, testutil.NewJSONRequest(t, "DELETE", "/"+s.ID.Hex(), nil, testutil.PrincipalFor(client)))
	rec.AssertStatus(t, http.StatusOK)
}
