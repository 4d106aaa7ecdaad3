package gamification_test

import (
	"net/http"
	"testing"

	uierrors "github.com/dalemusser/mindhub/internal/app/features/errors"
	"github.com/dalemusser/mindhub/internal/app/features/gamification"
	"github.com/dalemusser/mindhub/internal/domain/models"
	"github.com/dalemusser/mindhub/internal/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func TestGamificationLifecycle(t *testing.T) {
	db := testutil.SetupTestDB(t)
	logger := zap.NewNop()
	router := gamification.Routes(gamification.NewHandler(db, uierrors.NewErrorLogger(logger), logger))
	fx := testutil.NewFixtures(t, db)
	ctx, cancel := testutil.TestContext()
	defer cancel()

	me := fx.CreateUser(ctx, "Me", "me@example.com", models.RoleUser)
	other := fx.CreateUser(ctx, "Other", "other@example.com", models.RoleUser)
	admin := fx.CreateUser(ctx, "Admin", "admin@example.com", models.RoleAdmin)

	rec := testutil.NewRecorder()
	router.ServeHTTP(rec, testutil.NewJSONRequest(t, "POST", "/", nil, testutil.PrincipalFor(me)))
	rec.AssertStatus(t, http.StatusCreated)
	var g models.Gamification
	rec.DecodeJSON(t, &g)
	assert.Equal(t, me.ID, g.UserID)
	assert.Zero(t, g.Points)
	assert.NotNil(t, g.Badges)

	rec = testutil.NewRecorder()
	router.ServeHTTP(rec, testutil.NewJSONRequest(t, "POST", "/", map[string]string{}, testutil.PrincipalFor(me)))
	rec.AssertStatus(t, http.StatusConflict)

	// only admins create profiles for other users
	rec = testutil.NewRecorder()
	router.ServeHTTP(rec, testutil.NewJSONRequest(t, "POST", "/", map[string]string{"userId": admin.ID.Hex()}, testutil.PrincipalFor(me)))
	rec.AssertStatus(t, http.StatusForbidden)
	rec = testutil.NewRecorder()
	router.ServeHTTP(rec, testutil.NewJSONRequest(t, "POST", "/", map[string]string{"userId": other.ID.Hex()}, testutil.PrincipalFor(admin)))
	rec.AssertStatus(t, http.StatusCreated)

	rec = testutil.NewRecorder()
	router.ServeHTTP(rec, testutil.NewRequest("GET", "/user/"+me.ID.Hex()))
	rec.AssertStatus(t, http.StatusOK)

	rec = testutil.NewRecorder()
	router.ServeHTTP(rec, testutil.NewJSONRequest(t, "PATCH", "/"+g.ID.Hex(), map[string]interface{}{"points": 50}, testutil.PrincipalFor(other)))
	rec.AssertStatus(t, http.StatusForbidden)

	rec = testutil.NewRecorder()
	router.ServeHTTP(rec, testutil.NewJSONRequest(t, "PATCH", "/"+g.ID.Hex(), map[string]interface{}{"points": -1}, testutil.PrincipalFor(me)))
	rec.AssertStatus(t, http.StatusBadRequest)

	update := map[string]interface{}{
		"points":       50,
		"badges":       []string{"first-week"},
		"achievements": []map[string]string{{"name": "Seven day streak"}},
	}
	rec = testutil.NewRecorder()
	router.ServeHTTP(rec, testutil.NewJSONRequest(t, "PATCH", "/"+g.ID.Hex(), update, testutil.PrincipalFor(me)))
	rec.AssertStatus(t, http.StatusOK)
	rec.DecodeJSON(t, &g)
	assert.Equal(t, int64(50), g.Points)
	assert.Equal(t, []string{"first-week"}, g.Badges)
	require.Len(t, g.Achievements, 1)
	assert.False(t, g.Achievements[0].EarnedAt.IsZero())

	rec = testutil.NewRecorder()
	router.ServeHTTP(rec, testutil.NewJSONRequest(t, "DELETE", "/"+g.ID.Hex(), nil, testutil.PrincipalFor(admin)))
	rec.AssertStatus(t, http.StatusOK)

	rec = testutil.NewRecorder()
	router.ServeHTTP(rec, testutil.NewRequest("GET", "/"+g.ID.Hex()))
	rec.AssertStatus(t, http.StatusNotFound)
}
