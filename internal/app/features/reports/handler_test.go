package reports_test

import (
	"net/http"
	"strings"
	"testing"

	uierrors "github.com/dalemusser/mindhub/internal/app/features/errors"
	"github.com/dalemusser/mindhub/internal/app/features/reports"
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
	return reports.Routes(reports.NewHandler(db, uierrors.NewErrorLogger(logger), logger)), testutil.NewFixtures(t, db)
}

func TestCreate(t *testing.T) {
	router, fx := setup(t)
	ctx, cancel := testutil.TestContext()
	defer cancel()
	u := fx.CreateUser(ctx, "Reporter", "r@example.com", models.RoleUser)
	post := fx.CreatePost(ctx, u.ID, "questionable")

	body := map[string]string{"targetType": "Post", "targetId": post.ID.Hex(), "reason": "<i>spam</i>"}
	rec := testutil.NewRecorder()
	router.ServeHTTP(rec, testutil.NewJSONRequest(t, "POST", "/", body, testutil.PrincipalFor(u)))
	rec.AssertStatus(t, http.StatusCreated)

	var rep models.Report
	rec.DecodeJSON(t, &rep)
	assert.Equal(t, "spam", rep.Reason)
	assert.Equal(t, models.ReportPending, rep.Status)
	assert.Equal(t, u.ID, rep.ReporterID)

	rec = testutil.NewRecorder()
	router.ServeHTTP(rec, testutil.NewJSONRequest(t, "POST", "/", body, testutil.PrincipalFor(u)))
	rec.AssertStatus(t, http.StatusConflict)

	body["reason"] = strings.Repeat("x", 501)
	rec = testutil.NewRecorder()
	router.ServeHTTP(rec, testutil.NewJSONRequest(t, "POST", "/", body, testutil.PrincipalFor(u)))
	rec.AssertStatus(t, http.StatusBadRequest)
}

func TestModerationRoles(t *testing.T) {
	router, fx := setup(t)
	ctx, cancel := testutil.TestContext()
	defer cancel()
	user := fx.CreateUser(ctx, "User", "u@example.com", models.RoleUser)
	therapist := fx.CreateUser(ctx, "Therapist", "t@example.com", models.RoleTherapist)
	admin := fx.CreateUser(ctx, "Admin", "a@example.com", models.RoleAdmin)
	post := fx.CreatePost(ctx, user.ID, "post")

	rec := testutil.NewRecorder()
	router.ServeHTTP(rec, testutil.NewJSONRequest(t, "POST", "/", map[string]string{"targetType": "Post", "targetId": post.ID.Hex(), "reason": "abuse"}, testutil.PrincipalFor(user)))
	rec.AssertStatus(t, http.StatusCreated)
	var rep models.Report
	rec.DecodeJSON(t, &rep)

	rec = testutil.NewRecorder()
	router.ServeHTTP(rec, testutil.NewJSONRequest(t, "GET", "/", nil, testutil.PrincipalFor(user)))
	rec.AssertStatus(t, http.StatusForbidden)

	rec = testutil.NewRecorder()
	router.ServeHTTP(rec, testutil.NewJSONRequest(t, "GET", "/?status=pending", nil, testutil.PrincipalFor(therapist)))
	rec.AssertStatus(t, http.StatusOK)
	var page struct {
		Items []models.Report `json:"items"`
	}
	rec.DecodeJSON(t, &page)
	require.Len(t, page.Items, 1)

	rec = testutil.NewRecorder()
	router.ServeHTTP(rec, testutil.NewJSONRequest(t, "PATCH", "/"+rep.ID.Hex(), map[string]string{"status": "resolved"}, testutil.PrincipalFor(therapist)))
	rec.AssertStatus(t, http.StatusOK)
	rec.DecodeJSON(t, &rep)
	assert.Equal(t, models.ReportResolved, rep.Status)

	rec = testutil.NewRecorder()
	router.ServeHTTP(rec, testutil.NewJSONRequest(t, "DELETE", "/"+rep.ID.Hex(), nil, testutil.PrincipalFor(therapist)))
	rec.AssertStatus(t, http.StatusForbidden)

	rec = testutil.NewRecorder()
	router.ServeHTTP(rec, testutil.NewJSONRequest(t, "DELETE", "/"+rep.ID.Hex(), nil, testutil.PrincipalFor(admin)))
	rec.AssertStatus(t, http.StatusOK)
}
