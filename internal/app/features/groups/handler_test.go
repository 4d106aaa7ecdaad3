package groups_test

import (
	"net/http"
	"testing"

	uierrors "github.com/dalemusser/mindhub/internal/app/features/errors"
	"github.com/dalemusser/mindhub/internal/app/features/groups"
	membershipstore "github.com/dalemusser/mindhub/internal/app/store/memberships"
	"github.com/dalemusser/mindhub/internal/domain/models"
	"github.com/dalemusser/mindhub/internal/testutil"
	"github.com/go-chi/chi/v5"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.uber.org/zap"
)

func newTestRouter(t *testing.T) (chi.Router, *mongo.Database, *testutil.Fixtures) {
	t.Helper()
	db := testutil.SetupTestDB(t)
	logger := zap.NewNop()
	h := groups.NewHandler(db, uierrors.NewErrorLogger(logger), logger)
	return groups.Routes(h), db, testutil.NewFixtures(t, db)
}

func TestCreate_AddsCreatorAsAdmin(t *testing.T) {
	router, db, fx := newTestRouter(t)
	ctx, cancel := testutil.TestContext()
	defer cancel()
	u := fx.CreateUser(ctx, "Founder", "founder@example.com", models.RoleUser)

	rec := testutil.NewRecorder()
	router.ServeHTTP(rec, testutil.NewJSONRequest(t, "POST", "/", map[string]string{"name": " Anxiety Circle "}, testutil.PrincipalFor(u)))
	rec.AssertStatus(t, http.StatusCreated)

	var g models.Group
	rec.DecodeJSON(t, &g)
	if g.Name != "Anxiety Circle" {
		t.Errorf("name: got %q", g.Name)
	}

	role, err := membershipstore.New(db).RoleOf(ctx, g.ID, u.ID)
	if err != nil {
		t.Fatalf("RoleOf: %v", err)
	}
	if role != models.MemberRoleAdmin {
		t.Errorf("creator role: got %q, want admin", role)
	}
}

func TestCreate_RequiresAuth(t *testing.T) {
	router, _, _ := newTestRouter(t)
	rec := testutil.NewRecorder()
	router.ServeHTTP(rec, testutil.NewJSONRequest(t, "POST", "/", map[string]string{"name": "x"}, nil))
	rec.AssertStatus(t, http.StatusUnauthorized)
}

func TestUpdate_Authorization(t *testing.T) {
	router, _, fx := newTestRouter(t)
	ctx, cancel := testutil.TestContext()
	defer cancel()

	owner := fx.CreateUser(ctx, "Owner", "owner@example.com", models.RoleUser)
	mod := fx.CreateUser(ctx, "Mod", "mod@example.com", models.RoleUser)
	member := fx.CreateUser(ctx, "Member", "member@example.com", models.RoleUser)
	g := fx.CreateGroup(ctx, "Group", owner.ID)
	fx.CreateMembership(ctx, g.ID, owner.ID, models.MemberRoleAdmin)
	fx.CreateMembership(ctx, g.ID, mod.ID, models.MemberRoleModerator)
	fx.CreateMembership(ctx, g.ID, member.ID, models.MemberRoleMember)

	tests := []struct {
		name   string
		user   models.User
		status int
	}{
		{"moderator", mod, http.StatusOK},
		{"admin", owner, http.StatusOK},
		{"member", member, http.StatusForbidden},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := testutil.NewRecorder()
			router.ServeHTTP(rec, testutil.NewJSONRequest(t, "PATCH", "/"+g.ID.Hex(), map[string]string{"description": "by " + tt.name}, testutil.PrincipalFor(tt.user)))
			rec.AssertStatus(t, tt.status)
		})
	}
}

func TestDelete_CreatorOnlyAndCascades(t *testing.T) {
	router, db, fx := newTestRouter(t)
	ctx, cancel := testutil.TestContext()
	defer cancel()

	owner := fx.CreateUser(ctx, "Owner", "owner@example.com", models.RoleUser)
	admin := fx.CreateUser(ctx, "Admin", "admin@example.com", models.RoleUser)
	g := fx.CreateGroup(ctx, "Group", owner.ID)
	fx.CreateMembership(ctx, g.ID, owner.ID, models.MemberRoleAdmin)
	fx.CreateMembership(ctx, g.ID, admin.ID, models.MemberRoleAdmin)

	rec := testutil.NewRecorder()
	router.ServeHTTP(rec, testutil.NewJSONRequest(t, "DELETE", "/"+g.ID.Hex(), nil, testutil.PrincipalFor(admin)))
	rec.AssertStatus(t, http.StatusForbidden)

	rec = testutil.NewRecorder()
	router.ServeHTTP(rec, testutil.NewJSONRequest(t, "DELETE", "/"+g.ID.Hex(), nil, testutil.PrincipalFor(owner)))
	rec.AssertStatus(t, http.StatusOK)

	n, err := db.Collection("memberships").CountDocuments(ctx, bson.M{"group_id": g.ID})
	if err != nil {
		t.Fatalf("count memberships: %v", err)
	}
	if n != 0 {
		t.Errorf("memberships left behind: %d", n)
	}

	rec = testutil.NewRecorder()
	router.ServeHTTP(rec, testutil.NewRequest("GET", "/"+g.ID.Hex()))
	rec.AssertStatus(t, http.StatusNotFound)
}

func TestList_Paginates(t *testing.T) {
	router, _, fx := newTestRouter(t)
	ctx, cancel := testutil.TestContext()
	defer cancel()
	u := fx.CreateUser(ctx, "U", "u@example.com", models.RoleUser)
	for _, n := range []string{"A", "B", "C"} {
		fx.CreateGroup(ctx, n, u.ID)
	}

	rec := testutil.NewRecorder()
	router.ServeHTTP(rec, testutil.NewRequest("GET", "/?limit=2"))
	rec.AssertStatus(t, http.StatusOK)

	var page struct {
		Items []models.Group `json:"items"`
		Total int64          `json:"total"`
		Limit int            `json:"limit"`
	}
	rec.DecodeJSON(t, &page)
	if page.Total != 3 || len(page.Items) != 2 || page.Limit != 2 {
		t.Errorf("page: total=%d items=%d limit=%d", page.Total, len(page.Items), page.Limit)
	}
}
