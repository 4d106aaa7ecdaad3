package memberships_test

import (
	"net/http"
	"sync"
	"testing"

	uierrors "github.com/dalemusser/mindhub/internal/app/features/errors"
	"github.com/dalemusser/mindhub/internal/app/features/memberships"
	membershipstore "github.com/dalemusser/mindhub/internal/app/store/memberships"
	"github.com/dalemusser/mindhub/internal/domain/models"
	"github.com/dalemusser/mindhub/internal/testutil"
	"github.com/go-chi/chi/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo/options"
	"go.uber.org/zap"
)

type env struct {
	router chi.Router
	fx     *testutil.Fixtures
	owner  models.User
	group  models.Group
	admin  models.Membership
}

func setup(t *testing.T) *env {
	t.Helper()
	db := testutil.SetupTestDB(t)
	logger := zap.NewNop()
	h := memberships.NewHandler(db, uierrors.NewErrorLogger(logger), logger)
	fx := testutil.NewFixtures(t, db)

	ctx, cancel := testutil.TestContext()
	defer cancel()
	owner := fx.CreateUser(ctx, "Owner", "owner@example.com", models.RoleUser)
	g := fx.CreateGroup(ctx, "Support", owner.ID)
	m := fx.CreateMembership(ctx, g.ID, owner.ID, models.MemberRoleAdmin)
	return &env{router: memberships.Routes(h), fx: fx, owner: owner, group: g, admin: m}
}

func (e *env) do(t *testing.T, method, target string, body interface{}, u *models.User) *testutil.ResponseRecorder {
	t.Helper()
	var p = testutil.AnonymousPrincipal(models.RoleUser)
	if u != nil {
		p = testutil.PrincipalFor(*u)
	}
	rec := testutil.NewRecorder()
	e.router.ServeHTTP(rec, testutil.NewJSONRequest(t, method, target, body, p))
	return rec
}

func TestJoin(t *testing.T) {
	e := setup(t)
	ctx, cancel := testutil.TestContext()
	defer cancel()
	u := e.fx.CreateUser(ctx, "Joiner", "joiner@example.com", models.RoleUser)

	rec := e.do(t, "POST", "/", map[string]string{"groupId": e.group.ID.Hex()}, &u)
	rec.AssertStatus(t, http.StatusCreated)
	var m models.Membership
	rec.DecodeJSON(t, &m)
	assert.Equal(t, u.ID, m.UserID)
	assert.Equal(t, models.MemberRoleMember, m.Role)

	rec = e.do(t, "POST", "/", map[string]string{"groupId": e.group.ID.Hex()}, &u)
	rec.AssertStatus(t, http.StatusConflict)
}

func TestJoin_ElevatedRoleForbidden(t *testing.T) {
	e := setup(t)
	ctx, cancel := testutil.TestContext()
	defer cancel()
	u := e.fx.CreateUser(ctx, "Climber", "climber@example.com", models.RoleUser)

	rec := e.do(t, "POST", "/", map[string]string{"groupId": e.group.ID.Hex(), "role": "admin"}, &u)
	rec.AssertStatus(t, http.StatusForbidden)
}

func TestJoin_MissingGroup(t *testing.T) {
	e := setup(t)
	rec := e.do(t, "POST", "/", map[string]string{"groupId": "64b000000000000000000000"}, &e.owner)
	rec.AssertStatus(t, http.StatusNotFound)
}

func TestChangeRole(t *testing.T) {
	e := setup(t)
	ctx, cancel := testutil.TestContext()
	defer cancel()
	u := e.fx.CreateUser(ctx, "Member", "member@example.com", models.RoleUser)
	m := e.fx.CreateMembership(ctx, e.group.ID, u.ID, models.MemberRoleMember)

	// a plain member cannot promote themselves
	rec := e.do(t, "PATCH", "/"+m.ID.Hex(), map[string]string{"role": "moderator"}, &u)
	rec.AssertStatus(t, http.StatusForbidden)

	rec = e.do(t, "PATCH", "/"+m.ID.Hex(), map[string]string{"role": "moderator"}, &e.owner)
	rec.AssertStatus(t, http.StatusOK)
	var got models.Membership
	rec.DecodeJSON(t, &got)
	assert.Equal(t, models.MemberRoleModerator, got.Role)

	// the only admin cannot demote themselves
	rec = e.do(t, "PATCH", "/"+e.admin.ID.Hex(), map[string]string{"role": "member"}, &e.owner)
	rec.AssertStatus(t, http.StatusForbidden)
}

// Two admins drop each other at the same moment, by demotion or by removal.
// Whatever the interleaving, the group must come out with an admin and at
// most one of the two requests may succeed.
func TestConcurrentAdminDrops_KeepAnAdmin(t *testing.T) {
	for _, tc := range []struct {
		name   string
		method string
		body   interface{}
	}{
		{"demote", "PATCH", map[string]string{"role": "member"}},
		{"remove", "DELETE", nil},
	} {
		t.Run(tc.name, func(t *testing.T) {
			e := setup(t)
			ctx, cancel := testutil.TestContext()
			defer cancel()
			store := membershipstore.New(e.fx.DB())
			second := e.fx.CreateUser(ctx, "Second", "second@example.com", models.RoleUser)
			secondM := e.fx.CreateMembership(ctx, e.group.ID, second.ID, models.MemberRoleAdmin)

			for round := 0; round < 10; round++ {
				reqs := []*http.Request{
					testutil.NewJSONRequest(t, tc.method, "/"+secondM.ID.Hex(), tc.body, testutil.PrincipalFor(e.owner)),
					testutil.NewJSONRequest(t, tc.method, "/"+e.admin.ID.Hex(), tc.body, testutil.PrincipalFor(second)),
				}
				codes := make([]int, len(reqs))
				var wg sync.WaitGroup
				for i, req := range reqs {
					wg.Add(1)
					go func(i int, req *http.Request) {
						defer wg.Done()
						rec := testutil.NewRecorder()
						e.router.ServeHTTP(rec, req)
						codes[i] = rec.Code
					}(i, req)
				}
				wg.Wait()

				n, err := store.CountAdmins(ctx, e.group.ID)
				require.NoError(t, err)
				require.GreaterOrEqual(t, n, int64(1), "round %d left the group without an admin (codes %v)", round, codes)
				assert.False(t, codes[0] == http.StatusOK && codes[1] == http.StatusOK, "round %d: both drops succeeded", round)

				// put both admins back for the next round
				for _, m := range []models.Membership{e.admin, secondM} {
					_, err := e.fx.DB().Collection("memberships").ReplaceOne(ctx, bson.M{"_id": m.ID}, m, options.Replace().SetUpsert(true))
					require.NoError(t, err)
				}
			}
		})
	}
}

func TestDelete_LeaveAndRemove(t *testing.T) {
	e := setup(t)
	ctx, cancel := testutil.TestContext()
	defer cancel()
	a := e.fx.CreateUser(ctx, "A", "a@example.com", models.RoleUser)
	b := e.fx.CreateUser(ctx, "B", "b@example.com", models.RoleUser)
	ma := e.fx.CreateMembership(ctx, e.group.ID, a.ID, models.MemberRoleMember)
	mb := e.fx.CreateMembership(ctx, e.group.ID, b.ID, models.MemberRoleMember)

	e.do(t, "DELETE", "/"+mb.ID.Hex(), nil, &a).AssertStatus(t, http.StatusForbidden)
	e.do(t, "DELETE", "/"+ma.ID.Hex(), nil, &a).AssertStatus(t, http.StatusOK)
	e.do(t, "DELETE", "/"+mb.ID.Hex(), nil, &e.owner).AssertStatus(t, http.StatusOK)
	e.do(t, "DELETE", "/"+e.admin.ID.Hex(), nil, &e.owner).AssertStatus(t, http.StatusForbidden)
}

func TestList_FilterByGroup(t *testing.T) {
	e := setup(t)
	ctx, cancel := testutil.TestContext()
	defer cancel()
	other := e.fx.CreateGroup(ctx, "Other", e.owner.ID)
	e.fx.CreateMembership(ctx, other.ID, e.owner.ID, models.MemberRoleAdmin)

	rec := testutil.NewRecorder()
	e.router.ServeHTTP(rec, testutil.NewRequest("GET", "/?groupId="+e.group.ID.Hex()))
	rec.AssertStatus(t, http.StatusOK)

	var page struct {
		Items []models.Membership `json:"items"`
		Total int64               `json:"total"`
	}
	rec.DecodeJSON(t, &page)
	require.Len(t, page.Items, 1)
	assert.Equal(t, int64(1), page.Total)
	assert.Equal(t, e.group.ID, page.Items[0].GroupID)

	rec = testutil.NewRecorder()
	e.router.ServeHTTP(rec, testutil.NewRequest("GET", "/?groupId=nope"))
	rec.AssertStatus(t, http.StatusBadRequest)
}
