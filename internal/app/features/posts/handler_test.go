package posts_test

import (
	"net/http"
	"strings"
	"testing"

	uierrors "github.com/dalemusser/mindhub/internal/app/features/errors"
	"github.com/dalemusser/mindhub/internal/app/features/posts"
	"github.com/dalemusser/mindhub/internal/domain/models"
	"github.com/dalemusser/mindhub/internal/testutil"
	"github.com/go-chi/chi/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.uber.org/zap"
)

func setup(t *testing.T) (chi.Router, *mongo.Database, *testutil.Fixtures) {
	t.Helper()
	db := testutil.SetupTestDB(t)
	logger := zap.NewNop()
	h := posts.NewHandler(db, uierrors.NewErrorLogger(logger), logger)
	return posts.Routes(h), db, testutil.NewFixtures(t, db)
}

func TestCreate_SanitizesAndNormalizes(t *testing.T) {
	router, _, fx := setup(t)
	ctx, cancel := testutil.TestContext()
	defer cancel()
	u := fx.CreateUser(ctx, "Author", "author@example.com", models.RoleUser)

	body := map[string]interface{}{
		"content": `<p>Feeling better today</p><script>alert(1)</script>`,
		"tags":    []string{" Anxiety", "anxiety", "SLEEP"},
	}
	rec := testutil.NewRecorder()
	router.ServeHTTP(rec, testutil.NewJSONRequest(t, "POST", "/", body, testutil.PrincipalFor(u)))
	rec.AssertStatus(t, http.StatusCreated)

	var p models.Post
	rec.DecodeJSON(t, &p)
	assert.Equal(t, u.ID, p.AuthorID)
	assert.NotContains(t, p.Content, "<script>")
	assert.Contains(t, p.Content, "Feeling better today")
	assert.Equal(t, []string{"anxiety", "sleep"}, p.Tags)
	assert.Zero(t, p.CommentsCount)
}

func TestCreate_ScriptOnlyContentRejected(t *testing.T) {
	router, _, fx := setup(t)
	ctx, cancel := testutil.TestContext()
	defer cancel()
	u := fx.CreateUser(ctx, "Author", "author@example.com", models.RoleUser)

	rec := testutil.NewRecorder()
	router.ServeHTTP(rec, testutil.NewJSONRequest(t, "POST", "/", map[string]string{"content": "<script>x</script>"}, testutil.PrincipalFor(u)))
	rec.AssertStatus(t, http.StatusBadRequest)
}

func TestCreate_GroupMembershipRequired(t *testing.T) {
	router, _, fx := setup(t)
	ctx, cancel := testutil.TestContext()
	defer cancel()
	owner := fx.CreateUser(ctx, "Owner", "owner@example.com", models.RoleUser)
	outsider := fx.CreateUser(ctx, "Outsider", "out@example.com", models.RoleUser)
	g := fx.CreateGroup(ctx, "Circle", owner.ID)
	fx.CreateMembership(ctx, g.ID, owner.ID, models.MemberRoleAdmin)

	body := map[string]string{"content": "hello group", "groupId": g.ID.Hex()}

	rec := testutil.NewRecorder()
	router.ServeHTTP(rec, testutil.NewJSONRequest(t, "POST", "/", body, testutil.PrincipalFor(outsider)))
	rec.AssertStatus(t, http.StatusForbidden)

	rec = testutil.NewRecorder()
	router.ServeHTTP(rec, testutil.NewJSONRequest(t, "POST", "/", body, testutil.PrincipalFor(owner)))
	rec.AssertStatus(t, http.StatusCreated)

	body["groupId"] = "64b000000000000000000000"
	rec = testutil.NewRecorder()
	router.ServeHTTP(rec, testutil.NewJSONRequest(t, "POST", "/", body, testutil.PrincipalFor(owner)))
	rec.AssertStatus(t, http.StatusNotFound)
}

func TestUpdate_OwnerOnly(t *testing.T) {
	router, _, fx := setup(t)
	ctx, cancel := testutil.TestContext()
	defer cancel()
	author := fx.CreateUser(ctx, "Author", "author@example.com", models.RoleUser)
	other := fx.CreateUser(ctx, "Other", "other@example.com", models.RoleAdmin)
	p := fx.CreatePost(ctx, author.ID, "original")

	rec := testutil.NewRecorder()
	router.ServeHTTP(rec, testutil.NewJSONRequest(t, "PATCH", "/"+p.ID.Hex(), map[string]string{"content": "hijacked"}, testutil.PrincipalFor(other)))
	rec.AssertStatus(t, http.StatusForbidden)

	rec = testutil.NewRecorder()
	router.ServeHTTP(rec, testutil.NewJSONRequest(t, "PATCH", "/"+p.ID.Hex(), map[string]string{"content": "edited"}, testutil.PrincipalFor(author)))
	rec.AssertStatus(t, http.StatusOK)
	var got models.Post
	rec.DecodeJSON(t, &got)
	assert.Equal(t, "edited", got.Content)
}

func TestDelete_Cascades(t *testing.T) {
	router, db, fx := setup(t)
	ctx, cancel := testutil.TestContext()
	defer cancel()
	author := fx.CreateUser(ctx, "Author", "author@example.com", models.RoleUser)
	p := fx.CreatePost(ctx, author.ID, "to be removed")
	keep := fx.CreatePost(ctx, author.ID, "stays")
	c := fx.CreateComment(ctx, p.ID, author.ID, nil, "comment")
	fx.CreateComment(ctx, keep.ID, author.ID, nil, "other comment")

	_, err := db.Collection("reactions").InsertMany(ctx, []interface{}{
		bson.M{"user_id": author.ID, "target_type": models.TargetPost, "target_id": p.ID, "type": "like"},
		bson.M{"user_id": author.ID, "target_type": models.TargetComment, "target_id": c.ID, "type": "hug"},
		bson.M{"user_id": author.ID, "target_type": models.TargetPost, "target_id": keep.ID, "type": "like"},
	})
	require.NoError(t, err)
	_, err = db.Collection("shares").InsertOne(ctx, bson.M{"user_id": author.ID, "post_id": p.ID})
	require.NoError(t, err)

	rec := testutil.NewRecorder()
	router.ServeHTTP(rec, testutil.NewJSONRequest(t, "DELETE", "/"+p.ID.Hex(), nil, testutil.PrincipalFor(author)))
	rec.AssertStatus(t, http.StatusOK)

	count := func(coll string) int64 {
		n, err := db.Collection(coll).CountDocuments(ctx, bson.M{})
		require.NoError(t, err)
		return n
	}
	assert.Equal(t, int64(1), count("posts"))
	assert.Equal(t, int64(1), count("comments"))
	assert.Equal(t, int64(1), count("reactions"))
	assert.Equal(t, int64(0), count("shares"))
}

func TestList_FiltersByTags(t *testing.T) {
	router, _, fx := setup(t)
	ctx, cancel := testutil.TestContext()
	defer cancel()
	author := fx.CreateUser(ctx, "Author", "author@example.com", models.RoleUser)
	fx.CreatePost(ctx, author.ID, "untagged")

	rec := testutil.NewRecorder()
	router.ServeHTTP(rec, testutil.NewJSONRequest(t, "POST", "/", map[string]interface{}{"content": "tagged", "tags": []string{"sleep"}}, testutil.PrincipalFor(author)))
	rec.AssertStatus(t, http.StatusCreated)

	rec = testutil.NewRecorder()
	router.ServeHTTP(rec, testutil.NewRequest("GET", "/?tags=Sleep,mood"))
	rec.AssertStatus(t, http.StatusOK)
	var page struct {
		Items []models.Post `json:"items"`
		Total int64         `json:"total"`
	}
	rec.DecodeJSON(t, &page)
	require.Len(t, page.Items, 1)
	assert.True(t, strings.HasPrefix(page.Items[0].Content, "tagged"))
}
