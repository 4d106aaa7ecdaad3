package reactions_test

import (
	"net/http"
	"testing"

	uierrors "github.com/dalemusser/mindhub/internal/app/features/errors"
	"github.com/dalemusser/mindhub/internal/app/features/reactions"
	"github.com/dalemusser/mindhub/internal/app/system/notify"
	"github.com/dalemusser/mindhub/internal/domain/models"
	"github.com/dalemusser/mindhub/internal/testutil"
	"github.com/go-chi/chi/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.uber.org/zap"
)

func setup(t *testing.T) (chi.Router, *mongo.Database, *testutil.Fixtures) {
	t.Helper()
	db := testutil.SetupTestDB(t)
	logger := zap.NewNop()
	h := reactions.NewHandler(db, notify.New(db, logger), uierrors.NewErrorLogger(logger), logger)
	return reactions.Routes(h), db, testutil.NewFixtures(t, db)
}

func counter(t *testing.T, db *mongo.Database, coll string, id primitive.ObjectID) int64 {
	t.Helper()
	ctx, cancel := testutil.TestContext()
	defer cancel()
	var doc struct {
		ReactionsCount int64 `bson:"reactions_count"`
	}
	require.NoError(t, db.Collection(coll).FindOne(ctx, bson.M{"_id": id}).Decode(&doc))
	return doc.ReactionsCount
}

func TestCreate_PostReaction(t *testing.T) {
	router, db, fx := setup(t)
	ctx, cancel := testutil.TestContext()
	defer cancel()
	author := fx.CreateUser(ctx, "Author", "a@example.com", models.RoleUser)
	fan := fx.CreateUser(ctx, "Fan", "f@example.com", models.RoleUser)
	post := fx.CreatePost(ctx, author.ID, "post")

	body := map[string]string{"targetType": "Post", "targetId": post.ID.Hex(), "type": "hug"}
	rec := testutil.NewRecorder()
	router.ServeHTTP(rec, testutil.NewJSONRequest(t, "POST", "/", body, testutil.PrincipalFor(fan)))
	rec.AssertStatus(t, http.StatusCreated)
	assert.Equal(t, int64(1), counter(t, db, "posts", post.ID))

	n, err := db.Collection("notifications").CountDocuments(ctx, bson.M{"user_id": author.ID, "type": models.NotifyReaction})
	require.NoError(t, err)
	assert.Equal(t, int64(1), n)

	rec = testutil.NewRecorder()
	router.ServeHTTP(rec, testutil.NewJSONRequest(t, "POST", "/", body, testutil.PrincipalFor(fan)))
	rec.AssertStatus(t, http.StatusConflict)
	assert.Equal(t, int64(1), counter(t, db, "posts", post.ID))
}

func TestCreate_Validation(t *testing.T) {
	router, _, fx := setup(t)
	ctx, cancel := testutil.TestContext()
	defer cancel()
	u := fx.CreateUser(ctx, "U", "u@example.com", models.RoleUser)
	post := fx.CreatePost(ctx, u.ID, "post")

	tests := []struct {
		name   string
		body   map[string]string
		status int
	}{
		{"bad type", map[string]string{"targetType": "Post", "targetId": post.ID.Hex(), "type": "angry"}, http.StatusBadRequest},
		{"bad target type", map[string]string{"targetType": "Group", "targetId": post.ID.Hex(), "type": "like"}, http.StatusBadRequest},
		{"missing target", map[string]string{"targetType": "Comment", "targetId": primitive.NewObjectID().Hex(), "type": "like"}, http.StatusNotFound},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := testutil.NewRecorder()
			router.ServeHTTP(rec, testutil.NewJSONRequest(t, "POST", "/", tt.body, testutil.PrincipalFor(u)))
			rec.AssertStatus(t, tt.status)
		})
	}
}

func TestDeleteByTarget_Comment(t *testing.T) {
	router, db, fx := setup(t)
	ctx, cancel := testutil.TestContext()
	defer cancel()
	u := fx.CreateUser(ctx, "U", "u@example.com", models.RoleUser)
	post := fx.CreatePost(ctx, u.ID, "post")
	c := fx.CreateComment(ctx, post.ID, u.ID, nil, "comment")

	body := map[string]string{"targetType": "Comment", "targetId": c.ID.Hex(), "type": "support"}
	rec := testutil.NewRecorder()
	router.ServeHTTP(rec, testutil.NewJSONRequest(t, "POST", "/", body, testutil.PrincipalFor(u)))
	rec.AssertStatus(t, http.StatusCreated)
	assert.Equal(t, int64(1), counter(t, db, "comments", c.ID))

	target := "/?targetType=Comment&targetId=" + c.ID.Hex()
	rec = testutil.NewRecorder()
	router.ServeHTTP(rec, testutil.NewJSONRequest(t, "DELETE", target, nil, testutil.PrincipalFor(u)))
	rec.AssertStatus(t, http.StatusOK)
	assert.Equal(t, int64(0), counter(t, db, "comments", c.ID))

	rec = testutil.NewRecorder()
	router.ServeHTTP(rec, testutil.NewJSONRequest(t, "DELETE", target, nil, testutil.PrincipalFor(u)))
	rec.AssertStatus(t, http.StatusNotFound)
}

func TestDelete_OwnerOnly(t *testing.T) {
	router, db, fx := setup(t)
	ctx, cancel := testutil.TestContext()
	defer cancel()
	u := fx.CreateUser(ctx, "U", "u@example.com", models.RoleUser)
	other := fx.CreateUser(ctx, "O", "o@example.com", models.RoleUser)
	post := fx.CreatePost(ctx, u.ID, "post")

	rec := testutil.NewRecorder()
	router.ServeHTTP(rec, testutil.NewJSONRequest(t, "POST", "/", map[string]string{"targetType": "Post", "targetId": post.ID.Hex(), "type": "like"}, testutil.PrincipalFor(u)))
	rec.AssertStatus(t, http.StatusCreated)
	var rx models.Reaction
	rec.DecodeJSON(t, &rx)

	rec = testutil.NewRecorder()
	router.ServeHTTP(rec, testutil.NewJSONRequest(t, "DELETE", "/"+rx.ID.Hex(), nil, testutil.PrincipalFor(other)))
	rec.AssertStatus(t, http.StatusForbidden)

	rec = testutil.NewRecorder()
	router.ServeHTTP(rec, testutil.NewJSONRequest(t, "DELETE", "/"+rx.ID.Hex(), nil, testutil.PrincipalFor(u)))
	rec.AssertStatus(t, http.StatusOK)
	assert.Equal(t, int64(0), counter(t, db, "posts", post.ID))
}
