package admin_test

import (
	"net/http"
	"testing"

	"github.com/dalemusser/mindhub/internal/app/features/admin"
	uierrors "github.com/dalemusser/mindhub/internal/app/features/errors"
	"github.com/dalemusser/mindhub/internal/app/store/queries/counterqueries"
	"github.com/dalemusser/mindhub/internal/domain/models"
	"github.com/dalemusser/mindhub/internal/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/bson"
	"go.uber.org/zap"
)

func TestReconcileCounters(t *testing.T) {
	db := testutil.SetupTestDB(t)
	fx := testutil.NewFixtures(t, db)
	ctx, cancel := testutil.TestContext()
	defer cancel()
	logger := zap.NewNop()
	router := admin.Routes(admin.NewHandler(db, uierrors.NewErrorLogger(logger), logger))

	author := fx.CreateUser(ctx, "Author", "author@example.com", models.RoleUser)
	root := fx.CreateUser(ctx, "Root", "root@example.com", models.RoleAdmin)
	post := fx.CreatePost(ctx, author.ID, "hello")
	fx.CreateComment(ctx, post.ID, author.ID, nil, "uncounted")

	rec := testutil.NewRecorder()
	router.ServeHTTP(rec, testutil.NewJSONRequest(t, "POST", "/reconcile-counters", nil, testutil.PrincipalFor(author)))
	rec.AssertStatus(t, http.StatusForbidden)

	rec = testutil.NewRecorder()
	router.ServeHTTP(rec, testutil.NewJSONRequest(t, "POST", "/reconcile-counters", nil, testutil.PrincipalFor(root)))
	rec.AssertStatus(t, http.StatusOK)
	var res counterqueries.Result
	rec.DecodeJSON(t, &res)
	assert.Equal(t, 1, res.PostsScanned)
	assert.Equal(t, 1, res.PostsFixed)

	var stored models.Post
	require.NoError(t, db.Collection("posts").FindOne(ctx, bson.M{"_id": post.ID}).Decode(&stored))
	assert.EqualValues(t, 1, stored.CommentsCount)
}
