package targets_test

import (
	"testing"

	"github.com/dalemusser/mindhub/internal/app/system/apperr"
	"github.com/dalemusser/mindhub/internal/app/system/targets"
	"github.com/dalemusser/mindhub/internal/domain/models"
	"github.com/dalemusser/mindhub/internal/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

func TestAuthor(t *testing.T) {
	db := testutil.SetupTestDB(t)
	fx := testutil.NewFixtures(t, db)
	ctx, cancel := testutil.TestContext()
	defer cancel()

	postAuthor := fx.CreateUser(ctx, "P", "p@example.com", models.RoleUser)
	commentAuthor := fx.CreateUser(ctx, "C", "c@example.com", models.RoleUser)
	post := fx.CreatePost(ctx, postAuthor.ID, "post")
	c := fx.CreateComment(ctx, post.ID, commentAuthor.ID, nil, "comment")

	got, err := targets.Author(ctx, db, models.TargetRef{TargetType: models.TargetPost, TargetID: post.ID})
	require.NoError(t, err)
	assert.Equal(t, postAuthor.ID, got)

	got, err = targets.Author(ctx, db, models.TargetRef{TargetType: models.TargetComment, TargetID: c.ID})
	require.NoError(t, err)
	assert.Equal(t, commentAuthor.ID, got)

	_, err = targets.Author(ctx, db, models.TargetRef{TargetType: models.TargetPost, TargetID: primitive.NewObjectID()})
	assert.True(t, apperr.Is(err, apperr.NotFound))

	_, err = targets.Author(ctx, db, models.TargetRef{TargetType: models.TargetGroup, TargetID: post.ID})
	assert.True(t, apperr.Is(err, apperr.BadRequest))
}

func TestIncReactions(t *testing.T) {
	db := testutil.SetupTestDB(t)
	fx := testutil.NewFixtures(t, db)
	ctx, cancel := testutil.TestContext()
	defer cancel()

	u := fx.CreateUser(ctx, "U", "u@example.com", models.RoleUser)
	post := fx.CreatePost(ctx, u.ID, "post")
	ref := models.TargetRef{TargetType: models.TargetPost, TargetID: post.ID}

	require.NoError(t, targets.IncReactions(ctx, db, ref, 1))
	require.NoError(t, targets.IncReactions(ctx, db, ref, -1))
	require.NoError(t, targets.IncReactions(ctx, db, ref, -1))

	var p models.Post
	require.NoError(t, db.Collection("posts").FindOne(ctx, bson.M{"_id": post.ID}).Decode(&p))
	assert.Equal(t, int64(0), p.ReactionsCount)
}
