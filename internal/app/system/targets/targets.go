// Package targets resolves polymorphic Post/Comment references.
package targets

import (
	"context"

	commentstore "github.com/dalemusser/mindhub/internal/app/store/comments"
	poststore "github.com/dalemusser/mindhub/internal/app/store/posts"
	"github.com/dalemusser/mindhub/internal/app/system/apperr"
	"github.com/dalemusser/mindhub/internal/domain/models"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
)

var errBadType = apperr.BadRequestf(`targetType must be "Post" or "Comment"`)

// Author returns the author of the referenced post or comment.
// A missing target is NotFound.
func Author(ctx context.Context, db *mongo.Database, ref models.TargetRef) (primitive.ObjectID, error) {
	switch ref.TargetType {
	case models.TargetPost:
		p, err := poststore.New(db).GetByID(ctx, ref.TargetID)
		if err == mongo.ErrNoDocuments {
			return primitive.NilObjectID, apperr.NotFoundf("post not found")
		}
		if err != nil {
			return primitive.NilObjectID, err
		}
		return p.AuthorID, nil
	case models.TargetComment:
		c, err := commentstore.New(db).GetByID(ctx, ref.TargetID)
		if err == mongo.ErrNoDocuments {
			return primitive.NilObjectID, apperr.NotFoundf("comment not found")
		}
		if err != nil {
			return primitive.NilObjectID, err
		}
		return c.AuthorID, nil
	}
	return primitive.NilObjectID, errBadType
}

// IncReactions adjusts reactions_count on the referenced document.
func IncReactions(ctx context.Context, db *mongo.Database, ref models.TargetRef, delta int64) error {
	switch ref.TargetType {
	case models.TargetPost:
		return poststore.New(db).Inc(ctx, ref.TargetID, poststore.FieldReactions, delta)
	case models.TargetComment:
		return commentstore.New(db).Inc(ctx, ref.TargetID, commentstore.FieldReactions, delta)
	}
	return errBadType
}
