// internal/app/system/validators/validators.go
package validators

import (
	"context"
	"errors"
	"strings"

	"github.com/dalemusser/mindhub/internal/domain/models"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.uber.org/zap"
)

// EnsureAll creates every MindHub collection and attaches a $jsonSchema
// validator to the ones that carry invariants. Servers without collMod
// support (some DocumentDB builds) only get the collections.
func EnsureAll(ctx context.Context, db *mongo.Database) error {
	existing, err := db.ListCollectionNames(ctx, bson.M{})
	if err != nil {
		return err
	}
	have := make(map[string]bool, len(existing))
	for _, n := range existing {
		have[n] = true
	}

	var problems []string
	for _, c := range collections() {
		if !have[c.name] {
			if err := db.CreateCollection(ctx, c.name); err != nil && !hasCode(err, []int32{48}, "already exists") {
				problems = append(problems, c.name+": "+err.Error())
				continue
			}
			zap.L().Info("created collection", zap.String("collection", c.name))
		}
		if c.schema == nil {
			continue
		}
		err := db.RunCommand(ctx, bson.D{
			{Key: "collMod", Value: c.name},
			{Key: "validator", Value: c.schema},
			{Key: "validationLevel", Value: "moderate"},
			{Key: "validationAction", Value: "error"},
		}).Err()
		switch {
		case err == nil:
			zap.L().Debug("validator attached", zap.String("collection", c.name))
		case hasCode(err, []int32{59, 115}, "no such command", "not implemented", "not supported"):
			zap.L().Info("validator skipped, server lacks collMod", zap.String("collection", c.name))
		default:
			problems = append(problems, c.name+": "+err.Error())
		}
	}

	if len(problems) > 0 {
		return errors.New(strings.Join(problems, "; "))
	}
	return nil
}

type collection struct {
	name   string
	schema bson.M
}

// Leaf collections are validated by their handlers only.
func collections() []collection {
	return []collection{
		{"users", usersSchema()},
		{"groups", groupsSchema()},
		{"memberships", membershipsSchema()},
		{"posts", postsSchema()},
		{"comments", commentsSchema()},
		{"reactions", reactionsSchema()},
		{"shares", sharesSchema()},
		{"reports", reportsSchema()},
		{"notifications", notificationsSchema()},
		{"user_profiles", nil},
		{"gamification", nil},
		{"teletherapy_sessions", nil},
		{"check_ins", nil},
		{"assessments", nil},
		{"chats", nil},
		{"ai_logs", nil},
		{"content", nil},
		{"feedback", nil},
	}
}

// hasCode matches a server CommandError by code, or any error by message fragment.
func hasCode(err error, codes []int32, phrases ...string) bool {
	var ce mongo.CommandError
	if errors.As(err, &ce) {
		for _, c := range codes {
			if ce.Code == c {
				return true
			}
		}
	}
	msg := strings.ToLower(err.Error())
	for _, p := range phrases {
		if strings.Contains(msg, p) {
			return true
		}
	}
	return false
}

/* ------------------------- JSON-Schema docs ---------------------- */

var (
	nonBlank = bson.M{"bsonType": "string", "minLength": 1, "pattern": ".*\\S.*"}
	objectID = bson.M{"bsonType": "objectId"}
	date     = bson.M{"bsonType": "date"}
	counter  = bson.M{"bsonType": bson.A{"int", "long"}, "minimum": 0}
)

func enum(values ...string) bson.M {
	a := bson.A{}
	for _, v := range values {
		a = append(a, v)
	}
	return bson.M{"enum": a}
}

func schema(required bson.A, props bson.M) bson.M {
	return bson.M{
		"$jsonSchema": bson.M{
			"bsonType":   "object",
			"required":   required,
			"properties": props,
		},
	}
}

func usersSchema() bson.M {
	return schema(
		bson.A{"name", "email", "password", "role", "is_verified"},
		bson.M{
			"name":               nonBlank,
			"email":              nonBlank,
			"password":           nonBlank,
			"role":               enum(models.RoleUser, models.RoleTherapist, models.RoleAdmin),
			"is_verified":        bson.M{"bsonType": "bool"},
			"verification_token": bson.M{"bsonType": "string"},
			"created_at":         date,
		},
	)
}

func groupsSchema() bson.M {
	return schema(
		bson.A{"name", "name_ci", "created_by"},
		bson.M{
			"name":       nonBlank,
			"name_ci":    nonBlank,
			"created_by": objectID,
		},
	)
}

func membershipsSchema() bson.M {
	return schema(
		bson.A{"group_id", "user_id", "role"},
		bson.M{
			"group_id":   objectID,
			"user_id":    objectID,
			"role":       enum(models.MemberRoleMember, models.MemberRoleModerator, models.MemberRoleAdmin),
			"created_at": date,
		},
	)
}

func postsSchema() bson.M {
	return schema(
		bson.A{"author_id", "content", "comments_count", "reactions_count", "shares_count"},
		bson.M{
			"author_id":       objectID,
			"group_id":        objectID,
			"content":         nonBlank,
			"comments_count":  counter,
			"reactions_count": counter,
			"shares_count":    counter,
		},
	)
}

func commentsSchema() bson.M {
	return schema(
		bson.A{"post_id", "author_id", "content", "reactions_count"},
		bson.M{
			"post_id":           objectID,
			"author_id":         objectID,
			"parent_comment_id": objectID,
			"content":           nonBlank,
			"reactions_count":   counter,
		},
	)
}

func reactionsSchema() bson.M {
	return schema(
		bson.A{"user_id", "target_type", "target_id", "type"},
		bson.M{
			"user_id":     objectID,
			"target_type": enum(models.TargetPost, models.TargetComment),
			"target_id":   objectID,
			"type": enum(models.ReactionLike, models.ReactionLove, models.ReactionSupport,
				models.ReactionInsightful, models.ReactionHug, models.ReactionSad),
		},
	)
}

func sharesSchema() bson.M {
	return schema(
		bson.A{"user_id", "post_id"},
		bson.M{
			"user_id": objectID,
			"post_id": objectID,
		},
	)
}

func reportsSchema() bson.M {
	return schema(
		bson.A{"reporter_id", "target_type", "target_id", "reason", "status"},
		bson.M{
			"reporter_id": objectID,
			"target_type": enum(models.TargetPost, models.TargetComment),
			"target_id":   objectID,
			"reason":      bson.M{"bsonType": "string", "minLength": 1, "maxLength": 500},
			"status":      enum(models.ReportPending, models.ReportReviewed, models.ReportResolved),
		},
	)
}

func notificationsSchema() bson.M {
	return schema(
		bson.A{"user_id", "type", "reference", "is_read"},
		bson.M{
			"user_id": objectID,
			"type": enum(models.NotifyReaction, models.NotifyComment, models.NotifyShare,
				models.NotifyMention, models.NotifyGroupInvite),
			"reference": bson.M{
				"bsonType": "object",
				"required": bson.A{"target_type", "target_id"},
				"properties": bson.M{
					"target_type": enum(models.TargetPost, models.TargetComment, models.TargetGroup, models.TargetUser),
					"target_id":   objectID,
				},
			},
			"is_read": bson.M{"bsonType": "bool"},
		},
	)
}
