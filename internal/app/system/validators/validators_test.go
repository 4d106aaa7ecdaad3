package validators_test

import (
	"strings"
	"testing"
	"time"

	"github.com/dalemusser/mindhub/internal/app/system/validators"
	"github.com/dalemusser/mindhub/internal/testutil"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

func TestEnsureAll_Idempotent(t *testing.T) {
	db := testutil.SetupTestDB(t)
	ctx, cancel := testutil.TestContext()
	defer cancel()

	if err := validators.EnsureAll(ctx, db); err != nil {
		t.Fatalf("first EnsureAll failed: %v", err)
	}
	if err := validators.EnsureAll(ctx, db); err != nil {
		t.Fatalf("second EnsureAll failed: %v", err)
	}
}

func TestEnsureAll_CreatesCollections(t *testing.T) {
	db := testutil.SetupTestDB(t)
	ctx, cancel := testutil.TestContext()
	defer cancel()

	if err := validators.EnsureAll(ctx, db); err != nil {
		t.Fatalf("EnsureAll failed: %v", err)
	}

	names, err := db.ListCollectionNames(ctx, bson.M{})
	if err != nil {
		t.Fatalf("ListCollectionNames failed: %v", err)
	}
	have := make(map[string]bool)
	for _, n := range names {
		have[n] = true
	}
	for _, want := range []string{
		"users", "groups", "memberships", "posts", "comments", "reactions",
		"shares", "reports", "notifications", "user_profiles", "gamification",
		"teletherapy_sessions", "check_ins", "assessments", "chats", "ai_logs",
		"content", "feedback",
	} {
		if !have[want] {
			t.Errorf("expected collection %q to exist", want)
		}
	}
}

func TestValidators_RejectAndAccept(t *testing.T) {
	db := testutil.SetupTestDB(t)
	ctx, cancel := testutil.TestContext()
	defer cancel()

	if err := validators.EnsureAll(ctx, db); err != nil {
		t.Fatalf("EnsureAll failed: %v", err)
	}

	now := time.Now()
	oid := primitive.NewObjectID

	tests := []struct {
		name    string
		coll    string
		doc     bson.M
		wantErr bool
	}{
		{"user missing fields", "users", bson.M{"name": "x"}, true},
		{"user bad role", "users", bson.M{
			"name": "A", "email": "a@x.io", "password": "h", "role": "superuser", "is_verified": false,
		}, true},
		{"user valid", "users", bson.M{
			"name": "A", "email": "a@x.io", "password": "h", "role": "user", "is_verified": false, "created_at": now,
		}, false},
		{"membership bad role", "memberships", bson.M{
			"group_id": oid(), "user_id": oid(), "role": "owner",
		}, true},
		{"membership valid", "memberships", bson.M{
			"group_id": oid(), "user_id": oid(), "role": "moderator", "created_at": now,
		}, false},
		{"post negative counter", "posts", bson.M{
			"author_id": oid(), "content": "hi", "comments_count": int64(-1), "reactions_count": int64(0), "shares_count": int64(0),
		}, true},
		{"post valid", "posts", bson.M{
			"author_id": oid(), "content": "hi", "comments_count": int64(0), "reactions_count": int64(0), "shares_count": int64(0),
		}, false},
		{"reaction bad target type", "reactions", bson.M{
			"user_id": oid(), "target_type": "Group", "target_id": oid(), "type": "like",
		}, true},
		{"reaction valid", "reactions", bson.M{
			"user_id": oid(), "target_type": "Comment", "target_id": oid(), "type": "hug",
		}, false},
		{"report reason too long", "reports", bson.M{
			"reporter_id": oid(), "target_type": "Post", "target_id": oid(),
			"reason": strings.Repeat("x", 501), "status": "pending",
		}, true},
		{"notification valid", "notifications", bson.M{
			"user_id": oid(), "type": "comment", "is_read": false,
			"reference": bson.M{"target_type": "Post", "target_id": oid()},
		}, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := db.Collection(tt.coll).InsertOne(ctx, tt.doc)
			if tt.wantErr && err == nil {
				t.Errorf("expected validation error inserting into %s", tt.coll)
			}
			if !tt.wantErr && err != nil {
				t.Errorf("insert into %s failed: %v", tt.coll, err)
			}
		})
	}
}
