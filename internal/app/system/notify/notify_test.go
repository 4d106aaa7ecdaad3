package notify_test

import (
	"testing"

	"github.com/dalemusser/mindhub/internal/app/system/notify"
	"github.com/dalemusser/mindhub/internal/domain/models"
	"github.com/dalemusser/mindhub/internal/testutil"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.uber.org/zap"
)

func TestSend_StoresNotification(t *testing.T) {
	db := testutil.SetupTestDB(t)
	ctx, cancel := testutil.TestContext()
	defer cancel()

	recipient, actor, post := primitive.NewObjectID(), primitive.NewObjectID(), primitive.NewObjectID()
	notify.New(db, zap.NewNop()).Send(ctx, notify.Event{
		Recipient: recipient,
		Actor:     actor,
		Type:      models.NotifyComment,
		Ref:       models.TargetRef{TargetType: models.TargetPost, TargetID: post},
	})

	var got models.Notification
	if err := db.Collection("notifications").FindOne(ctx, bson.M{"user_id": recipient}).Decode(&got); err != nil {
		t.Fatalf("find notification: %v", err)
	}
	if got.IsRead {
		t.Error("new notification should be unread")
	}
	if got.ActorID == nil || *got.ActorID != actor {
		t.Errorf("actor: got %v, want %v", got.ActorID, actor)
	}
	if got.Reference.TargetID != post {
		t.Errorf("reference: got %v", got.Reference)
	}
}

func TestSend_SkipsSelf(t *testing.T) {
	db := testutil.SetupTestDB(t)
	ctx, cancel := testutil.TestContext()
	defer cancel()

	me := primitive.NewObjectID()
	notify.New(db, zap.NewNop()).Send(ctx, notify.Event{Recipient: me, Actor: me, Type: models.NotifyReaction})

	n, err := db.Collection("notifications").CountDocuments(ctx, bson.M{})
	if err != nil {
		t.Fatalf("count: %v", err)
	}
	if n != 0 {
		t.Errorf("self-notification stored: %d", n)
	}
}

func TestSend_NilNotifier(t *testing.T) {
	var n *notify.Notifier
	ctx, cancel := testutil.TestContext()
	defer cancel()
	n.Send(ctx, notify.Event{Recipient: primitive.NewObjectID()})
}
