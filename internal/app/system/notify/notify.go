// internal/app/system/notify/notify.go
package notify

import (
	"context"

	notificationstore "github.com/dalemusser/mindhub/internal/app/store/notifications"
	"github.com/dalemusser/mindhub/internal/app/system/timeouts"
	"github.com/dalemusser/mindhub/internal/domain/models"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.uber.org/zap"
)

// Event describes one side-effect notification.
type Event struct {
	Recipient primitive.ObjectID
	Actor     primitive.ObjectID
	Type      string
	Ref       models.TargetRef
	Message   string
}

// Notifier records notifications for activity on a user's content.
// Failures are logged and never returned to the caller.
type Notifier struct {
	store *notificationstore.Store
	log   *zap.Logger
}

func New(db *mongo.Database, log *zap.Logger) *Notifier {
	return &Notifier{store: notificationstore.New(db), log: log}
}

// Send stores ev unless the actor is the recipient. A nil Notifier is a no-op.
// The write is detached from ctx's cancellation.
func (n *Notifier) Send(ctx context.Context, ev Event) {
	if n == nil || ev.Recipient.IsZero() || ev.Recipient == ev.Actor {
		return
	}

	ctx, cancel := context.WithTimeout(context.WithoutCancel(ctx), timeouts.Short())
	defer cancel()

	doc := models.Notification{
		UserID:    ev.Recipient,
		Type:      ev.Type,
		Reference: ev.Ref,
		Message:   ev.Message,
	}
	if !ev.Actor.IsZero() {
		actor := ev.Actor
		doc.ActorID = &actor
	}

	if _, err := n.store.Create(ctx, doc); err != nil {
		n.log.Warn("notification not recorded",
			zap.Error(err),
			zap.String("type", ev.Type),
			zap.String("recipient_id", ev.Recipient.Hex()),
			zap.String("target_type", ev.Ref.TargetType),
			zap.String("target_id", ev.Ref.TargetID.Hex()))
		return
	}
	n.log.Debug("notification recorded",
		zap.String("type", ev.Type),
		zap.String("recipient_id", ev.Recipient.Hex()))
}
