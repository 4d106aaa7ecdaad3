// internal/app/features/journal/chats.go
package journal

import (
	"net/http"
	"time"

	chatstore "github.com/dalemusser/mindhub/internal/app/store/chats"
	"github.com/dalemusser/mindhub/internal/app/system/jsonio"
	"github.com/dalemusser/mindhub/internal/domain/models"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

type chatCreate struct {
	UserID    primitive.ObjectID `json:"userId"`
	Role      string             `json:"role" validate:"required,oneof=user assistant"`
	Message   string             `json:"message" validate:"required,max=10000"`
	Timestamp *time.Time         `json:"timestamp"`
}

type chatPatch struct {
	Message *string `json:"message" validate:"omitempty,min=1,max=10000"`
}

func (h *Handler) chats() *resource[models.Chat] {
	return &resource[models.Chat]{
		h:        h,
		name:     "chats",
		store:    chatstore.New(h.DB),
		getOwner: func(v *models.Chat) primitive.ObjectID { return v.UserID },
		setOwner: func(v *models.Chat, id primitive.ObjectID) { v.UserID = id },
		build: func(w http.ResponseWriter, r *http.Request) (models.Chat, error) {
			var req chatCreate
			if err := jsonio.DecodeValid(w, r, &req); err != nil {
				return models.Chat{}, err
			}
			return models.Chat{
				UserID:    req.UserID,
				Role:      req.Role,
				Message:   req.Message,
				Timestamp: dateOrNow(req.Timestamp),
			}, nil
		},
		patch: func(w http.ResponseWriter, r *http.Request) (bson.M, error) {
			var req chatPatch
			if err := jsonio.DecodeValid(w, r, &req); err != nil {
				return nil, err
			}
			set := bson.M{}
			if req.Message != nil {
				set["message"] = *req.Message
			}
			return set, nil
		},
	}
}
