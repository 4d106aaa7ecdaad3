// internal/app/features/journal/ailogs.go
package journal

import (
	"net/http"
	"time"

	ailogstore "github.com/dalemusser/mindhub/internal/app/store/ailogs"
	"github.com/dalemusser/mindhub/internal/app/system/jsonio"
	"github.com/dalemusser/mindhub/internal/domain/models"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

type aiLogCreate struct {
	UserID          primitive.ObjectID `json:"userId"`
	InteractionType string             `json:"interactionType" validate:"required,oneof=chatbot recommendation moodAnalysis"`
	Request         string             `json:"request" validate:"required,max=20000"`
	Response        string             `json:"response" validate:"required,max=20000"`
	Timestamp       *time.Time         `json:"timestamp"`
}

type aiLogPatch struct {
	Response *string `json:"response" validate:"omitempty,min=1,max=20000"`
}

func (h *Handler) aiLogs() *resource[models.AiLog] {
	return &resource[models.AiLog]{
		h:        h,
		name:     "ai logs",
		store:    ailogstore.New(h.DB),
		getOwner: func(v *models.AiLog) primitive.ObjectID { return v.UserID },
		setOwner: func(v *models.AiLog, id primitive.ObjectID) { v.UserID = id },
		build: func(w http.ResponseWriter, r *http.Request) (models.AiLog, error) {
			var req aiLogCreate
			if err := jsonio.DecodeValid(w, r, &req); err != nil {
				return models.AiLog{}, err
			}
			return models.AiLog{
				UserID:          req.UserID,
				InteractionType: req.InteractionType,
				Request:         req.Request,
				Response:        req.Response,
				Timestamp:       dateOrNow(req.Timestamp),
			}, nil
		},
		patch: func(w http.ResponseWriter, r *http.Request) (bson.M, error) {
			var req aiLogPatch
			if err := jsonio.DecodeValid(w, r, &req); err != nil {
				return nil, err
			}
			set := bson.M{}
			if req.Response != nil {
				set["response"] = *req.Response
			}
			return set, nil
		},
	}
}
