// internal/app/features/journal/assessments.go
package journal

import (
	"net/http"
	"time"

	assessmentstore "github.com/dalemusser/mindhub/internal/app/store/assessments"
	"github.com/dalemusser/mindhub/internal/app/system/jsonio"
	"github.com/dalemusser/mindhub/internal/domain/models"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

type assessmentCreate struct {
	UserID    primitive.ObjectID `json:"userId"`
	Type      string             `json:"type" validate:"required,oneof=quiz checkin"`
	Responses map[string]float64 `json:"responses" validate:"required,max=200,dive,keys,required,max=100,endkeys"`
	Date      *time.Time         `json:"date"`
}

type assessmentPatch struct {
	Type      *string            `json:"type" validate:"omitempty,oneof=quiz checkin"`
	Responses map[string]float64 `json:"responses" validate:"omitempty,max=200,dive,keys,required,max=100,endkeys"`
	Date      *time.Time         `json:"date"`
}

func (h *Handler) assessments() *resource[models.Assessment] {
	return &resource[models.Assessment]{
		h:        h,
		name:     "assessments",
		store:    assessmentstore.New(h.DB),
		getOwner: func(v *models.Assessment) primitive.ObjectID { return v.UserID },
		setOwner: func(v *models.Assessment, id primitive.ObjectID) { v.UserID = id },
		build: func(w http.ResponseWriter, r *http.Request) (models.Assessment, error) {
			var req assessmentCreate
			if err := jsonio.DecodeValid(w, r, &req); err != nil {
				return models.Assessment{}, err
			}
			return models.Assessment{
				UserID:    req.UserID,
				Type:      req.Type,
				Responses: req.Responses,
				Date:      dateOrNow(req.Date),
			}, nil
		},
		patch: func(w http.ResponseWriter, r *http.Request) (bson.M, error) {
			var req assessmentPatch
			if err := jsonio.DecodeValid(w, r, &req); err != nil {
				return nil, err
			}
			set := bson.M{}
			if req.Type != nil {
				set["type"] = *req.Type
			}
			if req.Responses != nil {
				set["responses"] = req.Responses
			}
			if req.Date != nil {
				set["date"] = req.Date.UTC()
			}
			return set, nil
		},
	}
}
