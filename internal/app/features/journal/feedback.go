// internal/app/features/journal/feedback.go
package journal

import (
	"net/http"

	feedbackstore "github.com/dalemusser/mindhub/internal/app/store/feedback"
	"github.com/dalemusser/mindhub/internal/app/system/htmlsanitize"
	"github.com/dalemusser/mindhub/internal/app/system/jsonio"
	"github.com/dalemusser/mindhub/internal/domain/models"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

type feedbackCreate struct {
	UserID  primitive.ObjectID `json:"userId"`
	Subject string             `json:"subject" validate:"required,max=200"`
	Message string             `json:"message" validate:"required,max=5000"`
	Rating  *int               `json:"rating" validate:"omitempty,min=1,max=5"`
}

type feedbackPatch struct {
	Subject *string `json:"subject" validate:"omitempty,min=1,max=200"`
	Message *string `json:"message" validate:"omitempty,min=1,max=5000"`
	Rating  *int    `json:"rating" validate:"omitempty,min=1,max=5"`
}

func (h *Handler) feedback() *resource[models.Feedback] {
	return &resource[models.Feedback]{
		h:        h,
		name:     "feedback",
		store:    feedbackstore.New(h.DB),
		getOwner: func(v *models.Feedback) primitive.ObjectID { return v.UserID },
		setOwner: func(v *models.Feedback, id primitive.ObjectID) { v.UserID = id },
		build: func(w http.ResponseWriter, r *http.Request) (models.Feedback, error) {
			var req feedbackCreate
			if err := jsonio.DecodeValid(w, r, &req); err != nil {
				return models.Feedback{}, err
			}
			return models.Feedback{
				UserID:  req.UserID,
				Subject: htmlsanitize.StripTags(req.Subject),
				Message: htmlsanitize.StripTags(req.Message),
				Rating:  req.Rating,
			}, nil
		},
		patch: func(w http.ResponseWriter, r *http.Request) (bson.M, error) {
			var req feedbackPatch
			if err := jsonio.DecodeValid(w, r, &req); err != nil {
				return nil, err
			}
			set := bson.M{}
			if req.Subject != nil {
				set["subject"] = htmlsanitize.StripTags(*req.Subject)
			}
			if req.Message != nil {
				set["message"] = htmlsanitize.StripTags(*req.Message)
			}
			if req.Rating != nil {
				set["rating"] = *req.Rating
			}
			return set, nil
		},
	}
}
