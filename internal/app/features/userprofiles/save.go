// internal/app/features/userprofiles/save.go
package userprofiles

import (
	"context"
	"errors"
	"net/http"
	"time"

	profilestore "github.com/dalemusser/mindhub/internal/app/store/profiles"
	userstore "github.com/dalemusser/mindhub/internal/app/store/users"
	"github.com/dalemusser/mindhub/internal/app/system/apperr"
	"github.com/dalemusser/mindhub/internal/app/system/authz"
	"github.com/dalemusser/mindhub/internal/app/system/jsonio"
	"github.com/dalemusser/mindhub/internal/app/system/timeouts"
	"github.com/dalemusser/mindhub/internal/domain/models"
	"github.com/go-chi/chi/v5"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
)

type emergencyContactInput struct {
	Name         string `json:"name" validate:"required,max=100"`
	Phone        string `json:"phone" validate:"required,max=40"`
	Relationship string `json:"relationship" validate:"omitempty,max=60"`
}

// profileInput carries optional fields; nil leaves the stored value alone.
type profileInput struct {
	DateOfBirth        *time.Time             `json:"dateOfBirth"`
	Gender             *string                `json:"gender" validate:"omitempty,oneof=male female non-binary other prefer-not-to-say"`
	RelationshipStatus *string                `json:"relationshipStatus" validate:"omitempty,oneof=single married divorced widowed separated in-relationship other"`
	Occupation         *string                `json:"occupation" validate:"omitempty,max=100"`
	Height             *float64               `json:"height" validate:"omitempty,gt=0,lt=300"`
	Weight             *float64               `json:"weight" validate:"omitempty,gt=0,lt=700"`
	BloodType          *string                `json:"bloodType" validate:"omitempty,oneof=A+ A- B+ B- AB+ AB- O+ O- unknown"`
	Allergies          []string               `json:"allergies" validate:"omitempty,dive,max=100"`
	MedicalConditions  []string               `json:"medicalConditions" validate:"omitempty,dive,max=100"`
	Medications        []string               `json:"medications" validate:"omitempty,dive,max=100"`
	SubstanceUse       []string               `json:"substanceUse" validate:"omitempty,dive,oneof=alcohol caffeine tobacco"`
	EmergencyContact   *emergencyContactInput `json:"emergencyContact"`
}

func (in profileInput) applyTo(p *models.UserProfile) {
	if in.DateOfBirth != nil {
		p.DateOfBirth = in.DateOfBirth
	}
	if in.Gender != nil {
		p.Gender = *in.Gender
	}
	if in.RelationshipStatus != nil {
		p.RelationshipStatus = *in.RelationshipStatus
	}
	if in.Occupation != nil {
		p.Occupation = *in.Occupation
	}
	if in.Height != nil {
		p.Height = *in.Height
	}
	if in.Weight != nil {
		p.Weight = *in.Weight
	}
	if in.BloodType != nil {
		p.BloodType = *in.BloodType
	}
	if in.Allergies != nil {
		p.Allergies = in.Allergies
	}
	if in.MedicalConditions != nil {
		p.MedicalConditions = in.MedicalConditions
	}
	if in.Medications != nil {
		p.Medications = in.Medications
	}
	if in.SubstanceUse != nil {
		p.SubstanceUse = in.SubstanceUse
	}
	if in.EmergencyContact != nil {
		p.EmergencyContact = &models.EmergencyContact{
			Name:         in.EmergencyContact.Name,
			Phone:        in.EmergencyContact.Phone,
			Relationship: in.EmergencyContact.Relationship,
		}
	}
}

// HandleSave handles POST and PUT /user-profiles. Both merge the body into
// the caller's profile, creating it on first use.
func (h *Handler) HandleSave(w http.ResponseWriter, r *http.Request) {
	uid, ok := authz.UserID(r)
	if !ok {
		h.ErrLog.Write(w, r, apperr.Unauthorizedf("missing or invalid bearer token"))
		return
	}

	var in profileInput
	if err := jsonio.DecodeValid(w, r, &in); err != nil {
		h.ErrLog.Write(w, r, err)
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Short())
	defer cancel()

	if _, err := userstore.New(h.DB).GetByID(ctx, uid); err != nil {
		h.ErrLog.Write(w, r, err)
		return
	}

	store := profilestore.New(h.DB)
	existing, err := store.GetByUser(ctx, uid)
	switch {
	case errors.Is(err, mongo.ErrNoDocuments):
		existing = &models.UserProfile{UserID: uid}
	case err != nil:
		h.ErrLog.LogServerError(w, r, "load profile failed", err)
		return
	}

	in.applyTo(existing)
	saved, err := store.Save(ctx, *existing)
	if err != nil {
		h.ErrLog.Write(w, r, err)
		return
	}
	jsonio.OK(w, saved)
}

// HandleGet handles GET /user-profiles/{userId}.
func (h *Handler) HandleGet(w http.ResponseWriter, r *http.Request) {
	uid, err := primitive.ObjectIDFromHex(chi.URLParam(r, "userId"))
	if err != nil {
		h.ErrLog.Write(w, r, apperr.BadRequestf("invalid user id"))
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Short())
	defer cancel()

	p, err := profilestore.New(h.DB).GetByUser(ctx, uid)
	if err != nil {
		h.ErrLog.Write(w, r, err)
		return
	}
	jsonio.OK(w, p)
}
