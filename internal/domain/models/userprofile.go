// internal/domain/models/userprofile.go
package models

import (
	"math"
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// EmergencyContact is embedded on UserProfile.
type EmergencyContact struct {
	Name         string `bson:"name" json:"name"`
	Phone        string `bson:"phone" json:"phone"`
	Relationship string `bson:"relationship,omitempty" json:"relationship,omitempty"`
}

// UserProfile is the 1:1 demographic/medical companion of a User.
// Exactly one document per user_id.
type UserProfile struct {
	ID                 primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	UserID             primitive.ObjectID `bson:"user_id" json:"userId"`
	DateOfBirth        *time.Time         `bson:"date_of_birth,omitempty" json:"dateOfBirth,omitempty"`
	Gender             string             `bson:"gender,omitempty" json:"gender,omitempty"`
	RelationshipStatus string             `bson:"relationship_status,omitempty" json:"relationshipStatus,omitempty"`
	Occupation         string             `bson:"occupation,omitempty" json:"occupation,omitempty"`
	Height             float64            `bson:"height,omitempty" json:"height,omitempty"` // cm
	Weight             float64            `bson:"weight,omitempty" json:"weight,omitempty"` // kg
	BMI                float64            `bson:"bmi,omitempty" json:"bmi,omitempty"`
	BloodType          string             `bson:"blood_type,omitempty" json:"bloodType,omitempty"`
	Allergies          []string           `bson:"allergies,omitempty" json:"allergies,omitempty"`
	MedicalConditions  []string           `bson:"medical_conditions,omitempty" json:"medicalConditions,omitempty"`
	Medications        []string           `bson:"medications,omitempty" json:"medications,omitempty"`
	SubstanceUse       []string           `bson:"substance_use,omitempty" json:"substanceUse,omitempty"`
	EmergencyContact   *EmergencyContact  `bson:"emergency_contact,omitempty" json:"emergencyContact,omitempty"`
	ProfileImageURL    string             `bson:"profile_image_url,omitempty" json:"profileImageUrl,omitempty"`

	CreatedAt time.Time `bson:"created_at" json:"createdAt"`
	UpdatedAt time.Time `bson:"updated_at" json:"updatedAt"`
}

// ComputeBMI returns weight/(height in m)^2 rounded to one decimal,
// or 0 when either input is missing.
func ComputeBMI(heightCM, weightKG float64) float64 {
	if heightCM <= 0 || weightKG <= 0 {
		return 0
	}
	m := heightCM / 100
	return math.Round(weightKG/(m*m)*10) / 10
}
