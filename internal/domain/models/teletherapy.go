// internal/domain/models/teletherapy.go
package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Session states.
const (
	SessionScheduled = "scheduled"
	SessionCompleted = "completed"
	SessionCancelled = "cancelled"
)

// MinSessionMinutes is the shortest bookable session.
const MinSessionMinutes = 15

type TeletherapySession struct {
	ID          primitive.ObjectID `bson:"_id" json:"id"`
	UserID      primitive.ObjectID `bson:"user_id" json:"userId"`
	TherapistID primitive.ObjectID `bson:"therapist_id" json:"therapistId"`
	SessionDate time.Time          `bson:"session_date" json:"sessionDate"`
	Duration    int                `bson:"duration" json:"duration"` // minutes
	Status      string             `bson:"status" json:"status"`
	Notes       string             `bson:"notes,omitempty" json:"notes,omitempty"`

	CreatedAt time.Time `bson:"created_at" json:"createdAt"`
	UpdatedAt time.Time `bson:"updated_at" json:"updatedAt"`
}

// IsParticipant reports whether id is the client or the therapist.
func (s TeletherapySession) IsParticipant(id primitive.ObjectID) bool {
	return s.UserID == id || s.TherapistID == id
}
