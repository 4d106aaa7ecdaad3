// internal/domain/models/gamification.go
package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

type Achievement struct {
	Name        string    `bson:"name" json:"name"`
	Description string    `bson:"description,omitempty" json:"description,omitempty"`
	EarnedAt    time.Time `bson:"earned_at" json:"earnedAt"`
}

// Gamification is 1:1 with User (unique user_id).
type Gamification struct {
	ID            primitive.ObjectID `bson:"_id" json:"id"`
	UserID        primitive.ObjectID `bson:"user_id" json:"userId"`
	Points        int64              `bson:"points" json:"points"`
	Badges        []string           `bson:"badges" json:"badges"`
	CheckInStreak int                `bson:"check_in_streak" json:"checkInStreak"`
	LastCheckInAt *time.Time         `bson:"last_check_in_at,omitempty" json:"lastCheckInAt,omitempty"`
	Achievements  []Achievement      `bson:"achievements" json:"achievements"`

	CreatedAt time.Time `bson:"created_at" json:"createdAt"`
	UpdatedAt time.Time `bson:"updated_at" json:"updatedAt"`
}
