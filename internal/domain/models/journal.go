// internal/domain/models/journal.go
package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// CheckIn is a daily mood entry (1..10).
type CheckIn struct {
	ID     primitive.ObjectID `bson:"_id" json:"id"`
	UserID primitive.ObjectID `bson:"user_id" json:"userId"`
	Mood   int                `bson:"mood" json:"mood"`
	Date   time.Time          `bson:"date" json:"date"`
	Note   string             `bson:"note,omitempty" json:"note,omitempty"`

	CreatedAt time.Time `bson:"created_at" json:"createdAt"`
	UpdatedAt time.Time `bson:"updated_at" json:"updatedAt"`
}

// Assessment types.
const (
	AssessmentQuiz    = "quiz"
	AssessmentCheckIn = "checkin"
)

type Assessment struct {
	ID        primitive.ObjectID `bson:"_id" json:"id"`
	UserID    primitive.ObjectID `bson:"user_id" json:"userId"`
	Type      string             `bson:"type" json:"type"`
	Responses map[string]float64 `bson:"responses" json:"responses"`
	Date      time.Time          `bson:"date" json:"date"`

	CreatedAt time.Time `bson:"created_at" json:"createdAt"`
	UpdatedAt time.Time `bson:"updated_at" json:"updatedAt"`
}

// Chat speakers.
const (
	ChatRoleUser      = "user"
	ChatRoleAssistant = "assistant"
)

type Chat struct {
	ID        primitive.ObjectID `bson:"_id" json:"id"`
	UserID    primitive.ObjectID `bson:"user_id" json:"userId"`
	Role      string             `bson:"role" json:"role"`
	Message   string             `bson:"message" json:"message"`
	Timestamp time.Time          `bson:"timestamp" json:"timestamp"`

	CreatedAt time.Time `bson:"created_at" json:"createdAt"`
	UpdatedAt time.Time `bson:"updated_at" json:"updatedAt"`
}

// AI interaction kinds.
const (
	AIChatbot        = "chatbot"
	AIRecommendation = "recommendation"
	AIMoodAnalysis   = "moodAnalysis"
)

type AiLog struct {
	ID              primitive.ObjectID `bson:"_id" json:"id"`
	UserID          primitive.ObjectID `bson:"user_id" json:"userId"`
	InteractionType string             `bson:"interaction_type" json:"interactionType"`
	Request         string             `bson:"request" json:"request"`
	Response        string             `bson:"response" json:"response"`
	Timestamp       time.Time          `bson:"timestamp" json:"timestamp"`

	CreatedAt time.Time `bson:"created_at" json:"createdAt"`
	UpdatedAt time.Time `bson:"updated_at" json:"updatedAt"`
}

type Feedback struct {
	ID      primitive.ObjectID `bson:"_id" json:"id"`
	UserID  primitive.ObjectID `bson:"user_id" json:"userId"`
	Subject string             `bson:"subject" json:"subject"`
	Message string             `bson:"message" json:"message"`
	Rating  *int               `bson:"rating,omitempty" json:"rating,omitempty"` // 1..5

	CreatedAt time.Time `bson:"created_at" json:"createdAt"`
	UpdatedAt time.Time `bson:"updated_at" json:"updatedAt"`
}
