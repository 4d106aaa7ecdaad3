// internal/domain/models/report.go
package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Report moderation states.
const (
	ReportPending  = "pending"
	ReportReviewed = "reviewed"
	ReportResolved = "resolved"
)

// Report is unique per (reporter_id, target_type, target_id).
type Report struct {
	ID         primitive.ObjectID `bson:"_id" json:"id"`
	ReporterID primitive.ObjectID `bson:"reporter_id" json:"reporterId"`
	TargetType string             `bson:"target_type" json:"targetType"`
	TargetID   primitive.ObjectID `bson:"target_id" json:"targetId"`
	Reason     string             `bson:"reason" json:"reason"`
	Status     string             `bson:"status" json:"status"`

	CreatedAt time.Time `bson:"created_at" json:"createdAt"`
	UpdatedAt time.Time `bson:"updated_at" json:"updatedAt"`
}

// IsValidReportStatus reports whether s is a moderation state.
func IsValidReportStatus(s string) bool {
	return s == ReportPending || s == ReportReviewed || s == ReportResolved
}
