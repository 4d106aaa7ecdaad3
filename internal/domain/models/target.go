// internal/domain/models/target.go
package models

import "go.mongodb.org/mongo-driver/bson/primitive"

// Kinds of entity a polymorphic reference may point at.
const (
	TargetPost    = "Post"
	TargetComment = "Comment"
	TargetGroup   = "Group"
	TargetUser    = "User"
)

// TargetRef is a tagged reference {kind, id}. Resolving it to a concrete
// document is the caller's job.
type TargetRef struct {
	TargetType string             `bson:"target_type" json:"targetType"`
	TargetID   primitive.ObjectID `bson:"target_id" json:"targetId"`
}

// IsReactable reports whether kind can carry reactions and reports.
func IsReactable(kind string) bool {
	return kind == TargetPost || kind == TargetComment
}
