// internal/app/system/authz/authz.go
package authz

import (
	"net/http"
	"strings"

	"github.com/dalemusser/mindhub/internal/app/system/auth"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

// UserCtx returns the caller's role (lowercased), email, Mongo ObjectID, and a found flag.
// If no principal is present or the ID is malformed it returns
// "visitor", "", NilObjectID, false, so ok=true always means a usable ObjectID.
func UserCtx(r *http.Request) (role string, email string, userID primitive.ObjectID, ok bool) {
	user, ok := auth.CurrentUser(r)
	if !ok {
		return "visitor", "", primitive.NilObjectID, false
	}
	userID, err := primitive.ObjectIDFromHex(user.ID)
	if err != nil {
		return "visitor", "", primitive.NilObjectID, false
	}
	return strings.ToLower(user.Role), user.Email, userID, true
}

// UserID returns just the caller's ObjectID.
func UserID(r *http.Request) (primitive.ObjectID, bool) {
	_, _, id, ok := UserCtx(r)
	return id, ok
}

// HasAnyRole reports whether the caller holds one of roles. Anonymous
// callers never match.
func HasAnyRole(r *http.Request, roles ...string) bool {
	role, _, _, ok := UserCtx(r)
	if !ok {
		return false
	}
	for _, want := range roles {
		if role == strings.ToLower(strings.TrimSpace(want)) {
			return true
		}
	}
	return false
}

func IsAdmin(r *http.Request) bool { return HasAnyRole(r, "admin") }

// IsSelfOrAdmin reports whether the caller is owner or an admin.
func IsSelfOrAdmin(r *http.Request, owner primitive.ObjectID) bool {
	role, _, uid, ok := UserCtx(r)
	return ok && (uid == owner || role == "admin")
}
