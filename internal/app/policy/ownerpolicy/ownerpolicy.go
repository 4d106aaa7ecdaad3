// Package ownerpolicy guards updates and deletes of user-owned documents.
package ownerpolicy

import (
	"net/http"

	"github.com/dalemusser/mindhub/internal/app/system/apperr"
	"github.com/dalemusser/mindhub/internal/app/system/authz"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

var errNotOwner = apperr.Forbiddenf("you do not have permission to modify this resource")

// AssertOwner fails with Forbidden unless ownerID is userID.
func AssertOwner(ownerID, userID primitive.ObjectID) error {
	if ownerID.IsZero() || ownerID != userID {
		return errNotOwner
	}
	return nil
}

// AssertOwnerOrAdmin lets admins through in addition to the owner.
func AssertOwnerOrAdmin(r *http.Request, ownerID primitive.ObjectID) error {
	if authz.IsAdmin(r) {
		return nil
	}
	uid, ok := authz.UserID(r)
	if !ok {
		return errNotOwner
	}
	return AssertOwner(ownerID, uid)
}

// AssertParticipant passes when the caller is one of participants or an admin.
func AssertParticipant(r *http.Request, participants ...primitive.ObjectID) error {
	if authz.IsAdmin(r) {
		return nil
	}
	uid, ok := authz.UserID(r)
	if !ok {
		return errNotOwner
	}
	for _, p := range participants {
		if !p.IsZero() && p == uid {
			return nil
		}
	}
	return errNotOwner
}
