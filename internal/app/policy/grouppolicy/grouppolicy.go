// Package grouppolicy decides who may change a group and its memberships.
//
// Rules:
//   - modify a group: the caller's membership role is admin or moderator
//   - delete a group: the caller created it
//   - change a member's role: the caller is an admin of the group, and the
//     change does not demote the group's only admin
//   - leave: allowed unless the caller is the group's only admin
//   - remove someone else: the caller is an admin of the group
//   - join: always as member; anyone already holding a role is a member
//     and cannot join again
package grouppolicy

import (
	"context"

	"github.com/dalemusser/mindhub/internal/app/system/apperr"
	"github.com/dalemusser/mindhub/internal/domain/models"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Memberships is the slice of the membership store the policy reads.
// RoleOf returns "" when userID is not a member.
type Memberships interface {
	RoleOf(ctx context.Context, groupID, userID primitive.ObjectID) (string, error)
	CountAdmins(ctx context.Context, groupID primitive.ObjectID) (int64, error)
}

// ErrLastAdmin is returned when a change would leave a group without an admin.
var ErrLastAdmin = apperr.Forbiddenf("a group must keep at least one admin")

var (
	errNotModerator = apperr.Forbiddenf("only group admins and moderators can modify this group")
	errNotCreator   = apperr.Forbiddenf("only the group creator can delete this group")
	errNotAdmin     = apperr.Forbiddenf("only group admins can manage members")
	errJoinRole     = apperr.Forbiddenf("you can only join this group as a member")
)

// CanModifyGroup reports whether userID may edit the group.
// Returns an error only when the lookup fails.
func CanModifyGroup(ctx context.Context, m Memberships, groupID, userID primitive.ObjectID) (bool, error) {
	role, err := m.RoleOf(ctx, groupID, userID)
	if err != nil {
		return false, err
	}
	return role == models.MemberRoleAdmin || role == models.MemberRoleModerator, nil
}

// CanDeleteGroup reports whether userID created g.
func CanDeleteGroup(g models.Group, userID primitive.ObjectID) bool {
	return g.CreatedBy == userID
}

// AuthorizeModify is CanModifyGroup returning Forbidden.
func AuthorizeModify(ctx context.Context, m Memberships, groupID, userID primitive.ObjectID) error {
	ok, err := CanModifyGroup(ctx, m, groupID, userID)
	if err != nil {
		return err
	}
	if !ok {
		return errNotModerator
	}
	return nil
}

// AuthorizeDelete is CanDeleteGroup returning Forbidden.
func AuthorizeDelete(g models.Group, userID primitive.ObjectID) error {
	if !CanDeleteGroup(g, userID) {
		return errNotCreator
	}
	return nil
}

// CanChangeRole checks that actorID may set target's role to newRole.
func CanChangeRole(ctx context.Context, m Memberships, actorID primitive.ObjectID, target models.Membership, newRole string) error {
	role, err := m.RoleOf(ctx, target.GroupID, actorID)
	if err != nil {
		return err
	}
	if role != models.MemberRoleAdmin {
		return errNotAdmin
	}
	if target.Role == models.MemberRoleAdmin && newRole != models.MemberRoleAdmin {
		return guardLastAdmin(ctx, m, target.GroupID)
	}
	return nil
}

// CanLeaveOrRemove checks that actorID may delete target.
func CanLeaveOrRemove(ctx context.Context, m Memberships, target models.Membership, actorID primitive.ObjectID) error {
	if target.UserID == actorID {
		if target.Role == models.MemberRoleAdmin {
			return guardLastAdmin(ctx, m, target.GroupID)
		}
		return nil
	}
	role, err := m.RoleOf(ctx, target.GroupID, actorID)
	if err != nil {
		return err
	}
	if role != models.MemberRoleAdmin {
		return errNotAdmin
	}
	if target.Role == models.MemberRoleAdmin {
		return guardLastAdmin(ctx, m, target.GroupID)
	}
	return nil
}

// CanJoinAs checks the role a new member asks for. Higher roles are granted
// only through CanChangeRole by a group admin.
func CanJoinAs(role string) error {
	if role == "" || role == models.MemberRoleMember {
		return nil
	}
	return errJoinRole
}

// VerifyAdminRemains re-checks, after a demotion or removal has been written,
// that the group still has an admin. Callers undo their write when it fails.
func VerifyAdminRemains(ctx context.Context, m Memberships, groupID primitive.ObjectID) error {
	n, err := m.CountAdmins(ctx, groupID)
	if err != nil {
		return err
	}
	if n == 0 {
		return ErrLastAdmin
	}
	return nil
}

func guardLastAdmin(ctx context.Context, m Memberships, groupID primitive.ObjectID) error {
	n, err := m.CountAdmins(ctx, groupID)
	if err != nil {
		return err
	}
	if n <= 1 {
		return ErrLastAdmin
	}
	return nil
}
