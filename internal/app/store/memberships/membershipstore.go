// internal/app/store/memberships/membershipstore.go
package membershipstore

import (
	"context"
	"errors"
	"time"

	"github.com/dalemusser/mindhub/internal/app/store/storeutil"
	"github.com/dalemusser/mindhub/internal/app/system/paging"
	"github.com/dalemusser/mindhub/internal/domain/models"
	wafflemongo "github.com/dalemusser/waffle/pantry/mongo"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
)

type Store struct {
	c *mongo.Collection
}

func New(db *mongo.Database) *Store {
	return &Store{c: db.Collection("memberships")}
}

var errBadRole = errors.New(`role must be "member"|"moderator"|"admin"`)

// ErrDuplicateMembership is returned when (group_id, user_id) already exists.
var ErrDuplicateMembership = errors.New("user is already a member of this group")

// Add creates a membership. A concurrent duplicate surfaces as ErrDuplicateMembership
// from the unique index.
func (s *Store) Add(ctx context.Context, groupID, userID primitive.ObjectID, role string) (models.Membership, error) {
	if !models.IsValidMemberRole(role) {
		return models.Membership{}, errBadRole
	}
	now := time.Now().UTC()
	m := models.Membership{
		ID:        primitive.NewObjectID(),
		GroupID:   groupID,
		UserID:    userID,
		Role:      role,
		CreatedAt: now,
		UpdatedAt: now,
	}
	if _, err := s.c.InsertOne(ctx, m); err != nil {
		if wafflemongo.IsDup(err) {
			return models.Membership{}, ErrDuplicateMembership
		}
		return models.Membership{}, err
	}
	return m, nil
}

func (s *Store) GetByID(ctx context.Context, id primitive.ObjectID) (*models.Membership, error) {
	return storeutil.FindByID[models.Membership](ctx, s.c, id)
}

// Get returns the membership for (groupID, userID), or mongo.ErrNoDocuments.
func (s *Store) Get(ctx context.Context, groupID, userID primitive.ObjectID) (*models.Membership, error) {
	return storeutil.FindOne[models.Membership](ctx, s.c, bson.M{"group_id": groupID, "user_id": userID})
}

// RoleOf returns the user's role in the group, or "" when not a member.
func (s *Store) RoleOf(ctx context.Context, groupID, userID primitive.ObjectID) (string, error) {
	m, err := s.Get(ctx, groupID, userID)
	if err == mongo.ErrNoDocuments {
		return "", nil
	}
	if err != nil {
		return "", err
	}
	return m.Role, nil
}

// Exists checks if a membership exists for the given group and user.
func (s *Store) Exists(ctx context.Context, groupID, userID primitive.ObjectID) (bool, error) {
	return storeutil.Exists(ctx, s.c, bson.M{"group_id": groupID, "user_id": userID})
}

// CountAdmins returns the number of admin memberships in a group.
func (s *Store) CountAdmins(ctx context.Context, groupID primitive.ObjectID) (int64, error) {
	return s.c.CountDocuments(ctx, bson.M{"group_id": groupID, "role": models.MemberRoleAdmin})
}

// UpdateRole sets the role and returns the updated membership.
func (s *Store) UpdateRole(ctx context.Context, id primitive.ObjectID, role string) (*models.Membership, error) {
	if !models.IsValidMemberRole(role) {
		return nil, errBadRole
	}
	return storeutil.UpdateByID[models.Membership](ctx, s.c, id, bson.M{"role": role})
}

// Delete removes one membership and reports whether it existed.
func (s *Store) Delete(ctx context.Context, id primitive.ObjectID) (bool, error) {
	return storeutil.DeleteByID(ctx, s.c, id)
}

// Restore re-inserts a membership removed by Delete, keeping its ID.
func (s *Store) Restore(ctx context.Context, m models.Membership) error {
	_, err := s.c.InsertOne(ctx, m)
	return err
}

// DeleteByGroup removes all memberships for a group.
// Returns the number of documents deleted.
func (s *Store) DeleteByGroup(ctx context.Context, groupID primitive.ObjectID) (int64, error) {
	res, err := s.c.DeleteMany(ctx, bson.M{"group_id": groupID})
	if err != nil {
		return 0, err
	}
	return res.DeletedCount, nil
}

// Filter narrows List; zero IDs are ignored.
type Filter struct {
	GroupID primitive.ObjectID
	UserID  primitive.ObjectID
}

// List returns memberships oldest first.
func (s *Store) List(ctx context.Context, f Filter, p paging.Params) ([]models.Membership, int64, error) {
	q := bson.M{}
	if !f.GroupID.IsZero() {
		q["group_id"] = f.GroupID
	}
	if !f.UserID.IsZero() {
		q["user_id"] = f.UserID
	}
	return storeutil.FindPage[models.Membership](ctx, s.c, q, bson.D{{Key: "created_at", Value: 1}, {Key: "_id", Value: 1}}, p)
}
