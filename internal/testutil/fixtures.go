package testutil

import (
	"context"
	"net/http"
	"sync"
	"testing"
	"time"

	"github.com/dalemusser/mindhub/internal/domain/models"
	"github.com/dalemusser/waffle/pantry/text"
	"github.com/go-chi/chi/v5"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"golang.org/x/crypto/bcrypt"
)

// WithChiURLParam adds a chi URL parameter to the request context.
// Use this in handler tests that need to access chi.URLParam values.
func WithChiURLParam(r *http.Request, key, value string) *http.Request {
	rctx, ok := r.Context().Value(chi.RouteCtxKey).(*chi.Context)
	if !ok || rctx == nil {
		rctx = chi.NewRouteContext()
	}
	rctx.URLParams.Add(key, value)
	return r.WithContext(context.WithValue(r.Context(), chi.RouteCtxKey, rctx))
}

// Fixtures provides helper methods for creating test data.
type Fixtures struct {
	db *mongo.Database
	t  *testing.T
}

// NewFixtures creates a new Fixtures instance for the given test database.
func NewFixtures(t *testing.T, db *mongo.Database) *Fixtures {
	t.Helper()
	return &Fixtures{db: db, t: t}
}

// DB returns the underlying database for direct access in tests.
func (f *Fixtures) DB() *mongo.Database {
	return f.db
}

func (f *Fixtures) insert(ctx context.Context, coll string, doc interface{}) {
	f.t.Helper()
	if _, err := f.db.Collection(coll).InsertOne(ctx, doc); err != nil {
		f.t.Fatalf("failed to insert test %s: %v", coll, err)
	}
}

// TestPassword is the plaintext password of every fixture user.
const TestPassword = "correct-horse-battery"

var (
	hashOnce sync.Once
	testHash string
)

// CreateUser creates a verified user with the given role and TestPassword.
func (f *Fixtures) CreateUser(ctx context.Context, name, email, role string) models.User {
	f.t.Helper()

	hashOnce.Do(func() {
		h, _ := bcrypt.GenerateFromPassword([]byte(TestPassword), bcrypt.MinCost)
		testHash = string(h)
	})

	now := time.Now().UTC()
	u := models.User{
		ID:         primitive.NewObjectID(),
		Name:       name,
		Email:      email,
		Password:   testHash,
		Role:       role,
		IsVerified: true,
		CreatedAt:  now,
		UpdatedAt:  now,
	}
	f.insert(ctx, "users", u)
	return u
}

// CreateUnverifiedUser creates a user still holding token.
func (f *Fixtures) CreateUnverifiedUser(ctx context.Context, name, email, token string) models.User {
	f.t.Helper()
	u := f.CreateUser(ctx, name, email, models.RoleUser)
	u.IsVerified = false
	u.VerificationToken = &token
	if _, err := f.db.Collection("users").ReplaceOne(ctx, bson.M{"_id": u.ID}, u); err != nil {
		f.t.Fatalf("failed to mark user unverified: %v", err)
	}
	return u
}

// CreateGroup creates a group with no memberships.
func (f *Fixtures) CreateGroup(ctx context.Context, name string, createdBy primitive.ObjectID) models.Group {
	f.t.Helper()

	now := time.Now().UTC()
	g := models.Group{
		ID:          primitive.NewObjectID(),
		Name:        name,
		NameCI:      text.Fold(name),
		Description: "Test group description",
		CreatedBy:   createdBy,
		CreatedAt:   now,
		UpdatedAt:   now,
	}
	f.insert(ctx, "groups", g)
	return g
}

// CreateMembership links a user to a group with the given role.
func (f *Fixtures) CreateMembership(ctx context.Context, groupID, userID primitive.ObjectID, role string) models.Membership {
	f.t.Helper()

	now := time.Now().UTC()
	m := models.Membership{
		ID:        primitive.NewObjectID(),
		GroupID:   groupID,
		UserID:    userID,
		Role:      role,
		CreatedAt: now,
		UpdatedAt: now,
	}
	f.insert(ctx, "memberships", m)
	return m
}

// CreatePost creates a post with zeroed counters.
func (f *Fixtures) CreatePost(ctx context.Context, authorID primitive.ObjectID, content string) models.Post {
	f.t.Helper()

	now := time.Now().UTC()
	p := models.Post{
		ID:        primitive.NewObjectID(),
		AuthorID:  authorID,
		Content:   content,
		MediaURLs: []string{},
		Tags:      []string{},
		CreatedAt: now,
		UpdatedAt: now,
	}
	f.insert(ctx, "posts", p)
	return p
}

// CreateComment creates a comment without touching the post's counter.
func (f *Fixtures) CreateComment(ctx context.Context, postID, authorID primitive.ObjectID, parent *primitive.ObjectID, content string) models.Comment {
	f.t.Helper()

	now := time.Now().UTC()
	c := models.Comment{
		ID:              primitive.NewObjectID(),
		PostID:          postID,
		AuthorID:        authorID,
		ParentCommentID: parent,
		Content:         content,
		CreatedAt:       now,
		UpdatedAt:       now,
	}
	f.insert(ctx, "comments", c)
	return c
}
