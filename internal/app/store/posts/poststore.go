// internal/app/store/posts/poststore.go
package poststore

import (
	"context"
	"time"

	"github.com/dalemusser/mindhub/internal/app/store/storeutil"
	"github.com/dalemusser/mindhub/internal/app/system/paging"
	"github.com/dalemusser/mindhub/internal/domain/models"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
)

// Counter fields on a post.
const (
	FieldComments  = "comments_count"
	FieldReactions = "reactions_count"
	FieldShares    = "shares_count"
)

type Store struct {
	c *mongo.Collection
}

func New(db *mongo.Database) *Store {
	return &Store{c: db.Collection("posts")}
}

// Create inserts p with zeroed counters.
func (s *Store) Create(ctx context.Context, p models.Post) (models.Post, error) {
	p.ID = primitive.NewObjectID()
	p.CommentsCount, p.ReactionsCount, p.SharesCount = 0, 0, 0
	if p.MediaURLs == nil {
		p.MediaURLs = []string{}
	}
	if p.Tags == nil {
		p.Tags = []string{}
	}
	now := time.Now().UTC()
	p.CreatedAt = now
	p.UpdatedAt = now
	if _, err := s.c.InsertOne(ctx, p); err != nil {
		return models.Post{}, err
	}
	return p, nil
}

func (s *Store) GetByID(ctx context.Context, id primitive.ObjectID) (*models.Post, error) {
	return storeutil.FindByID[models.Post](ctx, s.c, id)
}

// Filter narrows List; zero values are ignored. Tags matches posts carrying any of them.
type Filter struct {
	AuthorID primitive.ObjectID
	GroupID  primitive.ObjectID
	Tags     []string
}

// List returns posts newest first.
func (s *Store) List(ctx context.Context, f Filter, p paging.Params) ([]models.Post, int64, error) {
	q := bson.M{}
	if !f.AuthorID.IsZero() {
		q["author_id"] = f.AuthorID
	}
	if !f.GroupID.IsZero() {
		q["group_id"] = f.GroupID
	}
	if len(f.Tags) > 0 {
		q["tags"] = bson.M{"$in": f.Tags}
	}
	return storeutil.FindPage[models.Post](ctx, s.c, q, bson.D{{Key: "created_at", Value: -1}, {Key: "_id", Value: -1}}, p)
}

// Update holds the author-editable fields; nil means unchanged.
type Update struct {
	Content   *string
	MediaURLs []string
	Tags      []string
}

func (s *Store) Update(ctx context.Context, id primitive.ObjectID, upd Update) (*models.Post, error) {
	set := bson.M{}
	if upd.Content != nil {
		set["content"] = *upd.Content
	}
	if upd.MediaURLs != nil {
		set["media_urls"] = upd.MediaURLs
	}
	if upd.Tags != nil {
		set["tags"] = upd.Tags
	}
	return storeutil.UpdateByID[models.Post](ctx, s.c, id, set)
}

func (s *Store) Delete(ctx context.Context, id primitive.ObjectID) (bool, error) {
	return storeutil.DeleteByID(ctx, s.c, id)
}

// Inc adjusts one counter field by delta. Decrements never go below zero.
func (s *Store) Inc(ctx context.Context, id primitive.ObjectID, field string, delta int64) error {
	_, err := storeutil.IncCounter(ctx, s.c, id, field, delta)
	return err
}
