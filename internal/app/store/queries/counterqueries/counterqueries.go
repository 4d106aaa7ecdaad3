// Package counterqueries recomputes the denormalized counters on posts and
// comments from the live child documents.
package counterqueries

import (
	"context"
	"time"

	"github.com/dalemusser/mindhub/internal/domain/models"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
	"go.uber.org/zap"
)

// batchSize bounds the $in list of each aggregation in ReconcileAll.
const batchSize = 500

// PostCounters are the three cached counts on a post.
type PostCounters struct {
	Comments  int64 `bson:"comments_count" json:"commentsCount"`
	Reactions int64 `bson:"reactions_count" json:"reactionsCount"`
	Shares    int64 `bson:"shares_count" json:"sharesCount"`
}

// Result summarizes a ReconcileAll run.
type Result struct {
	PostsScanned    int `json:"postsScanned"`
	PostsFixed      int `json:"postsFixed"`
	CommentsScanned int `json:"commentsScanned"`
	CommentsFixed   int `json:"commentsFixed"`
	// Skipped counts documents whose counters moved while being recounted.
	// The next pass picks them up.
	Skipped int `json:"skipped"`
}

// RecountPost recomputes a post's counters, writes them when they drifted,
// and returns the live values. Returns mongo.ErrNoDocuments if the post is gone.
func RecountPost(ctx context.Context, db *mongo.Database, postID primitive.ObjectID) (PostCounters, bool, error) {
	var stored PostCounters
	err := db.Collection("posts").FindOne(ctx, bson.M{"_id": postID},
		options.FindOne().SetProjection(bson.M{"comments_count": 1, "reactions_count": 1, "shares_count": 1}),
	).Decode(&stored)
	if err != nil {
		return PostCounters{}, false, err
	}

	var live PostCounters
	if live.Comments, err = db.Collection("comments").CountDocuments(ctx, bson.M{"post_id": postID}); err != nil {
		return PostCounters{}, false, err
	}
	if live.Reactions, err = db.Collection("reactions").CountDocuments(ctx, bson.M{"target_type": models.TargetPost, "target_id": postID}); err != nil {
		return PostCounters{}, false, err
	}
	if live.Shares, err = db.Collection("shares").CountDocuments(ctx, bson.M{"post_id": postID}); err != nil {
		return PostCounters{}, false, err
	}

	if live == stored {
		return live, false, nil
	}
	ok, err := setPostCounters(ctx, db, postID, stored, live)
	if err != nil {
		return PostCounters{}, false, err
	}
	return live, ok, nil
}

// RecountComment recomputes a comment's reactionsCount the same way.
func RecountComment(ctx context.Context, db *mongo.Database, commentID primitive.ObjectID) (int64, bool, error) {
	var stored struct {
		Reactions int64 `bson:"reactions_count"`
	}
	err := db.Collection("comments").FindOne(ctx, bson.M{"_id": commentID},
		options.FindOne().SetProjection(bson.M{"reactions_count": 1}),
	).Decode(&stored)
	if err != nil {
		return 0, false, err
	}

	live, err := db.Collection("reactions").CountDocuments(ctx, bson.M{"target_type": models.TargetComment, "target_id": commentID})
	if err != nil {
		return 0, false, err
	}
	if live == stored.Reactions {
		return live, false, nil
	}
	ok, err := setCommentCounter(ctx, db, commentID, stored.Reactions, live)
	if err != nil {
		return 0, false, err
	}
	return live, ok, nil
}

// ReconcileAll walks every post and comment in batches, fixing any counter
// that disagrees with the live child count. Drift is logged at Warn.
func ReconcileAll(ctx context.Context, db *mongo.Database, log *zap.Logger) (Result, error) {
	var res Result
	start := time.Now()

	err := eachBatch(ctx, db.Collection("posts"), bson.M{"comments_count": 1, "reactions_count": 1, "shares_count": 1},
		func(batch []bson.Raw) error {
			ids := make([]primitive.ObjectID, 0, len(batch))
			stored := make(map[primitive.ObjectID]PostCounters, len(batch))
			for _, raw := range batch {
				var row struct {
					ID           primitive.ObjectID `bson:"_id"`
					PostCounters `bson:",inline"`
				}
				if err := bson.Unmarshal(raw, &row); err != nil {
					return err
				}
				ids = append(ids, row.ID)
				stored[row.ID] = row.PostCounters
			}

			comments, err := countBy(ctx, db.Collection("comments"), bson.M{"post_id": bson.M{"$in": ids}}, "$post_id")
			if err != nil {
				return err
			}
			reactions, err := countBy(ctx, db.Collection("reactions"),
				bson.M{"target_type": models.TargetPost, "target_id": bson.M{"$in": ids}}, "$target_id")
			if err != nil {
				return err
			}
			shares, err := countBy(ctx, db.Collection("shares"), bson.M{"post_id": bson.M{"$in": ids}}, "$post_id")
			if err != nil {
				return err
			}

			for _, id := range ids {
				res.PostsScanned++
				live := PostCounters{Comments: comments[id], Reactions: reactions[id], Shares: shares[id]}
				if live == stored[id] {
					continue
				}
				log.Warn("post counter drift",
					zap.String("post_id", id.Hex()),
					zap.Any("stored", stored[id]),
					zap.Any("live", live))
				ok, err := setPostCounters(ctx, db, id, stored[id], live)
				if err != nil {
					return err
				}
				if !ok {
					res.Skipped++
					continue
				}
				res.PostsFixed++
			}
			return nil
		})
	if err != nil {
		return res, err
	}

	err = eachBatch(ctx, db.Collection("comments"), bson.M{"reactions_count": 1},
		func(batch []bson.Raw) error {
			ids := make([]primitive.ObjectID, 0, len(batch))
			stored := make(map[primitive.ObjectID]int64, len(batch))
			for _, raw := range batch {
				var row struct {
					ID        primitive.ObjectID `bson:"_id"`
					Reactions int64              `bson:"reactions_count"`
				}
				if err := bson.Unmarshal(raw, &row); err != nil {
					return err
				}
				ids = append(ids, row.ID)
				stored[row.ID] = row.Reactions
			}

			reactions, err := countBy(ctx, db.Collection("reactions"),
				bson.M{"target_type": models.TargetComment, "target_id": bson.M{"$in": ids}}, "$target_id")
			if err != nil {
				return err
			}
			for _, id := range ids {
				res.CommentsScanned++
				if reactions[id] == stored[id] {
					continue
				}
				log.Warn("comment counter drift",
					zap.String("comment_id", id.Hex()),
					zap.Int64("stored", stored[id]),
					zap.Int64("live", reactions[id]))
				ok, err := setCommentCounter(ctx, db, id, stored[id], reactions[id])
				if err != nil {
					return err
				}
				if !ok {
					res.Skipped++
					continue
				}
				res.CommentsFixed++
			}
			return nil
		})
	if err != nil {
		return res, err
	}

	log.Info("counter reconciliation finished",
		zap.Int("posts_scanned", res.PostsScanned),
		zap.Int("posts_fixed", res.PostsFixed),
		zap.Int("comments_scanned", res.CommentsScanned),
		zap.Int("comments_fixed", res.CommentsFixed),
		zap.Int("skipped", res.Skipped),
		zap.Duration("elapsed", time.Since(start)))
	return res, nil
}

// setPostCounters writes live only while the post still holds the stored
// values the recount started from, so an $inc that lands mid-recount is never
// overwritten. Reports whether the write happened.
func setPostCounters(ctx context.Context, db *mongo.Database, id primitive.ObjectID, stored, live PostCounters) (bool, error) {
	res, err := db.Collection("posts").UpdateOne(ctx, bson.M{
		"_id":             id,
		"comments_count":  stored.Comments,
		"reactions_count": stored.Reactions,
		"shares_count":    stored.Shares,
	}, bson.M{"$set": bson.M{
		"comments_count":  live.Comments,
		"reactions_count": live.Reactions,
		"shares_count":    live.Shares,
	}})
	if err != nil {
		return false, err
	}
	return res.MatchedCount == 1, nil
}

func setCommentCounter(ctx context.Context, db *mongo.Database, id primitive.ObjectID, stored, live int64) (bool, error) {
	res, err := db.Collection("comments").UpdateOne(ctx,
		bson.M{"_id": id, "reactions_count": stored},
		bson.M{"$set": bson.M{"reactions_count": live}})
	if err != nil {
		return false, err
	}
	return res.MatchedCount == 1, nil
}

// eachBatch streams projected documents of c in _id order and hands them to fn
// batchSize at a time.
func eachBatch(ctx context.Context, c *mongo.Collection, projection bson.M, fn func([]bson.Raw) error) error {
	cur, err := c.Find(ctx, bson.M{}, options.Find().
		SetProjection(projection).
		SetSort(bson.D{{Key: "_id", Value: 1}}).
		SetBatchSize(batchSize))
	if err != nil {
		return err
	}
	defer cur.Close(ctx)

	batch := make([]bson.Raw, 0, batchSize)
	for cur.Next(ctx) {
		batch = append(batch, append(bson.Raw(nil), cur.Current...))
		if len(batch) == batchSize {
			if err := fn(batch); err != nil {
				return err
			}
			batch = batch[:0]
		}
	}
	if err := cur.Err(); err != nil {
		return err
	}
	if len(batch) > 0 {
		return fn(batch)
	}
	return nil
}

// countBy groups the documents matching match by key and counts each group.
func countBy(ctx context.Context, c *mongo.Collection, match bson.M, key string) (map[primitive.ObjectID]int64, error) {
	pipeline := []bson.M{
		{"$match": match},
		{"$group": bson.M{"_id": key, "count": bson.M{"$sum": 1}}},
	}
	cur, err := c.Aggregate(ctx, pipeline)
	if err != nil {
		return nil, err
	}
	defer cur.Close(ctx)

	out := make(map[primitive.ObjectID]int64)
	for cur.Next(ctx) {
		var row struct {
			ID    primitive.ObjectID `bson:"_id"`
			Count int64              `bson:"count"`
		}
		if err := cur.Decode(&row); err != nil {
			return nil, err
		}
		out[row.ID] = row.Count
	}
	return out, cur.Err()
}
