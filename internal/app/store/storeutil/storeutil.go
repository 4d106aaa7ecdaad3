// Package storeutil holds the Mongo access patterns shared by the store packages.
package storeutil

import (
	"context"
	"time"

	"github.com/dalemusser/mindhub/internal/app/system/paging"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// FindByID decodes the document with _id == id. Returns mongo.ErrNoDocuments if absent.
func FindByID[T any](ctx context.Context, c *mongo.Collection, id primitive.ObjectID) (*T, error) {
	var out T
	if err := c.FindOne(ctx, bson.M{"_id": id}).Decode(&out); err != nil {
		return nil, err
	}
	return &out, nil
}

// FindOne decodes the first document matching filter. Returns mongo.ErrNoDocuments if absent.
func FindOne[T any](ctx context.Context, c *mongo.Collection, filter interface{}) (*T, error) {
	var out T
	if err := c.FindOne(ctx, filter).Decode(&out); err != nil {
		return nil, err
	}
	return &out, nil
}

// FindPage returns one page of documents matching filter plus the total match count.
// Items is never nil so it encodes as [] rather than null.
func FindPage[T any](ctx context.Context, c *mongo.Collection, filter interface{}, sort bson.D, p paging.Params) ([]T, int64, error) {
	total, err := c.CountDocuments(ctx, filter)
	if err != nil {
		return nil, 0, err
	}
	items := make([]T, 0, p.Limit)
	if total == 0 {
		return items, 0, nil
	}
	cur, err := c.Find(ctx, filter, p.FindOptions(sort))
	if err != nil {
		return nil, 0, err
	}
	defer cur.Close(ctx)
	if err := cur.All(ctx, &items); err != nil {
		return nil, 0, err
	}
	return items, total, nil
}

// Exists reports whether any document matches filter.
func Exists(ctx context.Context, c *mongo.Collection, filter interface{}) (bool, error) {
	err := c.FindOne(ctx, filter, options.FindOne().SetProjection(bson.M{"_id": 1})).Err()
	if err == mongo.ErrNoDocuments {
		return false, nil
	}
	if err != nil {
		return false, err
	}
	return true, nil
}

// UpdateByID applies set (plus updated_at) to the document with _id == id and
// returns the updated document. Returns mongo.ErrNoDocuments if absent.
func UpdateByID[T any](ctx context.Context, c *mongo.Collection, id primitive.ObjectID, set bson.M) (*T, error) {
	if set == nil {
		set = bson.M{}
	}
	set["updated_at"] = time.Now().UTC()
	var out T
	err := c.FindOneAndUpdate(ctx,
		bson.M{"_id": id},
		bson.M{"$set": set},
		options.FindOneAndUpdate().SetReturnDocument(options.After),
	).Decode(&out)
	if err != nil {
		return nil, err
	}
	return &out, nil
}

// DeleteByID removes the document with _id == id and reports whether one existed.
func DeleteByID(ctx context.Context, c *mongo.Collection, id primitive.ObjectID) (bool, error) {
	res, err := c.DeleteOne(ctx, bson.M{"_id": id})
	if err != nil {
		return false, err
	}
	return res.DeletedCount > 0, nil
}

// IncCounter adds delta to field on the document with _id == id.
// A decrement never takes the counter below zero: when the stored value is
// already too small the update matches nothing and the counter is left for
// reconciliation. Returns whether a document was modified.
func IncCounter(ctx context.Context, c *mongo.Collection, id primitive.ObjectID, field string, delta int64) (bool, error) {
	filter := bson.M{"_id": id}
	if delta < 0 {
		filter[field] = bson.M{"$gte": -delta}
	}
	res, err := c.UpdateOne(ctx, filter, bson.M{"$inc": bson.M{field: delta}})
	if err != nil {
		return false, err
	}
	return res.ModifiedCount > 0, nil
}
