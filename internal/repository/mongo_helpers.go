package repository

import (
	"context"
	"fmt"
	"time"

	"github.com/healthmate/healthmate-api/internal/domain"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// objectID parses a hex id. Malformed ids cannot match any document, so they
// surface as not found.
func objectID(id string) (primitive.ObjectID, error) {
	oid, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return primitive.NilObjectID, domain.ErrNotFound
	}
	return oid, nil
}

// ownedFilter matches a document by id scoped to its owner
func ownedFilter(userID, id string) (bson.M, error) {
	oid, err := objectID(id)
	if err != nil {
		return nil, err
	}
	return bson.M{"_id": oid, "user_id": userID}, nil
}

func insertedHex(result *mongo.InsertOneResult) string {
	if oid, ok := result.InsertedID.(primitive.ObjectID); ok {
		return oid.Hex()
	}
	return ""
}

// applyDateRange adds an inclusive range on field when either bound is set
func applyDateRange(filter bson.M, field string, dates domain.DateRange) {
	if dates.From == nil && dates.To == nil {
		return
	}
	cond := bson.M{}
	if dates.From != nil {
		cond["$gte"] = *dates.From
	}
	if dates.To != nil {
		cond["$lte"] = *dates.To
	}
	filter[field] = cond
}

func pageOptions(page domain.Page, sort bson.D) *options.FindOptions {
	return options.Find().
		SetSort(sort).
		SetSkip(page.Skip()).
		SetLimit(int64(page.Limit))
}

// findPage runs a paginated find plus the matching count
func findPage[T any](ctx context.Context, coll *mongo.Collection, filter bson.M, page domain.Page, sort bson.D) ([]*T, int64, error) {
	total, err := coll.CountDocuments(ctx, filter)
	if err != nil {
		return nil, 0, fmt.Errorf("failed to count %s: %w", coll.Name(), err)
	}

	items, err := findAll[T](ctx, coll, filter, pageOptions(page, sort))
	if err != nil {
		return nil, 0, err
	}
	return items, total, nil
}

func findAll[T any](ctx context.Context, coll *mongo.Collection, filter bson.M, opts ...*options.FindOptions) ([]*T, error) {
	cursor, err := coll.Find(ctx, filter, opts...)
	if err != nil {
		return nil, fmt.Errorf("failed to query %s: %w", coll.Name(), err)
	}
	defer cursor.Close(ctx)

	items := make([]*T, 0)
	if err := cursor.All(ctx, &items); err != nil {
		return nil, fmt.Errorf("failed to decode %s: %w", coll.Name(), err)
	}
	return items, nil
}

func findOne[T any](ctx context.Context, coll *mongo.Collection, filter bson.M, opts ...*options.FindOneOptions) (*T, error) {
	var item T
	if err := coll.FindOne(ctx, filter, opts...).Decode(&item); err != nil {
		if err == mongo.ErrNoDocuments {
			return nil, domain.ErrNotFound
		}
		return nil, fmt.Errorf("failed to get %s: %w", coll.Name(), err)
	}
	return &item, nil
}

func deleteOne(ctx context.Context, coll *mongo.Collection, filter bson.M) error {
	result, err := coll.DeleteOne(ctx, filter)
	if err != nil {
		return fmt.Errorf("failed to delete from %s: %w", coll.Name(), err)
	}
	if result.DeletedCount == 0 {
		return domain.ErrNotFound
	}
	return nil
}

// countByDay groups documents created in [from, to] by UTC calendar day
func countByDay(ctx context.Context, coll *mongo.Collection, field string, from, to time.Time) ([]domain.DailyCount, error) {
	pipeline := mongo.Pipeline{
		{{Key: "$match", Value: bson.M{field: bson.M{"$gte": from, "$lte": to}}}},
		{{Key: "$group", Value: bson.M{
			"_id":   bson.M{"$dateToString": bson.M{"format": "%Y-%m-%d", "date": "$" + field}},
			"count": bson.M{"$sum": 1},
		}}},
		{{Key: "$sort", Value: bson.D{{Key: "_id", Value: 1}}}},
	}

	cursor, err := coll.Aggregate(ctx, pipeline)
	if err != nil {
		return nil, fmt.Errorf("failed to aggregate %s by day: %w", coll.Name(), err)
	}
	defer cursor.Close(ctx)

	days := make([]domain.DailyCount, 0)
	if err := cursor.All(ctx, &days); err != nil {
		return nil, fmt.Errorf("failed to decode daily counts: %w", err)
	}
	return days, nil
}

// aggregateOne decodes the single document produced by a $group on null.
// An empty collection leaves dest untouched.
func aggregateOne(ctx context.Context, coll *mongo.Collection, pipeline mongo.Pipeline, dest interface{}) error {
	cursor, err := coll.Aggregate(ctx, pipeline)
	if err != nil {
		return fmt.Errorf("failed to aggregate %s: %w", coll.Name(), err)
	}
	defer cursor.Close(ctx)

	if cursor.Next(ctx) {
		if err := cursor.Decode(dest); err != nil {
			return fmt.Errorf("failed to decode %s totals: %w", coll.Name(), err)
		}
	}
	return cursor.Err()
}

func createIndexes(coll *mongo.Collection, models ...mongo.IndexModel) {
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	_, _ = coll.Indexes().CreateMany(ctx, models)
}
