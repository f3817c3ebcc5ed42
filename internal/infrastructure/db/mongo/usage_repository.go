package mongo

import (
	"context"
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/utilitrack/usage-system/internal/core/domain"
)

const usageCollection = "usage_records"

// UsageRepository persists the append-only usage ledger.
type UsageRepository struct {
	coll *mongo.Collection
}

func NewUsageRepository(db *mongo.Database) *UsageRepository {
	return &UsageRepository{coll: db.Collection(usageCollection)}
}

type mongoUsageRecord struct {
	ID         primitive.ObjectID `bson:"_id,omitempty"`
	UserID     string             `bson:"user_id"`
	Type       string             `bson:"energy_type"`
	Units      float64            `bson:"units_used"`
	RecordedAt time.Time          `bson:"date_recorded"`
	CreatedAt  time.Time          `bson:"created_at"`
}

func (r *UsageRepository) Create(ctx context.Context, rec *domain.UsageRecord) error {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	doc := mongoUsageRecord{
		UserID:     rec.UserID,
		Type:       string(rec.Type),
		Units:      rec.Units,
		RecordedAt: rec.RecordedAt.UTC(),
		CreatedAt:  rec.CreatedAt.UTC(),
	}

	res, err := r.coll.InsertOne(ctx, doc)
	if err != nil {
		return fmt.Errorf("insert usage record: %w", err)
	}
	if oid, ok := res.InsertedID.(primitive.ObjectID); ok {
		rec.ID = oid.Hex()
	}
	return nil
}

// FindRange returns readings in [start, end] in insertion order.
func (r *UsageRepository) FindRange(ctx context.Context, userID string, t domain.UtilityType, start, end time.Time) ([]domain.UsageRecord, error) {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	filter := bson.M{
		"energy_type":   string(t),
		"date_recorded": bson.M{"$gte": start.UTC(), "$lte": end.UTC()},
	}
	if userID != "" {
		filter["user_id"] = userID
	}

	cursor, err := r.coll.Find(ctx, filter, options.Find().SetSort(bson.D{{Key: "_id", Value: 1}}))
	if err != nil {
		return nil, fmt.Errorf("find usage records: %w", err)
	}
	defer cursor.Close(ctx)

	var records []domain.UsageRecord
	for cursor.Next(ctx) {
		var mr mongoUsageRecord
		if err := cursor.Decode(&mr); err != nil {
			return nil, fmt.Errorf("decode usage record: %w", err)
		}
		records = append(records, domain.UsageRecord{
			ID:         mr.ID.Hex(),
			UserID:     mr.UserID,
			Type:       domain.UtilityType(mr.Type),
			Units:      mr.Units,
			RecordedAt: mr.RecordedAt.UTC(),
			CreatedAt:  mr.CreatedAt.UTC(),
		})
	}
	if err := cursor.Err(); err != nil {
		return nil, fmt.Errorf("find usage records: %w", err)
	}
	return records, nil
}

// Average computes the unrounded mean units for the type via an aggregation
// pipeline, scoped to one user when userID is non-empty. Absence of data is
// a valid zero-usage state, not an error.
func (r *UsageRepository) Average(ctx context.Context, userID string, t domain.UtilityType) (float64, error) {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	match := bson.M{"energy_type": string(t)}
	if userID != "" {
		match["user_id"] = userID
	}

	pipeline := mongo.Pipeline{
		{{Key: "$match", Value: match}},
		{{Key: "$group", Value: bson.M{
			"_id":  nil,
			"mean": bson.M{"$avg": "$units_used"},
		}}},
	}

	cursor, err := r.coll.Aggregate(ctx, pipeline)
	if err != nil {
		return 0, fmt.Errorf("average usage: %w", err)
	}
	defer cursor.Close(ctx)

	var result struct {
		Mean float64 `bson:"mean"`
	}
	if cursor.Next(ctx) {
		if err := cursor.Decode(&result); err != nil {
			return 0, fmt.Errorf("decode average: %w", err)
		}
	}
	if err := cursor.Err(); err != nil {
		return 0, fmt.Errorf("average usage: %w", err)
	}
	return result.Mean, nil
}

// EnsureIndexes creates the indexes backing range queries.
func (r *UsageRepository) EnsureIndexes(ctx context.Context) error {
	ctx, cancel := context.WithTimeout(ctx, 30*time.Second)
	defer cancel()

	indexes := []mongo.IndexModel{
		{Keys: bson.D{{Key: "user_id", Value: 1}, {Key: "energy_type", Value: 1}, {Key: "date_recorded", Value: -1}}},
		{Keys: bson.D{{Key: "energy_type", Value: 1}}},
	}

	_, err := r.coll.Indexes().CreateMany(ctx, indexes)
	return err
}
