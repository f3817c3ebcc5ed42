package mongo

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/utilitrack/usage-system/internal/core/domain"
)

const recommendationsCollection = "recommendations"

// RecommendationRepository persists generated advisories. Inserts only;
// advisories are never updated or deleted.
type RecommendationRepository struct {
	coll *mongo.Collection
}

func NewRecommendationRepository(db *mongo.Database) *RecommendationRepository {
	return &RecommendationRepository{coll: db.Collection(recommendationsCollection)}
}

type mongoRecommendation struct {
	ID        primitive.ObjectID `bson:"_id,omitempty"`
	UserID    string             `bson:"user_id"`
	Type      string             `bson:"energy_type"`
	Date      time.Time          `bson:"date"`
	Text      string             `bson:"recommendation"`
	CreatedAt time.Time          `bson:"created_at"`
}

func (r *RecommendationRepository) Create(ctx context.Context, rec *domain.Recommendation) error {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	doc := mongoRecommendation{
		UserID:    rec.UserID,
		Type:      string(rec.Type),
		Date:      rec.Date.UTC(),
		Text:      rec.Text,
		CreatedAt: rec.CreatedAt.UTC(),
	}

	res, err := r.coll.InsertOne(ctx, doc)
	if err != nil {
		return fmt.Errorf("insert recommendation: %w", err)
	}
	if oid, ok := res.InsertedID.(primitive.ObjectID); ok {
		rec.ID = oid.Hex()
	}
	return nil
}

// FindMostRecent returns the newest advisory by insertion order.
func (r *RecommendationRepository) FindMostRecent(ctx context.Context, userID string) (*domain.Recommendation, error) {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	opts := options.FindOne().SetSort(bson.D{{Key: "_id", Value: -1}})

	var mr mongoRecommendation
	err := r.coll.FindOne(ctx, bson.M{"user_id": userID}, opts).Decode(&mr)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, domain.ErrRecommendationNotFound
		}
		return nil, fmt.Errorf("find recommendation: %w", err)
	}

	return &domain.Recommendation{
		ID:        mr.ID.Hex(),
		UserID:    mr.UserID,
		Type:      domain.UtilityType(mr.Type),
		Date:      mr.Date.UTC(),
		Text:      mr.Text,
		CreatedAt: mr.CreatedAt.UTC(),
	}, nil
}
