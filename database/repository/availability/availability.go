package availabilityRepo

import (
	"context"
	"errors"
	"fmt"
	"time"

	"receptionist/models"
	"receptionist/services/availability"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// AvailabilityRepository stores one versioned slot table per business.
type AvailabilityRepository interface {
	Get(ctx context.Context, businessID string) (*models.AvailabilitySlots, error)
	CompareAndSwap(ctx context.Context, slots *models.AvailabilitySlots, expectedVersion int) error
	Upsert(ctx context.Context, slots *models.AvailabilitySlots) error
}

type mongoAvailabilityRepo struct {
	coll *mongo.Collection
}

// NewMongoAvailabilityRepo uses the "availability" collection of db.
func NewMongoAvailabilityRepo(db *mongo.Database) (AvailabilityRepository, error) {
	r := &mongoAvailabilityRepo{coll: db.Collection("availability")}
	if err := r.EnsureIndexes(); err != nil {
		return nil, err
	}
	return r, nil
}

// Get returns availability.ErrAvailabilityDataMissing when the business has no table.
func (r *mongoAvailabilityRepo) Get(ctx context.Context, businessID string) (*models.AvailabilitySlots, error) {
	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	var slots models.AvailabilitySlots
	err := r.coll.FindOne(ctx, bson.M{"business_id": businessID}).Decode(&slots)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return nil, availability.ErrAvailabilityDataMissing
	}
	if err != nil {
		return nil, fmt.Errorf("failed to fetch availability for business %s: %w", businessID, err)
	}
	return &slots, nil
}

// CompareAndSwap writes slots only while the stored version still equals expectedVersion.
func (r *mongoAvailabilityRepo) CompareAndSwap(ctx context.Context, slots *models.AvailabilitySlots, expectedVersion int) error {
	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	filter := bson.M{
		"business_id": slots.BusinessID,
		"version":     expectedVersion,
	}
	update := bson.M{
		"$set": bson.M{
			"slots":      slots.Slots,
			"updated_at": slots.UpdatedAt,
			"version":    expectedVersion + 1,
		},
	}

	res, err := r.coll.UpdateOne(ctx, filter, update)
	if err != nil {
		return fmt.Errorf("failed to update availability: %w", err)
	}
	if res.MatchedCount == 0 {
		return availability.ErrVersionConflict
	}
	return nil
}

func (r *mongoAvailabilityRepo) Upsert(ctx context.Context, slots *models.AvailabilitySlots) error {
	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	_, err := r.coll.ReplaceOne(ctx, bson.M{"business_id": slots.BusinessID}, slots, options.Replace().SetUpsert(true))
	if err != nil {
		return fmt.Errorf("failed to upsert availability: %w", err)
	}
	return nil
}

// EnsureIndexes creates the unique business index the swap filter relies on.
func (r *mongoAvailabilityRepo) EnsureIndexes() error {
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	indexModels := []mongo.IndexModel{
		{
			Keys:    bson.D{{Key: "business_id", Value: 1}},
			Options: options.Index().SetUnique(true).SetName("unique_business"),
		},
	}
	if _, err := r.coll.Indexes().CreateMany(ctx, indexModels); err != nil {
		return fmt.Errorf("failed to create availability indexes: %w", err)
	}
	return nil
}
