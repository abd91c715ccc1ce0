package providerRepo

import (
	"context"
	"fmt"
	"time"

	"receptionist/database"
	"receptionist/models"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// MongoProviderRepo implements ProviderRepository using MongoDB.
type MongoProviderRepo struct {
	coll *mongo.Collection
}

// NewMongoProviderRepo uses the "provider_calendars" collection of db.
func NewMongoProviderRepo(db *mongo.Database) (ProviderRepository, error) {
	r := &MongoProviderRepo{coll: db.Collection("provider_calendars")}
	if err := r.ensureIndexes(); err != nil {
		return nil, err
	}
	return r, nil
}

func (r *MongoProviderRepo) ListCalendars(ctx context.Context, businessID string) ([]models.ProviderCalendar, error) {
	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	cursor, err := r.coll.Find(ctx, bson.M{"business_id": businessID})
	if err != nil {
		return nil, fmt.Errorf("failed to find calendars for business %s: %w", businessID, err)
	}
	defer cursor.Close(ctx)

	var calendars []models.ProviderCalendar
	if err := cursor.All(ctx, &calendars); err != nil {
		return nil, fmt.Errorf("failed to decode provider calendars: %w", err)
	}
	return calendars, nil
}

func (r *MongoProviderRepo) UpsertCalendar(ctx context.Context, calendar *models.ProviderCalendar) error {
	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	filter := bson.M{"business_id": calendar.BusinessID, "provider_id": calendar.ProviderID}
	_, err := r.coll.ReplaceOne(ctx, filter, calendar, options.Replace().SetUpsert(true))
	if err != nil {
		return fmt.Errorf("failed to upsert calendar for provider %s: %w", calendar.ProviderID, err)
	}
	return nil
}

func (r *MongoProviderRepo) DeleteCalendar(ctx context.Context, businessID, providerID string) error {
	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	res, err := r.coll.DeleteOne(ctx, bson.M{"business_id": businessID, "provider_id": providerID})
	if err != nil {
		return fmt.Errorf("failed to delete calendar for provider %s: %w", providerID, err)
	}
	if res.DeletedCount == 0 {
		return database.ErrNotFound
	}
	return nil
}
