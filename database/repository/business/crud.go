package businessRepo

import (
	"context"
	"errors"
	"fmt"
	"time"

	"receptionist/database"
	"receptionist/models"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

func (r *mongoBusinessRepo) GetBusiness(ctx context.Context, businessID string) (*models.Business, error) {
	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	var business models.Business
	err := r.businesses.FindOne(ctx, bson.M{"id": businessID}).Decode(&business)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return nil, fmt.Errorf("business %s: %w", businessID, database.ErrNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to fetch business with id %s: %w", businessID, err)
	}
	return &business, nil
}

func (r *mongoBusinessRepo) GetService(ctx context.Context, serviceID string) (*models.Service, error) {
	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	var service models.Service
	err := r.services.FindOne(ctx, bson.M{"id": serviceID}).Decode(&service)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return nil, fmt.Errorf("service %s: %w", serviceID, database.ErrNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to fetch service with id %s: %w", serviceID, err)
	}
	return &service, nil
}

func (r *mongoBusinessRepo) ListServices(ctx context.Context, businessID string) ([]models.Service, error) {
	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	cursor, err := r.services.Find(ctx, bson.M{"business_id": businessID})
	if err != nil {
		return nil, fmt.Errorf("failed to find services for business %s: %w", businessID, err)
	}
	defer cursor.Close(ctx)

	var services []models.Service
	if err := cursor.All(ctx, &services); err != nil {
		return nil, fmt.Errorf("failed to decode services: %w", err)
	}
	return services, nil
}

func (r *mongoBusinessRepo) ListBusinessIDs(ctx context.Context) ([]string, error) {
	ctx, cancel := context.WithTimeout(ctx, 10*time.Second)
	defer cancel()

	opts := options.Find().SetProjection(bson.M{"id": 1})
	cursor, err := r.businesses.Find(ctx, bson.M{}, opts)
	if err != nil {
		return nil, fmt.Errorf("failed to list businesses: %w", err)
	}
	defer cursor.Close(ctx)

	var ids []string
	for cursor.Next(ctx) {
		var doc struct {
			ID string `bson:"id"`
		}
		if err := cursor.Decode(&doc); err != nil {
			return nil, fmt.Errorf("failed to decode business id: %w", err)
		}
		ids = append(ids, doc.ID)
	}
	return ids, cursor.Err()
}

func (r *mongoBusinessRepo) UpsertBusiness(ctx context.Context, business *models.Business) error {
	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	_, err := r.businesses.ReplaceOne(ctx, bson.M{"id": business.ID}, business, options.Replace().SetUpsert(true))
	if err != nil {
		return fmt.Errorf("failed to upsert business %s: %w", business.ID, err)
	}
	return nil
}

func (r *mongoBusinessRepo) UpsertService(ctx context.Context, service *models.Service) error {
	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	_, err := r.services.ReplaceOne(ctx, bson.M{"id": service.ID}, service, options.Replace().SetUpsert(true))
	if err != nil {
		return fmt.Errorf("failed to upsert service %s: %w", service.ID, err)
	}
	return nil
}
