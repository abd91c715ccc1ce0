package businessRepo

import (
	"context"

	"receptionist/models"

	"go.mongodb.org/mongo-driver/mongo"
)

// BusinessRepository gives access to businesses and the services they sell.
type BusinessRepository interface {
	GetBusiness(ctx context.Context, businessID string) (*models.Business, error)
	GetService(ctx context.Context, serviceID string) (*models.Service, error)
	ListServices(ctx context.Context, businessID string) ([]models.Service, error)
	ListBusinessIDs(ctx context.Context) ([]string, error)
	UpsertBusiness(ctx context.Context, business *models.Business) error
	UpsertService(ctx context.Context, service *models.Service) error
}

type mongoBusinessRepo struct {
	businesses *mongo.Collection
	services   *mongo.Collection
}

// NewMongoBusinessRepo uses the "businesses" and "services" collections of db.
func NewMongoBusinessRepo(db *mongo.Database) (BusinessRepository, error) {
	r := &mongoBusinessRepo{
		businesses: db.Collection("businesses"),
		services:   db.Collection("services"),
	}
	if err := r.ensureIndexes(); err != nil {
		return nil, err
	}
	return r, nil
}
