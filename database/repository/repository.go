package repository

import (
	availabilityRepo "receptionist/database/repository/availability"
	bookingRepo "receptionist/database/repository/booking"
	businessRepo "receptionist/database/repository/business"
	providerRepo "receptionist/database/repository/provider"
)

// Re-export the BusinessRepository interface and constructor.
type BusinessRepository = businessRepo.BusinessRepository

var NewMongoBusinessRepo = businessRepo.NewMongoBusinessRepo

// Re-export the AvailabilityRepository interface and constructor.
type AvailabilityRepository = availabilityRepo.AvailabilityRepository

var NewMongoAvailabilityRepo = availabilityRepo.NewMongoAvailabilityRepo

// Re-export the BookingRepository interface and constructor.
type BookingRepository = bookingRepo.BookingRepository

var NewMongoBookingRepo = bookingRepo.NewMongoBookingRepo

// Re-export the ProviderRepository interface and constructor.
type ProviderRepository = providerRepo.ProviderRepository

var NewMongoProviderRepo = providerRepo.NewMongoProviderRepo
