package utils

import "time"

// Application Constants
const (
	AppName    = "RidePool"
	AppVersion = "1.0.0"

	// Pagination
	DefaultPageSize = 20
	MaxPageSize     = 100
	MinPageSize     = 1

	// Authentication
	JWTAccessTokenTTL  = 24 * time.Hour
	JWTRefreshTokenTTL = 7 * 24 * time.Hour

	// Booking Constants
	DefaultPendingTTLHours = 48
	DefaultRefundCutoff    = 24 * time.Hour
	MaxSeatsPerBooking     = 8

	// Response status values
	StatusSuccess = "success"
	StatusError   = "error"
)
