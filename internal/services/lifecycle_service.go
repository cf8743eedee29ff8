package services

import (
	"context"
	"fmt"
	"time"

	"ridepool/internal/repositories/interfaces"
	"ridepool/internal/utils"
	"ridepool/pkg/logger"
)

const (
	LifecycleJobAutoCompleteTrips = "auto_complete_trips"
	LifecycleJobExpirePendings    = "expire_pendings"
	LifecycleJobAll               = "all"
)

// LifecycleResult reports how many documents each batch job moved.
type LifecycleResult struct {
	CompletedTrips  int64 `json:"completed_trips"`
	ExpiredPendings int64 `json:"expired_pendings"`
}

// LifecycleJobService owns the time-driven batch transitions. The jobs are
// idempotent set-operations: re-running one only touches documents still
// matching its predicate. Scheduling lives outside the core; these are
// invoked by an admin action or an external scheduler.
type LifecycleJobService interface {
	AutoCompleteTrips(ctx context.Context) (int64, error)
	ExpirePendings(ctx context.Context, ttlHours int) (int64, error)
	Run(ctx context.Context, name string, ttlHours int) (*LifecycleResult, error)
}

type lifecycleJobService struct {
	tripRepo        interfaces.TripOfferRepository
	bookingRepo     interfaces.BookingRequestRepository
	defaultTTLHours int
	logger          *logger.Logger
}

func NewLifecycleJobService(
	tripRepo interfaces.TripOfferRepository,
	bookingRepo interfaces.BookingRequestRepository,
	defaultTTLHours int,
	log *logger.Logger,
) LifecycleJobService {
	if defaultTTLHours <= 0 {
		defaultTTLHours = utils.DefaultPendingTTLHours
	}
	return &lifecycleJobService{
		tripRepo:        tripRepo,
		bookingRepo:     bookingRepo,
		defaultTTLHours: defaultTTLHours,
		logger:          log,
	}
}

func (s *lifecycleJobService) AutoCompleteTrips(ctx context.Context) (int64, error) {
	count, err := s.tripRepo.CompletePastTrips(ctx, time.Now())
	if err != nil {
		return 0, err
	}

	if count > 0 {
		s.logger.WithField("count", count).Info("Auto-completed past trips")
	}

	return count, nil
}

func (s *lifecycleJobService) ExpirePendings(ctx context.Context, ttlHours int) (int64, error) {
	if ttlHours <= 0 {
		ttlHours = s.defaultTTLHours
	}

	cutoff := time.Now().Add(-time.Duration(ttlHours) * time.Hour)
	count, err := s.bookingRepo.ExpireOlderThan(ctx, cutoff)
	if err != nil {
		return 0, err
	}

	if count > 0 {
		s.logger.WithFields(map[string]interface{}{
			"count":     count,
			"ttl_hours": ttlHours,
		}).Info("Expired stale pending bookings")
	}

	return count, nil
}

func (s *lifecycleJobService) Run(ctx context.Context, name string, ttlHours int) (*LifecycleResult, error) {
	result := &LifecycleResult{}

	switch name {
	case LifecycleJobAutoCompleteTrips:
		completed, err := s.AutoCompleteTrips(ctx)
		if err != nil {
			return nil, err
		}
		result.CompletedTrips = completed
	case LifecycleJobExpirePendings:
		expired, err := s.ExpirePendings(ctx, ttlHours)
		if err != nil {
			return nil, err
		}
		result.ExpiredPendings = expired
	case LifecycleJobAll, "":
		completed, err := s.AutoCompleteTrips(ctx)
		if err != nil {
			return nil, err
		}
		result.CompletedTrips = completed

		expired, err := s.ExpirePendings(ctx, ttlHours)
		if err != nil {
			return result, err
		}
		result.ExpiredPendings = expired
	default:
		return nil, fmt.Errorf("unknown lifecycle job %q", name)
	}

	return result, nil
}
