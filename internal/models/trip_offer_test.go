package models

import (
	"testing"
	"time"
)

func TestTripStatusTransitions(t *testing.T) {
	cases := []struct {
		from    TripStatus
		to      TripStatus
		allowed bool
	}{
		{TripStatusDraft, TripStatusPublished, true},
		{TripStatusDraft, TripStatusCanceled, true},
		{TripStatusDraft, TripStatusCompleted, false},
		{TripStatusPublished, TripStatusCanceled, true},
		{TripStatusPublished, TripStatusCompleted, true},
		{TripStatusPublished, TripStatusDraft, false},
		{TripStatusCanceled, TripStatusPublished, false},
		{TripStatusCompleted, TripStatusCanceled, false},
	}

	for _, tc := range cases {
		if got := tc.from.CanTransition(tc.to); got != tc.allowed {
			t.Errorf("%s -> %s: got %v, want %v", tc.from, tc.to, got, tc.allowed)
		}
	}
}

func TestTripStatusIsTerminal(t *testing.T) {
	if TripStatusDraft.IsTerminal() || TripStatusPublished.IsTerminal() {
		t.Error("draft and published are not terminal")
	}
	if !TripStatusCanceled.IsTerminal() || !TripStatusCompleted.IsTerminal() {
		t.Error("canceled and completed are terminal")
	}
}

func TestTripOverlaps(t *testing.T) {
	base := time.Date(2026, 6, 1, 10, 0, 0, 0, time.UTC)
	trip := &TripOffer{
		DepartureAt:        base,
		EstimatedArrivalAt: base.Add(2 * time.Hour),
	}

	cases := []struct {
		name      string
		departure time.Time
		arrival   time.Time
		want      bool
	}{
		{"identical interval", base, base.Add(2 * time.Hour), true},
		{"partial overlap", base.Add(time.Hour), base.Add(3 * time.Hour), true},
		{"contained", base.Add(30 * time.Minute), base.Add(time.Hour), true},
		{"touching end", base.Add(2 * time.Hour), base.Add(4 * time.Hour), false},
		{"touching start", base.Add(-2 * time.Hour), base, false},
		{"disjoint", base.Add(5 * time.Hour), base.Add(6 * time.Hour), false},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			if got := trip.Overlaps(tc.departure, tc.arrival); got != tc.want {
				t.Errorf("got %v, want %v", got, tc.want)
			}
		})
	}
}

func TestTripHasValidTimeRange(t *testing.T) {
	now := time.Now()
	trip := &TripOffer{DepartureAt: now, EstimatedArrivalAt: now.Add(time.Hour)}
	if !trip.HasValidTimeRange() {
		t.Error("departure before arrival should be valid")
	}

	trip.EstimatedArrivalAt = now
	if trip.HasValidTimeRange() {
		t.Error("zero-length trips are invalid")
	}
}
