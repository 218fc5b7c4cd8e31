package inventory

import (
	"testing"
	"time"

	"camellia/models"
)

func hold(user string, qty int, expiresAt time.Time) models.Reservation {
	return models.Reservation{
		UserID:    user,
		ProductID: "choce-nutmelt",
		Quantity:  qty,
		ExpiresAt: expiresAt,
	}
}

func TestAvailableToPromise(t *testing.T) {
	now := time.Now()
	live := now.Add(10 * time.Minute)

	holds := []models.Reservation{
		hold("a@example.com", 4, live),
		hold("b@example.com", 3, live),
	}

	// A user's own hold must not count against themselves.
	if got := AvailableToPromise(10, holds, "a@example.com", now); got != 7 {
		t.Errorf("ATP for user A = %d, want 7", got)
	}
	if got := AvailableToPromise(10, holds, "b@example.com", now); got != 6 {
		t.Errorf("ATP for user B = %d, want 6", got)
	}
	// A new user sees stock minus everyone's holds.
	if got := AvailableToPromise(10, holds, "c@example.com", now); got != 3 {
		t.Errorf("ATP for user C = %d, want 3", got)
	}
}

func TestAvailableToPromiseNoHolds(t *testing.T) {
	if got := AvailableToPromise(10, nil, "a@example.com", time.Now()); got != 10 {
		t.Errorf("ATP with no holds = %d, want 10", got)
	}
}

func TestAvailableToPromiseExcludesExpired(t *testing.T) {
	now := time.Now()

	holds := []models.Reservation{
		hold("a@example.com", 8, now.Add(-time.Minute)), // expired, not yet deleted
		hold("b@example.com", 3, now.Add(10*time.Minute)),
	}

	// The expired hold must not reduce availability for anyone.
	if got := AvailableToPromise(10, holds, "c@example.com", now); got != 7 {
		t.Errorf("ATP with expired hold = %d, want 7", got)
	}
	// A hold expiring exactly now is no longer live.
	holds[1].ExpiresAt = now
	if got := AvailableToPromise(10, holds, "c@example.com", now); got != 10 {
		t.Errorf("ATP with hold expiring at now = %d, want 10", got)
	}
}

func TestAvailableToPromiseClampsAtZero(t *testing.T) {
	now := time.Now()
	holds := []models.Reservation{
		hold("a@example.com", 12, now.Add(time.Minute)),
	}
	if got := AvailableToPromise(10, holds, "b@example.com", now); got != 0 {
		t.Errorf("ATP = %d, want 0 (never negative)", got)
	}
}

func TestATPOwnHoldNetsOut(t *testing.T) {
	// stock 5, total reserved 5, all of it mine: I can still rebook all 5.
	if got := ATP(5, 5, 5); got != 5 {
		t.Errorf("ATP(5,5,5) = %d, want 5", got)
	}
	if got := ATP(5, 5, 0); got != 0 {
		t.Errorf("ATP(5,5,0) = %d, want 0", got)
	}
}
