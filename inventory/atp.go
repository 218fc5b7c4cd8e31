package inventory

import (
	"time"

	"camellia/models"
)

// ATP computes available-to-promise: stock minus every other user's live
// reserved quantity. The caller's own hold is excluded because an add-to-cart
// replaces it with a new total; it still counts against everyone else.
// Never negative.
func ATP(stock, liveReservedTotal, ownLiveHold int) int {
	available := stock - (liveReservedTotal - ownLiveHold)
	if available < 0 {
		return 0
	}
	return available
}

// AvailableToPromise evaluates ATP against a snapshot of reservations.
// A reservation is live when its expiry is strictly in the future; expired
// holds are ignored even if they have not been physically deleted yet.
// A user with no reservation simply contributes zero.
func AvailableToPromise(stock int, holds []models.Reservation, userID string, now time.Time) int {
	var total, own int
	for _, h := range holds {
		if !h.ExpiresAt.After(now) {
			continue
		}
		total += h.Quantity
		if h.UserID == userID {
			own += h.Quantity
		}
	}
	return ATP(stock, total, own)
}
