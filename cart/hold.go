package cart

import (
	"context"
	"fmt"
	"time"

	"camellia/inventory"
	"camellia/models"
	"camellia/products"
)

// holdLedger is the slice of the reservation ledger an add touches. The Mongo
// implementation is the production one; the seam lets the additive hold
// protocol run against an in-memory ledger.
type holdLedger interface {
	AvailableForUser(ctx context.Context, product models.Product, userID string) (available, held int, err error)
	UpsertHold(ctx context.Context, userID, productID string, quantity int, expiresAt time.Time) error
}

type mongoHoldLedger struct{}

func (mongoHoldLedger) AvailableForUser(ctx context.Context, product models.Product, userID string) (int, int, error) {
	return inventory.AvailableForUser(ctx, product, userID)
}

func (mongoHoldLedger) UpsertHold(ctx context.Context, userID, productID string, quantity int, expiresAt time.Time) error {
	return inventory.UpsertHold(ctx, userID, productID, quantity, expiresAt)
}

// availabilityError reports an add that asked for more than the ledger allows,
// carrying the quantity the user could still take.
type availabilityError struct {
	Available int
}

func (e *availabilityError) Error() string {
	return fmt.Sprintf("only %d units available", e.Available)
}

// addHold applies additive cart semantics: the stored hold becomes the user's
// current live hold plus the new quantity, with a refreshed expiry. The
// availability check compares against that combined total, and the user's own
// hold is netted out of availability since the upsert replaces it.
func addHold(ctx context.Context, ledger holdLedger, product models.Product, userID string, quantity int, expiresAt time.Time) (int, error) {
	available, held, err := ledger.AvailableForUser(ctx, product, userID)
	if err != nil {
		return 0, err
	}

	total := held + quantity
	if available < total {
		return 0, &availabilityError{Available: available}
	}

	if err := ledger.UpsertHold(ctx, userID, product.ProductID, total, expiresAt); err != nil {
		return 0, err
	}
	return total, nil
}

type productLoader func(ctx context.Context, productID string) (models.Product, error)

// cartLines enriches live holds with product display data. A vanished product
// drops its line; any other load failure fails the read so a transient cache
// or database hiccup never silently hides items the user still holds.
func cartLines(ctx context.Context, holds []models.Reservation, load productLoader) ([]models.CartLine, error) {
	lines := []models.CartLine{}
	for _, hold := range holds {
		product, err := load(ctx, hold.ProductID)
		if err == products.ErrNotFound {
			continue
		}
		if err != nil {
			return nil, err
		}
		lines = append(lines, models.CartLine{
			ProductID:     product.ProductID,
			Name:          product.Name,
			Price:         product.Price,
			Image:         product.Image,
			Quantity:      hold.Quantity,
			ReservedUntil: hold.ExpiresAt,
		})
	}
	return lines, nil
}
