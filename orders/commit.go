package orders

import (
	"context"
	"log"
	"time"

	"camellia/db"
	"camellia/inventory"
	"camellia/models"
)

// commitStore is the slice of storage an order commit touches. The Mongo
// implementation is the production one; the seam exists so the
// decrement/compensate/insert sequence can run against an in-memory store.
type commitStore interface {
	DecrementStock(ctx context.Context, productID string, quantity int) error
	IncrementStock(ctx context.Context, productID string, quantity int) error
	InsertOrder(ctx context.Context, order models.Order) error
}

type mongoCommitStore struct{}

func (mongoCommitStore) DecrementStock(ctx context.Context, productID string, quantity int) error {
	return inventory.DecrementStock(ctx, productID, quantity)
}

func (mongoCommitStore) IncrementStock(ctx context.Context, productID string, quantity int) error {
	return inventory.IncrementStock(ctx, productID, quantity)
}

func (mongoCommitStore) InsertOrder(ctx context.Context, order models.Order) error {
	_, err := db.OrdersCollection.InsertOne(ctx, order)
	return err
}

// stockConflictError identifies the line that lost the race for stock.
type stockConflictError struct {
	ProductID string
}

func (e *stockConflictError) Error() string {
	return "insufficient stock for " + e.ProductID
}

// commitOrder takes the stock for every line conditionally, then persists the
// order exactly once. Any failure returns already-taken units before the error
// surfaces, so a rejected submission leaves zero orders and zero net stock
// change behind. A failed conditional decrement is the authoritative stock
// conflict; an insert error propagates as-is so the caller can tell a
// duplicate order number from an outage.
func commitOrder(ctx context.Context, store commitStore, order models.Order, perProduct map[string]int) error {
	decremented := make(map[string]int, len(perProduct))
	for productID, quantity := range perProduct {
		if err := store.DecrementStock(ctx, productID, quantity); err != nil {
			compensateStock(store, decremented)
			if err == inventory.ErrInsufficientStock {
				return &stockConflictError{ProductID: productID}
			}
			return err
		}
		decremented[productID] = quantity
	}

	if err := store.InsertOrder(ctx, order); err != nil {
		compensateStock(store, decremented)
		return err
	}
	return nil
}

func compensateStock(store commitStore, decremented map[string]int) {
	// Use a fresh context: the request context may already be cancelled and
	// these increments must land.
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	for productID, quantity := range decremented {
		if err := store.IncrementStock(ctx, productID, quantity); err != nil {
			log.Printf("commitOrder: stock compensation failed for product %s qty %d: %v", productID, quantity, err)
		}
	}
}
