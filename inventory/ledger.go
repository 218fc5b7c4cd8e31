package inventory

import (
	"context"
	"errors"
	"time"

	"camellia/db"
	"camellia/models"
	"camellia/utils"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// ErrInsufficientStock is the authoritative stock-conflict signal: the
// conditional decrement found fewer units than requested.
var ErrInsufficientStock = errors.New("insufficient stock")

// OwnLiveHold returns the quantity the user currently holds for a product.
// Absence and expiry both read as zero.
func OwnLiveHold(ctx context.Context, userID, productID string, now time.Time) (int, error) {
	var hold models.Reservation
	err := db.ReservationsCollection.FindOne(ctx, bson.M{
		"userId":    userID,
		"productId": productID,
		"expiresAt": bson.M{"$gt": now},
	}).Decode(&hold)
	if err == mongo.ErrNoDocuments {
		return 0, nil
	}
	if err != nil {
		return 0, err
	}
	return hold.Quantity, nil
}

// LiveReservedTotal sums live hold quantities across all users for a product.
func LiveReservedTotal(ctx context.Context, productID string, now time.Time) (int, error) {
	cursor, err := db.ReservationsCollection.Aggregate(ctx, []bson.M{
		{"$match": bson.M{"productId": productID, "expiresAt": bson.M{"$gt": now}}},
		{"$group": bson.M{"_id": nil, "total": bson.M{"$sum": "$quantity"}}},
	})
	if err != nil {
		return 0, err
	}
	defer cursor.Close(ctx)

	var rows []struct {
		Total int `bson:"total"`
	}
	if err := cursor.All(ctx, &rows); err != nil {
		return 0, err
	}
	if len(rows) == 0 {
		return 0, nil
	}
	return rows[0].Total, nil
}

// AvailableForUser computes ATP for one user from the current ledger and
// stock snapshot, returning the user's current hold alongside it.
func AvailableForUser(ctx context.Context, product models.Product, userID string) (available, held int, err error) {
	now := time.Now()
	held, err = OwnLiveHold(ctx, userID, product.ProductID, now)
	if err != nil {
		return 0, 0, err
	}
	total, err := LiveReservedTotal(ctx, product.ProductID, now)
	if err != nil {
		return 0, 0, err
	}
	return ATP(product.Stock, total, held), held, nil
}

// UpsertHold sets the user's hold for a product to the given total quantity
// and refreshes the expiry. The unique (userId, productId) index guarantees
// at most one live document per pair.
func UpsertHold(ctx context.Context, userID, productID string, quantity int, expiresAt time.Time) error {
	filter := bson.M{"userId": userID, "productId": productID}
	update := bson.M{
		"$set": bson.M{
			"quantity":  quantity,
			"expiresAt": expiresAt,
		},
		"$setOnInsert": bson.M{
			"reservationId": utils.GetUUID(),
			"userId":        userID,
			"productId":     productID,
			"createdAt":     time.Now(),
		},
	}
	opts := options.Update().SetUpsert(true)
	_, err := db.ReservationsCollection.UpdateOne(ctx, filter, update, opts)
	return err
}

// DeleteHold removes the user's reservation for a product, typically after
// it has been consumed at order commit.
func DeleteHold(ctx context.Context, userID, productID string) error {
	_, err := db.ReservationsCollection.DeleteOne(ctx, bson.M{
		"userId":    userID,
		"productId": productID,
	})
	return err
}

// UserHolds lists the user's live reservations.
func UserHolds(ctx context.Context, userID string) ([]models.Reservation, error) {
	cursor, err := db.ReservationsCollection.Find(ctx, bson.M{
		"userId":    userID,
		"expiresAt": bson.M{"$gt": time.Now()},
	})
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	var holds []models.Reservation
	if err := cursor.All(ctx, &holds); err != nil {
		return nil, err
	}
	return holds, nil
}

// DecrementStock atomically takes quantity units off a product, but only if
// that many are on hand. The filter and $inc run as one conditional update,
// so concurrent commits can never drive stock negative; a non-match is the
// stock conflict, not an error in the driver sense.
func DecrementStock(ctx context.Context, productID string, quantity int) error {
	res, err := db.ProductsCollection.UpdateOne(ctx,
		bson.M{"productId": productID, "stock": bson.M{"$gte": quantity}},
		bson.M{"$inc": bson.M{"stock": -quantity}},
	)
	if err != nil {
		return err
	}
	if res.MatchedCount == 0 {
		return ErrInsufficientStock
	}
	return nil
}

// IncrementStock returns units to a product. Used to compensate earlier
// decrements when a later line of the same order fails.
func IncrementStock(ctx context.Context, productID string, quantity int) error {
	_, err := db.ProductsCollection.UpdateOne(ctx,
		bson.M{"productId": productID},
		bson.M{"$inc": bson.M{"stock": quantity}},
	)
	return err
}
