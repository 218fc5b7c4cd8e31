package orders

import (
	"context"
	"fmt"
	"log"
	"strconv"
	"strings"

	"camellia/db"
	"camellia/utils"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

const (
	orderIDPrefix = "CM"
	orderIDWidth  = 5
)

// NextOrderID allocates the next sequential order identifier by reading the
// most recently created order. Creation order means _id order, never the
// client-suppliable date field. If the read or the parse fails, a randomized
// id in the same format is used instead of blocking the commit; the unique
// index on orderId still enforces uniqueness, and a collision on write
// surfaces as a retryable conflict.
func NextOrderID(ctx context.Context) string {
	opts := options.FindOne().SetSort(bson.D{{Key: "_id", Value: -1}})
	var last struct {
		OrderID string `bson:"orderId"`
	}
	err := db.OrdersCollection.FindOne(ctx, bson.M{}, opts).Decode(&last)
	if err == mongo.ErrNoDocuments {
		return firstOrderID()
	}
	if err != nil {
		log.Println("NextOrderID read error, falling back to random id:", err)
		return randomOrderID()
	}

	next, err := incrementOrderID(last.OrderID)
	if err != nil {
		log.Println("NextOrderID parse error, falling back to random id:", err)
		return randomOrderID()
	}
	return next
}

// incrementOrderID turns CM00001 into CM00002.
func incrementOrderID(last string) (string, error) {
	suffix := strings.TrimPrefix(last, orderIDPrefix)
	if suffix == last {
		return "", fmt.Errorf("order id %q does not carry the %s prefix", last, orderIDPrefix)
	}
	n, err := strconv.Atoi(suffix)
	if err != nil {
		return "", fmt.Errorf("order id %q has a non-numeric suffix", last)
	}
	return fmt.Sprintf("%s%0*d", orderIDPrefix, orderIDWidth, n+1), nil
}

func firstOrderID() string {
	return fmt.Sprintf("%s%0*d", orderIDPrefix, orderIDWidth, 1)
}

func randomOrderID() string {
	return orderIDPrefix + utils.GenerateRandomDigitString(orderIDWidth)
}
