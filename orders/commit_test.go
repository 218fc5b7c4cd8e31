package orders

import (
	"context"
	"errors"
	"testing"

	"camellia/inventory"
	"camellia/models"

	"go.mongodb.org/mongo-driver/mongo"
)

type fakeCommitStore struct {
	stock         map[string]int
	failDecrement string // product whose decrement always reports a conflict
	insertErr     error
	orders        []models.Order
}

func (s *fakeCommitStore) DecrementStock(_ context.Context, productID string, quantity int) error {
	if productID == s.failDecrement || s.stock[productID] < quantity {
		return inventory.ErrInsufficientStock
	}
	s.stock[productID] -= quantity
	return nil
}

func (s *fakeCommitStore) IncrementStock(_ context.Context, productID string, quantity int) error {
	s.stock[productID] += quantity
	return nil
}

func (s *fakeCommitStore) InsertOrder(_ context.Context, order models.Order) error {
	if s.insertErr != nil {
		return s.insertErr
	}
	s.orders = append(s.orders, order)
	return nil
}

func TestCommitOrderTakesStockAndPersistsOnce(t *testing.T) {
	store := &fakeCommitStore{stock: map[string]int{"p1": 10, "p2": 4}}

	err := commitOrder(context.Background(), store, models.Order{OrderID: "CM00001"},
		map[string]int{"p1": 3, "p2": 4})
	if err != nil {
		t.Fatalf("commitOrder: %v", err)
	}
	if store.stock["p1"] != 7 || store.stock["p2"] != 0 {
		t.Errorf("stock after commit = %v, want p1:7 p2:0", store.stock)
	}
	if len(store.orders) != 1 || store.orders[0].OrderID != "CM00001" {
		t.Errorf("orders after commit = %v, want exactly CM00001", store.orders)
	}
}

func TestCommitOrderRestoresStockWhenALineConflicts(t *testing.T) {
	store := &fakeCommitStore{
		stock:         map[string]int{"p1": 10, "p2": 4},
		failDecrement: "p2",
	}

	err := commitOrder(context.Background(), store, models.Order{OrderID: "CM00001"},
		map[string]int{"p1": 3, "p2": 2})
	var conflict *stockConflictError
	if !errors.As(err, &conflict) {
		t.Fatalf("commitOrder error = %v, want stock conflict", err)
	}
	if conflict.ProductID != "p2" {
		t.Errorf("conflict product = %q, want p2", conflict.ProductID)
	}
	if store.stock["p1"] != 10 || store.stock["p2"] != 4 {
		t.Errorf("stock after failed commit = %v, want untouched p1:10 p2:4", store.stock)
	}
	if len(store.orders) != 0 {
		t.Errorf("orders after failed commit = %v, want none", store.orders)
	}
}

func TestCommitOrderCompensatesOnDuplicateOrderID(t *testing.T) {
	dup := mongo.WriteException{WriteErrors: mongo.WriteErrors{{Code: 11000}}}
	store := &fakeCommitStore{
		stock:     map[string]int{"p1": 10, "p2": 4},
		insertErr: dup,
	}

	err := commitOrder(context.Background(), store, models.Order{OrderID: "CM00001"},
		map[string]int{"p1": 3, "p2": 2})
	if err == nil {
		t.Fatal("commitOrder: expected error on duplicate order id")
	}
	if !mongo.IsDuplicateKeyError(err) {
		t.Errorf("commitOrder error = %v, want duplicate key to propagate as-is", err)
	}
	if store.stock["p1"] != 10 || store.stock["p2"] != 4 {
		t.Errorf("stock after failed insert = %v, want restored p1:10 p2:4", store.stock)
	}
	if len(store.orders) != 0 {
		t.Errorf("orders after failed insert = %v, want none", store.orders)
	}
}
