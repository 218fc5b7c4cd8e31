package orders

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log"
	"net/http"
	"time"

	"camellia/db"
	"camellia/inventory"
	"camellia/middleware"
	"camellia/models"
	"camellia/mq"
	"camellia/pricing"
	"camellia/products"
	"camellia/rdx"
	"camellia/utils"

	"github.com/julienschmidt/httprouter"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

type orderRequest struct {
	Items         []pricing.SubmittedItem `json:"items"`
	Name          string                  `json:"name"`
	Address       string                  `json:"address"`
	Phone         string                  `json:"phone"`
	PaymentMethod string                  `json:"paymentMethod"`
}

// CreateOrder performs the reservation→sale transition. Every line is
// re-verified against the catalog and the live reservation ledger, the
// conditional stock decrement is the authoritative no-oversell guard, and
// the order document is persisted exactly once. Reservation cleanup after
// the insert is best-effort: a committed order is never rolled back because
// a hold failed to delete.
// POST /api/orders
func CreateOrder(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
	ctx, cancel := context.WithTimeout(r.Context(), 15*time.Second)
	defer cancel()

	email := utils.GetUserIDFromRequest(r)
	if email == "" {
		utils.RespondWithError(w, http.StatusUnauthorized, "Please login to create an order")
		return
	}

	var req orderRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		log.Println("CreateOrder decode error:", err)
		utils.RespondWithError(w, http.StatusBadRequest, "Invalid order payload")
		return
	}
	if len(req.Items) == 0 {
		utils.RespondWithError(w, http.StatusBadRequest, "Invalid items format")
		return
	}
	if req.Address == "" || req.Phone == "" {
		utils.RespondWithError(w, http.StatusBadRequest, "Address and phone are required")
		return
	}

	name := req.Name
	if name == "" {
		if claims, err := middleware.ValidateJWT(r.Header.Get("Authorization")); err == nil {
			name = claims.Username
		}
	}
	if name == "" {
		utils.RespondWithError(w, http.StatusBadRequest, "Name is required")
		return
	}

	// Verify every line before touching any state. A failure on item N must
	// leave zero orders and zero stock mutations behind.
	items := make([]models.OrderItem, 0, len(req.Items))
	perProduct := map[string]int{}
	var total float64

	for _, submitted := range req.Items {
		if submitted.ProductID == "" || submitted.Quantity <= 0 {
			utils.RespondWithError(w, http.StatusBadRequest, "Invalid product or quantity: "+submitted.ProductID)
			return
		}

		product, err := products.GetByID(ctx, submitted.ProductID)
		if err == products.ErrNotFound {
			utils.RespondWithError(w, http.StatusBadRequest, "Invalid product ID: "+submitted.ProductID)
			return
		}
		if err != nil {
			log.Println("CreateOrder product load error:", err)
			utils.RespondWithError(w, http.StatusServiceUnavailable, "Failed to create order")
			return
		}

		unitPrice, err := pricing.VerifyItem(product, submitted)
		if err != nil {
			utils.RespondWithError(w, http.StatusBadRequest, err.Error())
			return
		}

		var customName *string
		if submitted.AddOns.CustomName != "" {
			cn := submitted.AddOns.CustomName
			customName = &cn
		}

		items = append(items, models.OrderItem{
			ProductID:  product.ProductID,
			Name:       product.Name,
			Image:      product.Image,
			Quantity:   submitted.Quantity,
			Pieces:     submitted.Pieces,
			BasePrice:  unitPrice,
			TotalPrice: unitPrice * float64(submitted.Quantity),
			AddOns: models.OrderAddOns{
				GiftCard:   submitted.AddOns.GiftCard,
				CustomName: customName,
			},
		})
		total += unitPrice * float64(submitted.Quantity)
		perProduct[product.ProductID] += submitted.Quantity
	}

	// Optimistic availability re-check against the current ledger. The cart
	// snapshot may have changed or expired since the items were added; this
	// gives a friendly conflict before the authoritative decrement below.
	for productID, quantity := range perProduct {
		product, err := products.GetByID(ctx, productID)
		if err != nil {
			log.Println("CreateOrder availability product load error:", err)
			utils.RespondWithError(w, http.StatusServiceUnavailable, "Failed to create order")
			return
		}
		available, _, err := inventory.AvailableForUser(ctx, product, email)
		if err != nil {
			log.Println("CreateOrder availability error:", err)
			utils.RespondWithError(w, http.StatusServiceUnavailable, "Failed to create order")
			return
		}
		if available < quantity {
			respondStockConflict(w, productID, available)
			return
		}
	}

	paymentMethod := req.PaymentMethod
	if paymentMethod == "" {
		paymentMethod = "cash"
	}

	order := models.Order{
		OrderID:       NextOrderID(ctx),
		Email:         email,
		Name:          name,
		Address:       req.Address,
		Phone:         req.Phone,
		Items:         items,
		Total:         total,
		Status:        StatusPending,
		PaymentMethod: paymentMethod,
		Date:          time.Now(),
	}

	// Authoritative guard: commitOrder takes the stock conditionally before
	// persisting, and returns every taken unit if any step fails.
	if err := commitOrder(ctx, mongoCommitStore{}, order, perProduct); err != nil {
		var conflict *stockConflictError
		switch {
		case errors.As(err, &conflict):
			available := 0
			if product, perr := products.GetByID(ctx, conflict.ProductID); perr == nil {
				available, _, _ = inventory.AvailableForUser(ctx, product, email)
			}
			respondStockConflict(w, conflict.ProductID, available)
		case mongo.IsDuplicateKeyError(err):
			// Two concurrent commits allocated the same number. Never retried
			// silently here: a second stock check inside one logical
			// submission could double-charge stock.
			utils.RespondWithError(w, http.StatusConflict, "Order number conflict, please retry your order")
		default:
			log.Println("CreateOrder commit error:", err)
			utils.RespondWithError(w, http.StatusServiceUnavailable, "Failed to create order")
		}
		return
	}

	// The order is committed. Everything below is cleanup: failures are
	// logged for reconciliation, never surfaced, never rolled back.
	for productID, quantity := range perProduct {
		if err := inventory.DeleteHold(ctx, email, productID); err != nil {
			log.Printf("CreateOrder: reservation cleanup failed for order %s product %s: %v", order.OrderID, productID, err)
		}
		rdx.InvalidateProduct(ctx, productID)
		mq.Emit(ctx, mq.Event{
			Name:      "stock-decremented",
			OrderID:   order.OrderID,
			ProductID: productID,
			Quantity:  quantity,
		})
	}
	mq.Emit(ctx, mq.Event{Name: "order-created", OrderID: order.OrderID, UserID: email})

	utils.RespondWithJSON(w, http.StatusOK, utils.M{
		"message": "Order created successfully",
		"result":  order,
	})
}

func respondStockConflict(w http.ResponseWriter, productID string, available int) {
	utils.RespondWithJSON(w, http.StatusConflict, utils.M{
		"message":   fmt.Sprintf("Insufficient stock for %s. Only %d units available.", productID, available),
		"productId": productID,
		"available": available,
	})
}

// GetOrders returns every order, newest first. Admin only.
// GET /api/orders
func GetOrders(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
	ctx, cancel := context.WithTimeout(r.Context(), 10*time.Second)
	defer cancel()

	opts := options.Find().SetSort(bson.D{{Key: "_id", Value: -1}})
	cursor, err := db.OrdersCollection.Find(ctx, bson.M{}, opts)
	if err != nil {
		log.Println("GetOrders Find error:", err)
		utils.RespondWithError(w, http.StatusServiceUnavailable, "Could not retrieve orders")
		return
	}
	defer cursor.Close(ctx)

	var orders []models.Order
	if err := cursor.All(ctx, &orders); err != nil {
		log.Println("GetOrders cursor.All error:", err)
		utils.RespondWithError(w, http.StatusServiceUnavailable, "Error reading order data")
		return
	}
	if len(orders) == 0 {
		orders = []models.Order{}
	}

	utils.RespondWithJSON(w, http.StatusOK, orders)
}

// GetMyOrders returns the caller's own orders, newest first.
// GET /api/user/orders
func GetMyOrders(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
	ctx, cancel := context.WithTimeout(r.Context(), 10*time.Second)
	defer cancel()

	email := utils.GetUserIDFromRequest(r)
	if email == "" {
		utils.RespondWithError(w, http.StatusUnauthorized, "Unauthorized")
		return
	}

	opts := options.Find().SetSort(bson.D{{Key: "_id", Value: -1}})
	cursor, err := db.OrdersCollection.Find(ctx, bson.M{"email": email}, opts)
	if err != nil {
		log.Println("GetMyOrders Find error:", err)
		utils.RespondWithError(w, http.StatusServiceUnavailable, "Could not retrieve orders")
		return
	}
	defer cursor.Close(ctx)

	var orders []models.Order
	if err := cursor.All(ctx, &orders); err != nil {
		log.Println("GetMyOrders cursor.All error:", err)
		utils.RespondWithError(w, http.StatusServiceUnavailable, "Error reading order data")
		return
	}
	if len(orders) == 0 {
		orders = []models.Order{}
	}

	utils.RespondWithJSON(w, http.StatusOK, orders)
}

// UpdateOrderStatus moves an order through the fulfilment state machine.
// An invalid target status is rejected before any write. Admin only.
// PUT /api/orders/:orderId/status
func UpdateOrderStatus(w http.ResponseWriter, r *http.Request, ps httprouter.Params) {
	ctx, cancel := context.WithTimeout(r.Context(), 10*time.Second)
	defer cancel()

	orderID := ps.ByName("orderId")

	var body struct {
		Status string `json:"status"`
	}
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
		utils.RespondWithError(w, http.StatusBadRequest, "Invalid JSON payload")
		return
	}
	if !IsValidStatus(body.Status) {
		utils.RespondWithError(w, http.StatusBadRequest, "Invalid status: "+body.Status)
		return
	}

	var order models.Order
	err := db.OrdersCollection.FindOne(ctx, bson.M{"orderId": orderID}).Decode(&order)
	if err == mongo.ErrNoDocuments {
		utils.RespondWithError(w, http.StatusNotFound, "Order not found")
		return
	}
	if err != nil {
		log.Println("UpdateOrderStatus FindOne error:", err)
		utils.RespondWithError(w, http.StatusServiceUnavailable, "Could not retrieve order")
		return
	}

	if !CanTransition(order.Status, body.Status) {
		utils.RespondWithError(w, http.StatusBadRequest,
			fmt.Sprintf("Cannot change status from %s to %s", order.Status, body.Status))
		return
	}

	// Guard on the previous status so a concurrent admin update cannot
	// sneak an invalid transition between the read and the write.
	res, err := db.OrdersCollection.UpdateOne(ctx,
		bson.M{"orderId": orderID, "status": order.Status},
		bson.M{"$set": bson.M{"status": body.Status}},
	)
	if err != nil {
		log.Println("UpdateOrderStatus UpdateOne error:", err)
		utils.RespondWithError(w, http.StatusServiceUnavailable, "Failed to update order status")
		return
	}
	if res.MatchedCount == 0 {
		utils.RespondWithError(w, http.StatusConflict, "Order status changed concurrently, please retry")
		return
	}

	order.Status = body.Status
	mq.Emit(ctx, mq.Event{Name: "order-status-changed", OrderID: orderID})

	utils.RespondWithJSON(w, http.StatusOK, utils.M{
		"message": "Order status updated",
		"order":   order,
	})
}
