package models

import "time"

// QuantityOption is an alternate package size with its own price.
// Pieces is the join key a submitted order line must match exactly.
type QuantityOption struct {
	Pieces int     `json:"pieces" bson:"pieces"`
	Price  float64 `json:"price" bson:"price"`
}

// ProductOption is a required selectable attribute (e.g. Size) with an
// enumerated set of legal values.
type ProductOption struct {
	Name   string   `json:"name" bson:"name"`
	Values []string `json:"values" bson:"values"`
}

// ProductAddOns flags which fixed-price extras a product offers.
// The prices themselves are server configuration, never stored per product.
type ProductAddOns struct {
	GiftCard   bool `json:"giftCard" bson:"giftCard"`
	CustomName bool `json:"customName" bson:"customName"`
}

type Product struct {
	ProductID       string           `json:"productId" bson:"productId"`
	Name            string           `json:"name" bson:"name"`
	Description     string           `json:"description,omitempty" bson:"description,omitempty"`
	Price           float64          `json:"price" bson:"price"`
	Stock           int              `json:"stock" bson:"stock"`
	Category        string           `json:"category" bson:"category"`
	Image           string           `json:"image" bson:"image"`
	QuantityOptions []QuantityOption `json:"quantityOptions,omitempty" bson:"quantityOptions,omitempty"`
	Options         []ProductOption  `json:"options,omitempty" bson:"options,omitempty"`
	AddOns          ProductAddOns    `json:"addOns" bson:"addOns"`
	IsActive        bool             `json:"isActive" bson:"isActive"`
}

// Reservation is a time-bounded hold on stock while an item sits in a cart.
// At most one live reservation exists per (userId, productId); a second add
// updates the quantity in place. A reservation whose ExpiresAt has passed is
// void regardless of whether it has been physically removed yet.
type Reservation struct {
	ReservationID string    `json:"reservationId" bson:"reservationId"`
	UserID        string    `json:"userId" bson:"userId"`
	ProductID     string    `json:"productId" bson:"productId"`
	Quantity      int       `json:"quantity" bson:"quantity"`
	ExpiresAt     time.Time `json:"expiresAt" bson:"expiresAt"`
	CreatedAt     time.Time `json:"createdAt" bson:"createdAt"`
}

// CartLine is a reservation enriched with current product display data.
type CartLine struct {
	ProductID     string    `json:"productId"`
	Name          string    `json:"name"`
	Price         float64   `json:"price"`
	Image         string    `json:"image"`
	Quantity      int       `json:"quantity"`
	ReservedUntil time.Time `json:"reservedUntil"`
}

// OrderAddOns records which extras were purchased on a line.
type OrderAddOns struct {
	GiftCard   bool    `json:"giftCard" bson:"giftCard"`
	CustomName *string `json:"customName" bson:"customName"`
}

// OrderItem is a committed line item. BasePrice is the server-verified unit
// price including add-ons; TotalPrice is BasePrice times Quantity.
type OrderItem struct {
	ProductID  string      `json:"productId" bson:"productId"`
	Name       string      `json:"name" bson:"name"`
	Image      string      `json:"image" bson:"image"`
	Quantity   int         `json:"quantity" bson:"quantity"`
	Pieces     int         `json:"pieces,omitempty" bson:"pieces,omitempty"`
	BasePrice  float64     `json:"basePrice" bson:"basePrice"`
	TotalPrice float64     `json:"totalPrice" bson:"totalPrice"`
	AddOns     OrderAddOns `json:"addOns" bson:"addOns"`
}

// Order is written exactly once at commit time. Total is the sum of verified
// line totals at that moment and is never recomputed afterwards.
type Order struct {
	OrderID       string      `json:"orderId" bson:"orderId"`
	Email         string      `json:"email" bson:"email"`
	Name          string      `json:"name" bson:"name"`
	Address       string      `json:"address" bson:"address"`
	Phone         string      `json:"phone" bson:"phone"`
	Items         []OrderItem `json:"items" bson:"items"`
	Total         float64     `json:"total" bson:"total"`
	Status        string      `json:"status" bson:"status"`
	PaymentMethod string      `json:"paymentMethod" bson:"paymentMethod"`
	Date          time.Time   `json:"date" bson:"date"`
}
