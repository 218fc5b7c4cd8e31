package pricing

import (
	"fmt"
	"os"
	"strconv"

	"camellia/models"

	"github.com/joho/godotenv"
)

// Add-on prices are server configuration constants. Whatever price fields a
// client submits are advisory UI echo and are discarded during verification.
var (
	giftCardPrice   float64
	customNamePrice float64
)

func init() {
	_ = godotenv.Load()
	giftCardPrice = envPrice("GIFT_CARD_PRICE", 50)
	customNamePrice = envPrice("CUSTOM_NAME_PRICE", 100)
}

func envPrice(key string, fallback float64) float64 {
	if s := os.Getenv(key); s != "" {
		if v, err := strconv.ParseFloat(s, 64); err == nil && v >= 0 {
			return v
		}
	}
	return fallback
}

// SubmittedAddOns is the client's add-on selection for a line.
type SubmittedAddOns struct {
	GiftCard   bool   `json:"giftCard"`
	CustomName string `json:"customName"`
}

// SubmittedItem is a client order line as received. The price fields are
// deliberately absent from this struct: any the client sends are dropped at
// decode time and the unit price is recomputed from the catalog.
type SubmittedItem struct {
	ProductID       string            `json:"productId"`
	Quantity        int               `json:"quantity"`
	Pieces          int               `json:"pieces,omitempty"`
	SelectedOptions map[string]string `json:"selectedOptions,omitempty"`
	AddOns          SubmittedAddOns   `json:"addOns,omitempty"`
}

// ValidationError describes a rejected line precisely enough for the UI to
// correct it, without leaking anything beyond the offending field.
type ValidationError struct {
	ProductID string
	Field     string
	Reason    string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("%s: invalid %s: %s", e.ProductID, e.Field, e.Reason)
}

// VerifyItem recomputes the trusted unit price for a submitted line against
// the product record and validates every selected option and add-on.
//
// Pricing rules, strictest variant: a pieces value must match a declared
// quantity tier exactly (no silent fallback to base price), add-on prices
// come from server constants, and nothing the client sent is trusted.
func VerifyItem(product models.Product, item SubmittedItem) (float64, error) {
	unitPrice := product.Price

	if item.Pieces > 0 {
		tier, ok := findTier(product.QuantityOptions, item.Pieces)
		if !ok {
			return 0, &ValidationError{
				ProductID: product.ProductID,
				Field:     "pieces",
				Reason:    fmt.Sprintf("no %d-piece option exists for this product", item.Pieces),
			}
		}
		unitPrice = tier.Price
	}

	for _, opt := range product.Options {
		selected, ok := item.SelectedOptions[opt.Name]
		if !ok {
			return 0, &ValidationError{
				ProductID: product.ProductID,
				Field:     opt.Name,
				Reason:    "option is required",
			}
		}
		if !contains(opt.Values, selected) {
			return 0, &ValidationError{
				ProductID: product.ProductID,
				Field:     opt.Name,
				Reason:    fmt.Sprintf("%q is not a valid choice", selected),
			}
		}
	}

	if item.AddOns.GiftCard {
		if !product.AddOns.GiftCard {
			return 0, &ValidationError{
				ProductID: product.ProductID,
				Field:     "giftCard",
				Reason:    "not offered for this product",
			}
		}
		unitPrice += giftCardPrice
	}

	if item.AddOns.CustomName != "" {
		if !product.AddOns.CustomName {
			return 0, &ValidationError{
				ProductID: product.ProductID,
				Field:     "customName",
				Reason:    "not offered for this product",
			}
		}
		unitPrice += customNamePrice
	}

	return unitPrice, nil
}

func findTier(tiers []models.QuantityOption, pieces int) (models.QuantityOption, bool) {
	for _, t := range tiers {
		if t.Pieces == pieces {
			return t, true
		}
	}
	return models.QuantityOption{}, false
}

func contains(values []string, v string) bool {
	for _, candidate := range values {
		if candidate == v {
			return true
		}
	}
	return false
}
