package cart

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log"
	"net/http"
	"os"
	"strconv"
	"time"

	"camellia/inventory"
	"camellia/products"
	"camellia/utils"

	"github.com/julienschmidt/httprouter"
)

// How long an inactive cart keeps its hold. Refreshed on every add, so a
// shopper only loses the reservation after a full idle window.
var holdDuration = holdDurationFromEnv()

func holdDurationFromEnv() time.Duration {
	if s := os.Getenv("RESERVATION_TTL_MINUTES"); s != "" {
		if n, err := strconv.Atoi(s); err == nil && n > 0 {
			return time.Duration(n) * time.Minute
		}
	}
	return 15 * time.Minute
}

// AddToCart reserves inventory. Adds are additive: the new hold becomes the
// user's current hold plus the requested quantity. The availability check
// nets out the user's own existing hold since the upsert replaces it.
// POST /api/cart/add
func AddToCart(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
	ctx, cancel := context.WithTimeout(r.Context(), 10*time.Second)
	defer cancel()

	userID := utils.GetUserIDFromRequest(r)
	if userID == "" {
		utils.RespondWithError(w, http.StatusUnauthorized, "Please login to add items to cart.")
		return
	}

	var body struct {
		ProductID string `json:"productId"`
		Quantity  int    `json:"quantity"`
	}
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
		log.Println("AddToCart decode error:", err)
		utils.RespondWithError(w, http.StatusBadRequest, "Invalid JSON payload")
		return
	}
	if body.ProductID == "" || body.Quantity <= 0 {
		utils.RespondWithError(w, http.StatusBadRequest, "Invalid product or quantity.")
		return
	}

	product, err := products.GetByID(ctx, body.ProductID)
	if err == products.ErrNotFound {
		utils.RespondWithError(w, http.StatusNotFound, "Product not found.")
		return
	}
	if err != nil {
		log.Println("AddToCart product load error:", err)
		utils.RespondWithError(w, http.StatusServiceUnavailable, "Failed to add item to cart.")
		return
	}

	expiresAt := time.Now().Add(holdDuration)
	total, err := addHold(ctx, mongoHoldLedger{}, product, userID, body.Quantity, expiresAt)
	if err != nil {
		var conflict *availabilityError
		if errors.As(err, &conflict) {
			utils.RespondWithJSON(w, http.StatusConflict, utils.M{
				"message":   fmt.Sprintf("Insufficient stock. Only %d units available (some items may be held in other carts).", conflict.Available),
				"available": conflict.Available,
			})
			return
		}
		log.Println("AddToCart hold error:", err)
		utils.RespondWithError(w, http.StatusServiceUnavailable, "Failed to add item to cart.")
		return
	}

	utils.RespondWithJSON(w, http.StatusOK, utils.M{
		"message":       "Item added to cart and reserved.",
		"reservedUntil": expiresAt,
		"totalQuantity": total,
	})
}

// GetCart returns the user's live reservations enriched with product display
// data. Expiry timestamps are surfaced verbatim for the countdown UI.
// GET /api/cart
func GetCart(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
	ctx, cancel := context.WithTimeout(r.Context(), 10*time.Second)
	defer cancel()

	userID := utils.GetUserIDFromRequest(r)
	if userID == "" {
		utils.RespondWithError(w, http.StatusUnauthorized, "Unauthorized")
		return
	}

	holds, err := inventory.UserHolds(ctx, userID)
	if err != nil {
		log.Println("GetCart UserHolds error:", err)
		utils.RespondWithError(w, http.StatusServiceUnavailable, "Failed to retrieve cart.")
		return
	}

	lines, err := cartLines(ctx, holds, products.GetByIDCached)
	if err != nil {
		log.Println("GetCart product load error:", err)
		utils.RespondWithError(w, http.StatusServiceUnavailable, "Failed to retrieve cart.")
		return
	}

	utils.RespondWithJSON(w, http.StatusOK, lines)
}
