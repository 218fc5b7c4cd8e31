package products

import (
	"context"
	"errors"
	"log"
	"net/http"
	"time"

	"camellia/db"
	"camellia/models"
	"camellia/rdx"
	"camellia/utils"

	"github.com/julienschmidt/httprouter"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
)

// ErrNotFound is returned when no product exists for an id.
var ErrNotFound = errors.New("product not found")

// GetByID reads a product straight from the database. Checkout paths use
// this so availability checks never run against a cached stock value.
func GetByID(ctx context.Context, productID string) (models.Product, error) {
	var product models.Product
	err := db.ProductsCollection.FindOne(ctx, bson.M{"productId": productID}).Decode(&product)
	if err == mongo.ErrNoDocuments {
		return product, ErrNotFound
	}
	return product, err
}

// GetByIDCached serves display reads through the Redis cache. Stale stock is
// acceptable here; anything that reserves or sells goes through GetByID.
func GetByIDCached(ctx context.Context, productID string) (models.Product, error) {
	if product, ok := rdx.GetCachedProduct(ctx, productID); ok {
		return product, nil
	}
	product, err := GetByID(ctx, productID)
	if err != nil {
		return product, err
	}
	rdx.CacheProduct(ctx, product)
	return product, nil
}

// GET /api/products
func GetProducts(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
	ctx, cancel := context.WithTimeout(r.Context(), 10*time.Second)
	defer cancel()

	cursor, err := db.ProductsCollection.Find(ctx, bson.M{"isActive": true})
	if err != nil {
		log.Println("GetProducts Find error:", err)
		utils.RespondWithError(w, http.StatusServiceUnavailable, "Could not retrieve products")
		return
	}
	defer cursor.Close(ctx)

	var items []models.Product
	if err := cursor.All(ctx, &items); err != nil {
		log.Println("GetProducts cursor.All error:", err)
		utils.RespondWithError(w, http.StatusServiceUnavailable, "Error reading product data")
		return
	}

	if len(items) == 0 {
		items = []models.Product{}
	}

	utils.RespondWithJSON(w, http.StatusOK, items)
}

// GET /api/products/:productId
func GetProduct(w http.ResponseWriter, r *http.Request, ps httprouter.Params) {
	ctx, cancel := context.WithTimeout(r.Context(), 10*time.Second)
	defer cancel()

	product, err := GetByIDCached(ctx, ps.ByName("productId"))
	if err == ErrNotFound {
		utils.RespondWithError(w, http.StatusNotFound, "Product not found")
		return
	}
	if err != nil {
		log.Println("GetProduct error:", err)
		utils.RespondWithError(w, http.StatusServiceUnavailable, "Could not retrieve product")
		return
	}
	if !product.IsActive {
		utils.RespondWithError(w, http.StatusNotFound, "Product not found")
		return
	}

	utils.RespondWithJSON(w, http.StatusOK, product)
}
