package rdx

import (
	"context"
	"encoding/json"
	"log"
	"os"
	"time"

	"camellia/models"

	"github.com/redis/go-redis/v9"
)

var Conn *redis.Client

const productCacheTTL = 5 * time.Minute

func init() {
	addr := os.Getenv("REDIS_ADDR")
	if addr == "" {
		addr = "localhost:6379"
	}
	Conn = redis.NewClient(&redis.Options{Addr: addr})
}

// GetCachedProduct returns a product from the read cache, if present.
// Cached copies serve display data only; checkout paths always read the
// database so stock checks never see a stale snapshot.
func GetCachedProduct(ctx context.Context, productID string) (models.Product, bool) {
	var product models.Product
	data, err := Conn.Get(ctx, "product:"+productID).Result()
	if err != nil {
		return product, false
	}
	if err := json.Unmarshal([]byte(data), &product); err != nil {
		log.Println("rdx: corrupt product cache entry:", err)
		return product, false
	}
	return product, true
}

func CacheProduct(ctx context.Context, product models.Product) {
	data, err := json.Marshal(product)
	if err != nil {
		return
	}
	if err := Conn.Set(ctx, "product:"+product.ProductID, data, productCacheTTL).Err(); err != nil {
		log.Println("rdx: product cache set error:", err)
	}
}

// InvalidateProduct drops the cached copy after a stock mutation.
func InvalidateProduct(ctx context.Context, productID string) {
	if err := Conn.Del(ctx, "product:"+productID).Err(); err != nil {
		log.Println("rdx: product cache invalidate error:", err)
	}
}
