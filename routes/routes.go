package routes

import (
	"camellia/cart"
	"camellia/middleware"
	"camellia/orders"
	"camellia/products"
	"camellia/ratelim"

	"github.com/julienschmidt/httprouter"
)

func AddCartRoutes(router *httprouter.Router, rl *ratelim.RateLimiter) {
	router.POST("/api/cart/add", rl.Limit(middleware.Authenticate(cart.AddToCart)))
	router.GET("/api/cart", middleware.Authenticate(cart.GetCart))
}

func AddOrderRoutes(router *httprouter.Router, rl *ratelim.RateLimiter) {
	router.POST("/api/orders", rl.Limit(middleware.Authenticate(orders.CreateOrder)))
	router.GET("/api/orders", middleware.Authenticate(middleware.AdminOnly(orders.GetOrders)))
	router.PUT("/api/orders/:orderId/status", middleware.Authenticate(middleware.AdminOnly(orders.UpdateOrderStatus)))
	router.GET("/api/orders/:orderId/receipt", rl.Limit(middleware.Authenticate(orders.OrderReceipt)))
	router.GET("/api/user/orders", middleware.Authenticate(orders.GetMyOrders))
}

func AddProductRoutes(router *httprouter.Router, rl *ratelim.RateLimiter) {
	router.GET("/api/products", rl.Limit(products.GetProducts))
	router.GET("/api/products/:productId", rl.Limit(products.GetProduct))
}

func RoutesWrapper(router *httprouter.Router, rateLimiter *ratelim.RateLimiter) {
	AddCartRoutes(router, rateLimiter)
	AddOrderRoutes(router, rateLimiter)
	AddProductRoutes(router, rateLimiter)
}
