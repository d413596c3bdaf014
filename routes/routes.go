package routes

import (
	"net/http"

	"vestire/auth"
	"vestire/cart"
	"vestire/middleware"
	"vestire/orders"
	"vestire/pay"
	"vestire/products"
	"vestire/ratelim"
	"vestire/shipping"
	"vestire/utils"

	"github.com/julienschmidt/httprouter"
)

func AddStaticRoutes(router *httprouter.Router) {
	router.ServeFiles("/static/productpic/*filepath", http.Dir("static/productpic"))
}

func AddAuthRoutes(router *httprouter.Router, rl *ratelim.RateLimiter) {
	router.POST("/auth/register", rl.Limit(auth.Register))
	router.POST("/auth/login", rl.Limit(auth.Login))
	router.POST("/auth/logout", auth.Logout)
	router.GET("/auth/me", middleware.Authenticate(auth.Me))
	router.GET("/auth/user", middleware.Authenticate(auth.GetUser))
	router.PUT("/auth/update", middleware.Authenticate(auth.UpdateProfile))
}

// The catalog shares /products/:id with several static listing paths, and
// httprouter refuses wildcard siblings of static segments. These handlers fan
// the wildcard out instead.
func productByID(w http.ResponseWriter, r *http.Request, ps httprouter.Params) {
	switch ps.ByName("id") {
	case "search":
		products.SearchProducts(w, r, ps)
	case "paginated":
		products.GetPaginatedProducts(w, r, ps)
	case "random":
		products.GetRandomProducts(w, r, ps)
	default:
		products.GetProduct(w, r, ps)
	}
}

func productSub(w http.ResponseWriter, r *http.Request, ps httprouter.Params) {
	id := ps.ByName("id")
	sub := ps.ByName("sub")
	switch {
	case id == "search" && sub == "all":
		products.SearchAllProducts(w, r, ps)
	case id == "category":
		products.GetProductsByCategory(w, r, httprouter.Params{{Key: "category", Value: sub}})
	case sub == "related":
		products.GetRelatedProducts(w, r, ps)
	default:
		utils.RespondWithError(w, http.StatusNotFound, "Not found")
	}
}

func productSubCategory(w http.ResponseWriter, r *http.Request, ps httprouter.Params) {
	if ps.ByName("id") != "category" || ps.ByName("third") != "subcategory" {
		utils.RespondWithError(w, http.StatusNotFound, "Not found")
		return
	}
	products.GetProductsBySubCategory(w, r, httprouter.Params{
		{Key: "category", Value: ps.ByName("sub")},
		{Key: "subCategory", Value: ps.ByName("fourth")},
	})
}

func AddProductRoutes(router *httprouter.Router, rl *ratelim.RateLimiter) {
	router.GET("/products", products.GetProducts)
	router.POST("/products", rl.Limit(middleware.Authenticate(products.CreateProduct)))
	router.PUT("/products/update-prices", middleware.Authenticate(products.UpdateAllPrices))
	router.GET("/products/:id", productByID)
	router.GET("/products/:id/:sub", productSub)
	router.GET("/products/:id/:sub/:third/:fourth", productSubCategory)
	router.POST("/products/:id/image", middleware.Authenticate(products.UploadProductImage))
}

func AddCartRoutes(router *httprouter.Router, rl *ratelim.RateLimiter) {
	router.GET("/cart", middleware.Authenticate(cart.GetCart))
	router.POST("/cart/add", middleware.Authenticate(cart.AddToCart))
	router.POST("/cart/update", middleware.Authenticate(cart.UpdateCartItem))
	router.POST("/cart/remove", middleware.Authenticate(cart.RemoveFromCart))
	router.POST("/cart/increase", middleware.Authenticate(cart.IncreaseQuantity))
	router.POST("/cart/decrease", middleware.Authenticate(cart.DecreaseQuantity))
	router.POST("/cart/clear", middleware.Authenticate(cart.ClearCart))
	router.POST("/cart/checkout", rl.Limit(middleware.Authenticate(cart.Checkout)))
}

func AddOrderRoutes(router *httprouter.Router, rl *ratelim.RateLimiter, payService *pay.Service) {
	router.POST("/orders", rl.Limit(middleware.Authenticate(pay.Idempotent(orders.CreateOrder))))
	router.GET("/orders", middleware.Authenticate(orders.ListOrders))
	router.GET("/orders/:id", middleware.Authenticate(orders.GetOrder))
	router.PUT("/orders/:id", middleware.Authenticate(orders.UpdateOrderStatus))
	router.DELETE("/orders/:id", middleware.Authenticate(orders.DeleteOrder))
	router.GET("/orders/:id/receipt", middleware.Authenticate(orders.OrderReceipt))
	// The updates socket validates its token in the handler; everything else
	// goes through the strict middleware.
	router.GET("/orders/:id/updates", orders.OrderUpdates)

	// The webhook shares the :id segment, same fan-out as the catalog. It is
	// provider-facing, so no rate limit: a retry storm must not see 429s.
	router.POST("/orders/:id", func(w http.ResponseWriter, r *http.Request, ps httprouter.Params) {
		if ps.ByName("id") != "webhook" {
			utils.RespondWithError(w, http.StatusNotFound, "Not found")
			return
		}
		payService.Webhook(w, r, ps)
	})
	router.POST("/orders/:id/pagar", middleware.Authenticate(payService.CreateCheckout))
}

func AddShippingRoutes(router *httprouter.Router, resolver *shipping.Resolver) {
	router.POST("/api/shipping/retailers", resolver.Retailers)
}

func RoutesWrapper(router *httprouter.Router, rl *ratelim.RateLimiter, payService *pay.Service, resolver *shipping.Resolver) {
	AddStaticRoutes(router)
	AddAuthRoutes(router, rl)
	AddProductRoutes(router, rl)
	AddCartRoutes(router, rl)
	AddOrderRoutes(router, rl, payService)
	AddShippingRoutes(router, resolver)
}
