package routes

import (
	"retailpro/admin"
	"retailpro/auth"
	"retailpro/cart"
	"retailpro/invoice"
	"retailpro/middleware"
	"retailpro/notify"
	"retailpro/orders"
	"retailpro/products"
	"retailpro/ratelim"
	"retailpro/settings"

	"github.com/julienschmidt/httprouter"
)

func AddAuthRoutes(router *httprouter.Router, h *auth.Handler, rl *ratelim.RateLimiter, mw *middleware.Auth) {
	router.POST("/api/auth/register", rl.Limit(h.Register))
	router.POST("/api/auth/login", rl.Limit(h.Login))
	router.POST("/api/auth/logout", mw.Authenticate(h.Logout))
	router.POST("/api/auth/token/refresh", rl.Limit(h.RefreshToken))
}

func AddProductRoutes(router *httprouter.Router, h *products.Handler, rl *ratelim.RateLimiter, mw *middleware.Auth) {
	router.GET("/api/products", rl.Limit(mw.OptionalAuth(h.GetProducts)))
	router.GET("/api/products/:productId", rl.Limit(mw.OptionalAuth(h.GetProduct)))
	router.POST("/api/products", mw.Authenticate(mw.AdminOnly(h.CreateProduct)))
	router.PUT("/api/products/:productId", mw.Authenticate(mw.AdminOnly(h.UpdateProduct)))
	router.DELETE("/api/products/:productId", mw.Authenticate(mw.AdminOnly(h.DeleteProduct)))
	router.POST("/api/products/seed", mw.Authenticate(mw.AdminOnly(h.SeedSampleProducts)))
}

func AddCartRoutes(router *httprouter.Router, h *cart.Handler, rl *ratelim.RateLimiter, mw *middleware.Auth) {
	router.GET("/api/cart", mw.Authenticate(h.GetCart))
	router.POST("/api/cart", rl.Limit(mw.Authenticate(h.AddToCart)))
	router.PUT("/api/cart/:lineId", rl.Limit(mw.Authenticate(h.UpdateQuantity)))
	router.DELETE("/api/cart/:lineId", rl.Limit(mw.Authenticate(h.RemoveFromCart)))
	router.DELETE("/api/cart", mw.Authenticate(h.ClearCart))
}

func AddOrderRoutes(router *httprouter.Router, h *orders.Handler, inv *invoice.Handler, rl *ratelim.RateLimiter, mw *middleware.Auth) {
	router.POST("/api/checkout", rl.Limit(mw.Authenticate(h.Checkout)))
	router.GET("/api/orders", mw.Authenticate(h.GetMyOrders))
	router.GET("/api/orders/:orderId", mw.Authenticate(h.GetOrder))
	router.POST("/api/orders/:orderId/cancel", rl.Limit(mw.Authenticate(h.CancelOrder)))
	router.GET("/api/orders/:orderId/invoice", rl.Limit(mw.Authenticate(inv.PrintInvoice)))
}

func AddAdminRoutes(router *httprouter.Router, h *admin.Handler, oh *orders.Handler, rl *ratelim.RateLimiter, mw *middleware.Auth) {
	router.GET("/api/admin/dashboard", mw.Authenticate(mw.AdminOnly(h.GetDashboard)))
	router.GET("/api/admin/orders", mw.Authenticate(mw.AdminOnly(h.GetAllOrders)))
	router.GET("/api/admin/customers", mw.Authenticate(mw.AdminOnly(h.GetCustomers)))
	router.PUT("/api/admin/orders/:orderId/status", rl.Limit(mw.Authenticate(mw.AdminOnly(oh.UpdateOrderStatus))))
	router.GET("/api/admin/carriers", mw.Authenticate(mw.AdminOnly(oh.GetShippingCarriers)))
}

func AddSettingsRoutes(router *httprouter.Router, h *settings.Handler, mw *middleware.Auth) {
	router.GET("/api/settings", mw.Authenticate(h.GetSettings))
	router.PUT("/api/settings", mw.Authenticate(h.UpdateSettings))
}

func AddNotifyRoutes(router *httprouter.Router, hub *notify.Hub, mw *middleware.Auth) {
	router.GET("/ws/notifications", notify.WebSocketHandler(hub, mw))
}
