package httpserver

import (
	"github.com/labstack/echo/v4"
	"gorm.io/gorm"

	"github.com/chocolate-factory/storefront/internal/handlers"
	"github.com/chocolate-factory/storefront/internal/middleware/auth"
)

type Deps struct {
	DB             *gorm.DB
	JWTSecret      []byte
	AuthHandler    *handlers.AuthHandler
	ProductHandler *handlers.ProductHandler
	CartHandler    *handlers.CartHandler
	OrderHandler   *handlers.OrderHandler
	PaymentHandler *handlers.PaymentHandler
	InvoiceHandler *handlers.InvoiceHandler
	SearchHandler  *handlers.SearchHandler
	UploadsDir     string
}

func Register(e *echo.Echo, d *Deps) {
	e.GET("/health/live", func(c echo.Context) error { return c.NoContent(200) })
	e.GET("/health/ready", func(c echo.Context) error { return c.NoContent(200) })

	e.Static("/uploads", d.UploadsDir)

	requireLogin := auth.RequireLogin(d.JWTSecret)

	api := e.Group("/api")

	users := api.Group("/users")
	users.POST("/register", d.AuthHandler.Register)
	users.POST("/login", d.AuthHandler.Login)

	cart := users.Group("/cart", requireLogin)
	cart.GET("", d.CartHandler.GetCart)
	cart.POST("", d.CartHandler.AddToCart)
	cart.PUT("/:productId", d.CartHandler.SetQuantity)
	cart.DELETE("/:productId", d.CartHandler.RemoveFromCart)
	cart.DELETE("", d.CartHandler.ClearCart)

	products := api.Group("/products")
	products.GET("", d.ProductHandler.GetProducts)
	products.GET("/search", d.SearchHandler.Search)
	products.GET("/:id", d.ProductHandler.GetProduct)
	products.POST("", d.ProductHandler.CreateProduct, requireLogin, auth.AdminOnly)
	products.PUT("/:id", d.ProductHandler.UpdateProduct, requireLogin, auth.AdminOnly)
	products.DELETE("/:id", d.ProductHandler.DeleteProduct, requireLogin, auth.AdminOnly)

	orders := api.Group("/orders", requireLogin)
	orders.POST("", d.OrderHandler.CreateOrder)
	orders.GET("/myorders", d.OrderHandler.GetMyOrders)
	orders.GET("", d.OrderHandler.GetAllOrders, auth.AdminOnly)
	orders.GET("/:id", d.OrderHandler.GetOrder)
	orders.PUT("/:id/pay", d.OrderHandler.MarkPaid)
	orders.GET("/:id/invoice", d.InvoiceHandler.GetInvoice)

	pay := api.Group("/payment")
	pay.POST("/create-payment-intent", d.PaymentHandler.CreatePaymentIntent)
	pay.POST("/orders", d.PaymentHandler.CreateProviderOrder, requireLogin)
	pay.POST("/verify", d.PaymentHandler.VerifyPayment, requireLogin)
}
