package main

import (
	"context"
	"errors"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"

	"github.com/chocolate-factory/storefront/internal/config"
	"github.com/chocolate-factory/storefront/internal/es"
	"github.com/chocolate-factory/storefront/internal/handlers"
	"github.com/chocolate-factory/storefront/internal/logging"
	"github.com/chocolate-factory/storefront/internal/mykafka"
	"github.com/chocolate-factory/storefront/internal/payment"
	httpserver "github.com/chocolate-factory/storefront/internal/transport/http"
)

func main() {
	configuration, err := config.LoadConfig()
	if err != nil {
		log.Fatal(err)
	}

	logger := logging.New(configuration.LOG_LEVEL)

	db, err := config.InitDB(configuration)
	if err != nil {
		log.Fatalf("db init error: %v", err)
	}

	if err := config.SeedAdmin(db, configuration); err != nil {
		log.Fatalf("admin seed error: %v", err)
	}

	jwtSecret := []byte(configuration.JWT_SECRET)

	var prod *mykafka.Producer
	if configuration.KAFKA_ADDRESS != "" {
		prod, err = mykafka.NewProducer([]string{configuration.KAFKA_ADDRESS})
		if err != nil {
			log.Fatal(err)
		}
	}

	deps := httpserver.Deps{
		DB:         db,
		JWTSecret:  jwtSecret,
		UploadsDir: configuration.UPLOADS_DIR,
	}

	if configuration.ES_URL != "" {
		client, err := es.NewClient(configuration)
		if err != nil {
			log.Fatal(err)
		}
		deps.SearchHandler = &handlers.SearchHandler{ES: client, Index: es.ProductIndex}
		deps.ProductHandler = &handlers.ProductHandler{DB: db, Producer: prod, ES: client}
	} else {
		log.Println("ES_URL not set, search disabled")
		deps.SearchHandler = &handlers.SearchHandler{Index: es.ProductIndex}
		deps.ProductHandler = &handlers.ProductHandler{DB: db, Producer: prod}
	}

	payment.InitStripe(configuration.STRIPE_SECRET_KEY)
	rzp := payment.NewRazorpayClient(configuration.RAZORPAY_KEY_ID, configuration.RAZORPAY_SECRET)

	deps.AuthHandler = &handlers.AuthHandler{DB: db, JWTSecret: jwtSecret, Producer: prod}
	deps.CartHandler = &handlers.CartHandler{DB: db, Producer: prod}
	deps.OrderHandler = &handlers.OrderHandler{DB: db, Producer: prod}
	deps.PaymentHandler = &handlers.PaymentHandler{
		DB:             db,
		Razorpay:       rzp,
		RazorpaySecret: configuration.RAZORPAY_SECRET,
		Producer:       prod,
	}
	deps.InvoiceHandler = &handlers.InvoiceHandler{DB: db}

	e := echo.New()
	e.Pre(middleware.RemoveTrailingSlash())
	e.Use(middleware.Recover(), middleware.RequestID())
	e.Use(func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			reqID := c.Response().Header().Get(echo.HeaderXRequestID)
			l := logger.With("request_id", reqID)
			ctx := logging.IntoContext(c.Request().Context(), l)
			c.SetRequest(c.Request().WithContext(ctx))
			return next(c)
		}
	})

	httpserver.Register(e, &deps)

	srv := &http.Server{
		Addr:         ":" + configuration.PORT,
		Handler:      e,
		ReadTimeout:  10 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
	}
	go func() {
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Printf("http server error: %v", err)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Println("shutting down...")

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := srv.Shutdown(ctx); err != nil {
		log.Printf("server shutdown error: %v", err)
	}

	if sqlDB, err := db.DB(); err == nil {
		if err := sqlDB.Close(); err != nil {
			log.Printf("db close error: %v", err)
		}
	}

	if err := prod.Close(); err != nil {
		log.Printf("kafka close error: %v", err)
	}

	log.Println("shutdown complete")
}
