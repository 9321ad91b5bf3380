package handlers

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/labstack/echo/v4"
	razorpay "github.com/razorpay/razorpay-go"
	"gorm.io/gorm"

	"github.com/chocolate-factory/storefront/internal/logging"
	"github.com/chocolate-factory/storefront/internal/models"
	"github.com/chocolate-factory/storefront/internal/mykafka"
	"github.com/chocolate-factory/storefront/internal/payment"
)

type PaymentHandler struct {
	DB             *gorm.DB
	Razorpay       *razorpay.Client
	RazorpaySecret string
	Producer       *mykafka.Producer
}

// CreatePaymentIntent is the Stripe side of checkout: the browser trades
// an amount for an opaque client secret and finishes the payment itself.
func (h *PaymentHandler) CreatePaymentIntent(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "payment_intent")

	var req struct {
		Amount   float64 `json:"amount"`
		Currency string  `json:"currency"`
	}
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid body")
	}

	clientSecret, err := payment.CreateIntent(req.Amount, req.Currency)
	if err != nil {
		l.Error("payment_intent_failed", "error", err)
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}

	return c.JSON(http.StatusOK, echo.Map{"clientSecret": clientSecret})
}

func (h *PaymentHandler) CreateProviderOrder(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "payment_order")

	var req struct {
		Amount   float64 `json:"amount"`
		Currency string  `json:"currency"`
		Receipt  string  `json:"receipt"`
	}
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid body")
	}

	providerOrder, err := payment.CreateProviderOrder(h.Razorpay, req.Amount, req.Currency, req.Receipt)
	if err != nil {
		l.Error("payment_order_failed", "receipt", req.Receipt, "error", err)
		return echo.NewHTTPError(http.StatusInternalServerError, "failed to create razorpay order")
	}

	return c.JSON(http.StatusOK, providerOrder)
}

// VerifyPayment authenticates the client-reported completion by
// recomputing the provider signature, then flips the order to paid. A bad
// signature or a missing order mutates nothing.
func (h *PaymentHandler) VerifyPayment(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "payment_verify")

	var req struct {
		RazorpayOrderID   string `json:"razorpay_order_id"`
		RazorpayPaymentID string `json:"razorpay_payment_id"`
		RazorpaySignature string `json:"razorpay_signature"`
		OrderID           uint   `json:"orderId"`
	}
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid body")
	}

	if !payment.VerifySignature(h.RazorpaySecret, req.RazorpayOrderID, req.RazorpayPaymentID, req.RazorpaySignature) {
		l.Warn("payment_verify_failed", "orderID", req.OrderID, "reason", "signature_mismatch")
		return echo.NewHTTPError(http.StatusBadRequest, "payment verification failed")
	}

	var order models.Order
	if err := h.DB.First(&order, req.OrderID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return echo.NewHTTPError(http.StatusNotFound, "order not found")
		}
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}

	order.Status = models.OrderPaid
	order.PaymentID = req.RazorpayPaymentID
	if err := h.DB.Save(&order).Error; err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}

	h.publish(c, map[string]any{
		"type":      "payment_verified",
		"orderID":   order.ID,
		"userID":    order.UserID,
		"paymentID": order.PaymentID,
	})

	l.Info("payment_verified", "orderID", order.ID)
	return c.JSON(http.StatusOK, echo.Map{
		"message": "Payment successful",
		"orderId": order.ID,
	})
}

func (h *PaymentHandler) publish(c echo.Context, event map[string]any) {
	ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
	defer cancel()
	if err := h.Producer.PublishEvent(ctx, "order_events", fmt.Sprint(event["orderID"]), event); err != nil {
		c.Logger().Errorf("Kafka publish error: %v", err)
	}
}
