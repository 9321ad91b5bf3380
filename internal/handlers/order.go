package handlers

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"strconv"
	"time"

	"github.com/labstack/echo/v4"
	"gorm.io/gorm"

	"github.com/chocolate-factory/storefront/internal/logging"
	"github.com/chocolate-factory/storefront/internal/middleware/auth"
	"github.com/chocolate-factory/storefront/internal/models"
	"github.com/chocolate-factory/storefront/internal/mykafka"
)

type OrderHandler struct {
	DB       *gorm.DB
	Producer *mykafka.Producer
}

type orderResponse struct {
	models.Order
	Items []models.OrderItem `json:"items"`
}

func (h *OrderHandler) withItems(order models.Order) (orderResponse, error) {
	var items []models.OrderItem
	if err := h.DB.Where("order_id = ?", order.ID).Order("id ASC").Find(&items).Error; err != nil {
		return orderResponse{}, err
	}
	return orderResponse{Order: order, Items: items}, nil
}

func (h *OrderHandler) CreateOrder(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "order_create")
	userID := auth.UserID(c)

	var req struct {
		OrderItems []struct {
			Product  uint `json:"product"`
			Quantity uint `json:"quantity"`
		} `json:"orderItems"`
		TotalAmount float64 `json:"totalAmount"`
		PaymentID   string  `json:"paymentId"`
	}
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid body")
	}
	if len(req.OrderItems) == 0 {
		l.Warn("order_create_failed", "status", 400, "reason", "no_items")
		return echo.NewHTTPError(http.StatusBadRequest, "no order items")
	}

	status := models.OrderPending
	if req.PaymentID != "" {
		status = models.OrderPaid
	}

	var (
		order      models.Order
		orderItems []models.OrderItem
	)

	txErr := h.DB.Transaction(func(tx *gorm.DB) error {
		for _, it := range req.OrderItems {
			quantity := it.Quantity
			if quantity < 1 {
				quantity = 1
			}

			var p models.Product
			if err := tx.First(&p, it.Product).Error; err != nil {
				if errors.Is(err, gorm.ErrRecordNotFound) {
					return echo.NewHTTPError(http.StatusBadRequest, "product not found")
				}
				return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
			}
			if p.Stock < quantity {
				return echo.NewHTTPError(http.StatusBadRequest, fmt.Sprintf("insufficient stock for %s", p.Name))
			}
			p.Stock -= quantity
			if err := tx.Save(&p).Error; err != nil {
				return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
			}
		}

		order = models.Order{
			UserID:      userID,
			TotalAmount: req.TotalAmount,
			PaymentID:   req.PaymentID,
			Status:      status,
			CreatedAt:   time.Now().Unix(),
		}
		if err := tx.Create(&order).Error; err != nil {
			return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
		}

		orderItems = make([]models.OrderItem, 0, len(req.OrderItems))
		for _, it := range req.OrderItems {
			quantity := it.Quantity
			if quantity < 1 {
				quantity = 1
			}
			oi := models.OrderItem{
				OrderID:   order.ID,
				ProductID: it.Product,
				Quantity:  quantity,
			}
			if err := tx.Create(&oi).Error; err != nil {
				return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
			}
			orderItems = append(orderItems, oi)
		}
		return nil
	})
	if txErr != nil {
		var he *echo.HTTPError
		if errors.As(txErr, &he) {
			return he
		}
		return echo.NewHTTPError(http.StatusInternalServerError, txErr.Error())
	}

	h.publish(c, map[string]any{
		"type":    "order_created",
		"userID":  userID,
		"orderID": order.ID,
		"status":  order.Status,
	})

	l.Info("order_created", "orderID", order.ID, "status", order.Status)
	return c.JSON(http.StatusCreated, orderResponse{Order: order, Items: orderItems})
}

func (h *OrderHandler) GetMyOrders(c echo.Context) error {
	userID := auth.UserID(c)

	var orders []models.Order
	if err := h.DB.Where("user_id = ?", userID).Order("created_at DESC, id DESC").Find(&orders).Error; err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}

	resp := make([]orderResponse, 0, len(orders))
	for _, o := range orders {
		r, err := h.withItems(o)
		if err != nil {
			return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
		}
		resp = append(resp, r)
	}
	return c.JSON(http.StatusOK, resp)
}

func (h *OrderHandler) GetOrder(c echo.Context) error {
	id, err := strconv.Atoi(c.Param("id"))
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid order id")
	}

	var order models.Order
	if err := h.DB.First(&order, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return echo.NewHTTPError(http.StatusNotFound, "order not found")
		}
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}

	if order.UserID != auth.UserID(c) && auth.Role(c) != models.RoleAdmin {
		return echo.NewHTTPError(http.StatusForbidden, "not your order")
	}

	resp, err := h.withItems(order)
	if err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}
	return c.JSON(http.StatusOK, resp)
}

func (h *OrderHandler) GetAllOrders(c echo.Context) error {
	var orders []models.Order
	if err := h.DB.Order("created_at DESC, id DESC").Find(&orders).Error; err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}

	resp := make([]orderResponse, 0, len(orders))
	for _, o := range orders {
		r, err := h.withItems(o)
		if err != nil {
			return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
		}
		resp = append(resp, r)
	}
	return c.JSON(http.StatusOK, resp)
}

func (h *OrderHandler) MarkPaid(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "order_mark_paid")

	id, err := strconv.Atoi(c.Param("id"))
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid order id")
	}

	var req struct {
		PaymentID string `json:"paymentId"`
	}
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid body")
	}

	var order models.Order
	if err := h.DB.First(&order, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return echo.NewHTTPError(http.StatusNotFound, "order not found")
		}
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}

	order.Status = models.OrderPaid
	if req.PaymentID != "" {
		order.PaymentID = req.PaymentID
	}
	if err := h.DB.Save(&order).Error; err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}

	h.publish(c, map[string]any{
		"type":    "order_paid",
		"userID":  order.UserID,
		"orderID": order.ID,
	})

	l.Info("order_paid", "orderID", order.ID)
	resp, err := h.withItems(order)
	if err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}
	return c.JSON(http.StatusOK, resp)
}

func (h *OrderHandler) publish(c echo.Context, event map[string]any) {
	ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
	defer cancel()
	if err := h.Producer.PublishEvent(ctx, "order_events", fmt.Sprint(event["orderID"]), event); err != nil {
		c.Logger().Errorf("Kafka publish error: %v", err)
	}
}
