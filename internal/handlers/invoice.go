package handlers

import (
	"errors"
	"fmt"
	"net/http"
	"strconv"

	"github.com/labstack/echo/v4"
	"gorm.io/gorm"

	"github.com/chocolate-factory/storefront/internal/invoice"
	"github.com/chocolate-factory/storefront/internal/logging"
	"github.com/chocolate-factory/storefront/internal/middleware/auth"
	"github.com/chocolate-factory/storefront/internal/models"
)

type InvoiceHandler struct {
	DB *gorm.DB
}

// GetInvoice renders the tax invoice for one of the requester's own
// orders and streams it as a download. Admins get no special access here.
func (h *InvoiceHandler) GetInvoice(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "invoice")

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

	if order.UserID != auth.UserID(c) {
		l.Warn("invoice_forbidden", "orderID", order.ID, "requester", auth.UserID(c))
		return echo.NewHTTPError(http.StatusForbidden, "not your order")
	}

	var owner models.User
	if err := h.DB.First(&owner, order.UserID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return echo.NewHTTPError(http.StatusNotFound, "user not found")
		}
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}

	var items []models.OrderItem
	if err := h.DB.Where("order_id = ?", order.ID).Order("id ASC").Find(&items).Error; err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}

	lines := make([]invoice.Line, 0, len(items))
	for _, it := range items {
		line := invoice.Line{Name: fmt.Sprintf("Product #%d", it.ProductID), Quantity: it.Quantity}
		var p models.Product
		if err := h.DB.First(&p, it.ProductID).Error; err == nil {
			line.Name = p.Name
			line.UnitPrice = p.Price
		}
		lines = append(lines, line)
	}

	pdfBytes, err := invoice.Render(order, owner, lines)
	if err != nil {
		l.Error("invoice_render_failed", "orderID", order.ID, "error", err)
		return echo.NewHTTPError(http.StatusInternalServerError, "cannot render invoice")
	}

	l.Info("invoice_rendered", "orderID", order.ID)
	c.Response().Header().Set(echo.HeaderContentDisposition,
		fmt.Sprintf("attachment; filename=invoice-%d.pdf", order.ID))
	return c.Blob(http.StatusOK, "application/pdf", pdfBytes)
}
