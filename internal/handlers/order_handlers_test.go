package handlers

import (
	"encoding/json"
	"net/http"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/chocolate-factory/storefront/internal/models"
)

func TestCreateOrderEmptyItems(t *testing.T) {
	env := newTestEnv(t)
	h := &OrderHandler{DB: env.DB}
	user := env.createUser("Charlie", "charlie@example.com", models.RoleCustomer)

	_, c := env.doJSONRequest(http.MethodPost, "/api/orders", map[string]any{
		"orderItems":  []any{},
		"totalAmount": 10.0,
	})
	env.asUser(c, user)
	requireHTTPError(t, h.CreateOrder(c), http.StatusBadRequest)

	var count int64
	env.DB.Model(&models.Order{}).Count(&count)
	require.Equal(t, int64(0), count)
}

func TestCreateOrderPendingAndPaid(t *testing.T) {
	env := newTestEnv(t)
	h := &OrderHandler{DB: env.DB}
	user := env.createUser("Charlie", "charlie@example.com", models.RoleCustomer)
	prod := env.createProduct("Milk Bar", 5.00, 10)

	rec, c := env.doJSONRequest(http.MethodPost, "/api/orders", map[string]any{
		"orderItems":  []map[string]any{{"product": prod.ID, "quantity": 2}},
		"totalAmount": 10.0,
	})
	env.asUser(c, user)
	require.NoError(t, h.CreateOrder(c))
	require.Equal(t, http.StatusCreated, rec.Code)

	var resp orderResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	require.Equal(t, models.OrderPending, resp.Status)
	require.Len(t, resp.Items, 1)
	require.Equal(t, uint(2), resp.Items[0].Quantity)

	rec2, c2 := env.doJSONRequest(http.MethodPost, "/api/orders", map[string]any{
		"orderItems":  []map[string]any{{"product": prod.ID, "quantity": 1}},
		"totalAmount": 5.0,
		"paymentId":   "pay_123",
	})
	env.asUser(c2, user)
	require.NoError(t, h.CreateOrder(c2))

	var resp2 orderResponse
	require.NoError(t, json.Unmarshal(rec2.Body.Bytes(), &resp2))
	require.Equal(t, models.OrderPaid, resp2.Status)
	require.Equal(t, "pay_123", resp2.PaymentID)
}

func TestCreateOrderReservesStock(t *testing.T) {
	env := newTestEnv(t)
	h := &OrderHandler{DB: env.DB}
	user := env.createUser("Charlie", "charlie@example.com", models.RoleCustomer)
	prod := env.createProduct("Milk Bar", 5.00, 3)

	_, c := env.doJSONRequest(http.MethodPost, "/api/orders", map[string]any{
		"orderItems":  []map[string]any{{"product": prod.ID, "quantity": 2}},
		"totalAmount": 10.0,
	})
	env.asUser(c, user)
	require.NoError(t, h.CreateOrder(c))

	var after models.Product
	require.NoError(t, env.DB.First(&after, prod.ID).Error)
	require.Equal(t, uint(1), after.Stock)
}

func TestCreateOrderInsufficientStockRollsBack(t *testing.T) {
	env := newTestEnv(t)
	h := &OrderHandler{DB: env.DB}
	user := env.createUser("Charlie", "charlie@example.com", models.RoleCustomer)
	full := env.createProduct("Milk Bar", 5.00, 10)
	scarce := env.createProduct("Truffle", 8.00, 1)

	_, c := env.doJSONRequest(http.MethodPost, "/api/orders", map[string]any{
		"orderItems": []map[string]any{
			{"product": full.ID, "quantity": 2},
			{"product": scarce.ID, "quantity": 5},
		},
		"totalAmount": 50.0,
	})
	env.asUser(c, user)
	requireHTTPError(t, h.CreateOrder(c), http.StatusBadRequest)

	var orders int64
	env.DB.Model(&models.Order{}).Count(&orders)
	require.Equal(t, int64(0), orders)

	// the first line's decrement must roll back with the rest
	var after models.Product
	require.NoError(t, env.DB.First(&after, full.ID).Error)
	require.Equal(t, uint(10), after.Stock)
}

func TestGetMyOrdersNewestFirst(t *testing.T) {
	env := newTestEnv(t)
	h := &OrderHandler{DB: env.DB}
	user := env.createUser("Charlie", "charlie@example.com", models.RoleCustomer)
	other := env.createUser("Oscar", "oscar@example.com", models.RoleCustomer)

	env.DB.Create(&models.Order{UserID: user.ID, TotalAmount: 10, Status: models.OrderPending, CreatedAt: 100})
	env.DB.Create(&models.Order{UserID: user.ID, TotalAmount: 20, Status: models.OrderPending, CreatedAt: 200})
	env.DB.Create(&models.Order{UserID: other.ID, TotalAmount: 99, Status: models.OrderPending, CreatedAt: 300})

	rec, c := env.doJSONRequest(http.MethodGet, "/api/orders/myorders", nil)
	env.asUser(c, user)
	require.NoError(t, h.GetMyOrders(c))

	var resp []orderResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	require.Len(t, resp, 2)
	require.Equal(t, 20.0, resp[0].TotalAmount)
	require.Equal(t, 10.0, resp[1].TotalAmount)
}

func TestGetOrderOwnership(t *testing.T) {
	env := newTestEnv(t)
	h := &OrderHandler{DB: env.DB}
	owner := env.createUser("Charlie", "charlie@example.com", models.RoleCustomer)
	stranger := env.createUser("Oscar", "oscar@example.com", models.RoleCustomer)
	admin := env.createUser("Root", "root@example.com", models.RoleAdmin)

	order := models.Order{UserID: owner.ID, TotalAmount: 10, Status: models.OrderPending, CreatedAt: 100}
	require.NoError(t, env.DB.Create(&order).Error)

	get := func(u *models.User) (int, error) {
		rec, c := env.doJSONRequest(http.MethodGet, "/api/orders/1", nil)
		env.asUser(c, u)
		c.SetParamNames("id")
		c.SetParamValues("1")
		err := h.GetOrder(c)
		return rec.Code, err
	}

	code, err := get(owner)
	require.NoError(t, err)
	require.Equal(t, http.StatusOK, code)

	_, err = get(stranger)
	requireHTTPError(t, err, http.StatusForbidden)

	_, err = get(admin)
	require.NoError(t, err)
}

func TestGetOrderNotFound(t *testing.T) {
	env := newTestEnv(t)
	h := &OrderHandler{DB: env.DB}
	user := env.createUser("Charlie", "charlie@example.com", models.RoleCustomer)

	_, c := env.doJSONRequest(http.MethodGet, "/api/orders/999", nil)
	env.asUser(c, user)
	c.SetParamNames("id")
	c.SetParamValues("999")
	requireHTTPError(t, h.GetOrder(c), http.StatusNotFound)
}

func TestMarkPaidKeepsExistingPaymentID(t *testing.T) {
	env := newTestEnv(t)
	h := &OrderHandler{DB: env.DB}
	user := env.createUser("Charlie", "charlie@example.com", models.RoleCustomer)

	order := models.Order{UserID: user.ID, TotalAmount: 10, Status: models.OrderPending, PaymentID: "pay_old", CreatedAt: 100}
	require.NoError(t, env.DB.Create(&order).Error)

	_, c := env.doJSONRequest(http.MethodPut, "/api/orders/1/pay", map[string]any{})
	env.asUser(c, user)
	c.SetParamNames("id")
	c.SetParamValues("1")
	require.NoError(t, h.MarkPaid(c))

	var after models.Order
	require.NoError(t, env.DB.First(&after, order.ID).Error)
	require.Equal(t, models.OrderPaid, after.Status)
	require.Equal(t, "pay_old", after.PaymentID)

	_, c2 := env.doJSONRequest(http.MethodPut, "/api/orders/1/pay", map[string]any{"paymentId": "pay_new"})
	env.asUser(c2, user)
	c2.SetParamNames("id")
	c2.SetParamValues("1")
	require.NoError(t, h.MarkPaid(c2))

	require.NoError(t, env.DB.First(&after, order.ID).Error)
	require.Equal(t, "pay_new", after.PaymentID)
}

func TestGetAllOrders(t *testing.T) {
	env := newTestEnv(t)
	h := &OrderHandler{DB: env.DB}
	u1 := env.createUser("Charlie", "charlie@example.com", models.RoleCustomer)
	u2 := env.createUser("Oscar", "oscar@example.com", models.RoleCustomer)
	admin := env.createUser("Root", "root@example.com", models.RoleAdmin)

	env.DB.Create(&models.Order{UserID: u1.ID, TotalAmount: 10, Status: models.OrderPending, CreatedAt: 100})
	env.DB.Create(&models.Order{UserID: u2.ID, TotalAmount: 20, Status: models.OrderPaid, CreatedAt: 200})

	rec, c := env.doJSONRequest(http.MethodGet, "/api/orders", nil)
	env.asUser(c, admin)
	require.NoError(t, h.GetAllOrders(c))

	var resp []orderResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	require.Len(t, resp, 2)
}
