package handlers

import (
	"encoding/json"
	"net/http"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/chocolate-factory/storefront/internal/models"
)

func TestCreateProductDefaults(t *testing.T) {
	env := newTestEnv(t)
	h := &ProductHandler{DB: env.DB}

	rec, c := env.doJSONRequest(http.MethodPost, "/api/products", map[string]any{})
	require.NoError(t, h.CreateProduct(c))
	require.Equal(t, http.StatusCreated, rec.Code)

	var prod models.Product
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &prod))
	require.Equal(t, "Sample name", prod.Name)
	require.Equal(t, "Milk Chocolate", prod.Category)
	require.Equal(t, "/images/sample.jpg", prod.Image)
	require.Equal(t, []string{"Cocoa", "Sugar"}, prod.Ingredients)
	require.Equal(t, 100.0, prod.Weight)
}

func TestCreateProductUnknownCategory(t *testing.T) {
	env := newTestEnv(t)
	h := &ProductHandler{DB: env.DB}

	_, c := env.doJSONRequest(http.MethodPost, "/api/products", map[string]any{
		"name":     "Mystery",
		"category": "Licorice",
	})
	requireHTTPError(t, h.CreateProduct(c), http.StatusBadRequest)
}

func TestGetProductNotFound(t *testing.T) {
	env := newTestEnv(t)
	h := &ProductHandler{DB: env.DB}

	_, c := env.doJSONRequest(http.MethodGet, "/api/products/999", nil)
	c.SetParamNames("id")
	c.SetParamValues("999")
	requireHTTPError(t, h.GetProduct(c), http.StatusNotFound)
}

func TestGetProductsCategoryFilter(t *testing.T) {
	env := newTestEnv(t)
	h := &ProductHandler{DB: env.DB}

	dark := env.createProduct("Dark Bar", 5, 10)
	milk := models.Product{
		Name: "Milk Bar", Description: "d", Price: 4, Category: "Milk Chocolate",
		Image: "/images/milk.jpg", Stock: 10, Ingredients: []string{"Cocoa"}, Weight: 100,
	}
	require.NoError(t, env.DB.Create(&milk).Error)

	rec, c := env.doJSONRequest(http.MethodGet, "/api/products?category=Dark+Chocolate", nil)
	require.NoError(t, h.GetProducts(c))

	var resp struct {
		Data []models.Product `json:"data"`
		Meta map[string]any   `json:"meta"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	require.Len(t, resp.Data, 1)
	require.Equal(t, dark.ID, resp.Data[0].ID)
	require.Equal(t, float64(1), resp.Meta["total"])
}

func TestUpdateProduct(t *testing.T) {
	env := newTestEnv(t)
	h := &ProductHandler{DB: env.DB}
	prod := env.createProduct("Dark Bar", 5, 10)

	rec, c := env.doJSONRequest(http.MethodPut, "/api/products/1", map[string]any{
		"name":        "Extra Dark Bar",
		"description": "85% cocoa",
		"price":       6.5,
		"category":    "Bars",
		"image":       "/images/extra-dark.jpg",
		"stock":       7,
		"ingredients": []string{"Cocoa mass", "Sugar"},
		"weight":      90,
	})
	c.SetParamNames("id")
	c.SetParamValues("1")
	require.NoError(t, h.UpdateProduct(c))
	require.Equal(t, http.StatusOK, rec.Code)

	var after models.Product
	require.NoError(t, env.DB.First(&after, prod.ID).Error)
	require.Equal(t, "Extra Dark Bar", after.Name)
	require.Equal(t, "Bars", after.Category)
	require.Equal(t, uint(7), after.Stock)
}

func TestUpdateProductNotFound(t *testing.T) {
	env := newTestEnv(t)
	h := &ProductHandler{DB: env.DB}

	_, c := env.doJSONRequest(http.MethodPut, "/api/products/999", map[string]any{
		"name": "Ghost", "category": "Bars",
	})
	c.SetParamNames("id")
	c.SetParamValues("999")
	requireHTTPError(t, h.UpdateProduct(c), http.StatusNotFound)
}

func TestDeleteProduct(t *testing.T) {
	env := newTestEnv(t)
	h := &ProductHandler{DB: env.DB}
	prod := env.createProduct("Dark Bar", 5, 10)

	rec, c := env.doJSONRequest(http.MethodDelete, "/api/products/1", nil)
	c.SetParamNames("id")
	c.SetParamValues("1")
	require.NoError(t, h.DeleteProduct(c))
	require.Equal(t, http.StatusOK, rec.Code)

	var count int64
	env.DB.Model(&models.Product{}).Where("id = ?", prod.ID).Count(&count)
	require.Equal(t, int64(0), count)
}
