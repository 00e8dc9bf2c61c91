package deskserver

import (
	"net/http"
	"strconv"
	"strings"

	"github.com/gin-gonic/gin"

	producthttpmapper "github.com/Apurer/go-gin-order-desk/internal/domains/catalog/adapters/http/mapper"
	catalogdomain "github.com/Apurer/go-gin-order-desk/internal/domains/catalog/domain"
	catalogports "github.com/Apurer/go-gin-order-desk/internal/domains/catalog/ports"
)

// ProductAPI exposes the product catalog.
type ProductAPI struct {
	service           catalogports.Service
	lowStockThreshold int
}

// NewProductAPI wires the catalog service. lowStockThreshold applies when a
// request does not name its own threshold.
func NewProductAPI(service catalogports.Service, lowStockThreshold int) ProductAPI {
	return ProductAPI{service: service, lowStockThreshold: lowStockThreshold}
}

// Post /v1/products
func (api *ProductAPI) CreateProduct(c *gin.Context) {
	var payload producthttpmapper.ProductPayload
	if err := c.ShouldBindJSON(&payload); err != nil {
		respondBadRequest(c, err)
		return
	}
	details, err := producthttpmapper.ToDetails(payload)
	if err != nil {
		respondBadRequest(c, err)
		return
	}
	product, err := api.service.Create(c.Request.Context(), details)
	if err != nil {
		respondServiceError(c, err)
		return
	}
	c.JSON(http.StatusCreated, producthttpmapper.FromProjection(product))
}

// Get /v1/products
// Lists products by name; activeOnly hides inactive ones and name filters by fragment
func (api *ProductAPI) ListProducts(c *gin.Context) {
	var (
		result []*catalogports.ProductProjection
		err    error
	)
	if term := strings.TrimSpace(c.Query("name")); term != "" {
		result, err = api.service.SearchByName(c.Request.Context(), term)
	} else {
		activeOnly, parseErr := parseBoolQuery(c, "activeOnly")
		if parseErr != nil {
			respondBadRequest(c, parseErr)
			return
		}
		result, err = api.service.List(c.Request.Context(), activeOnly)
	}
	if err != nil {
		respondServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, producthttpmapper.FromProjectionList(result))
}

// Get /v1/products/low-stock
func (api *ProductAPI) LowStockProducts(c *gin.Context) {
	threshold, err := api.threshold(c)
	if err != nil {
		respondBadRequest(c, err)
		return
	}
	result, err := api.service.LowStock(c.Request.Context(), threshold)
	if err != nil {
		respondServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, producthttpmapper.FromProjectionList(result))
}

// Get /v1/products/out-of-stock
func (api *ProductAPI) OutOfStockProducts(c *gin.Context) {
	result, err := api.service.OutOfStock(c.Request.Context())
	if err != nil {
		respondServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, producthttpmapper.FromProjectionList(result))
}

// Get /v1/products/statistics
func (api *ProductAPI) ProductStatistics(c *gin.Context) {
	threshold, err := api.threshold(c)
	if err != nil {
		respondBadRequest(c, err)
		return
	}
	stats, err := api.service.Statistics(c.Request.Context(), threshold)
	if err != nil {
		respondServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, producthttpmapper.FromStatistics(stats))
}

// Get /v1/products/:productId
func (api *ProductAPI) GetProductById(c *gin.Context) {
	id, ok := parseIDParam(c, "productId")
	if !ok {
		return
	}
	product, err := api.service.GetByID(c.Request.Context(), id)
	if err != nil {
		respondServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, producthttpmapper.FromProjection(product))
}

// Put /v1/products/:productId
func (api *ProductAPI) UpdateProduct(c *gin.Context) {
	id, ok := parseIDParam(c, "productId")
	if !ok {
		return
	}
	var payload producthttpmapper.ProductPayload
	if err := c.ShouldBindJSON(&payload); err != nil {
		respondBadRequest(c, err)
		return
	}
	details, err := producthttpmapper.ToDetails(payload)
	if err != nil {
		respondBadRequest(c, err)
		return
	}
	product, err := api.service.Update(c.Request.Context(), id, details)
	if err != nil {
		respondServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, producthttpmapper.FromProjection(product))
}

// Delete /v1/products/:productId
// Refused while any order references the product
func (api *ProductAPI) DeleteProduct(c *gin.Context) {
	id, ok := parseIDParam(c, "productId")
	if !ok {
		return
	}
	if err := api.service.Delete(c.Request.Context(), id); err != nil {
		respondServiceError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

// Post /v1/products/:productId/stock
// Adds, removes or sets stock
func (api *ProductAPI) AdjustStock(c *gin.Context) {
	id, ok := parseIDParam(c, "productId")
	if !ok {
		return
	}
	var payload producthttpmapper.StockAdjustment
	if err := c.ShouldBindJSON(&payload); err != nil {
		respondBadRequest(c, err)
		return
	}
	mode, err := catalogdomain.ParseStockMode(payload.Mode)
	if err != nil {
		respondBadRequest(c, err)
		return
	}
	product, err := api.service.AdjustStock(c.Request.Context(), id, payload.Amount, mode)
	if err != nil {
		respondServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, producthttpmapper.FromProjection(product))
}

// Post /v1/products/:productId/activate
func (api *ProductAPI) ActivateProduct(c *gin.Context) {
	id, ok := parseIDParam(c, "productId")
	if !ok {
		return
	}
	product, err := api.service.Activate(c.Request.Context(), id)
	if err != nil {
		respondServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, producthttpmapper.FromProjection(product))
}

// Post /v1/products/:productId/deactivate
func (api *ProductAPI) DeactivateProduct(c *gin.Context) {
	id, ok := parseIDParam(c, "productId")
	if !ok {
		return
	}
	product, err := api.service.Deactivate(c.Request.Context(), id)
	if err != nil {
		respondServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, producthttpmapper.FromProjection(product))
}

func (api *ProductAPI) threshold(c *gin.Context) (int, error) {
	raw := strings.TrimSpace(c.Query("threshold"))
	if raw == "" {
		return api.lowStockThreshold, nil
	}
	return strconv.Atoi(raw)
}

func parseBoolQuery(c *gin.Context, name string) (bool, error) {
	raw := strings.TrimSpace(c.Query(name))
	if raw == "" {
		return false, nil
	}
	return strconv.ParseBool(raw)
}
