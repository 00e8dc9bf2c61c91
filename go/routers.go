package deskserver

import (
	"net/http"

	"github.com/gin-gonic/gin"
)

// Route is the information for every URI.
type Route struct {
	// Name is the name of this Route.
	Name string
	// Method is the string for the HTTP method. ex) GET, POST etc..
	Method string
	// Pattern is the pattern of the URI.
	Pattern string
	// HandlerFunc is the handler function of this route.
	HandlerFunc gin.HandlerFunc
}

// NewRouter returns a new router.
func NewRouter(handleFunctions ApiHandleFunctions) *gin.Engine {
	return NewRouterWithGinEngine(gin.Default(), handleFunctions)
}

// NewRouterWithGinEngine adds the order desk routes to an existing gin engine.
func NewRouterWithGinEngine(router *gin.Engine, handleFunctions ApiHandleFunctions) *gin.Engine {
	for _, route := range getRoutes(handleFunctions) {
		if route.HandlerFunc == nil {
			route.HandlerFunc = DefaultHandleFunc
		}
		switch route.Method {
		case http.MethodGet:
			router.GET(route.Pattern, route.HandlerFunc)
		case http.MethodPost:
			router.POST(route.Pattern, route.HandlerFunc)
		case http.MethodPut:
			router.PUT(route.Pattern, route.HandlerFunc)
		case http.MethodDelete:
			router.DELETE(route.Pattern, route.HandlerFunc)
		}
	}
	return router
}

// DefaultHandleFunc answers routes whose handler is not wired.
func DefaultHandleFunc(c *gin.Context) {
	c.String(http.StatusNotImplemented, "501 not implemented")
}

type ApiHandleFunctions struct {
	// Routes for the ClientAPI part of the API
	ClientAPI ClientAPI
	// Routes for the ProductAPI part of the API
	ProductAPI ProductAPI
	// Routes for the OrderAPI part of the API
	OrderAPI OrderAPI
	// Routes for the QuotationAPI part of the API
	QuotationAPI QuotationAPI
}

func getRoutes(handleFunctions ApiHandleFunctions) []Route {
	return []Route{
		{"RegisterClient", http.MethodPost, "/v1/clients", handleFunctions.ClientAPI.RegisterClient},
		{"ListClients", http.MethodGet, "/v1/clients", handleFunctions.ClientAPI.ListClients},
		{"ClientStatistics", http.MethodGet, "/v1/clients/statistics", handleFunctions.ClientAPI.ClientStatistics},
		{"GetClientById", http.MethodGet, "/v1/clients/:clientId", handleFunctions.ClientAPI.GetClientById},
		{"UpdateClient", http.MethodPut, "/v1/clients/:clientId", handleFunctions.ClientAPI.UpdateClient},
		{"DeleteClient", http.MethodDelete, "/v1/clients/:clientId", handleFunctions.ClientAPI.DeleteClient},

		{"CreateProduct", http.MethodPost, "/v1/products", handleFunctions.ProductAPI.CreateProduct},
		{"ListProducts", http.MethodGet, "/v1/products", handleFunctions.ProductAPI.ListProducts},
		{"LowStockProducts", http.MethodGet, "/v1/products/low-stock", handleFunctions.ProductAPI.LowStockProducts},
		{"OutOfStockProducts", http.MethodGet, "/v1/products/out-of-stock", handleFunctions.ProductAPI.OutOfStockProducts},
		{"ProductStatistics", http.MethodGet, "/v1/products/statistics", handleFunctions.ProductAPI.ProductStatistics},
		{"GetProductById", http.MethodGet, "/v1/products/:productId", handleFunctions.ProductAPI.GetProductById},
		{"UpdateProduct", http.MethodPut, "/v1/products/:productId", handleFunctions.ProductAPI.UpdateProduct},
		{"DeleteProduct", http.MethodDelete, "/v1/products/:productId", handleFunctions.ProductAPI.DeleteProduct},
		{"AdjustStock", http.MethodPost, "/v1/products/:productId/stock", handleFunctions.ProductAPI.AdjustStock},
		{"ActivateProduct", http.MethodPost, "/v1/products/:productId/activate", handleFunctions.ProductAPI.ActivateProduct},
		{"DeactivateProduct", http.MethodPost, "/v1/products/:productId/deactivate", handleFunctions.ProductAPI.DeactivateProduct},

		{"CreateOrder", http.MethodPost, "/v1/orders", handleFunctions.OrderAPI.CreateOrder},
		{"ListOrders", http.MethodGet, "/v1/orders", handleFunctions.OrderAPI.ListOrders},
		{"OrderStatistics", http.MethodGet, "/v1/orders/statistics", handleFunctions.OrderAPI.OrderStatistics},
		{"SalesReport", http.MethodGet, "/v1/orders/reports/sales", handleFunctions.OrderAPI.SalesReport},
		{"GetOrderById", http.MethodGet, "/v1/orders/:orderId", handleFunctions.OrderAPI.GetOrderById},
		{"AddOrderLine", http.MethodPost, "/v1/orders/:orderId/lines", handleFunctions.OrderAPI.AddOrderLine},
		{"RemoveOrderLine", http.MethodDelete, "/v1/orders/:orderId/lines/:productId", handleFunctions.OrderAPI.RemoveOrderLine},
		{"ChangeOrderStatus", http.MethodPost, "/v1/orders/:orderId/status", handleFunctions.OrderAPI.ChangeOrderStatus},
		{"CancelOrder", http.MethodPost, "/v1/orders/:orderId/cancel", handleFunctions.OrderAPI.CancelOrder},

		{"CreateQuotation", http.MethodPost, "/v1/quotations", handleFunctions.QuotationAPI.CreateQuotation},
		{"ListQuotations", http.MethodGet, "/v1/quotations", handleFunctions.QuotationAPI.ListQuotations},
		{"QuotationStatistics", http.MethodGet, "/v1/quotations/statistics", handleFunctions.QuotationAPI.QuotationStatistics},
		{"ExpireQuotations", http.MethodPost, "/v1/quotations/expire", handleFunctions.QuotationAPI.ExpireQuotations},
		{"GetQuotationById", http.MethodGet, "/v1/quotations/:quotationId", handleFunctions.QuotationAPI.GetQuotationById},
		{"AddQuotationItem", http.MethodPost, "/v1/quotations/:quotationId/items", handleFunctions.QuotationAPI.AddQuotationItem},
		{"RemoveQuotationItem", http.MethodDelete, "/v1/quotations/:quotationId/items/:productId", handleFunctions.QuotationAPI.RemoveQuotationItem},
		{"SetQuotationDiscount", http.MethodPut, "/v1/quotations/:quotationId/discount", handleFunctions.QuotationAPI.SetQuotationDiscount},
		{"ChangeQuotationStatus", http.MethodPost, "/v1/quotations/:quotationId/status", handleFunctions.QuotationAPI.ChangeQuotationStatus},
	}
}
