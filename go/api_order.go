package deskserver

import (
	"context"
	"fmt"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/gin-gonic/gin"

	orderhttpmapper "github.com/Apurer/go-gin-order-desk/internal/domains/orders/adapters/http/mapper"
	ordersapp "github.com/Apurer/go-gin-order-desk/internal/domains/orders/application"
	ordersdomain "github.com/Apurer/go-gin-order-desk/internal/domains/orders/domain"
	ordersports "github.com/Apurer/go-gin-order-desk/internal/domains/orders/ports"
)

// IdempotencyKeyHeader carries the client-chosen key that makes order creation retry safe.
const IdempotencyKeyHeader = "Idempotency-Key"

const dateLayout = "2006-01-02"

// OrderAPI wires HTTP transport with the orders service and its workflows.
type OrderAPI struct {
	service   ordersports.Service
	workflows ordersports.WorkflowOrchestrator
}

// NewOrderAPI creates an OrderAPI. Status changes go through workflows when it is set.
func NewOrderAPI(service ordersports.Service, workflows ordersports.WorkflowOrchestrator) OrderAPI {
	return OrderAPI{service: service, workflows: workflows}
}

// Post /v1/orders
// Opens an empty pending order for a client
func (api *OrderAPI) CreateOrder(c *gin.Context) {
	var payload orderhttpmapper.CreateOrderRequest
	if err := c.ShouldBindJSON(&payload); err != nil {
		respondBadRequest(c, err)
		return
	}
	input := orderhttpmapper.ToCreateOrderInput(payload, c.GetHeader(IdempotencyKeyHeader))
	order, err := api.service.CreateOrder(c.Request.Context(), input)
	if err != nil {
		respondServiceError(c, err)
		return
	}
	c.JSON(http.StatusCreated, orderhttpmapper.FromDomain(order))
}

// Get /v1/orders
// Lists orders. Filters apply in the order clientId, status, from/to; otherwise sort picks the ordering
func (api *OrderAPI) ListOrders(c *gin.Context) {
	ctx := c.Request.Context()
	var (
		orders []*ordersdomain.Order
		err    error
	)
	switch {
	case c.Query("clientId") != "":
		clientID, parseErr := strconv.ParseInt(c.Query("clientId"), 10, 64)
		if parseErr != nil {
			respondBadRequest(c, parseErr)
			return
		}
		orders, err = api.service.ListByClient(ctx, clientID)
	case c.Query("status") != "":
		status, parseErr := ordersdomain.ParseStatus(c.Query("status"))
		if parseErr != nil {
			respondBadRequest(c, parseErr)
			return
		}
		orders, err = api.service.ListByStatus(ctx, status)
	case c.Query("from") != "" || c.Query("to") != "":
		from, to, parseErr := parsePeriod(c)
		if parseErr != nil {
			respondBadRequest(c, parseErr)
			return
		}
		orders, err = api.service.ListByPeriod(ctx, from, to)
	default:
		sortBy, parseErr := ordersapp.ParseSortKey(c.Query("sort"))
		if parseErr != nil {
			respondServiceError(c, parseErr)
			return
		}
		orders, err = api.service.List(ctx, sortBy)
	}
	if err != nil {
		respondServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, orderhttpmapper.FromDomainList(orders))
}

// Get /v1/orders/statistics
func (api *OrderAPI) OrderStatistics(c *gin.Context) {
	stats, err := api.service.Statistics(c.Request.Context())
	if err != nil {
		respondServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, orderhttpmapper.FromStatistics(stats))
}

// Get /v1/orders/reports/sales
// Summarizes delivered orders of the last days (30 by default)
func (api *OrderAPI) SalesReport(c *gin.Context) {
	days, err := strconv.Atoi(c.DefaultQuery("days", "30"))
	if err != nil {
		respondBadRequest(c, err)
		return
	}
	report, err := api.service.SalesReport(c.Request.Context(), days)
	if err != nil {
		respondServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, orderhttpmapper.FromSalesReport(report))
}

// Get /v1/orders/:orderId
func (api *OrderAPI) GetOrderById(c *gin.Context) {
	id, ok := parseIDParam(c, "orderId")
	if !ok {
		return
	}
	order, err := api.service.GetByID(c.Request.Context(), id)
	if err != nil {
		respondServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, orderhttpmapper.FromDomain(order))
}

// Post /v1/orders/:orderId/lines
// Adds units of a product, merging with an existing line
func (api *OrderAPI) AddOrderLine(c *gin.Context) {
	id, ok := parseIDParam(c, "orderId")
	if !ok {
		return
	}
	var payload orderhttpmapper.AddLineRequest
	if err := c.ShouldBindJSON(&payload); err != nil {
		respondBadRequest(c, err)
		return
	}
	order, err := api.service.AddLine(c.Request.Context(), id, payload.ProductID, payload.Quantity)
	if err != nil {
		respondServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, orderhttpmapper.FromDomain(order))
}

// Delete /v1/orders/:orderId/lines/:productId
func (api *OrderAPI) RemoveOrderLine(c *gin.Context) {
	id, ok := parseIDParam(c, "orderId")
	if !ok {
		return
	}
	productID, ok := parseIDParam(c, "productId")
	if !ok {
		return
	}
	order, err := api.service.RemoveLine(c.Request.Context(), id, productID)
	if err != nil {
		respondServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, orderhttpmapper.FromDomain(order))
}

// Post /v1/orders/:orderId/status
// Moves the order along its lifecycle, reserving or releasing stock
func (api *OrderAPI) ChangeOrderStatus(c *gin.Context) {
	id, ok := parseIDParam(c, "orderId")
	if !ok {
		return
	}
	var payload orderhttpmapper.StatusRequest
	if err := c.ShouldBindJSON(&payload); err != nil {
		respondBadRequest(c, err)
		return
	}
	target, err := ordersdomain.ParseStatus(payload.Status)
	if err != nil {
		respondBadRequest(c, err)
		return
	}
	order, err := api.changeStatus(c.Request.Context(), ordersports.ChangeStatusInput{OrderID: id, Target: target})
	if err != nil {
		respondServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, orderhttpmapper.FromDomain(order))
}

// Post /v1/orders/:orderId/cancel
func (api *OrderAPI) CancelOrder(c *gin.Context) {
	id, ok := parseIDParam(c, "orderId")
	if !ok {
		return
	}
	var payload orderhttpmapper.CancelRequest
	if c.Request.ContentLength != 0 {
		if err := c.ShouldBindJSON(&payload); err != nil {
			respondBadRequest(c, err)
			return
		}
	}
	order, err := api.cancel(c.Request.Context(), ordersports.CancelInput{OrderID: id, Reason: payload.Reason})
	if err != nil {
		respondServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, orderhttpmapper.FromDomain(order))
}

func (api *OrderAPI) changeStatus(ctx context.Context, input ordersports.ChangeStatusInput) (*ordersdomain.Order, error) {
	if api.workflows != nil {
		return api.workflows.ChangeStatus(ctx, input)
	}
	return api.service.ChangeStatus(ctx, input)
}

func (api *OrderAPI) cancel(ctx context.Context, input ordersports.CancelInput) (*ordersdomain.Order, error) {
	if api.workflows != nil {
		return api.workflows.Cancel(ctx, input)
	}
	return api.service.Cancel(ctx, input)
}

// parsePeriod reads from/to as calendar dates. A missing bound leaves the
// period open on that side; to covers its whole day.
func parsePeriod(c *gin.Context) (time.Time, time.Time, error) {
	from := time.Time{}
	to := time.Date(9999, 12, 31, 23, 59, 59, 0, time.UTC)
	if raw := strings.TrimSpace(c.Query("from")); raw != "" {
		parsed, err := time.Parse(dateLayout, raw)
		if err != nil {
			return time.Time{}, time.Time{}, fmt.Errorf("from must be a date like %s", dateLayout)
		}
		from = parsed
	}
	if raw := strings.TrimSpace(c.Query("to")); raw != "" {
		parsed, err := time.Parse(dateLayout, raw)
		if err != nil {
			return time.Time{}, time.Time{}, fmt.Errorf("to must be a date like %s", dateLayout)
		}
		to = parsed.Add(24*time.Hour - time.Nanosecond)
	}
	return from, to, nil
}
