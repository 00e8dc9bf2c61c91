package deskserver

import (
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"

	quotationhttpmapper "github.com/Apurer/go-gin-order-desk/internal/domains/quotations/adapters/http/mapper"
	quotationsdomain "github.com/Apurer/go-gin-order-desk/internal/domains/quotations/domain"
	quotationsports "github.com/Apurer/go-gin-order-desk/internal/domains/quotations/ports"
)

// QuotationAPI exposes the quotation engine.
type QuotationAPI struct {
	service quotationsports.Service
	now     func() time.Time
}

func NewQuotationAPI(service quotationsports.Service) QuotationAPI {
	return QuotationAPI{service: service, now: time.Now}
}

// Post /v1/quotations
func (api *QuotationAPI) CreateQuotation(c *gin.Context) {
	var payload quotationhttpmapper.CreateQuotationRequest
	if err := c.ShouldBindJSON(&payload); err != nil {
		respondBadRequest(c, err)
		return
	}
	input, err := quotationhttpmapper.ToCreateInput(payload)
	if err != nil {
		respondBadRequest(c, err)
		return
	}
	quotation, err := api.service.Create(c.Request.Context(), input)
	if err != nil {
		respondServiceError(c, err)
		return
	}
	c.JSON(http.StatusCreated, quotationhttpmapper.FromDomain(quotation))
}

// Get /v1/quotations
// Lists quotations newest first, filtered by clientId, status or from/to
func (api *QuotationAPI) ListQuotations(c *gin.Context) {
	ctx := c.Request.Context()
	var (
		quotations []*quotationsdomain.Quotation
		err        error
	)
	switch {
	case c.Query("clientId") != "":
		clientID, parseErr := strconv.ParseInt(c.Query("clientId"), 10, 64)
		if parseErr != nil {
			respondBadRequest(c, parseErr)
			return
		}
		quotations, err = api.service.ListByClient(ctx, clientID)
	case c.Query("status") != "":
		status, parseErr := quotationsdomain.ParseStatus(c.Query("status"))
		if parseErr != nil {
			respondBadRequest(c, parseErr)
			return
		}
		quotations, err = api.service.ListByStatus(ctx, status)
	case c.Query("from") != "" || c.Query("to") != "":
		from, to, parseErr := parsePeriod(c)
		if parseErr != nil {
			respondBadRequest(c, parseErr)
			return
		}
		quotations, err = api.service.ListByPeriod(ctx, from, to)
	default:
		quotations, err = api.service.List(ctx)
	}
	if err != nil {
		respondServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, quotationhttpmapper.FromDomainList(quotations))
}

// Get /v1/quotations/statistics
func (api *QuotationAPI) QuotationStatistics(c *gin.Context) {
	stats, err := api.service.Statistics(c.Request.Context())
	if err != nil {
		respondServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, quotationhttpmapper.FromStatistics(stats))
}

// Post /v1/quotations/expire
// Expires every pending quotation past its validity
func (api *QuotationAPI) ExpireQuotations(c *gin.Context) {
	expired, err := api.service.ExpireOverdue(c.Request.Context(), api.now())
	if err != nil {
		respondServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, quotationhttpmapper.ExpireResult{Expired: expired})
}

// Get /v1/quotations/:quotationId
func (api *QuotationAPI) GetQuotationById(c *gin.Context) {
	id, ok := parseIDParam(c, "quotationId")
	if !ok {
		return
	}
	quotation, err := api.service.GetByID(c.Request.Context(), id)
	if err != nil {
		respondServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, quotationhttpmapper.FromDomain(quotation))
}

// Post /v1/quotations/:quotationId/items
func (api *QuotationAPI) AddQuotationItem(c *gin.Context) {
	id, ok := parseIDParam(c, "quotationId")
	if !ok {
		return
	}
	var payload quotationhttpmapper.AddItemRequest
	if err := c.ShouldBindJSON(&payload); err != nil {
		respondBadRequest(c, err)
		return
	}
	input, err := quotationhttpmapper.ToAddItemInput(id, payload)
	if err != nil {
		respondBadRequest(c, err)
		return
	}
	quotation, err := api.service.AddItem(c.Request.Context(), input)
	if err != nil {
		respondServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, quotationhttpmapper.FromDomain(quotation))
}

// Delete /v1/quotations/:quotationId/items/:productId
func (api *QuotationAPI) RemoveQuotationItem(c *gin.Context) {
	id, ok := parseIDParam(c, "quotationId")
	if !ok {
		return
	}
	productID, ok := parseIDParam(c, "productId")
	if !ok {
		return
	}
	quotation, err := api.service.RemoveItem(c.Request.Context(), id, productID)
	if err != nil {
		respondServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, quotationhttpmapper.FromDomain(quotation))
}

// Put /v1/quotations/:quotationId/discount
func (api *QuotationAPI) SetQuotationDiscount(c *gin.Context) {
	id, ok := parseIDParam(c, "quotationId")
	if !ok {
		return
	}
	var payload quotationhttpmapper.DiscountRequest
	if err := c.ShouldBindJSON(&payload); err != nil {
		respondBadRequest(c, err)
		return
	}
	percent, err := quotationhttpmapper.ToDiscount(payload)
	if err != nil {
		respondBadRequest(c, err)
		return
	}
	quotation, err := api.service.SetDiscount(c.Request.Context(), id, percent)
	if err != nil {
		respondServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, quotationhttpmapper.FromDomain(quotation))
}

// Post /v1/quotations/:quotationId/status
func (api *QuotationAPI) ChangeQuotationStatus(c *gin.Context) {
	id, ok := parseIDParam(c, "quotationId")
	if !ok {
		return
	}
	var payload quotationhttpmapper.StatusRequest
	if err := c.ShouldBindJSON(&payload); err != nil {
		respondBadRequest(c, err)
		return
	}
	target, err := quotationsdomain.ParseStatus(payload.Status)
	if err != nil {
		respondBadRequest(c, err)
		return
	}
	quotation, err := api.service.ChangeStatus(c.Request.Context(), id, target)
	if err != nil {
		respondServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, quotationhttpmapper.FromDomain(quotation))
}
