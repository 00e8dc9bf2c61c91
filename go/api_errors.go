package deskserver

import (
	"strconv"

	"github.com/gin-gonic/gin"

	catalogapp "github.com/Apurer/go-gin-order-desk/internal/domains/catalog/application"
	catalogdomain "github.com/Apurer/go-gin-order-desk/internal/domains/catalog/domain"
	catalogports "github.com/Apurer/go-gin-order-desk/internal/domains/catalog/ports"
	clientsapp "github.com/Apurer/go-gin-order-desk/internal/domains/clients/application"
	clientsports "github.com/Apurer/go-gin-order-desk/internal/domains/clients/ports"
	ordersapp "github.com/Apurer/go-gin-order-desk/internal/domains/orders/application"
	ordersdomain "github.com/Apurer/go-gin-order-desk/internal/domains/orders/domain"
	ordersports "github.com/Apurer/go-gin-order-desk/internal/domains/orders/ports"
	quotationsapp "github.com/Apurer/go-gin-order-desk/internal/domains/quotations/application"
	quotationsdomain "github.com/Apurer/go-gin-order-desk/internal/domains/quotations/domain"
	quotationsports "github.com/Apurer/go-gin-order-desk/internal/domains/quotations/ports"
	apierrors "github.com/Apurer/go-gin-order-desk/internal/shared/errors"
)

// problems renders every service error of the order desk.
var problems = apierrors.NewResponder("",
	apierrors.Matching(apierrors.ErrNotFound,
		clientsports.ErrNotFound,
		catalogports.ErrNotFound,
		ordersports.ErrNotFound,
		ordersports.ErrClientNotFound,
		ordersports.ErrProductNotFound,
		ordersdomain.ErrLineNotFound,
		quotationsports.ErrNotFound,
		quotationsports.ErrClientNotFound,
		quotationsports.ErrProductNotFound,
		quotationsdomain.ErrItemNotFound,
	),
	apierrors.Matching(apierrors.ErrValidation,
		clientsapp.ErrInvalidInput,
		catalogapp.ErrInvalidInput,
		ordersapp.ErrInvalidInput,
		quotationsapp.ErrInvalidInput,
	),
	apierrors.Matching(apierrors.ErrConflict,
		ordersdomain.ErrInvalidTransition,
		ordersdomain.ErrOrderNotEditable,
		ordersports.ErrInsufficientStock,
		ordersports.ErrProductInactive,
		ordersports.ErrIdempotencyConflict,
		ordersports.ErrStaleOrder,
		clientsapp.ErrDuplicateEmail,
		clientsapp.ErrInUse,
		catalogapp.ErrDuplicateName,
		catalogapp.ErrInUse,
		catalogdomain.ErrInsufficientStock,
		catalogdomain.ErrAlreadyActive,
		catalogdomain.ErrAlreadyInactive,
		quotationsdomain.ErrInvalidTransition,
		quotationsdomain.ErrNotEditable,
		quotationsports.ErrProductInactive,
	),
)

func respondServiceError(c *gin.Context, err error) {
	if err == nil {
		return
	}
	problems.RespondError(c, err)
}

func respondBadRequest(c *gin.Context, err error) {
	problems.BadRequest(c, err.Error())
}

func parseIDParam(c *gin.Context, name string) (int64, bool) {
	id, err := strconv.ParseInt(c.Param(name), 10, 64)
	if err != nil {
		respondBadRequest(c, err)
		return 0, false
	}
	return id, true
}
