package collaborators

import (
	"context"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	catalogmemory "github.com/Apurer/go-gin-order-desk/internal/domains/catalog/adapters/memory"
	catalogapp "github.com/Apurer/go-gin-order-desk/internal/domains/catalog/application"
	catalogdomain "github.com/Apurer/go-gin-order-desk/internal/domains/catalog/domain"
	clientmemory "github.com/Apurer/go-gin-order-desk/internal/domains/clients/adapters/memory"
	clientapp "github.com/Apurer/go-gin-order-desk/internal/domains/clients/application"
	clientdomain "github.com/Apurer/go-gin-order-desk/internal/domains/clients/domain"
	ordermemory "github.com/Apurer/go-gin-order-desk/internal/domains/orders/adapters/memory"
	orderapp "github.com/Apurer/go-gin-order-desk/internal/domains/orders/application"
	"github.com/Apurer/go-gin-order-desk/internal/domains/orders/domain"
	"github.com/Apurer/go-gin-order-desk/internal/domains/orders/ports"
)

type desk struct {
	catalog *catalogapp.Service
	clients *clientapp.Service
	orders  *orderapp.Service
}

func newDesk() desk {
	orderRepo := ordermemory.NewRepository()
	catalog := catalogapp.NewService(catalogmemory.NewRepository(), catalogapp.WithOrderReferences(orderRepo))
	clients := clientapp.NewService(clientmemory.NewRepository(), clientapp.WithOrderReferences(orderRepo))
	orders := orderapp.NewService(orderRepo, NewCatalog(catalog), NewDirectory(clients))
	return desk{catalog: catalog, clients: clients, orders: orders}
}

func TestOrderLifecycleAgainstCatalogAndDirectory(t *testing.T) {
	ctx := context.Background()
	d := newDesk()

	client, err := d.clients.Register(ctx, clientdomain.Profile{
		Name:     "Ana Souza",
		Email:    "Ana@Example.com",
		Phone:    "(11) 98765-4321",
		Address:  "Rua das Flores 100",
		Business: clientdomain.BusinessDetails{DeliveryAddress: "Galpão 3, Av. Industrial 900"},
	})
	require.NoError(t, err)
	product, err := d.catalog.Create(ctx, catalogdomain.Details{
		Name:        "P1",
		Description: "Office chair",
		Price:       decimal.RequireFromString("20.00"),
		Stock:       10,
	})
	require.NoError(t, err)
	productID := product.Entity.ID

	stockOf := func() int {
		p, err := d.catalog.GetByID(ctx, productID)
		require.NoError(t, err)
		return p.Entity.Stock
	}

	order, err := d.orders.CreateOrder(ctx, ports.CreateOrderInput{ClientID: client.Entity.ID})
	require.NoError(t, err)
	assert.Equal(t, "ana@example.com", order.Client.Email)
	assert.Equal(t, "Galpão 3, Av. Industrial 900", order.Client.Address)

	order, err = d.orders.AddLine(ctx, order.ID, productID, 4)
	require.NoError(t, err)
	assert.Equal(t, "80.00", order.Total().StringFixed(2))
	assert.Equal(t, 10, stockOf())

	_, err = d.orders.ChangeStatus(ctx, ports.ChangeStatusInput{OrderID: order.ID, Target: domain.StatusProcessing})
	require.NoError(t, err)
	assert.Equal(t, 6, stockOf())

	err = d.catalog.Delete(ctx, productID)
	assert.ErrorIs(t, err, catalogapp.ErrInUse)
	err = d.clients.Delete(ctx, client.Entity.ID)
	assert.ErrorIs(t, err, clientapp.ErrInUse)

	_, err = d.orders.ChangeStatus(ctx, ports.ChangeStatusInput{OrderID: order.ID, Target: domain.StatusCancelled})
	require.NoError(t, err)
	assert.Equal(t, 10, stockOf())
}

func TestCatalogBridgeTranslatesErrors(t *testing.T) {
	ctx := context.Background()
	d := newDesk()
	bridge := NewCatalog(d.catalog)

	_, err := bridge.GetProduct(ctx, 99)
	assert.ErrorIs(t, err, ports.ErrProductNotFound)
	assert.ErrorIs(t, bridge.Release(ctx, 99, 1), ports.ErrProductNotFound)

	product, err := d.catalog.Create(ctx, catalogdomain.Details{
		Name:        "Lamp",
		Description: "Desk lamp",
		Price:       decimal.RequireFromString("12.50"),
		Stock:       2,
	})
	require.NoError(t, err)

	err = bridge.Reserve(ctx, product.Entity.ID, 3)
	assert.ErrorIs(t, err, ports.ErrInsufficientStock)

	require.NoError(t, bridge.Reserve(ctx, product.Entity.ID, 2))
	got, err := bridge.GetProduct(ctx, product.Entity.ID)
	require.NoError(t, err)
	assert.Zero(t, got.Stock)
	assert.True(t, got.Active)
}

func TestDirectoryBridgeTranslatesNotFound(t *testing.T) {
	d := newDesk()
	_, err := NewDirectory(d.clients).GetClient(context.Background(), 5)
	assert.ErrorIs(t, err, ports.ErrClientNotFound)
}
