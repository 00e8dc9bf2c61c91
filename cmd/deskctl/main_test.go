package main

import (
	"bytes"
	"context"
	"encoding/json"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Apurer/go-gin-order-desk/internal/app"
	catalogdomain "github.com/Apurer/go-gin-order-desk/internal/domains/catalog/domain"
	clientsdomain "github.com/Apurer/go-gin-order-desk/internal/domains/clients/domain"
	quotationsports "github.com/Apurer/go-gin-order-desk/internal/domains/quotations/ports"
)

func memoryDesk(t *testing.T) *app.Desk {
	t.Helper()
	cfg, err := app.LoadConfig()
	require.NoError(t, err)
	desk, err := app.Bootstrap(context.Background(), cfg, nil)
	require.NoError(t, err)
	return desk
}

func TestExpireQuotationsCommand(t *testing.T) {
	ctx := context.Background()
	desk := memoryDesk(t)
	client, err := desk.Clients.Register(ctx, clientsdomain.Profile{
		Name: "Ana Souza", Email: "ana@example.com", Phone: "11987654321", Address: "Rua das Flores 100",
	})
	require.NoError(t, err)
	_, err = desk.Quotations.Create(ctx, quotationsports.CreateInput{ClientID: client.Entity.ID, ValidityDays: 1})
	require.NoError(t, err)

	var out bytes.Buffer
	open := func(context.Context) (*app.Desk, error) { return desk, nil }
	at := time.Now().AddDate(0, 0, 3).Format("2006-01-02")
	require.NoError(t, newApp(open, &out).Run([]string{"deskctl", "expire-quotations", "--at", at}))

	var result map[string]int
	require.NoError(t, json.Unmarshal(out.Bytes(), &result))
	assert.Equal(t, 1, result["expired"])
}

func TestLowStockCommand(t *testing.T) {
	ctx := context.Background()
	desk := memoryDesk(t)
	_, err := desk.Catalog.Create(ctx, catalogdomain.Details{
		Name: "Cable", Description: "USB-C cable", Price: decimal.RequireFromString("9.90"), Stock: 2,
	})
	require.NoError(t, err)
	_, err = desk.Catalog.Create(ctx, catalogdomain.Details{
		Name: "Desk", Description: "Standing desk", Price: decimal.RequireFromString("450.00"), Stock: 40,
	})
	require.NoError(t, err)

	var out bytes.Buffer
	open := func(context.Context) (*app.Desk, error) { return desk, nil }
	require.NoError(t, newApp(open, &out).Run([]string{"deskctl", "low-stock", "--threshold", "3"}))

	var products []map[string]any
	require.NoError(t, json.Unmarshal(out.Bytes(), &products))
	require.Len(t, products, 1)
	assert.Equal(t, "Cable", products[0]["name"])
}

func TestSalesReportCommandRejectsEmptyWindow(t *testing.T) {
	desk := memoryDesk(t)
	open := func(context.Context) (*app.Desk, error) { return desk, nil }
	err := newApp(open, &bytes.Buffer{}).Run([]string{"deskctl", "sales-report", "--days", "0"})
	require.Error(t, err)
}
