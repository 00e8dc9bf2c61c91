// Command deskctl runs order desk maintenance and reporting tasks against the
// configured store.
package main

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log"
	"log/slog"
	"os"
	"time"

	"github.com/urfave/cli/v2"

	"github.com/Apurer/go-gin-order-desk/internal/app"
	producthttpmapper "github.com/Apurer/go-gin-order-desk/internal/domains/catalog/adapters/http/mapper"
	orderhttpmapper "github.com/Apurer/go-gin-order-desk/internal/domains/orders/adapters/http/mapper"
	quotationhttpmapper "github.com/Apurer/go-gin-order-desk/internal/domains/quotations/adapters/http/mapper"
	platformobservability "github.com/Apurer/go-gin-order-desk/internal/platform/observability"
)

type deskFactory func(ctx context.Context) (*app.Desk, error)

func main() {
	if err := newApp(bootstrapDesk, os.Stdout).Run(os.Args); err != nil {
		log.Fatalf("deskctl: %v", err)
	}
}

func bootstrapDesk(ctx context.Context) (*app.Desk, error) {
	cfg, err := app.LoadConfig()
	if err != nil {
		return nil, err
	}
	handler := slog.NewJSONHandler(os.Stderr, &slog.HandlerOptions{Level: platformobservability.ParseLevel(cfg.LogLevel)})
	instruments := &platformobservability.Instruments{Logger: slog.New(handler)}
	if cfg.PostgresDSN == "" {
		instruments.Logger.Warn("POSTGRES_DSN not set, deskctl is working on an empty in-memory desk")
	}
	return app.Bootstrap(ctx, cfg, instruments)
}

func newApp(open deskFactory, out io.Writer) *cli.App {
	withDesk := func(run func(c *cli.Context, desk *app.Desk) (any, error)) cli.ActionFunc {
		return func(c *cli.Context) error {
			desk, err := open(c.Context)
			if err != nil {
				return err
			}
			defer desk.Close()
			result, err := run(c, desk)
			if err != nil {
				return err
			}
			encoder := json.NewEncoder(out)
			encoder.SetIndent("", "  ")
			return encoder.Encode(result)
		}
	}

	return &cli.App{
		Name:  "deskctl",
		Usage: "order desk maintenance and reports",
		Commands: []*cli.Command{
			{
				Name:  "expire-quotations",
				Usage: "move every pending quotation past its validity to expired",
				Flags: []cli.Flag{
					&cli.TimestampFlag{Name: "at", Layout: "2006-01-02", Usage: "reference date (defaults to now)"},
				},
				Action: withDesk(func(c *cli.Context, desk *app.Desk) (any, error) {
					now := time.Now()
					if at := c.Timestamp("at"); at != nil {
						now = *at
					}
					expired, err := desk.Quotations.ExpireOverdue(c.Context, now)
					if err != nil {
						return nil, err
					}
					return quotationhttpmapper.ExpireResult{Expired: expired}, nil
				}),
			},
			{
				Name:  "sales-report",
				Usage: "summarize delivered orders of the last days",
				Flags: []cli.Flag{
					&cli.IntFlag{Name: "days", Value: 30},
				},
				Action: withDesk(func(c *cli.Context, desk *app.Desk) (any, error) {
					report, err := desk.Orders.SalesReport(c.Context, c.Int("days"))
					if err != nil {
						return nil, err
					}
					return orderhttpmapper.FromSalesReport(report), nil
				}),
			},
			{
				Name:  "statistics",
				Usage: "print order statistics",
				Action: withDesk(func(c *cli.Context, desk *app.Desk) (any, error) {
					stats, err := desk.Orders.Statistics(c.Context)
					if err != nil {
						return nil, err
					}
					return orderhttpmapper.FromStatistics(stats), nil
				}),
			},
			{
				Name:  "low-stock",
				Usage: "list active products at or below a stock threshold",
				Flags: []cli.Flag{
					&cli.IntFlag{Name: "threshold", Value: 5},
				},
				Action: withDesk(func(c *cli.Context, desk *app.Desk) (any, error) {
					if c.Int("threshold") < 0 {
						return nil, fmt.Errorf("threshold cannot be negative")
					}
					products, err := desk.Catalog.LowStock(c.Context, c.Int("threshold"))
					if err != nil {
						return nil, err
					}
					return producthttpmapper.FromProjectionList(products), nil
				}),
			},
		},
	}
}
