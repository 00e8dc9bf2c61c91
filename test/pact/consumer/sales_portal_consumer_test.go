//go:build pact
// +build pact

package consumer_test

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"testing"
	"time"

	pacttest "github.com/Apurer/go-gin-order-desk/test/pact"

	pactconsumer "github.com/pact-foundation/pact-go/v2/consumer"
	pactlog "github.com/pact-foundation/pact-go/v2/log"
	"github.com/pact-foundation/pact-go/v2/matchers"
	"github.com/stretchr/testify/require"
)

type orderPayload struct {
	ID     int64  `json:"id"`
	Status string `json:"status"`
	Total  string `json:"total"`
	Client struct {
		ID   int64  `json:"id"`
		Name string `json:"name"`
	} `json:"client"`
	Lines []struct {
		ProductID int64 `json:"productId"`
		Quantity  int   `json:"quantity"`
	} `json:"lines"`
}

type problemDetail struct {
	Type   string `json:"type"`
	Title  string `json:"title"`
	Status int    `json:"status"`
	Detail string `json:"detail"`
}

type apiError struct {
	status int
	title  string
	detail string
}

func (e apiError) Error() string {
	msg := e.title
	if msg == "" {
		msg = "api error"
	}
	if e.detail != "" {
		msg = fmt.Sprintf("%s: %s", msg, e.detail)
	}
	return fmt.Sprintf("%s (status %d)", msg, e.status)
}

func TestSalesPortalContract(t *testing.T) {
	pactlog.SetLogLevel("INFO")

	pact, err := pactconsumer.NewV2Pact(pactconsumer.MockHTTPProviderConfig{
		Consumer: pacttest.ConsumerName,
		Provider: pacttest.ProviderName,
		PactDir:  pacttest.PactDir(t),
		LogDir:   pacttest.LogDir(t),
	})
	require.NoError(t, err)

	jsonContentType := matchers.Regex("application/json; charset=utf-8", "application\\/json(?:;\\s?charset=utf-8)?")
	problemContentType := matchers.S("application/problem+json")
	statusTerm := matchers.Term("pending", "pending|processing|shipped|delivered|cancelled")
	moneyTerm := func(example string) matchers.Matcher {
		return matchers.Term(example, `^\d+\.\d{2}$`)
	}

	pact.AddInteraction().
		Given(pacttest.StateDeskBaseline).
		UponReceiving("a request to open an order").
		WithRequest("POST", "/v1/orders", func(b *pactconsumer.V2RequestBuilder) {
			b.Header("Content-Type", matchers.S("application/json"))
			b.JSONBody(matchers.Map{"clientId": matchers.Like(pacttest.ExistingClientID)})
		}).
		WillRespondWith(http.StatusCreated, func(b *pactconsumer.V2ResponseBuilder) {
			b.Header("Content-Type", jsonContentType)
			b.JSONBody(matchers.Map{
				"id":     matchers.Like(pacttest.ExistingOrderID),
				"status": statusTerm,
				"total":  moneyTerm("0.00"),
				"client": matchers.Map{
					"id":   matchers.Like(pacttest.ExistingClientID),
					"name": matchers.Like(pacttest.ExampleClientName),
				},
			})
		})

	pact.AddInteraction().
		Given(pacttest.StateOrderPending).
		UponReceiving("a request to fetch a pending order").
		WithRequest("GET", fmt.Sprintf("/v1/orders/%d", pacttest.ExistingOrderID)).
		WillRespondWith(http.StatusOK, func(b *pactconsumer.V2ResponseBuilder) {
			b.Header("Content-Type", jsonContentType)
			b.JSONBody(matchers.Map{
				"id":     matchers.Like(pacttest.ExistingOrderID),
				"status": statusTerm,
				"total":  moneyTerm("40.00"),
				"lines": matchers.EachLike(matchers.Map{
					"productId": matchers.Like(pacttest.ExistingProductID),
					"quantity":  matchers.Like(2),
				}, 1),
			})
		})

	pact.AddInteraction().
		Given(pacttest.StateOrderPending).
		UponReceiving("a request to skip straight to delivered").
		WithRequest("POST", fmt.Sprintf("/v1/orders/%d/status", pacttest.ExistingOrderID), func(b *pactconsumer.V2RequestBuilder) {
			b.Header("Content-Type", matchers.S("application/json"))
			b.JSONBody(matchers.Map{"status": matchers.S("delivered")})
		}).
		WillRespondWith(http.StatusConflict, func(b *pactconsumer.V2ResponseBuilder) {
			b.Header("Content-Type", problemContentType)
			b.JSONBody(matchers.Map{
				"type":   matchers.S("/problems/conflict"),
				"title":  matchers.S("Conflict"),
				"status": matchers.Like(http.StatusConflict),
			})
		})

	pact.AddInteraction().
		Given(pacttest.StateOrderMissing).
		UponReceiving("a request for a missing order").
		WithRequest("GET", fmt.Sprintf("/v1/orders/%d", pacttest.MissingOrderID)).
		WillRespondWith(http.StatusNotFound, func(b *pactconsumer.V2ResponseBuilder) {
			b.Header("Content-Type", problemContentType)
			b.JSONBody(matchers.Map{
				"type":   matchers.S("/problems/not-found"),
				"title":  matchers.S("Resource Not Found"),
				"status": matchers.Like(http.StatusNotFound),
			})
		})

	err = pact.ExecuteTest(t, func(config pactconsumer.MockServerConfig) error {
		client := newOrderClient(config)
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()

		created, err := client.CreateOrder(ctx, pacttest.ExistingClientID)
		if err != nil {
			return fmt.Errorf("create order: %w", err)
		}
		if created.ID == 0 || created.Client.ID != pacttest.ExistingClientID {
			return fmt.Errorf("unexpected created order %+v", created)
		}

		fetched, err := client.GetOrder(ctx, pacttest.ExistingOrderID)
		if err != nil {
			return fmt.Errorf("get order: %w", err)
		}
		if len(fetched.Lines) == 0 {
			return fmt.Errorf("expected order lines, got %+v", fetched)
		}

		var apiErr apiError
		_, err = client.ChangeStatus(ctx, pacttest.ExistingOrderID, "delivered")
		if !errors.As(err, &apiErr) || apiErr.status != http.StatusConflict {
			return fmt.Errorf("expected 409 for skipped transition, got %v", err)
		}
		_, err = client.GetOrder(ctx, pacttest.MissingOrderID)
		if !errors.As(err, &apiErr) || apiErr.status != http.StatusNotFound {
			return fmt.Errorf("expected 404 for order %d, got %v", pacttest.MissingOrderID, err)
		}
		return nil
	})
	require.NoError(t, err)
}

type orderClient struct {
	baseURL    string
	httpClient *http.Client
}

func newOrderClient(config pactconsumer.MockServerConfig) *orderClient {
	host := config.Host
	if host == "" {
		host = "localhost"
	}
	transport := &http.Transport{TLSClientConfig: config.TLSConfig}
	return &orderClient{
		baseURL:    fmt.Sprintf("http://%s:%d", host, config.Port),
		httpClient: &http.Client{Transport: transport, Timeout: 10 * time.Second},
	}
}

func (c *orderClient) CreateOrder(ctx context.Context, clientID int64) (*orderPayload, error) {
	return c.send(ctx, http.MethodPost, "/v1/orders", map[string]any{"clientId": clientID})
}

func (c *orderClient) GetOrder(ctx context.Context, id int64) (*orderPayload, error) {
	return c.send(ctx, http.MethodGet, fmt.Sprintf("/v1/orders/%d", id), nil)
}

func (c *orderClient) ChangeStatus(ctx context.Context, id int64, status string) (*orderPayload, error) {
	return c.send(ctx, http.MethodPost, fmt.Sprintf("/v1/orders/%d/status", id), map[string]string{"status": status})
}

func (c *orderClient) send(ctx context.Context, method, path string, body any) (*orderPayload, error) {
	var reader *bytes.Reader
	if body != nil {
		raw, err := json.Marshal(body)
		if err != nil {
			return nil, err
		}
		reader = bytes.NewReader(raw)
	}
	var req *http.Request
	var err error
	if reader != nil {
		req, err = http.NewRequestWithContext(ctx, method, c.baseURL+path, reader)
	} else {
		req, err = http.NewRequestWithContext(ctx, method, c.baseURL+path, nil)
	}
	if err != nil {
		return nil, err
	}
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	res, err := c.httpClient.Do(req)
	if err != nil {
		return nil, err
	}
	defer res.Body.Close()
	if res.StatusCode >= http.StatusBadRequest {
		return nil, decodeAPIError(res)
	}
	var payload orderPayload
	if err := json.NewDecoder(res.Body).Decode(&payload); err != nil {
		return nil, err
	}
	return &payload, nil
}

func decodeAPIError(res *http.Response) error {
	var problem problemDetail
	_ = json.NewDecoder(res.Body).Decode(&problem)
	status := problem.Status
	if status == 0 {
		status = res.StatusCode
	}
	return apiError{status: status, title: problem.Title, detail: problem.Detail}
}
