package mapper

import (
	"time"

	"github.com/Apurer/go-gin-order-desk/internal/domains/clients/domain"
	"github.com/Apurer/go-gin-order-desk/internal/domains/clients/ports"
)

// ClientPayload is the request body for creating or updating a client.
type ClientPayload struct {
	Name              string `json:"name"`
	Email             string `json:"email"`
	Phone             string `json:"phone"`
	Address           string `json:"address"`
	TradeName         string `json:"tradeName,omitempty"`
	TaxID             string `json:"taxId,omitempty"`
	StateRegistration string `json:"stateRegistration,omitempty"`
	DeliveryAddress   string `json:"deliveryAddress,omitempty"`
	ContactName       string `json:"contactName,omitempty"`
	PaymentTerms      string `json:"paymentTerms,omitempty"`
}

// Client is the response representation of a client.
type Client struct {
	ID                int64     `json:"id"`
	Name              string    `json:"name"`
	Email             string    `json:"email"`
	Phone             string    `json:"phone"`
	Address           string    `json:"address"`
	RegisteredAt      time.Time `json:"registeredAt"`
	TradeName         string    `json:"tradeName"`
	TaxID             string    `json:"taxId"`
	StateRegistration string    `json:"stateRegistration"`
	DeliveryAddress   string    `json:"deliveryAddress"`
	ContactName       string    `json:"contactName"`
	PaymentTerms      string    `json:"paymentTerms"`
	UpdatedAt         time.Time `json:"updatedAt"`
}

// Statistics is the response body for the directory summary.
type Statistics struct {
	Total         int `json:"total"`
	WithOrders    int `json:"withOrders"`
	WithoutOrders int `json:"withoutOrders"`
}

// ToProfile converts a transport payload into the domain profile.
func ToProfile(payload ClientPayload) domain.Profile {
	return domain.Profile{
		Name:    payload.Name,
		Email:   payload.Email,
		Phone:   payload.Phone,
		Address: payload.Address,
		Business: domain.BusinessDetails{
			TradeName:         payload.TradeName,
			TaxID:             payload.TaxID,
			StateRegistration: payload.StateRegistration,
			DeliveryAddress:   payload.DeliveryAddress,
			ContactName:       payload.ContactName,
			PaymentTerms:      payload.PaymentTerms,
		},
	}
}

// FromProjection renders a stored client. The delivery address is the effective one.
func FromProjection(p *ports.ClientProjection) Client {
	if p == nil || p.Entity == nil {
		return Client{}
	}
	c := p.Entity
	return Client{
		ID:                c.ID,
		Name:              c.Name,
		Email:             c.Email,
		Phone:             c.Phone,
		Address:           c.Address,
		RegisteredAt:      c.RegisteredAt,
		TradeName:         c.Business.TradeName,
		TaxID:             c.Business.TaxID,
		StateRegistration: c.Business.StateRegistration,
		DeliveryAddress:   c.DeliveryAddress(),
		ContactName:       c.Business.ContactName,
		PaymentTerms:      c.Business.PaymentTerms,
		UpdatedAt:         p.Metadata.UpdatedAt,
	}
}

func FromProjectionList(list []*ports.ClientProjection) []Client {
	result := make([]Client, 0, len(list))
	for _, p := range list {
		result = append(result, FromProjection(p))
	}
	return result
}

func FromStatistics(stats *ports.Statistics) Statistics {
	if stats == nil {
		return Statistics{}
	}
	return Statistics{Total: stats.Total, WithOrders: stats.WithOrders, WithoutOrders: stats.WithoutOrders}
}
