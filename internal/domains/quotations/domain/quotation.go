package domain

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/shopspring/decimal"
)

// DefaultValidityDays applies when a quotation is created without a validity.
const DefaultValidityDays = 30

var (
	ErrInvalidClient   = errors.New("quotation requires a client")
	ErrInvalidProduct  = errors.New("item requires a product")
	ErrInvalidQuantity = errors.New("quantity must be greater than zero")
	ErrInvalidPrice    = errors.New("unit price must be greater than zero")
	ErrInvalidValidity = errors.New("validity must be at least one day")
	ErrInvalidDiscount = errors.New("discount must be between 0 and 100 percent")
	ErrNotEditable     = errors.New("quotation cannot be edited")
	ErrItemNotFound    = errors.New("product is not on the quotation")
)

var hundred = decimal.NewFromInt(100)

type ClientSnapshot struct {
	ID    int64  `json:"id"`
	Name  string `json:"name"`
	Email string `json:"email"`
}

type ProductSnapshot struct {
	ID          int64           `json:"id"`
	Name        string          `json:"name"`
	Description string          `json:"description"`
	Price       decimal.Decimal `json:"price"`
}

// Item is one quoted product. UnitPrice is either the catalog price or a negotiated one.
type Item struct {
	Product   ProductSnapshot `json:"product"`
	Quantity  int             `json:"quantity"`
	UnitPrice decimal.Decimal `json:"unitPrice"`
}

func (i Item) Subtotal() decimal.Decimal {
	return i.UnitPrice.Mul(decimal.NewFromInt(int64(i.Quantity)))
}

// Quotation is a price proposal to a client. It never touches stock.
type Quotation struct {
	ID              int64
	Client          ClientSnapshot
	CreatedAt       time.Time
	ValidityDays    int
	DiscountPercent decimal.Decimal
	Notes           string
	Status          Status
	Items           []Item
}

// NewQuotation builds a pending quotation. Zero validity falls back to DefaultValidityDays.
func NewQuotation(id int64, client ClientSnapshot, createdAt time.Time, validityDays int, discount decimal.Decimal, notes string) (*Quotation, error) {
	if client.ID <= 0 {
		return nil, ErrInvalidClient
	}
	if validityDays == 0 {
		validityDays = DefaultValidityDays
	}
	if validityDays < 0 {
		return nil, ErrInvalidValidity
	}
	if err := validateDiscount(discount); err != nil {
		return nil, err
	}
	return &Quotation{
		ID:              id,
		Client:          client,
		CreatedAt:       createdAt,
		ValidityDays:    validityDays,
		DiscountPercent: discount,
		Notes:           strings.TrimSpace(notes),
		Status:          StatusPending,
		Items:           []Item{},
	}, nil
}

func (q *Quotation) Subtotal() decimal.Decimal {
	total := decimal.Zero
	for _, item := range q.Items {
		total = total.Add(item.Subtotal())
	}
	return total
}

func (q *Quotation) Discount() decimal.Decimal {
	return q.Subtotal().Mul(q.DiscountPercent).Div(hundred)
}

func (q *Quotation) Total() decimal.Decimal {
	return q.Subtotal().Sub(q.Discount())
}

func (q *Quotation) ValidUntil() time.Time {
	return q.CreatedAt.AddDate(0, 0, q.ValidityDays)
}

// Expired reports whether now is past the validity window.
func (q *Quotation) Expired(now time.Time) bool {
	return now.After(q.ValidUntil())
}

func (q *Quotation) CheckEditable() error {
	if q.Status != StatusPending {
		return fmt.Errorf("%w: quotation %d is %s", ErrNotEditable, q.ID, q.Status)
	}
	return nil
}

// AddItem merges quantity into an existing item or appends a new one at unitPrice.
func (q *Quotation) AddItem(product ProductSnapshot, quantity int, unitPrice decimal.Decimal) error {
	if err := q.CheckEditable(); err != nil {
		return err
	}
	if product.ID <= 0 {
		return ErrInvalidProduct
	}
	if quantity <= 0 {
		return ErrInvalidQuantity
	}
	if !unitPrice.IsPositive() {
		return ErrInvalidPrice
	}
	for i := range q.Items {
		if q.Items[i].Product.ID == product.ID {
			q.Items[i].Quantity += quantity
			return nil
		}
	}
	q.Items = append(q.Items, Item{Product: product, Quantity: quantity, UnitPrice: unitPrice})
	return nil
}

func (q *Quotation) RemoveItem(productID int64) error {
	if err := q.CheckEditable(); err != nil {
		return err
	}
	for i := range q.Items {
		if q.Items[i].Product.ID == productID {
			q.Items = append(q.Items[:i:i], q.Items[i+1:]...)
			return nil
		}
	}
	return fmt.Errorf("%w: product %d on quotation %d", ErrItemNotFound, productID, q.ID)
}

func (q *Quotation) SetDiscount(percent decimal.Decimal) error {
	if err := q.CheckEditable(); err != nil {
		return err
	}
	if err := validateDiscount(percent); err != nil {
		return err
	}
	q.DiscountPercent = percent
	return nil
}

func (q *Quotation) Transition(next Status) error {
	if err := CheckTransition(q.Status, next); err != nil {
		return err
	}
	q.Status = next
	return nil
}

func (q *Quotation) ContainsProduct(productID int64) bool {
	for _, item := range q.Items {
		if item.Product.ID == productID {
			return true
		}
	}
	return false
}

func (q *Quotation) Clone() *Quotation {
	if q == nil {
		return nil
	}
	clone := *q
	clone.Items = append([]Item{}, q.Items...)
	return &clone
}

func validateDiscount(percent decimal.Decimal) error {
	if percent.IsNegative() || percent.GreaterThan(hundred) {
		return fmt.Errorf("%w: got %s", ErrInvalidDiscount, percent.String())
	}
	return nil
}
