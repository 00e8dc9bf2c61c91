package domain

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/shopspring/decimal"
)

var (
	ErrInvalidClient    = errors.New("order requires a client")
	ErrInvalidProduct   = errors.New("line requires a product")
	ErrInvalidQuantity  = errors.New("quantity must be greater than zero")
	ErrOrderNotEditable = errors.New("order cannot be edited")
	ErrLineNotFound     = errors.New("product is not on the order")
)

// ClientSnapshot is the copy of the client taken when the order is created.
type ClientSnapshot struct {
	ID      int64  `json:"id"`
	Name    string `json:"name"`
	Email   string `json:"email"`
	Phone   string `json:"phone"`
	Address string `json:"address"`
}

// ProductSnapshot is the copy of a product taken when it is added to an order.
type ProductSnapshot struct {
	ID          int64           `json:"id"`
	Name        string          `json:"name"`
	Description string          `json:"description"`
	Price       decimal.Decimal `json:"price"`
}

// Line is one product on an order. Reserved tracks the units actually deducted
// from stock for this line.
type Line struct {
	Product   ProductSnapshot `json:"product"`
	Quantity  int             `json:"quantity"`
	UnitPrice decimal.Decimal `json:"unitPrice"`
	Reserved  int             `json:"reserved"`
}

// Subtotal is always derived from quantity and the captured unit price.
func (l Line) Subtotal() decimal.Decimal {
	return l.UnitPrice.Mul(decimal.NewFromInt(int64(l.Quantity)))
}

// Order is the purchase order aggregate.
type Order struct {
	ID        int64
	Client    ClientSnapshot
	Lines     []Line
	CreatedAt time.Time
	Notes     string
	Status    Status
	// Version is the stored revision the order was read at; zero until first saved.
	Version int64
}

// NewOrder builds an empty pending order.
func NewOrder(id int64, client ClientSnapshot, createdAt time.Time, notes string) (*Order, error) {
	if client.ID <= 0 {
		return nil, ErrInvalidClient
	}
	return &Order{
		ID:        id,
		Client:    client,
		Lines:     []Line{},
		CreatedAt: createdAt,
		Notes:     strings.TrimSpace(notes),
		Status:    StatusPending,
	}, nil
}

// Total is the sum of the current line subtotals.
func (o *Order) Total() decimal.Decimal {
	total := decimal.Zero
	for _, line := range o.Lines {
		total = total.Add(line.Subtotal())
	}
	return total
}

// ItemCount is the number of units across all lines.
func (o *Order) ItemCount() int {
	count := 0
	for _, line := range o.Lines {
		count += line.Quantity
	}
	return count
}

// CheckEditable fails unless lines may change in the current status.
func (o *Order) CheckEditable() error {
	if !o.Status.Editable() {
		return fmt.Errorf("%w: cannot edit order in status %s", ErrOrderNotEditable, o.Status)
	}
	return nil
}

// QuantityOf returns the quantity already on the order for a product.
func (o *Order) QuantityOf(productID int64) int {
	if i := o.lineIndex(productID); i >= 0 {
		return o.Lines[i].Quantity
	}
	return 0
}

// Line returns the line for a product.
func (o *Order) Line(productID int64) (Line, bool) {
	if i := o.lineIndex(productID); i >= 0 {
		return o.Lines[i], true
	}
	return Line{}, false
}

// AddLine merges quantity into the product's line or appends a new line priced
// at the snapshot price. Stock checks are the caller's job.
func (o *Order) AddLine(product ProductSnapshot, quantity int) error {
	if err := o.CheckEditable(); err != nil {
		return err
	}
	if product.ID <= 0 {
		return ErrInvalidProduct
	}
	if quantity <= 0 {
		return ErrInvalidQuantity
	}
	if i := o.lineIndex(product.ID); i >= 0 {
		o.Lines[i].Quantity += quantity
		return nil
	}
	o.Lines = append(o.Lines, Line{Product: product, Quantity: quantity, UnitPrice: product.Price})
	return nil
}

// RemoveLine deletes the whole line for a product and returns it.
func (o *Order) RemoveLine(productID int64) (Line, error) {
	if err := o.CheckEditable(); err != nil {
		return Line{}, err
	}
	i := o.lineIndex(productID)
	if i < 0 {
		return Line{}, fmt.Errorf("%w: product %d on order %d", ErrLineNotFound, productID, o.ID)
	}
	removed := o.Lines[i]
	o.Lines = append(o.Lines[:i:i], o.Lines[i+1:]...)
	return removed, nil
}

// ApplyTransition moves the order to next and updates line reservations to
// match effect. Stock itself must already have been adjusted.
func (o *Order) ApplyTransition(next Status, effect StockEffect) {
	for i := range o.Lines {
		switch effect {
		case EffectReserve:
			o.Lines[i].Reserved = o.Lines[i].Quantity
		case EffectRelease:
			o.Lines[i].Reserved = 0
		}
	}
	o.Status = next
}

// AppendNote adds text on its own line.
func (o *Order) AppendNote(text string) {
	text = strings.TrimSpace(text)
	if text == "" {
		return
	}
	if o.Notes == "" {
		o.Notes = text
		return
	}
	o.Notes += "\n" + text
}

// ContainsProduct reports whether any line references the product.
func (o *Order) ContainsProduct(productID int64) bool {
	return o.lineIndex(productID) >= 0
}

// ProductIDs lists the products on the order in line order.
func (o *Order) ProductIDs() []int64 {
	ids := make([]int64, 0, len(o.Lines))
	for _, line := range o.Lines {
		ids = append(ids, line.Product.ID)
	}
	return ids
}

// Clone returns a deep copy.
func (o *Order) Clone() *Order {
	if o == nil {
		return nil
	}
	clone := *o
	clone.Lines = append([]Line(nil), o.Lines...)
	if clone.Lines == nil {
		clone.Lines = []Line{}
	}
	return &clone
}

func (o *Order) lineIndex(productID int64) int {
	for i, line := range o.Lines {
		if line.Product.ID == productID {
			return i
		}
	}
	return -1
}
