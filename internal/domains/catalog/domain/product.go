package domain

import (
	"errors"
	"fmt"
	"strings"

	"github.com/shopspring/decimal"
)

var (
	ErrNameTooShort        = errors.New("name must have at least 2 characters")
	ErrDescriptionTooShort = errors.New("description must have at least 5 characters")
	ErrPriceNotPositive    = errors.New("price must be greater than zero")
	ErrNegativeStock       = errors.New("stock cannot be negative")
	ErrInvalidAmount       = errors.New("stock amount must be greater than zero")
	ErrInvalidStockMode    = errors.New("stock mode must be add, remove or set")
	ErrInsufficientStock   = errors.New("insufficient stock")
	ErrAlreadyActive       = errors.New("product is already active")
	ErrAlreadyInactive     = errors.New("product is already inactive")
)

// StockMode selects how AdjustStock applies an amount.
type StockMode string

const (
	StockAdd    StockMode = "add"
	StockRemove StockMode = "remove"
	StockSet    StockMode = "set"
)

// ParseStockMode accepts the three known modes, case-insensitively.
func ParseStockMode(raw string) (StockMode, error) {
	switch mode := StockMode(strings.ToLower(strings.TrimSpace(raw))); mode {
	case StockAdd, StockRemove, StockSet:
		return mode, nil
	default:
		return "", fmt.Errorf("%w: %q", ErrInvalidStockMode, raw)
	}
}

// Product is a sellable catalog item and the owner of its stock level.
type Product struct {
	ID          int64
	Name        string
	Description string
	Price       decimal.Decimal
	Stock       int
	Active      bool
}

// Details carries the editable product attributes.
type Details struct {
	Name        string
	Description string
	Price       decimal.Decimal
	Stock       int
}

// NewProduct validates details and returns an active product.
func NewProduct(id int64, details Details) (*Product, error) {
	product := &Product{ID: id, Active: true}
	if err := product.Update(details); err != nil {
		return nil, err
	}
	return product, nil
}

// Update replaces the editable attributes. All violations are reported together.
func (p *Product) Update(details Details) error {
	name := strings.TrimSpace(details.Name)
	description := strings.TrimSpace(details.Description)

	var errs []error
	if len([]rune(name)) < 2 {
		errs = append(errs, ErrNameTooShort)
	}
	if len([]rune(description)) < 5 {
		errs = append(errs, ErrDescriptionTooShort)
	}
	if !details.Price.IsPositive() {
		errs = append(errs, ErrPriceNotPositive)
	}
	if details.Stock < 0 {
		errs = append(errs, ErrNegativeStock)
	}
	if len(errs) > 0 {
		return errors.Join(errs...)
	}

	p.Name = name
	p.Description = description
	p.Price = details.Price
	p.Stock = details.Stock
	return nil
}

// AdjustStock applies amount according to mode. Stock never drops below zero.
func (p *Product) AdjustStock(amount int, mode StockMode) error {
	switch mode {
	case StockAdd:
		if amount <= 0 {
			return ErrInvalidAmount
		}
		p.Stock += amount
	case StockRemove:
		if amount <= 0 {
			return ErrInvalidAmount
		}
		if p.Stock < amount {
			return fmt.Errorf("%w: %q has %d, requested %d", ErrInsufficientStock, p.Name, p.Stock, amount)
		}
		p.Stock -= amount
	case StockSet:
		if amount < 0 {
			return ErrNegativeStock
		}
		p.Stock = amount
	default:
		return fmt.Errorf("%w: %q", ErrInvalidStockMode, mode)
	}
	return nil
}

func (p *Product) Activate() error {
	if p.Active {
		return ErrAlreadyActive
	}
	p.Active = true
	return nil
}

func (p *Product) Deactivate() error {
	if !p.Active {
		return ErrAlreadyInactive
	}
	p.Active = false
	return nil
}

// InventoryValue is price times units on hand.
func (p *Product) InventoryValue() decimal.Decimal {
	return p.Price.Mul(decimal.NewFromInt(int64(p.Stock)))
}

// SameName compares names case-insensitively.
func (p *Product) SameName(name string) bool {
	return strings.EqualFold(p.Name, strings.TrimSpace(name))
}
