package domain

import (
	"errors"
	"regexp"
	"strings"
	"time"
	"unicode"
)

var (
	ErrNameTooShort    = errors.New("name must have at least 2 characters")
	ErrInvalidEmail    = errors.New("email format is invalid")
	ErrInvalidPhone    = errors.New("phone must have 10 or 11 digits")
	ErrAddressTooShort = errors.New("address must have at least 5 characters")
)

var emailPattern = regexp.MustCompile(`^[a-zA-Z0-9._%+-]+@[a-zA-Z0-9.-]+\.[a-zA-Z]{2,}$`)

// BusinessDetails groups the optional commercial fields of a client.
// Every field defaults to the empty string.
type BusinessDetails struct {
	TradeName         string
	TaxID             string
	StateRegistration string
	DeliveryAddress   string
	ContactName       string
	PaymentTerms      string
}

// Client is a customer that can place orders and receive quotations.
type Client struct {
	ID           int64
	Name         string
	Email        string
	Phone        string
	Address      string
	RegisteredAt time.Time
	Business     BusinessDetails
}

// Profile carries the mutable client attributes.
type Profile struct {
	Name     string
	Email    string
	Phone    string
	Address  string
	Business BusinessDetails
}

// NewClient validates the profile and builds a client.
func NewClient(id int64, profile Profile, registeredAt time.Time) (*Client, error) {
	client := &Client{ID: id, RegisteredAt: registeredAt}
	if err := client.UpdateProfile(profile); err != nil {
		return nil, err
	}
	return client, nil
}

// UpdateProfile replaces the client attributes after normalizing and validating them.
// All violations are reported together.
func (c *Client) UpdateProfile(profile Profile) error {
	name := strings.TrimSpace(profile.Name)
	email := strings.ToLower(strings.TrimSpace(profile.Email))
	phone := strings.TrimSpace(profile.Phone)
	address := strings.TrimSpace(profile.Address)

	var errs []error
	if len([]rune(name)) < 2 {
		errs = append(errs, ErrNameTooShort)
	}
	if !emailPattern.MatchString(email) {
		errs = append(errs, ErrInvalidEmail)
	}
	if digits := countDigits(phone); digits != 10 && digits != 11 {
		errs = append(errs, ErrInvalidPhone)
	}
	if len([]rune(address)) < 5 {
		errs = append(errs, ErrAddressTooShort)
	}
	if len(errs) > 0 {
		return errors.Join(errs...)
	}

	c.Name = name
	c.Email = email
	c.Phone = phone
	c.Address = address
	c.Business = profile.Business.normalized()
	return nil
}

// DeliveryAddress falls back to the main address when no dedicated one is set.
func (c *Client) DeliveryAddress() string {
	if c.Business.DeliveryAddress != "" {
		return c.Business.DeliveryAddress
	}
	return c.Address
}

// SameEmail compares emails case-insensitively.
func (c *Client) SameEmail(email string) bool {
	return strings.EqualFold(c.Email, strings.TrimSpace(email))
}

func (b BusinessDetails) normalized() BusinessDetails {
	return BusinessDetails{
		TradeName:         strings.TrimSpace(b.TradeName),
		TaxID:             strings.TrimSpace(b.TaxID),
		StateRegistration: strings.TrimSpace(b.StateRegistration),
		DeliveryAddress:   strings.TrimSpace(b.DeliveryAddress),
		ContactName:       strings.TrimSpace(b.ContactName),
		PaymentTerms:      strings.TrimSpace(b.PaymentTerms),
	}
}

func countDigits(value string) int {
	count := 0
	for _, r := range value {
		if unicode.IsDigit(r) {
			count++
		}
	}
	return count
}
