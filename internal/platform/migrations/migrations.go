package migrations

import (
	"time"

	"github.com/lib/pq"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// Run applies the schema for every bounded context. Adapters never automigrate.
func Run(db *gorm.DB) error {
	if db == nil {
		return nil
	}
	return db.AutoMigrate(
		&counterRecord{},
		&clientRecord{},
		&productRecord{},
		&orderRecord{},
		&orderIdempotencyRecord{},
		&quotationRecord{},
	)
}

// Counter schema mirrors the platform sequence.
type counterRecord struct {
	Kind      string    `gorm:"primaryKey;column:kind;size:64"`
	Value     int64     `gorm:"column:value"`
	UpdatedAt time.Time `gorm:"column:updated_at"`
}

func (counterRecord) TableName() string { return "counters" }

// Client schema mirrors the clients Postgres adapter.
type clientRecord struct {
	ID                int64     `gorm:"primaryKey;column:id"`
	Name              string    `gorm:"column:name;index"`
	Email             string    `gorm:"column:email;uniqueIndex"`
	Phone             string    `gorm:"column:phone"`
	Address           string    `gorm:"column:address"`
	RegisteredAt      time.Time `gorm:"column:registered_at"`
	TradeName         string    `gorm:"column:trade_name"`
	TaxID             string    `gorm:"column:tax_id"`
	StateRegistration string    `gorm:"column:state_registration"`
	DeliveryAddress   string    `gorm:"column:delivery_address"`
	ContactName       string    `gorm:"column:contact_name"`
	PaymentTerms      string    `gorm:"column:payment_terms"`
	CreatedAt         time.Time `gorm:"column:created_at"`
	UpdatedAt         time.Time `gorm:"column:updated_at"`
}

func (clientRecord) TableName() string { return "clients" }

// Product schema mirrors the catalog Postgres adapter.
type productRecord struct {
	ID          int64           `gorm:"primaryKey;column:id"`
	Name        string          `gorm:"column:name;index"`
	Description string          `gorm:"column:description"`
	Price       decimal.Decimal `gorm:"column:price;type:numeric(14,2)"`
	Stock       int             `gorm:"column:stock"`
	Active      bool            `gorm:"column:active;index"`
	CreatedAt   time.Time       `gorm:"column:created_at"`
	UpdatedAt   time.Time       `gorm:"column:updated_at"`
}

func (productRecord) TableName() string { return "products" }

// Order schema mirrors the orders Postgres adapter.
type orderRecord struct {
	ID            int64         `gorm:"primaryKey;column:id"`
	ClientID      int64         `gorm:"column:client_id;index"`
	ClientName    string        `gorm:"column:client_name"`
	ClientEmail   string        `gorm:"column:client_email"`
	ClientPhone   string        `gorm:"column:client_phone"`
	ClientAddress string        `gorm:"column:client_address"`
	Status        string        `gorm:"column:status;type:varchar(32);index"`
	Notes         string        `gorm:"column:notes"`
	Lines         []byte        `gorm:"column:lines;type:jsonb"`
	ProductIDs    pq.Int64Array `gorm:"column:product_ids;type:bigint[]"`
	PlacedAt      time.Time     `gorm:"column:placed_at;index"`
	Version       int64         `gorm:"column:version;not null;default:1"`
	CreatedAt     time.Time     `gorm:"column:created_at"`
	UpdatedAt     time.Time     `gorm:"column:updated_at"`
}

func (orderRecord) TableName() string { return "orders" }

type orderIdempotencyRecord struct {
	Key         string    `gorm:"primaryKey;column:key;size:255"`
	RequestHash string    `gorm:"column:request_hash;size:128"`
	OrderID     int64     `gorm:"column:order_id"`
	CreatedAt   time.Time `gorm:"column:created_at"`
	UpdatedAt   time.Time `gorm:"column:updated_at"`
}

func (orderIdempotencyRecord) TableName() string { return "order_idempotency_keys" }

// Quotation schema mirrors the quotations Postgres adapter.
type quotationRecord struct {
	ID              int64           `gorm:"primaryKey;column:id"`
	ClientID        int64           `gorm:"column:client_id;index"`
	ClientName      string          `gorm:"column:client_name"`
	ClientEmail     string          `gorm:"column:client_email"`
	Status          string          `gorm:"column:status;type:varchar(32);index"`
	ValidityDays    int             `gorm:"column:validity_days"`
	DiscountPercent decimal.Decimal `gorm:"column:discount_percent;type:numeric(5,2)"`
	Notes           string          `gorm:"column:notes"`
	Items           []byte          `gorm:"column:items;type:jsonb"`
	QuotedAt        time.Time       `gorm:"column:quoted_at;index"`
	CreatedAt       time.Time       `gorm:"column:created_at"`
	UpdatedAt       time.Time       `gorm:"column:updated_at"`
}

func (quotationRecord) TableName() string { return "quotations" }
