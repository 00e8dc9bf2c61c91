package postgres

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/lib/pq"
	"gorm.io/gorm"

	"github.com/Apurer/go-gin-order-desk/internal/domains/orders/domain"
	"github.com/Apurer/go-gin-order-desk/internal/domains/orders/ports"
	"github.com/Apurer/go-gin-order-desk/internal/shared/sequence"
)

var _ ports.Repository = (*Repository)(nil)

// Repository persists orders in PostgreSQL using GORM. Lines are stored as a
// JSON document next to a product id array used for reference lookups.
type Repository struct {
	db  *gorm.DB
	ids sequence.Generator
}

// NewRepository wires a PostgreSQL-backed repository. Caller manages DB lifecycle.
func NewRepository(db *gorm.DB, ids sequence.Generator) *Repository {
	return &Repository{db: db, ids: ids}
}

type orderRecord struct {
	ID            int64         `gorm:"primaryKey;column:id"`
	ClientID      int64         `gorm:"column:client_id;index"`
	ClientName    string        `gorm:"column:client_name"`
	ClientEmail   string        `gorm:"column:client_email"`
	ClientPhone   string        `gorm:"column:client_phone"`
	ClientAddress string        `gorm:"column:client_address"`
	Status        string        `gorm:"column:status;type:varchar(32);index"`
	Notes         string        `gorm:"column:notes"`
	Lines         []domain.Line `gorm:"column:lines;type:jsonb;serializer:json"`
	ProductIDs    pq.Int64Array `gorm:"column:product_ids;type:bigint[]"`
	PlacedAt      time.Time     `gorm:"column:placed_at;index"`
	Version       int64         `gorm:"column:version;not null;default:1"`
	CreatedAt     time.Time     `gorm:"column:created_at"`
	UpdatedAt     time.Time     `gorm:"column:updated_at"`
}

func (orderRecord) TableName() string { return "orders" }

func (r *Repository) NextID(ctx context.Context) (int64, error) {
	if r == nil || r.ids == nil {
		return 0, errors.New("postgres order sequence not configured")
	}
	return r.ids.Next(ctx, sequence.KindOrders)
}

// Save inserts a new order or applies a conditional update guarded by the
// version the order was read at.
func (r *Repository) Save(ctx context.Context, order *domain.Order) (*domain.Order, error) {
	if err := r.ensureDB(); err != nil {
		return nil, err
	}
	if order == nil {
		return nil, errors.New("order is nil")
	}
	record := toRecord(order)
	record.Version = order.Version + 1
	if order.Version == 0 {
		if err := r.db.WithContext(ctx).Create(&record).Error; err != nil {
			if errors.Is(err, gorm.ErrDuplicatedKey) {
				return nil, fmt.Errorf("%w: order %d already exists", ports.ErrStaleOrder, order.ID)
			}
			return nil, err
		}
		return r.GetByID(ctx, record.ID)
	}

	result := r.db.WithContext(ctx).
		Model(&record).
		Where("version = ?", order.Version).
		Select("status", "notes", "lines", "product_ids", "version", "updated_at").
		Updates(&record)
	if result.Error != nil {
		return nil, result.Error
	}
	if result.RowsAffected == 0 {
		return nil, fmt.Errorf("%w: order %d was read at version %d", ports.ErrStaleOrder, order.ID, order.Version)
	}
	return r.GetByID(ctx, record.ID)
}

// GetByID fetches an order by identifier.
func (r *Repository) GetByID(ctx context.Context, id int64) (*domain.Order, error) {
	if err := r.ensureDB(); err != nil {
		return nil, err
	}
	var record orderRecord
	if err := r.db.WithContext(ctx).First(&record, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ports.ErrNotFound
		}
		return nil, err
	}
	return record.toDomain(), nil
}

// List returns all orders.
func (r *Repository) List(ctx context.Context) ([]*domain.Order, error) {
	if err := r.ensureDB(); err != nil {
		return nil, err
	}
	var records []orderRecord
	if err := r.db.WithContext(ctx).Order("id").Find(&records).Error; err != nil {
		return nil, err
	}
	orders := make([]*domain.Order, 0, len(records))
	for i := range records {
		orders = append(orders, records[i].toDomain())
	}
	return orders, nil
}

func (r *Repository) CountByClient(ctx context.Context, clientID int64) (int, error) {
	return r.count(ctx, "client_id = ?", clientID)
}

func (r *Repository) CountByProduct(ctx context.Context, productID int64) (int, error) {
	return r.count(ctx, "? = ANY(product_ids)", productID)
}

func (r *Repository) count(ctx context.Context, query string, args ...any) (int, error) {
	if err := r.ensureDB(); err != nil {
		return 0, err
	}
	var n int64
	if err := r.db.WithContext(ctx).Model(&orderRecord{}).Where(query, args...).Count(&n).Error; err != nil {
		return 0, err
	}
	return int(n), nil
}

func (r *Repository) ensureDB() error {
	if r == nil || r.db == nil {
		return errors.New("postgres order repository not configured")
	}
	return nil
}

func toRecord(order *domain.Order) orderRecord {
	lines := order.Lines
	if lines == nil {
		lines = []domain.Line{}
	}
	return orderRecord{
		ID:            order.ID,
		ClientID:      order.Client.ID,
		ClientName:    order.Client.Name,
		ClientEmail:   order.Client.Email,
		ClientPhone:   order.Client.Phone,
		ClientAddress: order.Client.Address,
		Status:        string(order.Status),
		Notes:         order.Notes,
		Lines:         lines,
		ProductIDs:    pq.Int64Array(order.ProductIDs()),
		PlacedAt:      order.CreatedAt,
	}
}

func (r orderRecord) toDomain() *domain.Order {
	lines := r.Lines
	if lines == nil {
		lines = []domain.Line{}
	}
	return &domain.Order{
		ID: r.ID,
		Client: domain.ClientSnapshot{
			ID:      r.ClientID,
			Name:    r.ClientName,
			Email:   r.ClientEmail,
			Phone:   r.ClientPhone,
			Address: r.ClientAddress,
		},
		Lines:     lines,
		CreatedAt: r.PlacedAt,
		Notes:     r.Notes,
		Status:    domain.Status(r.Status),
		Version:   r.Version,
	}
}
