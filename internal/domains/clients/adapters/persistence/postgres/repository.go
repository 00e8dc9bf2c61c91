package postgres

import (
	"context"
	"errors"
	"time"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/Apurer/go-gin-order-desk/internal/domains/clients/domain"
	"github.com/Apurer/go-gin-order-desk/internal/domains/clients/ports"
	"github.com/Apurer/go-gin-order-desk/internal/shared/projection"
	"github.com/Apurer/go-gin-order-desk/internal/shared/sequence"
)

var _ ports.Repository = (*Repository)(nil)

// Repository persists clients in PostgreSQL using GORM.
type Repository struct {
	db  *gorm.DB
	ids sequence.Generator
}

// NewRepository wires a PostgreSQL-backed repository. Caller manages DB lifecycle.
func NewRepository(db *gorm.DB, ids sequence.Generator) *Repository {
	return &Repository{db: db, ids: ids}
}

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

func (r *Repository) NextID(ctx context.Context) (int64, error) {
	if r == nil || r.ids == nil {
		return 0, errors.New("postgres client sequence not configured")
	}
	return r.ids.Next(ctx, sequence.KindClients)
}

// Save inserts or updates a client.
func (r *Repository) Save(ctx context.Context, client *domain.Client) (*ports.ClientProjection, error) {
	if err := r.ensureDB(); err != nil {
		return nil, err
	}
	if client == nil {
		return nil, errors.New("client is nil")
	}
	record := toRecord(client)
	if err := r.db.WithContext(ctx).
		Clauses(clause.OnConflict{
			Columns: []clause.Column{{Name: "id"}},
			DoUpdates: clause.Assignments(map[string]any{
				"name":               record.Name,
				"email":              record.Email,
				"phone":              record.Phone,
				"address":            record.Address,
				"trade_name":         record.TradeName,
				"tax_id":             record.TaxID,
				"state_registration": record.StateRegistration,
				"delivery_address":   record.DeliveryAddress,
				"contact_name":       record.ContactName,
				"payment_terms":      record.PaymentTerms,
				"updated_at":         gorm.Expr("NOW()"),
			}),
		}).Create(&record).Error; err != nil {
		return nil, err
	}
	return r.GetByID(ctx, record.ID)
}

// GetByID fetches a client by identifier.
func (r *Repository) GetByID(ctx context.Context, id int64) (*ports.ClientProjection, error) {
	if err := r.ensureDB(); err != nil {
		return nil, err
	}
	var record clientRecord
	if err := r.db.WithContext(ctx).First(&record, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ports.ErrNotFound
		}
		return nil, err
	}
	return record.toProjection(), nil
}

// List returns all clients.
func (r *Repository) List(ctx context.Context) ([]*ports.ClientProjection, error) {
	if err := r.ensureDB(); err != nil {
		return nil, err
	}
	var records []clientRecord
	if err := r.db.WithContext(ctx).Order("id").Find(&records).Error; err != nil {
		return nil, err
	}
	clients := make([]*ports.ClientProjection, 0, len(records))
	for i := range records {
		clients = append(clients, records[i].toProjection())
	}
	return clients, nil
}

// Delete removes a client by identifier.
func (r *Repository) Delete(ctx context.Context, id int64) error {
	if err := r.ensureDB(); err != nil {
		return err
	}
	result := r.db.WithContext(ctx).Delete(&clientRecord{}, id)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return ports.ErrNotFound
	}
	return nil
}

func (r *Repository) ensureDB() error {
	if r == nil || r.db == nil {
		return errors.New("postgres client repository not configured")
	}
	return nil
}

func toRecord(client *domain.Client) clientRecord {
	return clientRecord{
		ID:                client.ID,
		Name:              client.Name,
		Email:             client.Email,
		Phone:             client.Phone,
		Address:           client.Address,
		RegisteredAt:      client.RegisteredAt,
		TradeName:         client.Business.TradeName,
		TaxID:             client.Business.TaxID,
		StateRegistration: client.Business.StateRegistration,
		DeliveryAddress:   client.Business.DeliveryAddress,
		ContactName:       client.Business.ContactName,
		PaymentTerms:      client.Business.PaymentTerms,
	}
}

func (r clientRecord) toProjection() *ports.ClientProjection {
	return &ports.ClientProjection{
		Entity: &domain.Client{
			ID:           r.ID,
			Name:         r.Name,
			Email:        r.Email,
			Phone:        r.Phone,
			Address:      r.Address,
			RegisteredAt: r.RegisteredAt,
			Business: domain.BusinessDetails{
				TradeName:         r.TradeName,
				TaxID:             r.TaxID,
				StateRegistration: r.StateRegistration,
				DeliveryAddress:   r.DeliveryAddress,
				ContactName:       r.ContactName,
				PaymentTerms:      r.PaymentTerms,
			},
		},
		Metadata: projection.Metadata{CreatedAt: r.CreatedAt, UpdatedAt: r.UpdatedAt},
	}
}
