package postgres

import (
	"context"
	"errors"
	"time"

	"github.com/shopspring/decimal"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/Apurer/go-gin-order-desk/internal/domains/quotations/domain"
	"github.com/Apurer/go-gin-order-desk/internal/domains/quotations/ports"
	"github.com/Apurer/go-gin-order-desk/internal/shared/sequence"
)

var _ ports.Repository = (*Repository)(nil)

// Repository persists quotations in PostgreSQL using GORM.
type Repository struct {
	db  *gorm.DB
	ids sequence.Generator
}

// NewRepository wires a PostgreSQL-backed repository. Caller manages DB lifecycle.
func NewRepository(db *gorm.DB, ids sequence.Generator) *Repository {
	return &Repository{db: db, ids: ids}
}

type quotationRecord struct {
	ID              int64           `gorm:"primaryKey;column:id"`
	ClientID        int64           `gorm:"column:client_id;index"`
	ClientName      string          `gorm:"column:client_name"`
	ClientEmail     string          `gorm:"column:client_email"`
	Status          string          `gorm:"column:status;type:varchar(32);index"`
	ValidityDays    int             `gorm:"column:validity_days"`
	DiscountPercent decimal.Decimal `gorm:"column:discount_percent;type:numeric(5,2)"`
	Notes           string          `gorm:"column:notes"`
	Items           []domain.Item   `gorm:"column:items;type:jsonb;serializer:json"`
	QuotedAt        time.Time       `gorm:"column:quoted_at;index"`
	CreatedAt       time.Time       `gorm:"column:created_at"`
	UpdatedAt       time.Time       `gorm:"column:updated_at"`
}

func (quotationRecord) TableName() string { return "quotations" }

func (r *Repository) NextID(ctx context.Context) (int64, error) {
	if r == nil || r.ids == nil {
		return 0, errors.New("postgres quotation sequence not configured")
	}
	return r.ids.Next(ctx, sequence.KindQuotations)
}

// Save inserts or updates a quotation.
func (r *Repository) Save(ctx context.Context, quotation *domain.Quotation) (*domain.Quotation, error) {
	if err := r.ensureDB(); err != nil {
		return nil, err
	}
	if quotation == nil {
		return nil, errors.New("quotation is nil")
	}
	record := toRecord(quotation)
	if err := r.db.WithContext(ctx).
		Clauses(clause.OnConflict{
			Columns: []clause.Column{{Name: "id"}},
			DoUpdates: append(
				clause.AssignmentColumns([]string{"status", "discount_percent", "notes", "items"}),
				clause.Assignment{Column: clause.Column{Name: "updated_at"}, Value: gorm.Expr("NOW()")},
			),
		}).Create(&record).Error; err != nil {
		return nil, err
	}
	return r.GetByID(ctx, record.ID)
}

func (r *Repository) GetByID(ctx context.Context, id int64) (*domain.Quotation, error) {
	if err := r.ensureDB(); err != nil {
		return nil, err
	}
	var record quotationRecord
	if err := r.db.WithContext(ctx).First(&record, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ports.ErrNotFound
		}
		return nil, err
	}
	return record.toDomain(), nil
}

func (r *Repository) List(ctx context.Context) ([]*domain.Quotation, error) {
	if err := r.ensureDB(); err != nil {
		return nil, err
	}
	var records []quotationRecord
	if err := r.db.WithContext(ctx).Order("id").Find(&records).Error; err != nil {
		return nil, err
	}
	quotations := make([]*domain.Quotation, 0, len(records))
	for i := range records {
		quotations = append(quotations, records[i].toDomain())
	}
	return quotations, nil
}

func (r *Repository) ensureDB() error {
	if r == nil || r.db == nil {
		return errors.New("postgres quotation repository not configured")
	}
	return nil
}

func toRecord(q *domain.Quotation) quotationRecord {
	items := q.Items
	if items == nil {
		items = []domain.Item{}
	}
	return quotationRecord{
		ID:              q.ID,
		ClientID:        q.Client.ID,
		ClientName:      q.Client.Name,
		ClientEmail:     q.Client.Email,
		Status:          string(q.Status),
		ValidityDays:    q.ValidityDays,
		DiscountPercent: q.DiscountPercent,
		Notes:           q.Notes,
		Items:           items,
		QuotedAt:        q.CreatedAt,
	}
}

func (r quotationRecord) toDomain() *domain.Quotation {
	items := r.Items
	if items == nil {
		items = []domain.Item{}
	}
	return &domain.Quotation{
		ID:              r.ID,
		Client:          domain.ClientSnapshot{ID: r.ClientID, Name: r.ClientName, Email: r.ClientEmail},
		CreatedAt:       r.QuotedAt,
		ValidityDays:    r.ValidityDays,
		DiscountPercent: r.DiscountPercent,
		Notes:           r.Notes,
		Status:          domain.Status(r.Status),
		Items:           items,
	}
}
