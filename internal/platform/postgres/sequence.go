package postgres

import (
	"context"
	"errors"
	"time"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/Apurer/go-gin-order-desk/internal/shared/sequence"
)

var _ sequence.Generator = (*Sequence)(nil)

// Sequence allocates per-kind identifiers from the counters table.
type Sequence struct {
	db *gorm.DB
}

// NewSequence wires a PostgreSQL-backed identifier generator. Caller manages DB lifecycle.
func NewSequence(db *gorm.DB) *Sequence {
	return &Sequence{db: db}
}

type counterRecord struct {
	Kind      string    `gorm:"primaryKey;column:kind;size:64"`
	Value     int64     `gorm:"column:value"`
	UpdatedAt time.Time `gorm:"column:updated_at"`
}

func (counterRecord) TableName() string { return "counters" }

// Next locks the counter row for kind, increments it, and returns the new value.
func (s *Sequence) Next(ctx context.Context, kind sequence.Kind) (int64, error) {
	if s == nil || s.db == nil {
		return 0, errors.New("postgres sequence not configured")
	}
	var next int64
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		seed := counterRecord{Kind: string(kind), UpdatedAt: time.Now()}
		if err := tx.Clauses(clause.OnConflict{DoNothing: true}).Create(&seed).Error; err != nil {
			return err
		}
		var current counterRecord
		if err := tx.Clauses(clause.Locking{Strength: "UPDATE"}).First(&current, "kind = ?", string(kind)).Error; err != nil {
			return err
		}
		next = current.Value + 1
		return tx.Model(&counterRecord{}).
			Where("kind = ?", string(kind)).
			Updates(map[string]any{"value": next, "updated_at": gorm.Expr("NOW()")}).Error
	})
	if err != nil {
		return 0, err
	}
	return next, nil
}
