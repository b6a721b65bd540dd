package listingevents

import (
	"context"
	"errors"

	"brickblock-backend/internal/domain"

	"gorm.io/gorm"
)

var ErrPropertyNotFound = errors.New("property not found")

const defaultLimit = 100

type Service struct {
	DB *gorm.DB
}

// PropertyEvents returns the ledger events of a property in the order they happened.
func (s *Service) PropertyEvents(ctx context.Context, propertyID uint64, eventType string) ([]domain.LedgerEvent, error) {
	var n int64
	if err := s.DB.WithContext(ctx).Model(&domain.Property{}).Where("property_id = ?", propertyID).Count(&n).Error; err != nil {
		return nil, err
	}
	if n == 0 {
		return nil, ErrPropertyNotFound
	}
	q := s.DB.WithContext(ctx).Where("property_id = ?", propertyID)
	if eventType != "" {
		q = q.Where("event_type = ?", eventType)
	}
	var events []domain.LedgerEvent
	if err := q.Order(`"createdAt" ASC`).Find(&events).Error; err != nil {
		return nil, err
	}
	return events, nil
}

// Recent returns the newest events across the ledger, including gate switches.
func (s *Service) Recent(ctx context.Context, eventType string, limit int) ([]domain.LedgerEvent, error) {
	if limit <= 0 || limit > 500 {
		limit = defaultLimit
	}
	q := s.DB.WithContext(ctx)
	if eventType != "" {
		q = q.Where("event_type = ?", eventType)
	}
	var events []domain.LedgerEvent
	if err := q.Order(`"createdAt" DESC`).Limit(limit).Find(&events).Error; err != nil {
		return nil, err
	}
	return events, nil
}
