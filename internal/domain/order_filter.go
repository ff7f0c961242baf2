package domain

import (
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/samber/lo"
)

// OrderFilter has AND semantics across fields, OR semantics within each field slice
type OrderFilter struct {
	IDs       []uuid.UUID
	BuyerIDs  []string
	Statuses  []OrderStatus
	CreatedAt *TimeRange
}

func (f OrderFilter) Validate() error {
	if len(f.IDs) == 0 && len(f.BuyerIDs) == 0 && len(f.Statuses) == 0 && f.CreatedAt == nil {
		return errors.New("all fields are empty")
	}

	if f.CreatedAt != nil {
		if err := f.CreatedAt.Validate(); err != nil {
			return fmt.Errorf("createdAt: %w", err)
		}
	}

	return nil
}

// Matches reports whether the order passes every set field of the filter.
func (f OrderFilter) Matches(o Order) bool {
	if len(f.IDs) > 0 && !lo.Contains(f.IDs, o.ID) {
		return false
	}

	if len(f.BuyerIDs) > 0 && !lo.Contains(f.BuyerIDs, o.BuyerID) {
		return false
	}

	if len(f.Statuses) > 0 && !lo.Contains(f.Statuses, o.Status) {
		return false
	}

	if f.CreatedAt != nil && !f.CreatedAt.Contains(o.CreatedAt) {
		return false
	}

	return true
}

type TimeRange struct {
	Before *time.Time
	After  *time.Time
}

func (t TimeRange) Validate() error {
	if t.Before == nil && t.After == nil {
		return errors.New("both Before and After are nil")
	}

	if t.Before != nil && t.After != nil {
		if t.Before.Before(*t.After) {
			return fmt.Errorf("before is before After")
		}
	}

	return nil
}

func (t TimeRange) Contains(ts time.Time) bool {
	if t.After != nil && ts.Before(*t.After) {
		return false
	}

	if t.Before != nil && ts.After(*t.Before) {
		return false
	}

	return true
}
