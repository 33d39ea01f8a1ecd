package models

import (
	"time"

	"github.com/shopspring/decimal"
)

// Service represents a household service offered on the platform
type Service struct {
	ID           uint            `json:"id"`
	Name         string          `json:"name"`
	Description  string          `json:"description"`
	BasePrice    decimal.Decimal `json:"base_price"`
	Category     string          `json:"category"`
	TimeRequired int             `json:"time_required"`
	CreatedAt    time.Time       `json:"created_at"`
}

// ServiceCreate represents the admin payload for creating a service
type ServiceCreate struct {
	Name         string          `json:"name"`
	Description  string          `json:"description"`
	BasePrice    decimal.Decimal `json:"base_price"`
	Category     string          `json:"category"`
	TimeRequired int             `json:"time_required"`
}

// ServiceFilters drives the derived services view. The zero value
// matches everything.
type ServiceFilters struct {
	SearchQuery string
	PriceRange  *PriceRange
	Category    string
}

// PriceRange bounds base_price; a nil Max means unbounded above.
type PriceRange struct {
	Min decimal.Decimal
	Max *decimal.Decimal
}

// Matches reports whether the service passes the filter predicate.
func (f ServiceFilters) Matches(s Service) bool {
	if f.SearchQuery != "" {
		if !containsFold(s.Name, f.SearchQuery) && !containsFold(s.Description, f.SearchQuery) {
			return false
		}
	}
	if f.PriceRange != nil {
		if s.BasePrice.LessThan(f.PriceRange.Min) {
			return false
		}
		if f.PriceRange.Max != nil && s.BasePrice.GreaterThan(*f.PriceRange.Max) {
			return false
		}
	}
	if f.Category != "" && s.Category != f.Category {
		return false
	}
	return true
}
