package model

import (
	"time"

	"github.com/shopspring/decimal"
)

// Product is a catalog entry referenced by non-book configurations.
// Immutable after creation except through catalog admin operations.
type Product struct {
	ID            string          `json:"id"`
	Name          string          `json:"name"`
	Description   string          `json:"description,omitempty"`
	Category      string          `json:"category,omitempty"`
	BasePrice     decimal.Decimal `json:"base_price"`
	DefaultFormat SmallFormat     `json:"default_format"`
	LargeFormat   bool            `json:"large_format"`
	ImagePath     string          `json:"image_path,omitempty"`
	CreatedAt     time.Time       `json:"created_at"`
}

// Validate checks catalog invariants before the product is persisted.
func (p *Product) Validate() error {
	if p.Name == "" {
		return invalid("name", "is required")
	}
	if p.BasePrice.IsNegative() {
		return invalid("base_price", "must not be negative")
	}
	if p.DefaultFormat != "" {
		if _, ok := minQuantity(p.DefaultFormat); !ok {
			return invalid("default_format", "must be A5, A4, A3 or custom")
		}
	}
	return nil
}
