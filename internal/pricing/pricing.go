// Package pricing turns a print configuration into a monetary amount.
// It is pure: no I/O, deterministic for a given input, and it never panics.
// All arithmetic stays in decimal space; rounding to the currency minor unit
// happens only at presentation boundaries, never here.
package pricing

import (
	"errors"
	"fmt"

	"github.com/shopspring/decimal"

	"printapi/internal/model"
)

// ErrDegraded marks a configuration that cannot be priced exactly.
// Callers that need an amount no matter what coerce it through
// QuoteOrFallback; callers that need exact pricing must validate the
// configuration before quoting and treat this as a failure.
var ErrDegraded = errors.New("pricing degraded")

func degraded(reason string) error {
	return fmt.Errorf("%w: %s", ErrDegraded, reason)
}

// Quote prices a configuration. The product argument is required for the
// standard small-format branch and ignored by the book and large-format
// branches. The returned amount is never negative.
func Quote(cfg *model.PrintConfiguration, product *model.Product) (decimal.Decimal, error) {
	if cfg == nil {
		return decimal.Zero, degraded("nil configuration")
	}
	if cfg.Quantity <= 0 {
		return decimal.Zero, degraded("non-positive quantity")
	}
	qty := decimal.NewFromInt(int64(cfg.Quantity))

	if cfg.IsBook {
		return quoteBook(cfg, qty)
	}
	if cfg.FormatType == model.FormatLarge {
		return quoteLargeFormat(cfg, qty)
	}
	return quoteProduct(cfg, product, qty)
}

// QuoteOrFallback coerces any pricing degradation into the fixed fallback
// amount. The order path uses this so an order is never refused merely
// because its price could not be determined; exact-pricing callers should
// use Quote directly.
func QuoteOrFallback(cfg *model.PrintConfiguration, product *model.Product) decimal.Decimal {
	amount, err := Quote(cfg, product)
	if err != nil {
		return Fallback
	}
	return amount
}

// quoteBook prices a bound document: pages + cover + binding, plus delivery.
func quoteBook(cfg *model.PrintConfiguration, qty decimal.Decimal) (decimal.Decimal, error) {
	if cfg.BookPages <= 0 {
		return decimal.Zero, degraded("book without page count")
	}
	pages := decimal.NewFromInt(int64(cfg.BookPages))

	pageCost := pageRate(cfg.SmallFormat).Mul(pages).Mul(qty)
	coverCost := coverRate(cfg.CoverPaper).Mul(duplexMultiplier(cfg.DuplexMode)).Mul(qty)
	bindingCost := bindingRate(cfg.BindingType).Mul(qty)

	return pageCost.Add(coverCost).Add(bindingCost).Add(DeliveryFee), nil
}

// quoteLargeFormat prices by printed surface, floored at one square metre.
func quoteLargeFormat(cfg *model.PrintConfiguration, qty decimal.Decimal) (decimal.Decimal, error) {
	if !cfg.WidthCm.Valid || !cfg.HeightCm.Valid {
		return decimal.Zero, degraded("large format without dimensions")
	}
	hundred := decimal.NewFromInt(100)
	surface := cfg.WidthCm.Decimal.Div(hundred).Mul(cfg.HeightCm.Decimal.Div(hundred))
	if surface.LessThan(decimal.NewFromInt(1)) {
		surface = decimal.NewFromInt(1)
	}
	return surface.Mul(largeRatePerM2).Mul(qty).Add(DeliveryFee), nil
}

// quoteProduct prices a standard small-format job off the referenced product.
func quoteProduct(cfg *model.PrintConfiguration, product *model.Product, qty decimal.Decimal) (decimal.Decimal, error) {
	if product == nil {
		return decimal.Zero, degraded("standard order without product")
	}
	if product.BasePrice.IsNegative() {
		return decimal.Zero, degraded("negative product base price")
	}
	mult := formatMultiplier(cfg.SmallFormat, product.DefaultFormat)
	return product.BasePrice.Mul(mult).Mul(qty).Add(DeliveryFee), nil
}
