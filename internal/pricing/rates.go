package pricing

import (
	"github.com/shopspring/decimal"

	"printapi/internal/model"
)

// Rate tables in Ariary. Each lookup is an exhaustive switch over the closed
// enum so an unknown token falls through to the documented default instead of
// being a silent map miss.

// DeliveryFee is the flat fee added to every order.
var DeliveryFee = decimal.NewFromInt(5000)

// Fallback is the amount substituted when a configuration cannot be priced.
// Orders are never blocked on pricing; see QuoteOrFallback.
var Fallback = decimal.NewFromInt(10000)

var largeRatePerM2 = decimal.NewFromInt(5000)

// pageRate is the per-page printing rate keyed by sheet size. The custom rate
// doubles as the default when a book configuration carries no size.
func pageRate(f model.SmallFormat) decimal.Decimal {
	switch f {
	case model.SizeA3:
		return decimal.NewFromInt(1000)
	case model.SizeA4:
		return decimal.NewFromInt(500)
	case model.SizeA5:
		return decimal.NewFromInt(300)
	case model.SizeCustom:
		return decimal.NewFromInt(200)
	default:
		return decimal.NewFromInt(200)
	}
}

// bindingRate prices the binding of a book job; unset binding costs nothing.
func bindingRate(b model.Binding) decimal.Decimal {
	switch b {
	case model.BindingSpiral:
		return decimal.NewFromInt(2000)
	case model.BindingPerfect:
		return decimal.NewFromInt(3000)
	case model.BindingStapled:
		return decimal.NewFromInt(1000)
	default:
		return decimal.Zero
	}
}

// coverRate prices the cover stock of a book job; unset cover costs nothing.
func coverRate(c model.CoverPaper) decimal.Decimal {
	switch c {
	case model.CoverSimple:
		return decimal.NewFromInt(1000)
	case model.CoverPhoto:
		return decimal.NewFromInt(3000)
	default:
		return decimal.Zero
	}
}

// duplexMultiplier scales the cover cost; double-sided covers print twice.
func duplexMultiplier(d model.Duplex) decimal.Decimal {
	switch d {
	case model.DuplexDouble:
		return decimal.NewFromInt(2)
	case model.DuplexSimplex:
		return decimal.NewFromInt(1)
	default:
		return decimal.NewFromInt(1)
	}
}

// formatMultiplier scales a product's base price when the configured size
// differs from the product's default size. A matching size, or any size the
// table does not name, keeps the base price unchanged.
func formatMultiplier(configured, productDefault model.SmallFormat) decimal.Decimal {
	if configured == "" || configured == productDefault {
		return decimal.NewFromInt(1)
	}
	switch configured {
	case model.SizeA3:
		return decimal.NewFromFloat(1.5)
	case model.SizeA4:
		return decimal.NewFromFloat(1.2)
	case model.SizeCustom:
		return decimal.NewFromFloat(1.3)
	default:
		return decimal.NewFromInt(1)
	}
}
