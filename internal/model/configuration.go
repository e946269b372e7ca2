package model

import (
	"time"

	"github.com/shopspring/decimal"
)

// FormatType distinguishes small-format (standard sheet sizes) from
// large-format (plotter) print jobs.
type FormatType string

const (
	FormatSmall FormatType = "petit"
	FormatLarge FormatType = "grand"
)

// SmallFormat is the sheet size for small-format jobs.
type SmallFormat string

const (
	SizeA5     SmallFormat = "A5"
	SizeA4     SmallFormat = "A4"
	SizeA3     SmallFormat = "A3"
	SizeCustom SmallFormat = "custom"
)

// PaperType is the paper stock.
type PaperType string

const (
	PaperGlossy PaperType = "glace"
	PaperMatte  PaperType = "mat"
)

// Finish is the surface finish applied after printing.
type Finish string

const (
	FinishGlossy   Finish = "brillant"
	FinishMatte    Finish = "mate"
	FinishStandard Finish = "standard"
)

// Duplex is the printing mode for covers and pages.
type Duplex string

const (
	DuplexSimplex Duplex = "recto"
	DuplexDouble  Duplex = "recto_verso"
)

// Binding is the binding applied to book jobs.
type Binding string

const (
	BindingSpiral  Binding = "spirale"
	BindingPerfect Binding = "collee"
	BindingStapled Binding = "agrafee"
)

// CoverPaper is the cover stock for book jobs.
type CoverPaper string

const (
	CoverSimple CoverPaper = "simple"
	CoverPhoto  CoverPaper = "photo"
)

// Large-format bounds and per-size minimum quantities.
const (
	MaxWidthCm  = 160
	MaxHeightCm = 100

	MinQtyA5     = 30
	MinQtyA4     = 20
	MinQtyA3     = 10
	MinQtyCustom = 50
)

// PrintConfiguration is the priceable description of one print job.
// It is created once at order-submission time and immutable thereafter;
// a correction requires a new order.
type PrintConfiguration struct {
	ID           string              `json:"id"`
	FormatType   FormatType          `json:"format_type"`
	SmallFormat  SmallFormat         `json:"small_format,omitempty"`
	WidthCm      decimal.NullDecimal `json:"width_cm,omitempty"`
	HeightCm     decimal.NullDecimal `json:"height_cm,omitempty"`
	PaperType    PaperType           `json:"paper_type,omitempty"`
	Finish       Finish              `json:"finish,omitempty"`
	DuplexMode   Duplex              `json:"duplex,omitempty"`
	BindingType  Binding             `json:"binding,omitempty"`
	CoverPaper   CoverPaper          `json:"cover_paper,omitempty"`
	Quantity     int                 `json:"quantity"`
	IsBook       bool                `json:"is_book"`
	BookPages    int                 `json:"book_pages,omitempty"`
	Options      string              `json:"options,omitempty"`
	ProductID    string              `json:"product_id,omitempty"`
	CreatedAt    time.Time           `json:"created_at"`
}

// Validate checks every construction invariant of a configuration.
// It must be called before the configuration is persisted; the database
// schema is not relied on to enforce any of these rules.
func (c *PrintConfiguration) Validate() error {
	if c.Quantity <= 0 {
		return invalid("quantity", "must be a positive integer")
	}

	switch c.FormatType {
	case FormatSmall, FormatLarge:
	default:
		return invalid("format_type", "must be petit or grand")
	}

	if c.FormatType == FormatLarge {
		if !c.WidthCm.Valid || !c.HeightCm.Valid {
			return invalid("width_cm", "width and height are required for large format")
		}
		if c.WidthCm.Decimal.GreaterThan(decimal.NewFromInt(MaxWidthCm)) ||
			c.HeightCm.Decimal.GreaterThan(decimal.NewFromInt(MaxHeightCm)) {
			return invalid("width_cm", "large format is limited to 160x100 cm")
		}
		if c.WidthCm.Decimal.LessThanOrEqual(decimal.Zero) ||
			c.HeightCm.Decimal.LessThanOrEqual(decimal.Zero) {
			return invalid("width_cm", "width and height must be positive")
		}
	}

	if c.FormatType == FormatSmall && c.SmallFormat != "" {
		min, ok := minQuantity(c.SmallFormat)
		if !ok {
			return invalid("small_format", "must be A5, A4, A3 or custom")
		}
		if c.Quantity < min {
			return invalid("quantity", "below the minimum for this format")
		}
	}

	if c.IsBook {
		if c.BookPages <= 0 {
			return invalid("book_pages", "required for book orders")
		}
	} else if c.ProductID == "" {
		return invalid("product_id", "required for non-book orders")
	}

	return nil
}

func minQuantity(f SmallFormat) (int, bool) {
	switch f {
	case SizeA5:
		return MinQtyA5, true
	case SizeA4:
		return MinQtyA4, true
	case SizeA3:
		return MinQtyA3, true
	case SizeCustom:
		return MinQtyCustom, true
	default:
		return 0, false
	}
}
