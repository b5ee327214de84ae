package domain

import "time"

// Kind identifies the type of a product event.
type Kind string

const (
	// KindProductCreated records the creation of a product.
	KindProductCreated Kind = "product.created"
	// KindStockAdjusted records a stock level change.
	KindStockAdjusted Kind = "product.stock_adjusted"
	// KindPriceChanged records a price change.
	KindPriceChanged Kind = "product.price_changed"
	// KindProductViewed records a single product page view.
	KindProductViewed Kind = "product.viewed"
)

// Event is an immutable record of a fact about a product. Events are created
// by the command handler after validation, appended to the event log and
// never mutated afterwards.
type Event interface {
	// Kind identifies the event type for dispatch and storage.
	Kind() Kind
	// Subject is the id of the product the event belongs to.
	Subject() uint64
	// Time is when the fact occurred (UTC).
	Time() time.Time
}

// ProductCreated carries everything needed to reconstruct the product,
// including the supplier name resolved at creation time. The embedded name is
// a snapshot: later supplier renames do not rewrite history.
type ProductCreated struct {
	ProductID    uint64    `json:"product_id"`
	Name         string    `json:"name"`
	Description  string    `json:"description,omitempty"`
	Price        float64   `json:"price"`
	CostPrice    float64   `json:"cost_price"`
	SupplierID   uint64    `json:"supplier_id"`
	SupplierName string    `json:"supplier_name"`
	Stock        int       `json:"stock"`
	OccurredAt   time.Time `json:"occurred_at"`
}

func (e ProductCreated) Kind() Kind      { return KindProductCreated }
func (e ProductCreated) Subject() uint64 { return e.ProductID }
func (e ProductCreated) Time() time.Time { return e.OccurredAt }

// StockAdjusted sets the absolute stock level of a product.
type StockAdjusted struct {
	ProductID  uint64    `json:"product_id"`
	NewStock   int       `json:"new_stock"`
	OccurredAt time.Time `json:"occurred_at"`
}

func (e StockAdjusted) Kind() Kind      { return KindStockAdjusted }
func (e StockAdjusted) Subject() uint64 { return e.ProductID }
func (e StockAdjusted) Time() time.Time { return e.OccurredAt }

// PriceChanged sets the selling price of a product.
type PriceChanged struct {
	ProductID  uint64    `json:"product_id"`
	NewPrice   float64   `json:"new_price"`
	OccurredAt time.Time `json:"occurred_at"`
}

func (e PriceChanged) Kind() Kind      { return KindPriceChanged }
func (e PriceChanged) Subject() uint64 { return e.ProductID }
func (e PriceChanged) Time() time.Time { return e.OccurredAt }

// ProductViewed records one observation of the product page.
type ProductViewed struct {
	ProductID  uint64    `json:"product_id"`
	OccurredAt time.Time `json:"occurred_at"`
}

func (e ProductViewed) Kind() Kind      { return KindProductViewed }
func (e ProductViewed) Subject() uint64 { return e.ProductID }
func (e ProductViewed) Time() time.Time { return e.OccurredAt }
