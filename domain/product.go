package domain

import (
	"fmt"
	"time"
)

// Product is the aggregate state of one product, derived by folding its
// event history. It is ephemeral: rebuilt on demand, never stored.
type Product struct {
	ID           uint64
	Name         string
	Description  string
	Price        float64
	CostPrice    float64
	SupplierID   uint64
	SupplierName string
	Stock        int
	ViewCount    int

	version int
}

// LoadProduct folds the ordered event history into current state. The fold
// is pure: identical inputs always produce identical state. An event of
// unknown kind aborts the replay with a schema error.
func LoadProduct(events []Event) (*Product, error) {
	p := &Product{}
	for _, evt := range events {
		if err := p.apply(evt); err != nil {
			return nil, err
		}
	}
	return p, nil
}

// LoadProductBefore folds only the events that occurred at or before cutoff,
// reconstructing the product as it was at that point in time.
func LoadProductBefore(events []Event, cutoff time.Time) (*Product, error) {
	p := &Product{}
	for _, evt := range events {
		if evt.Time().After(cutoff) {
			break
		}
		if err := p.apply(evt); err != nil {
			return nil, err
		}
	}
	return p, nil
}

// Version is the number of events applied. Exposed for optimistic
// concurrency checks by callers; not enforced here.
func (p *Product) Version() int {
	if p == nil {
		return 0
	}
	return p.version
}

func (p *Product) apply(evt Event) error {
	switch e := evt.(type) {
	case ProductCreated:
		p.ID = e.ProductID
		p.Name = e.Name
		p.Description = e.Description
		p.Price = e.Price
		p.CostPrice = e.CostPrice
		p.SupplierID = e.SupplierID
		p.SupplierName = e.SupplierName
		p.Stock = e.Stock
	case StockAdjusted:
		p.Stock = e.NewStock
	case PriceChanged:
		p.Price = e.NewPrice
	case ProductViewed:
		p.ViewCount++
	default:
		return NewError(ErrCodeSchema, fmt.Sprintf("unknown event kind %q", evt.Kind()))
	}
	p.version++
	return nil
}
