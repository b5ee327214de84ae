package domain

// Commands are transient requests to change state. They may be rejected by
// the command handler; only accepted commands produce events.

// CreateSupplier registers a supplier in the directory. Suppliers are
// reference data, not event-sourced entities.
type CreateSupplier struct {
	Name  string
	Email string
}

// CreateProduct requests a new product. SupplierID must reference an
// existing supplier.
type CreateProduct struct {
	Name        string
	Description string
	Price       float64
	CostPrice   float64
	SupplierID  uint64
	Stock       int
}

// AdjustStock sets the absolute stock level of an existing product.
type AdjustStock struct {
	ProductID uint64
	NewStock  int
}

// ChangePrice sets the selling price of an existing product.
type ChangePrice struct {
	ProductID uint64
	NewPrice  float64
}

// RecordView notes a product page view. Pure observation: no load, no
// validation.
type RecordView struct {
	ProductID uint64
}
