package transport

type SupplierRequest struct {
	Name  string `json:"name"`
	Email string `json:"email"`
}

type ProductCreateRequest struct {
	Name        string  `json:"name"`
	Description string  `json:"description"`
	Price       float64 `json:"price"`
	CostPrice   float64 `json:"cost_price"`
	SupplierID  uint64  `json:"supplier_id"`
	Stock       int     `json:"stock"`
}

type StockAdjustRequest struct {
	NewStock int `json:"new_stock"`
}

type PriceChangeRequest struct {
	NewPrice float64 `json:"new_price"`
}
