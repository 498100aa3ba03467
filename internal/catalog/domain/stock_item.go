package domain

// StockItem is a quantity of one product held for an order.
type StockItem struct {
	ProductID string
	Quantity  int
}
