// Package report aggregates orders into sales reports and the admin dashboard.
// Nothing is stored: every call recomputes from the current order list.
package report

import (
	"context"
	"fmt"
	"time"

	"github.com/shopspring/decimal"

	catalog "github.com/jcmexdev/aurora-storefront/internal/catalog/domain"
	"github.com/jcmexdev/aurora-storefront/internal/currency"
	"github.com/jcmexdev/aurora-storefront/internal/order/domain"
)

type Period string

const (
	Daily   Period = "daily"
	Weekly  Period = "weekly"
	Monthly Period = "monthly"
)

func ParsePeriod(s string) (Period, error) {
	switch p := Period(s); p {
	case Daily, Weekly, Monthly:
		return p, nil
	default:
		return "", fmt.Errorf("report: unknown period %q", s)
	}
}

// Cutoff is the earliest creation time included for p, relative to now.
func (p Period) Cutoff(now time.Time) time.Time {
	switch p {
	case Weekly:
		return now.AddDate(0, 0, -7)
	case Monthly:
		return now.AddDate(0, -1, 0)
	default:
		return now.AddDate(0, 0, -1)
	}
}

// SalesReport sums order totals in USD. Both maps always carry every key.
type SalesReport struct {
	Period            Period                        `json:"period"`
	Cutoff            time.Time                     `json:"cutoff"`
	TotalSales        float64                       `json:"total_sales"`
	SalesByStatus     map[domain.Status]float64     `json:"sales_by_status"`
	SalesByCurrency   map[currency.Currency]float64 `json:"sales_by_currency"`
	OrderCount        int                           `json:"order_count"`
	AverageOrderValue float64                       `json:"average_order_value"`
}

// OrderLister is the read side of the order store.
type OrderLister interface {
	GetAllOrders(ctx context.Context) ([]*domain.Order, error)
}

// ProductStats is the read side of the catalog the dashboard needs.
type ProductStats interface {
	All() []catalog.Product
	LowStock(threshold int) []catalog.Product
}

type Reporter struct {
	orders OrderLister
	now    func() time.Time
}

func NewReporter(orders OrderLister, now func() time.Time) *Reporter {
	if now == nil {
		now = time.Now
	}
	return &Reporter{orders: orders, now: now}
}

// Generate builds the report for orders created at or after the period cutoff.
func (r *Reporter) Generate(ctx context.Context, period Period) (SalesReport, error) {
	orders, err := r.orders.GetAllOrders(ctx)
	if err != nil {
		return SalesReport{}, fmt.Errorf("report: list orders: %w", err)
	}
	cutoff := period.Cutoff(r.now())

	total := decimal.Zero
	byStatus := make(map[domain.Status]decimal.Decimal)
	byCurrency := make(map[currency.Currency]decimal.Decimal)
	count := 0
	for _, o := range orders {
		if o.CreatedAt.Before(cutoff) {
			continue
		}
		amount := decimal.NewFromFloat(o.Total)
		total = total.Add(amount)
		byStatus[o.Status] = byStatus[o.Status].Add(amount)
		byCurrency[o.Currency] = byCurrency[o.Currency].Add(amount)
		count++
	}

	rep := SalesReport{
		Period:          period,
		Cutoff:          cutoff,
		TotalSales:      cents(total),
		SalesByStatus:   make(map[domain.Status]float64, len(domain.Statuses())),
		SalesByCurrency: make(map[currency.Currency]float64, len(currency.All())),
		OrderCount:      count,
	}
	for _, s := range domain.Statuses() {
		rep.SalesByStatus[s] = cents(byStatus[s])
	}
	for _, c := range currency.All() {
		rep.SalesByCurrency[c] = cents(byCurrency[c])
	}
	if count > 0 {
		rep.AverageOrderValue = cents(total.Div(decimal.NewFromInt(int64(count))))
	}
	return rep, nil
}

func cents(d decimal.Decimal) float64 {
	return d.Round(2).InexactFloat64()
}
