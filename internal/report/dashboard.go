package report

import (
	"context"
	"fmt"

	"github.com/shopspring/decimal"

	catalogapp "github.com/jcmexdev/aurora-storefront/internal/catalog/app"
	"github.com/jcmexdev/aurora-storefront/internal/currency"
	"github.com/jcmexdev/aurora-storefront/internal/order/domain"
)

// RecentOrders is how many of the newest orders the dashboard lists.
const RecentOrders = 5

// Dashboard is the admin landing summary. Revenue is split by the currency the
// customer paid in but stays in USD.
type Dashboard struct {
	TotalProducts    int             `json:"total_products"`
	LowStockProducts int             `json:"low_stock_products"`
	TotalOrders      int             `json:"total_orders"`
	PendingOrders    int             `json:"pending_orders"`
	RevenueUSD       float64         `json:"revenue_usd"`
	RevenueVES       float64         `json:"revenue_ves"`
	RecentOrders     []*domain.Order `json:"recent_orders"`
}

func BuildDashboard(ctx context.Context, products ProductStats, orders OrderLister) (Dashboard, error) {
	all, err := orders.GetAllOrders(ctx)
	if err != nil {
		return Dashboard{}, fmt.Errorf("report: dashboard: %w", err)
	}

	d := Dashboard{
		TotalProducts:    len(products.All()),
		LowStockProducts: len(products.LowStock(catalogapp.LowStockThreshold)),
		TotalOrders:      len(all),
	}
	usd, ves := decimal.Zero, decimal.Zero
	for _, o := range all {
		if o.Status == domain.StatusPending {
			d.PendingOrders++
		}
		switch o.Currency {
		case currency.USD:
			usd = usd.Add(decimal.NewFromFloat(o.Total))
		case currency.VES:
			ves = ves.Add(decimal.NewFromFloat(o.Total))
		}
	}
	d.RevenueUSD = cents(usd)
	d.RevenueVES = cents(ves)

	// all is newest first
	d.RecentOrders = append([]*domain.Order{}, all[:min(RecentOrders, len(all))]...)
	return d, nil
}

// DashboardService builds dashboards over live catalog and order data.
type DashboardService struct {
	products ProductStats
	orders   OrderLister
}

func NewDashboardService(products ProductStats, orders OrderLister) *DashboardService {
	return &DashboardService{products: products, orders: orders}
}

func (s *DashboardService) Dashboard(ctx context.Context) (Dashboard, error) {
	return BuildDashboard(ctx, s.products, s.orders)
}
