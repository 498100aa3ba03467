package httpx

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	catalog "github.com/jcmexdev/aurora-storefront/internal/catalog/domain"
	"github.com/jcmexdev/aurora-storefront/internal/coordinator/sagalog"
	"github.com/jcmexdev/aurora-storefront/internal/order/domain"
	"github.com/jcmexdev/aurora-storefront/internal/report"
)

// SearchOrders supports ?q= (id, customer name or email) and ?status=.
func (h *Handler) SearchOrders(w http.ResponseWriter, r *http.Request) {
	var status domain.Status
	if raw := r.URL.Query().Get("status"); raw != "" && raw != "all" {
		parsed, err := domain.ParseStatus(raw)
		if err != nil {
			writeDomainError(w, r, err)
			return
		}
		status = parsed
	}
	orders, err := h.orders.SearchOrders(r.Context(), r.URL.Query().Get("q"), status)
	if err != nil {
		writeDomainError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, h.mapOrders(orders))
}

func (h *Handler) UpdateOrderStatus(w http.ResponseWriter, r *http.Request) {
	var req StatusUpdateRequest
	if err := decode(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid_json", err.Error())
		return
	}
	status, err := domain.ParseStatus(req.Status)
	if err != nil {
		writeDomainError(w, r, err)
		return
	}
	order, err := h.orders.UpdateOrderStatus(r.Context(), chi.URLParam(r, "id"), status)
	if err != nil {
		writeDomainError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, h.mapOrder(order))
}

// OrderSagaLog returns the checkout audit trail of an order.
func (h *Handler) OrderSagaLog(w http.ResponseWriter, r *http.Request) {
	orderID := chi.URLParam(r, "id")
	if _, err := h.orders.GetOrderByID(r.Context(), orderID); err != nil {
		writeDomainError(w, r, err)
		return
	}
	entries := []*sagalog.SagaLog{}
	if h.sagaLog != nil {
		var err error
		if entries, err = h.sagaLog.History(r.Context(), orderID); err != nil {
			writeDomainError(w, r, err)
			return
		}
	}
	writeJSON(w, http.StatusOK, entries)
}

// SalesReport takes ?period=daily|weekly|monthly, daily by default.
func (h *Handler) SalesReport(w http.ResponseWriter, r *http.Request) {
	raw := r.URL.Query().Get("period")
	if raw == "" {
		raw = string(report.Daily)
	}
	period, err := report.ParsePeriod(raw)
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid_period", err.Error())
		return
	}
	rep, err := h.reports.Generate(r.Context(), period)
	if err != nil {
		writeDomainError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, rep)
}

func (h *Handler) Dashboard(w http.ResponseWriter, r *http.Request) {
	d, err := h.dashboard.Dashboard(r.Context())
	if err != nil {
		writeDomainError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, struct {
		report.Dashboard
		RecentOrders []OrderResponse `json:"recent_orders"`
	}{d, h.mapOrders(d.RecentOrders)})
}

// AdminProducts lists products with their stock flag; ?q= searches names and ids.
func (h *Handler) AdminProducts(w http.ResponseWriter, r *http.Request) {
	v, err := viewOf(r)
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid_currency", err.Error())
		return
	}
	var products []catalog.Product
	if q := r.URL.Query().Get("q"); q != "" {
		products = h.catalog.Search(q)
	} else {
		products = h.catalog.All()
	}
	out := make([]AdminProductResponse, len(products))
	for i, p := range products {
		out[i] = AdminProductResponse{ProductResponse: h.mapProduct(p, v), LowStock: isLowStock(p)}
	}
	writeJSON(w, http.StatusOK, out)
}
