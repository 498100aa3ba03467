package httpx

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/jcmexdev/aurora-storefront/internal/api-gateway/infra/httpx/middlewares"
	"github.com/jcmexdev/aurora-storefront/internal/checkout"
	"github.com/jcmexdev/aurora-storefront/internal/order/domain"
)

func (h *Handler) ListPaymentMethods(w http.ResponseWriter, r *http.Request) {
	v, err := viewOf(r)
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid_currency", err.Error())
		return
	}
	methods := h.methods.All()
	out := make([]PaymentMethodResponse, len(methods))
	for i, m := range methods {
		out[i] = mapMethod(m, v.lang)
	}
	writeJSON(w, http.StatusOK, out)
}

// Checkout places an order from the session's cart. A replayed
// Idempotency-Key answers 200 with the original order instead of 201.
func (h *Handler) Checkout(w http.ResponseWriter, r *http.Request) {
	v, err := viewOf(r)
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid_currency", err.Error())
		return
	}
	var req CheckoutRequest
	if err := decode(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid_json", err.Error())
		return
	}

	ctx := r.Context()
	res, err := h.checkout.PlaceOrder(ctx, checkout.Request{
		User:           currentUserPtr(r),
		Session:        middlewares.SessionToken(ctx),
		ShippingInfo:   req.ShippingInfo,
		PaymentInfo:    req.PaymentInfo,
		Currency:       v.currency,
		Language:       v.lang,
		IdempotencyKey: middlewares.IdempotencyKey(ctx),
	})
	if err != nil {
		writeDomainError(w, r, err)
		return
	}

	status := http.StatusCreated
	if res.Replayed {
		status = http.StatusOK
	}
	writeJSON(w, status, CheckoutResponse{Order: h.mapOrder(res.Order), Replayed: res.Replayed})
}

// ListMyOrders returns the signed-in user's orders, newest first.
func (h *Handler) ListMyOrders(w http.ResponseWriter, r *http.Request) {
	user, _ := middlewares.CurrentUser(r.Context())
	orders, err := h.orders.GetUserOrders(r.Context(), user.ID)
	if err != nil {
		writeDomainError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, h.mapOrders(orders))
}

// GetOrderByID answers 404 for orders owned by someone else unless the caller
// is an admin.
func (h *Handler) GetOrderByID(w http.ResponseWriter, r *http.Request) {
	orderID := chi.URLParam(r, "id")
	if orderID == "" {
		writeError(w, http.StatusBadRequest, "order_id_required", "")
		return
	}

	order, err := h.orders.GetOrderByID(r.Context(), orderID)
	if err != nil {
		writeDomainError(w, r, err)
		return
	}
	user, _ := middlewares.CurrentUser(r.Context())
	if order.Customer.ID != user.ID && !user.IsAdmin() {
		writeDomainError(w, r, domain.ErrNotFound)
		return
	}
	writeJSON(w, http.StatusOK, h.mapOrder(order))
}
