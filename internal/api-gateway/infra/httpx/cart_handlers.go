package httpx

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/jcmexdev/aurora-storefront/internal/api-gateway/infra/httpx/middlewares"
	carts "github.com/jcmexdev/aurora-storefront/internal/cart/domain"
)

// cartRequest resolves the session and view shared by every cart route.
func cartRequest(w http.ResponseWriter, r *http.Request) (string, view, bool) {
	session := middlewares.SessionToken(r.Context())
	if session == "" {
		writeError(w, http.StatusBadRequest, "session_required", "send an "+middlewares.HeaderSessionToken+" header")
		return "", view{}, false
	}
	v, err := viewOf(r)
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid_currency", err.Error())
		return "", view{}, false
	}
	return session, v, true
}

func (h *Handler) GetCart(w http.ResponseWriter, r *http.Request) {
	session, v, ok := cartRequest(w, r)
	if !ok {
		return
	}
	c, err := h.carts.Get(r.Context(), session)
	h.respondCart(w, r, c, v, err)
}

func (h *Handler) AddCartItem(w http.ResponseWriter, r *http.Request) {
	session, v, ok := cartRequest(w, r)
	if !ok {
		return
	}
	var req AddItemRequest
	if err := decode(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid_json", err.Error())
		return
	}
	qty := 1
	if req.Quantity != nil {
		qty = *req.Quantity
	}
	c, err := h.carts.AddItem(r.Context(), session, req.ProductID, qty)
	h.respondCart(w, r, c, v, err)
}

func (h *Handler) UpdateCartItem(w http.ResponseWriter, r *http.Request) {
	session, v, ok := cartRequest(w, r)
	if !ok {
		return
	}
	var req UpdateQuantityRequest
	if err := decode(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid_json", err.Error())
		return
	}
	c, err := h.carts.UpdateQuantity(r.Context(), session, chi.URLParam(r, "id"), req.Quantity)
	h.respondCart(w, r, c, v, err)
}

func (h *Handler) RemoveCartItem(w http.ResponseWriter, r *http.Request) {
	session, v, ok := cartRequest(w, r)
	if !ok {
		return
	}
	c, err := h.carts.RemoveItem(r.Context(), session, chi.URLParam(r, "id"))
	h.respondCart(w, r, c, v, err)
}

func (h *Handler) ClearCart(w http.ResponseWriter, r *http.Request) {
	session, v, ok := cartRequest(w, r)
	if !ok {
		return
	}
	err := h.carts.Clear(r.Context(), session)
	h.respondCart(w, r, &carts.Cart{}, v, err)
}

func (h *Handler) respondCart(w http.ResponseWriter, r *http.Request, c *carts.Cart, v view, err error) {
	if err != nil {
		writeDomainError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, h.mapCart(c, v))
}
