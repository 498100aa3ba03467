package httpx

import (
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"

	catalogapp "github.com/jcmexdev/aurora-storefront/internal/catalog/app"
	catalog "github.com/jcmexdev/aurora-storefront/internal/catalog/domain"
)

// ListProducts supports ?q=, ?category=, ?featured=true, ?new=true and ?limit=.
func (h *Handler) ListProducts(w http.ResponseWriter, r *http.Request) {
	v, err := viewOf(r)
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid_currency", err.Error())
		return
	}
	q := r.URL.Query()
	limit := catalogapp.DefaultListLimit
	if raw := q.Get("limit"); raw != "" {
		if limit, err = strconv.Atoi(raw); err != nil || limit < 0 {
			writeError(w, http.StatusBadRequest, "invalid_limit", "limit must be a non-negative integer")
			return
		}
	}

	var products []catalog.Product
	switch {
	case q.Get("q") != "":
		products = h.catalog.Search(q.Get("q"))
	case q.Get("category") != "":
		category := catalog.Category(q.Get("category"))
		if !category.Valid() {
			writeError(w, http.StatusBadRequest, "invalid_category", string(category))
			return
		}
		products = h.catalog.GetProductsByCategory(category)
	case q.Get("featured") == "true":
		products = h.catalog.GetFeaturedProducts(limit)
	case q.Get("new") == "true":
		products = h.catalog.GetNewArrivals(limit)
	default:
		products = h.catalog.All()
	}
	writeJSON(w, http.StatusOK, h.mapProducts(products, v))
}

func (h *Handler) GetProduct(w http.ResponseWriter, r *http.Request) {
	v, err := viewOf(r)
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid_currency", err.Error())
		return
	}
	p, err := h.catalog.GetProductByID(chi.URLParam(r, "id"))
	if err != nil {
		writeDomainError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, h.mapProduct(p, v))
}

func (h *Handler) RelatedProducts(w http.ResponseWriter, r *http.Request) {
	v, err := viewOf(r)
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid_currency", err.Error())
		return
	}
	p, err := h.catalog.GetProductByID(chi.URLParam(r, "id"))
	if err != nil {
		writeDomainError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, h.mapProducts(h.catalog.GetRelatedProducts(p, catalogapp.DefaultListLimit), v))
}

func (h *Handler) ListCategories(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, h.catalog.Categories())
}
