package httpx

import (
	"net/http"
	"strings"

	"github.com/jcmexdev/aurora-storefront/internal/api-gateway/infra/httpx/middlewares"
)

// Login opens a session. A guest cart held under the caller's current token
// moves to the new session.
func (h *Handler) Login(w http.ResponseWriter, r *http.Request) {
	var req LoginRequest
	if err := decode(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid_json", err.Error())
		return
	}
	if strings.TrimSpace(req.Email) == "" || req.Password == "" {
		writeError(w, http.StatusBadRequest, "invalid_request", "email and password are required")
		return
	}

	session, err := h.auth.Login(r.Context(), req.Email, req.Password)
	if err != nil {
		writeDomainError(w, r, err)
		return
	}
	h.adoptGuestCart(r, session.Token)
	writeJSON(w, http.StatusOK, SessionResponse{Token: session.Token, User: session.User})
}

func (h *Handler) Register(w http.ResponseWriter, r *http.Request) {
	var req RegisterRequest
	if err := decode(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid_json", err.Error())
		return
	}
	if strings.TrimSpace(req.Email) == "" || req.Password == "" || strings.TrimSpace(req.Name) == "" {
		writeError(w, http.StatusBadRequest, "invalid_request", "email, password and name are required")
		return
	}

	session, err := h.auth.Register(r.Context(), req.Email, req.Password, req.Name)
	if err != nil {
		writeDomainError(w, r, err)
		return
	}
	h.adoptGuestCart(r, session.Token)
	writeJSON(w, http.StatusCreated, SessionResponse{Token: session.Token, User: session.User})
}

func (h *Handler) Logout(w http.ResponseWriter, r *http.Request) {
	if token := middlewares.SessionToken(r.Context()); token != "" {
		if err := h.auth.Logout(r.Context(), token); err != nil {
			writeDomainError(w, r, err)
			return
		}
	}
	w.WriteHeader(http.StatusNoContent)
}

func (h *Handler) adoptGuestCart(r *http.Request, token string) {
	from := middlewares.SessionToken(r.Context())
	if from == "" {
		return
	}
	if _, err := h.carts.Transfer(r.Context(), from, token); err != nil {
		// the session is open; the guest cart simply stays behind
		writeLog(r, "failed to move guest cart", err)
	}
}
