package order

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/tkamanga/gostore-backend/internal/modules/auth"
)

// Handler exposes order HTTP endpoints. Every route requires an authenticated
// identity; admin routes additionally require the ADMIN role.
type Handler struct{ service Service }

func NewHandler(service Service) *Handler { return &Handler{service: service} }

func (h *Handler) RegisterRoutes(r *chi.Mux, authenticate func(http.Handler) http.Handler) {
	r.Route("/api/orders", func(r chi.Router) {
		r.Use(authenticate)

		r.Post("/", h.createOrder)      // POST /api/orders
		r.Get("/my-orders", h.myOrders) // GET  /api/orders/my-orders
		r.Get("/{id}", h.getOrder)      // GET  /api/orders/{id}

		r.Group(func(r chi.Router) {
			r.Use(auth.RequireAdmin)
			r.Put("/{id}/status", h.updateStatus)    // PUT    /api/orders/{id}/status?status=CONFIRMED
			r.Get("/user/{userId}", h.userOrders)    // GET    /api/orders/user/{userId}
			r.Get("/admin/all", h.allOrders)         // GET    /api/orders/admin/all
			r.Get("/admin/pending", h.pendingOrders) // GET    /api/orders/admin/pending
			r.Delete("/{id}", h.deleteOrder)         // DELETE /api/orders/{id}
		})
	})
}

func (h *Handler) createOrder(w http.ResponseWriter, r *http.Request) {
	identity, ok := auth.IdentityFromContext(r.Context())
	if !ok {
		respond(w, http.StatusUnauthorized, map[string]string{"error": "authentication required"})
		return
	}

	var req CreateOrderRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respond(w, http.StatusBadRequest, map[string]string{"error": err.Error()})
		return
	}

	o, err := h.service.CreateOrder(r.Context(), identity.Username, req)
	if err != nil {
		// Creation failures, stock shortfalls included, map to 400.
		code := http.StatusInternalServerError
		if errors.Is(err, ErrEmptyOrder) || errors.Is(err, ErrInvalidQuantity) ||
			errors.Is(err, ErrProductNotFound) || errors.Is(err, ErrUserNotFound) ||
			errors.Is(err, ErrInsufficientStock) {
			code = http.StatusBadRequest
		}
		respond(w, code, map[string]string{"error": err.Error()})
		return
	}
	respond(w, http.StatusCreated, o)
}

func (h *Handler) myOrders(w http.ResponseWriter, r *http.Request) {
	identity, _ := auth.IdentityFromContext(r.Context())
	orders, err := h.service.ListMyOrders(r.Context(), identity.Username)
	if err != nil {
		respond(w, http.StatusInternalServerError, map[string]string{"error": err.Error()})
		return
	}
	respond(w, http.StatusOK, orders)
}

func (h *Handler) getOrder(w http.ResponseWriter, r *http.Request) {
	identity, _ := auth.IdentityFromContext(r.Context())
	o, err := h.service.GetOrder(r.Context(), chi.URLParam(r, "id"), identity.Username)
	if err != nil {
		code := http.StatusInternalServerError
		if errors.Is(err, ErrOrderNotFound) {
			code = http.StatusNotFound
		}
		respond(w, code, map[string]string{"error": err.Error()})
		return
	}
	respond(w, http.StatusOK, o)
}

func (h *Handler) updateStatus(w http.ResponseWriter, r *http.Request) {
	status, err := ParseStatus(r.URL.Query().Get("status"))
	if err != nil {
		respond(w, http.StatusBadRequest, map[string]string{"error": err.Error()})
		return
	}

	o, err := h.service.UpdateStatus(r.Context(), chi.URLParam(r, "id"), status)
	if err != nil {
		code := http.StatusInternalServerError
		if errors.Is(err, ErrOrderNotFound) {
			code = http.StatusNotFound
		} else if errors.Is(err, ErrInvalidTransition) {
			code = http.StatusUnprocessableEntity
		}
		respond(w, code, map[string]string{"error": err.Error()})
		return
	}
	respond(w, http.StatusOK, o)
}

func (h *Handler) userOrders(w http.ResponseWriter, r *http.Request) {
	orders, err := h.service.ListUserOrders(r.Context(), chi.URLParam(r, "userId"))
	if err != nil {
		respond(w, http.StatusInternalServerError, map[string]string{"error": err.Error()})
		return
	}
	respond(w, http.StatusOK, orders)
}

func (h *Handler) allOrders(w http.ResponseWriter, r *http.Request) {
	orders, err := h.service.ListAllOrders(r.Context())
	if err != nil {
		respond(w, http.StatusInternalServerError, map[string]string{"error": err.Error()})
		return
	}
	respond(w, http.StatusOK, orders)
}

func (h *Handler) pendingOrders(w http.ResponseWriter, r *http.Request) {
	orders, err := h.service.ListOrdersByStatus(r.Context(), StatusPending)
	if err != nil {
		respond(w, http.StatusInternalServerError, map[string]string{"error": err.Error()})
		return
	}
	respond(w, http.StatusOK, orders)
}

func (h *Handler) deleteOrder(w http.ResponseWriter, r *http.Request) {
	if err := h.service.DeleteOrder(r.Context(), chi.URLParam(r, "id")); err != nil {
		code := http.StatusInternalServerError
		if errors.Is(err, ErrOrderNotFound) {
			code = http.StatusNotFound
		}
		respond(w, code, map[string]string{"error": err.Error()})
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func respond(w http.ResponseWriter, status int, body interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(body)
}
