package cart

import (
	"encoding/json"
	"net/http"
	"strconv"

	"gridstore-be/internal/utils"

	"github.com/shopspring/decimal"
)

type Handler struct {
	Svc Service
}

func NewHandler(svc Service) *Handler {
	return &Handler{Svc: svc}
}

type addItemRequest struct {
	GameID   uint   `json:"gameId"`
	Title    string `json:"title"`
	Price    string `json:"price"`
	Quantity int    `json:"quantity"`
}

type itemResponse struct {
	GameID   uint   `json:"gameId"`
	Title    string `json:"title"`
	Price    string `json:"price"`
	Quantity int    `json:"quantity"`
}

// List handles GET /api/v1/cart and returns the line items with their
// running total.
func (h *Handler) List(w http.ResponseWriter, r *http.Request) {
	userID, ok := utils.GetUserIDFromContext(r.Context())
	if !ok {
		http.Error(w, "unauthorized", http.StatusUnauthorized)
		return
	}

	items, err := h.Svc.Items(r.Context(), userID)
	if err != nil {
		http.Error(w, "failed to load cart", http.StatusInternalServerError)
		return
	}

	out := make([]itemResponse, 0, len(items))
	for _, it := range items {
		out = append(out, itemResponse{
			GameID:   it.GameID,
			Title:    it.Title,
			Price:    it.Price.StringFixed(2),
			Quantity: it.Quantity,
		})
	}

	w.Header().Set("Content-Type", "application/json")
	_ = json.NewEncoder(w).Encode(map[string]any{
		"items": out,
		"total": h.Svc.Total(items).StringFixed(2),
	})
}

// AddItem handles POST /api/v1/cart/items
func (h *Handler) AddItem(w http.ResponseWriter, r *http.Request) {
	userID, ok := utils.GetUserIDFromContext(r.Context())
	if !ok {
		http.Error(w, "unauthorized", http.StatusUnauthorized)
		return
	}

	var req addItemRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "invalid JSON payload", http.StatusBadRequest)
		return
	}

	price, err := decimal.NewFromString(req.Price)
	if err != nil {
		http.Error(w, "invalid price", http.StatusBadRequest)
		return
	}

	item := &CartItem{
		UserID:   userID,
		GameID:   req.GameID,
		Title:    req.Title,
		Price:    price,
		Quantity: req.Quantity,
	}
	if err := h.Svc.AddItem(r.Context(), item); err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}

	w.WriteHeader(http.StatusCreated)
}

// RemoveItem handles DELETE /api/v1/cart/items?gameId=
func (h *Handler) RemoveItem(w http.ResponseWriter, r *http.Request) {
	userID, ok := utils.GetUserIDFromContext(r.Context())
	if !ok {
		http.Error(w, "unauthorized", http.StatusUnauthorized)
		return
	}

	gameID, err := strconv.ParseUint(r.URL.Query().Get("gameId"), 10, 32)
	if err != nil {
		http.Error(w, "invalid gameId", http.StatusBadRequest)
		return
	}

	if err := h.Svc.RemoveItem(r.Context(), userID, uint(gameID)); err != nil {
		http.Error(w, "failed to remove item", http.StatusInternalServerError)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}
