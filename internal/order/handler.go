package order

import (
	"database/sql"
	"encoding/json"
	"errors"
	"net/http"
	"time"

	"gridstore-be/internal/utils"
)

type Handler struct {
	Repo Repository
}

func NewHandler(repo Repository) *Handler {
	return &Handler{Repo: repo}
}

type orderResponse struct {
	OutTradeNo string    `json:"outTradeNo"`
	Subject    string    `json:"subject"`
	Total      string    `json:"total"`
	Status     string    `json:"status"`
	CreatedAt  time.Time `json:"createdAt"`
}

func toOrderResponse(o *Order) orderResponse {
	return orderResponse{
		OutTradeNo: o.OutTradeNo,
		Subject:    o.Subject,
		Total:      o.Total.StringFixed(2),
		Status:     string(o.Status),
		CreatedAt:  o.CreatedAt,
	}
}

// List handles GET /api/v1/orders, newest first.
func (h *Handler) List(w http.ResponseWriter, r *http.Request) {
	userID, ok := utils.GetUserIDFromContext(r.Context())
	if !ok {
		http.Error(w, "unauthorized", http.StatusUnauthorized)
		return
	}

	orders, err := h.Repo.ListByUser(r.Context(), userID)
	if err != nil {
		http.Error(w, "failed to load orders", http.StatusInternalServerError)
		return
	}

	out := make([]orderResponse, 0, len(orders))
	for i := range orders {
		out = append(out, toOrderResponse(&orders[i]))
	}

	w.Header().Set("Content-Type", "application/json")
	_ = json.NewEncoder(w).Encode(out)
}

// Detail handles GET /api/v1/orders/detail?outTradeNo=. Orders belonging to
// another user are reported as not found.
func (h *Handler) Detail(w http.ResponseWriter, r *http.Request) {
	userID, ok := utils.GetUserIDFromContext(r.Context())
	if !ok {
		http.Error(w, "unauthorized", http.StatusUnauthorized)
		return
	}

	outTradeNo := r.URL.Query().Get("outTradeNo")
	if outTradeNo == "" {
		http.Error(w, "outTradeNo is required", http.StatusBadRequest)
		return
	}

	o, err := h.Repo.GetByOutTradeNo(r.Context(), outTradeNo)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			http.Error(w, "order not found", http.StatusNotFound)
			return
		}
		http.Error(w, "failed to load order", http.StatusInternalServerError)
		return
	}
	if o.UserID != userID {
		http.Error(w, "order not found", http.StatusNotFound)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	_ = json.NewEncoder(w).Encode(toOrderResponse(o))
}
