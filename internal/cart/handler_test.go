package cart

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"gridstore-be/internal/utils"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type stubService struct {
	items    []CartItem
	itemsErr error
	addErr   error

	added   []*CartItem
	removed []uint
}

func (s *stubService) Items(ctx context.Context, userID uint) ([]CartItem, error) {
	return s.items, s.itemsErr
}

func (s *stubService) Total(items []CartItem) decimal.Decimal {
	total := decimal.Zero
	for _, it := range items {
		total = total.Add(it.Price.Mul(decimal.NewFromInt(int64(it.Quantity))))
	}
	return total
}

func (s *stubService) AddItem(ctx context.Context, item *CartItem) error {
	if s.addErr != nil {
		return s.addErr
	}
	s.added = append(s.added, item)
	return nil
}

func (s *stubService) RemoveItem(ctx context.Context, userID, gameID uint) error {
	s.removed = append(s.removed, gameID)
	return nil
}

func authed(r *http.Request) *http.Request {
	return r.WithContext(utils.SetUserContext(r.Context(), 7, "u@example.com", "user"))
}

func TestListCartHandler(t *testing.T) {
	t.Run("ItemsWithTotal", func(t *testing.T) {
		svc := &stubService{items: []CartItem{
			{GameID: 1, Title: "Stardew Valley", Price: decimal.RequireFromString("19.99"), Quantity: 1},
			{GameID: 2, Title: "Celeste", Price: decimal.RequireFromString("4.50"), Quantity: 2},
		}}
		h := NewHandler(svc)

		r := authed(httptest.NewRequest("GET", "/api/v1/cart", nil))
		w := httptest.NewRecorder()

		h.List(w, r)

		require.Equal(t, http.StatusOK, w.Code)
		var body struct {
			Items []itemResponse `json:"items"`
			Total string         `json:"total"`
		}
		require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
		require.Len(t, body.Items, 2)
		assert.Equal(t, "19.99", body.Items[0].Price)
		assert.Equal(t, "28.99", body.Total)
	})

	t.Run("EmptyCart", func(t *testing.T) {
		h := NewHandler(&stubService{})
		r := authed(httptest.NewRequest("GET", "/api/v1/cart", nil))
		w := httptest.NewRecorder()

		h.List(w, r)

		require.Equal(t, http.StatusOK, w.Code)
		assert.JSONEq(t, `{"items":[],"total":"0.00"}`, w.Body.String())
	})

	t.Run("Unauthorized", func(t *testing.T) {
		h := NewHandler(&stubService{})
		r := httptest.NewRequest("GET", "/api/v1/cart", nil)
		w := httptest.NewRecorder()

		h.List(w, r)
		assert.Equal(t, http.StatusUnauthorized, w.Code)
	})
}

func TestAddItemHandler(t *testing.T) {
	t.Run("Created", func(t *testing.T) {
		svc := &stubService{}
		h := NewHandler(svc)

		payload := `{"gameId":3,"title":"Hades","price":"24.99","quantity":1}`
		r := authed(httptest.NewRequest("POST", "/api/v1/cart/items", strings.NewReader(payload)))
		w := httptest.NewRecorder()

		h.AddItem(w, r)

		require.Equal(t, http.StatusCreated, w.Code)
		require.Len(t, svc.added, 1)
		assert.Equal(t, uint(7), svc.added[0].UserID, "owner comes from the token, not the payload")
		assert.Equal(t, "24.99", svc.added[0].Price.StringFixed(2))
	})

	t.Run("BadPrice", func(t *testing.T) {
		h := NewHandler(&stubService{})
		r := authed(httptest.NewRequest("POST", "/api/v1/cart/items", strings.NewReader(`{"gameId":3,"price":"abc","quantity":1}`)))
		w := httptest.NewRecorder()

		h.AddItem(w, r)
		assert.Equal(t, http.StatusBadRequest, w.Code)
	})

	t.Run("BadJSON", func(t *testing.T) {
		h := NewHandler(&stubService{})
		r := authed(httptest.NewRequest("POST", "/api/v1/cart/items", strings.NewReader("{")))
		w := httptest.NewRecorder()

		h.AddItem(w, r)
		assert.Equal(t, http.StatusBadRequest, w.Code)
	})

	t.Run("ValidationFailure", func(t *testing.T) {
		h := NewHandler(&stubService{addErr: assert.AnError})
		r := authed(httptest.NewRequest("POST", "/api/v1/cart/items", strings.NewReader(`{"gameId":3,"price":"24.99","quantity":0}`)))
		w := httptest.NewRecorder()

		h.AddItem(w, r)
		assert.Equal(t, http.StatusBadRequest, w.Code)
	})
}

func TestRemoveItemHandler(t *testing.T) {
	t.Run("Removed", func(t *testing.T) {
		svc := &stubService{}
		h := NewHandler(svc)

		r := authed(httptest.NewRequest("DELETE", "/api/v1/cart/items?gameId=3", nil))
		w := httptest.NewRecorder()

		h.RemoveItem(w, r)

		assert.Equal(t, http.StatusNoContent, w.Code)
		assert.Equal(t, []uint{3}, svc.removed)
	})

	t.Run("BadGameID", func(t *testing.T) {
		h := NewHandler(&stubService{})
		r := authed(httptest.NewRequest("DELETE", "/api/v1/cart/items?gameId=abc", nil))
		w := httptest.NewRecorder()

		h.RemoveItem(w, r)
		assert.Equal(t, http.StatusBadRequest, w.Code)
	})
}
