package utils

import (
	"context"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestUserContextRoundTrip(t *testing.T) {
	ctx := SetUserContext(context.Background(), 42, "buyer@example.com", "user")

	id, ok := GetUserIDFromContext(ctx)
	assert.True(t, ok)
	assert.Equal(t, uint(42), id)
	assert.Equal(t, "buyer@example.com", GetUserEmailFromContext(ctx))
	assert.Equal(t, "user", GetUserRoleFromContext(ctx))
}

func TestUserContext_Missing(t *testing.T) {
	_, ok := GetUserIDFromContext(context.Background())
	assert.False(t, ok)
	assert.Equal(t, "", GetUserEmailFromContext(context.Background()))
}

func TestClientIP(t *testing.T) {
	t.Run("ForwardedFor", func(t *testing.T) {
		r := httptest.NewRequest("POST", "/", nil)
		r.Header.Set("X-Forwarded-For", "203.0.113.7, 10.0.0.1")
		r.RemoteAddr = "10.0.0.2:54321"

		assert.Equal(t, "203.0.113.7", ClientIP(r))
	})

	t.Run("RemoteAddr", func(t *testing.T) {
		r := httptest.NewRequest("POST", "/", nil)
		r.RemoteAddr = "198.51.100.4:40000"

		assert.Equal(t, "198.51.100.4", ClientIP(r))
	})

	t.Run("RemoteAddrWithoutPort", func(t *testing.T) {
		r := httptest.NewRequest("POST", "/", nil)
		r.RemoteAddr = "198.51.100.4"

		assert.Equal(t, "198.51.100.4", ClientIP(r))
	})
}
