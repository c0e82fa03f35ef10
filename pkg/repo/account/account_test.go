package account

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/scienceol/rockin/pkg/common/code"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGetUserInfo(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch r.Header.Get("Authorization") {
		case "Bearer good":
			_, _ = w.Write([]byte(`{"status":"ok","data":{"id":"u-1","name":"tech"}}`))
		case "Bearer stale":
			_, _ = w.Write([]byte(`{"status":"error","msg":"token expired"}`))
		default:
			w.WriteHeader(http.StatusUnauthorized)
		}
	}))
	defer srv.Close()

	client := New(srv.URL)

	user, err := client.GetUserInfo(context.Background(), "Bearer", "good")
	require.NoError(t, err)
	assert.Equal(t, "u-1", user.ID)
	assert.Equal(t, "tech", user.Name)

	_, err = client.GetUserInfo(context.Background(), "Bearer", "stale")
	assert.ErrorIs(t, err, code.InvalidToken)

	_, err = client.GetUserInfo(context.Background(), "Bearer", "bad")
	assert.ErrorIs(t, err, code.InvalidToken)
}
