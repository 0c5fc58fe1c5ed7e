package watcher

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ErDev77/pc-configurator-sub000/pkg/models"
)

func TestAPIClientListOrdersSince(t *testing.T) {
	var gotQuery string
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotQuery = r.URL.RawQuery
		json.NewEncoder(w).Encode(models.OrderListResponse{
			Success: true,
			Orders:  []*models.Order{{ID: 4, OrderNumber: "PC-000004"}},
			Count:   1,
		})
	}))
	defer server.Close()

	client := NewAPIClient(server.URL, testLogger())
	orders, err := client.ListOrdersSince(context.Background(), 3, 10)
	require.NoError(t, err)

	assert.Equal(t, "since=3&limit=10", gotQuery)
	require.Len(t, orders, 1)
	assert.Equal(t, int64(4), orders[0].ID)
}

func TestAPIClientErrorStatus(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
	}))
	defer server.Close()

	client := NewAPIClient(server.URL, testLogger())
	_, err := client.ListOrdersSince(context.Background(), 0, 10)
	assert.Error(t, err)
}
