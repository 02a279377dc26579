package api_test

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"carmarket/internal/client/api"
	"carmarket/internal/inventory/domain/entities"
	"carmarket/internal/inventory/domain/query"
)

func TestLoginStoresToken(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPost, r.Method)
		assert.Equal(t, "/auth/login", r.URL.Path)

		var body map[string]string
		require.NoError(t, json.NewDecoder(r.Body).Decode(&body))
		assert.Equal(t, "user@example.com", body["email"])

		w.Header().Set("Content-Type", "application/json")
		_ = json.NewEncoder(w).Encode(map[string]string{"token": "issued-token"})
	}))
	t.Cleanup(server.Close)

	client := api.NewClient(server.URL, server.Client())

	require.NoError(t, client.Login(context.Background(), "user@example.com", "password123"))
	assert.Equal(t, "issued-token", client.Token())
}

func TestListCarsEncodesFilter(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/cars", r.URL.Path)

		q := r.URL.Query()
		assert.Equal(t, "2", q.Get("page"))
		assert.Equal(t, "8", q.Get("limit"))
		assert.Equal(t, "Toyota", q.Get("make"))
		assert.Equal(t, "15000", q.Get("minPrice"))
		assert.Empty(t, q.Get("model"))

		w.Header().Set("Content-Type", "application/json")
		_ = json.NewEncoder(w).Encode(entities.CarPage{
			Cars:       []*entities.Car{{ID: "car-1"}},
			TotalPages: 4,
		})
	}))
	t.Cleanup(server.Close)

	client := api.NewClient(server.URL, server.Client())

	minPrice := 15000.0
	page, err := client.ListCars(context.Background(), query.CarFilter{
		Page:     2,
		PageSize: 8,
		Make:     "Toyota",
		MinPrice: &minPrice,
	})

	require.NoError(t, err)
	assert.Equal(t, 4, page.TotalPages)
	require.Len(t, page.Cars, 1)
	assert.Equal(t, "car-1", page.Cars[0].ID)
}

func TestMutationsCarryBearerToken(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "Bearer issued-token", r.Header.Get("Authorization"))
		assert.Equal(t, "application/json", r.Header.Get("Content-Type"))

		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusCreated)
		_ = json.NewEncoder(w).Encode(entities.Car{ID: "car-1"})
	}))
	t.Cleanup(server.Close)

	client := api.NewClient(server.URL, server.Client())
	client.SetToken("issued-token")

	created, err := client.CreateCar(context.Background(), &entities.Car{Make: "Toyota"})

	require.NoError(t, err)
	assert.Equal(t, "car-1", created.ID)
}

func TestErrorMapping(t *testing.T) {
	tests := []struct {
		name        string
		statusCode  int
		expectedErr error
	}{
		{name: "unauthorized", statusCode: http.StatusUnauthorized, expectedErr: api.ErrUnauthorized},
		{name: "not found", statusCode: http.StatusNotFound, expectedErr: api.ErrNotFound},
		{name: "bad request", statusCode: http.StatusBadRequest, expectedErr: api.ErrBadRequest},
		{name: "internal error", statusCode: http.StatusInternalServerError, expectedErr: api.ErrServer},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				w.Header().Set("Content-Type", "application/json")
				w.WriteHeader(tt.statusCode)
				_ = json.NewEncoder(w).Encode(map[string]string{"error": "something went wrong"})
			}))
			t.Cleanup(server.Close)

			client := api.NewClient(server.URL, server.Client())

			_, err := client.GetCar(context.Background(), "car-1")

			require.Error(t, err)
			assert.ErrorIs(t, err, tt.expectedErr)
			assert.Contains(t, err.Error(), "something went wrong")
		})
	}
}

func TestDeleteCarSendsNoBody(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodDelete, r.Method)
		assert.Equal(t, "/cars/car-1", r.URL.Path)
		assert.Empty(t, r.Header.Get("Content-Type"))

		w.Header().Set("Content-Type", "application/json")
		_ = json.NewEncoder(w).Encode(map[string]string{"message": "car deleted successfully"})
	}))
	t.Cleanup(server.Close)

	client := api.NewClient(server.URL, server.Client())
	client.SetToken("issued-token")

	require.NoError(t, client.DeleteCar(context.Background(), "car-1"))
}
