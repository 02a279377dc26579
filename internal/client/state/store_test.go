package state

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"carmarket/internal/inventory/domain/entities"
	"carmarket/internal/inventory/domain/query"
)

type mockCarAPI struct {
	mock.Mock
}

func (m *mockCarAPI) ListCars(ctx context.Context, filter query.CarFilter) (*entities.CarPage, error) {
	args := m.Called(ctx, filter)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*entities.CarPage), args.Error(1)
}

func (m *mockCarAPI) GetFilterOptions(ctx context.Context) (*entities.FilterOptions, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*entities.FilterOptions), args.Error(1)
}

func (m *mockCarAPI) CreateCar(ctx context.Context, car *entities.Car) (*entities.Car, error) {
	args := m.Called(ctx, car)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*entities.Car), args.Error(1)
}

func (m *mockCarAPI) UpdateCar(ctx context.Context, id string, patch *entities.CarPatch) (*entities.Car, error) {
	args := m.Called(ctx, id, patch)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*entities.Car), args.Error(1)
}

func (m *mockCarAPI) DeleteCar(ctx context.Context, id string) error {
	return m.Called(ctx, id).Error(0)
}

func TestFetchCarsCachesResponses(t *testing.T) {
	api := new(mockCarAPI)
	store := NewStore(api, DefaultFreshness)

	api.On("ListCars", mock.Anything, store.Filter()).
		Return(pageWith("car-1"), nil).Once()

	cars, totalPages, err := store.FetchCars(context.Background())
	require.NoError(t, err)
	assert.Len(t, cars, 1)
	assert.Equal(t, 1, totalPages)

	// Повторный вызов с тем же фильтром обслуживается из кэша.
	cars, _, err = store.FetchCars(context.Background())
	require.NoError(t, err)
	assert.Len(t, cars, 1)

	api.AssertNumberOfCalls(t, "ListCars", 1)
}

func TestFetchCarsNewPageBypassesOldKey(t *testing.T) {
	api := new(mockCarAPI)
	store := NewStore(api, DefaultFreshness)

	api.On("ListCars", mock.Anything, mock.Anything).
		Return(pageWith("car-1"), nil).Twice()

	_, _, err := store.FetchCars(context.Background())
	require.NoError(t, err)

	store.SetPage(2)

	_, _, err = store.FetchCars(context.Background())
	require.NoError(t, err)

	api.AssertNumberOfCalls(t, "ListCars", 2)
}

func TestFetchCarsExpiredEntryForcesLiveFetch(t *testing.T) {
	api := new(mockCarAPI)
	store := NewStore(api, DefaultFreshness)

	base := time.Now()
	store.cache.now = func() time.Time { return base }

	api.On("ListCars", mock.Anything, mock.Anything).
		Return(pageWith("car-1"), nil).Twice()

	_, _, err := store.FetchCars(context.Background())
	require.NoError(t, err)

	store.cache.now = func() time.Time { return base.Add(DefaultFreshness + time.Second) }

	_, _, err = store.FetchCars(context.Background())
	require.NoError(t, err)

	api.AssertNumberOfCalls(t, "ListCars", 2)
}

func TestApplyBroadcastReplacesViewBypassingCache(t *testing.T) {
	api := new(mockCarAPI)
	store := NewStore(api, DefaultFreshness)

	api.On("ListCars", mock.Anything, mock.Anything).
		Return(pageWith("car-1", "car-2"), nil).Once()

	_, _, err := store.FetchCars(context.Background())
	require.NoError(t, err)

	// Снимок после удаления car-2 замещает отображаемый список,
	// хотя кэш еще свежий.
	store.ApplyBroadcast([]*entities.Car{{ID: "car-1"}})

	view, _ := store.View()
	require.Len(t, view, 1)
	assert.Equal(t, "car-1", view[0].ID)

	api.AssertNumberOfCalls(t, "ListCars", 1)
}

func TestMutationsRequireSession(t *testing.T) {
	api := new(mockCarAPI)
	store := NewStore(api, DefaultFreshness)

	_, err := store.CreateCar(context.Background(), &entities.Car{})
	assert.ErrorIs(t, err, ErrNotAuthenticated)

	_, err = store.UpdateCar(context.Background(), "car-1", &entities.CarPatch{})
	assert.ErrorIs(t, err, ErrNotAuthenticated)

	err = store.DeleteCar(context.Background(), "car-1")
	assert.ErrorIs(t, err, ErrNotAuthenticated)

	api.AssertNotCalled(t, "CreateCar")
	api.AssertNotCalled(t, "UpdateCar")
	api.AssertNotCalled(t, "DeleteCar")
}

func TestMutationsPassThroughWithSession(t *testing.T) {
	api := new(mockCarAPI)
	store := NewStore(api, DefaultFreshness)
	store.SetAuthenticated(true)

	created := &entities.Car{ID: "car-1"}
	api.On("CreateCar", mock.Anything, mock.Anything).Return(created, nil).Once()
	api.On("DeleteCar", mock.Anything, "car-1").Return(nil).Once()

	car, err := store.CreateCar(context.Background(), &entities.Car{})
	require.NoError(t, err)
	assert.Equal(t, created, car)

	require.NoError(t, store.DeleteCar(context.Background(), "car-1"))

	api.AssertExpectations(t)
}
