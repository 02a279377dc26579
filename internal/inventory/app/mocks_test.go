package app_test

import (
	"context"

	"github.com/stretchr/testify/mock"

	"carmarket/internal/inventory/domain/entities"
	"carmarket/internal/inventory/domain/query"
)

type mockCarRepository struct {
	mock.Mock
}

func (m *mockCarRepository) List(ctx context.Context, predicates []query.Predicate, window query.Window) ([]*entities.Car, int, error) {
	args := m.Called(ctx, predicates, window)
	if args.Get(0) == nil {
		return nil, args.Int(1), args.Error(2)
	}
	return args.Get(0).([]*entities.Car), args.Int(1), args.Error(2)
}

func (m *mockCarRepository) ListAll(ctx context.Context) ([]*entities.Car, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*entities.Car), args.Error(1)
}

func (m *mockCarRepository) GetByID(ctx context.Context, id string) (*entities.Car, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*entities.Car), args.Error(1)
}

func (m *mockCarRepository) Create(ctx context.Context, car *entities.Car) (*entities.Car, error) {
	args := m.Called(ctx, car)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*entities.Car), args.Error(1)
}

func (m *mockCarRepository) Update(ctx context.Context, car *entities.Car) (*entities.Car, error) {
	args := m.Called(ctx, car)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*entities.Car), args.Error(1)
}

func (m *mockCarRepository) Delete(ctx context.Context, id string) error {
	return m.Called(ctx, id).Error(0)
}

func (m *mockCarRepository) DistinctOptions(ctx context.Context) (*entities.FilterOptions, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*entities.FilterOptions), args.Error(1)
}

type mockPublisher struct {
	mock.Mock
}

func (m *mockPublisher) PublishCars(ctx context.Context, cars []*entities.Car) error {
	return m.Called(ctx, cars).Error(0)
}
