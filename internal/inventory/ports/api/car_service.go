// Package api определяет интерфейсы сценариев использования инвентаря.
package api

import (
	"context"

	"carmarket/internal/inventory/domain/entities"
	"carmarket/internal/inventory/domain/query"
)

// CarUseCase определяет CRUD-сценарии над записями автомобилей.
type CarUseCase interface {
	List(ctx context.Context, filter query.CarFilter) (*entities.CarPage, error)
	GetByID(ctx context.Context, id string) (*entities.Car, error)
	GetFilterOptions(ctx context.Context) (*entities.FilterOptions, error)
	Create(ctx context.Context, car *entities.Car) (*entities.Car, error)
	Update(ctx context.Context, id string, patch *entities.CarPatch) (*entities.Car, error)
	Delete(ctx context.Context, id string) error
}
