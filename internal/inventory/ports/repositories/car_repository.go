// Package repositories определяет порты хранилища инвентаря.
package repositories

import (
	"context"

	"carmarket/internal/inventory/domain/entities"
	"carmarket/internal/inventory/domain/query"
)

// CarRepository определяет операции над записями автомобилей.
type CarRepository interface {
	List(ctx context.Context, predicates []query.Predicate, window query.Window) ([]*entities.Car, int, error)
	ListAll(ctx context.Context) ([]*entities.Car, error)
	GetByID(ctx context.Context, id string) (*entities.Car, error)
	Create(ctx context.Context, car *entities.Car) (*entities.Car, error)
	Update(ctx context.Context, car *entities.Car) (*entities.Car, error)
	Delete(ctx context.Context, id string) error
	DistinctOptions(ctx context.Context) (*entities.FilterOptions, error)
}
