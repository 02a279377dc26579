// Package app реализует сценарии использования инвентаря автомобилей.
package app

import (
	"context"
	"errors"
	"fmt"

	"go.uber.org/zap"

	"carmarket/internal/inventory/domain/entities"
	"carmarket/internal/inventory/domain/query"
	"carmarket/internal/inventory/ports/api"
	"carmarket/internal/inventory/ports/broadcast"
	"carmarket/internal/inventory/ports/repositories"
	"carmarket/pkg/logger"
)

const (
	methodList             = "List"
	methodGetByID          = "GetByID"
	methodGetFilterOptions = "GetFilterOptions"
	methodCreate           = "Create"
	methodUpdate           = "Update"
	methodDelete           = "Delete"

	msgListingCars        = "listing cars"
	msgGettingCar         = "getting car"
	msgGettingOptions     = "getting filter options"
	msgCreatingCar        = "creating car"
	msgCarCreated         = "car created"
	msgUpdatingCar        = "updating car"
	msgCarUpdated         = "car updated"
	msgDeletingCar        = "deleting car"
	msgCarDeleted         = "car deleted"
	msgCarNotFound        = "car not found"
	msgInvalidCarPayload  = "invalid car payload"
	msgDuplicateVIN       = "duplicate VIN"
	msgBroadcastSnapshot  = "broadcasting inventory snapshot"
	msgErrListCars        = "failed to list cars"
	msgErrGetCar          = "failed to get car"
	msgErrGetOptions      = "failed to get filter options"
	msgErrCreateCar       = "failed to create car"
	msgErrUpdateCar       = "failed to update car"
	msgErrDeleteCar       = "failed to delete car"
	msgErrSnapshotList    = "failed to read inventory snapshot for broadcast"
	msgErrPublishSnapshot = "failed to publish inventory snapshot"

	errCtxListingCars     = "listing cars"
	errCtxGettingCar      = "getting car"
	errCtxGettingOptions  = "getting filter options"
	errCtxValidatingCar   = "validating car"
	errCtxCreatingCar     = "creating car"
	errCtxUpdatingCar     = "updating car"
	errCtxDeletingCar     = "deleting car"
	errCtxApplyingPatch   = "applying update"
)

// CarUseCaseImpl реализует интерфейс CarUseCase.
type CarUseCaseImpl struct {
	carRepo   repositories.CarRepository
	publisher broadcast.Publisher
}

// NewCarUseCase создает новый экземпляр сервиса инвентаря.
func NewCarUseCase(carRepo repositories.CarRepository, publisher broadcast.Publisher) api.CarUseCase {
	return &CarUseCaseImpl{
		carRepo:   carRepo,
		publisher: publisher,
	}
}

// List возвращает страницу записей, удовлетворяющих фильтру,
// и общее число страниц.
func (u *CarUseCaseImpl) List(ctx context.Context, filter query.CarFilter) (*entities.CarPage, error) {
	log := logger.Log(ctx).With(zap.String("method", methodList))
	log.Debug(ctx, msgListingCars, zap.Int("page", filter.Page), zap.Int("pageSize", filter.PageSize))

	filter = filter.Normalize()
	predicates, window := query.Build(filter)

	cars, total, err := u.carRepo.List(ctx, predicates, window)
	if err != nil {
		log.Error(ctx, msgErrListCars, zap.Error(err))
		return nil, fmt.Errorf("%s: %w", errCtxListingCars, err)
	}

	totalPages := (total + window.Limit - 1) / window.Limit

	return &entities.CarPage{
		Cars:       cars,
		TotalPages: totalPages,
	}, nil
}

// GetByID возвращает одну запись по идентификатору.
func (u *CarUseCaseImpl) GetByID(ctx context.Context, id string) (*entities.Car, error) {
	log := logger.Log(ctx).With(zap.String("method", methodGetByID), zap.String("carID", id))
	log.Debug(ctx, msgGettingCar)

	car, err := u.carRepo.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, entities.ErrCarNotFound) {
			log.Debug(ctx, msgCarNotFound)
			return nil, fmt.Errorf("%s: %w", errCtxGettingCar, entities.ErrCarNotFound)
		}
		log.Error(ctx, msgErrGetCar, zap.Error(err))
		return nil, fmt.Errorf("%s: %w", errCtxGettingCar, err)
	}

	return car, nil
}

// GetFilterOptions возвращает различные значения make, model и year,
// присутствующие в хранилище. Значения вычисляются на каждый запрос.
func (u *CarUseCaseImpl) GetFilterOptions(ctx context.Context) (*entities.FilterOptions, error) {
	log := logger.Log(ctx).With(zap.String("method", methodGetFilterOptions))
	log.Debug(ctx, msgGettingOptions)

	options, err := u.carRepo.DistinctOptions(ctx)
	if err != nil {
		log.Error(ctx, msgErrGetOptions, zap.Error(err))
		return nil, fmt.Errorf("%s: %w", errCtxGettingOptions, err)
	}

	return options, nil
}

// Create проверяет и сохраняет новую запись, затем рассылает снимок инвентаря.
func (u *CarUseCaseImpl) Create(ctx context.Context, car *entities.Car) (*entities.Car, error) {
	log := logger.Log(ctx).With(zap.String("method", methodCreate), zap.String("vin", car.VIN))
	log.Debug(ctx, msgCreatingCar)

	car.ApplyDefaults()
	if err := car.Validate(); err != nil {
		log.Debug(ctx, msgInvalidCarPayload, zap.Error(err))
		return nil, fmt.Errorf("%s: %w", errCtxValidatingCar, err)
	}

	created, err := u.carRepo.Create(ctx, car)
	if err != nil {
		if errors.Is(err, entities.ErrDuplicateVIN) {
			log.Debug(ctx, msgDuplicateVIN)
			return nil, fmt.Errorf("%s: %w", errCtxCreatingCar, entities.ErrDuplicateVIN)
		}
		log.Error(ctx, msgErrCreateCar, zap.Error(err))
		return nil, fmt.Errorf("%s: %w", errCtxCreatingCar, err)
	}

	log.Info(ctx, msgCarCreated, zap.String("carID", created.ID))
	u.broadcastSnapshot(ctx)

	return created, nil
}

// Update накладывает частичное обновление на существующую запись.
// Поля, отсутствующие в patch, остаются без изменений.
func (u *CarUseCaseImpl) Update(ctx context.Context, id string, patch *entities.CarPatch) (*entities.Car, error) {
	log := logger.Log(ctx).With(zap.String("method", methodUpdate), zap.String("carID", id))
	log.Debug(ctx, msgUpdatingCar)

	car, err := u.carRepo.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, entities.ErrCarNotFound) {
			log.Debug(ctx, msgCarNotFound)
			return nil, fmt.Errorf("%s: %w", errCtxUpdatingCar, entities.ErrCarNotFound)
		}
		log.Error(ctx, msgErrUpdateCar, zap.Error(err))
		return nil, fmt.Errorf("%s: %w", errCtxUpdatingCar, err)
	}

	patch.Apply(car)
	if err := car.Validate(); err != nil {
		log.Debug(ctx, msgInvalidCarPayload, zap.Error(err))
		return nil, fmt.Errorf("%s: %w", errCtxApplyingPatch, err)
	}

	updated, err := u.carRepo.Update(ctx, car)
	if err != nil {
		if errors.Is(err, entities.ErrCarNotFound) {
			log.Debug(ctx, msgCarNotFound)
			return nil, fmt.Errorf("%s: %w", errCtxUpdatingCar, entities.ErrCarNotFound)
		}
		if errors.Is(err, entities.ErrDuplicateVIN) {
			log.Debug(ctx, msgDuplicateVIN)
			return nil, fmt.Errorf("%s: %w", errCtxUpdatingCar, entities.ErrDuplicateVIN)
		}
		log.Error(ctx, msgErrUpdateCar, zap.Error(err))
		return nil, fmt.Errorf("%s: %w", errCtxUpdatingCar, err)
	}

	log.Info(ctx, msgCarUpdated, zap.String("carID", updated.ID))
	u.broadcastSnapshot(ctx)

	return updated, nil
}

// Delete удаляет запись без возможности восстановления.
func (u *CarUseCaseImpl) Delete(ctx context.Context, id string) error {
	log := logger.Log(ctx).With(zap.String("method", methodDelete), zap.String("carID", id))
	log.Debug(ctx, msgDeletingCar)

	if err := u.carRepo.Delete(ctx, id); err != nil {
		if errors.Is(err, entities.ErrCarNotFound) {
			log.Debug(ctx, msgCarNotFound)
			return fmt.Errorf("%s: %w", errCtxDeletingCar, entities.ErrCarNotFound)
		}
		log.Error(ctx, msgErrDeleteCar, zap.Error(err))
		return fmt.Errorf("%s: %w", errCtxDeletingCar, err)
	}

	log.Info(ctx, msgCarDeleted)
	u.broadcastSnapshot(ctx)

	return nil
}

// broadcastSnapshot читает полный текущий список и публикует его в канал
// оповещений. Мутация и снимок не связаны транзакцией: между ними может
// вклиниться параллельная запись, и клиенты получат более поздний снимок.
// Ошибки публикации не влияют на результат операции.
func (u *CarUseCaseImpl) broadcastSnapshot(ctx context.Context) {
	log := logger.Log(ctx)
	log.Debug(ctx, msgBroadcastSnapshot)

	cars, err := u.carRepo.ListAll(ctx)
	if err != nil {
		log.Error(ctx, msgErrSnapshotList, zap.Error(err))
		return
	}

	if err := u.publisher.PublishCars(ctx, cars); err != nil {
		log.Error(ctx, msgErrPublishSnapshot, zap.Error(err))
	}
}
