// Package broadcast определяет порт канала оповещений об изменениях инвентаря.
package broadcast

import (
	"context"

	"carmarket/internal/inventory/domain/entities"
)

// Publisher рассылает всем подключенным клиентам полный текущий список
// автомобилей. Доставка best-effort: без подтверждений и повторов.
type Publisher interface {
	PublishCars(ctx context.Context, cars []*entities.Car) error
}
