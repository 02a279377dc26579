// Package postgres содержит реализации репозиториев инвентаря для Postgres.
package postgres

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"go.uber.org/zap"

	"carmarket/internal/inventory/domain/entities"
	"carmarket/internal/inventory/domain/query"
	"carmarket/internal/inventory/ports/repositories"
	"carmarket/pkg/logger"
)

// Код Postgres для нарушения уникального ограничения.
const uniqueViolationCode = "23505"

const carColumns = "id, make, model, year, price, currency, vin, shipping_status, created_at, updated_at"

// PgxPoolInterface описывает операции пула соединений, используемые репозиторием.
type PgxPoolInterface interface {
	QueryRow(ctx context.Context, query string, args ...interface{}) pgx.Row
	Exec(ctx context.Context, query string, args ...interface{}) (pgconn.CommandTag, error)
	Query(ctx context.Context, query string, args ...interface{}) (pgx.Rows, error)
	Close()
}

// CarRepository реализует интерфейс repositories.CarRepository для работы с Postgres.
type CarRepository struct {
	pool PgxPoolInterface
}

// NewCarRepository создает новый экземпляр репозитория автомобилей.
func NewCarRepository(pool PgxPoolInterface) repositories.CarRepository {
	return &CarRepository{pool: pool}
}

// renderPredicates превращает список предикатов в условие WHERE с
// позиционными аргументами. Пустой список возвращает пустое условие.
func renderPredicates(predicates []query.Predicate) (string, []interface{}) {
	if len(predicates) == 0 {
		return "", nil
	}

	clauses := make([]string, 0, len(predicates))
	args := make([]interface{}, 0, len(predicates))

	for _, p := range predicates {
		args = append(args, p.Value)
		clauses = append(clauses, fmt.Sprintf("%s %s $%d", p.Field, p.Op, len(args)))
	}

	return " WHERE " + strings.Join(clauses, " AND "), args
}

// List возвращает страницу записей по предикатам и общее число совпадений.
// Порядок выборки - порядок вставки (created_at, id) и стабилен только в
// рамках неизменного снимка.
func (r *CarRepository) List(ctx context.Context, predicates []query.Predicate, window query.Window) ([]*entities.Car, int, error) {
	log := logger.Log(ctx).With(zap.String("repository", "car"), zap.String("method", "List"))

	where, args := renderPredicates(predicates)

	var total int
	countQuery := "SELECT COUNT(*) FROM cars" + where
	if err := r.pool.QueryRow(ctx, countQuery, args...).Scan(&total); err != nil {
		log.Error(ctx, "error counting cars", zap.Error(err))
		return nil, 0, fmt.Errorf("error counting cars: %w", err)
	}

	listQuery := fmt.Sprintf(
		"SELECT %s FROM cars%s ORDER BY created_at, id LIMIT $%d OFFSET $%d",
		carColumns, where, len(args)+1, len(args)+2,
	)
	listArgs := append(args, window.Limit, window.Skip)

	rows, err := r.pool.Query(ctx, listQuery, listArgs...)
	if err != nil {
		log.Error(ctx, "error listing cars", zap.Error(err))
		return nil, 0, fmt.Errorf("error listing cars: %w", err)
	}
	defer rows.Close()

	cars, err := scanCars(rows)
	if err != nil {
		log.Error(ctx, "error scanning cars", zap.Error(err))
		return nil, 0, err
	}

	return cars, total, nil
}

// ListAll возвращает полный текущий список записей для рассылки.
func (r *CarRepository) ListAll(ctx context.Context) ([]*entities.Car, error) {
	log := logger.Log(ctx).With(zap.String("repository", "car"), zap.String("method", "ListAll"))

	rows, err := r.pool.Query(ctx,
		fmt.Sprintf("SELECT %s FROM cars ORDER BY created_at, id", carColumns))
	if err != nil {
		log.Error(ctx, "error listing all cars", zap.Error(err))
		return nil, fmt.Errorf("error listing all cars: %w", err)
	}
	defer rows.Close()

	cars, err := scanCars(rows)
	if err != nil {
		log.Error(ctx, "error scanning cars", zap.Error(err))
		return nil, err
	}

	return cars, nil
}

// GetByID находит запись по идентификатору.
func (r *CarRepository) GetByID(ctx context.Context, id string) (*entities.Car, error) {
	log := logger.Log(ctx).With(zap.String("repository", "car"), zap.String("method", "GetByID"))

	var car entities.Car
	err := r.pool.QueryRow(ctx,
		fmt.Sprintf("SELECT %s FROM cars WHERE id = $1", carColumns), id,
	).Scan(
		&car.ID, &car.Make, &car.Model, &car.Year, &car.Price,
		&car.Currency, &car.VIN, &car.ShippingStatus, &car.CreatedAt, &car.UpdatedAt,
	)

	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			log.Debug(ctx, "car not found", zap.String("id", id))
			return nil, entities.ErrCarNotFound
		}
		log.Error(ctx, "error finding car by id", zap.Error(err))
		return nil, fmt.Errorf("error querying car by id: %w", err)
	}

	return &car, nil
}

// Create сохраняет новую запись. Нарушение уникальности VIN
// транслируется в entities.ErrDuplicateVIN.
func (r *CarRepository) Create(ctx context.Context, car *entities.Car) (*entities.Car, error) {
	log := logger.Log(ctx).With(zap.String("repository", "car"), zap.String("method", "Create"))

	insertQuery := fmt.Sprintf(`
        INSERT INTO cars (make, model, year, price, currency, vin, shipping_status)
        VALUES ($1, $2, $3, $4, $5, $6, $7)
        RETURNING %s
    `, carColumns)

	var created entities.Car
	err := r.pool.QueryRow(ctx, insertQuery,
		car.Make, car.Model, car.Year, car.Price, car.Currency, car.VIN, car.ShippingStatus,
	).Scan(
		&created.ID, &created.Make, &created.Model, &created.Year, &created.Price,
		&created.Currency, &created.VIN, &created.ShippingStatus, &created.CreatedAt, &created.UpdatedAt,
	)

	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == uniqueViolationCode {
			log.Debug(ctx, "duplicate vin", zap.String("vin", car.VIN))
			return nil, entities.ErrDuplicateVIN
		}
		log.Error(ctx, "error creating car", zap.Error(err))
		return nil, fmt.Errorf("error creating car: %w", err)
	}

	return &created, nil
}

// Update перезаписывает изменяемые поля записи и обновляет updated_at.
func (r *CarRepository) Update(ctx context.Context, car *entities.Car) (*entities.Car, error) {
	log := logger.Log(ctx).With(zap.String("repository", "car"), zap.String("method", "Update"))

	updateQuery := fmt.Sprintf(`
        UPDATE cars
        SET make = $2, model = $3, year = $4, price = $5, currency = $6,
            vin = $7, shipping_status = $8, updated_at = now()
        WHERE id = $1
        RETURNING %s
    `, carColumns)

	var updated entities.Car
	err := r.pool.QueryRow(ctx, updateQuery,
		car.ID, car.Make, car.Model, car.Year, car.Price, car.Currency, car.VIN, car.ShippingStatus,
	).Scan(
		&updated.ID, &updated.Make, &updated.Model, &updated.Year, &updated.Price,
		&updated.Currency, &updated.VIN, &updated.ShippingStatus, &updated.CreatedAt, &updated.UpdatedAt,
	)

	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			log.Debug(ctx, "car not found for update", zap.String("id", car.ID))
			return nil, entities.ErrCarNotFound
		}
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == uniqueViolationCode {
			log.Debug(ctx, "duplicate vin on update", zap.String("vin", car.VIN))
			return nil, entities.ErrDuplicateVIN
		}
		log.Error(ctx, "error updating car", zap.Error(err))
		return nil, fmt.Errorf("error updating car: %w", err)
	}

	return &updated, nil
}

// Delete удаляет запись по идентификатору.
func (r *CarRepository) Delete(ctx context.Context, id string) error {
	log := logger.Log(ctx).With(zap.String("repository", "car"), zap.String("method", "Delete"))

	result, err := r.pool.Exec(ctx, "DELETE FROM cars WHERE id = $1", id)
	if err != nil {
		log.Error(ctx, "error deleting car", zap.Error(err))
		return fmt.Errorf("error deleting car: %w", err)
	}

	if result.RowsAffected() == 0 {
		log.Debug(ctx, "car not found for deletion", zap.String("id", id))
		return entities.ErrCarNotFound
	}

	return nil
}

// DistinctOptions вычисляет различные значения make, model и year.
func (r *CarRepository) DistinctOptions(ctx context.Context) (*entities.FilterOptions, error) {
	log := logger.Log(ctx).With(zap.String("repository", "car"), zap.String("method", "DistinctOptions"))

	options := &entities.FilterOptions{
		Makes:  make([]string, 0),
		Models: make([]string, 0),
		Years:  make([]int, 0),
	}

	if err := r.distinctStrings(ctx, "SELECT DISTINCT make FROM cars ORDER BY make", &options.Makes); err != nil {
		log.Error(ctx, "error selecting distinct makes", zap.Error(err))
		return nil, err
	}
	if err := r.distinctStrings(ctx, "SELECT DISTINCT model FROM cars ORDER BY model", &options.Models); err != nil {
		log.Error(ctx, "error selecting distinct models", zap.Error(err))
		return nil, err
	}

	rows, err := r.pool.Query(ctx, "SELECT DISTINCT year FROM cars ORDER BY year")
	if err != nil {
		log.Error(ctx, "error selecting distinct years", zap.Error(err))
		return nil, fmt.Errorf("error selecting distinct years: %w", err)
	}
	defer rows.Close()

	for rows.Next() {
		var year int
		if err := rows.Scan(&year); err != nil {
			return nil, fmt.Errorf("error scanning distinct year: %w", err)
		}
		options.Years = append(options.Years, year)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating distinct years: %w", err)
	}

	return options, nil
}

func (r *CarRepository) distinctStrings(ctx context.Context, sql string, dst *[]string) error {
	rows, err := r.pool.Query(ctx, sql)
	if err != nil {
		return fmt.Errorf("error selecting distinct values: %w", err)
	}
	defer rows.Close()

	for rows.Next() {
		var value string
		if err := rows.Scan(&value); err != nil {
			return fmt.Errorf("error scanning distinct value: %w", err)
		}
		*dst = append(*dst, value)
	}
	if err := rows.Err(); err != nil {
		return fmt.Errorf("error iterating distinct values: %w", err)
	}
	return nil
}

func scanCars(rows pgx.Rows) ([]*entities.Car, error) {
	cars := make([]*entities.Car, 0)
	for rows.Next() {
		var car entities.Car
		err := rows.Scan(
			&car.ID, &car.Make, &car.Model, &car.Year, &car.Price,
			&car.Currency, &car.VIN, &car.ShippingStatus, &car.CreatedAt, &car.UpdatedAt,
		)
		if err != nil {
			return nil, fmt.Errorf("error scanning car: %w", err)
		}
		cars = append(cars, &car)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating rows: %w", err)
	}
	return cars, nil
}
