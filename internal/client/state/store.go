package state

import (
	"context"
	"errors"
	"sync"
	"time"

	"carmarket/internal/inventory/domain/entities"
	"carmarket/internal/inventory/domain/query"
)

// ErrNotAuthenticated возвращается при попытке мутации без активной сессии.
// Это клиентская защита в глубину: авторитетная проверка выполняется сервером.
var ErrNotAuthenticated = errors.New("not authenticated")

// CarAPI - операции REST клиента, нужные хранилищу состояния.
type CarAPI interface {
	ListCars(ctx context.Context, filter query.CarFilter) (*entities.CarPage, error)
	GetFilterOptions(ctx context.Context) (*entities.FilterOptions, error)
	CreateCar(ctx context.Context, car *entities.Car) (*entities.Car, error)
	UpdateCar(ctx context.Context, id string, patch *entities.CarPatch) (*entities.Car, error)
	DeleteCar(ctx context.Context, id string) error
}

// Store - единственное на сессию хранилище клиентского состояния:
// флаг сессии, текущий фильтр, текущая страница выборки и кэш ответов.
type Store struct {
	api   CarAPI
	cache *Cache

	mu            sync.RWMutex
	authenticated bool
	filter        query.CarFilter
	view          []*entities.Car
	totalPages    int
}

// NewStore создает хранилище состояния поверх REST клиента.
func NewStore(api CarAPI, freshness time.Duration) *Store {
	return &Store{
		api:   api,
		cache: NewCache(freshness),
		filter: query.CarFilter{
			Page:     query.DefaultPage,
			PageSize: query.DefaultPageSize,
		},
	}
}

// SetAuthenticated выставляет флаг активной сессии.
func (s *Store) SetAuthenticated(authenticated bool) {
	s.mu.Lock()
	s.authenticated = authenticated
	s.mu.Unlock()
}

// IsAuthenticated сообщает, активна ли сессия.
func (s *Store) IsAuthenticated() bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.authenticated
}

// SetFilter заменяет текущий фильтр. Старые ключи кэша остаются до
// естественного истечения.
func (s *Store) SetFilter(filter query.CarFilter) {
	s.mu.Lock()
	s.filter = filter.Normalize()
	s.mu.Unlock()
}

// SetPage меняет номер текущей страницы.
func (s *Store) SetPage(page int) {
	s.mu.Lock()
	s.filter.Page = page
	s.filter = s.filter.Normalize()
	s.mu.Unlock()
}

// Filter возвращает текущий фильтр.
func (s *Store) Filter() query.CarFilter {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.filter
}

// View возвращает текущую отображаемую страницу выборки.
func (s *Store) View() ([]*entities.Car, int) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.view, s.totalPages
}

// FetchCars возвращает страницу по текущему фильтру: свежий кэш без
// сетевого вызова, иначе живой запрос с записью результата в кэш.
func (s *Store) FetchCars(ctx context.Context) ([]*entities.Car, int, error) {
	filter := s.Filter()
	key := KeyFor(filter)

	if page, ok := s.cache.Get(key); ok {
		s.setView(page)
		return page.Cars, page.TotalPages, nil
	}

	page, err := s.api.ListCars(ctx, filter)
	if err != nil {
		return nil, 0, err
	}

	s.cache.Put(key, page)
	s.setView(page)
	return page.Cars, page.TotalPages, nil
}

// FetchFilterOptions возвращает доступные значения фильтров.
func (s *Store) FetchFilterOptions(ctx context.Context) (*entities.FilterOptions, error) {
	return s.api.GetFilterOptions(ctx)
}

// ApplyBroadcast безусловно заменяет отображаемую выборку снимком из
// широковещательного события, минуя кэш.
func (s *Store) ApplyBroadcast(cars []*entities.Car) {
	s.mu.Lock()
	s.view = cars
	s.mu.Unlock()
}

// CreateCar создает запись через REST клиент. Требует активной сессии.
func (s *Store) CreateCar(ctx context.Context, car *entities.Car) (*entities.Car, error) {
	if !s.IsAuthenticated() {
		return nil, ErrNotAuthenticated
	}
	return s.api.CreateCar(ctx, car)
}

// UpdateCar обновляет запись через REST клиент. Требует активной сессии.
func (s *Store) UpdateCar(ctx context.Context, id string, patch *entities.CarPatch) (*entities.Car, error) {
	if !s.IsAuthenticated() {
		return nil, ErrNotAuthenticated
	}
	return s.api.UpdateCar(ctx, id, patch)
}

// DeleteCar удаляет запись через REST клиент. Требует активной сессии.
func (s *Store) DeleteCar(ctx context.Context, id string) error {
	if !s.IsAuthenticated() {
		return ErrNotAuthenticated
	}
	return s.api.DeleteCar(ctx, id)
}

func (s *Store) setView(page *entities.CarPage) {
	s.mu.Lock()
	s.view = page.Cars
	s.totalPages = page.TotalPages
	s.mu.Unlock()
}
