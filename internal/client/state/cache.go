// Package state хранит клиентское состояние сессии и кэш ответов каталога.
package state

import (
	"strconv"
	"sync"
	"time"

	"carmarket/internal/inventory/domain/entities"
	"carmarket/internal/inventory/domain/query"
)

// DefaultFreshness - окно свежести записи кэша.
const DefaultFreshness = 5 * time.Minute

// CacheKey однозначно описывает страницу выборки.
type CacheKey struct {
	Page           int
	PageSize       int
	Make           string
	Model          string
	Year           int
	MinPrice       string
	MaxPrice       string
	ShippingStatus string
}

// KeyFor строит ключ кэша из фильтра.
func KeyFor(f query.CarFilter) CacheKey {
	key := CacheKey{
		Page:           f.Page,
		PageSize:       f.PageSize,
		Make:           f.Make,
		Model:          f.Model,
		Year:           f.Year,
		ShippingStatus: f.ShippingStatus,
	}
	if f.MinPrice != nil {
		key.MinPrice = strconv.FormatFloat(*f.MinPrice, 'f', -1, 64)
	}
	if f.MaxPrice != nil {
		key.MaxPrice = strconv.FormatFloat(*f.MaxPrice, 'f', -1, 64)
	}
	return key
}

type cacheEntry struct {
	page     *entities.CarPage
	storedAt time.Time
}

// Cache - кэш страниц каталога с фиксированным окном свежести.
// Старые ключи не вытесняются до естественного истечения, рост памяти
// ограничен числом различных ключей за сессию.
type Cache struct {
	mu        sync.RWMutex
	freshness time.Duration
	entries   map[CacheKey]cacheEntry
	now       func() time.Time
}

// NewCache создает кэш с заданным окном свежести.
func NewCache(freshness time.Duration) *Cache {
	if freshness <= 0 {
		freshness = DefaultFreshness
	}
	return &Cache{
		freshness: freshness,
		entries:   make(map[CacheKey]cacheEntry),
		now:       time.Now,
	}
}

// Get возвращает закэшированную страницу, если запись свежая.
func (c *Cache) Get(key CacheKey) (*entities.CarPage, bool) {
	c.mu.RLock()
	entry, ok := c.entries[key]
	c.mu.RUnlock()

	if !ok {
		return nil, false
	}
	if c.now().Sub(entry.storedAt) > c.freshness {
		return nil, false
	}
	return entry.page, true
}

// Put сохраняет страницу в кэш.
func (c *Cache) Put(key CacheKey, page *entities.CarPage) {
	c.mu.Lock()
	c.entries[key] = cacheEntry{page: page, storedAt: c.now()}
	c.mu.Unlock()
}

// Len возвращает число записей, включая просроченные.
func (c *Cache) Len() int {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return len(c.entries)
}
