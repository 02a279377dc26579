// Package events раздает подключенным клиентам снимки каталога,
// опубликованные после каждой мутации.
package events

import (
	"context"
	"encoding/json"
	"sync"

	"go.uber.org/zap"

	"carmarket/internal/inventory/domain/entities"
	"carmarket/pkg/logger"
)

// EventName - имя события, под которым рассылается снимок каталога.
const EventName = "carUpdated"

// Константы для логирования.
const (
	LogHubStarted        = "event hub started"
	LogHubStopped        = "event hub stopped"
	ErrorMarshalSnapshot = "failed to marshal car snapshot"
)

// Hub хранит подписчиков и рассылает им сериализованные снимки каталога.
// Медленный подписчик не задерживает остальных: непрочитанный снимок
// замещается более новым.
type Hub struct {
	mu          sync.RWMutex
	subscribers map[chan []byte]struct{}
}

// NewHub создает новый экземпляр хаба.
func NewHub() *Hub {
	return &Hub{
		subscribers: make(map[chan []byte]struct{}),
	}
}

// Subscribe регистрирует нового подписчика. Возвращаемая функция снимает
// подписку и закрывает канал.
func (h *Hub) Subscribe() (<-chan []byte, func()) {
	ch := make(chan []byte, 1)

	h.mu.Lock()
	h.subscribers[ch] = struct{}{}
	h.mu.Unlock()

	unsubscribe := func() {
		h.mu.Lock()
		if _, ok := h.subscribers[ch]; ok {
			delete(h.subscribers, ch)
			close(ch)
		}
		h.mu.Unlock()
	}

	return ch, unsubscribe
}

// SubscriberCount возвращает число активных подписчиков.
func (h *Hub) SubscriberCount() int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.subscribers)
}

// Broadcast рассылает снимок каталога всем подписчикам.
func (h *Hub) Broadcast(cars []*entities.Car) error {
	if cars == nil {
		cars = []*entities.Car{}
	}

	payload, err := json.Marshal(cars)
	if err != nil {
		return err
	}

	h.mu.RLock()
	defer h.mu.RUnlock()

	for ch := range h.subscribers {
		select {
		case ch <- payload:
		default:
			// Подписчик не успел прочитать предыдущий снимок:
			// вытесняем его свежим.
			select {
			case <-ch:
			default:
			}
			select {
			case ch <- payload:
			default:
			}
		}
	}

	return nil
}

// Run читает снимки каталога из источника и рассылает их подписчикам
// до отмены контекста.
func (h *Hub) Run(ctx context.Context, snapshots <-chan []*entities.Car) {
	log := logger.Log(ctx)
	log.Info(ctx, LogHubStarted)

	for {
		select {
		case <-ctx.Done():
			log.Info(ctx, LogHubStopped)
			return
		case cars, ok := <-snapshots:
			if !ok {
				log.Info(ctx, LogHubStopped)
				return
			}
			if err := h.Broadcast(cars); err != nil {
				log.Error(ctx, ErrorMarshalSnapshot, zap.Error(err))
			}
		}
	}
}
