// Package broadcast реализует канал оповещений об изменениях инвентаря
// поверх Redis pub/sub.
package broadcast

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"

	"carmarket/internal/inventory/domain/entities"
	"carmarket/internal/inventory/ports/broadcast"
	"carmarket/pkg/logger"
)

// DefaultChannel - каноническое имя события об изменении инвентаря.
// Полезная нагрузка - полный текущий список автомобилей, не дельта.
const DefaultChannel = "carUpdated"

const (
	msgPublishingSnapshot = "publishing inventory snapshot"
	msgSnapshotPublished  = "inventory snapshot published"
	msgSubscribed         = "subscribed to inventory broadcasts"
	msgSubscriptionClosed = "inventory broadcast subscription closed"
	msgDroppedMessage     = "dropping malformed broadcast message"

	errMarshalSnapshot = "failed to marshal inventory snapshot"
	errPublishSnapshot = "failed to publish inventory snapshot"
)

// RedisPublisher реализует интерфейс broadcast.Publisher.
type RedisPublisher struct {
	client  *redis.Client
	channel string
}

// NewRedisPublisher создает нового издателя оповещений.
func NewRedisPublisher(client *redis.Client, channel string) broadcast.Publisher {
	if channel == "" {
		channel = DefaultChannel
	}
	return &RedisPublisher{client: client, channel: channel}
}

// PublishCars публикует полный список автомобилей. Доставка best-effort:
// отсутствие подписчиков не является ошибкой.
func (p *RedisPublisher) PublishCars(ctx context.Context, cars []*entities.Car) error {
	log := logger.Log(ctx).With(zap.String("channel", p.channel))
	log.Debug(ctx, msgPublishingSnapshot, zap.Int("cars", len(cars)))

	payload, err := json.Marshal(cars)
	if err != nil {
		log.Error(ctx, errMarshalSnapshot, zap.Error(err))
		return fmt.Errorf("%s: %w", errMarshalSnapshot, err)
	}

	if err := p.client.Publish(ctx, p.channel, payload).Err(); err != nil {
		log.Error(ctx, errPublishSnapshot, zap.Error(err))
		return fmt.Errorf("%s: %w", errPublishSnapshot, err)
	}

	log.Debug(ctx, msgSnapshotPublished)
	return nil
}

// RedisSubscriber доставляет опубликованные снимки инвентаря.
type RedisSubscriber struct {
	client  *redis.Client
	channel string
}

// NewRedisSubscriber создает нового подписчика оповещений.
func NewRedisSubscriber(client *redis.Client, channel string) *RedisSubscriber {
	if channel == "" {
		channel = DefaultChannel
	}
	return &RedisSubscriber{client: client, channel: channel}
}

// Subscribe подписывается на канал и возвращает канал снимков.
// Канал закрывается при отмене контекста. Сообщения, которые не удается
// разобрать, пропускаются: следующий снимок полностью заменит состояние.
func (s *RedisSubscriber) Subscribe(ctx context.Context) (<-chan []*entities.Car, error) {
	log := logger.Log(ctx).With(zap.String("channel", s.channel))

	pubsub := s.client.Subscribe(ctx, s.channel)
	if _, err := pubsub.Receive(ctx); err != nil {
		return nil, fmt.Errorf("subscribing to channel %q: %w", s.channel, err)
	}

	log.Info(ctx, msgSubscribed)

	out := make(chan []*entities.Car)
	go func() {
		defer close(out)
		defer func() {
			_ = pubsub.Close()
			log.Debug(ctx, msgSubscriptionClosed)
		}()

		messages := pubsub.Channel()
		for {
			select {
			case <-ctx.Done():
				return
			case msg, ok := <-messages:
				if !ok {
					return
				}
				var cars []*entities.Car
				if err := json.Unmarshal([]byte(msg.Payload), &cars); err != nil {
					log.Warn(ctx, msgDroppedMessage, zap.Error(err))
					continue
				}
				select {
				case out <- cars:
				case <-ctx.Done():
					return
				}
			}
		}
	}()

	return out, nil
}
