// Package events реализует клиентскую подписку на события каталога.
package events

import (
	"bufio"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"strings"

	"go.uber.org/zap"

	"carmarket/internal/inventory/domain/entities"
	"carmarket/pkg/logger"
)

// EventName - имя события со снимком каталога.
const EventName = "carUpdated"

// Константы для логирования.
const (
	LogSubscribed         = "subscribed to car events"
	LogSubscriptionClosed = "car event subscription closed"
	ErrorMalformedPayload = "skipping malformed event payload"
)

// Константы контекста ошибок.
const (
	errCtxBuildRequest = "building event stream request"
	errCtxOpenStream   = "opening event stream"
)

// Subscriber читает server-sent events и отдает снимки каталога в канал.
// Подписка живет до отмены контекста или разрыва соединения.
type Subscriber struct {
	streamURL  string
	httpClient *http.Client
}

// NewSubscriber создает подписчика на поток событий.
func NewSubscriber(streamURL string, httpClient *http.Client) *Subscriber {
	if httpClient == nil {
		httpClient = http.DefaultClient
	}
	return &Subscriber{
		streamURL:  streamURL,
		httpClient: httpClient,
	}
}

// Subscribe открывает поток и возвращает канал снимков каталога.
// Канал закрывается при отмене контекста или обрыве потока.
func (s *Subscriber) Subscribe(ctx context.Context) (<-chan []*entities.Car, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, s.streamURL, nil)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", errCtxBuildRequest, err)
	}
	req.Header.Set("Accept", "text/event-stream")

	resp, err := s.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", errCtxOpenStream, err)
	}
	if resp.StatusCode != http.StatusOK {
		_ = resp.Body.Close()
		return nil, fmt.Errorf("%s: unexpected status %d", errCtxOpenStream, resp.StatusCode)
	}

	log := logger.Log(ctx)
	log.Info(ctx, LogSubscribed, zap.String("url", s.streamURL))

	snapshots := make(chan []*entities.Car)

	go func() {
		defer close(snapshots)
		defer func() { _ = resp.Body.Close() }()
		defer log.Info(ctx, LogSubscriptionClosed)

		scanner := bufio.NewScanner(resp.Body)
		scanner.Buffer(make([]byte, 0, 64*1024), 4*1024*1024)

		var eventName string
		var data strings.Builder

		for scanner.Scan() {
			line := scanner.Text()

			switch {
			case line == "":
				if eventName == EventName && data.Len() > 0 {
					var cars []*entities.Car
					if err := json.Unmarshal([]byte(data.String()), &cars); err != nil {
						log.Warn(ctx, ErrorMalformedPayload, zap.Error(err))
					} else {
						select {
						case snapshots <- cars:
						case <-ctx.Done():
							return
						}
					}
				}
				eventName = ""
				data.Reset()
			case strings.HasPrefix(line, "event:"):
				eventName = strings.TrimSpace(strings.TrimPrefix(line, "event:"))
			case strings.HasPrefix(line, "data:"):
				if data.Len() > 0 {
					data.WriteByte('\n')
				}
				data.WriteString(strings.TrimSpace(strings.TrimPrefix(line, "data:")))
			}
		}
	}()

	return snapshots, nil
}
