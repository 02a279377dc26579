package events

import (
	"bufio"
	"fmt"

	"github.com/gofiber/fiber/v3"
	"github.com/valyala/fasthttp"

	"carmarket/pkg/logger"
)

// Константы для логирования.
const (
	LogStreamOpened = "event stream opened"
	LogStreamClosed = "event stream closed"
)

// NewStreamHandler создает обработчик server-sent events. Каждому
// подключенному клиенту отправляется каждый снимок каталога отдельным
// событием до разрыва соединения.
func NewStreamHandler(hub *Hub) fiber.Handler {
	return func(ctx fiber.Ctx) error {
		requestCtx := ctx.Context()
		log := logger.Log(requestCtx)
		log.Info(requestCtx, LogStreamOpened)

		ctx.Set(fiber.HeaderContentType, "text/event-stream")
		ctx.Set(fiber.HeaderCacheControl, "no-cache")
		ctx.Set(fiber.HeaderConnection, "keep-alive")

		snapshots, unsubscribe := hub.Subscribe()
		done := requestCtx.Done()

		ctx.RequestCtx().SetBodyStreamWriter(fasthttp.StreamWriter(func(w *bufio.Writer) {
			defer unsubscribe()

			for {
				select {
				case <-done:
					return
				case payload, ok := <-snapshots:
					if !ok {
						return
					}
					if _, err := fmt.Fprintf(w, "event: %s\ndata: %s\n\n", EventName, payload); err != nil {
						return
					}
					if err := w.Flush(); err != nil {
						return
					}
				}
			}
		}))

		return nil
	}
}
