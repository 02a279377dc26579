// Package cars содержит HTTP обработчики каталога автомобилей.
package cars

import (
	"errors"
	"fmt"
	"net/http"
	"strconv"

	"github.com/gofiber/fiber/v3"
	"go.uber.org/zap"

	"carmarket/internal/inventory/domain/entities"
	"carmarket/internal/inventory/domain/query"
	"carmarket/internal/inventory/ports/api"
	"carmarket/internal/server/dto"
	"carmarket/pkg/logger"
)

// Константы для логирования.
const (
	LogHandlerList          = "car handler: list"
	LogHandlerGetByID       = "car handler: get by id"
	LogHandlerFilterOptions = "car handler: filter options"
	LogHandlerCreate        = "car handler: create"
	LogHandlerUpdate        = "car handler: update"
	LogHandlerDelete        = "car handler: delete"

	ErrorInvalidRequest       = "invalid request"
	ErrorFailedToServeRequest = "failed to serve request"

	MessageCarDeleted = "car deleted successfully"
)

// Вспомогательная функция для обработки ошибок HTTP.
func sendErrorResponse(ctx fiber.Ctx, statusCode int, message string) error {
	if err := ctx.Status(statusCode).JSON(fiber.Map{
		"error": message,
	}); err != nil {
		return fmt.Errorf("error sending response: %w", err)
	}
	return nil
}

// Handler содержит HTTP обработчики каталога.
type Handler struct {
	carUseCase      api.CarUseCase
	defaultPageSize int
}

// NewHandler создает новый экземпляр обработчика каталога.
func NewHandler(carUseCase api.CarUseCase, defaultPageSize int) *Handler {
	if defaultPageSize < 1 {
		defaultPageSize = query.DefaultPageSize
	}
	return &Handler{
		carUseCase:      carUseCase,
		defaultPageSize: defaultPageSize,
	}
}

// parseFilter собирает фильтр каталога из query-параметров запроса.
// Нечисловые значения числовых параметров игнорируются, а не отклоняются:
// такой запрос ведет себя как запрос без соответствующего критерия.
func (h *Handler) parseFilter(ctx fiber.Ctx) query.CarFilter {
	filter := query.CarFilter{
		Make:           ctx.Query("make"),
		Model:          ctx.Query("model"),
		ShippingStatus: ctx.Query("shippingStatus"),
	}

	filter.Page = query.DefaultPage
	if raw := ctx.Query("page"); raw != "" {
		if page, err := strconv.Atoi(raw); err == nil {
			filter.Page = page
		}
	}

	filter.PageSize = h.defaultPageSize
	if raw := ctx.Query("limit"); raw != "" {
		if size, err := strconv.Atoi(raw); err == nil {
			filter.PageSize = size
		}
	}

	if raw := ctx.Query("year"); raw != "" {
		if year, err := strconv.Atoi(raw); err == nil {
			filter.Year = year
		}
	}

	if raw := ctx.Query("minPrice"); raw != "" {
		if price, err := strconv.ParseFloat(raw, 64); err == nil {
			filter.MinPrice = &price
		}
	}

	if raw := ctx.Query("maxPrice"); raw != "" {
		if price, err := strconv.ParseFloat(raw, 64); err == nil {
			filter.MaxPrice = &price
		}
	}

	return filter
}

// List возвращает страницу каталога с учетом критериев фильтрации.
func (h *Handler) List(ctx fiber.Ctx) error {
	requestCtx := ctx.Context()
	log := logger.Log(requestCtx)
	log.Info(requestCtx, LogHandlerList)

	page, err := h.carUseCase.List(requestCtx, h.parseFilter(ctx))
	if err != nil {
		log.Error(requestCtx, ErrorFailedToServeRequest, zap.Error(err))
		return sendErrorResponse(ctx, http.StatusInternalServerError, ErrorFailedToServeRequest)
	}

	if err := ctx.Status(http.StatusOK).JSON(page); err != nil {
		return fmt.Errorf("sending response: %w", err)
	}
	return nil
}

// GetFilterOptions возвращает доступные значения критериев фильтрации.
func (h *Handler) GetFilterOptions(ctx fiber.Ctx) error {
	requestCtx := ctx.Context()
	log := logger.Log(requestCtx)
	log.Info(requestCtx, LogHandlerFilterOptions)

	options, err := h.carUseCase.GetFilterOptions(requestCtx)
	if err != nil {
		log.Error(requestCtx, ErrorFailedToServeRequest, zap.Error(err))
		return sendErrorResponse(ctx, http.StatusInternalServerError, ErrorFailedToServeRequest)
	}

	if err := ctx.Status(http.StatusOK).JSON(options); err != nil {
		return fmt.Errorf("sending response: %w", err)
	}
	return nil
}

// GetByID возвращает одну запись каталога по идентификатору.
func (h *Handler) GetByID(ctx fiber.Ctx) error {
	requestCtx := ctx.Context()
	log := logger.Log(requestCtx)
	log.Info(requestCtx, LogHandlerGetByID)

	car, err := h.carUseCase.GetByID(requestCtx, ctx.Params("id"))
	if err != nil {
		if errors.Is(err, entities.ErrCarNotFound) {
			return sendErrorResponse(ctx, http.StatusNotFound, entities.ErrCarNotFound.Error())
		}
		log.Error(requestCtx, ErrorFailedToServeRequest, zap.Error(err))
		return sendErrorResponse(ctx, http.StatusInternalServerError, ErrorFailedToServeRequest)
	}

	if err := ctx.Status(http.StatusOK).JSON(car); err != nil {
		return fmt.Errorf("sending response: %w", err)
	}
	return nil
}

// Create создает новую запись каталога.
func (h *Handler) Create(ctx fiber.Ctx) error {
	requestCtx := ctx.Context()
	log := logger.Log(requestCtx)
	log.Info(requestCtx, LogHandlerCreate)

	var req dto.CreateCarRequest
	if err := ctx.Bind().JSON(&req); err != nil {
		log.Error(requestCtx, ErrorInvalidRequest, zap.Error(err))
		return sendErrorResponse(ctx, http.StatusBadRequest, ErrorInvalidRequest)
	}

	car, err := h.carUseCase.Create(requestCtx, req.ToEntity())
	if err != nil {
		log.Error(requestCtx, ErrorFailedToServeRequest, zap.Error(err))
		return sendCarError(ctx, err)
	}

	if err := ctx.Status(http.StatusCreated).JSON(car); err != nil {
		return fmt.Errorf("sending response: %w", err)
	}
	return nil
}

// Update частично обновляет существующую запись каталога.
func (h *Handler) Update(ctx fiber.Ctx) error {
	requestCtx := ctx.Context()
	log := logger.Log(requestCtx)
	log.Info(requestCtx, LogHandlerUpdate)

	var req dto.UpdateCarRequest
	if err := ctx.Bind().JSON(&req); err != nil {
		log.Error(requestCtx, ErrorInvalidRequest, zap.Error(err))
		return sendErrorResponse(ctx, http.StatusBadRequest, ErrorInvalidRequest)
	}

	car, err := h.carUseCase.Update(requestCtx, ctx.Params("id"), req.ToPatch())
	if err != nil {
		log.Error(requestCtx, ErrorFailedToServeRequest, zap.Error(err))
		return sendCarError(ctx, err)
	}

	if err := ctx.Status(http.StatusOK).JSON(car); err != nil {
		return fmt.Errorf("sending response: %w", err)
	}
	return nil
}

// Delete удаляет запись каталога.
func (h *Handler) Delete(ctx fiber.Ctx) error {
	requestCtx := ctx.Context()
	log := logger.Log(requestCtx)
	log.Info(requestCtx, LogHandlerDelete)

	if err := h.carUseCase.Delete(requestCtx, ctx.Params("id")); err != nil {
		log.Error(requestCtx, ErrorFailedToServeRequest, zap.Error(err))
		return sendCarError(ctx, err)
	}

	if err := ctx.Status(http.StatusOK).JSON(dto.MessageResponse{Message: MessageCarDeleted}); err != nil {
		return fmt.Errorf("sending response: %w", err)
	}
	return nil
}

// sendCarError переводит доменные ошибки каталога в HTTP статусы.
func sendCarError(ctx fiber.Ctx, err error) error {
	switch {
	case errors.Is(err, entities.ErrCarNotFound):
		return sendErrorResponse(ctx, http.StatusNotFound, entities.ErrCarNotFound.Error())
	case errors.Is(err, entities.ErrDuplicateVIN),
		errors.Is(err, entities.ErrMissingRequiredFields),
		errors.Is(err, entities.ErrInvalidYear),
		errors.Is(err, entities.ErrInvalidPrice),
		errors.Is(err, entities.ErrInvalidVIN),
		errors.Is(err, entities.ErrInvalidShippingStatus):
		return sendErrorResponse(ctx, http.StatusBadRequest, err.Error())
	default:
		return sendErrorResponse(ctx, http.StatusInternalServerError, ErrorFailedToServeRequest)
	}
}
