package dto

import (
	"carmarket/internal/inventory/domain/entities"
)

// CreateCarRequest - запрос на создание записи автомобиля.
type CreateCarRequest struct {
	Make           string  `json:"make"`
	Model          string  `json:"model"`
	Year           int     `json:"year"`
	Price          float64 `json:"price"`
	Currency       string  `json:"currency"`
	VIN            string  `json:"vin"`
	ShippingStatus string  `json:"shippingStatus"`
}

// ToEntity преобразует запрос в доменную сущность.
func (r *CreateCarRequest) ToEntity() *entities.Car {
	return &entities.Car{
		Make:           r.Make,
		Model:          r.Model,
		Year:           r.Year,
		Price:          r.Price,
		Currency:       r.Currency,
		VIN:            r.VIN,
		ShippingStatus: entities.ShippingStatus(r.ShippingStatus),
	}
}

// UpdateCarRequest - частичное обновление записи.
// Отсутствующие в теле поля остаются nil и не изменяют запись.
type UpdateCarRequest struct {
	Make           *string  `json:"make"`
	Model          *string  `json:"model"`
	Year           *int     `json:"year"`
	Price          *float64 `json:"price"`
	Currency       *string  `json:"currency"`
	VIN            *string  `json:"vin"`
	ShippingStatus *string  `json:"shippingStatus"`
}

// ToPatch преобразует запрос в доменный patch.
func (r *UpdateCarRequest) ToPatch() *entities.CarPatch {
	patch := &entities.CarPatch{
		Make:     r.Make,
		Model:    r.Model,
		Year:     r.Year,
		Price:    r.Price,
		Currency: r.Currency,
		VIN:      r.VIN,
	}
	if r.ShippingStatus != nil {
		status := entities.ShippingStatus(*r.ShippingStatus)
		patch.ShippingStatus = &status
	}
	return patch
}

// MessageResponse - ответ-подтверждение.
type MessageResponse struct {
	Message string `json:"message"`
}
