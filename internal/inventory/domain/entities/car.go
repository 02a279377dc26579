// Package entities содержит доменные сущности инвентаря автомобилей.
package entities

import (
	"errors"
	"regexp"
	"time"
)

// Ошибки домена автомобиля.
var (
	ErrCarNotFound           = errors.New("car not found")
	ErrDuplicateVIN          = errors.New("car with this VIN already exists")
	ErrMissingRequiredFields = errors.New("missing required fields")
	ErrInvalidYear           = errors.New("year must be between 1900 and the current year")
	ErrInvalidPrice          = errors.New("price must be non-negative")
	ErrInvalidVIN            = errors.New("VIN must be 17 characters excluding I, O and Q")
	ErrInvalidShippingStatus = errors.New("unknown shipping status")
)

// ShippingStatus - статус доставки автомобиля.
type ShippingStatus string

// Допустимые статусы доставки.
const (
	StatusPending   ShippingStatus = "Pending"
	StatusShipped   ShippingStatus = "Shipped"
	StatusDelivered ShippingStatus = "Delivered"
	StatusCancelled ShippingStatus = "Cancelled"
)

// Valid сообщает, является ли статус одним из перечисленных значений.
func (s ShippingStatus) Valid() bool {
	switch s {
	case StatusPending, StatusShipped, StatusDelivered, StatusCancelled:
		return true
	}
	return false
}

// Ограничения схемы автомобиля.
const (
	MinYear         = 1900
	DefaultCurrency = "AED"
	vinLength       = 17
)

// VIN не содержит букв I, O и Q.
var vinRegexp = regexp.MustCompile(`^[A-HJ-NPR-Z0-9]{17}$`)

// Car представляет одну запись о продаваемом автомобиле.
// ID назначается хранилищем и неизменяем; timestamps управляются сервисом.
type Car struct {
	ID             string         `json:"id"`
	Make           string         `json:"make"`
	Model          string         `json:"model"`
	Year           int            `json:"year"`
	Price          float64        `json:"price"`
	Currency       string         `json:"currency"`
	VIN            string         `json:"vin"`
	ShippingStatus ShippingStatus `json:"shippingStatus"`
	CreatedAt      time.Time      `json:"createdAt"`
	UpdatedAt      time.Time      `json:"updatedAt"`
}

// ApplyDefaults заполняет значения по умолчанию для необязательных полей.
func (c *Car) ApplyDefaults() {
	if c.Currency == "" {
		c.Currency = DefaultCurrency
	}
	if c.ShippingStatus == "" {
		c.ShippingStatus = StatusPending
	}
}

// Validate проверяет ограничения схемы перед сохранением.
func (c *Car) Validate() error {
	if c.Make == "" || c.Model == "" || c.Year == 0 || c.VIN == "" || c.Currency == "" {
		return ErrMissingRequiredFields
	}
	if c.Year < MinYear || c.Year > time.Now().Year() {
		return ErrInvalidYear
	}
	if c.Price < 0 {
		return ErrInvalidPrice
	}
	if err := ValidateVIN(c.VIN); err != nil {
		return err
	}
	if !c.ShippingStatus.Valid() {
		return ErrInvalidShippingStatus
	}
	return nil
}

// ValidateVIN проверяет формат VIN.
func ValidateVIN(vin string) error {
	if len(vin) != vinLength || !vinRegexp.MatchString(vin) {
		return ErrInvalidVIN
	}
	return nil
}

// CarPatch описывает частичное обновление записи.
// Поля со значением nil остаются без изменений.
type CarPatch struct {
	Make           *string         `json:"make"`
	Model          *string         `json:"model"`
	Year           *int            `json:"year"`
	Price          *float64        `json:"price"`
	Currency       *string         `json:"currency"`
	VIN            *string         `json:"vin"`
	ShippingStatus *ShippingStatus `json:"shippingStatus"`
}

// Apply накладывает заполненные поля patch на существующую запись.
func (p *CarPatch) Apply(car *Car) {
	if p.Make != nil {
		car.Make = *p.Make
	}
	if p.Model != nil {
		car.Model = *p.Model
	}
	if p.Year != nil {
		car.Year = *p.Year
	}
	if p.Price != nil {
		car.Price = *p.Price
	}
	if p.Currency != nil {
		car.Currency = *p.Currency
	}
	if p.VIN != nil {
		car.VIN = *p.VIN
	}
	if p.ShippingStatus != nil {
		car.ShippingStatus = *p.ShippingStatus
	}
}

// CarPage - одна страница результатов выборки.
type CarPage struct {
	Cars       []*Car `json:"cars"`
	TotalPages int    `json:"totalPages"`
}

// FilterOptions - различные значения, присутствующие в хранилище.
type FilterOptions struct {
	Makes  []string `json:"makes"`
	Models []string `json:"models"`
	Years  []int    `json:"years"`
}
