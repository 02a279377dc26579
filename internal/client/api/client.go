// Package api реализует REST клиент каталога.
package api

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"

	"carmarket/internal/inventory/domain/entities"
	"carmarket/internal/inventory/domain/query"
)

// Ошибки клиента.
var (
	ErrUnauthorized = errors.New("unauthorized")
	ErrNotFound     = errors.New("not found")
	ErrBadRequest   = errors.New("bad request")
	ErrServer       = errors.New("server error")
)

// Константы контекста ошибок.
const (
	errCtxBuildRequest = "building request"
	errCtxSendRequest  = "sending request"
	errCtxDecodeBody   = "decoding response body"
	errCtxEncodeBody   = "encoding request body"
)

// Client выполняет HTTP запросы к серверу каталога.
type Client struct {
	baseURL    string
	httpClient *http.Client
	token      string
}

// NewClient создает новый REST клиент.
func NewClient(baseURL string, httpClient *http.Client) *Client {
	if httpClient == nil {
		httpClient = http.DefaultClient
	}
	return &Client{
		baseURL:    baseURL,
		httpClient: httpClient,
	}
}

// SetToken устанавливает bearer-токен для последующих запросов.
func (c *Client) SetToken(token string) {
	c.token = token
}

// Token возвращает текущий bearer-токен.
func (c *Client) Token() string {
	return c.token
}

type tokenResponse struct {
	Token string `json:"token"`
}

type errorResponse struct {
	Error string `json:"error"`
}

type credentials struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

// Register регистрирует нового пользователя и сохраняет выданный токен.
func (c *Client) Register(ctx context.Context, email, password string) error {
	return c.authenticate(ctx, "/auth/register", email, password)
}

// Login выполняет вход и сохраняет выданный токен.
func (c *Client) Login(ctx context.Context, email, password string) error {
	return c.authenticate(ctx, "/auth/login", email, password)
}

func (c *Client) authenticate(ctx context.Context, path, email, password string) error {
	var resp tokenResponse
	if err := c.do(ctx, http.MethodPost, path, credentials{Email: email, Password: password}, &resp); err != nil {
		return err
	}
	c.token = resp.Token
	return nil
}

// Profile возвращает профиль текущего пользователя.
func (c *Client) Profile(ctx context.Context) (map[string]interface{}, error) {
	var profile map[string]interface{}
	if err := c.do(ctx, http.MethodGet, "/auth/profile", nil, &profile); err != nil {
		return nil, err
	}
	return profile, nil
}

// ListCars возвращает страницу каталога по фильтру.
func (c *Client) ListCars(ctx context.Context, filter query.CarFilter) (*entities.CarPage, error) {
	var page entities.CarPage
	if err := c.do(ctx, http.MethodGet, "/cars"+encodeFilter(filter), nil, &page); err != nil {
		return nil, err
	}
	return &page, nil
}

// GetCar возвращает одну запись каталога.
func (c *Client) GetCar(ctx context.Context, id string) (*entities.Car, error) {
	var car entities.Car
	if err := c.do(ctx, http.MethodGet, "/cars/"+url.PathEscape(id), nil, &car); err != nil {
		return nil, err
	}
	return &car, nil
}

// GetFilterOptions возвращает доступные значения фильтров.
func (c *Client) GetFilterOptions(ctx context.Context) (*entities.FilterOptions, error) {
	var options entities.FilterOptions
	if err := c.do(ctx, http.MethodGet, "/cars/filters", nil, &options); err != nil {
		return nil, err
	}
	return &options, nil
}

// CreateCar создает запись каталога.
func (c *Client) CreateCar(ctx context.Context, car *entities.Car) (*entities.Car, error) {
	var created entities.Car
	if err := c.do(ctx, http.MethodPost, "/cars", car, &created); err != nil {
		return nil, err
	}
	return &created, nil
}

// UpdateCar частично обновляет запись каталога.
func (c *Client) UpdateCar(ctx context.Context, id string, patch *entities.CarPatch) (*entities.Car, error) {
	var updated entities.Car
	if err := c.do(ctx, http.MethodPatch, "/cars/"+url.PathEscape(id), patch, &updated); err != nil {
		return nil, err
	}
	return &updated, nil
}

// DeleteCar удаляет запись каталога.
func (c *Client) DeleteCar(ctx context.Context, id string) error {
	return c.do(ctx, http.MethodDelete, "/cars/"+url.PathEscape(id), nil, nil)
}

func (c *Client) do(ctx context.Context, method, path string, body, out interface{}) error {
	var reader io.Reader
	if body != nil {
		encoded, err := json.Marshal(body)
		if err != nil {
			return fmt.Errorf("%s: %w", errCtxEncodeBody, err)
		}
		reader = bytes.NewReader(encoded)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, reader)
	if err != nil {
		return fmt.Errorf("%s: %w", errCtxBuildRequest, err)
	}
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if c.token != "" {
		req.Header.Set("Authorization", "Bearer "+c.token)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("%s: %w", errCtxSendRequest, err)
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode >= http.StatusBadRequest {
		return decodeError(resp)
	}

	if out == nil {
		return nil
	}
	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("%s: %w", errCtxDecodeBody, err)
	}
	return nil
}

func decodeError(resp *http.Response) error {
	var body errorResponse
	message := resp.Status
	if err := json.NewDecoder(resp.Body).Decode(&body); err == nil && body.Error != "" {
		message = body.Error
	}

	switch resp.StatusCode {
	case http.StatusUnauthorized:
		return fmt.Errorf("%w: %s", ErrUnauthorized, message)
	case http.StatusNotFound:
		return fmt.Errorf("%w: %s", ErrNotFound, message)
	case http.StatusBadRequest:
		return fmt.Errorf("%w: %s", ErrBadRequest, message)
	default:
		return fmt.Errorf("%w: %s", ErrServer, message)
	}
}

// encodeFilter переводит фильтр в строку query-параметров.
func encodeFilter(f query.CarFilter) string {
	values := url.Values{}
	if f.Page > 0 {
		values.Set("page", strconv.Itoa(f.Page))
	}
	if f.PageSize > 0 {
		values.Set("limit", strconv.Itoa(f.PageSize))
	}
	if f.Make != "" {
		values.Set("make", f.Make)
	}
	if f.Model != "" {
		values.Set("model", f.Model)
	}
	if f.Year != 0 {
		values.Set("year", strconv.Itoa(f.Year))
	}
	if f.MinPrice != nil {
		values.Set("minPrice", strconv.FormatFloat(*f.MinPrice, 'f', -1, 64))
	}
	if f.MaxPrice != nil {
		values.Set("maxPrice", strconv.FormatFloat(*f.MaxPrice, 'f', -1, 64))
	}
	if f.ShippingStatus != "" {
		values.Set("shippingStatus", f.ShippingStatus)
	}
	if len(values) == 0 {
		return ""
	}
	return "?" + values.Encode()
}
