package facilityregistry

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"
)

// Logger интерфейс для логирования
type Logger interface {
	Info(format string, v ...interface{})
	Warn(format string, v ...interface{})
	Error(format string, v ...interface{})
}

// Client клиент для работы с реестром муниципальных объектов
type Client struct {
	baseURL    string
	httpClient *http.Client
	log        Logger
}

// NewClient создает новый экземпляр клиента реестра объектов
func NewClient(baseURL string, timeout time.Duration, log Logger) *Client {
	return &Client{
		baseURL: baseURL,
		httpClient: &http.Client{
			Timeout: timeout,
		},
		log: log,
	}
}

// GetFacility получает объект по ID
func (c *Client) GetFacility(ctx context.Context, facilityID int64) (*Facility, error) {
	url := fmt.Sprintf("%s/internal/facilities/%d", c.baseURL, facilityID)

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, fmt.Errorf("%w: failed to create request: %v", ErrInternal, err)
	}

	req.Header.Set("Content-Type", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("%w: failed to execute request: %v", ErrInternal, err)
	}
	defer resp.Body.Close()

	// Обработка статус-кодов
	switch resp.StatusCode {
	case http.StatusOK:
		// Продолжаем обработку
	case http.StatusBadRequest:
		return nil, fmt.Errorf("%w: invalid facility ID format", ErrInvalidResponse)
	case http.StatusNotFound:
		return nil, ErrFacilityNotFound
	default:
		body, _ := io.ReadAll(resp.Body)
		return nil, fmt.Errorf("%w: unexpected status code %d: %s", ErrInvalidResponse, resp.StatusCode, string(body))
	}

	// Парсим ответ
	var facility Facility
	if err := json.NewDecoder(resp.Body).Decode(&facility); err != nil {
		return nil, fmt.Errorf("%w: failed to decode response: %v", ErrInvalidResponse, err)
	}

	return &facility, nil
}

// GetFacilityWithGracefulDegradation получает объект с graceful degradation.
// При недоступности реестра возвращает ErrServiceDegraded - бронирование
// продолжается с нулевыми наценками, а не падает целиком
func (c *Client) GetFacilityWithGracefulDegradation(ctx context.Context, facilityID int64) (*Facility, error) {
	c.log.Info("Fetching facility id=%d from registry", facilityID)

	facility, err := c.GetFacility(ctx, facilityID)
	if err != nil {
		// Критичная бизнес-ошибка (объект не существует) пробрасывается дальше
		if err == ErrFacilityNotFound {
			c.log.Info("Facility id=%d not found in registry", facilityID)
			return nil, err
		}

		// Для остальных ошибок (недоступность, timeout, ошибки парсинга)
		// применяем graceful degradation
		c.log.Error("Facility registry unavailable, applying graceful degradation for facility=%d: %v", facilityID, err)
		return nil, fmt.Errorf("%w: facility=%d, error=%v", ErrServiceDegraded, facilityID, err)
	}

	c.log.Info("Successfully fetched facility id=%d (%s)", facilityID, facility.Name)
	return facility, nil
}
