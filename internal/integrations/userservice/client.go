package userservice

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/m04kA/SMC-AppointmentService/internal/domain"
)

// Client клиент справочника врачей и пациентов (UserService)
type Client struct {
	baseURL    string
	httpClient *http.Client
	log        Logger
}

// NewClient создает новый экземпляр клиента UserService
func NewClient(baseURL string, timeout time.Duration, log Logger) *Client {
	return &Client{
		baseURL: baseURL,
		httpClient: &http.Client{
			Timeout: timeout,
		},
		log: log,
	}
}

// GetDoctor получает профиль врача по ID
func (c *Client) GetDoctor(ctx context.Context, doctorID int64) (*domain.Doctor, error) {
	url := fmt.Sprintf("%s/internal/doctors/%d", c.baseURL, doctorID)

	var doctor Doctor
	if err := c.get(ctx, url, ErrDoctorNotFound, &doctor); err != nil {
		return nil, err
	}

	return doctor.ToDomain(), nil
}

// GetPatient получает профиль пациента по ID
func (c *Client) GetPatient(ctx context.Context, patientID int64) (*domain.Patient, error) {
	url := fmt.Sprintf("%s/internal/patients/%d", c.baseURL, patientID)

	var patient Patient
	if err := c.get(ctx, url, ErrPatientNotFound, &patient); err != nil {
		return nil, err
	}

	return patient.ToDomain(), nil
}

// GetPatientByUserID получает профиль пациента по ID пользователя
func (c *Client) GetPatientByUserID(ctx context.Context, userID int64) (*domain.Patient, error) {
	url := fmt.Sprintf("%s/internal/users/%d/patient", c.baseURL, userID)

	var patient Patient
	if err := c.get(ctx, url, ErrPatientNotFound, &patient); err != nil {
		return nil, err
	}

	return patient.ToDomain(), nil
}

// get выполняет GET запрос и декодирует ответ в out
// На 404 возвращает notFound
func (c *Client) get(ctx context.Context, url string, notFound error, out interface{}) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return fmt.Errorf("%w: failed to create request: %v", ErrInternal, err)
	}

	req.Header.Set("Content-Type", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		c.log.Error("UserService request failed: url=%s, error=%v", url, err)
		return fmt.Errorf("%w: failed to execute request: %v", ErrInternal, err)
	}
	defer resp.Body.Close()

	// Обработка статус-кодов
	switch resp.StatusCode {
	case http.StatusOK:
		// Продолжаем обработку
	case http.StatusBadRequest:
		return fmt.Errorf("%w: invalid ID format", ErrInvalidResponse)
	case http.StatusNotFound:
		return notFound
	default:
		body, _ := io.ReadAll(resp.Body)
		return fmt.Errorf("%w: unexpected status code %d: %s", ErrInvalidResponse, resp.StatusCode, string(body))
	}

	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("%w: failed to decode response: %v", ErrInvalidResponse, err)
	}

	return nil
}
