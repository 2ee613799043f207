package handlers

import (
	"bytes"
	"encoding/json"
	"errors"
	"net/http"
	"strconv"
	"time"

	"github.com/m04kA/SMC-AppointmentService/internal/domain"
)

const (
	msgInternalError = "внутренняя ошибка сервера"
	msgUnavailable   = "хранилище временно недоступно, повторите запрос"
)

// KindUnauthorized вид ошибки для запросов без идентификации пользователя
const KindUnauthorized domain.ErrorKind = "UNAUTHORIZED"

// ErrorResponse тело ответа с ошибкой
type ErrorResponse struct {
	Kind    domain.ErrorKind `json:"kind"`
	Message string           `json:"message"`
	ResetAt *string          `json:"resetAt,omitempty"`
}

// DecodeJSON декодирует тело запроса, неизвестные поля считаются ошибкой
func DecodeJSON(r *http.Request, v interface{}) error {
	decoder := json.NewDecoder(r.Body)
	decoder.DisallowUnknownFields()
	return decoder.Decode(v)
}

// DecodeJSONBytes как DecodeJSON, для уже прочитанного тела (UnmarshalJSON моделей)
func DecodeJSONBytes(data []byte, v interface{}) error {
	decoder := json.NewDecoder(bytes.NewReader(data))
	decoder.DisallowUnknownFields()
	return decoder.Decode(v)
}

// RespondJSON отправляет JSON ответ
func RespondJSON(w http.ResponseWriter, status int, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if data != nil {
		_ = json.NewEncoder(w).Encode(data)
	}
}

// RespondError отправляет ошибку указанного вида
func RespondError(w http.ResponseWriter, status int, kind domain.ErrorKind, message string) {
	RespondJSON(w, status, ErrorResponse{Kind: kind, Message: message})
}

func RespondBadRequest(w http.ResponseWriter, message string) {
	RespondError(w, http.StatusBadRequest, domain.KindValidation, message)
}

func RespondUnauthorized(w http.ResponseWriter, message string) {
	RespondError(w, http.StatusUnauthorized, KindUnauthorized, message)
}

func RespondInternalError(w http.ResponseWriter) {
	RespondError(w, http.StatusInternalServerError, domain.KindInternal, msgInternalError)
}

// RespondTooManyRequests отправляет 429 с моментом сброса окна
func RespondTooManyRequests(w http.ResponseWriter, message string, resetAt time.Time) {
	retryAfter := int(time.Until(resetAt).Seconds()) + 1
	if retryAfter < 1 {
		retryAfter = 1
	}
	reset := resetAt.UTC().Format(time.RFC3339)

	w.Header().Set("Retry-After", strconv.Itoa(retryAfter))
	RespondJSON(w, http.StatusTooManyRequests, ErrorResponse{
		Kind:    domain.KindRateLimited,
		Message: message,
		ResetAt: &reset,
	})
}

// StatusOf HTTP статус для вида ошибки
func StatusOf(kind domain.ErrorKind) int {
	switch kind {
	case domain.KindValidation:
		return http.StatusBadRequest
	case domain.KindPermission:
		return http.StatusForbidden
	case domain.KindNotFound:
		return http.StatusNotFound
	case domain.KindConflict:
		return http.StatusConflict
	case domain.KindRateLimited:
		return http.StatusTooManyRequests
	case domain.KindPersistence:
		return http.StatusServiceUnavailable
	case KindUnauthorized:
		return http.StatusUnauthorized
	default:
		return http.StatusInternalServerError
	}
}

// RespondDomainError отправляет ошибку по её виду
// messages задаёт текст для конкретных сентинел-ошибок, иначе используется текст по виду.
// Текст внутренних ошибок клиенту не отправляется.
// Для *domain.RateLimitError отправляется 429 с моментом сброса окна.
func RespondDomainError(w http.ResponseWriter, err error, messages map[error]string) {
	kind := domain.KindOf(err)

	message, ok := messageFor(err, messages)
	if !ok {
		switch kind {
		case domain.KindPersistence:
			message = msgUnavailable
		case domain.KindInternal:
			RespondInternalError(w)
			return
		default:
			message = defaultMessage(kind)
		}
	}

	var limited *domain.RateLimitError
	if errors.As(err, &limited) {
		RespondTooManyRequests(w, message, limited.ResetAt)
		return
	}

	RespondError(w, StatusOf(kind), kind, message)
}

func messageFor(err error, messages map[error]string) (string, bool) {
	for target, msg := range messages {
		if errors.Is(err, target) {
			return msg, true
		}
	}
	return "", false
}

func defaultMessage(kind domain.ErrorKind) string {
	switch kind {
	case domain.KindValidation:
		return "некорректные данные запроса"
	case domain.KindPermission:
		return "доступ запрещен"
	case domain.KindNotFound:
		return "не найдено"
	case domain.KindConflict:
		return "конфликт с текущим состоянием"
	case domain.KindRateLimited:
		return "слишком много запросов"
	default:
		return msgInternalError
	}
}

// IsClientError возвращает true для ошибок, вызванных запросом клиента
// Такие ошибки логируются как Warn, остальные как Error
func IsClientError(err error) bool {
	switch domain.KindOf(err) {
	case domain.KindValidation, domain.KindPermission, domain.KindNotFound, domain.KindConflict, domain.KindRateLimited:
		return true
	}
	return false
}
