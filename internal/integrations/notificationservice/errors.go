package notificationservice

import "errors"

var (
	// ErrInternal возвращается при внутренних ошибках клиента
	ErrInternal = errors.New("notificationservice client: internal error")

	// ErrRejected возвращается, когда сервис уведомлений отклонил запрос
	ErrRejected = errors.New("notificationservice client: notification rejected")
)
