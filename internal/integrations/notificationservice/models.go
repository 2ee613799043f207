package notificationservice

// PushRequest тело запроса на отправку уведомления
type PushRequest struct {
	UserID  int64  `json:"user_id"`
	Type    string `json:"type"`
	Title   string `json:"title"`
	Message string `json:"message"`
}
