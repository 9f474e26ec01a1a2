package models

// Notification channels as reported by the API.
const (
	NotificationChannelEmail   = "Email"
	NotificationChannelSMS     = "Sms"
	NotificationChannelWebPush = "WebPush"
)

// Notification is one row from GET /notifications/mine.
type Notification struct {
	ID        string  `json:"id"`
	UserID    string  `json:"userId"`
	Channel   string  `json:"channel"`
	Subject   string  `json:"subject"`
	Body      string  `json:"body"`
	Sent      bool    `json:"sent"`
	CreatedAt string  `json:"createdAt"`
	SentAt    *string `json:"sentAt,omitempty"`
}
