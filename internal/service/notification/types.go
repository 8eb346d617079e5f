package notification

import "time"

// Template types
const (
	TemplateMatchSuccess = "match_success"
	TemplateChatCreated  = "chat_created"
	TemplateReminder     = "reminder"
)

// Domain Models
type Settings struct {
	UserID                string    `json:"user_id"`
	MatchNotifications    bool      `json:"match_notifications"`
	ChatNotifications     bool      `json:"chat_notifications"`
	ReminderNotifications bool      `json:"reminder_notifications"`
	LineConnected         bool      `json:"line_connected"`
	UpdatedAt             time.Time `json:"updated_at"`
}

// DefaultSettings opts a user into everything except LINE delivery, which
// needs an explicit connection.
func DefaultSettings(userID string) Settings {
	return Settings{
		UserID:                userID,
		MatchNotifications:    true,
		ChatNotifications:     true,
		ReminderNotifications: true,
		LineConnected:         false,
	}
}

// Allows reports whether the user opted into the given template type.
func (s Settings) Allows(templateType string) bool {
	switch templateType {
	case TemplateMatchSuccess:
		return s.MatchNotifications
	case TemplateChatCreated:
		return s.ChatNotifications
	case TemplateReminder:
		return s.ReminderNotifications
	default:
		return false
	}
}

type Recipient struct {
	UserID     string
	LineUserID string
	Settings   Settings
}

type Template struct {
	Type string
	Data TemplateData
}

type TemplateData struct {
	Date        string
	Time        string
	Area        string
	Location    string
	MemberCount int
	ChatURL     string
}

type Message struct {
	Type string `json:"type"`
	Text string `json:"text"`
}

// MatchNotice describes a freshly persisted group.
type MatchNotice struct {
	GroupID       string
	EventDate     string
	EventTime     string
	AreaID        string
	MemberUserIDs []string
}

// JobResult is what the scheduled delivery jobs report back.
type JobResult struct {
	Message string `json:"message"`
	Groups  int    `json:"groups"`
	BulkResult
}

// WebhookEvent is the subset of a LINE webhook event this service reads.
type WebhookEvent struct {
	Type   string `json:"type"`
	Source struct {
		Type   string `json:"type"`
		UserID string `json:"userId"`
	} `json:"source"`
	Timestamp      int64  `json:"timestamp"`
	WebhookEventID string `json:"webhookEventId"`
}

type WebhookBody struct {
	Destination string         `json:"destination"`
	Events      []WebhookEvent `json:"events"`
}

type BulkResult struct {
	Sent    int `json:"sent"`
	Skipped int `json:"skipped"`
	Failed  int `json:"failed"`
}

func (r *BulkResult) Add(o BulkResult) {
	r.Sent += o.Sent
	r.Skipped += o.Skipped
	r.Failed += o.Failed
}

// DTOs
type UpdateSettingsRequest struct {
	MatchNotifications    *bool `json:"match_notifications" binding:"required"`
	ChatNotifications     *bool `json:"chat_notifications" binding:"required"`
	ReminderNotifications *bool `json:"reminder_notifications" binding:"required"`
	LineConnected         *bool `json:"line_connected" binding:"required"`
}

type SettingsResponse struct {
	Settings Settings `json:"settings"`
}
