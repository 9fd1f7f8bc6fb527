package domain

import "time"

// NotificationType is the closed set of notification kinds. Unknown values
// from storage decode to NotificationUnknown instead of leaking free text.
type NotificationType string

const (
	NotificationVote          NotificationType = "vote"
	NotificationSystem        NotificationType = "system"
	NotificationFriendRequest NotificationType = "friend_request"
	NotificationUnknown       NotificationType = "unknown"
)

// ParseNotificationType maps a stored tag to the closed enum
func ParseNotificationType(s string) NotificationType {
	switch NotificationType(s) {
	case NotificationVote, NotificationSystem, NotificationFriendRequest:
		return NotificationType(s)
	default:
		return NotificationUnknown
	}
}

// Notification is a per-recipient event. IsRead only ever transitions
// false -> true.
type Notification struct {
	ID          string                 `json:"id"`
	RecipientID string                 `json:"recipient_id"`
	Type        NotificationType       `json:"type"`
	Message     string                 `json:"message"`
	IsRead      bool                   `json:"is_read"`
	Metadata    map[string]interface{} `json:"metadata"`
	CreatedAt   time.Time              `json:"created_at"`
}

// VoteNotificationMessage is the fixed template for "you were chosen" events,
// embedding the question text as it read at vote time.
const VoteNotificationMessage = `누군가 당신에게 투표했습니다: "%s"`
