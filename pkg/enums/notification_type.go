package enums

// NotificationType categorizes in-app notifications delivered to admins.
type NotificationType string

const (
	NotificationTypePublishedMixDeleted NotificationType = "published_mix_deleted"
	NotificationTypeGeneral             NotificationType = "general"
)

// IsValid reports whether the value matches the canonical notification enum.
func (t NotificationType) IsValid() bool {
	switch t {
	case NotificationTypePublishedMixDeleted, NotificationTypeGeneral:
		return true
	}
	return false
}
