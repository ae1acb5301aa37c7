package models

// NotificationType classifies a notification.
type NotificationType string

const (
	// NotifyGroupInvite invitations drive the group membership state
	// machine; they are the only way Group.Members grows past the creator.
	NotifyGroupInvite NotificationType = "GROUP_INVITE"

	NotifyExpenseAdded NotificationType = "EXPENSE_ADDED"
	NotifySettlement   NotificationType = "SETTLEMENT"
	NotifyInfo         NotificationType = "INFO"
)

// NotificationStatus is the lifecycle state of a notification.
type NotificationStatus string

const (
	// StatusPending is the initial state of a GROUP_INVITE.
	StatusPending NotificationStatus = "PENDING"

	// StatusAccepted and StatusRejected are the terminal invite states.
	StatusAccepted NotificationStatus = "ACCEPTED"
	StatusRejected NotificationStatus = "REJECTED"

	// StatusUnread is used for non-invite notifications, which have no
	// state machine: acknowledging one deletes the row.
	StatusUnread NotificationStatus = "unread"
)

// Notification is an in-app message from one user to another, optionally
// tied to a group. GROUP_INVITE rows persist until responded; all other
// types are deleted once the recipient acknowledges them.
type Notification struct {
	// ID is the unique identifier for the notification (UUID format).
	ID string

	// RecipientID references the user the notification targets.
	RecipientID string

	// SenderID references the user whose action produced it.
	SenderID string

	// Type classifies the notification.
	Type NotificationType

	// GroupID references the related group, if any. Required for invites.
	GroupID string

	// Message is the free-text body shown to the recipient.
	Message string

	// Status is PENDING/ACCEPTED/REJECTED for invites, unread otherwise.
	Status NotificationStatus

	// CreatedAt is the Unix timestamp when the notification was created.
	CreatedAt int64
}
