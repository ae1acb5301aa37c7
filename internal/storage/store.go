// Package storage provides abstractions for persistent data storage.
package storage

import (
	"context"
	"errors"

	"github.com/splitapp/backend/internal/models"
)

var (
	// ErrNotFound is returned when a referenced record does not exist.
	ErrNotFound = errors.New("record not found")

	// ErrDuplicate is returned when a unique constraint (username, email)
	// would be violated.
	ErrDuplicate = errors.New("record already exists")
)

// Store defines the persistence operations used by the services. The
// abstraction keeps the service layer independent of the storage backend.
//
// Expense and settlement records are append-only: there is deliberately no
// update or delete operation for them. Only group membership and
// notifications mutate after creation.
type Store interface {
	// CreateUser persists a new user. The ID and CreatedAt fields are
	// populated by the store. Returns ErrDuplicate if the username or
	// email is taken.
	CreateUser(ctx context.Context, user *models.User) error

	// UpdateUser overwrites an existing user record in place (used for
	// re-registration of a pending account and for verification).
	UpdateUser(ctx context.Context, user *models.User) error

	// GetUserByEmail retrieves a user by case-folded email.
	// Returns nil, nil if no such user exists.
	GetUserByEmail(ctx context.Context, email string) (*models.User, error)

	// GetUserByID retrieves a user by ID. Returns nil, nil on miss.
	GetUserByID(ctx context.Context, id string) (*models.User, error)

	// GetUsersByIDs retrieves multiple users keyed by ID. IDs that do not
	// resolve are omitted from the result, never an error.
	GetUsersByIDs(ctx context.Context, ids []string) (map[string]*models.User, error)

	// SearchUsers returns users whose username contains query,
	// case-insensitively.
	SearchUsers(ctx context.Context, query string) ([]*models.User, error)

	// CreateGroup persists a new group together with its initial member
	// set (the creator).
	CreateGroup(ctx context.Context, group *models.Group) error

	// GetGroup retrieves a group with its member set.
	GetGroup(ctx context.Context, groupID string) (*models.Group, error)

	// ListGroupsByUser returns every group the user is a member of,
	// newest-first.
	ListGroupsByUser(ctx context.Context, userID string) ([]*models.Group, error)

	// GetGroupsByIDs retrieves multiple groups keyed by ID; unresolved IDs
	// are omitted.
	GetGroupsByIDs(ctx context.Context, ids []string) (map[string]*models.Group, error)

	// AddGroupMember atomically adds a user to the member set. Adding an
	// existing member is a no-op.
	AddGroupMember(ctx context.Context, groupID, userID string) error

	// RemoveGroupMember atomically removes a user from the member set.
	RemoveGroupMember(ctx context.Context, groupID, userID string) error

	// CreateExpense appends an expense (or settlement) record with its
	// splits. ID and CreatedAt are populated by the store.
	CreateExpense(ctx context.Context, expense *models.Expense) error

	// ListExpensesByUser returns every record where the user is the payer
	// or a split debtor, across all groups, newest-first.
	ListExpensesByUser(ctx context.Context, userID string) ([]*models.Expense, error)

	// ListExpensesByGroup returns the records of exactly that group,
	// newest-first.
	ListExpensesByGroup(ctx context.Context, groupID string) ([]*models.Expense, error)

	// CreateNotification persists a single notification.
	CreateNotification(ctx context.Context, n *models.Notification) error

	// CreateNotifications persists a batch of notifications.
	CreateNotifications(ctx context.Context, ns []*models.Notification) error

	// GetNotification retrieves a notification by ID.
	GetNotification(ctx context.Context, id string) (*models.Notification, error)

	// ListNotificationsByRecipient returns the recipient's pending invites
	// plus every non-invite notification, newest-first.
	ListNotificationsByRecipient(ctx context.Context, userID string) ([]*models.Notification, error)

	// UpdateNotificationStatus flips a notification's status.
	UpdateNotificationStatus(ctx context.Context, id string, status models.NotificationStatus) error

	// DeleteNotification removes a notification.
	DeleteNotification(ctx context.Context, id string) error

	// Close releases any resources held by the store.
	Close() error
}
