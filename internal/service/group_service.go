package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/splitapp/backend/internal/dispatch"
	"github.com/splitapp/backend/internal/email"
	"github.com/splitapp/backend/internal/models"
	"github.com/splitapp/backend/internal/storage"
)

var (
	// ErrAlreadyMember is returned when inviting a user who is already in
	// the group.
	ErrAlreadyMember = errors.New("user already in group")

	// ErrInvalidResponse is returned for an invite response outside
	// ACCEPTED/REJECTED.
	ErrInvalidResponse = errors.New("response must be ACCEPTED or REJECTED")
)

// GroupService manages groups and the invite state machine that controls
// their membership.
//
// Membership only ever grows through a GROUP_INVITE notification moving
// PENDING → ACCEPTED. Removal is a direct set edit with no notification
// counterpart; the asymmetry is inherited behavior, kept as-is.
type GroupService struct {
	store      storage.Store
	mailer     email.Mailer
	dispatcher *dispatch.Dispatcher
	logger     *slog.Logger
}

// NewGroupService creates a new GroupService.
func NewGroupService(store storage.Store, mailer email.Mailer, dispatcher *dispatch.Dispatcher, logger *slog.Logger) *GroupService {
	return &GroupService{
		store:      store,
		mailer:     mailer,
		dispatcher: dispatcher,
		logger:     logger,
	}
}

// SearchUsers finds users by case-insensitive username substring.
func (s *GroupService) SearchUsers(ctx context.Context, query string) ([]*models.User, error) {
	if query == "" {
		return nil, nil
	}
	return s.store.SearchUsers(ctx, query)
}

// CreateGroup creates a group with the creator as its only member and sends
// a PENDING invite to every other listed user.
func (s *GroupService) CreateGroup(ctx context.Context, name, creatorID string, memberIDs []string) (*models.Group, error) {
	creator, err := s.store.GetUserByID(ctx, creatorID)
	if err != nil {
		return nil, fmt.Errorf("failed to look up creator: %w", err)
	}
	if creator == nil {
		return nil, ErrUserNotFound
	}

	group := &models.Group{
		Name:      name,
		CreatorID: creatorID,
		Members:   []string{creatorID},
	}
	if err := s.store.CreateGroup(ctx, group); err != nil {
		return nil, fmt.Errorf("failed to create group: %w", err)
	}

	var invites []*models.Notification
	seen := map[string]bool{creatorID: true}
	for _, memberID := range memberIDs {
		if seen[memberID] {
			continue
		}
		seen[memberID] = true
		invites = append(invites, &models.Notification{
			RecipientID: memberID,
			SenderID:    creatorID,
			Type:        models.NotifyGroupInvite,
			GroupID:     group.ID,
			Message:     fmt.Sprintf("%s invited you to join %q", creator.Username, name),
			Status:      models.StatusPending,
		})
	}
	if err := s.store.CreateNotifications(ctx, invites); err != nil {
		// The group exists; invite creation failing must not unwind it.
		s.logger.Warn("failed to create group invites", "group_id", group.ID, "error", err)
	}

	s.logger.Info("group created", "group_id", group.ID, "invites", len(invites))
	return group, nil
}

// ListUserGroups returns every group the user belongs to, newest-first.
func (s *GroupService) ListUserGroups(ctx context.Context, userID string) ([]*models.Group, error) {
	return s.store.ListGroupsByUser(ctx, userID)
}

// InviteMember sends a PENDING invite. Inviting an existing member is a
// conflict, enforced against the current member set.
func (s *GroupService) InviteMember(ctx context.Context, groupID, memberID, adminID string) error {
	group, err := s.store.GetGroup(ctx, groupID)
	if err != nil {
		return err
	}
	if group.HasMember(memberID) {
		return ErrAlreadyMember
	}

	admin, err := s.store.GetUserByID(ctx, adminID)
	if err != nil {
		return fmt.Errorf("failed to look up inviter: %w", err)
	}
	if admin == nil {
		return ErrUserNotFound
	}

	invite := &models.Notification{
		RecipientID: memberID,
		SenderID:    adminID,
		Type:        models.NotifyGroupInvite,
		GroupID:     groupID,
		Message:     fmt.Sprintf("%s invited you to join %q", admin.Username, group.Name),
		Status:      models.StatusPending,
	}
	if err := s.store.CreateNotification(ctx, invite); err != nil {
		return fmt.Errorf("failed to create invite: %w", err)
	}

	s.logger.Info("invite sent", "group_id", groupID, "member_id", memberID)
	return nil
}

// RemoveMember removes a user from a group's member set directly. This
// bypasses the invite state machine and may remove the creator.
func (s *GroupService) RemoveMember(ctx context.Context, groupID, memberID string) (*models.Group, error) {
	if err := s.store.RemoveGroupMember(ctx, groupID, memberID); err != nil {
		return nil, err
	}
	s.logger.Info("member removed", "group_id", groupID, "member_id", memberID)
	return s.store.GetGroup(ctx, groupID)
}

// ListNotifications returns a recipient's pending invites plus every
// non-invite notification, newest-first.
func (s *GroupService) ListNotifications(ctx context.Context, userID string) ([]*models.Notification, error) {
	return s.store.ListNotificationsByRecipient(ctx, userID)
}

// CreateNotification records a free-form INFO notification.
func (s *GroupService) CreateNotification(ctx context.Context, recipientID, senderID, message string, ntype models.NotificationType) error {
	if ntype == "" {
		ntype = models.NotifyInfo
	}
	status := models.StatusUnread
	if ntype == models.NotifyGroupInvite {
		status = models.StatusPending
	}
	n := &models.Notification{
		RecipientID: recipientID,
		SenderID:    senderID,
		Type:        ntype,
		Message:     message,
		Status:      status,
	}
	return s.store.CreateNotification(ctx, n)
}

// RespondToNotification drives the invite state machine.
//
// For GROUP_INVITE rows the PENDING status flips to ACCEPTED or REJECTED;
// acceptance then adds the recipient to the member set, idempotently, and
// fires a welcome mail. Any other notification type has no state machine:
// responding simply deletes the row.
func (s *GroupService) RespondToNotification(ctx context.Context, notificationID string, response models.NotificationStatus) error {
	n, err := s.store.GetNotification(ctx, notificationID)
	if err != nil {
		return err
	}

	if n.Type != models.NotifyGroupInvite {
		return s.store.DeleteNotification(ctx, notificationID)
	}

	if response != models.StatusAccepted && response != models.StatusRejected {
		return ErrInvalidResponse
	}

	if err := s.store.UpdateNotificationStatus(ctx, notificationID, response); err != nil {
		return err
	}

	if response != models.StatusAccepted {
		return nil
	}

	// Set semantics: re-acceptance is a no-op, never an error.
	if err := s.store.AddGroupMember(ctx, n.GroupID, n.RecipientID); err != nil {
		return fmt.Errorf("failed to add member: %w", err)
	}
	s.logger.Info("invite accepted", "group_id", n.GroupID, "member_id", n.RecipientID)

	recipientID := n.RecipientID
	groupID := n.GroupID
	s.dispatcher.Go("group-welcome-mail", func(ctx context.Context) error {
		user, err := s.store.GetUserByID(ctx, recipientID)
		if err != nil || user == nil {
			return fmt.Errorf("welcome mail: user %s unresolved: %w", recipientID, err)
		}
		group, err := s.store.GetGroup(ctx, groupID)
		if err != nil {
			return fmt.Errorf("welcome mail: group %s unresolved: %w", groupID, err)
		}
		return s.mailer.SendGroupWelcome(ctx, user.Email, user.Username, group.Name)
	})

	return nil
}
