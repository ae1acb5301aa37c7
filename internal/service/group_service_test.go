package service

import (
	"context"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/splitapp/backend/internal/models"
	"github.com/splitapp/backend/internal/storage"
)

func TestCreateGroupInvitesNonCreators(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()

	alice := seedVerifiedUser(t, env.store, "alice")
	bob := seedVerifiedUser(t, env.store, "bob")
	carol := seedVerifiedUser(t, env.store, "carol")

	// The creator and the duplicate entry must not produce invites.
	group, err := env.groups.CreateGroup(ctx, "Trip", alice.ID, []string{alice.ID, bob.ID, bob.ID, carol.ID})
	require.NoError(t, err)
	require.Equal(t, []string{alice.ID}, group.Members)

	for _, u := range []*models.User{bob, carol} {
		ns, err := env.groups.ListNotifications(ctx, u.ID)
		require.NoError(t, err)
		require.Len(t, ns, 1)
		require.Equal(t, models.NotifyGroupInvite, ns[0].Type)
		require.Equal(t, models.StatusPending, ns[0].Status)
		require.Equal(t, group.ID, ns[0].GroupID)
		require.Contains(t, ns[0].Message, "alice")
	}

	ns, err := env.groups.ListNotifications(ctx, alice.ID)
	require.NoError(t, err)
	require.Empty(t, ns)
}

func TestInviteExistingMemberRejected(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()

	alice := seedVerifiedUser(t, env.store, "alice")
	group, err := env.groups.CreateGroup(ctx, "Flat", alice.ID, nil)
	require.NoError(t, err)

	err = env.groups.InviteMember(ctx, group.ID, alice.ID, alice.ID)
	require.ErrorIs(t, err, ErrAlreadyMember)
}

func TestInviteAcceptAddsMemberIdempotently(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()

	alice := seedVerifiedUser(t, env.store, "alice")
	bob := seedVerifiedUser(t, env.store, "bob")

	group, err := env.groups.CreateGroup(ctx, "Flat", alice.ID, nil)
	require.NoError(t, err)
	require.NoError(t, env.groups.InviteMember(ctx, group.ID, bob.ID, alice.ID))

	ns, err := env.groups.ListNotifications(ctx, bob.ID)
	require.NoError(t, err)
	require.Len(t, ns, 1)
	inviteID := ns[0].ID

	require.NoError(t, env.groups.RespondToNotification(ctx, inviteID, models.StatusAccepted))
	// A retried acceptance must not error or duplicate the member.
	require.NoError(t, env.groups.RespondToNotification(ctx, inviteID, models.StatusAccepted))

	got, err := env.store.GetGroup(ctx, group.ID)
	require.NoError(t, err)
	require.ElementsMatch(t, []string{alice.ID, bob.ID}, got.Members)

	// Responded invites drop out of the listing but the row survives.
	ns, err = env.groups.ListNotifications(ctx, bob.ID)
	require.NoError(t, err)
	require.Empty(t, ns)
	n, err := env.store.GetNotification(ctx, inviteID)
	require.NoError(t, err)
	require.Equal(t, models.StatusAccepted, n.Status)

	env.drain()
	require.True(t, env.mailer.sentTo("welcome", bob.Email))
}

func TestInviteRejectLeavesMembershipAlone(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()

	alice := seedVerifiedUser(t, env.store, "alice")
	bob := seedVerifiedUser(t, env.store, "bob")

	group, err := env.groups.CreateGroup(ctx, "Flat", alice.ID, []string{bob.ID})
	require.NoError(t, err)

	ns, err := env.groups.ListNotifications(ctx, bob.ID)
	require.NoError(t, err)
	require.Len(t, ns, 1)

	require.NoError(t, env.groups.RespondToNotification(ctx, ns[0].ID, models.StatusRejected))

	got, err := env.store.GetGroup(ctx, group.ID)
	require.NoError(t, err)
	require.Equal(t, []string{alice.ID}, got.Members)

	env.drain()
	require.False(t, env.mailer.sentTo("welcome", bob.Email))
}

func TestInviteResponseMustBeTerminal(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()

	alice := seedVerifiedUser(t, env.store, "alice")
	bob := seedVerifiedUser(t, env.store, "bob")

	_, err := env.groups.CreateGroup(ctx, "Flat", alice.ID, []string{bob.ID})
	require.NoError(t, err)

	ns, err := env.groups.ListNotifications(ctx, bob.ID)
	require.NoError(t, err)
	require.Len(t, ns, 1)

	err = env.groups.RespondToNotification(ctx, ns[0].ID, models.StatusPending)
	require.ErrorIs(t, err, ErrInvalidResponse)
}

func TestRespondToNonInviteDeletes(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()

	alice := seedVerifiedUser(t, env.store, "alice")
	bob := seedVerifiedUser(t, env.store, "bob")

	require.NoError(t, env.groups.CreateNotification(ctx, bob.ID, alice.ID, "hello", models.NotifyInfo))

	ns, err := env.groups.ListNotifications(ctx, bob.ID)
	require.NoError(t, err)
	require.Len(t, ns, 1)

	// Any response value acknowledges and deletes a non-invite.
	require.NoError(t, env.groups.RespondToNotification(ctx, ns[0].ID, models.StatusAccepted))

	_, err = env.store.GetNotification(ctx, ns[0].ID)
	require.ErrorIs(t, err, storage.ErrNotFound)
}

func TestRemoveMember(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()

	alice := seedVerifiedUser(t, env.store, "alice")
	bob := seedVerifiedUser(t, env.store, "bob")

	group, err := env.groups.CreateGroup(ctx, "Flat", alice.ID, nil)
	require.NoError(t, err)
	require.NoError(t, env.store.AddGroupMember(ctx, group.ID, bob.ID))

	got, err := env.groups.RemoveMember(ctx, group.ID, bob.ID)
	require.NoError(t, err)
	require.Equal(t, []string{alice.ID}, got.Members)

	// Removal is a plain set edit; even the creator can be removed.
	got, err = env.groups.RemoveMember(ctx, group.ID, alice.ID)
	require.NoError(t, err)
	require.Empty(t, got.Members)
}

func TestSearchUsers(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()

	seedVerifiedUser(t, env.store, "alice")
	seedVerifiedUser(t, env.store, "alicia")
	seedVerifiedUser(t, env.store, "bob")

	users, err := env.groups.SearchUsers(ctx, "ali")
	require.NoError(t, err)
	require.Len(t, users, 2)

	users, err = env.groups.SearchUsers(ctx, "")
	require.NoError(t, err)
	require.Empty(t, users)
}
