package service_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"alumni-connect-backend/internal/domain"
)

func TestConnectionService_Request(t *testing.T) {
	ctx := context.Background()

	t.Run("Creates pending and notifies recipient", func(t *testing.T) {
		env := newTestEnv(t)
		ann := env.alumnus(t, "Ann", "ann@example.org")
		bob := env.alumnus(t, "Bob", "bob@example.org")

		conn, err := env.svcs.Connection.Request(ctx, ann.ID, bob.ID, " hello ")
		require.NoError(t, err)
		assert.Equal(t, domain.ConnectionStatusPending, conn.Status)
		assert.Equal(t, "hello", conn.Message)

		notes := env.notificationsFor(bob.Email)
		require.Len(t, notes, 1)
		assert.Equal(t, domain.NotificationConnectionRequest, notes[0].Type)
		assert.Contains(t, notes[0].Message, "Ann")
	})

	t.Run("Idempotent in either direction", func(t *testing.T) {
		env := newTestEnv(t)
		ann := env.alumnus(t, "Ann", "ann@example.org")
		bob := env.alumnus(t, "Bob", "bob@example.org")

		first, err := env.svcs.Connection.Request(ctx, ann.ID, bob.ID, "")
		require.NoError(t, err)
		again, err := env.svcs.Connection.Request(ctx, ann.ID, bob.ID, "")
		require.NoError(t, err)
		reverse, err := env.svcs.Connection.Request(ctx, bob.ID, ann.ID, "")
		require.NoError(t, err)

		assert.Equal(t, first.ID, again.ID)
		assert.Equal(t, first.ID, reverse.ID)
		assert.Equal(t, 1, env.stores.Connections.Count())
		assert.Len(t, env.notificationsFor(bob.Email), 1)
		assert.Empty(t, env.notificationsFor(ann.Email))
	})

	t.Run("Self connection", func(t *testing.T) {
		env := newTestEnv(t)
		ann := env.alumnus(t, "Ann", "ann@example.org")
		_, err := env.svcs.Connection.Request(ctx, ann.ID, ann.ID, "")
		assert.ErrorIs(t, err, domain.ErrConstraintViolation)
		assert.Zero(t, env.stores.Connections.Count())
	})

	t.Run("Unknown recipient", func(t *testing.T) {
		env := newTestEnv(t)
		ann := env.alumnus(t, "Ann", "ann@example.org")
		_, err := env.svcs.Connection.Request(ctx, ann.ID, "alm_missing", "")
		assert.ErrorIs(t, err, domain.ErrNotFound)
	})
}

func TestConnectionService_Respond(t *testing.T) {
	ctx := context.Background()

	t.Run("Recipient accepts", func(t *testing.T) {
		env := newTestEnv(t)
		ann := env.alumnus(t, "Ann", "ann@example.org")
		bob := env.alumnus(t, "Bob", "bob@example.org")
		_, err := env.svcs.Connection.Request(ctx, ann.ID, bob.ID, "")
		require.NoError(t, err)

		conn, err := env.svcs.Connection.Respond(ctx, domain.Actor{UserID: bob.ID}, ann.ID, bob.ID, domain.ConnectionStatusAccepted)
		require.NoError(t, err)
		assert.Equal(t, domain.ConnectionStatusAccepted, conn.Status)

		notes := env.notificationsFor(ann.Email)
		require.Len(t, notes, 1)
		assert.Equal(t, domain.NotificationConnectionAccepted, notes[0].Type)

		accepted, err := env.svcs.Connection.ListForUser(ctx, ann.ID, domain.ConnectionStatusAccepted)
		require.NoError(t, err)
		assert.Len(t, accepted, 1)
	})

	t.Run("Requester cannot respond", func(t *testing.T) {
		env := newTestEnv(t)
		ann := env.alumnus(t, "Ann", "ann@example.org")
		bob := env.alumnus(t, "Bob", "bob@example.org")
		_, err := env.svcs.Connection.Request(ctx, ann.ID, bob.ID, "")
		require.NoError(t, err)

		_, err = env.svcs.Connection.Respond(ctx, domain.Actor{UserID: ann.ID}, ann.ID, bob.ID, domain.ConnectionStatusAccepted)
		assert.ErrorIs(t, err, domain.ErrForbidden)
	})

	t.Run("Only pending connections can be answered", func(t *testing.T) {
		env := newTestEnv(t)
		ann := env.alumnus(t, "Ann", "ann@example.org")
		bob := env.alumnus(t, "Bob", "bob@example.org")
		_, err := env.svcs.Connection.Request(ctx, ann.ID, bob.ID, "")
		require.NoError(t, err)
		_, err = env.svcs.Connection.Respond(ctx, admin, ann.ID, bob.ID, domain.ConnectionStatusRejected)
		require.NoError(t, err)

		_, err = env.svcs.Connection.Respond(ctx, admin, ann.ID, bob.ID, domain.ConnectionStatusAccepted)
		assert.ErrorIs(t, err, domain.ErrInvalidTransition)
		assert.Empty(t, env.notificationsFor(ann.Email))
	})

	t.Run("Invalid response status", func(t *testing.T) {
		env := newTestEnv(t)
		_, err := env.svcs.Connection.Respond(ctx, admin, "a", "b", domain.ConnectionStatusPending)
		assert.ErrorIs(t, err, domain.ErrConstraintViolation)
	})

	t.Run("Missing connection", func(t *testing.T) {
		env := newTestEnv(t)
		_, err := env.svcs.Connection.Respond(ctx, admin, "a", "b", domain.ConnectionStatusAccepted)
		assert.ErrorIs(t, err, domain.ErrNotFound)
	})
}

func TestConnectionService_Remove(t *testing.T) {
	ctx := context.Background()
	env := newTestEnv(t)
	ann := env.alumnus(t, "Ann", "ann@example.org")
	bob := env.alumnus(t, "Bob", "bob@example.org")
	_, err := env.svcs.Connection.Request(ctx, ann.ID, bob.ID, "")
	require.NoError(t, err)

	err = env.svcs.Connection.Remove(ctx, stranger, ann.ID, bob.ID)
	assert.ErrorIs(t, err, domain.ErrForbidden)

	require.NoError(t, env.svcs.Connection.Remove(ctx, domain.Actor{UserID: bob.ID}, bob.ID, ann.ID))
	_, err = env.svcs.Connection.Between(ctx, ann.ID, bob.ID)
	assert.ErrorIs(t, err, domain.ErrNotFound)
}
