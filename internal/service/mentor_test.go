package service_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"alumni-connect-backend/internal/domain"
	"alumni-connect-backend/internal/service"
)

func TestMentorService_Add(t *testing.T) {
	ctx := context.Background()

	t.Run("Normalizes areas and records who added", func(t *testing.T) {
		env := newTestEnv(t)
		m, err := env.svcs.Mentor.Add(ctx, admin, service.AddMentorInput{
			Name:            " Grace ",
			Email:           "grace@example.org",
			MentorshipAreas: []string{" Go ", "go", "", "Leadership"},
		})
		require.NoError(t, err)
		assert.Equal(t, "Grace", m.Name)
		assert.Equal(t, []string{"Go", "Leadership"}, m.MentorshipAreas)
		assert.True(t, m.Available)
		assert.Equal(t, admin.UserID, m.AddedBy)
	})

	t.Run("Duplicate email", func(t *testing.T) {
		env := newTestEnv(t)
		env.mentor(t, "Grace", "grace@example.org")
		_, err := env.svcs.Mentor.Add(ctx, admin, service.AddMentorInput{
			Name: "Other", Email: "GRACE@example.org", MentorshipAreas: []string{"Go"},
		})
		assert.ErrorIs(t, err, domain.ErrConstraintViolation)
		assert.Equal(t, 1, env.stores.Mentors.Count())
	})

	t.Run("Non-admin forbidden", func(t *testing.T) {
		env := newTestEnv(t)
		_, err := env.svcs.Mentor.Add(ctx, stranger, service.AddMentorInput{
			Name: "Grace", Email: "grace@example.org", MentorshipAreas: []string{"Go"},
		})
		assert.ErrorIs(t, err, domain.ErrForbidden)
	})

	t.Run("Invalid input", func(t *testing.T) {
		env := newTestEnv(t)
		_, err := env.svcs.Mentor.Add(ctx, admin, service.AddMentorInput{Name: "Grace", Email: "not-an-email", MentorshipAreas: []string{"Go"}})
		assert.ErrorIs(t, err, domain.ErrConstraintViolation)

		_, err = env.svcs.Mentor.Add(ctx, admin, service.AddMentorInput{Name: "Grace", Email: "grace@example.org", MentorshipAreas: []string{" ", ""}})
		var cerr *domain.ConstraintError
		require.ErrorAs(t, err, &cerr)
		assert.Equal(t, "MentorshipAreas", cerr.Field)
		assert.Zero(t, env.stores.Mentors.Count())
	})
}

func TestMentorService_ListAndUpdate(t *testing.T) {
	ctx := context.Background()
	env := newTestEnv(t)
	grace := env.mentor(t, "Grace", "grace@example.org", "Go", "Leadership")
	linus := env.mentor(t, "Linus", "linus@example.org", "Kernel")

	t.Run("Area filter is case-insensitive", func(t *testing.T) {
		got, err := env.svcs.Mentor.List(ctx, service.MentorFilter{Area: "leadership"})
		require.NoError(t, err)
		require.Len(t, got, 1)
		assert.Equal(t, grace.ID, got[0].ID)
	})

	t.Run("Mentor can toggle availability", func(t *testing.T) {
		off := false
		self := domain.Actor{UserID: linus.UserID, Email: linus.Email}
		updated, err := env.svcs.Mentor.Update(ctx, self, linus.ID, service.UpdateMentorInput{Available: &off})
		require.NoError(t, err)
		assert.False(t, updated.Available)

		got, err := env.svcs.Mentor.List(ctx, service.MentorFilter{AvailableOnly: true})
		require.NoError(t, err)
		require.Len(t, got, 1)
		assert.Equal(t, grace.ID, got[0].ID)
	})

	t.Run("Stranger cannot update", func(t *testing.T) {
		_, err := env.svcs.Mentor.Update(ctx, stranger, grace.ID, service.UpdateMentorInput{MentorshipAreas: []string{"Finance"}})
		assert.ErrorIs(t, err, domain.ErrForbidden)
		got, err := env.svcs.Mentor.Get(ctx, grace.ID)
		require.NoError(t, err)
		assert.Equal(t, []string{"Go", "Leadership"}, got.MentorshipAreas)
	})

	t.Run("Areas cannot be emptied", func(t *testing.T) {
		_, err := env.svcs.Mentor.Update(ctx, admin, grace.ID, service.UpdateMentorInput{MentorshipAreas: []string{" "}})
		assert.ErrorIs(t, err, domain.ErrConstraintViolation)
	})

	t.Run("Lookup by email", func(t *testing.T) {
		got, err := env.svcs.Mentor.GetByEmail(ctx, "LINUS@example.org")
		require.NoError(t, err)
		assert.Equal(t, linus.ID, got.ID)
	})

	t.Run("Remove", func(t *testing.T) {
		assert.ErrorIs(t, env.svcs.Mentor.Remove(ctx, stranger, linus.ID), domain.ErrForbidden)
		require.NoError(t, env.svcs.Mentor.Remove(ctx, admin, linus.ID))
		assert.ErrorIs(t, env.svcs.Mentor.Remove(ctx, admin, linus.ID), domain.ErrNotFound)
		_, err := env.svcs.Mentor.Get(ctx, linus.ID)
		assert.ErrorIs(t, err, domain.ErrNotFound)
	})
}
