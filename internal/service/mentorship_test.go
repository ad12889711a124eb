package service_test

import (
	"context"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"alumni-connect-backend/internal/domain"
	"alumni-connect-backend/internal/service"
)

func requestInput(mentorID, menteeID string) service.RequestMentorshipInput {
	return service.RequestMentorshipInput{
		MentorID:    mentorID,
		MenteeID:    menteeID,
		MenteeEmail: menteeID + "@example.org",
		MenteeName:  "Mentee " + menteeID,
		Area:        "Career",
		Message:     "Hi!",
	}
}

func menteeActor(id string) domain.Actor {
	return domain.Actor{UserID: id, Email: id + "@example.org"}
}

func mentorActor(m *domain.ApprovedMentor) domain.Actor {
	return domain.Actor{UserID: m.UserID, Email: m.Email}
}

func TestMentorshipService_Request(t *testing.T) {
	ctx := context.Background()

	t.Run("Success notifies mentor", func(t *testing.T) {
		env := newTestEnv(t)
		m := env.mentor(t, "Mia", "mia@example.org")

		req, err := env.svcs.Mentorship.Request(ctx, requestInput(m.ID, "s1"))
		require.NoError(t, err)
		assert.Equal(t, domain.MentorshipStatusRequested, req.Status)
		assert.Equal(t, m.Email, req.MentorEmail)

		notes := env.notificationsFor(m.Email)
		require.Len(t, notes, 1)
		assert.Equal(t, domain.NotificationMentorshipRequest, notes[0].Type)
	})

	t.Run("Open duplicate rejected", func(t *testing.T) {
		env := newTestEnv(t)
		m := env.mentor(t, "Mia", "mia@example.org")
		_, err := env.svcs.Mentorship.Request(ctx, requestInput(m.ID, "s1"))
		require.NoError(t, err)

		_, err = env.svcs.Mentorship.Request(ctx, requestInput(m.ID, "s1"))
		assert.ErrorIs(t, err, domain.ErrConstraintViolation)
	})

	t.Run("Unavailable mentor", func(t *testing.T) {
		env := newTestEnv(t)
		m := env.mentor(t, "Mia", "mia@example.org")
		off := false
		_, err := env.svcs.Mentor.Update(ctx, mentorActor(m), m.ID, service.UpdateMentorInput{Available: &off})
		require.NoError(t, err)

		_, err = env.svcs.Mentorship.Request(ctx, requestInput(m.ID, "s1"))
		assert.ErrorIs(t, err, domain.ErrConstraintViolation)
	})

	t.Run("Self request", func(t *testing.T) {
		env := newTestEnv(t)
		m := env.mentor(t, "Mia", "mia@example.org")
		in := requestInput(m.ID, "x")
		in.MenteeEmail = "MIA@example.org"
		_, err := env.svcs.Mentorship.Request(ctx, in)
		assert.ErrorIs(t, err, domain.ErrConstraintViolation)
	})

	t.Run("Unknown mentor", func(t *testing.T) {
		env := newTestEnv(t)
		_, err := env.svcs.Mentorship.Request(ctx, requestInput("mnt_missing", "s1"))
		assert.ErrorIs(t, err, domain.ErrNotFound)
	})
}

func TestMentorshipService_Transitions(t *testing.T) {
	ctx := context.Background()

	setup := func(t *testing.T) (*testEnv, *domain.ApprovedMentor, *domain.MentorshipRequest) {
		env := newTestEnv(t)
		m := env.mentor(t, "Mia", "mia@example.org")
		req, err := env.svcs.Mentorship.Request(ctx, requestInput(m.ID, "s1"))
		require.NoError(t, err)
		return env, m, req
	}

	t.Run("Accept then complete", func(t *testing.T) {
		env, m, req := setup(t)

		accepted, err := env.svcs.Mentorship.Accept(ctx, mentorActor(m), req.ID)
		require.NoError(t, err)
		assert.Equal(t, domain.MentorshipStatusActive, accepted.Status)
		require.NotNil(t, accepted.RespondedAt)

		mentor, err := env.svcs.Mentor.Get(ctx, m.ID)
		require.NoError(t, err)
		assert.Equal(t, 1, mentor.TotalMentees)

		completed, err := env.svcs.Mentorship.Complete(ctx, menteeActor("s1"), req.ID)
		require.NoError(t, err)
		assert.Equal(t, domain.MentorshipStatusCompleted, completed.Status)

		mentor, err = env.svcs.Mentor.Get(ctx, m.ID)
		require.NoError(t, err)
		assert.Equal(t, 1, mentor.TotalMentees)

		notes := env.notificationsFor(m.Email)
		require.Len(t, notes, 2)
		assert.Equal(t, domain.NotificationMentorshipCompleted, notes[1].Type)
	})

	t.Run("Accept twice", func(t *testing.T) {
		env, m, req := setup(t)
		_, err := env.svcs.Mentorship.Accept(ctx, mentorActor(m), req.ID)
		require.NoError(t, err)
		_, err = env.svcs.Mentorship.Accept(ctx, mentorActor(m), req.ID)
		assert.ErrorIs(t, err, domain.ErrInvalidTransition)
	})

	t.Run("Decline from requested", func(t *testing.T) {
		env, m, req := setup(t)
		declined, err := env.svcs.Mentorship.Decline(ctx, mentorActor(m), req.ID, "No capacity")
		require.NoError(t, err)
		assert.Equal(t, domain.MentorshipStatusDeclined, declined.Status)
		assert.Equal(t, "No capacity", declined.DeclineReason)

		notes := env.notificationsFor("s1@example.org")
		require.Len(t, notes, 1)
		assert.Contains(t, notes[0].Message, "No capacity")
	})

	t.Run("Decline from active is not allowed", func(t *testing.T) {
		env, m, req := setup(t)
		_, err := env.svcs.Mentorship.Accept(ctx, mentorActor(m), req.ID)
		require.NoError(t, err)
		_, err = env.svcs.Mentorship.Decline(ctx, mentorActor(m), req.ID, "")
		assert.ErrorIs(t, err, domain.ErrInvalidTransition)
	})

	t.Run("Only mentor or admin accepts", func(t *testing.T) {
		env, _, req := setup(t)
		_, err := env.svcs.Mentorship.Accept(ctx, menteeActor("s1"), req.ID)
		assert.ErrorIs(t, err, domain.ErrForbidden)

		_, err = env.svcs.Mentorship.Accept(ctx, admin, req.ID)
		assert.NoError(t, err)
	})

	t.Run("Complete requires active", func(t *testing.T) {
		env, m, req := setup(t)
		_, err := env.svcs.Mentorship.Complete(ctx, mentorActor(m), req.ID)
		assert.ErrorIs(t, err, domain.ErrInvalidTransition)
	})

	t.Run("Stranger cannot complete", func(t *testing.T) {
		env, m, req := setup(t)
		_, err := env.svcs.Mentorship.Accept(ctx, mentorActor(m), req.ID)
		require.NoError(t, err)
		_, err = env.svcs.Mentorship.Complete(ctx, stranger, req.ID)
		assert.ErrorIs(t, err, domain.ErrForbidden)
	})

	t.Run("Closed request frees the pair", func(t *testing.T) {
		env, m, req := setup(t)
		_, err := env.svcs.Mentorship.Decline(ctx, mentorActor(m), req.ID, "")
		require.NoError(t, err)
		_, err = env.svcs.Mentorship.Request(ctx, requestInput(m.ID, "s1"))
		assert.NoError(t, err)
	})
}

func TestMentorshipService_Rate(t *testing.T) {
	ctx := context.Background()

	t.Run("Requested request cannot be rated", func(t *testing.T) {
		env := newTestEnv(t)
		m := env.mentor(t, "Mia", "mia@example.org")
		req, err := env.svcs.Mentorship.Request(ctx, requestInput(m.ID, "s1"))
		require.NoError(t, err)

		_, err = env.svcs.Mentorship.Rate(ctx, menteeActor("s1"), req.ID, 5, "")
		assert.ErrorIs(t, err, domain.ErrInvalidTransition)
	})

	t.Run("Declined request cannot be rated", func(t *testing.T) {
		env := newTestEnv(t)
		m := env.mentor(t, "Mia", "mia@example.org")
		req, err := env.svcs.Mentorship.Request(ctx, requestInput(m.ID, "s1"))
		require.NoError(t, err)
		_, err = env.svcs.Mentorship.Decline(ctx, mentorActor(m), req.ID, "")
		require.NoError(t, err)

		_, err = env.svcs.Mentorship.Rate(ctx, menteeActor("s1"), req.ID, 5, "")
		assert.ErrorIs(t, err, domain.ErrInvalidTransition)
	})

	t.Run("Mentor rating is the rounded mean of all ratings", func(t *testing.T) {
		env := newTestEnv(t)
		m := env.mentor(t, "Mia", "mia@example.org")

		ratings := []int{5, 4, 4}
		for i, r := range ratings {
			mentee := fmt.Sprintf("s%d", i)
			req, err := env.svcs.Mentorship.Request(ctx, requestInput(m.ID, mentee))
			require.NoError(t, err)
			_, err = env.svcs.Mentorship.Accept(ctx, mentorActor(m), req.ID)
			require.NoError(t, err)
			if i == 2 {
				_, err = env.svcs.Mentorship.Complete(ctx, menteeActor(mentee), req.ID)
				require.NoError(t, err)
			}
			rated, err := env.svcs.Mentorship.Rate(ctx, menteeActor(mentee), req.ID, r, "thanks")
			require.NoError(t, err)
			assert.Equal(t, r, rated.Rating)
		}

		mentor, err := env.svcs.Mentor.Get(ctx, m.ID)
		require.NoError(t, err)
		assert.Equal(t, 4.3, mentor.Rating)
		assert.Equal(t, 3, mentor.TotalMentees)
	})

	t.Run("Rating is clamped and re-rating recomputes", func(t *testing.T) {
		env := newTestEnv(t)
		m := env.mentor(t, "Mia", "mia@example.org")
		req, err := env.svcs.Mentorship.Request(ctx, requestInput(m.ID, "s1"))
		require.NoError(t, err)
		_, err = env.svcs.Mentorship.Accept(ctx, mentorActor(m), req.ID)
		require.NoError(t, err)

		rated, err := env.svcs.Mentorship.Rate(ctx, menteeActor("s1"), req.ID, 9, "")
		require.NoError(t, err)
		assert.Equal(t, 5, rated.Rating)

		rated, err = env.svcs.Mentorship.Rate(ctx, menteeActor("s1"), req.ID, -3, "")
		require.NoError(t, err)
		assert.Equal(t, 1, rated.Rating)

		mentor, err := env.svcs.Mentor.Get(ctx, m.ID)
		require.NoError(t, err)
		assert.Equal(t, 1.0, mentor.Rating)
	})

	t.Run("Only mentee or admin rates", func(t *testing.T) {
		env := newTestEnv(t)
		m := env.mentor(t, "Mia", "mia@example.org")
		req, err := env.svcs.Mentorship.Request(ctx, requestInput(m.ID, "s1"))
		require.NoError(t, err)
		_, err = env.svcs.Mentorship.Accept(ctx, mentorActor(m), req.ID)
		require.NoError(t, err)

		_, err = env.svcs.Mentorship.Rate(ctx, mentorActor(m), req.ID, 5, "")
		assert.ErrorIs(t, err, domain.ErrForbidden)
	})

	t.Run("RefreshStats repairs drifted totals", func(t *testing.T) {
		env := newTestEnv(t)
		m := env.mentor(t, "Mia", "mia@example.org")
		req, err := env.svcs.Mentorship.Request(ctx, requestInput(m.ID, "s1"))
		require.NoError(t, err)
		_, err = env.svcs.Mentorship.Accept(ctx, mentorActor(m), req.ID)
		require.NoError(t, err)
		_, err = env.svcs.Mentorship.Rate(ctx, menteeActor("s1"), req.ID, 4, "")
		require.NoError(t, err)

		_, err = env.stores.Mentors.Update(ctx, m.ID, func(m *domain.ApprovedMentor) error {
			m.Rating = 0
			m.TotalMentees = 0
			return nil
		})
		require.NoError(t, err)

		changed, err := env.svcs.Mentor.RefreshStats(ctx)
		require.NoError(t, err)
		assert.Equal(t, 1, changed)
		mentor, _ := env.svcs.Mentor.Get(ctx, m.ID)
		assert.Equal(t, 4.0, mentor.Rating)
		assert.Equal(t, 1, mentor.TotalMentees)
	})
}
