package repository

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gocloud.dev/blob/memblob"

	"alumni-connect-backend/internal/domain"
	"alumni-connect-backend/internal/storage"
	"alumni-connect-backend/internal/store"
)

var now = time.Date(2024, 5, 10, 9, 0, 0, 0, time.UTC)

func newTestStores(mirror storage.Mirror) *Stores {
	return NewStores(store.Options{
		Mirror: mirror,
		Clock:  func() time.Time { return now },
	})
}

func TestNewStores_Defaults(t *testing.T) {
	ctx := context.Background()
	s := newTestStores(storage.NewBucketMirror(memblob.OpenBucket(nil)))

	t.Run("Alumni completeness is derived", func(t *testing.T) {
		p, err := s.Alumni.Create(ctx, domain.AlumniProfile{
			Name:                "Jane Doe",
			Email:               " jane@example.org ",
			ProfileCompleteness: 100,
		})
		require.NoError(t, err)
		assert.Equal(t, "jane@example.org", p.Email)
		assert.Equal(t, domain.VerificationPending, p.VerificationStatus)
		assert.Equal(t, 15, p.ProfileCompleteness)
		assert.Regexp(t, `^alm_`, p.ID)
	})

	t.Run("Donation defaults", func(t *testing.T) {
		d, err := s.Donations.Create(ctx, domain.Donation{AlumniID: "alm_1", Amount: 25})
		require.NoError(t, err)
		assert.Equal(t, domain.DefaultDonationPurpose, d.Purpose)
		assert.Equal(t, "2024-05-10", d.Date)
		assert.Equal(t, domain.DonationStatusCompleted, d.Status)
	})

	t.Run("Workflow records start in their initial state", func(t *testing.T) {
		a, err := s.MentorApplications.Create(ctx, domain.MentorApplication{UserID: "u1"})
		require.NoError(t, err)
		assert.Equal(t, domain.ApplicationStatusPending, a.Status)

		r, err := s.MentorshipRequests.Create(ctx, domain.MentorshipRequest{MentorID: "m1"})
		require.NoError(t, err)
		assert.Equal(t, domain.MentorshipStatusRequested, r.Status)

		c, err := s.Connections.Create(ctx, domain.Connection{RequesterID: "a", RecipientID: "b"})
		require.NoError(t, err)
		assert.Equal(t, domain.ConnectionStatusPending, c.Status)
	})
}

type brokenMirror struct{}

func (brokenMirror) Read(context.Context, string) ([]byte, error) {
	return nil, storage.ErrNotExist
}

func (brokenMirror) Write(context.Context, string, []byte) error {
	return errors.New("read-only filesystem")
}

func TestStores_Stats(t *testing.T) {
	ctx := context.Background()
	s := newTestStores(brokenMirror{})

	_, err := s.Events.Create(ctx, domain.Event{Title: "Reunion"})
	require.NoError(t, err)

	stats := s.Stats()
	require.Len(t, stats, 10)
	assert.Equal(t, "alumni", stats[0].Name)
	assert.Equal(t, "events", stats[1].Name)
	assert.Equal(t, 1, stats[1].Records)
	assert.True(t, stats[1].Persist.Dirty)

	assert.Equal(t, []string{"events"}, s.Dirty())
}
