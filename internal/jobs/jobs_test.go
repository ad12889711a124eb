package jobs

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gocloud.dev/blob/memblob"

	"alumni-connect-backend/internal/config"
	"alumni-connect-backend/internal/domain"
	"alumni-connect-backend/internal/repository"
	"alumni-connect-backend/internal/service"
	"alumni-connect-backend/internal/storage"
	"alumni-connect-backend/internal/store"
)

func newTestRunner(t *testing.T) (*JobRunner, *repository.Stores, *service.Services) {
	t.Helper()
	stores := repository.NewStores(store.Options{
		Mirror: storage.NewBucketMirror(memblob.OpenBucket(nil)),
	})
	svcs := service.NewServices(stores, nil)
	jr := NewJobRunner(svcs, &config.Config{})
	jr.now = func() time.Time { return time.Date(2024, 6, 1, 23, 30, 0, 0, time.UTC) }
	return jr, stores, svcs
}

func TestEventJobs(t *testing.T) {
	ctx := context.Background()
	jr, stores, svcs := newTestRunner(t)

	ann, err := svcs.Alumni.Create(ctx, service.CreateAlumniInput{
		Name: "Ann", Email: "ann@example.org", GraduationYear: 2010, Department: domain.DepartmentSTEM,
	})
	require.NoError(t, err)

	past, err := svcs.Event.Create(ctx, service.CreateEventInput{Title: "Past", Date: "2024-05-31"})
	require.NoError(t, err)
	tomorrow, err := svcs.Event.Create(ctx, service.CreateEventInput{Title: "Picnic", Date: "2024-06-02"})
	require.NoError(t, err)
	_, err = svcs.Event.RSVP(ctx, tomorrow.ID, ann.ID, 1)
	require.NoError(t, err)

	jr.RunAllDailyJobs()

	got, _ := stores.Events.Get(past.ID)
	assert.Equal(t, domain.EventStatusCompleted, got.Status)
	got, _ = stores.Events.Get(tomorrow.ID)
	assert.Equal(t, domain.EventStatusUpcoming, got.Status)

	reminders := stores.Notifications.Filter(func(n domain.Notification) bool {
		return n.Type == domain.NotificationEventReminder
	})
	require.Len(t, reminders, 1)
	assert.Equal(t, "ann@example.org", reminders[0].RecipientEmail)
}

func TestRefreshMentorStats(t *testing.T) {
	ctx := context.Background()
	jr, stores, svcs := newTestRunner(t)
	admin := domain.Actor{UserID: "admin", IsAdmin: true}

	m, err := svcs.Mentor.Add(ctx, admin, service.AddMentorInput{
		Name: "Mia", Email: "mia@example.org", MentorshipAreas: []string{"Career"},
	})
	require.NoError(t, err)
	_, err = stores.MentorshipRequests.Create(ctx, domain.MentorshipRequest{
		MentorID: m.ID, MentorEmail: m.Email, MenteeID: "s1", MenteeEmail: "s1@example.org",
		Area: "Career", Status: domain.MentorshipStatusCompleted, Rating: 4,
	})
	require.NoError(t, err)

	jr.RefreshMentorStats()

	got, ok := stores.Mentors.Get(m.ID)
	require.True(t, ok)
	assert.Equal(t, 4.0, got.Rating)
	assert.Equal(t, 1, got.TotalMentees)
}

func TestRunWithRecovery(t *testing.T) {
	jr, _, _ := newTestRunner(t)
	ran := false
	assert.NotPanics(t, func() {
		jr.runWithRecovery("Boom", func() {
			ran = true
			panic("boom")
		})
	})
	assert.True(t, ran)
}

func TestRun(t *testing.T) {
	jr, _, _ := newTestRunner(t)

	assert.Equal(t, []string{"all-daily", "complete-past-events", "refresh-mentor-stats", "send-event-reminders"}, jr.JobNames())
	assert.NoError(t, jr.Run("refresh-mentor-stats"))

	err := jr.Run("no-such-job")
	assert.ErrorIs(t, err, ErrUnknownJob)
}
