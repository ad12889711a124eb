package service_test

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"gocloud.dev/blob/memblob"

	"alumni-connect-backend/internal/domain"
	"alumni-connect-backend/internal/repository"
	"alumni-connect-backend/internal/service"
	"alumni-connect-backend/internal/storage"
	"alumni-connect-backend/internal/store"
)

type MockEmailService struct {
	mock.Mock
}

func (m *MockEmailService) SendNotificationEmail(ctx context.Context, email, name, subject, message, link string) error {
	args := m.Called(ctx, email, name, subject, message, link)
	return args.Error(0)
}

// tickingClock advances one second per reading so records get distinct times.
type tickingClock struct {
	mu  sync.Mutex
	now time.Time
}

func (c *tickingClock) Now() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.now = c.now.Add(time.Second)
	return c.now
}

var (
	admin    = domain.Actor{UserID: "admin-1", Email: "admin@example.org", IsAdmin: true}
	stranger = domain.Actor{UserID: "stranger", Email: "stranger@example.org"}
)

type testEnv struct {
	stores *repository.Stores
	svcs   *service.Services
	email  *MockEmailService
}

func newTestEnv(t *testing.T) *testEnv {
	t.Helper()
	email := new(MockEmailService)
	email.On("SendNotificationEmail", mock.Anything, mock.Anything, mock.Anything, mock.Anything, mock.Anything, mock.Anything).
		Return(nil).Maybe()

	clock := &tickingClock{now: time.Date(2024, 6, 1, 9, 0, 0, 0, time.UTC)}
	stores := repository.NewStores(store.Options{
		Mirror: storage.NewBucketMirror(memblob.OpenBucket(nil)),
		Clock:  clock.Now,
	})
	svcs := service.NewServices(stores, email)
	t.Cleanup(svcs.Notification.Drain)
	return &testEnv{stores: stores, svcs: svcs, email: email}
}

func (e *testEnv) alumnus(t *testing.T, name, email string) *domain.AlumniProfile {
	t.Helper()
	p, err := e.svcs.Alumni.Create(context.Background(), service.CreateAlumniInput{
		Name:           name,
		Email:          email,
		GraduationYear: 2015,
		Department:     domain.DepartmentSTEM,
	})
	require.NoError(t, err)
	return p
}

func (e *testEnv) mentor(t *testing.T, name, email string, areas ...string) *domain.ApprovedMentor {
	t.Helper()
	if len(areas) == 0 {
		areas = []string{"Career"}
	}
	m, err := e.svcs.Mentor.Add(context.Background(), admin, service.AddMentorInput{
		UserID:          "user-" + name,
		Name:            name,
		Email:           email,
		MentorshipAreas: areas,
	})
	require.NoError(t, err)
	return m
}

func (e *testEnv) notificationsFor(email string) []domain.Notification {
	return e.stores.Notifications.Filter(func(n domain.Notification) bool {
		return domain.SameEmail(n.RecipientEmail, email)
	})
}
