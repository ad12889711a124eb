package service_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"alumni-connect-backend/internal/domain"
	"alumni-connect-backend/internal/service"
)

func TestAnalyticsService_Dashboard(t *testing.T) {
	ctx := context.Background()
	env := newTestEnv(t)
	ann := env.alumnus(t, "Ann", "ann@example.org")
	bob := env.alumnus(t, "Bob", "bob@example.org")
	cat, err := env.svcs.Alumni.Create(ctx, service.CreateAlumniInput{
		Name: "Cat", Email: "cat@example.org", GraduationYear: 1998, Department: domain.DepartmentHumanities,
	})
	require.NoError(t, err)

	_, err = env.svcs.Connection.Request(ctx, ann.ID, bob.ID, "")
	require.NoError(t, err)
	_, err = env.svcs.Connection.Respond(ctx, domain.Actor{UserID: bob.ID}, ann.ID, bob.ID, domain.ConnectionStatusAccepted)
	require.NoError(t, err)
	_, err = env.svcs.Connection.Request(ctx, cat.ID, ann.ID, "")
	require.NoError(t, err)

	_, err = env.svcs.Donation.Create(ctx, service.CreateDonationInput{AlumniID: ann.ID, Amount: 25})
	require.NoError(t, err)
	send(t, env, ann.Email, bob.Email, "hello")

	dash, err := env.svcs.Analytics.Dashboard(ctx)
	require.NoError(t, err)

	assert.Equal(t, 3, dash.Alumni.Total)
	require.Len(t, dash.Cohorts, 2)
	assert.Equal(t, "1990s", dash.Cohorts[0].Key)
	assert.Equal(t, "2010s", dash.Cohorts[1].Key)
	assert.Equal(t, 2, dash.Cohorts[1].Count)

	assert.Equal(t, 25.0, dash.Donations.TotalAmount)
	assert.Zero(t, dash.Events.Total)
	assert.Zero(t, dash.Mentorship.TotalMentors)

	assert.Equal(t, 2, dash.Engagement.Connections)
	assert.Equal(t, 1, dash.Engagement.AcceptedConnections)
	assert.Equal(t, 100, dash.Engagement.AcceptanceRate)
	assert.Equal(t, 1, dash.Engagement.Messages)
	// two connection requests, one acceptance, one receipt, one new message
	assert.Equal(t, 5, dash.Engagement.UnreadNotifications)
}
